// Package shaders holds the GLSL sources of the track viewer.
package shaders

import _ "embed"

//go:embed track.vert
var TrackVertexShader string

//go:embed track.frag
var TrackFragmentShader string

//go:embed city.vert
var CityVertexShader string

//go:embed city.frag
var CityFragmentShader string
