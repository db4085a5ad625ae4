// Package msl implements Metal Shading Language (MSL) code generation for shaderlift.
//
// MSL is Apple's shader language for the Metal graphics API. It is based on C++14
// with extensions for GPU programming, including explicit address spaces, attribute-based
// parameter binding, and a metal:: namespace for standard library functions.
//
// # Usage
//
// To compile a WGSL shader to MSL:
//
//	ast, err := shaderlift.Parse(source)
//	if err != nil {
//	    return err
//	}
//	module, err := shaderlift.LowerWithSource(ast, source)
//	if err != nil {
//	    return err
//	}
//
//	options := msl.Options{
//	    LangVersion: msl.Version{Major: 2, Minor: 1},
//	}
//
//	mslCode, _, err := msl.Compile(module, options)
//	if err != nil {
//	    return err
//	}
//
// # MSL Language Versions
//
// Options.LangVersion names the target version; Version1_2 through
// Version3_0 are predefined and a zero value means 2.1. The writer emits
// the same source for every version: no feature is enabled or avoided
// because of the target version.
//
// # Type Mapping
//
// WGSL types map to MSL as follows:
//
//	WGSL           MSL
//	----           ---
//	bool           bool
//	i32            int
//	u32            uint
//	f32            float
//	f16            half
//	vec2<T>        metal::T2
//	vec3<T>        metal::T3
//	vec4<T>        metal::T4
//	mat4x4<f32>    metal::float4x4
//	array<T, N>    array<T, N>  (wrapped in struct)
//	texture_2d     metal::texture2d<float, metal::access::sample>
//	sampler        metal::sampler
//
// # Address Spaces
//
// WGSL address spaces map to MSL as:
//
//	uniform    -> constant
//	storage    -> device
//	private    -> thread
//	workgroup  -> threadgroup
//	function   -> thread (stack)
//
// # Entry Points
//
// Entry points are generated with appropriate stage keywords:
//   - vertex: Vertex shaders with [[stage_in]], [[vertex_id]], etc.
//   - fragment: Fragment shaders with [[position]], [[color(N)]], etc.
//   - kernel: Compute shaders with [[thread_position_in_grid]], etc.
//
// # Helper Functions
//
// Some WGSL operations require polyfill functions in MSL:
//   - _sl_div: Safe integer division (handles zero)
//   - _sl_mod: Safe integer modulo (handles zero)
package msl
