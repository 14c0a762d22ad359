// Package compositor provides the geometry, color and configuration types
// shared by a software compositor that rasterizes draw quads into CPU
// bitmaps.
//
// # Overview
//
// A frame is a list of render passes. Each pass holds quads: rectangles with
// a transform, an opacity, edge antialiasing flags and a material (solid
// color, texture, tile, picture, another pass's output, debug border).
// The renderer package draws the quads of every pass in order into a
// surface and hands the finished root pass to an output surface.
//
// # Packages
//
//   - renderer: frame driver, scissor handling and quad dispatch
//   - quad: quad data and materials
//   - resource: ID-addressed bitmaps and GPU textures with read/write locks
//   - surface: the CPU drawing canvas
//   - renderpass: render pass descriptions and the output cache
//   - output: output surfaces, frame payloads and copy requests
//   - picture: recorded drawing for picture content quads
//   - filter: image filters applied to render pass quads
//   - program: WGSL programs for the GPU presentation path
//   - hud: frame statistics overlay
//
// # Transforms
//
// Quads are placed with a 4x4 [Transform]. Drawing composes the window,
// projection and quad transforms with [ComposeDrawTransform] and flattens
// the result to a 3x3 [Matrix]. [Matrix.IsScaleAndIntegerTranslate] decides
// whether a quad can be drawn without antialiasing or filtering.
//
// # Logging
//
// Nothing is logged by default. Use [SetLogger] to route diagnostics to a
// [log/slog.Logger].
package compositor
