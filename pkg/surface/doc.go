// Package surface defines the drawing surface a handbook page is painted on
// and provides its implementations.
//
// # Overview
//
// The planner and compositor never touch files or encoders. They hand their
// results to a [Surface], which owns the stroke/fill state and knows how to
// serialize the finished page:
//
//   - [Canvas]: PDF or PNG output backed by tdewolff/canvas
//   - [Recorder]: records every call and serializes them as JSON
//
// [Render] dispatches a primitive sequence onto a surface: segments become
// [Surface.DrawLine] calls and points become filled circles.
//
// # Units
//
// Every coordinate and length passed to a Surface is in points with the
// origin at the bottom-left page corner. Canvas converts to the millimetres
// its backend works in.
//
// # Usage
//
//	s := surface.NewCanvas(geom, surface.WithFormat(surface.FormatPDF))
//	s.SetStrokeColor(rgb)
//	s.SetFillColor(rgb)
//	s.SetLineWidth(pattern.LineWidth)
//	surface.Render(s, seq)
//	err := s.Finalize(w)
package surface
