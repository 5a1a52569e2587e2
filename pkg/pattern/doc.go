// Package pattern plans the guide overlay of a handbook sheet.
//
// Given a page [Geometry] and [Params], [Plan] returns a lazy, finite
// sequence of drawing primitives that tile the margin-bounded printable
// rectangle:
//
//   - [Grid]: vertical segments left to right, then horizontal segments
//     bottom to top.
//   - [RuledLines]: horizontal segments only.
//   - [Dots]: one [Point] per grid intersection, columns left to right and
//     bottom to top within each column.
//
// # Coordinates
//
// The origin is the bottom-left page corner; x grows right and y grows up,
// which matches PDF page space. All lengths are in points.
//
// # Stepping
//
// Positions are computed as margin + i*spacing for an index bounded up front,
// never by repeated addition, so the planner always terminates and the last
// position lands exactly on width-margin when the spacing divides the
// printable span. A non-positive spacing is rejected with
// INVALID_PARAMETER. A margin that leaves no printable area is not an
// error; the plan is simply empty.
//
// # Usage
//
//	seq, err := pattern.Plan(pattern.Geometry{Width: 420, Height: 595},
//	    pattern.Params{Spacing: 14.17, Margin: 28.35, Style: pattern.Grid})
//	if err != nil {
//	    return err
//	}
//	for p := range seq {
//	    // draw p
//	}
package pattern
