package edid

import "math"

// DiagonalSize is the screen diagonal derived from the physical width and
// height, rounded to one decimal place in each unit.
type DiagonalSize struct {
	MM     float64
	Inches float64
}

// diagonalSize computes the diagonal from width and height in millimetres.
// Returns nil for non-positive or non-finite inputs, so displays that leave
// the size bytes zero simply report no size.
func diagonalSize(widthMM, heightMM float64) *DiagonalSize {
	if !(widthMM > 0) || !(heightMM > 0) || math.IsInf(widthMM, 0) || math.IsInf(heightMM, 0) {
		return nil
	}
	diag := math.Hypot(widthMM, heightMM)
	return &DiagonalSize{
		MM:     math.Round(diag*10) / 10,
		Inches: math.Round(diag/25.4*10) / 10,
	}
}
