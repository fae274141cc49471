// Package edid decodes Extended Display Identification Data: the base block,
// CTA-861 extensions and the DisplayID extension header, reconciling the
// overlapping capability signals into a single feature summary.
//
// Decoding never fails. Malformed input yields a best-effort result plus a
// list of warnings describing what was wrong.
package edid

import "fmt"

// DecodeOptions adjusts a Decode call. The zero value (or nil) uses defaults.
type DecodeOptions struct {
	// VendorLookup overrides the built-in PNP vendor table
	VendorLookup VendorLookup
}

// EDID is the complete decoded result.
type EDID struct {
	// Raw is an independent copy of the input bytes
	Raw []byte

	Warnings []Warning

	HeaderValid   bool
	ChecksumValid bool // base block checksum

	// DeclaredExtensionCount is byte 126 of the base block; ExtensionCount is
	// how many 128-byte extension blocks were actually present
	DeclaredExtensionCount int
	ExtensionCount         int

	Base       BaseBlock
	Extensions []Extension

	Vendor  VendorInfo
	Product ProductInfo
	Display BasicDisplayParams

	// NativeResolution is nil when no preferred timing is declared
	NativeResolution *NativeResolution
	// ScreenSize is nil when the base block leaves the size bytes zero
	ScreenSize *DiagonalSize

	Features FeatureSupport
}

// Decode decodes an EDID buffer of one or more 128-byte blocks. The input is
// copied up front, so the caller's slice is never retained or mutated. A nil
// options pointer is equivalent to the zero value.
func Decode(data []byte, options *DecodeOptions) *EDID {
	d := &decoder{data: append([]byte(nil), data...)}

	if len(d.data) < BlockSize {
		d.warn(WarnTooShort, fmt.Sprintf("need at least %d bytes, got %d", BlockSize, len(d.data)), -1, -1, len(d.data))
	} else if len(d.data)%BlockSize != 0 {
		d.warn(WarnLengthNotMultipleOf128, fmt.Sprintf("length %d is not a multiple of %d", len(d.data), BlockSize), -1, -1, len(d.data))
	}

	base, product, display := decodeBaseBlock(d)
	extensions := decodeExtensions(d)

	result := &EDID{
		Raw:                    d.data,
		HeaderValid:            base.HeaderValid,
		ChecksumValid:          base.ChecksumValid,
		DeclaredExtensionCount: base.DeclaredExtensionCount,
		ExtensionCount:         len(extensions),
		Base:                   base,
		Extensions:             extensions,
		Product:                product,
		Display:                display,
	}

	if result.DeclaredExtensionCount != result.ExtensionCount {
		d.warn(WarnExtensionCountMismatch,
			fmt.Sprintf("base block declares %d extension(s), buffer holds %d", result.DeclaredExtensionCount, result.ExtensionCount),
			0, 126, result.ExtensionCount)
	}

	lookup := defaultVendorLookup
	if options != nil && options.VendorLookup != nil {
		lookup = options.VendorLookup
	}
	result.Vendor = lookup(base.VendorID)

	result.NativeResolution = nativeResolution(display, base.Timings)
	result.ScreenSize = diagonalSize(float64(display.ScreenWidthMM), float64(display.ScreenHeightMM))
	result.Features = aggregateFeatures(&result.Base, display, result.NativeResolution, extensions)

	result.Warnings = d.warnings
	return result
}
