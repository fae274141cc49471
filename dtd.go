package edid

import "math"

// Sync signal type codes carried in bits 4-3 of the DTD flags byte.
const (
	SyncAnalogComposite        byte = 0
	SyncBipolarAnalogComposite byte = 1
	SyncDigitalComposite       byte = 2
	SyncDigitalSeparate        byte = 3
)

var syncTypeNames = [4]string{
	"Analog composite",
	"Bipolar analog composite",
	"Digital composite (on HSync)",
	"Digital separate",
}

// StereoMode is the 3-bit stereo viewing support field of a DTD
// (flags byte bits 6-5 plus bit 0).
type StereoMode byte

const (
	StereoNone                StereoMode = 0x00
	StereoFieldSequentialR    StereoMode = 0x20
	StereoFieldSequentialL    StereoMode = 0x40
	Stereo2WayInterleavedR    StereoMode = 0x21
	Stereo2WayInterleavedL    StereoMode = 0x41
	Stereo4WayInterleaved     StereoMode = 0x60
	StereoSideBySideInterlved StereoMode = 0x61
)

func (sm StereoMode) String() string {
	switch sm & 0x61 {
	case StereoFieldSequentialR:
		return "field sequential, right during stereo sync"
	case StereoFieldSequentialL:
		return "field sequential, left during stereo sync"
	case Stereo2WayInterleavedR:
		return "2-way interleaved, right image on even lines"
	case Stereo2WayInterleavedL:
		return "2-way interleaved, left image on even lines"
	case Stereo4WayInterleaved:
		return "4-way interleaved"
	case StereoSideBySideInterlved:
		return "side-by-side interleaved"
	}
	return "none"
}

// DetailedTiming is one decoded 18-byte Detailed Timing Descriptor.
//
// The four pointer fields are conditional on SyncTypeCode: exactly one of
// VSyncPolarity/Serrated and exactly one of HSyncPolarity/SyncOnRGB is
// populated, mirroring how the flags byte redefines those bits per sync type.
type DetailedTiming struct {
	PixelClockMHz float64

	HorizontalActivePx  int
	HorizontalBlankPx   int
	VerticalActiveLines int
	VerticalBlankLines  int

	HorizontalFrontPorchPx      int
	HorizontalSyncPulseWidthPx  int
	VerticalFrontPorchLines     int
	VerticalSyncPulseWidthLines int

	HorizontalImageSizeMM int
	VerticalImageSizeMM   int
	HorizontalBorderPx    int
	VerticalBorderLines   int

	Interlaced   bool
	StereoMode   StereoMode
	SyncTypeCode byte
	SyncType     string

	// VSyncPolarity is set for digital separate sync, Serrated otherwise.
	VSyncPolarity *bool
	Serrated      *bool
	// HSyncPolarity is set for digital sync, SyncOnRGB otherwise
	// (false = sync on green only, true = sync on all RGB lines).
	HSyncPolarity *bool
	SyncOnRGB     *bool

	Raw []byte
}

// isTimingSlot reports whether the 18-byte slot at offset holds a detailed
// timing (non-zero pixel clock) rather than a monitor descriptor or padding.
func isTimingSlot(r *blockReader, offset int) bool {
	return r.zeroAt(offset) != 0 || r.zeroAt(offset+1) != 0
}

// decodeDTD decodes the 18-byte detailed timing descriptor at the given
// block-relative offset. Callers check isTimingSlot first.
func decodeDTD(r *blockReader, offset int) DetailedTiming {
	b := func(i int) int { return int(r.zeroAt(offset + i)) }

	d := DetailedTiming{
		PixelClockMHz: float64(b(0)|b(1)<<8) / 100,

		HorizontalActivePx:  b(2) | (b(4)&0xf0)<<4,
		HorizontalBlankPx:   b(3) | (b(4)&0x0f)<<8,
		VerticalActiveLines: b(5) | (b(7)&0xf0)<<4,
		VerticalBlankLines:  b(6) | (b(7)&0x0f)<<8,

		HorizontalFrontPorchPx:      b(8) | (b(11)&0xc0)<<2,
		HorizontalSyncPulseWidthPx:  b(9) | (b(11)&0x30)<<4,
		VerticalFrontPorchLines:     b(10)>>4 | (b(11)&0x0c)<<2,
		VerticalSyncPulseWidthLines: b(10)&0x0f | (b(11)&0x03)<<4,

		HorizontalImageSizeMM: b(12) | (b(14)&0xf0)<<4,
		VerticalImageSizeMM:   b(13) | (b(14)&0x0f)<<8,
		HorizontalBorderPx:    b(15),
		VerticalBorderLines:   b(16),

		Raw: r.bytes(offset, 18),
	}

	flags := byte(b(17))
	d.Interlaced = flags&0x80 != 0
	d.StereoMode = StereoMode(flags & 0x61)
	d.SyncTypeCode = (flags >> 3) & 0x3
	d.SyncType = syncTypeNames[d.SyncTypeCode]

	bit2 := flags&0x04 != 0
	bit1 := flags&0x02 != 0
	if d.SyncTypeCode == SyncDigitalSeparate {
		d.VSyncPolarity = &bit2
	} else {
		d.Serrated = &bit2
	}
	if d.SyncTypeCode == SyncDigitalSeparate || d.SyncTypeCode == SyncDigitalComposite {
		d.HSyncPolarity = &bit1
	} else {
		d.SyncOnRGB = &bit1
	}
	return d
}

// RefreshRateHz derives the field refresh rate from the pixel clock and the
// total (active + blanking) raster size, rounded to the nearest integer.
// ok is false when any required field is zero.
func (d *DetailedTiming) RefreshRateHz() (int, bool) {
	hTotal := d.HorizontalActivePx + d.HorizontalBlankPx
	vTotal := d.VerticalActiveLines + d.VerticalBlankLines
	if d.PixelClockMHz <= 0 || hTotal == 0 || vTotal == 0 {
		return 0, false
	}
	hz := int(math.Round(d.PixelClockMHz * 1e6 / float64(hTotal*vTotal)))
	if hz <= 0 {
		return 0, false
	}
	return hz, true
}
