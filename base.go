package edid

import "fmt"

var headerSignature = [8]byte{0x00, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x00}

// BaseBlock is the decoded first 128-byte EDID block.
type BaseBlock struct {
	VendorID      string // 3 uppercase letters, 5-bit packed in bytes 8-9
	HeaderValid   bool
	Checksum      byte
	ChecksumValid bool

	Version       int
	Revision      int
	VersionString string // always "{major}.{minor}", even out-of-spec

	Chromaticity           Chromaticity
	EstablishedTimings     uint32 // bytes 35-37, MSB first
	EstablishedTimingNames []string
	StandardModes          []StandardMode
	Timings                []DetailedTiming
	SPWG                   *SPWGData

	DeclaredExtensionCount int
	Raw                    []byte
}

// Chromaticity holds the CIE 1931 colour point coordinates from bytes 25-34,
// both as raw 10-bit codes and normalized to 0..1 (raw / 1024).
type Chromaticity struct {
	RedXRaw, RedYRaw     uint16
	GreenXRaw, GreenYRaw uint16
	BlueXRaw, BlueYRaw   uint16
	WhiteXRaw, WhiteYRaw uint16

	RedX, RedY     float64
	GreenX, GreenY float64
	BlueX, BlueY   float64
	WhiteX, WhiteY float64
}

// StandardMode is one 2-byte standard display mode slot (bytes 38-53).
type StandardMode struct {
	XResolutionPx   int
	AspectRatioCode byte
	AspectRatio     string
	VertFreqHz      int
}

var standardAspectRatios = [4]string{"16:10", "4:3", "5:4", "16:9"}

// ProductInfo gathers the identity fields of the base block, including the
// textual model name / serial number found in monitor descriptors.
type ProductInfo struct {
	ProductCode       uint16
	SerialNumber      uint32
	WeekOfManufacture int
	YearOfManufacture int
	ModelName         string
	SerialText        string
	UnspecifiedText   []string
}

// BasicDisplayParams is the decoded byte 20-24 region. The analog fields are
// only meaningful when DigitalInput is false, and vice versa.
type BasicDisplayParams struct {
	DigitalInput      bool
	VESADFPCompatible bool

	WhiteSyncLevelCode byte
	BlankToBlackSetup  bool
	SeparateSync       bool
	CompositeSync      bool
	SyncOnGreen        bool
	SerratedVSync      bool

	// 0 means unspecified per the EDID spec, not an error
	ScreenWidthMM  int
	ScreenHeightMM int
	Gamma          float64

	DPMSStandby   bool
	DPMSSuspend   bool
	DPMSActiveOff bool

	DisplayTypeCode        byte
	StandardSRGB           bool
	PreferredTimingPresent bool
	GTFSupported           bool
}

// NativeResolution is derived from the first (preferred) detailed timing.
type NativeResolution struct {
	ActiveHorizontalPixels int
	ActiveVerticalLines    int
	RefreshRateHz          int
}

// established timing names, bit 23 down to bit 0 of the packed 24-bit value
var establishedTimingNames = [24]string{
	"720x400 @ 70 Hz",
	"720x400 @ 88 Hz",
	"640x480 @ 60 Hz",
	"640x480 @ 67 Hz",
	"640x480 @ 72 Hz",
	"640x480 @ 75 Hz",
	"800x600 @ 56 Hz",
	"800x600 @ 60 Hz",
	"800x600 @ 72 Hz",
	"800x600 @ 75 Hz",
	"832x624 @ 75 Hz",
	"1024x768 @ 87 Hz (interlaced)",
	"1024x768 @ 60 Hz",
	"1024x768 @ 70 Hz",
	"1024x768 @ 75 Hz",
	"1280x1024 @ 75 Hz",
	"1152x870 @ 75 Hz",
	"", "", "", "", "", "", "",
}

func decodeBaseBlock(d *decoder) (BaseBlock, ProductInfo, BasicDisplayParams) {
	r := d.blockReader(0)

	base := BaseBlock{Raw: r.bytes(0, BlockSize)}
	base.HeaderValid = true
	for i, want := range headerSignature {
		b, ok := r.byteAt(i)
		if !ok || b != want {
			base.HeaderValid = false
		}
	}
	if !base.HeaderValid {
		d.warn(WarnInvalidHeader, "base block signature mismatch", 0, 0, nil)
	}

	base.VendorID = decodeVendorID(r.zeroAt(8), r.zeroAt(9))

	product := ProductInfo{
		ProductCode:       uint16(r.zeroAt(10)) | uint16(r.zeroAt(11))<<8,
		SerialNumber:      uint32(r.zeroAt(12)) | uint32(r.zeroAt(13))<<8 | uint32(r.zeroAt(14))<<16 | uint32(r.zeroAt(15))<<24,
		WeekOfManufacture: int(r.zeroAt(16)),
		YearOfManufacture: int(r.zeroAt(17)) + 1990,
	}

	base.Version = int(r.zeroAt(18))
	base.Revision = int(r.zeroAt(19))
	base.VersionString = fmt.Sprintf("%d.%d", base.Version, base.Revision)
	if base.Version == 1 && base.Revision > 4 {
		// keep the actual value, assume 1.4 field semantics downstream
		d.warn(WarnUnknownMinorVersion, fmt.Sprintf("EDID minor version %d not recognised", base.Revision), 0, 19, base.Revision)
	}

	params := decodeBasicDisplayParams(r)
	base.Chromaticity = decodeChromaticity(r)

	base.EstablishedTimings = uint32(r.zeroAt(35))<<16 | uint32(r.zeroAt(36))<<8 | uint32(r.zeroAt(37))
	for bit := 23; bit >= 0; bit-- {
		if base.EstablishedTimings&(1<<uint(bit)) != 0 && establishedTimingNames[23-bit] != "" {
			base.EstablishedTimingNames = append(base.EstablishedTimingNames, establishedTimingNames[23-bit])
		}
	}

	for slot := 0; slot < 8; slot++ {
		b1 := r.zeroAt(38 + slot*2)
		b2 := r.zeroAt(39 + slot*2)
		if b1 == 0x01 && b2 == 0x01 { // unused slot
			continue
		}
		code := (b2 >> 6) & 0x3
		base.StandardModes = append(base.StandardModes, StandardMode{
			XResolutionPx:   (int(b1) + 31) * 8,
			AspectRatioCode: code,
			AspectRatio:     standardAspectRatios[code],
			VertFreqHz:      int(b2&0x3f) + 60,
		})
	}

	descriptors := decodeMonitorDescriptors(r)
	base.Timings = descriptors.timings
	base.SPWG = descriptors.spwg
	product.ModelName = descriptors.modelName
	product.SerialText = descriptors.serialText
	product.UnspecifiedText = descriptors.unspecified

	base.DeclaredExtensionCount = int(r.zeroAt(126))
	_, base.Checksum, base.ChecksumValid = r.checksum()
	if !base.ChecksumValid {
		d.warn(WarnChecksumFailed, "base block checksum mismatch", 0, 127, nil)
	}

	return base, product, params
}

func decodeBasicDisplayParams(r *blockReader) BasicDisplayParams {
	input := r.zeroAt(20)
	params := BasicDisplayParams{
		DigitalInput:   input&0x80 != 0,
		ScreenWidthMM:  int(r.zeroAt(21)) * 10,
		ScreenHeightMM: int(r.zeroAt(22)) * 10,
		Gamma:          float64(r.zeroAt(23))*(2.54/255) + 1,
	}
	if params.DigitalInput {
		params.VESADFPCompatible = input&0x01 != 0
	} else {
		params.WhiteSyncLevelCode = (input >> 5) & 0x3
		params.BlankToBlackSetup = input&0x10 != 0
		params.SeparateSync = input&0x08 != 0
		params.CompositeSync = input&0x04 != 0
		params.SyncOnGreen = input&0x02 != 0
		params.SerratedVSync = input&0x01 != 0
	}

	features := r.zeroAt(24)
	params.DPMSStandby = features&0x80 != 0
	params.DPMSSuspend = features&0x40 != 0
	params.DPMSActiveOff = features&0x20 != 0
	params.DisplayTypeCode = (features >> 3) & 0x3
	params.StandardSRGB = features&0x04 != 0
	params.PreferredTimingPresent = features&0x02 != 0
	params.GTFSupported = features&0x01 != 0
	return params
}

func decodeChromaticity(r *blockReader) Chromaticity {
	rg := r.zeroAt(25) // 2-bit LSBs for red x/y, green x/y at shifts 6/4/2/0
	bw := r.zeroAt(26) // same packing for blue x/y, white x/y

	coord := func(hiOffset int, lsbByte byte, shift uint) uint16 {
		return uint16(r.zeroAt(hiOffset))<<2 | uint16((lsbByte>>shift)&0x3)
	}
	c := Chromaticity{
		RedXRaw:   coord(27, rg, 6),
		RedYRaw:   coord(28, rg, 4),
		GreenXRaw: coord(29, rg, 2),
		GreenYRaw: coord(30, rg, 0),
		BlueXRaw:  coord(31, bw, 6),
		BlueYRaw:  coord(32, bw, 4),
		WhiteXRaw: coord(33, bw, 2),
		WhiteYRaw: coord(34, bw, 0),
	}
	c.RedX = float64(c.RedXRaw) / 1024
	c.RedY = float64(c.RedYRaw) / 1024
	c.GreenX = float64(c.GreenXRaw) / 1024
	c.GreenY = float64(c.GreenYRaw) / 1024
	c.BlueX = float64(c.BlueXRaw) / 1024
	c.BlueY = float64(c.BlueYRaw) / 1024
	c.WhiteX = float64(c.WhiteXRaw) / 1024
	c.WhiteY = float64(c.WhiteYRaw) / 1024
	return c
}

// fiveBitLetters maps the packed 5-bit codes 1..26 to A..Z; 0 is unmapped and
// contributes nothing.
var fiveBitLetters = "\x00ABCDEFGHIJKLMNOPQRSTUVWXYZ"

func decodeVendorID(b8, b9 byte) string {
	codes := [3]byte{
		(b8 >> 2) & 0x1f,
		(b8&0x3)<<3 | (b9 >> 5),
		b9 & 0x1f,
	}
	var id []byte
	for _, code := range codes {
		if code >= 1 && code <= 26 {
			id = append(id, fiveBitLetters[code])
		}
	}
	return string(id)
}

// nativeResolution derives the preferred mode from the first DTD, when the
// feature bitmap declares one. Absent when any required field is zero.
func nativeResolution(params BasicDisplayParams, timings []DetailedTiming) *NativeResolution {
	if !params.PreferredTimingPresent || len(timings) == 0 {
		return nil
	}
	first := &timings[0]
	hz, ok := first.RefreshRateHz()
	if !ok || first.HorizontalActivePx == 0 || first.VerticalActiveLines == 0 {
		return nil
	}
	return &NativeResolution{
		ActiveHorizontalPixels: first.HorizontalActivePx,
		ActiveVerticalLines:    first.VerticalActiveLines,
		RefreshRateHz:          hz,
	}
}

// checksumFor computes the value byte 127 must hold for bytes 0..126,
// i.e. (256 - sum mod 256) mod 256.
func checksumFor(block []byte) byte {
	var sum byte
	n := len(block)
	if n > BlockSize-1 {
		n = BlockSize - 1
	}
	for i := 0; i < n; i++ {
		sum += block[i]
	}
	return -sum // 256 - (sum mod 256), wrapping to 0 for sum==0
}
