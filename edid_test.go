package edid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildBaseBlock assembles a checksummed base block with a valid header,
// vendor ID "SAM", version 1.4 and all standard mode slots unused. fill can
// overwrite anything before the checksum is computed.
func buildBaseBlock(fill func(b []byte)) []byte {
	b := make([]byte, BlockSize)
	copy(b, headerSignature[:])
	vid := encodeVendorID("SAM")
	b[8], b[9] = vid[0], vid[1]
	b[18], b[19] = 1, 4
	for i := 38; i < 54; i++ {
		b[i] = 0x01
	}
	if fill != nil {
		fill(b)
	}
	b[127] = checksumFor(b)
	return b
}

// buildCTABlock assembles a checksummed CTA-861 extension whose data block
// collection is exactly dataBlocks, with no detailed timings.
func buildCTABlock(flags byte, dataBlocks []byte) []byte {
	b := make([]byte, BlockSize)
	b[0] = 0x02
	b[1] = 0x03
	b[2] = byte(4 + len(dataBlocks))
	b[3] = flags
	copy(b[4:], dataBlocks)
	b[127] = checksumFor(b)
	return b
}

func hasWarning(warnings []Warning, code WarningCode) bool {
	for _, w := range warnings {
		if w.Code == code {
			return true
		}
	}
	return false
}

func TestDecode_NeverPanics(t *testing.T) {
	for n := 0; n <= 300; n++ {
		buf := make([]byte, n)
		for i := range buf {
			buf[i] = byte(i * 31)
		}
		assert.NotNil(t, Decode(buf, nil))
	}
	assert.NotNil(t, Decode(nil, nil))
	assert.NotNil(t, Decode([]byte{0x00, 0xff, 0xff}, nil))

	allFF := make([]byte, 2*BlockSize)
	for i := range allFF {
		allFF[i] = 0xff
	}
	assert.NotNil(t, Decode(allFF, nil))
}

func TestDecode_Idempotent(t *testing.T) {
	input := buildBaseBlock(nil)
	first := Decode(input, nil)
	second := Decode(input, nil)
	assert.Equal(t, first, second)
}

func TestDecode_InputNotRetained(t *testing.T) {
	input := buildBaseBlock(nil)
	want := append([]byte(nil), input...)

	result := Decode(input, nil)
	input[5] ^= 0xff
	input[60] = 0x42

	assert.Equal(t, want, result.Raw)
	assert.True(t, result.HeaderValid)
	assert.True(t, result.ChecksumValid)
}

func TestDecode_MinimalBlock(t *testing.T) {
	b := make([]byte, BlockSize)
	copy(b, headerSignature[:])
	b[127] = checksumFor(b)

	result := Decode(b, nil)
	assert.True(t, result.HeaderValid)
	assert.True(t, result.ChecksumValid)
	assert.False(t, hasWarning(result.Warnings, WarnInvalidHeader))
	assert.False(t, hasWarning(result.Warnings, WarnChecksumFailed))
	assert.Equal(t, "", result.Base.VendorID)
}

func TestDecode_TooShort(t *testing.T) {
	result := Decode([]byte{0x00, 0xff, 0xff}, nil)
	assert.True(t, hasWarning(result.Warnings, WarnTooShort))
	assert.False(t, result.HeaderValid)
	assert.False(t, result.ChecksumValid)
}

func TestDecode_LengthNotMultipleOf128(t *testing.T) {
	input := append(buildBaseBlock(nil), 0x00, 0x00)
	result := Decode(input, nil)
	assert.True(t, hasWarning(result.Warnings, WarnLengthNotMultipleOf128))
}

func TestDecode_ChecksumBitFlip(t *testing.T) {
	input := buildBaseBlock(nil)
	require.True(t, Decode(input, nil).ChecksumValid)

	input[64] ^= 0x01
	result := Decode(input, nil)
	assert.False(t, result.ChecksumValid)
	assert.True(t, hasWarning(result.Warnings, WarnChecksumFailed))
}

func TestDecode_ExtensionCountMismatch(t *testing.T) {
	input := buildBaseBlock(func(b []byte) {
		b[126] = 1
	})
	result := Decode(input, nil)
	assert.Equal(t, 1, result.DeclaredExtensionCount)
	assert.Equal(t, 0, result.ExtensionCount)
	assert.True(t, hasWarning(result.Warnings, WarnExtensionCountMismatch))
}

func TestDecode_CustomVendorLookup(t *testing.T) {
	input := buildBaseBlock(nil)
	result := Decode(input, &DecodeOptions{
		VendorLookup: func(vid string) VendorInfo {
			return VendorInfo{VID: vid, Name: "Custom " + vid, ShortName: vid}
		},
	})
	assert.Equal(t, "Custom SAM", result.Vendor.Name)
}

// A synthetic 4K TV profile: base block plus two CTA extensions and a
// DisplayID extension, exercising most of the decode surface in one pass.
func TestDecode_FullProfile(t *testing.T) {
	base := buildBaseBlock(func(b []byte) {
		b[10], b[11] = 0x01, 0x02 // product code 0x0201
		b[12] = 0x01              // serial 1
		b[16], b[17] = 1, 33      // week 1, 2023

		b[20] = 0x80           // digital input
		b[21], b[22] = 144, 81 // 1440mm x 810mm
		b[23] = 120            // gamma ~2.2
		b[24] = 0x02           // preferred timing present

		// Rec.2020 primaries
		b[25], b[26] = 0x78, 0xb1
		b[27], b[28], b[29], b[30] = 181, 74, 43, 204
		b[31], b[32], b[33], b[34] = 33, 11, 80, 84

		// one standard mode: 1920 16:9 @ 60
		b[38], b[39] = 209, 0xc0

		// preferred DTD: 3840x2160 @ 60 (594 MHz)
		copy(b[54:], []byte{
			0x08, 0xe8, 0x00, 0x30, 0xf2, 0x70, 0x5a, 0x80,
			0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x1e,
		})
		// model name descriptor
		copy(b[72:], []byte{0x00, 0x00, 0x00, 0xfc, 0x00, 'S', '9', '5', 'C', '\n', ' ', ' ', ' ', ' ', ' ', ' ', ' ', ' '})
		// serial number descriptor
		copy(b[90:], []byte{0x00, 0x00, 0x00, 0xff, 0x00, '1', '2', '3', '4', '5', '6', '7', '8', '9', '0', 'A', 'B', 'C'})

		b[126] = 3
	})

	cta1 := buildCTABlock(0x70, []byte{
		// video data block: VIC 16 (native), extended VIC 97, VIC 16
		0x43, 0x90, 0x61, 0x10,
		// HDMI Forum VSDB: FRL 4L@12G, 36-bit 4:2:0, ALLM, VRR 48-144, DSC 10/12bpc
		0x6b, 0xd8, 0x5d, 0xc4, 0x01, 0x00, 0x80, 0x62, 0x02, 0x30, 0x90, 0x03,
		// HDR static metadata: PQ + HLG, Static Metadata Type 1
		0xe3, 0x06, 0x0c, 0x01,
	})
	cta2 := buildCTABlock(0x00, []byte{
		// colorimetry: BT.2020 RGB
		0xe3, 0x05, 0x80, 0x00,
	})

	displayID := make([]byte, BlockSize)
	displayID[0] = 0x70
	displayID[1] = 0x02 // DisplayID 2.0
	displayID[127] = checksumFor(displayID)

	input := append(append(append(base, cta1...), cta2...), displayID...)
	result := Decode(input, nil)

	assert.Empty(t, result.Warnings)
	assert.True(t, result.HeaderValid)
	assert.True(t, result.ChecksumValid)
	assert.Equal(t, 3, result.DeclaredExtensionCount)
	assert.Equal(t, 3, result.ExtensionCount)

	assert.Equal(t, "SAM", result.Base.VendorID)
	assert.Equal(t, "Samsung", result.Vendor.Name)
	assert.Equal(t, "Samsung", result.Vendor.ShortName)
	assert.Equal(t, uint16(0x0201), result.Product.ProductCode)
	assert.Equal(t, uint32(1), result.Product.SerialNumber)
	assert.Equal(t, 2023, result.Product.YearOfManufacture)
	assert.Equal(t, "S95C", result.Product.ModelName)
	assert.Equal(t, "1234567890ABC", result.Product.SerialText)

	assert.True(t, result.Display.DigitalInput)
	assert.InDelta(t, 2.2, result.Display.Gamma, 0.01)
	require.NotNil(t, result.ScreenSize)
	assert.Equal(t, 1652.2, result.ScreenSize.MM)
	assert.Equal(t, 65.0, result.ScreenSize.Inches)

	require.NotNil(t, result.NativeResolution)
	assert.Equal(t, 3840, result.NativeResolution.ActiveHorizontalPixels)
	assert.Equal(t, 2160, result.NativeResolution.ActiveVerticalLines)
	assert.Equal(t, 60, result.NativeResolution.RefreshRateHz)

	require.Len(t, result.Base.StandardModes, 1)
	assert.Equal(t, 1920, result.Base.StandardModes[0].XResolutionPx)
	assert.Equal(t, "16:9", result.Base.StandardModes[0].AspectRatio)
	assert.Equal(t, 60, result.Base.StandardModes[0].VertFreqHz)

	require.Len(t, result.Extensions, 3)
	cta, ok := result.Extensions[0].(*CTAExtension)
	require.True(t, ok)
	assert.True(t, cta.BasicAudio)
	assert.True(t, cta.YCbCr444)
	assert.True(t, cta.YCbCr422)
	assert.False(t, cta.Underscan)
	require.Len(t, cta.DataBlocks, 3)

	video, ok := cta.DataBlocks[0].(*VideoDataBlock)
	require.True(t, ok)
	require.Len(t, video.Descriptors, 3)
	assert.Equal(t, byte(16), video.Descriptors[0].VIC)
	assert.True(t, video.Descriptors[0].Native)
	assert.Equal(t, byte(97), video.Descriptors[1].VIC)
	assert.True(t, video.Descriptors[1].Extended)

	forum, ok := cta.DataBlocks[1].(*HDMIForumDataBlock)
	require.True(t, ok)
	assert.Equal(t, "4L@12G", forum.Features.MaxFRLRate)
	assert.True(t, forum.Features.SCDCPresent)
	assert.True(t, forum.Features.ALLM)
	assert.Equal(t, 48, forum.Features.VRRMinHz)
	assert.Equal(t, 144, forum.Features.VRRMaxHz)

	hdr, ok := cta.DataBlocks[2].(*HDRStaticMetadataDataBlock)
	require.True(t, ok)
	assert.True(t, hdr.SupportsHDR10())

	dispID, ok := result.Extensions[2].(*DisplayIDExtension)
	require.True(t, ok)
	assert.Equal(t, 2, dispID.VersionMajor)
	assert.Equal(t, 0, dispID.VersionMinor)

	features := result.Features
	assert.Equal(t, []ColorGamut{GamutSRGB, GamutRec2020}, features.ColorGamuts)
	assert.Equal(t, 12, features.MaxInputSignalBitDepth)
	assert.True(t, features.SupportsHDR10)
	assert.False(t, features.SupportsHDR10Plus)
	assert.False(t, features.SupportsDolbyVision)
	assert.True(t, features.SupportsVRR)
	assert.Equal(t, 48, features.MinVRRHz)
	assert.Equal(t, 144, features.MaxVRRHz)
	assert.Equal(t, 48, features.MinRefreshRateHz)
	assert.Equal(t, 144, features.MaxRefreshRateHz)
	assert.True(t, features.SupportsALLM)
	assert.Equal(t, 2.1, features.HDMIVersion)
	assert.Equal(t, 2.0, features.DisplayIDVersion)
	assert.InDelta(t, 1.4, features.EDIDVersion, 1e-9)
}
