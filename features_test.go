package edid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sRGBChromaticity() Chromaticity {
	return Chromaticity{RedX: 0.64, RedY: 0.33, GreenX: 0.30, GreenY: 0.60, BlueX: 0.15, BlueY: 0.06}
}

func aggregate(blocks ...DataBlock) FeatureSupport {
	base := &BaseBlock{Version: 1, Revision: 4, Chromaticity: sRGBChromaticity()}
	exts := []Extension{&CTAExtension{DataBlocks: blocks}}
	return aggregateFeatures(base, BasicDisplayParams{}, nil, exts)
}

func TestNearestGamut(t *testing.T) {
	assert.Equal(t, GamutSRGB, nearestGamut(sRGBChromaticity()))
	assert.Equal(t, GamutRec2020, nearestGamut(Chromaticity{
		RedX: 0.708, RedY: 0.292, GreenX: 0.170, GreenY: 0.797, BlueX: 0.131, BlueY: 0.046,
	}))
	assert.Equal(t, GamutDisplayP3, nearestGamut(Chromaticity{
		RedX: 0.680, RedY: 0.320, GreenX: 0.265, GreenY: 0.690, BlueX: 0.150, BlueY: 0.060,
	}))
	// slightly off sRGB primaries still classify as sRGB
	assert.Equal(t, GamutSRGB, nearestGamut(Chromaticity{
		RedX: 0.645, RedY: 0.335, GreenX: 0.295, GreenY: 0.605, BlueX: 0.152, BlueY: 0.058,
	}))
}

func TestAggregateFeatures_Defaults(t *testing.T) {
	features := aggregate()
	assert.Equal(t, []ColorGamut{GamutSRGB}, features.ColorGamuts)
	assert.Equal(t, 8, features.MaxInputSignalBitDepth)
	assert.False(t, features.SupportsHDR10)
	assert.False(t, features.SupportsVRR)
	assert.Equal(t, 0.0, features.HDMIVersion)
	assert.InDelta(t, 1.4, features.EDIDVersion, 1e-9)
}

func TestAggregateFeatures_GamutsFromColorimetry(t *testing.T) {
	features := aggregate(&ColorimetryDataBlock{AdobeRGB: true, BT2020YCC: true})
	assert.Equal(t, []ColorGamut{GamutSRGB, GamutAdobeRGB, GamutRec2020}, features.ColorGamuts)
}

func TestAggregateFeatures_WideGamutIncludesSRGB(t *testing.T) {
	base := &BaseBlock{Version: 1, Revision: 4, Chromaticity: Chromaticity{
		RedX: 0.708, RedY: 0.292, GreenX: 0.170, GreenY: 0.797, BlueX: 0.131, BlueY: 0.046,
	}}
	features := aggregateFeatures(base, BasicDisplayParams{}, nil, nil)
	assert.Equal(t, []ColorGamut{GamutSRGB, GamutRec2020}, features.ColorGamuts)
}

func TestAggregateFeatures_BitDepth(t *testing.T) {
	assert.Equal(t, 12, aggregate(&HDMI14DataBlock{DeepColor36: true}).MaxInputSignalBitDepth)
	assert.Equal(t, 16, aggregate(&HDMI14DataBlock{DeepColor48: true}).MaxInputSignalBitDepth)
	assert.Equal(t, 10, aggregate(&HDMI20DataBlock{DeepColor30Y420: true}).MaxInputSignalBitDepth)
	assert.Equal(t, 12, aggregate(&HDMIForumSCDB{Features: HDMIForumFeatures{DSC12bpc: true}}).MaxInputSignalBitDepth)
	// the maximum wins across blocks
	assert.Equal(t, 16, aggregate(
		&HDMI14DataBlock{DeepColor30: true},
		&HDMIForumDataBlock{Features: HDMIForumFeatures{DeepColor48Y420: true}},
	).MaxInputSignalBitDepth)
}

func TestAggregateFeatures_HDMIVersion(t *testing.T) {
	assert.InDelta(t, 1.4, aggregate(&HDMI14DataBlock{}).HDMIVersion, 1e-9)
	assert.InDelta(t, 2.0, aggregate(&HDMI20DataBlock{Version: 1}).HDMIVersion, 1e-9)

	// a forum block with no forum-specific signal stays at 2.0
	assert.InDelta(t, 2.0, aggregate(&HDMIForumDataBlock{}).HDMIVersion, 1e-9)
	assert.InDelta(t, 2.1, aggregate(&HDMIForumDataBlock{Features: HDMIForumFeatures{Version: 1}}).HDMIVersion, 1e-9)
	assert.InDelta(t, 2.1, aggregate(&HDMIForumSCDB{Features: HDMIForumFeatures{MaxFRLRateCode: 3}}).HDMIVersion, 1e-9)
	assert.InDelta(t, 2.1, aggregate(&VideoCapabilityDataBlock{ALLM: true}).HDMIVersion, 1e-9)

	// versions never downgrade
	both := aggregate(
		&HDMIForumDataBlock{Features: HDMIForumFeatures{Version: 1}},
		&HDMI14DataBlock{},
	)
	assert.InDelta(t, 2.1, both.HDMIVersion, 1e-9)
}

func TestAggregateFeatures_HDRFlags(t *testing.T) {
	features := aggregate(
		&HDRStaticMetadataDataBlock{EOTFs: []string{EOTFSMPTEST2084}, MetadataDescriptors: []string{StaticMetadataType1}},
		&VendorSpecificVideoDataBlock{SupportsHDR10Plus: true},
		&DolbyVisionDataBlock{},
	)
	assert.True(t, features.SupportsHDR10)
	assert.True(t, features.SupportsHDR10Plus)
	assert.True(t, features.SupportsDolbyVision)
}

func TestAggregateFeatures_DynamicMetadataIsNotAFormatClaim(t *testing.T) {
	// ST 2094-40 carriage alone does not announce HDR10+ (nor -10 Dolby Vision)
	features := aggregate(&HDRDynamicMetadataDataBlock{MetadataTypeID: 4})
	assert.False(t, features.SupportsHDR10Plus)
	assert.False(t, features.SupportsDolbyVision)
}

func TestAggregateFeatures_VRRFolding(t *testing.T) {
	base := &BaseBlock{Version: 1, Revision: 4, Chromaticity: sRGBChromaticity()}
	native := &NativeResolution{ActiveHorizontalPixels: 3840, ActiveVerticalLines: 2160, RefreshRateHz: 60}
	exts := []Extension{&CTAExtension{DataBlocks: []DataBlock{
		&HDMIForumDataBlock{Features: HDMIForumFeatures{VRRMinHz: 40, VRRMaxHz: 120}},
	}}}

	features := aggregateFeatures(base, BasicDisplayParams{}, native, exts)
	assert.True(t, features.SupportsVRR)
	assert.Equal(t, 40, features.MinVRRHz)
	assert.Equal(t, 120, features.MaxVRRHz)
	assert.Equal(t, 40, features.MinRefreshRateHz)
	assert.Equal(t, 120, features.MaxRefreshRateHz)
}

func TestAggregateFeatures_VRRWithoutRange(t *testing.T) {
	features := aggregate(&VideoCapabilityDataBlock{VRR: true})
	assert.True(t, features.SupportsVRR)
	assert.Equal(t, 0, features.MinVRRHz)
	assert.Equal(t, 0, features.MaxVRRHz)
}

func TestAggregateFeatures_ALLM(t *testing.T) {
	assert.True(t, aggregate(&HDMIForumDataBlock{Features: HDMIForumFeatures{ALLM: true}}).SupportsALLM)
	assert.True(t, aggregate(&HDMIForumSCDB{Features: HDMIForumFeatures{ALLM: true}}).SupportsALLM)
	assert.True(t, aggregate(&HDMI14DataBlock{ContentTypeGame: true}).SupportsALLM)
	assert.False(t, aggregate().SupportsALLM)
}

func TestAggregateFeatures_RefreshRange(t *testing.T) {
	base := &BaseBlock{
		Version: 1, Revision: 4,
		Chromaticity:  sRGBChromaticity(),
		StandardModes: []StandardMode{{XResolutionPx: 1920, VertFreqHz: 75}, {XResolutionPx: 1280, VertFreqHz: 120}},
	}
	native := &NativeResolution{RefreshRateHz: 60}

	features := aggregateFeatures(base, BasicDisplayParams{}, native, nil)
	assert.Equal(t, 60, features.MinRefreshRateHz)
	assert.Equal(t, 120, features.MaxRefreshRateHz)
}

func TestAggregateFeatures_DisplayIDVersion(t *testing.T) {
	base := &BaseBlock{Version: 1, Revision: 4, Chromaticity: sRGBChromaticity()}
	exts := []Extension{
		&DisplayIDExtension{VersionMajor: 1, VersionMinor: 3, Version: 1.3},
		&DisplayIDExtension{VersionMajor: 2, VersionMinor: 0, Version: 2.0},
	}
	features := aggregateFeatures(base, BasicDisplayParams{}, nil, exts)
	assert.InDelta(t, 2.0, features.DisplayIDVersion, 1e-9)
}
