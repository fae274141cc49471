package edid

// CTA extended tag codes (first payload byte of an EXTENDED_TAG data block).
const (
	extTagVideoCapability       = 0
	extTagVendorSpecificVideo   = 1
	extTagColorimetry           = 5
	extTagHDRStaticMetadata     = 6
	extTagHDRDynamicMetadata    = 7
	extTagVideoFormatPref       = 13
	extTagYCbCr420Video         = 14
	extTagYCbCr420CapabilityMap = 15
	extTagRoomConfiguration     = 19
	extTagHDMIForumSCDB         = 0x79
)

// decodeExtendedBlock dispatches on the extended tag byte. p[0] is the tag;
// payload byte N in the CTA numbering is p[N].
func decodeExtendedBlock(p []byte, ctx *ctaContext) DataBlock {
	switch at(p, 0) {
	case extTagVideoCapability:
		return decodeVideoCapability(p)
	case extTagVendorSpecificVideo:
		return decodeVendorSpecificVideo(p)
	case extTagColorimetry:
		return decodeColorimetry(p)
	case extTagHDRStaticMetadata:
		return decodeHDRStaticMetadata(p)
	case extTagHDRDynamicMetadata:
		return decodeHDRDynamicMetadata(p)
	case extTagVideoFormatPref:
		return decodeVideoFormatPreference(p)
	case extTagYCbCr420Video:
		return decodeYCbCr420Video(p)
	case extTagYCbCr420CapabilityMap:
		return decodeYCbCr420CapabilityMap(p, ctx)
	case extTagRoomConfiguration:
		return decodeRoomConfiguration(p)
	case extTagHDMIForumSCDB:
		return &HDMIForumSCDB{Features: decodeForumFeatures(p[1:])}
	}
	return &UnknownExtendedDataBlock{Tag: at(p, 0), Raw: append([]byte(nil), p...)}
}

// UnknownExtendedDataBlock retains extended-tag payloads with codes this
// decoder does not know.
type UnknownExtendedDataBlock struct {
	Tag byte
	Raw []byte
}

func (*UnknownExtendedDataBlock) isDataBlock() {}

// VideoCapabilityDataBlock (extended tag 0).
type VideoCapabilityDataBlock struct {
	QuantizationRangeYCC bool
	QuantizationRangeRGB bool
	PTOverscanBehavior   string
	ITOverscanBehavior   string
	CEOverscanBehavior   string

	QMS         bool
	VRR         bool
	CinemaVRR   bool
	NegativeMRR bool
	FVA         bool
	ALLM        bool
}

func (*VideoCapabilityDataBlock) isDataBlock() {}

var overscanBehaviors = [4]string{
	"No data",
	"Always overscanned",
	"Always underscanned",
	"Supports both",
}

func decodeVideoCapability(p []byte) *VideoCapabilityDataBlock {
	b := at(p, 1)
	v := &VideoCapabilityDataBlock{
		QuantizationRangeYCC: b&0x80 != 0,
		QuantizationRangeRGB: b&0x40 != 0,
		PTOverscanBehavior:   overscanBehaviors[(b>>4)&0x3],
		ITOverscanBehavior:   overscanBehaviors[(b>>2)&0x3],
		CEOverscanBehavior:   overscanBehaviors[b&0x3],
	}
	if len(p) > 2 {
		v.QMS = p[2]&0x80 != 0
		v.VRR = p[2]&0x40 != 0
		v.CinemaVRR = p[2]&0x20 != 0
		v.NegativeMRR = p[2]&0x10 != 0
		v.FVA = p[2]&0x08 != 0
		v.ALLM = p[2]&0x04 != 0
	}
	return v
}

// ColorimetryDataBlock (extended tag 5).
type ColorimetryDataBlock struct {
	BT2020RGB   bool
	BT2020YCC   bool
	BT2020cYCC  bool
	AdobeRGB    bool
	AdobeYCC601 bool
	SYCC601     bool
	XvYCC709    bool
	XvYCC601    bool

	// gamut metadata profile flags, kept as 0/1 to match the reference data
	MD3, MD2, MD1, MD0 int

	ICtCp       bool
	ST209440    bool
	ST209410    bool
	BT2100ICtCp bool
}

func (*ColorimetryDataBlock) isDataBlock() {}

func decodeColorimetry(p []byte) *ColorimetryDataBlock {
	b := at(p, 1)
	c := &ColorimetryDataBlock{
		BT2020RGB:   b&0x80 != 0,
		BT2020YCC:   b&0x40 != 0,
		BT2020cYCC:  b&0x20 != 0,
		AdobeRGB:    b&0x10 != 0,
		AdobeYCC601: b&0x08 != 0,
		SYCC601:     b&0x04 != 0,
		XvYCC709:    b&0x02 != 0,
		XvYCC601:    b&0x01 != 0,
	}
	md := at(p, 2)
	c.MD3 = int(md>>3) & 1
	c.MD2 = int(md>>2) & 1
	c.MD1 = int(md>>1) & 1
	c.MD0 = int(md) & 1
	if len(p) > 3 {
		c.ICtCp = p[3]&0x80 != 0
		c.ST209440 = p[3]&0x40 != 0
		c.ST209410 = p[3]&0x20 != 0
		c.BT2100ICtCp = p[3]&0x10 != 0
	}
	return c
}

// EOTF and descriptor names for the HDR static metadata block.
const (
	EOTFTraditionalSDR = "Traditional gamma - SDR"
	EOTFTraditionalHDR = "Traditional gamma - HDR"
	EOTFSMPTEST2084    = "SMPTE ST2084 (PQ)"
	EOTFHybridLogGamma = "Hybrid Log-Gamma (HLG)"

	StaticMetadataType1 = "Static Metadata Type 1"
)

var eotfNames = [4]string{EOTFTraditionalSDR, EOTFTraditionalHDR, EOTFSMPTEST2084, EOTFHybridLogGamma}

var staticMetadataNames = [1]string{StaticMetadataType1}

// HDRStaticMetadataDataBlock (extended tag 6).
type HDRStaticMetadataDataBlock struct {
	EOTFs               []string
	MetadataDescriptors []string

	// raw luminance codes, -1 when not present in the payload
	MaxLuminanceCode         int
	MaxFrameAvgLuminanceCode int
	MinLuminanceCode         int
}

func (*HDRStaticMetadataDataBlock) isDataBlock() {}

// SupportsHDR10 requires both the PQ EOTF and the Type 1 descriptor.
func (h *HDRStaticMetadataDataBlock) SupportsHDR10() bool {
	return contains(h.EOTFs, EOTFSMPTEST2084) && contains(h.MetadataDescriptors, StaticMetadataType1)
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}

func decodeHDRStaticMetadata(p []byte) *HDRStaticMetadataDataBlock {
	h := &HDRStaticMetadataDataBlock{
		MaxLuminanceCode:         -1,
		MaxFrameAvgLuminanceCode: -1,
		MinLuminanceCode:         -1,
	}
	eotf := at(p, 1)
	for i, name := range eotfNames {
		if eotf&(1<<uint(i)) != 0 {
			h.EOTFs = append(h.EOTFs, name)
		}
	}
	if len(p) > 2 {
		for i, name := range staticMetadataNames {
			if p[2]&(1<<uint(i)) != 0 {
				h.MetadataDescriptors = append(h.MetadataDescriptors, name)
			}
		}
	}
	if len(p) > 3 {
		h.MaxLuminanceCode = int(p[3])
	}
	if len(p) > 4 {
		h.MaxFrameAvgLuminanceCode = int(p[4])
	}
	if len(p) > 5 {
		h.MinLuminanceCode = int(p[5])
	}
	return h
}

// HDRDynamicMetadataDataBlock (extended tag 7).
//
// Type 1 is the Dolby-authored carrier and type 4 the Samsung-authored one,
// but neither implies Dolby Vision or HDR10+ support on its own - those are
// signalled by the vendor-specific OUIs instead.
type HDRDynamicMetadataDataBlock struct {
	MetadataTypeID int
	MetadataType   string
	Version        int
}

func (*HDRDynamicMetadataDataBlock) isDataBlock() {}

var dynamicMetadataNames = map[int]string{
	1: "SMPTE ST 2094-10",
	2: "SMPTE ST 2094-20",
	3: "SMPTE ST 2094-30",
	4: "SMPTE ST 2094-40",
}

func decodeHDRDynamicMetadata(p []byte) *HDRDynamicMetadataDataBlock {
	h := &HDRDynamicMetadataDataBlock{
		MetadataTypeID: int(at(p, 1)),
		Version:        int(at(p, 2)),
	}
	h.MetadataType = dynamicMetadataNames[h.MetadataTypeID]
	return h
}

// VideoFormatPreferenceDataBlock (extended tag 13).
type VideoFormatPreferenceDataBlock struct {
	Entries []VideoFormatPreference
}

func (*VideoFormatPreferenceDataBlock) isDataBlock() {}

type VideoFormatPreference struct {
	SVRCode byte // short video reference, bits 5-0
	FRRCode byte // fixed refresh rate code, bits 7-6
}

func decodeVideoFormatPreference(p []byte) *VideoFormatPreferenceDataBlock {
	v := &VideoFormatPreferenceDataBlock{}
	for _, b := range p[min(1, len(p)):] {
		v.Entries = append(v.Entries, VideoFormatPreference{
			SVRCode: b & 0x3f,
			FRRCode: b >> 6,
		})
	}
	return v
}

// RoomConfigurationDataBlock (extended tag 19).
type RoomConfigurationDataBlock struct {
	SpeakerCount int
	RoomTypeCode byte
	RoomType     string
}

func (*RoomConfigurationDataBlock) isDataBlock() {}

var roomTypes = [4]string{"Not indicated", "Front Height", "Rear Height", "Reserved"}

func decodeRoomConfiguration(p []byte) *RoomConfigurationDataBlock {
	b := at(p, 1)
	code := (b >> 5) & 0x3
	return &RoomConfigurationDataBlock{
		SpeakerCount: int(b&0x1f) + 1,
		RoomTypeCode: code,
		RoomType:     roomTypes[code],
	}
}

// YCbCr420VideoDataBlock (extended tag 14): SVDs that are only supported with
// 4:2:0 subsampling.
type YCbCr420VideoDataBlock struct {
	Descriptors []ShortVideoDescriptor
}

func (*YCbCr420VideoDataBlock) isDataBlock() {}

func decodeYCbCr420Video(p []byte) *YCbCr420VideoDataBlock {
	v := &YCbCr420VideoDataBlock{}
	for _, b := range p[min(1, len(p)):] {
		v.Descriptors = append(v.Descriptors, decodeSVD(b))
	}
	return v
}

// YCbCr420CapabilityMapDataBlock (extended tag 15): a bitmap over the SVDs of
// the video data block seen earlier in the same extension. Bit j of map byte k
// selects SVD index 8k+j.
type YCbCr420CapabilityMapDataBlock struct {
	Descriptors []ShortVideoDescriptor
}

func (*YCbCr420CapabilityMapDataBlock) isDataBlock() {}

func decodeYCbCr420CapabilityMap(p []byte, ctx *ctaContext) *YCbCr420CapabilityMapDataBlock {
	m := &YCbCr420CapabilityMapDataBlock{}
	if ctx == nil || ctx.lastVideoBlock == nil {
		return m
	}
	svds := ctx.lastVideoBlock.Descriptors
	for k, b := range p[min(1, len(p)):] {
		for j := 0; j < 8; j++ {
			if b&(1<<uint(j)) == 0 {
				continue
			}
			idx := 8*k + j
			if idx < len(svds) {
				m.Descriptors = append(m.Descriptors, svds[idx])
			}
		}
	}
	return m
}

// VendorSpecificVideoDataBlock (extended tag 1), dispatched on OUI.
type VendorSpecificVideoDataBlock struct {
	OUI                 uint32
	SupportsHDR10Plus   bool
	SupportsDolbyVision bool
	Raw                 []byte
}

func (*VendorSpecificVideoDataBlock) isDataBlock() {}

func decodeVendorSpecificVideo(p []byte) *VendorSpecificVideoDataBlock {
	v := &VendorSpecificVideoDataBlock{
		OUI: decodeOUI(p[min(1, len(p)):]),
		Raw: append([]byte(nil), p...),
	}
	switch v.OUI {
	case ouiHDR10Plus:
		v.SupportsHDR10Plus = true
	case ouiDolbyVision:
		v.SupportsDolbyVision = true
	}
	return v
}

// HDMIForumSCDB (extended tag 0x79) mirrors the long-form HDMI Forum vendor
// block, shifted to extended-tag byte offsets.
type HDMIForumSCDB struct {
	Features HDMIForumFeatures
}

func (*HDMIForumSCDB) isDataBlock() {}

// HDMIForumFeatures is the feature layout shared by the HDMI Forum vendor
// block and the SCDB. Offsets are relative to the version byte.
type HDMIForumFeatures struct {
	Version    int
	MaxTMDSMHz int

	SCDCPresent     bool
	SCDCReadRequest bool
	CableStatus     bool
	CCBPCI          bool
	LTE340Scramble  bool
	IndependentView bool
	DualView        bool
	OSD3DDisparity  bool

	MaxFRLRateCode byte
	MaxFRLRate     string
	UHDVIC         bool

	DeepColor30Y420 bool
	DeepColor36Y420 bool
	DeepColor48Y420 bool

	FAPAStartLocation bool
	ALLM              bool
	FVA               bool
	CNMVRR            bool
	CinemaVRR         bool
	MDelta            bool
	QMS               bool
	FAPAEndExtended   bool

	// 0 means not present, not 0 Hz
	VRRMinHz int
	VRRMaxHz int

	DSC10bpc     bool
	DSC12bpc     bool
	DSC16bpc     bool
	DSCAllBPP    bool
	QMSTFRMin    bool
	QMSTFRMax    bool
	DSCNative420 bool
	DSC12        bool
}

var frlRates = [7]string{"Not Supported", "3L@3G", "3L@6G", "4L@6G", "4L@8G", "4L@10G", "4L@12G"}

func frlRateName(code byte) string {
	if int(code) < len(frlRates) {
		return frlRates[code]
	}
	return "Unknown"
}

// AnyFeatureFlag reports whether any forum-specific capability bit is set,
// which distinguishes HDMI 2.1 from plain 2.0 signalling.
func (f *HDMIForumFeatures) AnyFeatureFlag() bool {
	return f.FAPAStartLocation || f.ALLM || f.FVA || f.CNMVRR || f.CinemaVRR ||
		f.MDelta || f.QMS || f.FAPAEndExtended || f.VRRMinHz > 0 || f.VRRMaxHz > 0 ||
		f.DSC10bpc || f.DSC12bpc || f.DSC16bpc || f.DSCAllBPP || f.DSCNative420 || f.DSC12
}

// decodeForumFeatures decodes the shared layout; q[0] is the version byte.
func decodeForumFeatures(q []byte) HDMIForumFeatures {
	f := HDMIForumFeatures{
		Version:    int(at(q, 0)),
		MaxTMDSMHz: int(at(q, 1)) * 5,
	}

	scdc := at(q, 2)
	f.SCDCPresent = scdc&0x80 != 0
	f.SCDCReadRequest = scdc&0x40 != 0
	f.CableStatus = scdc&0x20 != 0
	f.CCBPCI = scdc&0x10 != 0
	f.LTE340Scramble = scdc&0x08 != 0
	f.IndependentView = scdc&0x04 != 0
	f.DualView = scdc&0x02 != 0
	f.OSD3DDisparity = scdc&0x01 != 0

	frl := at(q, 3)
	f.MaxFRLRateCode = frl >> 4
	f.MaxFRLRate = frlRateName(f.MaxFRLRateCode)
	f.UHDVIC = frl&0x08 != 0
	f.DeepColor48Y420 = frl&0x04 != 0
	f.DeepColor36Y420 = frl&0x02 != 0
	f.DeepColor30Y420 = frl&0x01 != 0

	fapa := at(q, 4)
	f.FAPAEndExtended = fapa&0x80 != 0
	f.QMS = fapa&0x40 != 0
	f.MDelta = fapa&0x20 != 0
	f.CinemaVRR = fapa&0x10 != 0
	f.CNMVRR = fapa&0x08 != 0
	f.FVA = fapa&0x04 != 0
	f.ALLM = fapa&0x02 != 0
	f.FAPAStartLocation = fapa&0x01 != 0

	vrr := at(q, 5)
	f.VRRMinHz = int(vrr & 0x3f)
	f.VRRMaxHz = int(vrr&0xc0)<<2 | int(at(q, 6))

	dsc := at(q, 7)
	f.DSC12 = dsc&0x80 != 0
	f.DSCNative420 = dsc&0x40 != 0
	f.QMSTFRMax = dsc&0x20 != 0
	f.QMSTFRMin = dsc&0x10 != 0
	f.DSCAllBPP = dsc&0x08 != 0
	f.DSC16bpc = dsc&0x04 != 0
	f.DSC12bpc = dsc&0x02 != 0
	f.DSC10bpc = dsc&0x01 != 0
	return f
}
