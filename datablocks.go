package edid

import "fmt"

// CTA-861 data block tag codes (bits 7-5 of the data block header byte).
const (
	tagReserved          = 0
	tagAudio             = 1
	tagVideo             = 2
	tagVendorSpecific    = 3
	tagSpeakerAllocation = 4
	tagExtended          = 7
)

// IEEE OUIs seen in vendor-specific data blocks. The bytes appear reversed on
// the wire; decodeOUI reassembles them into these values.
const (
	ouiHDMI14      = 0x000c03
	ouiHDMIForum   = 0xc45dd8 // also registered as "HDMI 2.0" - see vendor dispatch
	ouiDolbyVision = 0x00d046
	ouiHDR10Plus   = 0x90848b
)

// DataBlock is one record of a CTA-861 Data Block Collection. It is a closed
// sum over the known (tag, extended tag, OUI) shapes; callers switch on the
// concrete type.
type DataBlock interface {
	isDataBlock()
}

// ShortVideoDescriptor is one SVD byte of a video data block.
type ShortVideoDescriptor struct {
	VIC byte
	// Native is only meaningful for non-extended VICs
	Native   bool
	Extended bool
}

func decodeSVD(b byte) ShortVideoDescriptor {
	if b&0x40 != 0 {
		// extended VIC range: the whole byte is the code, no native flag
		return ShortVideoDescriptor{VIC: b, Extended: true}
	}
	return ShortVideoDescriptor{VIC: b & 0x3f, Native: b&0x80 != 0}
}

// VideoDataBlock holds the Short Video Descriptors of one extension. CTA-861
// permits repeated video blocks; the collection scan merges them into one.
type VideoDataBlock struct {
	Descriptors []ShortVideoDescriptor
}

func (*VideoDataBlock) isDataBlock() {}

func decodeVideoBlock(payload []byte) *VideoDataBlock {
	v := &VideoDataBlock{}
	for _, b := range payload {
		v.Descriptors = append(v.Descriptors, decodeSVD(b))
	}
	return v
}

// AudioDataBlock holds the Short Audio Descriptors (3 bytes each).
type AudioDataBlock struct {
	Descriptors []AudioDescriptor
}

func (*AudioDataBlock) isDataBlock() {}

type AudioDescriptor struct {
	FormatCode     byte
	Format         string
	Channels       int
	SampleRatesKHz []float64
	// BitDepths is populated for LPCM; MaxBitRateKbps for compressed formats
	BitDepths      []int
	MaxBitRateKbps int
}

var audioFormatNames = map[byte]string{
	1:  "LPCM",
	2:  "AC-3",
	3:  "MPEG-1",
	4:  "MP3",
	5:  "MPEG-2",
	6:  "AAC",
	7:  "DTS",
	8:  "ATRAC",
	9:  "1-bit audio",
	10: "Dolby Digital Plus",
	11: "DTS-HD",
	12: "Dolby TrueHD",
	13: "DST Audio",
	14: "WMA Pro",
}

var audioSampleRates = []float64{32, 44.1, 48, 88.2, 96, 176.4, 192}

func decodeAudioBlock(payload []byte) *AudioDataBlock {
	a := &AudioDataBlock{}
	for i := 0; i+3 <= len(payload); i += 3 {
		desc := AudioDescriptor{
			FormatCode: (payload[i] >> 3) & 0xf,
			Channels:   int(payload[i]&0x7) + 1,
		}
		if name, ok := audioFormatNames[desc.FormatCode]; ok {
			desc.Format = name
		} else {
			desc.Format = "reserved"
		}
		for bit, rate := range audioSampleRates {
			if payload[i+1]&(1<<uint(bit)) != 0 {
				desc.SampleRatesKHz = append(desc.SampleRatesKHz, rate)
			}
		}
		if desc.FormatCode == 1 { // LPCM
			if payload[i+2]&0x01 != 0 {
				desc.BitDepths = append(desc.BitDepths, 16)
			}
			if payload[i+2]&0x02 != 0 {
				desc.BitDepths = append(desc.BitDepths, 20)
			}
			if payload[i+2]&0x04 != 0 {
				desc.BitDepths = append(desc.BitDepths, 24)
			}
		} else {
			desc.MaxBitRateKbps = int(payload[i+2]) * 8
		}
		a.Descriptors = append(a.Descriptors, desc)
	}
	return a
}

// SpeakerAllocationDataBlock decodes the 3-byte speaker presence bitmap.
type SpeakerAllocationDataBlock struct {
	Raw       []byte
	Positions []string
}

func (*SpeakerAllocationDataBlock) isDataBlock() {}

var speakerPositions = []string{
	"Front Left/Right",
	"LFE",
	"Front Center",
	"Rear Left/Right",
	"Rear Center",
	"Front Left/Right Center",
	"Rear Left/Right Center",
	"Front Left/Right Wide",
}

func decodeSpeakerBlock(payload []byte) *SpeakerAllocationDataBlock {
	s := &SpeakerAllocationDataBlock{Raw: append([]byte(nil), payload...)}
	if len(payload) == 0 {
		return s
	}
	for bit, name := range speakerPositions {
		if payload[0]&(1<<uint(bit)) != 0 {
			s.Positions = append(s.Positions, name)
		}
	}
	return s
}

// decodeOUI reassembles the 3 wire bytes (least significant first) into the
// conventional IEEE OUI value.
func decodeOUI(p []byte) uint32 {
	return uint32(at(p, 2))<<16 | uint32(at(p, 1))<<8 | uint32(at(p, 0))
}

// at is a zero-default index helper for payloads that CTA treats as
// zero-filled when short.
func at(p []byte, i int) byte {
	if i < 0 || i >= len(p) {
		return 0
	}
	return p[i]
}

// HDMI14DataBlock is the HDMI Licensing ("classic") vendor block.
type HDMI14DataBlock struct {
	PhysicalAddress string

	SupportsAI    bool
	DeepColor30   bool
	DeepColor36   bool
	DeepColor48   bool
	DeepColorY444 bool
	DualLinkDVI   bool

	MaxTMDSMHz int

	HDMIVideoPresent    bool
	ContentTypeGame     bool
	ContentTypeCinema   bool
	ContentTypePhoto    bool
	ContentTypeGraphics bool

	// latencies in ms, nil when not reported
	VideoLatencyMs           *int
	AudioLatencyMs           *int
	InterlacedVideoLatencyMs *int
	InterlacedAudioLatencyMs *int
}

func (*HDMI14DataBlock) isDataBlock() {}

func decodeHDMI14Block(p []byte) *HDMI14DataBlock {
	h := &HDMI14DataBlock{
		PhysicalAddress: fmt.Sprintf("%d.%d.%d.%d", at(p, 3)>>4, at(p, 3)&0xf, at(p, 4)>>4, at(p, 4)&0xf),
	}
	if len(p) > 5 {
		flags := p[5]
		h.SupportsAI = flags&0x80 != 0
		h.DeepColor48 = flags&0x40 != 0
		h.DeepColor36 = flags&0x20 != 0
		h.DeepColor30 = flags&0x10 != 0
		h.DeepColorY444 = flags&0x08 != 0
		h.DualLinkDVI = flags&0x01 != 0
	}
	h.MaxTMDSMHz = int(at(p, 6)) * 5
	if len(p) > 7 {
		flags := p[7]
		h.HDMIVideoPresent = flags&0x20 != 0
		h.ContentTypeGame = flags&0x08 != 0
		h.ContentTypeCinema = flags&0x04 != 0
		h.ContentTypePhoto = flags&0x02 != 0
		h.ContentTypeGraphics = flags&0x01 != 0

		latency := flags&0x80 != 0
		iLatency := flags&0x40 != 0
		if latency {
			h.VideoLatencyMs = latencyMs(at(p, 8))
			h.AudioLatencyMs = latencyMs(at(p, 9))
			// interlaced latencies are only meaningful alongside progressive ones
			if iLatency {
				h.InterlacedVideoLatencyMs = latencyMs(at(p, 10))
				h.InterlacedAudioLatencyMs = latencyMs(at(p, 11))
			}
		}
	}
	return h
}

func latencyMs(raw byte) *int {
	if raw == 0 {
		return nil
	}
	ms := (int(raw) - 1) * 2
	return &ms
}

// HDMI20DataBlock is the short-form payload sometimes found under the HDMI
// Forum OUI on early HDMI 2.0 displays.
type HDMI20DataBlock struct {
	Version    int
	MaxTMDSMHz int

	SCDCPresent     bool
	SCDCReadRequest bool
	LTE340Scramble  bool
	IndependentView bool
	DualView        bool
	OSD3DDisparity  bool

	DeepColor30Y420 bool
	DeepColor36Y420 bool
	DeepColor48Y420 bool
}

func (*HDMI20DataBlock) isDataBlock() {}

func decodeHDMI20Block(p []byte) *HDMI20DataBlock {
	h := &HDMI20DataBlock{
		Version:    int(at(p, 3)),
		MaxTMDSMHz: int(at(p, 4)) * 5,
	}
	flags := at(p, 5)
	h.SCDCPresent = flags&0x80 != 0
	h.SCDCReadRequest = flags&0x40 != 0
	h.LTE340Scramble = flags&0x08 != 0
	h.IndependentView = flags&0x04 != 0
	h.DualView = flags&0x02 != 0
	h.OSD3DDisparity = flags&0x01 != 0
	dc := at(p, 6)
	h.DeepColor48Y420 = dc&0x04 != 0
	h.DeepColor36Y420 = dc&0x02 != 0
	h.DeepColor30Y420 = dc&0x01 != 0
	return h
}

// HDMIForumDataBlock is the long-form HDMI Forum vendor block (HDMI 2.1).
type HDMIForumDataBlock struct {
	Features HDMIForumFeatures
}

func (*HDMIForumDataBlock) isDataBlock() {}

// DolbyVisionDataBlock marks the Dolby OUI; the payload itself is opaque.
type DolbyVisionDataBlock struct {
	Raw []byte
}

func (*DolbyVisionDataBlock) isDataBlock() {}

// UnknownVendorDataBlock retains vendor payloads with unrecognised OUIs.
type UnknownVendorDataBlock struct {
	OUI uint32
	Raw []byte
}

func (*UnknownVendorDataBlock) isDataBlock() {}

// decodeVendorBlock dispatches a vendor-specific data block on its OUI.
// The HDMI Forum OUI is shared by two distinct payload shapes; the reference
// data distinguishes them purely by payload length, which is preserved here.
func decodeVendorBlock(p []byte) DataBlock {
	switch decodeOUI(p) {
	case ouiDolbyVision:
		return &DolbyVisionDataBlock{Raw: append([]byte(nil), p...)}
	case ouiHDMI14:
		return decodeHDMI14Block(p)
	case ouiHDMIForum:
		if len(p) >= 8 {
			return &HDMIForumDataBlock{Features: decodeForumFeatures(p[3:])}
		}
		return decodeHDMI20Block(p)
	}
	return &UnknownVendorDataBlock{OUI: decodeOUI(p), Raw: append([]byte(nil), p...)}
}
