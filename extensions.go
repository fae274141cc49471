package edid

import "fmt"

// Extension block tag bytes.
const (
	extensionTagCTA861    = 0x02
	extensionTagDisplayID = 0x70
)

// ExtensionInfo is the part shared by every extension block shape.
type ExtensionInfo struct {
	BlockNumber   int // 1-based
	TagByte       byte
	Revision      byte
	DTDStart      int
	Checksum      byte
	ChecksumValid bool
	Raw           []byte
}

// Extension is a decoded 128-byte extension block: one of CTAExtension,
// DisplayIDExtension or UnknownExtension.
type Extension interface {
	Info() *ExtensionInfo
}

// CTAExtension is a CTA-861 extension block.
type CTAExtension struct {
	ExtensionInfo

	Underscan  bool
	BasicAudio bool
	YCbCr444   bool
	YCbCr422   bool

	DataBlocks []DataBlock
	Timings    []DetailedTiming
}

func (e *CTAExtension) Info() *ExtensionInfo { return &e.ExtensionInfo }

// DisplayIDExtension is a DisplayID extension block; only the structure
// version is decoded from the header.
type DisplayIDExtension struct {
	ExtensionInfo

	VersionMajor int
	VersionMinor int
	// Version is 0 when the revision byte does not decode to a known version
	Version float64
}

func (e *DisplayIDExtension) Info() *ExtensionInfo { return &e.ExtensionInfo }

// UnknownExtension retains blocks with unrecognised tags, and is the fallback
// for extensions whose decode faulted.
type UnknownExtension struct {
	ExtensionInfo
}

func (e *UnknownExtension) Info() *ExtensionInfo { return &e.ExtensionInfo }

// ctaContext carries state shared across the extension blocks of one decode
// call, such as the video data block a later capability map refers back to.
type ctaContext struct {
	lastVideoBlock *VideoDataBlock
}

func decodeExtensions(d *decoder) []Extension {
	count := (len(d.data) + BlockSize - 1) / BlockSize
	ctx := &ctaContext{}
	var extensions []Extension
	for i := 1; i < count; i++ {
		extensions = append(extensions, decodeExtensionBlock(d, i, ctx))
	}
	return extensions
}

// decodeExtensionBlock decodes one extension, downgrading any fault to an
// unknown extension so a single malformed block never aborts the decode.
func decodeExtensionBlock(d *decoder, block int, ctx *ctaContext) (ext Extension) {
	r := d.blockReader(block)
	info := ExtensionInfo{
		BlockNumber: block,
		TagByte:     r.zeroAt(0),
		Revision:    r.zeroAt(1),
		DTDStart:    int(r.zeroAt(2)),
		Raw:         r.bytes(0, BlockSize),
	}
	_, info.Checksum, info.ChecksumValid = r.checksum()
	if !info.ChecksumValid {
		d.warn(WarnChecksumFailed, fmt.Sprintf("extension block %d checksum mismatch", block), block, BlockSize-1, nil)
	}

	defer func() {
		if cause := recover(); cause != nil {
			d.warn(WarnParseError, fmt.Sprintf("extension block %d decode failed: %v", block, cause), block, -1, cause)
			ext = &UnknownExtension{ExtensionInfo: info}
		}
	}()

	switch info.TagByte {
	case extensionTagCTA861:
		return decodeCTAExtension(d, r, info, ctx)
	case extensionTagDisplayID:
		return decodeDisplayIDExtension(info)
	}
	d.warn(WarnUnknownExtensionTag, fmt.Sprintf("extension tag 0x%02x not recognised", info.TagByte), block, 0, info.TagByte)
	return &UnknownExtension{ExtensionInfo: info}
}

func decodeCTAExtension(d *decoder, r *blockReader, info ExtensionInfo, ctx *ctaContext) *CTAExtension {
	flags := r.zeroAt(3)
	ext := &CTAExtension{
		ExtensionInfo: info,
		Underscan:     flags&0x80 != 0,
		BasicAudio:    flags&0x40 != 0,
		YCbCr444:      flags&0x20 != 0,
		YCbCr422:      flags&0x10 != 0,
	}

	// dtdStart == 4 means the DTD area starts immediately: no data blocks
	if info.DTDStart != 4 {
		decodeDataBlockCollection(d, r, ext, 4, info.DTDStart, ctx)
	}

	dtdEnd := BlockSize - 2
	for offset := info.DTDStart; offset >= 4 && offset+18 <= dtdEnd; offset += 18 {
		if !isTimingSlot(r, offset) {
			break
		}
		ext.Timings = append(ext.Timings, decodeDTD(r, offset))
	}
	return ext
}

// decodeDataBlockCollection walks [start, end) as data block headers
// ([tag:3][len:5]) and dispatches each payload. After the primary scan, a
// recovery pass hunts for an HDMI Forum SCDB that an off-by-one block length
// has pushed out of alignment - a malformation seen on real displays.
func decodeDataBlockCollection(d *decoder, r *blockReader, ext *CTAExtension, start, end int, ctx *ctaContext) {
	if end > BlockSize-2 {
		end = BlockSize - 2
	}
	sawSCDB := false
	for offset := start; offset < end; {
		header := r.zeroAt(offset)
		tag := header >> 5
		length := int(header & 0x1f)
		payload := r.bytes(offset+1, length)
		switch tag {
		case tagAudio:
			ext.DataBlocks = append(ext.DataBlocks, decodeAudioBlock(payload))
		case tagVideo:
			video := decodeVideoBlock(payload)
			// CTA-861 permits repeated video blocks; merge instead of duplicating
			if ctx.lastVideoBlock != nil && containsBlock(ext.DataBlocks, ctx.lastVideoBlock) {
				ctx.lastVideoBlock.Descriptors = append(ctx.lastVideoBlock.Descriptors, video.Descriptors...)
			} else {
				ext.DataBlocks = append(ext.DataBlocks, video)
				ctx.lastVideoBlock = video
			}
		case tagVendorSpecific:
			ext.DataBlocks = append(ext.DataBlocks, decodeVendorBlock(payload))
		case tagSpeakerAllocation:
			ext.DataBlocks = append(ext.DataBlocks, decodeSpeakerBlock(payload))
		case tagExtended:
			block := decodeExtendedBlock(payload, ctx)
			if _, ok := block.(*HDMIForumSCDB); ok {
				sawSCDB = true
			}
			ext.DataBlocks = append(ext.DataBlocks, block)
		default:
			d.warn(WarnUnknownDataBlock, fmt.Sprintf("data block tag %d not recognised", tag), ext.BlockNumber, offset, tag)
		}
		offset += length + 1
	}

	if !sawSCDB {
		recoverMisplacedSCDB(r, ext, start, end, ctx)
	}
}

// recoverMisplacedSCDB re-walks the collection range byte-by-byte, tolerating
// the misaligned lengths that hide an SCDB from the primary scan.
func recoverMisplacedSCDB(r *blockReader, ext *CTAExtension, start, end int, ctx *ctaContext) {
	for offset := start; offset < end-1; offset++ {
		header := r.zeroAt(offset)
		if header>>5 != tagExtended || r.zeroAt(offset+1) != extTagHDMIForumSCDB {
			continue
		}
		length := int(header & 0x1f)
		if length == 0 || offset+1+length > end {
			length = end - offset - 1
		}
		ext.DataBlocks = append(ext.DataBlocks, decodeExtendedBlock(r.bytes(offset+1, length), ctx))
		return
	}
}

func containsBlock(blocks []DataBlock, want DataBlock) bool {
	for _, b := range blocks {
		if b == want {
			return true
		}
	}
	return false
}

// DisplayID structure versions keyed by revision byte; other values decode
// as major.minor nibbles.
var displayIDVersions = map[byte][3]int{
	0x01: {1, 3, 0},
	0x02: {2, 0, 0},
	0x03: {2, 1, 0},
}

func decodeDisplayIDExtension(info ExtensionInfo) *DisplayIDExtension {
	ext := &DisplayIDExtension{ExtensionInfo: info}
	if v, ok := displayIDVersions[info.Revision]; ok {
		ext.VersionMajor, ext.VersionMinor = v[0], v[1]
	} else {
		major := int(info.Revision >> 4)
		minor := int(info.Revision & 0xf)
		if major == 0 || minor > 9 {
			return ext
		}
		ext.VersionMajor, ext.VersionMinor = major, minor
	}
	ext.Version = versionFloat(ext.VersionMajor, ext.VersionMinor)
	return ext
}

// versionFloat builds "{major}.{minor}" as a float. Lossy for minor >= 10;
// the integer pair is the authoritative representation.
func versionFloat(major, minor int) float64 {
	scale := 10.0
	for float64(minor) >= scale {
		scale *= 10
	}
	return float64(major) + float64(minor)/scale
}
