package edid

// BlockSize is the fixed size of every EDID block (base and extensions).
const BlockSize = 128

// decoder is the per-call decode context: the (copied) input bytes plus the
// append-only warnings list. One decoder exists per Decode call, so concurrent
// decodes never share state.
type decoder struct {
	data     []byte
	warnings []Warning
}

func (d *decoder) warn(code WarningCode, message string, block, offset int, detail any) {
	d.warnings = append(d.warnings, Warning{
		Code:    code,
		Message: message,
		Block:   block,
		Offset:  offset,
		Detail:  detail,
	})
}

// blockReader exposes bounds-checked byte access relative to one 128-byte
// block. Out-of-range reads record a single warning and return a safe default,
// so downstream decoders never deal with buffer bounds at all.
type blockReader struct {
	d     *decoder
	block int // block index (0 = base block)
	base  int // absolute offset of the block's first byte
}

func (d *decoder) blockReader(block int) *blockReader {
	return &blockReader{d: d, block: block, base: block * BlockSize}
}

// byteAt returns the byte at the given block-relative offset, or (0, false)
// with an out_of_range_read warning when the buffer is too short.
func (r *blockReader) byteAt(offset int) (byte, bool) {
	abs := r.base + offset
	if offset < 0 || abs >= len(r.d.data) {
		r.d.warn(WarnOutOfRangeRead, "read beyond end of buffer", r.block, offset, nil)
		return 0, false
	}
	return r.d.data[abs], true
}

// zeroAt is byteAt for call sites where CTA-861 treats short reads as
// zero-filled - it returns 0 instead of reporting absence.
func (r *blockReader) zeroAt(offset int) byte {
	b, _ := r.byteAt(offset)
	return b
}

// bytes returns up to n bytes starting at the given block-relative offset,
// truncated (without warning) at the end of the buffer.
func (r *blockReader) bytes(offset, n int) []byte {
	abs := r.base + offset
	if abs >= len(r.d.data) || n <= 0 {
		return nil
	}
	end := abs + n
	if end > len(r.d.data) {
		end = len(r.d.data)
	}
	return r.d.data[abs:end]
}

// available reports how many bytes of this block are actually present.
func (r *blockReader) available() int {
	n := len(r.d.data) - r.base
	if n < 0 {
		return 0
	}
	if n > BlockSize {
		return BlockSize
	}
	return n
}

// checksum computes the block checksum state: valid iff the sum of all 128
// bytes is 0 mod 256. A truncated block is always invalid.
func (r *blockReader) checksum() (sum byte, stored byte, valid bool) {
	if r.available() < BlockSize {
		return 0, 0, false
	}
	for i := 0; i < BlockSize; i++ {
		sum += r.d.data[r.base+i]
	}
	return sum, r.d.data[r.base+BlockSize-1], sum == 0
}
