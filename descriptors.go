package edid

import "strings"

// Monitor descriptor tags recognised inside unused DTD slots.
const (
	descriptorTagSerial      = 0xff
	descriptorTagUnspecified = 0xfe
	descriptorTagModelName   = 0xfc
)

// SPWGData is the panel module information carried by a pair of consecutive
// 0xFE descriptors on SPWG/PSWG notebook panels.
type SPWGData struct {
	PCMakerPartNumber string // 5 chars
	EEDIDRevision     string // 1 char
	MakerPartNumber   string // 7 chars
	SMBusValues       []byte // 8 raw bytes
	LVDSChannels      int    // 1 or 2
	PanelSelfTest     bool
}

type descriptorResult struct {
	timings     []DetailedTiming
	spwg        *SPWGData
	modelName   string
	serialText  string
	unspecified []string
}

// decodeMonitorDescriptors walks the four 18-byte slots at bytes 54-125,
// splitting them into detailed timings and monitor descriptors. An SPWG pair
// consumes two slots atomically; only the first pair found is kept.
func decodeMonitorDescriptors(r *blockReader) descriptorResult {
	var res descriptorResult
	for offset := 54; offset+18 <= 126; offset += 18 {
		if isTimingSlot(r, offset) {
			res.timings = append(res.timings, decodeDTD(r, offset))
			continue
		}
		tag, ok := descriptorTag(r, offset)
		if !ok {
			continue
		}
		if tag == descriptorTagUnspecified && res.spwg == nil {
			// SPWG module data is two adjacent 0xFE descriptors; sniff the
			// second slot before falling back to free text
			next := offset + 18
			if next+18 <= 126 {
				if nextTag, ok := descriptorTag(r, next); ok && nextTag == descriptorTagUnspecified {
					if spwg := decodeSPWGPair(r.bytes(offset+5, 13), r.bytes(next+5, 13)); spwg != nil {
						res.spwg = spwg
						offset = next // consume both slots
						continue
					}
				}
			}
		}
		text := cleanDescriptorText(r.bytes(offset+5, 13))
		if text == "" {
			continue
		}
		switch tag {
		case descriptorTagSerial:
			res.serialText = joinFragment(res.serialText, text)
		case descriptorTagModelName:
			res.modelName = joinFragment(res.modelName, text)
		case descriptorTagUnspecified:
			res.unspecified = append(res.unspecified, text)
		}
	}
	return res
}

// descriptorTag reports the descriptor tag of a slot whose bytes 0-2 and 4
// are all zero; other slots are not monitor descriptors.
func descriptorTag(r *blockReader, offset int) (byte, bool) {
	if r.zeroAt(offset) != 0 || r.zeroAt(offset+1) != 0 || r.zeroAt(offset+2) != 0 || r.zeroAt(offset+4) != 0 {
		return 0, false
	}
	tag := r.zeroAt(offset + 3)
	switch tag {
	case descriptorTagSerial, descriptorTagUnspecified, descriptorTagModelName:
		return tag, true
	}
	return 0, false
}

// decodeSPWGPair decodes two 13-byte descriptor payloads as SPWG module data,
// or returns nil when the second payload does not match the descriptor-4
// signature. The sniffing rules are tuned against real panel EDIDs: the second
// descriptor carries binary SMBus values where free text would carry ASCII.
func decodeSPWGPair(first, second []byte) *SPWGData {
	if len(first) < 13 || len(second) < 13 {
		return nil
	}
	lvds := int(second[8])
	if lvds != 1 && lvds != 2 {
		return nil
	}
	if second[9]&^0x01 != 0 { // panel self-test byte: only bit 0 may be set
		return nil
	}
	if second[10] != '\n' {
		return nil
	}
	binary := false
	for _, b := range second[:8] {
		if b < 0x20 || b > 0x7e {
			binary = true
			break
		}
	}
	if !binary {
		return nil
	}
	return &SPWGData{
		PCMakerPartNumber: trimPartNumber(first[0:5]),
		EEDIDRevision:     trimPartNumber(first[5:6]),
		MakerPartNumber:   trimPartNumber(first[6:13]),
		SMBusValues:       append([]byte(nil), second[:8]...),
		LVDSChannels:      lvds,
		PanelSelfTest:     second[9]&0x01 != 0,
	}
}

func trimPartNumber(b []byte) string {
	return strings.TrimRight(string(b), " \x00\n")
}

// cleanDescriptorText sanitizes a 13-byte free-text payload. The rules are a
// literal port of heuristics tuned against a large corpus of vendor EDIDs:
//   - stop at NUL or LF, strip trailing spaces
//   - keep printable ASCII only; the Latin-1 multiplication sign becomes 'x'
//   - strip decorative trailing '*' / '^'
//   - drop fragments shorter than 3 chars, not starting with an alphanumeric,
//     or containing '|' or '`'
func cleanDescriptorText(payload []byte) string {
	var sb strings.Builder
	for _, b := range payload {
		if b == 0x00 || b == '\n' {
			break
		}
		if b == 0xd7 { // e.g. "1920×1080" in vendor strings
			sb.WriteByte('x')
			continue
		}
		if b < 0x20 || b > 0x7e {
			continue
		}
		sb.WriteByte(b)
	}
	text := strings.TrimRight(sb.String(), " ")
	text = strings.TrimRight(text, "*^")
	text = replaceResolutionStar(text)
	if len(text) < 3 || !isAlnum(text[0]) || strings.ContainsAny(text, "|`") {
		return ""
	}
	return text
}

// replaceResolutionStar rewrites "1920*1080" style strings as "1920x1080".
func replaceResolutionStar(s string) string {
	b := []byte(s)
	for i := 1; i < len(b)-1; i++ {
		if b[i] == '*' && isDigit(b[i-1]) && isDigit(b[i+1]) {
			b[i] = 'x'
		}
	}
	return string(b)
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isAlnum(b byte) bool {
	return isDigit(b) || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func joinFragment(existing, text string) string {
	if existing == "" {
		return text
	}
	return existing + " " + text
}
