package edid

import "fmt"

// WarningCode identifies the category of a decode anomaly.
type WarningCode string

const (
	WarnTooShort               WarningCode = "too_short"
	WarnLengthNotMultipleOf128 WarningCode = "length_not_multiple_of_128"
	WarnInvalidHeader          WarningCode = "invalid_header"
	WarnChecksumFailed         WarningCode = "checksum_failed"
	WarnExtensionCountMismatch WarningCode = "extension_count_mismatch"
	WarnUnknownMinorVersion    WarningCode = "unknown_edid_minor_version"
	WarnUnknownExtensionTag    WarningCode = "unknown_extension_tag"
	WarnUnknownDataBlock       WarningCode = "unknown_data_block"
	WarnParseError             WarningCode = "parse_error"
	WarnOutOfRangeRead         WarningCode = "out_of_range_read"
)

// Warning is a non-fatal anomaly recorded during a decode pass.
//
// Decoding never fails - every malformation is reported here and a best-effort
// result is still returned. Block and Offset are -1 when not applicable.
type Warning struct {
	Code    WarningCode
	Message string
	// Block is the 128-byte block index the warning refers to (-1 if none)
	Block int
	// Offset is the byte offset within Block (-1 if none)
	Offset int
	// Detail optionally carries extra context (e.g. an unknown tag byte)
	Detail any
}

func (w Warning) String() string {
	if w.Block >= 0 {
		return fmt.Sprintf("%s (block %d): %s", w.Code, w.Block, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.Code, w.Message)
}
