package edid

// VendorInfo is the resolved identity behind the 3-letter PNP vendor ID.
type VendorInfo struct {
	VID string
	// Name is the friendly manufacturer name, falling back to the VID itself
	Name string
	// ShortName is the brand name as commonly written, e.g. "LG" for GSM
	ShortName string
}

// VendorLookup resolves a 3-letter vendor ID to a VendorInfo. Callers can
// plug in their own table via DecodeOptions.
type VendorLookup func(vid string) VendorInfo

// pnpVendorNames maps well-known PNP IDs to friendly names. Entries whose
// short name differs from the full name carry both.
var pnpVendorNames = map[string][2]string{
	"AAA": {"Avolites", ""},
	"ACI": {"Ancor Communications (ASUS)", "ASUS"},
	"ACR": {"Acer", ""},
	"AMZ": {"Amazon", ""},
	"AOC": {"AOC International", "AOC"},
	"APP": {"Apple", ""},
	"AUO": {"AU Optronics", "AUO"},
	"AUS": {"ASUSTek Computer", "ASUS"},
	"BNQ": {"BenQ", ""},
	"BOE": {"BOE Technology", "BOE"},
	"CMN": {"Chimei Innolux", "Innolux"},
	"CMO": {"Chi Mei Optoelectronics", "Chi Mei"},
	"CPT": {"Chunghwa Picture Tubes", "Chunghwa"},
	"DEL": {"Dell", ""},
	"DON": {"Denon", ""},
	"ENC": {"Eizo Nanao", "Eizo"},
	"EPI": {"Envision Peripherals", "Envision"},
	"FUS": {"Fujitsu Siemens", "Fujitsu"},
	"GBT": {"Gigabyte Technology", "Gigabyte"},
	"GSM": {"Goldstar (LG Electronics)", "LG"},
	"HEC": {"Hisense Electric", "Hisense"},
	"HIQ": {"Kaohsiung Opto-Electronics", "Kaohsiung"},
	"HPN": {"HP", ""},
	"HSD": {"HannStar Display", "HannStar"},
	"HTC": {"Hitachi", ""},
	"HWP": {"Hewlett-Packard", "HP"},
	"IVM": {"Iiyama", ""},
	"LEN": {"Lenovo", ""},
	"LGD": {"LG Display", "LG"},
	"LNX": {"The Linux Foundation", "Linux"},
	"LPL": {"LG Philips LCD", "LG Philips"},
	"MEI": {"Panasonic", ""},
	"MSI": {"Micro-Star International", "MSI"},
	"MST": {"MStar Semiconductor", "MStar"},
	"MTC": {"Mitac", ""},
	"NEC": {"NEC", ""},
	"ONK": {"Onkyo", ""},
	"PHL": {"Philips", ""},
	"PIO": {"Pioneer Electronic", "Pioneer"},
	"PNR": {"Planar Systems", "Planar"},
	"SAM": {"Samsung", ""},
	"SEC": {"Seiko Epson", "Epson"},
	"SGT": {"Stargate Technology", "Stargate"},
	"SHP": {"Sharp", ""},
	"SNY": {"Sony", ""},
	"STN": {"Samtron", ""},
	"TCL": {"TCL", ""},
	"TOP": {"Orion Electric", "Orion"},
	"TSB": {"Toshiba", ""},
	"UNK": {"Unknown", ""},
	"VIZ": {"Vizio", ""},
	"VSC": {"ViewSonic", ""},
	"XMI": {"Xiaomi", ""},
	"YMH": {"Yamaha", ""},
}

// defaultVendorLookup is the built-in table-backed lookup. Unknown IDs carry
// the raw VID through the name fields so callers always have something to show.
func defaultVendorLookup(vid string) VendorInfo {
	info := VendorInfo{VID: vid, Name: vid, ShortName: vid}
	if names, ok := pnpVendorNames[vid]; ok {
		info.Name = names[0]
		if names[1] != "" {
			info.ShortName = names[1]
		} else {
			info.ShortName = names[0]
		}
	}
	return info
}

// encodeVendorID packs a 3-letter ID back into the 2-byte wire form of base
// block bytes 8-9. Letters outside A-Z encode as 0.
func encodeVendorID(vid string) [2]byte {
	var codes [3]byte
	for i := 0; i < 3 && i < len(vid); i++ {
		c := vid[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		if c >= 'A' && c <= 'Z' {
			codes[i] = c - 'A' + 1
		}
	}
	return [2]byte{
		codes[0]<<2 | codes[1]>>3,
		codes[1]<<5 | codes[2],
	}
}
