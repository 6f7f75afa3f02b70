package cart

import (
	"encoding/binary"
	"errors"
	"strings"
)

const (
	headerStart = 0x0100
	headerEnd   = 0x014F
)

var nintendoLogo = [48]byte{
	0xCE, 0xED, 0x66, 0x66, 0xCC, 0x0D, 0x00, 0x0B, 0x03, 0x73, 0x00, 0x83, 0x00, 0x0C, 0x00, 0x0D,
	0x00, 0x08, 0x11, 0x1F, 0x88, 0x89, 0x00, 0x0E, 0xDC, 0xCC, 0x6E, 0xE6, 0xDD, 0xDD, 0xD9, 0x99,
	0xBB, 0xBB, 0x67, 0x63, 0x6E, 0x0E, 0xEC, 0xCC, 0xDD, 0xDC, 0x99, 0x9F, 0xBB, 0xB9, 0x33, 0x3E,
}

// Header is the decoded 0x0100-0x014F cartridge header: everything the
// boot ROM and MBC construction need to know about a ROM image before a
// single instruction of game code runs.
type Header struct {
	Title          string // trimmed ASCII, 0x0134-0x0143
	CGBFlag        byte   // 0x0143
	NewLicensee    string // 0x0144-0x0145, valid only when OldLicensee == 0x33
	SGBFlag        byte   // 0x0146
	CartType       byte   // 0x0147
	ROMSizeCode    byte   // 0x0148
	RAMSizeCode    byte   // 0x0149
	Destination    byte   // 0x014A
	OldLicensee    byte   // 0x014B
	ROMVersion     byte   // 0x014C
	HeaderChecksum byte   // 0x014D
	GlobalChecksum uint16 // 0x014E-0x014F

	ROMSizeBytes int
	ROMBanks     int
	RAMSizeBytes int
	CartTypeStr  string
	LogoOK       bool
}

// ParseHeader reads the cartridge header out of rom and decodes every
// field a loader needs to pick an MBC and size its backing RAM.
func ParseHeader(rom []byte) (*Header, error) {
	if len(rom) < headerEnd+1 {
		return nil, errors.New("cart: ROM too small to contain a header")
	}

	h := &Header{
		Title:          trimTitle(rom[0x0134:0x0144]),
		CGBFlag:        rom[0x0143],
		NewLicensee:    string(rom[0x0144:0x0146]),
		SGBFlag:        rom[0x0146],
		CartType:       rom[0x0147],
		ROMSizeCode:    rom[0x0148],
		RAMSizeCode:    rom[0x0149],
		Destination:    rom[0x014A],
		OldLicensee:    rom[0x014B],
		ROMVersion:     rom[0x014C],
		HeaderChecksum: rom[0x014D],
		GlobalChecksum: binary.BigEndian.Uint16(rom[0x014E:0x0150]),
		LogoOK:         logoMatches(rom),
	}

	h.ROMSizeBytes, h.ROMBanks = h.decodeROMSize()
	h.RAMSizeBytes = h.decodeRAMSize()
	h.CartTypeStr = h.decodeCartType()

	return h, nil
}

// trimTitle strips the trailing NUL padding from the raw title field.
// Newer carts also borrow the last bytes of this region for the
// manufacturer code and CGB flag, so a short title is common, not an error.
func trimTitle(raw []byte) string {
	return strings.TrimRight(string(raw), "\x00")
}

// logoMatches reports whether the Nintendo logo bitmap at 0x0104 is intact.
// A mismatch doesn't fail parsing — homebrew and test ROMs routinely omit
// it — but callers that care about boot-ROM compatibility can check it.
func logoMatches(rom []byte) bool {
	for i, want := range nintendoLogo {
		if rom[0x0104+i] != want {
			return false
		}
	}
	return true
}

// HeaderChecksumOK recomputes the 0x014D checksum over 0x0134-0x014C and
// compares it against the stored value.
func HeaderChecksumOK(rom []byte) bool {
	if len(rom) < 0x014E {
		return false
	}
	var sum byte
	for addr := 0x0134; addr <= 0x014C; addr++ {
		sum = sum - rom[addr] - 1
	}
	return sum == rom[0x014D]
}

// IsCGB reports whether the cart requires or supports CGB hardware features.
// This core targets DMG behavior only; carts flagged CGB-only will still
// load and run in DMG-compatibility mode, for whatever that's worth.
func (h *Header) IsCGB() bool { return h.CGBFlag == 0x80 || h.CGBFlag == 0xC0 }

// IsSGB reports whether the cart opts into Super Game Boy function packets.
func (h *Header) IsSGB() bool { return h.SGBFlag == 0x03 && h.OldLicensee == 0x33 }

// Licensee returns the publisher name for the header's licensee code,
// preferring the two-character new-style code when OldLicensee signals it
// (0x33), falling back to the one-byte old-style code otherwise.
func (h *Header) Licensee() string {
	if h.OldLicensee == 0x33 {
		if name, ok := newLicenseeNames[h.NewLicensee]; ok {
			return name
		}
		return "Unknown (" + h.NewLicensee + ")"
	}
	if name, ok := oldLicenseeNames[h.OldLicensee]; ok {
		return name
	}
	return "Unknown"
}

// DestinationStr names the region byte at 0x014A.
func (h *Header) DestinationStr() string {
	switch h.Destination {
	case 0x00:
		return "Japan"
	case 0x01:
		return "Overseas"
	default:
		return "Unknown"
	}
}

func (h *Header) decodeROMSize() (size, banks int) {
	switch h.ROMSizeCode {
	case 0x00:
		return 32 * 1024, 2
	case 0x01:
		return 64 * 1024, 4
	case 0x02:
		return 128 * 1024, 8
	case 0x03:
		return 256 * 1024, 16
	case 0x04:
		return 512 * 1024, 32
	case 0x05:
		return 1 * 1024 * 1024, 64
	case 0x06:
		return 2 * 1024 * 1024, 128
	case 0x07:
		return 4 * 1024 * 1024, 256
	case 0x08:
		return 8 * 1024 * 1024, 512
	case 0x52:
		return 1152 * 1024, 72
	case 0x53:
		return 1280 * 1024, 80
	case 0x54:
		return 1536 * 1024, 96
	default:
		return 0, 0
	}
}

func (h *Header) decodeRAMSize() int {
	switch h.RAMSizeCode {
	case 0x00:
		return 0
	case 0x02:
		return 8 * 1024
	case 0x03:
		return 32 * 1024
	case 0x04:
		return 128 * 1024
	case 0x05:
		return 64 * 1024
	default:
		return 0
	}
}

// cartTypeNames gives the full Pan Docs name for every defined 0x0147
// value, rather than bucketing by MBC family, so header logs name the exact
// variant (battery/RAM/rumble/timer) a loader has to account for.
var cartTypeNames = map[byte]string{
	0x00: "ROM ONLY",
	0x01: "MBC1",
	0x02: "MBC1+RAM",
	0x03: "MBC1+RAM+BATTERY",
	0x05: "MBC2",
	0x06: "MBC2+BATTERY",
	0x08: "ROM+RAM",
	0x09: "ROM+RAM+BATTERY",
	0x0B: "MMM01",
	0x0C: "MMM01+RAM",
	0x0D: "MMM01+RAM+BATTERY",
	0x0F: "MBC3+TIMER+BATTERY",
	0x10: "MBC3+TIMER+RAM+BATTERY",
	0x11: "MBC3",
	0x12: "MBC3+RAM",
	0x13: "MBC3+RAM+BATTERY",
	0x19: "MBC5",
	0x1A: "MBC5+RAM",
	0x1B: "MBC5+RAM+BATTERY",
	0x1C: "MBC5+RUMBLE",
	0x1D: "MBC5+RUMBLE+RAM",
	0x1E: "MBC5+RUMBLE+RAM+BATTERY",
	0x20: "MBC6",
	0x22: "MBC7+SENSOR+RUMBLE+RAM+BATTERY",
	0xFC: "POCKET CAMERA",
	0xFD: "BANDAI TAMA5",
	0xFE: "HuC3",
	0xFF: "HuC1+RAM+BATTERY",
}

func (h *Header) decodeCartType() string {
	if name, ok := cartTypeNames[h.CartType]; ok {
		return name
	}
	return "Unknown"
}

// newLicenseeNames maps the handful of two-character publisher codes this
// core is likely to encounter; unlisted codes fall back to "Unknown (code)".
var newLicenseeNames = map[string]string{
	"01": "Nintendo", "08": "Capcom", "13": "Electronic Arts",
	"18": "Hudson Soft", "19": "B-AI", "20": "KSS", "22": "POW",
	"24": "PCM Complete", "25": "San-X", "28": "Kemco Japan",
	"29": "Seta", "30": "Viacom", "31": "Nintendo", "32": "Bandai",
	"33": "Ocean/Acclaim", "34": "Konami", "35": "Hector",
	"41": "Ubisoft", "42": "Atlus", "44": "Malibu", "46": "Angel",
	"47": "Bullet-Proof", "49": "Irem", "50": "Absolute",
	"51": "Acclaim", "52": "Activision", "53": "American Sammy",
	"54": "Konami", "55": "Hi Tech Entertainment", "56": "LJN",
	"57": "Matchbox", "58": "Mattel", "59": "Milton Bradley",
	"60": "Titus", "61": "Virgin", "64": "LucasArts", "67": "Ocean",
	"69": "Electronic Arts", "70": "Infogrames", "71": "Interplay",
	"72": "Broderbund", "73": "Sculptured", "75": "SCI",
	"78": "THQ", "79": "Accolade", "80": "Misawa",
	"83": "LOZC", "86": "Tokuma Shoten", "87": "Tsukuda Original",
	"91": "Chunsoft", "92": "Video System", "93": "Ocean/Acclaim",
	"95": "Varie", "96": "Yonezawa/s'pal", "97": "Kaneko",
	"99": "Pack-in-soft", "A4": "Konami (Yu-Gi-Oh!)",
}

// oldLicenseeNames maps the pre-SGB single-byte publisher codes.
var oldLicenseeNames = map[byte]string{
	0x00: "None", 0x01: "Nintendo", 0x08: "Capcom", 0x09: "HOT-B",
	0x0A: "Jaleco", 0x0B: "Coconuts Japan", 0x0C: "Elite Systems",
	0x13: "Electronic Arts", 0x18: "Hudson Soft", 0x19: "ITC Entertainment",
	0x1A: "Yanoman", 0x1D: "Japan Clary", 0x1F: "Virgin",
	0x24: "PCM Complete", 0x25: "San-X", 0x28: "Kemco Japan",
	0x29: "Seta", 0x30: "Infogrames", 0x31: "Nintendo", 0x32: "Bandai",
	0x34: "Konami", 0x35: "Hector", 0x38: "Capcom", 0x39: "Banpresto",
	0x3C: "Entertainment i", 0x3E: "Gremlin", 0x41: "Ubisoft",
	0x42: "Atlus", 0x44: "Malibu", 0x46: "Angel", 0x47: "Spectrum Holobyte",
	0x49: "Irem", 0x4A: "Virgin", 0x4D: "Malibu", 0x4F: "U.S. Gold",
	0x50: "Absolute", 0x51: "Acclaim", 0x52: "Activision",
	0x53: "American Sammy", 0x54: "Gametek", 0x55: "Park Place",
	0x56: "LJN", 0x57: "Matchbox", 0x59: "Milton Bradley",
	0x5A: "Mindscape", 0x5B: "Romstar", 0x5C: "Naxat Soft",
	0x5D: "Tradewest", 0x60: "Titus", 0x61: "Virgin", 0x67: "Ocean",
	0x69: "Electronic Arts", 0x6E: "Elite Systems", 0x6F: "Electro Brain",
	0x70: "Infogrames", 0x71: "Interplay", 0x72: "Broderbund",
	0x73: "Sculptured", 0x75: "SCI", 0x78: "THQ", 0x79: "Accolade",
	0x7A: "Triffix Entertainment", 0x7C: "Microprose", 0x7F: "Kemco",
	0x80: "Misawa", 0x83: "LOZC", 0x86: "Tokuma Shoten",
	0x8B: "Bullet-Proof", 0x8C: "Vic Tokai", 0x8E: "Ape",
	0x8F: "I'Max", 0x91: "Chunsoft", 0x92: "Video System",
	0x93: "Tsubaraya Productions", 0x95: "Varie", 0x96: "Yonezawa/s'pal",
	0x97: "Kaneko", 0x99: "Arc", 0x9A: "Nihon Bussan", 0x9B: "Tecmo",
	0x9C: "Imagineer", 0x9D: "Banpresto", 0x9F: "Nova", 0xA1: "Hori Electric",
	0xA2: "Bandai", 0xA4: "Konami", 0xA6: "Kawada", 0xA7: "Takara",
	0xA9: "Technos Japan", 0xAA: "Broderbund", 0xAC: "Toei Animation",
	0xAD: "Toho", 0xAF: "Namco", 0xB0: "Acclaim", 0xB1: "ASCII or Nexsoft",
	0xB2: "Bandai", 0xB4: "Square Enix", 0xB6: "HAL Laboratory",
	0xB7: "SNK", 0xB9: "Pony Canyon", 0xBA: "Culture Brain",
	0xBB: "Sunsoft", 0xBD: "Sony Imagesoft", 0xBF: "Sammy",
	0xC0: "Taito", 0xC2: "Kemco", 0xC3: "Square", 0xC4: "Tokuma Shoten",
	0xC5: "Data East", 0xC6: "Tonkin House", 0xC8: "Koei", 0xC9: "UFL",
	0xCA: "Ultra", 0xCB: "Vap", 0xCC: "Use Corporation", 0xCD: "Meldac",
	0xCE: "Pony Canyon", 0xCF: "Angel", 0xD0: "Taito", 0xD1: "Sofel",
	0xD2: "Quest", 0xD3: "Sigma Enterprises", 0xD4: "ASK Kodansha",
	0xD6: "Naxat Soft", 0xD7: "Copya System", 0xD9: "Banpresto",
	0xDA: "Tomy", 0xDB: "LJN", 0xDD: "NCS", 0xDE: "Human",
	0xDF: "Altron", 0xE0: "Jaleco", 0xE1: "Towa Chiki", 0xE2: "Yutaka",
	0xE3: "Varie", 0xE5: "Epcoh", 0xE7: "Athena", 0xE8: "Asmik ACE Entertainment",
	0xE9: "Natsume", 0xEA: "King Records", 0xEB: "Atlus", 0xEC: "Epic/Sony Records",
	0xEE: "IGS", 0xF0: "A Wave", 0xF3: "Extreme Entertainment", 0xFF: "LJN",
}
