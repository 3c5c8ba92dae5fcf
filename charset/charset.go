// Package charset decodes DICOM Specific Character Set (0008,0005) values:
// plain ASCII, UTF-8, JIS X 0201 half-width kana, and the ISO 2022
// compositions used by Japanese DICOM datasets.
package charset

import "strings"

// synonyms maps a spelling variant to the canonical name this package emits.
// Only the ISO_IR/ISO 2022 IR pairing is ambiguous in the retrieved corpus
// (see DESIGN.md Open Question decisions); every other designator has one
// spelling.
var synonyms = map[string]string{
	"ISO_IR 6":    "ISO 2022 IR 6",
	"ISO_IR 13":   "ISO 2022 IR 13",
	"ISO_IR 87":   "ISO 2022 IR 87",
	"ISO_IR 192":  "ISO_IR 192",
	"ISO 2022 IR 192": "ISO_IR 192",
}

// CanonicalName normalizes a declared character-set name to this package's
// canonical spelling. Unrecognized names pass through unchanged.
func CanonicalName(name string) string {
	name = strings.TrimSpace(name)
	if c, ok := synonyms[name]; ok {
		return c
	}
	return name
}

// mode is the decoding strategy selected for a declared character-set list.
type mode int

const (
	modeASCII mode = iota
	modeUTF8
	modeJISX0201
	modeISO2022
)

// classify picks the decoding mode for a canonicalized Specific Character
// Set value list, per spec.md §4.2's four supported configurations.
func classify(charsets []string) mode {
	if len(charsets) == 0 {
		return modeASCII
	}
	canon := make([]string, 0, len(charsets))
	for _, c := range charsets {
		n := CanonicalName(c)
		if n == "" {
			continue
		}
		canon = append(canon, n)
	}
	if len(canon) == 0 {
		return modeASCII
	}
	if len(canon) == 1 {
		switch canon[0] {
		case "ISO_IR 192":
			return modeUTF8
		case "ISO 2022 IR 13":
			return modeJISX0201
		case "ISO 2022 IR 6":
			return modeASCII
		}
	}
	return modeISO2022
}
