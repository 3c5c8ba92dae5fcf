package charset

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
)

// escState is the active single/multi-byte designation tracked while
// decoding an ISO 2022 stream. The stream starts in escRomaji, per
// spec.md §4.2.
type escState int

const (
	escRomaji escState = iota
	escKana
	escJISX0208
)

// Three recognized 3-byte escape sequences (ESC + 2 bytes). Any other
// ESC-prefixed triple is passed through as ordinary data, per spec.md §4.2.
var escapes = map[[2]byte]escState{
	{0x28, 0x4A}: escRomaji,   // ESC ( J — JIS X 0201 Romaji
	{0x28, 0x49}: escKana,     // ESC ( I — JIS X 0201 Kana
	{0x24, 0x42}: escJISX0208, // ESC $ B — JIS X 0208-1983
}

const replacementRune = utf8.RuneError

// shiftJISByte decodes a single JIS X 0201 byte (Romaji range
// 0x00-0x7F, or half-width Kana range 0xA1-0xDF) the same way it would
// appear in a Shift-JIS stream; the two encodings agree on those ranges.
func shiftJISByte(b byte) rune {
	dec := japanese.ShiftJIS.NewDecoder()
	out, err := dec.Bytes([]byte{b})
	if err != nil || len(out) == 0 {
		return replacementRune
	}
	r, _ := utf8.DecodeRune(out)
	return r
}

// jisx0208Pair decodes one JIS X 0208 two-byte code point by wrapping it in
// a minimal valid ISO-2022-JP escape sequence and running it through
// golang.org/x/text's ISO2022JP table, then stripping the designation back
// to ASCII.
func jisx0208Pair(b1, b2 byte) string {
	wrapped := []byte{0x1B, '$', 'B', b1, b2, 0x1B, '(', 'B'}
	dec := japanese.ISO2022JP.NewDecoder()
	out, err := dec.Bytes(wrapped)
	if err != nil {
		return string(replacementRune)
	}
	return string(out)
}

// decodeISO2022 runs the escape-tracking state machine over raw and returns
// the decoded, lossy Unicode string.
func decodeISO2022(raw []byte) string {
	var sb strings.Builder
	state := escRomaji
	i := 0
	for i < len(raw) {
		b := raw[i]
		if b == 0x1B && i+2 < len(raw) {
			key := [2]byte{raw[i+1], raw[i+2]}
			if next, ok := escapes[key]; ok {
				state = next
				i += 3
				continue
			}
			// Unrecognized escape: ESC byte itself passes through as data.
			sb.WriteByte(b)
			i++
			continue
		}
		switch state {
		case escJISX0208:
			if i+1 < len(raw) {
				sb.WriteString(jisx0208Pair(raw[i], raw[i+1]))
				i += 2
			} else {
				sb.WriteRune(replacementRune)
				i++
			}
		case escKana:
			sb.WriteRune(shiftJISByte(b))
			i++
		default: // escRomaji
			if b < 0x80 {
				sb.WriteByte(b)
			} else {
				sb.WriteRune(replacementRune)
			}
			i++
		}
	}
	return sb.String()
}

// decodeASCIILossy decodes raw as 7-bit ASCII, substituting the Unicode
// replacement character for any byte outside that range.
func decodeASCIILossy(raw []byte) string {
	var sb strings.Builder
	for _, b := range raw {
		if b < 0x80 {
			sb.WriteByte(b)
		} else {
			sb.WriteRune(replacementRune)
		}
	}
	return sb.String()
}

// decodeUTF8Lossy decodes raw as UTF-8, substituting the replacement
// character for invalid sequences.
func decodeUTF8Lossy(raw []byte) string {
	dec := unicode.UTF8.NewDecoder()
	out, err := dec.Bytes(raw)
	if err != nil || out == nil {
		return strings.ToValidUTF8(string(raw), string(replacementRune))
	}
	return string(out)
}

// decodeJISX0201 decodes raw as a plain (non-ISO-2022, no escapes) JIS X
// 0201 buffer: Romaji range below 0x80 and half-width Kana in 0xA1-0xDF.
func decodeJISX0201(raw []byte) string {
	dec := japanese.ShiftJIS.NewDecoder()
	out, err := dec.Bytes(raw)
	if err != nil {
		return decodeASCIILossy(raw)
	}
	return string(out)
}

// DecodeGeneric decodes raw under the declared Specific Character Set
// values, producing one lossy Unicode string. Failures never occur: unmapped
// bytes become the replacement character, per spec.md §4.2.
func DecodeGeneric(raw []byte, charSets []string) string {
	switch classify(charSets) {
	case modeUTF8:
		return decodeUTF8Lossy(raw)
	case modeJISX0201:
		return decodeJISX0201(raw)
	case modeISO2022:
		return decodeISO2022(raw)
	default:
		return decodeASCIILossy(raw)
	}
}

// DecodePersonName splits raw on unescaped backslash into per-value
// component groups. Within each value, the single-byte (alphabetic) group
// ahead of the first `=` is always decoded under plain ASCII/JIS X 0201
// regardless of the declared charset; the ideographic and phonetic groups
// after a `=` use the full declared decode, per spec.md §4.2.
func DecodePersonName(raw []byte, charSets []string) []string {
	values := splitRaw(raw, '\\')
	out := make([]string, 0, len(values))
	for _, v := range values {
		groups := splitRaw(v, '=')
		parts := make([]string, 0, len(groups))
		for i, g := range groups {
			if i == 0 {
				parts = append(parts, decodeSingleByteGroup(g))
			} else {
				parts = append(parts, DecodeGeneric(g, charSets))
			}
		}
		out = append(out, strings.Join(parts, "="))
	}
	return out
}

// decodeSingleByteGroup decodes a PN alphabetic component group under
// ASCII/JIS X 0201 regardless of the declared Specific Character Set — the
// alphabetic group never carries JIS X 0208 multi-byte content, but it may
// carry half-width Katakana (0xA1-0xDF), per spec.md §4.2.
func decodeSingleByteGroup(raw []byte) string {
	return decodeJISX0201(raw)
}

func splitRaw(raw []byte, sep byte) [][]byte {
	var out [][]byte
	start := 0
	for i, b := range raw {
		if b == sep {
			out = append(out, raw[start:i])
			start = i + 1
		}
	}
	out = append(out, raw[start:])
	return out
}
