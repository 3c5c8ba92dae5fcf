package vr

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Decoder turns raw element bytes into text, given a Specific Character Set.
// Charset-sensitive VRs (LO, SH, PN) accept one; nil means plain ASCII.
// The charset package supplies the real ISO 2022 aware decoders; this
// package only depends on the function shape so it has no import on
// charset, keeping the dependency direction the way the teacher keeps
// dicom/value independent of its transfer-syntax package.
type Decoder func(raw []byte) (string, error)

func decodeASCII(raw []byte) (string, error) {
	return string(raw), nil
}

// TrimPad strips a single trailing pad byte per spec.md §4.3: a trailing
// space for all VRs, or a trailing NUL for UI, when the buffer length is
// even.
func TrimPad(raw []byte, v VR) []byte {
	if len(raw) == 0 || len(raw)%2 != 0 {
		return raw
	}
	last := raw[len(raw)-1]
	pad := byte(' ')
	if v == UI {
		pad = 0x00
	}
	if last == pad {
		return raw[:len(raw)-1]
	}
	return raw
}

// SplitMulti splits a decoded string on backslash, the DICOM multi-value
// separator. An empty component becomes "" (callers treat that as absent,
// not an error), per spec.md §4.3.
func SplitMulti(s string) []string {
	return strings.Split(s, "\\")
}

// --- AE -----------------------------------------------------------------

// ParseAE decodes an Application Entity title list: ASCII, each component
// trimmed of leading/trailing spaces, ≤16 bytes, no control characters.
func ParseAE(raw []byte) ([]string, error) {
	s, _ := decodeASCII(TrimPad(raw, AE))
	out := make([]string, 0, 1)
	for i, part := range SplitMulti(s) {
		part = strings.Trim(part, " ")
		if part == "" {
			out = append(out, "")
			continue
		}
		if len(part) > 16 {
			return nil, &ParseError{VR: AE, Value: part, Index: i, Reason: ReasonBadLength}
		}
		for j := 0; j < len(part); j++ {
			if part[j] < 0x20 || part[j] == 0x7F {
				return nil, &ParseError{VR: AE, Value: part, Index: j, Reason: ReasonBadCharset}
			}
		}
		out = append(out, part)
	}
	return out, nil
}

// --- CS -------------------------------------------------------------------

var csAlphabet = func() [256]bool {
	var m [256]bool
	for c := 'A'; c <= 'Z'; c++ {
		m[c] = true
	}
	for c := '0'; c <= '9'; c++ {
		m[c] = true
	}
	m[' '] = true
	m['_'] = true
	return m
}()

// ParseCS decodes a Code String list: ASCII `[A-Z0-9 _]`, ≤16 bytes.
func ParseCS(raw []byte) ([]string, error) {
	s, _ := decodeASCII(TrimPad(raw, CS))
	out := make([]string, 0, 1)
	for i, part := range SplitMulti(s) {
		if len(part) > 16 {
			return nil, &ParseError{VR: CS, Value: part, Index: i, Reason: ReasonBadLength}
		}
		for j := 0; j < len(part); j++ {
			if !csAlphabet[part[j]] {
				return nil, &ParseError{VR: CS, Value: part, Index: j, Reason: ReasonBadCharset}
			}
		}
		out = append(out, part)
	}
	return out, nil
}

// --- DA -------------------------------------------------------------------

// Date is a calendar date parsed from a DA value.
type Date struct {
	Year, Month, Day int
}

// ParseDA decodes a Date: exactly 8 digit bytes, YYYYMMDD.
func ParseDA(raw []byte) (Date, error) {
	s, _ := decodeASCII(TrimPad(raw, DA))
	if len(s) != 8 {
		return Date{}, &ParseError{VR: DA, Value: s, Index: len(s), Reason: ReasonBadLength}
	}
	for i := 0; i < 8; i++ {
		if s[i] < '0' || s[i] > '9' {
			return Date{}, &ParseError{VR: DA, Value: s, Index: i, Reason: ReasonBadDigits}
		}
	}
	y, _ := strconv.Atoi(s[0:4])
	m, _ := strconv.Atoi(s[4:6])
	d, _ := strconv.Atoi(s[6:8])
	return Date{Year: y, Month: m, Day: d}, nil
}

// --- TM -------------------------------------------------------------------

// Time is a time-of-day parsed from a TM value; zero fields mean "not
// specified", matching DICOM's progressively-truncatable TM format.
type Time struct {
	Hour, Minute, Second int
	Fraction              int // microseconds, 0 if absent
}

// ParseTM decodes HH[MM[SS[.FFFFFF]]], ≤14 bytes, digits and '.' only.
func ParseTM(raw []byte) (Time, error) {
	s, _ := decodeASCII(TrimPad(raw, TM))
	if len(s) == 0 || len(s) > 14 {
		return Time{}, &ParseError{VR: TM, Value: s, Index: len(s), Reason: ReasonBadLength}
	}
	digits := s
	frac := ""
	if idx := strings.IndexByte(s, '.'); idx != -1 {
		digits = s[:idx]
		frac = s[idx+1:]
		if len(frac) > 6 {
			return Time{}, &ParseError{VR: TM, Value: s, Index: idx, Reason: ReasonBadLength}
		}
	}
	if len(digits) < 2 || len(digits)%2 != 0 {
		return Time{}, &ParseError{VR: TM, Value: s, Index: len(digits), Reason: ReasonBadLength}
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return Time{}, &ParseError{VR: TM, Value: s, Index: i, Reason: ReasonBadDigits}
		}
	}
	for i := 0; i < len(frac); i++ {
		if frac[i] < '0' || frac[i] > '9' {
			return Time{}, &ParseError{VR: TM, Value: s, Index: len(digits) + 1 + i, Reason: ReasonBadDigits}
		}
	}
	var t Time
	t.Hour, _ = strconv.Atoi(digits[0:2])
	if len(digits) >= 4 {
		t.Minute, _ = strconv.Atoi(digits[2:4])
	}
	if len(digits) >= 6 {
		t.Second, _ = strconv.Atoi(digits[4:6])
	}
	if frac != "" {
		padded := frac + strings.Repeat("0", 6-len(frac))
		t.Fraction, _ = strconv.Atoi(padded)
	}
	return t, nil
}

// --- IS -------------------------------------------------------------------

// ParseIS decodes an Integer String list: signed decimal, ≤12 bytes, fits a
// signed 32-bit value.
func ParseIS(raw []byte) ([]int32, error) {
	s, _ := decodeASCII(TrimPad(raw, IS))
	parts := SplitMulti(s)
	out := make([]int32, 0, len(parts))
	for i, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			out = append(out, 0)
			continue
		}
		if len(trimmed) > 12 {
			return nil, &ParseError{VR: IS, Value: trimmed, Index: i, Reason: ReasonBadLength}
		}
		for j, c := range trimmed {
			if !(c >= '0' && c <= '9') && !((c == '+' || c == '-') && j == 0) {
				return nil, &ParseError{VR: IS, Value: trimmed, Index: j, Reason: ReasonBadDigits}
			}
		}
		n, err := strconv.ParseInt(trimmed, 10, 32)
		if err != nil {
			return nil, &ParseError{VR: IS, Value: trimmed, Index: i, Reason: ReasonBadDigits}
		}
		out = append(out, int32(n))
	}
	return out, nil
}

// --- UI -------------------------------------------------------------------

// ParseUI decodes a Unique Identifier list: dotted numeric components, ≤64
// bytes, no leading/trailing/double dot, and no non-zero component may start
// with '0'.
func ParseUI(raw []byte) ([]string, error) {
	s, _ := decodeASCII(TrimPad(raw, UI))
	out := make([]string, 0, 1)
	for i, uid := range SplitMulti(s) {
		if uid == "" {
			out = append(out, "")
			continue
		}
		if len(uid) > 64 {
			return nil, &ParseError{VR: UI, Value: uid, Index: i, Reason: ReasonBadLength}
		}
		if uid[0] == '.' || uid[len(uid)-1] == '.' || strings.Contains(uid, "..") {
			return nil, &ParseError{VR: UI, Value: uid, Index: i, Reason: ReasonBadComponent}
		}
		for _, comp := range strings.Split(uid, ".") {
			if comp == "" {
				return nil, &ParseError{VR: UI, Value: uid, Index: i, Reason: ReasonBadComponent}
			}
			for _, c := range comp {
				if c < '0' || c > '9' {
					return nil, &ParseError{VR: UI, Value: uid, Index: i, Reason: ReasonBadDigits}
				}
			}
			if len(comp) > 1 && comp[0] == '0' {
				return nil, &ParseError{VR: UI, Value: uid, Index: i, Reason: ReasonBadComponent}
			}
		}
		out = append(out, uid)
	}
	return out, nil
}

// --- LO / SH ----------------------------------------------------------

// ParseText decodes an LO or SH value list through dec (nil means ASCII),
// enforcing the VR's rune-count bound: 64 for LO, 16 for SH. Control
// characters are permitted, per spec.md §4.3.
func ParseText(raw []byte, v VR, dec Decoder) ([]string, error) {
	if dec == nil {
		dec = decodeASCII
	}
	s, err := dec(TrimPad(raw, v))
	if err != nil {
		return nil, err
	}
	limit := 64
	if v == SH {
		limit = 16
	}
	out := make([]string, 0, 1)
	for i, part := range SplitMulti(s) {
		if n := len([]rune(part)); n > limit {
			return nil, &ParseError{VR: v, Value: part, Index: i, Reason: ReasonBadLength}
		}
		out = append(out, part)
	}
	return out, nil
}

// --- PN ---------------------------------------------------------------

// PersonName is one PN value split into its alphabetic/ideographic/phonetic
// `=`-separated groups, each further split into up to five `^`-separated
// components (family, given, middle, prefix, suffix).
type PersonName struct {
	Groups [][]string
}

// ParsePN decodes a PN value list through dec (nil means ASCII). Each value
// has up to 3 `=`-groups of up to 64 characters and up to 5 `^`-components
// per group.
func ParsePN(raw []byte, dec Decoder) ([]PersonName, error) {
	if dec == nil {
		dec = decodeASCII
	}
	s, err := dec(TrimPad(raw, PN))
	if err != nil {
		return nil, err
	}
	out := make([]PersonName, 0, 1)
	for i, part := range SplitMulti(s) {
		groups := strings.Split(part, "=")
		if len(groups) > 3 {
			return nil, &ParseError{VR: PN, Value: part, Index: i, Reason: ReasonTooManyComponents}
		}
		pn := PersonName{Groups: make([][]string, 0, len(groups))}
		for _, g := range groups {
			if n := len([]rune(g)); n > 64 {
				return nil, &ParseError{VR: PN, Value: g, Index: i, Reason: ReasonBadLength}
			}
			comps := strings.Split(g, "^")
			if len(comps) > 5 {
				return nil, &ParseError{VR: PN, Value: g, Index: i, Reason: ReasonTooManyComponents}
			}
			pn.Groups = append(pn.Groups, comps)
		}
		out = append(out, pn)
	}
	return out, nil
}

// --- UL -----------------------------------------------------------------

// ParseUL decodes n little-endian 4-byte unsigned integers.
func ParseUL(raw []byte) ([]uint32, error) {
	if len(raw)%4 != 0 {
		return nil, &ParseError{VR: UL, Value: fmt.Sprintf("%d bytes", len(raw)), Index: len(raw), Reason: ReasonBadLength}
	}
	out := make([]uint32, len(raw)/4)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(raw[i*4 : i*4+4])
	}
	return out, nil
}

// FormatUL encodes n little-endian 4-byte unsigned integers.
func FormatUL(vals []uint32) []byte {
	out := make([]byte, len(vals)*4)
	for i, v := range vals {
		binary.LittleEndian.PutUint32(out[i*4:i*4+4], v)
	}
	return out
}

// --- US -------------------------------------------------------------------

// ParseUS decodes n little-endian 2-byte unsigned integers.
func ParseUS(raw []byte) ([]uint16, error) {
	if len(raw)%2 != 0 {
		return nil, &ParseError{VR: US, Value: fmt.Sprintf("%d bytes", len(raw)), Index: len(raw), Reason: ReasonBadLength}
	}
	out := make([]uint16, len(raw)/2)
	for i := range out {
		out[i] = binary.LittleEndian.Uint16(raw[i*2 : i*2+2])
	}
	return out, nil
}

// FormatUS encodes n little-endian 2-byte unsigned integers.
func FormatUS(vals []uint16) []byte {
	out := make([]byte, len(vals)*2)
	for i, v := range vals {
		binary.LittleEndian.PutUint16(out[i*2:i*2+2], v)
	}
	return out
}

// --- FD -------------------------------------------------------------------

// ParseFD decodes n little-endian IEEE-754 binary64 values. NaN and
// infinities are permitted, per spec.md §4.3.
func ParseFD(raw []byte) ([]float64, error) {
	if len(raw)%8 != 0 {
		return nil, &ParseError{VR: FD, Value: fmt.Sprintf("%d bytes", len(raw)), Index: len(raw), Reason: ReasonBadLength}
	}
	out := make([]float64, len(raw)/8)
	for i := range out {
		bits := binary.LittleEndian.Uint64(raw[i*8 : i*8+8])
		out[i] = math.Float64frombits(bits)
	}
	return out, nil
}

// FormatFD encodes n little-endian IEEE-754 binary64 values.
func FormatFD(vals []float64) []byte {
	out := make([]byte, len(vals)*8)
	for i, v := range vals {
		binary.LittleEndian.PutUint64(out[i*8:i*8+8], math.Float64bits(v))
	}
	return out
}

// --- OB -------------------------------------------------------------------

// ParseOB returns the raw octet payload unchanged; OB carries a single
// opaque value and is never split on backslash.
func ParseOB(raw []byte) []byte {
	return raw
}

// --- UR -------------------------------------------------------------------

// ParseUR decodes a single URI: trailing spaces trimmed, no leading space,
// never split on backslash.
func ParseUR(raw []byte) (string, error) {
	trimmed := strings.TrimRight(string(raw), " ")
	if strings.HasPrefix(trimmed, " ") {
		return "", &ParseError{VR: UR, Value: trimmed, Index: 0, Reason: ReasonBadCharset}
	}
	return trimmed, nil
}
