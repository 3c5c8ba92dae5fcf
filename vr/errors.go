package vr

import "fmt"

// Reason enumerates the ways a VR value can fail to parse.
type Reason int

const (
	ReasonBadLength Reason = iota
	ReasonBadCharset
	ReasonBadDigits
	ReasonBadComponent
	ReasonTooManyComponents
)

func (r Reason) String() string {
	switch r {
	case ReasonBadLength:
		return "bad-length"
	case ReasonBadCharset:
		return "bad-charset"
	case ReasonBadDigits:
		return "bad-digits"
	case ReasonBadComponent:
		return "bad-component"
	case ReasonTooManyComponents:
		return "too-many-components"
	default:
		return "unknown"
	}
}

// ParseError reports why raw VR bytes failed to decode: the VR that was
// being parsed, the offending string, the byte index or length at fault, and
// a discriminant explaining which rule was violated.
type ParseError struct {
	VR     VR
	Value  string
	Index  int
	Reason Reason
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("vr: %s value %q invalid at index %d: %s", e.VR, e.Value, e.Index, e.Reason)
}
