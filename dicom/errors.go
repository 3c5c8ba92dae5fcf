package dicom

import "fmt"

// ParseError is a fatal dataset parse failure: premature EOF or a length
// inconsistency. It names the byte position at fault, per spec.md §4.4.6.
type ParseError struct {
	Position int
	Msg      string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("dicom: parse error at byte %d: %s", e.Position, e.Msg)
}

// ErrUnimplementedTransferSyntax is returned when asked to decode
// Explicit-VR-Big-Endian, which this package recognizes but does not
// implement, per spec.md §4.4.6/§9. Callers should reject the corresponding
// presentation context rather than risk producing wrong data.
type ErrUnimplementedTransferSyntax struct {
	UID string
}

func (e *ErrUnimplementedTransferSyntax) Error() string {
	return fmt.Sprintf("dicom: transfer syntax %s is recognized but not implemented", e.UID)
}
