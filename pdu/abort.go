package pdu

import dicomerrors "github.com/oceanus-health/dicomcore/errors"

// A-ABORT source codes.
const (
	AbortSourceServiceUser     byte = 0x00
	AbortSourceServiceProvider byte = 0x02
)

// A-ABORT reason codes (meaningful only when Source is
// AbortSourceServiceProvider).
const (
	AbortReasonNotSpecified            byte = 0x00
	AbortReasonUnrecognizedPDU         byte = 0x01
	AbortReasonUnexpectedPDU           byte = 0x02
	AbortReasonUnrecognizedPDUParameter byte = 0x04
	AbortReasonUnexpectedPDUParameter  byte = 0x05
	AbortReasonInvalidPDUParameterValue byte = 0x06
)

// AAbort is the A-ABORT PDU.
type AAbort struct {
	Source byte
	Reason byte
}

// DecodeAbort decodes an A-ABORT body: 2 reserved, source, reason.
func DecodeAbort(data []byte) (*AAbort, error) {
	if len(data) != 4 {
		return nil, dicomerrors.NewInvalidPduParameterValueError("abort", "body must be 4 bytes")
	}
	return &AAbort{Source: data[2], Reason: data[3]}, nil
}

// Encode renders a as an A-ABORT frame body.
func (a *AAbort) Encode() []byte {
	return []byte{0, 0, a.Source, a.Reason}
}

// PDUType identifies the PDU type byte this message encodes to.
func (a *AAbort) PDUType() byte { return TypeAbort }
