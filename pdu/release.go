package pdu

import dicomerrors "github.com/oceanus-health/dicomcore/errors"

// AReleaseRQ is the association release request PDU. It carries no
// parameters — just 4 reserved bytes.
type AReleaseRQ struct{}

// DecodeReleaseRQ decodes an A-RELEASE-RQ body.
func DecodeReleaseRQ(data []byte) (*AReleaseRQ, error) {
	if len(data) != 4 {
		return nil, dicomerrors.NewInvalidPduParameterValueError("release-rq", "body must be 4 reserved bytes")
	}
	return &AReleaseRQ{}, nil
}

// Encode renders the A-RELEASE-RQ frame body.
func (*AReleaseRQ) Encode() []byte { return make([]byte, 4) }

// PDUType identifies the PDU type byte this message encodes to.
func (*AReleaseRQ) PDUType() byte { return TypeReleaseRQ }

// AReleaseRP is the association release response PDU.
type AReleaseRP struct{}

// DecodeReleaseRP decodes an A-RELEASE-RP body.
func DecodeReleaseRP(data []byte) (*AReleaseRP, error) {
	if len(data) != 4 {
		return nil, dicomerrors.NewInvalidPduParameterValueError("release-rp", "body must be 4 reserved bytes")
	}
	return &AReleaseRP{}, nil
}

// Encode renders the A-RELEASE-RP frame body.
func (*AReleaseRP) Encode() []byte { return make([]byte, 4) }

// PDUType identifies the PDU type byte this message encodes to.
func (*AReleaseRP) PDUType() byte { return TypeReleaseRP }
