package pdu

import (
	"fmt"

	dicomerrors "github.com/oceanus-health/dicomcore/errors"
)

// A-ASSOCIATE-RJ result codes.
const (
	RejectResultPermanent byte = 0x01
	RejectResultTransient byte = 0x02
)

// A-ASSOCIATE-RJ source codes.
const (
	RejectSourceServiceUser               byte = 0x01
	RejectSourceServiceProviderACSE       byte = 0x02
	RejectSourceServiceProviderPresentation byte = 0x03
)

// AAssociateRJ is the association rejection PDU.
type AAssociateRJ struct {
	Result byte
	Source byte
	Reason byte
}

// DecodeAssociateRJ decodes an A-ASSOCIATE-RJ body: 1 reserved, result,
// source, reason.
func DecodeAssociateRJ(data []byte) (*AAssociateRJ, error) {
	if len(data) != 4 {
		return nil, dicomerrors.NewInvalidPduParameterValueError("associate-rj", "body must be 4 bytes")
	}
	rj := &AAssociateRJ{
		Result: data[1],
		Source: data[2],
		Reason: data[3],
	}
	if rj.Result != RejectResultPermanent && rj.Result != RejectResultTransient {
		return nil, dicomerrors.NewInvalidPduParameterValueError("associate-rj-result", "must be 1 (permanent) or 2 (transient)")
	}
	return rj, nil
}

// Encode renders rj as an A-ASSOCIATE-RJ frame body.
func (rj *AAssociateRJ) Encode() []byte {
	return []byte{0, rj.Result, rj.Source, rj.Reason}
}

// PDUType identifies the PDU type byte this message encodes to.
func (rj *AAssociateRJ) PDUType() byte { return TypeAssociateRJ }

// ReasonDescription renders a human-readable reason string, since the
// Reason byte's meaning is keyed by Source (Part 8, Table 9-21).
func (rj *AAssociateRJ) ReasonDescription() string {
	switch rj.Source {
	case RejectSourceServiceUser:
		switch rj.Reason {
		case 1:
			return "no-reason-given"
		case 2:
			return "application-context-name-not-supported"
		case 3:
			return "calling-AE-title-not-recognized"
		case 7:
			return "called-AE-title-not-recognized"
		}
	case RejectSourceServiceProviderACSE:
		switch rj.Reason {
		case 1:
			return "no-reason-given"
		case 2:
			return "protocol-version-not-supported"
		}
	case RejectSourceServiceProviderPresentation:
		switch rj.Reason {
		case 1:
			return "temporary-congestion"
		case 2:
			return "local-limit-exceeded"
		}
	}
	return fmt.Sprintf("unknown-reason-0x%02x", rj.Reason)
}
