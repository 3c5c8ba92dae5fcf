package pdu

import (
	"encoding/binary"

	dicomerrors "github.com/oceanus-health/dicomcore/errors"
)

const (
	pdvCommandBit = 1 << 1
	pdvLastBit    = 1 << 0
)

// PDV is one Presentation Data Value: a fragment of either a command or a
// dataset stream, tagged with the presentation context it belongs to.
type PDV struct {
	PresentationContextID byte
	IsCommand             bool
	IsLast                bool
	Data                  []byte
}

// PDataTF is a P-DATA-TF PDU: a concatenation of one or more PDVs.
type PDataTF struct {
	PDVs []PDV
}

// DecodePDataTF decodes a P-DATA-TF body as a sequence of PDVs, each
// prefixed with a 4-byte big-endian length covering everything after that
// length field.
func DecodePDataTF(data []byte) (*PDataTF, error) {
	var pdvs []PDV
	offset := 0
	for offset < len(data) {
		if offset+4 > len(data) {
			return nil, dicomerrors.NewInvalidPduParameterValueError("pdata-tf", "truncated PDV length")
		}
		pdvLength := binary.BigEndian.Uint32(data[offset : offset+4])
		valueStart := offset + 4
		valueEnd := valueStart + int(pdvLength)
		if valueEnd > len(data) {
			return nil, dicomerrors.NewInvalidPduParameterValueError("pdata-tf", "PDV length exceeds PDU bounds")
		}
		if pdvLength < 2 {
			return nil, dicomerrors.NewInvalidPduParameterValueError("pdata-tf", "PDV shorter than context-id + control-header")
		}

		contextID := data[valueStart]
		ctrl := data[valueStart+1]
		payload := data[valueStart+2 : valueEnd]

		pdvs = append(pdvs, PDV{
			PresentationContextID: contextID,
			IsCommand:             ctrl&pdvCommandBit != 0,
			IsLast:                ctrl&pdvLastBit != 0,
			Data:                  payload,
		})

		offset = valueEnd
	}
	return &PDataTF{PDVs: pdvs}, nil
}

// Encode renders p as a P-DATA-TF frame body.
func (p *PDataTF) Encode() []byte {
	var out []byte
	for _, pdv := range p.PDVs {
		var ctrl byte
		if pdv.IsCommand {
			ctrl |= pdvCommandBit
		}
		if pdv.IsLast {
			ctrl |= pdvLastBit
		}

		length := make([]byte, 4)
		binary.BigEndian.PutUint32(length, uint32(2+len(pdv.Data)))

		out = append(out, length...)
		out = append(out, pdv.PresentationContextID, ctrl)
		out = append(out, pdv.Data...)
	}
	return out
}

// PDUType identifies the PDU type byte this message encodes to.
func (p *PDataTF) PDUType() byte { return TypePDataTF }
