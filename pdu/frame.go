// Package pdu implements the DICOM Upper Layer Protocol Data Unit codec:
// bit-exact encode/decode for the seven PDU types, their items and
// sub-items, with length consistency enforced at every nesting level.
//
// The codec is synchronous and stateless: it operates on byte slices
// already pulled off the wire, never on a net.Conn. The association state
// machine and P-DATA reassembly live one layer up, in package dul.
package pdu

import (
	"encoding/binary"
	"fmt"
	"io"

	dicomerrors "github.com/oceanus-health/dicomcore/errors"
)

// PDU type bytes (spec Part 8, Table 9-1..9-3, 9-9, 9-17, 9-21, 9-26).
const (
	TypeAssociateRQ = 0x01
	TypeAssociateAC = 0x02
	TypeAssociateRJ = 0x03
	TypePDataTF     = 0x04
	TypeReleaseRQ   = 0x05
	TypeReleaseRP   = 0x06
	TypeAbort       = 0x07
)

// Frame is the outer 6-byte-header PDU envelope: 1-byte type, 1 reserved,
// 4-byte big-endian length, then length bytes of body.
type Frame struct {
	Type byte
	Data []byte
}

func knownType(t byte) bool {
	switch t {
	case TypeAssociateRQ, TypeAssociateAC, TypeAssociateRJ, TypePDataTF,
		TypeReleaseRQ, TypeReleaseRP, TypeAbort:
		return true
	default:
		return false
	}
}

// ReadFrame reads one complete PDU frame from r.
func ReadFrame(r io.Reader) (*Frame, error) {
	header := make([]byte, 6)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}

	pduType := header[0]
	length := binary.BigEndian.Uint32(header[2:6])

	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, fmt.Errorf("pdu: failed to read body of type 0x%02x: %w", pduType, err)
	}

	if !knownType(pduType) {
		return nil, dicomerrors.NewUnrecognizedPduError(pduType)
	}

	return &Frame{Type: pduType, Data: body}, nil
}

// WriteFrame writes a complete PDU frame to w.
func WriteFrame(w io.Writer, f *Frame) error {
	_, err := w.Write(EncodeFrame(f))
	return err
}

// EncodeFrame renders f (header + body) as a single byte slice.
func EncodeFrame(f *Frame) []byte {
	out := make([]byte, 6, 6+len(f.Data))
	out[0] = f.Type
	out[1] = 0
	binary.BigEndian.PutUint32(out[2:6], uint32(len(f.Data)))
	return append(out, f.Data...)
}

// Decode dispatches a frame's body to the typed decoder for its PDU type
// and returns one of *AAssociateRQ, *AAssociateAC, *AAssociateRJ, *PDataTF,
// *AReleaseRQ, *AReleaseRP, *AAbort.
func Decode(f *Frame) (interface{}, error) {
	switch f.Type {
	case TypeAssociateRQ:
		return DecodeAssociateRQ(f.Data)
	case TypeAssociateAC:
		return DecodeAssociateAC(f.Data)
	case TypeAssociateRJ:
		return DecodeAssociateRJ(f.Data)
	case TypePDataTF:
		return DecodePDataTF(f.Data)
	case TypeReleaseRQ:
		return DecodeReleaseRQ(f.Data)
	case TypeReleaseRP:
		return DecodeReleaseRP(f.Data)
	case TypeAbort:
		return DecodeAbort(f.Data)
	default:
		return nil, dicomerrors.NewUnrecognizedPduError(f.Type)
	}
}
