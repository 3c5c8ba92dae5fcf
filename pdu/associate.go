package pdu

import (
	"encoding/binary"
	"fmt"
	"strings"

	dicomerrors "github.com/oceanus-health/dicomcore/errors"
)

const associateFixedFieldsLength = 68

// Presentation context result/reason codes (AC only; RQ always sends 0).
const (
	ResultAcceptance                  byte = 0x00
	ResultUserRejection                byte = 0x01
	ResultNoReason                     byte = 0x02
	ResultAbstractSyntaxNotSupported   byte = 0x03
	ResultTransferSyntaxesNotSupported byte = 0x04
)

// PresentationContextRQ is one proposed presentation context.
type PresentationContextRQ struct {
	ID               byte
	AbstractSyntax   string
	TransferSyntaxes []string
}

// PresentationContextAC is one negotiated presentation context. For
// rejected contexts (Result != ResultAcceptance) TransferSyntax is empty.
type PresentationContextAC struct {
	ID             byte
	Result         byte
	TransferSyntax string
}

// UserInformation carries the sub-items of the User Information item.
// Sub-items this codec does not interpret (0x53, 0x54, 0x56-0x59) are kept
// as OtherSubItems so a caller can still inspect or re-emit them.
type UserInformation struct {
	MaxPDULength              uint32
	ImplementationClassUID    string
	ImplementationVersionName string
	OtherSubItems             []rawItem
}

func (u *UserInformation) encode() []byte {
	var out []byte
	maxLen := make([]byte, 4)
	binary.BigEndian.PutUint32(maxLen, u.MaxPDULength)
	out = append(out, encodeItem(itemMaximumLength, maxLen)...)
	if u.ImplementationClassUID != "" {
		out = append(out, encodeItem(itemImplementationClassUID, padUID(u.ImplementationClassUID))...)
	}
	if u.ImplementationVersionName != "" {
		out = append(out, encodeItem(itemImplementationVersionName, []byte(u.ImplementationVersionName))...)
	}
	for _, item := range u.OtherSubItems {
		out = append(out, encodeItem(item.Type, item.Value)...)
	}
	return out
}

func decodeUserInformation(data []byte) (*UserInformation, error) {
	items, err := readItems(data, "user-information")
	if err != nil {
		return nil, err
	}
	u := &UserInformation{}
	for _, item := range items {
		switch item.Type {
		case itemMaximumLength:
			if len(item.Value) != 4 {
				return nil, dicomerrors.NewInvalidPduParameterValueError("maximum-length", "expected 4-byte value")
			}
			u.MaxPDULength = binary.BigEndian.Uint32(item.Value)
		case itemImplementationClassUID:
			u.ImplementationClassUID = normalizeUID(item.Value)
		case itemImplementationVersionName:
			u.ImplementationVersionName = normalizeUID(item.Value)
		default:
			u.OtherSubItems = append(u.OtherSubItems, item)
		}
	}
	return u, nil
}

func decodeFixedFields(data []byte) (protocolVersion uint16, calledAE, callingAE string, err error) {
	if len(data) < associateFixedFieldsLength {
		return 0, "", "", dicomerrors.NewInvalidPduParameterValueError("associate-fixed-fields", "body shorter than 68 bytes")
	}
	protocolVersion = binary.BigEndian.Uint16(data[0:2])
	calledAE = strings.TrimSpace(string(data[4:20]))
	callingAE = strings.TrimSpace(string(data[20:36]))
	return protocolVersion, calledAE, callingAE, nil
}

func encodeFixedFields(protocolVersion uint16, calledAE, callingAE string) []byte {
	out := make([]byte, associateFixedFieldsLength)
	binary.BigEndian.PutUint16(out[0:2], protocolVersion)
	copy(out[4:20], fmt.Sprintf("%-16s", calledAE))
	copy(out[20:36], fmt.Sprintf("%-16s", callingAE))
	return out
}

// AAssociateRQ is the association request PDU.
type AAssociateRQ struct {
	ProtocolVersion        uint16
	CalledAETitle          string
	CallingAETitle         string
	ApplicationContextUID  string
	PresentationContexts   []PresentationContextRQ
	UserInformation        UserInformation
}

// DecodeAssociateRQ decodes an A-ASSOCIATE-RQ body (frame.Data, without the
// 6-byte outer header).
func DecodeAssociateRQ(data []byte) (*AAssociateRQ, error) {
	protocolVersion, calledAE, callingAE, err := decodeFixedFields(data)
	if err != nil {
		return nil, err
	}

	items, err := readItems(data[associateFixedFieldsLength:], "associate-rq")
	if err != nil {
		return nil, err
	}

	rq := &AAssociateRQ{
		ProtocolVersion: protocolVersion,
		CalledAETitle:   calledAE,
		CallingAETitle:  callingAE,
	}

	for _, item := range items {
		switch item.Type {
		case itemApplicationContext:
			rq.ApplicationContextUID = normalizeUID(item.Value)
		case itemPresentationContextRQ:
			pc, err := decodePresentationContextRQ(item.Value)
			if err != nil {
				return nil, err
			}
			rq.PresentationContexts = append(rq.PresentationContexts, *pc)
		case itemUserInformation:
			ui, err := decodeUserInformation(item.Value)
			if err != nil {
				return nil, err
			}
			rq.UserInformation = *ui
		}
	}

	return rq, nil
}

func decodePresentationContextRQ(data []byte) (*PresentationContextRQ, error) {
	if len(data) < 4 {
		return nil, dicomerrors.NewInvalidPduParameterValueError("presentation-context-rq", "shorter than 4 bytes")
	}
	id := data[0]
	if id == 0 || id%2 == 0 {
		return nil, dicomerrors.NewInvalidPduParameterValueError("presentation-context-id", "must be odd and non-zero in RQ")
	}

	items, err := readItems(data[4:], "presentation-context-rq")
	if err != nil {
		return nil, err
	}

	pc := &PresentationContextRQ{ID: id}
	for _, item := range items {
		switch item.Type {
		case itemAbstractSyntax:
			pc.AbstractSyntax = normalizeUID(item.Value)
		case itemTransferSyntax:
			pc.TransferSyntaxes = append(pc.TransferSyntaxes, normalizeUID(item.Value))
		}
	}
	if pc.AbstractSyntax == "" {
		return nil, dicomerrors.NewInvalidPduParameterValueError("presentation-context-rq", "missing abstract syntax sub-item")
	}
	return pc, nil
}

// Encode renders rq as an A-ASSOCIATE-RQ frame body.
func (rq *AAssociateRQ) Encode() []byte {
	out := encodeFixedFields(rq.ProtocolVersion, rq.CalledAETitle, rq.CallingAETitle)

	appCtx := rq.ApplicationContextUID
	out = append(out, encodeItem(itemApplicationContext, padUID(appCtx))...)

	for _, pc := range rq.PresentationContexts {
		var body []byte
		body = append(body, pc.ID, 0, 0, 0)
		body = append(body, encodeItem(itemAbstractSyntax, padUID(pc.AbstractSyntax))...)
		for _, ts := range pc.TransferSyntaxes {
			body = append(body, encodeItem(itemTransferSyntax, padUID(ts))...)
		}
		out = append(out, encodeItem(itemPresentationContextRQ, body)...)
	}

	out = append(out, encodeItem(itemUserInformation, rq.UserInformation.encode())...)
	return out
}

// PDUType identifies the PDU type byte this message encodes to.
func (rq *AAssociateRQ) PDUType() byte { return TypeAssociateRQ }

// AAssociateAC is the association accept PDU.
type AAssociateAC struct {
	ProtocolVersion       uint16
	CalledAETitle         string
	CallingAETitle        string
	ApplicationContextUID string
	PresentationContexts  []PresentationContextAC
	UserInformation       UserInformation
}

// DecodeAssociateAC decodes an A-ASSOCIATE-AC body.
func DecodeAssociateAC(data []byte) (*AAssociateAC, error) {
	protocolVersion, calledAE, callingAE, err := decodeFixedFields(data)
	if err != nil {
		return nil, err
	}

	items, err := readItems(data[associateFixedFieldsLength:], "associate-ac")
	if err != nil {
		return nil, err
	}

	ac := &AAssociateAC{
		ProtocolVersion: protocolVersion,
		CalledAETitle:   calledAE,
		CallingAETitle:  callingAE,
	}

	for _, item := range items {
		switch item.Type {
		case itemApplicationContext:
			ac.ApplicationContextUID = normalizeUID(item.Value)
		case itemPresentationContextAC:
			pc, err := decodePresentationContextAC(item.Value)
			if err != nil {
				return nil, err
			}
			ac.PresentationContexts = append(ac.PresentationContexts, *pc)
		case itemUserInformation:
			ui, err := decodeUserInformation(item.Value)
			if err != nil {
				return nil, err
			}
			ac.UserInformation = *ui
		}
	}

	return ac, nil
}

func decodePresentationContextAC(data []byte) (*PresentationContextAC, error) {
	if len(data) < 4 {
		return nil, dicomerrors.NewInvalidPduParameterValueError("presentation-context-ac", "shorter than 4 bytes")
	}
	id := data[0]
	result := data[2]
	if result > 0x04 {
		return nil, dicomerrors.NewInvalidPduParameterValueError("presentation-context-result", "must be 0..4")
	}

	items, err := readItems(data[4:], "presentation-context-ac")
	if err != nil {
		return nil, err
	}

	pc := &PresentationContextAC{ID: id, Result: result}
	for _, item := range items {
		if item.Type == itemTransferSyntax {
			pc.TransferSyntax = normalizeUID(item.Value)
		}
	}
	if result == ResultAcceptance && pc.TransferSyntax == "" {
		return nil, dicomerrors.NewInvalidPduParameterValueError("presentation-context-ac", "accepted context missing transfer syntax")
	}
	return pc, nil
}

// Encode renders ac as an A-ASSOCIATE-AC frame body.
func (ac *AAssociateAC) Encode() []byte {
	out := encodeFixedFields(ac.ProtocolVersion, ac.CalledAETitle, ac.CallingAETitle)

	out = append(out, encodeItem(itemApplicationContext, padUID(ac.ApplicationContextUID))...)

	for _, pc := range ac.PresentationContexts {
		var body []byte
		body = append(body, pc.ID, 0, pc.Result, 0)
		if pc.Result == ResultAcceptance {
			body = append(body, encodeItem(itemTransferSyntax, padUID(pc.TransferSyntax))...)
		}
		out = append(out, encodeItem(itemPresentationContextAC, body)...)
	}

	out = append(out, encodeItem(itemUserInformation, ac.UserInformation.encode())...)
	return out
}

// PDUType identifies the PDU type byte this message encodes to.
func (ac *AAssociateAC) PDUType() byte { return TypeAssociateAC }
