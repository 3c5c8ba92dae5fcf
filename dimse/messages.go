package dimse

import (
	"strings"
)

// storageSOPClassPrefix is the UID branch every Storage SOP Class lives
// under, per spec.md §4.9's C-STORE-RQ required-element rule.
const storageSOPClassPrefix = "1.2.840.10008.5.1.4.1.1."

// CStoreRQ is a parsed C-STORE request, per spec.md §4.9.
type CStoreRQ struct {
	MessageID               uint16
	AffectedSOPClassUID      string
	AffectedSOPInstanceUID   string
	Priority                 uint16
	HasMoveOriginator        bool
	MoveOriginatorAETitle    string
	MoveOriginatorMessageID  uint16
}

// ParseCStoreRQ validates and extracts a C-STORE-RQ from cs, per spec.md
// §4.9's required-element list.
func ParseCStoreRQ(cs *CommandSet) (*CStoreRQ, error) {
	cmd, ok := cs.CommandField()
	if !ok || cmd != CommandCStoreRQ {
		return nil, newCommandParseError("CommandField", "not a C-STORE-RQ")
	}
	sopClass, ok := cs.AffectedSOPClassUID()
	if !ok || !strings.HasPrefix(sopClass, storageSOPClassPrefix) {
		return nil, newCommandParseError("AffectedSOPClassUID", "missing or not a storage SOP class")
	}
	msgID, ok := cs.MessageID()
	if !ok {
		return nil, newCommandParseError("MessageID", "missing")
	}
	priority, ok := cs.Priority()
	if !ok {
		return nil, newCommandParseError("Priority", "missing")
	}
	dsType, ok := cs.CommandDataSetType()
	if !ok {
		return nil, newCommandParseError("CommandDataSetType", "missing")
	}
	if dsType == CommandDataSetTypeNone {
		return nil, newCommandParseError("CommandDataSetType", "0x0101 (no dataset) is forbidden in C-STORE-RQ")
	}
	sopInstance, ok := cs.AffectedSOPInstanceUID()
	if !ok || sopInstance == "" {
		return nil, newCommandParseError("AffectedSOPInstanceUID", "missing or empty")
	}

	rq := &CStoreRQ{
		MessageID:              msgID,
		AffectedSOPClassUID:    sopClass,
		AffectedSOPInstanceUID: sopInstance,
		Priority:               priority,
	}
	if ae, ok := cs.MoveOriginatorAETitle(); ok && strings.TrimSpace(ae) != "" {
		rq.HasMoveOriginator = true
		rq.MoveOriginatorAETitle = strings.TrimSpace(ae)
		if mid, ok := cs.MoveOriginatorMessageID(); ok {
			rq.MoveOriginatorMessageID = mid
		}
	}
	return rq, nil
}

// Encode builds the IVRLE command-group bytes for this C-STORE-RQ.
func (rq *CStoreRQ) Encode() []byte {
	b := &commandBuilder{}
	b.putUI(tagAffectedSOPClassUID, rq.AffectedSOPClassUID)
	b.putUS(tagCommandField, CommandCStoreRQ)
	b.putUS(tagMessageID, rq.MessageID)
	b.putUS(tagPriority, rq.Priority)
	b.putUS(tagCommandDataSetType, 0x0000) // dataset present
	b.putUI(tagAffectedSOPInstanceUID, rq.AffectedSOPInstanceUID)
	if rq.HasMoveOriginator {
		b.putAE(tagMoveOriginatorAETitle, rq.MoveOriginatorAETitle)
		b.putUS(tagMoveOriginatorMessageID, rq.MoveOriginatorMessageID)
	}
	return b.encode()
}

// CStoreRSP is a parsed (or to-be-built) C-STORE response, per spec.md
// §4.9/§4.10.
type CStoreRSP struct {
	MessageIDBeingRespondedTo uint16
	AffectedSOPClassUID       string
	AffectedSOPInstanceUID    string
	Status                    Status
}

// ParseCStoreRSP validates and extracts a C-STORE-RSP from cs.
func ParseCStoreRSP(cs *CommandSet) (*CStoreRSP, error) {
	cmd, ok := cs.CommandField()
	if !ok || cmd != CommandCStoreRSP {
		return nil, newCommandParseError("CommandField", "not a C-STORE-RSP")
	}
	msgID, ok := cs.MessageIDBeingRespondedTo()
	if !ok {
		return nil, newCommandParseError("MessageIDBeingRespondedTo", "missing")
	}
	statusCode, ok := cs.StatusCode()
	if !ok {
		return nil, newCommandParseError("Status", "missing")
	}
	status, err := ClassifyStatus(statusCode)
	if err != nil {
		return nil, err
	}
	sopClass, _ := cs.AffectedSOPClassUID()
	sopInstance, _ := cs.AffectedSOPInstanceUID()
	return &CStoreRSP{
		MessageIDBeingRespondedTo: msgID,
		AffectedSOPClassUID:       sopClass,
		AffectedSOPInstanceUID:    sopInstance,
		Status:                    status,
	}, nil
}

// Encode builds the IVRLE command-group bytes for this C-STORE-RSP,
// following spec.md §4.10 step 4's field layout.
func (rsp *CStoreRSP) Encode() []byte {
	b := &commandBuilder{}
	if rsp.AffectedSOPClassUID != "" {
		b.putUI(tagAffectedSOPClassUID, rsp.AffectedSOPClassUID)
	}
	b.putUS(tagCommandField, CommandCStoreRSP)
	b.putUS(tagMessageIDBeingRespondedTo, rsp.MessageIDBeingRespondedTo)
	b.putUS(tagCommandDataSetType, CommandDataSetTypeNone)
	b.putUS(tagStatus, rsp.Status.Code)
	if rsp.AffectedSOPInstanceUID != "" {
		b.putUI(tagAffectedSOPInstanceUID, rsp.AffectedSOPInstanceUID)
	}
	return b.encode()
}

// CEchoRQ is a parsed C-ECHO request.
type CEchoRQ struct {
	MessageID           uint16
	AffectedSOPClassUID string
}

// ParseCEchoRQ validates and extracts a C-ECHO-RQ from cs.
func ParseCEchoRQ(cs *CommandSet) (*CEchoRQ, error) {
	cmd, ok := cs.CommandField()
	if !ok || cmd != CommandCEchoRQ {
		return nil, newCommandParseError("CommandField", "not a C-ECHO-RQ")
	}
	msgID, ok := cs.MessageID()
	if !ok {
		return nil, newCommandParseError("MessageID", "missing")
	}
	sopClass, _ := cs.AffectedSOPClassUID()
	return &CEchoRQ{MessageID: msgID, AffectedSOPClassUID: sopClass}, nil
}

// Encode builds the IVRLE command-group bytes for this C-ECHO-RQ.
func (rq *CEchoRQ) Encode() []byte {
	b := &commandBuilder{}
	if rq.AffectedSOPClassUID != "" {
		b.putUI(tagAffectedSOPClassUID, rq.AffectedSOPClassUID)
	}
	b.putUS(tagCommandField, CommandCEchoRQ)
	b.putUS(tagMessageID, rq.MessageID)
	b.putUS(tagCommandDataSetType, CommandDataSetTypeNone)
	return b.encode()
}

// CEchoRSP is a parsed (or to-be-built) C-ECHO response.
type CEchoRSP struct {
	MessageIDBeingRespondedTo uint16
	AffectedSOPClassUID       string
	Status                    Status
}

// ParseCEchoRSP validates and extracts a C-ECHO-RSP from cs.
func ParseCEchoRSP(cs *CommandSet) (*CEchoRSP, error) {
	cmd, ok := cs.CommandField()
	if !ok || cmd != CommandCEchoRSP {
		return nil, newCommandParseError("CommandField", "not a C-ECHO-RSP")
	}
	msgID, ok := cs.MessageIDBeingRespondedTo()
	if !ok {
		return nil, newCommandParseError("MessageIDBeingRespondedTo", "missing")
	}
	statusCode, ok := cs.StatusCode()
	if !ok {
		return nil, newCommandParseError("Status", "missing")
	}
	status, err := ClassifyStatus(statusCode)
	if err != nil {
		return nil, err
	}
	sopClass, _ := cs.AffectedSOPClassUID()
	return &CEchoRSP{MessageIDBeingRespondedTo: msgID, AffectedSOPClassUID: sopClass, Status: status}, nil
}

// Encode builds the IVRLE command-group bytes for this C-ECHO-RSP.
func (rsp *CEchoRSP) Encode() []byte {
	b := &commandBuilder{}
	if rsp.AffectedSOPClassUID != "" {
		b.putUI(tagAffectedSOPClassUID, rsp.AffectedSOPClassUID)
	}
	b.putUS(tagCommandField, CommandCEchoRSP)
	b.putUS(tagMessageIDBeingRespondedTo, rsp.MessageIDBeingRespondedTo)
	b.putUS(tagCommandDataSetType, CommandDataSetTypeNone)
	b.putUS(tagStatus, rsp.Status.Code)
	return b.encode()
}
