// Package dimse implements the DICOM Message Service Element command layer:
// decoding a command buffer into typed C-STORE/C-ECHO messages, building
// responses, and classifying C-STORE-RSP status codes, per spec.md §4.9.
//
// The command group is always Implicit VR Little Endian on the wire,
// regardless of the transfer syntax negotiated for the accompanying dataset
// — CommandSet parses and serializes through the dataset codec in package
// dicom under that fixed transfer syntax.
package dimse

import (
	"fmt"

	"github.com/oceanus-health/dicomcore/dicom"
	"github.com/oceanus-health/dicomcore/tag"
	"github.com/oceanus-health/dicomcore/uidreg"
	"github.com/oceanus-health/dicomcore/vr"
)

// Command Field (0000,0100) values recognized by this package — the
// C-STORE/C-ECHO subset of spec.md §4.9.
const (
	CommandCStoreRQ  uint16 = 0x0001
	CommandCStoreRSP uint16 = 0x8001
	CommandCEchoRQ   uint16 = 0x0030
	CommandCEchoRSP  uint16 = 0x8030
)

// Priority (0000,0700) values.
const (
	PriorityMedium uint16 = 0x0000
	PriorityHigh   uint16 = 0x0001
	PriorityLow    uint16 = 0x0002
)

// CommandDataSetTypeNone marks "no dataset follows" in Command Data Set Type
// (0000,0800). Any other value means a dataset accompanies the command.
const CommandDataSetTypeNone uint16 = 0x0101

var (
	tagGroupLength               = tag.New(0x0000, 0x0000)
	tagAffectedSOPClassUID       = tag.New(0x0000, 0x0002)
	tagCommandField              = tag.New(0x0000, 0x0100)
	tagMessageID                 = tag.New(0x0000, 0x0110)
	tagMessageIDBeingRespondedTo = tag.New(0x0000, 0x0120)
	tagPriority                  = tag.New(0x0000, 0x0700)
	tagCommandDataSetType        = tag.New(0x0000, 0x0800)
	tagStatus                    = tag.New(0x0000, 0x0900)
	tagAffectedSOPInstanceUID    = tag.New(0x0000, 0x1000)
	tagMoveOriginatorAETitle     = tag.New(0x0000, 0x1030)
	tagMoveOriginatorMessageID   = tag.New(0x0000, 0x1031)
)

// CommandSet is a decoded DIMSE command group: a flat dataset parsed under
// Implicit VR Little Endian, with typed accessors for the command-group
// elements this package understands.
type CommandSet struct {
	ds *dicom.DataSet
}

// DecodeCommandSet parses raw command bytes under IVRLE.
func DecodeCommandSet(data []byte) (*CommandSet, error) {
	ds, err := dicom.ReadDataSet(data, uidreg.ImplicitVRLittleEndian)
	if err != nil {
		return nil, fmt.Errorf("dimse: failed to parse command set: %w", err)
	}
	return &CommandSet{ds: ds}, nil
}

func (c *CommandSet) getUS(t tag.Tag) (uint16, bool) {
	i := c.ds.Find(t)
	if i < 0 {
		return 0, false
	}
	vals, err := vr.ParseUS(c.ds.Elements[i].Element.Value)
	if err != nil || len(vals) == 0 {
		return 0, false
	}
	return vals[0], true
}

func (c *CommandSet) getUI(t tag.Tag) (string, bool) {
	i := c.ds.Find(t)
	if i < 0 {
		return "", false
	}
	vals, err := vr.ParseUI(c.ds.Elements[i].Element.Value)
	if err != nil || len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}

func (c *CommandSet) getAE(t tag.Tag) (string, bool) {
	i := c.ds.Find(t)
	if i < 0 {
		return "", false
	}
	vals, err := vr.ParseAE(c.ds.Elements[i].Element.Value)
	if err != nil || len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}

// CommandField returns the value of (0000,0100).
func (c *CommandSet) CommandField() (uint16, bool) { return c.getUS(tagCommandField) }

// MessageID returns the value of (0000,0110).
func (c *CommandSet) MessageID() (uint16, bool) { return c.getUS(tagMessageID) }

// MessageIDBeingRespondedTo returns the value of (0000,0120).
func (c *CommandSet) MessageIDBeingRespondedTo() (uint16, bool) {
	return c.getUS(tagMessageIDBeingRespondedTo)
}

// Priority returns the value of (0000,0700).
func (c *CommandSet) Priority() (uint16, bool) { return c.getUS(tagPriority) }

// CommandDataSetType returns the value of (0000,0800).
func (c *CommandSet) CommandDataSetType() (uint16, bool) { return c.getUS(tagCommandDataSetType) }

// StatusCode returns the value of (0000,0900).
func (c *CommandSet) StatusCode() (uint16, bool) { return c.getUS(tagStatus) }

// AffectedSOPClassUID returns the value of (0000,0002).
func (c *CommandSet) AffectedSOPClassUID() (string, bool) { return c.getUI(tagAffectedSOPClassUID) }

// AffectedSOPInstanceUID returns the value of (0000,1000).
func (c *CommandSet) AffectedSOPInstanceUID() (string, bool) {
	return c.getUI(tagAffectedSOPInstanceUID)
}

// MoveOriginatorAETitle returns the value of (0000,1030).
func (c *CommandSet) MoveOriginatorAETitle() (string, bool) { return c.getAE(tagMoveOriginatorAETitle) }

// MoveOriginatorMessageID returns the value of (0000,1031).
func (c *CommandSet) MoveOriginatorMessageID() (uint16, bool) {
	return c.getUS(tagMoveOriginatorMessageID)
}

// Kind identifies which of the four recognized command types a CommandSet's
// Command Field selects.
type Kind int

const (
	KindUnknown Kind = iota
	KindCStoreRQ
	KindCStoreRSP
	KindCEchoRQ
	KindCEchoRSP
)

// Kind classifies the CommandSet by its Command Field value.
func (c *CommandSet) Kind() Kind {
	cmd, ok := c.CommandField()
	if !ok {
		return KindUnknown
	}
	switch cmd {
	case CommandCStoreRQ:
		return KindCStoreRQ
	case CommandCStoreRSP:
		return KindCStoreRSP
	case CommandCEchoRQ:
		return KindCEchoRQ
	case CommandCEchoRSP:
		return KindCEchoRSP
	default:
		return KindUnknown
	}
}

// padEven appends pad once, if needed, to make b's length even — the DICOM
// convention for odd-length string-VR values.
func padEven(s string, pad byte) []byte {
	b := []byte(s)
	if len(b)%2 != 0 {
		b = append(b, pad)
	}
	return b
}

// commandBuilder accumulates command-group elements in wire order; encode
// prefixes the auto-computed Group Length element (0000,0000), per spec.md
// §4.10 step 4 ("group-length auto").
type commandBuilder struct {
	elements []dicom.ElementInDataSet
}

func (b *commandBuilder) put(t tag.Tag, vrCode vr.VR, value []byte) {
	b.elements = append(b.elements, dicom.ElementInDataSet{
		Element: dicom.DataElement{Tag: t, VR: string(vrCode), Length: uint32(len(value)), Value: value},
	})
}

func (b *commandBuilder) putUS(t tag.Tag, v uint16) {
	b.put(t, vr.US, vr.FormatUS([]uint16{v}))
}

func (b *commandBuilder) putUI(t tag.Tag, uid string) {
	b.put(t, vr.UI, padEven(uid, 0x00))
}

func (b *commandBuilder) putAE(t tag.Tag, ae string) {
	b.put(t, vr.AE, padEven(ae, ' '))
}

func (b *commandBuilder) encode() []byte {
	var payload []byte
	for i := range b.elements {
		payload = append(payload, dicom.WriteElement(&b.elements[i], false)...)
	}
	group := dicom.ElementInDataSet{
		Element: dicom.DataElement{Tag: tagGroupLength, VR: string(vr.UL), Length: 4, Value: vr.FormatUL([]uint32{uint32(len(payload))})},
	}
	out := dicom.WriteElement(&group, false)
	return append(out, payload...)
}
