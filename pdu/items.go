package pdu

import (
	"encoding/binary"

	dicomerrors "github.com/oceanus-health/dicomcore/errors"
)

// Item/sub-item type bytes shared by the association PDUs.
const (
	itemApplicationContext        = 0x10
	itemPresentationContextRQ     = 0x20
	itemPresentationContextAC     = 0x21
	itemAbstractSyntax            = 0x30
	itemTransferSyntax            = 0x40
	itemUserInformation           = 0x50
	itemMaximumLength             = 0x51
	itemImplementationClassUID    = 0x52
	itemAsyncOperationsWindow     = 0x53
	itemRoleSelection             = 0x54
	itemImplementationVersionName = 0x55
	itemSOPClassExtendedNeg       = 0x56
	itemSOPClassCommonExtendedNeg = 0x57
	itemUserIdentityRQ            = 0x58
	itemUserIdentityAC            = 0x59
)

// rawItem is one item or sub-item: a 4-byte header (1-byte type, 1 reserved,
// 2-byte big-endian length) followed by length bytes of value.
type rawItem struct {
	Type  byte
	Value []byte
}

// readItems walks data as a sequence of items, requiring the sub-item
// lengths to sum exactly to len(data) — the length-consistency check
// described in spec §4.6.2.
func readItems(data []byte, context string) ([]rawItem, error) {
	var items []rawItem
	offset := 0
	for offset < len(data) {
		if offset+4 > len(data) {
			return nil, dicomerrors.NewInvalidPduParameterValueError(context, "truncated item header")
		}
		itemType := data[offset]
		itemLength := int(binary.BigEndian.Uint16(data[offset+2 : offset+4]))
		valueStart := offset + 4
		valueEnd := valueStart + itemLength
		if valueEnd > len(data) {
			return nil, dicomerrors.NewInvalidPduParameterValueError(context, "item length exceeds parent bounds")
		}
		items = append(items, rawItem{Type: itemType, Value: data[valueStart:valueEnd]})
		offset = valueEnd
	}
	return items, nil
}

// encodeItem renders one item: type, 1 reserved byte, big-endian length,
// then value.
func encodeItem(itemType byte, value []byte) []byte {
	out := make([]byte, 4, 4+len(value))
	out[0] = itemType
	out[1] = 0
	binary.BigEndian.PutUint16(out[2:4], uint16(len(value)))
	return append(out, value...)
}

func normalizeUID(raw []byte) string {
	end := len(raw)
	for end > 0 && (raw[end-1] == 0x00 || raw[end-1] == ' ') {
		end--
	}
	return string(raw[:end])
}

func padUID(uid string) []byte {
	if len(uid)%2 != 0 {
		return append([]byte(uid), 0x00)
	}
	return []byte(uid)
}
