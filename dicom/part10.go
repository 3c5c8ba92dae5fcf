package dicom

import (
	"encoding/binary"
	"fmt"
)

// HasPart10Header reports whether data starts with the 128-byte preamble
// followed by the "DICM" prefix.
func HasPart10Header(data []byte) bool {
	if len(data) < 132 {
		return false
	}
	return string(data[128:132]) == "DICM"
}

// ReadFileMetaInformation parses the Group 0002 header that follows the
// 128-byte preamble and "DICM" prefix, returning the meta dataset and the
// byte offset at which the main dataset begins. Group 0002 is always
// Explicit VR LE regardless of the main dataset's transfer syntax.
func ReadFileMetaInformation(data []byte) (*DataSet, int, error) {
	if !HasPart10Header(data) {
		return nil, 0, fmt.Errorf("dicom: missing 128-byte preamble / DICM prefix")
	}

	b := &builder{data: data, pos: 132, explicitVR: true}
	for b.pos+4 <= len(data) {
		group := binary.LittleEndian.Uint16(data[b.pos : b.pos+2])
		if group != 0x0002 {
			break
		}
		if err := b.readOne(nil); err != nil {
			return nil, 0, err
		}
	}
	return &DataSet{TransferSyntaxUID: "", Elements: b.out}, b.pos, nil
}

// TransferSyntaxUIDValue returns the (0002,0010) value from a parsed File Meta
// Information dataset, or "" if absent.
func (d *DataSet) TransferSyntaxUIDValue() string {
	idx := d.Find(tagTransferSyntaxUID)
	if idx < 0 {
		return ""
	}
	raw := d.Elements[idx].Element.Value
	for len(raw) > 0 && (raw[len(raw)-1] == 0x00 || raw[len(raw)-1] == ' ') {
		raw = raw[:len(raw)-1]
	}
	return string(raw)
}

// StripPart10Header removes the preamble and File Meta Information, parsing
// the meta group with ReadFileMetaInformation to locate the dataset that
// follows, and reports the dataset's declared transfer syntax so the caller
// can parse it with ReadDataSet.
func StripPart10Header(data []byte) (datasetBytes []byte, transferSyntaxUID string, err error) {
	meta, offset, err := ReadFileMetaInformation(data)
	if err != nil {
		return nil, "", err
	}
	ts := meta.TransferSyntaxUIDValue()
	if ts == "" {
		return nil, "", fmt.Errorf("dicom: File Meta Information has no Transfer Syntax UID")
	}
	if offset > len(data) {
		return nil, "", fmt.Errorf("dicom: File Meta Information extends past end of input")
	}
	return data[offset:], ts, nil
}
