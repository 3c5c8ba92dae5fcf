package dicom

import (
	"encoding/binary"

	"github.com/oceanus-health/dicomcore/uidreg"
	"github.com/oceanus-health/dicomcore/vr"
)

// WriteElement encodes one flat-list entry exactly as it would appear on the
// wire: its own header plus its own value bytes. Container elements (SQ,
// Item, Pixel Data) carry no value of their own — their descendants are
// separate, subsequent entries in the list and are emitted in their own
// right, so the original byte stream is reproduced by walking the list in
// order, per spec.md §4.4.5.
func WriteElement(e *ElementInDataSet, explicitVR bool) []byte {
	t := e.Element.Tag
	buf := make([]byte, 0, 8+len(e.Element.Value))
	var tagBytes [4]byte
	binary.LittleEndian.PutUint16(tagBytes[0:2], t.Group)
	binary.LittleEndian.PutUint16(tagBytes[2:4], t.Element)
	buf = append(buf, tagBytes[:]...)

	v := vr.VR(e.Element.VR)
	if t.IsDelimiter() || !explicitVR || e.Element.VR == "" {
		var lenBytes [4]byte
		binary.LittleEndian.PutUint32(lenBytes[:], e.Element.Length)
		buf = append(buf, lenBytes[:]...)
		buf = append(buf, e.Element.Value...)
		return buf
	}

	buf = append(buf, e.Element.VR...)
	if v.IsLongLength() {
		buf = append(buf, 0, 0) // reserved
		var lenBytes [4]byte
		binary.LittleEndian.PutUint32(lenBytes[:], e.Element.Length)
		buf = append(buf, lenBytes[:]...)
	} else {
		var lenBytes [2]byte
		binary.LittleEndian.PutUint16(lenBytes[:], uint16(e.Element.Length))
		buf = append(buf, lenBytes[:]...)
	}
	buf = append(buf, e.Element.Value...)
	return buf
}

// WriteDataSet re-serializes ds by walking its flat element list in order
// and concatenating each entry's own encoded bytes. Because the list was
// either produced by ReadDataSet (preserving original order) or built to
// satisfy the same ordering invariant, this reconstructs the dataset
// byte-for-byte.
func WriteDataSet(ds *DataSet) []byte {
	explicitVR := uidreg.Kind(ds.TransferSyntaxUID).ExplicitVR
	var out []byte
	for i := range ds.Elements {
		out = append(out, WriteElement(&ds.Elements[i], explicitVR)...)
	}
	return out
}
