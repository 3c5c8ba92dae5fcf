// Package dicom implements the DICOM dataset codec: reading and writing
// Explicit/Implicit VR Little Endian data sets, sequences, encapsulated
// Pixel Data, and the File Meta Information header.
package dicom

import "github.com/oceanus-health/dicomcore/tag"

// DataElement is one decoded element: its tag, VR (absent for delimiter
// tags), the declared value length (0xFFFFFFFF for undefined length), and
// the raw value bytes (empty for container elements whose children are
// carried as separate list entries).
type DataElement struct {
	Tag    tag.Tag
	VR     string
	Length uint32
	Value  []byte
}

// UndefinedLength marks a value length field as "undefined", deferring to
// a delimiter tag to close the element, per spec.md §4.4.1/§4.4.2.
const UndefinedLength uint32 = 0xFFFFFFFF

// ElementInDataSet is one entry in a DataSet's flat, parent-indexed element
// list. It never owns child elements directly; descendants are the
// subsequent entries in the list whose ParentIndex chain passes through this
// one, per spec.md §9 ("Flat parent-indexed list vs tree").
type ElementInDataSet struct {
	Element      DataElement
	BytePosition int
	Size         int // total encoded byte length, including any header/delimiter overhead
	ParentIndex  *int
}

// IsItemParent reports whether this entry is an Item (FFFE,E000) — used by
// SequenceDepth to skip non-logical nesting levels.
func (e *ElementInDataSet) IsItemParent() bool {
	return e.Element.Tag.IsItem()
}
