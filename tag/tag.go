// Package tag represents DICOM data element tags and looks them up against
// the data dictionary.
package tag

import "fmt"

// Tag is the (group, element) pair that identifies a data element.
type Tag struct {
	Group   uint16
	Element uint16
}

// New builds a Tag from its two 16-bit halves.
func New(group, element uint16) Tag {
	return Tag{Group: group, Element: element}
}

// String renders the tag as "(GGGG,EEEE)" in lowercase hex.
func (t Tag) String() string {
	return fmt.Sprintf("(%04x,%04x)", t.Group, t.Element)
}

// Sentinel tags used by the sequence/item delimitation machinery.
var (
	Item                = Tag{0xFFFE, 0xE000}
	ItemDelimitation    = Tag{0xFFFE, 0xE00D}
	SequenceDelimitation = Tag{0xFFFE, 0xE0DD}
	PixelData           = Tag{0x7FE0, 0x0010}
)

// IsItem reports whether t is the Item tag (FFFE,E000).
func (t Tag) IsItem() bool { return t == Item }

// IsItemDelimitation reports whether t is (FFFE,E00D).
func (t Tag) IsItemDelimitation() bool { return t == ItemDelimitation }

// IsSequenceDelimitation reports whether t is (FFFE,E0DD).
func (t Tag) IsSequenceDelimitation() bool { return t == SequenceDelimitation }

// IsDelimiter reports whether t is any of the three delimiter-family tags
// that never carry an explicit VR on the wire.
func (t Tag) IsDelimiter() bool {
	return t.IsItem() || t.IsItemDelimitation() || t.IsSequenceDelimitation()
}

// IsPixelData reports whether t is (7FE0,0010).
func (t Tag) IsPixelData() bool { return t == PixelData }

// IsPrivate reports whether the tag's group is odd, the DICOM convention for
// manufacturer-private (non-standard) elements.
func (t Tag) IsPrivate() bool { return t.Group%2 == 1 }

// Group0000 is the Command group used by DIMSE command sets.
const Group0000 uint16 = 0x0000

// Group0002 is the File Meta Information group.
const Group0002 uint16 = 0x0002
