package dicom

import (
	"strings"

	"github.com/oceanus-health/dicomcore/charset"
	"github.com/oceanus-health/dicomcore/tag"
	"github.com/oceanus-health/dicomcore/vr"
)

var tagSpecificCharacterSet = tag.New(0x0008, 0x0005)

// SpecificCharacterSet returns this dataset's declared (0008,0005) values,
// split on the multi-value separator, or nil if absent — meaning plain
// ASCII, per spec.md §4.2.
func (d *DataSet) SpecificCharacterSet() []string {
	idx := d.Find(tagSpecificCharacterSet)
	if idx < 0 {
		return nil
	}
	raw := vr.TrimPad(d.Elements[idx].Element.Value, vr.CS)
	return vr.SplitMulti(string(raw))
}

// textDecoder builds the charset-aware vr.Decoder for LO/SH elements,
// under this dataset's declared Specific Character Set.
func (d *DataSet) textDecoder() vr.Decoder {
	charSets := d.SpecificCharacterSet()
	return func(raw []byte) (string, error) {
		return charset.DecodeGeneric(raw, charSets), nil
	}
}

// personNameDecoder builds the charset-aware vr.Decoder for PN elements.
// charset.DecodePersonName already splits and decodes each backslash-
// separated value; rejoining with the same separator lets vr.ParsePN's own
// splitting/component validation run over already-decoded text.
func (d *DataSet) personNameDecoder() vr.Decoder {
	charSets := d.SpecificCharacterSet()
	return func(raw []byte) (string, error) {
		return strings.Join(charset.DecodePersonName(raw, charSets), `\`), nil
	}
}

// TextValues decodes the LO or SH element at index i under this dataset's
// declared character set.
func (d *DataSet) TextValues(i int) ([]string, error) {
	e := d.Elements[i].Element
	return vr.ParseText(e.Value, vr.VR(e.VR), d.textDecoder())
}

// PersonNameValues decodes the PN element at index i under this dataset's
// declared character set.
func (d *DataSet) PersonNameValues(i int) ([]vr.PersonName, error) {
	return vr.ParsePN(d.Elements[i].Element.Value, d.personNameDecoder())
}
