package dicom

import (
	"encoding/binary"

	"github.com/oceanus-health/dicomcore/tag"
	"github.com/oceanus-health/dicomcore/uidreg"
	"github.com/oceanus-health/dicomcore/vr"
)

// builder accumulates a flat, parent-indexed element list while walking raw
// bytes, per spec.md §4.4.1-§4.4.3.
type builder struct {
	data       []byte
	pos        int
	explicitVR bool
	out        []ElementInDataSet
}

func (b *builder) readUint16() (uint16, error) {
	if b.pos+2 > len(b.data) {
		return 0, &ParseError{Position: b.pos, Msg: "unexpected end of stream reading 2 bytes"}
	}
	v := binary.LittleEndian.Uint16(b.data[b.pos : b.pos+2])
	b.pos += 2
	return v, nil
}

func (b *builder) readUint32() (uint32, error) {
	if b.pos+4 > len(b.data) {
		return 0, &ParseError{Position: b.pos, Msg: "unexpected end of stream reading 4 bytes"}
	}
	v := binary.LittleEndian.Uint32(b.data[b.pos : b.pos+4])
	b.pos += 4
	return v, nil
}

func (b *builder) readBytes(n int) ([]byte, error) {
	if n < 0 || b.pos+n > len(b.data) {
		return nil, &ParseError{Position: b.pos, Msg: "unexpected end of stream reading value"}
	}
	v := b.data[b.pos : b.pos+n]
	b.pos += n
	return v, nil
}

func (b *builder) readTag() (tag.Tag, error) {
	group, err := b.readUint16()
	if err != nil {
		return tag.Tag{}, err
	}
	element, err := b.readUint16()
	if err != nil {
		return tag.Tag{}, err
	}
	return tag.New(group, element), nil
}

// header is one element's decoded tag/VR/length triple, per spec.md §4.4.1.
type header struct {
	tag    tag.Tag
	vr     string
	length uint32
}

func (b *builder) readHeader() (header, error) {
	t, err := b.readTag()
	if err != nil {
		return header{}, err
	}
	if t.IsDelimiter() {
		length, err := b.readUint32()
		if err != nil {
			return header{}, err
		}
		return header{tag: t, length: length}, nil
	}
	if !b.explicitVR {
		length, err := b.readUint32()
		if err != nil {
			return header{}, err
		}
		return header{tag: t, vr: tag.EffectiveVR(t), length: length}, nil
	}
	vrBytes, err := b.readBytes(2)
	if err != nil {
		return header{}, err
	}
	v, verr := vr.Parse([2]byte{vrBytes[0], vrBytes[1]})
	vrStr := string(v)
	if verr != nil {
		vrStr = string(vr.UN)
	}
	if v.IsLongLength() || verr != nil {
		if _, err := b.readBytes(2); err != nil { // reserved
			return header{}, err
		}
		length, err := b.readUint32()
		if err != nil {
			return header{}, err
		}
		return header{tag: t, vr: vrStr, length: length}, nil
	}
	length16, err := b.readUint16()
	if err != nil {
		return header{}, err
	}
	return header{tag: t, vr: vrStr, length: uint32(length16)}, nil
}

func (b *builder) appendEntry(e DataElement, bytePosition int, parent *int) int {
	idx := len(b.out)
	b.out = append(b.out, ElementInDataSet{Element: e, BytePosition: bytePosition, ParentIndex: parent})
	return idx
}

// readOne decodes one element at the current position, recursing into its
// descendants per the ordered rules of spec.md §4.4.2, and appends the
// resulting span to b.out.
func (b *builder) readOne(parent *int) error {
	start := b.pos
	h, err := b.readHeader()
	if err != nil {
		return err
	}

	headerSize := b.pos - start

	switch {
	case h.length == UndefinedLength && h.tag.IsPixelData():
		idx := b.appendEntry(DataElement{Tag: h.tag, VR: h.vr, Length: h.length}, start, parent)
		b.out[idx].Size = headerSize
		if err := b.readEncapsulatedPixelData(idx); err != nil {
			return err
		}

	case h.tag.IsItem() || h.vr == string(vr.SQ):
		idx := b.appendEntry(DataElement{Tag: h.tag, VR: h.vr, Length: h.length}, start, parent)
		b.out[idx].Size = headerSize
		if err := b.readContainer(idx, h); err != nil {
			return err
		}

	case h.length == UndefinedLength && h.vr == string(vr.UN):
		idx := b.appendEntry(DataElement{Tag: h.tag, VR: h.vr, Length: h.length}, start, parent)
		b.out[idx].Size = headerSize
		if err := b.readUNUndefinedLength(idx); err != nil {
			return err
		}

	default:
		var value []byte
		if !h.tag.IsDelimiter() && h.length != UndefinedLength {
			value, err = b.readBytes(int(h.length))
			if err != nil {
				return err
			}
		}
		idx := b.appendEntry(DataElement{Tag: h.tag, VR: h.vr, Length: h.length, Value: value}, start, parent)
		b.out[idx].Size = b.pos - start
	}
	return nil
}

// readContainer decodes the children of an SQ or Item element, per spec.md
// §4.4.2's two complementary closing strategies: delimiter tags for
// undefined length, exact byte accounting for defined length.
func (b *builder) readContainer(idx int, h header) error {
	parent := idx
	if h.length == UndefinedLength {
		closing := tag.SequenceDelimination
		if h.tag.IsItem() {
			closing = tag.ItemDelimitation
		}
		for {
			if b.pos >= len(b.data) {
				return &ParseError{Position: b.pos, Msg: "unexpected end of stream awaiting delimiter"}
			}
			childIdx := len(b.out)
			if err := b.readOne(&parent); err != nil {
				return err
			}
			if b.out[childIdx].Element.Tag == closing {
				return nil
			}
		}
	}
	end := b.pos + int(h.length)
	for b.pos < end {
		if err := b.readOne(&parent); err != nil {
			return err
		}
	}
	if b.pos != end {
		return &ParseError{Position: end, Msg: "container length accounting mismatch"}
	}
	return nil
}

// readEncapsulatedPixelData reads the raw (FFFE,E000) fragment item loop
// that follows an undefined-length Pixel Data element, stopping once the
// (FFFE,E0DD) sequence delimitation tag is consumed, per spec.md §4.4.2.
func (b *builder) readEncapsulatedPixelData(parentIdx int) error {
	parent := parentIdx
	for {
		start := b.pos
		t, err := b.readTag()
		if err != nil {
			return err
		}
		length, err := b.readUint32()
		if err != nil {
			return err
		}
		if t == tag.SequenceDelimination {
			idx := b.appendEntry(DataElement{Tag: t, Length: length}, start, &parent)
			b.out[idx].Size = b.pos - start
			return nil
		}
		if !t.IsItem() {
			return &ParseError{Position: start, Msg: "expected fragment item or sequence delimitation tag"}
		}
		value, err := b.readBytes(int(length))
		if err != nil {
			return err
		}
		idx := b.appendEntry(DataElement{Tag: t, Length: length, Value: value}, start, &parent)
		b.out[idx].Size = b.pos - start
	}
}

// readUNUndefinedLength implements the UN-with-undefined-length heuristic:
// attempt to read descendants as Implicit VR LE; if that attempt cannot
// decode a well-formed element, rewind to the pre-attempt position and
// retry the whole span as Explicit VR LE, per spec.md §4.4.2/§9.
func (b *builder) readUNUndefinedLength(idx int) error {
	savedLen := len(b.out)
	savedPos := b.pos
	savedExplicit := b.explicitVR

	b.explicitVR = false
	if err := b.readUNChildren(idx); err != nil {
		b.out = b.out[:savedLen]
		b.pos = savedPos
		b.explicitVR = true
		if err2 := b.readUNChildren(idx); err2 != nil {
			b.explicitVR = savedExplicit
			return err2
		}
	}
	b.explicitVR = savedExplicit
	return nil
}

// readUNChildren reads elements until the matching sequence delimitation tag
// is consumed. Nested undefined-length descendants fully consume their own
// delimiter before returning control here, so no explicit depth counter is
// needed beyond the recursion itself.
func (b *builder) readUNChildren(parentIdx int) error {
	parent := parentIdx
	for {
		if b.pos >= len(b.data) {
			return &ParseError{Position: b.pos, Msg: "unexpected end of stream in UN undefined-length span"}
		}
		childIdx := len(b.out)
		if err := b.readOne(&parent); err != nil {
			return err
		}
		if b.out[childIdx].Element.Tag == tag.SequenceDelimination {
			return nil
		}
	}
}

// ReadDataSetRange parses data[start:end] as a dataset under
// transferSyntaxUID, recording absolute byte positions. Explicit-VR-Big-
// Endian is recognized but rejected with ErrUnimplementedTransferSyntax,
// per spec.md §4.4.6.
func ReadDataSetRange(data []byte, start, end int, transferSyntaxUID string) (*DataSet, error) {
	kind := uidreg.Kind(transferSyntaxUID)
	if kind.BigEndian {
		return nil, &ErrUnimplementedTransferSyntax{UID: transferSyntaxUID}
	}
	b := &builder{data: data, pos: start, explicitVR: kind.ExplicitVR}
	for b.pos < end {
		if err := b.readOne(nil); err != nil {
			return nil, err
		}
	}
	return &DataSet{TransferSyntaxUID: transferSyntaxUID, Elements: b.out}, nil
}

// ReadDataSet parses the entirety of data as a dataset under
// transferSyntaxUID.
func ReadDataSet(data []byte, transferSyntaxUID string) (*DataSet, error) {
	return ReadDataSetRange(data, 0, len(data), transferSyntaxUID)
}
