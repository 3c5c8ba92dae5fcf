package dicom

import (
	"encoding/binary"
	"testing"

	"github.com/oceanus-health/dicomcore/tag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	implicitVRLE = "1.2.840.10008.1.2"
	explicitVRLE = "1.2.840.10008.1.2.1"
	explicitVRBE = "1.2.840.10008.1.2.2"
)

func shortVRElement(group, element uint16, vrCode, value string) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint16(buf[0:2], group)
	binary.LittleEndian.PutUint16(buf[2:4], element)
	copy(buf[4:6], vrCode)
	binary.LittleEndian.PutUint16(buf[6:8], uint16(len(value)))
	return append(buf, value...)
}

func longVRElement(group, element uint16, vrCode string, length uint32, value []byte) []byte {
	buf := make([]byte, 12)
	binary.LittleEndian.PutUint16(buf[0:2], group)
	binary.LittleEndian.PutUint16(buf[2:4], element)
	copy(buf[4:6], vrCode)
	binary.LittleEndian.PutUint32(buf[8:12], length)
	return append(buf, value...)
}

func implicitElement(group, element uint16, length uint32, value []byte) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint16(buf[0:2], group)
	binary.LittleEndian.PutUint16(buf[2:4], element)
	binary.LittleEndian.PutUint32(buf[4:8], length)
	return append(buf, value...)
}

func rawTagLength(group, element uint16, length uint32) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint16(buf[0:2], group)
	binary.LittleEndian.PutUint16(buf[2:4], element)
	binary.LittleEndian.PutUint32(buf[4:8], length)
	return buf
}

func TestReadDataSet_ExplicitVR_SingleElement(t *testing.T) {
	data := shortVRElement(0x0008, 0x0060, "CS", "CT")

	ds, err := ReadDataSet(data, explicitVRLE)
	require.NoError(t, err)
	require.Equal(t, 1, ds.Len())

	e := ds.At(0)
	assert.Equal(t, tag.New(0x0008, 0x0060), e.Element.Tag)
	assert.Equal(t, "CS", e.Element.VR)
	assert.Equal(t, []byte("CT"), e.Element.Value)
	assert.Nil(t, e.ParentIndex)
	assert.Equal(t, 10, e.Size) // 8-byte header + 2-byte value
}

func TestReadDataSet_ImplicitVR_UsesDictionary(t *testing.T) {
	data := implicitElement(0x0008, 0x0060, 2, []byte("CT"))

	ds, err := ReadDataSet(data, implicitVRLE)
	require.NoError(t, err)
	require.Equal(t, 1, ds.Len())
	assert.Equal(t, "CS", ds.At(0).Element.VR)
}

func TestReadDataSet_BigEndianUnimplemented(t *testing.T) {
	_, err := ReadDataSet([]byte{}, explicitVRBE)
	require.Error(t, err)
	var unimpl *ErrUnimplementedTransferSyntax
	require.ErrorAs(t, err, &unimpl)
	assert.Equal(t, explicitVRBE, unimpl.UID)
}

func TestReadDataSet_TruncatedElementFails(t *testing.T) {
	data := shortVRElement(0x0008, 0x0060, "CS", "CT")
	_, err := ReadDataSet(data[:len(data)-1], explicitVRLE)
	require.Error(t, err)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
}

// TestReadDataSet_DefinedLengthItem mirrors S1's (FFFE,E000) row: a defined-
// length Item still recurses, and its own Size is header-only (8 bytes).
func TestReadDataSet_DefinedLengthItem(t *testing.T) {
	child := shortVRElement(0x0008, 0x0100, "SH", "ABC")
	// Item headers never carry a VR field: tag + 4-byte length only.
	item := rawTagLength(0xFFFE, 0xE000, uint32(len(child)))
	item = append(item, child...)
	sq := longVRElement(0x0008, 0x1115, "SQ", uint32(len(item)), item)

	ds, err := ReadDataSet(sq, explicitVRLE)
	require.NoError(t, err)
	require.Equal(t, 3, ds.Len())

	sqEntry := ds.At(0)
	assert.Equal(t, 12, sqEntry.Size)
	assert.Nil(t, sqEntry.ParentIndex)

	itemEntry := ds.At(1)
	assert.True(t, itemEntry.Element.Tag.IsItem())
	assert.Equal(t, 8, itemEntry.Size)
	require.NotNil(t, itemEntry.ParentIndex)
	assert.Equal(t, 0, *itemEntry.ParentIndex)

	childEntry := ds.At(2)
	require.NotNil(t, childEntry.ParentIndex)
	assert.Equal(t, 1, *childEntry.ParentIndex)

	assert.Equal(t, 2, ds.DescendantsCount(0))
	assert.Equal(t, 1, ds.DescendantsCount(1))
	assert.Equal(t, 0, ds.SequenceDepth(0))
	assert.Equal(t, 1, ds.SequenceDepth(1))
	assert.Equal(t, 1, ds.SequenceDepth(2)) // Item parent does not add a second level
}

func TestReadDataSet_UndefinedLengthSequence(t *testing.T) {
	child := shortVRElement(0x0008, 0x0100, "SH", "ABC")
	item := rawTagLength(0xFFFE, 0xE000, uint32(len(child)))
	item = append(item, child...)
	itemDelim := rawTagLength(0xFFFE, 0xE00D, 0)
	seqDelim := rawTagLength(0xFFFE, 0xE0DD, 0)

	var sqValue []byte
	sqValue = append(sqValue, item...)
	sqValue = append(sqValue, itemDelim...)
	sqValue = append(sqValue, seqDelim...)

	sq := longVRElement(0x0008, 0x1115, "SQ", UndefinedLength, sqValue)

	ds, err := ReadDataSet(sq, explicitVRLE)
	require.NoError(t, err)
	require.Equal(t, 5, ds.Len()) // SQ, Item, child, ItemDelim, SeqDelim

	assert.True(t, ds.At(3).Element.Tag.IsItemDelimitation())
	assert.True(t, ds.At(4).Element.Tag.IsSequenceDelimitation())
	assert.Equal(t, 4, ds.DescendantsCount(0))
}

// TestReadDataSet_EncapsulatedPixelData mirrors spec scenario S2.
func TestReadDataSet_EncapsulatedPixelData(t *testing.T) {
	frag1 := make([]byte, 8)
	frag2 := make([]byte, 2048)
	var value []byte
	value = append(value, rawTagLength(0xFFFE, 0xE000, uint32(len(frag1)))...)
	value = append(value, frag1...)
	value = append(value, rawTagLength(0xFFFE, 0xE000, uint32(len(frag2)))...)
	value = append(value, frag2...)
	value = append(value, rawTagLength(0xFFFE, 0xE0DD, 0)...)

	pixelData := longVRElement(0x7FE0, 0x0010, "OB", UndefinedLength, value)

	ds, err := ReadDataSet(pixelData, explicitVRLE)
	require.NoError(t, err)
	require.Equal(t, 4, ds.Len()) // PixelData + 2 fragments + delimiter

	assert.Equal(t, 3, ds.DescendantsCount(0))
	for i := 1; i <= 3; i++ {
		require.NotNil(t, ds.At(i).ParentIndex)
		assert.Equal(t, 0, *ds.At(i).ParentIndex)
	}
	assert.Equal(t, len(frag1), len(ds.At(1).Element.Value))
	assert.Equal(t, len(frag2), len(ds.At(2).Element.Value))
	assert.True(t, ds.At(3).Element.Tag.IsSequenceDelimitation())
}

// TestReadDataSet_UNUndefinedLength_RewindsToExplicit exercises the
// non-conformant-but-tolerated fallback: when a UN element with undefined
// length cannot be decoded as Implicit VR LE, the reader rewinds and
// retries as Explicit VR LE.
func TestReadDataSet_UNUndefinedLength_RewindsToExplicit(t *testing.T) {
	// A child that is well-formed under Explicit VR LE (short VR) but would
	// misparse under Implicit VR LE: its 2 VR-code bytes plus 2-length bytes,
	// read as an implicit 4-byte length, describe a value far longer than
	// what remains, forcing the implicit attempt to fail with an EOF error.
	child := shortVRElement(0x0008, 0x0100, "SH", "ABCDEFGH")
	seqDelim := rawTagLength(0xFFFE, 0xE0DD, 0)
	var value []byte
	value = append(value, child...)
	value = append(value, seqDelim...)

	un := longVRElement(0x0009, 0x0010, "UN", UndefinedLength, value)

	ds, err := ReadDataSet(un, explicitVRLE)
	require.NoError(t, err)
	require.GreaterOrEqual(t, ds.Len(), 2)
	assert.Equal(t, "SH", ds.At(1).Element.VR)
	assert.Equal(t, []byte("ABCDEFGH"), ds.At(1).Element.Value)
}

func TestWriteDataSet_RoundTrip(t *testing.T) {
	original := shortVRElement(0x0008, 0x0060, "CS", "CT")
	original = append(original, shortVRElement(0x0010, 0x0010, "PN", "DOE^JOHN")...)

	ds, err := ReadDataSet(original, explicitVRLE)
	require.NoError(t, err)

	out := WriteDataSet(ds)
	assert.Equal(t, original, out)

	reparsed, err := ReadDataSet(out, explicitVRLE)
	require.NoError(t, err)
	require.Equal(t, ds.Len(), reparsed.Len())
	for i := 0; i < ds.Len(); i++ {
		assert.Equal(t, ds.At(i).Element, reparsed.At(i).Element)
	}
}

func TestWriteDataSet_RoundTrip_UndefinedLengthSequence(t *testing.T) {
	child := shortVRElement(0x0008, 0x0100, "SH", "ABC")
	item := rawTagLength(0xFFFE, 0xE000, uint32(len(child)))
	item = append(item, child...)
	seqDelim := rawTagLength(0xFFFE, 0xE0DD, 0)
	var sqValue []byte
	sqValue = append(sqValue, item...)
	sqValue = append(sqValue, seqDelim...)
	original := longVRElement(0x0008, 0x1115, "SQ", UndefinedLength, sqValue)

	ds, err := ReadDataSet(original, explicitVRLE)
	require.NoError(t, err)

	out := WriteDataSet(ds)
	assert.Equal(t, original, out)
}

func TestDataSet_Find(t *testing.T) {
	data := shortVRElement(0x0008, 0x0060, "CS", "CT")
	data = append(data, shortVRElement(0x0010, 0x0010, "PN", "DOE^JOHN")...)

	ds, err := ReadDataSet(data, explicitVRLE)
	require.NoError(t, err)

	idx := ds.Find(tag.New(0x0010, 0x0010))
	require.GreaterOrEqual(t, idx, 0)
	assert.Equal(t, []byte("DOE^JOHN"), ds.At(idx).Element.Value)

	assert.Equal(t, -1, ds.Find(tag.New(0xFFFF, 0xFFFF)))
}

func TestReadDataSetRange_AbsoluteBytePositions(t *testing.T) {
	prefix := make([]byte, 0x160)
	data := append(prefix, shortVRElement(0x0008, 0x0060, "CS", "CT")...)

	ds, err := ReadDataSetRange(data, 0x160, len(data), explicitVRLE)
	require.NoError(t, err)
	require.Equal(t, 1, ds.Len())
	assert.Equal(t, 0x160, ds.At(0).BytePosition)
}
