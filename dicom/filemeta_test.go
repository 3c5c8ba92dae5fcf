package dicom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFileMetaInformation_RequiredFieldsOnly(t *testing.T) {
	ds := BuildFileMetaInformation(FileMetaFields{
		MediaStorageSOPClassUID:    "1.2.840.10008.5.1.4.1.1.7",
		MediaStorageSOPInstanceUID: "1.2.3.4.5",
		TransferSyntaxUID:          explicitVRLE,
		ImplementationClassUID:     "1.2.3.4.5.6",
	})

	require.Equal(t, 6, ds.Len())
	groupLen := ds.At(0)
	assert.Equal(t, tagGroupLength, groupLen.Element.Tag)
	assert.Equal(t, uint32(4), groupLen.Element.Length)

	var sum uint32
	for i := 1; i < ds.Len(); i++ {
		sum += uint32(ds.At(i).Size)
	}
	assert.Equal(t, sum, binaryLEUint32(groupLen.Element.Value))

	ts := ds.At(4)
	assert.Equal(t, tagTransferSyntaxUID, ts.Element.Tag)
	assert.Equal(t, append([]byte(explicitVRLE), 0x00), ts.Element.Value) // odd length (19), padded with NUL
}

func TestBuildFileMetaInformation_PadsOddLengthUIDs(t *testing.T) {
	ds := BuildFileMetaInformation(FileMetaFields{
		MediaStorageSOPClassUID:    "1.2.3", // odd length
		MediaStorageSOPInstanceUID: "1.2.3.4.5",
		TransferSyntaxUID:          implicitVRLE, // odd length
		ImplementationClassUID:     "1.2.3.4.5.6",
	})

	sopClass := ds.At(2)
	assert.Equal(t, 0, len(sopClass.Element.Value)%2)
	assert.Equal(t, byte(0x00), sopClass.Element.Value[len(sopClass.Element.Value)-1])

	ts := ds.At(4)
	assert.Equal(t, 0, len(ts.Element.Value)%2)
}

func TestBuildFileMetaInformation_OptionalFieldsOmittedWhenEmpty(t *testing.T) {
	ds := BuildFileMetaInformation(FileMetaFields{
		MediaStorageSOPClassUID:    "1.2.3.4",
		MediaStorageSOPInstanceUID: "1.2.3.4.5",
		TransferSyntaxUID:          explicitVRLE,
		ImplementationClassUID:     "1.2.3.4.5.6",
	})
	assert.Equal(t, -1, ds.Find(tagImplementationVersionName))
	assert.Equal(t, -1, ds.Find(tagSourceApplicationEntityTitle))
	assert.Equal(t, -1, ds.Find(tagRTVFlowRTPSamplingRate))
}

func TestBuildFileMetaInformation_OptionalFieldsIncludedWhenSet(t *testing.T) {
	ds := BuildFileMetaInformation(FileMetaFields{
		MediaStorageSOPClassUID:      "1.2.3.4",
		MediaStorageSOPInstanceUID:   "1.2.3.4.5",
		TransferSyntaxUID:            explicitVRLE,
		ImplementationClassUID:       "1.2.3.4.5.6",
		ImplementationVersionName:    "OCEANUS_1_0",
		SourceApplicationEntityTitle: "STORESCU",
		RTVFlowRTPSamplingRate:       90000,
	})

	idx := ds.Find(tagImplementationVersionName)
	require.GreaterOrEqual(t, idx, 0)
	assert.Equal(t, "SH", ds.At(idx).Element.VR)

	idx = ds.Find(tagSourceApplicationEntityTitle)
	require.GreaterOrEqual(t, idx, 0)
	assert.Equal(t, "AE", ds.At(idx).Element.VR)

	idx = ds.Find(tagRTVFlowRTPSamplingRate)
	require.GreaterOrEqual(t, idx, 0)
	assert.Equal(t, uint32(4), ds.At(idx).Element.Length)
}

func TestBuildFileMetaInformation_WriteIsExplicitVRLE(t *testing.T) {
	ds := BuildFileMetaInformation(FileMetaFields{
		MediaStorageSOPClassUID:    "1.2.3.4",
		MediaStorageSOPInstanceUID: "1.2.3.4.5",
		TransferSyntaxUID:          implicitVRLE,
		ImplementationClassUID:     "1.2.3.4.5.6",
	})
	out := WriteDataSet(ds)
	// (0002,0000) UL group length: tag(4) + VR(2) + length(2) = 8-byte header.
	assert.Equal(t, []byte("UL"), out[4:6])
}

func binaryLEUint32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}
