package dicom

import (
	"encoding/binary"
	"math"

	"github.com/oceanus-health/dicomcore/tag"
	"github.com/oceanus-health/dicomcore/vr"
)

// FileMetaFields are the logical values that make up a File Meta
// Information group (0002,xxxx); everything but the first four is
// optional, per spec.md §4.5.
type FileMetaFields struct {
	MediaStorageSOPClassUID    string
	MediaStorageSOPInstanceUID string
	TransferSyntaxUID          string
	ImplementationClassUID     string

	ImplementationVersionName     string
	SourceApplicationEntityTitle  string
	SendingApplicationEntityTitle string
	ReceivingAETitle              string
	SourcePresentationAddress     string
	SendingPresentationAddress    string
	ReceivingPresentationAddress  string

	RTVMetaInformationVersion     []byte
	RTVCommunicationSOPClassUID   string
	RTVCommunicationSOPInstance   string
	RTVSourceIdentifier           []byte
	RTVFlowIdentifier             []byte
	RTVFlowRTPSamplingRate        uint32
	RTVFlowActualFrameDurationSet bool
	RTVFlowActualFrameDuration    float64

	PrivateInformationCreatorUID string
	PrivateInformation           []byte
}

var (
	tagGroupLength                    = tag.New(0x0002, 0x0000)
	tagFileMetaInformationVersion      = tag.New(0x0002, 0x0001)
	tagMediaStorageSOPClassUID         = tag.New(0x0002, 0x0002)
	tagMediaStorageSOPInstanceUID      = tag.New(0x0002, 0x0003)
	tagTransferSyntaxUID               = tag.New(0x0002, 0x0010)
	tagImplementationClassUID          = tag.New(0x0002, 0x0012)
	tagImplementationVersionName       = tag.New(0x0002, 0x0013)
	tagSourceApplicationEntityTitle    = tag.New(0x0002, 0x0016)
	tagSendingApplicationEntityTitle   = tag.New(0x0002, 0x0017)
	tagReceivingApplicationEntityTitle = tag.New(0x0002, 0x0018)
	tagSourcePresentationAddress       = tag.New(0x0002, 0x0026)
	tagSendingPresentationAddress      = tag.New(0x0002, 0x0027)
	tagReceivingPresentationAddress    = tag.New(0x0002, 0x0028)
	tagRTVMetaInformationVersion       = tag.New(0x0002, 0x0031)
	tagRTVCommunicationSOPClassUID     = tag.New(0x0002, 0x0032)
	tagRTVCommunicationSOPInstanceUID  = tag.New(0x0002, 0x0033)
	tagRTVSourceIdentifier             = tag.New(0x0002, 0x0035)
	tagRTVFlowIdentifier               = tag.New(0x0002, 0x0036)
	tagRTVFlowRTPSamplingRate          = tag.New(0x0002, 0x0037)
	tagRTVFlowActualFrameDuration      = tag.New(0x0002, 0x0038)
	tagPrivateInformationCreatorUID    = tag.New(0x0002, 0x0100)
	tagPrivateInformation              = tag.New(0x0002, 0x0102)
)

func padString(s string, pad byte) []byte {
	b := []byte(s)
	if len(b)%2 != 0 {
		b = append(b, pad)
	}
	return b
}

func uiValue(s string) []byte  { return padString(s, 0x00) }
func shortText(s string) []byte { return padString(s, ' ') }

func pushString(elems *[]ElementInDataSet, t tag.Tag, vrCode string, raw []byte) {
	*elems = append(*elems, ElementInDataSet{
		Element: DataElement{Tag: t, VR: vrCode, Length: uint32(len(raw)), Value: raw},
	})
}

// BuildFileMetaInformation constructs the fixed, non-recursive Group 0002
// element list from fields, computing the (0002,0000) Group Length element
// last, per spec.md §4.5. The returned DataSet is always Explicit VR LE.
func BuildFileMetaInformation(fields FileMetaFields) *DataSet {
	var elems []ElementInDataSet

	// placeholder for (0002,0000); filled in once every later size is known
	elems = append(elems, ElementInDataSet{Element: DataElement{Tag: tagGroupLength, VR: "UL", Length: 4}})

	pushString(&elems, tagFileMetaInformationVersion, "OB", []byte{0x00, 0x01})
	pushString(&elems, tagMediaStorageSOPClassUID, "UI", uiValue(fields.MediaStorageSOPClassUID))
	pushString(&elems, tagMediaStorageSOPInstanceUID, "UI", uiValue(fields.MediaStorageSOPInstanceUID))
	pushString(&elems, tagTransferSyntaxUID, "UI", uiValue(fields.TransferSyntaxUID))
	pushString(&elems, tagImplementationClassUID, "UI", uiValue(fields.ImplementationClassUID))

	if fields.ImplementationVersionName != "" {
		pushString(&elems, tagImplementationVersionName, "SH", shortText(fields.ImplementationVersionName))
	}
	if fields.SourceApplicationEntityTitle != "" {
		pushString(&elems, tagSourceApplicationEntityTitle, "AE", shortText(fields.SourceApplicationEntityTitle))
	}
	if fields.SendingApplicationEntityTitle != "" {
		pushString(&elems, tagSendingApplicationEntityTitle, "AE", shortText(fields.SendingApplicationEntityTitle))
	}
	if fields.ReceivingAETitle != "" {
		pushString(&elems, tagReceivingApplicationEntityTitle, "AE", shortText(fields.ReceivingAETitle))
	}
	if fields.SourcePresentationAddress != "" {
		pushString(&elems, tagSourcePresentationAddress, "UR", shortText(fields.SourcePresentationAddress))
	}
	if fields.SendingPresentationAddress != "" {
		pushString(&elems, tagSendingPresentationAddress, "UR", shortText(fields.SendingPresentationAddress))
	}
	if fields.ReceivingPresentationAddress != "" {
		pushString(&elems, tagReceivingPresentationAddress, "UR", shortText(fields.ReceivingPresentationAddress))
	}
	if len(fields.RTVMetaInformationVersion) > 0 {
		pushString(&elems, tagRTVMetaInformationVersion, "OB", fields.RTVMetaInformationVersion)
	}
	if fields.RTVCommunicationSOPClassUID != "" {
		pushString(&elems, tagRTVCommunicationSOPClassUID, "UI", uiValue(fields.RTVCommunicationSOPClassUID))
	}
	if fields.RTVCommunicationSOPInstance != "" {
		pushString(&elems, tagRTVCommunicationSOPInstanceUID, "UI", uiValue(fields.RTVCommunicationSOPInstance))
	}
	if len(fields.RTVSourceIdentifier) > 0 {
		pushString(&elems, tagRTVSourceIdentifier, "OB", fields.RTVSourceIdentifier)
	}
	if len(fields.RTVFlowIdentifier) > 0 {
		pushString(&elems, tagRTVFlowIdentifier, "OB", fields.RTVFlowIdentifier)
	}
	if fields.RTVFlowRTPSamplingRate != 0 {
		raw := make([]byte, 4)
		binary.LittleEndian.PutUint32(raw, fields.RTVFlowRTPSamplingRate)
		pushString(&elems, tagRTVFlowRTPSamplingRate, "UL", raw)
	}
	if fields.RTVFlowActualFrameDurationSet {
		raw := make([]byte, 8)
		binary.LittleEndian.PutUint64(raw, math.Float64bits(fields.RTVFlowActualFrameDuration))
		pushString(&elems, tagRTVFlowActualFrameDuration, "FD", raw)
	}
	if fields.PrivateInformationCreatorUID != "" {
		pushString(&elems, tagPrivateInformationCreatorUID, "UI", uiValue(fields.PrivateInformationCreatorUID))
	}
	if len(fields.PrivateInformation) > 0 {
		pushString(&elems, tagPrivateInformation, "OB", fields.PrivateInformation)
	}

	for i := range elems {
		elems[i].BytePosition = -1
		elems[i].Size = headerSizeFor(&elems[i], true) + len(elems[i].Element.Value)
	}

	var groupLength uint32
	for i := 1; i < len(elems); i++ {
		groupLength += uint32(elems[i].Size)
	}
	groupLengthValue := make([]byte, 4)
	binary.LittleEndian.PutUint32(groupLengthValue, groupLength)
	elems[0].Element.Value = groupLengthValue
	elems[0].Element.Length = 4
	elems[0].Size = headerSizeFor(&elems[0], true) + len(groupLengthValue)

	return &DataSet{TransferSyntaxUID: "", Elements: elems}
}

// headerSizeFor computes the on-wire header length (tag+VR+length fields)
// an element would occupy if emitted, without needing a prior encode pass.
func headerSizeFor(e *ElementInDataSet, explicitVR bool) int {
	if !explicitVR || e.Element.VR == "" {
		return 8
	}
	if vr.VR(e.Element.VR).IsLongLength() {
		return 12
	}
	return 8
}
