package tag

import "strings"

// Entry is one data-dictionary row: the VR a tag is registered with (which
// may be a disjunctive string such as "US or SS") and its human name, kept
// for logging the way gillesdemey-go-dicom/dictionary.go's TagDictEntry does.
type Entry struct {
	VRString string
	Name     string
}

// EffectiveVR returns the two-letter VR callers should use: the first VR
// named in a disjunctive entry ("US or SS" -> "US"), per spec.md §4.1.
func (e Entry) EffectiveVR() string {
	v := e.VRString
	if idx := strings.IndexByte(v, ' '); idx != -1 {
		v = v[:idx]
	}
	if len(v) > 2 {
		v = v[:2]
	}
	return v
}

// dictionary is the static data-element dictionary. It is deliberately not
// exhaustive: it covers the File Meta group, the DIMSE command group, and
// the tags exercised by the CT-like dataset scenario in spec.md §8 (S1/S2).
// Unlisted tags — including all private (odd-group) tags — are not found by
// Lookup and resolve to "UN" by EffectiveVR, matching spec.md §4.1/§4.4.1 step 4.
var dictionary = map[Tag]Entry{
	// File Meta Information (group 0002)
	{0x0002, 0x0000}: {"UL", "FileMetaInformationGroupLength"},
	{0x0002, 0x0001}: {"OB", "FileMetaInformationVersion"},
	{0x0002, 0x0002}: {"UI", "MediaStorageSOPClassUID"},
	{0x0002, 0x0003}: {"UI", "MediaStorageSOPInstanceUID"},
	{0x0002, 0x0010}: {"UI", "TransferSyntaxUID"},
	{0x0002, 0x0012}: {"UI", "ImplementationClassUID"},
	{0x0002, 0x0013}: {"SH", "ImplementationVersionName"},
	{0x0002, 0x0016}: {"AE", "SourceApplicationEntityTitle"},
	{0x0002, 0x0017}: {"AE", "SendingApplicationEntityTitle"},
	{0x0002, 0x0018}: {"AE", "ReceivingApplicationEntityTitle"},
	{0x0002, 0x0100}: {"UI", "PrivateInformationCreatorUID"},
	{0x0002, 0x0102}: {"OB", "PrivateInformation"},

	// DIMSE command group (group 0000)
	{0x0000, 0x0000}: {"UL", "CommandGroupLength"},
	{0x0000, 0x0002}: {"UI", "AffectedSOPClassUID"},
	{0x0000, 0x0003}: {"UI", "RequestedSOPClassUID"},
	{0x0000, 0x0100}: {"US", "CommandField"},
	{0x0000, 0x0110}: {"US", "MessageID"},
	{0x0000, 0x0120}: {"US", "MessageIDBeingRespondedTo"},
	{0x0000, 0x0600}: {"AE", "MoveDestination"},
	{0x0000, 0x0700}: {"US", "Priority"},
	{0x0000, 0x0800}: {"US", "CommandDataSetType"},
	{0x0000, 0x0900}: {"US", "Status"},
	{0x0000, 0x1000}: {"UI", "AffectedSOPInstanceUID"},
	{0x0000, 0x1001}: {"UI", "RequestedSOPInstanceUID"},
	{0x0000, 0x1002}: {"US", "EventTypeID"},
	{0x0000, 0x1008}: {"US", "ActionTypeID"},
	{0x0000, 0x1021}: {"US", "NumberOfCompletedSuboperations"},
	{0x0000, 0x1022}: {"US", "NumberOfFailedSuboperations"},
	{0x0000, 0x1023}: {"US", "NumberOfWarningSuboperations"},
	{0x0000, 0x1020}: {"US", "NumberOfRemainingSuboperations"},
	{0x0000, 0x1030}: {"AE", "MoveOriginatorApplicationEntityTitle"},
	{0x0000, 0x1031}: {"US", "MoveOriginatorMessageID"},

	// Identification / general study (used by the S1/S2 CT-like scenario)
	{0x0008, 0x0005}: {"CS", "SpecificCharacterSet"},
	{0x0008, 0x0008}: {"CS", "ImageType"},
	{0x0008, 0x0016}: {"UI", "SOPClassUID"},
	{0x0008, 0x0018}: {"UI", "SOPInstanceUID"},
	{0x0008, 0x0020}: {"DA", "StudyDate"},
	{0x0008, 0x0030}: {"TM", "StudyTime"},
	{0x0008, 0x0050}: {"SH", "AccessionNumber"},
	{0x0008, 0x0060}: {"CS", "Modality"},
	{0x0008, 0x0090}: {"PN", "ReferringPhysicianName"},
	{0x0008, 0x1030}: {"LO", "StudyDescription"},
	{0x0008, 0x103E}: {"LO", "SeriesDescription"},
	{0x0008, 0x114A}: {"SQ", "ReferencedInstanceSequence"},
	{0x0010, 0x0010}: {"PN", "PatientName"},
	{0x0010, 0x0020}: {"LO", "PatientID"},
	{0x0010, 0x0030}: {"DA", "PatientBirthDate"},
	{0x0010, 0x0040}: {"CS", "PatientSex"},
	{0x0018, 0x0015}: {"CS", "BodyPartExamined"},
	{0x0020, 0x000D}: {"UI", "StudyInstanceUID"},
	{0x0020, 0x000E}: {"UI", "SeriesInstanceUID"},
	{0x0020, 0x0010}: {"SH", "StudyID"},
	{0x0020, 0x0011}: {"IS", "SeriesNumber"},
	{0x0020, 0x0013}: {"IS", "InstanceNumber"},
	{0x0028, 0x0002}: {"US", "SamplesPerPixel"},
	{0x0028, 0x0004}: {"CS", "PhotometricInterpretation"},
	{0x0028, 0x0010}: {"US", "Rows"},
	{0x0028, 0x0011}: {"US", "Columns"},
	{0x0028, 0x0100}: {"US", "BitsAllocated"},
	{0x0028, 0x0101}: {"US", "BitsStored"},
	{0x0028, 0x0103}: {"US", "PixelRepresentation"},
	{0x5400, 0x1010}: {"OB", "WaveformData"},
	{0x7FE0, 0x0010}: {"OW or OB", "PixelData"},
}

// Lookup returns the dictionary entry for t, if any.
func Lookup(t Tag) (Entry, bool) {
	e, ok := dictionary[t]
	return e, ok
}

// EffectiveVR resolves the VR string a caller should use for t: the
// dictionary's (disjunction-resolved) VR if known, else "UN" — spec.md
// §4.1/§4.4.1 step 4.
func EffectiveVR(t Tag) string {
	if e, ok := Lookup(t); ok {
		return e.EffectiveVR()
	}
	return "UN"
}

// Name returns the dictionary's human name for t, or "" if unknown.
func Name(t Tag) string {
	if e, ok := Lookup(t); ok {
		return e.Name
	}
	return ""
}
