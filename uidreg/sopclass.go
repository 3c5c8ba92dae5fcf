package uidreg

// ApplicationContextUID is the DICOM Application Context Name negotiated on
// every association, per DICOM Part 7, Annex A.2.1.
const ApplicationContextUID = "1.2.840.10008.3.1.1.1"

// Verification Service, per DICOM Part 4, Annex A.
const VerificationSOPClass = "1.2.840.10008.1.1"

// Storage Service SOP Classes this toolkit negotiates for C-STORE, per
// DICOM Part 4, Annex B.5. Scoped to the modalities a storage SCP/SCU
// plausibly exchanges; Query/Retrieve, Worklist, MPPS, Storage Commitment
// and UPS SOP classes belong to services this package does not implement
// and are not carried here.
const (
	// Computed Radiography
	ComputedRadiographyImageStorage = "1.2.840.10008.5.1.4.1.1.1"

	// Digital Radiography
	DigitalXRayImageStorageForPresentation = "1.2.840.10008.5.1.4.1.1.1.1"
	DigitalXRayImageStorageForProcessing   = "1.2.840.10008.5.1.4.1.1.1.1.1"

	// Computed Tomography
	CTImageStorage         = "1.2.840.10008.5.1.4.1.1.2"
	EnhancedCTImageStorage = "1.2.840.10008.5.1.4.1.1.2.1"

	// Ultrasound
	UltrasoundMultiFrameImageStorage = "1.2.840.10008.5.1.4.1.1.3.1"
	UltrasoundImageStorage           = "1.2.840.10008.5.1.4.1.1.6.1"

	// Magnetic Resonance
	MRImageStorage         = "1.2.840.10008.5.1.4.1.1.4"
	EnhancedMRImageStorage = "1.2.840.10008.5.1.4.1.1.4.1"

	// Nuclear Medicine
	NuclearMedicineImageStorage = "1.2.840.10008.5.1.4.1.1.20"

	// Secondary Capture
	SecondaryCaptureImageStorage = "1.2.840.10008.5.1.4.1.1.7"

	// X-Ray Angiographic
	XRayAngiographicImageStorage = "1.2.840.10008.5.1.4.1.1.12.1"

	// Positron Emission Tomography
	PETImageStorage         = "1.2.840.10008.5.1.4.1.1.128"
	EnhancedPETImageStorage = "1.2.840.10008.5.1.4.1.1.130"

	// RT (Radiation Therapy)
	RTImageStorage        = "1.2.840.10008.5.1.4.1.1.481.1"
	RTDoseStorage         = "1.2.840.10008.5.1.4.1.1.481.2"
	RTStructureSetStorage = "1.2.840.10008.5.1.4.1.1.481.3"
	RTPlanStorage         = "1.2.840.10008.5.1.4.1.1.481.5"

	// Visible Light
	VLEndoscopicImageStorage   = "1.2.840.10008.5.1.4.1.1.77.1.1"
	VLPhotographicImageStorage = "1.2.840.10008.5.1.4.1.1.77.1.4"

	// Encapsulated Documents
	EncapsulatedPDFStorage = "1.2.840.10008.5.1.4.1.1.104.1"
	EncapsulatedCDAStorage = "1.2.840.10008.5.1.4.1.1.104.2"
)

// SOPClassCategory discriminates the service a SOP Class UID belongs to.
type SOPClassCategory string

const (
	CategoryVerification SOPClassCategory = "Verification"
	CategoryStorage       SOPClassCategory = "Storage"
	CategoryUnknown       SOPClassCategory = "Unknown"
)

// SOPClassInfo is one data-dictionary row for a SOP Class UID.
type SOPClassInfo struct {
	Name     string
	Category SOPClassCategory
}

// sopClasses is the static SOP Class dictionary, indexed by UID the same
// way tag.dictionary indexes by Tag.
var sopClasses = map[string]SOPClassInfo{
	VerificationSOPClass: {"Verification SOP Class", CategoryVerification},

	ComputedRadiographyImageStorage:       {"Computed Radiography Image Storage", CategoryStorage},
	DigitalXRayImageStorageForPresentation: {"Digital X-Ray Image Storage - For Presentation", CategoryStorage},
	DigitalXRayImageStorageForProcessing:   {"Digital X-Ray Image Storage - For Processing", CategoryStorage},
	CTImageStorage:                        {"CT Image Storage", CategoryStorage},
	EnhancedCTImageStorage:                {"Enhanced CT Image Storage", CategoryStorage},
	UltrasoundImageStorage:                {"Ultrasound Image Storage", CategoryStorage},
	UltrasoundMultiFrameImageStorage:       {"Ultrasound Multi-frame Image Storage", CategoryStorage},
	MRImageStorage:                        {"MR Image Storage", CategoryStorage},
	EnhancedMRImageStorage:                {"Enhanced MR Image Storage", CategoryStorage},
	NuclearMedicineImageStorage:            {"Nuclear Medicine Image Storage", CategoryStorage},
	SecondaryCaptureImageStorage:           {"Secondary Capture Image Storage", CategoryStorage},
	XRayAngiographicImageStorage:           {"X-Ray Angiographic Image Storage", CategoryStorage},
	PETImageStorage:                        {"PET Image Storage", CategoryStorage},
	EnhancedPETImageStorage:                {"Enhanced PET Image Storage", CategoryStorage},
	RTImageStorage:                         {"RT Image Storage", CategoryStorage},
	RTDoseStorage:                          {"RT Dose Storage", CategoryStorage},
	RTStructureSetStorage:                  {"RT Structure Set Storage", CategoryStorage},
	RTPlanStorage:                          {"RT Plan Storage", CategoryStorage},
	VLEndoscopicImageStorage:               {"VL Endoscopic Image Storage", CategoryStorage},
	VLPhotographicImageStorage:             {"VL Photographic Image Storage", CategoryStorage},
	EncapsulatedPDFStorage:                 {"Encapsulated PDF Storage", CategoryStorage},
	EncapsulatedCDAStorage:                 {"Encapsulated CDA Storage", CategoryStorage},
}

// LookupSOPClass returns the dictionary entry for uid, or false if uid is
// not one this package carries metadata for.
func LookupSOPClass(uid string) (SOPClassInfo, bool) {
	info, ok := sopClasses[uid]
	return info, ok
}

// SOPClassName returns uid's human-readable name, or "Unknown" if absent
// from the dictionary.
func SOPClassName(uid string) string {
	if info, ok := LookupSOPClass(uid); ok {
		return info.Name
	}
	return "Unknown"
}

// IsStorageSOPClass reports whether uid is a Storage Service SOP Class.
func IsStorageSOPClass(uid string) bool {
	info, ok := LookupSOPClass(uid)
	return ok && info.Category == CategoryStorage
}
