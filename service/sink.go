// Package service implements the C-STORE/C-ECHO service dispatcher of
// spec.md §4.10: for each reassembled request on an accepted presentation
// context, it parses the dataset (if any) under that context's negotiated
// transfer syntax, hands it to an injected ObjectSink, and builds/sends the
// matching response — the one component above dul/dimse that actually
// knows what a presentation context's transfer syntax means for decoding.
package service

import (
	"github.com/oceanus-health/dicomcore/dicom"
	"github.com/oceanus-health/dicomcore/dimse"
	"github.com/oceanus-health/dicomcore/dul"
)

// ObjectSink is the external interface spec.md §6 requires every C-STORE
// server application to implement: given the association context, the
// decoded request, and the decoded dataset, decide what status to report.
type ObjectSink interface {
	Receive(info dul.AssociationInfo, rq *dimse.CStoreRQ, dataset *dicom.DataSet) (dimse.Status, error)
}

// ObjectSinkFunc adapts a plain function to ObjectSink.
type ObjectSinkFunc func(info dul.AssociationInfo, rq *dimse.CStoreRQ, dataset *dicom.DataSet) (dimse.Status, error)

// Receive calls f.
func (f ObjectSinkFunc) Receive(info dul.AssociationInfo, rq *dimse.CStoreRQ, dataset *dicom.DataSet) (dimse.Status, error) {
	return f(info, rq, dataset)
}
