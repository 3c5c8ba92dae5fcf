package service

import (
	"fmt"
	"log/slog"

	"github.com/oceanus-health/dicomcore/dicom"
	"github.com/oceanus-health/dicomcore/dimse"
	"github.com/oceanus-health/dicomcore/dul"
	"github.com/oceanus-health/dicomcore/tag"
)

var (
	tagPatientName      = tag.New(0x0010, 0x0010)
	tagStudyDescription = tag.New(0x0008, 0x1030)
)

// Dispatcher serves DIMSE requests on an established association: for each
// reassembled command it recognizes (C-STORE-RQ, C-ECHO-RQ) on an accepted
// presentation context, it builds and sends the matching response, per
// spec.md §4.10.
type Dispatcher struct {
	Sink   ObjectSink
	Logger *slog.Logger
}

func (d *Dispatcher) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}

// Serve reads and answers DIMSE requests from assoc until the peer
// releases, aborts, or an unrecoverable error occurs. A normal release
// (dul.ErrReleased) is not returned as an error.
func (d *Dispatcher) Serve(assoc *dul.Association) error {
	logger := d.logger()
	for {
		msg, err := assoc.ReadMessage()
		if err != nil {
			if err == dul.ErrReleased {
				return nil
			}
			return err
		}
		if msg.Kind != dul.ReassembledCommand {
			logger.Warn("dispatcher: discarding dataset with no preceding command", "context_id", msg.ContextID)
			continue
		}

		if err := d.handleCommand(assoc, msg.ContextID, msg.Data); err != nil {
			logger.Warn("dispatcher: failed to handle request", "error", err, "context_id", msg.ContextID)
		}
	}
}

func (d *Dispatcher) handleCommand(assoc *dul.Association, contextID byte, commandData []byte) error {
	cs, err := dimse.DecodeCommandSet(commandData)
	if err != nil {
		return fmt.Errorf("service: failed to decode command set: %w", err)
	}

	switch cs.Kind() {
	case dimse.KindCEchoRQ:
		return d.handleCEcho(assoc, contextID, cs)
	case dimse.KindCStoreRQ:
		return d.handleCStore(assoc, contextID, cs)
	default:
		return fmt.Errorf("service: unsupported command kind %v", cs.Kind())
	}
}

func (d *Dispatcher) handleCEcho(assoc *dul.Association, contextID byte, cs *dimse.CommandSet) error {
	rq, err := dimse.ParseCEchoRQ(cs)
	if err != nil {
		return err
	}
	rsp := &dimse.CEchoRSP{
		MessageIDBeingRespondedTo: rq.MessageID,
		AffectedSOPClassUID:       rq.AffectedSOPClassUID,
		Status:                    dimse.StatusSuccess,
	}
	return assoc.Send(contextID, rsp.Encode(), nil)
}

func (d *Dispatcher) handleCStore(assoc *dul.Association, contextID byte, cs *dimse.CommandSet) error {
	rq, err := dimse.ParseCStoreRQ(cs)
	if err != nil {
		return err
	}

	pc, ok := assoc.PresentationContexts()[contextID]
	if !ok {
		return fmt.Errorf("service: context id %d has no accepted presentation context", contextID)
	}

	datasetMsg, err := assoc.ReadMessage()
	if err != nil {
		return err
	}
	if datasetMsg.Kind != dul.ReassembledDataset {
		return fmt.Errorf("service: expected dataset after C-STORE-RQ, got command")
	}

	status := dimse.StatusSuccess
	var ds *dicom.DataSet
	ds, parseErr := dicom.ReadDataSet(datasetMsg.Data, pc.TransferSyntax)
	if parseErr != nil {
		d.logger().Warn("service: dataset parse failed, reporting cannot-understand", "error", parseErr)
		status = dimse.StatusFailureCannotUnderstand
	} else {
		d.logPatientName(ds)
		sinkStatus, sinkErr := d.Sink.Receive(assoc.Info(), rq, ds)
		if sinkErr != nil {
			d.logger().Warn("service: sink failed, reporting cannot-understand", "error", sinkErr)
			status = dimse.StatusFailureCannotUnderstand
		} else {
			status = sinkStatus
		}
	}

	rsp := &dimse.CStoreRSP{
		MessageIDBeingRespondedTo: rq.MessageID,
		AffectedSOPClassUID:       rq.AffectedSOPClassUID,
		AffectedSOPInstanceUID:    rq.AffectedSOPInstanceUID,
		Status:                    status,
	}
	return assoc.Send(contextID, rsp.Encode(), nil)
}

// logPatientName decodes (0010,0010) and (0008,1030) under ds's declared
// Specific Character Set and logs them, for operators correlating stores
// by patient without reaching for a separate viewer.
func (d *Dispatcher) logPatientName(ds *dicom.DataSet) {
	fields := make([]any, 0, 4)
	if idx := ds.Find(tagPatientName); idx >= 0 {
		if names, err := ds.PersonNameValues(idx); err == nil && len(names) > 0 {
			fields = append(fields, "patient_name", names[0].Groups)
		}
	}
	if idx := ds.Find(tagStudyDescription); idx >= 0 {
		if desc, err := ds.TextValues(idx); err == nil && len(desc) > 0 {
			fields = append(fields, "study_description", desc[0])
		}
	}
	if len(fields) > 0 {
		d.logger().Info("service: received instance", fields...)
	}
}
