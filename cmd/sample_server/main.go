// Command sample_server runs a minimal C-STORE/C-ECHO SCP: it accepts
// associations and keeps every received instance in memory for inspection.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/oceanus-health/dicomcore/dicom"
	"github.com/oceanus-health/dicomcore/dimse"
	"github.com/oceanus-health/dicomcore/dul"
	"github.com/oceanus-health/dicomcore/server"
	"github.com/oceanus-health/dicomcore/uidreg"
)

const ctImageStorage = "1.2.840.10008.5.1.4.1.1.2"

// instanceStore keeps every C-STORE'd dataset in memory, keyed by SOP
// Instance UID.
type instanceStore struct {
	mu        sync.RWMutex
	instances map[string]*dicom.DataSet
}

func newInstanceStore() *instanceStore {
	return &instanceStore{instances: make(map[string]*dicom.DataSet)}
}

func (s *instanceStore) Receive(info dul.AssociationInfo, rq *dimse.CStoreRQ, ds *dicom.DataSet) (dimse.Status, error) {
	slog.Info("received C-STORE",
		"calling_ae", info.CallingAETitle,
		"sop_class", rq.AffectedSOPClassUID,
		"sop_instance", rq.AffectedSOPInstanceUID,
		"element_count", ds.Len())

	s.mu.Lock()
	s.instances[rq.AffectedSOPInstanceUID] = ds
	s.mu.Unlock()

	return dimse.StatusSuccess, nil
}

func main() {
	port := flag.Int("port", 4242, "TCP port to listen on")
	aeTitle := flag.String("ae", "SAMPLE_SCP", "Server AE Title")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := newInstanceStore()

	address := fmt.Sprintf(":%d", *port)
	err := server.ListenAndServe(ctx, address, *aeTitle, store,
		server.WithLogger(logger),
		server.WithAbstractSyntaxes(uidreg.VerificationSOPClass, ctImageStorage),
		server.WithTransferSyntaxes(uidreg.ExplicitVRLittleEndian, uidreg.ImplicitVRLittleEndian),
	)
	switch {
	case err == nil:
		logger.Info("Sample server shutdown complete")
	case errors.Is(err, context.Canceled):
		logger.Info("Sample server stopped", "reason", err.Error())
	default:
		logger.Error("Sample server terminated unexpectedly", "error", err)
		os.Exit(1)
	}
}
