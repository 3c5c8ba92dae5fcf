// Package client implements the SCU (service class user) side of an
// association: dialing out, proposing presentation contexts, and issuing
// C-ECHO/C-STORE requests atop the dul/dimse stack.
package client

import (
	"fmt"
	"log/slog"
	"net"
	"sync/atomic"
	"time"

	"github.com/oceanus-health/dicomcore/dicom"
	"github.com/oceanus-health/dicomcore/dimse"
	"github.com/oceanus-health/dicomcore/dul"
	dicomerrors "github.com/oceanus-health/dicomcore/errors"
	"github.com/oceanus-health/dicomcore/pdu"
	"github.com/oceanus-health/dicomcore/uidreg"
)

// Config holds client-side association configuration.
type Config struct {
	CallingAETitle string
	CalledAETitle  string
	MaxPDULength   uint32
	ConnectTimeout time.Duration // default: 30s
	ReadTimeout    time.Duration // default: 60s
	WriteTimeout   time.Duration // default: 60s
	Logger         *slog.Logger  // default: slog.Default()

	// AbstractSyntaxes is the set of SOP classes to propose one
	// presentation context for each. Default: Verification only.
	AbstractSyntaxes []string
	// PreferredTransferSyntaxes is offered for every proposed context, in
	// this order. Default: Explicit VR LE, Implicit VR LE.
	PreferredTransferSyntaxes  []string
	ImplementationClassUID     string
	ImplementationVersionName  string
}

func (c Config) withDefaults() Config {
	if c.MaxPDULength == 0 {
		c.MaxPDULength = 16384
	}
	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = 30 * time.Second
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 60 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 60 * time.Second
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if len(c.AbstractSyntaxes) == 0 {
		c.AbstractSyntaxes = []string{uidreg.VerificationSOPClass}
	}
	if len(c.PreferredTransferSyntaxes) == 0 {
		c.PreferredTransferSyntaxes = []string{uidreg.ExplicitVRLittleEndian, uidreg.ImplicitVRLittleEndian}
	}
	if c.ImplementationClassUID == "" {
		c.ImplementationClassUID = "1.2.826.0.1.3680043.9.7743.1.1"
	}
	return c
}

// Association is a client-side established association.
type Association struct {
	assoc     *dul.Association
	logger    *slog.Logger
	messageID uint32
}

func (a *Association) nextMessageID() uint16 {
	return uint16(atomic.AddUint32(&a.messageID, 1))
}

// Connect dials address, opens a TCP connection, and performs the
// A-ASSOCIATE handshake proposing one presentation context per
// cfg.AbstractSyntaxes.
func Connect(address string, cfg Config) (*Association, error) {
	cfg = cfg.withDefaults()

	dialer := &net.Dialer{Timeout: cfg.ConnectTimeout}
	conn, err := dialer.Dial("tcp", address)
	if err != nil {
		if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
			return nil, dicomerrors.NewTimeoutError("dial "+address, cfg.ConnectTimeout.String())
		}
		return nil, dicomerrors.NewNetworkError("dial "+address, err)
	}
	if cfg.ReadTimeout > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
	}
	if cfg.WriteTimeout > 0 {
		_ = conn.SetWriteDeadline(time.Now().Add(cfg.WriteTimeout))
	}

	proposals := make([]pdu.PresentationContextRQ, 0, len(cfg.AbstractSyntaxes))
	for i, syntax := range cfg.AbstractSyntaxes {
		proposals = append(proposals, pdu.PresentationContextRQ{
			ID:               byte(2*i + 1), // context IDs are odd per spec.md §4.6.2
			AbstractSyntax:   syntax,
			TransferSyntaxes: cfg.PreferredTransferSyntaxes,
		})
	}

	dulCfg := dul.Config{
		LocalAETitle:                cfg.CallingAETitle,
		SupportedAbstractSyntaxes:   cfg.AbstractSyntaxes,
		SupportedTransferSyntaxes:   cfg.PreferredTransferSyntaxes,
		LocalMaxPDULength:           cfg.MaxPDULength,
		LocalImplementationClassUID: cfg.ImplementationClassUID,
		LocalImplementationVersionName: cfg.ImplementationVersionName,
	}

	assoc, err := dul.Open(conn, dulCfg, cfg.CallingAETitle, cfg.CalledAETitle, proposals)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("client: association rejected: %w", err)
	}

	return &Association{assoc: assoc, logger: cfg.Logger}, nil
}

// contextFor returns the accepted presentation context proposing
// abstractSyntax, or false if none was accepted.
func (a *Association) contextFor(abstractSyntax string) (dul.PresentationContext, bool) {
	for _, pc := range a.assoc.PresentationContexts() {
		if pc.AbstractSyntax == abstractSyntax {
			return pc, true
		}
	}
	return dul.PresentationContext{}, false
}

// Echo issues a C-ECHO-RQ on the Verification presentation context and
// returns the peer's reported status.
func (a *Association) Echo() (dimse.Status, error) {
	pc, ok := a.contextFor(uidreg.VerificationSOPClass)
	if !ok {
		return dimse.Status{}, fmt.Errorf("client: no accepted presentation context for Verification SOP class")
	}

	rq := &dimse.CEchoRQ{MessageID: a.nextMessageID(), AffectedSOPClassUID: uidreg.VerificationSOPClass}
	if err := a.assoc.Send(pc.ID, rq.Encode(), nil); err != nil {
		return dimse.Status{}, err
	}

	msg, err := a.assoc.ReadMessage()
	if err != nil {
		return dimse.Status{}, err
	}
	cs, err := dimse.DecodeCommandSet(msg.Data)
	if err != nil {
		return dimse.Status{}, err
	}
	rsp, err := dimse.ParseCEchoRSP(cs)
	if err != nil {
		return dimse.Status{}, err
	}
	if rsp.Status.IsFailure() {
		return rsp.Status, dicomerrors.NewDIMSEError("C-ECHO", rsp.Status.Code, rsp.Status.Class.String())
	}
	return rsp.Status, nil
}

// Store issues a C-STORE-RQ for ds on the presentation context accepted
// for sopClassUID, encoding ds under that context's negotiated transfer
// syntax, and returns the peer's reported status.
func (a *Association) Store(sopClassUID, sopInstanceUID string, ds *dicom.DataSet, priority uint16) (dimse.Status, error) {
	pc, ok := a.contextFor(sopClassUID)
	if !ok {
		return dimse.Status{}, fmt.Errorf("client: no accepted presentation context for %s", sopClassUID)
	}

	rq := &dimse.CStoreRQ{
		MessageID:              a.nextMessageID(),
		AffectedSOPClassUID:    sopClassUID,
		AffectedSOPInstanceUID: sopInstanceUID,
		Priority:               priority,
	}

	datasetBytes := dicom.WriteDataSet(ds)
	if err := a.assoc.Send(pc.ID, rq.Encode(), datasetBytes); err != nil {
		return dimse.Status{}, err
	}

	msg, err := a.assoc.ReadMessage()
	if err != nil {
		return dimse.Status{}, err
	}
	cs, err := dimse.DecodeCommandSet(msg.Data)
	if err != nil {
		return dimse.Status{}, err
	}
	rsp, err := dimse.ParseCStoreRSP(cs)
	if err != nil {
		return dimse.Status{}, err
	}
	if rsp.Status.IsFailure() {
		return rsp.Status, dicomerrors.NewDIMSEError("C-STORE", rsp.Status.Code, rsp.Status.Class.String())
	}
	return rsp.Status, nil
}

// Release performs a normal association release.
func (a *Association) Release() error { return a.assoc.Release() }

// Close closes the underlying transport without a release handshake.
func (a *Association) Close() error { return a.assoc.Close() }
