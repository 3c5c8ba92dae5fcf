package dul

import (
	"fmt"
	"net"

	dicomerrors "github.com/oceanus-health/dicomcore/errors"
	"github.com/oceanus-health/dicomcore/pdu"
	"github.com/google/uuid"
)

const applicationContextUID = "1.2.840.10008.3.1.1.1"

// pduOverhead is the byte cost of one PDV inside a P-DATA-TF PDU: the
// outer 6-byte PDU header plus the 4-byte PDV length field and 2-byte
// context-id/control-header pair, all counted against the peer's declared
// Maximum Length.
const pduOverhead = 12

// PresentationContext is one negotiated presentation context: an accepted
// abstract/transfer syntax pairing, keyed by the context ID it was
// proposed and accepted under.
type PresentationContext struct {
	ID             byte
	AbstractSyntax string
	TransferSyntax string
}

// AssociationInfo describes an established association, passed down to an
// ObjectSink so it can see who it's talking to, per spec.md §6.
type AssociationInfo struct {
	CallingAETitle   string
	CalledAETitle    string
	PeerMaxPDULength uint32
	CorrelationID    uuid.UUID
}

// ReassemblyKind identifies which of the two per-message streams a
// Reassembled value carries.
type ReassemblyKind int

const (
	ReassembledCommand ReassemblyKind = iota
	ReassembledDataset
)

// Reassembled is one complete command or dataset buffer, reassembled from
// however many PDVs it took to carry it, per spec.md §4.8.
type Reassembled struct {
	ContextID byte
	Kind      ReassemblyKind
	Data      []byte
}

// Association is one DICOM Upper Layer association: the state machine of
// spec.md §4.7 plus the P-DATA reassembly/fragmentation layer of §4.8,
// layered over a single net.Conn. An Association is not safe for
// concurrent use — per spec.md §5 exactly one goroutine owns the socket,
// the reassembly buffers, and the state machine at a time.
type Association struct {
	conn  net.Conn
	cfg   Config
	state State
	info  AssociationInfo

	acceptedByID map[byte]PresentationContext

	commandBuf map[byte][]byte
	datasetBuf map[byte][]byte
}

// State reports the association's current state machine node.
func (a *Association) State() State { return a.state }

// Info describes the peer and negotiated limits for this association.
func (a *Association) Info() AssociationInfo { return a.info }

// PresentationContexts returns the accepted contexts, keyed by context ID.
func (a *Association) PresentationContexts() map[byte]PresentationContext {
	return a.acceptedByID
}

func newAssociation(conn net.Conn, cfg Config) *Association {
	return &Association{
		conn:         conn,
		cfg:          cfg,
		state:        StateIdle,
		acceptedByID: map[byte]PresentationContext{},
		commandBuf:   map[byte][]byte{},
		datasetBuf:   map[byte][]byte{},
	}
}

// Accept performs the SCP side of the association handshake: TCP has
// already been accepted by the caller (conn is connected), so this reads
// one A-ASSOCIATE-RQ, evaluates it against cfg, and replies with an AC or
// RJ, per spec.md §4.7's Idle -> Awaiting-A-Associate -> Associated/Idle
// transition.
func Accept(conn net.Conn, cfg Config) (*Association, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := newAssociation(conn, cfg)
	a.state = StateAwaitingAssociate

	frame, err := pdu.ReadFrame(conn)
	if err != nil {
		a.state = StateAborted
		return nil, fmt.Errorf("dul: failed to read associate request: %w", err)
	}
	if frame.Type != pdu.TypeAssociateRQ {
		a.abort(dicomerrors.NewUnexpectedPduError(frame.Type, a.state.String()))
		return nil, dicomerrors.NewUnexpectedPduError(frame.Type, a.state.String())
	}

	rq, err := pdu.DecodeAssociateRQ(frame.Data)
	if err != nil {
		a.abortProvider(err)
		return nil, err
	}

	if cfg.AssociationAcceptPredicate != nil && !cfg.AssociationAcceptPredicate(rq.CallingAETitle, rq.CalledAETitle) {
		rj := &pdu.AAssociateRJ{
			Result: pdu.RejectResultPermanent,
			Source: pdu.RejectSourceServiceUser,
			Reason: 3, // calling-AE-title-not-recognized
		}
		_ = pdu.WriteFrame(conn, &pdu.Frame{Type: pdu.TypeAssociateRJ, Data: rj.Encode()})
		a.state = StateIdle
		return nil, dicomerrors.NewAssociationError(dicomerrors.RejectSourceServiceUser, dicomerrors.RejectReasonCallingAETitleNotRecognized, "association rejected by accept predicate")
	}

	contexts := NegotiatePresentationContexts(cfg, rq.PresentationContexts)

	peerMaxLen := rq.UserInformation.MaxPDULength
	ac := &pdu.AAssociateAC{
		ProtocolVersion:       1,
		CalledAETitle:         rq.CalledAETitle,
		CallingAETitle:        rq.CallingAETitle,
		ApplicationContextUID: applicationContextUID,
		PresentationContexts:  contexts,
		UserInformation: pdu.UserInformation{
			MaxPDULength:              cfg.LocalMaxPDULength,
			ImplementationClassUID:    cfg.LocalImplementationClassUID,
			ImplementationVersionName: cfg.LocalImplementationVersionName,
		},
	}
	if err := pdu.WriteFrame(conn, &pdu.Frame{Type: pdu.TypeAssociateAC, Data: ac.Encode()}); err != nil {
		a.state = StateAborted
		return nil, fmt.Errorf("dul: failed to write associate accept: %w", err)
	}

	for i, pc := range contexts {
		if pc.Result == pdu.ResultAcceptance {
			a.acceptedByID[pc.ID] = PresentationContext{
				ID:             pc.ID,
				AbstractSyntax: rq.PresentationContexts[i].AbstractSyntax,
				TransferSyntax: pc.TransferSyntax,
			}
		}
	}

	a.info = AssociationInfo{
		CallingAETitle:   rq.CallingAETitle,
		CalledAETitle:    rq.CalledAETitle,
		PeerMaxPDULength: peerMaxLen,
		CorrelationID:    uuid.New(),
	}
	a.state = StateAssociated
	return a, nil
}

// Open performs the SCU side of the association handshake: sends an
// A-ASSOCIATE-RQ proposing contexts, and waits for the SCP's AC or RJ.
func Open(conn net.Conn, cfg Config, callingAE, calledAE string, proposals []pdu.PresentationContextRQ) (*Association, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := newAssociation(conn, cfg)
	a.state = StateAwaitingAssociate

	rq := &pdu.AAssociateRQ{
		ProtocolVersion:       1,
		CalledAETitle:         calledAE,
		CallingAETitle:        callingAE,
		ApplicationContextUID: applicationContextUID,
		PresentationContexts:  proposals,
		UserInformation: pdu.UserInformation{
			MaxPDULength:              cfg.LocalMaxPDULength,
			ImplementationClassUID:    cfg.LocalImplementationClassUID,
			ImplementationVersionName: cfg.LocalImplementationVersionName,
		},
	}
	if err := pdu.WriteFrame(conn, &pdu.Frame{Type: pdu.TypeAssociateRQ, Data: rq.Encode()}); err != nil {
		return nil, fmt.Errorf("dul: failed to write associate request: %w", err)
	}

	frame, err := pdu.ReadFrame(conn)
	if err != nil {
		a.state = StateAborted
		return nil, fmt.Errorf("dul: failed to read associate reply: %w", err)
	}

	switch frame.Type {
	case pdu.TypeAssociateAC:
		ac, err := pdu.DecodeAssociateAC(frame.Data)
		if err != nil {
			return nil, err
		}
		for _, pc := range ac.PresentationContexts {
			if pc.Result != pdu.ResultAcceptance {
				continue
			}
			var abstractSyntax string
			for _, p := range proposals {
				if p.ID == pc.ID {
					abstractSyntax = p.AbstractSyntax
					break
				}
			}
			a.acceptedByID[pc.ID] = PresentationContext{ID: pc.ID, AbstractSyntax: abstractSyntax, TransferSyntax: pc.TransferSyntax}
		}
		a.info = AssociationInfo{
			CallingAETitle:   callingAE,
			CalledAETitle:    calledAE,
			PeerMaxPDULength: ac.UserInformation.MaxPDULength,
			CorrelationID:    uuid.New(),
		}
		a.state = StateAssociated
		return a, nil

	case pdu.TypeAssociateRJ:
		rj, err := pdu.DecodeAssociateRJ(frame.Data)
		if err != nil {
			return nil, err
		}
		a.state = StateIdle
		return nil, dicomerrors.NewAssociationError(
			dicomerrors.AssociationRejectSource(rj.Source),
			dicomerrors.AssociationRejectReason(rj.Reason),
			rj.ReasonDescription(),
		)
	default:
		a.abort(dicomerrors.NewUnexpectedPduError(frame.Type, a.state.String()))
		return nil, dicomerrors.NewUnexpectedPduError(frame.Type, a.state.String())
	}
}

// abort sends an A-ABORT (service-provider, reason per err's kind) and
// transitions to Aborted. It does not close the connection — callers
// should follow up with Close.
func (a *Association) abort(err error) {
	a.abortProvider(err)
}

func (a *Association) abortProvider(err error) {
	ab := &pdu.AAbort{Source: pdu.AbortSourceServiceProvider, Reason: reasonForError(err)}
	_ = pdu.WriteFrame(a.conn, &pdu.Frame{Type: pdu.TypeAbort, Data: ab.Encode()})
	a.state = StateAborted
}

func reasonForError(err error) byte {
	switch err.(type) {
	case *dicomerrors.UnrecognizedPduError:
		return pdu.AbortReasonUnrecognizedPDU
	case *dicomerrors.UnexpectedPduError:
		return pdu.AbortReasonUnexpectedPDU
	case *dicomerrors.InvalidPduParameterValueError:
		return pdu.AbortReasonInvalidPDUParameterValue
	default:
		return pdu.AbortReasonNotSpecified
	}
}

// ReadMessage blocks until one complete command or dataset buffer has been
// reassembled on some accepted context, or the association ends.
//
// It handles A-RELEASE-RQ (SCP side: replies A-RELEASE-RP, returns
// io.EOF-equivalent ErrReleased) and A-ABORT (returns an *errors.AbortError)
// transparently; callers never see raw PDU frames. PDU-level decode errors
// and unexpected PDUs trigger an A-ABORT and are returned to the caller,
// per spec.md §4.7/§7.
func (a *Association) ReadMessage() (*Reassembled, error) {
	for {
		frame, err := pdu.ReadFrame(a.conn)
		if err != nil {
			a.state = StateAborted
			return nil, fmt.Errorf("dul: failed to read PDU: %w", err)
		}

		switch frame.Type {
		case pdu.TypePDataTF:
			pdata, err := pdu.DecodePDataTF(frame.Data)
			if err != nil {
				a.abort(err)
				return nil, err
			}
			if r := a.absorbPDVs(pdata); r != nil {
				return r, nil
			}

		case pdu.TypeReleaseRQ:
			if _, err := pdu.DecodeReleaseRQ(frame.Data); err != nil {
				a.abort(err)
				return nil, err
			}
			rp := &pdu.AReleaseRP{}
			if err := pdu.WriteFrame(a.conn, &pdu.Frame{Type: pdu.TypeReleaseRP, Data: rp.Encode()}); err != nil {
				a.state = StateAborted
				return nil, err
			}
			a.state = StateReleased
			return nil, ErrReleased

		case pdu.TypeAbort:
			ab, err := pdu.DecodeAbort(frame.Data)
			if err != nil {
				a.state = StateAborted
				return nil, err
			}
			a.state = StateAborted
			return nil, dicomerrors.NewAbortError(ab.Source, ab.Reason)

		default:
			err := dicomerrors.NewUnexpectedPduError(frame.Type, a.state.String())
			a.abort(err)
			return nil, err
		}
	}
}

// absorbPDVs appends each PDV's payload to its context+stream buffer and
// returns a Reassembled as soon as any stream's is_last PDV arrives. Only
// one PDV in a PDataTF is expected to complete a stream in this
// implementation's send path, but decode handles multiple defensively.
func (a *Association) absorbPDVs(pdata *pdu.PDataTF) *Reassembled {
	var completed *Reassembled
	for _, v := range pdata.PDVs {
		buf := a.commandBuf
		kind := ReassembledCommand
		if !v.IsCommand {
			buf = a.datasetBuf
			kind = ReassembledDataset
		}
		buf[v.PresentationContextID] = append(buf[v.PresentationContextID], v.Data...)
		if v.IsLast {
			data := buf[v.PresentationContextID]
			delete(buf, v.PresentationContextID)
			if completed == nil {
				completed = &Reassembled{ContextID: v.PresentationContextID, Kind: kind, Data: data}
			}
		}
	}
	return completed
}

// Send transmits command on contextID, fragmented into PDVs, followed by
// dataset (if non-nil) as a second stream, per spec.md §4.8 ("within one
// message, command PDVs precede dataset PDVs").
func (a *Association) Send(contextID byte, command, dataset []byte) error {
	if err := a.sendStream(contextID, command, true); err != nil {
		return err
	}
	if dataset != nil {
		if err := a.sendStream(contextID, dataset, false); err != nil {
			return err
		}
	}
	return nil
}

func (a *Association) sendStream(contextID byte, data []byte, isCommand bool) error {
	maxPayload := a.maxPDVPayload()
	if len(data) == 0 {
		pdata := &pdu.PDataTF{PDVs: []pdu.PDV{{PresentationContextID: contextID, IsCommand: isCommand, IsLast: true, Data: nil}}}
		return pdu.WriteFrame(a.conn, &pdu.Frame{Type: pdu.TypePDataTF, Data: pdata.Encode()})
	}

	for offset := 0; offset < len(data); {
		end := offset + maxPayload
		last := end >= len(data)
		if last {
			end = len(data)
		}
		pdata := &pdu.PDataTF{PDVs: []pdu.PDV{{
			PresentationContextID: contextID,
			IsCommand:              isCommand,
			IsLast:                 last,
			Data:                   data[offset:end],
		}}}
		if err := pdu.WriteFrame(a.conn, &pdu.Frame{Type: pdu.TypePDataTF, Data: pdata.Encode()}); err != nil {
			a.state = StateAborted
			return fmt.Errorf("dul: failed to write P-DATA-TF: %w", err)
		}
		offset = end
	}
	return nil
}

// defaultMaxPDVPayload bounds fragmentation when the peer declared an
// unlimited (0) Maximum Length.
const defaultMaxPDVPayload = 16384

func (a *Association) maxPDVPayload() int {
	if a.info.PeerMaxPDULength == 0 {
		return defaultMaxPDVPayload
	}
	n := int(a.info.PeerMaxPDULength) - pduOverhead
	if n < 1 {
		n = 1
	}
	return n
}

// Release performs the SCU-initiated association release: A-RELEASE-RQ,
// wait for A-RELEASE-RP, per spec.md §4.7's Associated ->
// Awaiting-Release-Response -> Released transition.
func (a *Association) Release() error {
	a.state = StateAwaitingReleaseResponse
	rq := &pdu.AReleaseRQ{}
	if err := pdu.WriteFrame(a.conn, &pdu.Frame{Type: pdu.TypeReleaseRQ, Data: rq.Encode()}); err != nil {
		a.state = StateAborted
		return err
	}

	frame, err := pdu.ReadFrame(a.conn)
	if err != nil {
		a.state = StateAborted
		return err
	}
	if frame.Type != pdu.TypeReleaseRP {
		err := dicomerrors.NewUnexpectedPduError(frame.Type, a.state.String())
		a.abort(err)
		return err
	}
	if _, err := pdu.DecodeReleaseRP(frame.Data); err != nil {
		return err
	}
	a.state = StateReleased
	return nil
}

// Close closes the underlying transport. It is always safe to call,
// including after Release or an aborted ReadMessage/Send.
func (a *Association) Close() error {
	return a.conn.Close()
}
