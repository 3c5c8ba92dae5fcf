package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/oceanus-health/dicomcore/dul"
	"github.com/oceanus-health/dicomcore/service"
)

// Option configures a Server instance.
type Option func(*Server)

// WithLogger overrides the logger used by the server.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// WithReadTimeout sets the read timeout for client connections.
func WithReadTimeout(timeout time.Duration) Option {
	return func(s *Server) {
		s.ReadTimeout = timeout
	}
}

// WithWriteTimeout sets the write timeout for client connections.
func WithWriteTimeout(timeout time.Duration) Option {
	return func(s *Server) {
		s.WriteTimeout = timeout
	}
}

// WithAcceptPredicate restricts which calling AE titles may associate.
func WithAcceptPredicate(predicate func(callingAE, calledAE string) bool) Option {
	return func(s *Server) {
		s.AcceptPredicate = predicate
	}
}

// WithAbstractSyntaxes overrides the SOP classes the server accepts
// presentation contexts for. Default: Verification only.
func WithAbstractSyntaxes(uids ...string) Option {
	return func(s *Server) {
		s.AbstractSyntaxes = uids
	}
}

// WithTransferSyntaxes overrides the server's transfer syntax preference
// order used during presentation context negotiation. Default: Explicit VR
// Little Endian, then Implicit VR Little Endian.
func WithTransferSyntaxes(uids ...string) Option {
	return func(s *Server) {
		s.TransferSyntaxes = uids
	}
}

// Server exposes a reusable DICOM listener: it performs the A-ASSOCIATE
// handshake via dul.Accept and, once established, serves DIMSE requests on
// the association with a service.Dispatcher wrapping Sink.
type Server struct {
	AETitle                 string
	Sink                     service.ObjectSink
	AbstractSyntaxes         []string
	TransferSyntaxes         []string
	ImplementationClassUID   string
	ImplementationVersionName string
	MaxPDULength             uint32
	AcceptPredicate          func(callingAE, calledAE string) bool

	Logger       *slog.Logger
	ReadTimeout  time.Duration // Read timeout for connections (default: 60s)
	WriteTimeout time.Duration // Write timeout for connections (default: 60s)
}

// New builds a Server with the provided AE title and sink.
func New(aeTitle string, sink service.ObjectSink, opts ...Option) *Server {
	srv := &Server{AETitle: aeTitle, Sink: sink, ReadTimeout: 60 * time.Second, WriteTimeout: 60 * time.Second}
	for _, opt := range opts {
		opt(srv)
	}
	return srv
}

// ListenAndServe listens on the given address and serves until the context is done or an error occurs.
func ListenAndServe(ctx context.Context, address, aeTitle string, sink service.ObjectSink, opts ...Option) error {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return err
	}
	defer listener.Close()

	srv := New(aeTitle, sink, opts...)
	return srv.Serve(ctx, listener)
}

func (s *Server) dulConfig() dul.Config {
	abstractSyntaxes := s.AbstractSyntaxes
	if len(abstractSyntaxes) == 0 {
		abstractSyntaxes = []string{"1.2.840.10008.1.1"}
	}
	transferSyntaxes := s.TransferSyntaxes
	if len(transferSyntaxes) == 0 {
		transferSyntaxes = []string{"1.2.840.10008.1.2.1", "1.2.840.10008.1.2"}
	}
	implClassUID := s.ImplementationClassUID
	if implClassUID == "" {
		implClassUID = "1.2.826.0.1.3680043.9.7743.1.1"
	}
	maxPDU := s.MaxPDULength
	if maxPDU == 0 {
		maxPDU = 16384
	}
	return dul.Config{
		LocalAETitle:                   s.AETitle,
		SupportedAbstractSyntaxes:      abstractSyntaxes,
		SupportedTransferSyntaxes:      transferSyntaxes,
		LocalMaxPDULength:              maxPDU,
		LocalImplementationClassUID:    implClassUID,
		LocalImplementationVersionName: s.ImplementationVersionName,
		AssociationAcceptPredicate:     s.AcceptPredicate,
	}
}

// Serve accepts connections from listener until ctx is cancelled or an unrecoverable error occurs.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	if listener == nil {
		return errors.New("dicomserver: listener is required")
	}
	if s == nil {
		return errors.New("dicomserver: server is nil")
	}
	if s.Sink == nil {
		return errors.New("dicomserver: sink is required")
	}
	if s.AETitle == "" {
		return errors.New("dicomserver: AE title is required")
	}

	logger := s.logger()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		<-ctx.Done()
		_ = listener.Close()
	}()

	logger.Info("DICOM server listening",
		"address", listener.Addr().String(),
		"ae_title", s.AETitle)

	var (
		wg       sync.WaitGroup
		serveErr error
	)

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				break
			}
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				logger.Warn("Accept timeout", "error", err)
				continue
			}
			serveErr = err
			break
		}

		wg.Add(1)
		go func(c net.Conn) {
			defer wg.Done()
			s.handleConnection(ctx, c, logger)
		}(conn)
	}

	wg.Wait()

	if serveErr != nil {
		return serveErr
	}

	return ctx.Err()
}

func (s *Server) handleConnection(ctx context.Context, conn net.Conn, logger *slog.Logger) {
	logger.Info("Accepted DICOM connection",
		"remote_addr", conn.RemoteAddr())
	defer conn.Close()

	if s.ReadTimeout > 0 {
		if err := conn.SetReadDeadline(time.Now().Add(s.ReadTimeout)); err != nil {
			logger.Warn("Failed to set read deadline", "error", err)
		}
	}
	if s.WriteTimeout > 0 {
		if err := conn.SetWriteDeadline(time.Now().Add(s.WriteTimeout)); err != nil {
			logger.Warn("Failed to set write deadline", "error", err)
		}
	}

	assoc, err := dul.Accept(conn, s.dulConfig())
	if err != nil {
		logger.Warn("Association rejected", "error", err, "remote_addr", conn.RemoteAddr())
		return
	}
	defer assoc.Close()

	logger.Info("Association established",
		"remote_addr", conn.RemoteAddr(),
		"calling_ae", assoc.Info().CallingAETitle,
		"correlation_id", assoc.Info().CorrelationID)

	dispatcher := &service.Dispatcher{Sink: s.Sink, Logger: logger}
	if err := dispatcher.Serve(assoc); err != nil && ctx.Err() == nil {
		logger.Warn("DIMSE connection ended",
			"error", err,
			"remote_addr", conn.RemoteAddr())
	} else {
		logger.Info("DIMSE connection closed",
			"remote_addr", conn.RemoteAddr())
	}
}

func (s *Server) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
