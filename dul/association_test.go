package dul_test

import (
	"net"
	"testing"

	"github.com/oceanus-health/dicomcore/dul"
	"github.com/oceanus-health/dicomcore/pdu"
	"github.com/oceanus-health/dicomcore/uidreg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scpConfig(maxLen uint32) dul.Config {
	return dul.Config{
		LocalAETitle:                "STORESCP",
		SupportedAbstractSyntaxes:   []string{uidreg.VerificationSOPClass, "1.2.840.10008.5.1.4.1.1.4"},
		SupportedTransferSyntaxes:   []string{uidreg.ExplicitVRLittleEndian, uidreg.ImplicitVRLittleEndian},
		LocalMaxPDULength:           maxLen,
		LocalImplementationClassUID: "1.2.826.0.1.3680043.9.0001",
	}
}

func scuConfig(maxLen uint32) dul.Config {
	return dul.Config{
		LocalAETitle:                "STORESCU",
		SupportedAbstractSyntaxes:   []string{uidreg.VerificationSOPClass, "1.2.840.10008.5.1.4.1.1.4"},
		SupportedTransferSyntaxes:   []string{uidreg.ImplicitVRLittleEndian, uidreg.ExplicitVRLittleEndian},
		LocalMaxPDULength:           maxLen,
		LocalImplementationClassUID: "1.2.826.0.1.3680043.9.0002",
	}
}

func handshake(t *testing.T, client, server net.Conn, scuCfg, scpCfg dul.Config) (*dul.Association, *dul.Association) {
	t.Helper()

	proposals := []pdu.PresentationContextRQ{
		{ID: 1, AbstractSyntax: "1.2.840.10008.5.1.4.1.1.4", TransferSyntaxes: []string{uidreg.ImplicitVRLittleEndian, uidreg.ExplicitVRLittleEndian}},
	}

	type acceptResult struct {
		assoc *dul.Association
		err   error
	}
	serverCh := make(chan acceptResult, 1)
	go func() {
		assoc, err := dul.Accept(server, scpCfg)
		serverCh <- acceptResult{assoc, err}
	}()

	clientAssoc, err := dul.Open(client, scuCfg, "STORESCU", "STORESCP", proposals)
	require.NoError(t, err)

	result := <-serverCh
	require.NoError(t, result.err)

	return clientAssoc, result.assoc
}

func TestAssociation_OpenAccept_NegotiatesExplicitVRLE(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	clientAssoc, serverAssoc := handshake(t, client, server, scuConfig(16384), scpConfig(16384))

	assert.Equal(t, dul.StateAssociated, clientAssoc.State())
	assert.Equal(t, dul.StateAssociated, serverAssoc.State())

	pc, ok := serverAssoc.PresentationContexts()[1]
	require.True(t, ok)
	assert.Equal(t, uidreg.ExplicitVRLittleEndian, pc.TransferSyntax)
}

func TestAssociation_SendReceive_FragmentsLargeDataset(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	clientAssoc, serverAssoc := handshake(t, client, server, scuConfig(4096), scpConfig(4096))

	payload := make([]byte, 10000)
	for i := range payload {
		payload[i] = byte(i % 251)
	}

	go func() {
		_ = clientAssoc.Send(1, []byte{0xAA, 0xBB}, payload)
	}()

	command, err := serverAssoc.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, dul.ReassembledCommand, command.Kind)
	assert.Equal(t, []byte{0xAA, 0xBB}, command.Data)

	dataset, err := serverAssoc.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, dul.ReassembledDataset, dataset.Kind)
	assert.Equal(t, payload, dataset.Data)
}

func TestAssociation_Release(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	clientAssoc, serverAssoc := handshake(t, client, server, scuConfig(16384), scpConfig(16384))

	releaseErr := make(chan error, 1)
	go func() {
		releaseErr <- clientAssoc.Release()
	}()

	_, err := serverAssoc.ReadMessage()
	assert.ErrorIs(t, err, dul.ErrReleased)
	assert.Equal(t, dul.StateReleased, serverAssoc.State())

	require.NoError(t, <-releaseErr)
	assert.Equal(t, dul.StateReleased, clientAssoc.State())
}

func TestAssociation_AcceptPredicateRejects(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	scpCfg := scpConfig(16384)
	scpCfg.AssociationAcceptPredicate = func(callingAE, calledAE string) bool { return false }

	proposals := []pdu.PresentationContextRQ{
		{ID: 1, AbstractSyntax: uidreg.VerificationSOPClass, TransferSyntaxes: []string{uidreg.ImplicitVRLittleEndian}},
	}

	type acceptResult struct {
		assoc *dul.Association
		err   error
	}
	serverCh := make(chan acceptResult, 1)
	go func() {
		assoc, err := dul.Accept(server, scpCfg)
		serverCh <- acceptResult{assoc, err}
	}()

	_, err := dul.Open(client, scuConfig(16384), "STORESCU", "STORESCP", proposals)
	assert.Error(t, err)

	result := <-serverCh
	assert.Error(t, result.err)
	assert.Nil(t, result.assoc)
}
