package pdu_test

import (
	"testing"

	dicomerrors "github.com/oceanus-health/dicomcore/errors"
	"github.com/oceanus-health/dicomcore/pdu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRQ() *pdu.AAssociateRQ {
	return &pdu.AAssociateRQ{
		ProtocolVersion:       1,
		CalledAETitle:         "STORESCP",
		CallingAETitle:        "STORESCU",
		ApplicationContextUID: "1.2.840.10008.3.1.1.1",
		PresentationContexts: []pdu.PresentationContextRQ{
			{
				ID:               1,
				AbstractSyntax:   "1.2.840.10008.1.1",
				TransferSyntaxes: []string{"1.2.840.10008.1.2", "1.2.840.10008.1.2.1"},
			},
		},
		UserInformation: pdu.UserInformation{
			MaxPDULength:              16384,
			ImplementationClassUID:    "1.2.3.4.5.6.7.8.9",
			ImplementationVersionName: "OCEANUS_1_0",
		},
	}
}

func TestAAssociateRQ_RoundTrip(t *testing.T) {
	rq := sampleRQ()
	encoded := rq.Encode()

	decoded, err := pdu.DecodeAssociateRQ(encoded)
	require.NoError(t, err)

	assert.Equal(t, rq.ProtocolVersion, decoded.ProtocolVersion)
	assert.Equal(t, rq.CalledAETitle, decoded.CalledAETitle)
	assert.Equal(t, rq.CallingAETitle, decoded.CallingAETitle)
	assert.Equal(t, rq.ApplicationContextUID, decoded.ApplicationContextUID)
	require.Len(t, decoded.PresentationContexts, 1)
	assert.Equal(t, rq.PresentationContexts[0].AbstractSyntax, decoded.PresentationContexts[0].AbstractSyntax)
	assert.Equal(t, rq.PresentationContexts[0].TransferSyntaxes, decoded.PresentationContexts[0].TransferSyntaxes)
	assert.Equal(t, rq.UserInformation.MaxPDULength, decoded.UserInformation.MaxPDULength)
	assert.Equal(t, rq.UserInformation.ImplementationClassUID, decoded.UserInformation.ImplementationClassUID)
}

func TestAAssociateRQ_EvenContextIDRejected(t *testing.T) {
	rq := sampleRQ()
	rq.PresentationContexts[0].ID = 2 // even: invalid
	encoded := rq.Encode()

	_, err := pdu.DecodeAssociateRQ(encoded)
	require.Error(t, err)
	var invalid *dicomerrors.InvalidPduParameterValueError
	require.ErrorAs(t, err, &invalid)
}

func TestAAssociateRQ_ZeroContextIDRejected(t *testing.T) {
	rq := sampleRQ()
	rq.PresentationContexts[0].ID = 0
	encoded := rq.Encode()

	_, err := pdu.DecodeAssociateRQ(encoded)
	assert.Error(t, err)
}

func TestAAssociateRQ_TruncatedFixedFieldsFails(t *testing.T) {
	_, err := pdu.DecodeAssociateRQ(make([]byte, 10))
	assert.Error(t, err)
}

func sampleAC() *pdu.AAssociateAC {
	return &pdu.AAssociateAC{
		ProtocolVersion:       1,
		CalledAETitle:         "STORESCP",
		CallingAETitle:        "STORESCU",
		ApplicationContextUID: "1.2.840.10008.3.1.1.1",
		PresentationContexts: []pdu.PresentationContextAC{
			{ID: 1, Result: pdu.ResultAcceptance, TransferSyntax: "1.2.840.10008.1.2.1"},
			{ID: 3, Result: pdu.ResultTransferSyntaxesNotSupported},
		},
		UserInformation: pdu.UserInformation{
			MaxPDULength:           16384,
			ImplementationClassUID: "1.2.3.4.5.6.7.8.9",
		},
	}
}

func TestAAssociateAC_RoundTrip(t *testing.T) {
	ac := sampleAC()
	encoded := ac.Encode()

	decoded, err := pdu.DecodeAssociateAC(encoded)
	require.NoError(t, err)

	require.Len(t, decoded.PresentationContexts, 2)
	assert.Equal(t, pdu.ResultAcceptance, decoded.PresentationContexts[0].Result)
	assert.Equal(t, "1.2.840.10008.1.2.1", decoded.PresentationContexts[0].TransferSyntax)
	assert.Equal(t, pdu.ResultTransferSyntaxesNotSupported, decoded.PresentationContexts[1].Result)
	assert.Empty(t, decoded.PresentationContexts[1].TransferSyntax)
}

func TestAAssociateAC_AcceptedContextMissingTransferSyntaxFails(t *testing.T) {
	ac := sampleAC()
	ac.PresentationContexts[0].TransferSyntax = ""
	encoded := ac.Encode()

	_, err := pdu.DecodeAssociateAC(encoded)
	assert.Error(t, err)
}

func TestAAssociateAC_InvalidResultCodeFails(t *testing.T) {
	ac := sampleAC()
	ac.PresentationContexts[0].Result = 0x09
	encoded := ac.Encode()

	_, err := pdu.DecodeAssociateAC(encoded)
	assert.Error(t, err)
}

func TestAAssociateRQ_PDUType(t *testing.T) {
	assert.Equal(t, byte(pdu.TypeAssociateRQ), sampleRQ().PDUType())
}

func TestAAssociateAC_PDUType(t *testing.T) {
	assert.Equal(t, byte(pdu.TypeAssociateAC), sampleAC().PDUType())
}
