package pdu_test

import (
	"testing"

	"github.com/oceanus-health/dicomcore/pdu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAAbort_RoundTrip(t *testing.T) {
	a := &pdu.AAbort{Source: pdu.AbortSourceServiceProvider, Reason: pdu.AbortReasonUnexpectedPDU}
	decoded, err := pdu.DecodeAbort(a.Encode())
	require.NoError(t, err)
	assert.Equal(t, a, decoded)
	assert.Equal(t, byte(pdu.TypeAbort), a.PDUType())
}

func TestAAbort_WrongLengthFails(t *testing.T) {
	_, err := pdu.DecodeAbort([]byte{0, 0, 0})
	assert.Error(t, err)
}
