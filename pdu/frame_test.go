package pdu_test

import (
	"bytes"
	"testing"

	dicomerrors "github.com/oceanus-health/dicomcore/errors"
	"github.com/oceanus-health/dicomcore/pdu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadWriteFrame_RoundTrip(t *testing.T) {
	f := &pdu.Frame{Type: pdu.TypeAbort, Data: []byte{0, 0, 0, 0}}

	var buf bytes.Buffer
	require.NoError(t, pdu.WriteFrame(&buf, f))

	got, err := pdu.ReadFrame(&buf)
	require.NoError(t, err)
	assert.Equal(t, f.Type, got.Type)
	assert.Equal(t, f.Data, got.Data)
}

func TestReadFrame_UnrecognizedType(t *testing.T) {
	raw := []byte{0xFF, 0x00, 0x00, 0x00, 0x00, 0x00}
	_, err := pdu.ReadFrame(bytes.NewReader(raw))
	require.Error(t, err)
	var unrecognized *dicomerrors.UnrecognizedPduError
	require.ErrorAs(t, err, &unrecognized)
	assert.Equal(t, byte(0xFF), unrecognized.PDUType)
}

func TestReadFrame_TruncatedBody(t *testing.T) {
	raw := []byte{pdu.TypeAbort, 0x00, 0x00, 0x00, 0x00, 0x10} // declares 16 bytes, supplies none
	_, err := pdu.ReadFrame(bytes.NewReader(raw))
	assert.Error(t, err)
}

func TestEncodeFrame_LengthMatchesBody(t *testing.T) {
	f := &pdu.Frame{Type: pdu.TypeReleaseRQ, Data: make([]byte, 4)}
	out := pdu.EncodeFrame(f)
	require.Len(t, out, 10)
	assert.Equal(t, byte(0), out[1]) // reserved
	assert.Equal(t, []byte{0, 0, 0, 4}, out[2:6])
}

func TestDecode_DispatchesByType(t *testing.T) {
	f := &pdu.Frame{Type: pdu.TypeReleaseRP, Data: make([]byte, 4)}
	msg, err := pdu.Decode(f)
	require.NoError(t, err)
	_, ok := msg.(*pdu.AReleaseRP)
	assert.True(t, ok)
}
