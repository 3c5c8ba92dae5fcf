package vr_test

import (
	"testing"

	"github.com/oceanus-health/dicomcore/vr"
	"github.com/stretchr/testify/assert"
)

func TestVR_Valid(t *testing.T) {
	tests := []struct {
		name     string
		v        vr.VR
		expected bool
	}{
		{"valid AE", vr.AE, true},
		{"valid SQ", vr.SQ, true},
		{"valid UN", vr.UN, true},
		{"invalid XX", vr.VR("XX"), false},
		{"empty string", vr.VR(""), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.v.Valid())
		})
	}
}

func TestVR_LengthClass(t *testing.T) {
	assert.True(t, vr.CS.IsShortLength())
	assert.False(t, vr.CS.IsLongLength())
	assert.True(t, vr.OB.IsLongLength())
	assert.False(t, vr.OB.IsShortLength())
}

func TestVR_Parse(t *testing.T) {
	v, err := vr.Parse([2]byte{'P', 'N'})
	assert.NoError(t, err)
	assert.Equal(t, vr.PN, v)

	_, err = vr.Parse([2]byte{'Z', 'Z'})
	assert.Error(t, err)
	var unknown *vr.ErrUnknownVR
	assert.ErrorAs(t, err, &unknown)
}

func TestVR_MultiValued(t *testing.T) {
	assert.True(t, vr.CS.MultiValued())
	assert.True(t, vr.UI.MultiValued())
	assert.False(t, vr.UR.MultiValued())
	assert.False(t, vr.OB.MultiValued())
}
