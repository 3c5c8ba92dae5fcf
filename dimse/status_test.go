package dimse_test

import (
	"testing"

	"github.com/oceanus-health/dicomcore/dimse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyStatus_AllDefinedCodesRoundTrip(t *testing.T) {
	for code := 0; code <= 0xFFFF; code++ {
		status, err := dimse.ClassifyStatus(uint16(code))
		if err != nil {
			continue
		}
		assert.Equal(t, uint16(code), status.Code)
	}
}

func TestClassifyStatus_InvalidCode(t *testing.T) {
	_, err := dimse.ClassifyStatus(0x0500)
	assert.Error(t, err)
}

func TestClassifyStatus_NamedCases(t *testing.T) {
	success, err := dimse.ClassifyStatus(0x0000)
	require.NoError(t, err)
	assert.True(t, success.IsSuccess())

	invalidInstance, err := dimse.ClassifyStatus(0x0117)
	require.NoError(t, err)
	assert.True(t, invalidInstance.IsFailure())
	assert.Equal(t, dimse.FailureInvalidSopInstance, invalidInstance.Failure)

	notSupported, err := dimse.ClassifyStatus(0x0122)
	require.NoError(t, err)
	assert.Equal(t, dimse.FailureSopClassNotSupported, notSupported.Failure)

	warning, err := dimse.ClassifyStatus(0x0001)
	require.NoError(t, err)
	assert.True(t, warning.IsWarning())

	warningRange, err := dimse.ClassifyStatus(0xB001)
	require.NoError(t, err)
	assert.True(t, warningRange.IsWarning())

	outOfResources, err := dimse.ClassifyStatus(0xA701)
	require.NoError(t, err)
	assert.Equal(t, dimse.FailureOutOfResources, outOfResources.Failure)

	mismatch, err := dimse.ClassifyStatus(0xA901)
	require.NoError(t, err)
	assert.Equal(t, dimse.FailureDataSetMismatch, mismatch.Failure)

	cannotUnderstand, err := dimse.ClassifyStatus(0xC123)
	require.NoError(t, err)
	assert.Equal(t, dimse.FailureCannotUnderstand, cannotUnderstand.Failure)

	other, err := dimse.ClassifyStatus(0x0150)
	require.NoError(t, err)
	assert.Equal(t, dimse.FailureOther, other.Failure)
}
