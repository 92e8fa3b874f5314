package gpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifySurfaceError(t *testing.T) {
	cases := []struct {
		raw         string
		want        error
		recoverable bool
	}{
		{"wgpu: surface texture status Outdated", ErrSurfaceOutdated, true},
		{"Surface LOST", ErrSurfaceLost, true},
		{"get current texture: Timeout", ErrSurfaceTimeout, false},
		{"acquire timed out", ErrSurfaceTimeout, false},
		{"OutOfMemory", ErrOutOfMemory, false},
		{"Validation Error: parent device is lost", ErrDeviceLost, false},
		{"Device LOST: driver reset", ErrDeviceLost, false},
	}
	for _, c := range cases {
		t.Run(c.raw, func(t *testing.T) {
			raw := errors.New(c.raw)
			err := classifySurfaceError(raw)
			require.Error(t, err)
			assert.ErrorIs(t, err, c.want)
			assert.ErrorIs(t, err, raw, "the driver error stays in the chain")
			assert.Equal(t, c.recoverable, IsRecoverable(err))
		})
	}
}

func TestClassifySurfaceError_other(t *testing.T) {
	raw := errors.New("device gone sideways")
	err := classifySurfaceError(raw)
	require.Error(t, err)
	assert.ErrorIs(t, err, raw)
	assert.False(t, IsRecoverable(err))
	for _, s := range []error{ErrSurfaceLost, ErrSurfaceOutdated, ErrSurfaceTimeout, ErrOutOfMemory} {
		assert.NotErrorIs(t, err, s)
	}

	assert.NoError(t, classifySurfaceError(nil))
}

func TestClassifySurfaceError_deviceLossIsNotSurfaceLoss(t *testing.T) {
	err := classifySurfaceError(errors.New("wgpu: Validation Error: parent device is lost"))
	assert.ErrorIs(t, err, ErrDeviceLost)
	assert.NotErrorIs(t, err, ErrSurfaceLost)
	assert.False(t, IsRecoverable(err), "a lost device cannot be fixed by reconfiguring the surface")
}
