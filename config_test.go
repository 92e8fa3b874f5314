package raysphere

import (
	"bytes"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags_defaults(t *testing.T) {
	cfg, err := ParseFlags(nil, nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, 800, cfg.TextureWidth)
	assert.Equal(t, 600, cfg.TextureHeight)
	assert.Equal(t, float32(1), cfg.SphereRadius)
	assert.Equal(t, PresentModeFifo, cfg.PresentMode)
}

func TestParseFlags_overrides(t *testing.T) {
	cfg, err := ParseFlags([]string{
		"-width", "1024",
		"-height", "0",
		"-title", "",
		"-center", "0.5, -1,2",
		"-radius", "0.25",
		"-present-mode", "mailbox",
		"-debug",
		"-screenshot", "out.png",
		"-exit-after-screenshot",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, 1024, cfg.Width)
	assert.Equal(t, DefaultHeight, cfg.Height, "non-positive height falls back to the default")
	assert.Equal(t, DefaultTitle, cfg.Title)
	assert.Equal(t, mgl32.Vec3{0.5, -1, 2}, cfg.SphereCenter)
	assert.Equal(t, float32(0.25), cfg.SphereRadius)
	assert.Equal(t, PresentModeMailbox, cfg.PresentMode)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "out.png", cfg.Screenshot)
	assert.True(t, cfg.ExitAfterScreenshot)
}

func TestParseFlags_rejectsBadInput(t *testing.T) {
	cases := map[string][]string{
		"bad center":        {"-center", "1,2"},
		"bad center value":  {"-center", "1,x,2"},
		"zero radius":       {"-radius", "0"},
		"texture width":     {"-texture-width", "0"},
		"present mode":      {"-present-mode", "vsync"},
		"cpu without path":  {"-cpu"},
		"exit without path": {"-exit-after-screenshot"},
		"unknown flag":      {"-nope"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseFlags(args, nil)
			assert.Error(t, err)
		})
	}
}

func TestConfig_ValidateJoinsErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TextureWidth = -1
	cfg.PresentMode = "bogus"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "texture size")
	assert.Contains(t, err.Error(), "bogus")
}

func TestParseFlags_reportsValidationErrors(t *testing.T) {
	cases := map[string]struct {
		args []string
		want string
	}{
		"negative radius": {[]string{"-radius", "-1"}, "sphere radius must be positive, got -1"},
		"texture width":   {[]string{"-texture-width", "0"}, "texture size must be positive, got 0x600"},
		"present mode":    {[]string{"-present-mode", "vsync"}, `unknown present mode "vsync"`},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			var out bytes.Buffer
			_, err := ParseFlags(c.args, &out)
			require.Error(t, err)
			assert.Contains(t, out.String(), "invalid configuration")
			assert.Contains(t, out.String(), c.want)
			assert.Contains(t, out.String(), "-radius", "usage follows the error")
		})
	}
}
