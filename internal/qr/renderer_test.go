package qr_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/journey-scanner/internal/qr"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestRender(t *testing.T) {
	png, err := qr.Render([]byte(`{"journey_id":"j-1","step":0}`), qr.DefaultSize)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic))
}

func TestRender_DefaultsSize(t *testing.T) {
	png, err := qr.Render([]byte("payload"), 0)
	require.NoError(t, err)
	assert.NotEmpty(t, png)
}

func TestRender_EmptyPayload(t *testing.T) {
	_, err := qr.Render(nil, qr.DefaultSize)
	assert.Error(t, err)
}
