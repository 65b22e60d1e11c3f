package halt

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOSHalt(t *testing.T) {
	cases := []struct {
		code       byte
		wantStatus int
	}{
		{code: 0x55, wantStatus: 0},
		{code: 0xAA, wantStatus: 1},
		{code: 0x00, wantStatus: 1},
	}

	for _, tc := range cases {
		var out bytes.Buffer
		var gotStatus int

		h := NewOS(&out)
		h.exit = func(status int) { gotStatus = status }

		h.Halt(tc.code)
		assert.Equal(t, tc.wantStatus, gotStatus, "code 0x%02X", tc.code)
		assert.Contains(t, out.String(), "HALT CODE:")
	}
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}

	_, ok := r.Last()
	require.False(t, ok)

	r.Halt(0x55)
	r.Halt(0xAA)

	code, ok := r.Last()
	require.True(t, ok)
	assert.Equal(t, byte(0xAA), code)
	assert.Equal(t, []byte{0x55, 0xAA}, r.Codes)
}
