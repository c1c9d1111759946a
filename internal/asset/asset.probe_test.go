package asset

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func box(typ string, payload []byte) []byte {
	buf := make([]byte, 8, 8+len(payload))
	binary.BigEndian.PutUint32(buf[:4], uint32(8+len(payload)))
	copy(buf[4:], typ)
	return append(buf, payload...)
}

func mvhdV0(timescale, duration uint32) []byte {
	p := make([]byte, 4+16+80)
	binary.BigEndian.PutUint32(p[12:16], timescale)
	binary.BigEndian.PutUint32(p[16:20], duration)
	return box("mvhd", p)
}

func mvhdV1(timescale uint32, duration uint64) []byte {
	p := make([]byte, 4+28+80)
	p[0] = 1
	binary.BigEndian.PutUint32(p[20:24], timescale)
	binary.BigEndian.PutUint64(p[24:32], duration)
	return box("mvhd", p)
}

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestProbeMP4Duration(t *testing.T) {
	ftyp := box("ftyp", []byte("isom\x00\x00\x02\x00isomiso2mp41"))
	mdat := box("mdat", bytes.Repeat([]byte{0xAB}, 64))

	tests := []struct {
		name string
		data []byte
		want float64
	}{
		{
			name: "version 0",
			data: concat(ftyp, box("moov", concat(mvhdV0(1000, 12500), box("trak", nil))), mdat),
			want: 12.5,
		},
		{
			name: "version 1",
			data: concat(ftyp, mdat, box("moov", mvhdV1(90000, 90000*75))),
			want: 75,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTemp(t, "clip.mp4", tt.data)
			got, err := ProbeMP4Duration(path)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestProbeMP4Duration_Errors(t *testing.T) {
	t.Run("no moov box", func(t *testing.T) {
		path := writeTemp(t, "no-moov.mp4", box("ftyp", []byte("isom")))
		_, err := ProbeMP4Duration(path)
		assert.ErrorIs(t, err, errBoxNotFound)
	})

	t.Run("zero timescale", func(t *testing.T) {
		path := writeTemp(t, "zero.mp4", box("moov", mvhdV0(0, 100)))
		_, err := ProbeMP4Duration(path)
		assert.Error(t, err)
	})

	t.Run("truncated box", func(t *testing.T) {
		data := box("moov", mvhdV0(1000, 1000))
		path := writeTemp(t, "cut.mp4", data[:len(data)-10])
		_, err := ProbeMP4Duration(path)
		assert.Error(t, err)
	})

	t.Run("not an mp4", func(t *testing.T) {
		path := writeTemp(t, "thumb.jpg", []byte{0xFF, 0xD8, 0xFF, 0xE0})
		_, err := ProbeMP4Duration(path)
		assert.Error(t, err)
	})
}

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
