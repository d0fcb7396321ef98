package audio

import (
	"bytes"
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSilentWAV_Layout(t *testing.T) {
	wav := SilentWAV(time.Second, 44100, 1, 16)

	// 44 byte header + 44100 samples * 2 bytes
	require.Len(t, wav, 44+88200)

	assert.Equal(t, "RIFF", string(wav[0:4]))
	assert.Equal(t, "WAVE", string(wav[8:12]))
	assert.Equal(t, "fmt ", string(wav[12:16]))
	assert.Equal(t, "data", string(wav[36:40]))

	assert.Equal(t, uint32(36+88200), binary.LittleEndian.Uint32(wav[4:8]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(wav[20:22]), "audio format should be PCM")
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(wav[22:24]), "channels")
	assert.Equal(t, uint32(44100), binary.LittleEndian.Uint32(wav[24:28]), "sample rate")
	assert.Equal(t, uint32(88200), binary.LittleEndian.Uint32(wav[28:32]), "byte rate")
	assert.Equal(t, uint16(2), binary.LittleEndian.Uint16(wav[32:34]), "block align")
	assert.Equal(t, uint16(16), binary.LittleEndian.Uint16(wav[34:36]), "bits per sample")
	assert.Equal(t, uint32(88200), binary.LittleEndian.Uint32(wav[40:44]), "data size")

	for _, b := range wav[44:] {
		if b != 0 {
			t.Fatal("expected silent (zeroed) sample data")
		}
	}
}

func TestParseHeader_RoundTrip(t *testing.T) {
	tests := []struct {
		name          string
		duration      time.Duration
		sampleRate    int
		channels      int
		bitsPerSample int
	}{
		{"1s 44.1kHz mono 16-bit", time.Second, 44100, 1, 16},
		{"500ms 16kHz mono 16-bit", 500 * time.Millisecond, 16000, 1, 16},
		{"2s 48kHz stereo 16-bit", 2 * time.Second, 48000, 2, 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wav := SilentWAV(tt.duration, tt.sampleRate, tt.channels, tt.bitsPerSample)

			format, err := ParseHeader(bytes.NewReader(wav))
			require.NoError(t, err)

			assert.Equal(t, tt.sampleRate, format.SampleRate)
			assert.Equal(t, tt.channels, format.Channels)
			assert.Equal(t, tt.bitsPerSample, format.BitsPerSample)
			assert.InDelta(t, tt.duration.Seconds(), format.Duration().Seconds(), 0.01)
		})
	}
}

func TestParseHeader_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"not riff", []byte("this is definitely not a wav file, just bytes")},
		{"truncated header", []byte("RIFF")},
		{"riff without chunks", append([]byte("RIFF"), append(make([]byte, 4), []byte("WAVE")...)...)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseHeader(bytes.NewReader(tt.data))
			assert.Error(t, err)
		})
	}
}
