package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"
)

var (
	ErrInvalidWAV     = errors.New("invalid wav file")
	ErrUnsupportedWAV = errors.New("unsupported wav format")
)

// Format describes the fmt chunk of a PCM WAV file.
type Format struct {
	Channels      int
	SampleRate    int
	BitsPerSample int
	DataBytes     int
}

// Duration derives the audio length from the data chunk size.
func (f Format) Duration() time.Duration {
	bytesPerSecond := f.SampleRate * f.Channels * f.BitsPerSample / 8
	if bytesPerSecond <= 0 {
		return 0
	}
	return time.Duration(float64(f.DataBytes) / float64(bytesPerSecond) * float64(time.Second))
}

// SilentWAV builds a PCM WAV file of zeroed samples. Used by the test
// client and handler tests as a well-formed upload fixture.
func SilentWAV(duration time.Duration, sampleRate, channels, bitsPerSample int) []byte {
	numSamples := int(float64(sampleRate) * duration.Seconds())
	dataSize := numSamples * channels * bitsPerSample / 8
	byteRate := sampleRate * channels * bitsPerSample / 8
	blockAlign := channels * bitsPerSample / 8

	buf := &bytes.Buffer{}

	// RIFF header
	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")

	// fmt chunk (PCM)
	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(1))
	binary.Write(buf, binary.LittleEndian, uint16(channels))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(buf, binary.LittleEndian, uint16(bitsPerSample))

	// data chunk, zeroed samples
	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(dataSize))
	buf.Write(make([]byte, dataSize))

	return buf.Bytes()
}

// ParseHeader scans the RIFF chunk list and returns the PCM format. It
// only inspects headers; sample data is skipped, not decoded.
func ParseHeader(r io.Reader) (Format, error) {
	header := make([]byte, 12)
	if _, err := io.ReadFull(r, header); err != nil {
		return Format{}, fmt.Errorf("%w: %v", ErrInvalidWAV, err)
	}
	if string(header[:4]) != "RIFF" || string(header[8:12]) != "WAVE" {
		return Format{}, ErrInvalidWAV
	}

	var (
		f       Format
		hasFmt  bool
		hasData bool
	)

	for {
		chunkHeader := make([]byte, 8)
		if _, err := io.ReadFull(r, chunkHeader); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			return Format{}, fmt.Errorf("read wav chunk header: %w", err)
		}

		chunkID := string(chunkHeader[:4])
		chunkSize := binary.LittleEndian.Uint32(chunkHeader[4:8])

		skip := int64(chunkSize)
		if chunkSize%2 != 0 {
			skip++
		}

		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				return Format{}, ErrInvalidWAV
			}
			buf := make([]byte, chunkSize)
			if _, err := io.ReadFull(r, buf); err != nil {
				return Format{}, fmt.Errorf("read wav fmt chunk: %w", err)
			}
			if binary.LittleEndian.Uint16(buf[0:2]) != 1 {
				return Format{}, ErrUnsupportedWAV
			}
			f.Channels = int(binary.LittleEndian.Uint16(buf[2:4]))
			f.SampleRate = int(binary.LittleEndian.Uint32(buf[4:8]))
			f.BitsPerSample = int(binary.LittleEndian.Uint16(buf[14:16]))
			hasFmt = true

			if chunkSize%2 != 0 {
				if _, err := io.CopyN(io.Discard, r, 1); err != nil {
					return Format{}, fmt.Errorf("skip wav fmt padding: %w", err)
				}
			}
		case "data":
			f.DataBytes = int(chunkSize)
			hasData = true
			if _, err := io.CopyN(io.Discard, r, skip); err != nil && !errors.Is(err, io.EOF) {
				return Format{}, fmt.Errorf("skip wav data chunk: %w", err)
			}
		default:
			if _, err := io.CopyN(io.Discard, r, skip); err != nil && !errors.Is(err, io.EOF) {
				return Format{}, fmt.Errorf("skip wav chunk %s: %w", chunkID, err)
			}
		}

		if hasFmt && hasData {
			break
		}
	}

	if !hasFmt || !hasData {
		return Format{}, ErrInvalidWAV
	}

	return f, nil
}
