package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"time"
)

// HeaderSize is the size of the canonical PCM WAV header.
const HeaderSize = 44

// Target sample parameters the recognizer accepts.
const (
	TargetSampleRate    = 16000
	TargetChannels      = 1
	TargetBitsPerSample = 16
)

const (
	formatPCM        = 1
	formatExtensible = 0xFFFE
)

// Format describes PCM sample layout.
type Format struct {
	SampleRate    int `json:"sample_rate"`
	Channels      int `json:"channels"`
	BitsPerSample int `json:"bits_per_sample"`
}

// TargetFormat is 16 kHz mono 16-bit.
var TargetFormat = Format{SampleRate: TargetSampleRate, Channels: TargetChannels, BitsPerSample: TargetBitsPerSample}

// BlockAlign is the byte size of one frame across all channels.
func (f Format) BlockAlign() int { return f.Channels * f.BitsPerSample / 8 }

// Duration is the play time of n bytes of PCM in this format.
func (f Format) Duration(n int) time.Duration {
	bytesPerSecond := f.BlockAlign() * f.SampleRate
	if bytesPerSecond <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second / time.Duration(bytesPerSecond)
}

func (f Format) String() string {
	return fmt.Sprintf("%dHz/%dch/%dbit", f.SampleRate, f.Channels, f.BitsPerSample)
}

// wavHeader is the canonical 44-byte RIFF/WAVE header.
type wavHeader struct {
	ChunkID       [4]byte
	ChunkSize     uint32
	Format        [4]byte
	Subchunk1ID   [4]byte
	Subchunk1Size uint32
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	Subchunk2ID   [4]byte
	Subchunk2Size uint32
}

// EncodeWAV wraps pcm in a canonical 44-byte header. The payload is copied
// verbatim.
func EncodeWAV(pcm []byte, f Format) []byte {
	h := wavHeader{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     uint32(36 + len(pcm)),
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		Subchunk1ID:   [4]byte{'f', 'm', 't', ' '},
		Subchunk1Size: 16,
		AudioFormat:   formatPCM,
		NumChannels:   uint16(f.Channels),
		SampleRate:    uint32(f.SampleRate),
		ByteRate:      uint32(f.SampleRate * f.BlockAlign()),
		BlockAlign:    uint16(f.BlockAlign()),
		BitsPerSample: uint16(f.BitsPerSample),
		Subchunk2ID:   [4]byte{'d', 'a', 't', 'a'},
		Subchunk2Size: uint32(len(pcm)),
	}
	buf := bytes.NewBuffer(make([]byte, 0, HeaderSize+len(pcm)))
	// Writes to a bytes.Buffer of a fixed-size struct cannot fail.
	_ = binary.Write(buf, binary.LittleEndian, h)
	buf.Write(pcm)
	return buf.Bytes()
}

// ErrNotWAV is returned for input without a RIFF/WAVE signature.
var ErrNotWAV = errors.New("audio: not a RIFF/WAVE container")

// WAVInfo is the parsed layout of a WAV container.
type WAVInfo struct {
	Format Format
	// Data is the PCM payload, clamped to the bytes actually present.
	Data []byte
	// DeclaredDataSize is the data chunk size from the header.
	DeclaredDataSize uint32
	// Truncated is set when the header declares more data than is present,
	// as with WAV streamed to a pipe.
	Truncated bool
}

// ParseWAV walks the RIFF chunks of data and returns its PCM layout. Only
// integer PCM (directly or through WAVE_FORMAT_EXTENSIBLE) is accepted.
func ParseWAV(data []byte) (*WAVInfo, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, ErrNotWAV
	}

	var info WAVInfo
	var haveFmt bool
	off := 12
	for off+8 <= len(data) {
		id := string(data[off : off+4])
		size := binary.LittleEndian.Uint32(data[off+4 : off+8])
		body := off + 8

		switch id {
		case "fmt ":
			if size < 16 || body+16 > len(data) {
				return nil, fmt.Errorf("audio: fmt chunk too short (%d bytes)", size)
			}
			tag := binary.LittleEndian.Uint16(data[body:])
			if tag == formatExtensible && size >= 26 && body+26 <= len(data) {
				tag = binary.LittleEndian.Uint16(data[body+24:])
			}
			if tag != formatPCM {
				return nil, fmt.Errorf("audio: unsupported WAV encoding %#x", tag)
			}
			info.Format = Format{
				Channels:      int(binary.LittleEndian.Uint16(data[body+2:])),
				SampleRate:    int(binary.LittleEndian.Uint32(data[body+4:])),
				BitsPerSample: int(binary.LittleEndian.Uint16(data[body+14:])),
			}
			haveFmt = true
		case "data":
			if !haveFmt {
				return nil, errors.New("audio: data chunk before fmt chunk")
			}
			info.DeclaredDataSize = size
			end := body + int(size)
			if size == 0xFFFFFFFF || end > len(data) || end < body {
				end = len(data)
				info.Truncated = true
			}
			info.Data = data[body:end]
			if err := info.Format.validate(); err != nil {
				return nil, err
			}
			return &info, nil
		}

		next := body + int(size) + int(size&1)
		if next <= off || next > len(data) {
			break
		}
		off = next
	}
	if !haveFmt {
		return nil, errors.New("audio: missing fmt chunk")
	}
	return nil, errors.New("audio: missing data chunk")
}

func (f Format) validate() error {
	switch {
	case f.Channels < 1 || f.Channels > 8:
		return fmt.Errorf("audio: unsupported channel count %d", f.Channels)
	case f.SampleRate < 1000 || f.SampleRate > 384000:
		return fmt.Errorf("audio: unsupported sample rate %d", f.SampleRate)
	}
	switch f.BitsPerSample {
	case 8, 16, 24, 32:
		return nil
	default:
		return fmt.Errorf("audio: unsupported bit depth %d", f.BitsPerSample)
	}
}

// IsTarget reports whether data is already a consistent 16 kHz mono 16-bit
// PCM WAV that needs no conversion.
func IsTarget(data []byte) bool {
	info, err := ParseWAV(data)
	if err != nil || info.Truncated {
		return false
	}
	return info.Format == TargetFormat && len(info.Data)%2 == 0 && len(info.Data) > 0
}
