package audio

import (
	"bytes"
	"encoding/binary"
	"testing"
	"time"
)

func pcmPattern(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i * 7)
	}
	return b
}

// streamingWAV mimics ffmpeg writing WAV to a pipe: the RIFF and data sizes
// are unknown and left as 0xFFFFFFFF.
func streamingWAV(pcm []byte, f Format) []byte {
	w := EncodeWAV(pcm, f)
	binary.LittleEndian.PutUint32(w[4:], 0xFFFFFFFF)
	binary.LittleEndian.PutUint32(w[40:], 0xFFFFFFFF)
	return w
}

func TestEncodeWAVHeader(t *testing.T) {
	pcm := pcmPattern(320)
	w := EncodeWAV(pcm, TargetFormat)

	if len(w) != HeaderSize+len(pcm) {
		t.Fatalf("expected %d bytes, got %d", HeaderSize+len(pcm), len(w))
	}
	checks := []struct {
		name string
		got  uint32
		want uint32
	}{
		{"riff size", binary.LittleEndian.Uint32(w[4:]), uint32(36 + len(pcm))},
		{"fmt size", binary.LittleEndian.Uint32(w[16:]), 16},
		{"audio format", uint32(binary.LittleEndian.Uint16(w[20:])), 1},
		{"channels", uint32(binary.LittleEndian.Uint16(w[22:])), 1},
		{"sample rate", binary.LittleEndian.Uint32(w[24:]), 16000},
		{"byte rate", binary.LittleEndian.Uint32(w[28:]), 32000},
		{"block align", uint32(binary.LittleEndian.Uint16(w[32:])), 2},
		{"bits", uint32(binary.LittleEndian.Uint16(w[34:])), 16},
		{"data size", binary.LittleEndian.Uint32(w[40:]), uint32(len(pcm))},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s: got %d, want %d", c.name, c.got, c.want)
		}
	}
	if string(w[0:4]) != "RIFF" || string(w[8:12]) != "WAVE" || string(w[36:40]) != "data" {
		t.Errorf("bad chunk ids in %q", w[:44])
	}
	if !bytes.Equal(w[HeaderSize:], pcm) {
		t.Error("payload must be copied verbatim")
	}
}

func TestParseWAV(t *testing.T) {
	pcm := pcmPattern(64)

	withList := func() []byte {
		w := EncodeWAV(pcm, TargetFormat)
		list := append([]byte("LIST"), 3, 0, 0, 0, 'a', 'b', 'c', 0)
		out := append([]byte{}, w[:36]...)
		out = append(out, list...)
		return append(out, w[36:]...)
	}

	extensible := func() []byte {
		var b bytes.Buffer
		b.WriteString("RIFF")
		binary.Write(&b, binary.LittleEndian, uint32(0))
		b.WriteString("WAVEfmt ")
		binary.Write(&b, binary.LittleEndian, uint32(40))
		binary.Write(&b, binary.LittleEndian, uint16(0xFFFE))
		binary.Write(&b, binary.LittleEndian, uint16(2))
		binary.Write(&b, binary.LittleEndian, uint32(48000))
		binary.Write(&b, binary.LittleEndian, uint32(48000*4))
		binary.Write(&b, binary.LittleEndian, uint16(4))
		binary.Write(&b, binary.LittleEndian, uint16(16))
		binary.Write(&b, binary.LittleEndian, uint16(22))
		binary.Write(&b, binary.LittleEndian, uint16(16))
		binary.Write(&b, binary.LittleEndian, uint32(3))
		binary.Write(&b, binary.LittleEndian, uint16(1))
		b.Write(make([]byte, 14))
		b.WriteString("data")
		binary.Write(&b, binary.LittleEndian, uint32(len(pcm)))
		b.Write(pcm)
		return b.Bytes()
	}

	float32WAV := func() []byte {
		w := EncodeWAV(pcm, Format{SampleRate: 16000, Channels: 1, BitsPerSample: 32})
		binary.LittleEndian.PutUint16(w[20:], 3)
		return w
	}

	tests := []struct {
		name      string
		in        []byte
		wantErr   bool
		format    Format
		dataLen   int
		truncated bool
	}{
		{"canonical", EncodeWAV(pcm, TargetFormat), false, TargetFormat, len(pcm), false},
		{"streaming sizes", streamingWAV(pcm, TargetFormat), false, TargetFormat, len(pcm), true},
		{"short data", EncodeWAV(pcm, TargetFormat)[:HeaderSize+10], false, TargetFormat, 10, true},
		{"list chunk skipped", withList(), false, TargetFormat, len(pcm), false},
		{"extensible pcm", extensible(), false, Format{SampleRate: 48000, Channels: 2, BitsPerSample: 16}, len(pcm), false},
		{"float encoding", float32WAV(), true, Format{}, 0, false},
		{"not riff", pcmPattern(100), true, Format{}, 0, false},
		{"too short", []byte("RIFF"), true, Format{}, 0, false},
		{"no data chunk", EncodeWAV(pcm, TargetFormat)[:36], true, Format{}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := ParseWAV(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", info)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if info.Format != tt.format {
				t.Errorf("format: got %v, want %v", info.Format, tt.format)
			}
			if len(info.Data) != tt.dataLen {
				t.Errorf("data length: got %d, want %d", len(info.Data), tt.dataLen)
			}
			if info.Truncated != tt.truncated {
				t.Errorf("truncated: got %v, want %v", info.Truncated, tt.truncated)
			}
		})
	}
}

func TestIsTarget(t *testing.T) {
	pcm := pcmPattern(32)
	tests := []struct {
		name string
		in   []byte
		want bool
	}{
		{"canonical", EncodeWAV(pcm, TargetFormat), true},
		{"stereo", EncodeWAV(pcm, Format{SampleRate: 16000, Channels: 2, BitsPerSample: 16}), false},
		{"44.1k", EncodeWAV(pcm, Format{SampleRate: 44100, Channels: 1, BitsPerSample: 16}), false},
		{"streaming sizes", streamingWAV(pcm, TargetFormat), false},
		{"empty payload", EncodeWAV(nil, TargetFormat), false},
		{"raw", pcm, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTarget(tt.in); got != tt.want {
				t.Errorf("IsTarget() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	if got := TargetFormat.Duration(32000); got != time.Second {
		t.Errorf("one second of target PCM = %v", got)
	}
	if got := (Format{}).Duration(100); got != 0 {
		t.Errorf("zero format duration = %v", got)
	}
}
