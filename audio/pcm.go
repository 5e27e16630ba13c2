package audio

import (
	"encoding/binary"
	"fmt"
	"math"
)

// ConvertPCM converts interleaved PCM in format from to 16 kHz mono 16-bit
// little-endian PCM. Channels are averaged and the rate is changed by linear
// interpolation. A trailing partial frame is dropped.
func ConvertPCM(data []byte, from Format) ([]byte, error) {
	if err := from.validate(); err != nil {
		return nil, err
	}
	samples := toMono(data, from)
	samples = resampleLinear(samples, from.SampleRate, TargetSampleRate)
	return encodeInt16(samples), nil
}

// toMono decodes frames into averaged samples normalized to [-1, 1].
func toMono(data []byte, f Format) []float64 {
	width := f.BitsPerSample / 8
	frame := width * f.Channels
	n := len(data) / frame
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		var sum float64
		base := i * frame
		for c := 0; c < f.Channels; c++ {
			sum += decodeSample(data[base+c*width:], f.BitsPerSample)
		}
		out[i] = sum / float64(f.Channels)
	}
	return out
}

func decodeSample(b []byte, bits int) float64 {
	switch bits {
	case 8:
		// 8-bit WAV is unsigned with a 128 midpoint.
		return (float64(b[0]) - 128) / 128
	case 16:
		return float64(int16(binary.LittleEndian.Uint16(b))) / 32768
	case 24:
		v := int32(b[0]) | int32(b[1])<<8 | int32(int8(b[2]))<<16
		return float64(v) / 8388608
	case 32:
		return float64(int32(binary.LittleEndian.Uint32(b))) / 2147483648
	default:
		panic(fmt.Sprintf("audio: unsupported bit depth %d", bits))
	}
}

func resampleLinear(in []float64, fromRate, toRate int) []float64 {
	if fromRate == toRate || len(in) == 0 {
		return in
	}
	n := int(int64(len(in)) * int64(toRate) / int64(fromRate))
	if n == 0 {
		n = 1
	}
	out := make([]float64, n)
	step := float64(fromRate) / float64(toRate)
	last := len(in) - 1
	for i := range out {
		pos := float64(i) * step
		j := int(pos)
		if j >= last {
			out[i] = in[last]
			continue
		}
		frac := pos - float64(j)
		out[i] = in[j] + (in[j+1]-in[j])*frac
	}
	return out
}

func encodeInt16(samples []float64) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		v := math.Round(s * 32768)
		if v > math.MaxInt16 {
			v = math.MaxInt16
		} else if v < math.MinInt16 {
			v = math.MinInt16
		}
		binary.LittleEndian.PutUint16(out[i*2:], uint16(int16(v)))
	}
	return out
}
