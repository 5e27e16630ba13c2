package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/kbukum/voiceorder/process"
	"github.com/kbukum/voiceorder/provider"
)

// NormalizedAudio is a complete canonical WAV in the recognizer format.
// Passthrough input may carry extra chunks ahead of the data chunk.
type NormalizedAudio struct {
	WAV    []byte
	Format Format
	// Decoder names the step that produced WAV.
	Decoder string
}

// PCM returns the data chunk payload, or nil when WAV does not parse.
func (n NormalizedAudio) PCM() []byte {
	info, err := ParseWAV(n.WAV)
	if err != nil {
		return nil
	}
	return info.Data
}

func newNormalized(pcm []byte, decoder string) NormalizedAudio {
	return NormalizedAudio{WAV: EncodeWAV(pcm, TargetFormat), Format: TargetFormat, Decoder: decoder}
}

// Decoder turns raw container bytes into normalized audio.
type Decoder = provider.RequestResponse[[]byte, NormalizedAudio]

// ErrNoAudio is returned when a decoder produced no samples.
var ErrNoAudio = errors.New("audio: decoder produced no samples")

// WAVDecoder decodes any integer PCM WAV natively.
type WAVDecoder struct{}

var _ Decoder = WAVDecoder{}

func (WAVDecoder) Name() string                       { return "wav" }
func (WAVDecoder) IsAvailable(_ context.Context) bool { return true }

// Execute parses raw as WAV and converts it to the target format.
func (d WAVDecoder) Execute(_ context.Context, raw []byte) (NormalizedAudio, error) {
	info, err := ParseWAV(raw)
	if err != nil {
		return NormalizedAudio{}, err
	}
	return pcmToNormalized(info, d.Name())
}

func pcmToNormalized(info *WAVInfo, decoder string) (NormalizedAudio, error) {
	pcm := info.Data
	if info.Format != TargetFormat {
		var err error
		if pcm, err = ConvertPCM(pcm, info.Format); err != nil {
			return NormalizedAudio{}, err
		}
	}
	pcm = pcm[:len(pcm)&^1]
	if len(pcm) == 0 {
		return NormalizedAudio{}, ErrNoAudio
	}
	return newNormalized(pcm, decoder), nil
}

// ffmpeg demuxer names where they differ from the container name.
var demuxers = map[string]string{
	"webm": "matroska",
	"m4a":  "mp4",
}

// FFmpegDecoder pipes raw bytes through ffmpeg and reads a WAV back from
// stdout. An empty Format lets ffmpeg probe the container.
type FFmpegDecoder struct {
	Format string
	runner provider.RequestResponse[process.Command, *process.Result]
}

var _ Decoder = (*FFmpegDecoder)(nil)

// NewFFmpegDecoder creates a decoder for one container format that runs
// commands through runner.
func NewFFmpegDecoder(format string, runner provider.RequestResponse[process.Command, *process.Result]) *FFmpegDecoder {
	return &FFmpegDecoder{Format: format, runner: runner}
}

func (d *FFmpegDecoder) Name() string {
	if d.Format == "" {
		return "auto"
	}
	return d.Format
}

func (d *FFmpegDecoder) IsAvailable(ctx context.Context) bool {
	return d.runner != nil && d.runner.IsAvailable(ctx)
}

// Args returns the ffmpeg arguments for this decoder.
func (d *FFmpegDecoder) Args() []string {
	args := []string{"-hide_banner", "-loglevel", "error"}
	if d.Format != "" {
		f := d.Format
		if dm, ok := demuxers[f]; ok {
			f = dm
		}
		args = append(args, "-f", f)
	}
	return append(args,
		"-i", "pipe:0",
		"-ac", "1",
		"-ar", fmt.Sprint(TargetSampleRate),
		"-acodec", "pcm_s16le",
		"-f", "wav",
		"pipe:1",
	)
}

// Execute runs ffmpeg over raw.
func (d *FFmpegDecoder) Execute(ctx context.Context, raw []byte) (NormalizedAudio, error) {
	if d.runner == nil {
		return NormalizedAudio{}, fmt.Errorf("audio: %s decoder has no process runner", d.Name())
	}
	res, err := d.runner.Execute(ctx, process.Command{
		Args:  d.Args(),
		Stdin: bytes.NewReader(raw),
	})
	if err != nil {
		return NormalizedAudio{}, fmt.Errorf("audio: ffmpeg %s: %w", d.Name(), err)
	}
	info, err := ParseWAV(res.Stdout)
	if err != nil {
		return NormalizedAudio{}, fmt.Errorf("audio: ffmpeg %s output: %w", d.Name(), err)
	}
	return pcmToNormalized(info, d.Name())
}
