package transcription

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/kbukum/voiceorder/audio"
)

// InputKind says where a recognizer reads audio from.
type InputKind string

const (
	InputStream InputKind = "stream"
	InputFile   InputKind = "file"
)

// Input is recognizer-ready WAV audio, either held in memory or on disk.
type Input struct {
	Kind   InputKind
	Format audio.Format
	Size   int64
	// Path is set for file inputs.
	Path string

	open func() (io.ReadCloser, error)
}

// Open returns a fresh reader positioned at the start of the WAV.
func (in Input) Open() (io.ReadCloser, error) {
	if in.open == nil {
		return nil, errors.New("transcription: input not initialized")
	}
	return in.open()
}

// Bytes reads the whole WAV.
func (in Input) Bytes() ([]byte, error) {
	rc, err := in.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// StreamSetup builds the in-memory input for a strategy run.
type StreamSetup func(a audio.NormalizedAudio) (Input, error)

// NewStreamInput serves a from memory.
func NewStreamInput(a audio.NormalizedAudio) (Input, error) {
	if len(a.WAV) <= audio.HeaderSize {
		return Input{}, fmt.Errorf("transcription: stream input has no samples (%d bytes)", len(a.WAV))
	}
	wav := a.WAV
	return Input{
		Kind:   InputStream,
		Format: a.Format,
		Size:   int64(len(wav)),
		open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(wav)), nil
		},
	}, nil
}

// NewFileInput serves the WAV stored at path.
func NewFileInput(path string, f audio.Format) (Input, error) {
	st, err := os.Stat(path)
	if err != nil {
		return Input{}, fmt.Errorf("transcription: file input: %w", err)
	}
	return Input{
		Kind:   InputFile,
		Format: f,
		Size:   st.Size(),
		Path:   path,
		open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}
