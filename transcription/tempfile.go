package transcription

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/voiceorder/logger"
	"github.com/kbukum/voiceorder/resilience"
)

const (
	releaseAttempts = 5
	releaseStep     = 300 * time.Millisecond
)

// TempFile is a scoped on-disk copy of request audio. Release removes it
// and never fails; a file that cannot be removed is renamed aside with a
// ".pending-delete-" suffix for later sweeping.
type TempFile struct {
	path string
	log  *logger.Logger

	remove  func(string) error
	rename  func(string, string) error
	step    time.Duration
	now     func() time.Time
	release sync.Once
}

// CreateTempFile writes data to a new uniquely named WAV file in dir. An
// empty dir means os.TempDir.
func CreateTempFile(dir string, data []byte, log *logger.Logger) (*TempFile, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	if log == nil {
		log = logger.NewNop()
	}
	path := filepath.Join(dir, "speech-"+uuid.NewString()+".wav")

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, fmt.Errorf("transcription: create temp file: %w", err)
	}
	t := &TempFile{
		path:   path,
		log:    log,
		remove: os.Remove,
		rename: os.Rename,
		step:   releaseStep,
		now:    time.Now,
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		t.Release(context.Background())
		return nil, fmt.Errorf("transcription: write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		t.Release(context.Background())
		return nil, fmt.Errorf("transcription: close temp file: %w", err)
	}
	return t, nil
}

// Path returns the file location.
func (t *TempFile) Path() string { return t.path }

// Release deletes the file with bounded retry. It is safe to call more than
// once and keeps going after ctx is canceled.
func (t *TempFile) Release(ctx context.Context) {
	t.release.Do(func() { t.doRelease(context.WithoutCancel(ctx)) })
}

func (t *TempFile) doRelease(ctx context.Context) {
	cfg := resilience.RetryConfig{
		MaxAttempts: releaseAttempts,
		Backoff:     resilience.LinearBackoff(t.step),
		RetryIf:     func(error) bool { return true },
		OnRetry: func(attempt int, err error, backoff time.Duration) {
			t.log.Debug("temp file removal retry", logger.MergeWithError(
				logger.Fields(logger.FieldPath, t.path, logger.FieldAttempt, attempt), err))
		},
	}
	err := resilience.RetryFunc(ctx, cfg, func() error {
		if err := t.remove(t.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		return nil
	})
	if err == nil {
		return
	}

	pending := fmt.Sprintf("%s.pending-delete-%d-%04d", t.path, t.now().Unix(), rand.IntN(10000))
	if rerr := t.rename(t.path, pending); rerr != nil {
		t.log.Error("temp file could not be removed or renamed", logger.MergeWithError(
			logger.Fields(logger.FieldPath, t.path), errors.Join(err, rerr)))
		return
	}
	t.log.Warn("temp file marked for later deletion", logger.MergeWithError(
		logger.Fields(logger.FieldPath, t.path, "pending_path", pending), err))
}
