package api

import (
	stderrors "errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/voiceorder/errors"
	"github.com/kbukum/voiceorder/logger"
	"github.com/kbukum/voiceorder/server"
)

const audioField = "audio"

// supportedAudio lists the accepted upload media types. An empty or
// application/octet-stream type is accepted and left to format detection.
var supportedAudio = map[string]bool{
	"audio/webm":               true,
	"audio/wav":                true,
	"audio/x-wav":              true,
	"audio/wave":               true,
	"audio/mp3":                true,
	"audio/mpeg":               true,
	"audio/ogg":                true,
	"audio/mp4":                true,
	"audio/x-m4a":              true,
	"application/octet-stream": true,
}

// TranscribeResponse is the success body of the transcribe route.
type TranscribeResponse struct {
	Success        bool    `json:"success"`
	Transcription  string  `json:"transcription"`
	Confidence     float64 `json:"confidence"`
	ProcessingTime float64 `json:"processing_time"`
	Mode           string  `json:"mode"`
	Strategy       string  `json:"strategy,omitempty"`
	Attempts       int     `json:"attempts"`
}

// TranscribeFailure is the body of a failed transcription.
type TranscribeFailure struct {
	Success        bool    `json:"success"`
	Error          string  `json:"error"`
	ProcessingTime float64 `json:"processing_time"`
	Mode           string  `json:"mode,omitempty"`
}

// Transcribe handles POST /api/speech/transcribe with a multipart "audio" file.
func (h *Handler) Transcribe(c *gin.Context) {
	start := h.now()
	ctx := c.Request.Context()
	log := h.log.WithContext(ctx)

	fh, err := c.FormFile(audioField)
	if err != nil {
		var maxErr *http.MaxBytesError
		if stderrors.As(err, &maxErr) {
			server.RespondWithError(c, apperrors.PayloadTooLarge(c.Request.ContentLength, h.cfg.MaxAudioSize))
			return
		}
		server.RespondFailure(c, http.StatusBadRequest, "未找到音頻文件")
		return
	}
	if fh.Size == 0 {
		server.RespondFailure(c, http.StatusBadRequest, "音頻文件為空")
		return
	}
	if fh.Size > h.cfg.MaxAudioSize {
		server.RespondWithError(c, apperrors.PayloadTooLarge(fh.Size, h.cfg.MaxAudioSize))
		return
	}

	contentType := mediaType(fh.Header.Get("Content-Type"))
	if !supportedAudio[contentType] {
		server.RespondWithError(c, apperrors.InvalidInput(audioField, "unsupported audio type "+contentType))
		return
	}

	f, err := fh.Open()
	if err != nil {
		server.RespondWithError(c, apperrors.Internal(err))
		return
	}
	defer f.Close()
	raw, err := io.ReadAll(io.LimitReader(f, h.cfg.MaxAudioSize+1))
	if err != nil {
		server.RespondWithError(c, apperrors.Internal(err))
		return
	}

	log.Info("transcription requested", logger.Fields(logger.FieldContentType, contentType, logger.FieldBytes, len(raw)))
	out := h.transcriber.Transcribe(ctx, raw, contentType)
	elapsed := seconds(h.now().Sub(start))

	if !out.Usable() {
		c.JSON(http.StatusBadRequest, TranscribeFailure{
			Error:          out.ErrorDetail,
			ProcessingTime: elapsed,
			Mode:           h.mode(),
		})
		return
	}
	c.JSON(http.StatusOK, TranscribeResponse{
		Success:        true,
		Transcription:  out.Text,
		Confidence:     out.Confidence,
		ProcessingTime: elapsed,
		Mode:           h.mode(),
		Strategy:       string(out.Strategy),
		Attempts:       out.Attempts,
	})
}

// SpeechTest handles GET /api/speech/test.
func (h *Handler) SpeechTest(c *gin.Context) {
	if h.recognizer == nil || !h.recognizer.IsAvailable(c.Request.Context()) {
		server.RespondWithError(c, apperrors.ServiceUnavailable("speech recognizer"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "speech recognizer configured",
		"region":  h.cfg.Region,
		"mode":    h.mode(),
	})
}

func (h *Handler) mode() string {
	if h.recognizer == nil {
		return ""
	}
	return h.recognizer.Name()
}

// mediaType strips parameters such as codecs; an empty type means octet-stream.
func mediaType(header string) string {
	if strings.TrimSpace(header) == "" {
		return "application/octet-stream"
	}
	mt, _, err := mime.ParseMediaType(header)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(header))
	}
	return mt
}
