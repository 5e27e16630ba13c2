package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/voiceorder/errors"
	"github.com/kbukum/voiceorder/logger"
	"github.com/kbukum/voiceorder/server/middleware"
)

func testConfig() Config {
	cfg := Config{Host: "127.0.0.1", MaxBodySize: "1KB"}
	cfg.ApplyDefaults()
	cfg.Port = 0
	return cfg
}

func TestConfigDefaultsAndValidate(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Port != 5000 || cfg.WriteTimeout != 2*time.Minute || cfg.MaxBodySize != "11MB" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}

	bad := cfg
	bad.ReadTimeout = -time.Second
	if err := bad.Validate(); err == nil || !strings.Contains(err.Error(), "read_timeout") {
		t.Errorf("expected read_timeout error, got %v", err)
	}
	bad = cfg
	bad.Port = 70000
	if err := bad.Validate(); err == nil {
		t.Error("expected port error")
	}
}

func TestHandlerAppliesMiddleware(t *testing.T) {
	s := New(testConfig(), logger.NewNop())
	s.ApplyMiddleware("voiceorder", nil)
	s.RegisterDefaultEndpoints("voiceorder", "test-catalog")
	s.GinEngine().GET("/panic", func(*gin.Context) { panic("boom") })

	h := s.Handler()

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 from /health, got %d", rr.Code)
	}
	if rr.Header().Get(middleware.HeaderRequestID) == "" {
		t.Error("expected request id header")
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/panic", http.NoBody))
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("expected recovered 500, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/health", strings.NewReader(strings.Repeat("x", 4096))))
	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413 for oversized body, got %d", rr.Code)
	}
}

func TestStartStop(t *testing.T) {
	s := New(testConfig(), logger.NewNop())
	s.RegisterDefaultEndpoints("voiceorder", "test-catalog")
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	resp, err := http.Get("http://" + s.Addr() + "/info")
	if err != nil {
		t.Fatalf("GET /info: %v", err)
	}
	defer resp.Body.Close()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["catalog"] != "test-catalog" {
		t.Errorf("unexpected info %v", body)
	}

	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}

func TestRespondWithError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"app error", apperrors.PayloadTooLarge(20, 10), http.StatusRequestEntityTooLarge, "Payload of 20 bytes exceeds the 10 byte limit."},
		{"plain error", errors.New("disk on fire"), http.StatusInternalServerError, "internal error"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rr)
			RespondWithError(c, tc.err)
			if rr.Code != tc.wantCode {
				t.Errorf("expected %d, got %d", tc.wantCode, rr.Code)
			}
			var body FailureResponse
			if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			if body.Success || body.Error != tc.wantMsg {
				t.Errorf("unexpected body %+v", body)
			}
		})
	}
}
