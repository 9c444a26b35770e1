// Package server exposes the evaluation pipeline over HTTP: a multipart
// upload endpoint that grades one document per request. Uploads are written
// to a scratch directory under a random name and removed once processed.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/docugrade/docugrade/internal/app"
	"github.com/docugrade/docugrade/internal/docload"
	"github.com/docugrade/docugrade/internal/report"
)

// MaxUploadBytes caps the request body. Documents beyond this are rejected
// with 413 before any processing happens.
const MaxUploadBytes = 16 << 20

// Evaluator is the part of the pipeline the server needs. *app.App
// satisfies it.
type Evaluator interface {
	EvaluateDocument(ctx context.Context, path string) (report.Report, error)
}

// Server handles document uploads.
type Server struct {
	Eval      Evaluator
	UploadDir string
}

// Handler returns the HTTP routes: POST /api/evaluate and GET /healthz.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/api/evaluate", s.handleEvaluate)
	return mux
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		writeError(w, http.StatusBadRequest, "no file in request")
		return
	}
	defer file.Close()

	ext := filepath.Ext(header.Filename)
	if !docload.Allowed(ext) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported file type %q", ext))
		return
	}

	path := filepath.Join(s.UploadDir, uuid.NewString()+"_"+sanitizeFilename(header.Filename))
	dst, err := os.Create(path)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("create upload file")
		writeError(w, http.StatusInternalServerError, "could not store upload")
		return
	}
	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		os.Remove(path)
		writeError(w, http.StatusInternalServerError, "could not store upload")
		return
	}
	dst.Close()
	defer os.Remove(path)

	rep, err := s.Eval.EvaluateDocument(r.Context(), path)
	if err != nil {
		if errors.Is(err, app.ErrNoPairs) {
			writeError(w, http.StatusUnprocessableEntity, "no question/answer pairs found in document")
			return
		}
		log.Error().Err(err).Str("file", header.Filename).Msg("evaluation failed")
		writeError(w, http.StatusInternalServerError, "evaluation failed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(rep)
}

// sanitizeFilename keeps only the base name and replaces path-hostile
// characters, so the stored name is safe to join onto the upload directory.
func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, base)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
