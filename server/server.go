// Package server exposes outline extraction over HTTP.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tsawler/outline"
	"github.com/tsawler/outline/format"
	"github.com/tsawler/outline/layout"
	"github.com/tsawler/outline/model"
	"github.com/tsawler/outline/source"
)

// Options configures a Server.
type Options struct {
	Layout layout.Config

	// Budget is the per-document processing budget. Zero uses
	// outline.DefaultBudget; a negative budget disables it.
	Budget time.Duration

	MaxUploadBytes int64
}

// Server is the HTTP API.
type Server struct {
	router chi.Router
	log    *slog.Logger
	opts   Options
}

// New creates and configures the HTTP server.
func New(opts Options, log *slog.Logger) *Server {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if opts.Layout.DefaultBodySize == 0 {
		opts.Layout = layout.DefaultConfig()
	}
	if opts.Budget == 0 {
		opts.Budget = outline.DefaultBudget
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 50 << 20
	}
	s := &Server{log: log, opts: opts}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)
	r.Post("/v1/outline", s.handleOutline)

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// handleOutline accepts a multipart upload in the "file" field and responds
// with the outline. Documents that fail to process get the fallback
// outline with status 200.
func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes+1<<20) // form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, "request too large", http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	data, err := io.ReadAll(io.LimitReader(file, s.opts.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.opts.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.opts.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	// Corrupt containers are still outlined, with the fallback result
	if f, err := source.Detect(data, filename); err == nil && f == format.Unknown {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	log := s.log.With("request_id", middleware.GetReqID(r.Context()), "file", filename)
	result, err := outline.FromReader(bytes.NewReader(data), filename).
		Config(s.opts.Layout).
		Budget(s.opts.Budget).
		Context(r.Context()).
		Logger(log).
		Outline()
	if err != nil {
		log.Warn("using fallback outline", "reason", err.Error())
		result = model.Fallback(filename)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := outline.EncodeJSON(w, result); err != nil {
		log.Error("encode response", "error", err)
	}
}

// sanitizeFilename keeps only the base name of an uploaded file
func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" {
		return ""
	}
	return name
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
