package server

import (
	"encoding/json"
	"net/http"
	"os"

	"videonote/internal/logger"
	"videonote/internal/moments"
	"videonote/internal/notes"
	"videonote/internal/pipeline"
)

// Server is the thin, stateless request layer in front of the pipeline.
type Server struct {
	pipe  *pipeline.Pipeline
	probe pipeline.ProbeFunc
	log   logger.Logger
}

func New(pipe *pipeline.Pipeline, probe pipeline.ProbeFunc, log logger.Logger) *Server {
	return &Server{pipe: pipe, probe: probe, log: log}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /analyze_video", s.handleAnalyze)
	mux.HandleFunc("GET /video_info", s.handleVideoInfo)
	return mux
}

type analyzeRequest struct {
	VideoPath    string `json:"video_path"`
	SubtitleText string `json:"subtitle_text"`
	APIKey       string `json:"api_key"`
	Style        string `json:"style"`
	BaseURL      string `json:"base_url"`
	Model        string `json:"model"`
}

type analyzeResponse struct {
	Success bool         `json:"success"`
	Data    []notes.Note `json:"data"`
	Error   string       `json:"error,omitempty"`
	Code    string       `json:"code,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "videonote backend is running",
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, analyzeResponse{
			Data: []notes.Note{}, Error: "invalid request body: " + err.Error(),
		})
		return
	}

	if _, err := os.Stat(req.VideoPath); err != nil {
		writeJSON(w, http.StatusBadRequest, analyzeResponse{
			Data: []notes.Note{}, Error: "video file not found: " + req.VideoPath,
		})
		return
	}

	style, err := moments.ParseStyle(req.Style)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, analyzeResponse{
			Data: []notes.Note{}, Error: err.Error(),
		})
		return
	}

	result, err := s.pipe.Synthesize(r.Context(), pipeline.Request{
		VideoPath:    req.VideoPath,
		SubtitleText: req.SubtitleText,
		Style:        style,
		Model: moments.ModelConfig{
			APIKey:  req.APIKey,
			BaseURL: req.BaseURL,
			Model:   req.Model,
		},
	})
	if err != nil {
		s.log.Error(r.Context(), "analyze failed: %v", err)
		writeJSON(w, http.StatusOK, analyzeResponse{
			Data:  []notes.Note{},
			Error: err.Error(),
			Code:  string(pipeline.CodeOf(err)),
		})
		return
	}

	writeJSON(w, http.StatusOK, analyzeResponse{Success: true, Data: result})
}

func (s *Server) handleVideoInfo(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false, "error": "missing path parameter",
		})
		return
	}
	if _, err := os.Stat(path); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false, "error": "video file not found: " + path,
		})
		return
	}

	info, err := s.probe(r.Context(), path)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"success": false, "error": err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data": map[string]interface{}{
			"duration":           info.Duration,
			"duration_formatted": info.DurationFormatted(),
			"fps":                info.FPS,
			"width":              info.Width,
			"height":             info.Height,
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
