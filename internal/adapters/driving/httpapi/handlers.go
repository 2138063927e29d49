package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
)

// maxBodyBytes bounds request bodies; they only carry paths and questions.
const maxBodyBytes = 1 << 20

// ProcessRequest is the body of POST /documents.
type ProcessRequest struct {
	Path  string   `json:"path,omitempty"`
	Paths []string `json:"paths,omitempty"`
}

// ProcessReport describes one file of POST /documents.
type ProcessReport struct {
	Path       string `json:"path"`
	Success    bool   `json:"success"`
	Duplicate  bool   `json:"duplicate,omitempty"`
	DocumentID int64  `json:"document_id,omitempty"`
	Chunks     int    `json:"chunks,omitempty"`
	Error      string `json:"error,omitempty"`
}

// AskRequest is the body of POST /ask.
type AskRequest struct {
	Question     string `json:"question"`
	NoContext    bool   `json:"no_context,omitempty"`
	ExtraContext string `json:"extra_context,omitempty"`
}

// AskResponse is the body returned by POST /ask.
type AskResponse struct {
	ID          string    `json:"id"`
	Answer      string    `json:"answer"`
	ContextUsed bool      `json:"context_used"`
	Sources     []string  `json:"sources"`
	AskedAt     time.Time `json:"asked_at"`
}

// SearchResult is one entry of GET /search.
type SearchResult struct {
	Content        string  `json:"content"`
	SourceName     string  `json:"source_name"`
	DocumentID     int64   `json:"document_id"`
	ChunkIndex     int     `json:"chunk_index"`
	RelevanceScore float64 `json:"relevance_score"`
	Path           string  `json:"path"`
}

// StatsResponse is the body of GET /stats.
type StatsResponse struct {
	TotalDocuments int            `json:"total_documents"`
	TotalChunks    int            `json:"total_chunks"`
	FileTypes      map[string]int `json:"file_types"`
}

// DocumentResponse is one entry of GET /documents.
type DocumentResponse struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Format     string    `json:"format"`
	ChunkCount int       `json:"chunk_count"`
	IngestedAt time.Time `json:"ingested_at"`
}

// ErrorResponse is returned for every failed request.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok", "llm": "unavailable"}
	if s.assistant != nil {
		if err := s.assistant.Ready(r.Context()); err == nil {
			status["llm"] = "ok"
		}
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	var req ProcessRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	paths := req.Paths
	if p := strings.TrimSpace(req.Path); p != "" {
		paths = append([]string{p}, paths...)
	}
	if len(paths) == 0 {
		writeError(w, r, http.StatusBadRequest, "path is required")
		return
	}

	reports := s.knowledge.ProcessDocuments(r.Context(), paths, nil)
	out := make([]ProcessReport, len(reports))
	for i, rep := range reports {
		out[i] = ProcessReport{
			Path:       rep.Path,
			Success:    rep.OK,
			Duplicate:  rep.Duplicate,
			DocumentID: rep.DocumentID,
			Chunks:     rep.Chunks,
		}
		if rep.Err != nil {
			out[i].Error = rep.Err.Error()
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, r, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	results, err := s.knowledge.SearchKnowledge(r.Context(), query, limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	out := make([]SearchResult, len(results))
	for i := range results {
		out[i] = SearchResult{
			Content:        results[i].Content,
			SourceName:     results[i].SourceName,
			DocumentID:     results[i].DocumentID,
			ChunkIndex:     results[i].ChunkIndex,
			RelevanceScore: results[i].RelevanceScore,
			Path:           string(results[i].Path),
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	if s.assistant == nil {
		writeError(w, r, http.StatusServiceUnavailable, "no language model configured")
		return
	}

	var req AskRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	turn, err := s.assistant.Ask(r.Context(), req.Question, domain.AskOptions{
		UseContext:   !req.NoContext,
		ExtraContext: req.ExtraContext,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	sources := turn.Sources
	if sources == nil {
		sources = []string{}
	}
	writeJSON(w, http.StatusOK, AskResponse{
		ID:          turn.ID,
		Answer:      turn.Answer,
		ContextUsed: turn.ContextUsed,
		Sources:     sources,
		AskedAt:     turn.AskedAt,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.knowledge.GetDocumentStats(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, StatsResponse{
		TotalDocuments: stats.TotalDocuments,
		TotalChunks:    stats.TotalChunks,
		FileTypes:      stats.FileTypes,
	})
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.knowledge.ListDocuments(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := make([]DocumentResponse, len(docs))
	for i := range docs {
		out[i] = DocumentResponse{
			ID:         docs[i].ID,
			Name:       docs[i].Name,
			Format:     docs[i].Format.String(),
			ChunkCount: docs[i].ChunkCount,
			IngestedAt: docs[i].IngestedAt,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// handleClear empties the knowledge base. With an assistant the
// conversation is forgotten as well.
func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	var err error
	if s.assistant != nil {
		err = s.assistant.Reset(r.Context())
	} else {
		err = s.knowledge.ClearKnowledgeBase(r.Context())
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// fail maps domain errors to status codes.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("%s %s: %v", r.Method, r.URL.Path, err)
	}
	writeError(w, r, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, domain.ErrEmptyContent), errors.Is(err, domain.ErrExtraction):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrLLMUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.New("invalid JSON body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg, RequestID: RequestID(r.Context())})
}
