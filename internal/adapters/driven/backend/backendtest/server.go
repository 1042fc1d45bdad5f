// Package backendtest serves the review backend's REST contract in memory
// for adapter and end-to-end tests.
package backendtest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/custodia-labs/reviewdesk/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/reviewdesk/internal/core/domain"
)

// Server is a fake backend backed by memory.Backend.
type Server struct {
	*httptest.Server

	// Backend holds the served state. Tests seed it directly.
	Backend *memory.Backend

	mu       sync.Mutex
	token    string
	failWith int
	requests []string
}

// Option configures a Server.
type Option func(*Server)

// WithToken requires "Authorization: Bearer <token>" on every request.
func WithToken(token string) Option {
	return func(s *Server) { s.token = token }
}

// New starts a fake backend. Close it with t.Cleanup(srv.Close).
func New(opts ...Option) *Server {
	s := &Server{Backend: memory.NewBackend()}
	for _, opt := range opts {
		opt(s)
	}
	s.Server = httptest.NewServer(s.routes())
	return s
}

// FailWith makes every following request answer with status. 0 restores
// normal behaviour.
func (s *Server) FailWith(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWith = status
}

// Requests returns "METHOD /path" for every request received.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.intercept)

	r.Route("/documents", func(r chi.Router) {
		r.Get("/companies", s.listCompanies)
		r.Post("/company", s.createCompany)
		r.Delete("/company/{id}", s.deleteCompany)
		r.Post("/upload/{id}", s.uploadDocument)
		r.Delete("/document/{id}", s.deleteDocument)
		r.Put("/chunk/{id}", s.updateChunk)
		r.Get("/{id}", s.listDocuments)
		r.Get("/{id}/chunks", s.listChunks)
	})

	r.Route("/review_criteria", func(r chi.Router) {
		r.Get("/criteria_groups", s.listGroups)
		r.Get("/criteria_groups/all", s.listGroupsWithClauses)
		r.Post("/criteria_groups", s.createGroup)
		r.Delete("/criteria_groups/{id}", s.deleteGroup)
		r.Post("/criteria_groups/{id}/clauses", s.createClause)
		r.Post("/criteria_groups/{id}/clauses/{clauseID}", s.attachClause)
		r.Delete("/criteria_groups/{id}/clauses/{clauseID}", s.detachClause)
		r.Get("/clauses", s.listClauses)
		r.Post("/clauses/generate_description", s.generateDescription)
		r.Put("/clauses/{id}", s.updateClause)
		r.Delete("/clauses/{id}", s.deleteClause)
	})

	r.Post("/reviews/{endpoint}", s.review)
	r.Post("/chat", s.chat)
	return r
}

func (s *Server) intercept(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, r.Method+" "+r.URL.Path)
		token, failWith := s.token, s.failWith
		s.mu.Unlock()

		if failWith != 0 {
			http.Error(w, http.StatusText(failWith), failWith)
			return
		}
		if token != "" && r.Header.Get("Authorization") != "Bearer "+token {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Wire shapes. IDs of companies and documents are sent as numbers when
// they parse as one, mirroring the real backend.

type company struct {
	ID   any    `json:"id"`
	Name string `json:"name"`
}

type document struct {
	ID        any    `json:"id"`
	CompanyID any    `json:"company_id"`
	Name      string `json:"name"`
	DocType   string `json:"doc_type"`
	Content   string `json:"content"`
}

type chunk struct {
	ID         string `json:"id"`
	DocumentID string `json:"document_id"`
	Content    string `json:"content"`
	Header     string `json:"header"`
}

type clause struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type group struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Clauses []clause `json:"clauses,omitempty"`
}

type quote struct {
	DocumentType string `json:"document_type"`
	Header       string `json:"header"`
	Content      string `json:"content"`
}

type clauseReview struct {
	ClauseName string  `json:"clause_name"`
	Quotes     []quote `json:"quotes"`
}

func toGroup(g domain.CriteriaGroup) group {
	out := group{ID: g.ID, Name: g.Name}
	for _, c := range g.Clauses {
		out.Clauses = append(out.Clauses, clause(c))
	}
	return out
}

func toDocument(d domain.Document) document {
	return document{ID: numeric(d.ID), CompanyID: numeric(d.CompanyID), Name: d.Name, DocType: d.DocType, Content: d.Content}
}

func numeric(id string) any {
	n := json.Number(id)
	if _, err := n.Int64(); err == nil {
		return n
	}
	return id
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyExists):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrInvalidInput):
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, map[string]string{"detail": err.Error()})
}

func data(v any) map[string]any {
	return map[string]any{"data": v}
}

func (s *Server) listCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := s.Backend.ListCompanies(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]company, 0, len(companies))
	for _, c := range companies {
		out = append(out, company{ID: numeric(c.ID), Name: c.Name})
	}
	writeJSON(w, http.StatusOK, data(out))
}

func (s *Server) createCompany(w http.ResponseWriter, r *http.Request) {
	c, err := s.Backend.CreateCompany(r.Context(), r.URL.Query().Get("company_name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, data(company{ID: numeric(c.ID), Name: c.Name}))
}

func (s *Server) deleteCompany(w http.ResponseWriter, r *http.Request) {
	if err := s.Backend.DeleteCompany(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}

func (s *Server) listDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.Backend.ListDocuments(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]document, 0, len(docs))
	for _, d := range docs {
		out = append(out, toDocument(d))
	}
	writeJSON(w, http.StatusOK, data(out))
}

func (s *Server) uploadDocument(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, errors.Join(domain.ErrInvalidInput, err))
		return
	}
	defer file.Close()
	body, err := io.ReadAll(file)
	if err != nil {
		writeError(w, err)
		return
	}
	upload := domain.Upload{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        body,
	}
	doc, err := s.Backend.UploadDocument(r.Context(), chi.URLParam(r, "id"), upload)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, data(toDocument(*doc)))
}

func (s *Server) deleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := s.Backend.DeleteDocument(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listChunks(w http.ResponseWriter, r *http.Request) {
	chunks, err := s.Backend.ListChunks(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]chunk, 0, len(chunks))
	for _, c := range chunks {
		out = append(out, chunk(c))
	}
	writeJSON(w, http.StatusOK, data(out))
}

func (s *Server) updateChunk(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Header string `json:"header"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, errors.Join(domain.ErrInvalidInput, err))
		return
	}
	if err := s.Backend.UpdateChunkHeader(r.Context(), chi.URLParam(r, "id"), body.Header); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "updated"})
}

func (s *Server) writeGroups(w http.ResponseWriter, groups []domain.CriteriaGroup) {
	out := make([]group, 0, len(groups))
	for _, g := range groups {
		out = append(out, toGroup(g))
	}
	writeJSON(w, http.StatusOK, map[string]any{"criteria_groups": out})
}

func (s *Server) listGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.Backend.ListCriteriaGroups(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	s.writeGroups(w, groups)
}

func (s *Server) listGroupsWithClauses(w http.ResponseWriter, r *http.Request) {
	groups, err := s.Backend.ListCriteriaGroupsWithClauses(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	s.writeGroups(w, groups)
}

func (s *Server) createGroup(w http.ResponseWriter, r *http.Request) {
	g, err := s.Backend.CreateCriteriaGroup(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"criteria_group": toGroup(*g)})
}

func (s *Server) deleteGroup(w http.ResponseWriter, r *http.Request) {
	if err := s.Backend.DeleteCriteriaGroup(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listClauses(w http.ResponseWriter, r *http.Request) {
	clauses, err := s.Backend.ListClauses(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]clause, 0, len(clauses))
	for _, c := range clauses {
		out = append(out, clause(c))
	}
	writeJSON(w, http.StatusOK, map[string]any{"clauses": out})
}

func (s *Server) createClause(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	c, err := s.Backend.CreateClause(r.Context(), chi.URLParam(r, "id"), q.Get("name"), q.Get("description"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"clause": clause(*c)})
}

func (s *Server) attachClause(w http.ResponseWriter, r *http.Request) {
	if err := s.Backend.AttachClause(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "clauseID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) detachClause(w http.ResponseWriter, r *http.Request) {
	if err := s.Backend.DetachClause(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "clauseID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) updateClause(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if err := s.Backend.UpdateClause(r.Context(), chi.URLParam(r, "id"), q.Get("name"), q.Get("description")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteClause(w http.ResponseWriter, r *http.Request) {
	if err := s.Backend.DeleteClause(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) generateDescription(w http.ResponseWriter, r *http.Request) {
	desc, err := s.Backend.GenerateDescription(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"description": desc})
}

func (s *Server) review(w http.ResponseWriter, r *http.Request) {
	endpoint := domain.ReviewEndpoint(chi.URLParam(r, "endpoint"))
	if !endpoint.IsValid() {
		http.NotFound(w, r)
		return
	}
	var body struct {
		IDs []string `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, errors.Join(domain.ErrInvalidInput, err))
		return
	}
	groupID := r.URL.Query().Get("review_criteria_group_id")
	result, err := s.Backend.Review(r.Context(), endpoint, groupID, body.IDs)
	if err != nil {
		writeError(w, err)
		return
	}

	if endpoint == domain.ReviewEndpointObject {
		type structured struct {
			ID             string   `json:"id"`
			Name           string   `json:"name"`
			Description    string   `json:"description"`
			RelevantChunks []string `json:"relevantChunks"`
		}
		out := make([]structured, 0, len(result))
		for _, cr := range result {
			item := structured{Name: cr.ClauseName, RelevantChunks: []string{}}
			for _, q := range cr.Quotes {
				item.RelevantChunks = append(item.RelevantChunks, q.Content)
			}
			out = append(out, item)
		}
		writeJSON(w, http.StatusOK, map[string]any{"clauses": out})
		return
	}

	out := make([]string, 0, len(result))
	for _, cr := range result {
		item := clauseReview{ClauseName: cr.ClauseName, Quotes: []quote{}}
		for _, q := range cr.Quotes {
			item.Quotes = append(item.Quotes, quote(q))
		}
		b, err := json.Marshal(item)
		if err != nil {
			writeError(w, err)
			return
		}
		out = append(out, string(b))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) chat(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var ids []string
	if raw := q.Get("document_ids"); raw != "" {
		ids = strings.Split(raw, ",")
	}
	reply, err := s.Backend.Chat(r.Context(), q.Get("query"), ids)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": reply})
}
