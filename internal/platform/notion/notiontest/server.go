// Package notiontest provides an in-memory Notion API for tests.
package notiontest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	jsoniter "github.com/json-iterator/go"

	"bookregistry/internal/platform/notion"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Request is a call received by the fake server.
type Request struct {
	Method string
	Path   string
}

type failure struct {
	status  int
	code    string
	message string
}

// Server keeps databases and pages in memory and answers the subset of the
// Notion API used by this module. Databases are returned by search in the
// order they were added.
type Server struct {
	*httptest.Server

	// Token, when set, must be presented as the bearer credential.
	Token string

	mu        sync.Mutex
	databases []string
	pages     []*notion.Page
	requests  []Request
	failures  map[string]failure
	nextID    int
}

func NewServer(t testing.TB) *Server {
	s := &Server{failures: make(map[string]failure)}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/search", s.search)
	mux.HandleFunc("POST /v1/databases/{id}/query", s.query)
	mux.HandleFunc("POST /v1/pages", s.createPage)
	mux.HandleFunc("PATCH /v1/pages/{id}", s.updatePage)

	s.Server = httptest.NewServer(s.middleware(mux))
	t.Cleanup(s.Close)
	return s
}

// Config returns a client configuration pointing at the fake server.
func (s *Server) Config() notion.Config {
	return notion.Config{BaseURL: s.URL, HTTPClient: s.Client()}
}

func (s *Server) AddDatabase(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.databases = append(s.databases, id)
}

// AddPage stores a row directly, bypassing the API, and returns its id.
func (s *Server) AddPage(databaseID string, props *notion.Properties) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insert(databaseID, props, nil).ID
}

// Fail makes every request matching "METHOD /path" answer with the given error.
func (s *Server) Fail(route string, status int, code, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = failure{status: status, code: code, message: message}
}

// Pages returns copies of all stored rows in insertion order.
func (s *Server) Pages() []notion.Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]notion.Page, len(s.pages))
	for i, p := range s.pages {
		out[i] = *p
	}
	return out
}

func (s *Server) Page(id string) (notion.Page, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.pages {
		if p.ID == id {
			return *p, true
		}
	}
	return notion.Page{}, false
}

// Requests returns every request received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// CountRequests counts received requests by method and path prefix.
func (s *Server) CountRequests(method, pathPrefix string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method && strings.HasPrefix(r.Path, pathPrefix) {
			n++
		}
	}
	return n
}

func (s *Server) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, Request{Method: r.Method, Path: r.URL.Path})
		token := s.Token
		f, failing := s.failures[r.Method+" "+r.URL.Path]
		s.mu.Unlock()

		if token != "" && r.Header.Get("Authorization") != "Bearer "+token {
			writeError(w, http.StatusUnauthorized, "unauthorized", "API token is invalid.")
			return
		}
		if r.Header.Get("Notion-Version") == "" {
			writeError(w, http.StatusBadRequest, "missing_version", "Notion-Version header failed validation.")
			return
		}
		if failing {
			writeError(w, f.status, f.code, f.message)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	var req notion.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	s.mu.Lock()
	results := make([]notion.Object, 0, len(s.databases))
	if req.Filter == nil || req.Filter.Value == "database" {
		for _, id := range s.databases {
			results = append(results, notion.Object{Object: "database", ID: id})
		}
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, notion.SearchResponse{Object: "list", Results: results})
}

func (s *Server) query(w http.ResponseWriter, r *http.Request) {
	dbID := r.PathValue("id")
	var req notion.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasDatabase(dbID) {
		writeError(w, http.StatusNotFound, "object_not_found", "Could not find database with ID: "+dbID)
		return
	}

	results := []notion.Page{}
	for _, p := range s.pages {
		if p.Parent == nil || p.Parent.DatabaseID != dbID {
			continue
		}
		if req.Filter != nil && req.Filter.RichText != nil {
			v, ok := p.Properties.Get(req.Filter.Property)
			if !ok || v.PlainText() != req.Filter.RichText.Equals {
				continue
			}
		}
		results = append(results, *p)
	}
	writeJSON(w, http.StatusOK, notion.QueryResponse{Object: "list", Results: results})
}

func (s *Server) createPage(w http.ResponseWriter, r *http.Request) {
	var req notion.CreatePageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasDatabase(req.Parent.DatabaseID) {
		writeError(w, http.StatusNotFound, "object_not_found", "Could not find database with ID: "+req.Parent.DatabaseID)
		return
	}

	page := s.insert(req.Parent.DatabaseID, req.Properties, req.Icon)
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) updatePage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req notion.UpdatePageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.pages {
		if p.ID != id {
			continue
		}
		if req.Properties != nil {
			p.Properties.Merge(req.Properties)
		}
		if req.Icon != nil {
			p.Icon = req.Icon
		}
		writeJSON(w, http.StatusOK, p)
		return
	}
	writeError(w, http.StatusNotFound, "object_not_found", "Could not find page with ID: "+id)
}

func (s *Server) hasDatabase(id string) bool {
	for _, db := range s.databases {
		if db == id {
			return true
		}
	}
	return false
}

func (s *Server) insert(databaseID string, props *notion.Properties, icon *notion.Icon) *notion.Page {
	s.nextID++
	if props == nil {
		props = notion.NewProperties()
	}
	stored := notion.NewProperties()
	stored.Merge(props)

	page := &notion.Page{
		Object:     "page",
		ID:         fmt.Sprintf("page-%d", s.nextID),
		Parent:     &notion.Parent{DatabaseID: databaseID},
		Icon:       icon,
		Properties: stored,
	}
	s.pages = append(s.pages, page)
	return page
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]interface{}{
		"object":  "error",
		"status":  status,
		"code":    code,
		"message": message,
	})
}
