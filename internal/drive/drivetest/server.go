// Package drivetest provides an in-memory fake of the Google OAuth token endpoint
// and the subset of the Drive v3 REST API that drivecheck uses, for tests.
package drivetest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"testing"

	"google.golang.org/api/option"
)

// Operation keys accepted by Server.Fail.
const (
	OpToken            = "token"
	OpListFiles        = "files.list"
	OpGetFile          = "files.get"
	OpCreateFile       = "files.create"
	OpDeleteFile       = "files.delete"
	OpCreatePermission = "permissions.create"
	OpAbout            = "about.get"
)

const folderMimeType = "application/vnd.google-apps.folder"

var parentQuery = regexp.MustCompile(`^'((?:[^'\\]|\\.)*)' in parents$`)

// File is a stored Drive item.
type File struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	MimeType    string   `json:"mimeType"`
	Parents     []string `json:"parents,omitempty"`
	WebViewLink string   `json:"webViewLink,omitempty"`
	Owners      []Owner  `json:"owners,omitempty"`
}

// Owner is a file owner.
type Owner struct {
	DisplayName  string `json:"displayName,omitempty"`
	EmailAddress string `json:"emailAddress,omitempty"`
}

// Permission is a stored permission grant.
type Permission struct {
	ID     string `json:"id"`
	FileID string `json:"-"`
	Type   string `json:"type"`
	Role   string `json:"role"`
}

// Request is a recorded API call.
type Request struct {
	Op     string
	Method string
	Path   string
	Query  string
}

type failure struct {
	status  int
	message string
}

// Server is a fake token endpoint and Drive API.
type Server struct {
	*httptest.Server

	mu          sync.Mutex
	files       map[string]*File
	order       []string
	permissions []Permission
	requests    []Request
	failures    map[string]failure
	nextID      int

	// AccessToken and ExpiresIn (seconds) are returned by the token
	// endpoint. Set them before the first request.
	AccessToken string
	ExpiresIn   int

	user  Owner
	quota *Quota
}

// Quota is the storage quota in bytes. Zero Limit means unlimited.
type Quota struct {
	Limit int64
	Usage int64
}

// NewServer starts a fake server that is closed when the test ends.
func NewServer(t testing.TB) *Server {
	t.Helper()

	s := &Server{
		files:       map[string]*File{},
		failures:    map[string]failure{},
		AccessToken: "ya29.fake-access-token",
		ExpiresIn:   3599,
		user:        Owner{DisplayName: "Test User", EmailAddress: "test@example.com"},
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// TokenURL returns the URL of the fake OAuth token endpoint.
func (s *Server) TokenURL() string {
	return s.URL + "/token"
}

// ClientOptions point a Drive service at the fake API.
func (s *Server) ClientOptions() []option.ClientOption {
	return []option.ClientOption{option.WithEndpoint(s.URL + "/")}
}

// SetUser sets the account returned by about.get.
func (s *Server) SetUser(u Owner) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
}

// SetQuota sets the storage quota returned by about.get. Nil omits storageQuota.
func (s *Server) SetQuota(q *Quota) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quota = q
}

// AddFile stores a file and returns it.
func (s *Server) AddFile(f File) *File {
	s.mu.Lock()
	defer s.mu.Unlock()

	if f.ID == "" {
		f.ID = s.newID()
	}
	stored := f
	s.files[f.ID] = &stored
	s.order = append(s.order, f.ID)
	return &stored
}

// File returns a stored file by id.
func (s *Server) File(id string) (File, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.files[id]
	if !ok {
		return File{}, false
	}
	return *f, true
}

// FilesNamed returns stored files with the given name prefix.
func (s *Server) FilesNamed(prefix string) []File {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []File
	for _, id := range s.order {
		if f, ok := s.files[id]; ok && strings.HasPrefix(f.Name, prefix) {
			out = append(out, *f)
		}
	}
	return out
}

// Permissions returns all granted permissions.
func (s *Server) Permissions() []Permission {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Permission(nil), s.permissions...)
}

// Fail makes every call of op answer with the given HTTP status.
func (s *Server) Fail(op string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = failure{status: status, message: message}
}

// Requests returns the recorded calls in order.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Ops returns the operation keys of the recorded calls in order.
func (s *Server) Ops() []string {
	var ops []string
	for _, r := range s.Requests() {
		ops = append(ops, r.Op)
	}
	return ops
}

func (s *Server) newID() string {
	s.nextID++
	return "id-" + strconv.Itoa(s.nextID)
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	op, id := route(r)

	s.mu.Lock()
	s.requests = append(s.requests, Request{Op: op, Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery})
	fail, failing := s.failures[op]
	s.mu.Unlock()

	if op == "" {
		writeError(w, http.StatusNotFound, "unknown route "+r.Method+" "+r.URL.Path)
		return
	}

	if failing {
		if op == OpToken {
			writeJSON(w, fail.status, map[string]string{"error": "invalid_grant", "error_description": fail.message})
			return
		}
		writeError(w, fail.status, fail.message)
		return
	}

	switch op {
	case OpToken:
		s.token(w)
	case OpAbout:
		s.about(w)
	case OpListFiles:
		s.list(w, r)
	case OpGetFile:
		s.get(w, id)
	case OpCreateFile:
		s.create(w, r)
	case OpDeleteFile:
		s.delete(w, id)
	case OpCreatePermission:
		s.createPermission(w, r, id)
	}
}

func route(r *http.Request) (op, id string) {
	path := strings.Trim(r.URL.Path, "/")
	parts := strings.Split(path, "/")

	switch {
	case path == "token" && r.Method == http.MethodPost:
		return OpToken, ""
	case path == "about" && r.Method == http.MethodGet:
		return OpAbout, ""
	case path == "files" && r.Method == http.MethodGet:
		return OpListFiles, ""
	case path == "files" && r.Method == http.MethodPost:
		return OpCreateFile, ""
	case len(parts) == 2 && parts[0] == "files" && r.Method == http.MethodGet:
		return OpGetFile, parts[1]
	case len(parts) == 2 && parts[0] == "files" && r.Method == http.MethodDelete:
		return OpDeleteFile, parts[1]
	case len(parts) == 3 && parts[0] == "files" && parts[2] == "permissions" && r.Method == http.MethodPost:
		return OpCreatePermission, parts[1]
	}
	return "", ""
}

func (s *Server) token(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, map[string]any{
		"access_token": s.AccessToken,
		"token_type":   "Bearer",
		"expires_in":   s.ExpiresIn,
	})
}

func (s *Server) about(w http.ResponseWriter) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp := map[string]any{"user": s.user}
	if s.quota != nil {
		quota := map[string]string{"usage": strconv.FormatInt(s.quota.Usage, 10)}
		if s.quota.Limit > 0 {
			quota["limit"] = strconv.FormatInt(s.quota.Limit, 10)
		}
		resp["storageQuota"] = quota
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	parent := ""
	if q := r.URL.Query().Get("q"); q != "" {
		m := parentQuery.FindStringSubmatch(q)
		if m == nil {
			writeError(w, http.StatusBadRequest, "unsupported query: "+q)
			return
		}
		parent = strings.NewReplacer(`\'`, `'`, `\\`, `\`).Replace(m[1])
	}

	pageSize := 100
	if ps := r.URL.Query().Get("pageSize"); ps != "" {
		if n, err := strconv.Atoi(ps); err == nil && n > 0 {
			pageSize = n
		}
	}

	files := []File{}
	for _, id := range s.order {
		f, ok := s.files[id]
		if !ok {
			continue
		}
		if parent != "" && !contains(f.Parents, parent) {
			continue
		}
		files = append(files, File{ID: f.ID, Name: f.Name, MimeType: f.MimeType})
		if len(files) == pageSize {
			break
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"files": files})
}

func (s *Server) get(w http.ResponseWriter, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.files[id]
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("File not found: %s.", id))
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	var body File
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range body.Parents {
		if _, ok := s.files[p]; !ok {
			writeError(w, http.StatusNotFound, fmt.Sprintf("File not found: %s.", p))
			return
		}
	}

	body.ID = s.newID()
	if body.MimeType == folderMimeType {
		body.WebViewLink = "https://drive.google.com/drive/folders/" + body.ID
	}
	s.files[body.ID] = &body
	s.order = append(s.order, body.ID)
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) delete(w http.ResponseWriter, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.files[id]; !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("File not found: %s.", id))
		return
	}
	s.deleteTree(id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteTree(id string) {
	delete(s.files, id)
	for childID, f := range s.files {
		if contains(f.Parents, id) {
			s.deleteTree(childID)
		}
	}
}

func (s *Server) createPermission(w http.ResponseWriter, r *http.Request, fileID string) {
	var body Permission
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.files[fileID]; !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("File not found: %s.", fileID))
		return
	}

	body.ID = "perm-" + s.newID()
	body.FileID = fileID
	s.permissions = append(s.permissions, body)
	writeJSON(w, http.StatusOK, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{
			"code":    status,
			"message": message,
			"errors": []map[string]string{
				{"domain": "global", "reason": http.StatusText(status), "message": message},
			},
		},
	})
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
