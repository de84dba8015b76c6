package main

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/goccy/go-json"
)

// fakeServer speaks the benchwrap auth and storage API and keeps uploads in
// memory. Refresh ids rotate on every exchange.
type fakeServer struct {
	*httptest.Server

	registerStatus int
	presignStatus  map[string]int

	mu       sync.Mutex
	issued   int
	refresh  string
	users    map[string]string
	objects  map[string][]byte
	calls    map[string]int
	putCalls atomic.Int32
}

func newFakeServer(t *testing.T) *fakeServer {
	t.Helper()
	s := &fakeServer{
		registerStatus: http.StatusCreated,
		presignStatus:  map[string]int{},
		users:          map[string]string{},
		objects:        map[string][]byte{},
		calls:          map[string]int{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/register", s.handleRegister)
	mux.HandleFunc("POST /auth/refresh", s.handleRefresh)
	mux.HandleFunc("POST /auth/password", s.handlePassword)
	mux.HandleFunc("POST /storage/presign/upload", s.handlePresign)
	mux.HandleFunc("PUT /bucket/", s.handlePut)

	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

func (s *fakeServer) count(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[name]
}

func (s *fakeServer) object(name string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[name]
	return data, ok
}

// issueLocked must be called with mu held.
func (s *fakeServer) issueLocked(w http.ResponseWriter, status int) {
	s.issued++
	s.refresh = fmt.Sprintf("refresh-%d", s.issued)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"access":"access-%d","refresh":%q}`, s.issued, s.refresh)
}

func (s *fakeServer) handleRegister(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls["register"]++

	if s.registerStatus != http.StatusCreated {
		http.Error(w, "username taken", s.registerStatus)
		return
	}

	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "bad body", http.StatusBadRequest)
		return
	}
	s.users[body.Username] = body.Password
	s.issueLocked(w, http.StatusCreated)
}

func (s *fakeServer) handleRefresh(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls["refresh"]++

	if rid := r.URL.Query().Get("rid"); rid == "" || rid != s.refresh {
		http.Error(w, "invalid refresh id", http.StatusUnauthorized)
		return
	}
	s.issueLocked(w, http.StatusOK)
}

func (s *fakeServer) handlePassword(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls["password"]++

	q := r.URL.Query()
	if pw, ok := s.users[q.Get("u")]; !ok || pw != q.Get("p") {
		http.Error(w, "bad credentials", http.StatusUnauthorized)
		return
	}
	s.issueLocked(w, http.StatusOK)
}

func (s *fakeServer) handlePresign(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls["presign"]++

	if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer access-") {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	name := r.URL.Query().Get("object_name")
	if code, ok := s.presignStatus[name]; ok {
		http.Error(w, "forbidden", code)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"url":%q}`, s.URL+"/bucket/"+name)
}

func (s *fakeServer) handlePut(w http.ResponseWriter, r *http.Request) {
	s.putCalls.Add(1)
	data, _ := io.ReadAll(r.Body)

	s.mu.Lock()
	s.objects[strings.TrimPrefix(r.URL.Path, "/bucket/")] = data
	s.mu.Unlock()
	w.WriteHeader(http.StatusOK)
}
