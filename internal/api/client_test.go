package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/desertthunder/catalogctl/internal/shared"
	tu "github.com/desertthunder/catalogctl/internal/testing"
)

// memTokens is an in-memory TokenStore for client tests.
type memTokens struct {
	mu       sync.Mutex
	access   string
	refresh  string
	setCalls int
}

func (m *memTokens) AccessToken() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.access, m.access != ""
}

func (m *memTokens) RefreshToken() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.refresh, m.refresh != ""
}

func (m *memTokens) SetAccessToken(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access = token
	m.setCalls++
	return nil
}

func writeEnvelope(w http.ResponseWriter, httpStatus int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	json.NewEncoder(w).Encode(env)
}

func okEnvelope(data string) Envelope {
	return Envelope{StatusCode: 200, Message: "OK", Data: json.RawMessage(data), Success: true}
}

func refreshHandler(t *testing.T, calls *int32, newToken string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		if _, err := r.Cookie("refresh_token"); err != nil {
			writeEnvelope(w, http.StatusUnauthorized, Envelope{StatusCode: 401, Message: "missing refresh token"})
			return
		}
		writeEnvelope(w, http.StatusOK, okEnvelope(fmt.Sprintf(`{"accessToken":%q}`, newToken)))
	}
}

func TestClientBearerInjection(t *testing.T) {
	t.Run("AttachesStoredToken", func(t *testing.T) {
		var gotAuth string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			writeEnvelope(w, http.StatusOK, okEnvelope(`{}`))
		}))
		defer server.Close()

		client := New(Options{BaseURL: server.URL, Tokens: &memTokens{access: "t1"}})
		if err := client.Get(context.Background(), "/admin/tracks", nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotAuth != "Bearer t1" {
			t.Errorf("expected bearer header, got %q", gotAuth)
		}
	})

	t.Run("NoHeaderWithoutToken", func(t *testing.T) {
		var gotAuth string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			writeEnvelope(w, http.StatusOK, okEnvelope(`{}`))
		}))
		defer server.Close()

		client := New(Options{BaseURL: server.URL, Tokens: &memTokens{}})
		if err := client.Get(context.Background(), "/auth/login", nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotAuth != "" {
			t.Errorf("expected no authorization header, got %q", gotAuth)
		}
	})
}

func TestClientRequestBodies(t *testing.T) {
	t.Run("MarshalsJSON", func(t *testing.T) {
		var gotBody string
		var gotType string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			data, _ := io.ReadAll(r.Body)
			gotBody = string(data)
			gotType = r.Header.Get("Content-Type")
			writeEnvelope(w, http.StatusOK, okEnvelope(`{}`))
		}))
		defer server.Close()

		client := New(Options{BaseURL: server.URL, Tokens: &memTokens{access: "t"}})
		body := map[string]string{"name": "Kid A"}
		if err := client.Post(context.Background(), "/admin/albums", body, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotType != "application/json" {
			t.Errorf("expected JSON content type, got %q", gotType)
		}
		if gotBody != `{"name":"Kid A"}` {
			t.Errorf("unexpected body: %s", gotBody)
		}
	})

	t.Run("RawBytesPassThrough", func(t *testing.T) {
		var gotBody string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			data, _ := io.ReadAll(r.Body)
			gotBody = string(data)
			writeEnvelope(w, http.StatusOK, okEnvelope(`{}`))
		}))
		defer server.Close()

		client := New(Options{BaseURL: server.URL, Tokens: &memTokens{access: "t"}})
		raw := []byte(`{"already":"encoded"}`)
		if err := client.Post(context.Background(), "/admin/tracks", raw, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotBody != `{"already":"encoded"}` {
			t.Errorf("unexpected body: %s", gotBody)
		}
	})
}

func TestClientRetryAfterRefresh(t *testing.T) {
	var refreshCalls int32
	var protectedCalls int32

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", refreshHandler(t, &refreshCalls, "new"))
	mux.HandleFunc("/admin/tracks", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&protectedCalls, 1)
		if r.Header.Get("Authorization") != "Bearer new" {
			writeEnvelope(w, http.StatusUnauthorized, Envelope{StatusCode: 401, Message: "token expired"})
			return
		}
		writeEnvelope(w, http.StatusOK, okEnvelope(`[{"id":1,"name":"Airbag"}]`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	tokens := &memTokens{access: "old", refresh: "r1"}
	client := New(Options{BaseURL: server.URL, Tokens: tokens})

	var out []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	if err := client.Get(context.Background(), "/admin/tracks", &out); err != nil {
		t.Fatalf("expected transparent retry to succeed, got %v", err)
	}

	if len(out) != 1 || out[0].Name != "Airbag" {
		t.Errorf("unexpected payload: %+v", out)
	}
	if got := atomic.LoadInt32(&refreshCalls); got != 1 {
		t.Errorf("expected 1 refresh call, got %d", got)
	}
	if got := atomic.LoadInt32(&protectedCalls); got != 2 {
		t.Errorf("expected original request to be sent twice, got %d", got)
	}

	access, _ := tokens.AccessToken()
	if access != "new" {
		t.Errorf("expected refreshed token persisted, got %q", access)
	}
}

func TestClientSecondRejectionIsTerminal(t *testing.T) {
	var refreshCalls int32
	var protectedCalls int32

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", refreshHandler(t, &refreshCalls, "new"))
	mux.HandleFunc("/admin/users", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&protectedCalls, 1)
		writeEnvelope(w, http.StatusUnauthorized, Envelope{StatusCode: 401, Message: "nope"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := New(Options{BaseURL: server.URL, Tokens: &memTokens{access: "old", refresh: "r1"}})

	err := client.Get(context.Background(), "/admin/users", nil)
	if !errors.Is(err, shared.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}

	if got := atomic.LoadInt32(&refreshCalls); got != 1 {
		t.Errorf("expected exactly 1 refresh attempt, got %d", got)
	}
	if got := atomic.LoadInt32(&protectedCalls); got != 2 {
		t.Errorf("expected exactly 2 attempts at the original request, got %d", got)
	}
}

func TestClientRefreshFailure(t *testing.T) {
	t.Run("RejectedRefresh", func(t *testing.T) {
		var protectedCalls int32

		mux := http.NewServeMux()
		mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, http.StatusUnauthorized, Envelope{StatusCode: 401, Message: "refresh token revoked"})
		})
		mux.HandleFunc("/admin/tracks", func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&protectedCalls, 1)
			writeEnvelope(w, http.StatusUnauthorized, Envelope{StatusCode: 401, Message: "token expired"})
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		client := New(Options{BaseURL: server.URL, Tokens: &memTokens{access: "old", refresh: "r1"}})

		var authFailures int32
		client.HandleAuthFailure(func() { atomic.AddInt32(&authFailures, 1) })

		err := client.Get(context.Background(), "/admin/tracks", nil)
		if !errors.Is(err, shared.ErrRefreshFailed) {
			t.Fatalf("expected ErrRefreshFailed, got %v", err)
		}
		if got := atomic.LoadInt32(&authFailures); got != 1 {
			t.Errorf("expected auth failure hook to fire once, got %d", got)
		}
		if got := atomic.LoadInt32(&protectedCalls); got != 1 {
			t.Errorf("expected no retry after failed refresh, got %d attempts", got)
		}
	})

	t.Run("NoRefreshToken", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, http.StatusUnauthorized, Envelope{StatusCode: 401, Message: "token expired"})
		}))
		defer server.Close()

		client := New(Options{BaseURL: server.URL, Tokens: &memTokens{access: "old"}})

		var authFailures int32
		client.HandleAuthFailure(func() { atomic.AddInt32(&authFailures, 1) })

		err := client.Get(context.Background(), "/admin/tracks", nil)
		if !errors.Is(err, shared.ErrRefreshFailed) {
			t.Fatalf("expected ErrRefreshFailed, got %v", err)
		}
		if got := atomic.LoadInt32(&authFailures); got != 1 {
			t.Errorf("expected auth failure hook to fire once, got %d", got)
		}
	})
}

func TestClientSingleFlightRefresh(t *testing.T) {
	const concurrent = 4

	var refreshCalls int32
	var firstWave int32
	gate := make(chan struct{})

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshCalls, 1)
		// Hold the refresh open until every request has been rejected once,
		// so all of them join the same cycle.
		<-gate
		writeEnvelope(w, http.StatusOK, okEnvelope(`{"accessToken":"new"}`))
	})
	mux.HandleFunc("/admin/tracks", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer new" {
			if atomic.AddInt32(&firstWave, 1) == concurrent {
				close(gate)
			}
			writeEnvelope(w, http.StatusUnauthorized, Envelope{StatusCode: 401, Message: "token expired"})
			return
		}
		writeEnvelope(w, http.StatusOK, okEnvelope(`[]`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	tokens := &memTokens{access: "old", refresh: "r1"}
	client := New(Options{BaseURL: server.URL, Tokens: tokens})

	var wg sync.WaitGroup
	errs := make([]error, concurrent)
	for i := 0; i < concurrent; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			errs[n] = client.Get(context.Background(), "/admin/tracks", nil)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("request %d failed: %v", i, err)
		}
	}
	if got := atomic.LoadInt32(&refreshCalls); got != 1 {
		t.Errorf("expected a single refresh for %d concurrent rejections, got %d", concurrent, got)
	}

	tokens.mu.Lock()
	setCalls := tokens.setCalls
	tokens.mu.Unlock()
	if setCalls != 1 {
		t.Errorf("expected a single token write, got %d", setCalls)
	}
}

func TestClientTransportError(t *testing.T) {
	t.Run("UnreachableServer", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close()

		client := New(Options{BaseURL: server.URL, Tokens: &memTokens{access: "t"}})
		if err := client.Get(context.Background(), "/admin/tracks", nil); err == nil {
			t.Fatal("expected error for unreachable server")
		}
	})

	t.Run("RoundTripFailure", func(t *testing.T) {
		rt := tu.NewMockRoundTripper(nil, errors.New("connection reset"))
		client := New(Options{
			HTTPClient: &http.Client{Transport: rt},
			Tokens:     &memTokens{access: "t"},
		})

		err := client.Get(context.Background(), "/admin/tracks", nil)
		if err == nil || !strings.Contains(err.Error(), "connection reset") {
			t.Fatalf("expected transport error to propagate, got %v", err)
		}
	})

	t.Run("BodyReadFailure", func(t *testing.T) {
		resp := &http.Response{StatusCode: http.StatusOK, Body: &tu.FCloser{}}
		client := New(Options{
			HTTPClient: &http.Client{Transport: tu.NewMockRoundTripper(resp, nil)},
			Tokens:     &memTokens{access: "t"},
		})

		err := client.Get(context.Background(), "/admin/tracks", nil)
		if err == nil || !strings.Contains(err.Error(), "failed to read response") {
			t.Fatalf("expected body read error, got %v", err)
		}
	})
}

func TestClientEnvelopeFailurePassesThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, Envelope{StatusCode: 404, Message: "Track not found"})
	}))
	defer server.Close()

	client := New(Options{BaseURL: server.URL, Tokens: &memTokens{access: "t"}})

	var apiErr *APIError
	err := client.Get(context.Background(), "/admin/tracks/99", nil)
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Message != "Track not found" {
		t.Errorf("expected envelope message, got %q", apiErr.Message)
	}
}
