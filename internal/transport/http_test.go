package transport_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"stash-go/internal/config"
	"stash-go/internal/rest"
	"stash-go/internal/transport"
	"stash-go/internal/wire"
)

func TestTransport_Do_headersAndBody(t *testing.T) {
	t.Parallel()

	var gotReq *http.Request
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReq = r.Clone(context.Background())
		gotBody, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)

	tr := transport.New(srv.URL+"/", "app-1", "secret", 0)

	cmd := rest.Command{Method: http.MethodPost, Path: "/classes/Note", Body: []byte(`{"title":"x"}`)}
	raw, err := tr.Do(context.Background(), cmd)
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if string(raw) != `{}` {
		t.Errorf("body = %s", raw)
	}

	if gotReq.URL.Path != "/classes/Note" {
		t.Errorf("path = %q (trailing slash in base URL must not double up)", gotReq.URL.Path)
	}
	if got := gotReq.Header.Get("X-Stash-Application-Id"); got != "app-1" {
		t.Errorf("application id header = %q", got)
	}
	if got := gotReq.Header.Get("X-Stash-REST-API-Key"); got != "secret" {
		t.Errorf("api key header = %q", got)
	}
	if gotReq.Header.Get("X-Request-Id") == "" {
		t.Error("request id header missing")
	}
	if got := gotReq.Header.Get("Content-Type"); got != "application/json" {
		t.Errorf("content type = %q", got)
	}
	if string(gotBody) != `{"title":"x"}` {
		t.Errorf("request body = %s", gotBody)
	}
}

func TestTransport_Do_noKeyNoBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.Header["X-Stash-Rest-Api-Key"]; ok {
			t.Error("api key header must be absent when no key is configured")
		}
		if _, ok := r.Header["Content-Type"]; ok {
			t.Error("content type must be absent without a body")
		}
		w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)

	tr := transport.New(srv.URL, "app-1", "", 0)
	if _, err := tr.Do(context.Background(), rest.Command{Method: http.MethodGet, Path: "/classes/Note/abc"}); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
}

func TestTransport_Do_serverError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"code":101,"error":"object not found"}`))
	}))
	t.Cleanup(srv.Close)

	tr := transport.New(srv.URL, "app-1", "", 0)
	_, err := tr.Do(context.Background(), rest.Command{Method: http.MethodGet, Path: "/classes/Note/abc"})

	var werr *wire.Error
	if !errors.As(err, &werr) {
		t.Fatalf("expected *wire.Error, got %v", err)
	}
	if werr.Code != wire.CodeObjectNotFound || werr.Message != "object not found" {
		t.Errorf("decoded error = %+v", werr)
	}
}

func TestTransport_Do_nonJSONError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>bad gateway</html>"))
	}))
	t.Cleanup(srv.Close)

	tr := transport.New(srv.URL, "app-1", "", 0)
	_, err := tr.Do(context.Background(), rest.Command{Method: http.MethodGet, Path: "/classes/Note/abc"})

	var werr *wire.Error
	if errors.As(err, &werr) {
		t.Fatalf("non-JSON body must not decode as *wire.Error: %+v", werr)
	}
	if err == nil {
		t.Fatal("expected error for 502 response")
	}
}

func TestTransport_Do_contextCancel(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	t.Cleanup(srv.Close)

	tr := transport.New(srv.URL, "app-1", "", 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := tr.Do(ctx, rest.Command{Method: http.MethodGet, Path: "/classes/Note/abc"}); err == nil {
		t.Fatal("expected error for canceled context")
	}
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     *config.Config
		wantErr bool
	}{
		{"valid", &config.Config{ServerURL: "https://stash.example.com", ApplicationID: "app-1"}, false},
		{"missing server url", &config.Config{ApplicationID: "app-1"}, true},
		{"missing application id", &config.Config{ServerURL: "https://stash.example.com"}, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := transport.NewFromConfig(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewFromConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
