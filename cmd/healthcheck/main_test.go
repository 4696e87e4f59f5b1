package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCheck(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    int
	}{
		{
			name: "healthy",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"status": "ok"}`))
			},
			want: 0,
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			},
			want: 1,
		},
		{
			name: "redirect to healthy endpoint",
			handler: func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path == "/health" {
					http.Redirect(w, r, "/health/", http.StatusMovedPermanently)
					return
				}
				w.Write([]byte(`{"status": "ok"}`))
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			if got := check(server.Client(), server.URL+"/health"); got != tt.want {
				t.Errorf("check() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCheckTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	client := &http.Client{Timeout: 50 * time.Millisecond}
	if got := check(client, server.URL+"/health"); got != 1 {
		t.Errorf("check() = %d, want 1 on timeout", got)
	}
}

func TestCheckConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	target := server.URL + "/health"
	server.Close()

	if got := check(&http.Client{Timeout: time.Second}, target); got != 1 {
		t.Errorf("check() = %d, want 1 when nothing listens", got)
	}
}
