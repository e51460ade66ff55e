package qr

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRenderURL(t *testing.T) {
	c := New("https://render.example/qr", time.Second)

	tests := []struct {
		name    string
		payload string
		size    int
		want    string
	}{
		{
			name:    "plain payload",
			payload: "hello",
			size:    100,
			want:    "https://render.example/qr?size=100x100&data=hello",
		},
		{
			name:    "payment payload is escaped",
			payload: "DANA|ORDER:123456789012|FILM:Demon Slayer|AMOUNT:130000",
			size:    260,
			want:    "https://render.example/qr?size=260x260&data=DANA%7CORDER%3A123456789012%7CFILM%3ADemon+Slayer%7CAMOUNT%3A130000",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.RenderURL(tt.payload, tt.size); got != tt.want {
				t.Errorf("RenderURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderURLDeterministic(t *testing.T) {
	c := New("", time.Second)
	if c.BaseURL != DefaultBaseURL {
		t.Fatalf("BaseURL = %q, want default", c.BaseURL)
	}
	a := c.RenderURL("DANA|ORDER:111|FILM:X|AMOUNT:50000", 260)
	b := c.RenderURL("DANA|ORDER:111|FILM:X|AMOUNT:50000", 260)
	if a != b {
		t.Errorf("same payload produced different URLs: %q vs %q", a, b)
	}
}

func TestRender(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("data") == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	got, err := c.Render(context.Background(), "payload", 260)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if want := c.RenderURL("payload", 260); got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestRenderServiceErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	if _, err := c.Render(context.Background(), "payload", 260); !errors.Is(err, ErrUnavailable) {
		t.Errorf("5xx: error = %v, want ErrUnavailable", err)
	}

	// Unreachable host.
	srv.Close()
	if _, err := c.Render(context.Background(), "payload", 260); !errors.Is(err, ErrUnavailable) {
		t.Errorf("closed server: error = %v, want ErrUnavailable", err)
	}
}
