package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestToken_Set(t *testing.T) {
	t.Setenv(TokenEnvVar, "tok-123")

	tok, err := Token()
	if err != nil {
		t.Fatalf("Token(): unexpected error: %v", err)
	}
	if tok != "tok-123" {
		t.Errorf("Token(): got %q, want %q", tok, "tok-123")
	}
}

func TestToken_NoToken(t *testing.T) {
	t.Setenv(TokenEnvVar, "")

	if _, err := Token(); err == nil {
		t.Fatal("Token(): expected error when no token set, got nil")
	}
}

func TestTimeout(t *testing.T) {
	cases := []struct {
		env     string
		want    time.Duration
		wantErr bool
	}{
		{"", DefaultTimeout, false},
		{"45s", 45 * time.Second, false},
		{"2m", 2 * time.Minute, false},
		{"soon", 0, true},
		{"-1s", 0, true},
		{"0s", 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.env, func(t *testing.T) {
			t.Setenv(TimeoutEnvVar, tc.env)
			got, err := Timeout()
			if tc.wantErr {
				if err == nil {
					t.Fatalf("Timeout(%q): expected error", tc.env)
				}
				return
			}
			if err != nil {
				t.Fatalf("Timeout(%q): unexpected error: %v", tc.env, err)
			}
			if got != tc.want {
				t.Errorf("Timeout(%q) = %v, want %v", tc.env, got, tc.want)
			}
		})
	}
}

func TestNewHTTPClient_InvalidTimeout(t *testing.T) {
	t.Setenv(TimeoutEnvVar, "bogus")
	if _, err := NewHTTPClient(); err == nil {
		t.Fatal("NewHTTPClient(): expected error for invalid timeout")
	}
}

func TestNewHTTPClient_NoToken(t *testing.T) {
	t.Setenv(TokenEnvVar, "")
	t.Setenv(TimeoutEnvVar, "")

	client, err := NewHTTPClient()
	if err != nil {
		t.Fatalf("NewHTTPClient(): unexpected error: %v", err)
	}
	if client.Timeout != DefaultTimeout {
		t.Errorf("Timeout: got %v, want %v", client.Timeout, DefaultTimeout)
	}
	if client.Transport != nil {
		t.Errorf("Transport: got %T, want default transport", client.Transport)
	}
}

func TestNewHTTPClientWithTimeout(t *testing.T) {
	t.Setenv(TokenEnvVar, "tok")

	client, err := NewHTTPClientWithTimeout(5 * time.Second)
	if err != nil {
		t.Fatalf("NewHTTPClientWithTimeout(): unexpected error: %v", err)
	}
	if client.Timeout != 5*time.Second {
		t.Errorf("Timeout: got %v, want %v", client.Timeout, 5*time.Second)
	}
	if _, ok := client.Transport.(*tokenTransport); !ok {
		t.Errorf("Transport: got %T, want *tokenTransport", client.Transport)
	}
}

func TestTokenTransport_HTTPS(t *testing.T) {
	t.Parallel()
	ts := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization header: got %q, want %q", got, "Bearer test-token")
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	client := &http.Client{Transport: &tokenTransport{token: "test-token", base: ts.Client().Transport}}
	resp, err := client.Get(ts.URL)
	if err != nil {
		t.Fatalf("client.Get(): %v", err)
	}
	resp.Body.Close()
}

func TestTokenTransport_PlainHTTPNoToken(t *testing.T) {
	t.Parallel()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "" {
			t.Errorf("Authorization header sent over plain HTTP: %q", got)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	client := &http.Client{Transport: &tokenTransport{token: "test-token", base: http.DefaultTransport}}
	resp, err := client.Get(ts.URL)
	if err != nil {
		t.Fatalf("client.Get(): %v", err)
	}
	resp.Body.Close()
}

func TestTokenTransport_DoesNotMutateRequest(t *testing.T) {
	t.Parallel()
	ts := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	tr := &tokenTransport{token: "tok", base: ts.Client().Transport}
	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := tr.RoundTrip(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if req.Header.Get("Authorization") != "" {
		t.Error("original request was mutated")
	}
}
