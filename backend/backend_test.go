package backend

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/sirupsen/logrus"
)

func testSession(t *testing.T) (*scs.SessionManager, context.Context) {
	t.Helper()
	session := scs.New()
	ctx, err := session.Load(context.Background(), "")
	if err != nil {
		t.Fatalf("loading test session: %v", err)
	}
	return session, ctx
}

func testClient(url string, session *scs.SessionManager) *Client {
	log := logrus.New()
	log.SetOutput(io.Discard)

	return New(Config{
		URL:            url,
		Timeout:        2 * time.Second,
		BreakerHalfMax: 1,
		BreakerCool:    time.Second,
		Session:        session,
		Log:            log,
	})
}

// unsignedToken builds a JWT-shaped token whose exp claim is readable
// without verification.
func unsignedToken(exp time.Time) string {
	enc := func(v interface{}) string {
		b, _ := json.Marshal(v)
		return base64.RawURLEncoding.EncodeToString(b)
	}

	header := enc(map[string]string{"alg": "none", "typ": "JWT"})
	claims := enc(map[string]int64{"exp": exp.Unix()})
	return header + "." + claims + "."
}

func TestRetryAfterRefreshOn401(t *testing.T) {
	var gets, refreshes int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/things/":
			gets++
			if r.Header.Get("Authorization") != "Bearer fresh" {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"detail":"token expired"}`))
				return
			}
			w.Write([]byte(`{"ok":true}`))
		case "/auth/token/refresh/":
			refreshes++
			w.Write([]byte(`{"access":"fresh"}`))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	session, ctx := testSession(t)
	c := testClient(srv.URL, session)

	// a stale but far-from-expiry access token, so the proactive refresh
	// stays out of the way and the 401 path does the work
	session.Put(ctx, accessKey, unsignedToken(time.Now().Add(time.Hour)))
	session.Put(ctx, refreshKey, "refresh-token")

	var out struct {
		OK bool `json:"ok"`
	}
	if err := c.Get(ctx, "/things/", &out); err != nil {
		t.Fatal(err)
	}

	if !out.OK {
		t.Fatal("expected decoded response after retry")
	}
	if gets != 2 || refreshes != 1 {
		t.Fatalf("expected 2 gets and 1 refresh, got %d and %d", gets, refreshes)
	}
	if got := session.GetString(ctx, accessKey); got != "fresh" {
		t.Fatalf("expected refreshed access token in session, got %q", got)
	}
}

func TestProactiveRefreshBeforeExpiry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/things/":
			if got := r.Header.Get("Authorization"); got != "Bearer fresh" {
				t.Fatalf("expected refreshed bearer on first attempt, got %q", got)
			}
			w.Write([]byte(`{}`))
		case "/auth/token/refresh/":
			w.Write([]byte(`{"access":"fresh"}`))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	session, ctx := testSession(t)
	c := testClient(srv.URL, session)

	session.Put(ctx, accessKey, unsignedToken(time.Now().Add(5*time.Second)))
	session.Put(ctx, refreshKey, "refresh-token")

	if err := c.Get(ctx, "/things/", nil); err != nil {
		t.Fatal(err)
	}
}

func TestAPIErrorDecoding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing/":
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"detail":"Not found."}`))
		case "/invalid/":
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte(`{"errors":{"name":["This field is required."]}}`))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := testClient(srv.URL, nil)

	err := c.Get(context.Background(), "/missing/", nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusNotFound || apiErr.Detail != "Not found." {
		t.Fatalf("unexpected error contents: %+v", apiErr)
	}

	err = c.Post(context.Background(), "/invalid/", map[string]string{}, nil)
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("unexpected status: %d", apiErr.StatusCode)
	}
	if _, ok := apiErr.Errors["name"]; !ok {
		t.Fatalf("expected field errors, got %+v", apiErr.Errors)
	}
}

func TestBreakerOpensAfterRepeatedFailures(t *testing.T) {
	// a server that is already gone
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := testClient(url, nil)

	var last error
	for i := 0; i < 10; i++ {
		last = c.Get(context.Background(), "/things/", nil)
		if last == nil {
			t.Fatal("expected every call to fail")
		}
	}

	if !errors.Is(last, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable once the breaker opened, got %v", last)
	}
}

func TestExpiringSoon(t *testing.T) {
	cases := []struct {
		name  string
		token string
		want  bool
	}{
		{"far future", unsignedToken(time.Now().Add(time.Hour)), false},
		{"already expired", unsignedToken(time.Now().Add(-time.Hour)), true},
		{"inside leeway", unsignedToken(time.Now().Add(10 * time.Second)), true},
		{"garbage", "not-a-token", true},
	}

	for _, tc := range cases {
		if got := expiringSoon(tc.token); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}
