// Package test runs the whole API against a fake commerce backend and a
// throwaway Postgres container for cart storage.
package test

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/jmoiron/sqlx"
	"github.com/ory/dockertest/v3"
	"github.com/pbrandao/varejo/api"
	"github.com/pbrandao/varejo/backend"
	"github.com/pbrandao/varejo/cep"
	"github.com/pbrandao/varejo/config"
	"github.com/pbrandao/varejo/core/cart"
	"github.com/pbrandao/varejo/database"
	"github.com/sirupsen/logrus"
)

type TestEnv struct {
	t       *testing.T
	URL     string
	Backend *FakeBackend
	DB      *sqlx.DB
	client  *http.Client
}

// NewTestEnv wires the real router over a fake commerce backend and a
// dockerized Postgres holding the carts. Skips when docker is not around.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	db := startPostgres(t)

	fake := NewFakeBackend(t)
	t.Cleanup(fake.Close)

	log := logrus.New()
	log.SetOutput(io.Discard)

	session := scs.New()
	session.Lifetime = time.Hour

	bk := backend.New(backend.Config{
		URL:            fake.URL(),
		Timeout:        5 * time.Second,
		BreakerHalfMax: 1,
		BreakerCool:    time.Second,
		Session:        session,
		Log:            log,
	})

	carts := cart.NewStores(cart.Config{
		Storage:        cart.NewPostgres(db),
		RequireVariant: true,
		Log:            log,
	})

	mux := api.APIMux(api.APIConfig{
		Log:     log,
		Session: session,
		Backend: bk,
		Carts:   carts,
		CEP:     cep.NewClient(),
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("building cookie jar: %v", err)
	}

	return &TestEnv{
		t:       t,
		URL:     srv.URL,
		Backend: fake,
		DB:      db,
		client:  &http.Client{Jar: jar},
	}
}

func startPostgres(t *testing.T) *sqlx.DB {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("docker not available: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("docker not available: %v", err)
	}

	res, err := pool.Run("postgres", "15-alpine", []string{
		"POSTGRES_USER=postgres",
		"POSTGRES_PASSWORD=postgres",
		"POSTGRES_DB=varejo",
	})
	if err != nil {
		t.Fatalf("starting postgres container: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(res) })

	cfg := config.DB{
		User:       "postgres",
		Password:   "postgres",
		Host:       "localhost:" + res.GetPort("5432/tcp"),
		Name:       "varejo",
		DisableTLS: true,
	}

	var db *sqlx.DB
	if err := pool.Retry(func() error {
		var err error
		if db, err = database.Open(cfg); err != nil {
			return err
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connecting to postgres container: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrating cart schema: %v", err)
	}

	return db
}

// Do sends a JSON request through the env's cookie-holding client and
// decodes the answer when out is non-nil. It returns the status code.
func (env *TestEnv) Do(method, path string, in, out interface{}) int {
	env.t.Helper()

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			env.t.Fatalf("marshaling request: %v", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, env.URL+path, body)
	if err != nil {
		env.t.Fatalf("building request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := env.client.Do(req)
	if err != nil {
		env.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer res.Body.Close()

	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil && err != io.EOF {
			env.t.Fatalf("decoding %s %s response: %v", method, path, err)
		}
	}

	return res.StatusCode
}

func (env *TestEnv) Register(email, password string) {
	env.t.Helper()

	in := map[string]string{
		"username":  email,
		"email":     email,
		"password":  password,
		"password2": password,
	}
	if status := env.Do(http.MethodPost, "/auth/register", in, nil); status != http.StatusCreated {
		env.t.Fatalf("register answered status %d", status)
	}
}

func (env *TestEnv) Login(email, password string) {
	env.t.Helper()

	in := map[string]string{"email": email, "password": password}
	if status := env.Do(http.MethodPost, "/auth/login", in, nil); status != http.StatusOK {
		env.t.Fatalf("login answered status %d", status)
	}
}

// signedEnough builds a JWT-shaped token carrying a readable exp claim;
// nothing in the gateway verifies signatures.
func signedEnough(exp time.Time) string {
	enc := func(v interface{}) string {
		b, _ := json.Marshal(v)
		return base64.RawURLEncoding.EncodeToString(b)
	}
	header := enc(map[string]string{"alg": "none", "typ": "JWT"})
	claims := enc(map[string]int64{"exp": exp.Unix()})
	return fmt.Sprintf("%s.%s.", header, claims)
}
