// Package backend is the one gateway to the external commerce API. Every
// service wrapper in core/ goes through Client, which owns bearer-token
// injection, the refresh-and-retry dance on 401 and a circuit breaker so a
// dead backend fails fast instead of piling up storefront requests.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker/v2"
)

// ErrUnavailable reports that the circuit breaker is open and no request
// was attempted.
var ErrUnavailable = errors.New("commerce backend unavailable")

// APIError carries a non-2xx backend reply in the two shapes the backend
// produces: a field-error map or a single detail message.
type APIError struct {
	StatusCode int
	Detail     string
	Errors     map[string]interface{}
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend replied %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("backend replied %d", e.StatusCode)
}

type Client struct {
	base    string
	hc      *http.Client
	session *scs.SessionManager
	breaker *gobreaker.CircuitBreaker[*reply]
	log     logrus.FieldLogger
}

type reply struct {
	status int
	body   []byte
}

type Config struct {
	URL            string
	Timeout        time.Duration
	BreakerHalfMax uint32
	BreakerCool    time.Duration
	Session        *scs.SessionManager
	Log            logrus.FieldLogger
}

func New(cfg Config) *Client {
	settings := gobreaker.Settings{
		Name:        "commerce-backend",
		MaxRequests: cfg.BreakerHalfMax,
		Timeout:     cfg.BreakerCool,
	}

	return &Client{
		base:    strings.TrimRight(cfg.URL, "/"),
		hc:      &http.Client{Timeout: cfg.Timeout},
		session: cfg.Session,
		breaker: gobreaker.NewCircuitBreaker[*reply](settings),
		log:     cfg.Log,
	}
}

func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	return c.roundTrip(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, in, out interface{}) error {
	return c.roundTrip(ctx, http.MethodPost, path, in, out)
}

func (c *Client) Put(ctx context.Context, path string, in, out interface{}) error {
	return c.roundTrip(ctx, http.MethodPut, path, in, out)
}

func (c *Client) Patch(ctx context.Context, path string, in, out interface{}) error {
	return c.roundTrip(ctx, http.MethodPatch, path, in, out)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.roundTrip(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) roundTrip(ctx context.Context, method, path string, in, out interface{}) error {
	var payload []byte
	if in != nil {
		var err error
		if payload, err = json.Marshal(in); err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
	}

	token := c.bearer(ctx)

	rep, err := c.send(ctx, method, path, payload, token)
	if err != nil {
		return err
	}

	// One retry after a refresh, mirroring what the storefront client
	// used to do in its response interceptor.
	if rep.status == http.StatusUnauthorized && c.session != nil {
		fresh, rerr := c.refreshAccess(ctx)
		if rerr != nil {
			c.clearTokens(ctx)
			return decodeAPIError(rep)
		}

		if rep, err = c.send(ctx, method, path, payload, fresh); err != nil {
			return err
		}
	}

	if rep.status < 200 || rep.status > 299 {
		return decodeAPIError(rep)
	}

	if out != nil && len(rep.body) > 0 {
		if err := json.Unmarshal(rep.body, out); err != nil {
			return fmt.Errorf("unmarshaling backend response: %w", err)
		}
	}

	return nil
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte, token string) (*reply, error) {
	rep, err := c.breaker.Execute(func() (*reply, error) {
		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
		if err != nil {
			return nil, fmt.Errorf("building backend request: %w", err)
		}

		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}

		res, err := c.hc.Do(req)
		if err != nil {
			return nil, fmt.Errorf("calling backend %s %s: %w", method, path, err)
		}
		defer res.Body.Close()

		b, err := io.ReadAll(res.Body)
		if err != nil {
			return nil, fmt.Errorf("reading backend response: %w", err)
		}

		return &reply{status: res.StatusCode, body: b}, nil
	})

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, ErrUnavailable
		}
		return nil, err
	}

	return rep, nil
}

func decodeAPIError(rep *reply) error {
	apiErr := &APIError{StatusCode: rep.status}

	var envelope struct {
		Detail string                 `json:"detail"`
		Errors map[string]interface{} `json:"errors"`
	}
	if err := json.Unmarshal(rep.body, &envelope); err == nil {
		apiErr.Detail = envelope.Detail
		apiErr.Errors = envelope.Errors
	}

	return apiErr
}
