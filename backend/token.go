package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
)

const (
	accessKey  = "backend_access_token"
	refreshKey = "backend_refresh_token"

	// refreshLeeway renews the access token slightly before it expires so
	// a request never leaves with a token that dies in flight.
	refreshLeeway = 30 * time.Second
)

// TokenPair is what the backend's login and refresh endpoints return.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// SetTokens caches a freshly issued pair in the caller's session.
func (c *Client) SetTokens(ctx context.Context, pair TokenPair) {
	if c.session == nil {
		return
	}
	c.session.Put(ctx, accessKey, pair.Access)
	if pair.Refresh != "" {
		c.session.Put(ctx, refreshKey, pair.Refresh)
	}
}

func (c *Client) clearTokens(ctx context.Context) {
	if c.session == nil {
		return
	}
	c.session.Remove(ctx, accessKey)
	c.session.Remove(ctx, refreshKey)
}

// ClearTokens drops both tokens, used on logout.
func (c *Client) ClearTokens(ctx context.Context) {
	c.clearTokens(ctx)
}

// bearer returns the access token to attach to an outgoing request,
// refreshing it first when it is about to expire. Failures degrade to
// sending whatever token is on hand; the 401 retry path picks up the rest.
func (c *Client) bearer(ctx context.Context) string {
	if c.session == nil {
		return ""
	}

	access := c.session.GetString(ctx, accessKey)
	if access == "" {
		return ""
	}

	if !expiringSoon(access) {
		return access
	}

	fresh, err := c.refreshAccess(ctx)
	if err != nil {
		c.log.WithField("message", err).Warn("token refresh failed, sending stale access token")
		return access
	}
	return fresh
}

func (c *Client) refreshAccess(ctx context.Context) (string, error) {
	refresh := c.session.GetString(ctx, refreshKey)
	if refresh == "" {
		return "", errors.New("no refresh token in session")
	}

	in := map[string]string{"refresh": refresh}
	var out TokenPair

	rep, err := c.send(ctx, "POST", "/auth/token/refresh/", mustJSON(in), "")
	if err != nil {
		return "", err
	}
	if rep.status != 200 {
		return "", decodeAPIError(rep)
	}
	if err := json.Unmarshal(rep.body, &out); err != nil {
		return "", fmt.Errorf("unmarshaling refresh response: %w", err)
	}
	if out.Access == "" {
		return "", errors.New("refresh response carried no access token")
	}

	c.session.Put(ctx, accessKey, out.Access)
	if out.Refresh != "" {
		c.session.Put(ctx, refreshKey, out.Refresh)
	}
	return out.Access, nil
}

// expiringSoon inspects the unverified exp claim. The gateway never trusts
// the token's contents for authorization, it only schedules the refresh, so
// skipping signature verification is fine here.
func expiringSoon(token string) bool {
	claims := jwt.MapClaims{}
	parser := jwt.Parser{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return true
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return false
	}

	return time.Now().Add(refreshLeeway).Unix() >= int64(exp)
}

func mustJSON(v interface{}) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("marshaling static payload: %v", err))
	}
	return b
}
