package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/pbrandao/varejo/api/web"
	"github.com/pbrandao/varejo/api/weberr"
	"github.com/pbrandao/varejo/core/claims"
)

const (
	claimsSessionKey = "auth_claims"
	cartSessionKey   = "cart_id"
)

// LoadAndSave exposes scs session handling as one of our middlewares.
func LoadAndSave(session *scs.SessionManager) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

			var err error
			sh := session.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				err = handler(r.Context(), w, r)
			}))

			sh.ServeHTTP(w, r.WithContext(ctx))
			return err
		}
		return h
	}
	return m
}

// Authenticate rejects requests whose session carries no logged-in user
// and loads the claims into the context for downstream handlers.
func Authenticate(session *scs.SessionManager) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

			clm, err := sessionClaims(ctx, session)
			if err != nil {
				return weberr.NotAuthorized(err)
			}

			ctx = claims.Set(ctx, clm)
			return handler(ctx, w, r.WithContext(ctx))
		}
		return h
	}
	return m
}

// Seller additionally requires the seller role.
func Seller(session *scs.SessionManager) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

			clm, err := sessionClaims(ctx, session)
			if err != nil {
				return weberr.NotAuthorized(err)
			}

			if clm.Role != claims.RoleSeller {
				return weberr.Forbidden(errors.New("seller role required"))
			}

			ctx = claims.Set(ctx, clm)
			return handler(ctx, w, r.WithContext(ctx))
		}
		return h
	}
	return m
}

func sessionClaims(ctx context.Context, session *scs.SessionManager) (claims.Claims, error) {
	raw := session.GetBytes(ctx, claimsSessionKey)
	if raw == nil {
		return claims.Claims{}, errors.New("user not authenticated")
	}

	var clm claims.Claims
	if err := json.Unmarshal(raw, &clm); err != nil {
		return claims.Claims{}, errors.New("session claims are unreadable")
	}
	return clm, nil
}

func storeClaims(ctx context.Context, session *scs.SessionManager, clm claims.Claims) error {
	raw, err := json.Marshal(clm)
	if err != nil {
		return err
	}
	session.Put(ctx, claimsSessionKey, raw)
	return nil
}

// CartID returns the session's cart identifier, minting one on first use.
// Carts exist for anonymous sessions too, so this never fails.
func CartID(ctx context.Context, session *scs.SessionManager, generate func() string) string {
	if id := session.GetString(ctx, cartSessionKey); id != "" {
		return id
	}
	id := generate()
	session.Put(ctx, cartSessionKey, id)
	return id
}
