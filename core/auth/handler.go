package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/pbrandao/varejo/api/web"
	"github.com/pbrandao/varejo/api/weberr"
	"github.com/pbrandao/varejo/backend"
	"github.com/pbrandao/varejo/core/claims"
	"github.com/pbrandao/varejo/validate"
)

type User struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
}

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type Registration struct {
	Username  string `json:"username" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	Password2 string `json:"password2" validate:"required,eqfield=Password"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

type PasswordChange struct {
	OldPassword  string `json:"old_password" validate:"required"`
	NewPassword  string `json:"new_password" validate:"required,min=8"`
	NewPassword2 string `json:"new_password2" validate:"required,eqfield=NewPassword"`
}

// session carries what the backend returns on login/register.
type authResponse struct {
	User    User              `json:"user"`
	Tokens  backend.TokenPair `json:"tokens"`
	Message string            `json:"message"`
}

func HandleLogin(bk *backend.Client, session *scs.SessionManager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var creds Credentials
		if err := web.Decode(w, r, &creds); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(creds); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		var resp authResponse
		if err := bk.Post(ctx, "/auth/login/", creds, &resp); err != nil {
			return loginError(err)
		}

		// A fresh login gets a fresh session token, and the new identity's
		// tokens and claims replace whatever the anonymous session held.
		if err := session.RenewToken(ctx); err != nil {
			return fmt.Errorf("renewing session token: %w", err)
		}

		bk.SetTokens(ctx, resp.Tokens)
		if err := storeClaims(ctx, session, toClaims(resp.User)); err != nil {
			return fmt.Errorf("storing session claims: %w", err)
		}

		return web.Respond(ctx, w, resp.User, http.StatusOK)
	}
}

func HandleRegister(bk *backend.Client, session *scs.SessionManager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var reg Registration
		if err := web.Decode(w, r, &reg); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(reg); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		var resp authResponse
		if err := bk.Post(ctx, "/auth/register/", reg, &resp); err != nil {
			return backend.WebError(err)
		}

		if err := session.RenewToken(ctx); err != nil {
			return fmt.Errorf("renewing session token: %w", err)
		}

		bk.SetTokens(ctx, resp.Tokens)
		if err := storeClaims(ctx, session, toClaims(resp.User)); err != nil {
			return fmt.Errorf("storing session claims: %w", err)
		}

		return web.Respond(ctx, w, resp.User, http.StatusCreated)
	}
}

func HandleLogout(bk *backend.Client, session *scs.SessionManager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		// Best effort: the session dies locally even if the backend
		// cannot blacklist the refresh token right now.
		if err := bk.Post(ctx, "/auth/logout/", nil, nil); err != nil {
			var apiErr *backend.APIError
			if !errors.As(err, &apiErr) {
				// network-level failure, still log out locally
				_ = err
			}
		}

		bk.ClearTokens(ctx)
		if err := session.Destroy(ctx); err != nil {
			return fmt.Errorf("destroying session: %w", err)
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}

func HandleProfile(bk *backend.Client, session *scs.SessionManager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var usr User
		if err := bk.Get(ctx, "/auth/profile/", &usr); err != nil {
			return backend.WebError(err)
		}

		// Keep session claims in step with the backend's view of the user.
		if err := storeClaims(ctx, session, toClaims(usr)); err != nil {
			return fmt.Errorf("storing session claims: %w", err)
		}

		return web.Respond(ctx, w, usr, http.StatusOK)
	}
}

func HandleChangePassword(bk *backend.Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var chg PasswordChange
		if err := web.Decode(w, r, &chg); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(chg); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		if err := bk.Post(ctx, "/auth/change-password/", chg, nil); err != nil {
			return backend.WebError(err)
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}

func toClaims(usr User) claims.Claims {
	role := claims.RoleCustomer
	if usr.IsStaff || usr.IsSuperuser {
		role = claims.RoleSeller
	}

	return claims.Claims{
		UserID:   usr.ID,
		Username: usr.Username,
		Role:     role,
	}
}

func loginError(err error) error {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
		return weberr.NotAuthorized(errors.New("invalid credentials"))
	}
	return backend.WebError(err)
}
