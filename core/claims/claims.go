package claims

import (
	"context"
	"errors"
)

const (
	// RoleSeller marks an account that owns a store and may manage its
	// catalog, purchasing and sales.
	RoleSeller = "SELLER"

	RoleCustomer = "CUSTOMER"
)

type Claims struct {
	UserID   int64
	Username string
	Role     string
	StoreID  int64
}

type ctxKey int

const claimsKey ctxKey = 1

func Set(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func Get(ctx context.Context) (Claims, error) {
	v, ok := ctx.Value(claimsKey).(Claims)
	if !ok {
		return Claims{}, errors.New("claim value missing from context")
	}
	return v, nil
}

func IsSeller(ctx context.Context) bool {
	c, err := Get(ctx)
	if err != nil {
		return false
	}

	return c.Role == RoleSeller
}
