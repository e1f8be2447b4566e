package grpc

import (
	"context"
	"errors"
)

var ErrAddressRequired = errors.New("client address is required")

// TokenFunc returns the current bearer token. Called once per RPC so
// rotated tokens are picked up without re-dialing.
type TokenFunc func(ctx context.Context) (string, error)

// StaticToken wraps a fixed token string.
func StaticToken(token string) TokenFunc {
	return func(context.Context) (string, error) {
		return token, nil
	}
}

// TokenCredentials attaches a bearer-style authorization header per call.
// Implements credentials.PerRPCCredentials.
type TokenCredentials struct {
	token      TokenFunc
	requireTLS bool
}

// NewTokenCredentials builds per-RPC credentials from a token source.
func NewTokenCredentials(token TokenFunc, requireTLS bool) *TokenCredentials {
	return &TokenCredentials{token: token, requireTLS: requireTLS}
}

func (t *TokenCredentials) GetRequestMetadata(ctx context.Context, _ ...string) (map[string]string, error) {
	token, err := t.token(ctx)
	if err != nil {
		return nil, err
	}

	return map[string]string{"authorization": "Bearer " + token}, nil
}

func (t *TokenCredentials) RequireTransportSecurity() bool {
	return t.requireTLS
}
