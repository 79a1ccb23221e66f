package identity

import (
	"context"
	"errors"
)

// contextKey is an unexported type to prevent key collisions in context.
type contextKey string

const (
	walletKey  contextKey = "wallet_address"
	chainIDKey contextKey = "chain_id"
)

// ErrWalletNotFound is returned when no wallet identity exists in the request
// context. Handlers should return 401 when this error occurs.
var ErrWalletNotFound = errors.New("wallet identity not found in context")

// WalletFromCtx extracts the resolved wallet identity from the request context.
// Returns the zero address and ErrWalletNotFound on unauthenticated requests.
func WalletFromCtx(ctx context.Context) (Address, error) {
	addr, ok := ctx.Value(walletKey).(Address)
	if !ok || addr.IsZero() {
		return Address{}, ErrWalletNotFound
	}
	return addr, nil
}

// WithWallet returns a new context with the given wallet identity attached.
// Used by the identity middleware after resolving the caller.
func WithWallet(ctx context.Context, addr Address) context.Context {
	return context.WithValue(ctx, walletKey, addr)
}

// ChainIDFromCtx extracts the caller-supplied chain id from the request
// context. Returns 0 when the caller did not supply one; callers fall back
// to the deployment's configured chain.
func ChainIDFromCtx(ctx context.Context) int64 {
	id, ok := ctx.Value(chainIDKey).(int64)
	if !ok {
		return 0
	}
	return id
}

// WithChainID returns a new context with the given chain id attached.
func WithChainID(ctx context.Context, chainID int64) context.Context {
	return context.WithValue(ctx, chainIDKey, chainID)
}
