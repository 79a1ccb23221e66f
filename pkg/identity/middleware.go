package identity

import (
	"net/http"
	"strconv"

	"github.com/gorilla/sessions"

	"github.com/ghuser/trueauth/pkg/httpx"
	"github.com/ghuser/trueauth/pkg/logger"
)

const sessionName = "trueauth_wallet"

const (
	sessionWalletKey  = "wallet_address"
	sessionChainIDKey = "chain_id"
)

// Header fallbacks for non-browser callers (CLIs, backend integrations) that
// carry the resolved identity per request instead of a session cookie.
const (
	headerWallet  = "X-Wallet-Address"
	headerChainID = "X-Chain-Id"
)

// RequireWallet is a chi middleware that resolves the caller's wallet
// identity. It reads the wallet session written by the wallet-connect
// collaborator, falling back to the X-Wallet-Address / X-Chain-Id headers,
// normalizes the address, and injects it into the request context.
// Returns 401 Unauthorized when no identity can be resolved.
//
// After this middleware, handlers can safely call identity.WalletFromCtx(r.Context()).
func RequireWallet(store sessions.Store, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rawAddr, rawChain := resolveCaller(store, r)
			if rawAddr == "" {
				httpx.JSON(w, http.StatusUnauthorized, map[string]string{"error": "wallet identity required"})
				return
			}

			addr, err := ParseAddress(rawAddr)
			if err != nil {
				log.WarnContext(r.Context(), "malformed wallet address", "address", rawAddr, "error", err)
				httpx.JSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid wallet identity"})
				return
			}

			ctx := WithWallet(r.Context(), addr)
			if rawChain != "" {
				if chainID, err := strconv.ParseInt(rawChain, 10, 64); err == nil {
					ctx = WithChainID(ctx, chainID)
				} else {
					log.WarnContext(r.Context(), "malformed chain id", "chain_id", rawChain)
				}
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// resolveCaller prefers the session cookie; headers are the fallback.
func resolveCaller(store sessions.Store, r *http.Request) (addr, chainID string) {
	if store != nil {
		if session, err := store.Get(r, sessionName); err == nil && !session.IsNew {
			if v, ok := session.Values[sessionWalletKey].(string); ok && v != "" {
				addr = v
			}
			if v, ok := session.Values[sessionChainIDKey].(string); ok {
				chainID = v
			}
		}
	}
	if addr == "" {
		addr = r.Header.Get(headerWallet)
		chainID = r.Header.Get(headerChainID)
	}
	return addr, chainID
}
