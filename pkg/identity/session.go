// Wallet sessions are written by the wallet-connect collaborator after it
// resolves a signature challenge; this store only reads them back. Session
// keys should be 32 or 64 bytes for HMAC authentication, and 16, 24, or 32
// bytes for AES encryption. Production deployments must use cryptographically
// random keys generated with:
//
//	openssl rand -base64 32
package identity

import (
	"bytes"
	"context"
	"encoding/base32"
	"encoding/gob"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"
)

const (
	sessionRedisPrefix = "wallet_session:"

	// Wallet connections are re-established cheaply, so sessions are kept
	// short relative to a typical web login.
	sessionMaxAge = 24 * 60 * 60 // seconds
)

// RedisStore implements sessions.Store with server-side state. The cookie
// carries only an encrypted session id (HttpOnly, Secure in production,
// SameSite Lax); the wallet address and chain id live in Redis under
// "wallet_session:<id>" with a TTL equal to the session MaxAge. Values are
// gob-encoded.
type RedisStore struct {
	client  *redis.Client
	codecs  []securecookie.Codec
	options *sessions.Options
}

// NewSessionStore builds the wallet session store. authKey is the HMAC key
// for cookie integrity; encryptionKey encrypts the session id cookie. Pass
// secureCookie=true in production so the cookie is HTTPS-only.
func NewSessionStore(client *redis.Client, authKey, encryptionKey []byte, secureCookie bool) *RedisStore {
	return &RedisStore{
		client: client,
		codecs: securecookie.CodecsFromPairs(authKey, encryptionKey),
		options: &sessions.Options{
			Path:     "/",
			MaxAge:   sessionMaxAge,
			HttpOnly: true,
			Secure:   secureCookie,
			SameSite: http.SameSiteLaxMode,
		},
	}
}

// Get returns the named session, via the request registry so repeated calls
// in one request share the same instance.
func (s *RedisStore) Get(r *http.Request, name string) (*sessions.Session, error) {
	return sessions.GetRegistry(r).Get(s, name)
}

// New loads the session behind the request's cookie. Any problem along the
// way — no cookie, tampered cookie, expired Redis key — degrades to a fresh
// IsNew session rather than an error; the middleware treats IsNew as "no
// wallet identity" and falls back to headers.
func (s *RedisStore) New(r *http.Request, name string) (*sessions.Session, error) {
	session := sessions.NewSession(s, name)
	opts := *s.options
	session.Options = &opts
	session.IsNew = true

	c, err := r.Cookie(name)
	if err != nil {
		return session, nil
	}

	var id string
	if err := securecookie.DecodeMulti(name, c.Value, &id, s.codecs...); err != nil {
		return session, nil
	}

	session.ID = id
	if err := s.restore(r.Context(), session); err != nil {
		return session, nil
	}
	session.IsNew = false
	return session, nil
}

// Save persists the session to Redis and sets the encrypted id cookie.
// MaxAge < 0 deletes both, which is how wallet disconnect works.
func (s *RedisStore) Save(r *http.Request, w http.ResponseWriter, session *sessions.Session) error {
	if session.Options.MaxAge < 0 {
		if session.ID != "" {
			_ = s.client.Del(r.Context(), sessionRedisPrefix+session.ID).Err()
		}
		http.SetCookie(w, sessions.NewCookie(session.Name(), "", session.Options))
		return nil
	}

	if session.ID == "" {
		session.ID = newSessionID()
	}
	if err := s.persist(r.Context(), session); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	encoded, err := securecookie.EncodeMulti(session.Name(), session.ID, s.codecs...)
	if err != nil {
		return fmt.Errorf("encode session cookie: %w", err)
	}
	http.SetCookie(w, sessions.NewCookie(session.Name(), encoded, session.Options))
	return nil
}

func newSessionID() string {
	raw := securecookie.GenerateRandomKey(32)
	return strings.TrimRight(base32.StdEncoding.EncodeToString(raw), "=")
}

func (s *RedisStore) persist(ctx context.Context, session *sessions.Session) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(session.Values); err != nil {
		return fmt.Errorf("encode session values: %w", err)
	}
	ttl := time.Duration(session.Options.MaxAge) * time.Second
	if err := s.client.Set(ctx, sessionRedisPrefix+session.ID, buf.Bytes(), ttl).Err(); err != nil {
		return fmt.Errorf("set session in redis: %w", err)
	}
	return nil
}

func (s *RedisStore) restore(ctx context.Context, session *sessions.Session) error {
	data, err := s.client.Get(ctx, sessionRedisPrefix+session.ID).Bytes()
	if err != nil {
		return fmt.Errorf("get session from redis: %w", err)
	}
	return gob.NewDecoder(bytes.NewBuffer(data)).Decode(&session.Values)
}
