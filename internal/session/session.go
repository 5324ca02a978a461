// Package session tracks who is signed in and mirrors the identity to a
// single persisted key.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/golang-jwt/jwt/v5"
)

// Key is the persisted key holding the signed-in identity.
const Key = "currentUser"

// KV is the persistence the session mirrors its identity into.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

type State int

const (
	LoggedOut State = iota
	LoggedIn
)

func (s State) String() string {
	if s == LoggedIn {
		return "loggedIn"
	}
	return "loggedOut"
}

// Identity is the signed-in user as shown in the header.
type Identity struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
}

// Guest is the identity used for guest login and as the fallback when a
// credential cannot be decoded.
var Guest = Identity{
	Name:   "Alex Rivera",
	Email:  "alex.rivera@dev.flow",
	Avatar: "AR",
}

var ErrIncompleteCredential = errors.New("credential carries neither name nor email")

// Session is the loggedOut/loggedIn state machine.
type Session struct {
	mu       sync.RWMutex
	kv       KV
	identity *Identity
}

// Restore reads the persisted identity. A missing key starts logged out; a
// value that is not a JSON object is purged and also starts logged out.
func Restore(kv KV) *Session {
	s := &Session{kv: kv}

	raw, ok, err := kv.Get(Key)
	if err != nil {
		slog.Warn("session restore failed", "error", err)
		return s
	}
	if !ok {
		return s
	}

	var id Identity
	if err := json.Unmarshal([]byte(raw), &id); err != nil {
		slog.Warn("discarding malformed persisted identity", "error", err)
		if err := kv.Delete(Key); err != nil {
			slog.Warn("session purge failed", "error", err)
		}
		return s
	}

	s.identity = &id
	slog.Info("session restored", "email", id.Email)
	return s
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return LoggedOut
	}
	return LoggedIn
}

// Identity returns the signed-in identity. ok is false when logged out.
func (s *Session) Identity() (Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return Identity{}, false
	}
	return *s.identity, true
}

func (s *Session) LoginGuest() Identity {
	return s.login(Guest)
}

// LoginWithCredential signs in with the claims of an identity token. The
// token's signature is not checked. Any decode failure falls back to the
// guest identity so login is never blocked.
func (s *Session) LoginWithCredential(token string) Identity {
	id, err := DecodeCredential(token)
	if err != nil {
		slog.Warn("credential decode failed, using guest identity", "error", err)
		id = Guest
	}
	return s.login(id)
}

// Logout clears the identity and its persisted copy.
func (s *Session) Logout() {
	s.mu.Lock()
	s.identity = nil
	s.mu.Unlock()

	if err := s.kv.Delete(Key); err != nil {
		slog.Warn("session clear failed", "error", err)
	}
	slog.Info("signed out")
}

func (s *Session) login(id Identity) Identity {
	s.mu.Lock()
	s.identity = &id
	s.mu.Unlock()

	data, err := json.Marshal(id)
	if err == nil {
		err = s.kv.Set(Key, string(data))
	}
	if err != nil {
		slog.Warn("session persist failed", "error", err)
	}
	slog.Info("signed in", "email", id.Email)
	return id
}

type credentialClaims struct {
	jwt.RegisteredClaims
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
}

// DecodeCredential reads name, email and picture from an identity token
// without verifying it. picture becomes the avatar; when absent the avatar
// falls back to the name's initials.
func DecodeCredential(token string) (Identity, error) {
	var claims credentialClaims
	if _, _, err := jwt.NewParser().ParseUnverified(strings.TrimSpace(token), &claims); err != nil {
		return Identity{}, fmt.Errorf("parse credential: %w", err)
	}
	if claims.Name == "" && claims.Email == "" {
		return Identity{}, ErrIncompleteCredential
	}

	avatar := claims.Picture
	if avatar == "" {
		avatar = Initials(claims.Name)
	}
	return Identity{Name: claims.Name, Email: claims.Email, Avatar: avatar}, nil
}

// Initials returns up to two upper-cased leading letters of name's words.
func Initials(name string) string {
	var b strings.Builder
	for _, w := range strings.Fields(name) {
		b.WriteString(strings.ToUpper(string([]rune(w)[:1])))
		if b.Len() >= 2 {
			break
		}
	}
	return b.String()
}
