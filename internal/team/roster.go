package team

import (
	"errors"
	"log/slog"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// ErrInvalidEmail is returned by Invite when the address has no "@".
var ErrInvalidEmail = errors.New("Please enter a valid developer email.")

const (
	idAlphabet  = "0123456789abcdefghijklmnopqrstuvwxyz"
	memberIDLen = 5

	handleDomain = "dev.flow"
)

// DefaultMembers returns the roster a fresh workspace starts with.
func DefaultMembers() []Member {
	return []Member{
		{ID: "1", Name: "John Developer", Role: RoleLead, Avatar: "JD", Presence: PresenceOnline},
		{ID: "2", Name: "Sarah Architect", Role: RoleMaintainer, Avatar: "SA", Presence: PresenceBusy},
	}
}

// Roster is the ordered list of collaborators. Members are only ever added.
type Roster struct {
	mu      sync.RWMutex
	members []Member
}

func NewRoster() *Roster {
	return &Roster{members: DefaultMembers()}
}

// Members returns a copy of the roster in invite order.
func (r *Roster) Members() []Member {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Member, len(r.members))
	copy(out, r.members)
	return out
}

// Invite derives a contributor from an email address and appends it.
// The only validation is the presence of "@".
func (r *Roster) Invite(email string) (Member, error) {
	email = strings.TrimSpace(email)
	local, _, ok := strings.Cut(email, "@")
	if !ok {
		return Member{}, ErrInvalidEmail
	}

	m := Member{
		ID:       nanoid.MustGenerate(idAlphabet, memberIDLen),
		Name:     capitalize(local),
		Role:     RoleContributor,
		Avatar:   strings.ToUpper(firstRunes(local, 2)),
		Presence: PresenceOnline,
	}

	r.mu.Lock()
	r.members = append(r.members, m)
	r.mu.Unlock()

	slog.Info("member invited", "id", m.ID, "name", m.Name)
	return m, nil
}

// Handle is the display address shown next to a member's name.
func Handle(m Member) string {
	return strings.ToLower(strings.Replace(m.Name, " ", ".", 1)) + "@" + handleDomain
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func firstRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
