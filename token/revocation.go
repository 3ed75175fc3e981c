package token

import (
	"sync"
	"time"
)

// Revocations tracks access tokens that must stop validating before they expire: single
// tokens revoked at logout, and every token of a user cut off at a point in time.
type Revocations interface {
	RevokeToken(jti string, exp time.Time)
	// RevokeUser invalidates every token of userID issued at or before at.
	RevokeUser(userID int64, at time.Time)
	IsRevoked(jti string, userID int64, issuedAt time.Time) bool
	// Prune drops entries that can no longer match a valid token at now.
	Prune(now time.Time)
}

// RevocationList keeps revocations in memory.
type RevocationList struct {
	mu       sync.RWMutex
	tokens   map[string]time.Time
	users    map[int64]time.Time
	lifetime time.Duration
}

var _ Revocations = (*RevocationList)(nil)

// NewRevocationList keeps user cut-offs for lifetime, the longest an access token lives.
func NewRevocationList(lifetime time.Duration) *RevocationList {
	return &RevocationList{
		tokens:   make(map[string]time.Time),
		users:    make(map[int64]time.Time),
		lifetime: lifetime,
	}
}

func (l *RevocationList) RevokeToken(jti string, exp time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tokens[jti] = exp
}

func (l *RevocationList) RevokeUser(userID int64, at time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if prev, ok := l.users[userID]; !ok || at.After(prev) {
		l.users[userID] = at
	}
}

func (l *RevocationList) IsRevoked(jti string, userID int64, issuedAt time.Time) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if _, ok := l.tokens[jti]; ok && jti != "" {
		return true
	}
	cutoff, ok := l.users[userID]
	return ok && !issuedAt.After(cutoff)
}

// Len is the number of entries currently held.
func (l *RevocationList) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.tokens) + len(l.users)
}

func (l *RevocationList) Prune(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for jti, exp := range l.tokens {
		if now.After(exp) {
			delete(l.tokens, jti)
		}
	}
	for id, cutoff := range l.users {
		if now.After(cutoff.Add(l.lifetime)) {
			delete(l.users, id)
		}
	}
}
