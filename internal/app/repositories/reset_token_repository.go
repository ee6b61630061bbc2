package repositories

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/convocatorias/portal/internal/pkg/apperrors"
)

type resetToken struct {
	userID    string
	expiresAt time.Time
}

// ResetTokenRepository keeps single-use password reset tokens in memory.
type ResetTokenRepository struct {
	ttl time.Duration
	now func() time.Time

	mu     sync.Mutex
	tokens map[string]resetToken
}

// NewResetTokenRepository creates a repository issuing tokens valid for ttl
func NewResetTokenRepository(ttl time.Duration) *ResetTokenRepository {
	return &ResetTokenRepository{
		ttl:    ttl,
		now:    time.Now,
		tokens: make(map[string]resetToken),
	}
}

// Create issues a new token for userID, revoking any earlier one.
func (r *ResetTokenRepository) Create(userID string) (string, time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for token, t := range r.tokens {
		if t.userID == userID {
			delete(r.tokens, token)
		}
	}

	token := uuid.NewString()
	expiresAt := r.now().Add(r.ttl)
	r.tokens[token] = resetToken{userID: userID, expiresAt: expiresAt}
	return token, expiresAt
}

// Consume returns the user of token and invalidates it.
func (r *ResetTokenRepository) Consume(token string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tokens[token]
	if !ok {
		return "", apperrors.ErrInvalidPasswordResetToken
	}
	delete(r.tokens, token)

	if !r.now().Before(t.expiresAt) {
		return "", apperrors.ErrInvalidPasswordResetToken
	}
	return t.userID, nil
}

// PurgeExpired drops expired tokens and returns how many were removed.
func (r *ResetTokenRepository) PurgeExpired() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	n := 0
	for token, t := range r.tokens {
		if !now.Before(t.expiresAt) {
			delete(r.tokens, token)
			n++
		}
	}
	return n
}
