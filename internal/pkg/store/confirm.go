package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/convocatorias/portal/internal/pkg/apperrors"
)

// Outcome is the result of resolving a pending confirmation.
type Outcome string

const (
	OutcomeDeleted   Outcome = "deleted"
	OutcomeCancelled Outcome = "cancelled"
)

// PendingConfirmation is a delete request waiting for an explicit decision.
type PendingConfirmation struct {
	Token     string    `json:"token"`
	Resource  string    `json:"resource"`
	ID        string    `json:"id"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// DeleteFunc performs the deletion once confirmed.
type DeleteFunc func(ctx context.Context, id string) error

type pending struct {
	PendingConfirmation
	del DeleteFunc
}

// Confirmations implements the two-step delete protocol: a request returns a
// token, and nothing is deleted until the token is resolved with confirm=true.
type Confirmations struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	pending map[string]pending
}

// NewConfirmations creates a registry whose tokens live for ttl.
func NewConfirmations(ttl time.Duration) *Confirmations {
	return &Confirmations{
		ttl:     ttl,
		now:     time.Now,
		pending: make(map[string]pending),
	}
}

// RequestDelete registers a pending deletion of id in resource.
func (c *Confirmations) RequestDelete(resource, id string, del DeleteFunc) PendingConfirmation {
	p := PendingConfirmation{
		Token:     uuid.NewString(),
		Resource:  resource,
		ID:        id,
		ExpiresAt: c.now().Add(c.ttl),
	}

	c.mu.Lock()
	c.pending[p.Token] = pending{PendingConfirmation: p, del: del}
	c.mu.Unlock()
	return p
}

// Resolve settles the confirmation identified by token. Only confirmed=true
// runs the deletion. A record that is already gone still counts as deleted.
// When the deletion fails the token is kept until it expires.
func (c *Confirmations) Resolve(ctx context.Context, token string, confirmed bool) (Outcome, error) {
	c.mu.Lock()
	p, ok := c.pending[token]
	if ok {
		delete(c.pending, token)
	}
	c.mu.Unlock()

	if !ok {
		return "", apperrors.ErrConfirmationNotFound
	}
	if c.now().After(p.ExpiresAt) {
		return "", apperrors.ErrConfirmationExpired
	}
	if !confirmed {
		return OutcomeCancelled, nil
	}

	if err := p.del(ctx, p.ID); err != nil && !errors.Is(err, apperrors.ErrResourceNotFound) {
		// the token stays valid so the deletion can be retried
		c.mu.Lock()
		if _, taken := c.pending[token]; !taken {
			c.pending[token] = p
		}
		c.mu.Unlock()
		return "", err
	}
	return OutcomeDeleted, nil
}

// Pending returns the confirmation for token without resolving it.
func (c *Confirmations) Pending(token string) (PendingConfirmation, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.pending[token]
	return p.PendingConfirmation, ok
}

// PurgeExpired drops expired confirmations and returns how many were removed.
func (c *Confirmations) PurgeExpired() int {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for token, p := range c.pending {
		if now.After(p.ExpiresAt) {
			delete(c.pending, token)
			removed++
		}
	}
	return removed
}
