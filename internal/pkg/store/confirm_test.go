package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/convocatorias/portal/internal/pkg/apperrors"
)

func TestConfirmationsConfirmDeletes(t *testing.T) {
	ctx := context.Background()
	s := newDepts(t)
	c := NewConfirmations(time.Minute)

	p := c.RequestDelete(s.Resource(), "1", s.Delete)
	if s.Len() != 2 {
		t.Fatal("request alone must not delete")
	}

	outcome, err := c.Resolve(ctx, p.Token, true)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if outcome != OutcomeDeleted {
		t.Fatalf("outcome = %s", outcome)
	}
	if s.Len() != 1 {
		t.Fatalf("Len = %d, want 1", s.Len())
	}
	if _, err := s.Get("1"); !errors.Is(err, apperrors.ErrResourceNotFound) {
		t.Fatalf("record 1 still present")
	}
}

func TestConfirmationsCancelKeepsRecord(t *testing.T) {
	s := newDepts(t)
	c := NewConfirmations(time.Minute)

	p := c.RequestDelete(s.Resource(), "1", s.Delete)
	outcome, err := c.Resolve(context.Background(), p.Token, false)
	if err != nil || outcome != OutcomeCancelled {
		t.Fatalf("Resolve = %s, %v", outcome, err)
	}
	if s.Len() != 2 {
		t.Fatalf("Len = %d, want 2", s.Len())
	}
}

func TestConfirmationsSecondRemovalIsNoop(t *testing.T) {
	ctx := context.Background()
	s := newDepts(t)
	c := NewConfirmations(time.Minute)

	first := c.RequestDelete(s.Resource(), "1", s.Delete)
	second := c.RequestDelete(s.Resource(), "1", s.Delete)
	if _, err := c.Resolve(ctx, first.Token, true); err != nil {
		t.Fatalf("first: %v", err)
	}
	outcome, err := c.Resolve(ctx, second.Token, true)
	if err != nil || outcome != OutcomeDeleted {
		t.Fatalf("second Resolve = %s, %v", outcome, err)
	}
	if s.Len() != 1 {
		t.Fatalf("Len = %d, want 1", s.Len())
	}
}

func TestConfirmationsTokenIsSingleUse(t *testing.T) {
	ctx := context.Background()
	s := newDepts(t)
	c := NewConfirmations(time.Minute)

	p := c.RequestDelete(s.Resource(), "1", s.Delete)
	if _, err := c.Resolve(ctx, p.Token, false); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if _, err := c.Resolve(ctx, p.Token, true); !errors.Is(err, apperrors.ErrConfirmationNotFound) {
		t.Fatalf("err = %v, want ErrConfirmationNotFound", err)
	}
	if s.Len() != 2 {
		t.Fatalf("Len = %d, want 2", s.Len())
	}
}

func TestConfirmationsExpire(t *testing.T) {
	s := newDepts(t)
	c := NewConfirmations(time.Minute)
	now := time.Now()
	c.now = func() time.Time { return now }

	expired := c.RequestDelete(s.Resource(), "1", s.Delete)
	c.RequestDelete(s.Resource(), "2", s.Delete)
	now = now.Add(2 * time.Minute)

	if _, err := c.Resolve(context.Background(), expired.Token, true); !errors.Is(err, apperrors.ErrConfirmationExpired) {
		t.Fatalf("err = %v, want ErrConfirmationExpired", err)
	}
	if removed := c.PurgeExpired(); removed != 1 {
		t.Fatalf("PurgeExpired = %d, want 1", removed)
	}
	if s.Len() != 2 {
		t.Fatalf("Len = %d, want 2", s.Len())
	}
}

func TestConfirmationsFailedDeleteKeepsToken(t *testing.T) {
	ctx := context.Background()
	s := newDepts(t)
	c := NewConfirmations(time.Minute)

	errDown := errors.New("database unavailable")
	calls := 0
	del := func(ctx context.Context, id string) error {
		calls++
		if calls == 1 {
			return errDown
		}
		return s.Delete(ctx, id)
	}

	p := c.RequestDelete(s.Resource(), "1", del)
	if _, err := c.Resolve(ctx, p.Token, true); !errors.Is(err, errDown) {
		t.Fatalf("first Resolve = %v, want %v", err, errDown)
	}
	if _, ok := c.Pending(p.Token); !ok {
		t.Fatal("token dropped after failed delete")
	}
	if s.Len() != 2 {
		t.Fatalf("Len = %d, want 2", s.Len())
	}

	outcome, err := c.Resolve(ctx, p.Token, true)
	if err != nil || outcome != OutcomeDeleted {
		t.Fatalf("retry = %s, %v", outcome, err)
	}
	if s.Len() != 1 {
		t.Fatalf("Len = %d, want 1", s.Len())
	}
	if _, err := c.Resolve(ctx, p.Token, true); !errors.Is(err, apperrors.ErrConfirmationNotFound) {
		t.Fatalf("third Resolve = %v", err)
	}
}
