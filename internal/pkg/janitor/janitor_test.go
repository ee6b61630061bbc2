package janitor

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestInvalidSchedule(t *testing.T) {
	if _, err := New("every now and then", zerolog.Nop()); err == nil {
		t.Fatal("expected error")
	}
}

func TestRunOnce(t *testing.T) {
	var a, b int32
	j, err := New("@every 1h", zerolog.Nop(),
		Task{Name: "a", Purge: func() int { atomic.AddInt32(&a, 1); return 2 }},
		Task{Name: "b", Purge: func() int { atomic.AddInt32(&b, 1); return 0 }},
	)
	if err != nil {
		t.Fatal(err)
	}

	j.RunOnce()
	if atomic.LoadInt32(&a) != 1 || atomic.LoadInt32(&b) != 1 {
		t.Errorf("runs = %d, %d", a, b)
	}
}

func TestScheduledRun(t *testing.T) {
	ran := make(chan struct{}, 1)
	j, err := New("@every 1s", zerolog.Nop(), Task{Name: "tick", Purge: func() int {
		select {
		case ran <- struct{}{}:
		default:
		}
		return 0
	}})
	if err != nil {
		t.Fatal(err)
	}

	j.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	defer j.Stop(ctx)

	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("task did not run")
	}
}
