package store

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/convocatorias/portal/internal/pkg/apperrors"
)

type dept struct {
	ID     string
	Nombre string
}

func (d dept) Key() string { return d.ID }
func (d dept) WithKey(id string) dept { d.ID = id; return d }
func (d dept) SearchFields() []string { return []string{d.Nombre} }

func newDepts(t *testing.T) *Store[dept] {
	t.Helper()
	s := New[dept]("departments", WithIDGenerator[dept](Sequence(3)))
	s.Replace([]dept{{ID: "1", Nombre: "Antioquia"}, {ID: "2", Nombre: "Valle del Cauca"}})
	return s
}

func TestFilter(t *testing.T) {
	items := []dept{{ID: "1", Nombre: "Antioquia"}, {ID: "2", Nombre: "Valle del Cauca"}, {ID: "3", Nombre: "Caldas"}}

	tests := []struct {
		name string
		term string
		want []string
	}{
		{"empty term keeps everything", "", []string{"1", "2", "3"}},
		{"case folded", "VALLE", []string{"2"}},
		{"substring", "a", []string{"1", "2", "3"}},
		{"inner substring", "del c", []string{"2"}},
		{"no match", "bogotá", []string{}},
		{"no accent folding", "antióquia", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(items, tt.term)
			ids := make([]string, 0, len(got))
			for _, d := range got {
				ids = append(ids, d.ID)
			}
			if !reflect.DeepEqual(ids, tt.want) {
				t.Errorf("Filter(%q) = %v, want %v", tt.term, ids, tt.want)
			}
		})
	}
}

func TestFilterEmptyTermIsIdentity(t *testing.T) {
	items := []dept{{ID: "1", Nombre: "Antioquia"}, {ID: "2", Nombre: "Valle del Cauca"}}
	if got := Filter(items, ""); !reflect.DeepEqual(got, items) {
		t.Fatalf("Filter(\"\") = %v, want %v", got, items)
	}
}

func TestDepartmentScenario(t *testing.T) {
	ctx := context.Background()
	s := newDepts(t)

	got := s.List("valle")
	if len(got) != 1 || got[0].ID != "2" {
		t.Fatalf("List(valle) = %v", got)
	}

	created, err := s.Create(ctx, dept{Nombre: "Caldas"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID != "3" || created.Nombre != "Caldas" {
		t.Fatalf("Create returned %+v", created)
	}
	if s.Len() != 3 {
		t.Fatalf("Len = %d, want 3", s.Len())
	}

	if err := s.Delete(ctx, "1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	want := []dept{{ID: "2", Nombre: "Valle del Cauca"}, {ID: "3", Nombre: "Caldas"}}
	if !reflect.DeepEqual(s.Snapshot(), want) {
		t.Fatalf("Snapshot = %v, want %v", s.Snapshot(), want)
	}
}

func TestUpdateKeepsOthersUnchanged(t *testing.T) {
	ctx := context.Background()
	s := newDepts(t)
	before := s.Snapshot()

	updated, err := s.Update(ctx, "2", dept{ID: "ignored", Nombre: "Valle"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.ID != "2" {
		t.Fatalf("id not preserved: %+v", updated)
	}

	after := s.Snapshot()
	if len(after) != len(before) {
		t.Fatalf("length changed: %d -> %d", len(before), len(after))
	}
	if after[0] != before[0] {
		t.Errorf("untouched record changed: %+v -> %+v", before[0], after[0])
	}
	if after[1] != (dept{ID: "2", Nombre: "Valle"}) {
		t.Errorf("updated record = %+v", after[1])
	}
	if before[1].Nombre != "Valle del Cauca" {
		t.Errorf("earlier snapshot was mutated: %+v", before[1])
	}
}

func TestUpdateUnknownID(t *testing.T) {
	s := newDepts(t)
	_, err := s.Update(context.Background(), "99", dept{Nombre: "x"})
	if !errors.Is(err, apperrors.ErrResourceNotFound) {
		t.Fatalf("err = %v, want ErrResourceNotFound", err)
	}
}

func TestDeleteTwiceIsNotFound(t *testing.T) {
	ctx := context.Background()
	s := newDepts(t)
	if err := s.Delete(ctx, "1"); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := s.Delete(ctx, "1"); !errors.Is(err, apperrors.ErrResourceNotFound) {
		t.Fatalf("second delete err = %v", err)
	}
	if s.Len() != 1 {
		t.Fatalf("Len = %d, want 1", s.Len())
	}
}

func TestEpochMillisIDsAreUnique(t *testing.T) {
	fixed := time.UnixMilli(1700000000000)
	s := New[dept]("departments", WithIDGenerator[dept](EpochMillisAt(func() time.Time { return fixed })))
	s.Replace([]dept{{ID: "1700000000000", Nombre: "seeded"}})

	seen := map[string]bool{"1700000000000": true}
	for i := 0; i < 5; i++ {
		d, err := s.Create(context.Background(), dept{Nombre: "x"})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if seen[d.ID] {
			t.Fatalf("duplicate id %s", d.ID)
		}
		seen[d.ID] = true
	}
}

type failingPersister struct{}

func (failingPersister) Load(context.Context) ([]dept, error) { return nil, nil }
func (failingPersister) Save(context.Context, dept) error { return errors.New("boom") }
func (failingPersister) Delete(context.Context, string) error { return errors.New("boom") }

func TestPersisterFailureLeavesStoreUnchanged(t *testing.T) {
	ctx := context.Background()
	s := New[dept]("departments", WithPersister[dept](failingPersister{}))
	s.Replace([]dept{{ID: "1", Nombre: "Antioquia"}})

	if _, err := s.Create(ctx, dept{Nombre: "Caldas"}); err == nil {
		t.Fatal("expected create error")
	}
	if err := s.Delete(ctx, "1"); err == nil {
		t.Fatal("expected delete error")
	}
	if s.Len() != 1 {
		t.Fatalf("Len = %d, want 1", s.Len())
	}
}

func TestSubscribe(t *testing.T) {
	ctx := context.Background()
	s := newDepts(t)

	var mu sync.Mutex
	var ops []Op
	unsubscribe := s.Subscribe(func(c Change[dept]) {
		mu.Lock()
		defer mu.Unlock()
		ops = append(ops, c.Op)
	})

	created, _ := s.Create(ctx, dept{Nombre: "Caldas"})
	_, _ = s.Update(ctx, created.ID, dept{Nombre: "Caldas Norte"})
	_ = s.Delete(ctx, created.ID)
	unsubscribe()
	_, _ = s.Create(ctx, dept{Nombre: "Huila"})

	want := []Op{OpCreated, OpUpdated, OpDeleted}
	if !reflect.DeepEqual(ops, want) {
		t.Fatalf("ops = %v, want %v", ops, want)
	}
}

func TestConcurrentCreates(t *testing.T) {
	s := New[dept]("departments")
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Create(context.Background(), dept{Nombre: "x"})
		}()
	}
	wg.Wait()

	if s.Len() != 50 {
		t.Fatalf("Len = %d, want 50", s.Len())
	}
	seen := map[string]bool{}
	for _, d := range s.Snapshot() {
		if seen[d.ID] {
			t.Fatalf("duplicate id %s", d.ID)
		}
		seen[d.ID] = true
	}
}

func TestUniqueKey(t *testing.T) {
	ctx := context.Background()
	errTaken := errors.New("name taken")
	s := New[dept]("departments",
		WithIDGenerator[dept](Sequence(1)),
		WithUniqueKey(func(d dept) string { return d.Nombre }, errTaken))

	a, err := s.Create(ctx, dept{Nombre: "Caldas"})
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.Create(ctx, dept{Nombre: "Huila"})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		run  func() error
		want error
	}{
		{"create taken", func() error { _, err := s.Create(ctx, dept{Nombre: "Caldas"}); return err }, errTaken},
		{"update to taken", func() error { _, err := s.Update(ctx, b.ID, dept{Nombre: "Caldas"}); return err }, errTaken},
		{"update keeps own key", func() error { _, err := s.Update(ctx, a.ID, dept{Nombre: "Caldas"}); return err }, nil},
		{"empty key is not checked", func() error { _, err := s.Create(ctx, dept{}); return err }, nil},
		{"second empty key", func() error { _, err := s.Create(ctx, dept{}); return err }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.run(); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
	if s.Len() != 4 {
		t.Errorf("Len = %d, want 4", s.Len())
	}
}

func TestUniqueKeyConcurrentCreates(t *testing.T) {
	errTaken := errors.New("name taken")
	s := New[dept]("departments", WithUniqueKey(func(d dept) string { return d.Nombre }, errTaken))

	var wg sync.WaitGroup
	var mu sync.Mutex
	created := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Create(context.Background(), dept{Nombre: "Caldas"}); err == nil {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if created != 1 || s.Len() != 1 {
		t.Fatalf("created = %d, Len = %d, want 1 and 1", created, s.Len())
	}
}

func TestSubscribersSeeCommitOrder(t *testing.T) {
	ctx := context.Background()
	s := newDepts(t)

	var mu sync.Mutex
	last := map[string]string{}
	s.Subscribe(func(c Change[dept]) {
		mu.Lock()
		defer mu.Unlock()
		last[c.ID] = c.Item.Nombre
	})

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = s.Update(ctx, "1", dept{Nombre: fmt.Sprintf("Antioquia %d", i)})
		}(i)
	}
	wg.Wait()

	final, err := s.Get("1")
	if err != nil {
		t.Fatal(err)
	}
	mu.Lock()
	defer mu.Unlock()
	if last["1"] != final.Nombre {
		t.Fatalf("subscriber saw %q last, store holds %q", last["1"], final.Nombre)
	}
}
