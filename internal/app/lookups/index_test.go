package lookups

import (
	"context"
	"testing"

	"github.com/convocatorias/portal/internal/app/models"
	"github.com/convocatorias/portal/internal/pkg/store"
)

func TestIndexFollowsStore(t *testing.T) {
	ctx := context.Background()
	st := store.New[models.Line](models.ResourceLines, store.WithIDGenerator[models.Line](store.Sequence(1)))
	st.Replace([]models.Line{{ID: "1", Name: "Innovación"}})

	idx := NewIndex(st)
	defer idx.Close()

	if got := idx.Name("1"); got != "Innovación" {
		t.Errorf("Name(1) = %q", got)
	}
	if got := idx.Name("404"); got != Placeholder {
		t.Errorf("unresolved = %q", got)
	}
	if got := idx.Name(""); got != Placeholder {
		t.Errorf("empty id = %q", got)
	}

	created, err := st.Create(ctx, models.Line{Name: "Emprendimiento"})
	if err != nil {
		t.Fatal(err)
	}
	if got := idx.Name(created.ID); got != "Emprendimiento" {
		t.Errorf("created = %q", got)
	}

	if _, err := st.Update(ctx, "1", models.Line{Name: "Innovación social"}); err != nil {
		t.Fatal(err)
	}
	if got := idx.Name("1"); got != "Innovación social" {
		t.Errorf("updated = %q", got)
	}

	if err := st.Delete(ctx, "1"); err != nil {
		t.Fatal(err)
	}
	if got := idx.Name("1"); got != Placeholder {
		t.Errorf("deleted = %q", got)
	}

	idx.Close()
	_, _ = st.Create(ctx, models.Line{Name: "Ignorada"})
	if idx.Len() != 1 {
		t.Errorf("closed index still following: len = %d", idx.Len())
	}
}

func TestNilIndex(t *testing.T) {
	var idx *Index
	if idx.Name("1") != Placeholder {
		t.Error("nil index must resolve to the placeholder")
	}
}
