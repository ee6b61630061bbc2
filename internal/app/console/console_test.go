package console

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/convocatorias/portal/internal/app/lookups"
	"github.com/convocatorias/portal/internal/app/models"
	"github.com/convocatorias/portal/internal/app/services"
	"github.com/convocatorias/portal/internal/pkg/apperrors"
	"github.com/convocatorias/portal/internal/pkg/filestorage"
	"github.com/convocatorias/portal/internal/pkg/store"
)

func newDepartmentScreen() *Screen[models.Department] {
	st := store.New[models.Department](models.ResourceDepartments,
		store.WithIDGenerator[models.Department](store.Sequence(1)))
	st.Replace([]models.Department{
		{ID: "1", Name: "Antioquia"},
		{ID: "2", Name: "Valle del Cauca"},
	})
	catalog := services.NewCatalogService(st, store.NewConfirmations(time.Minute), zerolog.Nop())
	return NewScreen(catalog, zerolog.Nop())
}

func setName(name string) models.Mutation[models.Department] {
	return func(d *models.Department) { d.Name = name }
}

func TestScreenDepartmentScenario(t *testing.T) {
	ctx := context.Background()
	screen := newDepartmentScreen()

	screen.SetSearch("valle")
	if got := screen.Items(); len(got) != 1 || got[0].ID != "2" {
		t.Fatalf("filter = %+v", got)
	}
	screen.SetSearch("")

	screen.OpenCreate()
	screen.Edit(setName("Caldas"))
	if err := screen.Save(ctx); err != nil {
		t.Fatalf("Save: %v", err)
	}
	items := screen.Items()
	if len(items) != 3 || items[2].Name != "Caldas" || items[2].ID != "3" {
		t.Fatalf("after create = %+v", items)
	}
	if d := screen.Dialog(); d == nil || d.Kind != DialogSuccess {
		t.Errorf("dialog = %+v", d)
	}
	if screen.ModalOpen() {
		t.Error("modal should close after saving")
	}

	if err := screen.RequestRemove("1"); err != nil {
		t.Fatal(err)
	}
	outcome, err := screen.Confirm(ctx)
	if err != nil || outcome != store.OutcomeDeleted {
		t.Fatalf("confirm = %v, %v", outcome, err)
	}
	want := []models.Department{{ID: "2", Name: "Valle del Cauca"}, {ID: "3", Name: "Caldas"}}
	if got := screen.Items(); !reflect.DeepEqual(got, want) {
		t.Errorf("after delete = %+v", got)
	}
}

func TestScreenSaveWithBlankFieldChangesNothing(t *testing.T) {
	ctx := context.Background()
	screen := newDepartmentScreen()
	before := screen.Items()

	screen.OpenCreate()
	screen.Edit(setName("   "))
	if err := screen.Save(ctx); err != nil {
		t.Fatalf("Save: %v", err)
	}

	d := screen.Dialog()
	if d == nil || d.Kind != DialogWarning || !reflect.DeepEqual(d.Fields, []string{"name"}) {
		t.Fatalf("dialog = %+v", d)
	}
	if !screen.ModalOpen() {
		t.Error("modal should stay open")
	}
	if got := screen.Items(); !reflect.DeepEqual(got, before) {
		t.Errorf("list changed: %+v", got)
	}

	screen.DismissDialog()
	if screen.Dialog() != nil {
		t.Error("dialog not dismissed")
	}
}

func TestScreenEditKeepsOtherRecords(t *testing.T) {
	ctx := context.Background()
	screen := newDepartmentScreen()

	if err := screen.OpenEdit("1"); err != nil {
		t.Fatal(err)
	}
	if screen.EditingID() != "1" || screen.Draft().Name != "Antioquia" {
		t.Fatalf("draft = %+v", screen.Draft())
	}
	screen.Edit(setName("Antioquia Norte"))
	if err := screen.Save(ctx); err != nil {
		t.Fatal(err)
	}

	want := []models.Department{{ID: "1", Name: "Antioquia Norte"}, {ID: "2", Name: "Valle del Cauca"}}
	if got := screen.Items(); !reflect.DeepEqual(got, want) {
		t.Errorf("items = %+v", got)
	}
	if screen.EditingID() != "" {
		t.Error("editing id not cleared")
	}

	if err := screen.OpenEdit("99"); !errors.Is(err, apperrors.ErrResourceNotFound) {
		t.Errorf("open missing = %v", err)
	}
}

func TestScreenRemoveNeedsConfirmation(t *testing.T) {
	ctx := context.Background()
	screen := newDepartmentScreen()
	before := screen.Items()

	if err := screen.RequestRemove("1"); err != nil {
		t.Fatal(err)
	}
	if d := screen.Dialog(); d == nil || d.Kind != DialogConfirm {
		t.Fatalf("dialog = %+v", d)
	}
	if _, ok := screen.Pending(); !ok {
		t.Fatal("no pending confirmation")
	}
	if got := screen.Items(); !reflect.DeepEqual(got, before) {
		t.Fatal("record removed before confirmation")
	}

	outcome, err := screen.Cancel(ctx)
	if err != nil || outcome != store.OutcomeCancelled {
		t.Fatalf("cancel = %v, %v", outcome, err)
	}
	if got := screen.Items(); !reflect.DeepEqual(got, before) {
		t.Error("cancel changed the list")
	}

	if _, err := screen.Confirm(ctx); !errors.Is(err, apperrors.ErrConfirmationNotFound) {
		t.Errorf("confirm without request = %v", err)
	}
}

func TestScreenRemoveTwiceIsNoop(t *testing.T) {
	ctx := context.Background()
	screen := newDepartmentScreen()

	_ = screen.RequestRemove("2")
	if _, err := screen.Confirm(ctx); err != nil {
		t.Fatal(err)
	}
	if err := screen.RequestRemove("2"); err != nil {
		t.Fatalf("second remove = %v", err)
	}
	if _, ok := screen.Pending(); ok {
		t.Error("second remove should not ask again")
	}
	if len(screen.Items()) != 1 {
		t.Errorf("items = %+v", screen.Items())
	}
}

func TestDetailViewTabs(t *testing.T) {
	ctx := context.Background()
	images, err := filestorage.NewLocalStorage(t.TempDir(), "http://localhost/uploads")
	if err != nil {
		t.Fatal(err)
	}
	st := store.New[models.Call](models.ResourceCalls)
	catalog := services.NewCatalogService(st, store.NewConfirmations(time.Minute), zerolog.Nop())
	calls := services.NewCallService(catalog, lookups.Set{
		Institutions: lookups.FromMap(map[string]string{"1": "SENA"}),
	}, images, 0, zerolog.Nop())

	call, err := calls.Create(ctx, models.Call{
		Title:         "Emprende",
		Description:   "Fondo para emprendedores",
		Notes:         "Cupos limitados",
		OpenDate:      "2024-05-01",
		CloseDate:     "2024-06-01",
		InstitutionID: "1",
		LineID:        "7",
	})
	if err != nil {
		t.Fatal(err)
	}

	view, err := OpenDetail(calls, call.ID)
	if err != nil {
		t.Fatal(err)
	}
	if view.Detail().InstitutionName != "SENA" || view.Detail().LineName != lookups.Placeholder {
		t.Errorf("names = %+v", view.Detail())
	}
	if view.ActiveTab().Key != services.TabDescription {
		t.Errorf("default tab = %q", view.ActiveTab().Key)
	}

	if err := view.SetTab(services.TabNotes); err != nil {
		t.Fatal(err)
	}
	if view.ActiveTab().Content != "Cupos limitados" {
		t.Errorf("notes = %q", view.ActiveTab().Content)
	}
	if err := view.SetTab("galeria"); !errors.Is(err, apperrors.ErrBadRequest) {
		t.Errorf("unknown tab = %v", err)
	}
	if view.ActiveTab().Key != services.TabNotes {
		t.Error("failed switch changed the active tab")
	}
}
