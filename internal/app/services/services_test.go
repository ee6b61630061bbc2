package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/convocatorias/portal/internal/app/lookups"
	"github.com/convocatorias/portal/internal/app/models"
	"github.com/convocatorias/portal/internal/app/models/dto"
	"github.com/convocatorias/portal/internal/app/repositories"
	"github.com/convocatorias/portal/internal/pkg/apperrors"
	"github.com/convocatorias/portal/internal/pkg/auth"
	"github.com/convocatorias/portal/internal/pkg/store"
)

func init() {
	auth.BcryptCost = bcrypt.MinCost
}

var nopLogger = zerolog.Nop()

type fakeMailer struct {
	mu       sync.Mutex
	resets   map[string]string
	welcomes []string
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{resets: make(map[string]string)}
}

func (m *fakeMailer) SendPasswordResetEmail(toEmail, _ string, token string, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resets[toEmail] = token
	return nil
}

func (m *fakeMailer) SendWelcomeEmail(toEmail, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.welcomes = append(m.welcomes, toEmail)
	return nil
}

func newCallCatalog() *CatalogService[models.Call] {
	st := store.New[models.Call](models.ResourceCalls, store.WithIDGenerator[models.Call](store.Sequence(1)))
	return NewCatalogService(st, store.NewConfirmations(time.Minute), nopLogger)
}

func validCall(title string) models.Call {
	return models.Call{
		Title:       title,
		Description: "Descripción de " + title,
		OpenDate:    "2024-01-10",
		CloseDate:   "2024-03-10",
	}
}

func TestCatalogCreateValidates(t *testing.T) {
	svc := newCallCatalog()

	_, err := svc.Create(context.Background(), models.Call{Title: "Solo título"})
	verr, ok := apperrors.AsValidationError(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	want := map[string]bool{"description": true, "openDate": true, "closeDate": true}
	for _, f := range verr.FieldNames() {
		if !want[f] {
			t.Errorf("unexpected field %q", f)
		}
		delete(want, f)
	}
	if len(want) != 0 {
		t.Errorf("missing fields %v", want)
	}
	if svc.Store().Len() != 0 {
		t.Error("invalid record was stored")
	}
}

func TestCatalogCreateAndUpdate(t *testing.T) {
	ctx := context.Background()
	svc := newCallCatalog()

	created, err := svc.Create(ctx, validCall("Innovación"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID != "1" {
		t.Errorf("id = %q", created.ID)
	}

	draft := created
	draft.Title = "Innovación 2024"
	draft.ID = "ignored"
	updated, err := svc.Update(ctx, created.ID, draft)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.ID != created.ID || updated.Title != "Innovación 2024" {
		t.Errorf("updated = %+v", updated)
	}

	if _, err := svc.Update(ctx, "404", draft); !errors.Is(err, apperrors.ErrResourceNotFound) {
		t.Errorf("update missing = %v", err)
	}

	draft.Title = "  "
	if _, err := svc.Update(ctx, created.ID, draft); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("blank title = %v", err)
	}
}

func TestCatalogDeleteNeedsConfirmation(t *testing.T) {
	ctx := context.Background()
	svc := newCallCatalog()
	call, _ := svc.Create(ctx, validCall("Becas"))

	pending, err := svc.RequestDelete(call.ID)
	if err != nil {
		t.Fatalf("RequestDelete: %v", err)
	}
	if _, err := svc.Get(call.ID); err != nil {
		t.Fatal("record deleted before confirmation")
	}

	outcome, err := svc.Confirmations().Resolve(ctx, pending.Token, false)
	if err != nil || outcome != store.OutcomeCancelled {
		t.Fatalf("cancel = %v, %v", outcome, err)
	}
	if svc.Store().Len() != 1 {
		t.Fatal("cancelled deletion removed the record")
	}

	pending, _ = svc.RequestDelete(call.ID)
	outcome, err = svc.Confirmations().Resolve(ctx, pending.Token, true)
	if err != nil || outcome != store.OutcomeDeleted {
		t.Fatalf("confirm = %v, %v", outcome, err)
	}
	if svc.Store().Len() != 0 {
		t.Fatal("confirmed deletion kept the record")
	}

	if _, err := svc.RequestDelete(call.ID); !errors.Is(err, apperrors.ErrResourceNotFound) {
		t.Errorf("request on missing = %v", err)
	}
}

func newUserCatalog() (*CatalogService[models.User], *store.Store[models.Role]) {
	users := store.New[models.User](models.ResourceUsers,
		store.WithIDGenerator[models.User](store.Sequence(1)), UniqueEmail())
	roles := store.New[models.Role](models.ResourceRoles, store.WithIDGenerator[models.Role](store.Sequence(1)))
	roles.Replace([]models.Role{
		{ID: "1", Name: models.AdminRoleName},
		{ID: "2", Name: models.DefaultRoleName},
	})
	return NewUserCatalog(users, store.NewConfirmations(time.Minute), nopLogger), roles
}

func TestUserCatalogHashesPasswords(t *testing.T) {
	ctx := context.Background()
	users, _ := newUserCatalog()

	u, err := users.Create(ctx, models.User{Name: "Ana", Email: "ana@example.com", Password: "secreto123", Status: models.UserStatusActive})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.Password != "" {
		t.Error("plain password stored")
	}
	if !auth.CheckPassword(u.PasswordHash, "secreto123") {
		t.Error("hash does not match")
	}

	// An update without a password keeps the existing hash
	u.Name = "Ana María"
	updated, err := users.Update(ctx, u.ID, models.User{Name: u.Name, Email: u.Email, Status: u.Status})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.PasswordHash != u.PasswordHash {
		t.Error("hash lost on update")
	}
}

func TestUserCatalogRules(t *testing.T) {
	ctx := context.Background()
	users, _ := newUserCatalog()

	_, err := users.Create(ctx, models.User{Name: "Ana", Email: "ana@example.com", Status: models.UserStatusActive})
	verr, ok := apperrors.AsValidationError(err)
	if !ok || verr.FieldNames()[0] != "password" {
		t.Fatalf("missing password = %v", err)
	}

	if _, err := users.Create(ctx, models.User{Name: "Ana", Email: "ana@example.com", Password: "x", Status: models.UserStatusActive}); err != nil {
		t.Fatal(err)
	}
	_, err = users.Create(ctx, models.User{Name: "Otra", Email: "ANA@example.com", Password: "y", Status: models.UserStatusActive})
	if !errors.Is(err, apperrors.ErrEmailAlreadyExists) {
		t.Errorf("duplicate email = %v", err)
	}

	_, err = users.Create(ctx, models.User{Name: "Otra", Email: "otra@example.com", Password: "y", Status: "Suspendido"})
	if !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("bad status = %v", err)
	}
}

func TestUserCatalogConcurrentDuplicateEmail(t *testing.T) {
	// A real cost keeps hashing slow enough for the creates to overlap
	auth.BcryptCost = bcrypt.DefaultCost
	defer func() { auth.BcryptCost = bcrypt.MinCost }()

	ctx := context.Background()
	users, _ := newUserCatalog()

	const writers = 32
	errs := make([]error, writers)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			email := "dup@example.com"
			if i%2 == 1 {
				email = "DUP@example.com"
			}
			_, errs[i] = users.Create(ctx, models.User{Name: "Dup", Email: email, Password: "clave2024", Status: models.UserStatusActive})
		}(i)
	}
	wg.Wait()

	created := 0
	for _, err := range errs {
		switch {
		case err == nil:
			created++
		case !errors.Is(err, apperrors.ErrEmailAlreadyExists):
			t.Errorf("unexpected error: %v", err)
		}
	}
	if created != 1 {
		t.Errorf("created = %d, want 1", created)
	}
	if n := users.Store().Len(); n != 1 {
		t.Errorf("stored users = %d, want 1", n)
	}
}

func newAuthService(t *testing.T) (*AuthService, *fakeMailer, *CatalogService[models.User]) {
	t.Helper()
	users, roles := newUserCatalog()
	mailer := newFakeMailer()
	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "secret", AccessTokenExp: time.Hour, TokenIssuer: "test"})
	svc := NewAuthService(users, roles, lookups.NewIndex(roles), repositories.NewResetTokenRepository(time.Hour), jwtService, mailer, nopLogger)
	return svc, mailer, users
}

func TestAuthRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc, mailer, _ := newAuthService(t)

	resp, err := svc.Register(ctx, &dto.RegisterRequest{Name: "Luis", Email: "luis@example.com", Password: "clave2024"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if resp.User.RoleName != models.DefaultRoleName || resp.User.Status != models.UserStatusActive {
		t.Errorf("user = %+v", resp.User)
	}
	if len(mailer.welcomes) != 1 {
		t.Error("welcome email not sent")
	}

	login, err := svc.Login(ctx, &dto.LoginRequest{Email: "LUIS@example.com", Password: "clave2024"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	claims, err := svc.ValidateToken(login.Token.AccessToken)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != resp.User.ID || claims.Role != models.DefaultRoleName {
		t.Errorf("claims = %+v", claims)
	}

	if _, err := svc.Login(ctx, &dto.LoginRequest{Email: "luis@example.com", Password: "wrong"}); !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Errorf("wrong password = %v", err)
	}
	if _, err := svc.Login(ctx, &dto.LoginRequest{Email: "nadie@example.com", Password: "clave2024"}); !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Errorf("unknown user = %v", err)
	}
}

func TestAuthRegisterRejectsWeakPassword(t *testing.T) {
	svc, _, _ := newAuthService(t)
	_, err := svc.Register(context.Background(), &dto.RegisterRequest{Name: "Luis", Email: "luis@example.com", Password: "soloLetras"})
	if !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("err = %v", err)
	}
}

func TestAuthInactiveUserCannotLogin(t *testing.T) {
	ctx := context.Background()
	svc, _, users := newAuthService(t)
	if _, err := users.Create(ctx, models.User{Name: "Eva", Email: "eva@example.com", Password: "clave2024", Status: models.UserStatusInactive}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Login(ctx, &dto.LoginRequest{Email: "eva@example.com", Password: "clave2024"}); !errors.Is(err, apperrors.ErrAccountDisabled) {
		t.Errorf("err = %v", err)
	}
}

func TestAuthPasswordReset(t *testing.T) {
	ctx := context.Background()
	svc, mailer, _ := newAuthService(t)
	if _, err := svc.Register(ctx, &dto.RegisterRequest{Name: "Luis", Email: "luis@example.com", Password: "clave2024"}); err != nil {
		t.Fatal(err)
	}

	if err := svc.ForgotPassword(ctx, &dto.ForgotPasswordRequest{Email: "nadie@example.com"}); err != nil {
		t.Errorf("unknown email should be silent: %v", err)
	}
	if err := svc.ForgotPassword(ctx, &dto.ForgotPasswordRequest{Email: "luis@example.com"}); err != nil {
		t.Fatal(err)
	}
	token := mailer.resets["luis@example.com"]
	if token == "" {
		t.Fatal("reset email not sent")
	}

	if err := svc.ResetPassword(ctx, &dto.ResetPasswordRequest{Token: token, NewPassword: "nueva2025"}); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}
	if _, err := svc.Login(ctx, &dto.LoginRequest{Email: "luis@example.com", Password: "nueva2025"}); err != nil {
		t.Errorf("login with new password: %v", err)
	}
	if err := svc.ResetPassword(ctx, &dto.ResetPasswordRequest{Token: token, NewPassword: "otra2026"}); !errors.Is(err, apperrors.ErrInvalidPasswordResetToken) {
		t.Errorf("reused token = %v", err)
	}
}

func TestProfileUpdateAndChangePassword(t *testing.T) {
	ctx := context.Background()
	authSvc, _, users := newAuthService(t)
	reg, err := authSvc.Register(ctx, &dto.RegisterRequest{Name: "Luis", Email: "luis@example.com", Password: "clave2024"})
	if err != nil {
		t.Fatal(err)
	}

	profiles := NewProfileService(users, authSvc.roleNames, authSvc)
	updated, err := profiles.Update(ctx, reg.User.ID, &dto.UpdateProfileRequest{Name: "Luis P.", Email: "luisp@example.com", Phone: "300"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "Luis P." || updated.RoleName != models.DefaultRoleName {
		t.Errorf("profile = %+v", updated)
	}

	err = profiles.ChangePassword(ctx, reg.User.ID, &dto.ChangePasswordRequest{CurrentPassword: "mala", NewPassword: "nueva2025"})
	if !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Errorf("wrong current = %v", err)
	}
	if err := profiles.ChangePassword(ctx, reg.User.ID, &dto.ChangePasswordRequest{CurrentPassword: "clave2024", NewPassword: "nueva2025"}); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if _, err := authSvc.Login(ctx, &dto.LoginRequest{Email: "luisp@example.com", Password: "nueva2025"}); err != nil {
		t.Errorf("login after change: %v", err)
	}

	if _, err := profiles.Get("404"); !errors.Is(err, apperrors.ErrUserNotFound) {
		t.Errorf("missing profile = %v", err)
	}
}
