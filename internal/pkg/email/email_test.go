package email

import (
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestPasswordResetEmail(t *testing.T) {
	svc := NewEmailService(SMTPConfig{
		Host:      "smtp.example.com",
		Port:      587,
		Username:  "mailer",
		Password:  "secret",
		FromName:  "Convocatorias",
		FromEmail: "no-reply@example.com",
		BaseURL:   "http://localhost:5173/",
	}, zerolog.Nop())

	var gotTo, gotMsg string
	svc.send = func(to, message string) error {
		gotTo, gotMsg = to, message
		return nil
	}

	expires := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)
	if err := svc.SendPasswordResetEmail("ana@example.com", "Ana", "tok-123", expires); err != nil {
		t.Fatal(err)
	}

	if gotTo != "ana@example.com" {
		t.Errorf("to = %s", gotTo)
	}
	for _, want := range []string{
		"From: Convocatorias <no-reply@example.com>",
		"Subject: Recuperación de contraseña - Convocatorias",
		"http://localhost:5173/restablecer?token=tok-123",
		"01/05/2024 10:30",
	} {
		if !strings.Contains(gotMsg, want) {
			t.Errorf("message missing %q", want)
		}
	}
}

func TestUnconfiguredSMTPSkipsDelivery(t *testing.T) {
	svc := NewEmailService(SMTPConfig{}, zerolog.Nop())
	svc.send = func(string, string) error {
		t.Fatal("send called without SMTP configuration")
		return nil
	}

	if err := svc.SendPasswordResetEmail("ana@example.com", "Ana", "tok", time.Now()); err != nil {
		t.Fatal(err)
	}
	if err := svc.SendWelcomeEmail("ana@example.com", "Ana"); err != nil {
		t.Fatal(err)
	}
}
