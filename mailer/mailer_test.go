package mailer

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func sampleEmail() CheckInEmail {
	return CheckInEmail{
		CandidateEmail:      "aye.chan@example.com",
		CandidateName:       "Aye Chan",
		EmployerCompanyName: "Golden Lotus Tech",
		JobTitle:            "Backend Engineer",
		CheckInNumber:       2,
		ResponseToken:       "tok123",
		IntroductionDate:    time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestRenderCheckInEmail(t *testing.T) {
	t.Setenv("CHECKIN_RESPONSE_BASE_URL", "https://app.example.com/checkins/respond/")

	subject, body, err := RenderCheckInEmail(sampleEmail())
	if err != nil {
		t.Fatalf("RenderCheckInEmail: %v", err)
	}

	if subject != "Quick check-in: your introduction to Golden Lotus Tech" {
		t.Fatalf("unexpected subject %q", subject)
	}
	for _, want := range []string{
		"Hi Aye Chan",
		"March 1, 2026",
		"Golden Lotus Tech",
		"for the Backend Engineer role",
		"check-in #2",
		"https://app.example.com/checkins/respond/tok123",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("body missing %q:\n%s", want, body)
		}
	}
	if strings.Contains(body, "{{") {
		t.Fatalf("unexpanded template markers in body:\n%s", body)
	}
}

func TestRenderCheckInEmail_NoJobTitle(t *testing.T) {
	email := sampleEmail()
	email.JobTitle = ""

	_, body, err := RenderCheckInEmail(email)
	if err != nil {
		t.Fatalf("RenderCheckInEmail: %v", err)
	}
	if strings.Contains(body, "for the") {
		t.Fatalf("job clause should be omitted without a title:\n%s", body)
	}
}

func TestResponseURL(t *testing.T) {
	t.Setenv("CHECKIN_RESPONSE_BASE_URL", "")
	if got := ResponseURL("abc"); got != "http://localhost:3000/checkins/respond/abc" {
		t.Fatalf("unexpected default url %q", got)
	}

	// Trailing slashes on the configured base never double up.
	t.Setenv("CHECKIN_RESPONSE_BASE_URL", "https://app.example.com/respond///")
	if got := ResponseURL("abc"); got != "https://app.example.com/respond/abc" {
		t.Fatalf("unexpected url %q", got)
	}
}

func TestLogMailerSends(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(&strings.Builder{})

	m := NewLogMailer(logger)
	if err := m.SendCheckInEmail(context.Background(), sampleEmail()); err != nil {
		t.Fatalf("log driver should always deliver: %v", err)
	}
}

func TestFromEnv_DriverSelection(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(&strings.Builder{})
	ctx := context.Background()

	t.Setenv("MAIL_DRIVER", "")
	m, err := FromEnv(ctx, logger)
	if err != nil {
		t.Fatalf("empty driver should default to log: %v", err)
	}
	if _, ok := m.(*LogMailer); !ok {
		t.Fatalf("expected *LogMailer, got %T", m)
	}

	t.Setenv("MAIL_DRIVER", "carrier-pigeon")
	if _, err := FromEnv(ctx, logger); err == nil {
		t.Fatal("unknown driver must be rejected")
	}
}
