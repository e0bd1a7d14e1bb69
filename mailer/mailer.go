package mailer

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sohaibtahir00/job-portal-backend-sub003/utils"
)

// CheckInEmail is everything the check-in notice needs. The scheduler fills
// it from the introduction chain; the mailer only formats and delivers.
type CheckInEmail struct {
	CandidateEmail      string
	CandidateName       string
	EmployerCompanyName string
	JobTitle            string
	CheckInNumber       int
	ResponseToken       string
	IntroductionDate    time.Time
}

// Mailer delivers check-in notices. Implementations are transport-only:
// recording the send on the check-in row stays with the caller so a delivery
// is never marked sent unless the mailer returned nil.
type Mailer interface {
	SendCheckInEmail(ctx context.Context, email CheckInEmail) error
}

const checkInSubjectTmpl = `Quick check-in: your introduction to {{.employerCompanyName}}`

const checkInBodyTmpl = `Hi {{.candidateName}},

On {{.introductionDate}} we introduced you to {{.employerCompanyName}}{{if .jobTitle}} for the {{.jobTitle}} role{{end}}.
This is check-in #{{.checkInNumber}}. How are things going?

Tell us here (takes under a minute):
{{.responseUrl}}

The link expires in 14 days. If nothing has changed, a one-line reply is plenty.

Thanks,
The TalentBridge team
`

// RenderCheckInEmail produces the subject and plain-text body shared by all
// transports.
func RenderCheckInEmail(email CheckInEmail) (string, string, error) {
	data := map[string]interface{}{
		"candidateName":       email.CandidateName,
		"employerCompanyName": email.EmployerCompanyName,
		"jobTitle":            email.JobTitle,
		"checkInNumber":       email.CheckInNumber,
		"introductionDate":    email.IntroductionDate.Format("January 2, 2006"),
		"responseUrl":         ResponseURL(email.ResponseToken),
	}
	subject, err := utils.ExecTemplate(checkInSubjectTmpl, data)
	if err != nil {
		return "", "", err
	}
	body, err := utils.ExecTemplate(checkInBodyTmpl, data)
	if err != nil {
		return "", "", err
	}
	return subject, body, nil
}

// ResponseURL builds the candidate-facing link that carries the response
// token. CHECKIN_RESPONSE_BASE_URL points at the frontend respond page.
func ResponseURL(token string) string {
	base := os.Getenv("CHECKIN_RESPONSE_BASE_URL")
	if base == "" {
		base = "http://localhost:3000/checkins/respond"
	}
	return strings.TrimRight(base, "/") + "/" + token
}

// FromEnv picks the transport named by MAIL_DRIVER: "ses", "smtp" or "log".
// The log driver is the default so local environments never need mail
// credentials.
func FromEnv(ctx context.Context, logger *logrus.Logger) (Mailer, error) {
	driver := strings.ToLower(strings.TrimSpace(os.Getenv("MAIL_DRIVER")))
	switch driver {
	case "ses":
		return NewSESMailer(ctx, logger)
	case "smtp":
		return NewSMTPMailer()
	case "", "log":
		return NewLogMailer(logger), nil
	default:
		return nil, fmt.Errorf("unknown MAIL_DRIVER %q", driver)
	}
}

// LogMailer renders the email and writes it to the log instead of sending.
type LogMailer struct {
	logger *logrus.Logger
}

func NewLogMailer(logger *logrus.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendCheckInEmail(ctx context.Context, email CheckInEmail) error {
	subject, body, err := RenderCheckInEmail(email)
	if err != nil {
		return err
	}
	m.logger.WithFields(logrus.Fields{
		"to":            email.CandidateEmail,
		"subject":       subject,
		"checkInNumber": email.CheckInNumber,
	}).Info("check-in email (log driver, not delivered)")
	m.logger.Debug(body)
	return nil
}
