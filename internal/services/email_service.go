// Package services – EmailService
//
// This file implements the EmailService, which delivers templated
// notification emails through the external delivery collaborator. It fills a
// display-name fallback from the recipient address when none is supplied, and
// records a receipt per successful send so retried requests carrying the same
// Idempotency-Key are replayed instead of re-sent.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/decoynet/go-phishsim-backend/internal/mailer"
	"github.com/decoynet/go-phishsim-backend/internal/repo"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Deliverer is the contract of the email delivery collaborator.
type Deliverer interface {
	// Send delivers one templated email.
	Send(ctx context.Context, templateID string, params mailer.TemplateParams) error
}

// SendEmailInput carries the template id and substitution values for one
// notification send.
type SendEmailInput struct {
	Template    string
	Fullname    string
	Email       string
	URL         string
	ToEmail     string
	FromService string
}

// EmailService delivers campaign notification emails and owns their
// replay-on-retry semantics.
type EmailService struct {
	// DB is the database handle used for receipt persistence.
	DB *gorm.DB
	// Mailer is the delivery collaborator.
	Mailer Deliverer

	// ReceiptTTL is how long a delivery receipt stays replayable. Values
	// <= 0 default to 24 hours.
	ReceiptTTL time.Duration
	// NameLocale drives title-casing of the display-name fallback.
	NameLocale language.Tag
}

// NewEmailService constructs an EmailService with a 24h receipt window.
func NewEmailService(db *gorm.DB, m Deliverer) *EmailService {
	return &EmailService{
		DB:         db,
		Mailer:     m,
		ReceiptTTL: 24 * time.Hour,
		NameLocale: language.English,
	}
}

// SendTemplate delivers one notification email.
//
// Semantics:
//   - ToEmail must be present; otherwise ErrEmptyRecipient.
//   - When Fullname is blank, a best-effort display name is derived from the
//     recipient address's local part ("jane.doe" → "Jane Doe").
//   - When idemKey is non-empty and a non-expired receipt exists for
//     (recipient, template, key), the send is skipped and replayed=true is
//     returned.
//   - Delivery failure surfaces as ErrEmailDelivery; no receipt is written.
//
// On successful delivery a receipt is stored best-effort: a receipt-write
// failure is not allowed to fail a send that already happened.
func (s *EmailService) SendTemplate(ctx context.Context, idemKey string, in SendEmailInput) (replayed bool, err error) {
	to := strings.TrimSpace(in.ToEmail)
	if to == "" {
		return false, ErrEmptyRecipient
	}

	if idemKey != "" {
		if _, err := repo.GetEmailReceipt(ctx, s.DB, to, in.Template, idemKey, time.Now().UTC()); err == nil {
			return true, nil
		}
	}

	fullname := strings.TrimSpace(in.Fullname)
	if fullname == "" {
		fullname = s.nameFromAddress(to)
	}

	params := mailer.TemplateParams{
		Fullname:    fullname,
		Email:       in.Email,
		URL:         in.URL,
		ToEmail:     to,
		FromService: in.FromService,
	}
	if err := s.Mailer.Send(ctx, in.Template, params); err != nil {
		return false, fmt.Errorf("%w: %v", ErrEmailDelivery, err)
	}

	if idemKey != "" {
		ttl := s.ReceiptTTL
		if ttl <= 0 {
			ttl = 24 * time.Hour
		}
		if _, err := repo.CreateEmailReceipt(ctx, s.DB, to, in.Template, idemKey, 200, ttl); err != nil && !errors.Is(err, repo.ErrDuplicate) {
			// The email went out; a receipt-write failure only costs replay.
			return false, nil
		}
	}
	return false, nil
}

// nameFromAddress derives a human-ish display name from an email local part:
// separators become spaces, digits are dropped, words are title-cased.
func (s *EmailService) nameFromAddress(addr string) string {
	local := addr
	if at := strings.IndexByte(addr, '@'); at > 0 {
		local = addr[:at]
	}
	local = strings.Map(func(r rune) rune {
		switch {
		case r == '.' || r == '_' || r == '-' || r == '+':
			return ' '
		case r >= '0' && r <= '9':
			return -1
		default:
			return r
		}
	}, local)
	local = strings.Join(strings.Fields(local), " ")
	if local == "" {
		return ""
	}
	tag := s.NameLocale
	if tag == language.Und {
		tag = language.English
	}
	return cases.Title(tag).String(local)
}
