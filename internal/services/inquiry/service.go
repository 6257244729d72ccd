// Package inquiry implements the form-submission pipeline shared by the
// contact, development, and SMM inquiry variants.
package inquiry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/wrenlabs/slate/internal/common"
	"github.com/wrenlabs/slate/internal/interfaces"
	"github.com/wrenlabs/slate/internal/models"
)

// Payload is the decoded form submission. Field names match the JSON the
// site posts; variants ignore the fields they do not use.
type Payload struct {
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Phone       string   `json:"phone"`
	Company     string   `json:"company"`
	ProjectType string   `json:"projectType"`
	Budget      string   `json:"budget"`
	Message     string   `json:"message"`
	Platforms   []string `json:"platforms"`
	Goals       string   `json:"goals"`
}

// EmailsSent reports which of the two best-effort notification sends
// succeeded. It never affects the success of the submission itself.
type EmailsSent struct {
	Admin bool `json:"admin"`
	User  bool `json:"user"`
}

// Result is the pipeline outcome returned to the HTTP layer.
type Result struct {
	Record     *models.Inquiry
	EmailsSent EmailsSent
}

// ValidationError reports a missing or invalid submission field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// variantSpec is the per-variant descriptor: which fields are required and
// how the shaped record is assembled. One pipeline serves all variants.
type variantSpec struct {
	required []requiredField
	shape    func(p *Payload, inq *models.Inquiry)
}

type requiredField struct {
	name string
	get  func(p *Payload) string
}

var variants = map[string]variantSpec{
	models.InquiryVariantContact: {
		required: []requiredField{
			{"name", func(p *Payload) string { return p.Name }},
			{"email", func(p *Payload) string { return p.Email }},
			{"company", func(p *Payload) string { return p.Company }},
			{"projectType", func(p *Payload) string { return p.ProjectType }},
			{"message", func(p *Payload) string { return p.Message }},
		},
		shape: func(p *Payload, inq *models.Inquiry) {
			inq.Company = p.Company
			inq.ProjectType = p.ProjectType
			inq.Message = p.Message
		},
	},
	models.InquiryVariantDevelopment: {
		required: []requiredField{
			{"name", func(p *Payload) string { return p.Name }},
			{"email", func(p *Payload) string { return p.Email }},
			{"company", func(p *Payload) string { return p.Company }},
			{"projectType", func(p *Payload) string { return p.ProjectType }},
			{"message", func(p *Payload) string { return p.Message }},
		},
		shape: func(p *Payload, inq *models.Inquiry) {
			inq.Company = p.Company
			inq.ProjectType = p.ProjectType
			inq.Message = p.Message
			inq.Budget = p.Budget
			if inq.Budget == "" {
				inq.Budget = models.DefaultBudget
			}
		},
	},
	models.InquiryVariantSMM: {
		required: []requiredField{
			{"name", func(p *Payload) string { return p.Name }},
			{"email", func(p *Payload) string { return p.Email }},
		},
		shape: func(p *Payload, inq *models.Inquiry) {
			inq.Company = p.Company
			inq.Message = p.Message
			inq.Goals = p.Goals
			inq.Platforms = p.Platforms
			if inq.Platforms == nil {
				inq.Platforms = []string{}
			}
		},
	},
}

// Service runs the inquiry pipeline: validate, persist, notify.
type Service struct {
	store  interfaces.InquiryStore
	mail   interfaces.MailClient
	notify *common.NotifyConfig
	logger *common.Logger
}

func NewService(store interfaces.InquiryStore, mail interfaces.MailClient, notify *common.NotifyConfig, logger *common.Logger) *Service {
	return &Service{store: store, mail: mail, notify: notify, logger: logger}
}

// Submit validates and persists one inquiry, then attempts the two
// best-effort notification sends (admin alert, submitter confirmation).
//
// Persistence is the hard dependency: a store failure aborts the pipeline
// before any notification is attempted. Once the record is persisted the
// submission has succeeded; notification failures are logged and reported
// in EmailsSent but never escalate.
func (s *Service) Submit(ctx context.Context, variant string, payload *Payload) (*Result, error) {
	spec, ok := variants[variant]
	if !ok {
		return nil, fmt.Errorf("unknown inquiry variant: %s", variant)
	}

	for _, f := range spec.required {
		if f.get(payload) == "" {
			return nil, &ValidationError{Field: f.name, Reason: "is required"}
		}
	}
	for _, platform := range payload.Platforms {
		if !models.ValidPlatforms[platform] {
			return nil, &ValidationError{Field: "platforms", Reason: fmt.Sprintf("contains unknown platform %q", platform)}
		}
	}

	record := &models.Inquiry{
		Variant:   variant,
		Name:      payload.Name,
		Email:     payload.Email,
		Phone:     payload.Phone,
		CreatedAt: time.Now(),
	}
	spec.shape(payload, record)

	if err := s.store.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to persist inquiry: %w", err)
	}

	result := &Result{Record: record}
	result.EmailsSent = s.sendNotifications(ctx, record)
	return result, nil
}

// sendNotifications issues the admin and user sends concurrently; each is
// attempted regardless of the other's outcome.
func (s *Service) sendNotifications(ctx context.Context, record *models.Inquiry) EmailsSent {
	var sent EmailsSent
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		subject := adminSubject(record)
		if _, err := s.mail.Send(ctx, s.notify.From, s.notify.AdminAddress, subject, renderAdminEmail(record)); err != nil {
			s.logger.Warn().Err(err).Str("inquiry_id", record.ID).Msg("Admin notification failed")
			return
		}
		sent.Admin = true
	}()

	go func() {
		defer wg.Done()
		to, subject := s.userRecipient(record)
		if _, err := s.mail.Send(ctx, s.notify.From, to, subject, renderUserEmail(record)); err != nil {
			s.logger.Warn().Err(err).Str("inquiry_id", record.ID).Msg("User confirmation failed")
			return
		}
		sent.User = true
	}()

	wg.Wait()
	return sent
}

// userRecipient applies the redirect policy: when redirect_all_to is set
// (non-production deployments), confirmations go to that inbox with the
// intended recipient noted in the subject.
func (s *Service) userRecipient(record *models.Inquiry) (to, subject string) {
	subject = userSubject(record)
	if s.notify.RedirectAllTo != "" {
		return s.notify.RedirectAllTo, fmt.Sprintf("%s [intended for %s]", subject, record.Email)
	}
	return record.Email, subject
}

func adminSubject(record *models.Inquiry) string {
	switch record.Variant {
	case models.InquiryVariantDevelopment:
		return fmt.Sprintf("New development inquiry from %s", record.Name)
	case models.InquiryVariantSMM:
		return fmt.Sprintf("New SMM inquiry from %s", record.Name)
	default:
		return fmt.Sprintf("New contact message from %s", record.Name)
	}
}

func userSubject(record *models.Inquiry) string {
	switch record.Variant {
	case models.InquiryVariantDevelopment:
		return "We received your development inquiry"
	case models.InquiryVariantSMM:
		return "We received your SMM inquiry"
	default:
		return "Thanks for getting in touch"
	}
}
