package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"personnel/internal/audit"
	"personnel/internal/identity"
	"personnel/internal/profile/metrics"
	"personnel/internal/profile/models"
	"personnel/internal/profile/validation"
	dErrors "personnel/pkg/domain-errors"
	"personnel/pkg/platform/sentinel"
	"personnel/pkg/requestcontext"
)

var tracer = otel.Tracer("personnel/internal/profile/service")

// EmployeeStore persists employee aggregates.
type EmployeeStore interface {
	Create(ctx context.Context, e *models.Employee) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Employee, error)
	FindByNumber(ctx context.Context, number string) (*models.Employee, error)
	Update(ctx context.Context, e *models.Employee) error
	Count(ctx context.Context) (int, error)
}

// AuditPublisher records domain events for the audit trail.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service orchestrates profile validation, persistence and auditing.
//
// Raw resident registration numbers never reach the logger or the audit
// trail: log lines carry the masked form and audit events the SHA-256 hash.
type Service struct {
	store          EmployeeStore
	basic          *validation.ProfileValidator
	sections       *validation.SectionValidator
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
	now            func() time.Time
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithClock fixes the service clock for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New constructs a Service.
func New(store EmployeeStore, basic *validation.ProfileValidator, sections *validation.SectionValidator, opts ...Option) *Service {
	s := &Service{
		store:    store,
		basic:    basic,
		sections: sections,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ValidateIdentityNumber runs the full resident-registration-number check and
// returns the parse outcome without touching any store.
func (s *Service) ValidateIdentityNumber(ctx context.Context, raw string) identity.Parsed {
	parsed := identity.ParseAt(raw, s.now())

	outcome := "ok"
	if !parsed.Valid {
		outcome = string(parsed.Code)
	}
	s.metrics.IncrementIdentityValidation(outcome)
	s.logger.DebugContext(ctx, "identity number validated",
		"masked", identity.Mask(raw),
		"outcome", outcome)
	return parsed
}

// ValidateBasicInfo checks a basic-info payload without persisting anything.
func (s *Service) ValidateBasicInfo(ctx context.Context, data map[string]string, strict bool) *validation.Result {
	result := s.basic.ValidateBasicInfo(data, strict)
	s.metrics.IncrementProfileValidation("basic", result.Valid)
	return result
}

// ValidateSection checks one section's payload without persisting anything.
// The returned map is empty when everything passed.
func (s *Service) ValidateSection(ctx context.Context, section string, data map[string]any, strict bool) map[string]string {
	errs := s.sections.ValidateSection(ctx, section, data, strict)
	s.metrics.IncrementProfileValidation("section", len(errs) == 0)
	return errs
}

// CreateEmployee validates the payload strictly and persists a new active
// employee. On validation failure the result carries the field errors and the
// returned error has code validation_error.
func (s *Service) CreateEmployee(ctx context.Context, req *models.CreateEmployeeRequest) (*models.Employee, *validation.Result, error) {
	start := s.now()
	defer s.metrics.ObserveCreate(start)

	ctx, span := tracer.Start(ctx, "profile.create_employee",
		trace.WithAttributes(attribute.String("employee_number", req.EmployeeNumber)))
	defer span.End()

	req.Normalize()

	result := s.basic.ValidateBasicInfo(req.BasicInfo, true)
	s.metrics.IncrementProfileValidation("basic", result.Valid)
	if !result.Valid {
		s.emitAudit(ctx, audit.Event{
			Action:        audit.ActionValidationRejected,
			Outcome:       "rejected",
			Reason:        firstError(result),
			SubjectIDHash: audit.HashSubjectID(req.BasicInfo["resident_number"]),
		})
		return nil, result, dErrors.New(dErrors.CodeValidation, "basic info failed validation")
	}

	e, err := models.NewEmployee(uuid.New(), req.EmployeeNumber, req.BasicInfo, start)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, nil, dErrors.New(dErrors.CodeValidation, err.Error())
		}
		return nil, nil, err
	}

	if err := s.store.Create(ctx, e); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, nil, dErrors.New(dErrors.CodeConflict, "employee number already in use")
		}
		return nil, nil, dErrors.Wrap(dErrors.CodeInternal, "failed to create employee", err)
	}

	s.emitAudit(ctx, audit.Event{
		Action:        audit.ActionEmployeeCreated,
		EmployeeID:    e.ID.String(),
		Outcome:       "ok",
		SubjectIDHash: audit.HashSubjectID(e.BasicInfo["resident_number"]),
	})
	s.metrics.IncrementEmployeeCreated()
	s.logger.InfoContext(ctx, "employee created",
		"employee_id", e.ID,
		"employee_number", e.EmployeeNumber)

	return e, result, nil
}

// GetEmployee returns a stored employee by id.
func (s *Service) GetEmployee(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	e, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "employee not found")
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to load employee", err)
	}
	return e, nil
}

// UpdateBasicInfo replaces the basic-info fields of an employee after the
// payload passes validation.
func (s *Service) UpdateBasicInfo(ctx context.Context, id uuid.UUID, data map[string]string, strict bool) (*models.Employee, *validation.Result, error) {
	start := s.now()
	defer s.metrics.ObserveUpdateBasic(start)

	ctx, span := tracer.Start(ctx, "profile.update_basic_info",
		trace.WithAttributes(attribute.String("employee_id", id.String())))
	defer span.End()

	e, err := s.GetEmployee(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	for field, value := range data {
		data[field] = strings.TrimSpace(value)
	}

	result := s.basic.ValidateBasicInfo(data, strict)
	s.metrics.IncrementProfileValidation("basic", result.Valid)
	if !result.Valid {
		s.emitAudit(ctx, audit.Event{
			Action:        audit.ActionValidationRejected,
			EmployeeID:    e.ID.String(),
			Outcome:       "rejected",
			Reason:        firstError(result),
			SubjectIDHash: audit.HashSubjectID(data["resident_number"]),
		})
		return nil, result, dErrors.New(dErrors.CodeValidation, "basic info failed validation")
	}

	e.ApplyBasicInfo(data, start)
	if err := s.store.Update(ctx, e); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, nil, dErrors.New(dErrors.CodeNotFound, "employee not found")
		}
		return nil, nil, dErrors.Wrap(dErrors.CodeInternal, "failed to update employee", err)
	}

	s.emitAudit(ctx, audit.Event{
		Action:        audit.ActionBasicInfoUpdated,
		EmployeeID:    e.ID.String(),
		Outcome:       "ok",
		SubjectIDHash: audit.HashSubjectID(e.BasicInfo["resident_number"]),
	})
	return e, result, nil
}

// UpdateSection replaces one section of an employee record after the payload
// passes validation. The second return value carries field errors on
// rejection.
func (s *Service) UpdateSection(ctx context.Context, id uuid.UUID, section string, fields map[string]any, strict bool) (*models.Employee, map[string]string, error) {
	start := s.now()
	defer s.metrics.ObserveUpdateSection(start)

	ctx, span := tracer.Start(ctx, "profile.update_section",
		trace.WithAttributes(
			attribute.String("employee_id", id.String()),
			attribute.String("section", section)))
	defer span.End()

	e, err := s.GetEmployee(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	errs := s.sections.ValidateSection(ctx, section, fields, strict)
	s.metrics.IncrementProfileValidation("section", len(errs) == 0)
	if len(errs) > 0 {
		s.emitAudit(ctx, audit.Event{
			Action:     audit.ActionValidationRejected,
			EmployeeID: e.ID.String(),
			Section:    section,
			Outcome:    "rejected",
			Reason:     firstSectionError(errs),
		})
		return nil, errs, dErrors.Newf(dErrors.CodeValidation, "section %s failed validation", section)
	}

	e.ApplySection(section, fields, start)
	if err := s.store.Update(ctx, e); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, nil, dErrors.New(dErrors.CodeNotFound, "employee not found")
		}
		return nil, nil, dErrors.Wrap(dErrors.CodeInternal, "failed to update employee", err)
	}

	s.emitAudit(ctx, audit.Event{
		Action:     audit.ActionSectionUpdated,
		EmployeeID: e.ID.String(),
		Section:    section,
		Outcome:    "ok",
	})
	return e, nil, nil
}

// AutoFill derives birth date, age and gender from the stored resident
// registration number of an employee.
func (s *Service) AutoFill(ctx context.Context, id uuid.UUID) (*validation.AutoFields, error) {
	e, err := s.GetEmployee(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.AutoFillFromNumber(ctx, e.BasicInfo["resident_number"])
}

// AutoFillFromNumber derives the auto-fill values from a raw number, for the
// registration form before any record exists.
func (s *Service) AutoFillFromNumber(ctx context.Context, rrn string) (*validation.AutoFields, error) {
	fields := validation.ExtractAutoFieldsAt(rrn, s.now())
	if fields == nil {
		return nil, dErrors.New(dErrors.CodeValidation, "resident registration number is not valid")
	}
	return fields, nil
}

// RetireEmployee transitions an employee to retired.
func (s *Service) RetireEmployee(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	e, err := s.GetEmployee(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := e.Retire(s.now()); err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeConflict, err.Error())
		}
		return nil, err
	}
	if err := s.store.Update(ctx, e); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to update employee", err)
	}
	s.emitAudit(ctx, audit.Event{
		Action:     audit.ActionEmployeeRetired,
		EmployeeID: e.ID.String(),
		Outcome:    "ok",
	})
	return e, nil
}

// emitAudit fills request-scoped fields and hands the event to the publisher.
// Publishing is best effort; a failing sink must not fail the operation.
func (s *Service) emitAudit(ctx context.Context, event audit.Event) {
	event.ActorID = requestcontext.UserID(ctx)
	event.RequestID = requestcontext.RequestID(ctx)
	event.DeviceInfo = requestcontext.DeviceInfo(ctx)

	s.logger.InfoContext(ctx, event.Action,
		"log_type", "audit",
		"employee_id", event.EmployeeID,
		"outcome", event.Outcome,
		"request_id", event.RequestID)

	if s.auditPublisher == nil {
		return
	}
	if err := s.auditPublisher.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "audit emit failed",
			"action", event.Action,
			"error", err)
	}
}

func firstError(result *validation.Result) string {
	if len(result.Errors) == 0 {
		return ""
	}
	return result.Errors[0].Message
}

func firstSectionError(errs map[string]string) string {
	first := ""
	for field := range errs {
		if first == "" || field < first {
			first = field
		}
	}
	return errs[first]
}
