package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"personnel/internal/identity"
	"personnel/internal/platform/metrics"
	"personnel/internal/platform/middleware"
	"personnel/internal/profile/models"
	"personnel/internal/profile/validation"
	dErrors "personnel/pkg/domain-errors"
	"personnel/pkg/platform/httputil"
)

// Service defines the profile operations the HTTP layer depends on.
type Service interface {
	ValidateIdentityNumber(ctx context.Context, raw string) identity.Parsed
	ValidateBasicInfo(ctx context.Context, data map[string]string, strict bool) *validation.Result
	ValidateSection(ctx context.Context, section string, data map[string]any, strict bool) map[string]string
	CreateEmployee(ctx context.Context, req *models.CreateEmployeeRequest) (*models.Employee, *validation.Result, error)
	GetEmployee(ctx context.Context, id uuid.UUID) (*models.Employee, error)
	UpdateBasicInfo(ctx context.Context, id uuid.UUID, data map[string]string, strict bool) (*models.Employee, *validation.Result, error)
	UpdateSection(ctx context.Context, id uuid.UUID, section string, fields map[string]any, strict bool) (*models.Employee, map[string]string, error)
	AutoFill(ctx context.Context, id uuid.UUID) (*validation.AutoFields, error)
	AutoFillFromNumber(ctx context.Context, rrn string) (*validation.AutoFields, error)
	RetireEmployee(ctx context.Context, id uuid.UUID) (*models.Employee, error)
}

// Handler serves the profile and validation endpoints.
type Handler struct {
	logger       *slog.Logger
	profiles     Service
	metrics      *metrics.Metrics
	jwtValidator middleware.JWTValidator
}

// New creates a new profile Handler.
func New(
	profiles Service,
	logger *slog.Logger,
	metrics *metrics.Metrics,
	jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		logger:       logger,
		profiles:     profiles,
		metrics:      metrics,
		jwtValidator: jwtValidator,
	}
}

// Register mounts the profile routes on the chi router.
//
// The /validate endpoints are open: they are pure functions over the request
// body and persist nothing. Everything under /profiles requires a bearer
// token.
func (h *Handler) Register(r chi.Router) {
	base := func(router chi.Router) {
		router.Use(middleware.Recovery(h.logger))
		router.Use(middleware.RequestID)
		router.Use(middleware.RequestTime)
		router.Use(middleware.ClientMetadata)
		router.Use(middleware.Device)
		router.Use(middleware.Logger(h.logger))
		router.Use(middleware.Timeout(30 * time.Second))
		router.Use(middleware.ContentTypeJSON)
		router.Use(middleware.Latency(h.metrics))
	}

	validateRouter := chi.NewRouter()
	base(validateRouter)
	validateRouter.Post("/identity-number", h.handleValidateIdentityNumber)
	validateRouter.Post("/basic", h.handleValidateBasic)
	validateRouter.Post("/section", h.handleValidateSection)

	profileRouter := chi.NewRouter()
	base(profileRouter)
	profileRouter.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
	profileRouter.Post("/", h.handleCreateEmployee)
	profileRouter.Get("/{id}", h.handleGetEmployee)
	profileRouter.Put("/{id}/basic", h.handleUpdateBasicInfo)
	profileRouter.Put("/{id}/sections/{section}", h.handleUpdateSection)
	profileRouter.Get("/{id}/autofill", h.handleAutoFill)
	profileRouter.Post("/{id}/retire", h.handleRetireEmployee)

	r.Mount("/validate", validateRouter)
	r.Mount("/profiles", profileRouter)
}

type validateIdentityRequest struct {
	ResidentNumber string `json:"resident_number"`
}

func (h *Handler) handleValidateIdentityNumber(w http.ResponseWriter, r *http.Request) {
	var req validateIdentityRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	parsed := h.profiles.ValidateIdentityNumber(r.Context(), req.ResidentNumber)
	httputil.WriteJSON(w, http.StatusOK, parsed)
}

type validateBasicRequest struct {
	Data   map[string]string `json:"data"`
	Strict bool              `json:"strict"`
}

func (h *Handler) handleValidateBasic(w http.ResponseWriter, r *http.Request) {
	var req validateBasicRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	result := h.profiles.ValidateBasicInfo(r.Context(), req.Data, req.Strict)
	httputil.WriteJSON(w, http.StatusOK, result)
}

type validateSectionRequest struct {
	Section string         `json:"section"`
	Data    map[string]any `json:"data"`
	Strict  bool           `json:"strict"`
}

type validateSectionResponse struct {
	Valid  bool              `json:"is_valid"`
	Errors map[string]string `json:"errors,omitempty"`
}

func (h *Handler) handleValidateSection(w http.ResponseWriter, r *http.Request) {
	var req validateSectionRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	errs := h.profiles.ValidateSection(r.Context(), req.Section, req.Data, req.Strict)
	httputil.WriteJSON(w, http.StatusOK, validateSectionResponse{
		Valid:  len(errs) == 0,
		Errors: errs,
	})
}

func (h *Handler) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req models.CreateEmployeeRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	e, result, err := h.profiles.CreateEmployee(r.Context(), &req)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeValidation) && result != nil {
			h.writeValidationFailure(w, result)
			return
		}
		h.writeServiceError(w, r, err, "failed to create employee")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, e)
}

func (h *Handler) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := employeeID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	e, err := h.profiles.GetEmployee(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to load employee")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, e)
}

type updateBasicRequest struct {
	Data   map[string]string `json:"data"`
	Strict bool              `json:"strict"`
}

func (h *Handler) handleUpdateBasicInfo(w http.ResponseWriter, r *http.Request) {
	id, err := employeeID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req updateBasicRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	e, result, err := h.profiles.UpdateBasicInfo(r.Context(), id, req.Data, req.Strict)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeValidation) && result != nil {
			h.writeValidationFailure(w, result)
			return
		}
		h.writeServiceError(w, r, err, "failed to update basic info")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, e)
}

type updateSectionRequest struct {
	Data   map[string]any `json:"data"`
	Strict bool           `json:"strict"`
}

func (h *Handler) handleUpdateSection(w http.ResponseWriter, r *http.Request) {
	id, err := employeeID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	section := chi.URLParam(r, "section")

	var req updateSectionRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	e, fieldErrs, err := h.profiles.UpdateSection(r.Context(), id, section, req.Data, req.Strict)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeValidation) && fieldErrs != nil {
			httputil.WriteJSON(w, http.StatusUnprocessableEntity, validateSectionResponse{
				Valid:  false,
				Errors: fieldErrs,
			})
			return
		}
		h.writeServiceError(w, r, err, "failed to update section")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) handleAutoFill(w http.ResponseWriter, r *http.Request) {
	var fields *validation.AutoFields
	var err error

	if rrn := r.URL.Query().Get("rrn"); rrn != "" {
		fields, err = h.profiles.AutoFillFromNumber(r.Context(), rrn)
	} else {
		var id uuid.UUID
		id, err = employeeID(r)
		if err == nil {
			fields, err = h.profiles.AutoFill(r.Context(), id)
		}
	}
	if err != nil {
		h.writeServiceError(w, r, err, "failed to derive auto-fill fields")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, fields)
}

func (h *Handler) handleRetireEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := employeeID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	e, err := h.profiles.RetireEmployee(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to retire employee")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, e)
}

// validationFailure is the 422 body carrying per-field errors.
type validationFailure struct {
	Error  string             `json:"error"`
	Result *validation.Result `json:"result"`
}

func (h *Handler) writeValidationFailure(w http.ResponseWriter, result *validation.Result) {
	httputil.WriteJSON(w, http.StatusUnprocessableEntity, validationFailure{
		Error:  string(dErrors.CodeValidation),
		Result: result,
	})
}

// writeServiceError passes expected domain errors through and hides anything
// unexpected behind a generic internal error.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	switch dErrors.CodeOf(err) {
	case dErrors.CodeInternal:
		h.logger.ErrorContext(r.Context(), msg, "error", err)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, msg))
	default:
		httputil.WriteError(w, err)
	}
}

func employeeID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeBadRequest, "invalid employee id")
	}
	return id, nil
}
