package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the profile module.
type Metrics struct {
	// Identity-number validation outcomes by failure stage ("ok",
	// "invalid_format", "invalid_date", ...)
	IdentityValidation *prometheus.CounterVec

	// Basic-info and section validation outcomes by target and result
	ProfileValidation *prometheus.CounterVec

	// Employees created
	EmployeeCreated prometheus.Counter

	// Durations of the write paths
	CreateDuration        prometheus.Histogram
	UpdateBasicDuration   prometheus.Histogram
	UpdateSectionDuration prometheus.Histogram
}

// New creates a new Metrics instance with all profile module metrics registered.
func New() *Metrics {
	return &Metrics{
		IdentityValidation: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "personnel_identity_validations_total",
			Help: "Total resident registration number validations by outcome",
		}, []string{"outcome"}),

		ProfileValidation: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "personnel_profile_validations_total",
			Help: "Total profile validations by target and result",
		}, []string{"target", "result"}), // target: "basic", "section"; result: "valid", "invalid"

		EmployeeCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "personnel_employees_created_total",
			Help: "Total number of employee records created",
		}),

		CreateDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "personnel_employee_create_duration_seconds",
			Help:    "Duration of employee creation including validation",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		UpdateBasicDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "personnel_basic_info_update_duration_seconds",
			Help:    "Duration of basic-info update operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		UpdateSectionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "personnel_section_update_duration_seconds",
			Help:    "Duration of section update operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementIdentityValidation records an identity-number validation outcome.
func (m *Metrics) IncrementIdentityValidation(outcome string) {
	if m != nil {
		m.IdentityValidation.WithLabelValues(outcome).Inc()
	}
}

// IncrementProfileValidation records a basic-info or section validation result.
func (m *Metrics) IncrementProfileValidation(target string, valid bool) {
	if m != nil {
		result := "valid"
		if !valid {
			result = "invalid"
		}
		m.ProfileValidation.WithLabelValues(target, result).Inc()
	}
}

// IncrementEmployeeCreated records a successful employee creation.
func (m *Metrics) IncrementEmployeeCreated() {
	if m != nil {
		m.EmployeeCreated.Inc()
	}
}

// ObserveCreate records the duration of an employee creation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveCreate(start time.Time) {
	if m != nil {
		m.CreateDuration.Observe(time.Since(start).Seconds())
	}
}

// ObserveUpdateBasic records the duration of a basic-info update.
func (m *Metrics) ObserveUpdateBasic(start time.Time) {
	if m != nil {
		m.UpdateBasicDuration.Observe(time.Since(start).Seconds())
	}
}

// ObserveUpdateSection records the duration of a section update.
func (m *Metrics) ObserveUpdateSection(start time.Time) {
	if m != nil {
		m.UpdateSectionDuration.Observe(time.Since(start).Seconds())
	}
}
