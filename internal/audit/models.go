package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// EventCategory classifies audit events by their primary purpose.
// This enables different retention policies, storage backends, and routing.
type EventCategory string

const (
	// CategoryCompliance covers events with legal/regulatory significance.
	// Personnel records fall under labor-law retention requirements.
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers events relevant to security monitoring,
	// e.g. failed authentication against the profile API.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers events useful for debugging and operational
	// visibility, such as validation failures.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
//
// Identity numbers never travel on events: SubjectIDHash carries a SHA-256
// of the resident registration number when one was evaluated.
type Event struct {
	Category      EventCategory
	Timestamp     time.Time
	ActorID       string // who performed the action (API user)
	EmployeeID    string // which record was touched
	Action        string
	Section       string // profile section for edit events
	Outcome       string // "ok", "rejected", ...
	Reason        string
	RequestID     string
	DeviceInfo    string // browser/platform summary from the request
	SubjectIDHash string
}

// Action names recorded by the profile service.
const (
	ActionEmployeeCreated    = "employee_created"
	ActionBasicInfoUpdated   = "basic_info_updated"
	ActionSectionUpdated     = "section_updated"
	ActionValidationRejected = "validation_rejected"
	ActionEmployeeRetired    = "employee_retired"
)

// eventCategories routes actions to categories; unlisted actions default to
// operations.
var eventCategories = map[string]EventCategory{
	ActionEmployeeCreated:    CategoryCompliance,
	ActionBasicInfoUpdated:   CategoryCompliance,
	ActionSectionUpdated:     CategoryCompliance,
	ActionEmployeeRetired:    CategoryCompliance,
	ActionValidationRejected: CategoryOperations,
}

// CategoryFor returns the category an action belongs to.
func CategoryFor(action string) EventCategory {
	if c, ok := eventCategories[action]; ok {
		return c
	}
	return CategoryOperations
}

// HashSubjectID produces the stable SHA-256 digest stored instead of a raw
// identity number. Empty input hashes to the empty string, not a digest, so
// absent numbers stay visibly absent.
func HashSubjectID(raw string) string {
	if raw == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
