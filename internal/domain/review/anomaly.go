package review

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// AnomalyType categorizes a data-quality finding. The set is open-ended;
// new types may appear without a schema change.
type AnomalyType string

const (
	AnomalyAmountMismatch AnomalyType = "amount_mismatch"
	AnomalyDateValidation AnomalyType = "date_validation"
	AnomalyDuplicate      AnomalyType = "duplicate"
	AnomalyTaxCalculation AnomalyType = "tax_calculation"
	AnomalyVendorMismatch AnomalyType = "vendor_mismatch"
)

// AnomalyPriority indicates how urgent a finding is for reviewers.
type AnomalyPriority string

const (
	PriorityLow    AnomalyPriority = "low"
	PriorityMedium AnomalyPriority = "medium"
	PriorityHigh   AnomalyPriority = "high"
)

// IsValid reports whether the priority is one of the known values.
func (p AnomalyPriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Anomaly is a single detected data-quality finding attached to an invoice.
// The ID is immutable once created; Resolved is the only mutable field.
type Anomaly struct {
	ID          string          `json:"id"`
	Type        AnomalyType     `json:"type"`
	Priority    AnomalyPriority `json:"priority"`
	Description string          `json:"description"`
	Details     string          `json:"details"`
	Resolved    bool            `json:"resolved"`
}

// AnomalyList is a JSON-serializable collection of anomalies, stored as a
// JSONB column.
type AnomalyList []Anomaly

// Value implements driver.Valuer interface for GORM to store as JSONB
func (l AnomalyList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (l *AnomalyList) Scan(value interface{}) error {
	if value == nil {
		*l = AnomalyList{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into AnomalyList", value)
	}

	return json.Unmarshal(bytes, l)
}
