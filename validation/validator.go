package validation

import (
	"fmt"
	"slices"
	"strings"

	"github.com/kbukum/voiceorder/errors"
)

// FieldError is one failed check.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validator accumulates failed checks so every problem is reported at once.
//
//	err := validation.New().
//	    OneOf("speech.recognizer", cfg.Recognizer, []string{"azure", "whisper"}).
//	    Between("tracing.sample_rate", cfg.SampleRate, 0, 1).
//	    Validate()
type Validator struct {
	errs []FieldError
}

func New() *Validator { return &Validator{} }

func (v *Validator) AddError(field, message string) {
	v.errs = append(v.errs, FieldError{Field: field, Message: message})
}

func (v *Validator) HasErrors() bool { return len(v.errs) > 0 }

func (v *Validator) Errors() []FieldError { return v.errs }

// Custom records message against field unless ok holds.
func (v *Validator) Custom(ok bool, field, message string) *Validator {
	if !ok {
		v.AddError(field, message)
	}
	return v
}

// Required rejects blank strings.
func (v *Validator) Required(field, value string) *Validator {
	return v.Custom(strings.TrimSpace(value) != "", field, "is required")
}

func (v *Validator) NonNegative(field string, value float64) *Validator {
	return v.Custom(value >= 0, field, "must not be negative")
}

// Between accepts values in the closed range [lo, hi].
func (v *Validator) Between(field string, value, lo, hi float64) *Validator {
	return v.Custom(value >= lo && value <= hi, field, fmt.Sprintf("must be between %g and %g", lo, hi))
}

// OneOf accepts an empty value or one of allowed.
func (v *Validator) OneOf(field, value string, allowed []string) *Validator {
	return v.Custom(value == "" || slices.Contains(allowed, value), field,
		"must be one of: "+strings.Join(allowed, ", "))
}

// Section records err, typically a sub-config's Validate result, under field.
func (v *Validator) Section(field string, err error) *Validator {
	if err != nil {
		v.AddError(field, err.Error())
	}
	return v
}

// Validate returns nil, or an INVALID_INPUT AppError listing every failure
// in its message and under the "fields" detail.
func (v *Validator) Validate() error {
	if len(v.errs) == 0 {
		return nil
	}
	parts := make([]string, 0, len(v.errs))
	for _, e := range v.errs {
		parts = append(parts, e.Field+": "+e.Message)
	}
	return errors.Validation(strings.Join(parts, "; ")).WithDetail("fields", v.errs)
}
