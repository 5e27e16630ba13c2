// Package validation checks configuration sections and decoded payloads.
//
// Struct tag validation (go-playground/validator) covers shape rules declared
// on the type; the programmatic Validator collects cross-field rules that tags
// cannot express. Both report a single INVALID_INPUT AppError listing every
// failing field.
//
//	type remoteItem struct {
//	    Name     string  `json:"name" validate:"required"`
//	    Quantity float64 `json:"quantity" validate:"gte=0"`
//	}
//	err := validation.Validate(item)
package validation
