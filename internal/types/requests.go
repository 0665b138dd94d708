package types

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
)

// WriteSectionRequest is the request body for writing one application section.
// The payload fully replaces the stored section data.
type WriteSectionRequest struct {
	Data        json.RawMessage `json:"data" validate:"required"`
	DocumentRef *DocumentRef    `json:"document_ref,omitempty"`
}

// VerifySectionRequest is a reviewer's decision on one section.
type VerifySectionRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approved rejected"`
	Notes    string `json:"notes,omitempty"`
}

// UpdateStatusRequest is a reviewer's status change. Remarks are mandatory.
// Force bypasses the transition graph and is reserved for privileged
// reviewer overrides.
type UpdateStatusRequest struct {
	Status  string `json:"status" validate:"required"`
	Remarks string `json:"remarks" validate:"required"`
	Force   bool   `json:"force,omitempty"`
}

// Validate validates the WriteSectionRequest using the validator.
func (r *WriteSectionRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the VerifySectionRequest using the validator.
func (r *VerifySectionRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the UpdateStatusRequest using the validator.
func (r *UpdateStatusRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
