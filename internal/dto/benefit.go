// Package dto defines the request payloads accepted by the Benefits API and
// validates them before they reach the service layer.
package dto

import (
	"bytes"
	"encoding/json"

	"github.com/pkordes/benefits-api/internal/domain"
)

// CreateBenefitRequest is the body of POST /benefits.
type CreateBenefitRequest struct {
	Name        string  `json:"name" validate:"required,min=3,max=100"`
	Description *string `json:"description" validate:"omitnil,max=255"`
	IsActive    *bool   `json:"isActive"`
}

// UpdateBenefitRequest is the body of PUT /benefits/{id}.
// Every field is optional; absent fields are left unchanged. An explicit
// "description": null clears the description.
type UpdateBenefitRequest struct {
	Name        *string `json:"name" validate:"omitnil,min=3,max=100"`
	Description *string `json:"description" validate:"omitnil,max=255"`
	IsActive    *bool   `json:"isActive"`

	// ClearDescription is set by UnmarshalJSON when description is null.
	ClearDescription bool `json:"-"`
}

// UnmarshalJSON decodes the request and records whether description was
// sent as null, which a plain *string cannot tell apart from absent.
func (r *UpdateBenefitRequest) UnmarshalJSON(data []byte) error {
	type plain UpdateBenefitRequest
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	raw, ok := fields["description"]
	p.ClearDescription = ok && bytes.Equal(bytes.TrimSpace(raw), []byte("null"))

	*r = UpdateBenefitRequest(p)
	return nil
}

// Patch converts the request into a domain.BenefitPatch.
func (r UpdateBenefitRequest) Patch() domain.BenefitPatch {
	return domain.BenefitPatch{
		Name:             r.Name,
		Description:      r.Description,
		ClearDescription: r.ClearDescription,
		IsActive:         r.IsActive,
	}
}
