// Package domain contains the core data types for the Benefits API.
// This package has zero external dependencies and is imported by every other
// internal package (repo, service, handler).
package domain

import "time"

// Field limits for a Benefit. They are enforced by DTO validation and by
// CHECK constraints on the benefits table.
const (
	NameMinLength        = 3
	NameMaxLength        = 100
	DescriptionMaxLength = 255
)

// Benefit is a single benefit record.
// DeletedAt is nil for every record the repo returns; a non-nil value marks
// the row as soft-deleted and hides it from all standard queries.
type Benefit struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	IsActive    bool       `json:"isActive"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	DeletedAt   *time.Time `json:"deletedAt,omitempty"`
}

// BenefitPatch carries a partial update. Nil fields are left unchanged.
// ClearDescription sets the description back to NULL and takes precedence
// over Description.
type BenefitPatch struct {
	Name             *string
	Description      *string
	ClearDescription bool
	IsActive         *bool
}

// IsEmpty reports whether the patch changes nothing.
func (p BenefitPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && !p.ClearDescription && p.IsActive == nil
}

// BenefitPage is the result of a list query.
// Page and Limit are nil when the caller did not request pagination.
type BenefitPage struct {
	Data  []Benefit `json:"data"`
	Total int64     `json:"total"`
	Page  *int      `json:"page,omitempty"`
	Limit *int      `json:"limit,omitempty"`
}
