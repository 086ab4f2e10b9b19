// Package service contains the business logic for the Benefits API.
// Services enforce business rules and orchestrate repo calls.
// Services depend on the repo interfaces, never on SQL.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/pkordes/benefits-api/internal/domain"
	"github.com/pkordes/benefits-api/internal/repo"
)

// BenefitService implements business logic for Benefit operations.
type BenefitService struct {
	repo repo.BenefitRepo
}

// NewBenefitService constructs a BenefitService backed by the provided BenefitRepo.
func NewBenefitService(r repo.BenefitRepo) *BenefitService {
	return &BenefitService{repo: r}
}

// Create persists a new benefit after checking that no live benefit already
// uses its name. IsActive defaults to true unless isActive is given.
// Returns domain.ErrDuplicateName if the name is taken.
func (s *BenefitService) Create(ctx context.Context, name string, description *string, isActive *bool) (domain.Benefit, error) {
	_, err := s.repo.GetByName(ctx, name)
	switch {
	case err == nil:
		return domain.Benefit{}, fmt.Errorf("service.BenefitService.Create: %w: benefit with name %q already exists", domain.ErrDuplicateName, name)
	case !errors.Is(err, domain.ErrNotFound):
		return domain.Benefit{}, fmt.Errorf("service.BenefitService.Create: %w", err)
	}

	b := domain.Benefit{Name: name, Description: description, IsActive: true}
	if isActive != nil {
		b.IsActive = *isActive
	}

	result, err := s.repo.Create(ctx, b)
	if err != nil {
		// The unique index catches a concurrent create that slipped past the check.
		if errors.Is(err, domain.ErrDuplicateName) {
			return domain.Benefit{}, fmt.Errorf("service.BenefitService.Create: %w: benefit with name %q already exists", domain.ErrDuplicateName, name)
		}
		return domain.Benefit{}, fmt.Errorf("service.BenefitService.Create: %w", err)
	}
	return result, nil
}

// FindOne returns a live benefit by id.
// Returns domain.ErrNotFound if it does not exist or was soft-deleted.
func (s *BenefitService) FindOne(ctx context.Context, id int64) (domain.Benefit, error) {
	result, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Benefit{}, fmt.Errorf("service.BenefitService.FindOne: %w: benefit with id %d not found", domain.ErrNotFound, id)
		}
		return domain.Benefit{}, fmt.Errorf("service.BenefitService.FindOne: %w", err)
	}
	return result, nil
}

// FindAll lists live benefits. When page and limit are both given and
// non-zero, one page is fetched from the store and Total is the full live
// count. Otherwise every live benefit is returned, Total is its length, and
// Page/Limit stay nil.
func (s *BenefitService) FindAll(ctx context.Context, page, limit *int) (domain.BenefitPage, error) {
	params, paged, err := domain.NewPaginationParams(page, limit)
	if err != nil {
		return domain.BenefitPage{}, fmt.Errorf("service.BenefitService.FindAll: %w", err)
	}

	if !paged {
		benefits, err := s.repo.List(ctx)
		if err != nil {
			return domain.BenefitPage{}, fmt.Errorf("service.BenefitService.FindAll: %w", err)
		}
		if benefits == nil {
			benefits = []domain.Benefit{}
		}
		return domain.BenefitPage{Data: benefits, Total: int64(len(benefits))}, nil
	}

	benefits, total, err := s.repo.ListPaged(ctx, params)
	if err != nil {
		return domain.BenefitPage{}, fmt.Errorf("service.BenefitService.FindAll: %w", err)
	}
	if benefits == nil {
		benefits = []domain.Benefit{}
	}
	return domain.BenefitPage{
		Data:  benefits,
		Total: total,
		Page:  &params.Page,
		Limit: &params.Limit,
	}, nil
}

// Update asserts the benefit exists, then applies the non-nil fields of patch.
// Returns domain.ErrNotFound for a missing benefit and domain.ErrDuplicateName
// if the new name belongs to another live benefit.
func (s *BenefitService) Update(ctx context.Context, id int64, patch domain.BenefitPatch) (domain.Benefit, error) {
	current, err := s.FindOne(ctx, id)
	if err != nil {
		return domain.Benefit{}, err
	}
	if patch.IsEmpty() {
		return current, nil
	}

	result, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return domain.Benefit{}, fmt.Errorf("service.BenefitService.Update: %w: benefit with id %d not found", domain.ErrNotFound, id)
		case errors.Is(err, domain.ErrDuplicateName) && patch.Name != nil:
			return domain.Benefit{}, fmt.Errorf("service.BenefitService.Update: %w: benefit with name %q already exists", domain.ErrDuplicateName, *patch.Name)
		}
		return domain.Benefit{}, fmt.Errorf("service.BenefitService.Update: %w", err)
	}
	return result, nil
}

// Activate sets IsActive to true. Calling it on an active benefit is a no-op
// apart from refreshing UpdatedAt.
func (s *BenefitService) Activate(ctx context.Context, id int64) (domain.Benefit, error) {
	active := true
	return s.Update(ctx, id, domain.BenefitPatch{IsActive: &active})
}

// Deactivate sets IsActive to false.
func (s *BenefitService) Deactivate(ctx context.Context, id int64) (domain.Benefit, error) {
	active := false
	return s.Update(ctx, id, domain.BenefitPatch{IsActive: &active})
}

// Remove soft-deletes a benefit. The row stays in the table but every later
// lookup treats it as not found.
func (s *BenefitService) Remove(ctx context.Context, id int64) error {
	if _, err := s.FindOne(ctx, id); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("service.BenefitService.Remove: %w: benefit with id %d not found", domain.ErrNotFound, id)
		}
		return fmt.Errorf("service.BenefitService.Remove: %w", err)
	}
	return nil
}
