package formrepo

import (
	"context"
	"errors"

	"orderportal/internal/core/domain/model/form"
	"orderportal/internal/core/domain/model/kernel"
	"orderportal/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormFormRepository implements FormRepository using GORM.
type GormFormRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormFormRepository creates a new GORM form repository.
func NewGormFormRepository(db *gorm.DB, tracker aggregateTracker) *GormFormRepository {
	return &GormFormRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new form to the database.
func (r *GormFormRepository) Add(ctx context.Context, aggregate *form.Form) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing form to the database.
func (r *GormFormRepository) Update(ctx context.Context, aggregate *form.Form) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Model(&FormDTO{}).
		Where("id = ?", dto.ID).
		Select("*").Omit("id", "created_at").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("form", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a form by ID with its schema resolved.
func (r *GormFormRepository) Get(ctx context.Context, id kernel.UUID) (*form.Form, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto FormDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("form", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}
