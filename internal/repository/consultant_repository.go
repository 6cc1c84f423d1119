package repository

import (
	"context"

	"gorm.io/gorm"

	"brotos/internal/model"
)

// TxFunc runs inside one database transaction with repositories bound to it.
type TxFunc func(ctx context.Context, consultants ConsultantRepository, outbox OutboxRepository) error

// ConsultantRepository defines consultant persistence operations.
type ConsultantRepository interface {
	Create(ctx context.Context, consultant *model.Consultant) error
	// Update writes every mutable column if the stored version still equals expectedVersion,
	// and bumps consultant.Version on success. A lost race returns ErrStaleVersion.
	Update(ctx context.Context, consultant *model.Consultant, expectedVersion uint) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*model.Consultant, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]model.Consultant, error)
	ListByParent(ctx context.Context, parentID string) ([]model.Consultant, error)
	CountByRole(ctx context.Context, role model.Role) (int64, error)
	ReparentChildren(ctx context.Context, fromParentID string, toParentID *string) (int64, error)
	// Transaction methods
	WithTransaction(ctx context.Context, fn TxFunc) error
}

type consultantRepository struct {
	db *gorm.DB
}

// NewConsultantRepository creates a new consultant repository.
func NewConsultantRepository(db *gorm.DB) ConsultantRepository {
	return &consultantRepository{db: db}
}

// Create inserts a consultant at the end of the insertion order.
func (r *consultantRepository) Create(ctx context.Context, consultant *model.Consultant) error {
	var maxSeq uint
	if err := r.db.WithContext(ctx).Model(&model.Consultant{}).
		Select("COALESCE(MAX(seq), 0)").
		Scan(&maxSeq).Error; err != nil {
		return err
	}
	consultant.Seq = maxSeq + 1
	if consultant.Version == 0 {
		consultant.Version = 1
	}
	return r.db.WithContext(ctx).Create(consultant).Error
}

// Update performs a compare-and-swap on the version column.
func (r *consultantRepository) Update(ctx context.Context, consultant *model.Consultant, expectedVersion uint) error {
	consultant.Version = expectedVersion + 1
	res := r.db.WithContext(ctx).Model(consultant).
		Where("version = ?", expectedVersion).
		Select("*").
		Omit("Seq", "ID", "CreatedAt").
		Updates(consultant)
	if res.Error != nil {
		consultant.Version = expectedVersion
		return res.Error
	}
	if res.RowsAffected == 0 {
		consultant.Version = expectedVersion
		return ErrStaleVersion
	}
	return nil
}

// Delete removes a consultant permanently.
func (r *consultantRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Consultant{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindByID finds a consultant by ID.
func (r *consultantRepository) FindByID(ctx context.Context, id string) (*model.Consultant, error) {
	var consultant model.Consultant
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&consultant).Error; err != nil {
		return nil, err
	}
	return &consultant, nil
}

// ExistsByID reports whether id is taken.
func (r *consultantRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Consultant{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns every consultant in insertion order.
func (r *consultantRepository) List(ctx context.Context) ([]model.Consultant, error) {
	var consultants []model.Consultant
	if err := r.db.WithContext(ctx).Order("seq ASC").Find(&consultants).Error; err != nil {
		return nil, err
	}
	return consultants, nil
}

// ListByParent returns the direct recruits of parentID in insertion order.
func (r *consultantRepository) ListByParent(ctx context.Context, parentID string) ([]model.Consultant, error) {
	var consultants []model.Consultant
	if err := r.db.WithContext(ctx).Where("parent_id = ?", parentID).Order("seq ASC").Find(&consultants).Error; err != nil {
		return nil, err
	}
	return consultants, nil
}

// CountByRole counts consultants holding role.
func (r *consultantRepository) CountByRole(ctx context.Context, role model.Role) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Consultant{}).Where("role = ?", role).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ReparentChildren moves every direct recruit of fromParentID under toParentID (nil makes them roots).
func (r *consultantRepository) ReparentChildren(ctx context.Context, fromParentID string, toParentID *string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Consultant{}).
		Where("parent_id = ?", fromParentID).
		Updates(map[string]interface{}{
			"parent_id": toParentID,
			"version":   gorm.Expr("version + 1"),
		})
	return res.RowsAffected, res.Error
}

// WithTransaction executes a function within a database transaction.
func (r *consultantRepository) WithTransaction(ctx context.Context, fn TxFunc) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &consultantRepository{db: tx}, &outboxRepository{db: tx})
	})
}
