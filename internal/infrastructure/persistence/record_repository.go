package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/metabooks/erp/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRecordRepository implements shared.RecordRepository for any entity
// table using GORM
type GormRecordRepository[T shared.Entity] struct {
	db *gorm.DB
}

// NewGormRecordRepository creates a new GormRecordRepository
func NewGormRecordRepository[T shared.Entity](db *gorm.DB) *GormRecordRepository[T] {
	return &GormRecordRepository[T]{db: db}
}

// FindAll returns every row ordered by id
func (r *GormRecordRepository[T]) FindAll(ctx context.Context) ([]T, error) {
	records := make([]T, 0)
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindByID finds a row by its ID
func (r *GormRecordRepository[T]) FindByID(ctx context.Context, id uint) (*T, error) {
	var record T
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// Create inserts the record and fills its generated ID and timestamps
func (r *GormRecordRepository[T]) Create(ctx context.Context, record *T) error {
	return translate(r.db.WithContext(ctx).Create(record).Error)
}

// Update overwrites every column of row id except the identity and
// creation time. Zero values are written too.
func (r *GormRecordRepository[T]) Update(ctx context.Context, id uint, record *T) error {
	result := r.db.WithContext(ctx).
		Model(new(T)).
		Where("id = ?", id).
		Select("*").
		Omit("id", "created_at").
		Updates(record)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes row id
func (r *GormRecordRepository[T]) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(new(T), "id = ?", id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Exists reports whether row id is present
func (r *GormRecordRepository[T]) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Referenced counts the rows whose foreign key column holds id
func (r *GormRecordRepository[T]) Referenced(ctx context.Context, column string, id uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(new(T)).
		Where(clause.Eq{Column: clause.Column{Name: column}, Value: id}).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count %s references: %w", column, err)
	}
	return count, nil
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.ErrAlreadyExists.WithMessage("A record with the same code already exists")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return shared.ErrReferenceInUse
	default:
		return err
	}
}
