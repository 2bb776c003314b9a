package repository

import (
	"context"
	"errors"

	"github.com/Pexry/pexry2-sub001/pkg/option"
	"gorm.io/gorm"
)

// Repository is a typed gorm store. Filters are exemplar structs:
// non-zero fields become equality conditions.
type Repository[T any] interface {
	Create(ctx context.Context, record *T) error
	First(ctx context.Context, filter *T, opts ...option.QueryOption) (*T, error)
	Find(ctx context.Context, filter *T, opts ...option.QueryOption) ([]T, error)
	Count(ctx context.Context, filter *T, opts ...option.QueryOption) (int64, error)
	Updates(ctx context.Context, filter *T, values map[string]any, opts ...option.QueryOption) (int64, error)
	Delete(ctx context.Context, filter *T, opts ...option.QueryOption) (int64, error)
}

type store[T any] struct {
	db *gorm.DB
}

// ProvideStore builds a Repository backed by the given gorm handle.
func ProvideStore[T any](db *gorm.DB) Repository[T] {
	return &store[T]{db: db}
}

func (s *store[T]) query(ctx context.Context, filter *T, opts []option.QueryOption) *gorm.DB {
	var model T
	q := s.db.WithContext(ctx).Model(&model)
	if filter != nil {
		q = q.Where(filter)
	}
	for _, opt := range opts {
		q = opt(q)
	}
	return q
}

func (s *store[T]) Create(ctx context.Context, record *T) error {
	return s.db.WithContext(ctx).Create(record).Error
}

func (s *store[T]) First(ctx context.Context, filter *T, opts ...option.QueryOption) (*T, error) {
	var record T
	err := s.query(ctx, filter, opts).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *store[T]) Find(ctx context.Context, filter *T, opts ...option.QueryOption) ([]T, error) {
	var records []T
	if err := s.query(ctx, filter, opts).Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (s *store[T]) Count(ctx context.Context, filter *T, opts ...option.QueryOption) (int64, error) {
	var count int64
	if err := s.query(ctx, filter, opts).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (s *store[T]) Updates(ctx context.Context, filter *T, values map[string]any, opts ...option.QueryOption) (int64, error) {
	res := s.query(ctx, filter, opts).Updates(values)
	return res.RowsAffected, res.Error
}

func (s *store[T]) Delete(ctx context.Context, filter *T, opts ...option.QueryOption) (int64, error) {
	var model T
	res := s.query(ctx, filter, opts).Delete(&model)
	return res.RowsAffected, res.Error
}
