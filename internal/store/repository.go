package store

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository is the persistence collaborator of one record type. Every
// mutation is a single statement keyed by id; atomicity is left to the database.
type Repository[T any] struct {
	db    *gorm.DB
	order string
}

// NewRepository returns a repository listing records by the given column, ascending.
func NewRepository[T any](db *gorm.DB, orderBy string) *Repository[T] {
	return &Repository[T]{db: db, order: orderBy}
}

func (r *Repository[T]) Create(ctx context.Context, rec *T) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(rec).Error
	return classify("create", err)
}

// List returns all records; include names associations to eager-load.
func (r *Repository[T]) List(ctx context.Context, include ...string) ([]T, error) {
	q := r.db.WithContext(ctx)
	if r.order != "" {
		q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: r.order}})
	}
	q = preload(q, include)

	var out []T
	if err := q.Find(&out).Error; err != nil {
		return nil, classify("list", err)
	}
	return out, nil
}

func (r *Repository[T]) Get(ctx context.Context, id int64, include ...string) (*T, error) {
	var rec T
	err := preload(r.db.WithContext(ctx), include).First(&rec, id).Error
	if err != nil {
		return nil, classify("get", err)
	}
	return &rec, nil
}

// FindBy returns the first record whose column equals value.
func (r *Repository[T]) FindBy(ctx context.Context, column string, value any) (*T, error) {
	var rec T
	err := r.db.WithContext(ctx).Where(clause.Eq{Column: clause.Column{Name: column}, Value: value}).First(&rec).Error
	if err != nil {
		return nil, classify("find", err)
	}
	return &rec, nil
}

// Update replaces every column of the record with the given id, zero values
// included. Columns named in omit keep their stored value.
func (r *Repository[T]) Update(ctx context.Context, id int64, rec *T, omit ...string) error {
	omitted := append([]string{"id", "created_at", clause.Associations}, omit...)
	res := r.db.WithContext(ctx).
		Model(new(T)).
		Where("id = ?", id).
		Select("*").
		Omit(omitted...).
		Updates(rec)
	if res.Error != nil {
		return classify("update", res.Error)
	}
	if res.RowsAffected == 0 {
		return classify("update", gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *Repository[T]) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(new(T), id)
	if res.Error != nil {
		return classify("delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return classify("delete", gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *Repository[T]) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(new(T)).Count(&n).Error
	return n, classify("count", err)
}

func preload(q *gorm.DB, include []string) *gorm.DB {
	for _, rel := range include {
		q = q.Preload(rel)
	}
	return q
}
