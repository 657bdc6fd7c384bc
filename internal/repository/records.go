// Package repository implements the data access layer for the application.
//
// All five record types share one generic, owner-scoped repository so their
// access-control semantics cannot drift apart. Every read and write is
// filtered by the owning user id; update and delete resolve existence and
// ownership in a single scoped lookup, so a non-owner receives exactly the
// not-found error a non-existent id produces.
package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"memoir/internal/models"
	"memoir/internal/observability"

	"gorm.io/gorm"
)

// Records provides owner-scoped CRUD over a single record type.
type Records[T any] struct {
	db       *gorm.DB
	resource string
}

// NewRecords returns a record repository for T. resource names the entity in
// errors and metrics, e.g. "Achievement".
func NewRecords[T any](db *gorm.DB, resource string) *Records[T] {
	return &Records[T]{db: db, resource: resource}
}

// List returns the owner's records, newest-created first with creation-time
// ties in insertion order. Filters apply as a conjunction.
func (r *Records[T]) List(ctx context.Context, ownerID uint, filters ...Filter) ([]T, error) {
	defer observability.ObserveQuery("list", r.entity(), time.Now())

	tx := r.db.WithContext(ctx).Where("user_id = ?", ownerID)
	for _, f := range filters {
		tx = f(tx)
	}

	var out []T
	if err := tx.Order("created_at DESC, id ASC").Find(&out).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	observability.RecordOperations.WithLabelValues(r.entity(), "list").Inc()
	return out, nil
}

// Get fetches one record by id, scoped to the owner. Missing and not-owned
// are indistinguishable.
func (r *Records[T]) Get(ctx context.Context, ownerID, id uint) (*T, error) {
	var rec T
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError(r.resource, id)
		}
		return nil, models.NewInternalError(err)
	}
	return &rec, nil
}

// Create persists a new record. The caller is responsible for having fixed
// the owner id on the record before calling.
func (r *Records[T]) Create(ctx context.Context, record *T) error {
	defer observability.ObserveQuery("create", r.entity(), time.Now())

	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return models.NewInternalError(err)
	}
	observability.RecordOperations.WithLabelValues(r.entity(), "create").Inc()
	return nil
}

// Update loads the owner's record, applies mutate, and saves — all inside
// one transaction, so a validation error from mutate leaves the row
// untouched.
func (r *Records[T]) Update(ctx context.Context, ownerID, id uint, mutate func(*T) error) (*T, error) {
	defer observability.ObserveQuery("update", r.entity(), time.Now())

	var rec T
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", id, ownerID).First(&rec).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError(r.resource, id)
			}
			return models.NewInternalError(err)
		}
		if err := mutate(&rec); err != nil {
			return err
		}
		if err := tx.Save(&rec).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	observability.RecordOperations.WithLabelValues(r.entity(), "update").Inc()
	return &rec, nil
}

// Delete hard-deletes the owner's record. Deleting an id that does not exist
// — or exists under another owner — returns the same not-found error, and a
// second delete of the same id fails the same way.
func (r *Records[T]) Delete(ctx context.Context, ownerID, id uint) error {
	defer observability.ObserveQuery("delete", r.entity(), time.Now())

	var rec T
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		Delete(&rec)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError(r.resource, id)
	}
	observability.RecordOperations.WithLabelValues(r.entity(), "delete").Inc()
	return nil
}

func (r *Records[T]) entity() string {
	return strings.ToLower(r.resource)
}
