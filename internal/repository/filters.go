package repository

import (
	"strings"
	"time"

	"memoir/internal/money"

	"gorm.io/gorm"
)

// Filter narrows a list query. Filters combine as a conjunction; a filter
// built from an absent value applies no constraint at all.
type Filter func(tx *gorm.DB) *gorm.DB

func noop(tx *gorm.DB) *gorm.DB { return tx }

// TextSearch matches q as a case-insensitive substring of any of the given
// columns. LOWER/LIKE keeps the predicate portable between postgres and the
// sqlite used in tests.
func TextSearch(q string, columns ...string) Filter {
	q = strings.TrimSpace(q)
	if q == "" || len(columns) == 0 {
		return noop
	}
	var b strings.Builder
	args := make([]interface{}, 0, len(columns))
	for i, col := range columns {
		if i > 0 {
			b.WriteString(" OR ")
		}
		b.WriteString("LOWER(" + col + ") LIKE LOWER(?)")
		args = append(args, "%"+q+"%")
	}
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Where(b.String(), args...)
	}
}

// Equals matches the column exactly.
func Equals(column, value string) Filter {
	if strings.TrimSpace(value) == "" {
		return noop
	}
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Where(column+" = ?", value)
	}
}

// DateFrom keeps rows whose column is on or after t.
func DateFrom(column string, t *time.Time) Filter {
	if t == nil {
		return noop
	}
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Where(column+" >= ?", *t)
	}
}

// DateTo keeps rows whose column is on or before t.
func DateTo(column string, t *time.Time) Filter {
	if t == nil {
		return noop
	}
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Where(column+" <= ?", *t)
	}
}

// MinAmount keeps rows whose amount is at least c (inclusive).
func MinAmount(c *money.Cents) Filter {
	if c == nil {
		return noop
	}
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Where("amount >= ?", int64(*c))
	}
}

// MaxAmount keeps rows whose amount is at most c (inclusive).
func MaxAmount(c *money.Cents) Filter {
	if c == nil {
		return noop
	}
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Where("amount <= ?", int64(*c))
	}
}
