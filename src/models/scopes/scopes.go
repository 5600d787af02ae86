package scopes

import (
	"bts/src/config"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

func WithID(id uint) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("id = ?", id)
	}
}

func WithUser(userId uint) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userId)
	}
}

// Paginate clamps pageSize to the configured maximum and defaults it when
// missing or non-positive. page starts at 1.
func Paginate(page, pageSize int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page < 1 {
			page = 1
		}
		if pageSize < 1 {
			pageSize = config.DEFAULT_PAGE_SIZE
		}
		if pageSize > config.MAX_PAGE_SIZE {
			pageSize = config.MAX_PAGE_SIZE
		}
		return db.Offset((page - 1) * pageSize).Limit(pageSize)
	}
}

// Search applies a case-insensitive contains filter over the given columns.
func Search(q string, columns ...string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		k := strings.TrimSpace(q)
		if k == "" || len(columns) == 0 {
			return db
		}
		clauses := make([]string, 0, len(columns))
		args := make([]any, 0, len(columns))
		for _, col := range columns {
			clauses = append(clauses, fmt.Sprintf("LOWER(%s) LIKE ?", col))
			args = append(args, "%"+strings.ToLower(k)+"%")
		}
		return db.Where(strings.Join(clauses, " OR "), args...)
	}
}

func NewestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC")
}

// StartTimeRange filters on start_time by calendar day. from and to are
// YYYY-MM-DD; to is inclusive of the whole day. Blank or unparseable bounds
// are skipped.
func StartTimeRange(from, to string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			db = db.Where("start_time >= ?", t)
		}
		if t, err := time.Parse("2006-01-02", to); err == nil {
			db = db.Where("start_time < ?", t.AddDate(0, 0, 1))
		}
		return db
	}
}
