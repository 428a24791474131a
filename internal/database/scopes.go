package database

import (
	"gorm.io/gorm"

	"github.com/taskflow-dev/taskflow-api/internal/utils"
)

// OwnedBy restricts a query to rows owned by the given user that have
// not been soft-deleted. Every entity-returning query goes through this
// scope unless a handler deliberately needs weaker filtering.
func OwnedBy(ownerID uint64) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("owner_id = ? AND is_deleted = ?", ownerID, false)
	}
}

// NotDeleted filters out soft-deleted rows without an owner check.
func NotDeleted(db *gorm.DB) *gorm.DB {
	return db.Where("is_deleted = ?", false)
}

// Paginate applies offset/limit pagination to a GORM query
func Paginate(params utils.PageParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(params.Skip).Limit(params.Limit)
	}
}
