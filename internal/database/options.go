package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/sagohq/sago/domain/storage"
)

// ApplyOptions builds a storage.Query from the given options and applies it to
// a GORM session.
func ApplyOptions(db *gorm.DB, options ...storage.Option) *gorm.DB {
	return ApplyQuery(db, storage.Build(options...))
}

// ApplyQuery applies the query's conditions, ordering, and pagination to a
// GORM session.
func ApplyQuery(db *gorm.DB, q storage.Query) *gorm.DB {
	result := ApplyConditions(db, q.Conditions()...)

	for _, order := range q.Orders() {
		direction := "ASC"
		if !order.Ascending() {
			direction = "DESC"
		}
		result = result.Order(fmt.Sprintf("%s %s", order.Field(), direction))
	}

	if q.LimitValue() > 0 {
		result = result.Limit(q.LimitValue())
	}

	if q.OffsetValue() > 0 {
		result = result.Offset(q.OffsetValue())
	}

	return result
}

// ApplyConditions applies WHERE clauses to a GORM session.
func ApplyConditions(db *gorm.DB, conditions ...storage.Condition) *gorm.DB {
	result := db
	for _, cond := range conditions {
		switch {
		case cond.IsRaw():
			sql, args := cond.Raw()
			result = result.Where(sql, args...)
		case cond.In():
			result = result.Where(fmt.Sprintf("%s IN ?", cond.Field()), cond.Value())
		default:
			result = result.Where(fmt.Sprintf("%s = ?", cond.Field()), cond.Value())
		}
	}
	return result
}
