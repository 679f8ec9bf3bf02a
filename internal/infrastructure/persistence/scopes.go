package persistence

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dawapos/backend/internal/domain/shared"
)

var safeColumnPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// tenantScope restricts a query to one tenant
func tenantScope(tenantID uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tenant_id = ?", tenantID)
	}
}

// filterScope applies the equality filters and free-text search of a
// shared.Filter. Search matches any of the given columns. Column names
// coming from the filter are validated against a strict pattern so they
// can never smuggle SQL.
func filterScope(filter shared.Filter, searchColumns ...string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		for column, value := range filter.Filters {
			if !safeColumnPattern.MatchString(column) {
				continue
			}
			db = db.Where(fmt.Sprintf("%s = ?", column), value)
		}

		if filter.Search != "" && len(searchColumns) > 0 {
			pattern := "%" + filter.Search + "%"
			conditions := make([]string, 0, len(searchColumns))
			args := make([]interface{}, 0, len(searchColumns))
			for _, column := range searchColumns {
				conditions = append(conditions, fmt.Sprintf("%s ILIKE ?", column))
				args = append(args, pattern)
			}
			db = db.Where(strings.Join(conditions, " OR "), args...)
		}
		return db
	}
}

// pageScope applies ordering and pagination of a shared.Filter
func pageScope(filter shared.Filter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		orderBy := filter.OrderBy
		if !safeColumnPattern.MatchString(orderBy) {
			orderBy = "created_at"
		}
		direction := "DESC"
		if strings.EqualFold(filter.OrderDir, "asc") {
			direction = "ASC"
		}
		return db.
			Order(fmt.Sprintf("%s %s", orderBy, direction)).
			Offset(filter.Offset()).
			Limit(filter.Limit())
	}
}
