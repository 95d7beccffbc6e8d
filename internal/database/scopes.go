package database

import (
	"gorm.io/gorm"

	"github.com/yukikurage/project-management-api/internal/utils"
)

// Paginate applies pagination to a GORM query
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}

// ContainsFold matches rows whose column contains term, case-insensitively,
// on every supported dialect.
func ContainsFold(term string, columns ...string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		pattern := "%" + escapeLike(term) + "%"
		cond := db.Session(&gorm.Session{NewDB: true})
		for i, column := range columns {
			expr := "LOWER(" + column + ") LIKE LOWER(?) ESCAPE '!'"
			if i == 0 {
				cond = cond.Where(expr, pattern)
			} else {
				cond = cond.Or(expr, pattern)
			}
		}
		return db.Where(cond)
	}
}

func escapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch r {
		case '!', '%', '_':
			out = append(out, '!')
		}
		out = append(out, r)
	}
	return string(out)
}
