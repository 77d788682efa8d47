package binding

import (
	"github.com/hhkbp2/yatb"
)

// AddBindings registers the SQL databases, which live outside of the yatb
// package to keep the drivers out of it.
func AddBindings() {
	yatb.Databases["mysql"] = func() yatb.DB {
		return NewMysqlDB()
	}
	yatb.Databases["pgsql"] = func() yatb.DB {
		return NewPgsqlDB()
	}
	yatb.Databases["sqlite"] = func() yatb.DB {
		return NewSqliteDB()
	}
}
