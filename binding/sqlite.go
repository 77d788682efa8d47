package binding

import (
	_ "github.com/mattn/go-sqlite3"
)

const (
	// Path of the database file, ":memory:" for a private in-memory database.
	PropertySqlitePath        = "sqlite.path"
	PropertySqlitePathDefault = "tpch.db"
)

// SqliteDB runs the queries against an embedded database file, mostly for
// smoke runs without a server.
type SqliteDB struct {
	*SQLDB
}

func NewSqliteDB() *SqliteDB {
	return &SqliteDB{
		SQLDB: NewSQLDB(),
	}
}

func (self *SqliteDB) Init() error {
	path := self.GetProperties().GetDefault(PropertySqlitePath, PropertySqlitePathDefault)
	return self.Open("sqlite3", path)
}
