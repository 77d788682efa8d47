package yatb

import (
	"context"
	"database/sql/driver"

	"github.com/pkg/errors"
)

var (
	// ErrConnectionLost is wrapped by the bindings into the errors which
	// mean the server connection was lost and will be reestablished.
	ErrConnectionLost = errors.New("connection lost")
	// ErrNoResult reports a query execution without any result set.
	ErrNoResult = errors.New("query returned no result")
)

// Rows is the result set of one query. *sql.Rows implements it.
type Rows interface {
	Next() bool
	Err() error
	Close() error
}

// Conn is one database connection, used by a single event at a time.
type Conn interface {
	// Query sends the query text to the database and returns its result set.
	Query(ctx context.Context, query string) (Rows, error)
	// Close releases the connection back to its provider.
	Close() error
}

// DB is a layer for accessing a database to be benchmarked. It provides
// connections from a pool, one per event. A single DB instance is shared by
// all the client routines so it must be safe for concurrent use.
// The instance should be constructed using a no-argument constructor, so we
// can load it dynamically. Any argument-based initialization should be
// done by Init().
type DB interface {
	// Set the properties for this DB.
	SetProperties(p Properties)

	// Get the properties for this DB.
	GetProperties() Properties

	// Initialize any state for this DB, e.g. open the connection pool.
	// Called once before any event is executed.
	Init() error

	// Cleanup any state for this DB.
	// Called once after all events have completed.
	Cleanup() error

	// Acquire returns a ready connection. It may block on pool availability.
	Acquire(ctx context.Context) (Conn, error)
}

type DBBase struct {
	p Properties
}

func NewDBBase() *DBBase {
	return &DBBase{}
}

func (self *DBBase) SetProperties(p Properties) {
	self.p = p
}

func (self *DBBase) GetProperties() Properties {
	return self.p
}

type MakeDBFunc func() DB

var (
	// Databases maps the binding names to their constructors. The SQL
	// bindings register themselves by binding.AddBindings().
	Databases = map[string]MakeDBFunc{
		"basic": func() DB {
			return NewBasicDB()
		},
	}
)

func NewDB(database string, props Properties) (DB, error) {
	f, ok := Databases[database]
	if !ok {
		return nil, errors.Errorf("unsupported database: %s", database)
	}
	db := f()
	db.SetProperties(props)
	return db, nil
}

// IsConnectionLost tells whether err means the server connection was lost.
func IsConnectionLost(err error) bool {
	return errors.Is(err, ErrConnectionLost) || errors.Is(err, driver.ErrBadConn)
}
