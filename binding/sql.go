package binding

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"strconv"
	"time"

	"github.com/avast/retry-go"
	"github.com/go-sql-driver/mysql"
	"github.com/hhkbp2/yatb"
	"github.com/pkg/errors"
)

// SQLDB is the connection provider shared by the database/sql based
// bindings. It keeps one pooled connection per client routine.
type SQLDB struct {
	*yatb.DBBase
	db *sql.DB
}

func NewSQLDB() *SQLDB {
	return &SQLDB{
		DBBase: yatb.NewDBBase(),
	}
}

// Open opens the pool and waits for the server to answer a ping, retrying
// as configured by the connection properties.
func (self *SQLDB) Open(driverName, dataSourceName string) error {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return errors.Wrapf(err, "fail to open %s database", driverName)
	}
	return self.OpenDB(db)
}

func (self *SQLDB) OpenDB(db *sql.DB) error {
	props := self.GetProperties()
	propStr := props.GetDefault(yatb.PropertyConnectRetries, yatb.PropertyConnectRetriesDefault)
	retries, err := strconv.ParseUint(propStr, 0, 32)
	if err != nil {
		db.Close()
		return yatb.NewConfigError(errors.Wrapf(err, "invalid %s", yatb.PropertyConnectRetries))
	}
	propStr = props.GetDefault(yatb.PropertyConnectRetryDelay, yatb.PropertyConnectRetryDelayDefault)
	delay, err := time.ParseDuration(propStr)
	if err != nil {
		db.Close()
		return yatb.NewConfigError(errors.Wrapf(err, "invalid %s", yatb.PropertyConnectRetryDelay))
	}
	propStr = props.GetDefault(yatb.PropertyThreadCount, yatb.PropertyThreadCountDefault)
	threads, err := strconv.Atoi(propStr)
	if err != nil || threads <= 0 {
		threads = 1
	}
	db.SetMaxOpenConns(threads)
	db.SetMaxIdleConns(threads)

	err = retry.Do(
		func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return db.PingContext(ctx)
		},
		retry.Attempts(uint(retries)+1),
		retry.Delay(delay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			yatb.Warnf("connect attempt %d failed: %s", n+1, err)
		}),
	)
	if err != nil {
		db.Close()
		return errors.Wrap(err, "fail to connect")
	}
	self.db = db
	return nil
}

func (self *SQLDB) Cleanup() error {
	if self.db == nil {
		return nil
	}
	err := self.db.Close()
	self.db = nil
	return err
}

func (self *SQLDB) Acquire(ctx context.Context) (yatb.Conn, error) {
	if self.db == nil {
		return nil, errors.New("database is not open")
	}
	conn, err := self.db.Conn(ctx)
	if err != nil {
		return nil, classifyError(err)
	}
	return &sqlConn{
		conn: conn,
	}, nil
}

type sqlConn struct {
	conn *sql.Conn
}

func (self *sqlConn) Query(ctx context.Context, query string) (yatb.Rows, error) {
	rows, err := self.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, classifyError(err)
	}
	return &sqlRows{
		rows: rows,
	}, nil
}

func (self *sqlConn) Close() error {
	return self.conn.Close()
}

// sqlRows walks through all the result sets of a multi statement query.
type sqlRows struct {
	rows *sql.Rows
}

func (self *sqlRows) Next() bool {
	if self.rows.Next() {
		return true
	}
	for self.rows.NextResultSet() {
		if self.rows.Next() {
			return true
		}
	}
	return false
}

func (self *sqlRows) Err() error {
	return classifyError(self.rows.Err())
}

func (self *sqlRows) Close() error {
	return classifyError(self.rows.Close())
}

// classifyError marks the driver errors of a broken connection, the pool
// drops such a connection and dials a new one on the next Acquire.
func classifyError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, mysql.ErrInvalidConn) {
		return errors.Wrapf(yatb.ErrConnectionLost, "%s", err)
	}
	return err
}
