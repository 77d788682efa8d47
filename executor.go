package yatb

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Outcome is the result of executing one event.
type Outcome struct {
	Status StatusType
	// Whether the connection was found lost. The provider reestablishes it
	// on a later Acquire.
	Reconnect bool
	// Whether the event failed because ctx was done, e.g. on an interrupt.
	// Such an outcome says nothing about the database.
	Interrupted bool
	Err         error
}

// Executor runs the query of an event on a connection from the DB.
type Executor struct {
	db DB
}

func NewExecutor(db DB) *Executor {
	return &Executor{
		db: db,
	}
}

// Execute acquires a connection, sends the query text and consumes the
// whole result set. The connection is always released before it returns.
func (self *Executor) Execute(ctx context.Context, query *Query) Outcome {
	conn, err := self.db.Acquire(ctx)
	if err != nil {
		return Outcome{
			Status:      StatusConnectionError,
			Reconnect:   IsConnectionLost(err),
			Interrupted: ctx.Err() != nil,
			Err:         &ConnectionError{Err: err},
		}
	}
	defer func() {
		if err := conn.Close(); err != nil {
			Debugf("fail to release connection: %s", err)
		}
	}()

	rows, err := conn.Query(ctx, query.Text)
	if err == nil && rows == nil {
		err = ErrNoResult
	}
	if err == nil {
		// The results are discarded, the server has to produce them all though.
		for rows.Next() {
		}
		err = rows.Err()
		if closeErr := rows.Close(); err == nil {
			err = closeErr
		}
	}
	if err != nil {
		interrupted := ctx.Err() != nil
		entry := LogWith(logrus.Fields{
			"query": query.Index,
		})
		if interrupted {
			entry.Debugf("query interrupted: %s", err)
		} else {
			entry.Warnf("query failed: %s", err)
		}
		return Outcome{
			Status:      StatusQueryError,
			Reconnect:   !interrupted && IsConnectionLost(err),
			Interrupted: interrupted,
			Err:         &QueryExecutionError{Index: query.Index, Err: err},
		}
	}
	return Outcome{
		Status: StatusOK,
	}
}
