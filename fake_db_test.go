package yatb

import (
	"context"
	"sync"
)

// fakeDB is an in-memory DB with a fixed number of connection slots.
// Queries listed in nilRows produce no result set, the ones in failures
// fail with the mapped error.
type fakeDB struct {
	*DBBase
	slots      chan struct{}
	initErr    error
	acquireErr error
	nilRows    map[string]bool
	failures   map[string]error

	lock     sync.Mutex
	queries  []string
	rows     []*fakeRows
	inits    int
	cleanups int
}

func newFakeDB(slots int) *fakeDB {
	db := &fakeDB{
		DBBase:   NewDBBase(),
		slots:    make(chan struct{}, slots),
		nilRows:  make(map[string]bool),
		failures: make(map[string]error),
	}
	for i := 0; i < slots; i++ {
		db.slots <- struct{}{}
	}
	return db
}

func (self *fakeDB) Init() error {
	self.lock.Lock()
	defer self.lock.Unlock()
	self.inits++
	return self.initErr
}

func (self *fakeDB) Cleanup() error {
	self.lock.Lock()
	defer self.lock.Unlock()
	self.cleanups++
	return nil
}

func (self *fakeDB) Acquire(ctx context.Context) (Conn, error) {
	if self.acquireErr != nil {
		return nil, self.acquireErr
	}
	select {
	case <-self.slots:
		return &fakeConn{db: self}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// free returns the number of idle slots.
func (self *fakeDB) free() int {
	return len(self.slots)
}

func (self *fakeDB) executed() []string {
	self.lock.Lock()
	defer self.lock.Unlock()
	return append([]string(nil), self.queries...)
}

type fakeConn struct {
	db     *fakeDB
	closed bool
}

func (self *fakeConn) Query(ctx context.Context, query string) (Rows, error) {
	self.db.lock.Lock()
	defer self.db.lock.Unlock()
	self.db.queries = append(self.db.queries, query)
	if self.db.nilRows[query] {
		return nil, nil
	}
	if err, ok := self.db.failures[query]; ok {
		return nil, err
	}
	rows := &fakeRows{left: 3}
	self.db.rows = append(self.db.rows, rows)
	return rows, nil
}

func (self *fakeConn) Close() error {
	if !self.closed {
		self.closed = true
		self.db.slots <- struct{}{}
	}
	return nil
}

type fakeRows struct {
	left   int
	err    error
	closed bool
}

func (self *fakeRows) Next() bool {
	if self.left == 0 {
		return false
	}
	self.left--
	return true
}

func (self *fakeRows) Err() error {
	return self.err
}

func (self *fakeRows) Close() error {
	self.closed = true
	return nil
}
