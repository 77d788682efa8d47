package yatb

import (
	"context"
	"strconv"
	"strings"
	"time"

	g "github.com/hhkbp2/yatb/generator"
	"github.com/pkg/errors"
)

var (
	ErrSimulated = errors.New("simulated query error")
)

// BasicDB is a DB which doesn't talk to any server. It optionally echoes the
// queries, sleeps for a simulated latency and fails a fraction of them.
// It's handy for dry runs of a workload.
type BasicDB struct {
	*DBBase
	verbose   bool
	delay     g.IntegerGenerator
	errorRate float64
}

func NewBasicDB() *BasicDB {
	return &BasicDB{
		DBBase: NewDBBase(),
	}
}

// Delay sleeps for the next simulated latency, or until ctx is done.
func (self *BasicDB) Delay(ctx context.Context) {
	if self.delay == nil {
		return
	}
	millis := self.delay.NextInt()
	if millis <= 0 {
		return
	}
	timer := time.NewTimer(time.Duration(MillisecondToNanosecond(millis)))
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

// Initialize any state for this DB.
func (self *BasicDB) Init() error {
	p := self.GetProperties()
	var err error
	self.verbose, err = strconv.ParseBool(
		p.GetDefault(ConfigBasicDBVerbose, ConfigBasicDBVerboseDefault))
	if err != nil {
		return errors.Wrapf(err, "invalid %s", ConfigBasicDBVerbose)
	}
	toDelay, err := strconv.ParseInt(
		p.GetDefault(ConfigSimulateDelay, ConfigSimulateDelayDefault), 0, 64)
	if err != nil {
		return errors.Wrapf(err, "invalid %s", ConfigSimulateDelay)
	}
	randomizeDelay, err := strconv.ParseBool(
		p.GetDefault(ConfigRandomizeDelay, ConfigRandomizeDelayDefault))
	if err != nil {
		return errors.Wrapf(err, "invalid %s", ConfigRandomizeDelay)
	}
	self.errorRate, err = strconv.ParseFloat(
		p.GetDefault(ConfigSimulateErrorRate, ConfigSimulateErrorRateDefault), 64)
	if err != nil || self.errorRate < 0 || self.errorRate > 1 {
		return errors.Errorf("invalid %s: must be in [0, 1]", ConfigSimulateErrorRate)
	}
	switch {
	case toDelay <= 0:
		self.delay = nil
	case randomizeDelay:
		self.delay = g.NewUniformIntegerGenerator(0, toDelay)
	default:
		self.delay = g.NewConstantIntegerGenerator(toDelay)
	}
	if self.verbose {
		OutputProperties(p)
	}
	return nil
}

func (self *BasicDB) Cleanup() error {
	return nil
}

func (self *BasicDB) Acquire(ctx context.Context) (Conn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &basicConn{db: self}, nil
}

type basicConn struct {
	db *BasicDB
}

func (self *basicConn) Query(ctx context.Context, query string) (Rows, error) {
	self.db.Delay(ctx)
	if self.db.verbose {
		Println("QUERY %s", strings.Join(strings.Fields(query), " "))
	}
	if self.db.errorRate > 0 && g.NextFloat64() < self.db.errorRate {
		return nil, ErrSimulated
	}
	return basicRows{}, nil
}

func (self *basicConn) Close() error {
	return nil
}

type basicRows struct{}

func (basicRows) Next() bool {
	return false
}

func (basicRows) Err() error {
	return nil
}

func (basicRows) Close() error {
	return nil
}
