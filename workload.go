package yatb

import (
	"context"
	"sync"
	"time"

	g "github.com/hhkbp2/yatb/generator"
	"github.com/pkg/errors"
)

// Workload represents one experiment scenario.
// One object of this type will be instantiated and shared among all client
// routines.
type Workload interface {
	// Prepare creates and loads the dataset, returning the status of the
	// data generation.
	Prepare(ctx context.Context) (int, error)

	// Initialize the scenario. Called once in the main client routine,
	// before any events are started.
	Init() error

	// NextEvent picks the next unit of work. Because it will be called
	// concurrently from multiple routines, this function must be routine safe.
	// It fails when called before a successful Init.
	NextEvent(routineID int) (*Event, error)

	// ExecuteEvent runs an event and hands its sample to the listeners.
	// It never fails, the errors are folded into the outcome. Interrupted
	// events are not handed to the listeners.
	ExecuteEvent(ctx context.Context, event *Event, routineID int) Outcome

	ReportInterval(s *Snapshot) error
	ReportCumulative(s *Snapshot) error

	// Cleanup the scenario. Called once, in the main client routine, after
	// all events have completed.
	Cleanup() error
}

// TPCHWorkload runs the TPC-H queries in a fixed round-robin order.
type TPCHWorkload struct {
	config       *Config
	db           DB
	catalog      *Catalog
	cycle        *g.CycleGenerator
	executor     *Executor
	reporter     *Reporter
	bootstrapper *Bootstrapper

	lock        sync.RWMutex
	listeners   []SampleListener
	initialized bool
}

func NewTPCHWorkload(config *Config, db DB) *TPCHWorkload {
	return &TPCHWorkload{
		config:       config,
		db:           db,
		catalog:      NewCatalog(QueryCount),
		cycle:        g.NewCycleGenerator(QueryCount),
		executor:     NewExecutor(db),
		reporter:     NewReporter(config.JSONReport),
		bootstrapper: NewBootstrapper(config),
	}
}

// AddListener registers a consumer of the event samples. All listeners
// must be added before the events are started.
func (self *TPCHWorkload) AddListener(l SampleListener) {
	self.lock.Lock()
	defer self.lock.Unlock()
	self.listeners = append(self.listeners, l)
}

func (self *TPCHWorkload) Catalog() *Catalog {
	return self.catalog
}

func (self *TPCHWorkload) Bootstrapper() *Bootstrapper {
	return self.bootstrapper
}

func (self *TPCHWorkload) Prepare(ctx context.Context) (int, error) {
	return self.bootstrapper.Bootstrap(ctx)
}

// Init loads the query catalog and opens the database. Nothing stays
// allocated when it fails.
func (self *TPCHWorkload) Init() error {
	if self.db == nil {
		return errors.New("no database to run the workload on")
	}
	if err := self.catalog.Load(self.config.QueriesDir()); err != nil {
		return err
	}
	if err := self.db.Init(); err != nil {
		self.catalog.Cleanup()
		return errors.Wrap(err, "fail to init database")
	}
	self.initialized = true
	return nil
}

func (self *TPCHWorkload) NextEvent(routineID int) (*Event, error) {
	if !self.catalog.Loaded() {
		return nil, errors.Errorf("routine %d: workload is not initialized", routineID)
	}
	counter, index := self.cycle.Next()
	query, err := self.catalog.Get(index)
	if err != nil {
		return nil, errors.Wrapf(err, "routine %d", routineID)
	}
	return &Event{
		Counter: counter,
		Query:   query,
	}, nil
}

func (self *TPCHWorkload) ExecuteEvent(ctx context.Context, event *Event, routineID int) Outcome {
	start := time.Now()
	outcome := self.executor.Execute(ctx, event.Query)
	end := time.Now()
	if outcome.Interrupted {
		return outcome
	}
	sample := &Sample{
		RoutineID: routineID,
		Event:     event,
		Status:    outcome.Status,
		Reconnect: outcome.Reconnect,
		Latency:   end.Sub(start),
		Time:      end,
	}
	self.lock.RLock()
	for _, l := range self.listeners {
		l.Record(sample)
	}
	self.lock.RUnlock()
	return outcome
}

func (self *TPCHWorkload) ReportInterval(s *Snapshot) error {
	line, err := self.reporter.RenderInterval(s)
	if err != nil {
		return err
	}
	Println("%s", line)
	return nil
}

func (self *TPCHWorkload) ReportCumulative(s *Snapshot) error {
	line, err := self.reporter.RenderCumulative(s)
	if err != nil {
		return err
	}
	Println("%s", line)
	return nil
}

// Cleanup releases the catalog and closes the database. It's fine to call
// it more than once.
func (self *TPCHWorkload) Cleanup() error {
	self.catalog.Cleanup()
	if !self.initialized {
		return nil
	}
	self.initialized = false
	if err := self.db.Cleanup(); err != nil {
		return errors.Wrap(err, "fail to cleanup database")
	}
	return nil
}
