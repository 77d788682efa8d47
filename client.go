package yatb

import (
	"bufio"
	"context"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Client runs one command and returns its exit status.
type Client interface {
	Main(ctx context.Context) int
}

type Arguments struct {
	Command  string
	Database string
	Properties
}

// Loader runs the data generation script.
type Loader struct {
	args *Arguments
}

func NewLoader(args *Arguments) *Loader {
	return &Loader{
		args: args,
	}
}

func (self *Loader) Main(ctx context.Context) int {
	config, err := NewConfig(self.args.Properties)
	if err != nil {
		EPrintln("%s", err)
		return 1
	}
	workload := NewTPCHWorkload(config, nil)
	status, err := workload.Prepare(ctx)
	if err != nil {
		EPrintln("%s", err)
		return status
	}
	if status != 0 {
		Errorf("data generation exited with status %d", status)
	} else {
		Infof("data generation finished, scale %d", config.Scale)
	}
	return status
}

// operationBudget hands out the events of a run, unlimited when limit <= 0.
type operationBudget struct {
	limit int64
	taken int64
}

func (self *operationBudget) take() bool {
	if self.limit <= 0 {
		return true
	}
	return atomic.AddInt64(&self.taken, 1) <= self.limit
}

// Runner executes the workload with a number of client routines.
type Runner struct {
	args *Arguments
}

func NewRunner(args *Arguments) *Runner {
	return &Runner{
		args: args,
	}
}

func (self *Runner) Main(ctx context.Context) int {
	if err := self.run(ctx); err != nil {
		EPrintln("%s", err)
		return 1
	}
	return 0
}

func (self *Runner) run(ctx context.Context) error {
	props := self.args.Properties
	config, err := NewConfig(props)
	if err != nil {
		return err
	}
	db, err := NewDB(self.args.Database, props)
	if err != nil {
		return err
	}
	measurements, err := NewMeasurements(props, config.Threads, config.Percentile)
	if err != nil {
		return err
	}
	workload := NewTPCHWorkload(config, db)
	workload.AddListener(measurements)

	startTime := time.Now()
	runID := uuid.NewString()
	if addr := props.Get(PropertyPrometheusAddress); len(addr) > 0 {
		exporter := NewPrometheusExporter(config.Threads)
		workload.AddListener(exporter)
		if err := exporter.StartServer(addr); err != nil {
			return err
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := exporter.Shutdown(ctx); err != nil {
				Warnf("fail to shutdown prometheus server: %s", err)
			}
		}()
	}
	if path := props.Get(OutputFilePath); len(path) > 0 {
		batchSize, err := strconv.Atoi(props.GetDefault(OutputBatchSize, OutputBatchSizeDefault))
		if err != nil {
			return NewConfigError(errors.Wrapf(err, "invalid %s", OutputBatchSize))
		}
		sampleLog, err := NewSampleLog(ExpandPath(path, startTime), runID, batchSize)
		if err != nil {
			return err
		}
		workload.AddListener(sampleLog)
		defer func() {
			if err := sampleLog.Close(); err != nil {
				Errorf("%s", err)
			}
		}()
	}

	if err := workload.Init(); err != nil {
		return err
	}
	defer func() {
		if err := workload.Cleanup(); err != nil {
			Warnf("%s", err)
		}
	}()

	LogWith(logrus.Fields{
		"run":     runID,
		"db":      self.args.Database,
		"threads": config.Threads,
		"scale":   config.Scale,
	}).Info("starting run")

	var runCtx context.Context
	var cancel context.CancelFunc
	if config.MaxExecutionTime > 0 {
		runCtx, cancel = context.WithTimeout(ctx, config.MaxExecutionTime)
	} else {
		runCtx, cancel = context.WithCancel(ctx)
	}
	defer cancel()
	var limiter *rate.Limiter
	if config.Target > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.Target), 1)
	}
	budget := &operationBudget{limit: config.OperationCount}

	measurements.Start(time.Now())
	stopStatus := startStatusReporter(workload, measurements, config.StatusInterval)
	group, groupCtx := errgroup.WithContext(runCtx)
	for i := 0; i < config.Threads; i++ {
		routineID := i
		group.Go(func() error {
			// The queries run on ctx so the ones in flight finish when
			// the run times out.
			for groupCtx.Err() == nil {
				if !budget.take() {
					return nil
				}
				if limiter != nil {
					if err := limiter.Wait(groupCtx); err != nil {
						return nil
					}
				}
				event, err := workload.NextEvent(routineID)
				if err != nil {
					return err
				}
				workload.ExecuteEvent(ctx, event, routineID)
			}
			return nil
		})
	}
	err = group.Wait()
	stopStatus()
	if err != nil {
		return err
	}

	now := time.Now()
	if err := workload.ReportCumulative(measurements.CumulativeSnapshot(now)); err != nil {
		return err
	}
	return exportMeasurements(props, measurements, startTime, now)
}

// startStatusReporter prints an interval report on every tick until the
// returned stop function is called.
func startStatusReporter(workload Workload, measurements *Measurements, interval time.Duration) func() {
	if interval <= 0 {
		return func() {}
	}
	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case now := <-ticker.C:
				if err := workload.ReportInterval(measurements.IntervalSnapshot(now)); err != nil {
					Warnf("fail to report: %s", err)
				}
				Debugf("%s", measurements.GetSummary())
			}
		}
	}()
	return func() {
		close(done)
		<-finished
	}
}

func exportMeasurements(props Properties, measurements *Measurements, startTime, now time.Time) error {
	var w io.WriteCloser
	if path := props.Get(PropertyExportFile); len(path) > 0 {
		f, err := os.Create(ExpandPath(path, startTime))
		if err != nil {
			return errors.Wrap(err, "fail to create export file")
		}
		w = f
	} else {
		w = NopWriteCloser(OutputDest)
	}
	exporter, err := NewMeasurementExporter(props.GetDefault(PropertyExporter, PropertyExporterDefault), w)
	if err != nil {
		w.Close()
		return err
	}
	err = measurements.ExportMeasurements(exporter, now)
	if closeErr := exporter.Close(); err == nil {
		err = closeErr
	}
	return errors.Wrap(err, "fail to export measurements")
}

// Shell executes single catalog queries interactively.
type Shell struct {
	args  *Arguments
	input io.Reader
}

func NewShell(args *Arguments) *Shell {
	return &Shell{
		args:  args,
		input: os.Stdin,
	}
}

var (
	regexCmd = regexp.MustCompile(`\s+`)
)

func (self *Shell) Main(ctx context.Context) int {
	Println("YATB Command Line Client")
	Println(`Type "help" for command line help`)

	config, err := NewConfig(self.args.Properties)
	if err != nil {
		EPrintln("%s", err)
		return 1
	}
	db, err := NewDB(self.args.Database, self.args.Properties)
	if err != nil {
		EPrintln("fail to create specified db, error: %s", err)
		return 1
	}
	workload := NewTPCHWorkload(config, db)
	if err := workload.Init(); err != nil {
		EPrintln("fail to init workload, error: %s", err)
		return 1
	}
	defer workload.Cleanup()

	Println("Connected.")
	scanner := bufio.NewScanner(self.input)
	for {
		PromptPrintf("> ")
		if !scanner.Scan() {
			break
		}
		startTime := time.Now()
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "help":
			self.help()
			continue
		case "quit", "exit":
			return 0
		}
		parts := regexCmd.Split(line, -1)
		switch parts[0] {
		case "list":
			for _, q := range workload.Catalog().Queries() {
				Println("%s %s", q.Name, summarizeQuery(q.Text))
			}
		case "query":
			if len(parts) != 2 {
				Println(`Error: syntax is "query index"`)
				break
			}
			index, err := strconv.Atoi(parts[1])
			if err != nil {
				Println("Error: invalid index: %s", parts[1])
				break
			}
			query, err := workload.Catalog().Get(index)
			if err != nil {
				Println("Error: %s", err)
				break
			}
			outcome := workload.ExecuteEvent(ctx, &Event{Query: query}, 0)
			Println("Result: %s", outcome.Status)
			if outcome.Err != nil {
				Println("Error: %s", outcome.Err)
			}
		default:
			Println(`Error: unknown command "%s"`, parts[0])
		}
		Println("%d ms", time.Since(startTime).Milliseconds())
	}
	return 0
}

// summarizeQuery returns the first statement line of a query, skipping
// the comments.
func summarizeQuery(text string) string {
	statements := SplitStatements(text)
	if len(statements) == 0 {
		return ""
	}
	first := strings.Join(strings.Fields(statements[0]), " ")
	if len(first) > 60 {
		first = first[:57] + "..."
	}
	return first
}

func (self *Shell) help() {
	helpFormat := `Commands
  list - List the catalog queries
  query index - Execute the catalog query at index
  quit - Quit`
	Println("%s", helpFormat)
}
