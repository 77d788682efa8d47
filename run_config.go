package yatb

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

const (
	// Location of the benchmark files relative to the root path.
	TPCHSubpath    = "tests/tpch"
	QueriesDirName = "queries"
	InitScriptName = "tpch_init.sh"
	// Parameter set name handed to the data generation script.
	MySQLParams = "tpch"
)

// Config is the validated run configuration. It's built once by NewConfig
// and handed to every component which needs it. Never modify it afterwards.
type Config struct {
	// Dataset size in gigabytes.
	Scale            int64
	RootPath         string
	JSONReport       bool
	Threads          int
	OperationCount   int64
	MaxExecutionTime time.Duration
	// Events per second, 0 for unthrottled.
	Target         float64
	StatusInterval time.Duration
	Percentile     float64
}

type configParser struct {
	props Properties
	errs  *multierror.Error
}

func (self *configParser) fail(format string, args ...interface{}) {
	self.errs = multierror.Append(self.errs, errors.Errorf(format, args...))
}

func (self *configParser) parseInt(key, defaultValue string) int64 {
	propStr := self.props.GetDefault(key, defaultValue)
	v, err := strconv.ParseInt(strings.TrimSpace(propStr), 0, 64)
	if err != nil {
		self.fail("%s: not an integer: %q", key, propStr)
	}
	return v
}

func (self *configParser) parseFloat(key, defaultValue string) float64 {
	propStr := self.props.GetDefault(key, defaultValue)
	v, err := strconv.ParseFloat(strings.TrimSpace(propStr), 64)
	if err != nil {
		self.fail("%s: not a number: %q", key, propStr)
	}
	return v
}

func (self *configParser) parseBool(key, defaultValue string) bool {
	propStr := self.props.GetDefault(key, defaultValue)
	v, err := strconv.ParseBool(strings.TrimSpace(propStr))
	if err != nil {
		self.fail("%s: not a boolean: %q", key, propStr)
	}
	return v
}

// NewConfig parses and validates the run configuration from the properties.
// All the problems found are reported together in a single ConfigError.
func NewConfig(p Properties) (*Config, error) {
	parser := &configParser{
		props: p,
		errs:  newErrorList(),
	}
	scale := parser.parseInt(PropertyScale, PropertyScaleDefault)
	if scale <= 0 {
		parser.fail("%s: must be a positive number of gigabytes, got %d", PropertyScale, scale)
	}
	rootPath := strings.TrimSpace(p.Get(PropertyRootPath))
	if len(rootPath) == 0 {
		parser.fail("%s: no root path specified", PropertyRootPath)
	}
	jsonReport := parser.parseBool(PropertyJSONReport, PropertyJSONReportDefault)
	threads := parser.parseInt(PropertyThreadCount, PropertyThreadCountDefault)
	if threads <= 0 {
		parser.fail("%s: must be positive, got %d", PropertyThreadCount, threads)
	}
	operationCount := parser.parseInt(PropertyOperationCount, PropertyOperationCountDefault)
	if operationCount < 0 {
		parser.fail("%s: must not be negative, got %d", PropertyOperationCount, operationCount)
	}
	maxExecutionTime := parser.parseInt(PropertyMaxExecutionTime, PropertyMaxExecutionTimeDefault)
	if maxExecutionTime < 0 {
		parser.fail("%s: must not be negative, got %d", PropertyMaxExecutionTime, maxExecutionTime)
	}
	target := parser.parseFloat(PropertyTarget, PropertyTargetDefault)
	if target < 0 {
		parser.fail("%s: must not be negative, got %g", PropertyTarget, target)
	}
	statusInterval := parser.parseInt(PropertyStatusInterval, PropertyStatusIntervalDefault)
	if statusInterval < 0 {
		parser.fail("%s: must not be negative, got %d", PropertyStatusInterval, statusInterval)
	}
	percentile := parser.parseFloat(PropertyPercentile, PropertyPercentileDefault)
	if percentile <= 0 || percentile > 100 {
		parser.fail("%s: must be in (0, 100], got %g", PropertyPercentile, percentile)
	}
	if err := parser.errs.ErrorOrNil(); err != nil {
		return nil, NewConfigError(err)
	}
	return &Config{
		Scale:            scale,
		RootPath:         rootPath,
		JSONReport:       jsonReport,
		Threads:          int(threads),
		OperationCount:   operationCount,
		MaxExecutionTime: time.Duration(maxExecutionTime) * time.Second,
		Target:           target,
		StatusInterval:   time.Duration(statusInterval) * time.Second,
		Percentile:       percentile,
	}, nil
}

// ScriptsDir returns the directory holding the data generation script.
func (self *Config) ScriptsDir() string {
	return filepath.Join(self.RootPath, TPCHSubpath)
}

func (self *Config) QueriesDir() string {
	return filepath.Join(self.ScriptsDir(), QueriesDirName)
}

func (self *Config) InitScript() string {
	return filepath.Join(self.ScriptsDir(), InitScriptName)
}
