package yatb

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// ConfigError reports invalid or missing run configuration.
// It's fatal and raised before any I/O happens.
type ConfigError struct {
	Err error
}

func NewConfigError(err error) *ConfigError {
	return &ConfigError{Err: err}
}

func (self *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s", self.Err)
}

func (self *ConfigError) Unwrap() error {
	return self.Err
}

// BootstrapError reports that the data generation process could not be
// spawned or waited for.
type BootstrapError struct {
	Script string
	Err    error
}

func (self *BootstrapError) Error() string {
	return fmt.Sprintf("fail to run bootstrap script %s: %s", self.Script, self.Err)
}

func (self *BootstrapError) Unwrap() error {
	return self.Err
}

type CatalogErrorReason uint8

const (
	MissingQuery CatalogErrorReason = 1 + iota
	EmptyQuery
)

func (self CatalogErrorReason) String() string {
	switch self {
	case MissingQuery:
		return "MissingQuery"
	case EmptyQuery:
		return "EmptyQuery"
	default:
		return "UnknownReason"
	}
}

// CatalogLoadError reports a query file that is absent, unreadable or empty.
type CatalogLoadError struct {
	Reason CatalogErrorReason
	Index  int
	Path   string
	Err    error
}

func (self *CatalogLoadError) Error() string {
	if self.Err != nil {
		return fmt.Sprintf("%s: query %d (%s): %s", self.Reason, self.Index, self.Path, self.Err)
	}
	return fmt.Sprintf("%s: query %d (%s)", self.Reason, self.Index, self.Path)
}

func (self *CatalogLoadError) Unwrap() error {
	return self.Err
}

// ConnectionError reports that no connection could be acquired for an event.
type ConnectionError struct {
	Err error
}

func (self *ConnectionError) Error() string {
	return fmt.Sprintf("fail to acquire connection: %s", self.Err)
}

func (self *ConnectionError) Unwrap() error {
	return self.Err
}

// QueryExecutionError reports a query that ran without a usable result.
type QueryExecutionError struct {
	Index int
	Err   error
}

func (self *QueryExecutionError) Error() string {
	return fmt.Sprintf("query %d failed: %s", self.Index, self.Err)
}

func (self *QueryExecutionError) Unwrap() error {
	return self.Err
}

// newErrorList returns a multierror that formats all its errors on one line.
func newErrorList() *multierror.Error {
	return &multierror.Error{
		ErrorFormat: func(errs []error) string {
			parts := make([]string, 0, len(errs))
			for _, err := range errs {
				parts = append(parts, err.Error())
			}
			return strings.Join(parts, "; ")
		},
	}
}
