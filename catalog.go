package yatb

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

const (
	// The number of queries in the TPC-H benchmark.
	QueryCount = 22
)

// Query is one catalog entry.
type Query struct {
	// 1-based position in the catalog.
	Index int
	Name  string
	Text  string
	// The number of statements of each kind in Text.
	Reads  int
	Writes int
	Other  int
}

// Event is one unit of scheduled work, a single query execution.
type Event struct {
	// The cycle counter value drawn for this event.
	Counter uint64
	Query   *Query
}

// Catalog is the ordered collection of the benchmark queries. It's filled
// once by Load and read-only afterwards, so it's safe to share by all the
// client routines.
type Catalog struct {
	size    int
	dir     string
	queries []*Query
}

func NewCatalog(size int) *Catalog {
	return &Catalog{
		size: size,
	}
}

// QueryFileName returns the file name of the query at index, e.g. "01.sql".
func QueryFileName(index int) string {
	return fmt.Sprintf("%02d.sql", index)
}

// QueryName returns the display name of the query at index, e.g. "Q01".
func QueryName(index int) string {
	return fmt.Sprintf("Q%02d", index)
}

func loadQuery(dir string, index int) (*Query, error) {
	path := filepath.Join(dir, QueryFileName(index))
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, &CatalogLoadError{
			Reason: MissingQuery,
			Index:  index,
			Path:   path,
			Err:    err,
		}
	}
	text := strings.TrimRight(string(b), " \t\r\n")
	if len(strings.TrimSpace(text)) == 0 {
		return nil, &CatalogLoadError{
			Reason: EmptyQuery,
			Index:  index,
			Path:   path,
		}
	}
	reads, writes, other := CountStatements(text)
	return &Query{
		Index:  index,
		Name:   QueryName(index),
		Text:   text,
		Reads:  reads,
		Writes: writes,
		Other:  other,
	}, nil
}

// Load reads every query file from dir. Either all of them are loaded, or
// the catalog is left empty and the first failing query is reported.
func (self *Catalog) Load(dir string) error {
	if self.Loaded() {
		return errors.Errorf("catalog already loaded from %s", self.dir)
	}
	queries := make([]*Query, 0, self.size)
	for i := 1; i <= self.size; i++ {
		q, err := loadQuery(dir, i)
		if err != nil {
			return err
		}
		queries = append(queries, q)
	}
	self.dir = dir
	self.queries = queries
	Debugf("loaded %d queries from %s", len(queries), dir)
	return nil
}

// Get returns the query at the 1-based index.
func (self *Catalog) Get(index int) (*Query, error) {
	if index < 1 || index > len(self.queries) {
		return nil, errors.Errorf("query index %d out of range [1, %d]", index, len(self.queries))
	}
	return self.queries[index-1], nil
}

// Size is the number of queries the catalog holds once loaded.
func (self *Catalog) Size() int {
	return self.size
}

func (self *Catalog) Len() int {
	return len(self.queries)
}

func (self *Catalog) Loaded() bool {
	return len(self.queries) > 0
}

func (self *Catalog) Queries() []*Query {
	return self.queries
}

// Cleanup releases the loaded queries. It's fine to call it more than once.
func (self *Catalog) Cleanup() {
	self.queries = nil
	self.dir = ""
}
