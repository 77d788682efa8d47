package yatb

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

// writeQueries writes the query files 1..n into dir.
func writeQueries(t *testing.T, dir string, n int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	for i := 1; i <= n; i++ {
		text := fmt.Sprintf("-- query %d\nselect %d;\n", i, i)
		path := filepath.Join(dir, QueryFileName(i))
		require.NoError(t, os.WriteFile(path, []byte(text), 0644))
	}
}

func TestQueryFileName(t *testing.T) {
	require.Equal(t, "01.sql", QueryFileName(1))
	require.Equal(t, "22.sql", QueryFileName(22))
	require.Equal(t, "Q05", QueryName(5))
}

func TestCatalogLoad(t *testing.T) {
	dir := t.TempDir()
	writeQueries(t, dir, QueryCount)
	c := NewCatalog(QueryCount)
	require.False(t, c.Loaded())
	require.NoError(t, c.Load(dir))
	require.True(t, c.Loaded())
	require.Equal(t, QueryCount, c.Len())
	for i := 1; i <= QueryCount; i++ {
		q, err := c.Get(i)
		require.NoError(t, err)
		require.Equal(t, i, q.Index)
		require.Equal(t, QueryName(i), q.Name)
		require.Equal(t, fmt.Sprintf("-- query %d\nselect %d;", i, i), q.Text)
		require.Equal(t, 1, q.Reads)
		require.Equal(t, 0, q.Writes+q.Other)
	}
	_, err := c.Get(0)
	require.Error(t, err)
	_, err = c.Get(QueryCount + 1)
	require.Error(t, err)
	require.Error(t, c.Load(dir))
}

func TestCatalogMissingQuery(t *testing.T) {
	dir := t.TempDir()
	writeQueries(t, dir, QueryCount)
	require.NoError(t, os.Remove(filepath.Join(dir, QueryFileName(17))))
	c := NewCatalog(QueryCount)
	err := c.Load(dir)
	var loadErr *CatalogLoadError
	require.True(t, errors.As(err, &loadErr))
	require.Equal(t, MissingQuery, loadErr.Reason)
	require.Equal(t, 17, loadErr.Index)
	require.False(t, c.Loaded())
	require.Equal(t, 0, c.Len())
}

func TestCatalogEmptyQuery(t *testing.T) {
	dir := t.TempDir()
	writeQueries(t, dir, QueryCount)
	require.NoError(t, os.WriteFile(filepath.Join(dir, QueryFileName(3)), nil, 0644))
	c := NewCatalog(QueryCount)
	err := c.Load(dir)
	var loadErr *CatalogLoadError
	require.True(t, errors.As(err, &loadErr))
	require.Equal(t, EmptyQuery, loadErr.Reason)
	require.Equal(t, 3, loadErr.Index)
	require.False(t, c.Loaded())
}

func TestCatalogUnreadableQuery(t *testing.T) {
	dir := t.TempDir()
	writeQueries(t, dir, QueryCount)
	path := filepath.Join(dir, QueryFileName(9))
	require.NoError(t, os.Remove(path))
	require.NoError(t, os.Mkdir(path, 0755))
	err := NewCatalog(QueryCount).Load(dir)
	var loadErr *CatalogLoadError
	require.True(t, errors.As(err, &loadErr))
	require.Equal(t, MissingQuery, loadErr.Reason)
	require.Equal(t, 9, loadErr.Index)
}

func TestCatalogCleanup(t *testing.T) {
	dir := t.TempDir()
	writeQueries(t, dir, QueryCount)
	c := NewCatalog(QueryCount)
	require.NoError(t, c.Load(dir))
	c.Cleanup()
	require.False(t, c.Loaded())
	c.Cleanup()
	require.NoError(t, c.Load(dir))
	require.Equal(t, QueryCount, c.Len())
}
