package yatb

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func parseTestArgs(t *testing.T, argv ...string) (*Arguments, error) {
	t.Helper()
	cmd := &cobra.Command{Use: "run"}
	opts := &commandOptions{}
	addFlags(cmd.Flags(), opts)
	require.NoError(t, cmd.ParseFlags(argv))
	return parseArgs(cmd, opts, cmd.Flags().Args())
}

func TestParseArgsPrecedence(t *testing.T) {
	file := filepath.Join(t.TempDir(), "workload")
	require.NoError(t, os.WriteFile(file, []byte("threadcount=3\ntpch.scale=5\nreport.json=true\n"), 0644))

	args, err := parseTestArgs(t, "-P", file, "-p", "threadcount=5", "-p", "tpch.scale=7", "--db", "basic")
	require.NoError(t, err)
	require.Equal(t, "run", args.Command)
	require.Equal(t, "basic", args.Database)
	require.Equal(t, "5", args.Get(PropertyThreadCount))
	require.Equal(t, "7", args.Get(PropertyScale))
	require.Equal(t, "true", args.Get(PropertyJSONReport))

	args, err = parseTestArgs(t, "-P", file, "-p", "threadcount=5", "--threads", "9", "basic")
	require.NoError(t, err)
	require.Equal(t, "9", args.Get(PropertyThreadCount))
	require.Equal(t, "5", args.Get(PropertyScale))
	require.Equal(t, "basic", args.Database)
	require.Equal(t, "basic", args.Get(PropertyDB))
}

func TestParseArgsDefaultDatabase(t *testing.T) {
	_, err := parseTestArgs(t)
	require.Error(t, err)
	require.Contains(t, err.Error(), PropertyDBDefault)

	Databases[PropertyDBDefault] = func() DB {
		return NewBasicDB()
	}
	t.Cleanup(func() {
		delete(Databases, PropertyDBDefault)
	})
	args, err := parseTestArgs(t)
	require.NoError(t, err)
	require.Equal(t, PropertyDBDefault, args.Database)
}

func TestParseArgsErrors(t *testing.T) {
	_, err := parseTestArgs(t, "-p", "threadcount")
	require.Error(t, err)
	_, err = parseTestArgs(t, "-p", "=4")
	require.Error(t, err)
	_, err = parseTestArgs(t, "--db", "oracle")
	require.Error(t, err)
	require.Contains(t, err.Error(), "basic")
	_, err = parseTestArgs(t, "--loglevel", "chatty")
	require.Error(t, err)
	_, err = parseTestArgs(t, "-P", filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestExecuteRun(t *testing.T) {
	buf := captureOutput(t)
	root := t.TempDir()
	writeQueries(t, (&Config{RootPath: root}).QueriesDir(), QueryCount)
	status := Execute(context.Background(), []string{
		"run", "basic",
		"--root", root,
		"--threads", "2",
		"-p", "operationcount=22",
		"-p", "status.interval=0",
	})
	require.Equal(t, 0, status)
	require.Contains(t, buf.String(), "thds: 2 ")
	require.Contains(t, buf.String(), "[OVERALL], Events, 22\n")
}

func TestExecutePrepare(t *testing.T) {
	captureOutput(t)
	root := t.TempDir()
	writeInitScript(t, root, "exit 3")
	status := Execute(context.Background(), []string{"prepare", "basic", "--root", root, "--scale", "10"})
	require.Equal(t, 3, status)
}

func TestExecuteUsageErrors(t *testing.T) {
	captureOutput(t)
	require.Equal(t, 1, Execute(context.Background(), []string{"run", "nosuch", "--root", t.TempDir()}))
	require.Equal(t, 1, Execute(context.Background(), []string{"run", "basic", "extra"}))
	require.Equal(t, 1, Execute(context.Background(), []string{"bench"}))
}
