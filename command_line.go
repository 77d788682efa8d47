package yatb

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	ProgramName = filepath.Base(os.Args[0])
)

// commandOptions holds the values of the command line flags.
type commandOptions struct {
	propertyFiles []string
	properties    []string
	stderr        bool
	database      string
	threads       int
	json          bool
	root          string
	scale         int64
	logLevel      string
}

func ExitOnError(format string, args ...interface{}) {
	EPrintln(format, args...)
	os.Exit(1)
}

func databaseNames() []string {
	names := make([]string, 0, len(Databases))
	for name := range Databases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// parseArgs merges the properties given by the property files, the -p flags
// and the dedicated flags, in increasing order of precedence.
func parseArgs(cmd *cobra.Command, opts *commandOptions, positional []string) (*Arguments, error) {
	props := NewProperties()
	for _, filename := range opts.propertyFiles {
		propsFromFile, err := LoadProperties(filename)
		if err != nil {
			return nil, err
		}
		props.Merge(propsFromFile)
	}
	for _, p := range opts.properties {
		// it's a property, should be in `k=v` form
		parts := strings.SplitN(p, "=", 2)
		if len(parts) != 2 || len(parts[0]) == 0 {
			return nil, errors.Errorf("invalid property: %s", p)
		}
		props.Add(parts[0], parts[1])
	}
	flags := cmd.Flags()
	if flags.Changed("db") {
		props.Add(PropertyDB, opts.database)
	}
	if len(positional) > 0 {
		props.Add(PropertyDB, positional[0])
	}
	if flags.Changed("threads") {
		props.Add(PropertyThreadCount, strconv.Itoa(opts.threads))
	}
	if flags.Changed("json") {
		props.Add(PropertyJSONReport, strconv.FormatBool(opts.json))
	}
	if flags.Changed("root") {
		props.Add(PropertyRootPath, opts.root)
	}
	if flags.Changed("scale") {
		props.Add(PropertyScale, strconv.FormatInt(opts.scale, 10))
	}
	if flags.Changed("loglevel") {
		props.Add(PropertyLogLevel, opts.logLevel)
	}

	if opts.stderr {
		OutputDest = os.Stderr
	}
	if err := SetLogLevel(props.GetDefault(PropertyLogLevel, PropertyLogLevelDefault)); err != nil {
		return nil, err
	}
	database := props.GetDefault(PropertyDB, PropertyDBDefault)
	if _, ok := Databases[database]; !ok {
		return nil, errors.Errorf("unsupported database: %s, choose from %s",
			database, strings.Join(databaseNames(), ", "))
	}
	return &Arguments{
		Command:    cmd.Name(),
		Database:   database,
		Properties: props,
	}, nil
}

func addFlags(flags *pflag.FlagSet, opts *commandOptions) {
	flags.StringArrayVarP(&opts.propertyFiles, "property-file", "P", nil, "specify workload file")
	flags.StringArrayVarP(&opts.properties, "property", "p", nil, "specify a property value as name=value")
	flags.BoolVarP(&opts.stderr, "stderr", "s", false, "print status to stderr")
	flags.StringVar(&opts.database, "db", PropertyDBDefault,
		`use a specified DB class (can also set the "db" property)`)
	flags.IntVar(&opts.threads, "threads", 1, "number of client routines")
	flags.BoolVar(&opts.json, "json", false, "print the reports in JSON")
	flags.StringVar(&opts.root, "root", "", "root path of the benchmark files")
	flags.Int64Var(&opts.scale, "scale", 1, "dataset size in gigabytes")
	flags.StringVar(&opts.logLevel, "loglevel", PropertyLogLevelDefault,
		"one of verbose, debug, info, warn, error, quiet")
}

// NewRootCommand builds the command tree. The exit status of the executed
// client is stored into status.
func NewRootCommand(ctx context.Context, status *int) *cobra.Command {
	opts := &commandOptions{}
	root := &cobra.Command{
		Use:           ProgramName,
		Short:         "YATB runs the TPC-H queries against a database and reports the statistics",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	addFlags(root.PersistentFlags(), opts)

	newCommand := func(use, short string, makeClient func(*Arguments) Client) *cobra.Command {
		return &cobra.Command{
			Use:   use + " [database]",
			Short: short,
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, positional []string) error {
				args, err := parseArgs(cmd, opts, positional)
				if err != nil {
					return err
				}
				*status = makeClient(args).Main(ctx)
				return nil
			},
		}
	}
	root.AddCommand(
		newCommand("prepare", "Create and load the dataset", func(args *Arguments) Client {
			return NewLoader(args)
		}),
		newCommand("run", "Execute the queries", func(args *Arguments) Client {
			return NewRunner(args)
		}),
		newCommand("shell", "Interactive mode", func(args *Arguments) Client {
			return NewShell(args)
		}),
	)
	return root
}

// Execute runs the command line and returns the exit status.
func Execute(ctx context.Context, argv []string) int {
	status := 0
	cmd := NewRootCommand(ctx, &status)
	cmd.SetArgs(argv)
	if err := cmd.Execute(); err != nil {
		EPrintln("%s", err)
		return 1
	}
	return status
}

func Main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	status := Execute(ctx, os.Args[1:])
	stop()
	os.Exit(status)
}
