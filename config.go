package yatb

const (
	// Workload
	// The dataset size in gigabytes, passed to the data generation script.
	PropertyScale        = "tpch.scale"
	PropertyScaleDefault = "1"
	// The root directory of the benchmark files. The scripts and the query
	// files live under `TPCHSubpath` of it.
	PropertyRootPath = "tpch.root"
	// Whether to render the reports as JSON instead of human readable text.
	PropertyJSONReport        = "report.json"
	PropertyJSONReportDefault = "false"
	// The latency percentile shown in the reports.
	PropertyPercentile        = "latency.percentile"
	PropertyPercentileDefault = "95"

	// Client
	// The target number of events to perform, 0 for no limit.
	PropertyOperationCount        = "operationcount"
	PropertyOperationCountDefault = "0"
	// The database class to be used.
	PropertyDB        = "db"
	PropertyDBDefault = "mysql"
	// The exporter class to be used.
	PropertyExporter        = "exporter"
	PropertyExporterDefault = "TextMeasurementExporter"
	// If set to the path of a file, this file will be written instead of stdout.
	// strftime directives in the path are expanded with the run start time.
	PropertyExportFile = "exportfile"
	// The number of client goroutines to run.
	PropertyThreadCount        = "threadcount"
	PropertyThreadCountDefault = "1"
	// Target number of events per second, 0 for unthrottled.
	PropertyTarget        = "target"
	PropertyTargetDefault = "0"
	// The maximum amount of time (in seconds) for which the benchmark will be run.
	PropertyMaxExecutionTime        = "maxexecutiontime"
	PropertyMaxExecutionTimeDefault = "0"
	// Seconds between two interval reports, 0 to disable them.
	PropertyStatusInterval        = "status.interval"
	PropertyStatusIntervalDefault = "10"
	PropertyLogLevel              = "loglevel"
	PropertyLogLevelDefault       = "info"
	// Address to serve prometheus metrics on, empty to disable.
	PropertyPrometheusAddress = "prometheus.addr"

	// Connection
	PropertyConnectRetries           = "db.connect.retries"
	PropertyConnectRetriesDefault    = "3"
	PropertyConnectRetryDelay        = "db.connect.retrydelay"
	PropertyConnectRetryDelayDefault = "1s"

	// BasicDB
	ConfigBasicDBVerbose        = "basicdb.verbose"
	ConfigBasicDBVerboseDefault = "false"
	// Simulated delay of each query in milliseconds.
	ConfigSimulateDelay         = "basicdb.simulatedelay"
	ConfigSimulateDelayDefault  = "0"
	ConfigRandomizeDelay        = "basicdb.randomizedelay"
	ConfigRandomizeDelayDefault = "true"
	// Fraction of queries that fail, in [0, 1].
	ConfigSimulateErrorRate        = "basicdb.errorrate"
	ConfigSimulateErrorRateDefault = "0"

	// measurement
	// The highest latency in microseconds tracked by the histograms.
	PropertyHdrHistogramMax        = "hdrhistogram.max"
	PropertyHdrHistogramMaxDefault = "3600000000"
	// The number of significant value digits kept by the histograms.
	PropertyHdrHistogramSig        = "hdrhistogram.sig"
	PropertyHdrHistogramSigDefault = "3"
	// The percentile values written by the measurement exporters.
	PropertyPercentiles        = "hdrhistogram.percentiles"
	PropertyPercentilesDefault = "95,99"
	// Optionally, user can configure an output file to save the raw
	// per event samples in parquet format.
	OutputFilePath = "measurement.raw.output_file"
	// Number of samples buffered before they are handed to the parquet writer.
	OutputBatchSize        = "measurement.raw.batch_size"
	OutputBatchSizeDefault = "1000"
)
