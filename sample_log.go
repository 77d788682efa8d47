package yatb

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"
)

// SampleRow is one raw sample as stored in the parquet sample log.
type SampleRow struct {
	RunID     string `parquet:"name=run_id, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Timestamp int64  `parquet:"name=ts, type=INT64, convertedtype=TIMESTAMP_MILLIS"`
	RoutineID int32  `parquet:"name=routine_id, type=INT32"`
	Counter   int64  `parquet:"name=counter, type=INT64"`
	Query     int32  `parquet:"name=query, type=INT32"`
	Status    string `parquet:"name=status, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	LatencyUs int64  `parquet:"name=latency_us, type=INT64"`
	Reconnect bool   `parquet:"name=reconnect, type=BOOLEAN"`
}

// SampleLog writes every sample of a run to a parquet file, in batches.
type SampleLog struct {
	lock      sync.Mutex
	runID     string
	filePath  string
	file      source.ParquetFile
	writer    *writer.ParquetWriter
	batchSize int
	rows      []SampleRow
	// The first write error, reported by Close.
	err error
}

func NewSampleLog(filePath, runID string, batchSize int) (*SampleLog, error) {
	if batchSize <= 0 {
		return nil, errors.Errorf("invalid sample batch size %d", batchSize)
	}
	file, err := local.NewLocalFileWriter(filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "fail to create sample log %s", filePath)
	}
	pw, err := writer.NewParquetWriter(file, new(SampleRow), 4)
	if err != nil {
		file.Close()
		return nil, errors.Wrap(err, "fail to create parquet writer")
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY
	return &SampleLog{
		runID:     runID,
		filePath:  filePath,
		file:      file,
		writer:    pw,
		batchSize: batchSize,
		rows:      make([]SampleRow, 0, batchSize),
	}, nil
}

func (self *SampleLog) FilePath() string {
	return self.filePath
}

func (self *SampleLog) Record(sample *Sample) {
	row := SampleRow{
		RunID:     self.runID,
		Timestamp: sample.Time.UnixMilli(),
		RoutineID: int32(sample.RoutineID),
		Counter:   int64(sample.Event.Counter),
		Query:     int32(sample.Event.Query.Index),
		Status:    sample.Status.String(),
		LatencyUs: NanosecondToMicrosecond(sample.Latency.Nanoseconds()),
		Reconnect: sample.Reconnect,
	}
	self.lock.Lock()
	defer self.lock.Unlock()
	if self.err != nil {
		return
	}
	self.rows = append(self.rows, row)
	if len(self.rows) >= self.batchSize {
		if err := self.flush(); err != nil {
			Errorf("fail to write sample log %s: %s", self.filePath, err)
			self.err = err
		}
	}
}

func (self *SampleLog) flush() error {
	for _, row := range self.rows {
		if err := self.writer.Write(row); err != nil {
			return err
		}
	}
	self.rows = self.rows[:0]
	return nil
}

// Close writes the buffered samples and the file footer.
func (self *SampleLog) Close() error {
	self.lock.Lock()
	defer self.lock.Unlock()
	err := self.err
	if err == nil {
		err = self.flush()
	}
	if err == nil {
		err = self.writer.WriteStop()
	}
	if closeErr := self.file.Close(); err == nil {
		err = closeErr
	}
	return errors.Wrapf(err, "fail to close sample log %s", self.filePath)
}
