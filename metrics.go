package fixedarray

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordAlloc is called after each array allocation, including the
	// allocation done by an import or snapshot load. bytes is the element
	// storage size.
	RecordAlloc(bytes int64, duration time.Duration, err error)

	// RecordExport is called after each export.
	RecordExport(duration time.Duration, err error)

	// RecordImport is called after each import. bytes is the packed size of
	// the copied data.
	RecordImport(bytes int64, duration time.Duration, err error)

	// RecordRelease is called after each release.
	RecordRelease(bytes int64, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordAlloc(int64, time.Duration, error)  {}
func (NoopMetricsCollector) RecordExport(time.Duration, error)        {}
func (NoopMetricsCollector) RecordImport(int64, time.Duration, error) {}
func (NoopMetricsCollector) RecordRelease(int64, error)               {}

// BasicMetricsCollector provides simple in-memory metrics collection.
type BasicMetricsCollector struct {
	AllocCount       atomic.Int64
	AllocErrors      atomic.Int64
	AllocBytes       atomic.Int64
	ExportCount      atomic.Int64
	ExportErrors     atomic.Int64
	ImportCount      atomic.Int64
	ImportErrors     atomic.Int64
	ImportBytes      atomic.Int64
	ImportTotalNanos atomic.Int64
	ReleaseCount     atomic.Int64
	ReleaseErrors    atomic.Int64
	ReleasedBytes    atomic.Int64
}

// RecordAlloc implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAlloc(bytes int64, _ time.Duration, err error) {
	b.AllocCount.Add(1)
	if err != nil {
		b.AllocErrors.Add(1)
		return
	}
	b.AllocBytes.Add(bytes)
}

// RecordExport implements MetricsCollector.
func (b *BasicMetricsCollector) RecordExport(_ time.Duration, err error) {
	b.ExportCount.Add(1)
	if err != nil {
		b.ExportErrors.Add(1)
	}
}

// RecordImport implements MetricsCollector.
func (b *BasicMetricsCollector) RecordImport(bytes int64, duration time.Duration, err error) {
	b.ImportCount.Add(1)
	b.ImportTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ImportErrors.Add(1)
		return
	}
	b.ImportBytes.Add(bytes)
}

// RecordRelease implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRelease(bytes int64, err error) {
	b.ReleaseCount.Add(1)
	if err != nil {
		b.ReleaseErrors.Add(1)
	}
	b.ReleasedBytes.Add(bytes)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		AllocCount:     b.AllocCount.Load(),
		AllocErrors:    b.AllocErrors.Load(),
		AllocBytes:     b.AllocBytes.Load(),
		ExportCount:    b.ExportCount.Load(),
		ExportErrors:   b.ExportErrors.Load(),
		ImportCount:    b.ImportCount.Load(),
		ImportErrors:   b.ImportErrors.Load(),
		ImportBytes:    b.ImportBytes.Load(),
		ImportAvgNanos: b.getAvgImportNanos(),
		ReleaseCount:   b.ReleaseCount.Load(),
		ReleaseErrors:  b.ReleaseErrors.Load(),
		LiveBytes:      b.AllocBytes.Load() - b.ReleasedBytes.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgImportNanos() int64 {
	count := b.ImportCount.Load()
	if count == 0 {
		return 0
	}
	return b.ImportTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	AllocCount     int64
	AllocErrors    int64
	AllocBytes     int64
	ExportCount    int64
	ExportErrors   int64
	ImportCount    int64
	ImportErrors   int64
	ImportBytes    int64
	ImportAvgNanos int64
	ReleaseCount   int64
	ReleaseErrors  int64
	// LiveBytes is the element storage allocated and not yet released.
	LiveBytes int64
}
