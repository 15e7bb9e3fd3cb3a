package observability

import (
	"sync"
	"sync/atomic"
)

type StatsSnapshot struct {
	PagesFetched      uint64            `json:"pages_fetched"`
	RepsExtracted     uint64            `json:"representatives_extracted"`
	ZipsPersisted     uint64            `json:"zips_persisted"`
	ZipsSkipped       uint64            `json:"zips_skipped"`
	ErrorsTotal       uint64            `json:"errors_total"`
	RunSecondsAvg     float64           `json:"run_seconds_avg"`
	RepsBySource      map[string]uint64 `json:"representatives_by_source,omitempty"`
	ErrorsByType      map[string]uint64 `json:"errors_by_type,omitempty"`
	ErrorsByComponent map[string]uint64 `json:"errors_by_component,omitempty"`
}

var (
	pagesFetched  uint64
	repsExtracted uint64
	zipsPersisted uint64
	zipsSkipped   uint64
	errorsTotal   uint64

	runCount uint64
	runNanos uint64

	statsMu           sync.Mutex
	repsBySource      = map[string]uint64{}
	errorsByType      = map[string]uint64{}
	errorsByComponent = map[string]uint64{}
)

func IncPagesFetched(_ string) {
	atomic.AddUint64(&pagesFetched, 1)
}

func AddRepsExtracted(source string, n int) {
	if n <= 0 {
		return
	}
	if source == "" {
		source = "unknown"
	}
	atomic.AddUint64(&repsExtracted, uint64(n))
	statsMu.Lock()
	repsBySource[source] += uint64(n)
	statsMu.Unlock()
}

func IncZipPersisted() {
	atomic.AddUint64(&zipsPersisted, 1)
}

func IncZipSkipped() {
	atomic.AddUint64(&zipsSkipped, 1)
}

func ObserveRunDuration(seconds float64) {
	if seconds <= 0 {
		return
	}
	atomic.AddUint64(&runCount, 1)
	atomic.AddUint64(&runNanos, uint64(seconds*1e9))
}

func IncError(errType, component string) {
	if errType == "" {
		errType = "unknown"
	}
	if component == "" {
		component = "unknown"
	}
	atomic.AddUint64(&errorsTotal, 1)
	statsMu.Lock()
	errorsByType[errType]++
	errorsByComponent[component]++
	statsMu.Unlock()
}

func Snapshot() StatsSnapshot {
	statsMu.Lock()
	sourceCopy := copyMap(repsBySource)
	errorsTypeCopy := copyMap(errorsByType)
	errorsComponentCopy := copyMap(errorsByComponent)
	statsMu.Unlock()

	count := atomic.LoadUint64(&runCount)
	avg := 0.0
	if count > 0 {
		avg = float64(atomic.LoadUint64(&runNanos)) / float64(count) / 1e9
	}

	return StatsSnapshot{
		PagesFetched:      atomic.LoadUint64(&pagesFetched),
		RepsExtracted:     atomic.LoadUint64(&repsExtracted),
		ZipsPersisted:     atomic.LoadUint64(&zipsPersisted),
		ZipsSkipped:       atomic.LoadUint64(&zipsSkipped),
		ErrorsTotal:       atomic.LoadUint64(&errorsTotal),
		RunSecondsAvg:     avg,
		RepsBySource:      sourceCopy,
		ErrorsByType:      errorsTypeCopy,
		ErrorsByComponent: errorsComponentCopy,
	}
}

func copyMap(src map[string]uint64) map[string]uint64 {
	if len(src) == 0 {
		return map[string]uint64{}
	}
	out := make(map[string]uint64, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
