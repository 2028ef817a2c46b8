package keystore

import (
	"fmt"
	"io"

	vmetrics "github.com/VictoriaMetrics/metrics"
	"github.com/puzpuzpuz/xsync/v3"
)

// --------------------------------------------------------------------------
// Operation Counters
// --------------------------------------------------------------------------

type opKind string

const (
	opInsert opKind = "insert"
	opUpdate opKind = "update"
	opGet    opKind = "get"
	opDelete opKind = "delete"
	opScan   opKind = "scan"
	opQuery  opKind = "query"
)

// TableOps is a snapshot of the per-table operation counters of one client,
// since the client was created. Counters are in-memory only and reset on
// reopen.
type TableOps struct {
	Inserts uint64 `json:"inserts"`
	Updates uint64 `json:"updates"`
	Gets    uint64 `json:"gets"`
	Deletes uint64 `json:"deletes"`
	Scans   uint64 `json:"scans"`
	Queries uint64 `json:"queries"`
}

// tableCounters holds the live counters for one table. The counters are
// lock-free so that recording an operation adds no contention beyond the
// database lock already held by the caller.
type tableCounters struct {
	inserts *xsync.Counter
	updates *xsync.Counter
	gets    *xsync.Counter
	deletes *xsync.Counter
	scans   *xsync.Counter
	queries *xsync.Counter
}

func newTableCounters() *tableCounters {
	return &tableCounters{
		inserts: xsync.NewCounter(),
		updates: xsync.NewCounter(),
		gets:    xsync.NewCounter(),
		deletes: xsync.NewCounter(),
		scans:   xsync.NewCounter(),
		queries: xsync.NewCounter(),
	}
}

func (tc *tableCounters) of(op opKind) *xsync.Counter {
	switch op {
	case opInsert:
		return tc.inserts
	case opUpdate:
		return tc.updates
	case opGet:
		return tc.gets
	case opDelete:
		return tc.deletes
	case opScan:
		return tc.scans
	default:
		return tc.queries
	}
}

func (tc *tableCounters) snapshot() TableOps {
	return TableOps{
		Inserts: uint64(tc.inserts.Value()),
		Updates: uint64(tc.updates.Value()),
		Gets:    uint64(tc.gets.Value()),
		Deletes: uint64(tc.deletes.Value()),
		Scans:   uint64(tc.scans.Value()),
		Queries: uint64(tc.queries.Value()),
	}
}

// opCounters tracks operation counts per table for one client and mirrors
// them into the process-wide Prometheus registry.
type opCounters struct {
	tables *xsync.MapOf[string, *tableCounters]
}

func newOpCounters() *opCounters {
	return &opCounters{
		tables: xsync.NewMapOf[string, *tableCounters](),
	}
}

func (c *opCounters) record(op opKind, table string) {
	tc, _ := c.tables.LoadOrCompute(table, newTableCounters)
	tc.of(op).Inc()
	vmetrics.GetOrCreateCounter(
		fmt.Sprintf(`pkv_operations_total{op=%q,table=%q}`, op, table),
	).Inc()
}

// snapshot returns the current per-table counter values.
func (c *opCounters) snapshot() map[string]TableOps {
	out := make(map[string]TableOps)
	c.tables.Range(func(name string, tc *tableCounters) bool {
		out[name] = tc.snapshot()
		return true
	})
	return out
}

// WriteMetrics writes all registered metrics of the process in Prometheus
// text exposition format. The output includes the pkv_operations_total
// counters of every client in the process.
func WriteMetrics(w io.Writer) {
	vmetrics.WritePrometheus(w, false)
}
