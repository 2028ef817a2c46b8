package keystore

import (
	"time"

	"github.com/pkv-db/pKV/lib/keystore/util"
)

// --------------------------------------------------------------------------
// Store Introspection
// --------------------------------------------------------------------------

// TableInfo describes one table of the store.
type TableInfo struct {
	Name        string        `json:"name"`
	Entries     int           `json:"entries"`
	ExpireAfter time.Duration `json:"expire_after,omitempty"`
	Operations  TableOps      `json:"operations"`
}

// Info is a snapshot of the state of a store. Size figures are estimated
// from sampled in-memory entry sizes, not from re-encoding the database, so
// they deviate from the compressed on-disk size.
type Info struct {
	Path              string                 `json:"path"`
	SyncInterval      time.Duration          `json:"sync_interval,omitempty"`
	Tables            []TableInfo            `json:"tables"`
	EntryCount        int                    `json:"entry_count"`
	EstimatedBytes    int                    `json:"estimated_bytes"`
	EntrySizes        *util.SizeHistogram    `json:"-"`
	TableDistribution util.DistributionStats `json:"table_distribution"`
}

// Info returns a snapshot of the store: per-table entry counts and operation
// counters, the entry size distribution and an estimate of the total
// in-memory payload size.
func (c *Client) Info() (Info, error) {
	if err := c.lock(); err != nil {
		return Info{}, err
	}
	defer c.mu.Unlock()

	ops := c.counters.snapshot()
	histogram := util.NewSizeHistogram()

	info := Info{
		Path:         c.path,
		SyncInterval: c.database.SyncInterval,
		Tables:       make([]TableInfo, 0, len(c.database.Tables)),
		EntrySizes:   histogram,
	}

	tableSizes := make([]float64, 0, len(c.database.Tables))
	for name, t := range c.database.Tables {
		for _, e := range t.Entries {
			histogram.AddSample(estimateEntrySize(e))
		}
		info.Tables = append(info.Tables, TableInfo{
			Name:        name,
			Entries:     len(t.Entries),
			ExpireAfter: t.ExpireAfter,
			Operations:  ops[name],
		})
		info.EntryCount += len(t.Entries)
		tableSizes = append(tableSizes, float64(len(t.Entries)))
	}

	info.EstimatedBytes = histogram.WeightedEstimate() * info.EntryCount
	info.TableDistribution = util.NewDistributionStats(tableSizes)
	return info, nil
}

// estimateEntrySize approximates the payload size of one entry: field names
// plus a fixed cost per scalar value. All values are estimates.
func estimateEntrySize(e *Entry) int {
	size := fieldSize(e.PrimaryField)
	for name, f := range e.Fields {
		size += len(name) + fieldSize(f)
	}
	return size
}

func fieldSize(f Field) int {
	if f.Type == FieldTypeString {
		return len(f.Str) + 1
	}
	return 8
}
