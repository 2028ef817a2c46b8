package keystore

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/pkv-db/pKV/lib/codec"
)

// --------------------------------------------------------------------------
// Options
// --------------------------------------------------------------------------

// Options configures a Client. Zero-valued fields fall back to the defaults
// from DefaultOptions.
type Options struct {
	// Codec is the persistence codec used for Save and Open. Defaults to the
	// msgpack+s2 codec.
	Codec codec.ICodec
	// Logger receives operational log records. Defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultOptions returns the options a nil *Options resolves to.
func DefaultOptions() *Options {
	return &Options{
		Codec:  codec.NewMsgpackCodec(),
		Logger: slog.Default(),
	}
}

func (o *Options) withDefaults() *Options {
	resolved := DefaultOptions()
	if o == nil {
		return resolved
	}
	if o.Codec != nil {
		resolved.Codec = o.Codec
	}
	if o.Logger != nil {
		resolved.Logger = o.Logger
	}
	return resolved
}

// --------------------------------------------------------------------------
// Client
// --------------------------------------------------------------------------

// Client is the process-wide handle on a persisted database. Every operation
// takes the database lock for its full duration, so a Client can be shared
// freely between goroutines; the maintenance worker competes for the same
// lock.
//
// Thread-safety: all methods are safe for concurrent use.
type Client struct {
	mu       sync.Mutex
	database *Database
	path     string
	codec    codec.ICodec
	logger   *slog.Logger
	counters *opCounters
	saver    *saver
	closed   bool
}

// compile time interface check
var _ IKeystore = (*Client)(nil)

// New creates a database file at path and returns a client on it. The file
// must not exist yet (ErrStoreExists otherwise); the empty database is saved
// immediately so that a crash right after New still leaves a loadable store.
// A positive syncInterval starts the maintenance worker; zero disables it.
func New(path string, syncInterval time.Duration, opts *Options) (*Client, error) {
	opts = opts.withDefaults()

	if _, err := os.Stat(path); err == nil {
		return nil, errStoreExists(path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	db := NewDatabase()
	if syncInterval > 0 {
		db.SetSyncInterval(syncInterval)
	}

	c := &Client{
		database: db,
		path:     path,
		codec:    opts.Codec,
		logger:   opts.Logger,
		counters: newOpCounters(),
	}

	if err := c.Save(); err != nil {
		return nil, err
	}

	if syncInterval > 0 {
		c.saver = newSaver(c, syncInterval)
	}

	c.logger.Info("created keystore", "path", path, "syncInterval", syncInterval)
	return c, nil
}

// Open loads an existing database file and returns a client on it. A missing
// file is reported as ErrStoreDoesNotExist. If the persisted database carries
// a sync interval, the maintenance worker resumes with it.
func Open(path string, opts *Options) (*Client, error) {
	opts = opts.withDefaults()

	blob, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errStoreDoesNotExist(path)
		}
		return nil, err
	}

	db := NewDatabase()
	if err := opts.Codec.Decode(blob, db); err != nil {
		return nil, err
	}
	if db.Tables == nil {
		db.Tables = make(map[string]*Table)
	}

	c := &Client{
		database: db,
		path:     path,
		codec:    opts.Codec,
		logger:   opts.Logger,
		counters: newOpCounters(),
	}

	if db.SyncInterval > 0 {
		c.saver = newSaver(c, db.SyncInterval)
	}

	c.logger.Info("opened keystore",
		"path", path,
		"tables", len(db.Tables),
		"syncInterval", db.SyncInterval)
	return c, nil
}

// lock acquires the database lock, rejecting use of a closed client.
func (c *Client) lock() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrUnableToGetLock
	}
	return nil
}

// --------------------------------------------------------------------------
// Persistence
// --------------------------------------------------------------------------

// Save encodes the full database and rewrites the backing file in place,
// syncing it to stable storage before returning.
func (c *Client) Save() error {
	if err := c.lock(); err != nil {
		return err
	}
	defer c.mu.Unlock()
	return c.saveLocked()
}

func (c *Client) saveLocked() error {
	blob, err := c.codec.Encode(c.database)
	if err != nil {
		return err
	}

	// The file is truncated and rewritten in place rather than written to a
	// temp file and renamed; a crash mid-write can leave it unloadable.
	f, err := os.OpenFile(c.path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	if err := f.Truncate(0); err != nil {
		f.Close()
		return err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return err
	}
	if _, err := f.Write(blob); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	c.logger.Debug("saved keystore", "path", c.path, "bytes", len(blob))
	return nil
}

// --------------------------------------------------------------------------
// Table Management
// --------------------------------------------------------------------------

// CreateTable registers a built table, see IKeystore.
func (c *Client) CreateTable(table *Table) error {
	if err := c.lock(); err != nil {
		return err
	}
	defer c.mu.Unlock()

	if err := c.database.CreateTable(table); err != nil {
		return err
	}
	c.logger.Info("created table", "table", table.Name, "expireAfter", table.ExpireAfter)
	return nil
}

// ListTables returns all table names, see IKeystore.
func (c *Client) ListTables() ([]string, error) {
	if err := c.lock(); err != nil {
		return nil, err
	}
	defer c.mu.Unlock()
	return c.database.ListTables(), nil
}

// DropTable removes a table and its entries, see IKeystore.
func (c *Client) DropTable(name string) error {
	if err := c.lock(); err != nil {
		return err
	}
	defer c.mu.Unlock()

	if err := c.database.DropTable(name); err != nil {
		return err
	}
	c.logger.Info("dropped table", "table", name)
	return nil
}

// --------------------------------------------------------------------------
// Entry Operations
// --------------------------------------------------------------------------

// Insert stores a new entry, see IKeystore. The entry is copied on the way
// in; later mutation of the caller's value does not affect stored state.
func (c *Client) Insert(table string, entry *Entry) error {
	if err := c.lock(); err != nil {
		return err
	}
	defer c.mu.Unlock()

	t, err := c.database.GetTable(table)
	if err != nil {
		return err
	}
	if err := t.Insert(entry.Clone()); err != nil {
		return err
	}
	c.counters.record(opInsert, table)
	return nil
}

// Update stores the entry with upsert semantics, see IKeystore.
func (c *Client) Update(table string, entry *Entry) error {
	if err := c.lock(); err != nil {
		return err
	}
	defer c.mu.Unlock()

	t, err := c.database.GetTable(table)
	if err != nil {
		return err
	}
	if err := t.Update(entry.Clone()); err != nil {
		return err
	}
	c.counters.record(opUpdate, table)
	return nil
}

// InsertOrUpdate is an alias for Update, see IKeystore.
func (c *Client) InsertOrUpdate(table string, entry *Entry) error {
	return c.Update(table, entry)
}

// Get returns a copy of the entry under the primary key, see IKeystore.
func (c *Client) Get(table string, primaryField Field) (*Entry, error) {
	if err := c.lock(); err != nil {
		return nil, err
	}
	defer c.mu.Unlock()

	t, err := c.database.GetTable(table)
	if err != nil {
		return nil, err
	}
	e, err := t.Get(primaryField)
	if err != nil {
		return nil, err
	}
	c.counters.record(opGet, table)
	return e.Clone(), nil
}

// Delete removes the entry under the primary key, see IKeystore.
func (c *Client) Delete(table string, primaryField Field) error {
	if err := c.lock(); err != nil {
		return err
	}
	defer c.mu.Unlock()

	t, err := c.database.GetTable(table)
	if err != nil {
		return err
	}
	if err := t.Delete(primaryField); err != nil {
		return err
	}
	c.counters.record(opDelete, table)
	return nil
}

// DeleteMany removes every entry matching the criteria and returns the count
// removed, see IKeystore.
func (c *Client) DeleteMany(table string, criteria map[string]Field) (uint64, error) {
	if err := c.lock(); err != nil {
		return 0, err
	}
	defer c.mu.Unlock()

	t, err := c.database.GetTable(table)
	if err != nil {
		return 0, err
	}

	var deleted uint64
	for key, e := range t.Entries {
		if matchesCriteria(e, criteria) {
			delete(t.Entries, key)
			deleted++
		}
	}
	c.counters.record(opDelete, table)
	c.logger.Debug("deleted entries", "table", table, "count", deleted)
	return deleted, nil
}

// Scan returns copies of all entries of a table, see IKeystore.
func (c *Client) Scan(table string) ([]*Entry, error) {
	if err := c.lock(); err != nil {
		return nil, err
	}
	defer c.mu.Unlock()

	t, err := c.database.GetTable(table)
	if err != nil {
		return nil, err
	}

	entries := t.Scan()
	results := make([]*Entry, 0, len(entries))
	for _, e := range entries {
		results = append(results, e.Clone())
	}
	c.counters.record(opScan, table)
	return results, nil
}

// Query returns copies of the entries matching the criteria, see IKeystore.
func (c *Client) Query(table string, criteria map[string]Field) ([]*Entry, error) {
	if err := c.lock(); err != nil {
		return nil, err
	}
	defer c.mu.Unlock()

	t, err := c.database.GetTable(table)
	if err != nil {
		return nil, err
	}

	var results []*Entry
	for _, e := range t.Entries {
		if matchesCriteria(e, criteria) {
			results = append(results, e.Clone())
		}
	}
	c.counters.record(opQuery, table)
	return results, nil
}

// matchesCriteria reports whether the entry satisfies every criterion. A
// criterion on a field the entry does not carry never matches; the empty
// criteria map matches every entry.
func matchesCriteria(e *Entry, criteria map[string]Field) bool {
	for name, want := range criteria {
		got, ok := e.Fields[name]
		if !ok || got != want {
			return false
		}
	}
	return true
}

// --------------------------------------------------------------------------
// Maintenance
// --------------------------------------------------------------------------

// Prune removes every entry whose age exceeds its table's expiration. Tables
// without an expiration are skipped entirely; entries that were never
// stamped (zero LastTimestamp) are never pruned.
func (c *Client) Prune() error {
	if err := c.lock(); err != nil {
		return err
	}
	defer c.mu.Unlock()

	now := time.Now()
	for name, t := range c.database.Tables {
		if t.ExpireAfter <= 0 {
			continue
		}
		var pruned int
		for key, e := range t.Entries {
			if e.LastTimestamp.IsZero() {
				continue
			}
			if now.Sub(e.LastTimestamp) > t.ExpireAfter {
				delete(t.Entries, key)
				pruned++
			}
		}
		if pruned > 0 {
			c.logger.Debug("pruned expired entries", "table", name, "count", pruned)
		}
	}
	return nil
}

// Close stops the maintenance worker and marks the client closed. Any call
// after Close fails with ErrUnableToGetLock. Close does not save.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrUnableToGetLock
	}
	s := c.saver
	c.saver = nil
	c.mu.Unlock()

	// The worker is stopped before the handle is marked closed so that an
	// in-flight maintenance cycle can finish its save.
	if s != nil {
		s.shutdown()
	}

	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	c.logger.Info("closed keystore", "path", c.path)
	return nil
}
