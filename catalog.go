package strata

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"strata/internal/objstore"
	"strata/internal/pointer"
	"strata/internal/snapio"
	"strata/meta"
)

// DefaultEngine is the storage engine name recorded on tables created
// without an explicit engine.
const DefaultEngine = "STRATA"

// Catalog is the entry point: it owns the object store, the snapshot
// pointer store, and the table registry. Table definitions persist in the
// object store, so a reopened catalog finds its tables again.
type Catalog struct {
	opts     Options
	store    ObjectStore
	pointers PointerStore
	log      Logger

	snapshots  *snapio.SnapshotReader
	snapWriter *snapio.SnapshotWriter
	chunks     *snapio.ChunkWriter

	mu     sync.Mutex
	tables map[string]*Table
}

// Open creates or reopens a catalog rooted at path. Filesystem-backed
// object and pointer stores are created under path unless overridden by
// WithObjectStore / WithPointerStore; with both overridden, path may be
// empty.
func Open(path string, options ...Option) (*Catalog, error) {
	opts := defaultOptions()
	for _, opt := range options {
		opt(&opts)
	}

	if (opts.store == nil || opts.pointers == nil) && path == "" {
		return nil, fmt.Errorf("%w: no catalog path and no stores provided", ErrInvalidConfig)
	}
	if opts.store == nil {
		fs, err := objstore.NewFS(filepath.Join(path, "objects"))
		if err != nil {
			return nil, err
		}
		opts.store = fs
	}
	if opts.pointers == nil {
		fs, err := pointer.NewFS(filepath.Join(path, "pointers"))
		if err != nil {
			return nil, err
		}
		opts.pointers = fs
	}

	snapshots, err := snapio.NewSnapshotReader(opts.store, opts.snapshotCacheSize)
	if err != nil {
		return nil, err
	}

	return &Catalog{
		opts:       opts,
		store:      opts.store,
		pointers:   opts.pointers,
		log:        opts.logger,
		snapshots:  snapshots,
		snapWriter: snapio.NewSnapshotWriter(opts.store),
		chunks:     snapio.NewChunkWriter(opts.store),
		tables:     make(map[string]*Table),
	}, nil
}

// OpenConfig opens a catalog from a loaded Config. Explicit options override
// the config file.
func OpenConfig(cfg Config, options ...Option) (*Catalog, error) {
	return Open(cfg.Path, append(cfg.options(), options...)...)
}

// CreateTable registers a new table with a fixed schema, engine, and
// options, and returns its handle. The schema is immutable for the life of
// the table.
func (c *Catalog) CreateTable(ctx context.Context, db, name string, schema *meta.Schema, engine string, tableOpts map[string]string) (*Table, error) {
	if db == "" || name == "" {
		return nil, fmt.Errorf("%w: empty database or table name", ErrInvalidConfig)
	}
	if schema == nil || schema.Len() == 0 {
		return nil, fmt.Errorf("%w: table %s.%s needs a schema", meta.ErrInvalidSchema, db, name)
	}
	if engine == "" {
		engine = DefaultEngine
	}
	if raw, ok := tableOpts[OptKeyChunkBlockNum]; ok {
		if _, err := parseMergeThreshold(raw); err != nil {
			return nil, err
		}
	}

	_, err := snapio.ReadTableDef(ctx, c.store, db, name)
	if err == nil {
		return nil, fmt.Errorf("%w: %s.%s", ErrTableExists, db, name)
	}
	if !errors.Is(err, objstore.ErrNotExist) {
		return nil, err
	}

	def := &snapio.TableDef{
		Database: db,
		Name:     name,
		Engine:   engine,
		Schema:   schema,
		Options:  copyOptions(tableOpts),
	}
	if err := snapio.WriteTableDef(ctx, c.store, def); err != nil {
		return nil, err
	}
	c.log.Info("created table", "table", db+"."+name, "engine", engine, "columns", schema.Len())

	t, err := c.newTable(def)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.tables[db+"."+name] = t
	c.mu.Unlock()
	return t, nil
}

// GetTable returns the handle of an existing table, loading its persisted
// definition on first use.
func (c *Catalog) GetTable(ctx context.Context, db, name string) (*Table, error) {
	key := db + "." + name
	c.mu.Lock()
	t, ok := c.tables[key]
	c.mu.Unlock()
	if ok {
		return t, nil
	}

	def, err := snapio.ReadTableDef(ctx, c.store, db, name)
	if err != nil {
		if errors.Is(err, objstore.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s.%s", ErrTableNotFound, db, name)
		}
		return nil, err
	}

	t, err = c.newTable(def)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.tables[key] = t
	c.mu.Unlock()
	return t, nil
}

func (c *Catalog) newTable(def *snapio.TableDef) (*Table, error) {
	threshold := c.opts.mergeThreshold
	if raw, ok := def.Options[OptKeyChunkBlockNum]; ok {
		n, err := parseMergeThreshold(raw)
		if err != nil {
			return nil, err
		}
		threshold = n
	}
	return &Table{
		db:             def.Database,
		name:           def.Name,
		engine:         def.Engine,
		schema:         def.Schema,
		options:        copyOptions(def.Options),
		mergeThreshold: threshold,
		key:            def.Database + "/" + def.Name,
		pointers:       c.pointers,
		snapshots:      c.snapshots,
		snapWriter:     c.snapWriter,
		chunks:         c.chunks,
		chunkReader:    snapio.NewChunkReader(c.store),
		log:            c.log,
		retries:        c.opts.commitRetries,
	}, nil
}

func copyOptions(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
