// Package store provides persistence for vessel designs.
//
// The package defines a single Store interface with implementations for
// different backends:
//   - memory: In-memory storage for development/testing
//   - file: File-based storage for CLI workflows
//   - redis: Redis-backed storage for multi-instance deployments
//   - mongo: MongoDB-backed storage for durable catalogs
//
// # Architecture
//
// A Store holds complete vessel.Design documents keyed by design ID. The
// engine never mutates stored designs: analyses read a design, compute, and
// return results, so backends only need Get/Put/Delete/List semantics.
//
// # Usage
//
// Create a store from configuration:
//
//	st, err := store.Open(ctx, store.Config{Backend: store.BackendMemory})
//	if err != nil {
//	    return err
//	}
//	defer st.Close(ctx)
//
// Register and retrieve designs:
//
//	id, err := st.Put(ctx, design)
//	d, err := st.Get(ctx, id)
package store

import (
	"context"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/proaptus/tanklab/pkg/errors"
	"github.com/proaptus/tanklab/pkg/vessel"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Store is the interface for design storage backends.
type Store interface {
	// Get retrieves a design by ID. Returns a DESIGN_NOT_FOUND error when
	// no design with that ID exists.
	Get(ctx context.Context, id string) (*vessel.Design, error)

	// Put stores a design and returns its ID. A design without an ID is
	// assigned a fresh one; an existing ID overwrites the stored document.
	Put(ctx context.Context, d *vessel.Design) (string, error)

	// Delete removes a design. Returns a DESIGN_NOT_FOUND error when no
	// design with that ID exists.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of all stored designs.
	List(ctx context.Context) ([]string, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// Config selects and parameterizes a storage backend.
type Config struct {
	// Backend is one of the Backend* constants. Empty selects memory.
	Backend string

	// Dir is the base directory for the file backend. Empty uses a
	// default under the user config directory.
	Dir string

	// Addr is the host:port of the Redis server for the redis backend.
	Addr string

	// URI is the connection string for the mongo backend.
	URI string

	// Database is the MongoDB database name. Empty uses "tanklab".
	Database string
}

// Open creates a store for the configured backend. The returned store emits
// observability events for every operation.
func Open(ctx context.Context, cfg Config) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.Backend {
	case "", BackendMemory:
		s = NewMemoryStore()
	case BackendFile:
		s, err = NewFileStore(cfg.Dir)
	case BackendRedis:
		s, err = NewRedisStore(ctx, cfg.Addr)
	case BackendMongo:
		s, err = NewMongoStore(ctx, cfg.URI, cfg.Database)
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown store backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	return instrumented{Store: s}, nil
}

// validID matches the design IDs the store accepts: UUIDs and other
// filesystem-safe names. Path separators and leading dots never match, so
// an ID can never resolve outside a file backend's base directory.
var validID = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

func checkID(id string) error {
	if !validID.MatchString(id) {
		return errors.New(errors.ErrCodeInvalidInput, "invalid design id %q", id)
	}
	return nil
}

// prepare validates a design for storage and assigns IDs and timestamps.
func prepare(d *vessel.Design) (string, error) {
	if d == nil {
		return "", errors.New(errors.ErrCodeInvalidInput, "design is nil")
	}
	if d.ID == "" {
		d.ID = uuid.NewString()
	} else if err := checkID(d.ID); err != nil {
		return "", err
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}
	return d.ID, nil
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeDesignNotFound, "design %s not found", id)
}
