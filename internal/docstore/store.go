package docstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/alexanderramin/feather/internal/db"
	"github.com/google/uuid"
)

// Store is a document database backed by the documents table.
type Store struct {
	conn   db.DBTX
	uow    db.UnitOfWork
	logger *slog.Logger
	now    func() time.Time

	mu       sync.Mutex
	watchers map[*watcher]struct{}
	closed   bool
}

// Option customizes Store construction.
type Option func(*Store)

// WithLogger injects a logger for subscription diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithUnitOfWork overrides the transaction runner used by batches.
func WithUnitOfWork(uow db.UnitOfWork) Option {
	return func(s *Store) {
		if uow != nil {
			s.uow = uow
		}
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a Store over an opened and migrated database.
func New(database *sql.DB, opts ...Option) *Store {
	s := &Store{
		conn:     database,
		uow:      db.NewSQLiteUnitOfWork(database),
		logger:   slog.New(slog.DiscardHandler),
		now:      func() time.Time { return time.Now().UTC() },
		watchers: map[*watcher]struct{}{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close stops every live subscription. Writes remain possible.
func (s *Store) Close() {
	s.mu.Lock()
	ws := make([]*watcher, 0, len(s.watchers))
	for w := range s.watchers {
		ws = append(ws, w)
	}
	s.watchers = map[*watcher]struct{}{}
	s.closed = true
	s.mu.Unlock()
	for _, w := range ws {
		w.stop()
	}
}

// Collection returns a reference to the collection at path.
func (s *Store) Collection(path string) CollectionRef {
	return CollectionRef{store: s, path: strings.Trim(path, "/")}
}

// Doc returns a reference to the document at a full path.
func (s *Store) Doc(path string) (DocRef, error) {
	collection, id, err := SplitPath(path)
	if err != nil {
		return DocRef{}, err
	}
	return DocRef{store: s, Collection: collection, ID: id}, nil
}

// Batch starts a new atomic write batch.
func (s *Store) Batch() *WriteBatch {
	return &WriteBatch{store: s}
}

// CollectionRef addresses a collection.
type CollectionRef struct {
	store *Store
	path  string
}

// Path returns the collection path.
func (c CollectionRef) Path() string { return c.path }

// Doc returns a reference to the document with the given id.
func (c CollectionRef) Doc(id string) DocRef {
	return DocRef{store: c.store, Collection: c.path, ID: id}
}

// NewDoc returns a reference to a not-yet-written document with a fresh id.
func (c CollectionRef) NewDoc() DocRef {
	return c.Doc(uuid.New().String())
}

// Add writes data as a new document and returns its reference.
func (c CollectionRef) Add(ctx context.Context, data Data) (DocRef, error) {
	ref := c.NewDoc()
	if err := c.store.Batch().Set(ref, data).Commit(ctx); err != nil {
		return DocRef{}, err
	}
	return ref, nil
}

// Query returns an unfiltered query over the collection.
func (c CollectionRef) Query() Query {
	return Query{store: c.store, collection: c.path}
}

// Where starts a filtered query over the collection.
func (c CollectionRef) Where(field, op string, value any) Query {
	return c.Query().Where(field, op, value)
}

// DocRef addresses a single document.
type DocRef struct {
	store      *Store
	Collection string
	ID         string
}

// Path returns the full document path.
func (r DocRef) Path() string { return r.Collection + "/" + r.ID }

// Get reads the document. Missing documents yield an error wrapping ErrNotFound.
func (r DocRef) Get(ctx context.Context) (Doc, error) {
	return getDoc(ctx, r.store.conn, r.Collection, r.ID)
}

// Set writes the document, replacing it unless Merge is given.
func (r DocRef) Set(ctx context.Context, data Data, opts ...SetOption) error {
	return r.store.Batch().Set(r, data, opts...).Commit(ctx)
}

// Update changes top-level fields of an existing document.
func (r DocRef) Update(ctx context.Context, fields Data) error {
	return r.store.Batch().Update(r, fields).Commit(ctx)
}

// Delete removes the document. Deleting a missing document is not an error.
func (r DocRef) Delete(ctx context.Context) error {
	return r.store.Batch().Delete(r).Commit(ctx)
}

const docColumns = `id, data, version, created_at, updated_at`

func getDoc(ctx context.Context, conn db.DBTX, collection, id string) (Doc, error) {
	row := conn.QueryRowContext(ctx,
		`SELECT `+docColumns+` FROM documents WHERE collection = ? AND id = ?`, collection, id)
	d, err := scanDoc(collection, row)
	if errors.Is(err, sql.ErrNoRows) {
		return Doc{}, fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	return d, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDoc(collection string, row scanner) (Doc, error) {
	var d Doc
	var raw, createdAt, updatedAt string
	if err := row.Scan(&d.ID, &raw, &d.Version, &createdAt, &updatedAt); err != nil {
		return Doc{}, err
	}
	d.Collection = collection
	data, err := decodeData(raw)
	if err != nil {
		return Doc{}, fmt.Errorf("%s/%s: %w", collection, d.ID, err)
	}
	d.Data = data
	d.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	d.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	return d, nil
}

// Filter is a single comparison on a top-level field.
type Filter struct {
	Field string
	Op    string
	Value any
}

var (
	fieldPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	sqlOps       = map[string]string{
		"==": "=", "!=": "!=", "<": "<", "<=": "<=", ">": ">", ">=": ">=",
	}
)

func (f Filter) validate() error {
	if !fieldPattern.MatchString(f.Field) {
		return fmt.Errorf("invalid filter field %q", f.Field)
	}
	if _, ok := sqlOps[f.Op]; !ok {
		return fmt.Errorf("invalid filter operator %q", f.Op)
	}
	return nil
}

// Query selects documents of one collection.
type Query struct {
	store      *Store
	collection string
	filters    []Filter
}

// Collection returns the queried collection path.
func (q Query) Collection() string { return q.collection }

// Where returns a copy of the query with another filter appended.
func (q Query) Where(field, op string, value any) Query {
	filters := make([]Filter, len(q.filters), len(q.filters)+1)
	copy(filters, q.filters)
	q.filters = append(filters, Filter{Field: field, Op: op, Value: value})
	return q
}

// Get runs the query once.
func (q Query) Get(ctx context.Context) ([]Doc, error) {
	return q.run(ctx, q.store.conn)
}

func (q Query) run(ctx context.Context, conn db.DBTX) ([]Doc, error) {
	var b strings.Builder
	b.WriteString(`SELECT ` + docColumns + ` FROM documents WHERE collection = ?`)
	args := []any{q.collection}
	for _, f := range q.filters {
		if err := f.validate(); err != nil {
			return nil, err
		}
		b.WriteString(` AND json_extract(data, ?) ` + sqlOps[f.Op] + ` ?`)
		args = append(args, "$."+f.Field, f.Value)
	}

	rows, err := conn.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", q.collection, err)
	}
	defer rows.Close()

	var docs []Doc
	for rows.Next() {
		d, err := scanDoc(q.collection, rows)
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", q.collection, err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s: %w", q.collection, err)
	}
	return docs, nil
}
