package ports

import "context"

// Record is structured entity input. Scalar columns map to values;
// relation fields map to a nested Record or a []Record / []any of them.
type Record = map[string]any

// Session is a unit of work against the record store.
type Session interface {
	Commit() error
	Rollback() error
}

type SessionRunner interface {
	// WithSession runs fn with a fresh session. Work not committed by fn is
	// rolled back, and the session is always released.
	WithSession(ctx context.Context, fn func(s Session) error) error
}

// Graph is a materialized, not yet persisted, entity graph.
type Graph interface {
	// Attach links already persisted rows of the relation's target to the
	// root, by key.
	Attach(relation string, keys ...any) error
}

type EntityStore[T any] interface {
	Create(ctx context.Context, s Session, data Record) (*T, error)
	Stage(data Record) (Graph, error)
	Save(ctx context.Context, s Session, g Graph) (*T, error)
	Read(ctx context.Context, s Session, id any, opts ...ReadOption) (*T, error)
	ReadMany(ctx context.Context, s Session, ids []any, opts ...ReadOption) ([]*T, int, error)
	Update(ctx context.Context, s Session, id any, column string, patch Record) (*T, error)
	UpdateMany(ctx context.Context, s Session, updates map[any]Record, column string, returnEntities bool) ([]*T, error)
	Delete(ctx context.Context, s Session, id any, column string) (int64, error)
	DeleteMany(ctx context.Context, s Session, ids []any, column string) (int64, error)
}

const DefaultLookupColumn = "id"

type ReadOptions struct {
	Column    string
	ForUpdate bool
	Offset    int
	Limit     int // 0 means unbounded
}

type ReadOption func(*ReadOptions)

func ByColumn(column string) ReadOption {
	return func(o *ReadOptions) { o.Column = column }
}

// ForUpdate locks the fetched rows until the enclosing transaction ends.
func ForUpdate() ReadOption {
	return func(o *ReadOptions) { o.ForUpdate = true }
}

func Offset(n int) ReadOption {
	return func(o *ReadOptions) { o.Offset = n }
}

func Limit(n int) ReadOption {
	return func(o *ReadOptions) { o.Limit = n }
}

func NewReadOptions(opts ...ReadOption) ReadOptions {
	o := ReadOptions{Column: DefaultLookupColumn}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Column == "" {
		o.Column = DefaultLookupColumn
	}
	return o
}
