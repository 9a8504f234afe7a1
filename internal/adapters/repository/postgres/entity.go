package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

type scanner interface {
	Scan(dest ...any) error
}

// Entity implements the generic create/read/update/delete operations for one
// table. scan reads a row selected in table.Columns order; preload, when
// set, loads relations eagerly for a batch of rows.
type Entity[T any] struct {
	table   *Table
	scan    func(row scanner) (*T, error)
	preload func(ctx context.Context, q querier, items []*T) error
}

var _ ports.EntityStore[domain.Poll] = (*Entity[domain.Poll])(nil)

func (e *Entity[T]) Table() *Table {
	return e.table
}

func (e *Entity[T]) Create(ctx context.Context, s ports.Session, data ports.Record) (*T, error) {
	g, err := e.Stage(data)
	if err != nil {
		return nil, err
	}
	return e.Save(ctx, s, g)
}

// Stage materializes data without writing anything.
func (e *Entity[T]) Stage(data ports.Record) (ports.Graph, error) {
	root, err := materialize(e.table, data)
	if err != nil {
		return nil, err
	}
	return &stagedGraph{root: root}, nil
}

// Save writes a staged graph and commits once. On failure nothing from the
// graph is persisted.
func (e *Entity[T]) Save(ctx context.Context, s ports.Session, g ports.Graph) (*T, error) {
	sg, ok := g.(*stagedGraph)
	if !ok || sg.root.table != e.table {
		return nil, &domain.EntityError{Kind: domain.ErrEngine, Entity: e.table.Name, Msg: "graph was not staged for " + e.table.Name}
	}
	if sg.saved {
		return nil, &domain.EntityError{Kind: domain.ErrEngine, Entity: e.table.Name, Msg: "graph already saved"}
	}

	sess, q, err := e.begin(s)
	if err != nil {
		return nil, err
	}

	key, err := persist(ctx, q, sg.root)
	if err != nil {
		return nil, e.fail(sess, err)
	}
	if err := sess.Commit(); err != nil {
		return nil, translate(e.table.Name, err)
	}
	sg.saved = true

	return e.Read(ctx, s, key, ports.ByColumn(e.table.Key))
}

// Read returns nil without error when no row matches.
func (e *Entity[T]) Read(ctx context.Context, s ports.Session, id any, opts ...ports.ReadOption) (*T, error) {
	o := ports.NewReadOptions(opts...)
	if err := e.table.checkColumn(o.Column); err != nil {
		return nil, err
	}

	sess, q, err := e.begin(s)
	if err != nil {
		return nil, err
	}

	query := e.selectQuery() + " WHERE " + o.Column + " = $1"
	if o.ForUpdate {
		query += " FOR UPDATE"
	}

	item, err := e.scan(q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, e.fail(sess, err)
	}

	if err := e.load(ctx, q, []*T{item}); err != nil {
		return nil, e.fail(sess, err)
	}
	return item, nil
}

// ReadMany returns the rows whose lookup column is in ids, or every row when
// ids is empty, within the offset/limit window. The count is the number of
// rows returned.
func (e *Entity[T]) ReadMany(ctx context.Context, s ports.Session, ids []any, opts ...ports.ReadOption) ([]*T, int, error) {
	o := ports.NewReadOptions(opts...)
	if err := e.table.checkColumn(o.Column); err != nil {
		return nil, 0, err
	}

	sess, q, err := e.begin(s)
	if err != nil {
		return nil, 0, err
	}

	query := e.selectQuery()
	args := make([]any, 0, len(ids)+2)
	if len(ids) > 0 {
		query += fmt.Sprintf(" WHERE %s IN (%s)", o.Column, placeholders(1, len(ids)))
		args = append(args, ids...)
	}
	query += " ORDER BY " + e.table.Key
	if o.Limit > 0 {
		args = append(args, o.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if o.Offset > 0 {
		args = append(args, o.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}
	if o.ForUpdate {
		query += " FOR UPDATE"
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, e.fail(sess, err)
	}
	defer rows.Close()

	var items []*T
	for rows.Next() {
		item, err := e.scan(rows)
		if err != nil {
			return nil, 0, e.fail(sess, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, e.fail(sess, err)
	}
	rows.Close()

	if err := e.load(ctx, q, items); err != nil {
		return nil, 0, e.fail(sess, err)
	}
	return items, len(items), nil
}

// Update locks the target rows, applies only the fields present in patch and
// commits.
func (e *Entity[T]) Update(ctx context.Context, s ports.Session, id any, column string, patch ports.Record) (*T, error) {
	if column == "" {
		column = ports.DefaultLookupColumn
	}
	if err := e.table.checkColumn(column); err != nil {
		return nil, err
	}
	if err := e.table.checkPatch(patch); err != nil {
		return nil, err
	}

	sess, q, err := e.begin(s)
	if err != nil {
		return nil, err
	}

	var one int
	lock := fmt.Sprintf("SELECT 1 FROM %s WHERE %s = $1 FOR UPDATE", e.table.Name, column)
	if err := q.QueryRowContext(ctx, lock, id).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound(e.table.Name, column, id)
		}
		return nil, e.fail(sess, err)
	}

	if err := e.exec(ctx, q, patch, column, id); err != nil {
		return nil, e.fail(sess, err)
	}
	if err := sess.Commit(); err != nil {
		return nil, translate(e.table.Name, err)
	}

	if v, ok := patch[column]; ok {
		id = v
	}
	return e.Read(ctx, s, id, ports.ByColumn(column))
}

// UpdateMany applies partial updates keyed by lookup value in one
// transaction. Keys with no matching row are skipped.
func (e *Entity[T]) UpdateMany(ctx context.Context, s ports.Session, updates map[any]ports.Record, column string, returnEntities bool) ([]*T, error) {
	if column == "" {
		column = ports.DefaultLookupColumn
	}
	if err := e.table.checkColumn(column); err != nil {
		return nil, err
	}

	byKey := make(map[string]any, len(updates))
	ids := make([]any, 0, len(updates))
	for id, patch := range updates {
		if len(patch) == 0 {
			continue
		}
		if err := e.table.checkPatch(patch); err != nil {
			return nil, err
		}
		byKey[normalizeKey(id)] = id
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	sess, q, err := e.begin(s)
	if err != nil {
		return nil, err
	}

	lock := fmt.Sprintf("SELECT %s FROM %s WHERE %s IN (%s) FOR UPDATE", column, e.table.Name, column, placeholders(1, len(ids)))
	rows, err := q.QueryContext(ctx, lock, ids...)
	if err != nil {
		return nil, e.fail(sess, err)
	}
	found := make(map[string]struct{})
	for rows.Next() {
		var v any
		if err := rows.Scan(&v); err != nil {
			rows.Close()
			return nil, e.fail(sess, err)
		}
		found[normalizeKey(v)] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, e.fail(sess, err)
	}
	rows.Close()

	existing := make([]string, 0, len(found))
	for k := range found {
		if _, ok := byKey[k]; ok {
			existing = append(existing, k)
		}
	}
	slices.Sort(existing)

	updated := make([]any, 0, len(existing))
	for _, k := range existing {
		id := byKey[k]
		if err := e.exec(ctx, q, updates[id], column, id); err != nil {
			return nil, e.fail(sess, err)
		}
		updated = append(updated, id)
	}
	if err := sess.Commit(); err != nil {
		return nil, translate(e.table.Name, err)
	}

	if !returnEntities || len(updated) == 0 {
		return nil, nil
	}
	items, _, err := e.ReadMany(ctx, s, updated, ports.ByColumn(column))
	return items, err
}

// Delete returns the number of rows removed.
func (e *Entity[T]) Delete(ctx context.Context, s ports.Session, id any, column string) (int64, error) {
	return e.delete(ctx, s, []any{id}, column)
}

// DeleteMany refuses an empty id set so that an empty filter never empties
// the table.
func (e *Entity[T]) DeleteMany(ctx context.Context, s ports.Session, ids []any, column string) (int64, error) {
	if len(ids) == 0 {
		return 0, &domain.EntityError{Kind: domain.ErrEngine, Entity: e.table.Name, Msg: "No ids provided"}
	}
	return e.delete(ctx, s, ids, column)
}

func (e *Entity[T]) delete(ctx context.Context, s ports.Session, ids []any, column string) (int64, error) {
	if column == "" {
		column = ports.DefaultLookupColumn
	}
	if err := e.table.checkColumn(column); err != nil {
		return 0, err
	}

	sess, q, err := e.begin(s)
	if err != nil {
		return 0, err
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE %s IN (%s)", e.table.Name, column, placeholders(1, len(ids)))
	res, err := q.ExecContext(ctx, query, ids...)
	if err != nil {
		return 0, e.fail(sess, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, e.fail(sess, err)
	}
	if err := sess.Commit(); err != nil {
		return 0, translate(e.table.Name, err)
	}
	return n, nil
}

func (e *Entity[T]) exec(ctx context.Context, q querier, patch ports.Record, column string, id any) error {
	if len(patch) == 0 {
		return nil
	}
	cols := make([]string, 0, len(patch))
	for c := range patch {
		cols = append(cols, c)
	}
	slices.Sort(cols)

	sets := make([]string, len(cols))
	args := make([]any, 0, len(cols)+1)
	for i, c := range cols {
		sets[i] = fmt.Sprintf("%s = $%d", c, i+1)
		args = append(args, patch[c])
	}
	args = append(args, id)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d", e.table.Name, strings.Join(sets, ", "), column, len(args))
	_, err := q.ExecContext(ctx, query, args...)
	return err
}

func (e *Entity[T]) selectQuery() string {
	return fmt.Sprintf("SELECT %s FROM %s", strings.Join(e.table.Columns, ", "), e.table.Name)
}

func (e *Entity[T]) load(ctx context.Context, q querier, items []*T) error {
	if e.preload == nil || len(items) == 0 {
		return nil
	}
	return e.preload(ctx, q, items)
}

func (e *Entity[T]) begin(s ports.Session) (*Session, querier, error) {
	sess, err := asSession(s, e.table.Name)
	if err != nil {
		return nil, nil, err
	}
	tx, err := sess.conn()
	if err != nil {
		return nil, nil, translate(e.table.Name, err)
	}
	return sess, tx, nil
}

// fail discards the current unit of work, which the backend has aborted
// anyway, and translates err.
func (e *Entity[T]) fail(sess *Session, err error) error {
	if rbErr := sess.Rollback(); rbErr != nil {
		err = errors.Join(err, rbErr)
	}
	return translate(e.table.Name, err)
}

func normalizeKey(v any) string {
	switch k := v.(type) {
	case []byte:
		return string(k)
	case fmt.Stringer:
		return k.String()
	default:
		return fmt.Sprint(k)
	}
}
