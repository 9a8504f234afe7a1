package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type node struct {
	table    *Table
	values   map[string]any
	parents  []edge // persisted before this row, their key lands in ForeignKey
	children []edge // persisted after this row, carrying its key
	links    []edge // associated through a link table
	existing bool
}

type edge struct {
	rel   *Relation
	nodes []*node
}

type stagedGraph struct {
	root  *node
	saved bool
}

func (g *stagedGraph) Attach(relation string, keys ...any) error {
	t := g.root.table
	rel, ok := t.Relation(relation)
	if !ok {
		return schemaError(t.Name, "relation %s not found on %s", relation, t.Name)
	}

	switch {
	case rel.Link != nil:
		refs := make([]*node, 0, len(keys))
		for _, k := range keys {
			refs = append(refs, &node{table: rel.Target, values: map[string]any{rel.Target.Key: k}, existing: true})
		}
		g.root.links = append(g.root.links, edge{rel: rel, nodes: refs})
	case rel.Cardinality == One && !rel.Owned:
		if len(keys) != 1 {
			return schemaError(t.Name, "relation %s takes exactly one key", relation)
		}
		g.root.values[rel.ForeignKey] = keys[0]
	default:
		return schemaError(t.Name, "relation %s cannot attach existing rows", relation)
	}
	return nil
}

// materialize builds the in-memory graph for data. Keys that are neither a
// column nor a relation of t are ignored.
func materialize(t *Table, data ports.Record) (*node, error) {
	n := &node{table: t, values: make(map[string]any)}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		v := data[k]
		if t.HasColumn(k) {
			n.values[k] = v
			continue
		}
		rel, ok := t.Relation(k)
		if !ok {
			continue
		}

		related, err := materializeRelated(t, rel, v)
		if err != nil {
			return nil, err
		}
		if len(related) == 0 {
			continue
		}

		e := edge{rel: rel, nodes: related}
		switch {
		case rel.Link != nil:
			n.links = append(n.links, e)
		case rel.Owned:
			n.children = append(n.children, e)
		default:
			n.parents = append(n.parents, e)
		}
	}

	if t.KeyKind == KeyUUID && isZeroKey(n.values[t.Key]) {
		n.values[t.Key] = uuid.New()
	}
	return n, nil
}

func materializeRelated(t *Table, rel *Relation, v any) ([]*node, error) {
	var records []ports.Record
	switch x := v.(type) {
	case nil:
		return nil, nil
	case ports.Record:
		records = []ports.Record{x}
	case []ports.Record:
		if rel.Cardinality == One {
			return nil, schemaError(t.Name, "relation %s expects a single record", rel.Name)
		}
		records = x
	case []any:
		if rel.Cardinality == One {
			return nil, schemaError(t.Name, "relation %s expects a single record", rel.Name)
		}
		for _, item := range x {
			if item == nil {
				continue
			}
			r, ok := item.(ports.Record)
			if !ok {
				return nil, schemaError(t.Name, "relation %s holds %T, expected a record", rel.Name, item)
			}
			records = append(records, r)
		}
	default:
		return nil, schemaError(t.Name, "relation %s holds %T, expected a record", rel.Name, v)
	}

	nodes := make([]*node, 0, len(records))
	for _, r := range records {
		if r == nil {
			continue
		}
		child, err := materialize(rel.Target, r)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, child)
	}
	return nodes, nil
}

func isZeroKey(v any) bool {
	switch k := v.(type) {
	case nil:
		return true
	case uuid.UUID:
		return k == uuid.Nil
	case string:
		return k == ""
	}
	return false
}

// persist writes n and everything reachable from it, returning n's key.
func persist(ctx context.Context, q querier, n *node) (any, error) {
	if n.existing {
		return n.values[n.table.Key], nil
	}

	for _, e := range n.parents {
		for _, p := range e.nodes {
			key, err := persist(ctx, q, p)
			if err != nil {
				return nil, err
			}
			n.values[e.rel.ForeignKey] = key
		}
	}

	key, err := insertRow(ctx, q, n.table, n.values)
	if err != nil {
		return nil, err
	}

	for _, e := range n.children {
		for _, c := range e.nodes {
			c.values[e.rel.ForeignKey] = key
			if _, err := persist(ctx, q, c); err != nil {
				return nil, err
			}
		}
	}

	for _, e := range n.links {
		for _, c := range e.nodes {
			targetKey, err := persist(ctx, q, c)
			if err != nil {
				return nil, err
			}
			query := fmt.Sprintf("INSERT INTO %s (%s, %s) VALUES ($1, $2)", e.rel.Link.Name, e.rel.Link.SourceColumn, e.rel.Link.TargetColumn)
			if _, err := q.ExecContext(ctx, query, key, targetKey); err != nil {
				return nil, translate(e.rel.Link.Name, err)
			}
		}
	}

	return key, nil
}

func insertRow(ctx context.Context, q querier, t *Table, values map[string]any) (any, error) {
	cols := make([]string, 0, len(values))
	for c := range values {
		if c == t.Key && t.KeyKind == KeySerial && values[c] == nil {
			continue
		}
		cols = append(cols, c)
	}
	slices.Sort(cols)

	args := make([]any, len(cols))
	for i, c := range cols {
		args[i] = values[c]
	}

	query := fmt.Sprintf("INSERT INTO %s DEFAULT VALUES", t.Name)
	if len(cols) > 0 {
		query = fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", t.Name, strings.Join(cols, ", "), placeholders(1, len(cols)))
	}

	if t.KeyKind == KeySerial {
		var id int64
		if err := q.QueryRowContext(ctx, query+" RETURNING "+t.Key, args...).Scan(&id); err != nil {
			return nil, translate(t.Name, err)
		}
		values[t.Key] = id
		return id, nil
	}

	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return nil, translate(t.Name, err)
	}
	key, ok := values[t.Key]
	if !ok {
		return nil, &domain.EntityError{Kind: domain.ErrEngine, Entity: t.Name, Msg: "missing key " + t.Key}
	}
	return key, nil
}

// placeholders returns "$start, ..., $start+n-1".
func placeholders(start, n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "$%d", start+i)
	}
	return b.String()
}
