package postgres

import (
	"slices"
)

type KeyKind int

const (
	KeySupplied KeyKind = iota // provided by the caller
	KeySerial                  // assigned by the backend
	KeyUUID                    // generated when the graph is staged
)

type Cardinality int

const (
	One Cardinality = iota
	Many
)

// LinkTable is a pure association between two tables.
type LinkTable struct {
	Name         string
	SourceColumn string
	TargetColumn string
}

// Relation describes a relationship field of a table.
//
// Owned relations point at children carrying ForeignKey back to this row.
// Non-owned One relations store ForeignKey on this row. Link relations go
// through an association table.
type Relation struct {
	Name        string
	Target      *Table
	Cardinality Cardinality
	Owned       bool
	ForeignKey  string
	Link        *LinkTable
}

type Table struct {
	Name      string
	Key       string
	KeyKind   KeyKind
	Columns   []string
	Relations []*Relation
}

func (t *Table) HasColumn(column string) bool {
	return slices.Contains(t.Columns, column)
}

func (t *Table) Relation(name string) (*Relation, bool) {
	for _, r := range t.Relations {
		if r.Name == name {
			return r, true
		}
	}
	return nil, false
}

func (t *Table) checkColumn(column string) error {
	if !t.HasColumn(column) {
		return schemaError(t.Name, "column %s not found on %s", column, t.Name)
	}
	return nil
}

func (t *Table) checkPatch(patch map[string]any) error {
	for k := range patch {
		if err := t.checkColumn(k); err != nil {
			return err
		}
	}
	return nil
}

var (
	usersTable = &Table{
		Name:    "users",
		Key:     "id",
		KeyKind: KeySupplied,
		Columns: []string{"id", "is_superuser", "active"},
	}
	pollsTable = &Table{
		Name:    "polls",
		Key:     "id",
		KeyKind: KeySerial,
		Columns: []string{"id", "title", "description", "multiple_choice", "anonymous", "created_at", "expires_at", "author_id"},
	}
	optionsTable = &Table{
		Name:    "options",
		Key:     "id",
		KeyKind: KeyUUID,
		Columns: []string{"id", "poll_id", "title"},
	}
	votesTable = &Table{
		Name:    "votes",
		Key:     "id",
		KeyKind: KeyUUID,
		Columns: []string{"id", "voter_id", "poll_id", "created_at"},
	}
	voteOptionLinksTable = &Table{
		Name:    "vote_option_links",
		Key:     "vote_id",
		KeyKind: KeySupplied,
		Columns: []string{"vote_id", "option_id"},
	}
	refreshTokensTable = &Table{
		Name:    "refresh_tokens",
		Key:     "id",
		KeyKind: KeyUUID,
		Columns: []string{"id", "user_id", "token_hash", "expires_at", "revoked", "created_at"},
	}
)

var voteOptionLink = &LinkTable{Name: "vote_option_links", SourceColumn: "vote_id", TargetColumn: "option_id"}

func init() {
	usersTable.Relations = []*Relation{
		{Name: "polls", Target: pollsTable, Cardinality: Many, Owned: true, ForeignKey: "author_id"},
		{Name: "votes", Target: votesTable, Cardinality: Many, Owned: true, ForeignKey: "voter_id"},
	}
	pollsTable.Relations = []*Relation{
		{Name: "author", Target: usersTable, Cardinality: One, ForeignKey: "author_id"},
		{Name: "options", Target: optionsTable, Cardinality: Many, Owned: true, ForeignKey: "poll_id"},
		{Name: "votes", Target: votesTable, Cardinality: Many, Owned: true, ForeignKey: "poll_id"},
	}
	optionsTable.Relations = []*Relation{
		{Name: "poll", Target: pollsTable, Cardinality: One, ForeignKey: "poll_id"},
		{Name: "votes", Target: votesTable, Cardinality: Many, Link: &LinkTable{Name: voteOptionLink.Name, SourceColumn: "option_id", TargetColumn: "vote_id"}},
	}
	votesTable.Relations = []*Relation{
		{Name: "voter", Target: usersTable, Cardinality: One, ForeignKey: "voter_id"},
		{Name: "poll", Target: pollsTable, Cardinality: One, ForeignKey: "poll_id"},
		{Name: "selected_options", Target: optionsTable, Cardinality: Many, Link: voteOptionLink},
	}
	voteOptionLinksTable.Relations = []*Relation{
		{Name: "vote", Target: votesTable, Cardinality: One, ForeignKey: "vote_id"},
		{Name: "option", Target: optionsTable, Cardinality: One, ForeignKey: "option_id"},
	}
	refreshTokensTable.Relations = []*Relation{
		{Name: "user", Target: usersTable, Cardinality: One, ForeignKey: "user_id"},
	}
}
