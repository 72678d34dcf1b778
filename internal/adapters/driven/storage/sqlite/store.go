// Package sqlite implements the IndexStore port on SQLite.
//
// Every index build writes into its own database file; the previous
// file keeps serving reads until the indexer swaps the new store in.
// Substring search runs against precomputed lowercase search_text
// columns, with per-entity FTS5 trigram mirrors as a candidate
// pre-filter for terms of three characters or more.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/docdex/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/docdex/internal/core/domain"
	"github.com/custodia-labs/docdex/internal/core/ports/driven"
)

// Ensure the interfaces are implemented.
var (
	_ driven.IndexStore   = (*Store)(nil)
	_ driven.StoreFactory = (*Factory)(nil)
)

// Factory creates a fresh store file per index build.
type Factory struct {
	dataDir string
}

// NewFactory creates a store factory rooted at the given data directory.
// If dataDir is empty, defaults to ~/.docdex/data.
func NewFactory(dataDir string) (*Factory, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".docdex", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Factory{dataDir: dataDir}, nil
}

// Create opens a new empty store with the schema applied. The file name
// carries a nanosecond timestamp so successive builds never collide.
func (f *Factory) Create() (driven.IndexStore, error) {
	path := filepath.Join(f.dataDir, fmt.Sprintf("index-%d.db", time.Now().UnixNano()))
	return Open(path)
}

// Store is a SQLite-backed documentation index.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if necessary) a store at the given file path and
// applies pending migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{db: db, path: path}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Destroy closes the store and removes its backing files.
func (s *Store) Destroy() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("closing database: %w", err)
	}
	for _, suffix := range []string{"", "-wal", "-shm"} {
		if err := os.Remove(s.path + suffix); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing database file: %w", err)
		}
	}
	return nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}
		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Writes ====================

// SaveChunk stores one doc chunk.
func (s *Store) SaveChunk(ctx context.Context, chunk *domain.DocChunk) error {
	if chunk.ID == "" || chunk.Title == "" {
		return domain.ErrInvalidInput
	}

	searchText := strings.ToLower(chunk.Title + " " + chunk.Content)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO doc_chunks
			(id, title, content, heading_level, package, category, source_url, file_path, search_text)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, chunk.ID, chunk.Title, chunk.Content, chunk.HeadingLevel, chunk.Package,
		string(chunk.Category), chunk.SourceURL, chunk.FilePath, searchText)

	if err != nil {
		return fmt.Errorf("saving chunk: %w", err)
	}
	return nil
}

// SaveDeclaration stores a declaration and its members in one transaction.
func (s *Store) SaveDeclaration(ctx context.Context, decl *domain.Declaration) error {
	if decl.ID == "" || decl.Name == "" {
		return domain.ErrInvalidInput
	}

	implementsJSON, err := marshalStrings(decl.Implements)
	if err != nil {
		return fmt.Errorf("marshalling implements: %w", err)
	}
	decoratorsJSON, err := marshalStrings(decl.Decorators)
	if err != nil {
		return fmt.Errorf("marshalling decorators: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	searchText := strings.ToLower(decl.Name + " " + decl.Description)

	_, err = tx.ExecContext(ctx, `
		INSERT INTO declarations
			(id, name, package, kind, description, extends, implements, decorators,
			 file_path, source_url, search_text)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, decl.ID, decl.Name, decl.Package, string(decl.Kind), decl.Description,
		decl.Extends, implementsJSON, decoratorsJSON, decl.FilePath, decl.SourceURL, searchText)
	if err != nil {
		return fmt.Errorf("saving declaration: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO members
			(id, declaration_id, name, kind, signature, visibility, is_static, is_async,
			 description, params, returns, decorators, example, search_text)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing member statement: %w", err)
	}
	defer stmt.Close()

	for i := range decl.Members {
		m := &decl.Members[i]

		paramsJSON, err := json.Marshal(emptyIfNilParams(m.Params))
		if err != nil {
			return fmt.Errorf("marshalling params: %w", err)
		}
		memberDecorators, err := marshalStrings(m.Decorators)
		if err != nil {
			return fmt.Errorf("marshalling member decorators: %w", err)
		}
		var returnsJSON sql.NullString
		if m.Returns != nil {
			data, err := json.Marshal(m.Returns)
			if err != nil {
				return fmt.Errorf("marshalling returns: %w", err)
			}
			returnsJSON = sql.NullString{String: string(data), Valid: true}
		}

		memberSearch := strings.ToLower(m.Name + " " + m.Signature + " " + m.Description)

		if _, err := stmt.ExecContext(ctx, m.ID, decl.ID, m.Name, string(m.Kind),
			m.Signature, string(m.Visibility), boolToInt(m.Static), boolToInt(m.Async),
			m.Description, string(paramsJSON), returnsJSON, memberDecorators,
			m.Example, memberSearch); err != nil {
			return fmt.Errorf("saving member %s: %w", m.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// RebuildSearchIndex recreates the FTS mirrors from the entity tables.
func (s *Store) RebuildSearchIndex(ctx context.Context) error {
	for _, table := range []string{"doc_chunks", "declarations", "members"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table+"_fts"); err != nil {
			return fmt.Errorf("clearing %s_fts: %w", table, err)
		}
		if _, err := s.db.ExecContext(ctx,
			"INSERT INTO "+table+"_fts (search_text, id) SELECT search_text, id FROM "+table); err != nil {
			return fmt.Errorf("rebuilding %s_fts: %w", table, err)
		}
	}
	return nil
}

// ==================== Reads ====================

// SearchChunks returns chunks whose search text contains every term.
func (s *Store) SearchChunks(ctx context.Context, terms []string, pkg string) ([]domain.DocChunk, error) {
	where, args := searchClause("doc_chunks", terms, pkg)
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, content, heading_level, package, category, source_url, file_path
		FROM doc_chunks `+where, args...)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.DocChunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		var c domain.DocChunk
		var category string
		if err := rows.Scan(&c.ID, &c.Title, &c.Content, &c.HeadingLevel,
			&c.Package, &category, &c.SourceURL, &c.FilePath); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		c.Category = domain.Category(category)
		chunks = append(chunks, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}
	return chunks, nil
}

// SearchDeclarations returns declarations (without members) whose search
// text contains every term.
func (s *Store) SearchDeclarations(ctx context.Context, terms []string, pkg string) ([]domain.Declaration, error) {
	where, args := searchClause("declarations", terms, pkg)
	rows, err := s.db.QueryContext(ctx, declarationColumns+" FROM declarations "+where, args...)
	if err != nil {
		return nil, fmt.Errorf("querying declarations: %w", err)
	}
	defer rows.Close()

	return scanDeclarations(rows)
}

// SearchMembers returns members whose search text contains every term,
// paired with their owning declaration.
func (s *Store) SearchMembers(ctx context.Context, terms []string, pkg string) ([]domain.MemberMatch, error) {
	where, args := searchClause("m", terms, "")
	if pkg != "" && pkg != domain.FilterAll {
		if where == "" {
			where = "WHERE d.package = ?"
		} else {
			where += " AND d.package = ?"
		}
		args = append(args, pkg)
	}

	rows, err := s.db.QueryContext(ctx, memberColumns+`
		FROM members m
		JOIN declarations d ON d.id = m.declaration_id
		`+where, args...)
	if err != nil {
		return nil, fmt.Errorf("querying members: %w", err)
	}
	defer rows.Close()

	return scanMemberMatches(rows)
}

// GetDeclaration retrieves a declaration by exact name with its members.
func (s *Store) GetDeclaration(ctx context.Context, name, pkg string) (*domain.Declaration, error) {
	query := declarationColumns + " FROM declarations WHERE name = ?"
	args := []any{name}
	if pkg != "" && pkg != domain.FilterAll {
		query += " AND package = ?"
		args = append(args, pkg)
	}
	query += " ORDER BY package, name LIMIT 1"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying declaration: %w", err)
	}
	defer rows.Close()

	decls, err := scanDeclarations(rows)
	if err != nil {
		return nil, err
	}
	if len(decls) == 0 {
		return nil, domain.ErrNotFound
	}
	decl := decls[0]

	members, err := s.declarationMembers(ctx, decl.ID)
	if err != nil {
		return nil, err
	}
	decl.Members = members

	return &decl, nil
}

// FindMembers returns members matching memberName, optionally requiring
// the owning declaration's name and package to match.
func (s *Store) FindMembers(ctx context.Context, declName, memberName, pkg string) ([]domain.MemberMatch, error) {
	query := memberColumns + `
		FROM members m
		JOIN declarations d ON d.id = m.declaration_id
		WHERE m.name = ?`
	args := []any{memberName}

	if declName != "" {
		query += " AND d.name = ?"
		args = append(args, declName)
	}
	if pkg != "" && pkg != domain.FilterAll {
		query += " AND d.package = ?"
		args = append(args, pkg)
	}
	query += " ORDER BY d.package, d.name, m.name"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying members: %w", err)
	}
	defer rows.Close()

	return scanMemberMatches(rows)
}

// ListDeclarations returns declarations matching the package and kind
// filters, ordered by package, then kind, then name.
func (s *Store) ListDeclarations(ctx context.Context, pkg, kind string) ([]domain.Declaration, error) {
	query := declarationColumns + " FROM declarations"
	var (
		conds []string
		args  []any
	)
	if pkg != "" && pkg != domain.FilterAll {
		conds = append(conds, "package = ?")
		args = append(args, pkg)
	}
	if kind != "" && kind != domain.FilterAll {
		conds = append(conds, "kind = ?")
		args = append(args, kind)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY package, kind, name"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying declarations: %w", err)
	}
	defer rows.Close()

	return scanDeclarations(rows)
}

// declarationMembers loads the members of one declaration in insertion
// order.
func (s *Store) declarationMembers(ctx context.Context, declarationID string) ([]domain.Member, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, declaration_id, name, kind, signature, visibility, is_static, is_async,
		       description, params, returns, decorators, example
		FROM members WHERE declaration_id = ?
		ORDER BY rowid
	`, declarationID)
	if err != nil {
		return nil, fmt.Errorf("querying members: %w", err)
	}
	defer rows.Close()

	var members []domain.Member //nolint:prealloc // size unknown from query
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating members: %w", err)
	}
	return members, nil
}

// ==================== Query Helpers ====================

// searchClause builds a WHERE clause requiring every term as a substring
// of search_text, with an FTS trigram pre-filter when every term is long
// enough for trigram matching. table may be an alias.
func searchClause(table string, terms []string, pkg string) (string, []any) {
	var (
		conds []string
		args  []any
	)

	ftsTable, useFTS := ftsFor(table), len(terms) > 0
	for _, term := range terms {
		if len(term) < 3 {
			useFTS = false
		}
	}
	if useFTS && ftsTable != "" {
		quoted := make([]string, len(terms))
		for i, term := range terms {
			quoted[i] = `"` + strings.ReplaceAll(term, `"`, `""`) + `"`
		}
		conds = append(conds, table+".id IN (SELECT id FROM "+ftsTable+" WHERE "+ftsTable+" MATCH ?)")
		args = append(args, strings.Join(quoted, " AND "))
	}

	for _, term := range terms {
		conds = append(conds, table+`.search_text LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(term)+"%")
	}

	if pkg != "" && pkg != domain.FilterAll {
		conds = append(conds, table+".package = ?")
		args = append(args, pkg)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

// ftsFor maps a table (or alias) to its FTS mirror.
func ftsFor(table string) string {
	switch table {
	case "doc_chunks":
		return "doc_chunks_fts"
	case "declarations":
		return "declarations_fts"
	case "m", "members":
		return "members_fts"
	default:
		return ""
	}
}

// escapeLike escapes LIKE wildcards in a search term.
func escapeLike(term string) string {
	term = strings.ReplaceAll(term, `\`, `\\`)
	term = strings.ReplaceAll(term, `%`, `\%`)
	term = strings.ReplaceAll(term, `_`, `\_`)
	return term
}

const declarationColumns = `SELECT id, name, package, kind, description, extends,
	implements, decorators, file_path, source_url`

const memberColumns = `SELECT m.id, m.declaration_id, m.name, m.kind, m.signature,
	m.visibility, m.is_static, m.is_async, m.description, m.params, m.returns,
	m.decorators, m.example, d.name, d.package, d.source_url`

// scanDeclarations scans declaration rows without members.
func scanDeclarations(rows *sql.Rows) ([]domain.Declaration, error) {
	var decls []domain.Declaration //nolint:prealloc // size unknown from query
	for rows.Next() {
		var (
			d                            domain.Declaration
			kind, implements, decorators string
		)
		if err := rows.Scan(&d.ID, &d.Name, &d.Package, &kind, &d.Description,
			&d.Extends, &implements, &decorators, &d.FilePath, &d.SourceURL); err != nil {
			return nil, fmt.Errorf("scanning declaration: %w", err)
		}
		d.Kind = domain.DeclarationKind(kind)
		if err := json.Unmarshal([]byte(implements), &d.Implements); err != nil {
			return nil, fmt.Errorf("unmarshalling implements: %w", err)
		}
		if err := json.Unmarshal([]byte(decorators), &d.Decorators); err != nil {
			return nil, fmt.Errorf("unmarshalling decorators: %w", err)
		}
		decls = append(decls, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating declarations: %w", err)
	}
	return decls, nil
}

// scanMember scans one member row (without declaration columns).
func scanMember(rows *sql.Rows) (*domain.Member, error) {
	var (
		m                          domain.Member
		kind, visibility           string
		isStatic, isAsync          int
		paramsJSON, decoratorsJSON string
		returnsJSON                sql.NullString
	)
	if err := rows.Scan(&m.ID, &m.DeclarationID, &m.Name, &kind, &m.Signature,
		&visibility, &isStatic, &isAsync, &m.Description, &paramsJSON,
		&returnsJSON, &decoratorsJSON, &m.Example); err != nil {
		return nil, fmt.Errorf("scanning member: %w", err)
	}
	if err := fillMember(&m, kind, visibility, isStatic, isAsync, paramsJSON, decoratorsJSON, returnsJSON); err != nil {
		return nil, err
	}
	return &m, nil
}

// scanMemberMatches scans member rows joined with their declaration.
func scanMemberMatches(rows *sql.Rows) ([]domain.MemberMatch, error) {
	var matches []domain.MemberMatch //nolint:prealloc // size unknown from query
	for rows.Next() {
		var (
			match                      domain.MemberMatch
			kind, visibility           string
			isStatic, isAsync          int
			paramsJSON, decoratorsJSON string
			returnsJSON                sql.NullString
		)
		m := &match.Member
		if err := rows.Scan(&m.ID, &m.DeclarationID, &m.Name, &kind, &m.Signature,
			&visibility, &isStatic, &isAsync, &m.Description, &paramsJSON,
			&returnsJSON, &decoratorsJSON, &m.Example,
			&match.DeclarationName, &match.Package, &match.SourceURL); err != nil {
			return nil, fmt.Errorf("scanning member match: %w", err)
		}
		if err := fillMember(m, kind, visibility, isStatic, isAsync, paramsJSON, decoratorsJSON, returnsJSON); err != nil {
			return nil, err
		}
		matches = append(matches, match)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating member matches: %w", err)
	}
	return matches, nil
}

// fillMember decodes the serialised member columns.
func fillMember(m *domain.Member, kind, visibility string, isStatic, isAsync int,
	paramsJSON, decoratorsJSON string, returnsJSON sql.NullString) error {
	m.Kind = domain.MemberKind(kind)
	m.Visibility = domain.Visibility(visibility)
	m.Static = isStatic != 0
	m.Async = isAsync != 0
	if err := json.Unmarshal([]byte(paramsJSON), &m.Params); err != nil {
		return fmt.Errorf("unmarshalling params: %w", err)
	}
	if err := json.Unmarshal([]byte(decoratorsJSON), &m.Decorators); err != nil {
		return fmt.Errorf("unmarshalling decorators: %w", err)
	}
	if returnsJSON.Valid && returnsJSON.String != "null" {
		var ret domain.Returns
		if err := json.Unmarshal([]byte(returnsJSON.String), &ret); err != nil {
			return fmt.Errorf("unmarshalling returns: %w", err)
		}
		m.Returns = &ret
	}
	return nil
}

// marshalStrings serialises a string slice, mapping nil to an empty
// JSON array so round-trips stay stable.
func marshalStrings(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func emptyIfNilParams(params []domain.Param) []domain.Param {
	if params == nil {
		return []domain.Param{}
	}
	return params
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
