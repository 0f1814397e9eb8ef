package indexer

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	_ "modernc.org/sqlite"
)

// Store owns the on-disk index directory exclusively: a single sqlite
// database holding documents and committed user metadata. Readers are
// opened lazily and refreshed on Commit, matching the teacher's
// cxxxr-searty database package's sqlx-over-sqlite storage style, adapted
// here from a token/posting schema to flat symbol documents because the
// query logic (fuzzy/prefix/scored) runs in Go, not SQL.
type Store struct {
	dir string
	db  *sqlx.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	name            TEXT PRIMARY KEY,
	local_name      TEXT NOT NULL,
	doc_type        TEXT NOT NULL,
	declared_as     TEXT NOT NULL,
	owner           TEXT,
	file            TEXT,
	offset          INTEGER,
	tags            TEXT NOT NULL,
	local_name_tags TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_documents_doc_type ON documents(doc_type);
`

const metadataFile = "metadata.json"

// Open creates or opens the sqlite-backed index directory.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.WithStack(err)
	}
	db, err := sqlx.Connect("sqlite", filepath.Join(dir, "index.sqlite"))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, errors.WithStack(err)
	}
	return &Store{dir: dir, db: db}, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Reset tears down the on-disk directory entirely and recreates an empty
// database, used when Initialize decides a rebuild is required.
func (s *Store) Reset() error {
	if err := s.Close(); err != nil {
		return err
	}
	if err := os.RemoveAll(s.dir); err != nil {
		return errors.WithStack(err)
	}
	fresh, err := Open(s.dir)
	if err != nil {
		return err
	}
	*s = *fresh
	return nil
}

// Insert upserts a document by its unique `name` term.
func (s *Store) Insert(r SymbolResult) error {
	doc := NewIndexDocument(r)
	var file *string
	var offset *int
	if doc.Pos != nil {
		file = &doc.Pos.File
		offset = &doc.Pos.Offset
	}
	var owner *string
	if doc.Owner != "" {
		owner = &doc.Owner
	}
	_, err := s.db.Exec(`
		INSERT INTO documents (name, local_name, doc_type, declared_as, owner, file, offset, tags, local_name_tags)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			local_name = excluded.local_name,
			doc_type = excluded.doc_type,
			declared_as = excluded.declared_as,
			owner = excluded.owner,
			file = excluded.file,
			offset = excluded.offset,
			tags = excluded.tags,
			local_name_tags = excluded.local_name_tags
	`, doc.Name, doc.LocalName, string(doc.DocType), string(doc.DeclaredAs), owner, file, offset, doc.Tags, doc.LocalNameTags)
	return errors.WithStack(err)
}

// Remove deletes a document by its exact `name`.
func (s *Store) Remove(name string) error {
	_, err := s.db.Exec(`DELETE FROM documents WHERE name = ?`, name)
	return errors.WithStack(err)
}

type documentRow struct {
	Name          string  `db:"name"`
	LocalName     string  `db:"local_name"`
	DocType       string  `db:"doc_type"`
	DeclaredAs    string  `db:"declared_as"`
	Owner         *string `db:"owner"`
	File          *string `db:"file"`
	Offset        *int    `db:"offset"`
	Tags          string  `db:"tags"`
	LocalNameTags string  `db:"local_name_tags"`
}

func (row documentRow) toDocument() IndexDocument {
	r := SymbolResult{
		Name:       row.Name,
		LocalName:  row.LocalName,
		DeclaredAs: DeclaredAs(row.DeclaredAs),
	}
	if row.Owner != nil {
		r.Owner = *row.Owner
	}
	if row.File != nil && row.Offset != nil {
		r.Pos = &Position{File: *row.File, Offset: *row.Offset}
	}
	return IndexDocument{
		SymbolResult:  r,
		DocType:       DocType(row.DocType),
		Tags:          row.Tags,
		LocalNameTags: row.LocalNameTags,
	}
}

// All returns every document, optionally restricted to types only. Matching
// happens in Go (see query.go) because fuzzy/prefix scoring does not map
// cleanly onto a single SQL predicate.
func (s *Store) All(typesOnly bool) ([]IndexDocument, error) {
	q := `SELECT name, local_name, doc_type, declared_as, owner, file, offset, tags, local_name_tags FROM documents`
	if typesOnly {
		q += ` WHERE doc_type = 'type'`
	}
	var rows []documentRow
	if err := s.db.Select(&rows, q); err != nil {
		return nil, errors.WithStack(err)
	}
	docs := make([]IndexDocument, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, row.toDocument())
	}
	return docs, nil
}

// LoadMetadata reads the committed {indexVersion, fileHashes} pair, or a
// zero-value metadata if none was ever committed.
func (s *Store) LoadMetadata() (UserMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, metadataFile))
	if os.IsNotExist(err) {
		return UserMetadata{FileHashes: map[string]string{}}, nil
	}
	if err != nil {
		return UserMetadata{}, errors.WithStack(err)
	}
	var meta UserMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return UserMetadata{}, errors.WithStack(err)
	}
	if meta.FileHashes == nil {
		meta.FileHashes = map[string]string{}
	}
	return meta, nil
}

// CommitMetadata atomically commits {indexVersion, fileHashes} alongside
// the document writes: write to a temp file and rename over the target.
func (s *Store) CommitMetadata(meta UserMetadata) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return errors.WithStack(err)
	}
	target := filepath.Join(s.dir, metadataFile)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(os.Rename(tmp, target))
}
