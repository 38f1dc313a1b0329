package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/C0oki3s/scribdt/internal/model"
)

// ErrDatabaseNotFound is returned when a database must already exist but does not.
var ErrDatabaseNotFound = errors.New("database not found")

// Store provides SQLite-backed persistence for users and documents.
type Store struct {
	db     *sql.DB
	dbPath string
}

// Options configures Store behavior.
type Options struct {
	// CreateIfNotExists creates the file and its directory when missing.
	// Lookups (the r command) set this to false so a typo in --db is an
	// error rather than a fresh empty database.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// ReadOnlyOptions returns options for opening an existing database for lookups.
func ReadOnlyOptions() Options {
	return Options{}
}

// Open opens or creates the database file at path.
func Open(path string, opts Options) (*Store, error) {
	var dsn string
	if opts.CreateIfNotExists {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		dsn = path + "?mode=rwc&_pragma=busy_timeout(5000)"
	} else {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrDatabaseNotFound, path)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
		dsn = path + "?mode=rw&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection: the sink consumer is the only writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{db: db, dbPath: path}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := s.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER,
		username TEXT,
		img_url TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_users_username ON users(username);

	CREATE TABLE IF NOT EXISTS documents (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		document_id TEXT,
		reader_url TEXT,
		author_name TEXT,
		title TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_documents_author ON documents(author_name);
	`

	_, err := s.db.ExecContext(context.Background(), schema)
	return err
}

// migrate adds columns missing from tables created by older versions.
// Databases from the first release have a documents table without document_id.
func (s *Store) migrate() error {
	cols, err := s.columns("documents")
	if err != nil {
		return err
	}
	if _, ok := cols["document_id"]; !ok {
		if _, err := s.db.ExecContext(context.Background(), `ALTER TABLE documents ADD COLUMN document_id TEXT`); err != nil {
			return fmt.Errorf("failed to add documents.document_id: %w", err)
		}
	}
	return nil
}

// columns returns the column names of table.
func (s *Store) columns(table string) (map[string]struct{}, error) {
	rows, err := s.db.QueryContext(context.Background(), `SELECT name FROM pragma_table_info(?)`, table)
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", table, err)
	}
	defer rows.Close()

	cols := make(map[string]struct{})
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan column name: %w", err)
		}
		cols[name] = struct{}{}
	}
	return cols, rows.Err()
}

// InsertUser stores one user in its own statement.
func (s *Store) InsertUser(ctx context.Context, u model.UserRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (user_id, username, img_url) VALUES (?, ?, ?)`,
		u.UserID, u.Username, u.ImgURL,
	)
	if err != nil {
		return fmt.Errorf("failed to insert user %d: %w", u.UserID, err)
	}
	return nil
}

// InsertDocument stores one document in its own statement.
func (s *Store) InsertDocument(ctx context.Context, d model.DocumentRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (document_id, reader_url, author_name, title) VALUES (?, ?, ?, ?)`,
		d.DocumentID, d.ReaderURL, d.AuthorName, d.Title,
	)
	if err != nil {
		return fmt.Errorf("failed to insert document %s: %w", d.DocumentID, err)
	}
	return nil
}

// likePattern builds a substring LIKE pattern with wildcards in term escaped.
func likePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(term) + "%"
}

// SearchUsers returns users whose username contains term, ordered by id.
// Matching is case-insensitive for ASCII, as with SQLite's LIKE.
func (s *Store) SearchUsers(ctx context.Context, term string) ([]model.StoredUser, error) {
	return s.queryUsers(ctx,
		`SELECT id, user_id, username, img_url FROM users WHERE username LIKE ? ESCAPE '\' ORDER BY id`,
		likePattern(term),
	)
}

// ListUsers returns every stored user ordered by id.
func (s *Store) ListUsers(ctx context.Context) ([]model.StoredUser, error) {
	return s.queryUsers(ctx, `SELECT id, user_id, username, img_url FROM users ORDER BY id`)
}

// CountUsers returns the number of stored users.
func (s *Store) CountUsers(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

func (s *Store) queryUsers(ctx context.Context, query string, args ...any) ([]model.StoredUser, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []model.StoredUser
	for rows.Next() {
		var (
			u        model.StoredUser
			username sql.NullString
			imgURL   sql.NullString
		)
		if err := rows.Scan(&u.ID, &u.UserID, &username, &imgURL); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		u.Username = username.String
		u.ImgURL = imgURL.String
		users = append(users, u)
	}
	return users, rows.Err()
}

// SearchDocuments returns documents whose author name contains term.
func (s *Store) SearchDocuments(ctx context.Context, term string) ([]model.StoredDocument, error) {
	return s.queryDocuments(ctx,
		`SELECT id, COALESCE(document_id, ''), reader_url, author_name, title FROM documents WHERE author_name LIKE ? ESCAPE '\' ORDER BY id`,
		likePattern(term),
	)
}

// ListDocuments returns every stored document ordered by id.
func (s *Store) ListDocuments(ctx context.Context) ([]model.StoredDocument, error) {
	return s.queryDocuments(ctx, `SELECT id, COALESCE(document_id, ''), reader_url, author_name, title FROM documents ORDER BY id`)
}

func (s *Store) queryDocuments(ctx context.Context, query string, args ...any) ([]model.StoredDocument, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	var docs []model.StoredDocument
	for rows.Next() {
		var (
			d                                      model.StoredDocument
			docID, readerURL, authorName, titleCol sql.NullString
		)
		if err := rows.Scan(&d.ID, &docID, &readerURL, &authorName, &titleCol); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		d.DocumentID = docID.String
		d.ReaderURL = readerURL.String
		d.AuthorName = authorName.String
		d.Title = titleCol.String
		docs = append(docs, d)
	}
	return docs, rows.Err()
}
