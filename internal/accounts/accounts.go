// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package accounts stores user credentials in SQLite.
//
// Usernames are e-mail addresses and unique. Passwords are kept only as
// salted Argon2id hashes. Registration is a single INSERT guarded by a
// UNIQUE constraint, so two concurrent registrations for the same username
// cannot both succeed.
package accounts

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/oklog/ulid/v2"
	"golang.org/x/crypto/argon2"

	"github.com/pdiddy/knowmap/pkg/types"
)

// Validation and lookup errors. Their messages are safe to show to clients.
var (
	ErrMissingCredentials = errors.New("Username and password are required")
	ErrInvalidEmail       = errors.New("Invalid email format")
	ErrPasswordSpaces     = errors.New("Password cannot contain spaces")
	ErrUserExists         = errors.New("User already exists")
	ErrInvalidCredentials = errors.New("Invalid username or password")
)

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// Argon2id parameters.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
	saltLen      = 16
)

// User is a stored account. The password hash never leaves the package.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store manages the accounts database.
type Store struct {
	db *sql.DB

	// dummy is compared against when a username is unknown so that a
	// missing user costs the same as a wrong password.
	dummy string
}

// NewStore opens or creates the accounts database at cfg.DBPath and
// creates the schema if it does not exist.
func NewStore(cfg types.AccountsConfig) (*Store, error) {
	if cfg.DBPath == "" {
		return nil, fmt.Errorf("accounts database path not configured")
	}
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating accounts directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.DBPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	s.dummy, err = hashPassword("dummy-password")
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE COLLATE NOCASE,
		password_hash TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`)
	return err
}

// Validate checks the shape of a username and password without touching
// the database.
func Validate(username, password string) error {
	if username == "" || password == "" {
		return ErrMissingCredentials
	}
	if !emailPattern.MatchString(username) {
		return ErrInvalidEmail
	}
	if strings.ContainsFunc(password, isSpace) {
		return ErrPasswordSpaces
	}
	return nil
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f', 0x85, 0xA0:
		return true
	}
	return false
}

// Register creates an account. It returns ErrUserExists when the username
// is taken, regardless of letter case.
func (s *Store) Register(ctx context.Context, username, password string) (User, error) {
	username = strings.TrimSpace(username)
	if err := Validate(username, password); err != nil {
		return User{}, err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return User{}, err
	}

	now := time.Now().UTC()
	u := User{ID: ulid.Make().String(), Username: username, CreatedAt: now}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		u.ID, u.Username, hash, now.Format(time.RFC3339Nano))
	if err != nil {
		var se sqlite3.Error
		if errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintUnique {
			return User{}, ErrUserExists
		}
		return User{}, fmt.Errorf("inserting user: %w", err)
	}
	return u, nil
}

// Authenticate returns the account matching username and password, or
// ErrInvalidCredentials.
func (s *Store) Authenticate(ctx context.Context, username, password string) (User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return User{}, ErrMissingCredentials
	}

	var (
		u       User
		hash    string
		created string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at FROM users WHERE username = ?`, username,
	).Scan(&u.ID, &u.Username, &hash, &created)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		checkPassword(s.dummy, password)
		return User{}, ErrInvalidCredentials
	case err != nil:
		return User{}, fmt.Errorf("looking up user: %w", err)
	}

	ok, err := checkPassword(hash, password)
	if err != nil {
		return User{}, fmt.Errorf("checking password for %s: %w", u.ID, err)
	}
	if !ok {
		return User{}, ErrInvalidCredentials
	}
	u.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	return u, nil
}

// hashPassword encodes a salted Argon2id hash in the PHC string format.
func hashPassword(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	key := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argonMemory, argonTime, argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key)), nil
}

// checkPassword reports whether password matches an encoded hash.
func checkPassword(encoded, password string) (bool, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false, fmt.Errorf("unsupported hash format")
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false, fmt.Errorf("unsupported argon2 version %q", parts[2])
	}

	var (
		memory     uint32
		iterations uint32
		threads    uint8
	)
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &threads); err != nil {
		return false, fmt.Errorf("parse hash parameters: %w", err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, fmt.Errorf("decode salt: %w", err)
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, fmt.Errorf("decode hash: %w", err)
	}

	got := argon2.IDKey([]byte(password), salt, iterations, memory, threads, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}
