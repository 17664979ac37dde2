// Package store provides the SQLite persistence layer for interviewd:
// users, meetings, user-meeting associations, and the interview question bank.
package store

import (
	"database/sql"
	"errors"

	"github.com/meetkit/interviewd/dbopen"
	"github.com/meetkit/interviewd/idgen"
)

// ErrConflict is returned when a unique resource already exists
// (duplicate user, duplicate user-meeting pair). Handlers map it to 409.
var ErrConflict = errors.New("store: resource already exists")

// Store is the interviewd database handle.
type Store struct {
	DB *sql.DB

	// newRoomCode generates the unique room URL slug for new meetings.
	newRoomCode idgen.Generator
}

// Open opens (or creates) the interviewd SQLite database at path and
// applies the schema.
func Open(path string, opts ...dbopen.Option) (*Store, error) {
	allOpts := append([]dbopen.Option{
		dbopen.WithMkdirAll(),
		dbopen.WithSchema(Schema),
	}, opts...)

	db, err := dbopen.Open(path, allOpts...)
	if err != nil {
		return nil, err
	}
	return New(db), nil
}

// New wraps an already-open database handle.
func New(db *sql.DB) *Store {
	return &Store{
		DB:          db,
		newRoomCode: idgen.Prefixed("room-", idgen.NanoID(10)),
	}
}

// Close closes the database.
func (s *Store) Close() error {
	return s.DB.Close()
}
