// Amora - Matchmaking Platform Go Client
// Copyright 2026 Amora Contributors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/amora-app/amora-go

// Package localstore is the durable client-side key/value store backed by
// BadgerDB. It plays the role browser local storage plays for the web client:
// a non-authoritative cache of the signed-in identity, the bearer token, and
// in-progress form drafts, all cleared together on logout.
package localstore

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/amora-app/amora-go/internal/models"
)

// Storage keys. Drafts share a prefix so Clear can sweep them without
// enumerating kinds.
const (
	userKey        = "session:user"
	tokenKey       = "session:token"
	draftKeyPrefix = "draft:"
)

// Draft kinds persisted across restarts.
const (
	DraftSignup = "signup"
	DraftLogin  = "login"
)

// ErrNotFound indicates the requested key has never been written or was
// cleared by logout.
var ErrNotFound = errors.New("localstore: key not found")

// Store is a Badger-backed local store. Safe for concurrent use.
type Store struct {
	db *badger.DB
}

// Open opens (creating if needed) the state database under dir.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open state db: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveUser caches the authenticated identity. The server remains the source
// of truth; this copy only survives restarts so the UI can render before the
// session check completes.
func (s *Store) SaveUser(user *models.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(userKey), data)
	})
}

// User returns the cached identity, or ErrNotFound.
func (s *Store) User() (*models.User, error) {
	var user models.User
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(userKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get user: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &user)
		})
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes only the cached identity. Used when a login attempt
// fails and the stale identity must not survive.
func (s *Store) DeleteUser() error {
	return s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte(userKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
}

// SaveToken caches the bearer token some endpoints require alongside the
// session cookie.
func (s *Store) SaveToken(token string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(tokenKey), []byte(token))
	})
}

// Token returns the cached bearer token, or ErrNotFound.
func (s *Store) Token() (string, error) {
	var token string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(tokenKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get token: %w", err)
		}
		return item.Value(func(val []byte) error {
			token = string(val)
			return nil
		})
	})
	if err != nil {
		return "", err
	}
	return token, nil
}

// SaveDraft persists an in-progress form payload under the given kind.
func (s *Store) SaveDraft(kind string, payload []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(draftKeyPrefix+kind), payload)
	})
}

// Draft returns a previously saved form payload, or ErrNotFound.
func (s *Store) Draft(kind string) ([]byte, error) {
	var payload []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(draftKeyPrefix + kind))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get draft: %w", err)
		}
		payload, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return payload, nil
}

// Clear removes every stored key in one transaction. Logout relies on this
// being all-or-nothing: identity, token, and drafts disappear together.
func (s *Store) Clear() error {
	return s.db.Update(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{PrefetchValues: false})
		defer it.Close()

		var keys [][]byte
		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		for _, key := range keys {
			if err := txn.Delete(key); err != nil {
				return fmt.Errorf("delete %s: %w", key, err)
			}
		}
		return nil
	})
}
