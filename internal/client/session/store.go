package session

import (
	"context"
	"database/sql"
	"errors"

	"github.com/pharmtrack/pharmtrack/internal/client/repositories/metadata"
	"github.com/pharmtrack/pharmtrack/internal/common"
	"github.com/pharmtrack/pharmtrack/internal/dbx"
)

const (
	keyToken    = "session_token"
	keyRole     = "session_role"
	keyUsername = "session_username"
)

// KVStore keeps the session in the local metadata table. Writes run in a
// single transaction so the three keys stay consistent.
type KVStore struct {
	db *sql.DB
}

func NewKVStore(db *sql.DB) *KVStore {
	return &KVStore{db: db}
}

func (s *KVStore) Get(ctx context.Context) (Session, error) {
	repo := metadata.NewSQLiteRepository(s.db)

	token, err := getOrEmpty(ctx, repo, keyToken)
	if err != nil {
		return Session{}, err
	}
	role, err := getOrEmpty(ctx, repo, keyRole)
	if err != nil {
		return Session{}, err
	}
	username, err := getOrEmpty(ctx, repo, keyUsername)
	if err != nil {
		return Session{}, err
	}

	sess := Session{Token: token, Role: Role(role), Username: username}
	if !sess.Valid() {
		// partial state is treated as absent
		return Session{}, nil
	}
	return sess, nil
}

func (s *KVStore) Set(ctx context.Context, sess Session) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, keyToken, []byte(sess.Token)); err != nil {
			return err
		}
		if err := repo.Set(ctx, keyRole, []byte(sess.Role)); err != nil {
			return err
		}
		return repo.Set(ctx, keyUsername, []byte(sess.Username))
	})
}

func (s *KVStore) Clear(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		for _, key := range []string{keyToken, keyRole, keyUsername} {
			if err := repo.Delete(ctx, key); err != nil {
				return err
			}
		}
		return nil
	})
}

func getOrEmpty(ctx context.Context, repo metadata.Repository, key string) (string, error) {
	v, err := repo.Get(ctx, key)
	if errors.Is(err, common.ErrorNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(v), nil
}

// MemStore is an in-memory Store for tests.
type MemStore struct {
	sess Session
}

func NewMemStore() *MemStore { return &MemStore{} }

func (s *MemStore) Get(ctx context.Context) (Session, error) { return s.sess, nil }

func (s *MemStore) Set(ctx context.Context, sess Session) error {
	s.sess = sess
	return nil
}

func (s *MemStore) Clear(ctx context.Context) error {
	s.sess = Session{}
	return nil
}
