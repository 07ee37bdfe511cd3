package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/nihongo/internal/client/storage"
)

// SaveSession stores the session under the user, token and userRoles keys
func (s *Storage) SaveSession(ctx context.Context, sess *storage.SessionData) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	// Сериализуем заранее, чтобы не держать транзакцию
	user, err := json.Marshal(sess.User)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}
	roles := sess.Roles
	if roles == nil {
		roles = []string{}
	}
	rolesJSON, err := json.Marshal(roles)
	if err != nil {
		return fmt.Errorf("failed to marshal roles: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSession)
		if bucket == nil {
			return fmt.Errorf("session bucket not found")
		}

		if err := bucket.Put([]byte(storage.KeyUser), user); err != nil {
			return fmt.Errorf("failed to save user: %w", err)
		}
		if err := bucket.Put([]byte(storage.KeyToken), []byte(sess.Token)); err != nil {
			return fmt.Errorf("failed to save token: %w", err)
		}
		if err := bucket.Put([]byte(storage.KeyRoles), rolesJSON); err != nil {
			return fmt.Errorf("failed to save roles: %w", err)
		}
		return nil
	})
}

// LoadSession retrieves the stored session
func (s *Storage) LoadSession(ctx context.Context) (*storage.SessionData, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var sess *storage.SessionData
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSession)
		if bucket == nil {
			return fmt.Errorf("session bucket not found")
		}

		// Без токена сессии нет, остальное не читаем
		token := bucket.Get([]byte(storage.KeyToken))
		if len(token) == 0 {
			return storage.ErrSessionNotFound
		}
		sess = &storage.SessionData{Token: string(token)}

		if data := bucket.Get([]byte(storage.KeyUser)); data != nil {
			if err := json.Unmarshal(data, &sess.User); err != nil {
				return fmt.Errorf("failed to unmarshal user: %w", err)
			}
		}
		if data := bucket.Get([]byte(storage.KeyRoles)); data != nil {
			if err := json.Unmarshal(data, &sess.Roles); err != nil {
				return fmt.Errorf("failed to unmarshal roles: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return sess, nil
}

// DeleteSession removes all session keys (logout)
func (s *Storage) DeleteSession(ctx context.Context) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSession)
		if bucket == nil {
			return fmt.Errorf("session bucket not found")
		}

		for _, key := range []string{storage.KeyUser, storage.KeyToken, storage.KeyRoles} {
			if err := bucket.Delete([]byte(key)); err != nil {
				return fmt.Errorf("failed to delete %s: %w", key, err)
			}
		}
		return nil
	})
}
