package database

import (
	"context"
	"errors"

	"github.com/jask/showcase/internal/database/repository"
)

// SeedDefaults stores value under key for new databases.
// It is idempotent and safe to run on every startup.
func SeedDefaults(ctx context.Context, kv *repository.KVRepo, key string, value []byte) (bool, error) {
	_, err := kv.Get(ctx, key)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return false, err
	}
	if _, err := kv.Put(ctx, key, value); err != nil {
		return false, err
	}
	return true, nil
}
