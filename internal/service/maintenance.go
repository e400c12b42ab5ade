package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/jask/showcase/internal/database"
)

// MaintenanceService holds the destructive store operations exposed by the CLI.
type MaintenanceService struct {
	DB  *sql.DB
	Log *zap.Logger
}

// ResetResult counts the rows a Reset removed.
type ResetResult struct {
	Keys      int64
	Revisions int64
}

// Reset deletes every stored key and all history in one transaction, then
// reclaims the space. The schema stays, so a running server keeps working and
// readers see the default document again.
func (s *MaintenanceService) Reset(ctx context.Context) (ResetResult, error) {
	if s.DB == nil {
		return ResetResult{}, errors.New("maintenance: db not configured")
	}
	var res ResetResult
	err := database.WithTx(s.DB, func(tx *sql.Tx) error {
		var err error
		if res.Revisions, err = deleteAll(ctx, tx, "kv_history"); err != nil {
			return err
		}
		res.Keys, err = deleteAll(ctx, tx, "kv")
		return err
	})
	if err != nil {
		return ResetResult{}, err
	}
	if _, err := s.DB.ExecContext(ctx, "VACUUM"); err != nil && s.Log != nil {
		s.Log.Warn("vacuum after reset", zap.Error(err))
	}
	if s.Log != nil {
		s.Log.Info("store reset", zap.Int64("keys", res.Keys), zap.Int64("revisions", res.Revisions))
	}
	return res, nil
}

func deleteAll(ctx context.Context, tx *sql.Tx, table string) (int64, error) {
	r, err := tx.ExecContext(ctx, "DELETE FROM "+table)
	if err != nil {
		return 0, fmt.Errorf("reset %s: %w", table, err)
	}
	return r.RowsAffected()
}
