package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/receiptiq/receiptiq/internal/common"
	"github.com/receiptiq/receiptiq/internal/entity"
)

type UserRepository interface {
	GetByExternalUID(ctx context.Context, externalUID string) (*entity.User, error)
	GetOrCreateByExternalUID(ctx context.Context, externalUID string) (*entity.User, error)
}

type userRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewUserRepository(db *sql.DB, logger *slog.Logger) UserRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &userRepository{db: db, logger: logger}
}

func (r *userRepository) GetByExternalUID(ctx context.Context, externalUID string) (*entity.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, external_uid, created_at FROM users WHERE external_uid = $1`, externalUID)

	var u entity.User
	var id, createdAt string
	if err := row.Scan(&id, &u.ExternalUID, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		r.logger.Error("failed to get user", "external_uid", externalUID, "error", err)
		return nil, common.NewAppError("DB_ERROR", "get user", err)
	}
	u.ID = uuid.MustParse(id)
	u.CreatedAt = parseTime(createdAt)
	return &u, nil
}

func (r *userRepository) GetOrCreateByExternalUID(ctx context.Context, externalUID string) (*entity.User, error) {
	if externalUID == "" {
		return nil, common.NewAppError("VALIDATION_ERROR", "external uid is required", common.ErrInvalidInput)
	}

	u, err := r.GetByExternalUID(ctx, externalUID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	u = &entity.User{
		ID:          uuid.New(),
		ExternalUID: externalUID,
		CreatedAt:   time.Now().UTC(),
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO users (id, external_uid, created_at) VALUES ($1, $2, $3)`,
		u.ID.String(), u.ExternalUID, fmtTime(u.CreatedAt))
	if err != nil {
		// A concurrent insert may have won the unique race; read it back.
		if existing, gerr := r.GetByExternalUID(ctx, externalUID); gerr == nil {
			return existing, nil
		}
		r.logger.Error("failed to create user", "external_uid", externalUID, "error", err)
		return nil, common.NewAppError("DB_ERROR", "create user", err)
	}

	r.logger.Info("user created", "user_id", u.ID, "external_uid", externalUID)
	return u, nil
}
