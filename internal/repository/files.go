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

type ReceiptFileRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.ReceiptFile, error)
	GetByUserAndHash(ctx context.Context, userID uuid.UUID, hashHex string) (*entity.ReceiptFile, error)
	// UpsertByHash registers a file, deduplicating on (user, content hash).
	// The bool reports whether a new row was created.
	UpsertByHash(ctx context.Context, userID uuid.UUID, sourcePath, ext string, size int64, hashHex string, uploadedAt time.Time) (*entity.ReceiptFile, bool, error)
}

type receiptFileRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewReceiptFileRepository(db *sql.DB, logger *slog.Logger) ReceiptFileRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &receiptFileRepository{db: db, logger: logger}
}

const fileColumns = `id, user_id, source_path, content_hash, file_ext, file_size, uploaded_at`

func (r *receiptFileRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.ReceiptFile, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+fileColumns+` FROM receipt_files WHERE id = $1`, id.String())
	f, err := scanFile(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		r.logger.Error("failed to get receipt file", "file_id", id, "error", err)
		return nil, common.NewAppError("DB_ERROR", "get receipt file", err)
	}
	return f, nil
}

func (r *receiptFileRepository) GetByUserAndHash(ctx context.Context, userID uuid.UUID, hashHex string) (*entity.ReceiptFile, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+fileColumns+` FROM receipt_files WHERE user_id = $1 AND content_hash = $2`,
		userID.String(), hashHex)
	f, err := scanFile(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		r.logger.Error("failed to get receipt file by hash", "user_id", userID, "error", err)
		return nil, common.NewAppError("DB_ERROR", "get receipt file by hash", err)
	}
	return f, nil
}

func (r *receiptFileRepository) UpsertByHash(ctx context.Context, userID uuid.UUID, sourcePath, ext string, size int64, hashHex string, uploadedAt time.Time) (*entity.ReceiptFile, bool, error) {
	existing, err := r.GetByUserAndHash(ctx, userID, hashHex)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, false, err
	}

	f := &entity.ReceiptFile{
		ID:          uuid.New(),
		UserID:      userID,
		SourcePath:  sourcePath,
		ContentHash: hashHex,
		FileExt:     ext,
		FileSize:    size,
		UploadedAt:  uploadedAt.UTC(),
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO receipt_files (`+fileColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		f.ID.String(), f.UserID.String(), f.SourcePath, f.ContentHash, f.FileExt, f.FileSize,
		fmtTime(f.UploadedAt))
	if err != nil {
		if existing, gerr := r.GetByUserAndHash(ctx, userID, hashHex); gerr == nil {
			return existing, false, nil
		}
		r.logger.Error("failed to create receipt file", "user_id", userID, "source_path", sourcePath, "error", err)
		return nil, false, common.NewAppError("DB_ERROR", "create receipt file", err)
	}
	return f, true, nil
}

func scanFile(row rowScanner) (*entity.ReceiptFile, error) {
	var f entity.ReceiptFile
	var id, userID, uploadedAt string
	err := row.Scan(&id, &userID, &f.SourcePath, &f.ContentHash, &f.FileExt, &f.FileSize, &uploadedAt)
	if err != nil {
		return nil, err
	}
	f.ID = uuid.MustParse(id)
	f.UserID = uuid.MustParse(userID)
	f.UploadedAt = parseTime(uploadedAt)
	return &f, nil
}
