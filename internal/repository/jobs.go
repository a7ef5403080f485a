package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/receiptiq/receiptiq/constants"
	"github.com/receiptiq/receiptiq/internal/common"
	"github.com/receiptiq/receiptiq/internal/entity"
)

type ExtractJobRepository interface {
	// Start records a RUNNING job for the file.
	Start(ctx context.Context, fileID uuid.UUID, format string) (*entity.ExtractJob, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.ExtractJob, error)
	// MarkOCROK stores the extracted text after stage 1.
	MarkOCROK(ctx context.Context, id uuid.UUID, ocrText string) error
	// FinishParse closes the job as PARSE_OK, linking the stored receipt.
	FinishParse(ctx context.Context, id, receiptID uuid.UUID, needsReview bool) error
	Fail(ctx context.Context, id uuid.UUID, errorMessage string) error
}

type extractJobRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewExtractJobRepository(db *sql.DB, logger *slog.Logger) ExtractJobRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &extractJobRepository{db: db, logger: logger}
}

const jobColumns = `id, file_id, receipt_id, format, status, ocr_text, error_message, needs_review, started_at, finished_at`

func (r *extractJobRepository) Start(ctx context.Context, fileID uuid.UUID, format string) (*entity.ExtractJob, error) {
	job := &entity.ExtractJob{
		ID:        uuid.New(),
		FileID:    fileID,
		Format:    format,
		Status:    string(constants.JobStatusRunning),
		StartedAt: time.Now().UTC(),
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO extract_jobs (id, file_id, format, status, started_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		job.ID.String(), job.FileID.String(), job.Format, job.Status, fmtTime(job.StartedAt))
	if err != nil {
		r.logger.Error("failed to start extract job", "file_id", fileID, "error", err)
		return nil, common.NewAppError("DB_ERROR", "start extract job", err)
	}
	return job, nil
}

func (r *extractJobRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.ExtractJob, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+jobColumns+` FROM extract_jobs WHERE id = $1`, id.String())

	var job entity.ExtractJob
	var jobID, fileID, startedAt string
	var receiptID, finishedAt sql.NullString
	err := row.Scan(&jobID, &fileID, &receiptID, &job.Format, &job.Status,
		&job.OCRText, &job.ErrorMessage, &job.NeedsReview, &startedAt, &finishedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		r.logger.Error("failed to get extract job", "job_id", id, "error", err)
		return nil, common.NewAppError("DB_ERROR", "get extract job", err)
	}
	job.ID = uuid.MustParse(jobID)
	job.FileID = uuid.MustParse(fileID)
	if receiptID.Valid {
		rid := uuid.MustParse(receiptID.String)
		job.ReceiptID = &rid
	}
	job.StartedAt = parseTime(startedAt)
	job.FinishedAt = parseTimePtr(finishedAt)
	return &job, nil
}

func (r *extractJobRepository) MarkOCROK(ctx context.Context, id uuid.UUID, ocrText string) error {
	return r.update(ctx, id,
		`UPDATE extract_jobs SET status = $1, ocr_text = $2 WHERE id = $3`,
		string(constants.JobStatusOCROK), ocrText, id.String())
}

func (r *extractJobRepository) FinishParse(ctx context.Context, id, receiptID uuid.UUID, needsReview bool) error {
	return r.update(ctx, id,
		`UPDATE extract_jobs SET status = $1, receipt_id = $2, needs_review = $3, finished_at = $4 WHERE id = $5`,
		string(constants.JobStatusParseOK), receiptID.String(), needsReview,
		fmtTime(time.Now().UTC()), id.String())
}

func (r *extractJobRepository) Fail(ctx context.Context, id uuid.UUID, errorMessage string) error {
	return r.update(ctx, id,
		`UPDATE extract_jobs SET status = $1, error_message = $2, finished_at = $3 WHERE id = $4`,
		string(constants.JobStatusFailed), errorMessage, fmtTime(time.Now().UTC()), id.String())
}

func (r *extractJobRepository) update(ctx context.Context, id uuid.UUID, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to update extract job", "job_id", id, "error", err)
		return common.NewAppError("DB_ERROR", "update extract job", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}
