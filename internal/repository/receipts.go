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

type ReceiptRepository interface {
	Create(ctx context.Context, rec *entity.Receipt) (*entity.Receipt, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Receipt, error)
	ListByUser(ctx context.Context, userID uuid.UUID, fromDate, toDate string) ([]*entity.Receipt, error)
	Update(ctx context.Context, rec *entity.Receipt) (*entity.Receipt, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type receiptRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewReceiptRepository(db *sql.DB, logger *slog.Logger) ReceiptRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &receiptRepository{db: db, logger: logger}
}

const receiptColumns = `id, user_id, file_name, file_url, tx_date, merchant, category, amount, description, ocr_text, created_at, updated_at`

// validateReceipt rejects rows that would violate the record contract
// before they reach the database.
func validateReceipt(rec *entity.Receipt) error {
	if rec.UserID == uuid.Nil {
		return common.NewAppError("VALIDATION_ERROR", "user_id is required", common.ErrValidation)
	}
	v := common.NewValidator()
	v.Field("tx_date", rec.TxDate, common.Required, common.Date).
		Field("merchant", rec.Merchant, common.Required, common.MaxLength(50)).
		Field("category", rec.Category, common.Required, knownCategory).
		Field("amount", rec.Amount, nonNegative)
	return v.Error()
}

func knownCategory(fieldName string, value any) *common.ValidationError {
	s, _ := value.(string)
	if !constants.IsValid(s) {
		return &common.ValidationError{Field: fieldName, Value: value, Message: "must be a known category"}
	}
	return nil
}

func nonNegative(fieldName string, value any) *common.ValidationError {
	f, _ := value.(float64)
	if f < 0 {
		return &common.ValidationError{Field: fieldName, Value: value, Message: "must not be negative"}
	}
	return nil
}

func (r *receiptRepository) Create(ctx context.Context, rec *entity.Receipt) (*entity.Receipt, error) {
	if err := validateReceipt(rec); err != nil {
		return nil, err
	}
	out := *rec
	if out.ID == uuid.Nil {
		out.ID = uuid.New()
	}
	now := time.Now().UTC()
	out.CreatedAt = now
	out.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO receipts (`+receiptColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		out.ID.String(), out.UserID.String(), out.FileName, out.FileURL, out.TxDate,
		out.Merchant, out.Category, out.Amount, out.Description, out.OCRText,
		fmtTime(out.CreatedAt), fmtTime(out.UpdatedAt))
	if err != nil {
		r.logger.Error("failed to create receipt", "user_id", out.UserID, "error", err)
		return nil, common.NewAppError("DB_ERROR", "create receipt", err)
	}
	return &out, nil
}

func (r *receiptRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+receiptColumns+` FROM receipts WHERE id = $1`, id.String())
	rec, err := scanReceipt(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		r.logger.Error("failed to get receipt", "receipt_id", id, "error", err)
		return nil, common.NewAppError("DB_ERROR", "get receipt", err)
	}
	return rec, nil
}

// ListByUser returns a user's receipts ordered by transaction date. Empty
// fromDate/toDate mean an open-ended range; both are YYYY-MM-DD, which
// compares correctly as text.
func (r *receiptRepository) ListByUser(ctx context.Context, userID uuid.UUID, fromDate, toDate string) ([]*entity.Receipt, error) {
	query := `SELECT ` + receiptColumns + ` FROM receipts WHERE user_id = $1`
	args := []any{userID.String()}
	if fromDate != "" {
		args = append(args, fromDate)
		query += ` AND tx_date >= $2`
	}
	if toDate != "" {
		args = append(args, toDate)
		if fromDate != "" {
			query += ` AND tx_date <= $3`
		} else {
			query += ` AND tx_date <= $2`
		}
	}
	query += ` ORDER BY tx_date, created_at`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to list receipts", "user_id", userID, "error", err)
		return nil, common.NewAppError("DB_ERROR", "list receipts", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			r.logger.Warn("failed to close rows", "error", err)
		}
	}()

	var out []*entity.Receipt
	for rows.Next() {
		rec, err := scanReceipt(rows)
		if err != nil {
			return nil, common.NewAppError("DB_ERROR", "scan receipt", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewAppError("DB_ERROR", "list receipts", err)
	}
	return out, nil
}

func (r *receiptRepository) Update(ctx context.Context, rec *entity.Receipt) (*entity.Receipt, error) {
	if err := validateReceipt(rec); err != nil {
		return nil, err
	}
	out := *rec
	out.UpdatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx,
		`UPDATE receipts
		 SET file_name = $1, file_url = $2, tx_date = $3, merchant = $4, category = $5,
		     amount = $6, description = $7, ocr_text = $8, updated_at = $9
		 WHERE id = $10`,
		out.FileName, out.FileURL, out.TxDate, out.Merchant, out.Category,
		out.Amount, out.Description, out.OCRText, fmtTime(out.UpdatedAt), out.ID.String())
	if err != nil {
		r.logger.Error("failed to update receipt", "receipt_id", out.ID, "error", err)
		return nil, common.NewAppError("DB_ERROR", "update receipt", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, common.ErrNotFound
	}
	return &out, nil
}

func (r *receiptRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM receipts WHERE id = $1`, id.String())
	if err != nil {
		r.logger.Error("failed to delete receipt", "receipt_id", id, "error", err)
		return common.NewAppError("DB_ERROR", "delete receipt", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReceipt(row rowScanner) (*entity.Receipt, error) {
	var rec entity.Receipt
	var id, userID, createdAt, updatedAt string
	err := row.Scan(&id, &userID, &rec.FileName, &rec.FileURL, &rec.TxDate,
		&rec.Merchant, &rec.Category, &rec.Amount, &rec.Description, &rec.OCRText,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	rec.ID = uuid.MustParse(id)
	rec.UserID = uuid.MustParse(userID)
	rec.CreatedAt = parseTime(createdAt)
	rec.UpdatedAt = parseTime(updatedAt)
	return &rec, nil
}
