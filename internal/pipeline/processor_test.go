package pipeline

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/receiptiq/receiptiq/constants"
	"github.com/receiptiq/receiptiq/internal/common"
	"github.com/receiptiq/receiptiq/internal/entity"
	"github.com/receiptiq/receiptiq/internal/ocr"
	"github.com/receiptiq/receiptiq/internal/parser"
	"github.com/receiptiq/receiptiq/internal/repository"
)

type fakeExtractor struct {
	res ocr.ExtractionResult
	err error
}

func (f *fakeExtractor) Extract(ctx context.Context, path string) (ocr.ExtractionResult, error) {
	return f.res, f.err
}

type pipelineEnv struct {
	db       *sql.DB
	files    repository.ReceiptFileRepository
	jobs     repository.ExtractJobRepository
	receipts repository.ReceiptRepository
	user     *entity.User
}

func newPipelineEnv(t *testing.T) *pipelineEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db, err := repository.Open(context.Background(), common.DatabaseConfig{
		DSN:         ":memory:",
		DialTimeout: 2 * time.Second,
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { repository.Close(db, logger) })

	user, err := repository.NewUserRepository(db, logger).
		GetOrCreateByExternalUID(context.Background(), "auth0|pipeline")
	require.NoError(t, err)

	return &pipelineEnv{
		db:       db,
		files:    repository.NewReceiptFileRepository(db, logger),
		jobs:     repository.NewExtractJobRepository(db, logger),
		receipts: repository.NewReceiptRepository(db, logger),
		user:     user,
	}
}

func (e *pipelineEnv) seedFile(t *testing.T, path, ext, hash string) *entity.ReceiptFile {
	t.Helper()
	f, _, err := e.files.UpsertByHash(context.Background(), e.user.ID, path, ext, 100, hash, time.Now())
	require.NoError(t, err)
	return f
}

func (e *pipelineEnv) newProcessor(ex ocr.TextExtractor) *Processor {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clock := func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	return NewProcessor(logger, ex, parser.New(parser.WithClock(clock)),
		e.files, e.jobs, e.receipts, 0.6)
}

func TestProcessor_ProcessFile(t *testing.T) {
	env := newPipelineEnv(t)
	file := env.seedFile(t, "/in/shell.png", "png", "h1")
	proc := env.newProcessor(&fakeExtractor{res: ocr.ExtractionResult{
		Text:       "Shell\nDate: 03/15/2024\nFuel: $55.23",
		SourceType: constants.IMAGE,
		Method:     "remote-ocr",
		Confidence: 0.9,
	}})

	jobID, err := proc.ProcessFile(context.Background(), file.ID)
	require.NoError(t, err)

	job, err := env.jobs.GetByID(context.Background(), jobID)
	require.NoError(t, err)
	assert.Equal(t, string(constants.JobStatusParseOK), job.Status)
	assert.False(t, job.NeedsReview)
	require.NotNil(t, job.ReceiptID)

	rec, err := env.receipts.GetByID(context.Background(), *job.ReceiptID)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", rec.TxDate)
	assert.Equal(t, "Shell", rec.Merchant)
	assert.Equal(t, string(constants.Transportation), rec.Category)
	assert.Equal(t, 55.23, rec.Amount)
	assert.Equal(t, "shell.png", rec.FileName)
	assert.Equal(t, "Shell\nDate: 03/15/2024\nFuel: $55.23", rec.OCRText)
}

func TestProcessor_ProcessFile_NoText(t *testing.T) {
	env := newPipelineEnv(t)
	file := env.seedFile(t, "/in/blank.pdf", "pdf", "h2")
	proc := env.newProcessor(&fakeExtractor{
		res: ocr.ExtractionResult{SourceType: constants.PDF},
		err: common.ErrNoText,
	})

	jobID, err := proc.ProcessFile(context.Background(), file.ID)
	require.NoError(t, err)

	job, err := env.jobs.GetByID(context.Background(), jobID)
	require.NoError(t, err)
	assert.Equal(t, string(constants.JobStatusParseOK), job.Status)
	assert.True(t, job.NeedsReview)
	require.NotNil(t, job.ReceiptID)

	rec, err := env.receipts.GetByID(context.Background(), *job.ReceiptID)
	require.NoError(t, err)
	assert.Equal(t, parser.UnknownMerchant, rec.Merchant)
	assert.Equal(t, string(constants.General), rec.Category)
	assert.Zero(t, rec.Amount)
	assert.Equal(t, "2024-06-01", rec.TxDate)
}

func TestProcessor_ProcessFile_OCRFailure(t *testing.T) {
	env := newPipelineEnv(t)
	file := env.seedFile(t, "/in/broken.png", "png", "h3")
	proc := env.newProcessor(&fakeExtractor{err: errors.New("provider unreachable")})

	jobID, err := proc.ProcessFile(context.Background(), file.ID)
	require.Error(t, err)

	job, gerr := env.jobs.GetByID(context.Background(), jobID)
	require.NoError(t, gerr)
	assert.Equal(t, string(constants.JobStatusFailed), job.Status)
	assert.Equal(t, "provider unreachable", job.ErrorMessage)
	assert.Nil(t, job.ReceiptID)

	recs, err := env.receipts.ListByUser(context.Background(), env.user.ID, "", "")
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestProcessor_ProcessFile_LowConfidenceImage(t *testing.T) {
	env := newPipelineEnv(t)
	file := env.seedFile(t, "/in/faded.jpg", "jpg", "h4")
	proc := env.newProcessor(&fakeExtractor{res: ocr.ExtractionResult{
		Text:       "Fresh Market\nTotal: $45.67",
		SourceType: constants.IMAGE,
		Confidence: 0.3,
	}})

	jobID, err := proc.ProcessFile(context.Background(), file.ID)
	require.NoError(t, err)

	job, err := env.jobs.GetByID(context.Background(), jobID)
	require.NoError(t, err)
	assert.True(t, job.NeedsReview)
	require.NotNil(t, job.ReceiptID)

	rec, err := env.receipts.GetByID(context.Background(), *job.ReceiptID)
	require.NoError(t, err)
	assert.Equal(t, "Fresh Market", rec.Merchant)
	assert.Equal(t, string(constants.Groceries), rec.Category)
}

func TestProcessor_ProcessFile_UnsupportedFormat(t *testing.T) {
	env := newPipelineEnv(t)
	file := env.seedFile(t, "/in/notes.docx", "docx", "h5")
	proc := env.newProcessor(&fakeExtractor{})

	_, err := proc.ProcessFile(context.Background(), file.ID)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestProcessor_ProcessFile_UnknownFile(t *testing.T) {
	env := newPipelineEnv(t)
	proc := env.newProcessor(&fakeExtractor{})

	_, err := proc.ProcessFile(context.Background(), uuid.New())
	assert.ErrorIs(t, err, common.ErrNotFound)
}
