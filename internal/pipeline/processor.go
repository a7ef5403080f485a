package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/receiptiq/receiptiq/constants"
	"github.com/receiptiq/receiptiq/internal/common"
	"github.com/receiptiq/receiptiq/internal/entity"
	"github.com/receiptiq/receiptiq/internal/ocr"
	"github.com/receiptiq/receiptiq/internal/parser"
	"github.com/receiptiq/receiptiq/internal/repository"
)

const defaultMinConfidence = 0.60

// Processor coordinates OCR (text extract) then the heuristic parse, and
// persists the resulting receipt.
type Processor struct {
	logger        *slog.Logger
	extractor     ocr.TextExtractor
	parser        *parser.Parser
	filesRepo     repository.ReceiptFileRepository
	jobsRepo      repository.ExtractJobRepository
	receiptsRepo  repository.ReceiptRepository
	minConfidence float32
}

func NewProcessor(
	logger *slog.Logger,
	extractor ocr.TextExtractor,
	p *parser.Parser,
	filesRepo repository.ReceiptFileRepository,
	jobsRepo repository.ExtractJobRepository,
	receiptsRepo repository.ReceiptRepository,
	minConfidence float32,
) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if p == nil {
		p = parser.New()
	}
	if minConfidence == 0 {
		minConfidence = defaultMinConfidence
	}
	return &Processor{
		logger:        logger,
		extractor:     extractor,
		parser:        p,
		filesRepo:     filesRepo,
		jobsRepo:      jobsRepo,
		receiptsRepo:  receiptsRepo,
		minConfidence: minConfidence,
	}
}

// ProcessFile runs the whole pipeline for an ingested file: start an
// extract job, OCR the source, parse the text, and store the receipt.
// A file whose OCR yields no text still produces a receipt, built from the
// all-defaults record, with the job flagged for review. Returns the job ID.
func (p *Processor) ProcessFile(ctx context.Context, fileID uuid.UUID) (uuid.UUID, error) {
	file, err := p.filesRepo.GetByID(ctx, fileID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("get file: %w", err)
	}

	format := constants.MapExtToFormat(file.FileExt)
	if format == "" {
		return uuid.Nil, common.NewAppError("PIPELINE_ERROR",
			fmt.Sprintf("unsupported format: %s", file.FileExt), common.ErrInvalidInput)
	}

	job, err := p.jobsRepo.Start(ctx, file.ID, format)
	if err != nil {
		return uuid.Nil, err
	}

	res, err := p.extractor.Extract(ctx, file.SourcePath)
	noText := errors.Is(err, common.ErrNoText)
	if err != nil && !noText {
		p.logger.Error("processor.ocr.failed", "file_id", fileID, "job_id", job.ID, "error", err)
		_ = p.jobsRepo.Fail(ctx, job.ID, err.Error())
		return job.ID, err
	}
	if err := p.jobsRepo.MarkOCROK(ctx, job.ID, res.Text); err != nil {
		return job.ID, err
	}
	p.logger.Debug("processor.ocr.ok",
		"file_id", fileID,
		"job_id", job.ID,
		"method", res.Method,
		"confidence", res.Confidence,
		"chars", len(res.Text),
	)

	var fields parser.Fields
	needsReview := false
	if noText {
		fields = p.parser.Sentinel(res.Text)
		needsReview = true
	} else {
		fields = p.parser.Parse(res.Text)
		if format == constants.IMAGE && res.Confidence > 0 && res.Confidence < p.minConfidence {
			p.logger.Warn("processor.ocr.low_confidence",
				"file_id", fileID, "job_id", job.ID, "confidence", res.Confidence)
			needsReview = true
		}
	}

	if err := ValidateFields(fields); err != nil {
		p.logger.Error("processor.validate.failed", "job_id", job.ID, "error", err)
		_ = p.jobsRepo.Fail(ctx, job.ID, err.Error())
		return job.ID, err
	}

	rec, err := p.receiptsRepo.Create(ctx, &entity.Receipt{
		UserID:      file.UserID,
		FileName:    filepath.Base(file.SourcePath),
		TxDate:      fields.TxDate,
		Merchant:    fields.Merchant,
		Category:    string(fields.Category),
		Amount:      fields.Amount,
		Description: fields.Description,
		OCRText:     res.Text,
	})
	if err != nil {
		p.logger.Error("processor.persist.failed", "job_id", job.ID, "error", err)
		_ = p.jobsRepo.Fail(ctx, job.ID, err.Error())
		return job.ID, err
	}

	if err := p.jobsRepo.FinishParse(ctx, job.ID, rec.ID, needsReview); err != nil {
		return job.ID, err
	}

	p.logger.Info("processor.parse.ok",
		"file_id", fileID,
		"job_id", job.ID,
		"receipt_id", rec.ID,
		"merchant", rec.Merchant,
		"category", rec.Category,
		"amount", rec.Amount,
		"needs_review", needsReview,
	)
	return job.ID, nil
}
