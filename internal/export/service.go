package export

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/receiptiq/receiptiq/internal/entity"
	"github.com/receiptiq/receiptiq/internal/repository"
)

// Service is a tiny façade over the receipts repository that produces XLSX
// bytes for exports: a detail sheet plus a summary sheet with totals and a
// per-category breakdown.
type Service struct {
	receiptsRepo repository.ReceiptRepository
	logger       *slog.Logger
}

func NewService(receiptsRepo repository.ReceiptRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{receiptsRepo: receiptsRepo, logger: logger}
}

const (
	detailSheet  = "Receipts"
	summarySheet = "Summary"
)

// ExportReceiptsXLSX returns an XLSX workbook (as bytes) for the given user
// and date window. Empty from/to mean an open-ended range.
func (s *Service) ExportReceiptsXLSX(ctx context.Context, userID uuid.UUID, fromDate, toDate string) ([]byte, error) {
	start := time.Now()

	recs, err := s.receiptsRepo.ListByUser(ctx, userID, fromDate, toDate)
	if err != nil {
		return nil, fmt.Errorf("query receipts: %w", err)
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", detailSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, err
	}
	if index, err := f.GetSheetIndex(detailSheet); err == nil {
		f.SetActiveSheet(index)
	}

	if err := s.writeDetail(f, recs); err != nil {
		return nil, err
	}
	if err := s.writeSummary(f, recs); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"user_id", userID,
		"receipts", len(recs),
		"bytes", buf.Len(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func (s *Service) writeDetail(f *excelize.File, recs []*entity.Receipt) error {
	headers := []string{"Date", "Merchant", "Category", "Amount", "Description", "File Name"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(detailSheet, cell, h); err != nil {
			return err
		}
	}

	for i, r := range recs {
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(detailSheet, cell, v)
		}
		write(1, r.TxDate)
		write(2, r.Merchant)
		write(3, r.Category)
		write(4, r.Amount)
		write(5, truncate(r.Description, 140))
		write(6, r.FileName)
	}

	_ = f.SetColWidth(detailSheet, "A", "A", 12)
	_ = f.SetColWidth(detailSheet, "B", "B", 28)
	_ = f.SetColWidth(detailSheet, "C", "C", 16)
	_ = f.SetColWidth(detailSheet, "D", "D", 12)
	_ = f.SetColWidth(detailSheet, "E", "E", 48)
	_ = f.SetColWidth(detailSheet, "F", "F", 32)
	return nil
}

func (s *Service) writeSummary(f *excelize.File, recs []*entity.Receipt) error {
	total := decimal.Zero
	byCategoryAmount := map[string]decimal.Decimal{}
	byCategoryCount := map[string]int{}
	minDate, maxDate := "", ""

	for _, r := range recs {
		amt := decimal.NewFromFloat(r.Amount)
		total = total.Add(amt)
		byCategoryAmount[r.Category] = byCategoryAmount[r.Category].Add(amt)
		byCategoryCount[r.Category]++
		if minDate == "" || r.TxDate < minDate {
			minDate = r.TxDate
		}
		if r.TxDate > maxDate {
			maxDate = r.TxDate
		}
	}

	average := decimal.Zero
	if len(recs) > 0 {
		average = total.DivRound(decimal.NewFromInt(int64(len(recs))), 2)
	}
	dateRange := ""
	if minDate != "" {
		dateRange = minDate + " to " + maxDate
	}

	row := 1
	write := func(label string, value any) error {
		cellA, _ := excelize.CoordinatesToCellName(1, row)
		cellB, _ := excelize.CoordinatesToCellName(2, row)
		if err := f.SetCellValue(summarySheet, cellA, label); err != nil {
			return err
		}
		if err := f.SetCellValue(summarySheet, cellB, value); err != nil {
			return err
		}
		row++
		return nil
	}

	if err := write("Total Receipts", len(recs)); err != nil {
		return err
	}
	if err := write("Total Amount", "$"+total.StringFixed(2)); err != nil {
		return err
	}
	if err := write("Average Amount", "$"+average.StringFixed(2)); err != nil {
		return err
	}
	if err := write("Date Range", dateRange); err != nil {
		return err
	}

	row++ // blank separator
	if err := write("Category Breakdown", ""); err != nil {
		return err
	}

	categories := make([]string, 0, len(byCategoryAmount))
	for c := range byCategoryAmount {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	for _, c := range categories {
		label := fmt.Sprintf("%s (%d)", c, byCategoryCount[c])
		if err := write(label, "$"+byCategoryAmount[c].StringFixed(2)); err != nil {
			return err
		}
	}

	_ = f.SetColWidth(summarySheet, "A", "A", 24)
	_ = f.SetColWidth(summarySheet, "B", "B", 24)
	return nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
