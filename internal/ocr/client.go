package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"github.com/receiptiq/receiptiq/constants"
	"github.com/receiptiq/receiptiq/internal/common"
)

// Client talks to a remote OCR provider over its multipart parse endpoint.
// Transient failures (network errors, 5xx) are retried with exponential
// backoff; 4xx responses and provider processing errors are not.
type Client struct {
	cfg        common.OCRConfig
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(cfg common.OCRConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Language == "" {
		cfg.Language = "eng"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// Extract picks a strategy based on file extension. Plain-text files are
// read directly; PDFs and images go through the remote provider.
func (c *Client) Extract(ctx context.Context, path string) (ExtractionResult, error) {
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(path))
	switch format := constants.MapExtToFormat(ext); format {
	case constants.TXT:
		res, err := readTextFile(path)
		res.Duration = time.Since(start)
		return res, err
	case constants.PDF, constants.IMAGE:
		res, err := c.extractRemote(ctx, path, format)
		res.Duration = time.Since(start)
		return res, err
	default:
		c.logger.Error("ocr.unsupported_extension", "path", path, "extension", ext)
		return ExtractionResult{}, common.NewAppError("OCR_ERROR",
			fmt.Sprintf("unsupported extension: %q", ext), common.ErrInvalidInput)
	}
}

func (c *Client) extractRemote(ctx context.Context, path, format string) (ExtractionResult, error) {
	reqID := uuid.New().String()

	var text string
	operation := func() error {
		t, status, err := c.post(ctx, path, reqID)
		if err != nil {
			if status >= 400 && status < 500 {
				return backoff.Permanent(err)
			}
			return err
		}
		text = t
		return nil
	}

	bo := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(c.cfg.MaxRetries)), ctx)
	if err := backoff.Retry(operation, bo); err != nil {
		c.logger.Error("ocr.extract.failed", "req_id", reqID, "path", path, "error", err)
		return ExtractionResult{SourceType: format}, err
	}

	res := ExtractionResult{
		Text:       text,
		SourceType: format,
		Method:     "remote-ocr",
		Language:   c.cfg.Language,
		Confidence: heuristicConfidence(text),
	}
	if strings.TrimSpace(text) == "" {
		return res, common.ErrNoText
	}
	return res, nil
}

// post uploads the file once and decodes the provider response. The file is
// reopened per attempt so retries never send a drained body.
func (c *Client) post(ctx context.Context, path, reqID string) (string, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("open file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			c.logger.Warn("ocr.http.file_close_error", "req_id", reqID, "error", err)
		}
	}()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return "", 0, fmt.Errorf("build form: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", 0, fmt.Errorf("read file: %w", err)
	}
	_ = mw.WriteField("language", c.cfg.Language)
	if c.cfg.APIKey != "" {
		_ = mw.WriteField("apikey", c.cfg.APIKey)
	}
	if err := mw.Close(); err != nil {
		return "", 0, fmt.Errorf("build form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, &buf)
	if err != nil {
		return "", 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	c.logger.Info("ocr.http.request",
		"req_id", reqID,
		"url", c.cfg.Endpoint,
		"file", filepath.Base(path),
		"content_length", buf.Len(),
	)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("ocr.http.send_error", "req_id", reqID, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return "", 0, err
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			c.logger.Warn("ocr.http.response_body_close_error", "req_id", reqID, "error", err)
		}
	}(resp.Body)

	raw, _ := io.ReadAll(resp.Body)

	c.logger.Info("ocr.http.response",
		"req_id", reqID,
		"status", resp.StatusCode,
		"bytes", len(raw),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode/100 != 2 {
		return "", resp.StatusCode, fmt.Errorf("non-2xx status: %d", resp.StatusCode)
	}

	text, err := decodeParseResponse(raw)
	return text, resp.StatusCode, err
}

type parseResponse struct {
	ParsedResults []struct {
		ParsedText        string `json:"ParsedText"`
		FileParseExitCode int    `json:"FileParseExitCode"`
	} `json:"ParsedResults"`
	OCRExitCode           int      `json:"OCRExitCode"`
	IsErroredOnProcessing bool     `json:"IsErroredOnProcessing"`
	ErrorMessage          []string `json:"ErrorMessage"`
}

func decodeParseResponse(raw []byte) (string, error) {
	var pr parseResponse
	if err := json.Unmarshal(raw, &pr); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if pr.IsErroredOnProcessing {
		msg := "provider reported a processing error"
		if len(pr.ErrorMessage) > 0 {
			msg = strings.Join(pr.ErrorMessage, "; ")
		}
		// A processing error for a given file will fail on every attempt.
		return "", backoff.Permanent(errors.New(msg))
	}

	parts := make([]string, 0, len(pr.ParsedResults))
	for _, r := range pr.ParsedResults {
		parts = append(parts, r.ParsedText)
	}
	return strings.Join(parts, "\n"), nil
}

func readTextFile(path string) (ExtractionResult, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return ExtractionResult{SourceType: constants.TXT}, fmt.Errorf("read text file: %w", err)
	}
	text := string(bs)
	res := ExtractionResult{
		Text:       text,
		SourceType: constants.TXT,
		Method:     "text-file",
		Confidence: heuristicConfidence(text),
	}
	if strings.TrimSpace(text) == "" {
		return res, common.ErrNoText
	}
	return res, nil
}
