package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("DB_URL", "postgres://app@localhost:5432/receipts")
	t.Setenv("DB_MAX_OPEN_CONNS", "7")
	t.Setenv("OCR_ENDPOINT", "https://ocr.example/parse")
	t.Setenv("OCR_TIMEOUT", "10s")

	cfg := LoadConfig()
	assert.Equal(t, "postgres://app@localhost:5432/receipts", cfg.Database.DSN)
	assert.Equal(t, 7, cfg.Database.MaxOpenConns)
	assert.Equal(t, "https://ocr.example/parse", cfg.OCR.Endpoint)
	assert.Equal(t, 10*time.Second, cfg.OCR.Timeout)
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("DB_MAX_OPEN_CONNS", "")
	t.Setenv("OCR_ENDPOINT", "")
	t.Setenv("OCR_TIMEOUT", "not-a-duration")
	t.Setenv("OCR_MAX_RETRIES", "many")

	cfg := LoadConfig()
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.Equal(t, "https://api.ocr.space/parse/image", cfg.OCR.Endpoint)
	assert.Equal(t, 45*time.Second, cfg.OCR.Timeout)
	assert.Equal(t, 3, cfg.OCR.MaxRetries)
}
