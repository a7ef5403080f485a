package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError(t *testing.T) {
	err := NewAppError("DB_ERROR", "get receipt", ErrNotFound)
	assert.Equal(t, "DB_ERROR: get receipt: resource not found", err.Error())
	assert.ErrorIs(t, err, ErrNotFound)

	bare := NewAppError("CONFIG_ERROR", "DB_URL is required", nil)
	assert.Equal(t, "CONFIG_ERROR: DB_URL is required", bare.Error())
}

func TestWrapError(t *testing.T) {
	assert.NoError(t, WrapError(nil, "ignored"))

	wrapped := WrapError(ErrNoText, "extract")
	assert.ErrorIs(t, wrapped, ErrNoText)
	assert.Equal(t, "extract: ocr returned no text", wrapped.Error())
}

func TestConfigValidate(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{DSN: ":memory:"},
		OCR:      OCRConfig{Endpoint: "https://ocr.example/parse"},
	}
	assert.NoError(t, cfg.Validate())

	cfg.Database.DSN = ""
	err := cfg.Validate()
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.False(t, errors.Is(err, ErrValidation))
}
