package app

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/SscSPs/general_ledger/internal/dto"
	"github.com/SscSPs/general_ledger/internal/platform/config"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() *config.Config {
	return &config.Config{
		StorageDriver:            config.StorageMemory,
		BalanceCacheTTL:          time.Minute,
		StructuralLockTTL:        time.Second,
		StructuralRetryAttempts:  2,
		StructuralRetryBaseDelay: time.Millisecond,
		WorkerConcurrency:        2,
	}
}

func TestNew_MemoryWithoutRedis(t *testing.T) {
	a, err := New(context.Background(), memoryConfig(), slog.New(slog.NewTextHandler(io.Discard, nil)), Options{})
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.Redis)
	require.NotNil(t, a.Services)
	assert.NotEmpty(t, a.Services.Maintenance.ListTemplates())

	created, err := a.Services.Maintenance.ApplyAccountTemplate(context.Background(), "c1", "standard", dto.ApplyTemplateRequest{}, "actor")
	require.NoError(t, err)
	assert.NotEmpty(t, created)
}

func TestNew_WithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := memoryConfig()
	cfg.RedisAddr = mr.Addr()

	a, err := New(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), Options{})
	require.NoError(t, err)
	defer a.Close()

	require.NotNil(t, a.Redis)
	_, err = a.Services.Account.CreateAccount(context.Background(), "c1", dto.CreateAccountRequest{
		Code: "1000", Name: "Assets", AccountType: "ASSET", CurrencyCode: "USD", IsGroup: true,
	}, "actor")
	require.NoError(t, err)
}

func TestNew_UnknownDriver(t *testing.T) {
	cfg := memoryConfig()
	cfg.StorageDriver = "sqlite"
	_, err := New(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), Options{})
	assert.Error(t, err)
}

func TestNewLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "WARN")
	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Equal(t, slog.LevelInfo, parseLevel("verbose"))
}
