package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/luminary-labs/donoriq/internal/core/domain"
	"github.com/luminary-labs/donoriq/internal/core/ports/driving"
)

type mockGiftSyncServiceBusy struct {
	mockGiftSyncService
}

func (m *mockGiftSyncServiceBusy) Sync(_ context.Context, _ string) (*driving.SyncReport, error) {
	return nil, domain.ErrSyncInProgress
}

type mockGiftSyncServiceOffline struct {
	mockGiftSyncService
}

func (m *mockGiftSyncServiceOffline) Sync(_ context.Context, _ string) (*driving.SyncReport, error) {
	return nil, domain.ErrAccountingUnavailable
}

func TestSyncCmd_Use(t *testing.T) {
	assert.Equal(t, "sync", syncCmd.Use)
}

func TestSyncCmd_Short(t *testing.T) {
	assert.Equal(t, "Pull gifts from the connected accounting system", syncCmd.Short)
}

func TestSyncCmd_Executes(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"sync"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Syncing gifts for org-1")
	assert.Contains(t, buf.String(), "Gifts upserted:  5")
	assert.Contains(t, buf.String(), "Donors updated:  3")
	assert.Contains(t, buf.String(), "Donors indexed:  3")
}

func TestSyncCmd_AlreadyRunning(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	giftSyncService = &mockGiftSyncServiceBusy{}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"sync"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already running")
}

func TestSyncCmd_AccountingNotConnected(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	giftSyncService = &mockGiftSyncServiceOffline{}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"sync"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no accounting connection configured")
}

func TestSyncCmd_ServiceNotConfigured(t *testing.T) {
	oldService := giftSyncService
	giftSyncService = nil
	defer func() {
		giftSyncService = oldService
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"sync"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "gift sync service not configured")
}

func TestReindexCmd_Use(t *testing.T) {
	assert.Equal(t, "reindex", reindexCmd.Use)
}

func TestReindexCmd_Executes(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"reindex"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Reindexing donor profiles for org-1")
	assert.Contains(t, buf.String(), "Indexed 7 donor(s)")
}

func TestReindexCmd_ServiceNotConfigured(t *testing.T) {
	oldService := giftSyncService
	giftSyncService = nil
	defer func() {
		giftSyncService = oldService
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"reindex"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "gift sync service not configured")
}
