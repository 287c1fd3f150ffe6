package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbaye/chainboard/internal/domain/models"
	"github.com/mbaye/chainboard/internal/store"
)

func TestReplaceAllAndSnapshot(t *testing.T) {
	s := store.New()
	assert.Empty(t, s.Snapshot())

	first := []models.Product{{ID: "P1"}, {ID: "P2"}}
	s.ReplaceAll(first)
	assert.Equal(t, first, s.Snapshot())

	// A later replace fully supersedes the previous snapshot.
	second := []models.Product{{ID: "P3"}}
	s.ReplaceAll(second)
	assert.Equal(t, second, s.Snapshot())
}

func TestSnapshotIsACopy(t *testing.T) {
	s := store.New()
	s.ReplaceAll([]models.Product{{ID: "P1", Name: "Widget"}})

	snap := s.Snapshot()
	snap[0].Name = "Tampered"

	fresh := s.Snapshot()
	assert.Equal(t, "Widget", fresh[0].Name)
}

func TestGet(t *testing.T) {
	s := store.New()
	s.ReplaceAll([]models.Product{{ID: "P1"}, {ID: "P2", Status: models.StatusFinanced}})

	p, ok := s.Get("P2")
	require.True(t, ok)
	assert.Equal(t, models.StatusFinanced, p.Status)

	_, ok = s.Get("P9")
	assert.False(t, ok)
}

func TestErrorBannerNewestWins(t *testing.T) {
	s := store.New()
	assert.Empty(t, s.LastError())

	s.SetError("Failed to approve financing")
	s.SetError("Failed to confirm supply")
	assert.Equal(t, "Failed to confirm supply", s.LastError())

	s.ClearError()
	assert.Empty(t, s.LastError())
}

func TestCommandSerializationPerProduct(t *testing.T) {
	s := store.New()

	require.NoError(t, s.BeginCommand("P1"))
	assert.True(t, s.CommandInFlight("P1"))

	// Same product is blocked, a different one is not.
	assert.ErrorIs(t, s.BeginCommand("P1"), store.ErrCommandInFlight)
	require.NoError(t, s.BeginCommand("P2"))

	s.EndCommand("P1")
	assert.False(t, s.CommandInFlight("P1"))
	require.NoError(t, s.BeginCommand("P1"))
}

func TestLoadingAndBackendFlags(t *testing.T) {
	s := store.New()

	assert.False(t, s.Loading())
	s.SetLoading(true)
	assert.True(t, s.Loading())

	assert.False(t, s.BackendUp())
	s.SetBackendUp(true)
	assert.True(t, s.BackendUp())
}
