package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/typerace/typerace-go/internal/model"
)

func TestGetPassagesEmpty(t *testing.T) {
	s := New()

	_, err := s.GetPassages(context.Background())
	assert.ErrorIs(t, err, model.ErrNoPassages)
}

func TestSaveAndGetPassages(t *testing.T) {
	s := New()
	ctx := context.Background()

	saved := []string{"first passage", "second passage"}
	require.NoError(t, s.SavePassages(ctx, saved))

	got, err := s.GetPassages(ctx)
	require.NoError(t, err)
	assert.Equal(t, saved, got)
}

func TestSaveReplacesExistingCorpus(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.SavePassages(ctx, []string{"old"}))
	require.NoError(t, s.SavePassages(ctx, []string{"new one", "new two"}))

	got, err := s.GetPassages(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"new one", "new two"}, got)
}

func TestGetReturnsACopy(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.SavePassages(ctx, []string{"original"}))

	got, err := s.GetPassages(ctx)
	require.NoError(t, err)
	got[0] = "mutated"

	again, err := s.GetPassages(ctx)
	require.NoError(t, err)
	assert.Equal(t, "original", again[0])
}
