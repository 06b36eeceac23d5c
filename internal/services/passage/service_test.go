package passage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/typerace/typerace-go/internal/dependencies/mocks"
	"github.com/typerace/typerace-go/internal/model"
	"github.com/typerace/typerace-go/internal/storage/memory"
)

func newService() (*Service, *mocks.MockRandom, *memory.Storage) {
	store := memory.New()
	rnd := mocks.NewMockRandom()
	return New(store, rnd), rnd, store
}

func TestRandomPassageBeforeLoad(t *testing.T) {
	svc, _, _ := newService()

	_, err := svc.RandomPassage()
	assert.ErrorIs(t, err, model.ErrNoPassages)
}

func TestLoadPassagesRejectsEmptyCorpus(t *testing.T) {
	svc, _, _ := newService()

	assert.ErrorIs(t, svc.LoadPassages(nil), model.ErrNoPassages)
	assert.Equal(t, 0, svc.Count())
}

func TestRandomPassagePicksByIndex(t *testing.T) {
	svc, rnd, _ := newService()
	require.NoError(t, svc.LoadPassages([]string{"zero", "one", "two"}))

	rnd.QueueIntn(2, 0)

	got, err := svc.RandomPassage()
	require.NoError(t, err)
	assert.Equal(t, "two", got)

	got, err = svc.RandomPassage()
	require.NoError(t, err)
	assert.Equal(t, "zero", got)
}

func TestLoadFromFile(t *testing.T) {
	svc, _, store := newService()

	path := filepath.Join(t.TempDir(), "passages.txt")
	content := "the quick brown fox\n\n  jumps over the lazy dog  \n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	require.NoError(t, svc.LoadFromFile(context.Background(), path))

	assert.Equal(t, 2, svc.Count())

	// The corpus is also persisted to storage
	saved, err := store.GetPassages(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"the quick brown fox", "jumps over the lazy dog"}, saved)
}

func TestLoadFromFileMissing(t *testing.T) {
	svc, _, _ := newService()

	err := svc.LoadFromFile(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestLoadFromFileEmpty(t *testing.T) {
	svc, _, _ := newService()

	path := filepath.Join(t.TempDir(), "passages.txt")
	require.NoError(t, os.WriteFile(path, []byte("\n\n"), 0o644))

	assert.ErrorIs(t, svc.LoadFromFile(context.Background(), path), model.ErrNoPassages)
}

func TestLoadFromStorage(t *testing.T) {
	svc, _, store := newService()
	ctx := context.Background()

	assert.ErrorIs(t, svc.LoadFromStorage(ctx), model.ErrNoPassages)

	require.NoError(t, store.SavePassages(ctx, []string{"stored passage"}))
	require.NoError(t, svc.LoadFromStorage(ctx))
	assert.Equal(t, 1, svc.Count())
}
