package storage

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"iseg-kit/internal/domain/entity"
)

func TestMemoryUserRepository_GetCreatesUser(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	u, err := repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, u.State)

	require.NoError(t, repo.UpdateState(ctx, 1, 10, entity.StateAnnotating))
	u, err = repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateAnnotating, u.State)

	// тот же пользователь в другом чате начинает заново
	other, err := repo.Get(ctx, 1, 11)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, other.State)

	require.NoError(t, repo.UpdateState(ctx, 2, 20, entity.StateAwaitingImage))
	u, err = repo.Get(ctx, 2, 20)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingImage, u.State)
}

func TestMemorySessionRepository(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()

	_, err := repo.Get(ctx, 5)
	require.ErrorIs(t, err, entity.ErrNoSession)

	s := entity.NewSession(5, "img", image.NewGray(image.Rect(0, 0, 4, 3)))
	require.NoError(t, repo.Save(ctx, s))

	got, err := repo.Get(ctx, 5)
	require.NoError(t, err)
	require.Equal(t, 4, got.Prediction.Width)
	require.Equal(t, 3, got.Prediction.Height)

	require.NoError(t, repo.Delete(ctx, 5))
	_, err = repo.Get(ctx, 5)
	require.ErrorIs(t, err, entity.ErrNoSession)
}

func TestYAMLAnnotationStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "annotations.yaml")
	ctx := context.Background()

	store, err := NewYAMLAnnotationStore(path)
	require.NoError(t, err)

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Empty(t, list)

	a, err := store.Put(ctx, entity.Annotation{
		Image:     "000123",
		Annotator: "tester",
		Height:    2,
		Width:     3,
		Counts:    entity.RLE{Counts: []int{2, 2, 1, 1}}.String(),
		Clicks:    []entity.Click{{Row: 1, Col: 1, Kind: entity.Positive}},
	})
	require.NoError(t, err)
	require.NotEmpty(t, a.ID)

	reopened, err := NewYAMLAnnotationStore(path)
	require.NoError(t, err)
	got, err := reopened.Get(ctx, a.ID)
	require.NoError(t, err)
	if diff := cmp.Diff(a.Clicks, got.Clicks); diff != "" {
		t.Fatalf("clicks mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, "000123", got.Image)
	require.True(t, a.CreatedAt.Equal(got.CreatedAt))

	rle, err := got.RLE()
	require.NoError(t, err)
	require.Equal(t, []int{2, 2, 1, 1}, rle.Counts)
	require.Equal(t, 3, rle.Area())

	_, err = reopened.Get(ctx, "missing")
	require.ErrorIs(t, err, entity.ErrNoAnnotation)
}

func TestYAMLAnnotationStore_PutReplacesByID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "annotations.yaml")
	ctx := context.Background()
	store, err := NewYAMLAnnotationStore(path)
	require.NoError(t, err)

	a, err := store.Put(ctx, entity.Annotation{Image: "a"})
	require.NoError(t, err)
	a.Image = "b"
	_, err = store.Put(ctx, a)
	require.NoError(t, err)

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "b", list[0].Image)
}

func TestYAMLAnnotationStore_BadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "annotations.yaml")
	require.NoError(t, os.WriteFile(path, []byte("annotations: [oops"), 0o644))
	_, err := NewYAMLAnnotationStore(path)
	require.Error(t, err)
}
