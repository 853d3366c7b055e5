package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/CargoFit/internal/engine"
	"github.com/piwi3910/CargoFit/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "layouts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func packedResult(t *testing.T) model.PackResult {
	t.Helper()
	p, _ := model.GetPreset("20ft")
	specs := []model.CargoSpec{
		{ID: "pal", Name: "Pallet", Length: 120, Width: 80, Height: 100, Weight: 300, Quantity: 3},
		{ID: "box", Name: "Box", Length: 60, Width: 40, Height: 40, Weight: 20, Quantity: 4},
	}
	r, err := engine.New(model.DefaultSettings()).Pack(context.Background(), p.Container, specs)
	require.NoError(t, err)
	return r
}

func TestOpen_AppliesMigrations(t *testing.T) {
	s := openTestStore(t)

	version, dirty, err := s.MigrateVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	// reopening an up-to-date database is a no-op
	require.NoError(t, s.MigrateUp())
}

func TestSaveGetRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	result := packedResult(t)

	sum, err := s.Save(ctx, "  Monday run  ", result)
	require.NoError(t, err)
	assert.NotEmpty(t, sum.ID)
	assert.Equal(t, "Monday run", sum.Name)
	assert.Equal(t, "20ft", sum.Container)
	assert.Equal(t, 7, sum.TotalItems)
	assert.Equal(t, 7, sum.FittedItems)

	got, err := s.Get(ctx, sum.ID)
	require.NoError(t, err)
	assert.True(t, sum.CreatedAt.Equal(got.CreatedAt))
	assert.Equal(t, sum.Efficiency, got.Efficiency)
	if diff := cmp.Diff(result, got.Result); diff != "" {
		t.Errorf("stored result mismatch (-want +got):\n%s", diff)
	}
}

func TestSave_RejectsEmptyName(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Save(context.Background(), "   ", model.PackResult{})
	assert.Error(t, err)
}

func TestList_NewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	empty, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	result := packedResult(t)
	var ids []string
	for _, name := range []string{"first", "second", "third"} {
		sum, err := s.Save(ctx, name, result)
		require.NoError(t, err)
		ids = append(ids, sum.ID)
	}

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"third", "second", "first"}, []string{list[0].Name, list[1].Name, list[2].Name})
	assert.Equal(t, ids[2], list[0].ID)
}

func TestDelete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	sum, err := s.Save(ctx, "temp", packedResult(t))
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, sum.ID))

	_, err = s.Get(ctx, sum.ID)
	assert.True(t, errors.Is(err, ErrNotFound))

	err = s.Delete(ctx, sum.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestGet_NotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Get(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMigrateDownAndUp(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.MigrateDown())
	version, _, err := s.MigrateVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(0), version)

	_, err = s.List(context.Background())
	assert.Error(t, err, "layouts table should be gone")

	require.NoError(t, s.MigrateUp())
	_, err = s.List(context.Background())
	assert.NoError(t, err)
}

func TestOpen_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "layouts.db")
	s, err := Open(path, WithVerbose(true))
	require.NoError(t, err)
	require.NoError(t, s.Close())
}
