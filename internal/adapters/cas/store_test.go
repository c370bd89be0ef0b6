package cas_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/modpack/internal/adapters/cas"
	"go.trai.ch/modpack/internal/core/domain"
)

func TestStore_PutAndGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "report.json")
	store := cas.NewStore()

	records := []domain.StageRecord{
		{
			Stage:      "repackage",
			Status:     domain.StageStatusCompleted,
			Executed:   true,
			OutputHash: "abc",
			Duration:   1500 * time.Millisecond,
			Timestamp:  time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		},
		{Stage: "assemble-runtime", Status: domain.StageStatusUpToDate},
	}
	require.NoError(t, store.Put(path, records))

	got, err := store.Get(path)
	require.NoError(t, err)
	assert.Equal(t, records, got)

	_, err = os.Stat(path + ".tmp")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestStore_PutReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	store := cas.NewStore()

	require.NoError(t, store.Put(path, []domain.StageRecord{{Stage: "a"}, {Stage: "b"}}))
	require.NoError(t, store.Put(path, []domain.StageRecord{{Stage: "c"}}))

	got, err := store.Get(path)
	require.NoError(t, err)
	assert.Equal(t, []domain.StageRecord{{Stage: "c", Status: domain.StageStatusPending}}, got)
}

func TestStore_GetNormalizesStatus(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	data := `{"stages":[{"stage":"a","status":"COMPLETED","executed":true},{"stage":"b","status":"bogus","executed":false}]}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	got, err := cas.NewStore().Get(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, domain.StageStatusCompleted, got[0].Status)
	assert.Equal(t, domain.StageStatusPending, got[1].Status)
}

func TestStore_GetMissingOrEmpty(t *testing.T) {
	dir := t.TempDir()
	store := cas.NewStore()

	got, err := store.Get(filepath.Join(dir, "missing.json"))
	require.NoError(t, err)
	assert.Nil(t, got)

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))
	got, err = store.Get(empty)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_GetCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := cas.NewStore().Get(path)
	assert.ErrorContains(t, err, domain.ErrStoreReadFailed.Error())
}

func TestStore_PutUnwritable(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	err := cas.NewStore().Put(filepath.Join(blocker, "report.json"), nil)
	assert.ErrorContains(t, err, domain.ErrStoreWriteFailed.Error())
}
