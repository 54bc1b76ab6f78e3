package dataset

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_LoadAndMeta(t *testing.T) {
	path := writeCSV(t, `date,region,category,amount
2024-01-05,West,Electronics,100
2024-02-10,East,Apparel,50
2024-02-12,West,Apparel,25
`)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := NewStore(testLoader(), path, logger)

	assert.False(t, store.Loaded())
	require.NoError(t, store.Load(context.Background()))
	assert.True(t, store.Loaded())

	meta := store.Meta()
	assert.Equal(t, 3, meta.Rows)
	assert.Equal(t, 0, meta.Skipped)
	assert.Equal(t, []string{"East", "West"}, meta.Regions)
	assert.Equal(t, []string{"Apparel", "Electronics"}, meta.Categories)
	assert.Equal(t, "2024-01-05", meta.MinDate.Format(DateFormat))
	assert.Equal(t, "2024-02-12", meta.MaxDate.Format(DateFormat))
	assert.Equal(t, path, store.Source())

	assert.Len(t, store.Snapshot(), 3)
}

func TestStore_Reload(t *testing.T) {
	path := writeCSV(t, `date,region,category,amount
2024-01-05,West,Electronics,100
`)

	store := NewStore(testLoader(), path, nil)
	require.NoError(t, store.Load(context.Background()))
	require.Equal(t, 1, store.Meta().Rows)

	extended := `date,region,category,amount
2024-01-05,West,Electronics,100
2024-03-01,South,Grocery,30
`
	require.NoError(t, os.WriteFile(path, []byte(extended), 0644))
	require.NoError(t, store.Load(context.Background()))

	meta := store.Meta()
	assert.Equal(t, 2, meta.Rows)
	assert.Contains(t, meta.Regions, "South")
}

func TestStore_LoadFailureKeepsTable(t *testing.T) {
	path := writeCSV(t, `date,region,category,amount
2024-01-05,West,Electronics,100
`)

	store := NewStore(testLoader(), path, nil)
	require.NoError(t, store.Load(context.Background()))

	// Corrupt the file; reload must fail and the old table must survive
	require.NoError(t, os.WriteFile(path, []byte("date,region\n"), 0644))
	require.Error(t, store.Load(context.Background()))

	assert.True(t, store.Loaded())
	assert.Equal(t, 1, store.Meta().Rows)
}
