package sources_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/PDG1999/tool-dashboard-samebi/internal/config"
	"github.com/PDG1999/tool-dashboard-samebi/internal/recordstore"
	"github.com/PDG1999/tool-dashboard-samebi/internal/sources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_PostgREST(t *testing.T) {
	opened, err := sources.Open(config.Config{
		RecordSource:       config.SourcePostgREST,
		RecordStoreURL:     "https://records.example.org",
		RecordStoreTimeout: time.Second,
	})
	require.NoError(t, err)
	assert.IsType(t, &recordstore.Client{}, opened.Source)
	assert.Nil(t, opened.Repository)
	assert.NoError(t, opened.Close())
}

func TestOpen_SQLite(t *testing.T) {
	opened, err := sources.Open(config.Config{
		RecordSource: config.SourceSQLite,
		DBPath:       filepath.Join(t.TempDir(), "records.db"),
	})
	require.NoError(t, err)
	require.NotNil(t, opened.Repository)
	assert.Equal(t, opened.Repository, opened.Source)
	assert.NoError(t, opened.Close())
}

func TestOpen_Errors(t *testing.T) {
	_, err := sources.Open(config.Config{RecordSource: "mongo"})
	assert.Error(t, err)

	_, err = sources.Open(config.Config{RecordSource: config.SourcePostgREST, RecordStoreURL: "ftp://nope"})
	assert.Error(t, err)
}

func TestOpenCache(t *testing.T) {
	c, closeFn := sources.OpenCache(config.Config{})
	assert.Nil(t, c)
	assert.NoError(t, closeFn())

	c, closeFn = sources.OpenCache(config.Config{RedisAddr: "127.0.0.1:6379", SnapshotCacheTTL: time.Minute})
	assert.NotNil(t, c)
	assert.NoError(t, closeFn())
}
