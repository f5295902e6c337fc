package cli

import (
	"bytes"
	"encoding/json"
	"math/rand"
	"path/filepath"
	"testing"
	"time"

	"github.com/PDG1999/tool-dashboard-samebi/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestGenerateSample(t *testing.T) {
	now := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	s := GenerateSample(rand.New(rand.NewSource(7)), 200, now)

	require.Len(t, s.Records, 200)
	assert.Len(t, s.Counselors, 3)
	assert.Len(t, s.Clients, 8)

	ids := map[string]bool{}
	for _, r := range s.Records {
		assert.False(t, ids[r.ID], "duplicate id %s", r.ID)
		ids[r.ID] = true
		assert.False(t, r.CreatedAt.After(now))
		assert.True(t, r.CreatedAt.After(now.AddDate(-1, 0, -1)))
		if r.Aborted {
			require.NotNil(t, r.AbortedAtQuestion)
			assert.GreaterOrEqual(t, *r.AbortedAtQuestion, 1)
			assert.LessOrEqual(t, *r.AbortedAtQuestion, models.TotalQuestions)
		} else {
			assert.Nil(t, r.AbortedAtQuestion)
		}
	}

	again := GenerateSample(rand.New(rand.NewSource(7)), 200, now)
	assert.Equal(t, s, again)
}

func TestSeedAndSnapshot(t *testing.T) {
	t.Setenv("RECORD_SOURCE", "sqlite")
	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "records.db"))
	t.Setenv("ANONYMOUS_POLICY", "separate")

	out, err := run(t, "seed", "--count", "50", "--seed", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "seeded 3 counselors, 8 clients, 50 test results")

	out, err = run(t, "snapshot", "--range", "all", "--json")
	require.NoError(t, err)

	var snap models.StatsSnapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snap))
	assert.Equal(t, 50, snap.TotalTests)
	assert.Equal(t, snap.TotalTests, snap.CompletedTests+snap.AbortedTests)
	assert.Equal(t, 8, snap.TotalClients)
	assert.Equal(t, 3, snap.TotalCounselors)
	assert.Equal(t, 2, snap.ActiveCounselors)
	assert.Len(t, snap.SourceDistribution, 2)
	assert.LessOrEqual(t, len(snap.CityDistribution), 10)
	assert.LessOrEqual(t, len(snap.CriticalQuestions), 5)

	riskTotal := 0
	for _, d := range snap.RiskDistribution {
		riskTotal += d.Count
	}
	assert.Equal(t, snap.TotalTests, riskTotal)
}

func TestSnapshot_Tables(t *testing.T) {
	t.Setenv("RECORD_SOURCE", "sqlite")
	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "records.db"))

	_, err := run(t, "seed", "--count", "10", "--seed", "1")
	require.NoError(t, err)

	out, err := run(t, "--no-color", "snapshot", "--range", "all")
	require.NoError(t, err)
	assert.Contains(t, out, "Overview (all, generation 1)")
	assert.Contains(t, out, "Risk")
	assert.Contains(t, out, "Counselors")
}

func TestSnapshot_InvalidRange(t *testing.T) {
	t.Setenv("RECORD_SOURCE", "sqlite")
	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "records.db"))

	_, err := run(t, "snapshot", "--range", "2w")
	assert.Error(t, err)
}

func TestSeed_RequiresSQLite(t *testing.T) {
	t.Setenv("RECORD_SOURCE", "postgrest")
	t.Setenv("RECORD_STORE_URL", "http://localhost:3000")

	_, err := run(t, "seed", "--count", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RECORD_SOURCE=sqlite")
}
