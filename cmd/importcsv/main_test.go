package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/septivank/babybeat/internal/config"
	"github.com/septivank/babybeat/internal/domain"
)

func writeExport(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRun_DryRunLogsMappedRows(t *testing.T) {
	path := writeExport(t,
		"type,data,note,startTime,endTime\n"+
			"diaper,\"{\"\"types\"\":[\"\"pee\"\"]}\",,2025-01-06T09:00:00Z,\n"+
			"pumping,{},,2025-01-06T10:00:00Z,\n",
	)

	core, logs := observer.New(zap.InfoLevel)
	err := run(context.Background(), &config.Config{}, zap.New(core), options{path: path, format: FormatEvents, dryRun: true})
	require.NoError(t, err)

	assert.Equal(t, 1, logs.FilterMessage("would import event").Len())
	skippedLogs := logs.FilterMessage("skipping record").All()
	require.Len(t, skippedLogs, 1)
	assert.Equal(t, "line 3", skippedLogs[0].ContextMap()["ref"])

	done := logs.FilterMessage("import completed").All()
	require.Len(t, done, 1)
	assert.Equal(t, int64(1), done[0].ContextMap()["skipped"])
}

func TestRun_SnooDryRun(t *testing.T) {
	path := writeExport(t,
		"sessionId,UTCTime,level,sinceSessionStart\n"+
			"s1,2025-01-06T20:00:00Z,BASELINE,0\n"+
			",2025-01-06T20:10:00Z,LEVEL1,\n"+
			"s1,2025-01-06T21:30:00Z,LEVEL1,1h30m\n"+
			"s2,2025-01-07T13:00:00Z,manual,45m\n",
	)

	core, logs := observer.New(zap.InfoLevel)
	err := run(context.Background(), &config.Config{}, zap.New(core), options{path: path, format: FormatSnoo, dryRun: true})
	require.NoError(t, err)

	would := logs.FilterMessage("would import event").All()
	require.Len(t, would, 2)
	assert.Equal(t, "session s1", would[0].ContextMap()["ref"])
	assert.Equal(t, "sleep", would[0].ContextMap()["type"])
	assert.Equal(t, time.Date(2025, 1, 6, 21, 30, 0, 0, time.UTC), would[0].ContextMap()["end_time"])
	assert.Equal(t, time.Date(2025, 1, 7, 13, 45, 0, 0, time.UTC), would[1].ContextMap()["end_time"])
}

func TestLoad_SnooSessions(t *testing.T) {
	candidates, err := load(FormatSnoo, strings.NewReader(
		"sessionId,UTCTime,level,sinceSessionStart\ns1,2025-01-07T13:00:00Z,manual,1h\n",
	))
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	require.NoError(t, candidates[0].err)
	assert.Equal(t, domain.SleepLocationCrib, *candidates[0].event.SleepLocation)
}

func TestLoad_UnknownFormat(t *testing.T) {
	_, err := load("xlsx", strings.NewReader(""))
	assert.EqualError(t, err, `unknown export format "xlsx"`)
}

func TestRun_PublishRequiresBroker(t *testing.T) {
	path := writeExport(t, "type,data,note,startTime,endTime\n")

	err := run(context.Background(), &config.Config{}, zap.NewNop(), options{path: path, format: FormatEvents})
	assert.ErrorContains(t, err, "RABBITMQ_URL is required")
}

func TestRun_MissingFile(t *testing.T) {
	err := run(context.Background(), &config.Config{}, zap.NewNop(), options{path: filepath.Join(t.TempDir(), "nope.csv"), format: FormatEvents, dryRun: true})
	assert.ErrorContains(t, err, "open export")
}
