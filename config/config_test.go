package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborview/eventscrape"
)

func writeFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadBadYAML(t *testing.T) {
	path := writeFile(t, "bad.yaml", "delay: [not a number\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadAndApply(t *testing.T) {
	path := writeFile(t, "run.yaml", `
delay: 2.5
fetch_timeout: 30
free_text_token_limit: 50
free_text_token_max_len: 120
keep_unresolved: true
output: out.xlsx
archive: runs.db
sources:
  - domain_contains: townhall.example
    pattern: /whats-on/
    label: townhall
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "out.xlsx", cfg.Output)
	assert.Equal(t, "runs.db", cfg.Archive)

	pc := eventscrape.DefaultPipelineConfig()
	cfg.Apply(&pc)

	assert.Equal(t, 2500*time.Millisecond, pc.Delay)
	assert.Equal(t, 30*time.Second, pc.FetchTimeout)
	assert.Equal(t, 50, pc.Extractor.FreeTextTokenLimit)
	assert.Equal(t, 120, pc.Extractor.FreeTextTokenMaxLen)
	assert.True(t, pc.Dedup.KeepUnresolved)

	rules := cfg.Rules()
	require.Len(t, rules, 1)
	assert.Equal(t, "townhall.example", rules[0].DomainContains)
	assert.Equal(t, "/whats-on/", rules[0].Pattern)
	assert.Equal(t, "townhall", rules[0].Label)
}

// TestApplyLeavesDefaults verifies unset file fields do not clobber the
// pipeline defaults.
func TestApplyLeavesDefaults(t *testing.T) {
	path := writeFile(t, "sparse.yaml", "output: out.xlsx\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	pc := eventscrape.DefaultPipelineConfig()
	want := eventscrape.DefaultPipelineConfig()
	cfg.Apply(&pc)

	assert.Equal(t, want, pc)
}

func TestApplyNilFile(t *testing.T) {
	var cfg *File

	pc := eventscrape.DefaultPipelineConfig()
	want := eventscrape.DefaultPipelineConfig()
	cfg.Apply(&pc)

	assert.Equal(t, want, pc)
	assert.Nil(t, cfg.Rules())
}

func TestLoadSeeds(t *testing.T) {
	path := writeFile(t, "urls.txt", `
https://example.com/events

# local paper
https://paper.example.com/calendar
`)

	seeds, err := LoadSeeds(path)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://example.com/events",
		"https://paper.example.com/calendar",
	}, seeds)
}

func TestLoadSeedsMissing(t *testing.T) {
	_, err := LoadSeeds(filepath.Join(t.TempDir(), "absent.txt"))
	assert.Error(t, err)
}
