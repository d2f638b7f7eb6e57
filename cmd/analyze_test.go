package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"formAgent/internal/formfill"
	"formAgent/internal/logger"
)

const lookupPage = `<html><body>
<form action="/lookup"><input name="hs_code"><button type="submit">Search</button></form>
<table><tr><td>Import duty</td><td>14%</td></tr></table>
</body></html>`

func fastOptions() formfill.Options {
	return formfill.Options{
		SettleDelay:   30 * time.Millisecond,
		EntryTimeout:  50 * time.Millisecond,
		ScriptRetries: 1,
		Seed:          1,
	}
}

func TestAnalyzeFillsAndExtractsRates(t *testing.T) {
	var out bytes.Buffer
	log := logger.Wrap(zaptest.NewLogger(t))

	err := analyze(context.Background(), &out, lookupPage, formfill.Values{"hs_code": "8517.62"}, log, fastOptions())
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "Detected 1 form(s) across contexts")
	assert.Contains(t, text, "submission file:///lookup: hs_code=8517.62")
	assert.Contains(t, text, "duty rates (table-row): 14%")
}

func TestParseFields(t *testing.T) {
	got, err := parseFields([]string{"email=a@b.co", " hs_code =8517.62", "note=x=y"})
	require.NoError(t, err)
	assert.Equal(t, formfill.Values{"email": "a@b.co", "hs_code": "8517.62", "note": "x=y"}, got)

	_, err = parseFields([]string{"novalue"})
	assert.Error(t, err)
	_, err = parseFields([]string{"=v"})
	assert.Error(t, err)
}

func setFastEnv(t *testing.T) {
	t.Helper()
	for k, v := range map[string]string{
		"FILL_INITIAL_WAIT":   "1ms",
		"FILL_SETTLE_DELAY":   "30ms",
		"FILL_PAUSE":          "1ms",
		"FILL_CLICK_PAUSE":    "1ms",
		"FILL_PRE_SUBMIT":     "1ms",
		"FILL_ENTRY_TIMEOUT":  "50ms",
		"FILL_SCRIPT_RETRIES": "1",
		"FILL_LOCATE_ENTRY":   "false",
		"LOG_LEVEL":           "error",
		"LOG_FILE":            "",
		"DB_HOST":             "",
	} {
		t.Setenv(k, v)
	}
}

func TestAnalyzeCommand(t *testing.T) {
	setFastEnv(t)
	path := filepath.Join(t.TempDir(), "lookup.html")
	require.NoError(t, os.WriteFile(path, []byte(lookupPage), 0o600))

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"analyze", path, "-f", "hs_code=8517.62"})

	require.NoError(t, root.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), "hs_code=8517.62")
	assert.Contains(t, out.String(), "14%")
}

func TestAnalyzeCommandMissingFile(t *testing.T) {
	setFastEnv(t)
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"analyze", filepath.Join(t.TempDir(), "none.html")})

	assert.Error(t, root.ExecuteContext(context.Background()))
}

func TestServeNeedsDatabase(t *testing.T) {
	setFastEnv(t)
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"serve"})

	assert.ErrorIs(t, root.ExecuteContext(context.Background()), errDatabaseRequired)
}
