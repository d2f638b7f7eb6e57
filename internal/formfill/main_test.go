package formfill

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"formAgent/internal/browser"
	"formAgent/internal/logger"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// openPage запускает HTMLPage на первом маршруте start.
func openPage(t *testing.T, start string, routes map[string]string) *browser.HTMLPage {
	t.Helper()
	p := browser.NewHTMLPage(routes)
	require.NoError(t, p.Launch(context.Background()))
	require.NoError(t, p.Navigate(context.Background(), start))
	return p
}

func testOptions() Options {
	return Options{
		SettleDelay:   60 * time.Millisecond,
		EntryTimeout:  100 * time.Millisecond,
		ScriptRetries: 2,
		Seed:          42,
	}
}

func testLogger(t *testing.T) *logger.Zap {
	return logger.Wrap(zaptest.NewLogger(t))
}

func find(t *testing.T, p browser.Page, xpath string) browser.Element {
	t.Helper()
	found, err := p.FindAll(xpath)
	require.NoError(t, err)
	require.NotEmpty(t, found, xpath)
	return found[0]
}
