package migrations

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSourceURL(t *testing.T) {
	cases := map[string]string{
		"":                    "file://migrations",
		"migrations":          "file://migrations",
		"/srv/app/migrations": "file:///srv/app/migrations",
		"file://db/migrate":   "file://db/migrate",
	}
	for in, want := range cases {
		assert.Equal(t, want, sourceURL(in), in)
	}
}
