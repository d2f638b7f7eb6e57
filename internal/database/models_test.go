package database

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFillRunAssignsRunID(t *testing.T) {
	run := &FillRun{URL: "https://a.test/"}
	require.NoError(t, run.BeforeCreate(nil))

	_, err := uuid.Parse(run.RunID)
	assert.NoError(t, err)
}

func TestFillRunKeepsRunID(t *testing.T) {
	run := &FillRun{RunID: "fixed"}
	require.NoError(t, run.BeforeCreate(nil))
	assert.Equal(t, "fixed", run.RunID)
}
