package importjob

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJobStartsQueued(t *testing.T) {
	job, err := NewJob("daily import", "/data/recipes.csv")
	require.NoError(t, err)

	assert.Equal(t, StatusQueued, job.Status())
	assert.Equal(t, "daily import", job.Name())
	assert.Equal(t, "/data/recipes.csv", job.SourcePath())
	assert.False(t, job.QueuedAt().IsZero())
	assert.Nil(t, job.StartedAt())
	assert.Nil(t, job.CompletedAt())
}

func TestNewJobValidation(t *testing.T) {
	_, err := NewJob("", "/data/recipes.csv")
	assert.ErrorIs(t, err, ErrEmptyName)

	_, err = NewJob("import", "")
	assert.ErrorIs(t, err, ErrEmptySource)
}

func TestLifecycleTransitions(t *testing.T) {
	job, err := NewJob("import", "/data/recipes.csv")
	require.NoError(t, err)

	require.NoError(t, job.Start())
	assert.Equal(t, StatusRunning, job.Status())
	assert.NotNil(t, job.StartedAt())

	// Running jobs cannot start again
	assert.ErrorIs(t, job.Start(), ErrInvalidTransition)

	require.NoError(t, job.Complete("done"))
	assert.Equal(t, StatusCompleted, job.Status())
	assert.Equal(t, "done", job.Message())
	assert.NotNil(t, job.CompletedAt())
}

func TestTerminalStatusIsNeverOverwritten(t *testing.T) {
	job, err := NewJob("import", "/data/recipes.csv")
	require.NoError(t, err)
	require.NoError(t, job.Start())
	require.NoError(t, job.Fail("source unreadable"))

	assert.ErrorIs(t, job.Complete("done"), ErrJobTerminal)
	assert.ErrorIs(t, job.Cancel("stop"), ErrJobTerminal)
	assert.Equal(t, StatusFailed, job.Status())
	assert.Equal(t, "source unreadable", job.Message())
}

func TestCancelFromRunning(t *testing.T) {
	job, err := NewJob("import", "/data/recipes.csv")
	require.NoError(t, err)
	require.NoError(t, job.Start())

	require.NoError(t, job.Cancel("canceled by request"))
	assert.Equal(t, StatusCanceled, job.Status())
	assert.True(t, job.Status().IsTerminal())
}

func TestCountersNeverExceedConsumedRows(t *testing.T) {
	job, err := NewJob("import", "/data/recipes.csv")
	require.NoError(t, err)

	job.ConsumeRow()
	job.ConsumeRow()
	job.ConsumeRow()

	require.NoError(t, job.AddImported(2))
	require.NoError(t, job.AddSkipped())
	assert.ErrorIs(t, job.AddErrored(), ErrCounterOverflow)
	assert.ErrorIs(t, job.AddImported(1), ErrCounterOverflow)

	assert.Equal(t, 3, job.TotalRows())
	assert.Equal(t, 2, job.Imported())
	assert.Equal(t, 1, job.Skipped())
	assert.Equal(t, 0, job.Errored())
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, StatusQueued.IsTerminal())
	assert.False(t, StatusRunning.IsTerminal())
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusFailed.IsTerminal())
	assert.True(t, StatusCanceled.IsTerminal())
}
