package importjob

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/drivelot/inventory-api/internal/domain/model"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from model.ImportStatus
		to   model.ImportStatus
		want bool
	}{
		{model.ImportStatusUploaded, model.ImportStatusPreviewReady, true},
		{model.ImportStatusUploaded, model.ImportStatusFailed, true},
		{model.ImportStatusPreviewReady, model.ImportStatusCommitting, true},
		{model.ImportStatusPreviewReady, model.ImportStatusFailed, true},
		{model.ImportStatusCommitting, model.ImportStatusCommitted, true},
		{model.ImportStatusCommitting, model.ImportStatusFailed, true},

		// No skipping stages.
		{model.ImportStatusUploaded, model.ImportStatusCommitting, false},
		{model.ImportStatusUploaded, model.ImportStatusCommitted, false},
		{model.ImportStatusPreviewReady, model.ImportStatusCommitted, false},

		// No leaving terminal states.
		{model.ImportStatusCommitted, model.ImportStatusFailed, false},
		{model.ImportStatusFailed, model.ImportStatusUploaded, false},
		{model.ImportStatusFailed, model.ImportStatusCommitted, false},

		// No self-loops or backward edges.
		{model.ImportStatusCommitting, model.ImportStatusCommitting, false},
		{model.ImportStatusCommitting, model.ImportStatusPreviewReady, false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestRank_TerminalStatesShareTopRank(t *testing.T) {
	assert.Equal(t, Rank(model.ImportStatusCommitted), Rank(model.ImportStatusFailed))
	assert.Less(t, Rank(model.ImportStatusUploaded), Rank(model.ImportStatusPreviewReady))
	assert.Less(t, Rank(model.ImportStatusPreviewReady), Rank(model.ImportStatusCommitting))
	assert.Less(t, Rank(model.ImportStatusCommitting), Rank(model.ImportStatusCommitted))
	assert.Equal(t, -1, Rank(model.ImportStatus("bogus")))
}

func TestSupersedes(t *testing.T) {
	// Later stages replace earlier ones.
	assert.True(t, Supersedes(model.ImportStatusCommitting, model.ImportStatusPreviewReady))
	assert.True(t, Supersedes(model.ImportStatusFailed, model.ImportStatusUploaded))

	// Equal rank is kept: progress counters may have advanced.
	assert.True(t, Supersedes(model.ImportStatusCommitting, model.ImportStatusCommitting))
	assert.True(t, Supersedes(model.ImportStatusFailed, model.ImportStatusCommitted))

	// Stale snapshots never displace a later observation.
	assert.False(t, Supersedes(model.ImportStatusPreviewReady, model.ImportStatusCommitting))
	assert.False(t, Supersedes(model.ImportStatusUploaded, model.ImportStatusFailed))
	assert.False(t, Supersedes(model.ImportStatus("bogus"), model.ImportStatusUploaded))
}
