package replay

import (
	"path/filepath"
	"testing"

	"github.com/danielpatrickdp/pairing-engine/internal/track"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// #region fixture-tests

// TestFixture_FullTrack replays the full_track fixture and compares every
// step against the expected state, day and applied flag.
func TestFixture_FullTrack(t *testing.T) {
	f, err := LoadFixture(filepath.Join("testdata", "full_track.json"))
	require.NoError(t, err)
	actions, err := f.ToActions()
	require.NoError(t, err)

	results := Replay(track.DecisionTrack{State: track.StateNotStarted}, actions)
	require.Len(t, results, len(f.ExpectedResults))
	for i, expected := range f.ExpectedResults {
		actual := results[i]
		assert.Equal(t, expected.State, string(actual.State), "step %d (%s) state", i+1, actual.Action)
		assert.Equal(t, expected.Day, actual.Day, "step %d (%s) day", i+1, actual.Action)
		assert.Equal(t, expected.Applied, actual.Applied, "step %d (%s) applied", i+1, actual.Action)
	}

	s := Summarize(results)
	assert.Equal(t, 22, s.TotalSteps)
	assert.Equal(t, 18, s.Applied)
	assert.Equal(t, 4, s.NoOps)
	assert.Equal(t, track.StateCompleted, s.FinalState)
	assert.Equal(t, 14, s.FinalDay)
	assert.Equal(t, 1, s.Reflections)
}

// TestLoadFixture_NotFound verifies error on missing file.
func TestLoadFixture_NotFound(t *testing.T) {
	_, err := LoadFixture("testdata/nonexistent.json")
	assert.Error(t, err)
}

func TestToActions_Unknown(t *testing.T) {
	f := &Fixture{Actions: []string{"start", "fast_forward"}}
	_, err := f.ToActions()
	assert.Error(t, err)
}

// #endregion fixture-tests
