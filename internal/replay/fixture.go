package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/danielpatrickdp/pairing-engine/internal/track"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture.
type Fixture struct {
	Description     string                  `json:"description"`
	Actions         []string                `json:"actions"`
	ExpectedResults []FixtureExpectedResult `json:"expected_results"`
}

// FixtureExpectedResult captures the expected track after each action.
type FixtureExpectedResult struct {
	State   string `json:"state"`
	Day     int    `json:"day"`
	Applied bool   `json:"applied"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	if len(f.ExpectedResults) != 0 && len(f.ExpectedResults) != len(f.Actions) {
		return nil, fmt.Errorf("fixture %s: %d actions but %d expected results", path, len(f.Actions), len(f.ExpectedResults))
	}
	return &f, nil
}

// ToActions validates and converts the fixture's action names.
func (f *Fixture) ToActions() ([]track.Action, error) {
	out := make([]track.Action, len(f.Actions))
	for i, s := range f.Actions {
		a, ok := track.ParseAction(s)
		if !ok {
			return nil, fmt.Errorf("action %d: unknown action %q", i+1, s)
		}
		out[i] = a
	}
	return out, nil
}

// #endregion fixture-loader
