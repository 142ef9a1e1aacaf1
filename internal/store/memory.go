package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/danielpatrickdp/pairing-engine/internal/learning"
	"github.com/danielpatrickdp/pairing-engine/internal/track"
)

// #region memory-store

// MemoryStore implements Repository in process memory. It follows the same
// versioning rules as Store and is used by tests and dry runs.
type MemoryStore struct {
	mu          sync.Mutex
	tracks      map[string]track.DecisionTrack
	weights     map[string]learning.UserMatchWeights
	preferences map[string]learning.RevealedPreferences
	outcomes    map[string][]Outcome
	snapshots   []RankingSnapshot
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tracks:      make(map[string]track.DecisionTrack),
		weights:     make(map[string]learning.UserMatchWeights),
		preferences: make(map[string]learning.RevealedPreferences),
		outcomes:    make(map[string][]Outcome),
	}
}

// #endregion memory-store

// #region memory-tracks

func (m *MemoryStore) CreateTrack(_ context.Context, t track.DecisionTrack) (track.DecisionTrack, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tracks[t.ID]; ok {
		return track.DecisionTrack{}, fmt.Errorf("insert track: duplicate id %s", t.ID)
	}
	t.Version = 1
	m.tracks[t.ID] = t
	return t, nil
}

func (m *MemoryStore) GetTrack(_ context.Context, id string) (track.DecisionTrack, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tracks[id]
	if !ok {
		return track.DecisionTrack{}, fmt.Errorf("track %s: %w", id, ErrNotFound)
	}
	return t, nil
}

func (m *MemoryStore) SaveTrack(_ context.Context, t track.DecisionTrack) (track.DecisionTrack, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.tracks[t.ID]
	if !ok {
		return track.DecisionTrack{}, fmt.Errorf("track %s: %w", t.ID, ErrNotFound)
	}
	if cur.Version != t.Version {
		return track.DecisionTrack{}, fmt.Errorf("track %s at version %d: %w", t.ID, t.Version, ErrVersionConflict)
	}
	// identity fields are not updatable
	t.UserID, t.MatchID, t.CreatedAt = cur.UserID, cur.MatchID, cur.CreatedAt
	t.Version++
	m.tracks[t.ID] = t
	return t, nil
}

func (m *MemoryStore) ListTracks(_ context.Context, userID string) ([]track.DecisionTrack, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []track.DecisionTrack
	for _, t := range m.tracks {
		if userID == "" || t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// #endregion memory-tracks

// #region memory-weights

func (m *MemoryStore) GetWeights(_ context.Context, userID string) (learning.UserMatchWeights, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if w, ok := m.weights[userID]; ok {
		return w, nil
	}
	return learning.DefaultWeights(), nil
}

func (m *MemoryStore) PutWeights(_ context.Context, userID string, w learning.UserMatchWeights) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.weights[userID] = w
	return nil
}

// #endregion memory-weights

// #region memory-preferences

func (m *MemoryStore) GetPreferences(_ context.Context, userID string) (learning.RevealedPreferences, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.preferences[userID]
	if !ok {
		return learning.RevealedPreferences{}, fmt.Errorf("preferences for %s: %w", userID, ErrNotFound)
	}
	return p, nil
}

func (m *MemoryStore) PutPreferences(_ context.Context, p learning.RevealedPreferences) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.preferences[p.UserID] = p
	return nil
}

// #endregion memory-preferences

// #region memory-outcomes

func (m *MemoryStore) RecordOutcome(_ context.Context, o Outcome) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	m.outcomes[o.UserID] = append(m.outcomes[o.UserID], o)
	return nil
}

func (m *MemoryStore) ListOutcomes(_ context.Context, userID string) ([]learning.OutcomeRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []learning.OutcomeRow
	for _, o := range m.outcomes[userID] {
		out = append(out, learning.OutcomeRow{Candidate: o.Candidate, Messaged: o.Messaged})
	}
	return out, nil
}

// #endregion memory-outcomes

// #region memory-snapshots

func (m *MemoryStore) SaveSnapshot(_ context.Context, s RankingSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots = append(m.snapshots, s)
	return nil
}

func (m *MemoryStore) GetSnapshot(_ context.Context, id string) (RankingSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.snapshots {
		if s.ID == id {
			return s, nil
		}
	}
	return RankingSnapshot{}, fmt.Errorf("snapshot %s: %w", id, ErrNotFound)
}

func (m *MemoryStore) ListSnapshots(_ context.Context, userID string, limit int) ([]RankingSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []RankingSnapshot
	for i := len(m.snapshots) - 1; i >= 0 && len(out) < limit; i-- {
		if m.snapshots[i].UserID == userID {
			out = append(out, m.snapshots[i])
		}
	}
	return out, nil
}

// #endregion memory-snapshots

var (
	_ Repository = (*Store)(nil)
	_ Repository = (*MemoryStore)(nil)
)
