package service

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/pairing-engine/internal/config"
	"github.com/danielpatrickdp/pairing-engine/internal/learning"
	"github.com/danielpatrickdp/pairing-engine/internal/logging"
	"github.com/danielpatrickdp/pairing-engine/internal/profile"
	"github.com/danielpatrickdp/pairing-engine/internal/ranking"
	"github.com/danielpatrickdp/pairing-engine/internal/store"
	"github.com/danielpatrickdp/pairing-engine/internal/track"
)

// #region helpers

type recordingLogger struct {
	mu      sync.Mutex
	entries []logging.TransitionEntry
}

func (r *recordingLogger) LogTransition(e logging.TransitionEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	return nil
}

func newTestService(t *testing.T) (*Service, *store.MemoryStore, *recordingLogger) {
	t.Helper()
	repo := store.NewMemoryStore()
	rec := &recordingLogger{}
	return New(config.Default(), repo, rec, nil), repo, rec
}

func person(id string) profile.CompatibilityProfile {
	return profile.CompatibilityProfile{
		UserID:             id,
		PastAttribution:    profile.AttributionSelf,
		ConflictSpeed:      3,
		LoveExpressions:    []profile.LoveExpression{profile.ExpressionWords},
		SupportNeed:        profile.SupportPresence,
		EmotionalOpenness:  3,
		RelationshipVision: profile.VisionFriendship,
		GrowthIntention:    profile.GrowthPeace,
	}
}

func onboarding(id string, intent ranking.Intent) ranking.OnboardingProfile {
	return ranking.OnboardingProfile{
		UserID:            id,
		Intent:            intent,
		TimelineMonths:    12,
		Readiness:         4,
		WeeklyCapacity:    3,
		Location:          "porto",
		Tendencies:        ranking.Tendencies{Anxiety: 40, Avoidance: 30, ConflictRepair: 70, EmotionalRegulation: 60},
		Personality:       ranking.Personality{Openness: 60, Conscientiousness: 70, Extraversion: 50, Agreeableness: 65, Neuroticism: 35},
		NoveltyPreference: 50,
	}
}

// #endregion helpers

// #region track-tests

func TestStartTrack(t *testing.T) {
	svc, _, rec := newTestService(t)
	ctx := context.Background()

	res, err := svc.StartTrack(ctx, "u1", "m1")
	require.NoError(t, err)

	assert.True(t, res.Applied)
	assert.Equal(t, track.StateIntro, res.Track.State)
	assert.Equal(t, 1, res.Track.Day)
	assert.Equal(t, 2, res.Track.Version)
	assert.Equal(t, track.PromptForDay(1), res.Prompt)

	require.Len(t, rec.entries, 1)
	assert.Equal(t, "start", rec.entries[0].Action)
	assert.Equal(t, "not_started", rec.entries[0].FromState)
}

func TestStartTrackRequiresIDs(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.StartTrack(context.Background(), "", "m1")
	assert.Error(t, err)
}

func TestApplyActionNoOpIsSavedAndLogged(t *testing.T) {
	svc, repo, rec := newTestService(t)
	ctx := context.Background()
	started, err := svc.StartTrack(ctx, "u1", "m1")
	require.NoError(t, err)

	res, err := svc.ApplyAction(ctx, started.Track.ID, track.ActionFinish)
	require.NoError(t, err)

	assert.False(t, res.Applied)
	assert.Equal(t, track.StateIntro, res.Track.State)
	assert.Equal(t, started.Track.Version+1, res.Track.Version)

	stored, err := repo.GetTrack(ctx, started.Track.ID)
	require.NoError(t, err)
	assert.Equal(t, res.Track.Version, stored.Version)

	require.Len(t, rec.entries, 2)
	assert.False(t, rec.entries[1].Applied)
}

func TestApplyActionErrors(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.ApplyAction(ctx, "missing", track.ActionPause)
	assert.True(t, errors.Is(err, store.ErrNotFound))

	started, err := svc.StartTrack(ctx, "u1", "m1")
	require.NoError(t, err)
	_, err = svc.ApplyAction(ctx, started.Track.ID, track.Action("rewind"))
	assert.Error(t, err)
}

func TestConcurrentAdvanceNeverDoubleCounts(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()
	started, err := svc.StartTrack(ctx, "u1", "m1")
	require.NoError(t, err)

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		otherErrs []error
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.ApplyAction(ctx, started.Track.ID, track.ActionAdvanceDay)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case !errors.Is(err, store.ErrVersionConflict):
				otherErrs = append(otherErrs, err)
			}
		}()
	}
	wg.Wait()

	require.Empty(t, otherErrs)
	require.GreaterOrEqual(t, successes, 1)

	final, err := repo.GetTrack(ctx, started.Track.ID)
	require.NoError(t, err)
	assert.Equal(t, 1+successes, final.Day)
}

func TestTodayPrompt(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	started, err := svc.StartTrack(ctx, "u1", "m1")
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		_, err := svc.ApplyAction(ctx, started.Track.ID, track.ActionAdvanceDay)
		require.NoError(t, err)
	}
	prompt, err := svc.TodayPrompt(ctx, started.Track.ID)
	require.NoError(t, err)
	assert.Equal(t, track.PromptForDay(5), prompt)
}

// #endregion track-tests

// #region learning-tests

func TestRecordOutcomeRejectsInvalidCandidate(t *testing.T) {
	svc, _, _ := newTestService(t)
	bad := person("c1")
	bad.ConflictSpeed = 9
	err := svc.RecordOutcome(context.Background(), person("u1"), bad, true)
	assert.Error(t, err)
}

func TestRefreshPreferences(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	me := person("u1")
	me.EmotionalOpenness = 1
	for i := 0; i < 5; i++ {
		c := person("c")
		c.EmotionalOpenness = 5
		require.NoError(t, svc.RecordOutcome(ctx, me, c, true))
	}
	require.NoError(t, svc.RecordOutcome(ctx, me, person("x"), false))

	prefs, err := svc.RefreshPreferences(ctx, me)
	require.NoError(t, err)
	assert.Equal(t, 5, prefs.SampleSize)
	assert.Equal(t, 1, prefs.IgnoredCount)
	_, ok := prefs.Insight(learning.AxisEmotionalOpenness)
	assert.True(t, ok)

	stored, err := repo.GetPreferences(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, prefs.SampleSize, stored.SampleSize)
}

func TestUpdateWeights(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	bad := learning.DefaultWeights()
	bad.Vision = 4
	err := svc.UpdateWeights(ctx, "u1", bad)
	assert.True(t, errors.Is(err, learning.ErrInvalidWeights))

	good := learning.DefaultWeights()
	good.Attachment = 2
	require.NoError(t, svc.UpdateWeights(ctx, "u1", good))

	stored, err := repo.GetWeights(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, good, stored)

	other, err := repo.GetWeights(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, learning.DefaultWeights(), other)
}

// #endregion learning-tests

// #region scoring-tests

func TestScoreCandidatesOrdersAndSkipsInvalid(t *testing.T) {
	svc, _, _ := newTestService(t)
	me := person("u1")

	same := person("same")
	far := person("far")
	far.ConflictSpeed = 5
	far.EmotionalOpenness = 5
	far.RelationshipVision = profile.VisionIndependent
	far.SupportNeed = profile.SupportSpace
	invalid := person("invalid")
	invalid.SupportNeed = ""

	got, err := svc.ScoreCandidates(context.Background(), me, []profile.CompatibilityProfile{far, invalid, same})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "same", got[0].CandidateID)
	assert.Equal(t, "far", got[1].CandidateID)
	assert.Greater(t, got[0].Score, got[1].Score)
	for _, c := range got {
		require.NotNil(t, c.Report)
		assert.Equal(t, c.Score, c.Report.Score)
	}
}

func TestRankCandidatesStoresSnapshot(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	current := onboarding("u1", ranking.IntentLongTerm)
	pool := []ranking.OnboardingProfile{
		onboarding("c1", ranking.IntentLongTerm),
		onboarding("c2", ranking.IntentExploring),
	}
	current.Intent = ranking.IntentMarriageMinded

	snap, err := svc.RankCandidates(ctx, current, pool, nil)
	require.NoError(t, err)
	require.NotEmpty(t, snap.ID)
	require.Len(t, snap.Results, 2)
	assert.Equal(t, "c1", snap.Results[0].CandidateID)
	assert.False(t, snap.Results[1].HardFilterPass)

	stored, err := repo.ListSnapshots(ctx, "u1", 10)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, snap.ID, stored[0].ID)
}

func TestRankCandidatesCancelled(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.RankCandidates(ctx, onboarding("u1", ranking.IntentLongTerm), []ranking.OnboardingProfile{onboarding("c1", ranking.IntentLongTerm)}, nil)
	assert.Error(t, err)

	stored, _ := repo.ListSnapshots(context.Background(), "u1", 10)
	assert.Empty(t, stored)
}

// #endregion scoring-tests

// #region sqlite-tests

func TestServiceOnSQLite(t *testing.T) {
	st, err := store.NewStore(filepath.Join(t.TempDir(), "svc.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	svc := New(config.Default(), st, logging.NewDBLogger(st.DB()), nil)
	ctx := context.Background()

	started, err := svc.StartTrack(ctx, "u1", "m1")
	require.NoError(t, err)
	_, err = svc.ApplyAction(ctx, started.Track.ID, track.ActionPause)
	require.NoError(t, err)
	res, err := svc.ApplyAction(ctx, started.Track.ID, track.ActionAdvanceDay)
	require.NoError(t, err)
	assert.False(t, res.Applied)

	entries, err := logging.ListTransitions(st.DB(), started.Track.ID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "paused", entries[1].ToState)
	assert.False(t, entries[2].Applied)
}

// #endregion sqlite-tests
