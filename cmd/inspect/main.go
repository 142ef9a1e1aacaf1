package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/danielpatrickdp/pairing-engine/internal/logging"
	"github.com/danielpatrickdp/pairing-engine/internal/replay"
	"github.com/danielpatrickdp/pairing-engine/internal/store"
	"github.com/danielpatrickdp/pairing-engine/internal/track"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to pairing.db")
	user := flag.String("user", "", "only show tracks and snapshots for this user")
	trackID := flag.String("track", "", "show single track detail with its transition log")
	snapshots := flag.Int("snapshots", 0, "show N most recent ranking snapshots for -user")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/pairing.db [--user id] [--track id] [--snapshots N] [--json]")
		os.Exit(2)
	}

	st, err := store.NewStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	ctx := context.Background()
	switch {
	case *trackID != "":
		err = runDetailMode(ctx, st, *trackID, *jsonOut)
	case *snapshots > 0:
		if *user == "" {
			fmt.Fprintln(os.Stderr, "--snapshots needs --user")
			os.Exit(2)
		}
		err = runSnapshotMode(ctx, st, *user, *snapshots, *jsonOut)
	default:
		err = runListMode(ctx, st, *user, *jsonOut)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region list-mode

type listRow struct {
	TrackID     string `json:"track_id"`
	UserID      string `json:"user_id"`
	MatchID     string `json:"match_id"`
	State       string `json:"state"`
	Day         int    `json:"day"`
	Reflections int    `json:"reflections"`
	Version     int    `json:"version"`
	UpdatedAt   string `json:"updated_at"`
}

func runListMode(ctx context.Context, st *store.Store, user string, jsonOut bool) error {
	tracks, err := st.ListTracks(ctx, user)
	if err != nil {
		return err
	}
	if len(tracks) == 0 {
		fmt.Fprintln(os.Stderr, "no tracks found")
		return nil
	}

	rows := make([]listRow, len(tracks))
	for i, t := range tracks {
		rows[i] = listRow{
			TrackID:     t.ID,
			UserID:      t.UserID,
			MatchID:     t.MatchID,
			State:       string(t.State),
			Day:         t.Day,
			Reflections: t.ReflectionCount,
			Version:     t.Version,
			UpdatedAt:   t.UpdatedAt.Format("2006-01-02T15:04:05Z"),
		}
	}

	if jsonOut {
		return printJSON(rows)
	}

	fmt.Printf("%-12s  %-12s  %-12s  %-20s  %3s  %5s  %s\n",
		"Track", "User", "Match", "State", "Day", "Refl", "Updated")
	fmt.Printf("%-12s+-%-12s+-%-12s+-%-20s+-%3s+-%5s+-%s\n",
		"------------", "------------", "------------", "--------------------", "---", "-----", "--------------------")
	for _, r := range rows {
		fmt.Printf("%-12s  %-12s  %-12s  %-20s  %3d  %5d  %s\n",
			shortID(r.TrackID), shortID(r.UserID), shortID(r.MatchID), r.State, r.Day, r.Reflections, r.UpdatedAt)
	}
	return nil
}

// #endregion list-mode

// #region detail-mode

type detailOutput struct {
	Track       track.DecisionTrack       `json:"track"`
	Prompt      string                    `json:"prompt"`
	Transitions []logging.TransitionEntry `json:"transitions"`
	Divergences []replay.Divergence       `json:"divergences,omitempty"`
}

func runDetailMode(ctx context.Context, st *store.Store, trackID string, jsonOut bool) error {
	t, err := st.GetTrack(ctx, trackID)
	if err != nil {
		return err
	}
	entries, err := logging.ListTransitions(st.DB(), trackID)
	if err != nil {
		return err
	}
	divs, err := replay.VerifyLog(entries)
	if err != nil {
		return err
	}

	out := detailOutput{
		Track:       t,
		Prompt:      track.PromptForDay(t.Day),
		Transitions: entries,
		Divergences: divs,
	}
	if jsonOut {
		return printJSON(out)
	}

	fmt.Printf("Track:      %s\n", t.ID)
	fmt.Printf("Pair:       %s -> %s\n", t.UserID, t.MatchID)
	fmt.Printf("State:      %s (day %d/%d)\n", t.State, t.Day, track.TotalDays)
	if t.State == track.StatePaused {
		fmt.Printf("Resumes to: %s\n", t.PreviousState)
	}
	fmt.Printf("Reflections:%d\n", t.ReflectionCount)
	fmt.Printf("Version:    %d\n", t.Version)
	fmt.Printf("Prompt:     %s\n", out.Prompt)

	fmt.Printf("\nTransitions (%d):\n", len(entries))
	for _, e := range entries {
		mark := "ok"
		if !e.Applied {
			mark = "no-op"
		}
		fmt.Printf("  %-20s  %-20s -> %-20s  d%-2d -> d%-2d  %s\n",
			e.Action, e.FromState, e.ToState, e.FromDay, e.ToDay, mark)
	}

	if len(divs) > 0 {
		fmt.Printf("\nReplay divergences (%d):\n", len(divs))
		for _, d := range divs {
			fmt.Printf("  step %d %s: logged %s, replayed %s\n", d.Step, d.Action, d.Expected, d.Replayed)
		}
	}
	return nil
}

// #endregion detail-mode

// #region snapshot-mode

func runSnapshotMode(ctx context.Context, st *store.Store, user string, limit int, jsonOut bool) error {
	snaps, err := st.ListSnapshots(ctx, user, limit)
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(snaps)
	}
	if len(snaps) == 0 {
		fmt.Fprintln(os.Stderr, "no snapshots found")
		return nil
	}

	for _, s := range snaps {
		fmt.Printf("Snapshot %s  %s  (%d candidates)\n", shortID(s.ID), s.CreatedAt.Format("2006-01-02T15:04:05Z"), len(s.Results))
		for i, r := range s.Results {
			status := "pass"
			if !r.HardFilterPass {
				status = "filtered"
			}
			fmt.Printf("  %2d. %-12s  %6.1f  %s\n", i+1, shortID(r.CandidateID), r.TotalScore, status)
		}
	}
	return nil
}

// #endregion snapshot-mode

// #region helpers

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// #endregion helpers
