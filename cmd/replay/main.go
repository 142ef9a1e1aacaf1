package main

import (
	"context"
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
	dbPath := flag.String("db", "", "path to pairing.db (DB mode)")
	trackID := flag.String("track", "", "only verify this track (DB mode)")
	fixturePath := flag.String("fixture", "", "path to fixture JSON (fixture mode)")
	flag.Parse()

	if (*dbPath == "" && *fixturePath == "") || (*dbPath != "" && *fixturePath != "") {
		fmt.Fprintln(os.Stderr, "usage: replay --db path/to/pairing.db [--track id]")
		fmt.Fprintln(os.Stderr, "       replay --fixture path/to/fixture.json")
		os.Exit(2)
	}

	var exitCode int
	if *fixturePath != "" {
		exitCode = runFixtureMode(*fixturePath)
	} else {
		exitCode = runDBMode(*dbPath, *trackID)
	}
	os.Exit(exitCode)
}

// #endregion main

// #region db-mode

// runDBMode replays every logged track and reports entries the current state
// machine would not reproduce.
func runDBMode(dbPath, trackID string) int {
	st, err := store.NewStore(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		return 2
	}
	defer st.Close()

	ctx := context.Background()
	var ids []string
	if trackID != "" {
		ids = []string{trackID}
	} else {
		tracks, err := st.ListTracks(ctx, "")
		if err != nil {
			fmt.Fprintf(os.Stderr, "list tracks: %v\n", err)
			return 2
		}
		for _, t := range tracks {
			ids = append(ids, t.ID)
		}
	}
	if len(ids) == 0 {
		fmt.Fprintln(os.Stderr, "no tracks found")
		return 2
	}

	fmt.Printf("%-36s| %7s| %8s| %s\n", "Track", "Entries", "Diverge", "Final")
	fmt.Printf("%-36s+%8s+%9s+%s\n", "------------------------------------", "--------", "---------", "--------------------")

	total := 0
	for _, id := range ids {
		entries, err := logging.ListTransitions(st.DB(), id)
		if err != nil {
			fmt.Fprintf(os.Stderr, "list transitions %s: %v\n", id, err)
			return 2
		}
		divs, err := replay.VerifyLog(entries)
		if err != nil {
			fmt.Fprintf(os.Stderr, "verify %s: %v\n", id, err)
			return 2
		}
		final := "-"
		if n := len(entries); n > 0 {
			final = fmt.Sprintf("%s/d%d", entries[n-1].ToState, entries[n-1].ToDay)
		}
		fmt.Printf("%-36s| %7d| %8d| %s\n", id, len(entries), len(divs), final)
		for _, d := range divs {
			fmt.Printf("    step %d %s: logged %s, replayed %s\n", d.Step, d.Action, d.Expected, d.Replayed)
		}
		total += len(divs)
	}

	fmt.Printf("\nSummary: %d tracks, %d diverge\n", len(ids), total)
	if total > 0 {
		return 1
	}
	return 0
}

// #endregion db-mode

// #region fixture-mode

func runFixtureMode(path string) int {
	f, err := replay.LoadFixture(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load fixture: %v\n", err)
		return 2
	}
	actions, err := f.ToActions()
	if err != nil {
		fmt.Fprintf(os.Stderr, "fixture actions: %v\n", err)
		return 2
	}

	results := replay.Replay(track.DecisionTrack{State: track.StateNotStarted}, actions)
	return printComparison(results, f.ExpectedResults)
}

// printComparison outputs a comparison table and returns exit code.
func printComparison(results []replay.ReplayResult, expected []replay.FixtureExpectedResult) int {
	fmt.Printf("%-5s| %-20s| %-26s| %-26s| %s\n", "Step", "Action", "Expected", "Replayed", "Match")
	fmt.Printf("%-5s+%-21s+%-27s+%-27s+%s\n",
		"-----", "---------------------", "---------------------------", "---------------------------", "------")

	matches := 0
	total := len(results)
	if len(expected) < total {
		total = len(expected)
	}

	for i := 0; i < total; i++ {
		r := results[i]
		exp := fmt.Sprintf("%s/d%d %s", expected[i].State, expected[i].Day, appliedMark(expected[i].Applied))
		got := fmt.Sprintf("%s/d%d %s", r.State, r.Day, appliedMark(r.Applied))
		match := "DIFF"
		if exp == got {
			match = "OK"
			matches++
		}
		fmt.Printf("%-5d| %-20s| %-26s| %-26s| %s\n", r.Step, r.Action, exp, got, match)
	}

	s := replay.Summarize(results)
	diverge := total - matches
	fmt.Printf("\nSummary: %d total, %d match, %d diverge (applied=%d no-op=%d final=%s/d%d)\n",
		total, matches, diverge, s.Applied, s.NoOps, s.FinalState, s.FinalDay)

	if diverge > 0 {
		return 1
	}
	return 0
}

func appliedMark(applied bool) string {
	if applied {
		return "+"
	}
	return "."
}

// #endregion fixture-mode
