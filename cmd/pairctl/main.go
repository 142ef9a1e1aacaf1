package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/danielpatrickdp/pairing-engine/internal/config"
	"github.com/danielpatrickdp/pairing-engine/internal/learning"
	"github.com/danielpatrickdp/pairing-engine/internal/logging"
	"github.com/danielpatrickdp/pairing-engine/internal/profile"
	"github.com/danielpatrickdp/pairing-engine/internal/ranking"
	"github.com/danielpatrickdp/pairing-engine/internal/service"
	"github.com/danielpatrickdp/pairing-engine/internal/store"
	"github.com/danielpatrickdp/pairing-engine/internal/track"
)

const usage = `usage: pairctl [-config path] <command> [flags]

commands:
  track start -user ID -match ID
  track act   -id TRACK -action start|pause|resume|complete_reflection|advance_day|finish
  track show  -id TRACK
  rank    -pool pool.json        rank an onboarding pool and store a snapshot
  score   -pool pairs.json       learning-adjusted pairwise scores with reports
  outcome -file outcome.json     record a shown candidate and whether it was messaged
  learn   -profile me.json       recompute revealed preferences
  weights -user ID -file w.json  set match weights
`

// #region main
func main() {
	configPath := flag.String("config", "", "path to YAML config (default $PAIRING_CONFIG)")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	st, err := store.NewStore(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer st.Close()

	svc := service.New(cfg, st, logging.NewDBLogger(st.DB()), cfg.NewLogger())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var out any
	switch args[0] {
	case "track":
		out, err = runTrack(ctx, svc, st, args[1:])
	case "rank":
		out, err = runRank(ctx, svc, args[1:])
	case "score":
		out, err = runScore(ctx, svc, args[1:])
	case "outcome":
		out, err = runOutcome(ctx, svc, args[1:])
	case "learn":
		out, err = runLearn(ctx, svc, args[1:])
	case "weights":
		out, err = runWeights(ctx, svc, args[1:])
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("%s: %v", args[0], err)
	}
	if out != nil {
		if err := printJSON(out); err != nil {
			log.Fatalf("write output: %v", err)
		}
	}
}
// #endregion main

// #region track
func runTrack(ctx context.Context, svc *service.Service, st *store.Store, args []string) (any, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("missing subcommand (start|act|show)")
	}
	fs := flag.NewFlagSet("track "+args[0], flag.ExitOnError)
	userID := fs.String("user", "", "user id")
	matchID := fs.String("match", "", "match id")
	trackID := fs.String("id", "", "track id")
	action := fs.String("action", "", "action to apply")
	fs.Parse(args[1:])

	switch args[0] {
	case "start":
		return svc.StartTrack(ctx, *userID, *matchID)
	case "act":
		a, ok := track.ParseAction(*action)
		if !ok {
			return nil, fmt.Errorf("unknown action %q", *action)
		}
		return svc.ApplyAction(ctx, *trackID, a)
	case "show":
		t, err := st.GetTrack(ctx, *trackID)
		if err != nil {
			return nil, err
		}
		return service.ActionResult{Track: t, Applied: false, Prompt: track.PromptForDay(t.Day)}, nil
	default:
		return nil, fmt.Errorf("unknown subcommand %q", args[0])
	}
}
// #endregion track

// #region ranking
type rankInput struct {
	Current     ranking.OnboardingProfile   `json:"current"`
	Candidates  []ranking.OnboardingProfile `json:"candidates"`
	Calibration *ranking.Calibration        `json:"calibration,omitempty"`
}

func runRank(ctx context.Context, svc *service.Service, args []string) (any, error) {
	fs := flag.NewFlagSet("rank", flag.ExitOnError)
	pool := fs.String("pool", "", "path to pool JSON")
	fs.Parse(args)

	var in rankInput
	if err := readJSON(*pool, &in); err != nil {
		return nil, err
	}
	return svc.RankCandidates(ctx, in.Current, in.Candidates, in.Calibration)
}

type scoreInput struct {
	Current    profile.CompatibilityProfile   `json:"current"`
	Candidates []profile.CompatibilityProfile `json:"candidates"`
}

func runScore(ctx context.Context, svc *service.Service, args []string) (any, error) {
	fs := flag.NewFlagSet("score", flag.ExitOnError)
	pool := fs.String("pool", "", "path to pairwise pool JSON")
	fs.Parse(args)

	var in scoreInput
	if err := readJSON(*pool, &in); err != nil {
		return nil, err
	}
	return svc.ScoreCandidates(ctx, in.Current, in.Candidates)
}
// #endregion ranking

// #region learning
type outcomeInput struct {
	User      profile.CompatibilityProfile `json:"user"`
	Candidate profile.CompatibilityProfile `json:"candidate"`
	Messaged  bool                         `json:"messaged"`
}

func runOutcome(ctx context.Context, svc *service.Service, args []string) (any, error) {
	fs := flag.NewFlagSet("outcome", flag.ExitOnError)
	file := fs.String("file", "", "path to outcome JSON")
	fs.Parse(args)

	var in outcomeInput
	if err := readJSON(*file, &in); err != nil {
		return nil, err
	}
	if err := svc.RecordOutcome(ctx, in.User, in.Candidate, in.Messaged); err != nil {
		return nil, err
	}
	log.Printf("recorded outcome user=%s candidate=%s messaged=%v", in.User.UserID, in.Candidate.UserID, in.Messaged)
	return nil, nil
}

func runLearn(ctx context.Context, svc *service.Service, args []string) (any, error) {
	fs := flag.NewFlagSet("learn", flag.ExitOnError)
	file := fs.String("profile", "", "path to the user's stated profile JSON")
	fs.Parse(args)

	var stated profile.CompatibilityProfile
	if err := readJSON(*file, &stated); err != nil {
		return nil, err
	}
	return svc.RefreshPreferences(ctx, stated)
}

func runWeights(ctx context.Context, svc *service.Service, args []string) (any, error) {
	fs := flag.NewFlagSet("weights", flag.ExitOnError)
	userID := fs.String("user", "", "user id")
	file := fs.String("file", "", "path to weights JSON")
	fs.Parse(args)

	w := learning.DefaultWeights()
	if err := readJSON(*file, &w); err != nil {
		return nil, err
	}
	if err := svc.UpdateWeights(ctx, *userID, w); err != nil {
		return nil, err
	}
	return w, nil
}
// #endregion learning

// #region helpers
func readJSON(path string, v any) error {
	if path == "" {
		return fmt.Errorf("input file is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
// #endregion helpers
