// Package main provides a command-line tool that runs facet assessments over an
// evidence file and prints the results as JSON.
//
// Usage:
//
//	facetscope -evidence sessions.json [-session id] [-previous work] [-turn 3]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/thebtf/facetscope/internal/assessment"
	"github.com/thebtf/facetscope/internal/config"
	"github.com/thebtf/facetscope/internal/evidence"
	"github.com/thebtf/facetscope/pkg/models"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	evidencePath := flag.String("evidence", "", "Evidence file (JSON or YAML)")
	settingsPath := flag.String("settings", "", "Settings file (defaults to ~/.facetscope/settings.json)")
	session := flag.String("session", "", "Session to assess (default: every session in the file)")
	previous := flag.String("previous", "", "Domain probed on the previous turn")
	turn := flag.Int("turn", 0, "Turn counter, rotates cold-start seeds")
	watch := flag.Bool("watch", false, "Re-run whenever the settings file changes")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	// stdout carries the JSON result, so log to stderr
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Str("run", uuid.NewString()).Logger()

	cfg, err := loadConfig(*settingsPath)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load config, using defaults")
	}

	if *evidencePath == "" {
		*evidencePath = cfg.EvidencePath
	}
	if *evidencePath == "" {
		log.Fatal().Msg("--evidence is required")
	}

	prev := models.LifeDomain(*previous)
	if prev != "" && !prev.IsValid() {
		log.Fatal().Str("previous", *previous).Msg("unknown domain")
	}

	store, err := evidence.LoadFile(*evidencePath, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load evidence")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sessions := []string{*session}
	if *session == "" {
		sessions = store.Sessions()
	}

	assessor := assessment.NewAssessor(store, cfg.Formula, log.Logger)
	if err := run(ctx, assessor, sessions, prev, *turn); err != nil {
		log.Fatal().Err(err).Msg("Assessment failed")
	}
	if !*watch {
		return
	}

	path := *settingsPath
	if path == "" {
		path = config.SettingsPath()
		if err := config.EnsureAll(); err != nil {
			log.Fatal().Err(err).Msg("Failed to create settings")
		}
	}
	log.Info().Str("settings", path).Msg("Watching settings for changes")
	err = config.Watch(ctx, path, log.Logger, func(c *config.Config) {
		assessor.UpdateConfig(c.Formula)
		if err := run(ctx, assessor, sessions, prev, *turn); err != nil {
			log.Error().Err(err).Msg("Assessment failed")
		}
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Settings watcher failed")
	}
}

// run assesses every session and writes the results to stdout.
func run(ctx context.Context, assessor *assessment.Assessor, sessions []string, prev models.LifeDomain, turn int) error {
	results := make([]*assessment.Assessment, 0, len(sessions))
	for _, id := range sessions {
		result, err := assessor.Assess(ctx, assessment.Request{
			SessionID:      id,
			PreviousDomain: prev,
			Turn:           turn,
		})
		if err != nil {
			return fmt.Errorf("session %s: %w", id, err)
		}
		results = append(results, result)
	}

	log.Info().
		Str("version", Version).
		Int("sessions", len(results)).
		Msg("Assessment complete")

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

func loadConfig(path string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path == "" {
		cfg, err = config.Load()
	} else {
		cfg, err = config.LoadFile(path)
	}
	if cfg == nil {
		cfg = config.Default()
	}
	return cfg, err
}
