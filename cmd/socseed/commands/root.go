package commands

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"socseed/internal/config"
	"socseed/internal/elastic"
	"socseed/internal/logging"
	"socseed/internal/scenario"
	"socseed/internal/seeder"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose     bool
	scenarioTag string
	randSeed    int64
	profilePath string
	dumpDir     string

	cfg *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "socseed",
	Short: "socseed populates Elasticsearch with fabricated incident-response demo data",
	Long: `A one-shot seeder that fills four indices (soc-logs, soc-metrics, soc-incidents,
soc-actions) with randomized logs, metrics and a static incident knowledge base,
biased toward a chosen failure scenario.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		var err error
		cfg, err = config.Load(profilePath)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}

		logging.Init(verbose, cfg.LogDir)

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Msg("socseed starting")
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := elastic.NewClient(cfg.Elastic)
		if err != nil {
			if errors.Is(err, elastic.ErrNoConnection) {
				log.Fatal().Msg("No Elasticsearch connection configured. Set ELASTICSEARCH_URL and " +
					"ELASTICSEARCH_API_KEY (or ELASTICSEARCH_CLOUD_ID) in the environment or a .env file.")
			}
			return err
		}

		scenarios, err := selectScenarios()
		if err != nil {
			return err
		}

		gen := newGenerator()
		s := seeder.New(client, gen, cfg.Profile.Counts)
		if dumpDir != "" {
			s = s.WithDump(dumpDir)
		}

		if err := s.Run(cmd.Context(), scenarios); err != nil {
			return err
		}

		log.Info().Msg("Seeding complete")
		return nil
	},
}

func newGenerator() *scenario.Generator {
	var gen *scenario.Generator
	if randSeed != 0 {
		gen = scenario.NewSeeded(randSeed)
		log.Info().Int64("seed", randSeed).Msg("Deterministic generation enabled")
	} else {
		gen = scenario.New()
	}
	gen.SetFleet(cfg.Profile.Services, cfg.Profile.Hosts)
	return gen
}

// selectScenarios resolves the --scenario flag, or falls back to the
// interactive menu. "all" (and any invalid menu input) seeds every scenario.
func selectScenarios() ([]scenario.Scenario, error) {
	if scenarioTag != "" {
		if scenarioTag == "all" {
			return scenario.All(), nil
		}
		sc, err := scenario.Parse(scenarioTag)
		if err != nil {
			return nil, err
		}
		return []scenario.Scenario{sc}, nil
	}

	return promptScenarios(os.Stdin)
}

func promptScenarios(in *os.File) ([]scenario.Scenario, error) {
	all := scenario.All()

	fmt.Println("Available demo scenarios:")
	for i, sc := range all {
		fmt.Printf("  %d. %s\n", i+1, sc)
	}
	fmt.Printf("  %d. ALL scenarios (combined)\n", len(all)+1)
	fmt.Printf("\nChoose scenario [1-%d, default=%d]: ", len(all)+1, len(all)+1)

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		// Non-interactive stdin (e.g. CI); seed everything.
		fmt.Println()
		return all, nil
	}

	choice := strings.TrimSpace(line)
	if choice == "" || choice == strconv.Itoa(len(all)+1) {
		return all, nil
	}

	idx, err := strconv.Atoi(choice)
	if err != nil || idx < 1 || idx > len(all) {
		log.Warn().Str("input", choice).Msg("Invalid choice, seeding all scenarios")
		return all, nil
	}

	return []scenario.Scenario{all[idx-1]}, nil
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.Flags().StringVar(&scenarioTag, "scenario", "", "scenario to seed (cpu_spike, oom_crash, cascading_failure, all); skips the prompt")
	rootCmd.Flags().Int64Var(&randSeed, "seed", 0, "optional RNG seed for reproducible data")
	rootCmd.Flags().StringVar(&profilePath, "profile", "", "path to a YAML generation profile")
	rootCmd.Flags().StringVar(&dumpDir, "dump", "", "also write generated batches as JSONL under this directory")
}
