package cmd

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sicilly/simfaas/sim"
	"github.com/sicilly/simfaas/sim/trace"
)

var (
	// CLI flags for a single simulation run
	arrivalRate         float64 // request arrival rate (requests per second)
	coldServiceRate     float64 // service rate of cold-start invocations
	warmServiceRate     float64 // service rate of warm-start invocations
	expirationThreshold float64 // idle seconds before an instance expires
	maxTime             float64 // simulated horizon in seconds
	seed                int64   // master seed for the partitioned random source
	logLevel            string  // log verbosity
	traceLevel          string  // per-event trace level: none or events

	scenarioConfig string // path to a YAML scenario file
)

// envDefaults holds flag defaults the environment may override. Explicit
// flags still win over both the environment and the built-in default.
type envDefaults struct {
	LogLevel string `env:"SIMFAAS_LOG_LEVEL" envDefault:"info"`
	Seed     int64  `env:"SIMFAAS_SEED" envDefault:"42"`
}

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "simfaas",
	Short: "Discrete-event simulator for serverless cold and warm starts",
	Long: `simfaas replays the lifecycle of autoscaled function instances:
cold starts, warm starts, idle expiration, and the steady-state cost of
keeping capacity around. Runs are reproducible under a fixed seed.`,
}

func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// runConfig assembles a simulation config from the run command's flags.
func runConfig() sim.Config {
	cfg := sim.DefaultConfig()
	cfg.ArrivalRate = arrivalRate
	cfg.ColdServiceRate = coldServiceRate
	cfg.WarmServiceRate = warmServiceRate
	cfg.ExpirationThreshold = expirationThreshold
	cfg.MaxTime = maxTime
	cfg.Seed = seed
	cfg.TraceLevel = trace.Level(traceLevel)
	return cfg
}

// executeRun drives one simulation to completion and prints its results.
func executeRun(cfg sim.Config) {
	simulator, err := sim.NewServerlessSimulator(cfg)
	if err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}

	start := time.Now()
	if err := simulator.GenerateTrace(); err != nil {
		logrus.Fatalf("simulation failed: %v", err)
	}
	logrus.Infof("simulation finished in %s", time.Since(start))

	simulator.Metrics().Print()
	if simulator.Trace().Enabled() {
		printTraceSummary(trace.Summarize(simulator.Trace()))
	}
}

func printTraceSummary(sum *trace.Summary) {
	fmt.Printf("Trace: %d events (%d cold starts, %d warm starts, %d departures, %d expirations)\n",
		sum.TotalEvents, sum.ColdStarts, sum.WarmStarts, sum.Departures, sum.Expirations)
	fmt.Printf("  peak live %d, peak running %d, peak idle %d\n",
		sum.PeakLive, sum.PeakRunning, sum.PeakIdle)
}

// runCmd runs one simulation built entirely from flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one simulation from flags",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()
		executeRun(runConfig())
	},
}

// scenariosCmd runs every scenario declared in a YAML file
var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "Run every scenario in a YAML scenario file",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		file, err := sim.LoadScenarioFile(scenarioConfig)
		if err != nil {
			logrus.Fatalf("unable to read scenario file: %v", err)
		}
		if err := file.Validate(); err != nil {
			logrus.Fatalf("invalid scenario file: %v", err)
		}

		for i := range file.Scenarios {
			scenario := &file.Scenarios[i]
			fmt.Printf("=== scenario %s ===\n", scenario.Name)
			if scenario.Description != "" {
				fmt.Printf("%s\n", scenario.Description)
			}
			cfg, err := scenario.ToConfig()
			if err != nil {
				logrus.Fatalf("scenario %q: %v", scenario.Name, err)
			}
			executeRun(cfg)
		}
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Fatalf("Command execution failed: %v", err)
	}
}

func init() {
	defaults := envDefaults{}
	if err := env.Parse(&defaults); err != nil {
		logrus.Fatalf("unable to parse environment defaults: %v", err)
	}

	runCmd.Flags().Float64Var(&arrivalRate, "arrival-rate", 1.0, "Request arrival rate in requests per second")
	runCmd.Flags().Float64Var(&coldServiceRate, "cold-service-rate", 1.0, "Service rate of cold-start invocations")
	runCmd.Flags().Float64Var(&warmServiceRate, "warm-service-rate", 2.0, "Service rate of warm-start invocations")
	runCmd.Flags().Float64Var(&expirationThreshold, "expiration-threshold", sim.DefaultExpirationThreshold, "Idle seconds before an instance expires")
	runCmd.Flags().Float64Var(&maxTime, "max-time", sim.DefaultMaxTime, "Simulated horizon in seconds")
	runCmd.Flags().Int64Var(&seed, "seed", defaults.Seed, "Master seed for the partitioned random source")
	runCmd.Flags().StringVar(&logLevel, "log", defaults.LogLevel, "Log level (debug, info, warning, error)")
	runCmd.Flags().StringVar(&traceLevel, "trace", string(trace.LevelNone), "Per-event trace level (none, events)")

	scenariosCmd.Flags().StringVar(&scenarioConfig, "config", "", "Path to a YAML scenario file")
	scenariosCmd.Flags().StringVar(&logLevel, "log", defaults.LogLevel, "Log level (debug, info, warning, error)")
	_ = scenariosCmd.MarkFlagRequired("config")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(scenariosCmd)
}
