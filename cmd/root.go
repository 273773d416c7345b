package cmd

import (
	"context"
	"os"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/bandit-sim/sim"
	"github.com/inference-sim/bandit-sim/sim/experiment"
)

var (
	logLevel string // Log verbosity level

	// CLI flags for the experiment
	configPath     string    // Experiment YAML file; flags below override it only when set explicitly
	seed           int64     // Seed for the experiment's random streams
	armMeans       []float64 // Bernoulli success probability per arm
	shuffleArms    bool      // Shuffle arm order under the seed before running
	numSimulations int       // Independent simulations per run
	horizon        int       // Time steps per simulation

	// CLI flags for the solver
	solverType  string    // Solver name
	solverPath  string    // Solver YAML file; replaces --solver/--epsilon/--temperature
	epsilon     float64   // Exploration probability (epsilon-greedy)
	temperature float64   // Softmax temperature
	sweepValues []float64 // Sweep the solver's parameter over these values, one run each

	// CLI flags for execution and output
	parallelism  int    // Max concurrently executing runs
	outputPath   string // TSV output path ("-" for stdout)
	printSummary bool   // Print per-run summary JSON after the run
	summarySteps bool   // Include per-step statistics in the summary
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "bandit-sim",
	Short: "Monte Carlo simulator for multi-armed bandit solvers",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

// runCmd executes the experiment using parameters from CLI flags or a config file
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run bandit solvers against Bernoulli arms and write trial records as TSV",
	Run: func(cmd *cobra.Command, args []string) {
		spec := buildSpec(cmd)
		if err := spec.Validate(); err != nil {
			logrus.Fatalf("Invalid experiment: %v", err)
		}

		logrus.Infof("Starting experiment: seed=%d, %d arms, %d simulations x %d steps",
			spec.Seed, len(spec.Arms), spec.NumSimulations, spec.Horizon)
		startTime := time.Now()

		res, err := experiment.Run(context.Background(), spec, experiment.Options{Parallelism: parallelism})
		if err != nil {
			logrus.Fatalf("Experiment failed: %v", err)
		}

		if err := writeResults(outputPath, res.Runs); err != nil {
			logrus.Fatalf("Failed to write results: %v", err)
		}
		if printSummary {
			printSummaries(os.Stdout, res.Runs, res.BestArm, summarySteps)
		}

		logrus.Infof("Simulation complete in %v.", time.Since(startTime))
	},
}

// buildSpec loads --config when given and applies explicitly set flags on top;
// otherwise it builds the experiment from flags alone.
func buildSpec(cmd *cobra.Command) *experiment.Spec {
	if configPath != "" {
		spec, err := experiment.LoadSpec(configPath)
		if err != nil {
			logrus.Fatalf("Failed to load experiment config: %v", err)
		}
		applyFlagOverrides(cmd, spec)
		return spec
	}

	spec := &experiment.Spec{
		Seed:           seed,
		ShuffleArms:    shuffleArms,
		NumSimulations: numSimulations,
		Horizon:        horizon,
		Arms:           bernoulliArmSpecs(armMeans),
	}
	if len(sweepValues) > 0 {
		spec.Sweep = &experiment.SweepSpec{Solver: solverType, Values: sweepValues}
		return spec
	}
	spec.Runs = []experiment.RunSpec{flagRun()}
	return spec
}

// applyFlagOverrides copies flags the user set explicitly into spec. Flag
// defaults never override values from the config file.
func applyFlagOverrides(cmd *cobra.Command, spec *experiment.Spec) {
	flags := cmd.Flags()
	if flags.Changed("seed") {
		spec.Seed = seed
	}
	if flags.Changed("shuffle-arms") {
		spec.ShuffleArms = shuffleArms
	}
	if flags.Changed("num-sims") {
		spec.NumSimulations = numSimulations
	}
	if flags.Changed("horizon") {
		spec.Horizon = horizon
	}
	if flags.Changed("arms") {
		spec.Arms = bernoulliArmSpecs(armMeans)
	}
	if flags.Changed("sweep") {
		spec.Runs = nil
		spec.Sweep = &experiment.SweepSpec{Solver: solverType, Values: sweepValues}
	} else if flags.Changed("solver") || flags.Changed("solver-config") {
		spec.Runs = []experiment.RunSpec{flagRun()}
		spec.Sweep = nil
	}
}

func bernoulliArmSpecs(means []float64) []sim.ArmSpec {
	specs := make([]sim.ArmSpec, len(means))
	for i, mu := range means {
		specs[i] = sim.ArmSpec{Type: "bernoulli", Params: map[string]float64{"p": mu}}
	}
	return specs
}

// flagRun builds the single run selected by --solver-config, or else by
// --solver with its parameter flag.
func flagRun() experiment.RunSpec {
	if solverPath != "" {
		cfg, err := sim.LoadSolverConfig(solverPath)
		if err != nil {
			logrus.Fatalf("Failed to load solver config: %v", err)
		}
		return labelledRun(*cfg)
	}
	return singleRun(solverType, epsilon, temperature)
}

// singleRun builds a run for solver, taking its parameter from eps or tau.
func singleRun(solver string, eps, tau float64) experiment.RunSpec {
	cfg := sim.SolverConfig{Type: solver}
	switch sim.ParameterName(solver) {
	case "epsilon":
		cfg.Epsilon = &eps
	case "temperature":
		cfg.Temperature = &tau
	}
	return labelledRun(cfg)
}

// labelledRun labels a run with its parameter value when the solver has one, so
// rows line up with sweep output; otherwise with the solver name.
func labelledRun(cfg sim.SolverConfig) experiment.RunSpec {
	switch {
	case cfg.Epsilon != nil:
		return experiment.RunSpec{Label: formatLabel(*cfg.Epsilon), Solver: cfg}
	case cfg.Temperature != nil:
		return experiment.RunSpec{Label: formatLabel(*cfg.Temperature), Solver: cfg}
	}
	return experiment.RunSpec{Label: cfg.Type, Solver: cfg}
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// registerRunFlags binds the run flags to cmd, resetting their variables to defaults.
func registerRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configPath, "config", "", "Path to experiment YAML file")
	cmd.Flags().Int64Var(&seed, "seed", 1, "Seed for the experiment's random streams")
	cmd.Flags().Float64SliceVar(&armMeans, "arms", []float64{0.1, 0.1, 0.1, 0.1, 0.9}, "Comma-separated Bernoulli arm means")
	cmd.Flags().BoolVar(&shuffleArms, "shuffle-arms", true, "Shuffle arm order under the seed before running")
	cmd.Flags().IntVar(&numSimulations, "num-sims", 5000, "Independent simulations per run")
	cmd.Flags().IntVar(&horizon, "horizon", 250, "Time steps per simulation")

	cmd.Flags().StringVar(&solverType, "solver", sim.SolverSoftmax, "Solver: epsilon-greedy, softmax, annealing-softmax, ucb1")
	cmd.Flags().StringVar(&solverPath, "solver-config", "", "Path to solver YAML file (type, epsilon, temperature); overrides --solver")
	cmd.Flags().Float64Var(&epsilon, "epsilon", 0.1, "Exploration probability for epsilon-greedy")
	cmd.Flags().Float64Var(&temperature, "temperature", 0.1, "Temperature for softmax")
	cmd.Flags().Float64SliceVar(&sweepValues, "sweep", nil, "Comma-separated values of the solver's parameter; one run per value")

	cmd.Flags().IntVar(&parallelism, "parallelism", runtime.NumCPU(), "Max concurrently executing runs")
	cmd.Flags().StringVar(&outputPath, "output", "results.tsv", "TSV output path (\"-\" for stdout)")
	cmd.Flags().BoolVar(&printSummary, "summary", false, "Print per-run summary JSON to stdout")
	cmd.Flags().BoolVar(&summarySteps, "summary-steps", false, "Include per-step statistics in the summary")
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	registerRunFlags(runCmd)

	// Attach subcommands to `root`
	rootCmd.AddCommand(runCmd)
}
