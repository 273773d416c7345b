package sim

import (
	"bytes"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Registered solver type names.
const (
	SolverEpsilonGreedy    = "epsilon-greedy"
	SolverSoftmax          = "softmax"
	SolverAnnealingSoftmax = "annealing-softmax"
	SolverUCB1             = "ucb1"
)

// validSolverTypes is the set of recognized solver type names.
// Shared by Validate() and NewSolver() to avoid duplication.
var validSolverTypes = map[string]bool{
	SolverEpsilonGreedy:    true,
	SolverSoftmax:          true,
	SolverAnnealingSoftmax: true,
	SolverUCB1:             true,
}

// IsValidSolverType reports whether name is a recognized solver type.
func IsValidSolverType(name string) bool {
	return validSolverTypes[name]
}

// ValidSolverTypeNames returns the recognized solver type names, sorted.
func ValidSolverTypeNames() []string {
	names := make([]string, 0, len(validSolverTypes))
	for name := range validSolverTypes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SolverConfig selects a solver and its parameters, loadable from YAML.
// Nil pointer fields mean "not set in YAML".
type SolverConfig struct {
	Type        string   `yaml:"type"`
	Epsilon     *float64 `yaml:"epsilon,omitempty"`
	Temperature *float64 `yaml:"temperature,omitempty"`
}

// ParameterName returns the name of the tunable parameter for a solver type,
// or "" when the type has none.
func ParameterName(solverType string) string {
	switch solverType {
	case SolverEpsilonGreedy:
		return "epsilon"
	case SolverSoftmax:
		return "temperature"
	default:
		return ""
	}
}

// WithParameter returns a copy of cfg with its tunable parameter set to v.
func (cfg SolverConfig) WithParameter(v float64) (SolverConfig, error) {
	switch cfg.Type {
	case SolverEpsilonGreedy:
		cfg.Epsilon = &v
	case SolverSoftmax:
		cfg.Temperature = &v
	default:
		return cfg, fmt.Errorf("solver %q has no tunable parameter: %w", cfg.Type, ErrInvalidConfig)
	}
	return cfg, nil
}

// LoadSolverConfig reads and strictly parses a YAML solver configuration file.
func LoadSolverConfig(path string) (*SolverConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading solver config: %w", err)
	}
	var cfg SolverConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing solver config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the solver type, that its required parameter is present and in
// range, and that no parameter belonging to another solver is set.
func (cfg SolverConfig) Validate() error {
	if !IsValidSolverType(cfg.Type) {
		return fmt.Errorf("unknown solver type %q (valid: %v): %w", cfg.Type, ValidSolverTypeNames(), ErrInvalidConfig)
	}
	switch cfg.Type {
	case SolverEpsilonGreedy:
		if cfg.Epsilon == nil {
			return fmt.Errorf("%s requires epsilon: %w", cfg.Type, ErrInvalidConfig)
		}
		if e := *cfg.Epsilon; math.IsNaN(e) || e < 0 || e > 1 {
			return fmt.Errorf("epsilon must be in [0, 1], got %v: %w", e, ErrInvalidConfig)
		}
	case SolverSoftmax:
		if cfg.Temperature == nil {
			return fmt.Errorf("%s requires temperature: %w", cfg.Type, ErrInvalidConfig)
		}
		if tau := *cfg.Temperature; math.IsNaN(tau) || math.IsInf(tau, 0) || tau <= 0 {
			return fmt.Errorf("temperature must be positive and finite, got %v: %w", tau, ErrInvalidConfig)
		}
	}
	if cfg.Epsilon != nil && cfg.Type != SolverEpsilonGreedy {
		return fmt.Errorf("epsilon is not a parameter of %s: %w", cfg.Type, ErrInvalidConfig)
	}
	if cfg.Temperature != nil && cfg.Type != SolverSoftmax {
		return fmt.Errorf("temperature is not a parameter of %s: %w", cfg.Type, ErrInvalidConfig)
	}
	return nil
}

// NewSolver creates a solver from its configuration. Randomized solvers draw from
// rng, which should be the same stream the arms draw from so that a single seed
// reproduces a whole run.
func NewSolver(cfg SolverConfig, rng *rand.Rand) (Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Type {
	case SolverEpsilonGreedy:
		return NewEpsilonGreedy(*cfg.Epsilon, rng)
	case SolverSoftmax:
		return NewSoftmax(*cfg.Temperature, rng)
	case SolverAnnealingSoftmax:
		return NewAnnealingSoftmax(rng)
	case SolverUCB1:
		return NewUCB1(), nil
	default:
		return nil, fmt.Errorf("unhandled solver type %q: %w", cfg.Type, ErrInvalidConfig)
	}
}
