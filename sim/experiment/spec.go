// Package experiment runs bandit solvers against a shared arm set as a set of
// independent, labelled runs (explicit runs plus an optional parameter sweep).
// It is a caller of the sim core: it owns arm construction and shuffling, RNG
// partitioning per run, and optional parallel execution of runs.
package experiment

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/bandit-sim/sim"
)

// specValidate checks struct-level constraints declared in validate tags.
var specValidate *validator.Validate

func init() {
	specValidate = validator.New()

	// Report YAML field names in validation errors.
	specValidate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Spec is the top-level experiment configuration.
// Loaded from YAML via LoadSpec(path).
type Spec struct {
	Seed           int64         `yaml:"seed"`
	ShuffleArms    bool          `yaml:"shuffle_arms"`
	NumSimulations int           `yaml:"num_simulations" validate:"gte=1"`
	Horizon        int           `yaml:"horizon" validate:"gte=1"`
	Arms           []sim.ArmSpec `yaml:"arms" validate:"required,min=1,dive"`
	Runs           []RunSpec     `yaml:"runs,omitempty" validate:"dive"`
	Sweep          *SweepSpec    `yaml:"sweep,omitempty"`
}

// RunSpec is one labelled solver configuration.
type RunSpec struct {
	Label  string           `yaml:"label" validate:"required"`
	Solver sim.SolverConfig `yaml:"solver"`
}

// SweepSpec expands into one run per value of the solver's tunable parameter
// (epsilon for epsilon-greedy, temperature for softmax). Each run is labelled with
// its parameter value.
type SweepSpec struct {
	Solver string    `yaml:"solver" validate:"required"`
	Values []float64 `yaml:"values" validate:"required,min=1"`
}

// DefaultSpec returns the classic softmax temperature sweep: four arms paying
// 0.1 and one paying 0.9, shuffled under seed 1, temperatures 0.1 through 0.5,
// 5000 simulations of 250 steps each.
func DefaultSpec() *Spec {
	means := []float64{0.1, 0.1, 0.1, 0.1, 0.9}
	arms := make([]sim.ArmSpec, len(means))
	for i, mu := range means {
		arms[i] = sim.ArmSpec{Type: "bernoulli", Params: map[string]float64{"p": mu}}
	}
	return &Spec{
		Seed:           1,
		ShuffleArms:    true,
		NumSimulations: 5000,
		Horizon:        250,
		Arms:           arms,
		Sweep: &SweepSpec{
			Solver: sim.SolverSoftmax,
			Values: []float64{0.1, 0.2, 0.3, 0.4, 0.5},
		},
	}
}

// LoadSpec reads and strictly parses a YAML experiment file (unknown fields are
// errors), then validates it.
func LoadSpec(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading experiment spec: %w", err)
	}
	var spec Spec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parsing experiment spec: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("experiment spec %s: %w", path, err)
	}
	return &spec, nil
}

// Validate checks field constraints, that every run's solver configuration is
// valid, and that run labels are unique after sweep expansion.
func (s *Spec) Validate() error {
	if err := specValidate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return fmt.Errorf("%s: %w", verrs.Error(), sim.ErrInvalidConfig)
		}
		return err
	}
	if s.Sweep != nil && sim.ParameterName(s.Sweep.Solver) == "" {
		return fmt.Errorf("sweep: solver %q has no tunable parameter: %w", s.Sweep.Solver, sim.ErrInvalidConfig)
	}

	plan, err := s.Plan()
	if err != nil {
		return err
	}
	if len(plan) == 0 {
		return fmt.Errorf("experiment defines no runs (set runs or sweep): %w", sim.ErrInvalidConfig)
	}
	seen := make(map[string]bool, len(plan))
	for _, run := range plan {
		if seen[run.Label] {
			return fmt.Errorf("duplicate run label %q: %w", run.Label, sim.ErrInvalidConfig)
		}
		seen[run.Label] = true
		if err := run.Solver.Validate(); err != nil {
			return fmt.Errorf("run %q: %w", run.Label, err)
		}
	}
	return nil
}

// Plan returns the explicit runs followed by the sweep's runs, in order.
func (s *Spec) Plan() ([]RunSpec, error) {
	plan := append([]RunSpec(nil), s.Runs...)
	if s.Sweep == nil {
		return plan, nil
	}
	base := sim.SolverConfig{Type: s.Sweep.Solver}
	for _, v := range s.Sweep.Values {
		cfg, err := base.WithParameter(v)
		if err != nil {
			return nil, fmt.Errorf("sweep: %w", err)
		}
		plan = append(plan, RunSpec{Label: formatValue(v), Solver: cfg})
	}
	return plan, nil
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
