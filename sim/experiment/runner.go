package experiment

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/inference-sim/bandit-sim/sim"
	"github.com/inference-sim/bandit-sim/sim/trace"
)

// Options controls how runs are executed. Results never depend on it.
type Options struct {
	// Parallelism caps concurrently executing runs. <= 0 means unlimited.
	Parallelism int
}

// Result is the outcome of an experiment.
type Result struct {
	ID      string    // random identifier for log correlation; not part of the output
	Arms    []sim.Arm // arms in the order the runs saw them (after shuffling)
	BestArm int       // index of the highest-mean arm in Arms
	Runs    []trace.LabeledRecords
}

// preparedRun is a run with its solver and harness already built on its own
// RNG stream.
type preparedRun struct {
	label   string
	solver  sim.Solver
	harness *sim.Harness
}

// Run executes every run of the experiment and returns their records in plan
// order. Each run draws from its own stream, derived from the experiment seed and
// the run label, so results are identical for any Parallelism.
func Run(ctx context.Context, spec *Spec, opts Options) (*Result, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	arms := make([]sim.Arm, len(spec.Arms))
	for i, as := range spec.Arms {
		a, err := sim.NewArm(as)
		if err != nil {
			return nil, fmt.Errorf("arm %d: %w", i, err)
		}
		arms[i] = a
	}

	prng := sim.NewPartitionedRNG(sim.NewSimulationKey(spec.Seed))
	if spec.ShuffleArms {
		shuffleArms(prng.ForSubsystem(sim.SubsystemArms), arms)
	}

	res := &Result{
		ID:      uuid.NewString(),
		Arms:    arms,
		BestArm: sim.BestArm(arms),
	}
	log := logrus.WithField("experiment_id", res.ID)
	log.Infof("Best arm is %d (mean %.3f)", res.BestArm, arms[res.BestArm].Mean())

	plan, err := spec.Plan()
	if err != nil {
		return nil, err
	}

	// PartitionedRNG is single-goroutine: derive every stream before fanning out.
	prepared := make([]preparedRun, len(plan))
	for i, rs := range plan {
		p, err := prepare(rs, spec, prng.ForSubsystem(sim.SubsystemRun(rs.Label)))
		if err != nil {
			return nil, fmt.Errorf("run %q: %w", rs.Label, err)
		}
		prepared[i] = p
	}

	res.Runs = make([]trace.LabeledRecords, len(prepared))
	g, gctx := errgroup.WithContext(ctx)
	if opts.Parallelism > 0 {
		g.SetLimit(opts.Parallelism)
	}
	for i, p := range prepared {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			runLog := log.WithField("run", p.label)
			runLog.Debug("run started")
			records, err := p.harness.Run(p.solver, arms)
			if err != nil {
				return fmt.Errorf("run %q: %w", p.label, err)
			}
			res.Runs[i] = trace.LabeledRecords{Label: p.label, Records: records}
			runLog.Debugf("run finished: %d records", len(records))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Infof("Experiment complete: %d runs", len(res.Runs))
	return res, nil
}

func prepare(rs RunSpec, spec *Spec, rng *rand.Rand) (preparedRun, error) {
	solver, err := sim.NewSolver(rs.Solver, rng)
	if err != nil {
		return preparedRun{}, err
	}
	h, err := sim.NewHarness(sim.HarnessConfig{
		NumSimulations: spec.NumSimulations,
		Horizon:        spec.Horizon,
	}, rng)
	if err != nil {
		return preparedRun{}, err
	}
	return preparedRun{label: rs.Label, solver: solver, harness: h}, nil
}

func shuffleArms(rng *rand.Rand, arms []sim.Arm) {
	rng.Shuffle(len(arms), func(i, j int) {
		arms[i], arms[j] = arms[j], arms[i]
	})
}
