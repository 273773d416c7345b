// Package sim provides the core Monte Carlo engine for multi-armed bandit
// experiments.
//
// # Reading Guide
//
// Start with these three files:
//   - arm.go: reward sources (Bernoulli, Gaussian, constant)
//   - solver.go: the Solver contract and the shared incremental-mean bookkeeping
//   - harness.go: the simulation loop that plays a solver against arms
//
// # Architecture
//
// The sim package holds the arms, the solvers and the harness; everything that
// coordinates several runs lives in sub-packages:
//   - sim/experiment/: YAML experiment specs, parameter sweeps, parallel runs
//   - sim/trace/: trial records, TSV encoding and run summaries
//
// # Key Interfaces
//
//   - Arm: draw a reward, report its mean and support
//   - Solver: select an arm, fold an observed reward into its estimates
//   - RewardBounded: optional; solvers that only accept rewards in a fixed range
//
// Randomness is always injected as *rand.Rand. PartitionedRNG derives
// independent, reproducible streams from one seed.
package sim
