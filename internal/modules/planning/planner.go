package planning

import (
	"github.com/rs/zerolog"

	"github.com/mfcastro/riskdash/internal/domain"
	"github.com/mfcastro/riskdash/internal/modules/portfolio"
)

// Planner orchestrates retirement-goal simulations: it derives the horizon
// and target wealth from the user's goals, runs the simulator and packages
// the summaries. No state is retained between invocations; a seeded run is
// fully reproducible.
type Planner struct {
	log zerolog.Logger
}

// NewPlanner creates a new planner
func NewPlanner(log zerolog.Logger) *Planner {
	return &Planner{
		log: log.With().Str("component", "planner").Logger(),
	}
}

// RunSimulation validates the goal parameters, simulates wealth paths for
// the target allocation and returns one immutable result.
func (p *Planner) RunSimulation(
	est *portfolio.Estimates,
	weights map[string]float64,
	cfg SimulationConfig,
) (*SimulationResult, error) {
	if cfg.RetirementAge <= cfg.CurrentAge {
		return nil, &domain.InvalidParameterError{
			Param: "retirementAge",
			Msg:   "must be greater than currentAge",
		}
	}
	if cfg.WithdrawalRate <= 0 {
		return nil, &domain.InvalidParameterError{
			Param: "withdrawalRate",
			Msg:   "must be positive",
		}
	}

	sim, err := NewSimulator(est, weights, cfg.InflationRate, p.log)
	if err != nil {
		return nil, err
	}

	horizonYears := cfg.RetirementAge - cfg.CurrentAge
	paths, err := sim.SimulateWealthPaths(PathParams{
		InitialWealth:      cfg.InitialWealth,
		AnnualContribution: cfg.AnnualContribution,
		HorizonYears:       horizonYears,
		NumSimulations:     cfg.NumSimulations,
		ContributionGrowth: cfg.ContributionGrowth,
		Seed:               cfg.Seed,
	})
	if err != nil {
		return nil, err
	}

	// Inclusive age axis [currentAge..retirementAge], one entry per column
	ages := make([]int, horizonYears+1)
	for i := range ages {
		ages[i] = cfg.CurrentAge + i
	}

	targetWealth := cfg.DesiredRetirementIncome / cfg.WithdrawalRate
	probability := probabilityOfTarget(paths, targetWealth)

	p.log.Info().
		Int("horizon_years", horizonYears).
		Int("simulations", cfg.NumSimulations).
		Float64("target_wealth", targetWealth).
		Float64("probability_success", probability).
		Msg("Simulation completed")

	return &SimulationResult{
		WealthPaths:        paths,
		Ages:               ages,
		Percentiles:        wealthPercentiles(paths, ages),
		FinalDistribution:  finalDistribution(paths),
		ProbabilitySuccess: probability,
		TargetWealth:       targetWealth,
	}, nil
}
