package planning

// SimulationConfig describes one retirement-planning simulation request.
// All rates are annual decimals; wealth figures are in the portfolio's
// currency.
type SimulationConfig struct {
	CurrentAge              int     `json:"current_age"`
	RetirementAge           int     `json:"retirement_age"`
	InitialWealth           float64 `json:"initial_wealth"`
	AnnualContribution      float64 `json:"annual_contribution"`
	ContributionGrowth      float64 `json:"contribution_growth"`
	DesiredRetirementIncome float64 `json:"desired_retirement_income"`
	WithdrawalRate          float64 `json:"withdrawal_rate"`
	InflationRate           float64 `json:"inflation_rate"`
	NumSimulations          int     `json:"num_simulations"`
	Seed                    *uint64 `json:"seed,omitempty"`
}

// PathParams are the inputs of one wealth-path simulation.
type PathParams struct {
	InitialWealth      float64
	AnnualContribution float64
	HorizonYears       int
	NumSimulations     int
	ContributionGrowth float64
	Seed               *uint64
}

// PercentileRow is one age's percentile trajectory snapshot.
type PercentileRow struct {
	Age int     `json:"age"`
	P10 float64 `json:"p10"`
	P25 float64 `json:"p25"`
	P50 float64 `json:"p50"`
	P75 float64 `json:"p75"`
	P90 float64 `json:"p90"`
}

// SimulationResult packages one full simulation run. It is produced wholesale
// per request and never mutated afterwards.
type SimulationResult struct {
	WealthPaths        [][]float64        `json:"wealth_paths,omitempty"`
	Ages               []int              `json:"ages"`
	Percentiles        []PercentileRow    `json:"percentiles"`
	FinalDistribution  map[string]float64 `json:"final_distribution"`
	ProbabilitySuccess float64            `json:"probability_success"`
	TargetWealth       float64            `json:"target_wealth"`
}
