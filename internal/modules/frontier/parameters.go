package frontier

// Grid resolution limits. The default matches the interactive analysis page;
// the cap keeps a single request's O(n^2) work and payload bounded.
const (
	DefaultGridPoints = 105
	MaxGridPoints     = 300
)

// Slider describes one UI control of the parameter source. Bounds and steps
// are presentation-layer guardrails; the calculator itself accepts any
// validated parameter set.
type Slider struct {
	Name    string  `json:"name"`
	Label   string  `json:"label"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Step    float64 `json:"step"`
	Default float64 `json:"default"`
}

// Sliders returns the six parameter controls in display order.
func Sliders() []Slider {
	return []Slider{
		{Name: "mu1", Label: "Expected Return AVS1 (μ₁)", Min: 0.0, Max: 0.20, Step: 0.01, Default: 0.05},
		{Name: "mu2", Label: "Expected Return AVS2 (μ₂)", Min: 0.0, Max: 0.20, Step: 0.01, Default: 0.07},
		{Name: "sigma1", Label: "Volatility AVS1 (σ₁)", Min: 0.01, Max: 0.50, Step: 0.01, Default: 0.10},
		{Name: "sigma2", Label: "Volatility AVS2 (σ₂)", Min: 0.01, Max: 0.50, Step: 0.01, Default: 0.15},
		{Name: "rf", Label: "Risk-Free Rate", Min: 0.0, Max: 0.10, Step: 0.01, Default: 0.02},
		{Name: "rho", Label: "Correlation (ρ)", Min: -1.0, Max: 1.0, Step: 0.1, Default: 0.3},
	}
}

// DefaultParams returns the slider defaults as a parameter set.
func DefaultParams() MarketParams {
	return MarketParams{
		Mu1:      0.05,
		Mu2:      0.07,
		Sigma1:   0.10,
		Sigma2:   0.15,
		Rho:      0.3,
		RiskFree: 0.02,
	}
}
