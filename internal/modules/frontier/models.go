package frontier

import (
	"fmt"
	"math"
)

// fullyAllocatedTol is the numerical tolerance below which the residual
// allocation 1 - phi1 - phi2 is treated as exactly zero.
const fullyAllocatedTol = 1e-10

// MarketParams holds the six scalar market parameters driving a computation.
// Values are immutable once constructed; the covariance is derived, not stored.
type MarketParams struct {
	Mu1      float64 `json:"mu1"`    // Expected return of AVS1
	Mu2      float64 `json:"mu2"`    // Expected return of AVS2
	Sigma1   float64 `json:"sigma1"` // Volatility of AVS1, >= 0
	Sigma2   float64 `json:"sigma2"` // Volatility of AVS2, >= 0
	Rho      float64 `json:"rho"`    // Correlation between the AVSs, in [-1, 1]
	RiskFree float64 `json:"rf"`     // Risk-free borrowing/lending rate
}

// Covariance returns rho * sigma1 * sigma2.
func (p MarketParams) Covariance() float64 {
	return p.Rho * p.Sigma1 * p.Sigma2
}

// Validate rejects parameter sets for which the variance formulas are not
// well defined. With |rho| <= 1 and non-negative sigmas both variance forms
// are provably non-negative, so sqrt never sees a negative operand.
func (p MarketParams) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"mu1", p.Mu1},
		{"mu2", p.Mu2},
		{"sigma1", p.Sigma1},
		{"sigma2", p.Sigma2},
		{"rho", p.Rho},
		{"rf", p.RiskFree},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%s must be finite, got %g", f.name, f.value)
		}
	}

	if p.Sigma1 < 0 {
		return fmt.Errorf("sigma1 must be non-negative, got %g", p.Sigma1)
	}
	if p.Sigma2 < 0 {
		return fmt.Errorf("sigma2 must be non-negative, got %g", p.Sigma2)
	}
	if p.Rho < -1 || p.Rho > 1 {
		return fmt.Errorf("rho must be within [-1, 1], got %g", p.Rho)
	}

	return nil
}

// Point is a single attainable portfolio on one of the two surfaces.
// Weight is the color-coding scalar: the residual allocation 1 - phi1 - phi2
// for restaking points, the total exposure phi1 + phi2 for leveraged points.
type Point struct {
	Phi1           float64 `json:"phi1"`
	Phi2           float64 `json:"phi2"`
	ExpectedReturn float64 `json:"expected_return"`
	Volatility     float64 `json:"volatility"`
	Weight         float64 `json:"weight"`
	FullyAllocated bool    `json:"fully_allocated,omitempty"`
}

// SurfaceStats summarizes one surface for renderer scaling and API clients.
type SurfaceStats struct {
	Count         int     `json:"count"`
	MinVolatility float64 `json:"min_volatility"`
	MaxVolatility float64 `json:"max_volatility"`
	MinReturn     float64 `json:"min_return"`
	MaxReturn     float64 `json:"max_return"`
	MeanReturn    float64 `json:"mean_return"`
	MinWeight     float64 `json:"min_weight"`
	MaxWeight     float64 `json:"max_weight"`
}

// Surface is the full set of attainable portfolios for one strategy.
type Surface struct {
	Points []Point      `json:"points"`
	Stats  SurfaceStats `json:"stats"`
}

// Result pairs the two surfaces produced by a single computation.
// The restaking surface holds only valid points (phi1 + phi2 <= 1); the
// leveraged surface always holds the full grid_points^2 set.
type Result struct {
	Restaking  Surface `json:"restaking"`
	Leveraged  Surface `json:"leveraged"`
	GridPoints int     `json:"grid_points"`
}
