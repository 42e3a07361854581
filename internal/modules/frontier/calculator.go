// Package frontier computes the attainable risk/return surfaces of two
// strategies over a two-dimensional allocation grid: restaking into two AVSs
// versus a leveraged portfolio borrowing at the risk-free rate.
package frontier

import (
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Calculator evaluates the closed-form return/variance formulas at every
// grid point. It is stateless; concurrent Compute calls share nothing.
type Calculator struct {
	log zerolog.Logger
}

// NewCalculator creates a new frontier calculator
func NewCalculator(log zerolog.Logger) *Calculator {
	return &Calculator{
		log: log.With().Str("service", "frontier").Logger(),
	}
}

// Compute evaluates both surfaces for the given parameters over an
// nPoints x nPoints grid of allocation pairs.
//
// Mathematical formulation, per allocation pair (phi1, phi2):
//   - restaking:  E = mu1*(1-phi2) + mu2*(1-phi1), Var = w'Σw with
//     w = (1-phi2, 1-phi1); valid only on the simplex phi1 + phi2 <= 1
//   - leveraged:  E = phi1*mu1 + phi2*mu2 + (1-phi1-phi2)*rf, Var = w'Σw
//     with w = (phi1, phi2); every grid pair is attainable
//
// Σ is the 2x2 covariance matrix [[sigma1^2, cov], [cov, sigma2^2]] with
// cov = rho * sigma1 * sigma2.
func (c *Calculator) Compute(params MarketParams, nPoints int) (*Result, error) {
	start := time.Now()

	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if nPoints < 1 {
		return nil, fmt.Errorf("grid must have at least 1 point per axis, got %d", nPoints)
	}

	cov := params.Covariance()
	sigma := mat.NewSymDense(2, []float64{
		params.Sigma1 * params.Sigma1, cov,
		cov, params.Sigma2 * params.Sigma2,
	})

	phi := unitInterval(nPoints)

	restaking := make([]Point, 0, nPoints*nPoints)
	leveraged := make([]Point, 0, nPoints*nPoints)

	for i := 0; i < nPoints; i++ {
		for j := 0; j < nPoints; j++ {
			phi1 := phi[i]
			phi2 := phi[j]
			residual := 1 - phi1 - phi2

			if phi1+phi2 <= 1 {
				w := []float64{1 - phi2, 1 - phi1}
				restaking = append(restaking, Point{
					Phi1:           phi1,
					Phi2:           phi2,
					ExpectedReturn: params.Mu1*(1-phi2) + params.Mu2*(1-phi1),
					Volatility:     volatility(portfolioVariance(sigma, w)),
					Weight:         residual,
					FullyAllocated: math.Abs(residual) < fullyAllocatedTol,
				})
			}

			w := []float64{phi1, phi2}
			leveraged = append(leveraged, Point{
				Phi1:           phi1,
				Phi2:           phi2,
				ExpectedReturn: phi1*params.Mu1 + phi2*params.Mu2 + residual*params.RiskFree,
				Volatility:     volatility(portfolioVariance(sigma, w)),
				Weight:         phi1 + phi2,
			})
		}
	}

	result := &Result{
		Restaking:  buildSurface(restaking),
		Leveraged:  buildSurface(leveraged),
		GridPoints: nPoints,
	}

	c.log.Debug().
		Int("grid_points", nPoints).
		Int("restaking_count", len(restaking)).
		Int("leveraged_count", len(leveraged)).
		Dur("duration_ms", time.Since(start)).
		Msg("Computed frontier surfaces")

	return result, nil
}

// unitInterval returns n evenly spaced samples over the closed interval
// [0, 1]. A single-sample grid collapses to the origin.
func unitInterval(n int) []float64 {
	vals := make([]float64, n)
	if n == 1 {
		return vals
	}
	floats.Span(vals, 0, 1)
	return vals
}

// portfolioVariance evaluates the quadratic form w'Σw.
func portfolioVariance(sigma *mat.SymDense, w []float64) float64 {
	var variance float64
	for i := 0; i < len(w); i++ {
		for j := 0; j < len(w); j++ {
			variance += w[i] * w[j] * sigma.At(i, j)
		}
	}
	return variance
}

// volatility converts a variance into a standard deviation. The expanded
// quadratic form can float a few ulps below zero at rho = ±1, so tiny
// negative values are treated as zero.
func volatility(variance float64) float64 {
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance)
}

// buildSurface wraps a point slice with its summary statistics.
func buildSurface(points []Point) Surface {
	stats := SurfaceStats{Count: len(points)}
	if len(points) > 0 {
		vols := make([]float64, len(points))
		rets := make([]float64, len(points))
		weights := make([]float64, len(points))
		for i, p := range points {
			vols[i] = p.Volatility
			rets[i] = p.ExpectedReturn
			weights[i] = p.Weight
		}

		stats.MinVolatility = floats.Min(vols)
		stats.MaxVolatility = floats.Max(vols)
		stats.MinReturn = floats.Min(rets)
		stats.MaxReturn = floats.Max(rets)
		stats.MeanReturn = stat.Mean(rets, nil)
		stats.MinWeight = floats.Min(weights)
		stats.MaxWeight = floats.Max(weights)
	}

	return Surface{Points: points, Stats: stats}
}
