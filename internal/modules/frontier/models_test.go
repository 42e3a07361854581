package frontier

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarketParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		params  MarketParams
		wantErr bool
	}{
		{"defaults", DefaultParams(), false},
		{"rho at lower bound", MarketParams{Sigma1: 0.1, Sigma2: 0.2, Rho: -1}, false},
		{"rho at upper bound", MarketParams{Sigma1: 0.1, Sigma2: 0.2, Rho: 1}, false},
		{"zero volatilities", MarketParams{Mu1: 0.05, Mu2: 0.07}, false},
		{"negative returns allowed", MarketParams{Mu1: -0.1, Mu2: -0.2, Sigma1: 0.1, Sigma2: 0.1}, false},
		{"rho out of range", MarketParams{Sigma1: 0.1, Sigma2: 0.2, Rho: 1.2}, true},
		{"negative sigma1", MarketParams{Sigma1: -0.01, Sigma2: 0.2}, true},
		{"negative sigma2", MarketParams{Sigma1: 0.01, Sigma2: -0.2}, true},
		{"NaN sigma", MarketParams{Sigma1: math.NaN(), Sigma2: 0.2}, true},
		{"infinite mu", MarketParams{Mu1: math.Inf(-1), Sigma1: 0.1, Sigma2: 0.2}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMarketParams_Covariance(t *testing.T) {
	params := MarketParams{Sigma1: 0.10, Sigma2: 0.15, Rho: 0.3}
	assert.InDelta(t, 0.0045, params.Covariance(), 1e-12)

	uncorrelated := MarketParams{Sigma1: 0.10, Sigma2: 0.15, Rho: 0}
	assert.InDelta(t, 0.0, uncorrelated.Covariance(), 1e-12)
}
