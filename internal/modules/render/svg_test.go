package render

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/restaking-frontier/internal/modules/frontier"
)

func testResult(t *testing.T, nPoints int) *frontier.Result {
	t.Helper()

	calc := frontier.NewCalculator(zerolog.New(nil).Level(zerolog.Disabled))
	res, err := calc.Compute(frontier.DefaultParams(), nPoints)
	require.NoError(t, err)
	return res
}

func testRenderer() *Renderer {
	return NewRenderer(DefaultOptions(), zerolog.New(nil).Level(zerolog.Disabled))
}

func TestRender_Document(t *testing.T) {
	svg, err := testRenderer().Render(testResult(t, 11))
	require.NoError(t, err)

	doc := string(svg)
	assert.True(t, strings.HasPrefix(doc, `<?xml version="1.0"`))
	assert.Contains(t, doc, `<svg xmlns="http://www.w3.org/2000/svg" width="900" height="600"`)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(doc), "</svg>"))
}

func TestRender_LayerOrder(t *testing.T) {
	svg, err := testRenderer().Render(testResult(t, 11))
	require.NoError(t, err)

	doc := string(svg)
	restaking := strings.Index(doc, `id="restaking-layer"`)
	leveraged := strings.Index(doc, `id="leveraged-layer"`)
	fullyAllocated := strings.Index(doc, `id="fully-allocated-layer"`)

	require.NotEqual(t, -1, restaking)
	require.NotEqual(t, -1, leveraged)
	require.NotEqual(t, -1, fullyAllocated)

	// Solid fully allocated markers paint over both graded layers.
	assert.Less(t, restaking, leveraged)
	assert.Less(t, leveraged, fullyAllocated)
}

func TestRender_MarkerCount(t *testing.T) {
	res := testResult(t, 11)

	svg, err := testRenderer().Render(res)
	require.NoError(t, err)

	// Every point draws one circle; the legend adds three swatch circles.
	want := len(res.Restaking.Points) + len(res.Leveraged.Points) + 3
	assert.Equal(t, want, strings.Count(string(svg), "<circle"))
}

func TestRender_LabelsAndLegend(t *testing.T) {
	svg, err := testRenderer().Render(testResult(t, 5))
	require.NoError(t, err)

	doc := string(svg)
	for _, want := range []string{
		"Non-Leveraged vs Leveraged Portfolios: Expected Return vs Volatility",
		"Volatility (Standard Deviation)",
		"Expected Return",
		"Capital in both AVSs (1 - φ1 - φ2)",
		"Leverage (φ1 + φ2)",
		">Restaking<",
		"Restaking with (1 - φ1 - φ2)=0",
		">Leveraged<",
	} {
		assert.Contains(t, doc, want)
	}

	assert.Contains(t, doc, `fill="#6caed6"`)
	assert.Contains(t, doc, `fill="blue"`)
	assert.Contains(t, doc, `fill="#fb6b4b"`)
}

func TestRender_ColorbarGradients(t *testing.T) {
	svg, err := testRenderer().Render(testResult(t, 5))
	require.NoError(t, err)

	doc := string(svg)
	assert.Contains(t, doc, `<linearGradient id="capital-scale"`)
	assert.Contains(t, doc, `<linearGradient id="leverage-scale"`)
	assert.Contains(t, doc, `fill="url(#capital-scale)"`)
	assert.Contains(t, doc, `fill="url(#leverage-scale)"`)

	// Ramp extremes from the two sequential palettes.
	assert.Contains(t, doc, "#08306b")
	assert.Contains(t, doc, "#67000d")
}

func TestRender_LayerOpacity(t *testing.T) {
	svg, err := testRenderer().Render(testResult(t, 5))
	require.NoError(t, err)

	doc := string(svg)
	assert.Contains(t, doc, `id="restaking-layer" fill-opacity="0.8"`)
	assert.Contains(t, doc, `id="leveraged-layer" fill-opacity="0.1"`)
}

func TestRender_SinglePointGrid(t *testing.T) {
	res := testResult(t, 1)

	svg, err := testRenderer().Render(res)
	require.NoError(t, err)

	// One restaking point, one leveraged point, three legend swatches.
	assert.Equal(t, 5, strings.Count(string(svg), "<circle"))
}

func TestRender_EmptyResult(t *testing.T) {
	r := testRenderer()

	_, err := r.Render(nil)
	assert.Error(t, err)

	_, err = r.Render(&frontier.Result{})
	assert.Error(t, err)
}

func TestNewRenderer_ZeroOptionsFallBack(t *testing.T) {
	r := NewRenderer(Options{}, zerolog.New(nil).Level(zerolog.Disabled))

	svg, err := r.Render(testResult(t, 2))
	require.NoError(t, err)
	assert.Contains(t, string(svg), `width="900" height="600"`)
}

func TestPadded(t *testing.T) {
	tests := []struct {
		name     string
		min, max float64
		wantMin  float64
		wantMax  float64
	}{
		{"normal range", 0, 1, -0.05, 1.05},
		{"degenerate at zero", 0, 0, -0.05, 0.05},
		{"degenerate nonzero", 1, 1, 0.95, 1.05},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotMin, gotMax := padded(tt.min, tt.max)
			assert.InDelta(t, tt.wantMin, gotMin, 1e-12)
			assert.InDelta(t, tt.wantMax, gotMax, 1e-12)
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, 0.0, normalize(0, 0, 1))
	assert.Equal(t, 1.0, normalize(1, 0, 1))
	assert.Equal(t, 0.5, normalize(1, 0.5, 1.5))
	assert.Equal(t, 0.0, normalize(0.7, 0.7, 0.7))
}
