package analysis

import (
	"errors"
	"fmt"
	"math"

	"github.com/michaWorku/news-sentiment-stock-analysis/models"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

var (
	// ErrInsufficientData is returned when fewer than two paired
	// observations survive the date join.
	ErrInsufficientData = errors.New("insufficient data for correlation")

	// ErrDegenerateInput is returned when either joined series has
	// zero variance.
	ErrDegenerateInput = errors.New("degenerate input: series has zero variance")
)

// AlignedPair is the inner join of two series on date. Rows where
// either value is NaN are dropped before it is built.
type AlignedPair struct {
	Dates []models.Date
	X     []float64
	Y     []float64
}

// Len returns the number of joined rows.
func (p AlignedPair) Len() int { return len(p.Dates) }

// JoinOnDate inner-joins two series on date, dropping rows where
// either value is NaN or the date is missing. Rows follow x's order.
func JoinOnDate(x, y models.TimeSeries) AlignedPair {
	lookup := make(map[models.Date]float64, len(y))
	for _, p := range y {
		if p.Date.IsZero() {
			continue
		}
		lookup[p.Date] = p.Value
	}

	var pair AlignedPair
	for _, p := range x {
		if p.Date.IsZero() {
			continue
		}
		yv, ok := lookup[p.Date]
		if !ok || math.IsNaN(p.Value) || math.IsNaN(yv) {
			continue
		}
		pair.Dates = append(pair.Dates, p.Date)
		pair.X = append(pair.X, p.Value)
		pair.Y = append(pair.Y, yv)
	}
	return pair
}

// Correlate joins the two series on date and computes the Pearson
// product-moment coefficient with a two-sided p-value under the null
// hypothesis of no linear association (t-test, n-2 degrees of
// freedom). There is no partial result: precondition failures return
// a wrapped sentinel error and a zero result.
func Correlate(x, y models.TimeSeries) (models.CorrelationResult, error) {
	pair := JoinOnDate(x, y)
	n := pair.Len()
	if n < 2 {
		return models.CorrelationResult{}, fmt.Errorf("joined series have %d overlapping observations: %w", n, ErrInsufficientData)
	}
	if isConstant(pair.X) {
		return models.CorrelationResult{}, fmt.Errorf("first series is constant over the joined range: %w", ErrDegenerateInput)
	}
	if isConstant(pair.Y) {
		return models.CorrelationResult{}, fmt.Errorf("second series is constant over the joined range: %w", ErrDegenerateInput)
	}

	r := stat.Correlation(pair.X, pair.Y, nil)
	// floating point can push a perfect fit a hair outside [-1, 1]
	r = math.Max(-1, math.Min(1, r))

	return models.CorrelationResult{
		Coefficient: r,
		PValue:      pValue(r, n),
		SampleSize:  n,
	}, nil
}

// pValue converts a correlation coefficient into a two-sided p-value
// via t = r*sqrt((n-2)/(1-r^2)). With n=2 the test has zero degrees
// of freedom and the p-value is 1 by convention.
func pValue(r float64, n int) float64 {
	if n == 2 {
		return 1.0
	}
	if math.Abs(r) == 1 {
		return 0.0
	}
	df := float64(n - 2)
	t := r * math.Sqrt(df/(1-r*r))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return 2 * dist.CDF(-math.Abs(t))
}

func isConstant(values []float64) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}
