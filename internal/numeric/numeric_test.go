package numeric

import (
	"math"
	"testing"

	"github.com/cockroachdb/apd/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiv_BankersRounding(t *testing.T) {
	tests := []struct {
		name  string
		u, v  int64
		scale int32
		want  string
	}{
		{"exact", 1, 8, 3, "0.125"},
		{"half to even down", 1, 8, 2, "0.12"},
		{"half to even up", 27, 200, 2, "0.14"},
		{"whole", 10, 2, 1, "5.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Div(apd.New(tt.u, 0), apd.New(tt.v, 0), tt.scale)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Text('f'))
		})
	}
}

func TestDiv_ByZero(t *testing.T) {
	_, err := Div(apd.New(1, 0), apd.New(0, 0), DefaultScale)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDivisionByZero)
}

func TestMul_RoundsHalfToEven(t *testing.T) {
	got, err := Mul(FromFloat(1.5), FromFloat(1.5), 1)
	require.NoError(t, err)
	assert.Equal(t, "2.2", got.Text('f'))
}

func TestPowInt(t *testing.T) {
	tests := []struct {
		name     string
		base     *apd.Decimal
		exponent int64
		want     float64
	}{
		{"square and multiply", apd.New(2, 0), 10, 1024},
		{"exponent one", apd.New(7, 0), 1, 7},
		{"exponent zero", apd.New(7, 0), 0, 1},
		{"negative exponent", apd.New(2, 0), -2, 0.25},
		{"zero base", apd.New(0, 0), 5, 0},
		{"fractional base", FromFloat(1.5), 2, 2.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PowInt(tt.base, tt.exponent, 40)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, ToFloat(got), 1e-12)
		})
	}
}

func TestPow_RealExponent(t *testing.T) {
	got, err := Pow(apd.New(2, 0), 0.5, 40)
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt2, ToFloat(got), 1e-12)

	got, err = Pow(apd.New(10, 0), 2.5, 40)
	require.NoError(t, err)
	assert.InDelta(t, math.Pow(10, 2.5), ToFloat(got), 1e-9)
}

func TestPow_IntegerExponentDelegates(t *testing.T) {
	// An integral float exponent must not require a positive base.
	got, err := Pow(apd.New(-2, 0), 3, 40)
	require.NoError(t, err)
	assert.InDelta(t, -8, ToFloat(got), 1e-12)
}

func TestPow_ZeroBase(t *testing.T) {
	got, err := Pow(apd.New(0, 0), 1.5, 40)
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestExp(t *testing.T) {
	tests := []struct {
		name string
		u    float64
		want float64
	}{
		{"zero", 0, 1},
		{"one", 1, math.E},
		{"negative", -1, 1 / math.E},
		{"fraction", 0.5, math.Exp(0.5)},
		{"split integer and fraction", 2.5, math.Exp(2.5)},
		{"larger", 10, math.Exp(10)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Exp(FromFloat(tt.u), 40)
			require.NoError(t, err)
			assert.InEpsilon(t, tt.want, ToFloat(got), 1e-12)
		})
	}
}

func TestLn(t *testing.T) {
	tests := []struct {
		name string
		u    float64
		want float64
	}{
		{"of e", math.E, 1},
		{"small", 0.5, math.Log(0.5)},
		{"two digits", 42, math.Log(42)},
		{"root reduction path", 1000, math.Log(1000)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Ln(FromFloat(tt.u), 40)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, ToFloat(got), 1e-12)
		})
	}
}

func TestLn_DomainError(t *testing.T) {
	for _, u := range []float64{0, -1} {
		_, err := Ln(FromFloat(u), 40)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNonPositive)
	}
}

func TestRoot(t *testing.T) {
	got, err := Root(apd.New(27, 0), 3, 40)
	require.NoError(t, err)
	assert.InDelta(t, 3, ToFloat(got), 1e-12)

	got, err = Root(apd.New(2, 0), 2, 40)
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt2, ToFloat(got), 1e-12)

	got, err = Root(apd.New(0, 0), 5, 40)
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestExpLn_RoundTrip(t *testing.T) {
	for _, u := range []float64{0.25, 1, 2.5, 7.25} {
		e, err := Exp(FromFloat(u), 40)
		require.NoError(t, err)
		back, err := Ln(e, 40)
		require.NoError(t, err)
		assert.InDelta(t, u, ToFloat(back), 1e-12, "exp/ln round trip of %v", u)
	}
}

// The probabilistic factorial is not Gamma: it interpolates linearly between
// consecutive integer factorials, and the exact values below are intentional.
func TestProbabilisticFactorial(t *testing.T) {
	tests := []struct {
		u    float64
		want float64
	}{
		{0, 1},
		{1, 1},
		{2, 2},
		{4, 24},
		{0.5, 1},    // 1*(1-0.5) + 1*1*0.5
		{3.5, 15},   // 6*(1-0.5) + 6*4*0.5
		{2.25, 3},   // 2*(1-0.25) + 2*3*0.25
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, ProbabilisticFactorial(tt.u), 1e-12, "u=%v", tt.u)
	}
}

func TestProbabilisticFactorialBig_AgreesWithFloat(t *testing.T) {
	for _, u := range []float64{0, 0.5, 1, 2.25, 3.5, 4, 10} {
		big, err := ProbabilisticFactorialBig(u, DefaultScale)
		require.NoError(t, err)
		assert.InDelta(t, ProbabilisticFactorial(u), ToFloat(big), 1e-9, "u=%v", u)
	}
}

func TestFromFloat_RoundTrip(t *testing.T) {
	for _, f := range []float64{0, 1, -2.5, 0.1, 123456.789} {
		assert.Equal(t, f, ToFloat(FromFloat(f)))
	}
}
