package money

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Amount
	}{
		{"42.50", 4250},
		{"42.5", 4250},
		{"-3", -300},
		{"0.005", 1},
		{"10.994", 1099},
		{"0e10000000", 0},
		{"1.5e2", 15000},
		{"92233720368547758.07", Amount(math.MaxInt64)},
		{"-92233720368547758.08", Amount(math.MinInt64)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	inputs := []string{
		"", "abc", "1e400",
		"1e10000000", "-1e10000000", "1e-10000000",
		"92233720368547758.08", "-92233720368547758.09",
		strings.Repeat("9", 40),
	}
	for _, in := range inputs {
		_, err := Parse(in)
		assert.ErrorIs(t, err, ErrInvalidAmount, "input %q", in)
	}
}

func TestUnmarshalJSON_HugeExponentFailsFast(t *testing.T) {
	for _, in := range []string{"1e1000000000", "-1e1000000000", "1e-1000000000", "123.456e999999999"} {
		start := time.Now()
		var a Amount
		err := json.Unmarshal([]byte(in), &a)
		elapsed := time.Since(start)

		require.ErrorIs(t, err, ErrInvalidAmount, in)
		assert.Less(t, len(err.Error()), 100, in)
		assert.Less(t, elapsed, time.Second, in)
	}
}

func TestString(t *testing.T) {
	assert.Equal(t, "42.50", Amount(4250).String())
	assert.Equal(t, "-0.05", Amount(-5).String())
	assert.Equal(t, "0.00", Amount(0).String())
}

func TestJSON(t *testing.T) {
	var body struct {
		Amount *Amount `json:"amount"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"amount": 42.5}`), &body))
	require.NotNil(t, body.Amount)
	assert.Equal(t, Amount(4250), *body.Amount)

	require.NoError(t, json.Unmarshal([]byte(`{"amount": "19.99"}`), &body))
	assert.Equal(t, Amount(1999), *body.Amount)

	out, err := json.Marshal(map[string]Amount{"total": 3000})
	require.NoError(t, err)
	assert.JSONEq(t, `{"total": 30}`, string(out))
}

func TestSumIsExact(t *testing.T) {
	var total Amount
	for range 10 {
		v, err := Parse("0.10")
		require.NoError(t, err)
		total += v
	}
	assert.Equal(t, "1.00", total.String())
}
