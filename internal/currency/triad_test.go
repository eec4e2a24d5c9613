package currency

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestResolve(t *testing.T) {
	rates := DefaultRates()

	tests := []struct {
		name   string
		source Code
		value  decimal.Decimal
		want   Triad
	}{
		{
			name:   "IDR source",
			source: IDR,
			value:  d("1008000"),
			want:   Triad{IDR: d("1008000"), SAR: d("240"), USD: d("65.03")},
		},
		{
			name:   "SAR source",
			source: SAR,
			value:  d("100"),
			want:   Triad{IDR: d("420000"), SAR: d("100"), USD: d("27.10")},
		},
		{
			name:   "USD source",
			source: USD,
			value:  d("10"),
			want:   Triad{IDR: d("155000"), SAR: d("36.90"), USD: d("10")},
		},
		{
			name:   "negative clamped",
			source: SAR,
			value:  d("-5"),
			want:   Triad{IDR: decimal.Zero, SAR: decimal.Zero, USD: decimal.Zero},
		},
		{
			name:   "unknown currency",
			source: Code("EUR"),
			value:  d("10"),
			want:   Triad{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.source, tt.value, rates).Rounded()
			assert.True(t, tt.want.IDR.Equal(got.IDR), "idr: want %s got %s", tt.want.IDR, got.IDR)
			assert.True(t, tt.want.SAR.Equal(got.SAR), "sar: want %s got %s", tt.want.SAR, got.SAR)
			assert.True(t, tt.want.USD.Equal(got.USD), "usd: want %s got %s", tt.want.USD, got.USD)
		})
	}
}

func TestResolveIdentityAndRoundTrip(t *testing.T) {
	rates := RateSet{SARToIDR: d("4213.5"), USDToIDR: d("15877")}
	values := []string{"0", "1", "0.01", "99.99", "1234.56", "1000000", "7"}

	for _, c := range Codes {
		for _, v := range values {
			in := d(v)
			tri := Resolve(c, in, rates)
			require.True(t, tri.Get(c).Equal(in), "%s identity for %s", c, v)

			for _, other := range Codes {
				back := Convert(tri.Get(other), other, c, rates)
				diff := Round(c, back).Sub(Round(c, in)).Abs()
				unit := decimal.New(1, -c.Places())
				assert.True(t, diff.LessThanOrEqual(unit),
					"%s -> %s -> %s: %s vs %s", c, other, c, back, in)
			}
		}
	}
}

func TestNormalizeFallsBackToDefaults(t *testing.T) {
	r := RateSet{SARToIDR: decimal.Zero, USDToIDR: d("-1")}.Normalize()
	assert.True(t, r.SARToIDR.Equal(DefaultSARToIDR))
	assert.True(t, r.USDToIDR.Equal(DefaultUSDToIDR))
	assert.True(t, RateSet{}.IsDefault())

	partial := RateSet{SARToIDR: d("4300")}.Normalize()
	assert.True(t, partial.SARToIDR.Equal(d("4300")))
	assert.True(t, partial.USDToIDR.Equal(DefaultUSDToIDR))

	// zero rate set must still resolve without panicking
	tri := Resolve(SAR, d("1"), RateSet{})
	assert.True(t, tri.IDR.Equal(d("4200")))
}

func TestParseAmount(t *testing.T) {
	tests := map[string]string{
		"":          "0",
		"  ":        "0",
		"abc":       "0",
		"-5":        "0",
		"12.5":      "12.5",
		"1,250,000": "1250000",
		" 42 ":      "42",
	}
	for in, want := range tests {
		assert.True(t, d(want).Equal(ParseAmount(in)), "input %q", in)
	}
}

func TestParseCode(t *testing.T) {
	assert.Equal(t, SAR, ParseCode("sar"))
	assert.Equal(t, IDR, ParseCode(" IDR "))
	assert.Equal(t, Code(""), ParseCode("eur"))
}
