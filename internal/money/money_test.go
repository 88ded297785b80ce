package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"fatoora/internal/money"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestRound_HalfAwayFromZero(t *testing.T) {
	assert.True(t, money.Round(d("10.005")).Equal(d("10.01")))
	assert.True(t, money.Round(d("-10.005")).Equal(d("-10.01")))
	assert.True(t, money.Round(d("10.004")).Equal(d("10.00")))
	assert.True(t, money.Round(d("10.0051")).Equal(d("10.01")))
}

func TestSum_RoundsAfterSummation(t *testing.T) {
	// Summands are not pre-rounded: 10.005 + 10.005 = 20.01 exactly,
	// not 10.01 + 10.01 = 20.02.
	got := money.Sum(d("10.005"), d("10.005"))
	assert.True(t, got.Equal(d("20.01")), "got %s", got)

	got = money.Sum(d("5.005"), d("5.005"))
	assert.True(t, got.Equal(d("10.01")), "got %s", got)
}

func TestSum_Empty(t *testing.T) {
	assert.True(t, money.Sum().IsZero())
}

func TestEqual_SubCentTolerance(t *testing.T) {
	assert.True(t, money.Equal(d("10.00"), d("10.00")))
	assert.True(t, money.Equal(d("10.00"), d("10.004")))
	assert.False(t, money.Equal(d("10.00"), d("10.01")), "a full cent is a real discrepancy")
	assert.False(t, money.Equal(d("10.00"), d("10.02")))
}

func TestRatePercent(t *testing.T) {
	assert.True(t, money.RatePercent(d("15"), d("100")).Equal(d("15.00")))
	assert.True(t, money.RatePercent(d("1.5"), d("10")).Equal(d("15.00")))

	t.Run("zero_denominator", func(t *testing.T) {
		assert.True(t, money.RatePercent(d("1.5"), decimal.Zero).IsZero())
	})
}
