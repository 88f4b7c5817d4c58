package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	catalogdomain "github.com/smithline/atelier/internal/catalog/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate_Percentage(t *testing.T) {
	got, err := Calculate(decimal.NewFromInt(100), 1, catalogdomain.CommissionTypePercentage, decimal.NewFromInt(15))
	require.NoError(t, err)
	assert.Equal(t, "15.00", got.StringFixed(2))
}

func TestCalculate_PercentageIgnoresQuantity(t *testing.T) {
	// The sale amount is already the line item total; quantity only matters
	// for fixed commissions.
	got, err := Calculate(decimal.NewFromInt(100), 5, catalogdomain.CommissionTypePercentage, decimal.NewFromInt(15))
	require.NoError(t, err)
	assert.Equal(t, "15.00", got.StringFixed(2))
}

func TestCalculate_Fixed(t *testing.T) {
	got, err := Calculate(decimal.NewFromInt(500), 3, catalogdomain.CommissionTypeFixed, decimal.NewFromInt(20))
	require.NoError(t, err)
	assert.Equal(t, "60.00", got.StringFixed(2))
}

func TestCalculate_QuantityDefaultsToOne(t *testing.T) {
	got, err := Calculate(decimal.NewFromInt(500), 0, catalogdomain.CommissionTypeFixed, decimal.NewFromInt(20))
	require.NoError(t, err)
	assert.Equal(t, "20.00", got.StringFixed(2))
}

func TestCalculate_RoundsToTwoDecimals(t *testing.T) {
	value, err := decimal.NewFromString("33.333")
	require.NoError(t, err)

	got, err := Calculate(decimal.NewFromInt(10), 1, catalogdomain.CommissionTypePercentage, value)
	require.NoError(t, err)
	assert.Equal(t, "3.33", got.StringFixed(2))
	assert.True(t, got.Exponent() >= -2)
}

func TestCalculate_RoundsHalfAwayFromZero(t *testing.T) {
	// 10 * 1.25% = 0.125, which rounds up to 0.13 rather than banker's 0.12.
	value, err := decimal.NewFromString("1.25")
	require.NoError(t, err)

	got, err := Calculate(decimal.NewFromInt(10), 1, catalogdomain.CommissionTypePercentage, value)
	require.NoError(t, err)
	assert.Equal(t, "0.13", got.StringFixed(2))
}

func TestCalculate_UnknownType(t *testing.T) {
	_, err := Calculate(decimal.NewFromInt(100), 1, catalogdomain.CommissionType("tiered"), decimal.NewFromInt(15))
	assert.ErrorIs(t, err, ErrUnknownCommissionType)
}
