package balance_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cajero-dev/cajero/internal/balance"
)

func TestValidate_ConsistentAscendingChain(t *testing.T) {
	entries := []balance.Entry{
		{Fecha: "2024-01-01", Importe: 100.00, Saldo: 100.00},
		{Fecha: "2024-01-02", Importe: 50.00, Saldo: 150.00},
		{Fecha: "2024-01-05", Importe: -25.50, Saldo: 124.50},
		{Fecha: "2024-01-05", Importe: 0.50, Saldo: 125.00},
	}

	result := balance.Validate(entries)

	assert.True(t, result.IsValid)
	assert.Empty(t, result.Issues)
	assert.True(t, result.IsAscending)
	assert.True(t, result.IsDescendingOrder)
}

func TestValidate_ConsistentNewestFirstChain(t *testing.T) {
	// The order banks actually export: newest first.
	entries := []balance.Entry{
		{Fecha: "30/05/2025", Importe: -588.74, Saldo: 48825.46},
		{Fecha: "09/05/2025", Importe: 8608.52, Saldo: 49414.20},
		{Fecha: "02/05/2025", Importe: 805.68, Saldo: 40805.68},
		{Fecha: "01/05/2025", Importe: 40000.00, Saldo: 40000.00},
	}

	result := balance.Validate(entries)

	assert.True(t, result.IsValid)
	assert.Empty(t, result.Issues)
	assert.False(t, result.IsAscending)
	assert.True(t, result.IsDescendingOrder)
}

func TestValidate_NonMonotonicDatesSkipBalanceWalk(t *testing.T) {
	entries := []balance.Entry{
		{Fecha: "2024-01-01", Importe: 10, Saldo: 10},
		{Fecha: "2024-01-05", Importe: 10, Saldo: 20},
		{Fecha: "2024-01-03", Importe: 10, Saldo: 30},
	}

	result := balance.Validate(entries)

	assert.False(t, result.IsValid)
	assert.False(t, result.IsDescendingOrder)
	assert.Empty(t, result.Issues)
}

func TestValidate_SingleMismatch(t *testing.T) {
	entries := []balance.Entry{
		{Fecha: "2024-01-01", Importe: 100.00, Saldo: 100.00},
		{Fecha: "2024-01-02", Importe: 40.00, Saldo: 150.00},
	}

	result := balance.Validate(entries)

	assert.False(t, result.IsValid)
	require.Len(t, result.Issues, 1)

	issue := result.Issues[0]
	assert.Equal(t, 1, issue.Index)
	assert.Equal(t, "2024-01-02", issue.Date)
	assert.InDelta(t, 140.00, issue.ExpectedBalance, 0.001)
	assert.InDelta(t, 150.00, issue.ActualBalance, 0.001)
	assert.InDelta(t, 10.00, issue.Difference, 0.001)
}

func TestValidate_MissingMovementFlagsGapPair(t *testing.T) {
	// Dropping one movement breaks exactly the pair spanning the gap; the
	// later pairs are still checked on their own stored balances.
	entries := []balance.Entry{
		{Fecha: "2024-01-01", Importe: 100.00, Saldo: 100.00},
		// missing: {2024-01-02, +50, 150}
		{Fecha: "2024-01-03", Importe: 25.00, Saldo: 175.00},
		{Fecha: "2024-01-04", Importe: 5.00, Saldo: 180.00},
	}

	result := balance.Validate(entries)

	assert.False(t, result.IsValid)
	require.Len(t, result.Issues, 1)
	assert.InDelta(t, 50.00, result.Issues[0].Difference, 0.001)
}

func TestValidate_ToleratesRoundingNoise(t *testing.T) {
	entries := []balance.Entry{
		{Fecha: "2024-01-01", Importe: 0.10, Saldo: 0.10},
		{Fecha: "2024-01-02", Importe: 0.20, Saldo: 0.30},
		{Fecha: "2024-01-03", Importe: 0.30, Saldo: 0.60},
	}

	result := balance.Validate(entries)
	assert.True(t, result.IsValid)
}

func TestValidate_TooShort(t *testing.T) {
	result := balance.Validate([]balance.Entry{{Fecha: "2024-01-01", Importe: 1, Saldo: 1}})

	assert.True(t, result.IsValid)
	assert.Empty(t, result.Issues)
}
