package ledger

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildLine lays fields out at their fixed byte offsets, the way the
// upstream accounting system pads its extract.
func buildLine(accountCode, txType, entryDate, valueDate, description, checkNumber, taskID, amount, entityID, entityName string, indicator byte) string {
	buf := make([]byte, 143)
	for i := range buf {
		buf[i] = ' '
	}

	place := func(start int, s string) {
		copy(buf[start:], s)
	}

	place(0, "01")
	place(posAccountCode, accountCode)
	place(posTransactionType, txType)
	place(posEntryDate, entryDate)
	place(posValueDate, valueDate)
	place(posDescription, description)
	place(posReference, checkNumber)
	place(posCheckNumberEnd, taskID)
	place(posAmount, amount)
	place(posEntityID, entityID)
	place(posEntityIDEnd, entityName)
	buf[posDebitCredit] = indicator

	return string(buf)
}

func TestParse_SingleCreditLine(t *testing.T) {
	line := buildLine(
		"203", "AB", "20250530", "20250531",
		"TRANSFERENCIA NOMINA MAYO", "0000012345", "203123456",
		"00000000000001200,50", "A12345678", "AYUNTAMIENTO", '+',
	)

	entries, lineErrs, err := Parse(strings.NewReader(line + "\n"))
	require.NoError(t, err)
	assert.Empty(t, lineErrs)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, "203", e.AccountCode)
	assert.Equal(t, "AB", e.TransactionType)
	assert.Equal(t, "2025-05-30", e.EntryDate)
	assert.Equal(t, "2025-05-31", e.ValueDate)
	assert.Equal(t, "TRANSFERENCIA NOMINA MAYO", e.Description)
	assert.Equal(t, "0000012345", e.CheckNumber)
	assert.Equal(t, "203123456", e.TaskID)
	assert.Equal(t, "0000012345203123456", e.Reference)
	assert.InDelta(t, 1200.50, e.Amount, 0.001)
	assert.Equal(t, "A12345678", e.EntityID)
	assert.Equal(t, "AYUNTAMIENTO", e.EntityName)
	assert.True(t, strings.HasPrefix(e.ID, "acc_"))
}

func TestParse_DebitIndicatorNegatesAmount(t *testing.T) {
	line := buildLine(
		"203", "AB", "20250530", "20250530",
		"PAGO SEGUROS SOCIALES", "", "203999999",
		"00000000000000084,20", "", "", '-',
	)

	entries, lineErrs, err := Parse(strings.NewReader(line))
	require.NoError(t, err)
	assert.Empty(t, lineErrs)
	require.Len(t, entries, 1)
	assert.InDelta(t, -84.20, entries[0].Amount, 0.001)
}

func TestParse_SkipsShortAndBlankLines(t *testing.T) {
	good := buildLine("203", "AB", "20250530", "20250530", "X", "", "", "00000000000000010,00", "", "", '+')

	input := strings.Join([]string{
		"CABECERA",
		"",
		good,
		"   ",
		"FIN",
	}, "\n")

	entries, lineErrs, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	assert.Empty(t, lineErrs)
	assert.Len(t, entries, 1)
}

func TestParse_BadAmountReportedPerLine(t *testing.T) {
	good := buildLine("203", "AB", "20250530", "20250530", "GOOD", "", "", "00000000000000010,00", "", "", '+')
	bad := buildLine("203", "AB", "20250530", "20250530", "BAD", "", "", "000000000000NOTANUM0", "", "", '+')

	entries, lineErrs, err := Parse(strings.NewReader(good + "\n" + bad + "\n"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "GOOD", entries[0].Description)

	require.Len(t, lineErrs, 1)
	assert.Equal(t, 2, lineErrs[0].Line)
	assert.Contains(t, lineErrs[0].Error(), "line 2")
}

func TestParse_AllZeroAmountIsZero(t *testing.T) {
	line := buildLine("203", "AB", "20250530", "20250530", "X", "", "", "00000000000000000,00", "", "", '+')

	entries, _, err := Parse(strings.NewReader(line))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Zero(t, entries[0].Amount)
}

func TestParse_StableIDsAcrossRuns(t *testing.T) {
	line := buildLine("203", "AB", "20250530", "20250530", "X", "", "203123456", "00000000000000010,00", "", "", '+')

	first, _, err := Parse(strings.NewReader(line))
	require.NoError(t, err)
	second, _, err := Parse(strings.NewReader(line))
	require.NoError(t, err)

	assert.Equal(t, first[0].ID, second[0].ID)

	// A different amount changes the ID.
	other := buildLine("203", "AB", "20250530", "20250530", "X", "", "203123456", "00000000000000011,00", "", "", '+')

	third, _, err := Parse(strings.NewReader(other))
	require.NoError(t, err)
	assert.NotEqual(t, first[0].ID, third[0].ID)
}
