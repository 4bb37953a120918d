package statement_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cajero-dev/cajero/internal/statement"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "slash format", in: "30/05/2025", want: "2025-05-30"},
		{name: "slash single digits", in: "9/5/2025", want: "2025-05-09"},
		{name: "spanish month abbrev", in: "30-may-25", want: "2025-05-30"},
		{name: "spanish month full", in: "14-agosto-2024", want: "2024-08-14"},
		{name: "english month abbrev", in: "31-dec-24", want: "2024-12-31"},
		{name: "compact", in: "20250530", want: "2025-05-30"},
		{name: "iso passthrough", in: "2025-05-30", want: "2025-05-30"},
		{name: "garbage", in: "mañana", wantErr: true},
		{name: "unknown month", in: "30-xxx-25", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := statement.ParseDate(tt.in)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Format("2006-01-02"))
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{in: "1.234,56", want: 1234.56},
		{in: "-588,74", want: -588.74},
		{in: "1,234.56", want: 1234.56},
		{in: "8.608,52", want: 8608.52},
		{in: "-1.234.567,89", want: -1234567.89},
		{in: "100", want: 100},
		{in: "-0,01", want: -0.01},
		{in: "", wantErr: true},
		{in: "n/a", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := statement.ParseAmount(tt.in)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 0.0001)
		})
	}
}

func TestCanonicalize(t *testing.T) {
	importTime := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	rows := []statement.RawRow{
		{
			Caja:        "203_CRURAL - 0727",
			Fecha:       "30-may-25",
			Concepto:    []string{"TRANSFERENCIA", "NOMINA MAYO", ""},
			Importe:     "-588,74",
			Saldo:       "48.825,46",
			NumApunte:   "17",
			OriginIndex: 0,
		},
		{
			Caja:        "203_CRURAL - 0727",
			Fecha:       "",
			Concepto:    []string{"SIN FECHA"},
			Importe:     "10,00",
			Saldo:       "48.835,46",
			OriginIndex: 1,
		},
		{
			Caja:        "203_CRURAL - 0727",
			Fecha:       "29-may-25",
			Concepto:    []string{"IMPORTE ROTO"},
			Importe:     "??",
			Saldo:       "0,00",
			OriginIndex: 2,
		},
	}

	drafts, rejected := statement.Canonicalize(rows, importTime)

	require.Len(t, drafts, 2)
	require.Len(t, rejected, 1)

	assert.Equal(t, "2025-05-30", drafts[0].NormalizedDate)
	assert.Equal(t, "30-may-25", drafts[0].Fecha)
	assert.Equal(t, "TRANSFERENCIA | NOMINA MAYO", drafts[0].Concepto)
	assert.InDelta(t, -588.74, drafts[0].Importe, 0.001)
	assert.InDelta(t, 48825.46, drafts[0].Saldo, 0.001)
	assert.Equal(t, "2025-05-30_2025-06-01T10:00:00Z_999999", drafts[0].SortKey)

	// A missing date degrades to the epoch sentinel, the row survives.
	assert.Equal(t, statement.EpochSentinel, drafts[1].NormalizedDate)

	// A broken amount rejects the row with a field-identifying error.
	assert.Equal(t, "importe", rejected[0].Err.Field)
	assert.Equal(t, 2, rejected[0].Err.Row)
}

func TestSortKey_NewestFirstStable(t *testing.T) {
	stamp := "2025-06-01T10:00:00Z"

	newer := statement.SortKey("2025-05-30", stamp, 0)
	older := statement.SortKey("2025-05-09", stamp, 5)

	// Descending sort puts the newer date first.
	assert.Greater(t, newer, older)

	// Same day: lower origin index (earlier in file, newer movement for a
	// newest-first export) sorts higher.
	first := statement.SortKey("2025-05-30", stamp, 0)
	second := statement.SortKey("2025-05-30", stamp, 1)
	assert.Greater(t, first, second)
}
