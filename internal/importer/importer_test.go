package importer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cajero-dev/cajero/internal/importer"
	"github.com/cajero-dev/cajero/internal/statement"
)

func TestService_Import(t *testing.T) {
	type testCase struct {
		name    string
		bank    importer.Bank
		caja    string
		csv     string
		wantLen int
		verify  func(t *testing.T, rows []statement.RawRow)
		wantErr bool
	}

	tests := []testCase{
		{
			name: "CRural export with preamble",
			bank: importer.BankCRural,
			caja: "203_CRURAL - 0727",
			csv: `Caja Rural;Consulta de movimientos
Cuenta;ES00 0000 0000 0000
Periodo;01/05/2025 a 31/05/2025

FECHA;FVALOR;CONCEPTO;IMPORTE;SALDO;NUM_APUNTE
30-may-25;30-may-25;TRANSFERENCIA NOMINA;-1.200,50;10.540,10;000123
31-may-25;31-may-25;RECAUDACION MERCADO;420,00;10.960,10;000124
Saldo final;;;;10.960,10;
`,
			wantLen: 2,
			verify: func(t *testing.T, rows []statement.RawRow) {
				assert.Equal(t, "203_CRURAL - 0727", rows[0].Caja)
				assert.Equal(t, "30-may-25", rows[0].Fecha)
				assert.Equal(t, []string{"TRANSFERENCIA NOMINA"}, rows[0].Concepto)
				assert.Equal(t, "-1.200,50", rows[0].Importe)
				assert.Equal(t, "10.540,10", rows[0].Saldo)
				assert.Equal(t, "000123", rows[0].NumApunte)
				assert.Equal(t, 0, rows[0].OriginIndex)
				assert.Equal(t, 1, rows[1].OriginIndex)
			},
		},
		{
			name: "Caixabank joins additional concept column",
			bank: importer.BankCaixabank,
			caja: "200_CAIXABNK - 2064",
			csv: `FECHA;FVALOR;CONCEPTO;CONCEPTOADIC;IMPORTE;SALDO
30/05/2025;30/05/2025;RECIBO;LUZ IBERDROLA;-84,20;9.000,00
`,
			wantLen: 1,
			verify: func(t *testing.T, rows []statement.RawRow) {
				assert.Equal(t, []string{"RECIBO", "LUZ IBERDROLA"}, rows[0].Concepto)
			},
		},
		{
			name: "BBVA concatenates three concept columns",
			bank: importer.BankBBVA,
			caja: "207_BBVA - 0342",
			csv: `FECHA;FVALOR;CODIGO;CONCEPTO;BENEFIARIO_ORDENANTE;OBSERVACIONES;IMPORTE;SALDO
30/05/2025;30/05/2025;077;TRANSFERENCIA;AYTO MURCIA;SUBVENCION DEPORTE;5.000,00;14.000,00
`,
			wantLen: 1,
			verify: func(t *testing.T, rows []statement.RawRow) {
				assert.Equal(t, []string{"TRANSFERENCIA", "SUBVENCION DEPORTE", "AYTO MURCIA"}, rows[0].Concepto)
				assert.Empty(t, rows[0].NumApunte)
			},
		},
		{
			name: "BBVA without beneficiary column still matches",
			bank: importer.BankBBVA,
			caja: "207_BBVA - 0342",
			csv: `FECHA;FVALOR;CODIGO;CONCEPTO;OBSERVACIONES;IMPORTE;SALDO
30/05/2025;30/05/2025;077;TRANSFERENCIA;SUBVENCION;5.000,00;14.000,00
`,
			wantLen: 1,
			verify: func(t *testing.T, rows []statement.RawRow) {
				assert.Equal(t, []string{"TRANSFERENCIA", "SUBVENCION"}, rows[0].Concepto)
			},
		},
		{
			name: "Unicaja entry numbers from NUM_MOV",
			bank: importer.BankUnicaja,
			caja: "238_UNICAJA_(PP2022)-8476",
			csv: `FECHA;FVALOR;CONCEPTO;IMPORTE;DIVISA;SALDO;NUM_MOV
30/05/2025;30/05/2025;TRANSFERENCIA;100,00;EUR;1.100,00;42
`,
			wantLen: 1,
			verify: func(t *testing.T, rows []statement.RawRow) {
				assert.Equal(t, "42", rows[0].NumApunte)
			},
		},
		{
			name: "Santander plain layout",
			bank: importer.BankSantander,
			caja: "201_SANTANDER - 2932",
			csv: `FECHA;FVALOR;CONCEPTO;IMPORTE;DIVISA;SALDO;DIVISA_SALDO;CODIGO
30/05/2025;30/05/2025;RECIBO AGUA;-55,00;EUR;2.000,00;EUR;01
`,
			wantLen: 1,
		},
		{
			name: "rows without date or amount are skipped",
			bank: importer.BankCRural,
			caja: "203",
			csv: `FECHA;FVALOR;CONCEPTO;IMPORTE;SALDO;NUM_APUNTE
30-may-25;30-may-25;MOVIMIENTO;10,00;110,00;1
;;Saldo anterior;;100,00;
31-may-25;31-may-25;SIN IMPORTE;;110,00;2
`,
			wantLen: 1,
		},
		{
			name:    "missing header is an error",
			bank:    importer.BankCRural,
			caja:    "203",
			csv:     "Cuenta;ES00\nSaldo;100\n",
			wantErr: true,
		},
		{
			name:    "unknown bank",
			bank:    importer.Bank("ing"),
			caja:    "203",
			csv:     "FECHA;IMPORTE;SALDO\n",
			wantErr: true,
		},
	}

	svc := importer.NewService()

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rows, err := svc.Import(tc.bank, tc.caja, strings.NewReader(tc.csv))
			if tc.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.Len(t, rows, tc.wantLen)

			if tc.verify != nil {
				tc.verify(t, rows)
			}
		})
	}
}

func TestParser_Latin1Input(t *testing.T) {
	// CONCEPTO holding "DEVOLUCIÓN" encoded as ISO-8859-1.
	csv := "FECHA;FVALOR;CONCEPTO;IMPORTE;SALDO;NUM_APUNTE\n" +
		"30-may-25;30-may-25;DEVOLUCI\xd3N RECIBO;25,00;125,00;7\n"

	p, err := importer.NewParser(importer.BankCRural)
	require.NoError(t, err)

	rows, err := p.Parse(strings.NewReader(csv), "203")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"DEVOLUCIÓN RECIBO"}, rows[0].Concepto)
}
