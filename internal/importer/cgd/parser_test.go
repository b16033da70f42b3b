package cgd_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/MrJamesThe3rd/moneyballs/internal/entry"
	"github.com/MrJamesThe3rd/moneyballs/internal/importer/cgd"
)

type row struct {
	name   string
	amount string
}

func rows(forms []entry.Form) []row {
	out := make([]row, len(forms))
	for i, f := range forms {
		out[i] = row{name: f.Name}
		if f.Amount != nil {
			out[i].amount = f.Amount.String()
		}
	}

	return out
}

func TestParser_Formats(t *testing.T) {
	type testCase struct {
		name string
		csv  string
		want []row
	}

	tests := []testCase{
		{
			name: "Conta",
			csv: `Consultar saldos e movimentos à ordem - 31-01-2026;"=""0000"""
Nome cliente;JOHN DOE
NIF;"=""123"""

Dados da conta
Conta;0000 - EUR - Conta Extracto
Saldo contabilístico;1.000,00 EUR

Data mov.;Data-valor;Descrição;Montante;Saldo contabilístico após movimento
30-01-2026;30-01-2026;INSTITUTO GESTAO FINA;-588,74;48.825,46
09-01-2026;09-01-2026;TFI Wise;8.608,52;52.532,78
`,
			want: []row{
				{name: "INSTITUTO GESTAO FINA", amount: "-588.74"},
				{name: "TFI Wise", amount: "8608.52"},
			},
		},
		{
			name: "Extrato",
			csv: `Consultar extrato - 15-02-2026 : 0829015676030
Nome empresa ;VIBRANTGARDEN UNIPESSOAL,LDA
Saldo contabilístico Inicial ;48.825,46

Data mov. ;Data valor ;Origem ;Descrição ;Movimento ;Estorno ;Saldo contabilístico após movimento ;
13-02-2026;13-02-2026;"=""0003""";PAGAMENTO TSU ;-608,13;  ;41.393,66;
04-02-2026;04-02-2026;SIBS ;TFI Wise ;4.324,06;  ;51.302,85;
`,
			want: []row{
				{name: "PAGAMENTO TSU", amount: "-608.13"},
				{name: "TFI Wise", amount: "4324.06"},
			},
		},
		{
			name: "CartaoDebits",
			csv: `Consultar saldos e movimentos de cartões - 15-02-2026
Conta cartão ;4163 **** **** 8016 - EUR - Business Débito

Data ;Data valor ;Descrição ;Débito ;Crédito ;
16-12-2025 ;14-12-2025 ;PA GONDOMAR         GONDOMAR ;64,00 ; ;
31-12-2025 ;29-12-2025 ;UBER   *TRIP             HELP.UBER.COMNL ;47,91 ; ;
 ; ; ; ;Página 1/2 ;
`,
			want: []row{
				{name: "PA GONDOMAR         GONDOMAR", amount: "-64"},
				{name: "UBER   *TRIP             HELP.UBER.COMNL", amount: "-47.91"},
			},
		},
		{
			name: "CartaoCredit",
			csv: `Data ;Data valor ;Descrição ;Débito ;Crédito ;
16-12-2025 ;14-12-2025 ;REFUND AMAZON ;  ;25,00 ;
`,
			want: []row{{name: "REFUND AMAZON", amount: "25"}},
		},
		{
			name: "DifferentColumnOrder",
			csv: `Random;MetaData
Montante;Descrição;Data mov.;Ignored
-10,00;TEST_ORDER;30-01-2026;XXX
`,
			want: []row{{name: "TEST_ORDER", amount: "-10"}},
		},
		{
			name: "LargeAmounts",
			csv: `Data mov.;Descrição;Montante
30-01-2026;BIG TRANSFER;-1.234.567,89
`,
			want: []row{{name: "BIG TRANSFER", amount: "-1234567.89"}},
		},
		{
			name: "SkipsFooterRows",
			csv: `Data mov.;Descrição;Montante
30-01-2026;TEST;-10,00
Totais;;;;
`,
			want: []row{{name: "TEST", amount: "-10"}},
		},
		{
			name: "SkipsZeroAmounts",
			csv: `Data mov.;Descrição;Montante
30-01-2026;NOTHING;0,00
31-01-2026;TEST;-1,50
`,
			want: []row{{name: "TEST", amount: "-1.5"}},
		},
		{
			name: "HeaderOnly",
			csv:  `Data mov.;Data-valor;Descrição;Montante`,
			want: []row{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			forms, err := cgd.NewParser().Parse(strings.NewReader(tt.csv))
			require.NoError(t, err)
			assert.Equal(t, tt.want, rows(forms))
		})
	}
}

func TestParser_Latin1Encoding(t *testing.T) {
	utf8CSV := "Data mov.;Descrição;Montante\n30-01-2026;CAFÉ CENTRAL;-10,00\n"

	latin1Bytes, err := charmap.Windows1252.NewEncoder().Bytes([]byte(utf8CSV))
	require.NoError(t, err)

	forms, err := cgd.NewParser().Parse(bytes.NewReader(latin1Bytes))
	require.NoError(t, err)
	require.Len(t, forms, 1)

	assert.Equal(t, "CAFÉ CENTRAL", forms[0].Name)
}

func TestParser_EmptyFile(t *testing.T) {
	_, err := cgd.NewParser().Parse(strings.NewReader(""))
	assert.ErrorIs(t, err, cgd.ErrUnknownFormat)
}

func TestParser_MissingDescription(t *testing.T) {
	csv := `Data mov.;Descrição;Montante
30-01-2026;;-10,00
`

	_, err := cgd.NewParser().Parse(strings.NewReader(csv))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "description")
}
