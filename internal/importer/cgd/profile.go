package cgd

// amountMode determines how amounts are extracted from a row.
type amountMode int

const (
	// amountSigned is one signed column, e.g. "Montante" holding "-10,00".
	amountSigned amountMode = iota
	// amountSplit is a pair of unsigned debit and credit columns.
	amountSplit
)

// Profile describes the columns of one CGD export format.
type Profile struct {
	Name       string
	DateCol    string
	NameCol    string
	AmountMode amountMode
	AmountCol  string // amountSigned
	DebitCol   string // amountSplit
	CreditCol  string // amountSplit
}

func (p Profile) requiredCols() []string {
	if p.AmountMode == amountSplit {
		return []string{p.DateCol, p.NameCol, p.DebitCol, p.CreditCol}
	}

	return []string{p.DateCol, p.NameCol, p.AmountCol}
}

// profiles are tried in order, most specific first.
var profiles = []Profile{
	{Name: "cartão", DateCol: "Data", NameCol: "Descrição", AmountMode: amountSplit, DebitCol: "Débito", CreditCol: "Crédito"},
	{Name: "extrato", DateCol: "Data mov.", NameCol: "Descrição", AmountMode: amountSigned, AmountCol: "Movimento"},
	{Name: "conta", DateCol: "Data mov.", NameCol: "Descrição", AmountMode: amountSigned, AmountCol: "Montante"},
}
