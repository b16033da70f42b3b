package importer

import (
	"io"

	"github.com/MrJamesThe3rd/moneyballs/internal/entry"
)

type Bank string

const (
	BankCGD Bank = "cgd"
)

// Banks lists the supported export formats.
var Banks = []Bank{BankCGD}

// Importer turns a bank export into forms ready to be added to the ledger.
type Importer interface {
	Parse(r io.Reader) ([]entry.Form, error)
}
