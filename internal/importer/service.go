package importer

import (
	"fmt"
	"io"

	"github.com/MrJamesThe3rd/moneyballs/internal/entry"
	"github.com/MrJamesThe3rd/moneyballs/internal/importer/cgd"
)

type Service struct {
	importers map[Bank]Importer
}

func NewService() *Service {
	return &Service{
		importers: map[Bank]Importer{
			BankCGD: cgd.NewParser(),
		},
	}
}

func (s *Service) Import(bank Bank, r io.Reader) ([]entry.Form, error) {
	imp, ok := s.importers[bank]
	if !ok {
		return nil, fmt.Errorf("unknown bank: %s", bank)
	}

	return imp.Parse(r)
}
