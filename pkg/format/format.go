// Package format presentación de valores para documentos (PDF, CSV): moneda en reales y fechas dd/mm/aaaa.
package format

import (
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	printerOnce sync.Once
	printer     *message.Printer
)

func brPrinter() *message.Printer {
	printerOnce.Do(func() {
		printer = message.NewPrinter(language.BrazilianPortuguese)
	})
	return printer
}

// Currency formatea un valor como "R$ 1.234,56".
func Currency(v decimal.Decimal) string {
	f, _ := v.Round(2).Float64()
	return "R$ " + brPrinter().Sprintf("%.2f", f)
}

// Number formatea con separadores pt-BR sin símbolo ("1.234,56").
func Number(v decimal.Decimal, places int32) string {
	f, _ := v.Round(places).Float64()
	return brPrinter().Sprintf(fmt.Sprintf("%%.%df", places), f)
}

// Date dd/mm/aaaa; fecha cero devuelve "".
func Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}

// DateTime dd/mm/aaaa HH:MM.
func DateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006 15:04")
}
