package locale

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter converts an amount into a display string for a language tag.
type Formatter interface {
	Format(amount float64, tag string) string
}

var symbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"NGN": "₦",
	"GHS": "GH₵",
	"KES": "KSh",
	"ZAR": "R",
	"XOF": "CFA",
	"XAF": "FCFA",
}

// CurrencyFormatter renders amounts with locale grouping from x/text.
// English puts the symbol first ("$125,000"); French puts it last
// ("125 000 $").
type CurrencyFormatter struct {
	code     string
	symbol   string
	printers map[Tag]*message.Printer
}

// NewCurrencyFormatter validates an ISO 4217 code and builds a formatter for it.
func NewCurrencyFormatter(code string) (*CurrencyFormatter, error) {
	unit, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, fmt.Errorf("invalid currency %q: %w", code, err)
	}
	iso := unit.String()
	symbol, ok := symbols[iso]
	if !ok {
		symbol = iso
	}

	printers := make(map[Tag]*message.Printer, len(Supported))
	for _, t := range Supported {
		printers[t] = message.NewPrinter(t.language())
	}

	return &CurrencyFormatter{code: iso, symbol: symbol, printers: printers}, nil
}

// Code returns the ISO currency code.
func (f *CurrencyFormatter) Code() string {
	return f.code
}

// Format implements Formatter. Non-finite amounts render as zero.
func (f *CurrencyFormatter) Format(amount float64, tag string) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		amount = 0
	}
	lang := Resolve(tag)

	rounded := decimal.NewFromFloat(amount).Round(2)
	negative := rounded.IsNegative()
	abs := rounded.Abs()

	opts := []number.Option{number.MaxFractionDigits(2)}
	if !abs.Equal(abs.Truncate(0)) {
		opts = append(opts, number.MinFractionDigits(2))
	}
	digits := f.printers[lang].Sprintf("%v", number.Decimal(abs.InexactFloat64(), opts...))

	sign := ""
	if negative {
		sign = "-"
	}
	if lang == French {
		return sign + digits + " " + f.symbol
	}
	return sign + f.symbol + digits
}

// FormatNumber renders a plain number with up to one fraction digit using
// the tag's decimal separator ("10.3" in English, "10,3" in French).
func FormatNumber(v float64, tag string) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	p := message.NewPrinter(Resolve(tag).language())
	return p.Sprintf("%v", number.Decimal(v, number.MaxFractionDigits(1)))
}
