// Package receipt renders transfer receipts.
package receipt

import (
	"bytes"
	"context"
	"fmt"
	"text/template"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Party is one side of a transfer as printed on the receipt.
type Party struct {
	ID       string
	FullName string
	Email    string
}

type TransferReceipt struct {
	TransactionID string
	Amount        decimal.Decimal
	From          Party
	To            Party
	Timestamp     time.Time
	Note          string
}

// Generator produces the receipt artifact handed back to the caller.
type Generator interface {
	GenerateTransferReceipt(ctx context.Context, r TransferReceipt) ([]byte, error)
}

const transferTemplate = `ORUS WALLET TRANSFER RECEIPT
============================
Transaction: {{ .TransactionID }}
Date:        {{ .Timestamp.UTC.Format "2006-01-02 15:04:05 MST" }}

From:        {{ name .From }}{{ with .From.Email }} <{{ . }}>{{ end }}
To:          {{ name .To }}{{ with .To.Email }} <{{ . }}>{{ end }}

Amount:      {{ money .Amount }}
{{- with .Note }}
Note:        {{ . }}
{{- end }}
`

// TextGenerator renders a plain-text receipt.
type TextGenerator struct {
	tmpl *template.Template
}

func NewTextGenerator() *TextGenerator {
	printer := message.NewPrinter(language.AmericanEnglish)
	funcs := template.FuncMap{
		"money": func(d decimal.Decimal) string {
			return "$" + printer.Sprint(number.Decimal(d.InexactFloat64(), number.Scale(2)))
		},
		"name": func(p Party) string {
			if p.FullName != "" {
				return p.FullName
			}
			return p.ID
		},
	}
	return &TextGenerator{
		tmpl: template.Must(template.New("transfer").Funcs(funcs).Parse(transferTemplate)),
	}
}

func (g *TextGenerator) GenerateTransferReceipt(ctx context.Context, r TransferReceipt) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := g.tmpl.Execute(&buf, r); err != nil {
		return nil, fmt.Errorf("failed to render receipt %s: %w", r.TransactionID, err)
	}
	return buf.Bytes(), nil
}
