package document

import (
	"bytes"
	"fmt"
	"html"
	"strings"
	"text/template"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/bibbank/cre-underwriting/internal/domain/model"
)

// scheduleRows caps the amortization rows printed in the document; the full
// schedule stays available through the API.
const scheduleRows = 12

var termSheetTemplate = template.Must(template.New("term_sheet").Funcs(template.FuncMap{
	"money": money,
	"pct":   func(d decimal.Decimal) string { return d.String() + "%" },
	"date":  func(t interface{ Format(string) string }) string { return t.Format("January 2, 2006") },
}).Parse(`# Term Sheet: {{.Deal.DealName}}

**Version {{.Sheet.Version}}** · Prepared {{date .Sheet.CreatedAt}}

| Term | Value |
|---|---|
{{- with .Deal.Details.BorrowerName}}
| Borrower | {{.}} |
{{- end}}
| Asset type | {{.Deal.Details.AssetType}} |
| Loan amount | {{money .Terms.LoanAmount}} |
| Interest rate | {{pct .Terms.InterestRate}} |
| Term | {{.Terms.TermMonths}} months |
{{- with .Terms.AmortizationMonths}}
| Amortization | {{.}} months |
{{- end}}
{{- if .Terms.LTV.Valid}}
| LTV | {{pct .Terms.LTV.Decimal}} |
{{- end}}
| Recourse | {{.Terms.RecourseType}} |
| Origination fee | {{pct .Terms.OriginationFee.Decimal}} |
{{- with .Terms.PrepaymentPenalty}}
| Prepayment penalty | {{.}} |
{{- end}}
{{- with .Terms.ExpirationDate}}
| Offer expires | {{date .}} |
{{- end}}
{{with .Terms.Conditions}}
## Conditions

{{.}}
{{end}}
## Payment Schedule

| Period | Due | Principal | Interest | Payment | Balance |
|---:|---|---:|---:|---:|---:|
{{- range .Schedule}}
| {{.Period}} | {{.DueDate.Format "2006-01-02"}} | {{money .Principal}} | {{money .Interest}} | {{money .Total}} | {{money .RemainingBalance}} |
{{- end}}
{{if .Truncated}}
_Showing the first {{len .Schedule}} of {{.Periods}} periods._
{{end}}`))

// TermSheetRenderer implements port.DocumentRenderer by rendering a Markdown
// term sheet to a standalone HTML page.
type TermSheetRenderer struct {
	md goldmark.Markdown
}

// NewTermSheetRenderer creates a renderer with GitHub-flavoured tables.
// Raw HTML in user-supplied fields is dropped, not passed through.
func NewTermSheetRenderer() *TermSheetRenderer {
	return &TermSheetRenderer{md: goldmark.New(goldmark.WithExtensions(extension.GFM))}
}

// RenderTermSheet returns the HTML document for sheet.
func (r *TermSheetRenderer) RenderTermSheet(sheet model.TermSheet, deal model.Deal) ([]byte, error) {
	schedule := sheet.PaymentSchedule()
	periods := len(schedule)
	truncated := periods > scheduleRows
	if truncated {
		schedule = schedule[:scheduleRows]
	}

	var src bytes.Buffer
	err := termSheetTemplate.Execute(&src, map[string]any{
		"Deal":      deal,
		"Sheet":     sheet,
		"Terms":     sheet.Terms(),
		"Schedule":  schedule,
		"Periods":   periods,
		"Truncated": truncated,
	})
	if err != nil {
		return nil, fmt.Errorf("execute term sheet template: %w", err)
	}

	var body bytes.Buffer
	if err := r.md.Convert(src.Bytes(), &body); err != nil {
		return nil, fmt.Errorf("convert term sheet markdown: %w", err)
	}

	var out strings.Builder
	out.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&out, "<title>Term Sheet - %s (v%d)</title>\n", html.EscapeString(deal.DealName()), sheet.Version())
	out.WriteString("</head>\n<body>\n")
	out.Write(body.Bytes())
	out.WriteString("</body>\n</html>\n")
	return []byte(out.String()), nil
}

// money formats d as dollars with thousands separators and two decimals.
func money(d decimal.Decimal) string {
	return "$" + humanize.FormatFloat("#,###.##", d.Round(2).InexactFloat64())
}
