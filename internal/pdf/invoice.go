// Package pdf renders a finalized invoice aggregate into a printable PDF
// document. It is a collaborator of the billing core: rendering failures
// never affect persisted financial state.
package pdf

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

type LineItem struct {
	Description string
	Quantity    int
	Price       string
	Total       string
}

type PendingItem struct {
	Description string
	Qty         int
	Price       string
	Total       string
	BillNumber  string
}

type InvoiceData struct {
	ShopName      string
	BillNumber    string
	Date          string
	CustomerName  string
	CustomerPhone string
	Status        string

	GSTNumber         string
	AccountNumber     string
	BankName          string
	AccountHolderName string

	Items    []LineItem
	Subtotal string
	Tax      string
	Discount string
	Total    string

	PendingAmount string
	PendingItems  []PendingItem
	ThankYou      string
}

// Renderer writes invoice documents under MediaDir/invoices and returns the
// relative storage path. Rendering the same invoice again overwrites the
// previous artifact with a fresh one.
type Renderer struct {
	MediaDir string
}

func NewRenderer(mediaDir string) *Renderer { return &Renderer{MediaDir: mediaDir} }

func (r *Renderer) Render(data InvoiceData) (string, error) {
	doc, err := Generate(data)
	if err != nil {
		return "", err
	}
	dir := filepath.Join(r.MediaDir, "invoices")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	rel := filepath.Join("invoices", fmt.Sprintf("invoice_%s.pdf", data.BillNumber))
	if err := os.WriteFile(filepath.Join(r.MediaDir, rel), doc, 0o644); err != nil {
		return "", err
	}
	return rel, nil
}

// Generate builds the PDF bytes for an invoice.
func Generate(data InvoiceData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithLeftMargin(12).
		WithTopMargin(12).
		WithRightMargin(12).
		Build()
	m := maroto.New(cfg)

	shop := data.ShopName
	if shop == "" {
		shop = "Grocery Shop"
	}
	m.AddRow(14, text.NewCol(12, shop, props.Text{Size: 20, Style: fontstyle.Bold}))
	m.AddRow(6,
		text.NewCol(6, "Invoice To:", props.Text{Size: 9}),
		text.NewCol(6, data.Date, props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(6,
		text.NewCol(6, data.CustomerName, props.Text{Size: 11, Style: fontstyle.Bold}),
		text.NewCol(6, fmt.Sprintf("Invoice #%s", data.BillNumber), props.Text{Size: 9, Align: align.Right}),
	)
	if data.CustomerPhone != "" {
		m.AddRow(5, text.NewCol(12, "+"+data.CustomerPhone, props.Text{Size: 9}))
	}

	for _, l := range shopkeeperLines(data) {
		m.AddRow(4, text.NewCol(12, l, props.Text{Size: 8}))
	}

	m.AddRow(3, line.NewCol(12))
	m.AddRow(6,
		text.NewCol(1, "No", props.Text{Size: 9, Style: fontstyle.Bold}),
		text.NewCol(5, "Description", props.Text{Size: 9, Style: fontstyle.Bold}),
		text.NewCol(2, "Price", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(2, "Qty", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(2, "Total", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
	)
	m.AddRow(2, line.NewCol(12))
	for i, it := range data.Items {
		m.AddRow(5,
			text.NewCol(1, fmt.Sprintf("%d", i+1), props.Text{Size: 9}),
			text.NewCol(5, it.Description, props.Text{Size: 9}),
			text.NewCol(2, it.Price, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, fmt.Sprintf("%d", it.Quantity), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, it.Total, props.Text{Size: 9, Align: align.Right}),
		)
	}
	m.AddRow(3, line.NewCol(12))

	m.AddRows(
		totalRow("Subtotal", data.Subtotal, false),
		totalRow("Tax (5%)", data.Tax, false),
		totalRow("Discount (2%)", data.Discount, false),
		totalRow("Total", data.Total, true),
	)

	if len(data.PendingItems) > 0 {
		m.AddRow(8, text.NewCol(12, "Previous Pending Items", props.Text{Size: 10, Style: fontstyle.Bold}))
		for _, p := range data.PendingItems {
			m.AddRow(5,
				text.NewCol(5, p.Description, props.Text{Size: 8}),
				text.NewCol(2, p.Price, props.Text{Size: 8, Align: align.Right}),
				text.NewCol(1, fmt.Sprintf("%d", p.Qty), props.Text{Size: 8, Align: align.Right}),
				text.NewCol(2, p.Total, props.Text{Size: 8, Align: align.Right}),
				text.NewCol(2, p.BillNumber, props.Text{Size: 8, Align: align.Right}),
			)
		}
		m.AddRows(totalRow("Previous Pending", data.PendingAmount, true))
	}

	if data.ThankYou != "" {
		m.AddRow(8, text.NewCol(12, data.ThankYou, props.Text{Size: 10}))
	}

	document, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return document.GetBytes(), nil
}

func shopkeeperLines(data InvoiceData) []string {
	var out []string
	if data.GSTNumber != "" {
		out = append(out, "GST: "+data.GSTNumber)
	}
	if data.AccountNumber != "" {
		out = append(out, "A/C: "+data.AccountNumber)
	}
	if data.BankName != "" {
		out = append(out, "Bank: "+data.BankName)
	}
	if data.AccountHolderName != "" {
		out = append(out, "A/C Holder: "+data.AccountHolderName)
	}
	return out
}

func totalRow(label, value string, bold bool) core.Row {
	style := fontstyle.Normal
	if bold {
		style = fontstyle.Bold
	}
	return row.New(5).Add(
		col.New(8),
		text.NewCol(2, label, props.Text{Size: 9, Style: style, Align: align.Right}),
		text.NewCol(2, value, props.Text{Size: 9, Style: style, Align: align.Right}),
	)
}
