// Package pdf genera el ticket de venta en PDF con Maroto v2.
//
// Layout A4:
//
//	┌──────────────────────────────────────────────┐
//	│  TIENDA + dirección      │  N° Venta + Fecha │
//	│  ──────────────────────────────────────────  │
//	│  TABLA: Cant | Producto | P.Unit | Subtotal  │
//	│  ──────────────────────────────────────────  │
//	│  Método de pago / N° operación YAPE          │
//	│  TOTAL                                        │
//	└──────────────────────────────────────────────┘
package pdf

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jcastillo/puntoventa-api/internal/application/sales"
	"github.com/jcastillo/puntoventa-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 30, Green: 60, Blue: 110}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ sales.ReceiptGenerator = (*MarotoReceiptGenerator)(nil)

// MarotoReceiptGenerator implementa sales.ReceiptGenerator usando Maroto v2.
type MarotoReceiptGenerator struct {
	printer *message.Printer
}

// NewMarotoReceiptGenerator construye el generador con formato es-PE.
func NewMarotoReceiptGenerator() *MarotoReceiptGenerator {
	return &MarotoReceiptGenerator{printer: message.NewPrinter(language.Spanish)}
}

// soles formatea un monto en soles con separador de miles.
func (g *MarotoReceiptGenerator) soles(d decimal.Decimal) string {
	return g.printer.Sprintf("S/ %.2f", d.InexactFloat64())
}

// GenerateReceipt genera el ticket y devuelve sus bytes.
func (g *MarotoReceiptGenerator) GenerateReceipt(sale *entity.Sale, store *entity.Store, products map[string]*entity.Product) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Ticket de venta "+sale.Number, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(sale, store))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	for _, item := range sale.Items {
		m.AddRows(g.itemRow(item, products))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.totalsRows(sale)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar ticket: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: tienda (izq) y número + fecha (der).
func (g *MarotoReceiptGenerator) headerRow(sale *entity.Sale, store *entity.Store) core.Row {
	storeName := "Tienda"
	storeAddress := ""
	if store != nil {
		storeName = store.Name
		storeAddress = store.Address
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(storeName, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New(storeAddress, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("VENTA "+sale.Number, props.Text{Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 1}),
			text.New(sale.CreatedAt.Format("02/01/2006 15:04"), props.Text{Size: 9, Align: align.Right, Top: 9, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	style := props.Text{Style: fontstyle.Bold, Size: 9}
	return row.New(7).Add(
		col.New(2).Add(text.New("Cant.", style)),
		col.New(6).Add(text.New("Producto", style)),
		col.New(2).Add(text.New("P. Unit", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right})),
		col.New(2).Add(text.New("Subtotal", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right})),
	)
}

func (g *MarotoReceiptGenerator) itemRow(item *entity.SaleItem, products map[string]*entity.Product) core.Row {
	name := item.ProductID
	if p, ok := products[item.ProductID]; ok {
		name = p.Name
	}
	return row.New(6).Add(
		col.New(2).Add(text.New(fmt.Sprintf("%d", item.Quantity), props.Text{Size: 9})),
		col.New(6).Add(text.New(name, props.Text{Size: 9})),
		col.New(2).Add(text.New(g.soles(item.UnitPrice), props.Text{Size: 9, Align: align.Right})),
		col.New(2).Add(text.New(g.soles(item.Subtotal), props.Text{Size: 9, Align: align.Right})),
	)
}

func (g *MarotoReceiptGenerator) totalsRows(sale *entity.Sale) []core.Row {
	payment := sale.PaymentMethod
	if sale.PaymentMethod == entity.PaymentYape && sale.YapeOperationNumber != "" {
		payment += " · Op. " + sale.YapeOperationNumber
	}
	rows := []core.Row{
		row.New(6).Add(
			col.New(8).Add(text.New("Pago: "+payment, props.Text{Size: 9, Color: colorGray})),
			col.New(4).Add(text.New("TOTAL  "+g.soles(sale.Total), props.Text{Style: fontstyle.Bold, Size: 12, Align: align.Right})),
		),
	}
	if sale.Status == entity.SaleStatusVoided {
		rows = append(rows, row.New(8).Add(
			col.New(12).Add(text.New("VENTA ANULADA", props.Text{Style: fontstyle.Bold, Size: 11, Align: align.Center})),
		))
	}
	return rows
}
