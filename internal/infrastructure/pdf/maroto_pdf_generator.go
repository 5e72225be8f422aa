// Package pdf genera el comprobante de un pedido guardado.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa + CNPJ      │  N° Pedido + Fecha emisión    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  VENDEDOR: nombre / código                                   │
//	│  CLIENTE: nombre + CPF/CNPJ + contacto                      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Descripción | P.Unit | Subtotal               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Ítems / Descuento / TOTAL                          │
//	│  PIE: forma de pago + observación                            │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strings"

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

	"github.com/libertsolutions/libertvendas/internal/application/order"
	"github.com/libertsolutions/libertvendas/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ order.ReceiptGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa order.ReceiptGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// Generate genera el comprobante del pedido y devuelve sus bytes.
func (g *MarotoPDFGenerator) Generate(o *entity.Order, user *entity.LoggedUser) ([]byte, error) {
	if o == nil || user == nil || user.Salesman == nil {
		return nil, fmt.Errorf("pdf: pedido o sesión vacíos")
	}
	company := user.DefaultCompany

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Pedido "+orderNumber(o), true).
		WithAuthor(company.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(o, company))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(salesmanRow(user.Salesman))
	m.AddRows(customerRow(&o.Customer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(o.Items)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(o))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRows(o)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: empresa + CNPJ (izq) y número de pedido + fecha (der).
func headerRow(o *entity.Order, company entity.Company) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(company.Name, "—"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("CNPJ: "+formatDocument(company.CNPJ), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("PEDIDO DE VENTA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(orderNumber(o), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 7,
			}),
			text.New("Emisión: "+o.IssueDate.Format(order.IssueDateLayout), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func salesmanRow(s *entity.Salesman) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("VENDEDOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%s   |   Código: %s   |   Email: %s",
				s.Name,
				nonEmpty(s.Code, "—"),
				nonEmpty(s.Email, "—"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// customerRow: datos del cliente del pedido.
func customerRow(c *entity.Customer) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(c.Name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("CPF/CNPJ: %s   |   Email: %s   |   Tel: %s",
				nonEmpty(formatDocument(c.CPFCNPJ), "—"),
				nonEmpty(c.Email, "—"),
				nonEmpty(c.Phone, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de ítems.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Descripción del producto", 6, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("Subtotal", 3, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// tableDetailRows: una fila por línea del pedido.
func tableDetailRows(items []entity.OrderLine) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				it.Quantity.String(),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(6).Add(text.New(
				it.Product.Description,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				formatMoney(it.UnitPrice),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(3).Add(text.New(
				formatMoney(it.Subtotal),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(o *entity.Order) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top,
		})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	grand := func(s string, right, top float64) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: right, Top: top,
		})
	}

	return row.New(20).Add(
		col.New(6),
		col.New(3).Add(
			label("Total ítems:", 0),
			label("Descuento:", 6),
			grand("TOTAL:", 2, 12),
		),
		col.New(3).Add(
			value(formatMoney(o.TotalItems()), 0),
			value("- "+formatMoney(o.Discount), 6),
			grand(formatMoney(o.Total()), 1, 12),
		),
	)
}

// footerRows: forma de pago y observación.
func footerRows(o *entity.Order) []core.Row {
	rows := []core.Row{
		row.New(8).Add(col.New(12).Add(
			text.New("Forma de pago: "+nonEmpty(o.PaymentMethod.Description, "—"), props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2,
			}),
		)),
	}
	if obs := strings.TrimSpace(o.Observation); obs != "" {
		rows = append(rows, row.New(6).Add(col.New(12).Add(
			text.New("Observación:", props.Text{Style: fontstyle.Bold, Size: 7, Top: 1}),
		)))
		for _, chunk := range splitEvery(obs, 100) {
			rows = append(rows, row.New(4).Add(col.New(12).Add(
				text.New(chunk, props.Text{Size: 7, Color: colorGray, Top: 0.5, Left: 2}),
			)))
		}
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func orderNumber(o *entity.Order) string {
	if o.OrderID != 0 {
		return fmt.Sprintf("N° %d", o.OrderID)
	}
	if len(o.LocalKey) > 8 {
		return "N° " + strings.ToUpper(o.LocalKey[:8])
	}
	return "N° " + strings.ToUpper(nonEmpty(o.LocalKey, "—"))
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney formatea en reales con puntos de miles y coma decimal.
// Ej: 1234.5 → "R$ 1.234,50"
func formatMoney(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign, d = "-", d.Neg()
	}
	s := d.StringFixed(2)
	intPart, frac := s[:len(s)-3], s[len(s)-2:]
	return "R$ " + sign + groupThousands(intPart) + "," + frac
}

// groupThousands inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}

// formatDocument puntúa un CPF (000.000.000-00) o un CNPJ (00.000.000/0000-00);
// cualquier otra cosa se devuelve sin cambios.
func formatDocument(doc string) string {
	d := make([]byte, 0, len(doc))
	for _, c := range []byte(doc) {
		if c >= '0' && c <= '9' {
			d = append(d, c)
		}
	}
	switch len(d) {
	case 11:
		return fmt.Sprintf("%s.%s.%s-%s", d[0:3], d[3:6], d[6:9], d[9:11])
	case 14:
		return fmt.Sprintf("%s.%s.%s/%s-%s", d[0:2], d[2:5], d[5:8], d[8:12], d[12:14])
	default:
		return doc
	}
}

// splitEvery divide s en trozos de max n caracteres.
func splitEvery(s string, n int) []string {
	var parts []string
	r := []rune(s)
	for len(r) > n {
		parts = append(parts, string(r[:n]))
		r = r[n:]
	}
	if len(r) > 0 {
		parts = append(parts, string(r))
	}
	return parts
}
