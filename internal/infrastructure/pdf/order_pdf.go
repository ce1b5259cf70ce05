// Package pdf genera el documento imprimible de la orden de servicio con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  [logo]   ORDEM DE SERVIÇO - OS-AAAA-NNNN                    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  EMPRESA: Nome / Telefone / Endereço / CNPJ                  │
//	│  CLIENTE: Data / Profissional / Cliente / Telefone / Veículo │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Item | Qtd | Valor Unit. | Total                     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Material / Mão de Obra / Ajustes / Total Geral     │
//	│  PAGO: estado + forma  │  [QR PIX]                           │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	appos "github.com/jhoicas/OrdemServico-api/internal/application/serviceorder"
	"github.com/jhoicas/OrdemServico-api/internal/domain/entity"
	"github.com/jhoicas/OrdemServico-api/internal/domain/repository"
	"github.com/jhoicas/OrdemServico-api/internal/domain/serviceorder"
	"github.com/jhoicas/OrdemServico-api/pkg/format"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 33, Green: 37, Blue: 41}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorHeader  = &props.Color{Red: 128, Green: 128, Blue: 128}
)

// ImageSource lee logo y QR PIX del storage. Opcional.
type ImageSource interface {
	Download(ctx context.Context, key string) ([]byte, error)
}

// ── Generator ─────────────────────────────────────────────────────────────────

var _ appos.PDFGenerator = (*OrderPDFGenerator)(nil)

// OrderPDFGenerator implementa serviceorder.PDFGenerator usando Maroto v2.
type OrderPDFGenerator struct {
	images ImageSource
}

// NewOrderPDFGenerator construye el generador. images puede ser nil (PDF sin logo ni QR).
func NewOrderPDFGenerator(images ImageSource) *OrderPDFGenerator {
	return &OrderPDFGenerator{images: images}
}

// GenerateOrderPDF genera el PDF y devuelve sus bytes.
func (g *OrderPDFGenerator) GenerateOrderPDF(
	ctx context.Context,
	d *repository.OrderDetails,
	company *entity.CompanyInfo,
) ([]byte, error) {
	if d == nil || d.Order == nil {
		return nil, fmt.Errorf("pdf: orden vacía")
	}
	if company == nil {
		company = entity.NewDefaultCompanyInfo("")
	}
	o := d.Order

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 10}).
		WithTitle("Ordem de Serviço "+o.Number, true).
		WithAuthor(company.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(titleRow(o.Number, g.loadImage(ctx, company.LogoKey)))
	m.AddRows(line.NewRow(2, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(sectionTitle("EMPRESA"))
	m.AddRows(fieldRows([][2]string{
		{"Empresa:", company.Name},
		{"Telefone:", company.Phone},
		{"Endereço:", company.Address},
		{"CNPJ:", company.CNPJ},
	})...)
	m.AddRows(row.New(4))

	m.AddRows(sectionTitle("CLIENTE"))
	m.AddRows(fieldRows(clientFields(d))...)
	m.AddRows(row.New(4))

	if len(o.Items) > 0 {
		m.AddRows(itemsHeaderRow())
		m.AddRows(itemRows(o.Items)...)
		m.AddRows(line.NewRow(2, props.Line{Color: colorPrimary, Thickness: 0.3}))
	}

	m.AddRows(totalsRows(o)...)
	m.AddRows(row.New(4))
	m.AddRows(paymentRow(o, g.loadImage(ctx, company.PixQRKey)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// loadImage baja la imagen si el storage la tiene y el formato se puede embeber.
type loadedImage struct {
	data []byte
	ext  extension.Type
}

func (g *OrderPDFGenerator) loadImage(ctx context.Context, key string) *loadedImage {
	if g.images == nil || key == "" {
		return nil
	}
	var ext extension.Type
	switch strings.ToLower(filepath.Ext(key)) {
	case ".png":
		ext = extension.Png
	case ".jpg", ".jpeg":
		ext = extension.Jpg
	default:
		return nil
	}
	data, err := g.images.Download(ctx, key)
	if err != nil || len(data) == 0 {
		return nil
	}
	return &loadedImage{data: data, ext: ext}
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func titleRow(number string, logo *loadedImage) core.Row {
	title := text.New("ORDEM DE SERVIÇO - "+number, props.Text{
		Style: fontstyle.Bold, Size: 16, Align: align.Center, Color: colorPrimary, Top: 5,
	})
	if logo == nil {
		return row.New(18).Add(col.New(12).Add(title))
	}
	return row.New(18).Add(
		col.New(3).Add(image.NewFromBytes(logo.data, logo.ext, props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(title),
	)
}

func sectionTitle(label string) core.Row {
	return row.New(7).Add(col.New(12).Add(text.New(label, props.Text{
		Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 1,
	})))
}

func clientFields(d *repository.OrderDetails) [][2]string {
	var professional, client, phone string
	if d.Professional != nil {
		professional = d.Professional.ProfessionalName
	}
	if d.Client != nil {
		client, phone = d.Client.Name, d.Client.Phone
	}
	return [][2]string{
		{"Data:", format.Date(d.Order.IssueDate)},
		{"Profissional:", professional},
		{"Cliente:", client},
		{"Telefone:", phone},
		{"Veículo:", d.Vehicle.Label()},
	}
}

// fieldRows tabla etiqueta/valor de dos columnas.
func fieldRows(fields [][2]string) []core.Row {
	rows := make([]core.Row, 0, len(fields))
	for _, f := range fields {
		rows = append(rows, row.New(6).Add(
			col.New(3).Add(text.New(f[0], props.Text{Style: fontstyle.Bold, Size: 10, Top: 1, Left: 1})),
			col.New(9).Add(text.New(f[1], props.Text{Size: 10, Top: 1})),
		))
	}
	return rows
}

func itemsHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Item", 6, align.Left),
		h("Qtd", 1, align.Center),
		h("Valor Unit.", 2, align.Right),
		h("Total", 3, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorHeader})
}

func itemRows(items []*entity.ServiceOrderItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		result = append(result, row.New(7).Add(
			col.New(6).Add(text.New(it.Name, props.Text{Size: 9, Top: 1, Left: 1})),
			col.New(1).Add(text.New(quantity(it), props.Text{Size: 9, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(format.Currency(it.UnitPrice), props.Text{Size: 9, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New(format.Currency(it.TotalPrice), props.Text{Size: 9, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

// quantity sin decimales cuando es entera ("2" en vez de "2,00").
func quantity(it *entity.ServiceOrderItem) string {
	if it.Quantity.Equal(it.Quantity.Truncate(0)) {
		return format.Number(it.Quantity, 0)
	}
	return format.Number(it.Quantity, 2)
}

func totalsRows(o *entity.ServiceOrder) []core.Row {
	line := func(label, value string, grand bool) core.Row {
		size, style, color := 11.0, fontstyle.Normal, colorGray
		if grand {
			size, style, color = 12, fontstyle.Bold, colorPrimary
		}
		return row.New(7).Add(
			col.New(6),
			col.New(3).Add(text.New(label, props.Text{Style: fontstyle.Bold, Size: size, Align: align.Right, Right: 2, Color: color})),
			col.New(3).Add(text.New(value, props.Text{Style: style, Size: size, Align: align.Right, Right: 1, Color: color})),
		)
	}

	rows := []core.Row{
		line("Total Material:", format.Currency(o.MaterialTotal), false),
		line("Mão de Obra:", format.Currency(o.LaborTotal), false),
	}
	if o.GeneralBudget.IsPositive() {
		rows = append(rows, line("Orçamento Geral:", format.Currency(o.GeneralBudget), false))
	}
	switch o.DiscountType {
	case serviceorder.DiscountPercentage:
		rows = append(rows, line("Desconto:", format.Number(o.DiscountValue, 2)+"%", false))
	case serviceorder.DiscountFixed:
		rows = append(rows, line("Desconto:", format.Currency(o.DiscountValue), false))
	}
	if o.SurchargePercentage.IsPositive() {
		rows = append(rows, line("Acréscimo:", format.Number(o.SurchargePercentage, 2)+"%", false))
	}
	return append(rows, line("Total Geral:", format.Currency(o.FinalTotal), true))
}

func paymentRow(o *entity.ServiceOrder, pix *loadedImage) core.Row {
	status := "Pagamento pendente"
	if o.IsPaid {
		status = "Pago"
		if o.PaymentDate != nil {
			status += " em " + format.Date(*o.PaymentDate)
		}
	}
	if o.PaymentMethod != "" {
		status += " - " + o.PaymentMethod
	}
	info := col.New(8).Add(
		text.New("Status: "+o.Status, props.Text{Size: 9, Top: 2, Color: colorGray}),
		text.New(status, props.Text{Style: fontstyle.Bold, Size: 10, Top: 8}),
	)
	if pix == nil || o.IsPaid {
		return row.New(16).Add(info, col.New(4))
	}
	return row.New(40).Add(
		info,
		col.New(4).Add(
			image.NewFromBytes(pix.data, pix.ext, props.Rect{Percent: 85, Center: true}),
		),
	)
}
