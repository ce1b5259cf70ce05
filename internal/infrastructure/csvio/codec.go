// Package csvio lee y escribe el CSV de órdenes de servicio (columnas en portugués, tal
// como las abre una planilla).
package csvio

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	appos "github.com/jhoicas/OrdemServico-api/internal/application/serviceorder"
	"github.com/jhoicas/OrdemServico-api/internal/domain"
	"github.com/jhoicas/OrdemServico-api/internal/domain/entity"
	"github.com/jhoicas/OrdemServico-api/pkg/format"
)

// Columnas del archivo.
const (
	ColNumber        = "OS"
	ColDate          = "Data"
	ColClient        = "Cliente"
	ColPhone         = "Telefone"
	ColPlate         = "Placa"
	ColModel         = "Modelo"
	ColProfessional  = "Profissional"
	ColMaterial      = "Total Material"
	ColLabor         = "Mão de Obra"
	ColFinal         = "Total Geral"
	ColStatus        = "Status"
	ColPaid          = "Pago"
	ColPaymentMethod = "Forma Pagamento"
)

var exportHeader = []string{
	ColNumber, ColDate, ColClient, ColPhone, ColPlate, ColModel, ColProfessional,
	ColMaterial, ColLabor, ColFinal, ColStatus, ColPaid, ColPaymentMethod,
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var _ appos.CSVCodec = Codec{}

// Codec implementa serviceorder.CSVCodec.
type Codec struct{}

// Encode escribe cabecera + una fila por OS. Montos con punto decimal y 2 posiciones.
func (Codec) Encode(w io.Writer, rows []appos.ExportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, r := range rows {
		paid := "Não"
		if r.IsPaid {
			paid = "Sim"
		}
		rec := []string{
			r.Number,
			format.Date(r.IssueDate),
			r.ClientName,
			r.ClientPhone,
			r.LicensePlate,
			r.CarModel,
			r.Professional,
			r.MaterialTotal.StringFixed(2),
			r.LaborTotal.StringFixed(2),
			r.FinalTotal.StringFixed(2),
			r.Status,
			paid,
			r.PaymentMethod,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Decode lee el CSV de importación. Acepta UTF-8 (con o sin BOM) o Windows-1252,
// separador "," o ";" y montos "1234.56", "1.234,56" o "R$ 10,00".
// La única columna obligatoria es Cliente; las demás se completan con valores por defecto.
func (Codec) Decode(r io.Reader) ([]appos.ImportRow, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("csv: leer archivo: %w", err)
	}
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if !utf8.Valid(raw) {
		raw, _, err = transform.Bytes(charmap.Windows1252.NewDecoder(), raw)
		if err != nil {
			return nil, fmt.Errorf("csv: decodificar Windows-1252: %w", err)
		}
	}

	cr := csv.NewReader(bytes.NewReader(raw))
	cr.Comma = detectSeparator(raw)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: archivo vacío", domain.ErrInvalidInput)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}
	if _, ok := idx[ColClient]; !ok {
		return nil, fmt.Errorf("%w: falta la columna %q", domain.ErrInvalidInput, ColClient)
	}

	var out []appos.ImportRow
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: línea %d: %v", domain.ErrInvalidInput, line, err)
		}
		if blank(rec) {
			continue
		}
		get := func(col string) string {
			i, ok := idx[col]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		row := appos.ImportRow{
			ClientName:    get(ColClient),
			ClientPhone:   get(ColPhone),
			LicensePlate:  get(ColPlate),
			CarModel:      get(ColModel),
			Status:        get(ColStatus),
			PaymentMethod: get(ColPaymentMethod),
			IsPaid:        strings.EqualFold(get(ColPaid), "sim"),
		}
		if row.Status == "" {
			row.Status = entity.OrderStatusInProgress
		}
		for col, dst := range map[string]*decimal.Decimal{
			ColMaterial: &row.MaterialTotal,
			ColLabor:    &row.LaborTotal,
			ColFinal:    &row.FinalTotal,
		} {
			v, err := ParseAmount(get(col))
			if err != nil {
				return nil, fmt.Errorf("línea %d, columna %q: %w", line, col, err)
			}
			*dst = v
		}
		out = append(out, row)
	}
	return out, nil
}

// brGrouped monto pt-BR con separador de miles: 1.234,56 / 12.345.678,9
var brGrouped = regexp.MustCompile(`^\d{1,3}(\.\d{3})+,\d+$`)

// ParseAmount interpreta un monto en formato de planilla. Vacío es cero.
// Acepta "1234.56", "1234,56" y "1.234,56"; rechaza mezclas ambiguas ("1,234.56"),
// más de dos decimales y montos negativos.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "R$"))
	if s == "" {
		return decimal.Zero, nil
	}
	raw := s
	hasComma, hasDot := strings.Contains(s, ","), strings.Contains(s, ".")
	switch {
	case hasComma && hasDot:
		if !brGrouped.MatchString(s) {
			return decimal.Zero, fmt.Errorf("%w: monto ambiguo %q", domain.ErrInvalidInput, raw)
		}
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case hasComma:
		if strings.Count(s, ",") > 1 {
			return decimal.Zero, fmt.Errorf("%w: monto ambiguo %q", domain.ErrInvalidInput, raw)
		}
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: monto %q", domain.ErrInvalidInput, raw)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: monto negativo %q", domain.ErrInvalidInput, raw)
	}
	if !d.Equal(d.Round(2)) {
		return decimal.Zero, fmt.Errorf("%w: más de dos decimales en %q", domain.ErrInvalidInput, raw)
	}
	return d, nil
}

// detectSeparator ";" si la cabecera lo usa y no tiene comas (exportación de Excel pt-BR).
func detectSeparator(raw []byte) rune {
	first := raw
	if i := bytes.IndexByte(raw, '\n'); i >= 0 {
		first = raw[:i]
	}
	if bytes.IndexByte(first, ';') >= 0 && bytes.IndexByte(first, ',') < 0 {
		return ';'
	}
	return ','
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
