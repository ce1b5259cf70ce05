package csvio

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	appos "github.com/jhoicas/OrdemServico-api/internal/application/serviceorder"
	"github.com/jhoicas/OrdemServico-api/internal/domain"
)

func TestEncode_CabeceraYFormato(t *testing.T) {
	var buf bytes.Buffer
	err := Codec{}.Encode(&buf, []appos.ExportRow{{
		Number:        "OS-2024-0001",
		IssueDate:     time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		ClientName:    "Silva, João",
		LicensePlate:  "ABC1234",
		MaterialTotal: decimal.NewFromInt(80),
		LaborTotal:    decimal.RequireFromString("50.5"),
		FinalTotal:    decimal.RequireFromString("130.5"),
		Status:        "Finalizado",
		IsPaid:        true,
		PaymentMethod: "PIX",
	}})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "OS,Data,Cliente,Telefone,Placa,Modelo,Profissional,Total Material,Mão de Obra,Total Geral,Status,Pago,Forma Pagamento", lines[0])
	assert.Equal(t, `OS-2024-0001,05/03/2024,"Silva, João",,ABC1234,,,80.00,50.50,130.50,Finalizado,Sim,PIX`, lines[1])
}

func TestDecode_RoundTripDeExportacion(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Codec{}.Encode(&buf, []appos.ExportRow{{
		Number: "OS-2024-0001", ClientName: "Ana", FinalTotal: decimal.NewFromInt(10), Status: "Em andamento",
	}}))

	rows, err := Codec{}.Decode(&buf)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Ana", rows[0].ClientName)
	assert.False(t, rows[0].IsPaid)
	assert.True(t, decimal.NewFromInt(10).Equal(rows[0].FinalTotal))
}

func TestDecode_PuntoYComaBOMyMontosBR(t *testing.T) {
	in := "\xEF\xBB\xBFCliente;Total Geral;Pago\nJoão;R$ 1.234,56;SIM\n;;\n"
	rows, err := Codec{}.Decode(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, rows, 1, "las filas vacías se ignoran")
	assert.Equal(t, "João", rows[0].ClientName)
	assert.True(t, decimal.RequireFromString("1234.56").Equal(rows[0].FinalTotal))
	assert.True(t, rows[0].IsPaid)
	assert.Equal(t, "Em andamento", rows[0].Status)
}

func TestDecode_Windows1252(t *testing.T) {
	utf := "Cliente,Mão de Obra\nJosé,10\n"
	latin, err := charmap.Windows1252.NewEncoder().String(utf)
	require.NoError(t, err)

	rows, err := Codec{}.Decode(strings.NewReader(latin))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "José", rows[0].ClientName)
	assert.True(t, decimal.NewFromInt(10).Equal(rows[0].LaborTotal))
}

func TestDecode_Errores(t *testing.T) {
	_, err := Codec{}.Decode(strings.NewReader(""))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = Codec{}.Decode(strings.NewReader("Nome,Telefone\nAna,1\n"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = Codec{}.Decode(strings.NewReader("Cliente,Total Geral\nAna,abc\n"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "línea 2")
}

func TestParseAmount(t *testing.T) {
	cases := map[string]string{
		"":              "0",
		"10":            "10",
		"10.5":          "10.5",
		"10,5":          "10.5",
		"1.234,56":      "1234.56",
		"12.345.678,90": "12345678.9",
		"R$ 99,90":      "99.9",
		"  7  ":         "7",
		"10.500":        "10.5",
	}
	for in, want := range cases {
		got, err := ParseAmount(in)
		require.NoError(t, err, in)
		assert.True(t, decimal.RequireFromString(want).Equal(got), "%q → %s", in, got)
	}
}

func TestParseAmount_Rechaza(t *testing.T) {
	for _, in := range []string{
		"x",
		"1,234.56",  // separadores mezclados en orden inglés
		"1.23,45",   // agrupación de miles inválida
		"1,2,3",     // varias comas
		"1,234",     // tres decimales
		"10.555",    // tres decimales
		"0,001",     // tres decimales
		"-50",       // negativo
		"R$ -1,00",  // negativo con símbolo
	} {
		_, err := ParseAmount(in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, in)
	}
}

func TestDecode_TotalNegativoEsErrorDeEntrada(t *testing.T) {
	_, err := Codec{}.Decode(strings.NewReader("Cliente,Total Geral\nAna,10\nBia,-50\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "línea 3")
	assert.Contains(t, err.Error(), "Total Geral")
}

func TestDecode_MontoAmbiguoEsErrorDeEntrada(t *testing.T) {
	_, err := Codec{}.Decode(strings.NewReader("Cliente;Total Material\nAna;1,234.56\n"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "línea 2")
}
