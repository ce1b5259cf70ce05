package serviceorder

import (
	"fmt"
	"strconv"
	"strings"
)

// NumberPrefix prefijo fijo de todas las órdenes de servicio.
const NumberPrefix = "OS"

// YearPrefix devuelve el prefijo de las órdenes de un año: "OS-2024-".
func YearPrefix(year int) string {
	return fmt.Sprintf("%s-%04d-", NumberPrefix, year)
}

// FormatOrderNumber arma el identificador OS-AAAA-NNNN.
// La secuencia se rellena con ceros hasta 4 dígitos; a partir de 10000 simplemente se ensancha.
func FormatOrderNumber(year, seq int) string {
	return fmt.Sprintf("%s%04d", YearPrefix(year), seq)
}

// ParseOrderNumber separa año y secuencia. ok=false si el texto no tiene el formato OS-AAAA-N+.
func ParseOrderNumber(s string) (year, seq int, ok bool) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 || parts[0] != NumberPrefix || len(parts[1]) != 4 || len(parts[2]) < 4 {
		return 0, 0, false
	}
	y, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}
	n, err := strconv.Atoi(parts[2])
	if err != nil || n < 0 {
		return 0, 0, false
	}
	return y, n, true
}

// NextOrderNumber calcula el siguiente número del año a partir de los ya emitidos (de cualquier año).
// Sin números para el año la secuencia arranca en 1.
//
// El máximo se compara numéricamente: coincide con el máximo lexicográfico mientras la
// secuencia tenga 4 dígitos y sigue siendo correcto cuando pasa de 9999.
func NextOrderNumber(year int, existing []string) string {
	prefix := YearPrefix(year)
	last := 0
	for _, n := range existing {
		if !strings.HasPrefix(n, prefix) {
			continue
		}
		y, seq, ok := ParseOrderNumber(n)
		if !ok || y != year {
			continue
		}
		if seq > last {
			last = seq
		}
	}
	return FormatOrderNumber(year, last+1)
}
