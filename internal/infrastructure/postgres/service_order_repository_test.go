package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/OrdemServico-api/internal/domain/repository"
)

func TestBuildOrderFilter_Vacio(t *testing.T) {
	where, args := buildOrderFilter(repository.OrderFilter{})
	assert.Empty(t, where)
	assert.Empty(t, args)
}

func TestBuildOrderFilter_Combinado(t *testing.T) {
	paid := false
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	where, args := buildOrderFilter(repository.OrderFilter{
		Search:   "abc",
		Status:   "Finalizado",
		Paid:     &paid,
		DateFrom: &from,
	})

	assert.Equal(t,
		" WHERE (c.name ILIKE $1 OR v.license_plate ILIKE $1 OR o.os_number ILIKE $1)"+
			" AND o.status = $2 AND o.is_paid = $3 AND o.issue_date >= $4",
		where)
	assert.Equal(t, []any{"%abc%", "Finalizado", false, from}, args)
}

func TestBuildOrderFilter_ClienteYHasta(t *testing.T) {
	to := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	where, args := buildOrderFilter(repository.OrderFilter{ClientID: "c-1", DateTo: &to})
	assert.Equal(t, " WHERE o.client_id = $1 AND o.issue_date <= $2", where)
	assert.Len(t, args, 2)
}
