package postgres

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/OrdemServico-api/pkg/config"
)

func TestPoolConfigFor_TamanioYCodec(t *testing.T) {
	pc, err := poolConfigFor(config.DBConfig{
		DatabaseURL: "postgres://os:secret@db:5432/ordem_servico?sslmode=disable",
		MaxConns:    4,
		MinConns:    2,
	})
	require.NoError(t, err)

	assert.EqualValues(t, 4, pc.MaxConns)
	assert.EqualValues(t, 2, pc.MinConns)
	assert.NotNil(t, pc.AfterConnect)
	assert.Equal(t, "db", pc.ConnConfig.Host)
}

func TestPoolConfigFor_ValoresPorDefecto(t *testing.T) {
	pc, err := poolConfigFor(config.DBConfig{
		Host: "localhost", Port: 5432, User: "postgres", DBName: "ordem_servico", SSLMode: "disable",
		MinConns: 50,
	})
	require.NoError(t, err)

	assert.EqualValues(t, defaultMaxConns, pc.MaxConns)
	assert.EqualValues(t, defaultMinConns, pc.MinConns, "un mínimo mayor que el máximo se ignora")
}

func TestPoolConfigFor_DSNInvalido(t *testing.T) {
	_, err := poolConfigFor(config.DBConfig{DatabaseURL: "postgres://%zz"})
	assert.Error(t, err)
}

type stubResolver struct {
	ips []net.IP
	err error
}

func (r stubResolver) LookupIP(context.Context, string, string) ([]net.IP, error) { return r.ips, r.err }

func TestFirstIPv4(t *testing.T) {
	ctx := context.Background()

	got, err := firstIPv4(ctx, stubResolver{}, "10.0.0.5")
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.5", got)

	_, err = firstIPv4(ctx, stubResolver{}, "::1")
	assert.Error(t, err)

	got, err = firstIPv4(ctx, stubResolver{ips: []net.IP{net.ParseIP("2001:db8::1"), net.ParseIP("192.168.1.20")}}, "db")
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.20", got)

	_, err = firstIPv4(ctx, stubResolver{ips: []net.IP{net.ParseIP("2001:db8::1")}}, "db")
	assert.Error(t, err)

	_, err = firstIPv4(ctx, stubResolver{err: errors.New("no such host")}, "db")
	assert.Error(t, err)
}
