// seed crea el esquema y los datos iniciales del taller: ficha de la empresa, usuarios
// por defecto (admin, mecanico, tecnico) y el catálogo de servicios estándar.
//
// Uso:
//
//	go run ./cmd/seed            # esquema + datos iniciales
//	go run ./cmd/seed --sample   # además clientes y OS de ejemplo
//	go run ./cmd/seed --sample-only
//
// Es idempotente: lo que ya existe no se vuelve a crear.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/jhoicas/OrdemServico-api/internal/application/auth"
	"github.com/jhoicas/OrdemServico-api/internal/application/dto"
	appos "github.com/jhoicas/OrdemServico-api/internal/application/serviceorder"
	"github.com/jhoicas/OrdemServico-api/internal/application/usecase"
	"github.com/jhoicas/OrdemServico-api/internal/domain/entity"
	"github.com/jhoicas/OrdemServico-api/internal/infrastructure/postgres"
	"github.com/jhoicas/OrdemServico-api/pkg/config"
	"github.com/jhoicas/OrdemServico-api/pkg/logger"
)

type seedUser struct {
	username, email, password, name string
	admin                           bool
}

var defaultUsers = []seedUser{
	{"admin", "admin@empresa.com", "admin123", "Administrador", true},
	{"mecanico", "mecanico@empresa.com", "mec123", "João Silva", false},
	{"tecnico", "tecnico@empresa.com", "tec123", "Maria Santos", false},
}

var standardServices = []struct {
	name, description, category string
	price                       string
}{
	{"Troca de Óleo", "Troca de óleo do motor e filtro", "Manutenção", "80.00"},
	{"Alinhamento e Balanceamento", "Alinhamento da direção e balanceamento das rodas", "Mecânica", "120.00"},
	{"Revisão Geral", "Revisão completa do veículo", "Manutenção", "200.00"},
	{"Troca de Pastilhas de Freio", "Substituição das pastilhas de freio dianteiras", "Mecânica", "150.00"},
	{"Diagnóstico Eletrônico", "Diagnóstico completo do sistema eletrônico", "Diagnóstico", "100.00"},
	{"Troca de Bateria", "Substituição da bateria do veículo", "Elétrica", "300.00"},
	{"Reparo no Sistema Elétrico", "Diagnóstico e reparo de problemas elétricos", "Elétrica", "180.00"},
	{"Pintura Completa", "Pintura completa do veículo", "Pintura", "2500.00"},
	{"Funilaria e Pintura", "Reparo de lataria e pintura", "Funilaria", "800.00"},
	{"Troca de Pneus", "Montagem e balanceamento de pneus novos", "Mecânica", "50.00"},
}

func main() {
	var sample, sampleOnly bool

	root := &cobra.Command{
		Use:   "seed",
		Short: "Crea el esquema y los datos iniciales del taller",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), sample, sampleOnly)
		},
		SilenceUsage: true,
	}
	root.Flags().BoolVar(&sample, "sample", false, "crear además clientes y OS de ejemplo")
	root.Flags().BoolVar(&sampleOnly, "sample-only", false, "crear solo los datos de ejemplo (la base ya debe estar inicializada)")

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, sample, sampleOnly bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("cargar configuración: %w", err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		return err
	}

	userRepo := postgres.NewUserRepository(pool)
	if !sampleOnly {
		if _, err := usecase.NewCompanyUseCase(postgres.NewCompanyInfoRepository(pool), nil).GetOrCreate(ctx); err != nil {
			return fmt.Errorf("ficha de empresa: %w", err)
		}
		if err := seedUsers(ctx, userRepo, log); err != nil {
			return err
		}
		if err := seedServices(ctx, postgres.NewStandardServiceRepository(pool), log); err != nil {
			return err
		}
	}

	if sample || sampleOnly {
		orders := appos.NewUseCase(appos.Deps{
			TxRunner: postgres.NewTxRunner(pool),
			Orders:   postgres.NewServiceOrderRepository(pool),
			Log:      log,
		})
		if err := seedSample(ctx, userRepo, orders, log); err != nil {
			return err
		}
	}
	log.Info().Msg("seed finalizado")
	return nil
}

func seedUsers(ctx context.Context, repo *postgres.UserRepo, log *logger.Logger) error {
	now := time.Now()
	for _, u := range defaultUsers {
		existing, err := repo.GetByUsername(ctx, u.username)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		hash, err := auth.HashPassword(u.password)
		if err != nil {
			return err
		}
		if err := repo.Create(ctx, &entity.User{
			ID:               uuid.New().String(),
			Username:         u.username,
			Email:            u.email,
			PasswordHash:     hash,
			ProfessionalName: u.name,
			IsAdmin:          u.admin,
			IsActive:         true,
			CreatedAt:        now,
			UpdatedAt:        now,
		}); err != nil {
			return fmt.Errorf("crear usuario %s: %w", u.username, err)
		}
		log.Info().Str("username", u.username).Msg("usuario creado")
	}
	return nil
}

func seedServices(ctx context.Context, repo *postgres.StandardServiceRepo, log *logger.Logger) error {
	existing, err := repo.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	now := time.Now()
	for _, s := range standardServices {
		if err := repo.Create(ctx, &entity.StandardService{
			ID:             uuid.New().String(),
			Name:           s.name,
			Description:    s.description,
			SuggestedPrice: decimal.RequireFromString(s.price),
			Category:       s.category,
			IsActive:       true,
			CreatedAt:      now,
		}); err != nil {
			return fmt.Errorf("crear servicio %s: %w", s.name, err)
		}
	}
	log.Info().Int("total", len(standardServices)).Msg("servicios estándar creados")
	return nil
}

func item(name string, qty int64, price string) dto.OrderItemRequest {
	q := decimal.NewFromInt(qty)
	p := decimal.RequireFromString(price)
	return dto.OrderItemRequest{Name: name, Quantity: &q, UnitPrice: &p}
}

// seedSample tres OS de demostración: pagada, en curso y finalizada sin pagar.
func seedSample(ctx context.Context, users *postgres.UserRepo, orders *appos.UseCase, log *logger.Logger) error {
	admin, err := users.GetByUsername(ctx, "admin")
	if err != nil {
		return err
	}
	mechanic, err := users.GetByUsername(ctx, "mecanico")
	if err != nil {
		return err
	}
	if admin == nil || mechanic == nil {
		return fmt.Errorf("usuarios no encontrados: ejecute el seed sin --sample-only primero")
	}

	samples := []struct {
		professional string
		req          dto.SaveOrderRequest
		paid         bool
	}{
		{mechanic.ID, dto.SaveOrderRequest{
			ClientName: "Carlos Silva", ClientPhone: "(11) 98765-4321",
			LicensePlate: "ABC-1234", CarModel: "Honda Civic 2018",
			LaborTotal: decimal.NewFromInt(50), Status: entity.OrderStatusFinished, PaymentMethod: "PIX",
			Items: []dto.OrderItemRequest{item("Óleo Motor 5W30", 4, "15.00"), item("Filtro de Óleo", 1, "20.00")},
		}, true},
		{admin.ID, dto.SaveOrderRequest{
			ClientName: "Ana Santos", ClientPhone: "(11) 87654-3210",
			LicensePlate: "DEF-5678", CarModel: "Toyota Corolla 2020",
			LaborTotal: decimal.NewFromInt(200), Status: entity.OrderStatusInProgress, PaymentMethod: "Cartão de Crédito",
			Items: []dto.OrderItemRequest{item("Pastilhas de Freio", 1, "150.00"), item("Discos de Freio", 2, "75.00")},
		}, false},
		{mechanic.ID, dto.SaveOrderRequest{
			ClientName: "Pedro Oliveira", ClientPhone: "(11) 76543-2109",
			LicensePlate: "GHI-9012", CarModel: "Volkswagen Gol 2019",
			LaborTotal: decimal.NewFromInt(80), Status: entity.OrderStatusFinished, PaymentMethod: "Dinheiro",
			InternalObservations: "Cliente prometeu pagar na próxima semana",
			Items:                []dto.OrderItemRequest{item("Alinhamento", 1, "60.00"), item("Balanceamento", 1, "60.00")},
		}, false},
	}

	for _, s := range samples {
		created, err := orders.Create(ctx, s.professional, s.req)
		if err != nil {
			return fmt.Errorf("OS de ejemplo para %s: %w", s.req.ClientName, err)
		}
		if s.paid {
			s.req.IsPaid = true
			s.req.VehicleID = created.VehicleID
			if _, err := orders.Update(ctx, created.ID, s.req); err != nil {
				return err
			}
		}
		log.Info().Str("os_number", created.Number).Str("cliente", s.req.ClientName).Msg("OS de ejemplo creada")
	}
	return nil
}
