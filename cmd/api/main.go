package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/swaggo/swag"

	"github.com/jhoicas/OrdemServico-api/docs"
	appanalytics "github.com/jhoicas/OrdemServico-api/internal/application/analytics"
	"github.com/jhoicas/OrdemServico-api/internal/application/auth"
	appos "github.com/jhoicas/OrdemServico-api/internal/application/serviceorder"
	"github.com/jhoicas/OrdemServico-api/internal/application/usecase"
	infracache "github.com/jhoicas/OrdemServico-api/internal/infrastructure/cache"
	"github.com/jhoicas/OrdemServico-api/internal/infrastructure/csvio"
	"github.com/jhoicas/OrdemServico-api/internal/infrastructure/events"
	"github.com/jhoicas/OrdemServico-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/OrdemServico-api/internal/infrastructure/pdf"
	"github.com/jhoicas/OrdemServico-api/internal/infrastructure/postgres"
	"github.com/jhoicas/OrdemServico-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/OrdemServico-api/internal/interfaces/http"
	"github.com/jhoicas/OrdemServico-api/pkg/config"
	"github.com/jhoicas/OrdemServico-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	// Adjuntos: sin endpoint configurado la API funciona sin uploads.
	var fileStorage appos.FileStorage
	if cfg.Storage.Enabled() {
		s, err := storage.NewMinIOStorage(ctx, cfg.Storage, log.WithComponent("storage"))
		if err != nil {
			log.Fatal().Err(err).Msg("storage de adjuntos")
		}
		fileStorage = s
	} else {
		log.Warn().Msg("STORAGE_ENDPOINT vacío: uploads deshabilitados")
	}

	// Cache del dashboard (opcional)
	var dashboardCache *infracache.DashboardCache
	if cfg.Redis.Addr != "" {
		rc, err := infracache.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn().Err(err).Msg("redis no disponible: dashboard sin cache")
		} else {
			defer rc.Close()
			dashboardCache = infracache.NewDashboardCache(rc, cfg.Redis.DashboardTTL)
		}
	}

	// Eventos de OS (opcional)
	var publisher interface {
		appos.EventPublisher
		Close() error
	} = events.NopPublisher{}
	if cfg.Kafka.Enabled() {
		publisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, log.WithComponent("events"))
	}
	defer publisher.Close()

	prom := metrics.New()

	userRepo := postgres.NewUserRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	vehicleRepo := postgres.NewVehicleRepository(pool)
	orderRepo := postgres.NewServiceOrderRepository(pool)
	serviceRepo := postgres.NewStandardServiceRepository(pool)
	companyRepo := postgres.NewCompanyInfoRepository(pool)

	orderDeps := appos.Deps{
		TxRunner:    postgres.NewTxRunner(pool),
		Orders:      orderRepo,
		Storage:     fileStorage,
		Publisher:   publisher,
		Metrics:     prom,
		Log:         log.WithComponent("serviceorder"),
		MaxAttempts: cfg.Order.MaxNumberAttempts,
	}
	var dashboardCachePort appanalytics.DashboardCache
	if dashboardCache != nil {
		orderDeps.Cache = dashboardCache
		dashboardCachePort = dashboardCache
	}
	orderUC := appos.NewUseCase(orderDeps)

	companyUC := usecase.NewCompanyUseCase(companyRepo, fileStorage)

	// PDF: logo y QR PIX se leen del storage si existe.
	var pdfImages infrapdf.ImageSource
	if fileStorage != nil {
		pdfImages = fileStorage
	}
	documentsUC := appos.NewDocumentsUseCase(orderUC, infrapdf.NewOrderPDFGenerator(pdfImages), companyUC, csvio.Codec{})

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.HTTP.MaxUploadMB * 1024 * 1024,
		ReadTimeout:  time.Second * 30,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(prom.Middleware())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: cfg.HTTP.SwaggerFile,
		Path:     "docs",
		Title:    "Ordem de Serviço API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", prom.Handler())
	app.Get("/openapi.json", func(c *fiber.Ctx) error {
		doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
		if err != nil {
			return err
		}
		c.Type("json")
		return c.SendString(doc)
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		OrderUC:     orderUC,
		DocumentsUC: documentsUC,
		ClientUC:    usecase.NewClientUseCase(clientRepo, vehicleRepo),
		CatalogUC:   usecase.NewCatalogUseCase(serviceRepo),
		CompanyUC:   companyUC,
		DashboardUC: appanalytics.NewDashboardUseCase(orderRepo, dashboardCachePort, log.WithComponent("dashboard")),
		ReportUC:    appanalytics.NewReportUseCase(orderRepo),
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownGrace)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
