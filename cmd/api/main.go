package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/libertsolutions/libertvendas/internal/application/catalog"
	"github.com/libertsolutions/libertvendas/internal/application/dashboard"
	"github.com/libertsolutions/libertvendas/internal/application/dataimport"
	"github.com/libertsolutions/libertvendas/internal/application/events"
	"github.com/libertsolutions/libertvendas/internal/application/login"
	"github.com/libertsolutions/libertvendas/internal/application/order"
	"github.com/libertsolutions/libertvendas/internal/application/retry"
	"github.com/libertsolutions/libertvendas/internal/application/session"
	"github.com/libertsolutions/libertvendas/internal/domain/entity"
	"github.com/libertsolutions/libertvendas/internal/domain/repository"
	"github.com/libertsolutions/libertvendas/internal/infrastructure/memory"
	infrapdf "github.com/libertsolutions/libertvendas/internal/infrastructure/pdf"
	"github.com/libertsolutions/libertvendas/internal/infrastructure/postgres"
	"github.com/libertsolutions/libertvendas/internal/infrastructure/remote"
	httpRouter "github.com/libertsolutions/libertvendas/internal/interfaces/http"
	"github.com/libertsolutions/libertvendas/pkg/config"
	"github.com/libertsolutions/libertvendas/pkg/logger"
)

// caches repositorios de la caché local, sobre PostgreSQL o en memoria.
type caches struct {
	settings       repository.SettingsRepository
	salesmen       repository.Repository[*entity.Salesman]
	paymentMethods repository.Repository[*entity.PaymentMethod]
	cities         repository.Repository[*entity.City]
	priceTables    repository.Repository[*entity.PriceTable]
	customers      repository.Repository[*entity.Customer]
	postalCodes    repository.Repository[*entity.PostalCode]
	orders         repository.Repository[*entity.Order]
}

func postgresCaches(q postgres.Querier) caches {
	return caches{
		settings:       postgres.NewSettingsRepository(q),
		salesmen:       postgres.NewRecordRepo(q, func() *entity.Salesman { return new(entity.Salesman) }),
		paymentMethods: postgres.NewRecordRepo(q, func() *entity.PaymentMethod { return new(entity.PaymentMethod) }),
		cities:         postgres.NewRecordRepo(q, func() *entity.City { return new(entity.City) }),
		priceTables:    postgres.NewRecordRepo(q, func() *entity.PriceTable { return new(entity.PriceTable) }),
		customers:      postgres.NewRecordRepo(q, func() *entity.Customer { return new(entity.Customer) }),
		postalCodes:    postgres.NewRecordRepo(q, func() *entity.PostalCode { return new(entity.PostalCode) }),
		orders:         postgres.NewRecordRepo(q, func() *entity.Order { return new(entity.Order) }),
	}
}

func memoryCaches() caches {
	return caches{
		settings:       memory.NewSettings(),
		salesmen:       memory.NewRepo(func() *entity.Salesman { return new(entity.Salesman) }),
		paymentMethods: memory.NewRepo(func() *entity.PaymentMethod { return new(entity.PaymentMethod) }),
		cities:         memory.NewRepo(func() *entity.City { return new(entity.City) }),
		priceTables:    memory.NewRepo(func() *entity.PriceTable { return new(entity.PriceTable) }),
		customers:      memory.NewRepo(func() *entity.Customer { return new(entity.Customer) }),
		postalCodes:    memory.NewRepo(func() *entity.PostalCode { return new(entity.PostalCode) }),
		orders:         memory.NewRepo(func() *entity.Order { return new(entity.Order) }),
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando agente")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es requerido")
	}

	ctx := context.Background()

	// Caché local
	var store caches
	if cfg.Store.Driver == "memory" {
		log.Warn().Msg("caché en memoria: los datos se pierden al reiniciar")
		store = memoryCaches()
	} else {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("esquema de la caché local")
		}
		store = postgresCaches(pool)
	}

	// Backend remoto
	client, err := remote.NewClient(cfg.Backend, log)
	if err != nil {
		log.Fatal().Err(err).Msg("cliente del backend")
	}
	salesmanAPI := remote.NewSalesmanAPI(client)
	paymentMethodAPI := remote.NewPaymentMethodAPI(client)
	cityAPI := remote.NewCityAPI(client)
	priceTableAPI := remote.NewPriceTableAPI(client)
	customerAPI := remote.NewCustomerAPI(client)
	postalCodeAPI := remote.NewPostalCodeAPI(client)
	connectivity := remote.NewConnectivity(client, 3*time.Second)

	// Sesión y eventos
	bus := events.NewBus(log)
	sessions := session.NewStore(store.settings, bus, cfg.Backend.CompanyCNPJ)
	if u, err := sessions.Restore(ctx); err != nil {
		log.Warn().Err(err).Msg("no se pudo restaurar la sesión")
	} else if u != nil {
		log.Info().
			Int64("salesman_id", u.Salesman.SalesmanID).
			Int64("company_id", u.DefaultCompany.CompanyID).
			Msg("sesión restaurada")
	}

	// Presentadores y casos de uso
	backoff := retry.Backoff{MaxRetries: cfg.Retry.MaxRetries, BaseDelay: cfg.Retry.BaseDelay}
	newLogin := func() *login.Presenter {
		return login.NewPresenter(salesmanAPI, store.salesmen, sessions, connectivity, bus, backoff, log)
	}
	importPresenter := dataimport.NewPresenter(paymentMethodAPI, store.paymentMethods, cityAPI, store.cities, sessions, log)
	catalogSvc := catalog.NewService(priceTableAPI, customerAPI, postalCodeAPI, catalog.Repositories{
		PriceTables:    store.priceTables,
		Customers:      store.customers,
		PostalCodes:    store.postalCodes,
		PaymentMethods: store.paymentMethods,
		Cities:         store.cities,
	}, sessions, log)

	drafts := order.NewDraftStore(store.settings, store.customers, store.paymentMethods)
	orderHandler := httpRouter.NewOrderHandler(
		order.NewSelectItemsPresenter(store.priceTables, sessions, drafts, log),
		order.NewFinalizePresenter(store.paymentMethods, store.customers, store.orders, sessions, drafts, bus, log),
		order.NewReceiptUseCase(store.orders, sessions, infrapdf.NewMarotoPDFGenerator()),
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: cfg.Backend.Timeout + 10*time.Second,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Auth: httpRouter.NewAuthHandler(newLogin, sessions, httpRouter.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		}, orderHandler.Reset),
		Import:    httpRouter.NewImportHandler(importPresenter, connectivity),
		Catalog:   httpRouter.NewCatalogHandler(catalogSvc),
		Customers: httpRouter.NewCustomerHandler(catalogSvc),
		Orders:    orderHandler,
		Dashboard: httpRouter.NewDashboardHandler(dashboard.NewPresenter(store.orders, bus, log)),
		Sessions:  sessions,
		JWTSecret: cfg.JWT.Secret,
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("agente detenido")
}
