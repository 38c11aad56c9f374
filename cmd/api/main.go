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

	"github.com/jhoicas/vendafacil-api/internal/application/auth"
	"github.com/jhoicas/vendafacil-api/internal/application/fiscal"
	infranfe "github.com/jhoicas/vendafacil-api/internal/infrastructure/nfe"
	infrapdf "github.com/jhoicas/vendafacil-api/internal/infrastructure/pdf"
	"github.com/jhoicas/vendafacil-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/vendafacil-api/internal/interfaces/http"
	"github.com/jhoicas/vendafacil-api/pkg/config"
	"github.com/jhoicas/vendafacil-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   "info",
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("nfe_state_code", cfg.NFE.StateCode).
		Str("nfe_check_digit", cfg.NFE.CheckDigit).
		Str("nfe_digest", cfg.NFE.Digest).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	companyRepo := postgres.NewCompanyRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	voidRepo := postgres.NewNumberVoidRepository(pool)
	employeeRepo := postgres.NewEmployeeRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// NF-e: builder XML + firma simulada (sin certificado A1)
	builderOpts := []infranfe.BuilderOption{infranfe.WithStateCode(cfg.NFE.StateCode)}
	if cfg.NFE.ComputedCheckDigit() {
		builderOpts = append(builderOpts, infranfe.WithComputedCheckDigit())
	}
	xmlBuilder := infranfe.NewDocumentBuilder(builderOpts...)

	var signerOpts []infranfe.SignerOption
	if cfg.NFE.DocumentDigest() {
		signerOpts = append(signerOpts, infranfe.WithDocumentDigest())
	}
	signer := infranfe.NewEnvelopeSigner(signerOpts...)

	fiscalLog := log.Component("fiscal")
	emitUC := fiscal.NewEmitUseCase(saleRepo, companyRepo, clientRepo, productRepo, xmlBuilder, signer, fiscalLog)
	invoiceUC := fiscal.NewInvoiceUseCase(saleRepo, voidRepo, fiscalLog).WithTx(txRunner)

	// PDF: DANFE NFC-e con QR Code de consulta
	receiptUC := fiscal.NewReceiptUseCase(
		saleRepo, companyRepo, clientRepo, infrapdf.NewMarotoReceiptGenerator(), cfg.NFE.QRCodeURL, fiscalLog,
	)
	authUC := auth.NewAuthUseCase(employeeRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "VendaFácil API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:    authUC,
		EmitUC:    emitUC,
		InvoiceUC: invoiceUC,
		ReceiptUC: receiptUC,
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

	log.Info().Msg("aplicación detenida")
}
