package routes

import (
	"context"
	"fmt"

	"restoredoc/internal/adapter/http/handlers"
	"restoredoc/internal/adapter/persistence/repository"
	"restoredoc/internal/config"
	"restoredoc/internal/domain/categorizer"
	"restoredoc/internal/domain/equipment"
	"restoredoc/internal/domain/rules"
	"restoredoc/internal/domain/validator"
	"restoredoc/internal/infrastructure/database"
	"restoredoc/internal/infrastructure/payments"
	"restoredoc/internal/infrastructure/vision"
	"restoredoc/internal/usecase"
	"restoredoc/internal/usecase/interfaces"

	"go.uber.org/zap"
)

type repositories struct {
	jobs      interfaces.IJobRepository
	estimates interfaces.IEstimateRepository
	payments  interfaces.IPaymentRepository
}

// BuildHandlers wires repositories, providers and use cases from cfg. The
// returned func releases the store.
func BuildHandlers(ctx context.Context, cfg config.Config, logger *zap.Logger) (Handlers, func(), error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	tables := rules.YorkPA()
	if cfg.RulesFile != "" {
		loaded, err := rules.Load(cfg.RulesFile)
		if err != nil {
			return Handlers{}, nil, err
		}
		tables = loaded
		logger.Info("pricing rules loaded", zap.String("file", cfg.RulesFile), zap.String("region", tables.Region))
	}

	repos, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return Handlers{}, nil, err
	}

	var analyzer interfaces.IVisionAnalyzer
	if cfg.GeminiAPIKey != "" {
		g, err := vision.NewGeminiAnalyzer(ctx, cfg.GeminiAPIKey, tables, vision.Options{
			Model:      cfg.GeminiModel,
			MaxRetries: cfg.VisionMaxRetries,
			Timeout:    cfg.VisionTimeout,
		}, logger.Named("vision"))
		if err != nil {
			logger.Warn("vision analyzer not configured", zap.Error(err))
		} else {
			analyzer = g
		}
	} else {
		logger.Warn("GEMINI_API_KEY not set; photo analysis disabled")
	}

	var gateway interfaces.IPaymentGateway
	if !cfg.PaymentMock {
		mp, err := payments.NewMercadoPagoGateway(cfg.MercadoPagoAccessToken, logger)
		if err != nil {
			logger.Warn("mercado pago gateway not configured", zap.Error(err))
		} else {
			gateway = mp
		}
	}

	estimateUC := usecase.NewEstimateUseCase(repos.estimates, repos.jobs, tables, logger.Named("estimate.usecase"))
	analysisUC := usecase.NewAnalysisUseCase(analyzer, validator.New(tables), categorizer.New(), logger.Named("analysis.usecase"))
	jobUC := usecase.NewJobUseCase(repos.jobs, logger.Named("job.usecase"))
	paymentUC := usecase.NewPaymentUseCase(repos.payments, repos.estimates, gateway, cfg.PaymentMock, usecase.SandboxPayer{
		AccessToken: cfg.MercadoPagoAccessToken,
		Email:       cfg.TestPayerEmail,
		UserID:      cfg.TestPayerUserID,
	}, logger.Named("payment.usecase"))

	h := Handlers{
		Analysis:  handlers.NewAnalysisHandler(analysisUC, estimateUC, logger.Named("analysis.handler")),
		Job:       handlers.NewJobHandler(jobUC),
		Estimate:  handlers.NewEstimateHandler(estimateUC, logger.Named("estimate.handler")),
		Equipment: handlers.NewEquipmentHandler(equipment.NewCalculator(tables)),
		Payment:   handlers.NewPaymentHandler(paymentUC, cfg.PaymentMock, logger.Named("payment.handler")),
	}
	return h, closeStore, nil
}

func openStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (repositories, func(), error) {
	switch cfg.Store {
	case config.StoreSQLite:
		db, err := database.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return repositories{}, nil, err
		}
		if err := database.MigrateUp(db); err != nil {
			db.Close()
			return repositories{}, nil, err
		}
		logger.Info("sqlite store ready", zap.String("path", cfg.SQLitePath))
		return repositories{
			jobs:      repository.NewJobSQLiteRepository(db),
			estimates: repository.NewEstimateSQLiteRepository(db),
			payments:  repository.NewPaymentSQLiteRepository(db),
		}, func() { _ = db.Close() }, nil

	case config.StoreDynamoDB:
		ddb, err := database.ConnectDynamoDB(ctx)
		if err != nil {
			return repositories{}, nil, err
		}
		names := database.TableNamesFromEnv()
		if err := database.EnsureTables(ctx, ddb, names, logger); err != nil {
			return repositories{}, nil, err
		}
		return repositories{
			jobs:      repository.NewJobDynamoRepository(ddb, names.Jobs),
			estimates: repository.NewEstimateDynamoRepository(ddb, names.Estimates),
			payments:  repository.NewPaymentDynamoRepository(ddb, names.Payments),
		}, func() {}, nil

	default:
		return repositories{}, nil, fmt.Errorf("unknown STORE %q (want %s or %s)", cfg.Store, config.StoreDynamoDB, config.StoreSQLite)
	}
}
