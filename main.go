package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/labstack/echo"
	"github.com/labstack/echo/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"primerdesign/api/contexts"
	pam "primerdesign/api/middleware"
	"primerdesign/api/models"
	primersMvc "primerdesign/api/mvc/primers"
	sequencesMvc "primerdesign/api/mvc/sequences"
	serviceInfoMvc "primerdesign/api/mvc/service-info"
	esRepo "primerdesign/api/repositories/elasticsearch"
	"primerdesign/api/services"
	"primerdesign/api/services/design"
	"primerdesign/api/services/sanitation"
	"primerdesign/api/services/sequences"
	"primerdesign/api/utils"
)

func main() {
	// an optional .env sits beside the binary in development
	_ = godotenv.Load()

	// Gather environment variables
	var cfg models.Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	zapCfg := zap.NewProductionConfig()
	if cfg.Debug {
		zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := zapCfg.Build()
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	defer logger.Sync()

	logger.Info("starting primer design service",
		zap.Bool("debug", cfg.Debug),
		zap.String("port", cfg.Api.Port),
		zap.Int("resultCount", cfg.Api.ResultCount),
		zap.Int("maxCandidates", cfg.Api.MaxCandidates),
		zap.Int("designConcurrencyLevel", cfg.Api.DesignConcurrencyLevel),
		zap.Bool("remoteEnabled", cfg.Remote.Enabled),
		zap.String("remoteUrl", cfg.Remote.Url),
		zap.String("ensemblUrl", cfg.Provider.EnsemblUrl),
		zap.String("ncbiUrl", cfg.Provider.NcbiUrl),
		zap.String("elasticsearchUrl", cfg.Elasticsearch.Url),
		zap.Bool("authorizationEnabled", cfg.AuthX.IsAuthorizationEnabled))

	// Instantiate Server
	e := echo.New()

	// Service Connections:
	// -- Elasticsearch (optional)
	es, err := utils.CreateEsConnection(&cfg, logger)
	if err != nil {
		logger.Fatal("cannot create elasticsearch client", zap.Error(err))
	}

	// Service Singletons
	var (
		store    sequences.SequenceStore
		archiver design.Archiver
		remote   design.Strategy
	)
	if es != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := esRepo.EnsureIndices(ctx, es); err != nil {
			logger.Fatal("cannot prepare elasticsearch indices", zap.Error(err))
		}
		cancel()

		store = esRepo.NewSequenceStore(es)

		archive, err := services.NewArchiveService(es, logger)
		if err != nil {
			logger.Fatal("cannot create design archive", zap.Error(err))
		}
		defer archive.Close(context.Background())
		archiver = archive
	}
	if cfg.Remote.Enabled && len(cfg.Remote.Url) > 0 {
		remote = design.NewRemoteStrategy(cfg.Remote.Url, cfg.Remote.Timeout)
	}

	az := services.NewAuthzService(&cfg, logger)
	cache := sequences.NewCache(sequences.NewRemoteProvider(&cfg, logger), store, logger)
	cache.SetStoreTimeout(cfg.Elasticsearch.Timeout)
	orchestrator := design.NewOrchestrator(cache, remote, design.NewLocalStrategy(), archiver, logger)
	jobs := services.NewJobService(orchestrator, cfg.Api.DesignConcurrencyLevel, logger)

	ss := sanitation.NewSanitationService(es, jobs, &cfg, logger)
	defer ss.Stop()

	// Configure Server
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET, echo.PUT, echo.POST, echo.DELETE},
	}))

	// -- Override handlers with the custom context
	//		to be able to provide variables and global singletons
	e.Use(func(h echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := &contexts.PrimerContext{
				Context:      c,
				Config:       &cfg,
				Log:          logger,
				Es7Client:    es,
				Orchestrator: orchestrator,
				Cache:        cache,
				JobService:   jobs,
			}
			return h(cc)
		}
	})

	// Global Middleware
	e.Use(az.MandateAuthorizationTokensMiddleware)

	// Begin MVC Routes
	// -- Root
	e.GET("/", serviceInfoMvc.GetWelcome)

	// -- Service Info
	e.GET("/service-info", serviceInfoMvc.GetServiceInfo)

	// -- Primers
	e.GET("/primers/design", primersMvc.DesignPrimers,
		// middleware
		pam.ValidateDesignParameters,
		pam.MandateDesignTarget)
	e.POST("/primers/design", primersMvc.DesignPrimers,
		// middleware
		pam.ValidateDesignParameters,
		pam.MandateDesignTarget)
	e.POST("/primers/design/batch", primersMvc.StartBatchDesign)
	e.GET("/primers/design/jobs", primersMvc.GetDesignJobs)
	e.GET("/primers/design/jobs/:id", primersMvc.GetDesignJob)
	e.GET("/primers/designs/history", primersMvc.GetDesignHistory)
	e.GET("/primers/analyze", primersMvc.AnalyzePrimer)

	// -- Sequences
	e.GET("/sequences/overview", sequencesMvc.GetSequencesOverview)
	e.GET("/sequences/:identifier", sequencesMvc.GetSequence)

	// Run
	if err := e.Start(":" + cfg.Api.Port); err != nil && err != http.ErrServerClosed {
		logger.Error("server stopped", zap.Error(err))
	}
}
