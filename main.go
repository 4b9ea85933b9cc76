package main

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"backoffice/api"
	"backoffice/internal/catalog"
	"backoffice/internal/config"
	"backoffice/internal/inventory"
	"backoffice/internal/sales"
	"backoffice/internal/stats"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	var (
		catalogStore catalog.Storage
		salesStore   sales.Storage
		invStore     inventory.Storage
		statsSource  stats.Source
	)
	if cfg.DatabaseURL != "" {
		db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		if err := db.AutoMigrate(
			&catalog.Product{}, &catalog.Color{}, &catalog.Size{}, &catalog.Coupon{},
			&inventory.Record{}, &sales.Sale{}, &sales.LineItem{},
		); err != nil {
			logger.Fatal("failed to migrate schema", zap.Error(err))
		}
		catalogStore = catalog.NewGormStorage(db)
		salesStore = sales.NewGormStorage(db)
		invStore = inventory.NewGormStorage(db)
		statsSource = stats.NewGormSource(db)
	} else {
		cat := catalog.NewLocalStorage()
		inv := inventory.NewLocalStorage()
		sls := sales.NewLocalStorage(cat)
		catalogStore, salesStore, invStore = cat, sls, inv
		statsSource = stats.NewLocalSource(sls, cat, inv)
		logger.Info("DATABASE_URL not set, using in-memory storage")
	}

	policy := inventory.AllowNegative
	if cfg.StockPolicy == config.StockPolicyReject {
		policy = inventory.RejectNegative
	}
	ledger := inventory.NewLedger(invStore, policy, logger)
	catalogService := catalog.NewService(catalogStore, ledger, logger)
	salesService := sales.NewService(salesStore, catalogService, ledger, logger)
	statsEngine := stats.NewEngine(statsSource, logger)

	r := gin.Default()
	api.InitRoutes(r, api.NewHandler(salesService, catalogService, ledger, statsEngine, logger))

	if err := r.Run(cfg.Addr); err != nil {
		panic(fmt.Errorf("error trying to start server: %v", err))
	}
}
