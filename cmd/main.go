package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"ebay_pricing_v1_202608/internal/controller"
	"ebay_pricing_v1_202608/internal/engine"
	"ebay_pricing_v1_202608/internal/model"
	"ebay_pricing_v1_202608/internal/repository"
	"ebay_pricing_v1_202608/internal/router"
	"ebay_pricing_v1_202608/internal/service"
	"ebay_pricing_v1_202608/internal/task"
	"ebay_pricing_v1_202608/pkg/database"
	"ebay_pricing_v1_202608/pkg/fx"
)

func main() {
	// 1. 初始化数据库
	db := initDatabase()

	// 2. 初始化依赖
	deps := initDependencies(db)

	// 3. 启动定时任务
	initTasks(deps)

	// 4. 初始化路由
	r := gin.Default()
	router.InitRoutes(r, deps.Controllers.Pricing, deps.Controllers.RateTable, deps.Controllers.Fx)

	// 5. 启动服务
	startServer(r, deps)
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	DB          *gorm.DB
	Repos       *Repositories
	Services    *Services
	Controllers *Controllers
	FxTask      *task.FxTask
	Partition   *database.QuotePartitionTask
}

// Repositories 仓库集合
type Repositories struct {
	Zone         repository.ZoneRepository
	RateTable    repository.RateTableRepository
	Surcharge    repository.SurchargeRepository
	HtsCode      repository.HtsCodeRepository
	Tariff       repository.CountryTariffRepository
	Handling     repository.HandlingPolicyRepository
	Settings     repository.MarketplaceSettingsRepository
	ShippingRule repository.ShippingRuleRepository
	Fx           repository.ExchangeRateRepository
	Quote        repository.QuoteRepository
}

// Services 服务集合
type Services struct {
	Pricing   *service.PricingService
	RateTable *service.RateTableService
	Fx        *service.ExchangeRateService
}

// Controllers 控制器集合
type Controllers struct {
	Pricing   *controller.PricingController
	RateTable *controller.RateTableController
	Fx        *controller.ExchangeRateController
}

// ==================== 初始化函数 ====================

// initDatabase 初始化数据库
func initDatabase() *gorm.DB {
	dsn := getEnv("DATABASE_DSN",
		"host=localhost user=postgres password=postgres dbname=pricing port=5432 sslmode=disable TimeZone=Asia/Tokyo")

	// product_quotes 是分区表, 由分区管理器建表, 不走 AutoMigrate
	db := database.InitDB(dsn,
		// Zone
		&model.Zone{}, &model.CountryZoneMapping{},
		// Rate
		&model.Carrier{}, &model.RateTableEntry{},
		&model.FuelSurcharge{}, &model.DemandSurcharge{},
		// Customs
		&model.HtsCode{}, &model.CountryAdditionalTariff{},
		// Policy
		&model.HandlingFeePolicy{}, &model.MarketplaceSettings{}, &model.ShippingRule{},
		// Fx
		&model.ExchangeRate{},
	)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	manager := database.NewQuotePartitionManager(db, quoteRetentionMonths())
	if err := manager.InitQuoteTable(ctx); err != nil {
		log.Fatalf("初始化报价分区表失败: %v", err)
	}
	if err := manager.EnsureFuturePartitions(ctx, 3); err != nil {
		log.Fatalf("创建报价分区失败: %v", err)
	}

	return db
}

func quoteRetentionMonths() int {
	months := 12
	if v := os.Getenv("QUOTE_RETENTION_MONTHS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			months = n
		}
	}
	return months
}

// initDependencies 初始化所有依赖
func initDependencies(db *gorm.DB) *Dependencies {
	// -------- Repo 层 --------
	repos := &Repositories{
		Zone:         repository.NewZoneRepository(db),
		RateTable:    repository.NewRateTableRepository(db),
		Surcharge:    repository.NewSurchargeRepository(db),
		HtsCode:      repository.NewHtsCodeRepository(db),
		Tariff:       repository.NewCountryTariffRepository(db),
		Handling:     repository.NewHandlingPolicyRepository(db),
		Settings:     repository.NewMarketplaceSettingsRepository(db),
		ShippingRule: repository.NewShippingRuleRepository(db),
		Fx:           repository.NewExchangeRateRepository(db),
		Quote:        repository.NewQuoteRepository(db),
	}

	// -------- 引擎配置 --------
	cfg := engine.DefaultConfig()

	// -------- 业务服务 --------
	fxClient := fx.NewClient(getEnv("FX_API_BASE_URL", ""))

	services := &Services{}
	services.Pricing = service.NewPricingService(cfg,
		repos.Zone, repos.RateTable, repos.Surcharge,
		repos.HtsCode, repos.Tariff, repos.Handling,
		repos.Settings, repos.ShippingRule, repos.Fx, repos.Quote,
	)
	services.RateTable = service.NewRateTableService(cfg, services.Pricing)
	services.Fx = service.NewExchangeRateService(repos.Fx, fxClient)

	// -------- Controller 层 --------
	controllers := &Controllers{
		Pricing:   controller.NewPricingController(services.Pricing),
		RateTable: controller.NewRateTableController(services.RateTable),
		Fx:        controller.NewExchangeRateController(services.Fx),
	}

	return &Dependencies{
		DB:          db,
		Repos:       repos,
		Services:    services,
		Controllers: controllers,
	}
}

// ==================== 定时任务 ====================

// initTasks 初始化定时任务
func initTasks(deps *Dependencies) {
	// 汇率刷新
	deps.FxTask = task.NewFxTask(deps.Services.Fx)
	deps.FxTask.Start()

	// 报价历史分区维护
	deps.Partition = database.NewQuotePartitionTask(
		database.NewQuotePartitionManager(deps.DB, quoteRetentionMonths()))
	deps.Partition.Start()

	log.Println("定时任务已启动")
}

// ==================== 服务启动 ====================

// startServer 启动服务
func startServer(r *gin.Engine, deps *Dependencies) {
	port := getEnv("SERVER_PORT", "8080")

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	// 异步启动服务
	go func() {
		log.Printf("服务启动在 :%s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("正在关闭服务...")

	if deps.FxTask != nil {
		deps.FxTask.Stop()
	}
	if deps.Partition != nil {
		deps.Partition.Stop()
	}

	// 优雅关闭，最多等待 30 秒
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("服务强制关闭: %v", err)
	}

	log.Println("服务已退出")
}

// ==================== 工具函数 ====================

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
