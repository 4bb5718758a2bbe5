// Package app assembles the service from the per-domain packages.
package app

import (
	"context"
	"fmt"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	customerhttp "github.com/tair/grocery-pos/internal/customer/delivery/http"
	inventoryhttp "github.com/tair/grocery-pos/internal/inventory/delivery/http"
	inventorydomain "github.com/tair/grocery-pos/internal/inventory/domain"
	inventoryrepo "github.com/tair/grocery-pos/internal/inventory/repository"
	inventorycommand "github.com/tair/grocery-pos/internal/inventory/usecase/command"
	inventoryquery "github.com/tair/grocery-pos/internal/inventory/usecase/query"
	notificationhttp "github.com/tair/grocery-pos/internal/notification/delivery/http"
	notificationkafka "github.com/tair/grocery-pos/internal/notification/delivery/kafka"
	"github.com/tair/grocery-pos/internal/notification/sink"
	notificationcommand "github.com/tair/grocery-pos/internal/notification/usecase/command"
	producthttp "github.com/tair/grocery-pos/internal/product/delivery/http"
	reporthttp "github.com/tair/grocery-pos/internal/report/delivery/http"
	salehttp "github.com/tair/grocery-pos/internal/sale/delivery/http"
	salecommand "github.com/tair/grocery-pos/internal/sale/usecase/command"
	settinghttp "github.com/tair/grocery-pos/internal/setting/delivery/http"
	settingusecase "github.com/tair/grocery-pos/internal/setting/usecase"
	userhttp "github.com/tair/grocery-pos/internal/user/delivery/http"
	userdomain "github.com/tair/grocery-pos/internal/user/domain"
	userrepo "github.com/tair/grocery-pos/internal/user/repository"
	usercommand "github.com/tair/grocery-pos/internal/user/usecase/command"
	"github.com/tair/grocery-pos/kafka"
	"github.com/tair/grocery-pos/pkg/auth"
	"github.com/tair/grocery-pos/pkg/cache"
	"github.com/tair/grocery-pos/pkg/config"
	"github.com/tair/grocery-pos/pkg/logger"
	"github.com/tair/grocery-pos/pkg/metrics"
	"github.com/tair/grocery-pos/pkg/middleware"
)

// Server holds the HTTP handlers and the pieces main needs at startup
type Server struct {
	Products      *producthttp.ProductHandler
	Inventory     *inventoryhttp.InventoryHandler
	Sales         *salehttp.SaleHandler
	Customers     *customerhttp.CustomerHandler
	Users         *userhttp.UserHandler
	Notifications *notificationhttp.NotificationHandler
	Settings      *settinghttp.SettingHandler
	Reports       *reporthttp.ReportHandler

	Authenticator *middleware.Authenticator
	StockAlerts   *notificationkafka.StockAlertHandler

	settingService *settingusecase.SettingService
	userRepo       userdomain.UserRepository
	register       *usercommand.RegisterUserHandler
	notices        *notificationcommand.FanOutService
}

// NewServer is the Wire provider for Server
func NewServer(
	products *producthttp.ProductHandler,
	inventory *inventoryhttp.InventoryHandler,
	sales *salehttp.SaleHandler,
	customers *customerhttp.CustomerHandler,
	users *userhttp.UserHandler,
	notifications *notificationhttp.NotificationHandler,
	settings *settinghttp.SettingHandler,
	reports *reporthttp.ReportHandler,
	authenticator *middleware.Authenticator,
	stockAlerts *notificationkafka.StockAlertHandler,
	settingService *settingusecase.SettingService,
	userRepo userdomain.UserRepository,
	register *usercommand.RegisterUserHandler,
	notices *notificationcommand.FanOutService,
) *Server {
	return &Server{
		Products:       products,
		Inventory:      inventory,
		Sales:          sales,
		Customers:      customers,
		Users:          users,
		Notifications:  notifications,
		Settings:       settings,
		Reports:        reports,
		Authenticator:  authenticator,
		StockAlerts:    stockAlerts,
		settingService: settingService,
		userRepo:       userRepo,
		register:       register,
		notices:        notices,
	}
}

// RegisterRoutes mounts every API route on router
func (s *Server) RegisterRoutes(router *mux.Router) {
	s.Users.RegisterRoutes(router, s.Authenticator)
	s.Products.RegisterRoutes(router, s.Authenticator)
	s.Inventory.RegisterRoutes(router, s.Authenticator)
	s.Sales.RegisterRoutes(router, s.Authenticator)
	s.Customers.RegisterRoutes(router, s.Authenticator)
	s.Notifications.RegisterRoutes(router, s.Authenticator)
	s.Settings.RegisterRoutes(router, s.Authenticator)
	s.Reports.RegisterRoutes(router, s.Authenticator)
}

// Bootstrap seeds default settings and creates the first admin when the user
// table is empty and a bootstrap password is configured. A new admin gets a
// system notification; failing to send it does not fail startup.
func (s *Server) Bootstrap(ctx context.Context, admin config.BootstrapAdmin) error {
	if err := s.settingService.SeedDefaults(ctx); err != nil {
		return err
	}
	if admin.Password == "" {
		logger.Logger.Info().Msg("No bootstrap admin password set, skipping admin bootstrap")
		return nil
	}
	created, err := usercommand.BootstrapAdmin(ctx, s.userRepo, s.register, admin.Username, admin.Password, admin.Email)
	if err != nil {
		return err
	}
	if !created {
		return nil
	}
	logger.Logger.Info().Str("username", admin.Username).Msg("Bootstrap admin created")

	msg := fmt.Sprintf("Admin account %q was created on first start. Change its password.", admin.Username)
	if err := s.notices.NotifySystem(ctx, "Store initialized", msg); err != nil {
		logger.Logger.Warn().Err(err).Msg("Failed to send bootstrap notice")
	}
	return nil
}

// ProvideTokenManager builds the JWT manager from config
func ProvideTokenManager(cfg *config.Config) *auth.TokenManager {
	return auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
}

// ProvideInventoryRepository wraps the GORM repository with spans
func ProvideInventoryRepository(db *gorm.DB) inventorydomain.InventoryRepository {
	return inventoryrepo.NewTracingInventoryRepository(inventoryrepo.NewGormInventoryRepository(db))
}

// ProvideUserRepository wraps the GORM repository with spans
func ProvideUserRepository(db *gorm.DB) userdomain.UserRepository {
	return userrepo.NewTracingUserRepository(userrepo.NewGormUserRepository(db))
}

// ProvideStockNotifier picks the alert sink. The kafka sink publishes
// stock.alert events that the in-process consumer applies through the
// fan-out service; the direct sink calls the fan-out service inline.
func ProvideStockNotifier(cfg *config.Config, fanOut *notificationcommand.FanOutService, publisher *kafka.Publisher) inventorydomain.Notifier {
	if cfg.NotificationSink == config.SinkKafka && publisher != nil {
		return sink.NewSafeNotifier(config.SinkKafka, sink.NewKafkaNotifier(publisher))
	}
	return sink.NewSafeNotifier(config.SinkDirect, fanOut)
}

// ProvideStockAlertHandler applies consumed stock.alert events
func ProvideStockAlertHandler(fanOut *notificationcommand.FanOutService) *notificationkafka.StockAlertHandler {
	return notificationkafka.NewStockAlertHandler(fanOut)
}

func ProvideAlerts(cfg *config.Config, products inventorydomain.ProductReader, notifier inventorydomain.Notifier, m *metrics.Metrics) *inventorycommand.Alerts {
	return inventorycommand.NewAlerts(products, notifier, m, cfg.ExpiryWarningDays)
}

func ProvideListInventoryHandler(cfg *config.Config, repo inventorydomain.InventoryRepository) *inventoryquery.ListInventoryHandler {
	return inventoryquery.NewListInventoryHandler(repo, cfg.ExpiryWarningDays)
}

// ProvideReportCache returns the Redis backed report cache. A nil client
// yields a cache that always misses.
func ProvideReportCache(cfg *config.Config, rdb *redis.Client) *cache.Cache {
	return cache.New(rdb, "reports", cfg.ReportCacheTTL)
}

// ProvideSaleEffects bundles the after-commit work of a sale change
func ProvideSaleEffects(loyalty salecommand.LoyaltyProgram, publisher *kafka.Publisher, reports *cache.Cache, m *metrics.Metrics) *salecommand.Effects {
	var events salecommand.EventPublisher
	if publisher != nil {
		events = publisher
	}
	return salecommand.NewEffects(loyalty, events, reports, m)
}
