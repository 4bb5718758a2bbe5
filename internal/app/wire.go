//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	customerhttp "github.com/tair/grocery-pos/internal/customer/delivery/http"
	customerdomain "github.com/tair/grocery-pos/internal/customer/domain"
	customerrepo "github.com/tair/grocery-pos/internal/customer/repository"
	customercommand "github.com/tair/grocery-pos/internal/customer/usecase/command"
	customerquery "github.com/tair/grocery-pos/internal/customer/usecase/query"
	inventoryhttp "github.com/tair/grocery-pos/internal/inventory/delivery/http"
	inventorydomain "github.com/tair/grocery-pos/internal/inventory/domain"
	inventorycommand "github.com/tair/grocery-pos/internal/inventory/usecase/command"
	inventoryquery "github.com/tair/grocery-pos/internal/inventory/usecase/query"
	notificationhttp "github.com/tair/grocery-pos/internal/notification/delivery/http"
	notificationdomain "github.com/tair/grocery-pos/internal/notification/domain"
	notificationrepo "github.com/tair/grocery-pos/internal/notification/repository"
	notificationcommand "github.com/tair/grocery-pos/internal/notification/usecase/command"
	notificationquery "github.com/tair/grocery-pos/internal/notification/usecase/query"
	producthttp "github.com/tair/grocery-pos/internal/product/delivery/http"
	productdomain "github.com/tair/grocery-pos/internal/product/domain"
	productrepo "github.com/tair/grocery-pos/internal/product/repository"
	productcommand "github.com/tair/grocery-pos/internal/product/usecase/command"
	productquery "github.com/tair/grocery-pos/internal/product/usecase/query"
	reporthttp "github.com/tair/grocery-pos/internal/report/delivery/http"
	reportdomain "github.com/tair/grocery-pos/internal/report/domain"
	reportrepo "github.com/tair/grocery-pos/internal/report/repository"
	reportusecase "github.com/tair/grocery-pos/internal/report/usecase"
	salehttp "github.com/tair/grocery-pos/internal/sale/delivery/http"
	saledomain "github.com/tair/grocery-pos/internal/sale/domain"
	salerepo "github.com/tair/grocery-pos/internal/sale/repository"
	salecommand "github.com/tair/grocery-pos/internal/sale/usecase/command"
	salequery "github.com/tair/grocery-pos/internal/sale/usecase/query"
	settinghttp "github.com/tair/grocery-pos/internal/setting/delivery/http"
	settingdomain "github.com/tair/grocery-pos/internal/setting/domain"
	settingrepo "github.com/tair/grocery-pos/internal/setting/repository"
	settingusecase "github.com/tair/grocery-pos/internal/setting/usecase"
	userhttp "github.com/tair/grocery-pos/internal/user/delivery/http"
	usercommand "github.com/tair/grocery-pos/internal/user/usecase/command"
	userquery "github.com/tair/grocery-pos/internal/user/usecase/query"
	"github.com/tair/grocery-pos/kafka"
	"github.com/tair/grocery-pos/pkg/config"
	"github.com/tair/grocery-pos/pkg/database"
	"github.com/tair/grocery-pos/pkg/metrics"
	"github.com/tair/grocery-pos/pkg/middleware"
)

var InfrastructureSet = wire.NewSet(
	database.NewTransactor,
	ProvideTokenManager,
	middleware.NewAuthenticator,
	ProvideReportCache,
)

var ProductSet = wire.NewSet(
	productrepo.NewGormProductRepository,
	wire.Bind(new(productdomain.ProductRepository), new(*productrepo.GormProductRepository)),
	wire.Bind(new(inventorydomain.ProductReader), new(*productrepo.GormProductRepository)),
	wire.Bind(new(salecommand.ProductCatalog), new(*productrepo.GormProductRepository)),
	productcommand.NewCreateProductHandler,
	productcommand.NewUpdateProductHandler,
	productcommand.NewDeleteProductHandler,
	productquery.NewGetProductHandler,
	productquery.NewListProductsHandler,
	productquery.NewListCategoriesHandler,
	producthttp.NewProductHandler,
)

var InventorySet = wire.NewSet(
	ProvideInventoryRepository,
	wire.Bind(new(salecommand.StockLocator), new(inventorydomain.InventoryRepository)),
	ProvideAlerts,
	inventorycommand.NewAdjustQuantityHandler,
	wire.Bind(new(salecommand.StockLedger), new(*inventorycommand.AdjustQuantityHandler)),
	inventorycommand.NewCreateInventoryHandler,
	inventorycommand.NewUpdateInventoryHandler,
	inventorycommand.NewDeleteInventoryHandler,
	inventorycommand.NewCheckExpiryHandler,
	inventoryquery.NewGetInventoryHandler,
	ProvideListInventoryHandler,
	inventoryquery.NewListTransactionsHandler,
	inventoryquery.NewCheckAvailabilityHandler,
	inventoryhttp.NewInventoryHandler,
)

var CustomerSet = wire.NewSet(
	customerrepo.NewGormCustomerRepository,
	wire.Bind(new(customerdomain.CustomerRepository), new(*customerrepo.GormCustomerRepository)),
	wire.Bind(new(salecommand.CustomerFinder), new(*customerrepo.GormCustomerRepository)),
	customercommand.NewLoyalty,
	wire.Bind(new(salecommand.LoyaltyProgram), new(*customercommand.Loyalty)),
	customercommand.NewCreateCustomerHandler,
	customercommand.NewUpdateCustomerHandler,
	customercommand.NewDeleteCustomerHandler,
	customerquery.NewGetCustomerHandler,
	customerquery.NewListCustomersHandler,
	customerhttp.NewCustomerHandler,
)

var SaleSet = wire.NewSet(
	salerepo.NewGormSaleRepository,
	wire.Bind(new(saledomain.SaleRepository), new(*salerepo.GormSaleRepository)),
	ProvideSaleEffects,
	salecommand.NewCreateSaleHandler,
	salecommand.NewCancelSaleHandler,
	salequery.NewGetSaleHandler,
	salequery.NewListSalesHandler,
	salehttp.NewSaleHandler,
)

var UserSet = wire.NewSet(
	ProvideUserRepository,
	userquery.NewStockRecipients,
	wire.Bind(new(notificationdomain.RecipientFinder), new(*userquery.StockRecipients)),
	usercommand.NewRegisterUserHandler,
	usercommand.NewLoginUserHandler,
	usercommand.NewUpdateProfileHandler,
	usercommand.NewChangePasswordHandler,
	usercommand.NewChangeRoleHandler,
	usercommand.NewSetStatusHandler,
	userquery.NewGetUserHandler,
	userquery.NewListUsersHandler,
	userquery.NewGetStatsHandler,
	userhttp.NewUserHandler,
)

var NotificationSet = wire.NewSet(
	notificationrepo.NewGormNotificationRepository,
	wire.Bind(new(notificationdomain.NotificationRepository), new(*notificationrepo.GormNotificationRepository)),
	notificationcommand.NewFanOutService,
	ProvideStockNotifier,
	ProvideStockAlertHandler,
	notificationcommand.NewMarkReadHandler,
	notificationcommand.NewDeleteNotificationHandler,
	notificationquery.NewListNotificationsHandler,
	notificationquery.NewGetNotificationHandler,
	notificationhttp.NewNotificationHandler,
)

var SettingSet = wire.NewSet(
	settingrepo.NewGormSettingRepository,
	wire.Bind(new(settingdomain.SettingRepository), new(*settingrepo.GormSettingRepository)),
	settingusecase.NewSettingService,
	settinghttp.NewSettingHandler,
)

var ReportSet = wire.NewSet(
	reportrepo.NewGormReportRepository,
	wire.Bind(new(reportdomain.ReportRepository), new(*reportrepo.GormReportRepository)),
	reportusecase.NewReportService,
	reporthttp.NewReportHandler,
)

// InitializeServer builds the whole service graph
func InitializeServer(cfg *config.Config, db *gorm.DB, rdb *redis.Client, publisher *kafka.Publisher, m *metrics.Metrics) (*Server, error) {
	wire.Build(
		InfrastructureSet,
		ProductSet,
		InventorySet,
		CustomerSet,
		SaleSet,
		UserSet,
		NotificationSet,
		SettingSet,
		ReportSet,
		NewServer,
	)
	return nil, nil
}
