package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"gomall/internal/config"
	"gomall/internal/middleware"
	"gomall/internal/models"
	"gomall/internal/repository"
	"gomall/internal/storage"
)

type HandlerSet struct {
	log        zerolog.Logger
	cfg        *config.AppConfig
	db         *pgxpool.Pool
	cache      *redis.Client
	store      *storage.ObjectStore
	users      *repository.UserRepository
	addresses  *repository.AddressRepository
	products   *repository.ProductRepository
	categories *repository.CategoryRepository
	carts      *repository.CartRepository
	orders     *repository.OrderRepository
	stats      *repository.StatsRepository
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, cache *redis.Client, store *storage.ObjectStore, cfg *config.AppConfig) HandlerSet {
	return HandlerSet{
		log:        log,
		cfg:        cfg,
		db:         db,
		cache:      cache,
		store:      store,
		users:      repository.NewUserRepository(db),
		addresses:  repository.NewAddressRepository(db),
		products:   repository.NewProductRepository(db),
		categories: repository.NewCategoryRepository(db),
		carts:      repository.NewCartRepository(db),
		orders:     repository.NewOrderRepository(db),
		stats:      repository.NewStatsRepository(db),
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	auth := middleware.Auth(h.cfg, h.users)

	user := router.Group("/user")
	{
		user.POST("/login", h.Login)
		user.POST("/register", h.RegisterUser)

		authed := user.Group("")
		authed.Use(auth)
		authed.GET("/info", h.UserInfo)
		authed.PUT("/update", h.UpdateUser)
		authed.PUT("/changePassword", h.ChangePassword)

		address := authed.Group("/address")
		address.GET("/list", h.ListAddresses)
		address.POST("/add", h.AddAddress)
		address.PUT("/update/:id", h.UpdateAddress)
		address.DELETE("/delete/:id", h.DeleteAddress)
		address.PUT("/setDefault/:id", h.SetDefaultAddress)
	}

	product := router.Group("/product")
	{
		product.GET("/list", h.ListProducts)
		product.GET("/detail/:id", h.ProductDetail)
		product.GET("/search", h.SearchProducts)
		product.GET("/category/:id", h.ProductsByCategory)
	}
	router.GET("/category/list", h.ListCategories)

	cart := router.Group("/cart")
	cart.Use(auth)
	{
		cart.GET("/list", h.ListCart)
		cart.POST("/add", h.AddToCart)
		cart.PUT("/update/:id", h.UpdateCartItem)
		cart.DELETE("/delete/:id", h.DeleteCartItem)
		cart.DELETE("/clear", h.ClearCart)
		cart.PUT("/select/:id", h.SelectCartItem)
		cart.PUT("/selectAll", h.SelectAllCartItems)
	}

	order := router.Group("/order")
	order.Use(auth)
	{
		order.POST("/create", h.CreateOrder)
		order.GET("/list", h.ListOrders)
		order.GET("/detail/:id", h.OrderDetail)
		order.PUT("/pay/:id", h.PayOrder)
		order.PUT("/cancel/:id", h.CancelOrder)
		order.PUT("/confirm/:id", h.ConfirmOrder)
		order.PUT("/refund/:id", h.RefundOrder)
	}

	admin := router.Group("/admin")
	admin.Use(auth, middleware.RequireRoles(models.UserRoleAdmin))
	{
		admin.GET("/user/list", h.AdminListUsers)
		admin.GET("/user/detail/:id", h.AdminUserDetail)
		admin.PUT("/user/role/:id", h.AdminSetUserRole)
		admin.PUT("/user/status/:id", h.AdminSetUserStatus)

		admin.POST("/product/add", h.AdminAddProduct)
		admin.PUT("/product/update/:id", h.AdminUpdateProduct)
		admin.DELETE("/product/delete/:id", h.AdminDeleteProduct)
		admin.PUT("/product/status/:id", h.AdminSetProductStatus)
		admin.POST("/product/image", h.AdminUploadProductImage)

		admin.GET("/order/list", h.AdminListOrders)
		admin.PUT("/order/status/:id", h.AdminSetOrderStatus)
		admin.PUT("/order/ship/:id", h.AdminShipOrder)
		admin.GET("/order/statistics", h.AdminOrderStatistics)

		admin.GET("/statistics/system", h.AdminSystemStats)
		admin.GET("/statistics/sales", h.AdminSalesStats)
		admin.GET("/statistics/productRanking", h.AdminProductRanking)
		admin.GET("/statistics/userRegistrations", h.AdminUserRegistrations)
	}
}
