package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nadiraputri/catering-app/controllers"
	"github.com/nadiraputri/catering-app/middlewares"
	"github.com/nadiraputri/catering-app/services"
)

func SetupRouter(db *gorm.DB, snap *services.SnapClient) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	// Services
	transactionSvc := services.NewTransactionService(db, snap)
	checkoutSvc := services.NewCheckoutService(db, transactionSvc)
	batchSvc := services.NewBatchService(db, transactionSvc)
	paymentSvc := services.NewPaymentService(db, transactionSvc)

	// Controllers
	userCtrl := controllers.NewUserController(db)
	childCtrl := controllers.NewChildController(db)
	categoryCtrl := controllers.NewMenuCategoryController(db)
	menuCtrl := controllers.NewMenuController(db)
	scheduleCtrl := controllers.NewScheduleController(db)
	orderCtrl := controllers.NewOrderController(db, checkoutSvc, batchSvc, paymentSvc)
	paymentCtrl := controllers.NewPaymentController(db, paymentSvc)
	transactionCtrl := controllers.NewTransactionController(transactionSvc)
	recapCtrl := controllers.NewRecapController(db)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// Browsing requires no login
	r.GET("/categories", categoryCtrl.GetAllCategories)
	r.GET("/menus", menuCtrl.GetAllMenus)
	r.GET("/menus/by-date", menuCtrl.GetMenusByDate)
	r.GET("/menus/:menu_id", menuCtrl.GetMenuByID)
	r.GET("/schedules", scheduleCtrl.GetSchedules)

	// Snap token endpoint consumed by the payment widget
	r.POST("/payments/token", transactionCtrl.CreateSnapToken)

	// ----------------------------------------------------------------
	//                      PARENT ROUTES
	// ----------------------------------------------------------------
	api := r.Group("/api")
	api.Use(middlewares.AuthMiddleware())
	{
		api.GET("/profile", userCtrl.GetProfile)

		api.GET("/children", childCtrl.GetMyChildren)
		api.POST("/children", childCtrl.CreateChild)
		api.PATCH("/children/:child_id", childCtrl.UpdateChild)
		api.DELETE("/children/:child_id", childCtrl.DeleteChild)

		api.GET("/orders", orderCtrl.GetMyOrders)
		api.POST("/orders", orderCtrl.CreateOrder)
		api.GET("/orders/:order_id", orderCtrl.GetOrderByID)
		api.POST("/orders/batch-payment", orderCtrl.BatchPay)
		api.POST("/orders/:order_id/retry-payment", orderCtrl.RetryPayment)
		api.GET("/orders/:order_id/payment-status", orderCtrl.GetPaymentStatus)
	}

	// ----------------------------------------------------------------
	//                      CASHIER ROUTES
	// ----------------------------------------------------------------
	cashier := r.Group("/cashier")
	cashier.Use(middlewares.AuthMiddleware(), middlewares.RequireRoles("cashier"))
	{
		cashier.GET("/orders/pending", orderCtrl.GetPendingOrders)
		cashier.POST("/payments/cash", paymentCtrl.SettleCash)
		cashier.GET("/payments/cash", paymentCtrl.GetCashPayments)
	}

	// ----------------------------------------------------------------
	//                      ADMIN ROUTES
	// ----------------------------------------------------------------
	admin := r.Group("/admin")
	admin.Use(middlewares.AuthMiddleware(), middlewares.RequireRoles("admin"))
	{
		admin.GET("/users", userCtrl.GetAllUsers)
		admin.POST("/users", userCtrl.Register)

		admin.POST("/categories", categoryCtrl.CreateCategory)
		admin.PATCH("/categories/:cat_id", categoryCtrl.UpdateCategory)
		admin.DELETE("/categories/:cat_id", categoryCtrl.DeleteCategory)

		admin.POST("/menus", menuCtrl.CreateMenu)
		admin.PATCH("/menus/:menu_id", menuCtrl.UpdateMenu)
		admin.DELETE("/menus/:menu_id", menuCtrl.DeleteMenu)

		admin.POST("/schedules", scheduleCtrl.CreateSchedule)
		admin.DELETE("/schedules/:schedule_id", scheduleCtrl.DeleteSchedule)

		admin.GET("/orders", orderCtrl.GetAllOrders)
		admin.GET("/payments", paymentCtrl.GetAllPayments)
		admin.GET("/payments/:payment_id", paymentCtrl.GetPaymentByID)

		admin.GET("/recap/daily", recapCtrl.GetDailyRecap)
	}

	return r
}
