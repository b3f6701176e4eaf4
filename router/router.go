package router

import (
	"github.com/gin-gonic/gin"
	"github.com/shakecraft/shake-app/controllers"
	"github.com/shakecraft/shake-app/middlewares"
	"gorm.io/gorm"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	userCtrl := controllers.NewUserController(db)
	customerCtrl := controllers.NewCustomerController(db)
	ingredientCtrl := controllers.NewIngredientController(db)
	drinkCtrl := controllers.NewDrinkController(db)
	nutritionCtrl := controllers.NewNutritionController(db)
	promoCtrl := controllers.NewPromoController(db)
	orderCtrl := controllers.NewOrderController(db)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Rate limiter for login/register
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// -- CUSTOMER (no auth) --
	// Browse the catalog
	r.GET("/drinks", drinkCtrl.GetAllDrinks)
	r.GET("/drinks/:drink_id", drinkCtrl.GetDrinkByID)
	r.GET("/ingredients", ingredientCtrl.GetAllIngredients)
	r.GET("/ingredients/:ingredient_id", ingredientCtrl.GetIngredientByID)
	r.GET("/ingredients/:ingredient_id/pricing", ingredientCtrl.GetPricing)

	// Live nutrition totals while building a shake
	r.POST("/nutrition/preview", nutritionCtrl.PreviewNutrition)

	// Promo validation at the cart
	r.POST("/promos/apply", promoCtrl.ApplyPromo)

	// Anonymous checkout session
	r.POST("/customers/session", customerCtrl.StartSession)

	// Checkout
	r.POST("/orders", orderCtrl.CreateOrder)
	r.GET("/orders/:order_id", orderCtrl.GetOrderByID)
	r.POST("/orders/:order_id/complete", orderCtrl.CompleteOrder)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/admin")
	auth.Use(middlewares.AuthMiddleware())

	// STAFF (staff/admin)
	staff := auth.Group("/")
	staff.Use(middlewares.RequireRole("staff"))
	{
		staff.GET("/orders", orderCtrl.GetAllOrders)
		staff.GET("/orders/:order_id", orderCtrl.GetOrderByID)
		staff.POST("/orders/:order_id/complete", orderCtrl.CompleteOrder)
		staff.POST("/orders/:order_id/cancel", orderCtrl.CancelOrder)

		staff.GET("/customers", customerCtrl.GetAllCustomers)
		staff.GET("/customers/:customer_id", customerCtrl.GetCustomerByID)
	}

	// CATALOG (admin only)
	admin := auth.Group("/")
	admin.Use(middlewares.RequireRole("admin"))
	{
		admin.POST("/drinks", drinkCtrl.CreateDrink)
		admin.PATCH("/drinks/:drink_id", drinkCtrl.UpdateDrink)
		admin.DELETE("/drinks/:drink_id", drinkCtrl.DeleteDrink)

		admin.GET("/ingredients", ingredientCtrl.GetAllIngredients)
		admin.POST("/ingredients", ingredientCtrl.CreateIngredient)
		admin.PATCH("/ingredients/:ingredient_id", ingredientCtrl.UpdateIngredient)
		admin.DELETE("/ingredients/:ingredient_id", ingredientCtrl.DeleteIngredient)
		admin.PUT("/ingredients/:ingredient_id/nutrition", ingredientCtrl.UpsertNutrition)
		admin.POST("/ingredients/:ingredient_id/pricing", ingredientCtrl.CreatePricing)
		admin.DELETE("/pricing/:pricing_id", ingredientCtrl.DeletePricing)

		admin.GET("/promos", promoCtrl.GetAllPromos)
		admin.POST("/promos", promoCtrl.CreatePromo)
		admin.GET("/promos/:promo_id", promoCtrl.GetPromoByID)
		admin.PATCH("/promos/:promo_id/status", promoCtrl.UpdatePromoStatus)
		admin.GET("/promos/:promo_id/usage", promoCtrl.GetPromoUsage)
	}

	// WebSocket endpoint for counter displays
	wsGroup := r.Group("/ws")
	wsGroup.Use(middlewares.WebSocketAuthMiddleware())
	{
		wsGroup.GET("/events", controllers.EventsHandler)
	}

	return r
}
