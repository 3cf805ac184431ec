package router

import (
	"github.com/gin-gonic/gin"
	"github.com/npatel/recipebox-backend/config"
	"github.com/npatel/recipebox-backend/internal/app/controller"
	"github.com/npatel/recipebox-backend/internal/app/model"
	"github.com/npatel/recipebox-backend/internal/middleware"
)

type Router struct {
	authController       *controller.AuthController
	userController       *controller.UserController
	recipeController     *controller.RecipeController
	feedbackController   *controller.FeedbackController
	saveController       *controller.SaveController
	descriptorController *controller.DescriptorController
	groceryController    *controller.GroceryController
	uploadController     *controller.UploadController
	feedController       *controller.FeedController
	authMiddleware       *middleware.AuthMiddleware
	config               *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	userController *controller.UserController,
	recipeController *controller.RecipeController,
	feedbackController *controller.FeedbackController,
	saveController *controller.SaveController,
	descriptorController *controller.DescriptorController,
	groceryController *controller.GroceryController,
	uploadController *controller.UploadController,
	feedController *controller.FeedController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:       authController,
		userController:       userController,
		recipeController:     recipeController,
		feedbackController:   feedbackController,
		saveController:       saveController,
		descriptorController: descriptorController,
		groceryController:    groceryController,
		uploadController:     uploadController,
		feedController:       feedController,
		authMiddleware:       authMiddleware,
		config:               cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "RecipeBox API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/logout", r.authMiddleware.OptionalAuthenticate(), r.authController.Logout)
			auth.POST("/refresh", r.authController.RefreshToken)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.GetMe)
			auth.PUT("/me", r.authMiddleware.Authenticate(), r.authController.UpdateDetails)
			auth.DELETE("/me", r.authMiddleware.Authenticate(), r.authController.DeleteAccount)
		}

		users := v1.Group("/users")
		{
			users.GET("/:username", r.userController.GetProfile)
			users.GET("/:username/recipes", r.userController.GetCreatedRecipes)
		}

		recipes := v1.Group("/recipes")
		{
			recipes.GET("", r.recipeController.ListRecipes)
			recipes.GET("/popular", r.recipeController.GetPopularRecipes)
			recipes.GET("/top-authors", r.recipeController.GetTopRatedAuthors)
			recipes.POST("/search", r.recipeController.SearchRecipes)
			recipes.GET("/:id", r.recipeController.GetRecipe)
			recipes.GET("/:id/items", r.recipeController.GetRequiredItems)
			recipes.GET("/:id/instructions", r.recipeController.GetInstructions)
			recipes.GET("/:id/feedback", r.feedbackController.ListFeedback)

			recipes.POST("",
				r.authMiddleware.Authenticate(),
				r.recipeController.CreateRecipe,
			)
			recipes.POST("/:id/ratings",
				r.authMiddleware.Authenticate(),
				r.feedbackController.RateRecipe,
			)
			recipes.POST("/:id/comments",
				r.authMiddleware.Authenticate(),
				r.feedbackController.CommentRecipe,
			)
			recipes.POST("/:id/save",
				r.authMiddleware.Authenticate(),
				r.saveController.SaveRecipe,
			)
			recipes.DELETE("/:id/save",
				r.authMiddleware.Authenticate(),
				r.saveController.UnsaveRecipe,
			)
		}

		v1.GET("/saved-recipes",
			r.authMiddleware.Authenticate(),
			r.saveController.ListSavedRecipes,
		)

		v1.GET("/descriptors", r.descriptorController.ListDescriptors)
		v1.GET("/terms", r.descriptorController.ListTerms)

		grocery := v1.Group("/grocery")
		{
			grocery.GET("/areas", r.groceryController.ListAreas)
			grocery.GET("/areas/:postalCode/stores", r.groceryController.GetStoresInArea)
			grocery.GET("/items/:itemName/prices", r.groceryController.GetItemPrices)
		}

		upload := v1.Group("/upload")
		upload.Use(r.authMiddleware.Authenticate())
		{
			upload.POST("/presigned-url", r.uploadController.GeneratePresignedURL)
		}

		admin := v1.Group("/admin")
		admin.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireRole(string(model.RoleAdmin)))
		{
			admin.POST("/snapshots/refresh", r.recipeController.RefreshRatingSnapshots)
		}

		ws := v1.Group("/ws")
		ws.Use(r.authMiddleware.Authenticate())
		{
			ws.GET("/feed", r.feedController.Connect)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
