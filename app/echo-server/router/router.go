package router

import (
	"adPulse/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupUserRoutes(api *echo.Group, handler *rest.UserHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	users := api.Group("/users")

	users.GET("/email-verification/:code", handler.VerifyEmail)
	users.POST("/register", handler.Register)
	users.POST("/login", handler.Login)
	users.POST("/refresh", handler.RefreshToken)

	users.POST("/logout", handler.Logout, authRequired)
	users.PUT("/:id", handler.UpdateUser, authRequired)
	users.GET("", handler.GetAllUsers, authRequired, adminOnly)
	users.GET("/:id", handler.GetUserByID, authRequired, adminOnly)
	users.DELETE("/:id", handler.DeleteUser, authRequired, adminOnly)
}

func SetupCampaignRoutes(api *echo.Group, handler *rest.CampaignHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	campaigns := api.Group("/campaigns")

	campaigns.GET("", handler.GetAllCampaigns, authRequired)
	campaigns.GET("/:id", handler.GetCampaignByID, authRequired)
	campaigns.POST("", handler.CreateCampaign, authRequired, adminOnly)
	campaigns.PUT("/:id", handler.UpdateCampaign, authRequired, adminOnly)
	campaigns.DELETE("/:id", handler.DeleteCampaign, authRequired, adminOnly)
}

func SetupPoolRoutes(api *echo.Group, handler *rest.PoolHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	pools := api.Group("/pools")

	pools.GET("", handler.GetAllPools, authRequired)
	pools.GET("/:id", handler.GetPoolByID, authRequired)
	pools.GET("/:id/budgets", handler.GetCurrentBudgets, authRequired)
	pools.POST("", handler.CreatePool, authRequired, adminOnly)
	pools.PUT("/:id", handler.UpdatePool, authRequired, adminOnly)
	pools.DELETE("/:id", handler.DeletePool, authRequired, adminOnly)
}

func SetAdsRoutes(api *echo.Group, handler *rest.AdsHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	adsGroup := api.Group("/ads", authRequired)
	adsGroup.POST("", handler.RegisterAd)
	adsGroup.GET("/:id", handler.GetAdByID)
	adsGroup.PUT("/:id", handler.UpdateAd)
	adsGroup.DELETE("/:id", handler.DeleteAd, adminOnly)

	// performance feed
	snapshots := api.Group("/snapshots", authRequired)
	snapshots.POST("", handler.IngestSnapshot)
	snapshots.POST("/batch", handler.IngestBatch)

	pools := api.Group("/pools", authRequired)
	pools.GET("/:id/ads", handler.GetAdsByPool)
	pools.GET("/:id/snapshots/latest", handler.GetLatestSnapshots)
	pools.GET("/:id/ads/:ad_id/snapshots", handler.GetSnapshotHistory)
}

func SetAllocationRoutes(api *echo.Group, handler *rest.AllocationHandler, authRequired echo.MiddlewareFunc) {
	pools := api.Group("/pools", authRequired)
	pools.POST("/:id/allocations/run", handler.RunPool)
	pools.POST("/:id/allocations/preview", handler.Preview)
	pools.GET("/:id/allocations/debug", handler.Debug)
	pools.GET("/:id/allocations", handler.ListRuns)

	allocations := api.Group("/allocations", authRequired)
	allocations.POST("/run", handler.RunAll)
	allocations.GET("/runs/:run_id", handler.GetRun)
}

func SetAllocationAdminRoutes(api *echo.Group, handler *rest.AllocationAdminHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	admin := api.Group("/admin/allocator", authRequired, adminOnly)

	admin.GET("/config", handler.GetConfig)
	admin.GET("/config/effective", handler.GetEffectiveConfig)
	admin.PUT("/config", handler.UpsertConfig)
}

func SetPatternAdminRoutes(api *echo.Group, handler *rest.PatternHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	admin := api.Group("/admin/patterns", authRequired, adminOnly)

	admin.GET("", handler.GetAllPatterns)
	admin.PUT("", handler.UpsertPattern)
	admin.DELETE("/:creative_key", handler.DeletePattern)
}

// SetWebhookHandler registers the pattern-index callback; the controller
// verifies the shared token itself, so no auth middleware here.
func SetWebhookHandler(api *echo.Group, webhookController *rest.PatternWebhookController) {
	webhook := api.Group("/webhook")
	webhook.POST("/patterns", webhookController.HandleWebhook)
}
