package app

import (
	"ativflow_backend/docs"
	"ativflow_backend/internal/config"
	"ativflow_backend/internal/middleware"
	"ativflow_backend/internal/model"
	"ativflow_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	router.GET("/health", c.health.HealthCheck)

	api := router.Group("/api")
	api.Use(middleware.AuthMiddleware(cfg))
	{
		a.registerCommonRoutes(api, c)
		a.registerTeacherRoutes(api, c)
		a.registerAdminRoutes(api, c)
	}
}

// Routes every authenticated user may call. Row-level restrictions (a student
// seeing only their own deliveries) are enforced in the services.
func (a *App) registerCommonRoutes(api *gin.RouterGroup, c *controllers) {
	api.GET("/users/me", c.user.Me)

	api.GET("/activities", c.activity.List)
	api.GET("/activities/:id", c.activity.Get)
	api.GET("/activities/:id/questions", c.question.List)
	api.POST("/activities/:id/answers", c.question.SubmitAnswers)
	api.GET("/activities/:id/answers/mine", c.question.MyAnswers)

	api.POST("/deliveries", c.delivery.Create)
	api.GET("/deliveries", c.delivery.List)
	api.GET("/deliveries/:id", c.delivery.Get)

	api.GET("/groups", c.group.List)
	api.GET("/groups/mine", c.group.MyGroups)
	api.GET("/groups/:id", c.group.Get)
	api.GET("/groups/:id/inbox", c.delivery.LeaderInbox)
	api.POST("/groups/:id/consolidate", c.delivery.Consolidate)

	api.POST("/followups", c.followUp.Create)
	api.GET("/followups/mine", c.followUp.ListMine)
	api.GET("/followups/:id", c.followUp.Get)
	api.PUT("/followups/:id", c.followUp.Update)

	api.GET("/notifications", c.notification.List)
	api.POST("/notifications/:id/read", c.notification.MarkRead)
	api.POST("/notifications/read-all", c.notification.MarkAllRead)
	api.GET("/notifications/unread-count", c.notification.UnreadCount)
}

func (a *App) registerTeacherRoutes(api *gin.RouterGroup, c *controllers) {
	teacher := api.Group("")
	teacher.Use(middleware.RoleMiddleware(model.Teacher))
	{
		teacher.POST("/activities", c.activity.Create)
		teacher.PUT("/activities/:id", c.activity.Update)
		teacher.DELETE("/activities/:id", c.activity.Deactivate)

		teacher.POST("/activities/:id/questions", c.question.Create)
		teacher.PUT("/questions/:id", c.question.Update)
		teacher.DELETE("/questions/:id", c.question.Delete)
		teacher.GET("/activities/:id/statistics", c.question.Statistics)

		teacher.POST("/deliveries/:id/allow-edit", c.delivery.AllowEdit)
		teacher.POST("/deliveries/:id/evaluate", c.delivery.Evaluate)

		teacher.POST("/groups", c.group.Create)
		teacher.PUT("/groups/:id", c.group.Update)
		teacher.POST("/groups/:id/members", c.group.AddMember)
		teacher.DELETE("/groups/:id/members/:studentId", c.group.RemoveMember)

		teacher.POST("/notifications/send", c.notification.Send)
		teacher.DELETE("/notifications/old", c.notification.DeleteOld)

		teacher.GET("/followups", c.followUp.List)
		teacher.POST("/followups/:id/review", c.followUp.Review)
		teacher.POST("/followups/:id/release-edit", c.followUp.ReleaseEdit)

		teacher.GET("/reports/performance", c.report.ClassPerformance)
		teacher.GET("/reports/activities/:id", c.report.ActivitySummary)

		teacher.GET("/users", c.user.List)
		teacher.GET("/users/:id", c.user.Get)
	}
}

func (a *App) registerAdminRoutes(api *gin.RouterGroup, c *controllers) {
	admin := api.Group("")
	admin.Use(middleware.RoleMiddleware(model.Admin))
	{
		admin.POST("/users", c.user.Create)
		admin.PUT("/users/:id", c.user.Update)
		admin.DELETE("/users/:id", c.user.Deactivate)
	}
}
