package http

import (
	"github.com/gin-gonic/gin"

	"eventmind/internal/bootstrap"
	"eventmind/internal/transport/http/handler"
	"eventmind/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app.StartedAt)
	router.GET("/healthz", healthHandler.Check)

	knowledgeHandler := handler.NewKnowledgeHandler(app.IngestService, app.AnswerService)
	lifecycleHandler := handler.NewLifecycleHandler(app.LifecycleService)

	v1 := router.Group("/api/v1")
	v1.Use(middleware.AuthJWT(app.Config.Auth.JWTSecret))

	v1.POST("/documents/ingest", knowledgeHandler.IngestDocument)
	v1.POST("/questions", knowledgeHandler.AskQuestion)

	eventGroup := v1.Group("/events")
	eventGroup.POST("/:id/end", lifecycleHandler.EndEvent)
	eventGroup.POST("/:id/expired-content", lifecycleHandler.DeleteExpiredContent)

	return router
}
