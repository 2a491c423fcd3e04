package routes

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	_ "restoredoc/docs"
	"restoredoc/internal/adapter/http/handlers"
	"restoredoc/internal/config"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

const (
	PathAnalyses  = "/analyses"
	PathJobs      = "/jobs"
	PathEstimates = "/estimates"
	PathEquipment = "/equipment"
	PathPayments  = "/payments"
)

// Handlers is every HTTP handler the API mounts.
type Handlers struct {
	Analysis  *handlers.AnalysisHandler
	Job       *handlers.JobHandler
	Estimate  *handlers.EstimateHandler
	Equipment *handlers.EquipmentHandler
	Payment   *handlers.PaymentHandler
}

// Run wires the configured store and providers, then serves the API until
// the listener fails.
func Run(cfg config.Config, logger *zap.Logger) error {
	ctx := context.Background()

	h, closeStore, err := BuildHandlers(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	router := NewRouter(h, logger)
	logger.Info("starting api", zap.Int("port", cfg.Port), zap.String("store", cfg.Store))
	if err := router.Run(":" + strconv.Itoa(cfg.Port)); err != nil {
		return fmt.Errorf("failed to start the application: %w", err)
	}
	return nil
}

// NewRouter mounts the v1 API and the swagger UI.
func NewRouter(h Handlers, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	setMiddlewares(router, logger)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := router.Group("/v1")
	addPingRoutes(v1)
	addAnalysisRoutes(v1, h.Analysis)
	addJobRoutes(v1, h.Job, h.Estimate)
	addEstimateRoutes(v1, h.Estimate)
	addEquipmentRoutes(v1, h.Equipment)
	addPaymentRoutes(v1, h.Payment)
	return router
}

func setMiddlewares(router *gin.Engine, logger *zap.Logger) {
	router.Use(gin.Logger())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("recovered from panic", zap.Any("panic", recovered), zap.String("path", c.Request.URL.Path))
		c.AbortWithStatus(http.StatusInternalServerError)
	}))
}

func addAnalysisRoutes(rg *gin.RouterGroup, h *handlers.AnalysisHandler) {
	rg.POST(PathAnalyses, h.Analyze)
}

func addJobRoutes(rg *gin.RouterGroup, jobs *handlers.JobHandler, estimates *handlers.EstimateHandler) {
	group := rg.Group(PathJobs)
	{
		group.POST("", jobs.CreateJob)
		group.GET("", jobs.ListJobs)
		group.GET("/:id", jobs.GetJob)
		group.POST("/:id/estimates", estimates.SaveEstimate)
		group.GET("/:id/estimates", estimates.ListJobEstimates)
		group.GET("/:id/estimates/current", estimates.GetCurrentEstimate)
	}
}

func addEstimateRoutes(rg *gin.RouterGroup, h *handlers.EstimateHandler) {
	group := rg.Group(PathEstimates)
	{
		group.POST("/validate", h.ValidateEstimate)
		group.POST("/preview", h.PreviewEstimate)
		group.GET("/:id", h.GetEstimate)
		group.GET("/:id/text", h.ExportEstimateText)
		group.POST("/:id/adjust", h.AdjustEstimate)
		group.PATCH("/:id/send", h.SendEstimate)
		group.PATCH("/:id/approve", h.ApproveEstimate)
		group.PATCH("/:id/reject", h.RejectEstimate)
	}
}

func addEquipmentRoutes(rg *gin.RouterGroup, h *handlers.EquipmentHandler) {
	rg.POST(PathEquipment+"/plan", h.PlanEquipment)
}

func addPaymentRoutes(rg *gin.RouterGroup, h *handlers.PaymentHandler) {
	group := rg.Group(PathPayments)
	{
		group.POST("/:estimate_id", h.CreatePaymentByEstimateID)
		group.GET("/:estimate_id", h.GetPaymentByEstimateID)
	}
}
