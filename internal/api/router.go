package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/manhnguyen41/Adaptive-Learning/internal/ability"
	"github.com/manhnguyen41/Adaptive-Learning/internal/examprob"
)

// RegisterRoutes wires the four core operations and health/metrics
// endpoints onto router.
func RegisterRoutes(router *gin.Engine, banks *BankSource, estimator *ability.Estimator, engine *examprob.Engine) {
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	v1.POST("/calibrate", SafeHandler(calibrateHandler(banks)))
	v1.POST("/ability", SafeHandler(abilityHandler(banks, estimator)))
	v1.POST("/ability/topics", SafeHandler(abilityByTopicHandler(banks, estimator)))
	v1.POST("/ability/batch", SafeHandler(abilityBatchHandler(banks, estimator)))
	v1.POST("/passing-probability", SafeHandler(passingProbabilityHandler(engine)))
}
