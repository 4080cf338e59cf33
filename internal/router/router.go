package router

import (
	"github.com/blues/cfc/internal/clock"
	"github.com/blues/cfc/internal/config"
	"github.com/blues/cfc/internal/handler"
	"github.com/blues/cfc/internal/logic"
	"github.com/blues/cfc/internal/payment"
	"github.com/blues/cfc/internal/store"
	"github.com/gin-gonic/gin"
)

func Setup(st *store.Store, transferer payment.Transferer, clk clock.Clock, cfg *config.Config) *gin.Engine {
	r := gin.Default()

	// 中间件
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "campaign-core-service",
		})
	})

	campaignLogic := logic.NewCampaignLogic(st, clk)
	donateLogic := logic.NewDonateLogic(st, clk, transferer)

	// API版本组
	v1 := r.Group("/api/v1")
	{
		// 活动相关路由
		campaignHandler := handler.NewCampaignHandler(campaignLogic, clk)
		donateHandler := handler.NewDonateHandler(donateLogic)
		campaigns := v1.Group("/campaigns")
		{
			campaigns.POST("", campaignHandler.CreateCampaign)
			campaigns.GET("", campaignHandler.GetCampaigns)
			campaigns.GET("/:id", campaignHandler.GetCampaign)
			campaigns.GET("/:id/donators", campaignHandler.GetDonators)
			campaigns.GET("/:id/stats", campaignHandler.GetCampaignStats)
			campaigns.POST("/:id/donations", donateHandler.Donate)
		}

		// 全局统计
		v1.GET("/stats", campaignHandler.GetAllCampaignStats)
	}

	return r
}

// CORS中间件
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
