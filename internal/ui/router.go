package ui

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS lets the listed origins call the JSON endpoints with the session
// cookie. With no origins only same-origin requests work.
func CORS(origins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(origins))
	for _, origin := range origins {
		allowed[origin] = true
	}
	return cors.New(cors.Config{
		AllowOriginFunc:  func(origin string) bool { return allowed[origin] },
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "X-Trace-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Trace-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

func SetupUIRoutes(rg *gin.RouterGroup, controller *Controller, origins []string) {
	ui := rg.Group("/ui", CORS(origins))
	{
		ui.GET("/prisoner-search", controller.PrisonerSearch)
		ui.GET("/accordion", controller.AccordionState)
		ui.POST("/accordion", controller.AccordionAll)
		ui.POST("/accordion/:contentId", controller.Accordion)
	}
}
