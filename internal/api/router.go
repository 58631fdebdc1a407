package api

import (
	"github.com/gin-gonic/gin"

	"github.com/mfdez/tubeqa/internal/api/handler"
	"github.com/mfdez/tubeqa/internal/api/middleware"
	"github.com/mfdez/tubeqa/internal/service"
)

// SetupRouter configures the Gin router with all routes
func SetupRouter(
	answerService *service.AnswerService,
	mode string,
	cors middleware.CORSConfig,
) *gin.Engine {
	// Set Gin mode
	switch mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	// Add middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cors))

	// Create handlers
	healthHandler := handler.NewHealthHandler()
	askHandler := handler.NewAskHandler(answerService)

	// Health check
	r.GET("/", healthHandler.Health)

	// Question answering
	r.POST("/ask", askHandler.Ask)

	return r
}
