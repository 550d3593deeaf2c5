package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(taxH *TaxHandler, logger *slog.Logger, maxBodyBytes int64) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(RequestID())
	r.Use(Recovery(logger))
	r.Use(Logger(logger))

	r.GET("/healthz", Liveness)

	v1 := r.Group("/api/v1")
	v1.Use(BodyLimit(maxBodyBytes))

	v1.POST("/calculations", taxH.Calculate)
	v1.POST("/validations", taxH.Validate)
	v1.POST("/reports", taxH.Report)

	years := v1.Group("/tax-years")
	years.GET("", taxH.ListTaxYears)
	years.GET("/:year", taxH.GetTaxYear)

	return r
}
