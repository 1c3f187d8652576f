package handlers

import (
	"net/http"

	"putzelf/utils"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups the handler funcs wired into the router.
type HandlerBundle struct {
	CreateBooking  gin.HandlerFunc
	ListBookings   gin.HandlerFunc
	GetBooking     gin.HandlerFunc
	ConfirmBooking gin.HandlerFunc
}

// HealthHandler reports service status plus the latest dependency snapshot.
func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"message":      "PutzELF backend running",
		"dependencies": utils.GetHealthStatus(),
	})
}
