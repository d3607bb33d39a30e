package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/satheesh067/Flight-Price-Prediction/features"
)

// Home lists the categories the model was trained on so clients can build
// their forms.
func Home(enc *features.Encoder) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":         "Flight Price Prediction API",
			"sources":      enc.Sources(),
			"destinations": enc.Destinations(),
			"airlines":     enc.Airlines(),
		})
	}
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "UP",
		"message": "Flight Price Prediction API is running",
	})
}
