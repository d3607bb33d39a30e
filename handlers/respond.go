package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/satheesh067/Flight-Price-Prediction/apierr"
	"github.com/satheesh067/Flight-Price-Prediction/middleware"
)

// respondError writes {success:false, error}. Server-side failures are
// reported generically; the cause goes to the request log.
func respondError(c *gin.Context, err error) {
	status := apierr.StatusOf(err)
	_ = c.Error(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		msg = http.StatusText(status)
		if apierr.CodeOf(err) == apierr.CodePersistence {
			msg = "failed to save or load data"
		}
	}
	c.JSON(status, gin.H{"success": false, "error": msg, "code": apierr.CodeOf(err)})
}

func badRequest(c *gin.Context, err error) {
	respondError(c, apierr.Validation(err))
}

// currentUser aborts with 401 when the gate did not attach a user.
func currentUser(c *gin.Context) (uint, bool) {
	uid, ok := middleware.UserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "authentication required"})
	}
	return uid, ok
}
