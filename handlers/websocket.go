package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/satheesh067/Flight-Price-Prediction/logger"
	"github.com/satheesh067/Flight-Price-Prediction/services"
)

const wsWriteTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// LiveWebSocket streams the caller's new predictions as they are stored.
// Browsers pass the token as ?token= since they cannot set headers here.
func LiveWebSocket(cache *services.CacheService, log *logger.Logger) gin.HandlerFunc {
	log = log.With("handler", "LiveWebSocket")
	return func(c *gin.Context) {
		uid, ok := currentUser(c)
		if !ok {
			return
		}
		if !cache.Available() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "live updates are disabled"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Warn("websocket upgrade failed", "user_id", uid, "error", err)
			return
		}
		defer conn.Close()

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		// read pump only detects disconnects
		go func() {
			defer cancel()
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		pubsub := cache.Subscribe(ctx, services.PredictionChannel(uid))
		defer pubsub.Close()
		ch := pubsub.Channel()

		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
				err := conn.WriteJSON(gin.H{
					"type": "prediction",
					"data": json.RawMessage(msg.Payload),
				})
				if err != nil {
					log.Debug("ws write failed", "user_id", uid, "error", err)
					return
				}
			}
		}
	}
}
