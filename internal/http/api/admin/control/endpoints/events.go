package endpoints

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/minbar/internal/events"
	"github.com/Nixie-Tech-LLC/minbar/internal/http/api"
	"github.com/Nixie-Tech-LLC/minbar/internal/http/middleware"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// EventsModule mounts the live run-summary feed.
func EventsModule(hub *events.Hub) api.Module {
	return api.ModuleFunc(func(c *api.Controller) {
		// raw handler: the upgrade hijacks the connection, so no JSON result follows
		c.Group.GET("/events/ws", func(ctx *gin.Context) {
			user, ok := middleware.GetCurrentUser(ctx)
			if !ok {
				ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
				return
			}
			conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
			if err != nil {
				log.Warn().Err(err).Int("user_id", user.ID).Msg("websocket upgrade failed")
				return
			}
			log.Info().Int("user_id", user.ID).Msg("run feed connected")
			hub.Serve(conn)
		})
	})
}
