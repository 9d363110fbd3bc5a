package server

import (
	"net/http"
	"slices"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"wordchain_backend/internal/game"
)

// New builds the router: health check, public room list and the game socket.
// An empty allowedOrigins list accepts every origin.
func New(hub *game.Hub, allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/health", func(ctx *gin.Context) { ctx.String(http.StatusOK, "healthy") })

	corsCfg := cors.DefaultConfig()
	if len(allowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = allowedOrigins
	}
	r.Use(cors.New(corsCfg))

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(req *http.Request) bool {
			return len(allowedOrigins) == 0 || slices.Contains(allowedOrigins, req.Header.Get("Origin"))
		},
	}

	r.GET("/rooms", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"rooms": hub.PublicRooms()})
	})
	r.GET("/ws", func(ctx *gin.Context) {
		serveWs(hub, &upgrader, ctx)
	})
	return r
}

// serveWs handles WebSocket requests from the client.
func serveWs(hub *game.Hub, upgrader *websocket.Upgrader, ctx *gin.Context) {
	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	client := hub.Connect(conn, ctx.Query("id"), ctx.Query("name"))

	go client.WritePump()
	go client.ReadPump()
	log.Info().Str("player", client.ID()).Str("addr", ctx.Request.RemoteAddr).Msg("websocket client connected")
}
