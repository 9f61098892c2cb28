package handlers

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
)

// WSHandler pushes project events (quote uploads, access requests and
// grants) to browsers watching a project page.
type WSHandler struct {
	M *melody.Melody
}

func NewWSHandler() *WSHandler {
	m := melody.New()

	m.Config.MaxMessageSize = 1024
	m.Config.PingPeriod = 30 * time.Second
	m.Config.PongWait = 60 * time.Second

	m.HandleConnect(func(s *melody.Session) {
		projectID, _ := s.Get("project_id")
		log.Printf("✅ Client connected to project: %v", projectID)
	})

	m.HandleDisconnect(func(s *melody.Session) {
		projectID, _ := s.Get("project_id")
		log.Printf("🔌 Client disconnected from project: %v", projectID)
	})

	m.HandleError(func(s *melody.Session, err error) {
		log.Printf("❌ WebSocket Error: %v", err)
	})

	return &WSHandler{M: m}
}

// HandleWS upgrades the request and subscribes the client to one
// project's event stream.
func (h *WSHandler) HandleWS(c *gin.Context) {
	projectID := c.Param("id")

	keys := map[string]interface{}{"project_id": projectID}
	if err := h.M.HandleRequestWithKeys(c.Writer, c.Request, keys); err != nil {
		log.Printf("❌ Failed to upgrade websocket: %v", err)
	}
}

// BroadcastProjectEvent signals all clients watching the project.
func (h *WSHandler) BroadcastProjectEvent(projectID, eventType, userID string) {
	msg := []byte(`{"type": "` + eventType + `", "user": "` + userID + `"}`)

	err := h.M.BroadcastFilter(msg, func(s *melody.Session) bool {
		id, exists := s.Get("project_id")
		return exists && id == projectID
	})

	if err != nil {
		log.Printf("⚠️ Error broadcasting to project %s: %v", projectID, err)
	}
}
