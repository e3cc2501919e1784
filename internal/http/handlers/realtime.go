package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/sca-inventory-backend/internal/http/response"
	"github.com/yungbote/sca-inventory-backend/internal/platform/apierr"
	"github.com/yungbote/sca-inventory-backend/internal/platform/ctxutil"
	"github.com/yungbote/sca-inventory-backend/internal/platform/logger"
	"github.com/yungbote/sca-inventory-backend/internal/realtime"
)

type RealtimeHandler struct {
	log *logger.Logger
	hub *realtime.SSEHub
}

func NewRealtimeHandler(log *logger.Logger, hub *realtime.SSEHub) *RealtimeHandler {
	return &RealtimeHandler{log: log.With("handler", "RealtimeHandler"), hub: hub}
}

// GET /events streams inventory events until the client disconnects.
func (h *RealtimeHandler) SSEStream(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondErr(c, apierr.Unauthorized("unauthenticated", "not authenticated"))
		return
	}
	client := h.hub.NewSSEClient(rd.UserID)
	defer h.hub.CloseClient(client)
	h.hub.AddChannel(client, realtime.ChannelInventory)

	h.log.Debug("SSE stream open", "user_id", rd.UserID.String(), "client_id", client.ID.String())
	h.hub.ServeHTTP(c.Writer, c.Request, client)
}
