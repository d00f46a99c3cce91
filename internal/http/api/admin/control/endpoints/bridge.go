package endpoints

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/minbar/internal/bridge"
	"github.com/Nixie-Tech-LLC/minbar/internal/http/api"
	"github.com/Nixie-Tech-LLC/minbar/internal/http/api/admin/control/packets"
	"github.com/Nixie-Tech-LLC/minbar/internal/model"
)

// BridgeProbe is the part of the bridge client the dashboard needs.
type BridgeProbe interface {
	IsReady(ctx context.Context) bool
	QR(ctx context.Context) (bridge.QRStatus, error)
}

type BridgeController struct {
	bridge BridgeProbe
}

// BridgeModule mounts the messaging bridge status endpoints.
func BridgeModule(b BridgeProbe) api.Module {
	ctl := &BridgeController{bridge: b}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/bridge/status", ctl.getStatus)
		c.GET("/bridge/qr", ctl.getQR)
	})
}

// GET /api/admin/bridge/status
func (b *BridgeController) getStatus(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	return packets.BridgeStatusResponse{Ready: b.bridge.IsReady(ctx.Request.Context())}, nil
}

// GET /api/admin/bridge/qr
func (b *BridgeController) getQR(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	status, err := b.bridge.QR(ctx.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("could not fetch bridge qr")
		return nil, &api.APIError{Code: http.StatusBadGateway, Message: "messaging bridge unavailable"}
	}
	return packets.BridgeQRResponse{
		Authenticated: status.Authenticated,
		QR:            status.QR,
		Message:       status.Message,
	}, nil
}
