package endpoints

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/minbar/internal/db"
	"github.com/Nixie-Tech-LLC/minbar/internal/http/api"
	"github.com/Nixie-Tech-LLC/minbar/internal/http/api/admin/control/packets"
	"github.com/Nixie-Tech-LLC/minbar/internal/model"
)

type MosqueController struct {
	store db.Store
	cal   *Calendar
}

// MosqueModule mounts all authenticated /mosques endpoints.
func MosqueModule(store db.Store, cal *Calendar) api.Module {
	ctl := &MosqueController{store: store, cal: cal}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/mosques", ctl.listMosques)
		c.POST("/mosques", ctl.createMosque)
		c.GET("/mosques/:id", ctl.getMosque)
		c.PUT("/mosques/:id", ctl.updateMosque)
		c.DELETE("/mosques/:id", ctl.deleteMosque)
		c.GET("/mosques/:id/week", ctl.getMosqueWeek)
	})
}

func mosqueResponse(m model.Mosque) packets.MosqueResponse {
	return packets.MosqueResponse{
		ID:          m.ID,
		Name:        m.Name,
		Address:     m.Address,
		CountryCode: m.CountryCode,
		Phone:       m.Phone,
		FullPhone:   m.FullPhone(),
		CreatedAt:   m.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   m.UpdatedAt.Format(time.RFC3339),
	}
}

func mosqueFromRequest(ctx *gin.Context) (model.Mosque, *api.APIError) {
	var request packets.MosqueRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return model.Mosque{}, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	name, apiErr := requiredName(request.Name)
	if apiErr != nil {
		return model.Mosque{}, apiErr
	}
	code, apiErr := countryCode(request.CountryCode)
	if apiErr != nil {
		return model.Mosque{}, apiErr
	}
	return model.Mosque{
		Name:        name,
		Address:     strings.TrimSpace(request.Address),
		CountryCode: code,
		Phone:       request.Phone,
	}, nil
}

// GET /api/admin/mosques
func (m *MosqueController) listMosques(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	all, err := m.store.ListMosques(ctx.Request.Context())
	if err != nil {
		return nil, storeError(err, "mosque")
	}
	out := make([]packets.MosqueResponse, 0, len(all))
	for _, mosque := range all {
		out = append(out, mosqueResponse(mosque))
	}
	return out, nil
}

// POST /api/admin/mosques
func (m *MosqueController) createMosque(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	mosque, apiErr := mosqueFromRequest(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	created, err := m.store.CreateMosque(ctx.Request.Context(), mosque)
	if err != nil {
		return nil, storeError(err, "mosque")
	}
	log.Info().Int("user_id", user.ID).Int("mosque_id", created.ID).Msg("mosque created")
	return mosqueResponse(created), nil
}

// GET /api/admin/mosques/:id
func (m *MosqueController) getMosque(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := paramID(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	mosque, err := m.store.GetMosque(ctx.Request.Context(), id)
	if err != nil {
		return nil, storeError(err, "mosque")
	}
	return mosqueResponse(mosque), nil
}

// PUT /api/admin/mosques/:id
func (m *MosqueController) updateMosque(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := paramID(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	mosque, apiErr := mosqueFromRequest(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	mosque.ID = id
	updated, err := m.store.UpdateMosque(ctx.Request.Context(), mosque)
	if err != nil {
		return nil, storeError(err, "mosque")
	}
	return mosqueResponse(updated), nil
}

// DELETE /api/admin/mosques/:id
func (m *MosqueController) deleteMosque(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := paramID(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	if err := m.store.DeleteMosque(ctx.Request.Context(), id); err != nil {
		return nil, storeError(err, "mosque")
	}
	log.Info().Int("user_id", user.ID).Int("mosque_id", id).Msg("mosque deleted with its schedules")
	return gin.H{"deleted": id}, nil
}

// GET /api/admin/mosques/:id/week
func (m *MosqueController) getMosqueWeek(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := paramID(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	if _, err := m.store.GetMosque(ctx.Request.Context(), id); err != nil {
		return nil, storeError(err, "mosque")
	}
	week, err := m.store.MosqueWeek(ctx.Request.Context(), id)
	if err != nil {
		return nil, storeError(err, "mosque")
	}
	days, err := m.cal.week(week)
	if err != nil {
		log.Error().Err(err).Int("mosque_id", id).Msg("could not describe week")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "internal error"}
	}
	return days, nil
}
