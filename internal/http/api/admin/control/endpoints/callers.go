package endpoints

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/minbar/internal/db"
	"github.com/Nixie-Tech-LLC/minbar/internal/http/api"
	"github.com/Nixie-Tech-LLC/minbar/internal/http/api/admin/control/packets"
	"github.com/Nixie-Tech-LLC/minbar/internal/model"
)

type CallerController struct {
	store db.Store
}

// CallerModule mounts all authenticated /callers endpoints.
func CallerModule(store db.Store) api.Module {
	ctl := &CallerController{store: store}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/callers", ctl.listCallers)
		c.POST("/callers", ctl.createCaller)
		c.GET("/callers/:id", ctl.getCaller)
		c.PUT("/callers/:id", ctl.updateCaller)
		c.DELETE("/callers/:id", ctl.deleteCaller)
	})
}

func callerResponse(c model.Caller) packets.CallerResponse {
	return packets.CallerResponse{
		ID:          c.ID,
		Name:        c.Name,
		CountryCode: c.CountryCode,
		Phone:       c.Phone,
		FullPhone:   c.FullPhone(),
		Email:       c.Email,
		CreatedAt:   c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   c.UpdatedAt.Format(time.RFC3339),
	}
}

func callerFromRequest(ctx *gin.Context) (model.Caller, *api.APIError) {
	var request packets.CallerRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return model.Caller{}, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	name, apiErr := requiredName(request.Name)
	if apiErr != nil {
		return model.Caller{}, apiErr
	}
	code, apiErr := countryCode(request.CountryCode)
	if apiErr != nil {
		return model.Caller{}, apiErr
	}
	return model.Caller{
		Name:        name,
		CountryCode: code,
		Phone:       request.Phone,
		Email:       request.Email,
	}, nil
}

// GET /api/admin/callers
func (cc *CallerController) listCallers(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	all, err := cc.store.ListCallers(ctx.Request.Context())
	if err != nil {
		return nil, storeError(err, "caller")
	}
	out := make([]packets.CallerResponse, 0, len(all))
	for _, c := range all {
		out = append(out, callerResponse(c))
	}
	return out, nil
}

// POST /api/admin/callers
func (cc *CallerController) createCaller(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	caller, apiErr := callerFromRequest(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	created, err := cc.store.CreateCaller(ctx.Request.Context(), caller)
	if err != nil {
		return nil, storeError(err, "caller")
	}
	log.Info().Int("user_id", user.ID).Int("caller_id", created.ID).Msg("caller created")
	return callerResponse(created), nil
}

// GET /api/admin/callers/:id
func (cc *CallerController) getCaller(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := paramID(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	caller, err := cc.store.GetCaller(ctx.Request.Context(), id)
	if err != nil {
		return nil, storeError(err, "caller")
	}
	return callerResponse(caller), nil
}

// PUT /api/admin/callers/:id
func (cc *CallerController) updateCaller(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := paramID(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	caller, apiErr := callerFromRequest(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	caller.ID = id
	updated, err := cc.store.UpdateCaller(ctx.Request.Context(), caller)
	if err != nil {
		return nil, storeError(err, "caller")
	}
	return callerResponse(updated), nil
}

// DELETE /api/admin/callers/:id
func (cc *CallerController) deleteCaller(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := paramID(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	if err := cc.store.DeleteCaller(ctx.Request.Context(), id); err != nil {
		return nil, storeError(err, "caller")
	}
	log.Info().Int("user_id", user.ID).Int("caller_id", id).Msg("caller deleted with their schedules")
	return gin.H{"deleted": id}, nil
}
