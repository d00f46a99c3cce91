package endpoints

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/minbar/internal/db"
	"github.com/Nixie-Tech-LLC/minbar/internal/dispatch"
	"github.com/Nixie-Tech-LLC/minbar/internal/http/api"
	"github.com/Nixie-Tech-LLC/minbar/internal/http/api/admin/control/packets"
	"github.com/Nixie-Tech-LLC/minbar/internal/model"
	"github.com/Nixie-Tech-LLC/minbar/internal/notify"
)

type ReminderController struct {
	svc *notify.Service
}

// ReminderModule mounts the manual /reminders triggers.
func ReminderModule(svc *notify.Service) api.Module {
	ctl := &ReminderController{svc: svc}
	return api.ModuleFunc(func(c *api.Controller) {
		c.POST("/reminders/day", ctl.remindDay)
		c.POST("/reminders/week", ctl.remindWeek)
		c.POST("/reminders/mosques", ctl.notifyMosques)
		c.POST("/reminders/mosques/week", ctl.mosqueWeek)
	})
}

// bindReminder accepts an empty body as all defaults.
func bindReminder(ctx *gin.Context) (packets.ReminderRequest, *api.APIError) {
	var request packets.ReminderRequest
	if err := ctx.ShouldBindJSON(&request); err != nil && !errors.Is(err, io.EOF) {
		return request, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	return request, nil
}

func notifyRequest(r packets.ReminderRequest) notify.Request {
	return notify.Request{DryRun: r.DryRun, Pace: r.Pace, Extra: r.ExtraNote}
}

func reminderResult(user *model.User, rep notify.Report, err error) (any, *api.APIError) {
	switch {
	case err == nil:
	case errors.Is(err, dispatch.ErrBridgeNotReady):
		return nil, &api.APIError{Code: http.StatusServiceUnavailable, Message: err.Error()}
	case errors.Is(err, notify.ErrNoSchedules):
		return nil, &api.APIError{Code: http.StatusNotFound, Message: err.Error()}
	case errors.Is(err, notify.ErrInvalidOffset):
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	case errors.Is(err, db.ErrNotFound):
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "mosque not found"}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		log.Warn().
			Err(err).
			Int("user_id", user.ID).
			Str("flow", rep.Flow).
			Int("sent", rep.Sent).
			Int("failed", rep.Failed).
			Int("skipped", rep.Skipped).
			Msg("reminder run interrupted")
		for _, d := range rep.Details {
			log.Info().Str("recipient", d.Recipient).Str("phone", d.Phone).Bool("success", d.Success).
				Bool("skipped", d.Skipped).Str("detail", d.Detail).Msg("interrupted run outcome")
		}
		return nil, &api.APIError{
			Code:    http.StatusRequestTimeout,
			Message: fmt.Sprintf("reminder run interrupted after %d sent, %d failed, %d skipped", rep.Sent, rep.Failed, rep.Skipped),
			Data:    reminderResponse(rep),
		}
	default:
		log.Error().Err(err).Int("user_id", user.ID).Msg("reminder run failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "internal error"}
	}

	log.Info().
		Int("user_id", user.ID).
		Str("flow", rep.Flow).
		Bool("dry_run", rep.DryRun).
		Int("sent", rep.Sent).
		Int("failed", rep.Failed).
		Msg("reminder run triggered")

	return reminderResponse(rep), nil
}

func reminderResponse(rep notify.Report) packets.ReminderResponse {
	previews := rep.Previews
	if previews == nil {
		previews = []notify.Preview{}
	}
	details := rep.Details
	if details == nil {
		details = []dispatch.Outcome{}
	}
	return packets.ReminderResponse{
		Flow:     rep.Flow,
		Date:     rep.Date,
		DryRun:   rep.DryRun,
		Sent:     rep.Sent,
		Failed:   rep.Failed,
		Skipped:  rep.Skipped,
		Details:  details,
		Previews: previews,
	}
}

// POST /api/admin/reminders/day
func (r *ReminderController) remindDay(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	request, apiErr := bindReminder(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	rep, err := r.svc.RemindDay(ctx.Request.Context(), request.DaysAhead, notifyRequest(request))
	return reminderResult(user, rep, err)
}

// POST /api/admin/reminders/week
func (r *ReminderController) remindWeek(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	request, apiErr := bindReminder(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	rep, err := r.svc.RemindWeek(ctx.Request.Context(), notifyRequest(request))
	return reminderResult(user, rep, err)
}

// POST /api/admin/reminders/mosques
func (r *ReminderController) notifyMosques(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	request, apiErr := bindReminder(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	rep, err := r.svc.NotifyMosques(ctx.Request.Context(), request.DaysAhead, request.MosqueIDs, notifyRequest(request))
	return reminderResult(user, rep, err)
}

// POST /api/admin/reminders/mosques/week
func (r *ReminderController) mosqueWeek(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	request, apiErr := bindReminder(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	rep, err := r.svc.MosqueWeek(ctx.Request.Context(), request.MosqueIDs, notifyRequest(request))
	return reminderResult(user, rep, err)
}
