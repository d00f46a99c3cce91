package endpoints

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/minbar/internal/calendar"
	"github.com/Nixie-Tech-LLC/minbar/internal/db"
	"github.com/Nixie-Tech-LLC/minbar/internal/http/api"
	"github.com/Nixie-Tech-LLC/minbar/internal/http/api/admin/control/packets"
	"github.com/Nixie-Tech-LLC/minbar/internal/model"
)

type ScheduleController struct {
	store db.Store
	cal   *Calendar
}

// ScheduleModule mounts all authenticated /schedules endpoints.
func ScheduleModule(store db.Store, cal *Calendar) api.Module {
	ctl := &ScheduleController{store: store, cal: cal}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/schedules", ctl.listSchedules)
		c.POST("/schedules", ctl.createSchedule)
		c.GET("/schedules/today", ctl.getToday)
		c.GET("/schedules/weekday/:weekday", ctl.getWeekday)
		c.GET("/schedules/:id", ctl.getSchedule)
		c.PUT("/schedules/:id", ctl.updateSchedule)
		c.DELETE("/schedules/:id", ctl.deleteSchedule)
	})
}

func scheduleFromRequest(ctx *gin.Context) (model.Schedule, *api.APIError) {
	var request packets.ScheduleRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return model.Schedule{}, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	prayer := model.PrayerSlot(request.Prayer)
	if prayer == "" {
		prayer = model.DefaultPrayerSlot
	}
	return model.Schedule{
		MosqueID: request.MosqueID,
		CallerID: request.CallerID,
		Weekday:  model.Weekday(*request.Weekday),
		Prayer:   prayer,
		Notes:    strings.TrimSpace(request.Notes),
	}, nil
}

// GET /api/admin/schedules
// ordered by how soon each talk comes round
func (s *ScheduleController) listSchedules(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	all, err := s.store.AllSchedules(ctx.Request.Context(), calendar.WeekdayIndex(s.cal.today()))
	if err != nil {
		return nil, storeError(err, "schedule")
	}
	return s.cal.schedules(all), nil
}

// POST /api/admin/schedules
func (s *ScheduleController) createSchedule(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	sc, apiErr := scheduleFromRequest(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	created, err := s.store.CreateSchedule(ctx.Request.Context(), sc)
	if err != nil {
		log.Warn().Err(err).Int("user_id", user.ID).Msg("schedule rejected")
		return nil, storeError(err, "schedule")
	}
	log.Info().Int("user_id", user.ID).Int("schedule_id", created.ID).Msg("schedule created")
	return s.cal.schedule(created), nil
}

// GET /api/admin/schedules/today
func (s *ScheduleController) getToday(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	today := s.cal.today()
	all, err := s.store.SchedulesForWeekday(ctx.Request.Context(), calendar.WeekdayIndex(today))
	if err != nil {
		return nil, storeError(err, "schedule")
	}
	day, err := s.cal.day(today, all)
	if err != nil {
		log.Error().Err(err).Msg("could not describe today")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "internal error"}
	}
	return day, nil
}

// GET /api/admin/schedules/weekday/:weekday
func (s *ScheduleController) getWeekday(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	n, err := strconv.Atoi(ctx.Param("weekday"))
	w := model.Weekday(n)
	if err != nil || !w.Valid() {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "weekday must be 0 (Saturday) to 6 (Friday)"}
	}
	all, err := s.store.SchedulesForWeekday(ctx.Request.Context(), w)
	if err != nil {
		return nil, storeError(err, "schedule")
	}
	day, err := s.cal.day(calendar.NextOccurrence(s.cal.today(), w), all)
	if err != nil {
		log.Error().Err(err).Int("weekday", n).Msg("could not describe weekday")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "internal error"}
	}
	return day, nil
}

// GET /api/admin/schedules/:id
func (s *ScheduleController) getSchedule(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := paramID(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	sc, err := s.store.GetSchedule(ctx.Request.Context(), id)
	if err != nil {
		return nil, storeError(err, "schedule")
	}
	return s.cal.schedule(sc), nil
}

// PUT /api/admin/schedules/:id
func (s *ScheduleController) updateSchedule(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := paramID(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	sc, apiErr := scheduleFromRequest(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	sc.ID = id
	updated, err := s.store.UpdateSchedule(ctx.Request.Context(), sc)
	if err != nil {
		log.Warn().Err(err).Int("user_id", user.ID).Int("schedule_id", id).Msg("schedule update rejected")
		return nil, storeError(err, "schedule")
	}
	return s.cal.schedule(updated), nil
}

// DELETE /api/admin/schedules/:id
func (s *ScheduleController) deleteSchedule(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := paramID(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	if err := s.store.DeleteSchedule(ctx.Request.Context(), id); err != nil {
		return nil, storeError(err, "schedule")
	}
	log.Info().Int("user_id", user.ID).Int("schedule_id", id).Msg("schedule deleted")
	return gin.H{"deleted": id}, nil
}
