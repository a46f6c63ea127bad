package timecard

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nicopkrauss/talenttracker/config"
	"github.com/nicopkrauss/talenttracker/model"
	"github.com/nicopkrauss/talenttracker/persistence"
	"github.com/nicopkrauss/talenttracker/shift"
	web "github.com/nicopkrauss/talenttracker/web/common"
)

type Endpoint struct {
	db        *gorm.DB
	persister *persistence.ShiftPersister
	cfg       *config.Config
	clock     shift.Clock
	log       *zap.Logger
}

func Register(r *gin.RouterGroup, db *gorm.DB, cfg *config.Config, clock shift.Clock, log *zap.Logger) {
	endpoint := &Endpoint{
		db:        db,
		persister: persistence.NewShiftPersister(db),
		cfg:       cfg,
		clock:     clock,
		log:       log,
	}
	r.POST("/shifts", endpoint.Create)
	r.GET("/shifts/:id/summary", endpoint.Summary)
	r.POST("/shifts/:id/transitions", endpoint.Transition)
	r.PATCH("/shifts/:id/times", endpoint.EditTimes)
	r.POST("/shifts/:id/resolve-break", endpoint.ResolveBreak)
	r.GET("/shifts/:id/export", endpoint.Export)
	r.POST("/audit/search", endpoint.SearchAudit)
}

func shiftID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse("Invalid shift id"))
		return uuid.Nil, false
	}
	return id, true
}

func (ep *Endpoint) Create(c *gin.Context) {
	var dto CreateShiftDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(web.FormatBindingError(err)))
		return
	}
	if _, ok := ep.cfg.Roles[dto.Role]; !ok {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse("Unknown role '"+dto.Role+"'"))
		return
	}

	workerID, _ := uuid.Parse(dto.WorkerID)
	projectID, _ := uuid.Parse(dto.ProjectID)
	rec, err := ep.persister.CreateShift(c.Request.Context(), workerID, projectID, dto.Role, dto.ScheduledStartTime.Time)
	if err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}

	ep.log.Info("shift created",
		zap.String("shiftId", rec.ID.String()),
		zap.String("workerId", rec.WorkerID.String()),
	)
	c.JSON(http.StatusCreated, web.NewSuccessResponse(rec))
}

// Transition is the action-bar endpoint: it runs the requested action through
// the state machine against the persisted record.
func (ep *Endpoint) Transition(c *gin.Context) {
	id, ok := shiftID(c)
	if !ok {
		return
	}

	var dto TransitionDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(web.FormatBindingError(err)))
		return
	}
	action, _ := shift.ParseAction(dto.Action)

	ctx := c.Request.Context()
	rec, err := ep.persister.FetchShift(ctx, id)
	if err != nil {
		c.JSON(http.StatusNotFound, web.NewErrorResponse("Shift not found"))
		return
	}

	store := shift.NewStore(*rec, ep.persister, ep.clock)
	if err := store.Apply(ctx, action); err != nil {
		switch {
		case errors.Is(err, shift.ErrInvalidTransition):
			c.JSON(http.StatusUnprocessableEntity, web.NewErrorResponse(err.Error()))
		case errors.Is(err, persistence.ErrConflict):
			c.JSON(http.StatusConflict, web.NewErrorResponse(err.Error()))
		default:
			c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		}
		return
	}

	updated := store.Record()
	ep.log.Info("shift transition",
		zap.String("shiftId", id.String()),
		zap.String("action", string(action)),
		zap.String("status", string(updated.Status)),
	)
	c.JSON(http.StatusOK, web.NewSuccessResponse(ep.summarize(&updated)))
}

func (ep *Endpoint) Summary(c *gin.Context) {
	id, ok := shiftID(c)
	if !ok {
		return
	}

	rec, err := ep.persister.FetchShift(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, web.NewErrorResponse("Shift not found"))
		return
	}
	c.JSON(http.StatusOK, web.NewSuccessResponse(ep.summarize(rec)))
}

func (ep *Endpoint) summarize(rec *model.ShiftRecord) SummaryDTO {
	pol := ep.cfg.PolicyFor(rec.Role)
	now := ep.clock.Now()
	d := shift.Derive(rec, pol, now)
	return SummaryDTO{
		Shift:      *rec,
		Derived:    d,
		Resolution: shift.Resolve(rec.Status, d.BreakElapsed, pol),
		LateStart:  rec.CheckInTime != nil && rec.CheckInTime.After(rec.ScheduledStartTime),
	}
}
