package timecard

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nicopkrauss/talenttracker/model"
	"github.com/nicopkrauss/talenttracker/persistence"
	"github.com/nicopkrauss/talenttracker/utils"
	web "github.com/nicopkrauss/talenttracker/web/common"
)

func actorID(c *gin.Context) uuid.UUID {
	if s, ok := c.Get("actorId"); ok {
		if id, err := uuid.Parse(s.(string)); err == nil {
			return id
		}
	}
	return uuid.Nil
}

// editTime maps an editor field to its TimeEdits value: absent leaves the
// field unchanged, an empty string clears it.
func editTime(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	if *s == "" {
		return &time.Time{}, nil
	}
	return utils.ParseISOTime(*s)
}

// EditTimes is the time-field editor: supervisors rewrite timestamps and
// every changed field lands in the audit trail.
func (ep *Endpoint) EditTimes(c *gin.Context) {
	id, ok := shiftID(c)
	if !ok {
		return
	}

	var dto TimeEditsDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(web.FormatBindingError(err)))
		return
	}

	var edits persistence.TimeEdits
	for _, f := range []struct {
		in  *string
		out **time.Time
	}{
		{dto.CheckInTime, &edits.CheckInTime},
		{dto.BreakStartTime, &edits.BreakStartTime},
		{dto.BreakEndTime, &edits.BreakEndTime},
		{dto.CheckOutTime, &edits.CheckOutTime},
	} {
		t, err := editTime(f.in)
		if err != nil {
			c.JSON(http.StatusBadRequest, web.NewErrorResponse(err.Error()))
			return
		}
		*f.out = t
	}

	rec, err := ep.persister.UpdateShiftTimes(c.Request.Context(), id, actorID(c), edits)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, web.NewErrorResponse(err.Error()))
		return
	}

	ep.log.Info("shift times edited", zap.String("shiftId", id.String()))
	c.JSON(http.StatusOK, web.NewSuccessResponse(ep.summarize(rec)))
}

// ResolveBreak closes out a break the worker never ended.
func (ep *Endpoint) ResolveBreak(c *gin.Context) {
	id, ok := shiftID(c)
	if !ok {
		return
	}

	var dto ResolveBreakDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(web.FormatBindingError(err)))
		return
	}

	rec, err := ep.persister.ResolveBreak(c.Request.Context(), id, actorID(c), dto.BreakEndTime.Time)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, web.NewErrorResponse(err.Error()))
		return
	}

	ep.log.Info("break resolved", zap.String("shiftId", id.String()))
	c.JSON(http.StatusOK, web.NewSuccessResponse(ep.summarize(rec)))
}

// SearchAudit powers the audit-trail viewer.
func (ep *Endpoint) SearchAudit(c *gin.Context) {
	var dto AuditSearchDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(web.FormatBindingError(err)))
		return
	}

	params := persistence.AuditSearchParams{
		Actions: dto.Actions,
		Fields:  dto.Fields,
		From:    dto.From.Time,
		Sorts:   dto.Sorts,
	}
	if !dto.To.Time.IsZero() {
		// To is a date; make the range inclusive of that whole day.
		params.To = dto.To.Time.AddDate(0, 0, 1)
	}
	if dto.ShiftID != "" {
		id, err := uuid.Parse(dto.ShiftID)
		if err != nil {
			c.JSON(http.StatusBadRequest, web.NewErrorResponse("Invalid shiftId"))
			return
		}
		params.ShiftID = id
	}
	if dto.WorkerID != "" {
		id, err := uuid.Parse(dto.WorkerID)
		if err != nil {
			c.JSON(http.StatusBadRequest, web.NewErrorResponse("Invalid workerId"))
			return
		}
		params.WorkerID = id
	}

	entries, total, err := persistence.SearchAuditEntries(c.Request.Context(), ep.db, params, dto.Limit, dto.Offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}

	rows := utils.Map(entries, func(e model.AuditEntry) AuditEntryDTO {
		return AuditEntryDTO{
			ID:        e.ID.String(),
			ShiftID:   e.ShiftID.String(),
			WorkerID:  e.WorkerID.String(),
			ActorID:   e.ActorID.String(),
			Action:    e.Action,
			Field:     e.Field,
			OldValue:  e.OldValue,
			NewValue:  e.NewValue,
			CreatedAt: e.CreatedAt.Format(time.RFC3339),
		}
	})
	c.JSON(http.StatusOK, web.NewSearchResponse(rows, total, dto.Limit, dto.Offset))
}
