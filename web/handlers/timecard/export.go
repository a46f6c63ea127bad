package timecard

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	web "github.com/nicopkrauss/talenttracker/web/common"
)

func cellTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("15:04:05")
}

// Export writes the timecard summary for one shift as an xlsx workbook.
func (ep *Endpoint) Export(c *gin.Context) {
	id, ok := shiftID(c)
	if !ok {
		return
	}

	rec, err := ep.persister.FetchShift(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, web.NewErrorResponse("Shift not found"))
		return
	}
	summary := ep.summarize(rec)

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Timecard"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}

	rows := [][]any{
		{"Shift", rec.ID.String()},
		{"Worker", rec.WorkerID.String()},
		{"Project", rec.ProjectID.String()},
		{"Role", rec.Role},
		{"Date", rec.ScheduledStartTime.Format("2006-01-02")},
		{"Status", summary.Resolution.StatusLabel},
		{"Check In", cellTime(rec.CheckInTime)},
		{"Break Start", cellTime(rec.BreakStartTime)},
		{"Break End", cellTime(rec.BreakEndTime)},
		{"Check Out", cellTime(rec.CheckOutTime)},
		{"Hours", fmt.Sprintf("%.2f", summary.Derived.ShiftHours)},
		{"Overtime", summary.Derived.Overtime},
		{"Late Start", summary.LateStart},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
			return
		}
	}

	filename := fmt.Sprintf("timecard-%s.xlsx", rec.ScheduledStartTime.Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if _, err := f.WriteTo(c.Writer); err != nil {
		ep.log.Error("export failed", zap.String("shiftId", id.String()), zap.Error(err))
	}
}
