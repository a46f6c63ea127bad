package persistence

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nicopkrauss/talenttracker/model"
)

// AuditSearchParams narrows an audit-trail search. Zero values are ignored.
type AuditSearchParams struct {
	ShiftID  uuid.UUID
	WorkerID uuid.UUID
	Actions  []string
	Fields   []string
	From     time.Time
	To       time.Time
	Sorts    []SortParam
}

type SortParam struct {
	Field string `json:"field"`
	Dir   string `json:"dir"`
}

// auditFieldMap translates UI field names to columns, the only names a sort
// or filter may reference.
var auditFieldMap = map[string]string{
	"createdAt": "created_at",
	"action":    "action",
	"field":     "field",
	"workerId":  "worker_id",
	"shiftId":   "shift_id",
	"actorId":   "actor_id",
}

// SearchAuditEntries returns one page of audit entries plus the total count
// for the pager.
func SearchAuditEntries(ctx context.Context, db *gorm.DB, params AuditSearchParams, limit, offset int) ([]model.AuditEntry, int64, error) {
	query := db.WithContext(ctx).Model(&model.AuditEntry{})

	if params.ShiftID != uuid.Nil {
		query = query.Where("shift_id = ?", params.ShiftID)
	}
	if params.WorkerID != uuid.Nil {
		query = query.Where("worker_id = ?", params.WorkerID)
	}
	if len(params.Actions) > 0 {
		query = query.Where("action IN ?", params.Actions)
	}
	if len(params.Fields) > 0 {
		query = query.Where("field IN ?", params.Fields)
	}
	if !params.From.IsZero() {
		query = query.Where("created_at >= ?", params.From)
	}
	if !params.To.IsZero() {
		query = query.Where("created_at < ?", params.To)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	for _, s := range params.Sorts {
		column, ok := auditFieldMap[s.Field]
		if !ok {
			continue
		}
		direction := "ASC"
		if strings.EqualFold(s.Dir, "desc") {
			direction = "DESC"
		}
		query = query.Order(fmt.Sprintf("%s %s", column, direction))
	}
	if len(params.Sorts) == 0 {
		query = query.Order("created_at DESC")
	}

	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var entries []model.AuditEntry
	if err := query.Limit(limit).Offset(offset).Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
