package dbmodels

import (
	"time"

	"github.com/clearwatch/screening-backend/models"
	"github.com/clearwatch/screening-backend/utils"
)

const TABLE_SCREENING_OVERRIDES = "screening_overrides"

var SelectScreeningOverrideColumn = utils.ColumnList[DBScreeningOverride]()

type DBScreeningOverride struct {
	Id            string     `db:"id"`
	EntityId      string     `db:"entity_id"`
	EntityType    string     `db:"entity_type"`
	Reason        string     `db:"reason"`
	Justification string     `db:"justification"`
	RequestedBy   string     `db:"requested_by"`
	ApprovedBy    *string    `db:"approved_by"`
	Status        string     `db:"status"`
	ExpiresAt     *time.Time `db:"expires_at"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
}

func AdaptScreeningOverride(db DBScreeningOverride) (models.ScreeningOverride, error) {
	return models.ScreeningOverride{
		Id:            db.Id,
		EntityId:      db.EntityId,
		EntityType:    models.EntityTypeFrom(db.EntityType),
		Reason:        db.Reason,
		Justification: db.Justification,
		RequestedBy:   db.RequestedBy,
		ApprovedBy:    db.ApprovedBy,
		Status:        models.OverrideStatusFrom(db.Status),
		ExpiresAt:     db.ExpiresAt,
		CreatedAt:     db.CreatedAt,
		UpdatedAt:     db.UpdatedAt,
	}, nil
}
