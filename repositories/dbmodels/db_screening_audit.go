package dbmodels

import (
	"time"

	"github.com/clearwatch/screening-backend/models"
	"github.com/clearwatch/screening-backend/utils"
)

const TABLE_SCREENING_AUDIT_EVENTS = "screening_audit_events"

var SelectScreeningAuditEventColumn = utils.ColumnList[DBScreeningAuditEvent]()

type DBScreeningAuditEvent struct {
	Id           string    `db:"id"`
	EntityId     string    `db:"entity_id"`
	EntityType   string    `db:"entity_type"`
	ScreenedName string    `db:"screened_name"`
	Status       string    `db:"status"`
	Provider     string    `db:"provider"`
	HighestScore float64   `db:"highest_score"`
	MatchCount   int       `db:"match_count"`
	Overridden   bool      `db:"overridden"`
	Whitelisted  bool      `db:"whitelisted"`
	CreatedAt    time.Time `db:"created_at"`
}

// DBRescreeningCandidate is an entity reconstructed from its audit trail for
// the periodic re-screening job. The trail only stores id, type and the
// screened name; the first event stands in for the onboarding date.
type DBRescreeningCandidate struct {
	EntityId        string    `db:"entity_id"`
	EntityType      string    `db:"entity_type"`
	ScreenedName    string    `db:"screened_name"`
	FirstScreenedAt time.Time `db:"first_screened_at"`
}

func AdaptRescreeningCandidate(db DBRescreeningCandidate) (models.ScreeningEntity, error) {
	return models.ScreeningEntity{
		Id:        db.EntityId,
		Type:      models.EntityTypeFrom(db.EntityType),
		Name:      db.ScreenedName,
		CreatedAt: db.FirstScreenedAt,
	}, nil
}

func AdaptScreeningAuditEvent(db DBScreeningAuditEvent) (models.ScreeningAuditEvent, error) {
	return models.ScreeningAuditEvent{
		Id:           db.Id,
		EntityId:     db.EntityId,
		EntityType:   models.EntityTypeFrom(db.EntityType),
		ScreenedName: db.ScreenedName,
		Status:       models.ScreeningStatusFrom(db.Status),
		Provider:     models.ScreeningProviderFrom(db.Provider),
		HighestScore: db.HighestScore,
		MatchCount:   db.MatchCount,
		Overridden:   db.Overridden,
		Whitelisted:  db.Whitelisted,
		CreatedAt:    db.CreatedAt,
	}, nil
}
