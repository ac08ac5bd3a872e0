package dbmodels

import (
	"time"

	"github.com/clearwatch/screening-backend/models"
	"github.com/clearwatch/screening-backend/utils"
)

const TABLE_SCREENING_WHITELIST = "screening_whitelist"

var SelectScreeningWhitelistColumn = utils.ColumnList[DBScreeningWhitelistEntry]()

type DBScreeningWhitelistEntry struct {
	Id         string    `db:"id"`
	EntityId   string    `db:"entity_id"`
	EntityType string    `db:"entity_type"`
	EntityName string    `db:"entity_name"`
	AddedBy    string    `db:"added_by"`
	CreatedAt  time.Time `db:"created_at"`
}

func AdaptScreeningWhitelistEntry(db DBScreeningWhitelistEntry) (models.ScreeningWhitelistEntry, error) {
	return models.ScreeningWhitelistEntry{
		Id:         db.Id,
		EntityId:   db.EntityId,
		EntityType: models.EntityTypeFrom(db.EntityType),
		EntityName: db.EntityName,
		AddedBy:    db.AddedBy,
		CreatedAt:  db.CreatedAt,
	}, nil
}
