package dbmodels

import (
	"time"

	"github.com/clearwatch/screening-backend/models"
	"github.com/clearwatch/screening-backend/utils"
)

const TABLE_SCREENING_CASES = "screening_cases"

var SelectScreeningCaseColumn = utils.ColumnList[DBScreeningCase]()

type DBScreeningCase struct {
	Id           string     `db:"id"`
	EntityId     string     `db:"entity_id"`
	EntityName   string     `db:"entity_name"`
	EntityType   string     `db:"entity_type"`
	Status       string     `db:"status"`
	HighestScore float64    `db:"highest_score"`
	ListNames    []string   `db:"list_names"`
	CreatedAt    time.Time  `db:"created_at"`
	ClosedAt     *time.Time `db:"closed_at"`
}

func AdaptScreeningCase(db DBScreeningCase) (models.ScreeningCase, error) {
	return models.ScreeningCase{
		Id:           db.Id,
		EntityId:     db.EntityId,
		EntityName:   db.EntityName,
		EntityType:   models.EntityTypeFrom(db.EntityType),
		Status:       models.CaseStatusFrom(db.Status),
		HighestScore: db.HighestScore,
		ListNames:    db.ListNames,
		CreatedAt:    db.CreatedAt,
		ClosedAt:     db.ClosedAt,
	}, nil
}
