package httpmodels

import (
	"time"

	"github.com/clearwatch/screening-backend/models"
	"github.com/clearwatch/screening-backend/pure_utils"
)

type HTTPTier1ScreeningRequest struct {
	EntityId    string   `json:"entity_id"`
	EntityType  string   `json:"entity_type"`
	Name        string   `json:"name"`
	Aliases     []string `json:"aliases,omitempty"`
	DateOfBirth *string  `json:"date_of_birth,omitempty"`
}

func AdaptTier1ScreeningRequest(entity models.ScreeningEntity) HTTPTier1ScreeningRequest {
	req := HTTPTier1ScreeningRequest{
		EntityId:   entity.Id,
		EntityType: entity.Type.String(),
		Name:       entity.Name,
		Aliases:    entity.Aliases,
	}
	if entity.DateOfBirth != nil {
		dob := entity.DateOfBirth.Format(time.DateOnly)
		req.DateOfBirth = &dob
	}
	return req
}

type HTTPTier1Match struct {
	MatchedName   string   `json:"matched_name"`
	Score         float64  `json:"score"`
	ListName      string   `json:"list_name"`
	EntityType    string   `json:"entity_type"`
	MatchType     string   `json:"match_type"`
	EntityRef     string   `json:"entity_ref"`
	DateOfBirth   *string  `json:"date_of_birth,omitempty"`
	Nationalities []string `json:"nationalities,omitempty"`
	SanctionType  string   `json:"sanction_type,omitempty"`
	Programs      []string `json:"programs,omitempty"`
	PepLevel      *int     `json:"pep_level,omitempty"`
	Position      string   `json:"position,omitempty"`
}

type HTTPTier1ScreeningResponse struct {
	Matches []HTTPTier1Match `json:"matches"`
}

func AdaptTier1Match(m HTTPTier1Match) models.Match {
	match := models.Match{
		MatchedName:   m.MatchedName,
		Score:         m.Score,
		ListName:      m.ListName,
		EntityType:    models.EntityTypeFrom(m.EntityType),
		MatchType:     models.MatchTypeFrom(m.MatchType),
		RecordId:      m.EntityRef,
		Nationalities: m.Nationalities,
		SanctionType:  m.SanctionType,
		Programs:      m.Programs,
		PepLevel:      m.PepLevel,
		Position:      m.Position,
	}
	if m.DateOfBirth != nil {
		if dob, err := time.Parse(time.DateOnly, *m.DateOfBirth); err == nil {
			match.DateOfBirth = &dob
		}
	}
	return match
}

func AdaptTier1Matches(resp HTTPTier1ScreeningResponse) []models.Match {
	return pure_utils.Map(resp.Matches, AdaptTier1Match)
}
