package models

import (
	"time"
)

type CaseStatus int

const (
	CaseStatusOpen CaseStatus = iota
	CaseStatusClosed
)

func CaseStatusFrom(s string) CaseStatus {
	if s == "CLOSED" {
		return CaseStatusClosed
	}
	return CaseStatusOpen
}

func (s CaseStatus) String() string {
	if s == CaseStatusClosed {
		return "CLOSED"
	}
	return "OPEN"
}

// ScreeningCase is a compliance review case opened for a blocking screening
// result. The review workflow itself happens elsewhere; the core only opens
// cases and lets reviewers close them.
type ScreeningCase struct {
	Id           string
	EntityId     string
	EntityName   string
	EntityType   EntityType
	Status       CaseStatus
	HighestScore float64
	ListNames    []string
	CreatedAt    time.Time
	ClosedAt     *time.Time
}

// ScreeningAuditEvent is the immutable trace of one screening decision,
// written for every computed result whatever its status.
type ScreeningAuditEvent struct {
	Id           string
	EntityId     string
	EntityType   EntityType
	ScreenedName string
	Status       ScreeningStatus
	Provider     ScreeningProvider
	HighestScore float64
	MatchCount   int
	Overridden   bool
	Whitelisted  bool
	CreatedAt    time.Time
}
