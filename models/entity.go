package models

import (
	"time"
)

type EntityType int

const (
	EntityTypeUnknown EntityType = iota
	EntityTypePerson
	EntityTypeOrganization
	EntityTypeVessel
)

func EntityTypeFrom(s string) EntityType {
	switch s {
	case "PERSON":
		return EntityTypePerson
	case "ORGANIZATION":
		return EntityTypeOrganization
	case "VESSEL":
		return EntityTypeVessel
	}

	return EntityTypeUnknown
}

func (t EntityType) String() string {
	switch t {
	case EntityTypePerson:
		return "PERSON"
	case EntityTypeOrganization:
		return "ORGANIZATION"
	case EntityTypeVessel:
		return "VESSEL"
	}

	return "UNKNOWN"
}

// Matches reports whether a watchlist record of type other is a plausible
// candidate for an entity of type t. Unknown on either side never filters.
func (t EntityType) Matches(other EntityType) bool {
	if t == EntityTypeUnknown || other == EntityTypeUnknown {
		return true
	}
	return t == other
}

// ScreeningEntity is the screening subject: a merchant, a beneficial owner,
// or any other party the caller wants checked. The core never loads entity
// records itself, it only receives this value object.
type ScreeningEntity struct {
	Id          string
	Type        EntityType
	Name        string
	Aliases     []string
	DateOfBirth *time.Time
	CreatedAt   time.Time
}

// IsNew reports whether the entity was onboarded within the recency window,
// which routes it to the comprehensive tier-1 provider.
func (e ScreeningEntity) IsNew(now time.Time, window time.Duration) bool {
	if e.CreatedAt.IsZero() {
		return false
	}
	return now.Sub(e.CreatedAt) <= window
}
