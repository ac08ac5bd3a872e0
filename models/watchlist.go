package models

import (
	"time"
)

// WatchlistRecord is one normalized entry of a sanctions or PEP list, as
// produced by the ingestion process. Reference data: read-only to the core.
type WatchlistRecord struct {
	Id            string
	PrimaryName   string
	Aliases       []string
	EntityType    EntityType
	ListName      string
	DateOfBirth   *time.Time
	Nationalities []string
	SanctionType  string
	Programs      []string
	PepLevel      *int
	Position      string
}

// AllNames returns the primary name followed by every alias, the full set of
// names the record can be matched under.
func (r WatchlistRecord) AllNames() []string {
	names := make([]string, 0, len(r.Aliases)+1)
	names = append(names, r.PrimaryName)
	names = append(names, r.Aliases...)
	return names
}

// IndexedWatchlistRecord is a record together with the phonetic bucket codes
// it must be retrievable under, as computed by the loader for the primary
// name and every alias.
type IndexedWatchlistRecord struct {
	Record WatchlistRecord
	Codes  []string
}

// SameDateOfBirth compares at date precision, ignoring any time component.
func (r WatchlistRecord) SameDateOfBirth(dob *time.Time) bool {
	if r.DateOfBirth == nil || dob == nil {
		return false
	}
	ry, rm, rd := r.DateOfBirth.Date()
	y, m, d := dob.Date()
	return ry == y && rm == m && rd == d
}
