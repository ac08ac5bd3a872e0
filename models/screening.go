package models

import (
	"slices"
	"time"
)

type ScreeningStatus int

const (
	ScreeningStatusUnknown ScreeningStatus = iota
	ScreeningStatusClear
	ScreeningStatusPotentialMatch
	ScreeningStatusMatch
)

func ScreeningStatusFrom(s string) ScreeningStatus {
	switch s {
	case "CLEAR":
		return ScreeningStatusClear
	case "POTENTIAL_MATCH":
		return ScreeningStatusPotentialMatch
	case "MATCH":
		return ScreeningStatusMatch
	}

	return ScreeningStatusUnknown
}

func (s ScreeningStatus) String() string {
	switch s {
	case ScreeningStatusClear:
		return "CLEAR"
	case ScreeningStatusPotentialMatch:
		return "POTENTIAL_MATCH"
	case ScreeningStatusMatch:
		return "MATCH"
	}

	return "UNKNOWN"
}

// IsBlocking reports whether the status should block onboarding or open a
// compliance case, before overrides are applied.
func (s ScreeningStatus) IsBlocking() bool {
	return s == ScreeningStatusMatch || s == ScreeningStatusPotentialMatch
}

type MatchType int

const (
	MatchTypeName MatchType = iota
	MatchTypeAlias
	MatchTypePhonetic
	MatchTypeDobConfirmed
)

func MatchTypeFrom(s string) MatchType {
	switch s {
	case "NAME":
		return MatchTypeName
	case "ALIAS":
		return MatchTypeAlias
	case "DOB_CONFIRMED":
		return MatchTypeDobConfirmed
	}

	return MatchTypePhonetic
}

func (t MatchType) String() string {
	switch t {
	case MatchTypeName:
		return "NAME"
	case MatchTypeAlias:
		return "ALIAS"
	case MatchTypeDobConfirmed:
		return "DOB_CONFIRMED"
	}

	return "PHONETIC"
}

type ScreeningProvider int

const (
	ScreeningProviderLocal ScreeningProvider = iota
	ScreeningProviderLocalFallback
	ScreeningProviderTier1
)

func ScreeningProviderFrom(s string) ScreeningProvider {
	switch s {
	case "LOCAL_FALLBACK":
		return ScreeningProviderLocalFallback
	case "TIER1":
		return ScreeningProviderTier1
	}

	return ScreeningProviderLocal
}

func (p ScreeningProvider) String() string {
	switch p {
	case ScreeningProviderLocalFallback:
		return "LOCAL_FALLBACK"
	case ScreeningProviderTier1:
		return "TIER1"
	}

	return "LOCAL"
}

// Match is one scored watchlist hit. Immutable once created; the metadata
// fields are carried over from the WatchlistRecord for audit.
type Match struct {
	MatchedName   string
	Score         float64
	ListName      string
	EntityType    EntityType
	MatchType     MatchType
	RecordId      string
	DateOfBirth   *time.Time
	Nationalities []string
	SanctionType  string
	Programs      []string
	PepLevel      *int
	Position      string
}

func (m Match) IsPep() bool {
	return m.PepLevel != nil || m.ListName == "PEP"
}

type ScreeningResult struct {
	ScreenedName string
	EntityType   EntityType
	Status       ScreeningStatus
	Matches      []Match
	HighestScore float64
	ScreenedAt   time.Time
	// Provider is the tier that computed the result; it survives cache
	// round-trips. FromCache marks a result served from the cache instead of
	// freshly computed.
	Provider    ScreeningProvider
	FromCache   bool
	Overridden  bool
	Whitelisted bool
}

// StatusFromMatches classifies a set of scored matches: CLEAR iff there is
// none, MATCH iff the best score reaches the match threshold, otherwise
// POTENTIAL_MATCH.
func StatusFromMatches(matches []Match, matchThreshold float64) ScreeningStatus {
	if len(matches) == 0 {
		return ScreeningStatusClear
	}
	for _, m := range matches {
		if m.Score >= matchThreshold {
			return ScreeningStatusMatch
		}
	}
	return ScreeningStatusPotentialMatch
}

// NewScreeningResult builds a result from scored matches, ordering them by
// descending score and enforcing the status/matches invariant.
func NewScreeningResult(name string, entityType EntityType, matches []Match,
	matchThreshold float64, provider ScreeningProvider, screenedAt time.Time,
) ScreeningResult {
	slices.SortStableFunc(matches, func(a, b Match) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		return 0
	})

	highest := 0.0
	if len(matches) > 0 {
		highest = matches[0].Score
	}

	return ScreeningResult{
		ScreenedName: name,
		EntityType:   entityType,
		Status:       StatusFromMatches(matches, matchThreshold),
		Matches:      matches,
		HighestScore: highest,
		ScreenedAt:   screenedAt,
		Provider:     provider,
	}
}

// ListNames returns the distinct list names across all matches, for the case
// trigger payload.
func (r ScreeningResult) ListNames() []string {
	names := make([]string, 0, len(r.Matches))
	for _, m := range r.Matches {
		if m.ListName != "" && !slices.Contains(names, m.ListName) {
			names = append(names, m.ListName)
		}
	}
	return names
}

// RequiresCase reports whether this result must open a compliance case:
// blocking status, not suppressed by an override or whitelist entry.
func (r ScreeningResult) RequiresCase() bool {
	return r.Status.IsBlocking() && !r.Overridden && !r.Whitelisted
}
