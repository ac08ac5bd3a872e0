package models

import (
	"time"
)

// ScreeningWhitelistEntry marks an entity as a known false positive:
// matching results are still computed and audited, but never block.
// Unlike overrides, whitelist entries have no approval workflow and no
// expiry; removing the entry is the only way out.
type ScreeningWhitelistEntry struct {
	Id         string
	EntityId   string
	EntityType EntityType
	EntityName string
	AddedBy    string
	CreatedAt  time.Time
}
