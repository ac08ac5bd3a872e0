package models

import (
	"time"
)

type OverrideStatus int

const (
	OverrideStatusUnknown OverrideStatus = iota
	OverrideStatusPending
	OverrideStatusApproved
	OverrideStatusRejected
	OverrideStatusExpired
)

func OverrideStatusFrom(s string) OverrideStatus {
	switch s {
	case "PENDING":
		return OverrideStatusPending
	case "APPROVED":
		return OverrideStatusApproved
	case "REJECTED":
		return OverrideStatusRejected
	case "EXPIRED":
		return OverrideStatusExpired
	}

	return OverrideStatusUnknown
}

func (s OverrideStatus) String() string {
	switch s {
	case OverrideStatusPending:
		return "PENDING"
	case OverrideStatusApproved:
		return "APPROVED"
	case OverrideStatusRejected:
		return "REJECTED"
	case OverrideStatusExpired:
		return "EXPIRED"
	}

	return "UNKNOWN"
}

// ScreeningOverride is an exemption request suppressing the blocking effect
// of a screening result for one entity, for a bounded time. The only mutable
// entity of the core, and only along the one-way state machine
// PENDING -> APPROVED | REJECTED, APPROVED -> EXPIRED.
type ScreeningOverride struct {
	Id            string
	EntityId      string
	EntityType    EntityType
	Reason        string
	Justification string
	RequestedBy   string
	ApprovedBy    *string
	Status        OverrideStatus
	ExpiresAt     *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsExpired reports whether an approved override has passed its expiry.
// Pending and rejected overrides never expire, they are simply inactive.
func (o ScreeningOverride) IsExpired(now time.Time) bool {
	return o.Status == OverrideStatusApproved && o.ExpiresAt != nil && o.ExpiresAt.Before(now)
}

// IsActive reports whether the override currently suppresses blocking.
func (o ScreeningOverride) IsActive(now time.Time) bool {
	return o.Status == OverrideStatusApproved && !o.IsExpired(now)
}

type CreateOverrideInput struct {
	EntityId      string
	EntityType    EntityType
	Reason        string
	Justification string
	RequestedBy   string
	ExpiresAt     *time.Time
}
