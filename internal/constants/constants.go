package constants

import "time"

// Session / context keys
const (
	ContextKeyUserID  = "user_id"
	SessionCookieName = "governance_session"
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// VotingWindow is how long a proposal stays open for voting after creation.
const VotingWindow = 7 * 24 * time.Hour

// MinPasswordLength is the minimum accepted password length at signup.
const MinPasswordLength = 8

// MaxAIDraftedProposals caps how many drafts a single AI call may return.
const MaxAIDraftedProposals = 10
