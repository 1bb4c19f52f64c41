package usecases

import "strings"

// Recognized filter values (compared case-insensitively).
const (
	StatusWorking       = "working"
	StatusNotWorking    = "not working"
	OwnershipGovernment = "government"
	OwnershipPrivate    = "private"
)

// rankedStatus is the exact status value that wins distance ties.
const rankedStatus = "Working"

// Keyword table for the free-text status and ownership fields. Matching is a
// case-insensitive substring test against the lower-cased field.
var (
	workingKeywords    = []string{"working", "yes", "-do-", "active"}
	notWorkingPhrase   = "not working"
	governmentKeywords = []string{"govt.", "govt", "government"}
)

// IsWorking reports whether a status text reads as an operational camera.
func IsWorking(status string) bool {
	s := strings.ToLower(status)
	return containsAny(s, workingKeywords) && !strings.Contains(s, notWorkingPhrase)
}

// IsGovernment reports whether an ownership text names a government owner.
func IsGovernment(ownership string) bool {
	return containsAny(strings.ToLower(ownership), governmentKeywords)
}

// MatchesStatus applies a status filter. Empty or unrecognized filters match everything.
func MatchesStatus(status, filter string) bool {
	switch strings.ToLower(filter) {
	case StatusWorking:
		return IsWorking(status)
	case StatusNotWorking:
		return !IsWorking(status)
	default:
		return true
	}
}

// MatchesOwnership applies an ownership filter. Empty or unrecognized filters match everything.
func MatchesOwnership(ownership, filter string) bool {
	switch strings.ToLower(filter) {
	case OwnershipGovernment:
		return IsGovernment(ownership)
	case OwnershipPrivate:
		return !IsGovernment(ownership)
	default:
		return true
	}
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
