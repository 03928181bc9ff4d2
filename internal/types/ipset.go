package types

import (
	"fmt"
	"strings"
)

type Scope string

const (
	ScopeRegional   Scope = "REGIONAL"
	ScopeCloudFront Scope = "CLOUDFRONT"
)

// ParseScope accepts the scope names in any case.
func ParseScope(value string) (Scope, error) {
	switch s := Scope(strings.ToUpper(strings.TrimSpace(value))); s {
	case ScopeRegional, ScopeCloudFront:
		return s, nil
	default:
		return "", NewError("parse scope", ErrValidation, fmt.Errorf("unknown scope %q: must be REGIONAL or CLOUDFRONT", value))
	}
}

func (s Scope) String() string {
	return string(s)
}

type AddressVersion string

const (
	AddressVersionIPv4 AddressVersion = "IPV4"
	AddressVersionIPv6 AddressVersion = "IPV6"
)

type Outcome string

const (
	OutcomeBlocked        Outcome = "blocked"
	OutcomeAlreadyBlocked Outcome = "already_blocked"
	OutcomeWouldBlock     Outcome = "would_block"
)

type (
	// ListKey identifies a managed IP list held by the firewall service.
	ListKey struct {
		Name  string `validate:"required"`
		ID    string `validate:"required"`
		Scope Scope  `validate:"required,oneof=REGIONAL CLOUDFRONT"`
	}

	// ManagedList is a snapshot of a remote list together with the lock token
	// that must accompany the next write.
	ManagedList struct {
		Key            ListKey
		ARN            string
		Description    string
		AddressVersion AddressVersion
		Addresses      []string
		LockToken      string
	}

	Result struct {
		Outcome  Outcome
		Address  string
		Region   string
		Attempts int
	}
)

func (k ListKey) String() string {
	return fmt.Sprintf("%s/%s (%s)", k.Name, k.ID, k.Scope)
}
