package endpoint

import (
	"fmt"
	"wafblock/internal/types"
)

const (
	// GlobalControlRegion is the only region that serves CloudFront-scoped lists.
	GlobalControlRegion = "us-east-1"
	DefaultRegion       = "us-east-1"
)

type (
	// Policy maps a list scope to the region whose control plane owns it.
	Policy interface {
		Resolve(scope types.Scope, hint string) (string, error)
	}
)

type policy struct {
	forced        map[types.Scope]string
	defaultRegion string
}

// NewPolicy returns a Policy where scopes present in forced always resolve to
// their table entry, whatever the caller asked for.
func NewPolicy(forced map[types.Scope]string, defaultRegion string) Policy {
	table := make(map[types.Scope]string, len(forced))
	for scope, region := range forced {
		table[scope] = region
	}
	return &policy{
		forced:        table,
		defaultRegion: defaultRegion,
	}
}

// NewAWSPolicy is the table for AWS WAFv2.
func NewAWSPolicy(defaultRegion string) Policy {
	if defaultRegion == "" {
		defaultRegion = DefaultRegion
	}
	return NewPolicy(map[types.Scope]string{
		types.ScopeCloudFront: GlobalControlRegion,
	}, defaultRegion)
}

func (p *policy) Resolve(scope types.Scope, hint string) (string, error) {
	if region, ok := p.forced[scope]; ok {
		return region, nil
	}
	if hint != "" {
		return hint, nil
	}
	if p.defaultRegion != "" {
		return p.defaultRegion, nil
	}
	return "", types.NewError("resolve region", types.ErrValidation, fmt.Errorf("no region for scope %s", scope))
}
