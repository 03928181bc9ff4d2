package address

import (
	"fmt"
	"github.com/go-playground/validator/v10"
	"net/netip"
	"strings"
	"wafblock/internal/types"
)

var (
	validate = validator.New(validator.WithRequiredStructEnabled())
)

// Normalize turns an IP literal or CIDR block into the prefix stored in a
// managed list. A bare address becomes a single host: /32 for IPv4 and /128
// for IPv6. Host bits of a CIDR block are cleared.
func Normalize(raw string) (netip.Prefix, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return netip.Prefix{}, invalid(raw, "address is empty")
	}

	if !strings.Contains(value, "/") {
		if err := validate.Var(value, "ip"); err != nil {
			return netip.Prefix{}, invalid(raw, "not an IP address")
		}
		addr, err := netip.ParseAddr(value)
		if err != nil {
			return netip.Prefix{}, invalid(raw, err.Error())
		}
		addr = addr.Unmap()
		return netip.PrefixFrom(addr, addr.BitLen()), nil
	}

	if err := validate.Var(value, "cidr"); err != nil {
		return netip.Prefix{}, invalid(raw, "not a CIDR block")
	}
	prefix, err := netip.ParsePrefix(value)
	if err != nil {
		return netip.Prefix{}, invalid(raw, err.Error())
	}

	if prefix.Addr().Is4In6() {
		if prefix.Bits() < 96 {
			return netip.Prefix{}, invalid(raw, "IPv4-mapped prefix shorter than /96")
		}
		prefix = netip.PrefixFrom(prefix.Addr().Unmap(), prefix.Bits()-96)
	}
	return prefix.Masked(), nil
}

func Family(prefix netip.Prefix) types.AddressVersion {
	if prefix.Addr().Is4() {
		return types.AddressVersionIPv4
	}
	return types.AddressVersionIPv6
}

// Equal reports whether a stored list entry denotes the same block as prefix.
// Entries that do not parse are compared as plain strings.
func Equal(entry string, prefix netip.Prefix) bool {
	stored, err := Normalize(entry)
	if err != nil {
		return strings.TrimSpace(entry) == prefix.String()
	}
	return stored == prefix
}

func invalid(raw, reason string) error {
	return types.NewError("normalize address", types.ErrValidation, fmt.Errorf("%q: %s", raw, reason))
}
