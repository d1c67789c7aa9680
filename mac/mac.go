// Package mac validates and normalizes MAC address strings.
package mac

import (
	"net"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// Address is a validated 6-octet MAC address. Construct with Parse; the
// zero value is not a usable address.
type Address struct {
	hw net.HardwareAddr
}

var bareHex = regexp.MustCompile(`^[0-9a-fA-F]{12}$`)

// Parse validates s as six 2-hex-digit octets separated by colons, dashes
// or nothing, case-insensitive. The canonical form is lower-case and
// colon-separated.
func Parse(s string) (Address, error) {
	in := strings.TrimSpace(s)
	candidate := in
	if bareHex.MatchString(in) {
		var b strings.Builder
		for i := 0; i < len(in); i += 2 {
			if i > 0 {
				b.WriteByte(':')
			}
			b.WriteString(in[i : i+2])
		}
		candidate = b.String()
	} else if strings.Contains(in, ".") {
		// net.ParseMAC takes cisco dotted groups, this tool does not.
		return Address{}, errors.Errorf("invalid MAC address %q", s)
	}
	hw, err := net.ParseMAC(candidate)
	if err != nil {
		return Address{}, errors.Wrapf(err, "invalid MAC address %q", s)
	}
	if len(hw) != 6 {
		return Address{}, errors.Errorf("invalid MAC address %q: want 6 octets, got %d", s, len(hw))
	}
	return Address{hw: hw}, nil
}

// String returns the canonical lower-case colon-separated form.
func (a Address) String() string {
	return a.hw.String()
}
