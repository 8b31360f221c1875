package models

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
)

// AddressWidth is the fixed width of the destination field at the front of every decrypted layer.
const AddressWidth = 10

// Address is a relay-facing address: the listening port of a relay or user, zero-padded to AddressWidth digits.
type Address string

// EncodeAddress formats port as a fixed-width address. port must be non-negative.
func EncodeAddress(port int) Address {
	return Address(fmt.Sprintf("%0*d", AddressWidth, port))
}

// ParseAddress checks that s is exactly AddressWidth decimal digits.
func ParseAddress(s string) (Address, error) {
	if len(s) != AddressWidth {
		return "", errors.Wrapf(ErrValidation, "address %q is not %d characters", s, AddressWidth)
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return "", errors.Wrapf(ErrValidation, "address %q is not decimal", s)
		}
	}
	return Address(s), nil
}

// Port returns the numeric port of the address, or -1 if the address is malformed.
func (a Address) Port() int {
	p, err := strconv.Atoi(string(a))
	if err != nil {
		return -1
	}
	return p
}

func (a Address) String() string {
	return string(a)
}
