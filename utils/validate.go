package utils

import (
	"regexp"
)

var addressRegexp = regexp.MustCompile("^0x[0-9a-fA-F]{40}$")

func IsValidAddress(v string) bool {
	return addressRegexp.MatchString(v)
}
