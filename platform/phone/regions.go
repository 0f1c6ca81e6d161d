package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// NormalizeRegion trims and upper-cases an ISO 3166-1 alpha-2 code.
func NormalizeRegion(region string) string {
	return strings.ToUpper(strings.TrimSpace(region))
}

// IsSupportedRegion reports whether the numbering plan has metadata for region.
func IsSupportedRegion(region string) bool {
	region = NormalizeRegion(region)
	if len(region) != 2 {
		return false
	}
	return phonenumbers.GetCountryCodeForRegion(region) != 0
}
