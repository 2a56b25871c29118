package models

import (
	"fmt"
	"regexp"
)

// ISO 3166-1 code shapes.
var (
	alpha2Pattern  = regexp.MustCompile(`^[A-Z]{2}$`)
	alpha3Pattern  = regexp.MustCompile(`^[A-Z]{3}$`)
	numericPattern = regexp.MustCompile(`^[0-9]{3}$`)
)

// Country represents one row of the top-level country code table
type Country struct {
	Name    string `json:"name"`
	Alpha2  string `json:"alpha2"`
	Alpha3  string `json:"alpha3"`
	Numeric string `json:"numeric"` // kept a string to preserve leading zeros ("020")

	Subdivisions []Subdivision `json:"subdivisions"`
}

// Subdivision represents one row of a country's subdivision table
type Subdivision struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// ValidateCodes checks that the country's code fields have the ISO 3166-1
// shape: two letters, three letters, three digits. It returns an error
// naming the first offending field; callers drop such records instead of
// correcting them.
func (c Country) ValidateCodes() error {
	if !alpha2Pattern.MatchString(c.Alpha2) {
		return fmt.Errorf("alpha-2 code %q is not two uppercase letters", c.Alpha2)
	}
	if !alpha3Pattern.MatchString(c.Alpha3) {
		return fmt.Errorf("alpha-3 code %q is not three uppercase letters", c.Alpha3)
	}
	if !numericPattern.MatchString(c.Numeric) {
		return fmt.Errorf("numeric code %q is not three digits", c.Numeric)
	}
	return nil
}
