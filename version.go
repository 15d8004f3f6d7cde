package meshrt

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

const (
	// Name of the runtime
	Name = "meshrt"
	// Version of the runtime
	Version = "0.3.0"
)

var version = semver.MustParse(Version)

// SemVer returns the parsed version of the runtime
func SemVer() *semver.Version {
	return version
}

// Require returns an error if the runtime version doesn't satisfy the
// constraint (like ">= 0.2, < 1.0")
func Require(constraint string) error {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("malformed constraint %q: %w", constraint, err)
	}
	if ok, errs := c.Validate(version); ok == false {
		if len(errs) > 0 {
			return fmt.Errorf("%s %s: %w", Name, Version, errs[0])
		}
		return fmt.Errorf("%s %s doesn't satisfy %q", Name, Version, constraint)
	}
	return nil
}
