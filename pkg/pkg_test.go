package pkg

import (
	"regexp"
	"testing"
)

func TestName(t *testing.T) {
	if Name != "plate" {
		t.Errorf("Expected Name to be %q, got %q", "plate", Name)
	}
}

func TestVersion(t *testing.T) {
	semver := regexp.MustCompile(`^\d+\.\d+\.\d+(-[0-9A-Za-z.-]+)?$`)
	if !semver.MatchString(Version()) {
		t.Errorf("Version %q is not a semantic version", Version())
	}
}
