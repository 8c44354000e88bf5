package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// CheckReportCompatibility checks if a previously exported report can be
// loaded by the current build. Returns nil if compatible, error with details
// if not.
//
// Compatibility Rules:
//   - If either version is "main" (development build), compatibility check is skipped
//   - Major versions must match exactly
//   - Minor versions must match exactly
//   - Patch versions can differ (e.g., 1.2.0 is compatible with 1.2.5)
func CheckReportCompatibility(currentVersion, reportVersion string) error {
	// Strip 'v' prefix if present for consistency
	currentVersion = strings.TrimPrefix(currentVersion, "v")
	reportVersion = strings.TrimPrefix(reportVersion, "v")

	// Skip version check for "main" (development builds)
	if currentVersion == "main" || reportVersion == "main" {
		return nil
	}

	currentSemver, err := semver.NewVersion(currentVersion)
	if err != nil {
		return fmt.Errorf("invalid current version '%s': %w", currentVersion, err)
	}

	reportSemver, err := semver.NewVersion(reportVersion)
	if err != nil {
		return fmt.Errorf("invalid report version '%s': %w", reportVersion, err)
	}

	if currentSemver.Major() != reportSemver.Major() {
		return fmt.Errorf("major version mismatch: current is %d.x.x but report was written by %d.x.x",
			currentSemver.Major(), reportSemver.Major())
	}

	if currentSemver.Minor() != reportSemver.Minor() {
		return fmt.Errorf("minor version mismatch: current is %d.%d.x but report was written by %d.%d.x",
			currentSemver.Major(), currentSemver.Minor(),
			reportSemver.Major(), reportSemver.Minor())
	}

	// Patch versions can differ, so we're compatible
	return nil
}
