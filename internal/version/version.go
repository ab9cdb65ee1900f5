package version

// Build information set by ldflags
var (
	Version = "1.0.0"   // -X github.com/arthur-debert/commander/internal/version.Version={{.Version}}
	Commit  = "unknown" // -X github.com/arthur-debert/commander/internal/version.Commit={{.Commit}}
	Date    = "unknown" // -X github.com/arthur-debert/commander/internal/version.Date={{.Date}}
)

// Full returns the version with build metadata when it is known
func Full() string {
	if Commit == "unknown" {
		return Version
	}
	return Version + " (" + Commit + ", " + Date + ")"
}
