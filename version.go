package gotlqa

// Version information for gotlqa.
// These values can be overridden at build time using ldflags:
//
//	go build -ldflags "-X github.com/ZaguanLabs/gotlqa.GitCommit=$(git rev-parse HEAD)"
const (
	// Name is the application name.
	Name = "gotlqa"

	// Description is a short description of the application.
	Description = "Translation QA - glossary, similarity, diff and validation checks for translated strings"

	// Version is the semantic version of the application.
	Version = "0.1.0"

	// Repository is the source code repository URL.
	Repository = "https://github.com/ZaguanLabs/gotlqa"
)

// Build information, set via ldflags.
var (
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// FullVersion returns the version with the short commit hash appended when
// known.
func FullVersion() string {
	v := Version
	if GitCommit != "unknown" && GitCommit != "" {
		short := GitCommit
		if len(short) > 7 {
			short = short[:7]
		}
		v += "+" + short
	}
	return v
}
