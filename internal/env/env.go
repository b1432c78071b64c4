package env

// Overridden at build time with -ldflags "-X github.com/ostafen/rescue/internal/env.Version=...".
var (
	AppName    = "rescue"
	Version    = "dev"
	CommitHash = "unknown"
	BuildTime  = "unknown"
)
