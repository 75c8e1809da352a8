package version

// Version is the version of the amocrm CLI. It is overridden at build time
// with -ldflags "-X github.com/hashicorp-forge/amocrm/internal/version.Version=...".
var Version = "0.1.0"
