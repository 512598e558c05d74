// internal/version/version.go
package version

// Version is the seqqc release string. Override at build time with
// -ldflags "-X seqqc/internal/version.Version=...".
var Version = "0.3.0"
