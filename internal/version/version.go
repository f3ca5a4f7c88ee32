// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - HTTP chart service, msgpack export, config file watching
// 0.2.0 - JPL Horizons provider with local fallback, terminal chart view
// 0.1.0 - Initial release: Placidus wheel, dignities, aspects, SVG output
