// Package version provides build and version information.
package version

import "fmt"

// Version is the current application version.
const Version = "0.3.0"

// Contact is sent to upstream APIs that require an identifying agent.
const Contact = "https://github.com/litescript/nattklar"

// Milestones:
// 0.3.0 - Polar light alerts from the SWPC KP forecast, Telegram notifications
// 0.2.0 - Light pollution raster, constellation ranking, air quality
// 0.1.0 - Initial release: per-night forecast from met.no, TUI and headless modes

// UserAgent returns the User-Agent header for outbound requests.
func UserAgent() string {
	return fmt.Sprintf("nattklar/%s (+%s)", Version, Contact)
}
