// ABOUTME: Version constants for the cadence player
// ABOUTME: Identifies the product in logs and provider requests
package version

const (
	// Version is the release version
	Version = "0.1.0"

	// Product is the product name
	Product = "Cadence Speaker"

	// Manufacturer identifies the project
	Manufacturer = "Cadence Audio"
)
