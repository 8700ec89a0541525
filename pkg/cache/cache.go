// Package cache provides pluggable byte caches and deterministic key
// generation for the scan, layout, and render pipeline stages.
package cache

import (
	"context"
	"time"
)

// Stage TTLs. Scans go stale quickly because the filesystem moves under
// us; layouts and rendered artifacts are pure functions of their inputs
// and can live much longer.
const (
	TTLScan     = 5 * time.Minute
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key-value store with per-entry expiry.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero or less means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// LayoutKeyOpts captures every input that changes layout output.
// Two layouts with equal tree hashes and equal opts are identical.
type LayoutKeyOpts struct {
	YScale         float64 `json:"y_scale"`
	ViewportHeight float64 `json:"viewport_height"`
	Padding        float64 `json:"padding"`
	Labels         bool    `json:"labels"`
	TextSize       float64 `json:"text_size"`
}

// ArtifactKeyOpts captures every input that changes rendered output for a
// fixed layout.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Labels bool   `json:"labels"`
}

// Keyer generates cache keys for the pipeline stages.
type Keyer interface {
	// ScanKey identifies a scan of the given root path.
	ScanKey(root string) string

	// LayoutKey identifies a layout of the tree with the given content
	// hash under the given options.
	LayoutKey(treeHash string, opts LayoutKeyOpts) string

	// ArtifactKey identifies a rendered artifact of the layout with the
	// given content hash under the given options.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer generates keys of the form "stage:sha256(inputs)".
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// ScanKey generates a key for scan result caching.
func (k *DefaultKeyer) ScanKey(root string) string {
	return hashKey("scan", root)
}

// LayoutKey generates a key for layout caching.
func (k *DefaultKeyer) LayoutKey(treeHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", treeHash, opts)
}

// ArtifactKey generates a key for rendered artifact caching.
func (k *DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
