// Package manifest persists the result of a project scan — every
// classified asset, its content fingerprint, its load-order rank, and
// its startup-critical flag — as a single magic-tagged, gob-encoded
// file, and verifies a project against a previously saved one.
package manifest

import (
	"time"

	"github.com/standardbeagle/ue5faststartup/internal/assets"
	"github.com/standardbeagle/ue5faststartup/internal/hashengine"
)

// Magic is the fixed 8-byte file-format tag written before the gob payload.
const Magic = "UEFAST01"

// FormatVersion is recorded in every manifest built by Build. Load does
// not check it.
const FormatVersion = "1"

// CachedAsset is one asset's persisted record.
type CachedAsset struct {
	RelPath           string
	Classification    assets.Classification
	Fingerprint       hashengine.Fingerprint
	Size              int64
	LoadOrder         int32
	IsStartupCritical bool
}

// Manifest is the full persisted cache.
type Manifest struct {
	Version        string
	CreatedAt      time.Time
	ProjectName    string
	Algorithm      string
	Assets         []CachedAsset
	LoadOrder      []string // relative paths, in topological order
	ShaderVariants []string
}

// AssetCount returns len(m.Assets).
func (m *Manifest) AssetCount() int { return len(m.Assets) }

// ByPath returns the asset record for rel, if present.
func (m *Manifest) ByPath(rel string) (CachedAsset, bool) {
	for _, a := range m.Assets {
		if a.RelPath == rel {
			return a, true
		}
	}
	return CachedAsset{}, false
}
