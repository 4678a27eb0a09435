// Package assets defines the classified-asset record the scanner
// produces and every downstream package (hash engine, graph builder,
// manifest, analyzer) consumes.
package assets

import "strings"

// Classification is the closed enum of asset kinds, derived solely from
// the lowercased file extension.
type Classification string

const (
	Package    Classification = "Package"
	Map        Classification = "Map"
	Export     Classification = "Export"
	Bulk       Classification = "Bulk"
	Shader     Classification = "Shader"
	Texture    Classification = "Texture"
	Audio      Classification = "Audio"
	Animation  Classification = "Animation"
	Blueprint  Classification = "Blueprint"
	Material   Classification = "Material"
	Other      Classification = "Other"
)

// ClassifyExtension maps a file extension (with or without a leading dot,
// any case) to a Classification. Unknown extensions are Other.
//
// Blueprint and Material are part of the closed enum but, matching the
// original implementation, no file extension maps to them directly: a
// compiled blueprint or material is still an ordinary .uasset on disk.
func ClassifyExtension(ext string) Classification {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	switch ext {
	case "uasset":
		return Package
	case "umap":
		return Map
	case "uexp":
		return Export
	case "ubulk":
		return Bulk
	case "ushaderbytecode", "ush":
		return Shader
	case "png", "jpg", "jpeg", "tga", "dds", "exr":
		return Texture
	case "wav", "ogg", "mp3":
		return Audio
	case "uanimation":
		return Animation
	default:
		return Other
	}
}

// hotExtensions is the narrow set the turbo verification path restricts
// itself to: the handful of extensions most worth fingerprinting
// quickly, skipping anything the startup loader doesn't touch.
var hotExtensions = map[string]bool{
	"uasset": true,
	"umap":   true,
	"uexp":   true,
	"ubulk":  true,
	"png":    true,
	"jpg":    true,
	"tga":    true,
}

// IsHotExtension reports whether ext (no leading dot, any case) is one of
// the hot-asset extensions used by the turbo scan path.
func IsHotExtension(ext string) bool {
	return hotExtensions[strings.ToLower(strings.TrimPrefix(ext, "."))]
}

// Info is a single scanned asset record.
type Info struct {
	AbsPath        string
	RelPath        string // forward-slash, project-relative
	Classification Classification
	Size           int64
	ModifiedUnix   int64 // whole seconds since epoch
}

// IsPackage reports whether this asset is a binary package file eligible
// for import-table parsing.
func (i Info) IsPackage() bool {
	return i.Classification == Package
}
