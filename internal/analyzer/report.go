package analyzer

import (
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/standardbeagle/ue5faststartup/internal/uerrors"
)

// jsonReport is the wire shape written by RenderJSON; Report itself
// keeps Go-idiomatic field names and a map keyed by Classification,
// neither of which round-trip cleanly through JSON schema validation, so
// the two are kept separate rather than tagging Report directly.
type jsonReport struct {
	TotalAssets            int                  `json:"total_assets"`
	PerType                map[string]TypeStats `json:"per_type"`
	DuplicateGroupCount    int                  `json:"duplicate_group_count"`
	NearDuplicateNameCount int                  `json:"near_duplicate_name_count"`
	ShaderCount            int                  `json:"shader_count"`
	ShaderTotalSize        int64                `json:"shader_total_size"`
	SavingsEstimateSeconds float64              `json:"savings_estimate_seconds"`
	Recommendations        []Recommendation     `json:"recommendations"`
}

// reportSchema describes jsonReport's required shape. It exists to
// catch accidental field drift between Report and what gets written to
// disk, not to validate caller-supplied input.
var reportSchema = &jsonschema.Schema{
	Type: "object",
	Properties: map[string]*jsonschema.Schema{
		"total_assets":              {Type: "integer"},
		"per_type":                  {Type: "object"},
		"duplicate_group_count":     {Type: "integer"},
		"near_duplicate_name_count": {Type: "integer"},
		"shader_count":              {Type: "integer"},
		"shader_total_size":         {Type: "integer"},
		"savings_estimate_seconds":  {Type: "number"},
		"recommendations":           {Type: "array"},
	},
	Required: []string{
		"total_assets", "per_type", "duplicate_group_count",
		"shader_count", "savings_estimate_seconds", "recommendations",
	},
}

// RenderJSON marshals r to pretty-printed JSON, validating the result
// against reportSchema first so a future field rename or removal fails
// loudly instead of silently shipping a malformed report.
func RenderJSON(r Report) ([]byte, error) {
	doc := jsonReport{
		TotalAssets:            r.TotalAssets,
		PerType:                make(map[string]TypeStats, len(r.PerType)),
		DuplicateGroupCount:    len(r.DuplicateGroups),
		NearDuplicateNameCount: len(r.NearDuplicateNames),
		ShaderCount:            r.ShaderCount,
		ShaderTotalSize:        r.ShaderTotalSize,
		SavingsEstimateSeconds: r.SavingsEstimateSeconds,
		Recommendations:        r.Recommendations,
	}
	for class, stats := range r.PerType {
		doc.PerType[string(class)] = stats
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, uerrors.New(uerrors.SerializationErr, "RenderJSON", "", err)
	}

	var asMap map[string]interface{}
	if err := json.Unmarshal(raw, &asMap); err != nil {
		return nil, uerrors.New(uerrors.SerializationErr, "RenderJSON", "", err)
	}

	resolved, err := reportSchema.Resolve(nil)
	if err != nil {
		return nil, uerrors.New(uerrors.SerializationErr, "RenderJSON", "", err)
	}
	if err := resolved.Validate(asMap); err != nil {
		return nil, uerrors.New(uerrors.SerializationErr, "RenderJSON", "", err)
	}

	return json.MarshalIndent(doc, "", "  ")
}
