package tools

import (
	"context"
	"fmt"
	"strings"
)

// SetMaterial applies or creates a material on an object. color is
// [r,g,b] or [r,g,b,a] with components in 0..1.
func (s *Service) SetMaterial(ctx context.Context, objectName, materialName string, color []float64, createIfMissing bool) (string, error) {
	params := map[string]any{
		"object_name":       objectName,
		"create_if_missing": createIfMissing,
	}
	if materialName != "" {
		params["material_name"] = materialName
	}
	if color != nil {
		if len(color) < 3 || len(color) > 4 {
			return "Color must be [r, g, b] or [r, g, b, a]", nil
		}
		for _, v := range color {
			if v < 0 || v > 1 {
				return "Color values must be in range 0.0-1.0", nil
			}
		}
		params["color"] = color
	}
	result, err := s.editor.SendCommand(ctx, "SET_MATERIAL", params)
	if err != nil {
		return "", err
	}
	return commandMessage(result, "Material applied successfully"), nil
}

// ListMaterials lists material assets under a folder.
func (s *Service) ListMaterials(ctx context.Context, folder string) (string, error) {
	if folder == "" {
		folder = "res://materials"
	}
	result, err := s.editor.SendCommand(ctx, "GET_ASSET_LIST", map[string]any{
		"type":   "material",
		"folder": folder,
	})
	if err != nil {
		return "", err
	}
	materials, _ := result["assets"].([]any)
	if len(materials) == 0 {
		return "No materials found in " + folder, nil
	}
	var b strings.Builder
	b.WriteString("Available materials:\n")
	for _, m := range materials {
		entry, ok := m.(map[string]any)
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "- %v (%v)\n", entry["name"], entry["path"])
	}
	return strings.TrimRight(b.String(), "\n"), nil
}
