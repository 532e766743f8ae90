package tools

import (
	"context"
	"fmt"
	"strings"
)

// AssetList lists project assets, optionally filtered by type and a
// name pattern.
func (s *Service) AssetList(ctx context.Context, assetType, searchPattern, folder string) (string, error) {
	if searchPattern == "" {
		searchPattern = "*"
	}
	if folder == "" {
		folder = "res://"
	}
	if !strings.HasPrefix(folder, "res://") {
		folder = "res://" + folder
	}
	params := map[string]any{
		"search_pattern": searchPattern,
		"folder":         folder,
	}
	if assetType != "" {
		params["type"] = assetType
	}
	result, err := s.editor.SendCommand(ctx, "GET_ASSET_LIST", params)
	if err != nil {
		return "", err
	}
	assets, _ := result["assets"].([]any)
	if len(assets) == 0 {
		if assetType != "" {
			return fmt.Sprintf("No %s assets found in %s matching %q", assetType, folder, searchPattern), nil
		}
		return fmt.Sprintf("No assets found in %s matching %q", folder, searchPattern), nil
	}
	return jsonText(assets), nil
}

// ImportAsset copies an external file into the project.
func (s *Service) ImportAsset(ctx context.Context, sourcePath, targetPath string, overwrite bool) (string, error) {
	result, err := s.editor.SendCommand(ctx, "IMPORT_ASSET", map[string]any{
		"source_path": sourcePath,
		"target_path": resPath(targetPath, ""),
		"overwrite":   overwrite,
	})
	if err != nil {
		return "", err
	}
	return commandMessage(result, "Asset imported successfully"), nil
}

// CreatePrefab saves a scene node as a packed scene file.
func (s *Service) CreatePrefab(ctx context.Context, objectName, prefabPath string, overwrite bool) (string, error) {
	path := prefabPath
	if !strings.HasPrefix(path, "res://") {
		path = "res://" + path
	}
	if !strings.HasSuffix(path, ".tscn") {
		path += ".tscn"
	}
	result, err := s.editor.SendCommand(ctx, "CREATE_PREFAB", map[string]any{
		"object_name": objectName,
		"prefab_path": path,
		"overwrite":   overwrite,
	})
	if err != nil {
		return "", err
	}
	if saved, ok := result["path"].(string); ok && saved != "" {
		path = saved
	}
	return "Packed scene created successfully at " + path, nil
}

// InstantiatePrefab adds an instance of a packed scene to the current
// scene at the given position and rotation.
func (s *Service) InstantiatePrefab(ctx context.Context, prefabPath string, position, rotation [3]float64) (string, error) {
	result, err := s.editor.SendCommand(ctx, "INSTANTIATE_PREFAB", map[string]any{
		"prefab_path": scenePath(prefabPath),
		"position_x":  position[0],
		"position_y":  position[1],
		"position_z":  position[2],
		"rotation_x":  rotation[0],
		"rotation_y":  rotation[1],
		"rotation_z":  rotation[2],
	})
	if err != nil {
		return "", err
	}
	name, _ := result["instance_name"].(string)
	if name == "" {
		name = "unknown"
	}
	return "Packed scene instantiated as " + name, nil
}
