package tools

import (
	"context"
	"fmt"
)

// SceneInfo returns the current scene's metadata as indented JSON.
func (s *Service) SceneInfo(ctx context.Context) (string, error) {
	result, err := s.editor.SendCommand(ctx, "GET_SCENE_INFO", nil)
	if err != nil {
		return "", err
	}
	return jsonText(result), nil
}

// OpenScene opens a scene file, optionally saving the current one first.
func (s *Service) OpenScene(ctx context.Context, path string, saveCurrent bool) (string, error) {
	result, err := s.editor.SendCommand(ctx, "OPEN_SCENE", map[string]any{
		"scene_path":   scenePath(path),
		"save_current": saveCurrent,
	})
	if err != nil {
		return "", err
	}
	return commandMessage(result, "Scene opened successfully"), nil
}

// SaveScene saves the currently open scene.
func (s *Service) SaveScene(ctx context.Context) (string, error) {
	result, err := s.editor.SendCommand(ctx, "SAVE_SCENE", nil)
	if err != nil {
		return "", err
	}
	return commandMessage(result, "Scene saved successfully"), nil
}

// NewScene creates a new empty scene at path.
func (s *Service) NewScene(ctx context.Context, path string, overwrite bool) (string, error) {
	result, err := s.editor.SendCommand(ctx, "NEW_SCENE", map[string]any{
		"scene_path": scenePath(path),
		"overwrite":  overwrite,
	})
	if err != nil {
		return "", err
	}
	return commandMessage(result, "New scene created successfully"), nil
}

// ObjectSpec describes a node to create: type plus optional name,
// transform, and replacement behavior.
type ObjectSpec struct {
	Type            string
	Name            string
	Location        []float64
	Rotation        []float64
	Scale           []float64
	ReplaceIfExists bool
}

func (o ObjectSpec) params() map[string]any {
	nodeType := o.Type
	if nodeType == "" {
		nodeType = "EMPTY"
	}
	params := map[string]any{
		"type":              nodeType,
		"replace_if_exists": o.ReplaceIfExists,
	}
	if o.Name != "" {
		params["name"] = o.Name
	}
	if len(o.Location) > 0 {
		params["location"] = o.Location
	}
	if len(o.Rotation) > 0 {
		params["rotation"] = o.Rotation
	}
	if len(o.Scale) > 0 {
		params["scale"] = o.Scale
	}
	return params
}

// CreateObject adds a node to the scene root.
func (s *Service) CreateObject(ctx context.Context, spec ObjectSpec) (string, error) {
	result, err := s.editor.SendCommand(ctx, "CREATE_OBJECT", spec.params())
	if err != nil {
		return "", err
	}
	return createdMessage(result, spec, ""), nil
}

// CreateChildObject adds a node under an existing parent.
func (s *Service) CreateChildObject(ctx context.Context, parentName string, spec ObjectSpec) (string, error) {
	params := spec.params()
	params["parent_name"] = parentName
	result, err := s.editor.SendCommand(ctx, "CREATE_CHILD_OBJECT", params)
	if err != nil {
		return "", err
	}
	return createdMessage(result, spec, parentName), nil
}

func createdMessage(result map[string]any, spec ObjectSpec, parentName string) string {
	nodeType := spec.Type
	if t, ok := result["type"].(string); ok && t != "" {
		nodeType = t
	}
	msg := fmt.Sprintf("Created %s object", nodeType)
	if name, ok := result["name"].(string); ok && name != "" {
		msg = fmt.Sprintf("Created %s object: %s", nodeType, name)
	}
	if parentName != "" {
		msg += " as child of " + parentName
	}
	return msg
}

// DeleteObject removes a node from the scene.
func (s *Service) DeleteObject(ctx context.Context, name string) (string, error) {
	result, err := s.editor.SendCommand(ctx, "DELETE_OBJECT", map[string]any{"name": name})
	if err != nil {
		return "", err
	}
	return commandMessage(result, "Object deleted: "+name), nil
}

// FindObjectsByName searches the scene for nodes whose name contains
// the given string.
func (s *Service) FindObjectsByName(ctx context.Context, name string) (string, error) {
	result, err := s.editor.SendCommand(ctx, "FIND_OBJECTS_BY_NAME", map[string]any{"name": name})
	if err != nil {
		return "", err
	}
	objects, _ := result["objects"].([]any)
	if len(objects) == 0 {
		return fmt.Sprintf("No objects found with name containing %q", name), nil
	}
	return jsonText(objects), nil
}

// SetObjectTransform updates position, rotation, and scale on a node.
// Nil slices leave the corresponding component unchanged.
func (s *Service) SetObjectTransform(ctx context.Context, name string, location, rotation, scale []float64) (string, error) {
	params := map[string]any{"name": name}
	if len(location) > 0 {
		params["location"] = location
	}
	if len(rotation) > 0 {
		params["rotation"] = rotation
	}
	if len(scale) > 0 {
		params["scale"] = scale
	}
	result, err := s.editor.SendCommand(ctx, "SET_OBJECT_TRANSFORM", params)
	if err != nil {
		return "", err
	}
	return commandMessage(result, "Transform updated for "+name), nil
}
