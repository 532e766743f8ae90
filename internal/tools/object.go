package tools

import (
	"context"
	"fmt"
	"strings"
)

// ObjectProperties returns a node's properties as indented JSON.
func (s *Service) ObjectProperties(ctx context.Context, name string) (string, error) {
	result, err := s.editor.SendCommand(ctx, "GET_OBJECT_PROPERTIES", map[string]any{"name": name})
	if err != nil {
		return "", err
	}
	return jsonText(result), nil
}

// Hierarchy renders the scene tree as an indented text outline. When
// the editor reports no hierarchy it falls back to the root node list.
func (s *Service) Hierarchy(ctx context.Context) (string, error) {
	info, err := s.editor.SendCommand(ctx, "GET_SCENE_INFO", nil)
	if err != nil {
		return "", err
	}
	sceneName, _ := info["name"].(string)
	path, _ := info["path"].(string)
	if hierarchy, ok := info["hierarchy"].(map[string]any); ok {
		var b strings.Builder
		fmt.Fprintf(&b, "Scene: %s (%s)\n\n", sceneName, path)
		writeNodeTree(&b, hierarchy, "")
		return strings.TrimRight(b.String(), "\n"), nil
	}
	return jsonText(map[string]any{
		"scene_name":   sceneName,
		"scene_path":   path,
		"root_objects": info["root_objects"],
	}), nil
}

func writeNodeTree(b *strings.Builder, node map[string]any, indent string) {
	name, _ := node["name"].(string)
	nodeType, _ := node["type"].(string)
	fmt.Fprintf(b, "%s└─ %s (%s)", indent, name, nodeType)
	if script, ok := node["script"].(string); ok {
		fmt.Fprintf(b, " [Script: %s]", script)
	}
	b.WriteByte('\n')
	children, _ := node["children"].([]any)
	for i, child := range children {
		childNode, ok := child.(map[string]any)
		if !ok {
			continue
		}
		childIndent := indent + "│   "
		if i == len(children)-1 {
			childIndent = indent + "    "
		}
		writeNodeTree(b, childNode, childIndent)
	}
}

// RenameNode renames a node after checking that the old name exists
// and the new one is free.
func (s *Service) RenameNode(ctx context.Context, oldName, newName string) (string, error) {
	exists, err := s.nodeExists(ctx, oldName)
	if err != nil {
		return "", err
	}
	if !exists {
		return fmt.Sprintf("Node %q not found", oldName), nil
	}
	taken, err := s.nodeExists(ctx, newName)
	if err != nil {
		return "", err
	}
	if taken {
		return fmt.Sprintf("Name %q is already taken by another node", newName), nil
	}
	if _, err := s.editor.SendCommand(ctx, "RENAME_NODE", map[string]any{
		"old_name": oldName,
		"new_name": newName,
	}); err != nil {
		return "", err
	}
	return fmt.Sprintf("Renamed node from %q to %q", oldName, newName), nil
}

// SetParent moves a node under a new parent. With keepGlobalTransform
// the node keeps its world position across the reparent.
func (s *Service) SetParent(ctx context.Context, childName, parentName string, keepGlobalTransform bool) (string, error) {
	if childName == parentName {
		return "A node cannot be its own parent", nil
	}
	exists, err := s.nodeExists(ctx, childName)
	if err != nil {
		return "", err
	}
	if !exists {
		return fmt.Sprintf("Node %q not found", childName), nil
	}
	exists, err = s.nodeExists(ctx, parentName)
	if err != nil {
		return "", err
	}
	if !exists {
		return fmt.Sprintf("Parent node %q not found", parentName), nil
	}
	result, err := s.editor.SendCommand(ctx, "SET_PARENT", map[string]any{
		"child_name":            childName,
		"parent_name":           parentName,
		"keep_global_transform": keepGlobalTransform,
	})
	if err != nil {
		return "", err
	}
	return commandMessage(result, fmt.Sprintf("Moved %q under %q", childName, parentName)), nil
}

func (s *Service) nodeExists(ctx context.Context, name string) (bool, error) {
	result, err := s.editor.SendCommand(ctx, "FIND_OBJECTS_BY_NAME", map[string]any{"name": name})
	if err != nil {
		return false, err
	}
	objects, _ := result["objects"].([]any)
	return len(objects) > 0, nil
}

// SetProperty sets a direct property on a node. Script paths are
// normalized to res:// with a .gd extension.
func (s *Service) SetProperty(ctx context.Context, nodeName, propertyName string, value any) (string, error) {
	if propertyName == "script" {
		if path, ok := value.(string); ok {
			value = resPath(path, ".gd")
		}
	}
	result, err := s.editor.SendCommand(ctx, "SET_PROPERTY", map[string]any{
		"node_name":     nodeName,
		"property_name": propertyName,
		"value":         value,
	})
	if err != nil {
		return "", err
	}
	return commandMessage(result, fmt.Sprintf("Set property %q on node %q", propertyName, nodeName)), nil
}

// SetNestedProperty sets a slash-separated property path, e.g.
// "environment/sky/sky_material".
func (s *Service) SetNestedProperty(ctx context.Context, nodeName, propertyPath string, value any, valueType string) (string, error) {
	params := map[string]any{
		"node_name":     nodeName,
		"property_name": propertyPath,
		"value":         value,
	}
	if valueType != "" {
		params["value_type"] = valueType
	}
	result, err := s.editor.SendCommand(ctx, "SET_NESTED_PROPERTY", params)
	if err != nil {
		return "", err
	}
	return commandMessage(result, fmt.Sprintf("Set nested property %s on %s", propertyPath, nodeName)), nil
}

// ShapeSpec are the optional dimensions for meshes and collision
// shapes. Nil fields are omitted from the command.
type ShapeSpec struct {
	Radius *float64
	Height *float64
	Size   []float64
}

func (sp ShapeSpec) params() map[string]any {
	dims := map[string]any{}
	if sp.Radius != nil {
		dims["radius"] = *sp.Radius
	}
	if sp.Height != nil {
		dims["height"] = *sp.Height
	}
	if len(sp.Size) > 0 {
		dims["size"] = sp.Size
	}
	return dims
}

// SetMesh assigns a primitive mesh to a MeshInstance3D node.
func (s *Service) SetMesh(ctx context.Context, nodeName, meshType string, spec ShapeSpec) (string, error) {
	params := map[string]any{
		"node_name": nodeName,
		"mesh_type": meshType,
	}
	if dims := spec.params(); len(dims) > 0 {
		params["mesh_params"] = dims
	}
	result, err := s.editor.SendCommand(ctx, "SET_MESH", params)
	if err != nil {
		return "", err
	}
	return commandMessage(result, fmt.Sprintf("Set %s on node %q", meshType, nodeName)), nil
}

// SetCollisionShape assigns a collision shape to a CollisionShape node.
func (s *Service) SetCollisionShape(ctx context.Context, nodeName, shapeType string, spec ShapeSpec) (string, error) {
	params := map[string]any{
		"node_name":  nodeName,
		"shape_type": shapeType,
	}
	if dims := spec.params(); len(dims) > 0 {
		params["shape_params"] = dims
	}
	result, err := s.editor.SendCommand(ctx, "SET_COLLISION_SHAPE", params)
	if err != nil {
		return "", err
	}
	return commandMessage(result, fmt.Sprintf("Set %s on node %q", shapeType, nodeName)), nil
}
