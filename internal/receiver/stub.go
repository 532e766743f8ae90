package receiver

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"
)

// StubEditor is an in-memory stand-in for the editor-side plugin: a flat
// scene graph plus a script table, just deep enough to exercise the bridge
// end to end. Real command effects live inside the editor and are out of
// scope here.
type StubEditor struct {
	mu        sync.Mutex
	scenePath string
	playing   bool
	nodes     map[string]*stubNode
	scripts   map[string]string
	prefabs   map[string]string
	created   int
}

type stubNode struct {
	Name     string
	Type     string
	Parent   string
	Location []any
	Rotation []any
	Scale    []any
	Props    map[string]any
}

// NewStubEditor returns a stub with an empty unsaved scene.
func NewStubEditor() *StubEditor {
	return &StubEditor{
		scenePath: "res://untitled.tscn",
		nodes:     map[string]*stubNode{},
		scripts:   map[string]string{},
		prefabs:   map[string]string{},
	}
}

// Register installs every stub handler into the registry.
func (e *StubEditor) Register(registry *Registry) error {
	handlers := map[string]Handler{
		"ping":                  e.ping,
		"GET_SCENE_INFO":        e.getSceneInfo,
		"OPEN_SCENE":            e.openScene,
		"SAVE_SCENE":            e.saveScene,
		"NEW_SCENE":             e.newScene,
		"CREATE_OBJECT":         e.createObject,
		"CREATE_CHILD_OBJECT":   e.createChildObject,
		"DELETE_OBJECT":         e.deleteObject,
		"FIND_OBJECTS_BY_NAME":  e.findObjectsByName,
		"GET_OBJECT_PROPERTIES": e.getObjectProperties,
		"SET_OBJECT_TRANSFORM":  e.setObjectTransform,
		"SET_PROPERTY":          e.setProperty,
		"SET_NESTED_PROPERTY":   e.setProperty,
		"SET_MESH":              e.setMesh,
		"SET_COLLISION_SHAPE":   e.setCollisionShape,
		"SET_MATERIAL":          e.setMaterial,
		"RENAME_NODE":           e.renameNode,
		"SET_PARENT":            e.setParent,
		"CREATE_PREFAB":         e.createPrefab,
		"INSTANTIATE_PREFAB":    e.instantiatePrefab,
		"CREATE_SCRIPT":         e.createScript,
		"VIEW_SCRIPT":           e.viewScript,
		"UPDATE_SCRIPT":         e.updateScript,
		"LIST_SCRIPTS":          e.listScripts,
		"GET_ASSET_LIST":        e.getAssetList,
		"IMPORT_ASSET":          e.importAsset,
		"EDITOR_CONTROL":        e.editorControl,
	}
	for name, handler := range handlers {
		if err := registry.Register(name, handler); err != nil {
			return err
		}
	}
	return nil
}

func (e *StubEditor) ping(context.Context, map[string]any) (map[string]any, error) {
	return map[string]any{"message": "pong"}, nil
}

func (e *StubEditor) getSceneInfo(context.Context, map[string]any) (map[string]any, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	names := make([]string, 0, len(e.nodes))
	for name := range e.nodes {
		names = append(names, name)
	}
	sort.Strings(names)

	nodes := make([]any, 0, len(names))
	for _, name := range names {
		n := e.nodes[name]
		nodes = append(nodes, map[string]any{"name": n.Name, "type": n.Type, "parent": n.Parent})
	}
	return map[string]any{
		"scene_path": e.scenePath,
		"node_count": len(nodes),
		"nodes":      nodes,
	}, nil
}

func (e *StubEditor) openScene(_ context.Context, params map[string]any) (map[string]any, error) {
	scenePath, err := stringParam(params, "scene_path")
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scenePath = scenePath
	e.nodes = map[string]*stubNode{}
	return map[string]any{"message": "Opened scene " + scenePath, "scene_path": scenePath}, nil
}

func (e *StubEditor) saveScene(context.Context, map[string]any) (map[string]any, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return map[string]any{"message": "Saved scene " + e.scenePath, "scene_path": e.scenePath}, nil
}

func (e *StubEditor) newScene(_ context.Context, params map[string]any) (map[string]any, error) {
	scenePath, err := stringParam(params, "scene_path")
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if scenePath == e.scenePath && !boolParam(params, "overwrite") {
		return nil, Errorf("conflict", "scene %s already exists", scenePath)
	}
	e.scenePath = scenePath
	e.nodes = map[string]*stubNode{}
	return map[string]any{"message": "Created scene " + scenePath, "scene_path": scenePath}, nil
}

func (e *StubEditor) createObject(_ context.Context, params map[string]any) (map[string]any, error) {
	return e.addNode(params, "")
}

func (e *StubEditor) createChildObject(_ context.Context, params map[string]any) (map[string]any, error) {
	parent, err := stringParam(params, "parent_name")
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	exists := e.nodes[parent] != nil
	e.mu.Unlock()
	if !exists {
		return nil, Errorf("not_found", "parent node not found: %s", parent)
	}
	return e.addNode(params, parent)
}

func (e *StubEditor) addNode(params map[string]any, parent string) (map[string]any, error) {
	nodeType, _ := params["type"].(string)
	if nodeType == "" {
		nodeType = "EMPTY"
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	name, _ := params["name"].(string)
	if name == "" {
		e.created++
		name = fmt.Sprintf("%s%d", nodeType, e.created)
	}
	if _, exists := e.nodes[name]; exists {
		if !boolParam(params, "replace_if_exists") {
			return nil, Errorf("conflict", "node already exists: %s", name)
		}
		delete(e.nodes, name)
	}

	node := &stubNode{
		Name:     name,
		Type:     nodeType,
		Parent:   parent,
		Location: listParam(params, "location"),
		Rotation: listParam(params, "rotation"),
		Scale:    listParam(params, "scale"),
		Props:    map[string]any{},
	}
	e.nodes[name] = node
	return map[string]any{"name": name, "type": nodeType}, nil
}

func (e *StubEditor) deleteObject(_ context.Context, params map[string]any) (map[string]any, error) {
	name, err := stringParam(params, "name")
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, exists := e.nodes[name]; !exists {
		return nil, Errorf("not_found", "node not found: %s", name)
	}
	delete(e.nodes, name)
	return map[string]any{"message": "Deleted " + name}, nil
}

func (e *StubEditor) findObjectsByName(_ context.Context, params map[string]any) (map[string]any, error) {
	name, err := stringParam(params, "name")
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	objects := []any{}
	for _, node := range e.nodes {
		if strings.Contains(node.Name, name) {
			objects = append(objects, map[string]any{"name": node.Name, "type": node.Type})
		}
	}
	return map[string]any{"objects": objects}, nil
}

func (e *StubEditor) getObjectProperties(_ context.Context, params map[string]any) (map[string]any, error) {
	name, err := stringParam(params, "name")
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	node, exists := e.nodes[name]
	if !exists {
		return nil, Errorf("not_found", "node not found: %s", name)
	}
	props := map[string]any{}
	for k, v := range node.Props {
		props[k] = v
	}
	return map[string]any{
		"name":       node.Name,
		"type":       node.Type,
		"parent":     node.Parent,
		"properties": props,
	}, nil
}

func (e *StubEditor) setObjectTransform(_ context.Context, params map[string]any) (map[string]any, error) {
	name, err := stringParam(params, "name")
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	node, exists := e.nodes[name]
	if !exists {
		return nil, Errorf("not_found", "node not found: %s", name)
	}
	if v := listParam(params, "location"); v != nil {
		node.Location = v
	}
	if v := listParam(params, "rotation"); v != nil {
		node.Rotation = v
	}
	if v := listParam(params, "scale"); v != nil {
		node.Scale = v
	}
	return map[string]any{"message": "Transform updated for " + name}, nil
}

func (e *StubEditor) setProperty(_ context.Context, params map[string]any) (map[string]any, error) {
	name, err := stringParam(params, "node_name")
	if err != nil {
		return nil, err
	}
	property, err := stringParam(params, "property_name")
	if err != nil {
		return nil, err
	}
	value, exists := params["value"]
	if !exists {
		return nil, Errorf("invalid_params", "missing parameter: value")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	node, ok := e.nodes[name]
	if !ok {
		return nil, Errorf("not_found", "node not found: %s", name)
	}
	node.Props[property] = value
	return map[string]any{"message": fmt.Sprintf("Set %s on %s", property, name)}, nil
}

// setShape stores a mesh or collision shape as a plain node property.
func (e *StubEditor) setShape(params map[string]any, typeKey, paramsKey string) (map[string]any, error) {
	name, err := stringParam(params, "node_name")
	if err != nil {
		return nil, err
	}
	shapeType, err := stringParam(params, typeKey)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	node, ok := e.nodes[name]
	if !ok {
		return nil, Errorf("not_found", "node not found: %s", name)
	}
	entry := map[string]any{"type": shapeType}
	if dims, ok := params[paramsKey].(map[string]any); ok {
		entry["params"] = dims
	}
	node.Props[typeKey] = entry
	return map[string]any{"message": fmt.Sprintf("Set %s on %s", shapeType, name)}, nil
}

func (e *StubEditor) setMesh(_ context.Context, params map[string]any) (map[string]any, error) {
	return e.setShape(params, "mesh_type", "mesh_params")
}

func (e *StubEditor) setCollisionShape(_ context.Context, params map[string]any) (map[string]any, error) {
	return e.setShape(params, "shape_type", "shape_params")
}

func (e *StubEditor) setMaterial(_ context.Context, params map[string]any) (map[string]any, error) {
	name, err := stringParam(params, "object_name")
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	node, ok := e.nodes[name]
	if !ok {
		return nil, Errorf("not_found", "node not found: %s", name)
	}
	material := map[string]any{}
	if materialName, ok := params["material_name"].(string); ok {
		material["name"] = materialName
	}
	if color := listParam(params, "color"); color != nil {
		material["color"] = color
	}
	node.Props["material"] = material
	return map[string]any{"message": "Material applied to " + name}, nil
}

func (e *StubEditor) createPrefab(_ context.Context, params map[string]any) (map[string]any, error) {
	objectName, err := stringParam(params, "object_name")
	if err != nil {
		return nil, err
	}
	prefabPath, err := stringParam(params, "prefab_path")
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	node, ok := e.nodes[objectName]
	if !ok {
		return nil, Errorf("not_found", "node not found: %s", objectName)
	}
	if _, exists := e.prefabs[prefabPath]; exists && !boolParam(params, "overwrite") {
		return nil, Errorf("conflict", "prefab already exists: %s", prefabPath)
	}
	e.prefabs[prefabPath] = node.Type
	return map[string]any{"success": true, "path": prefabPath}, nil
}

func (e *StubEditor) instantiatePrefab(_ context.Context, params map[string]any) (map[string]any, error) {
	prefabPath, err := stringParam(params, "prefab_path")
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	nodeType, exists := e.prefabs[prefabPath]
	if !exists {
		return nil, Errorf("not_found", "prefab not found: %s", prefabPath)
	}
	e.created++
	base := strings.TrimSuffix(path.Base(prefabPath), path.Ext(prefabPath))
	name := fmt.Sprintf("%s%d", base, e.created)
	e.nodes[name] = &stubNode{Name: name, Type: nodeType, Props: map[string]any{}}
	return map[string]any{"success": true, "instance_name": name}, nil
}

func (e *StubEditor) setParent(_ context.Context, params map[string]any) (map[string]any, error) {
	childName, err := stringParam(params, "child_name")
	if err != nil {
		return nil, err
	}
	parentName, err := stringParam(params, "parent_name")
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	child, ok := e.nodes[childName]
	if !ok {
		return nil, Errorf("not_found", "node not found: %s", childName)
	}
	if _, ok := e.nodes[parentName]; !ok {
		return nil, Errorf("not_found", "node not found: %s", parentName)
	}
	child.Parent = parentName
	return map[string]any{"message": fmt.Sprintf("Moved %s under %s", childName, parentName)}, nil
}

func (e *StubEditor) renameNode(_ context.Context, params map[string]any) (map[string]any, error) {
	oldName, err := stringParam(params, "old_name")
	if err != nil {
		return nil, err
	}
	newName, err := stringParam(params, "new_name")
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	node, exists := e.nodes[oldName]
	if !exists {
		return nil, Errorf("not_found", "node not found: %s", oldName)
	}
	if _, exists := e.nodes[newName]; exists {
		return nil, Errorf("conflict", "node already exists: %s", newName)
	}
	delete(e.nodes, oldName)
	node.Name = newName
	e.nodes[newName] = node
	for _, other := range e.nodes {
		if other.Parent == oldName {
			other.Parent = newName
		}
	}
	return map[string]any{"message": fmt.Sprintf("Renamed %s to %s", oldName, newName)}, nil
}

func (e *StubEditor) createScript(_ context.Context, params map[string]any) (map[string]any, error) {
	scriptName, err := stringParam(params, "script_name")
	if err != nil {
		return nil, err
	}
	folder, _ := params["script_folder"].(string)
	if folder == "" {
		folder = "res://scripts"
	}
	// path.Join would collapse the res:// scheme to res:/, so join by hand.
	scriptPath := strings.TrimSuffix(folder, "/") + "/" + scriptName

	e.mu.Lock()
	defer e.mu.Unlock()
	if _, exists := e.scripts[scriptPath]; exists && !boolParam(params, "overwrite") {
		return nil, Errorf("conflict", "script already exists: %s", scriptPath)
	}
	content, _ := params["content"].(string)
	if content == "" {
		scriptType, _ := params["script_type"].(string)
		if scriptType == "" {
			scriptType = "Node"
		}
		content = "extends " + scriptType + "\n"
	}
	e.scripts[scriptPath] = content
	return map[string]any{"message": "Script created successfully", "script_path": scriptPath}, nil
}

func (e *StubEditor) viewScript(_ context.Context, params map[string]any) (map[string]any, error) {
	scriptPath, err := stringParam(params, "script_path")
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	content, exists := e.scripts[scriptPath]
	if !exists {
		return nil, Errorf("not_found", "script not found: %s", scriptPath)
	}
	return map[string]any{"script_path": scriptPath, "content": content}, nil
}

func (e *StubEditor) updateScript(_ context.Context, params map[string]any) (map[string]any, error) {
	scriptPath, err := stringParam(params, "script_path")
	if err != nil {
		return nil, err
	}
	content, err := stringParam(params, "content")
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, exists := e.scripts[scriptPath]; !exists && !boolParam(params, "create_if_missing") {
		return nil, Errorf("not_found", "script not found: %s", scriptPath)
	}
	e.scripts[scriptPath] = content
	return map[string]any{"message": "Script updated successfully", "script_path": scriptPath}, nil
}

func (e *StubEditor) listScripts(_ context.Context, params map[string]any) (map[string]any, error) {
	folder, _ := params["folder_path"].(string)
	if folder == "" {
		folder = "res://"
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	scripts := []any{}
	for scriptPath := range e.scripts {
		if strings.HasPrefix(scriptPath, folder) {
			scripts = append(scripts, scriptPath)
		}
	}
	sort.Slice(scripts, func(i, j int) bool { return scripts[i].(string) < scripts[j].(string) })
	return map[string]any{"scripts": scripts}, nil
}

func (e *StubEditor) getAssetList(_ context.Context, params map[string]any) (map[string]any, error) {
	folder, _ := params["folder"].(string)
	if folder == "" {
		folder = "res://"
	}
	assetType, _ := params["type"].(string)

	e.mu.Lock()
	defer e.mu.Unlock()
	assets := []any{}
	if assetType == "" || assetType == "script" {
		for scriptPath := range e.scripts {
			if strings.HasPrefix(scriptPath, folder) {
				assets = append(assets, map[string]any{"path": scriptPath, "type": "script"})
			}
		}
	}
	return map[string]any{"assets": assets}, nil
}

func (e *StubEditor) importAsset(_ context.Context, params map[string]any) (map[string]any, error) {
	sourcePath, err := stringParam(params, "source_path")
	if err != nil {
		return nil, err
	}
	targetPath, err := stringParam(params, "target_path")
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"message":     fmt.Sprintf("Imported %s to %s", sourcePath, targetPath),
		"target_path": targetPath,
	}, nil
}

func (e *StubEditor) editorControl(_ context.Context, params map[string]any) (map[string]any, error) {
	command, err := stringParam(params, "command")
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	switch command {
	case "PLAY":
		e.playing = true
		return map[string]any{"message": "Scene is now playing"}, nil
	case "STOP":
		e.playing = false
		return map[string]any{"message": "Scene stopped"}, nil
	case "SAVE":
		return map[string]any{"message": "All scenes saved"}, nil
	case "SHOW_MESSAGE":
		nested, _ := params["params"].(map[string]any)
		title, _ := nested["title"].(string)
		if title == "" {
			return nil, Errorf("invalid_params", "missing parameter: title")
		}
		return map[string]any{"message": "Message shown: " + title}, nil
	default:
		return nil, Errorf("invalid_params", "unsupported editor command: %s", command)
	}
}

// stringParam extracts a required non-empty string parameter.
func stringParam(params map[string]any, key string) (string, error) {
	value, exists := params[key]
	if !exists {
		return "", Errorf("invalid_params", "missing parameter: %s", key)
	}
	s, ok := value.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", Errorf("invalid_params", "parameter %s must be a non-empty string", key)
	}
	return s, nil
}

func boolParam(params map[string]any, key string) bool {
	b, _ := params[key].(bool)
	return b
}

func listParam(params map[string]any, key string) []any {
	v, _ := params[key].([]any)
	return v
}
