package receiver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func newStubRegistry(t *testing.T) *Registry {
	t.Helper()
	registry := NewRegistry()
	require.NoError(t, NewStubEditor().Register(registry))
	return registry
}

func call(t *testing.T, registry *Registry, command string, params map[string]any) map[string]any {
	t.Helper()
	handler, ok := registry.Lookup(command)
	require.True(t, ok, "command %s not registered", command)
	result, err := handler(context.Background(), params)
	require.NoError(t, err)
	return result
}

func callErr(t *testing.T, registry *Registry, command string, params map[string]any) *CommandError {
	t.Helper()
	handler, ok := registry.Lookup(command)
	require.True(t, ok, "command %s not registered", command)
	_, err := handler(context.Background(), params)
	require.Error(t, err)
	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
	return cmdErr
}

func TestStubObjectLifecycle(t *testing.T) {
	registry := newStubRegistry(t)

	created := call(t, registry, "CREATE_OBJECT", map[string]any{"type": "CUBE", "name": "Crate"})
	require.Equal(t, "Crate", created["name"])
	require.Equal(t, "CUBE", created["type"])

	dup := callErr(t, registry, "CREATE_OBJECT", map[string]any{"type": "CUBE", "name": "Crate"})
	require.Equal(t, "conflict", dup.Code)

	found := call(t, registry, "FIND_OBJECTS_BY_NAME", map[string]any{"name": "Crate"})
	require.Len(t, found["objects"], 1)

	child := call(t, registry, "CREATE_CHILD_OBJECT", map[string]any{"parent_name": "Crate", "type": "MeshInstance3D", "name": "CrateMesh"})
	require.Equal(t, "CrateMesh", child["name"])

	info := call(t, registry, "GET_SCENE_INFO", nil)
	require.Equal(t, 2, info["node_count"])

	call(t, registry, "CREATE_OBJECT", map[string]any{"type": "EMPTY", "name": "Props"})
	call(t, registry, "SET_PARENT", map[string]any{"child_name": "CrateMesh", "parent_name": "Props"})
	moved := call(t, registry, "GET_OBJECT_PROPERTIES", map[string]any{"name": "CrateMesh"})
	require.Equal(t, "Props", moved["parent"])
	call(t, registry, "SET_PARENT", map[string]any{"child_name": "CrateMesh", "parent_name": "Crate"})

	call(t, registry, "SET_PROPERTY", map[string]any{"node_name": "Crate", "property_name": "mass", "value": 10.5})
	props := call(t, registry, "GET_OBJECT_PROPERTIES", map[string]any{"name": "Crate"})
	require.Equal(t, 10.5, props["properties"].(map[string]any)["mass"])

	call(t, registry, "RENAME_NODE", map[string]any{"old_name": "Crate", "new_name": "Box"})
	childProps := call(t, registry, "GET_OBJECT_PROPERTIES", map[string]any{"name": "CrateMesh"})
	require.Equal(t, "Box", childProps["parent"])

	call(t, registry, "DELETE_OBJECT", map[string]any{"name": "Box"})
	missing := callErr(t, registry, "DELETE_OBJECT", map[string]any{"name": "Box"})
	require.Equal(t, "not_found", missing.Code)
}

func TestStubDefaultObjectNames(t *testing.T) {
	registry := newStubRegistry(t)

	first := call(t, registry, "CREATE_OBJECT", map[string]any{"type": "SPHERE"})
	second := call(t, registry, "CREATE_OBJECT", map[string]any{"type": "SPHERE"})
	require.NotEqual(t, first["name"], second["name"])
}

func TestStubScriptLifecycle(t *testing.T) {
	registry := newStubRegistry(t)

	created := call(t, registry, "CREATE_SCRIPT", map[string]any{"script_name": "player.gd", "script_type": "CharacterBody3D"})
	require.Equal(t, "Script created successfully", created["message"])
	scriptPath := created["script_path"].(string)
	require.Equal(t, "res://scripts/player.gd", scriptPath)

	view := call(t, registry, "VIEW_SCRIPT", map[string]any{"script_path": scriptPath})
	require.Contains(t, view["content"], "extends CharacterBody3D")

	exists := callErr(t, registry, "CREATE_SCRIPT", map[string]any{"script_name": "player.gd"})
	require.Equal(t, "conflict", exists.Code)

	call(t, registry, "UPDATE_SCRIPT", map[string]any{"script_path": scriptPath, "content": "extends Node\n"})
	view = call(t, registry, "VIEW_SCRIPT", map[string]any{"script_path": scriptPath})
	require.Equal(t, "extends Node\n", view["content"])

	scripts := call(t, registry, "LIST_SCRIPTS", map[string]any{"folder_path": "res://scripts"})
	require.Len(t, scripts["scripts"], 1)

	assets := call(t, registry, "GET_ASSET_LIST", map[string]any{"type": "script"})
	require.Len(t, assets["assets"], 1)
}

func TestStubSceneCommands(t *testing.T) {
	registry := newStubRegistry(t)

	call(t, registry, "CREATE_OBJECT", map[string]any{"type": "CUBE", "name": "Gone"})
	opened := call(t, registry, "OPEN_SCENE", map[string]any{"scene_path": "res://levels/main.tscn"})
	require.Equal(t, "res://levels/main.tscn", opened["scene_path"])

	info := call(t, registry, "GET_SCENE_INFO", nil)
	require.Equal(t, 0, info["node_count"])

	saved := call(t, registry, "SAVE_SCENE", nil)
	require.Contains(t, saved["message"], "res://levels/main.tscn")

	conflict := callErr(t, registry, "NEW_SCENE", map[string]any{"scene_path": "res://levels/main.tscn"})
	require.Equal(t, "conflict", conflict.Code)
}

func TestStubShapesAndMaterials(t *testing.T) {
	registry := newStubRegistry(t)

	call(t, registry, "CREATE_OBJECT", map[string]any{"type": "MESH", "name": "Rock"})

	mesh := call(t, registry, "SET_MESH", map[string]any{
		"node_name":   "Rock",
		"mesh_type":   "SphereMesh",
		"mesh_params": map[string]any{"radius": 2.0},
	})
	require.Contains(t, mesh["message"], "SphereMesh")

	call(t, registry, "SET_COLLISION_SHAPE", map[string]any{"node_name": "Rock", "shape_type": "SphereShape3D"})
	call(t, registry, "SET_MATERIAL", map[string]any{"object_name": "Rock", "color": []any{0.5, 0.5, 0.5}})

	props := call(t, registry, "GET_OBJECT_PROPERTIES", map[string]any{"name": "Rock"})
	stored := props["properties"].(map[string]any)
	require.Contains(t, stored, "mesh_type")
	require.Contains(t, stored, "shape_type")
	require.Contains(t, stored, "material")

	missing := callErr(t, registry, "SET_MESH", map[string]any{"node_name": "Ghost", "mesh_type": "BoxMesh"})
	require.Equal(t, "not_found", missing.Code)
}

func TestStubPrefabLifecycle(t *testing.T) {
	registry := newStubRegistry(t)

	call(t, registry, "CREATE_OBJECT", map[string]any{"type": "CUBE", "name": "Crate"})

	created := call(t, registry, "CREATE_PREFAB", map[string]any{"object_name": "Crate", "prefab_path": "res://prefabs/crate.tscn"})
	require.Equal(t, "res://prefabs/crate.tscn", created["path"])

	dup := callErr(t, registry, "CREATE_PREFAB", map[string]any{"object_name": "Crate", "prefab_path": "res://prefabs/crate.tscn"})
	require.Equal(t, "conflict", dup.Code)

	call(t, registry, "CREATE_PREFAB", map[string]any{"object_name": "Crate", "prefab_path": "res://prefabs/crate.tscn", "overwrite": true})

	instance := call(t, registry, "INSTANTIATE_PREFAB", map[string]any{"prefab_path": "res://prefabs/crate.tscn"})
	name := instance["instance_name"].(string)
	require.Contains(t, name, "crate")

	props := call(t, registry, "GET_OBJECT_PROPERTIES", map[string]any{"name": name})
	require.Equal(t, "CUBE", props["type"])

	missing := callErr(t, registry, "INSTANTIATE_PREFAB", map[string]any{"prefab_path": "res://prefabs/barrel.tscn"})
	require.Equal(t, "not_found", missing.Code)
}

func TestStubEditorControl(t *testing.T) {
	registry := newStubRegistry(t)

	play := call(t, registry, "EDITOR_CONTROL", map[string]any{"command": "PLAY"})
	require.Contains(t, play["message"], "playing")

	stop := call(t, registry, "EDITOR_CONTROL", map[string]any{"command": "STOP"})
	require.Contains(t, stop["message"], "stopped")

	shown := call(t, registry, "EDITOR_CONTROL", map[string]any{
		"command": "SHOW_MESSAGE",
		"params":  map[string]any{"title": "Heads up", "message": "Build done", "type": "INFO"},
	})
	require.Contains(t, shown["message"], "Heads up")

	bad := callErr(t, registry, "EDITOR_CONTROL", map[string]any{"command": "REWIND"})
	require.Equal(t, "invalid_params", bad.Code)
}

func TestStubMissingRequiredParam(t *testing.T) {
	registry := newStubRegistry(t)

	missing := callErr(t, registry, "DELETE_OBJECT", nil)
	require.Equal(t, "invalid_params", missing.Code)
	require.Contains(t, missing.Message, "name")
}
