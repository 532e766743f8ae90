package tools

import (
	"context"

	"github.com/viant/jsonrpc"
	"github.com/viant/mcp-protocol/schema"
	proto "github.com/viant/mcp-protocol/server"
)

// ToolOutput is the common output shape for all tools: a text message
// for the calling model.
type ToolOutput struct {
	Message string `json:"message"`
}

// Tool input shapes. Field names follow the wire parameters the editor
// plugin expects.

type OpenSceneInput struct {
	ScenePath   string `json:"scene_path"`
	SaveCurrent bool   `json:"save_current,omitempty"`
}

type NewSceneInput struct {
	ScenePath string `json:"scene_path"`
	Overwrite bool   `json:"overwrite,omitempty"`
}

type EmptyInput struct{}

type CreateObjectInput struct {
	Type            string    `json:"type,omitempty"`
	Name            string    `json:"name,omitempty"`
	Location        []float64 `json:"location,omitempty"`
	Rotation        []float64 `json:"rotation,omitempty"`
	Scale           []float64 `json:"scale,omitempty"`
	ReplaceIfExists bool      `json:"replace_if_exists,omitempty"`
}

type CreateChildObjectInput struct {
	ParentName string `json:"parent_name"`
	CreateObjectInput
}

type NodeNameInput struct {
	Name string `json:"name"`
}

type SetObjectTransformInput struct {
	Name     string    `json:"name"`
	Location []float64 `json:"location,omitempty"`
	Rotation []float64 `json:"rotation,omitempty"`
	Scale    []float64 `json:"scale,omitempty"`
}

type RenameNodeInput struct {
	OldName string `json:"old_name"`
	NewName string `json:"new_name"`
}

type SetParentInput struct {
	ChildName           string `json:"child_name"`
	ParentName          string `json:"parent_name"`
	KeepGlobalTransform *bool  `json:"keep_global_transform,omitempty"`
}

type SetPropertyInput struct {
	NodeName     string `json:"node_name"`
	PropertyName string `json:"property_name"`
	Value        any    `json:"value"`
}

type SetNestedPropertyInput struct {
	NodeName     string `json:"node_name"`
	PropertyPath string `json:"property_path"`
	Value        any    `json:"value"`
	ValueType    string `json:"value_type,omitempty"`
}

type SetMeshInput struct {
	NodeName string    `json:"node_name"`
	MeshType string    `json:"mesh_type"`
	Radius   *float64  `json:"radius,omitempty"`
	Height   *float64  `json:"height,omitempty"`
	Size     []float64 `json:"size,omitempty"`
}

type SetCollisionShapeInput struct {
	NodeName  string    `json:"node_name"`
	ShapeType string    `json:"shape_type"`
	Radius    *float64  `json:"radius,omitempty"`
	Height    *float64  `json:"height,omitempty"`
	Size      []float64 `json:"size,omitempty"`
}

type ViewScriptInput struct {
	ScriptPath    string `json:"script_path"`
	RequireExists *bool  `json:"require_exists,omitempty"`
}

type CreateScriptInput struct {
	ScriptName   string `json:"script_name"`
	ScriptType   string `json:"script_type,omitempty"`
	ClassName    string `json:"class_name,omitempty"`
	ScriptFolder string `json:"script_folder,omitempty"`
	Overwrite    bool   `json:"overwrite,omitempty"`
	Content      string `json:"content,omitempty"`
}

type UpdateScriptInput struct {
	ScriptPath            string `json:"script_path"`
	Content               string `json:"content"`
	CreateIfMissing       bool   `json:"create_if_missing,omitempty"`
	CreateFolderIfMissing bool   `json:"create_folder_if_missing,omitempty"`
}

type FolderInput struct {
	FolderPath string `json:"folder_path,omitempty"`
}

type SetMaterialInput struct {
	ObjectName      string    `json:"object_name"`
	MaterialName    string    `json:"material_name,omitempty"`
	Color           []float64 `json:"color,omitempty"`
	CreateIfMissing *bool     `json:"create_if_missing,omitempty"`
}

type AssetListInput struct {
	Type          string `json:"type,omitempty"`
	SearchPattern string `json:"search_pattern,omitempty"`
	Folder        string `json:"folder,omitempty"`
}

type ImportAssetInput struct {
	SourcePath string `json:"source_path"`
	TargetPath string `json:"target_path"`
	Overwrite  bool   `json:"overwrite,omitempty"`
}

type CreatePrefabInput struct {
	ObjectName string `json:"object_name"`
	PrefabPath string `json:"prefab_path"`
	Overwrite  bool   `json:"overwrite,omitempty"`
}

type InstantiatePrefabInput struct {
	PrefabPath string  `json:"prefab_path"`
	PositionX  float64 `json:"position_x,omitempty"`
	PositionY  float64 `json:"position_y,omitempty"`
	PositionZ  float64 `json:"position_z,omitempty"`
	RotationX  float64 `json:"rotation_x,omitempty"`
	RotationY  float64 `json:"rotation_y,omitempty"`
	RotationZ  float64 `json:"rotation_z,omitempty"`
}

type EditorActionInput struct {
	Command string `json:"command"`
}

type ShowMessageInput struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Type    string `json:"type,omitempty"`
}

type GenerateMeshFromTextInput struct {
	Prompt         string `json:"prompt"`
	Name           string `json:"name,omitempty"`
	ArtStyle       string `json:"art_style,omitempty"`
	NegativePrompt string `json:"negative_prompt,omitempty"`
	ShouldRemesh   *bool  `json:"should_remesh,omitempty"`
	ImportToGodot  *bool  `json:"import_to_godot,omitempty"`
}

type GenerateMeshFromImageInput struct {
	ImageURL      string `json:"image_url"`
	Name          string `json:"name,omitempty"`
	ImportToGodot *bool  `json:"import_to_godot,omitempty"`
}

type TaskIDInput struct {
	TaskID string `json:"task_id"`
}

type RefineMeshInput struct {
	TaskID        string `json:"task_id"`
	Name          string `json:"name,omitempty"`
	ImportToGodot *bool  `json:"import_to_godot,omitempty"`
}

type DownloadMeshInput struct {
	DownloadURL string `json:"download_url"`
	Name        string `json:"name"`
}

func boolOrDefault(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

func textResult(msg string) *schema.CallToolResult {
	return &schema.CallToolResult{
		Content: []schema.CallToolResultContentElem{schema.TextContent{Type: "text", Text: msg}},
	}
}

func errorResult(msg string) *schema.CallToolResult {
	isError := true
	return &schema.CallToolResult{
		Content: []schema.CallToolResultContentElem{schema.TextContent{Type: "text", Text: msg}},
		IsError: &isError,
	}
}

// finish renders a tool outcome: transport and editor failures become
// error results with actionable text rather than protocol errors, so
// the calling model can recover.
func finish(text string, err error) (*schema.CallToolResult, *jsonrpc.Error) {
	if err != nil {
		return errorResult(describeSendError(err)), nil
	}
	return textResult(text), nil
}

// Register installs every tool on the handler's registry.
func Register(h *proto.DefaultHandler, svc *Service) error {
	type registration func() error
	regs := []registration{
		// Scene tools.
		func() error {
			return proto.RegisterTool[*EmptyInput, *ToolOutput](h.Registry, "get_scene_info",
				"Get information about the current scene as JSON",
				func(ctx context.Context, in *EmptyInput) (*schema.CallToolResult, *jsonrpc.Error) {
					return finish(svc.SceneInfo(ctx))
				})
		},
		func() error {
			return proto.RegisterTool[*OpenSceneInput, *ToolOutput](h.Registry, "open_scene",
				"Open a scene file from the project",
				func(ctx context.Context, in *OpenSceneInput) (*schema.CallToolResult, *jsonrpc.Error) {
					return finish(svc.OpenScene(ctx, in.ScenePath, in.SaveCurrent))
				})
		},
		func() error {
			return proto.RegisterTool[*EmptyInput, *ToolOutput](h.Registry, "save_scene",
				"Save the currently open scene",
				func(ctx context.Context, in *EmptyInput) (*schema.CallToolResult, *jsonrpc.Error) {
					return finish(svc.SaveScene(ctx))
				})
		},
		func() error {
			return proto.RegisterTool[*NewSceneInput, *ToolOutput](h.Registry, "new_scene",
				"Create a new empty scene at the given path",
				func(ctx context.Context, in *NewSceneInput) (*schema.CallToolResult, *jsonrpc.Error) {
					return finish(svc.NewScene(ctx, in.ScenePath, in.Overwrite))
				})
		},
		func() error {
			return proto.RegisterTool[*CreateObjectInput, *ToolOutput](h.Registry, "create_object",
				"Create a new node in the current scene",
				func(ctx context.Context, in *CreateObjectInput) (*schema.CallToolResult, *jsonrpc.Error) {
					return finish(svc.CreateObject(ctx, in.spec()))
				})
		},
		func() error {
			return proto.RegisterTool[*CreateChildObjectInput, *ToolOutput](h.Registry, "create_child_object",
				"Create a new node as a child of an existing node",
				func(ctx context.Context, in *CreateChildObjectInput) (*schema.CallToolResult, *jsonrpc.Error) {
					return finish(svc.CreateChildObject(ctx, in.ParentName, in.spec()))
				})
		},
		func() error {
			return proto.RegisterTool[*NodeNameInput, *ToolOutput](h.Registry, "delete_object",
				"Delete a node from the current scene",
				func(ctx context.Context, in *NodeNameInput) (*schema.CallToolResult, *jsonrpc.Error) {
					return finish(svc.DeleteObject(ctx, in.Name))
				})
		},
		func() error {
			return proto.RegisterTool[*NodeNameInput, *ToolOutput](h.Registry, "find_objects_by_name",
				"Find scene nodes by name, partial matches included",
				func(ctx context.Context, in *NodeNameInput) (*schema.CallToolResult, *jsonrpc.Error) {
					return finish(svc.FindObjectsByName(ctx, in.Name))
				})
		},
		func() error {
			return proto.RegisterTool[*SetObjectTransformInput, *ToolOutput](h.Registry, "set_object_transform",
				"Set position, rotation, and scale on a node",
				func(ctx context.Context, in *SetObjectTransformInput) (*schema.CallToolResult, *jsonrpc.Error) {
					return finish(svc.SetObjectTransform(ctx, in.Name, in.Location, in.Rotation, in.Scale))
				})
		},

		// Object tools.
		func() error {
			return proto.RegisterTool[*NodeNameInput, *ToolOutput](h.Registry, "get_object_properties",
				"Get all properties of a node as JSON",
				func(ctx context.Context, in *NodeNameInput) (*schema.CallToolResult, *jsonrpc.Error) {
					return finish(svc.ObjectProperties(ctx, in.Name))
				})
		},
		func() error {
			return proto.RegisterTool[*EmptyInput, *ToolOutput](h.Registry, "get_hierarchy",
				"Get the scene tree as an indented outline",
				func(ctx context.Context, in *EmptyInput) (*schema.CallToolResult, *jsonrpc.Error) {
					return finish(svc.Hierarchy(ctx))
				})
		},
		func() error {
			return proto.RegisterTool[*RenameNodeInput, *ToolOutput](h.Registry, "rename_node",
				"Rename a node in the current scene",
				func(ctx context.Context, in *RenameNodeInput) (*schema.CallToolResult, *jsonrpc.Error) {
					return finish(svc.RenameNode(ctx, in.OldName, in.NewName))
				})
		},
		func() error {
			return proto.RegisterTool[*SetParentInput, *ToolOutput](h.Registry, "set_parent",
				"Move a node under a new parent",
				func(ctx context.Context, in *SetParentInput) (*schema.CallToolResult, *jsonrpc.Error) {
					return finish(svc.SetParent(ctx, in.ChildName, in.ParentName, boolOrDefault(in.KeepGlobalTransform, true)))
				})
		},
		func() error {
			return proto.RegisterTool[*SetPropertyInput, *ToolOutput](h.Registry, "set_property",
				"Set a property on a node",
				func(ctx context.Context, in *SetPropertyInput) (*schema.CallToolResult, *jsonrpc.Error) {
					return finish(svc.SetProperty(ctx, in.NodeName, in.PropertyName, in.Value))
				})
		},
		func() error {
			return proto.RegisterTool[*SetNestedPropertyInput, *ToolOutput](h.Registry, "set_nested_property",
				"Set a nested property path like environment/sky/sky_material",
				func(ctx context.Context, in *SetNestedPropertyInput) (*schema.CallToolResult, *jsonrpc.Error) {
					return finish(svc.SetNestedProperty(ctx, in.NodeName, in.PropertyPath, in.Value, in.ValueType))
				})
		},
		func() error {
			return proto.RegisterTool[*SetMeshInput, *ToolOutput](h.Registry, "set_mesh",
				"Assign a primitive mesh to a MeshInstance3D node",
				func(ctx context.Context, in *SetMeshInput) (*schema.CallToolResult, *jsonrpc.Error) {
					return finish(svc.SetMesh(ctx, in.NodeName, in.MeshType, ShapeSpec{Radius: in.Radius, Height: in.Height, Size: in.Size}))
				})
		},
		func() error {
			return proto.RegisterTool[*SetCollisionShapeInput, *ToolOutput](h.Registry, "set_collision_shape",
				"Assign a collision shape to a CollisionShape node",
				func(ctx context.Context, in *SetCollisionShapeInput) (*schema.CallToolResult, *jsonrpc.Error) {
					return finish(svc.SetCollisionShape(ctx, in.NodeName, in.ShapeType, ShapeSpec{Radius: in.Radius, Height: in.Height, Size: in.Size}))
				})
		},

		// Script tools.
		func() error {
			return proto.RegisterTool[*ViewScriptInput, *ToolOutput](h.Registry, "view_script",
				"Read the contents of a script file",
				func(ctx context.Context, in *ViewScriptInput) (*schema.CallToolResult, *jsonrpc.Error) {
					return finish(svc.ViewScript(ctx, in.ScriptPath, boolOrDefault(in.RequireExists, true)))
				})
		},
		func() error {
			return proto.RegisterTool[*CreateScriptInput, *ToolOutput](h.Registry, "create_script",
				"Create a new GDScript file",
				func(ctx context.Context, in *CreateScriptInput) (*schema.CallToolResult, *jsonrpc.Error) {
					return finish(svc.CreateScript(ctx, ScriptSpec{
						Name:      in.ScriptName,
						Type:      in.ScriptType,
						ClassName: in.ClassName,
						Folder:    in.ScriptFolder,
						Overwrite: in.Overwrite,
						Content:   in.Content,
					}))
				})
		},
		func() error {
			return proto.RegisterTool[*UpdateScriptInput, *ToolOutput](h.Registry, "update_script",
				"Replace the contents of a script file",
				func(ctx context.Context, in *UpdateScriptInput) (*schema.CallToolResult, *jsonrpc.Error) {
					return finish(svc.UpdateScript(ctx, in.ScriptPath, in.Content, in.CreateIfMissing, in.CreateFolderIfMissing))
				})
		},
		func() error {
			return proto.RegisterTool[*FolderInput, *ToolOutput](h.Registry, "list_scripts",
				"List script files under a project folder",
				func(ctx context.Context, in *FolderInput) (*schema.CallToolResult, *jsonrpc.Error) {
					return finish(svc.ListScripts(ctx, in.FolderPath))
				})
		},

		// Material tools.
		func() error {
			return proto.RegisterTool[*SetMaterialInput, *ToolOutput](h.Registry, "set_material",
				"Apply or create a material on an object",
				func(ctx context.Context, in *SetMaterialInput) (*schema.CallToolResult, *jsonrpc.Error) {
					return finish(svc.SetMaterial(ctx, in.ObjectName, in.MaterialName, in.Color, boolOrDefault(in.CreateIfMissing, true)))
				})
		},
		func() error {
			return proto.RegisterTool[*FolderInput, *ToolOutput](h.Registry, "list_materials",
				"List material assets under a folder",
				func(ctx context.Context, in *FolderInput) (*schema.CallToolResult, *jsonrpc.Error) {
					return finish(svc.ListMaterials(ctx, in.FolderPath))
				})
		},

		// Asset tools.
		func() error {
			return proto.RegisterTool[*AssetListInput, *ToolOutput](h.Registry, "get_asset_list",
				"List project assets, optionally filtered by type and name pattern",
				func(ctx context.Context, in *AssetListInput) (*schema.CallToolResult, *jsonrpc.Error) {
					return finish(svc.AssetList(ctx, in.Type, in.SearchPattern, in.Folder))
				})
		},
		func() error {
			return proto.RegisterTool[*ImportAssetInput, *ToolOutput](h.Registry, "import_asset",
				"Import an external file into the project",
				func(ctx context.Context, in *ImportAssetInput) (*schema.CallToolResult, *jsonrpc.Error) {
					return finish(svc.ImportAsset(ctx, in.SourcePath, in.TargetPath, in.Overwrite))
				})
		},
		func() error {
			return proto.RegisterTool[*CreatePrefabInput, *ToolOutput](h.Registry, "create_prefab",
				"Save a scene node as a packed scene file",
				func(ctx context.Context, in *CreatePrefabInput) (*schema.CallToolResult, *jsonrpc.Error) {
					return finish(svc.CreatePrefab(ctx, in.ObjectName, in.PrefabPath, in.Overwrite))
				})
		},
		func() error {
			return proto.RegisterTool[*InstantiatePrefabInput, *ToolOutput](h.Registry, "instantiate_prefab",
				"Instantiate a packed scene into the current scene",
				func(ctx context.Context, in *InstantiatePrefabInput) (*schema.CallToolResult, *jsonrpc.Error) {
					return finish(svc.InstantiatePrefab(ctx, in.PrefabPath,
						[3]float64{in.PositionX, in.PositionY, in.PositionZ},
						[3]float64{in.RotationX, in.RotationY, in.RotationZ}))
				})
		},

		// Editor tools.
		func() error {
			return proto.RegisterTool[*EditorActionInput, *ToolOutput](h.Registry, "editor_action",
				"Run an editor command: PLAY, STOP, or SAVE",
				func(ctx context.Context, in *EditorActionInput) (*schema.CallToolResult, *jsonrpc.Error) {
					return finish(svc.EditorAction(ctx, in.Command))
				})
		},
		func() error {
			return proto.RegisterTool[*EmptyInput, *ToolOutput](h.Registry, "play_scene",
				"Run the current scene in the editor",
				func(ctx context.Context, in *EmptyInput) (*schema.CallToolResult, *jsonrpc.Error) {
					return finish(svc.EditorAction(ctx, "PLAY"))
				})
		},
		func() error {
			return proto.RegisterTool[*EmptyInput, *ToolOutput](h.Registry, "stop_scene",
				"Stop the scene running in the editor",
				func(ctx context.Context, in *EmptyInput) (*schema.CallToolResult, *jsonrpc.Error) {
					return finish(svc.EditorAction(ctx, "STOP"))
				})
		},
		func() error {
			return proto.RegisterTool[*EmptyInput, *ToolOutput](h.Registry, "save_all",
				"Save all open scenes and resources",
				func(ctx context.Context, in *EmptyInput) (*schema.CallToolResult, *jsonrpc.Error) {
					return finish(svc.EditorAction(ctx, "SAVE"))
				})
		},
		func() error {
			return proto.RegisterTool[*ShowMessageInput, *ToolOutput](h.Registry, "show_message",
				"Show a message dialog in the editor",
				func(ctx context.Context, in *ShowMessageInput) (*schema.CallToolResult, *jsonrpc.Error) {
					return finish(svc.ShowMessage(ctx, in.Title, in.Message, in.Type))
				})
		},

		// Meshy tools.
		func() error {
			return proto.RegisterTool[*GenerateMeshFromTextInput, *ToolOutput](h.Registry, "generate_mesh_from_text",
				"Generate a preview-quality 3D mesh from a text prompt via the Meshy API",
				func(ctx context.Context, in *GenerateMeshFromTextInput) (*schema.CallToolResult, *jsonrpc.Error) {
					return finish(svc.GenerateMeshFromText(ctx, TextMeshSpec{
						Prompt:         in.Prompt,
						Name:           in.Name,
						ArtStyle:       in.ArtStyle,
						NegativePrompt: in.NegativePrompt,
						ShouldRemesh:   boolOrDefault(in.ShouldRemesh, true),
						Import:         boolOrDefault(in.ImportToGodot, true),
					}))
				})
		},
		func() error {
			return proto.RegisterTool[*GenerateMeshFromImageInput, *ToolOutput](h.Registry, "generate_mesh_from_image",
				"Generate a 3D mesh from an image URL via the Meshy API",
				func(ctx context.Context, in *GenerateMeshFromImageInput) (*schema.CallToolResult, *jsonrpc.Error) {
					return finish(svc.GenerateMeshFromImage(ctx, in.ImageURL, in.Name, boolOrDefault(in.ImportToGodot, true)))
				})
		},
		func() error {
			return proto.RegisterTool[*TaskIDInput, *ToolOutput](h.Registry, "check_mesh_generation_progress",
				"Check the progress of a mesh generation task",
				func(ctx context.Context, in *TaskIDInput) (*schema.CallToolResult, *jsonrpc.Error) {
					return finish(svc.CheckMeshProgress(ctx, in.TaskID))
				})
		},
		func() error {
			return proto.RegisterTool[*RefineMeshInput, *ToolOutput](h.Registry, "refine_generated_mesh",
				"Refine a preview mesh into a high-quality textured version; consumes Meshy API credits",
				func(ctx context.Context, in *RefineMeshInput) (*schema.CallToolResult, *jsonrpc.Error) {
					return finish(svc.RefineMesh(ctx, in.TaskID, in.Name, boolOrDefault(in.ImportToGodot, true)))
				})
		},
		func() error {
			return proto.RegisterTool[*DownloadMeshInput, *ToolOutput](h.Registry, "download_and_import_mesh",
				"Download a mesh from a URL and import it into the project",
				func(ctx context.Context, in *DownloadMeshInput) (*schema.CallToolResult, *jsonrpc.Error) {
					return finish(svc.DownloadAndImportMesh(ctx, in.DownloadURL, in.Name))
				})
		},
	}
	for _, register := range regs {
		if err := register(); err != nil {
			return err
		}
	}
	return nil
}

func (in *CreateObjectInput) spec() ObjectSpec {
	return ObjectSpec{
		Type:            in.Type,
		Name:            in.Name,
		Location:        in.Location,
		Rotation:        in.Rotation,
		Scale:           in.Scale,
		ReplaceIfExists: in.ReplaceIfExists,
	}
}
