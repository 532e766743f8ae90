package tools

import (
	"context"
	"strings"
)

// ViewScript returns the contents of a script file.
func (s *Service) ViewScript(ctx context.Context, path string, requireExists bool) (string, error) {
	result, err := s.editor.SendCommand(ctx, "VIEW_SCRIPT", map[string]any{
		"script_path":    resPath(path, ".gd"),
		"require_exists": requireExists,
	})
	if err != nil {
		return "", err
	}
	if exists, ok := result["exists"].(bool); ok && !exists {
		return commandMessage(result, "Script not found"), nil
	}
	if content, ok := result["content"].(string); ok {
		return content, nil
	}
	return "Script contents not available", nil
}

// ScriptSpec describes a script to create.
type ScriptSpec struct {
	Name      string
	Type      string // base class to extend, default Node
	ClassName string // optional class_name declaration
	Folder    string
	Overwrite bool
	Content   string // optional custom body
}

// CreateScript creates a new GDScript file in the project.
func (s *Service) CreateScript(ctx context.Context, spec ScriptSpec) (string, error) {
	name := spec.Name
	if !strings.HasSuffix(name, ".gd") {
		name += ".gd"
	}
	folder := spec.Folder
	if folder == "" {
		folder = "res://scripts"
	}
	if !strings.HasPrefix(folder, "res://") {
		folder = "res://" + folder
	}
	scriptType := spec.Type
	if scriptType == "" {
		scriptType = "Node"
	}
	params := map[string]any{
		"script_name":   name,
		"script_type":   scriptType,
		"script_folder": folder,
		"overwrite":     spec.Overwrite,
	}
	if spec.ClassName != "" {
		params["namespace"] = spec.ClassName
	}
	if spec.Content != "" {
		params["content"] = spec.Content
	}
	result, err := s.editor.SendCommand(ctx, "CREATE_SCRIPT", params)
	if err != nil {
		return "", err
	}
	return commandMessage(result, "Script created successfully"), nil
}

// UpdateScript replaces the contents of a script file.
func (s *Service) UpdateScript(ctx context.Context, path, content string, createIfMissing, createFolderIfMissing bool) (string, error) {
	result, err := s.editor.SendCommand(ctx, "UPDATE_SCRIPT", map[string]any{
		"script_path":              resPath(path, ".gd"),
		"content":                  content,
		"create_if_missing":        createIfMissing,
		"create_folder_if_missing": createFolderIfMissing,
	})
	if err != nil {
		return "", err
	}
	return commandMessage(result, "Script updated successfully"), nil
}

// ListScripts lists script files under a project folder.
func (s *Service) ListScripts(ctx context.Context, folder string) (string, error) {
	if folder == "" {
		folder = "res://"
	}
	if !strings.HasPrefix(folder, "res://") {
		folder = "res://" + folder
	}
	result, err := s.editor.SendCommand(ctx, "LIST_SCRIPTS", map[string]any{"folder_path": folder})
	if err != nil {
		return "", err
	}
	scripts, _ := result["scripts"].([]any)
	if len(scripts) == 0 {
		return "No scripts found in the specified folder", nil
	}
	lines := make([]string, 0, len(scripts))
	for _, script := range scripts {
		if path, ok := script.(string); ok {
			lines = append(lines, path)
		}
	}
	return strings.Join(lines, "\n"), nil
}
