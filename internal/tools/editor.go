package tools

import (
	"context"
	"fmt"
	"strings"
)

// EditorAction runs an editor-level command: PLAY, STOP, or SAVE.
func (s *Service) EditorAction(ctx context.Context, command string) (string, error) {
	command = strings.ToUpper(command)
	switch command {
	case "PLAY", "STOP", "SAVE":
	default:
		return fmt.Sprintf("Invalid command %q. Valid commands are PLAY, STOP, SAVE", command), nil
	}
	result, err := s.editor.SendCommand(ctx, "EDITOR_CONTROL", map[string]any{"command": command})
	if err != nil {
		return "", err
	}
	return commandMessage(result, fmt.Sprintf("Editor command %q executed", command)), nil
}

// ShowMessage pops a dialog in the editor. msgType is INFO, WARNING,
// or ERROR.
func (s *Service) ShowMessage(ctx context.Context, title, message, msgType string) (string, error) {
	if msgType == "" {
		msgType = "INFO"
	}
	msgType = strings.ToUpper(msgType)
	switch msgType {
	case "INFO", "WARNING", "ERROR":
	default:
		return fmt.Sprintf("Invalid message type %q. Valid types are INFO, WARNING, ERROR", msgType), nil
	}
	result, err := s.editor.SendCommand(ctx, "EDITOR_CONTROL", map[string]any{
		"command": "SHOW_MESSAGE",
		"params": map[string]any{
			"title":   title,
			"message": message,
			"type":    msgType,
		},
	})
	if err != nil {
		return "", err
	}
	return commandMessage(result, "Message shown in editor"), nil
}
