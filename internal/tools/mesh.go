package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gdbridge/internal/meshy"
)

const meshyKeyHint = "Meshy API key not configured. Set MESHY_API_KEY or add it to the config file; " +
	"the test key msy_dummy_api_key_for_test_mode_12345678 works without consuming credits."

// TextMeshSpec are the parameters for preview text-to-3D generation.
type TextMeshSpec struct {
	Prompt         string
	Name           string
	ArtStyle       string
	NegativePrompt string
	ShouldRemesh   bool
	Import         bool // download and import the result into the project
}

// GenerateMeshFromText creates a preview-quality mesh from a prompt
// and optionally imports it. Refinement is a separate, credit-costing
// step and is never triggered from here.
func (s *Service) GenerateMeshFromText(ctx context.Context, spec TextMeshSpec) (string, error) {
	if s.meshy == nil || !s.meshy.HasKey() {
		return meshyKeyHint, nil
	}
	taskID, err := s.meshy.CreateTextTo3D(ctx, meshy.TextTo3DRequest{
		Prompt:         spec.Prompt,
		ArtStyle:       spec.ArtStyle,
		NegativePrompt: spec.NegativePrompt,
		ShouldRemesh:   spec.ShouldRemesh,
	})
	if err != nil {
		return "", err
	}
	s.logger.Info("text-to-3d task created", "task_id", taskID, "prompt", spec.Prompt)

	task, err := s.meshy.WaitTextTo3D(ctx, taskID, 0)
	if err != nil {
		return "", err
	}
	if task.Status == meshy.StatusFailed {
		return "Mesh generation failed: " + taskErrorMessage(task), nil
	}
	url := task.DownloadURL()
	if url == "" {
		return "No supported model format in completed task", nil
	}

	msg := fmt.Sprintf("Preview mesh generated successfully! Task ID: %s\nDownload URL: %s\n"+
		"Use refine_generated_mesh with this task id to create a high-quality textured version.", taskID, url)
	if !spec.Import {
		return msg, nil
	}
	imported, err := s.importMesh(ctx, url, spec.Name)
	if err != nil {
		return "", err
	}
	return msg + "\n\n" + imported, nil
}

// GenerateMeshFromImage creates a mesh from an image URL and
// optionally imports it.
func (s *Service) GenerateMeshFromImage(ctx context.Context, imageURL, name string, importMesh bool) (string, error) {
	if s.meshy == nil || !s.meshy.HasKey() {
		return meshyKeyHint, nil
	}
	taskID, err := s.meshy.CreateImageTo3D(ctx, imageURL)
	if err != nil {
		return "", err
	}
	s.logger.Info("image-to-3d task created", "task_id", taskID)

	task, err := s.meshy.WaitImageTo3D(ctx, taskID, 0)
	if err != nil {
		return "", err
	}
	if task.Status == meshy.StatusFailed {
		return "Image-to-3D generation failed: " + taskErrorMessage(task), nil
	}
	url := task.DownloadURL()
	if url == "" {
		return "No supported model format in completed task", nil
	}

	msg := "Mesh generated successfully from image! Download URL: " + url
	if !importMesh {
		return msg, nil
	}
	imported, err := s.importMesh(ctx, url, name)
	if err != nil {
		return "", err
	}
	return msg + "\n\n" + imported, nil
}

// CheckMeshProgress reports the state of a generation task.
func (s *Service) CheckMeshProgress(ctx context.Context, taskID string) (string, error) {
	if s.meshy == nil || !s.meshy.HasKey() {
		return meshyKeyHint, nil
	}
	task, err := s.meshy.TextTo3DTask(ctx, taskID)
	if err != nil {
		return "", err
	}
	switch task.Status {
	case meshy.StatusSucceeded:
		formats := make([]string, 0, len(task.ModelURLs))
		for format := range task.ModelURLs {
			formats = append(formats, format)
		}
		return fmt.Sprintf("Mesh generation completed successfully.\nTask ID: %s\nAvailable formats: %s",
			taskID, strings.Join(formats, ", ")), nil
	case meshy.StatusFailed:
		return fmt.Sprintf("Mesh generation failed for task %s: %s", taskID, taskErrorMessage(task)), nil
	case meshy.StatusPending:
		return fmt.Sprintf("Mesh generation is queued.\nTask ID: %s", taskID), nil
	case meshy.StatusInProgress:
		return fmt.Sprintf("Mesh generation in progress.\nTask ID: %s\nProgress: %d%%", taskID, task.Progress), nil
	default:
		return fmt.Sprintf("Unknown status for task %s: %s", taskID, task.Status), nil
	}
}

// RefineMesh refines a completed preview task into a high-quality
// textured mesh. This consumes API credits.
func (s *Service) RefineMesh(ctx context.Context, previewTaskID, name string, importMesh bool) (string, error) {
	if s.meshy == nil || !s.meshy.HasKey() {
		return meshyKeyHint, nil
	}
	refineID, err := s.meshy.Refine(ctx, previewTaskID)
	if err != nil {
		return "", err
	}
	s.logger.Info("refine task created", "task_id", refineID, "preview_task_id", previewTaskID)

	task, err := s.meshy.WaitTextTo3D(ctx, refineID, 0)
	if err != nil {
		return "", err
	}
	if task.Status == meshy.StatusFailed {
		return "Mesh refinement failed: " + taskErrorMessage(task), nil
	}
	url := task.DownloadURL()
	if url == "" {
		return "No supported model format in refined task", nil
	}

	msg := "Mesh refined successfully! Download URL: " + url
	if !importMesh {
		return msg + "\nRefinement task ID: " + refineID +
			"\nThe refined mesh was not imported; use download_and_import_mesh to add it to the project.", nil
	}
	imported, err := s.importMesh(ctx, url, name)
	if err != nil {
		return "", err
	}
	return msg + "\n\n" + imported, nil
}

// DownloadAndImportMesh fetches a model from a URL and imports it into
// the project's generated-mesh folder.
func (s *Service) DownloadAndImportMesh(ctx context.Context, url, name string) (string, error) {
	// Downloading needs no API key, but it does need the client, which is
	// only constructed when a key is configured.
	if s.meshy == nil {
		return meshyKeyHint, nil
	}
	return s.importMesh(ctx, url, name)
}

// importMesh downloads a model file to a temp location and asks the
// editor to copy it into the project.
func (s *Service) importMesh(ctx context.Context, url, name string) (string, error) {
	if name == "" {
		name = fmt.Sprintf("GeneratedMesh_%d", time.Now().Unix())
	}
	filename := safeFileName(name) + meshExtension(url)
	localPath := filepath.Join(os.TempDir(), filename)

	if err := s.meshy.Download(ctx, url, localPath); err != nil {
		return "", err
	}
	defer os.Remove(localPath)

	targetPath := s.assets.ImportPath + filename
	result, err := s.editor.SendCommand(ctx, "IMPORT_ASSET", map[string]any{
		"source_path": localPath,
		"target_path": targetPath,
		"overwrite":   true,
	})
	if err != nil {
		return "", err
	}
	return commandMessage(result, fmt.Sprintf("Mesh downloaded to %s", targetPath)), nil
}

func taskErrorMessage(task *meshy.Task) string {
	if task.TaskError != nil && task.TaskError.Message != "" {
		return task.TaskError.Message
	}
	return "unknown error"
}

// safeFileName strips characters that are unsafe in asset filenames.
func safeFileName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return fmt.Sprintf("GeneratedMesh_%d", time.Now().Unix())
	}
	return b.String()
}

func meshExtension(url string) string {
	lower := strings.ToLower(url)
	for _, ext := range []string{".glb", ".fbx", ".obj"} {
		if strings.Contains(lower, ext) {
			return ext
		}
	}
	return ".glb"
}
