// Package doctor runs readiness diagnostics for config, logging, the
// editor connection, and the Meshy API key.
package doctor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gdbridge/internal/bridge"
	"gdbridge/internal/config"
	"gdbridge/internal/logging"
)

// Check is one doctor assertion result.
type Check struct {
	Name    string
	Pass    bool
	Message string
}

// Report is the full doctor output contract.
type Report struct {
	Checks []Check
}

// OK returns true when all checks pass.
func (r Report) OK() bool {
	for _, check := range r.Checks {
		if !check.Pass {
			return false
		}
	}
	return true
}

// String renders the report as user-facing text output.
func (r Report) String() string {
	var b strings.Builder
	for _, check := range r.Checks {
		status := "OK"
		if !check.Pass {
			status = "FAIL"
		}
		b.WriteString(fmt.Sprintf("[%s] %s: %s\n", status, check.Name, check.Message))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// pingTimeout bounds the editor reachability probe so doctor stays fast
// even when the editor port blackholes.
const pingTimeout = 3 * time.Second

// Run executes environment/config/runtime checks for a loaded config.
func Run(ctx context.Context, cfg config.Loaded) Report {
	checks := []Check{checkConfig(cfg)}
	checks = append(checks, checkLogPath())
	checks = append(checks, checkEditor(ctx, cfg.Config.Godot))
	checks = append(checks, checkMeshyKey(cfg.Config.Meshy))
	return Report{Checks: checks}
}

func checkConfig(cfg config.Loaded) Check {
	message := fmt.Sprintf("loaded %q", cfg.Path)
	if !cfg.Exists {
		message = fmt.Sprintf("no file at %q, using defaults", cfg.Path)
	}
	if len(cfg.Warnings) > 0 {
		notes := make([]string, 0, len(cfg.Warnings))
		for _, w := range cfg.Warnings {
			notes = append(notes, w.Message)
		}
		message += " (" + strings.Join(notes, "; ") + ")"
	}
	return Check{Name: "config", Pass: true, Message: message}
}

// checkLogPath verifies the log directory is creatable and writable.
func checkLogPath() Check {
	path, err := logging.DefaultPath()
	if err != nil {
		return Check{Name: "log.path", Pass: false, Message: fmt.Sprintf("cannot resolve log path: %v", err)}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Check{Name: "log.path", Pass: false, Message: fmt.Sprintf("cannot create %s: %v", filepath.Dir(path), err)}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return Check{Name: "log.path", Pass: false, Message: fmt.Sprintf("cannot write %s: %v", path, err)}
	}
	f.Close()
	return Check{Name: "log.path", Pass: true, Message: "writable at " + path}
}

// checkEditor pings the editor-side listener through a throwaway
// connector.
func checkEditor(ctx context.Context, cfg config.GodotConfig) Check {
	connector := bridge.NewConnector(cfg.Host, cfg.Port, pingTimeout, nil)
	defer connector.Close()

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := connector.Ping(ctx); err != nil {
		return Check{Name: "editor", Pass: false, Message: fmt.Sprintf("ping %s failed: %v", connector.Addr(), err)}
	}
	return Check{Name: "editor", Pass: true, Message: "editor answered ping at " + connector.Addr()}
}

// checkMeshyKey reports key presence. A missing key is not a failure:
// the mesh generation tools simply stay disabled.
func checkMeshyKey(cfg config.MeshyConfig) Check {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return Check{Name: "meshy.key", Pass: true, Message: "not set, mesh generation tools disabled"}
	}
	return Check{Name: "meshy.key", Pass: true, Message: "configured"}
}
