// Package provision ensures the subordinate binary is present before
// supervision begins. It is deliberately decoupled from the invoker:
// by the time Invoke runs, the binary either exists or the launch
// fails on its own terms.
package provision

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"
)

// DefaultBuildTimeout bounds how long the build step may run.
const DefaultBuildTimeout = 2 * time.Minute

// Provisioner makes sure an executable exists at a path.
type Provisioner interface {
	// Ensure returns nil when an executable file exists at path,
	// building it first if it can.
	Ensure(ctx context.Context, path string) error
}

// BinaryProvisioner stats the target path and, when the binary is
// absent and a build command is configured, runs the build once with
// its output suppressed. The suppression is intentional: the caller
// only cares whether the binary exists afterwards.
type BinaryProvisioner struct {
	buildArgv    []string
	buildTimeout time.Duration
	logger       *slog.Logger
}

// Config holds configuration for creating a new BinaryProvisioner.
type Config struct {
	// BuildArgv is the command run to produce the binary when it is
	// missing. Empty means provisioning can only verify, not build.
	BuildArgv []string

	// BuildTimeout bounds the build step. Zero means DefaultBuildTimeout.
	BuildTimeout time.Duration

	Logger *slog.Logger
}

// New creates a new BinaryProvisioner.
func New(cfg Config) *BinaryProvisioner {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.BuildTimeout
	if timeout <= 0 {
		timeout = DefaultBuildTimeout
	}
	return &BinaryProvisioner{
		buildArgv:    cfg.BuildArgv,
		buildTimeout: timeout,
		logger:       logger,
	}
}

// Ensure verifies that path names an executable file, building it when
// absent and a build command is configured.
func (p *BinaryProvisioner) Ensure(ctx context.Context, path string) error {
	info, err := os.Stat(path)
	switch {
	case err == nil:
		if info.IsDir() {
			return fmt.Errorf("%s is a directory, not an executable", path)
		}
		if info.Mode()&0o111 == 0 {
			return fmt.Errorf("%s exists but is not executable", path)
		}
		return nil
	case !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("stat %s: %w", path, err)
	}

	if len(p.buildArgv) == 0 {
		return fmt.Errorf("%s does not exist and no build command is configured", path)
	}

	return p.build(ctx, path)
}

// build runs the configured build command and verifies it produced the
// binary.
func (p *BinaryProvisioner) build(ctx context.Context, path string) error {
	ctx, cancel := context.WithTimeout(ctx, p.buildTimeout)
	defer cancel()

	p.logger.Info("building_subordinate",
		"path", path,
		"build_cmd", strings.Join(p.buildArgv, " "),
		"timeout", p.buildTimeout.String(),
	)

	start := time.Now()
	cmd := exec.CommandContext(ctx, p.buildArgv[0], p.buildArgv[1:]...)
	// stdout and stderr stay at /dev/null.
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("build command %q: %w", strings.Join(p.buildArgv, " "), err)
	}

	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("build command succeeded but %s still does not exist", path)
	}

	p.logger.Info("subordinate_built",
		"path", path,
		"elapsed", time.Since(start).String(),
	)
	return nil
}
