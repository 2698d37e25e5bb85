package credentials

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"runtime"

	"github.com/joho/godotenv"
)

// EnvReader reads environment variables.
type EnvReader interface {
	LookupEnv(name string) (string, bool)
}

// FileReader reads whole files.
type FileReader interface {
	ReadFile(path string) ([]byte, error)
}

// ShellResult is the outcome of a command that ran to completion.
type ShellResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Shell runs a command line. An error means the command could not be run
// at all; a failing command is reported through ExitCode.
type Shell interface {
	Exec(ctx context.Context, command string) (ShellResult, error)
}

// Host groups the collaborators resolvers may use.
type Host struct {
	Env   EnvReader
	Files FileReader
	Shell Shell
}

// Env reads the process environment, falling back to values loaded from
// dotenv files. The process environment always wins.
type Env struct {
	overlay map[string]string
}

// NewEnv loads the given dotenv files. Files that do not exist are skipped.
func NewEnv(dotenvFiles ...string) (*Env, error) {
	var existing []string
	for _, f := range dotenvFiles {
		if _, err := os.Stat(f); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		existing = append(existing, f)
	}

	e := &Env{overlay: map[string]string{}}
	if len(existing) == 0 {
		return e, nil
	}
	overlay, err := godotenv.Read(existing...)
	if err != nil {
		return nil, fmt.Errorf("loading dotenv files: %w", err)
	}
	e.overlay = overlay
	return e, nil
}

// LookupEnv implements EnvReader.
func (e *Env) LookupEnv(name string) (string, bool) {
	if v, ok := os.LookupEnv(name); ok {
		return v, true
	}
	v, ok := e.overlay[name]
	return v, ok
}

// OSFiles reads from the local file system.
type OSFiles struct{}

// ReadFile implements FileReader.
func (OSFiles) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// ExecShell runs commands through the platform shell.
type ExecShell struct{}

// Exec implements Shell.
func (ExecShell) Exec(ctx context.Context, command string) (ShellResult, error) {
	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.CommandContext(ctx, "cmd", "/C", command)
	} else {
		cmd = exec.CommandContext(ctx, "sh", "-c", command)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return ShellResult{ExitCode: exitErr.ExitCode(), Stdout: stdout.String(), Stderr: stderr.String()}, nil
	}
	if err != nil {
		return ShellResult{}, err
	}
	return ShellResult{Stdout: stdout.String(), Stderr: stderr.String()}, nil
}

// LocalHost returns collaborators backed by the local machine.
func LocalHost(env EnvReader) Host {
	return Host{Env: env, Files: OSFiles{}, Shell: ExecShell{}}
}
