package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/specialistvlad/porterlens/internal/ctxlog"
	"gopkg.in/yaml.v3"
)

// Loader reads launch configurations.
type Loader interface {
	Load(ctx context.Context, path string) (*Launch, error)
}

var (
	launchValidate *validator.Validate
	actionName     = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)
)

func init() {
	launchValidate = validator.New()
	_ = launchValidate.RegisterValidation("actionname", func(fl validator.FieldLevel) bool {
		return actionName.MatchString(fl.Field().String())
	})
}

// FileLoader reads a launch file from disk. A relative porter-file is
// resolved against the launch file's directory.
type FileLoader struct{}

// Load implements Loader.
func (FileLoader) Load(ctx context.Context, path string) (*Launch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading launch configuration: %w", err)
	}
	l, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if !filepath.IsAbs(l.PorterFile) {
		l.PorterFile = filepath.Join(filepath.Dir(path), l.PorterFile)
	}
	ctxlog.FromContext(ctx).Debug("Loaded launch configuration.", "path", path, "porterFile", l.PorterFile)
	return l, nil
}

// Decode parses and validates a launch configuration. JSON is accepted as
// YAML. Unknown fields are rejected.
func Decode(data []byte) (*Launch, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var l Launch
	if err := dec.Decode(&l); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("launch configuration is empty")
		}
		return nil, fmt.Errorf("decoding launch configuration: %w", err)
	}
	if err := launchValidate.Struct(&l); err != nil {
		return nil, fmt.Errorf("invalid launch configuration: %w", err)
	}
	return &l, nil
}

// ForManifest builds the launch used when a manifest is debugged directly.
func ForManifest(path string) *Launch {
	return &Launch{Name: "Launch", Type: "porter", Request: "launch", PorterFile: path}
}
