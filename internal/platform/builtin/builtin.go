// Package builtin wires the platforms that ship with the binary.
package builtin

import (
	"github.com/nitrek/Oryx/internal/config"
	"github.com/nitrek/Oryx/internal/installer"
	"github.com/nitrek/Oryx/internal/platform"
	"github.com/nitrek/Oryx/internal/platform/dotnet"
	"github.com/nitrek/Oryx/internal/platform/hugo"
	"github.com/nitrek/Oryx/internal/platform/nodejs"
	"github.com/nitrek/Oryx/internal/platform/php"
	"github.com/nitrek/Oryx/internal/platform/python"
	"github.com/nitrek/Oryx/internal/versions"
)

// NewRegistry returns every built-in platform in registration order, each
// with its catalog after configuration overrides.
func NewRegistry(opts *config.Options, inst *installer.Installer) (*platform.Registry, error) {
	constructors := []struct {
		name string
		new  func(versions.Catalog) platform.Platform
	}{
		{config.PlatformDotNet, func(c versions.Catalog) platform.Platform { return dotnet.New(opts, c, inst) }},
		{config.PlatformNodeJS, func(c versions.Catalog) platform.Platform { return nodejs.New(opts, c, inst) }},
		{config.PlatformPython, func(c versions.Catalog) platform.Platform { return python.New(opts, c, inst) }},
		{config.PlatformPHP, func(c versions.Catalog) platform.Platform { return php.New(opts, c, inst) }},
		{config.PlatformHugo, func(c versions.Catalog) platform.Platform { return hugo.New(opts, c, inst) }},
	}

	registry := platform.NewRegistry()
	for _, ctor := range constructors {
		catalog, err := versions.ForPlatform(ctor.name, opts)
		if err != nil {
			return nil, err
		}
		registry.Register(ctor.new(catalog))
	}
	return registry, nil
}
