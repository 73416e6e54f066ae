package installer

import (
	"path/filepath"

	"github.com/nitrek/Oryx/internal/config"
	"github.com/nitrek/Oryx/internal/templates"
)

// .NET keeps SDKs and runtimes in separate trees. The runtime directory only
// records which SDK serves it and carries the sentinel.
func (i *Installer) dotnetDirs() (runtimes, sdks string) {
	root := filepath.Join(i.opts.DynamicInstallRootDir, config.PlatformDotNet)
	return filepath.Join(root, "runtimes"), filepath.Join(root, "sdks")
}

// IsDotNetInstalled checks the runtime, or the global.json SDK when one is
// pinned.
func (i *Installer) IsDotNetInstalled(runtimeVersion, globalJSONSdkVersion string) bool {
	builtIn := i.opts.Platform(config.PlatformDotNet).BuiltInDir
	runtimes, sdks := i.dotnetDirs()

	var installed bool
	if globalJSONSdkVersion == "" {
		installed = isVersionInstalled(runtimeVersion, filepath.Join(builtIn, "runtimes"), runtimes)
	} else {
		installed = isVersionInstalled(globalJSONSdkVersion, filepath.Join(builtIn, "sdks"), sdks)
	}
	i.recorder.IncInstallDecision(config.PlatformDotNet, installed)
	return installed
}

// DotNetInstallSnippet installs sdkVersion and marks runtimeVersion as served
// by it.
func (i *Installer) DotNetInstallSnippet(runtimeVersion, sdkVersion string) (string, error) {
	runtimes, sdks := i.dotnetDirs()
	sdkScript, err := i.InstallSnippet(config.PlatformDotNet, sdkVersion, filepath.Join(sdks, sdkVersion))
	if err != nil {
		return "", err
	}
	return templates.Render(templates.DotNetInstall, templates.DotNetInstallProps{
		SdkInstallScript: sdkScript,
		SdkVersion:       sdkVersion,
		RuntimeDir:       filepath.Join(runtimes, runtimeVersion),
		SentinelFileName: SentinelFileName,
	})
}
