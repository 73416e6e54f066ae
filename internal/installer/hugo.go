package installer

import (
	"fmt"

	"github.com/nitrek/Oryx/internal/config"
	"github.com/nitrek/Oryx/internal/templates"
)

const hugoReleaseURLFormat = "https://github.com/gohugoio/hugo/releases/download/v%s/%s"

// HugoInstallSnippet downloads a Hugo release from GitHub. Releases carry no
// checksum header, so none is verified.
func (i *Installer) HugoInstallSnippet(version string) (string, error) {
	tarFile := fmt.Sprintf("hugo_extended_%s_Linux-64bit.tar.gz", version)
	return templates.Render(templates.HugoInstall, templates.HugoInstallProps{
		Version:            version,
		DirectoryToInstall: i.VersionDir(config.PlatformHugo, version),
		TarFileName:        tarFile,
		DownloadURL:        fmt.Sprintf(hugoReleaseURLFormat, version, tarFile),
		SentinelFileName:   SentinelFileName,
	})
}
