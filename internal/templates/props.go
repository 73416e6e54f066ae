package templates

// BaseScriptProps drives the composed build script.
type BaseScriptProps struct {
	OsPackagesToInstall        []string
	PlatformInstallationScript string
	// BenvArgs is "platform=version" pairs handed to the image's benv helper.
	BenvArgs            string
	BuildScriptSnippets []string
	PreBuildCommand     string
	PostBuildCommand    string

	DirectoriesToExcludeFromCopyToIntermediateDir []string
	DirectoriesToExcludeFromCopyToBuildOutputDir  []string

	ManifestFileName string
	ManifestDir      string
	BuildProperties  map[string]string

	CopySourceDirectoryContentToDestinationDirectory bool

	OutputDirectoryIsNested bool
	// NestedOutputPath is the destination relative to the source directory.
	NestedOutputPath string
}

// InstallProps drives the generic SDK download snippet.
type InstallProps struct {
	PlatformName       string
	Version            string
	DirectoryToInstall string
	BaseURL            string
	ChecksumHeader     string
	SentinelFileName   string
}

// DotNetInstallProps drives the .NET snippet: the SDK is installed with the
// generic snippet and the runtime directory records which SDK serves it.
type DotNetInstallProps struct {
	SdkInstallScript string
	SdkVersion       string
	RuntimeDir       string
	SentinelFileName string
}

// HugoInstallProps drives the Hugo release download.
type HugoInstallProps struct {
	Version            string
	DirectoryToInstall string
	TarFileName        string
	DownloadURL        string
	SentinelFileName   string
}

// SetupEnvironmentProps drives the prep command's script.
type SetupEnvironmentProps struct {
	InstallSnippets []string
}

// PythonSnippetProps drives the Python build steps.
type PythonSnippetProps struct {
	VirtualEnvironmentName       string
	VirtualEnvironmentModule     string
	VirtualEnvironmentParams     string
	PackagesDirectory            string
	RequirementsTxtPath          string
	CompressVirtualEnvCommand    string
	CompressedVirtualEnvFileName string
	EnableCollectStatic          bool
}

// NodeSnippetProps drives the Node build steps.
type NodeSnippetProps struct {
	PackageInstallCommand string
	NpmRunBuildCommand    string
	HasYarnLock           bool
}

// DotNetSnippetProps drives dotnet publish.
type DotNetSnippetProps struct {
	ProjectFile   string
	Configuration string
}

// PhpSnippetProps drives composer install.
type PhpSnippetProps struct {
	HasComposerJSON bool
}

// HugoSnippetProps drives the site build.
type HugoSnippetProps struct {
	ConfigFile string
}
