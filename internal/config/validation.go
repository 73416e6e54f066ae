package config

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	oerrors "github.com/nitrek/Oryx/internal/errors"
	"github.com/nitrek/Oryx/internal/util/paths"
)

var fold = cases.Fold()

// NormalizeAppType folds an app type for comparison; unknown values come back
// unchanged so Validate can report them verbatim.
func NormalizeAppType(v string) string {
	f := fold.String(strings.TrimSpace(v))
	switch f {
	case AppTypeFunctions, AppTypeStaticSites:
		return f
	}
	return v
}

// Validate enforces the cross-field rules of a build invocation.
func (o *Options) Validate() error {
	if o.PlatformName == "" && o.PlatformVersion != "" {
		return oerrors.ValidationFailed("platform-version",
			"cannot use platform version without specifying platform name also")
	}

	if o.AppType != "" {
		at := NormalizeAppType(o.AppType)
		if at != AppTypeFunctions && at != AppTypeStaticSites {
			return oerrors.ValidationFailed("apptype",
				fmt.Sprintf("invalid value '%s' for --apptype, only permitted values are '%s' or '%s'",
					o.AppType, AppTypeStaticSites, AppTypeFunctions))
		}
		o.AppType = at
	}

	if o.IntermediateDir != "" {
		if paths.Same(o.IntermediateDir, o.SourceDir) {
			return oerrors.ValidationFailed("intermediate-dir",
				fmt.Sprintf("intermediate directory '%s' cannot be same as the source directory '%s'",
					o.IntermediateDir, o.SourceDir))
		}
		if paths.IsSubDirectory(o.IntermediateDir, o.SourceDir) {
			return oerrors.ValidationFailed("intermediate-dir",
				fmt.Sprintf("intermediate directory '%s' cannot be a sub-directory of source directory '%s'",
					o.IntermediateDir, o.SourceDir))
		}
	}

	if o.PreBuildCommand != "" && o.PreBuildScriptPath != "" {
		return oerrors.InvalidUsage("only one of pre-build command and pre-build script path can be set")
	}
	if o.PostBuildCommand != "" && o.PostBuildScriptPath != "" {
		return oerrors.InvalidUsage("only one of post-build command and post-build script path can be set")
	}
	return nil
}
