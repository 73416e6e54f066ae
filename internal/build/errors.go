package build

import "errors"

// Sentinel errors for the orchestration stages. They are always wrapped into
// an OryxError at the call site so the CLI can pick an exit code.
var (
	ErrNoPlatformsDetected = errors.New("oryx: no platforms detected")
	ErrUnknownPlatform     = errors.New("oryx: unknown platform")
	ErrScriptFailed        = errors.New("oryx: script exited with non-zero code")
)
