// Package build orchestrates one invocation end to end.
//
// DefaultBuildService creates the per-run repository context (operation id,
// source commit), asks the compose.Generator for a build script, writes it
// into a workspace and runs it through the executor with the SOURCE_DIR,
// DESTINATION_DIR and INTERMEDIATE_DIR arguments. Prepare does the same for
// the environment-setup script, which only installs SDKs.
//
// Failures are returned as OryxErrors; a script that exits non-zero yields a
// build-category error carrying the script's own exit code.
package build
