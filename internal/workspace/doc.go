// Package workspace manages the temporary directory a build writes its
// generated scripts into.
//
// Ephemeral mode creates a fresh directory (e.g. oryx-20200401-101500-1a2b3c4d)
// under the system temp dir and removes it on Cleanup.
//
// Fixed mode uses a caller supplied directory (--temp-dir) and leaves it in
// place, so the generated scripts can be inspected after the build.
package workspace
