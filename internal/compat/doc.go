// Package compat runs platform detection and decides which detected platforms
// take part in a build.
//
// Detection is bulkheaded: a detector that fails or panics is logged and
// treated as "not detected", so one broken platform never blocks the others.
// Errors that describe a user mistake (an unsupported version, conflicting
// options) still end the build.
package compat
