// Package platform defines the capability every supported runtime implements
// and the registry the build pipeline iterates.
//
// Pipeline code only ever talks to the Platform interface. Concrete platforms
// live in sub-packages and share the version and install plumbing in Base.
package platform
