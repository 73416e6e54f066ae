// Package installer decides whether a platform SDK version is already present
// and otherwise produces the script fragment that installs it.
//
// A dynamic install is complete only when its version directory holds the
// sentinel file. The generated fragment writes the sentinel as its very last
// step, after the archive has been downloaded, checksum-verified and
// extracted, so a directory left behind by an interrupted build is never
// mistaken for a usable SDK.
package installer
