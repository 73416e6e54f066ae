// Package sourcerepo is the read-only view of an application's source tree
// that platform detectors and checkers consume.
//
// Local reads the file system and resolves the commit id with go-git.
// Memory backs detector tests without touching disk.
package sourcerepo
