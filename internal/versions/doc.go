// Package versions holds per-platform SDK version catalogs and resolves a
// requested version specifier to one concrete catalog entry.
//
// Resolution first matches the request as a semantic version range against
// the final (letter free) versions and takes the highest match. When nothing
// matches, preview versions such as 3.8.0b3 that start with the requested
// string are considered, greatest first.
package versions
