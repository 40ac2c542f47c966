// Package shared holds helpers used by the tests of several packages.
//
// The testutil subpackage provides a capturing slog handler and writers
// for Latin-1 encoded accident exports shaped like the yearly PRF files.
package shared
