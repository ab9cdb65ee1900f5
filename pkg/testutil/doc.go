// Package testutil provides helpers shared by commander's tests.
//
// Key components:
//   - CreateFile: real filesystem fixtures under t.TempDir()
//   - MemFS: afero in-memory filesystems seeded from a path -> content map
//   - Terminal: an in-memory stream that claims to be (or not be) a TTY
//
// Usage guidelines:
//   - Prefer MemFS for command discovery tests
//   - All test data should be defined inline, not in external files
package testutil
