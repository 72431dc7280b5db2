// Package files provides file-related functionality organized into sub-packages.
//
//   - filesystem: filesystem abstraction (OS and in-memory)
//   - scanner: discovery of CSV inputs in a directory
//
// # Usage
//
//	fsys := filesystem.NewOSFileSystem()
//	paths, err := scanner.NewScanner(fsys).ListCSV("./exports")
package files
