// Package files discovers the yearly accident exports.
//
// Discovery resolves the configured input directories against a base path
// and returns one domain.InputFile per existing acidentes<year>.csv, in
// directory then year order. Files that match the naming convention for a
// year outside the configured set are reported by FindIgnored so they can
// be logged.
//
// Example usage:
//
//	discovery := files.NewDiscovery("/path/to/base")
//	inputs, err := discovery.FindYearFiles([]string{"."}, []int{2024, 2025}, "acidentes%d.csv")
package files
