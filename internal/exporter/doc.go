// Package exporter persists the cleaned accident Dataset and the dashboard payloads.
//
// This package contains the following components:
//
// SnapshotWriter: Writes the Parquet snapshot consumed by the analyze stage,
// choosing a compression codec once through a capability probe. ReadSnapshot
// restores it with the original column order and kinds.
//
// JSONWriter: Writes dashboard payloads without HTML escaping.
//
// CSVWriter: Streams the Dataset in the source dialect (';' separated Latin-1).
//
// SQLiteExporter and WorkbookWriter: Optional copies for ad-hoc SQL and
// spreadsheet users.
//
// Example usage:
//
//	writer := exporter.NewSnapshotWriter("zstd", "snappy", logger)
//	if err := writer.Write(ctx, "acidentes_tratados.parquet", ds); err != nil {
//	    return err
//	}
//
//	ds, err := exporter.ReadSnapshot(ctx, "acidentes_tratados.parquet")
package exporter
