// Package sqlite provides SQLite-backed storage for FlowDAG run records.
//
// Each record is stored as a JSON blob alongside indexed id/pipeline columns
// so listing stays cheap without a full relational schema. The table is
// created on first use.
//
// # Basic Usage
//
//	runs, err := sqlite.NewSqliteRunStore(sqlite.SqliteOptions{
//		Path: "flowdag.db",
//	})
//	if err != nil {
//		// ...
//	}
//	defer runs.Close()
//
//	err = runs.Save(ctx, store.RecordOf("checkout", result))
package sqlite
