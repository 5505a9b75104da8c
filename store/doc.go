// Package store defines persistence of finished pipeline run records.
//
// The engine itself has no storage; hosts that want an audit trail build a
// RunRecord from an ExecutionResult and hand it to a RunStore:
//
//	res, _ := p.Execute(ctx, inputs)
//	rec := store.RecordOf("checkout-pipeline", res)
//	if err := runStore.Save(ctx, rec); err != nil {
//		// ...
//	}
//
// Backends live in subpackages: memory (tests and single-process use), file
// (JSON files on disk), redis, sqlite and postgres. All implement RunStore
// and are safe for concurrent use.
//
// Graph definitions are never persisted here; the surrounding platform owns
// graph serialization and versioning.
package store
