// Package redis provides Redis-backed storage for FlowDAG run records.
//
// Records are stored as JSON values under "<prefix>run:<id>", with a set per
// pipeline name ("<prefix>pipeline:<name>:runs") indexing the run IDs for
// listing. An optional TTL expires both the records and the index, which
// suits deployments that only need a recent audit window.
//
// # Basic Usage
//
//	runs := redis.NewRedisRunStore(redis.RedisOptions{
//		Addr:   "localhost:6379",
//		Prefix: "myapp:",
//		TTL:    24 * time.Hour,
//	})
//	defer runs.Close()
//
//	err := runs.Save(ctx, store.RecordOf("checkout", result))
package redis
