// Package log provides a simple, leveled logging interface for the FlowDAG
// execution engine.
//
// The Logger interface has four printf-style methods (Debug, Info, Warn,
// Error) and two bundled implementations: DefaultLogger on Go's standard log
// package and GologLogger wrapping github.com/kataras/golog. A package-level
// default logger lets hosts enable engine logging globally:
//
//	log.SetDefaultLogger(log.NewDefaultLogger(log.LogLevelDebug))
//
// or plug in golog:
//
//	glogger := golog.New()
//	log.SetDefaultLogger(log.NewGologLogger(glogger))
//
// The engine logs through whatever Logger an Options carries, falling back
// to the package default; pass a NoOpLogger to silence a single run.
package log
