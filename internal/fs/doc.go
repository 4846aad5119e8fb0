// Package fs abstracts the file operations of local blob writes so tests can
// inject failures.
//
//   - [LocalFS]: production implementation using the os package
//   - [FaultyFS]: test wrapper failing writes, syncs, closes or renames of
//     files matching a name pattern
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule(".tmp-", fs.Fault{FailAfterBytes: -1, FailOnSync: true})
package fs
