// Package fixedarray bridges typed fixed arrays and strided foreign buffers.
//
// An array holds N elements (or a width × height grid) of a primitive type,
// each a scalar or a vector of up to four components, in one contiguous block:
//
//	a, _ := array.New(dtype.Float32, 3, 20)    // twenty float32 3-vectors
//	g, _ := array.New2D(dtype.Uint8, 4, 10, 5) // 10×5 grid of RGBA bytes
//
// # Export and import
//
// The two directions have opposite aliasing contracts.
//
//	d, _ := fixedarray.ArrayToBuffer(a)  // shape (20, 3), no copy
//	b, _ := fixedarray.BufferToArray(d)  // new array, deep copy
//
// ArrayToBuffer describes the array's own memory: writes through the
// descriptor are visible in the array, and the descriptor becomes invalid when
// the array is released. BufferToArray reads every item through the
// descriptor's strides into freshly allocated storage, so the result shares
// nothing with its source.
//
// Grids export as (height, width[, k]) with y outer, so element (x, y) is
// found at [y][x]. Single components export through buffer.ComponentToBuffer
// with an element stride of k items.
//
// # Errors
//
// Errors returned by this package match one of ErrIndex, ErrType or ErrValue
// with errors.Is, alongside the typed error from the package that raised it:
//
//	_, err := a.Index(20)
//	var ie *array.IndexError
//	errors.As(err, &ie) // ie.Index == []int{20}, ie.Bounds == []int{20}
//
// # Bridge
//
// A Bridge adds structured logging, metrics and a memory budget around the
// same operations:
//
//	b := fixedarray.NewBridge(
//	    fixedarray.WithLogger(fixedarray.NewJSONLogger(slog.LevelDebug)),
//	    fixedarray.WithMemoryLimit(resource.SystemMemoryLimit(0.25)),
//	)
//	a, err := b.New(ctx, dtype.Float64, 3, 1_000_000)
//	if errors.Is(err, fixedarray.ErrMemoryLimit) { ... }
//	defer b.Release(ctx, a)
//
// # Subpackages
//
//   - dtype: element types and buffer format tags
//   - array: typed arrays, element views, component views and masks
//   - buffer: descriptors, export and import
//   - snapshot: binary snapshots, memory-mapped opens and blob store persistence
//   - blobstore: local, in-memory, S3 and MinIO blob stores
//   - resource: memory, transfer and IO limits
//   - gonumbuf: zero-copy gonum vectors and matrices over descriptors
package fixedarray
