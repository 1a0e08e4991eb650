// Package resource bounds what the load phase may consume.
//
// A Controller holds two limits:
//
//   - a memory budget that player storage segments reserve from before they
//     are allocated (non-blocking, a refused reservation fails the load)
//   - a token bucket pacing how fast player files are read
//
// Usage:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes:   256 << 20,
//	    IOLimitBytesPerSec: 50 << 20,
//	})
//	sc, _ := scanner.New(scanner.WithAllocator(rc.Reserve))
//	r := rc.Throttle(ctx, file)
//
// A nil Controller enforces nothing.
package resource
