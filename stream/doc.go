// SPDX-License-Identifier: EPL-2.0

// Package stream drives an nlms.Filter over two aligned PCM streams.
//
// A run reads an input block and a reference block, filters them, and
// writes the estimate and error blocks. The first block only warms the
// filter up, so a stream of N full blocks produces N-1 output blocks. A
// short final block ends the run cleanly.
//
//	session, err := stream.OpenFiles(nil, stream.Endpoints{
//	    Input:     "mic.pcm",
//	    Reference: "far.pcm",
//	    Estimate:  "estimate.pcm",
//	    Error:     "error.pcm",
//	}, stream.DefaultFileOptions())
//	if err != nil {
//	    return err // wraps stream.ErrResourceUnavailable
//	}
//	defer session.Close()
//
//	f, err := nlms.New(nlms.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	stats, err := stream.Run(ctx, session, session, f, stream.WithLogger(logger))
//
// Every endpoint is opened before the first block, so a missing file never
// leaves partial output behind.
package stream
