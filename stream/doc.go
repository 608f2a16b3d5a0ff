// Package stream turns a provider's incremental server-sent-event body into
// live cumulative updates and a final Completion.
//
// The work is split in two so that each half can be tested on its own:
//   - Decoder buffers raw bytes, splits complete lines and interprets every
//     `data: ` line as zero or more Deltas. A partial trailing line is held
//     back until more bytes (or the end of the body) arrive.
//   - Accumulator is a pure reducer over Deltas. It owns the reasoning and
//     content accumulators and reports the cumulative value after each
//     non-empty increment.
//
// Aggregate wires both together over an io.Reader. Results never depend on
// where the transport happened to split the body.
package stream
