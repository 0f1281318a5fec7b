// Package dmx implements the authoritative state of a single DMX512
// universe: the 512 channel values, the table of in-flight fades, and the
// byte-level frame codec.
//
// UniverseState is the single source of truth shared by the output
// scheduler, the command gateway, and the backup syncer. All access is
// serialized through one mutex, and the critical sections contain only
// array and table mutation, never I/O. Fades are evaluated lazily: values
// are interpolated on read, and completed fades are purged on the same
// evaluation that observes their completion.
package dmx
