/*
Package guidedsection maps section-format GUIDs to registered handler pairs
and dispatches GUID-defined firmware sections to them.

# Overview

A GUID-defined section wraps an encoded payload (compressed, signed,
encrypted) and tags it with a 128-bit format identifier at a fixed offset
in its header. This package keeps a fixed-capacity table binding each
format GUID to two handlers: one that reports buffer sizing and attributes
(GetInfo), and one that performs the actual transform into an output
buffer (Decode).

The table lives in a single backing block chosen lazily from an ordered
list of candidate stores. Candidates are probed with a write-then-read-back
of a signature word, so the registry works even when only a provisional
slice of memory is usable, as in the earliest stage of platform boot that
the layout models. After the first successful probe the chosen store is
kept for the life of the registry, and no operation allocates on the
dispatch path.

# Basic Usage

Register handlers for a format, then dispatch sections carrying it:

	lzma := uuid.MustParse("ee4e5898-3914-4259-9d6e-dc7bd79403cf")

	reg := guidedsection.New()
	err := reg.Register(lzma,
	    guidedsection.GetInfoFunc(lzmaInfo),
	    guidedsection.DecodeFunc(lzmaDecode),
	)
	if err != nil {
	    log.Fatal(err)
	}

	info, err := reg.GetInfo(ctx, section)
	if err != nil {
	    log.Fatal(err)
	}
	scratch := make([]byte, info.ScratchSize)
	out, auth, err := reg.Decode(ctx, section, scratch)

A process-wide Default registry mirrors the module-global table of the
firmware library this package models; the package-level Register, GetInfo,
Decode, and GUIDs functions operate on it.

# Backing stores

By default a registry owns a single memory arena sized for its capacity.
Platforms that need a fallback location inject an ordered candidate list:

	reg := guidedsection.New(
	    guidedsection.WithStores(
	        guidedsection.Store{Name: "static", Region: guidedsection.NewMemRegion(size)},
	        guidedsection.Store{Name: "lowmem", Region: guidedsection.NewFileRegion(f, 0x1000, size)},
	    ),
	)

The first candidate whose region accepts the signature write wins. A
candidate already carrying the signature is adopted as-is, which lets two
registry instances in the same boot phase share one block.

# Concurrency

A Registry is not safe for concurrent use. The environment it models runs
a single execution context with no preemption; callers needing concurrent
dispatch must serialize externally.

# Observability

Logging uses log/slog, metrics and tracing use OpenTelemetry through the
observability subpackage. All three are disabled by default and cost
nothing when off.
*/
package guidedsection
