// Package util provides the leaf building blocks of the hashall pipeline.
//
// Nothing in this package starts goroutines or shares state between calls;
// every type is owned by exactly one caller at a time. The hashall package
// composes these pieces into the concurrent pipeline.
//
// Key Components:
//
// Stream Digesting:
//   - Algorithm: the closed set of supported hash functions (md5, sha1,
//     the sha2 family, sha3, blake2b and blake3)
//   - Digester: one hash state plus one reusable read buffer, reset after
//     every Digest call so a single instance serves many inputs
//
// Tree Walking:
//   - Walk: yields the regular files under an input root, honoring the
//     hidden-entry and recursion policy in WalkOptions
//
// Archives:
//   - Classify: pure file-name heuristic mapping a path to an ArchiveKind
//   - OpenArchive: streams the entries of zip archives and of tar archives,
//     optionally wrapped in gzip, zstd, bzip2 or xz compression
package util
