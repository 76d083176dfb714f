// Package diag provides leveled, subsystem-tagged diagnostic logging, built on
// [github.com/joeycumines/logiface].
//
// A [Registry] hands out one logger per subsystem (e.g. "fibre",
// "alloc_mmap"). Every event logged through a subsystem logger carries a
// "subsystem" field. Levels follow syslog (RFC 5424) severities, with a global
// level, and optional per-subsystem overrides, which take precedence.
//
// The output format is determined by the [Backend], see [Stumpy] (JSON, the
// default), [Logrus], [Zerolog] and [Discard].
package diag
