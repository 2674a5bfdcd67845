// Package effects derives render attributes from interaction state.
//
// The [Composer] holds the currently active interaction signals (hover
// target and pointer distance, focused layer, audience filter, selected
// node) and produces a complete [EffectState] on demand: a scale, opacity,
// and blur flag per node plus an opacity and stroke width per link. Every
// Compose call rewrites the whole state from scratch; nothing is patched
// incrementally, so a state can never carry entries left over from an
// earlier mode.
//
// Hop distances between nodes come from a [distance.Index]. The caller must
// invalidate that index before the first Compose after any node or link
// change; the composer itself never checks graph versions.
//
// Unknown ids degrade instead of failing: hovering or selecting a node the
// graph does not contain puts every other node in the farthest tier, and
// focusing an empty layer marks the whole graph disconnected.
//
// The composer is not safe for concurrent use. The orchestrator owns the
// lock, matching the single event loop the signals arrive on.
package effects
