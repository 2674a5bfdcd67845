// Package labels resolves label positions around graph nodes.
//
// The engine places each label directly below its node, then runs a bounded
// number of greedy passes that move conflicting labels to the best-scoring
// direction from a configured preference list. Conflict detection uses a
// uniform spatial hash grid, so each label only ever compares against labels
// sharing one of its grid cells.
//
// Text extents come from a [Measurer] supplied by the rendering layer when
// available, with a character-count estimator as fallback. Measured extents
// are cached per (text, font size, zoom scale) and the cache is dropped
// whole on zoom changes.
//
// The resolver is greedy, local, and iteration-bounded. It reduces overlap;
// it does not guarantee a conflict-free arrangement.
package labels
