// Package resolver plans the operations needed to install a mod.
//
// Resolution is greedy: for every mod it visits it picks the highest
// registry version that satisfies the requirement at hand and never
// revisits that choice. There is no backtracking, so some satisfiable
// diamond-shaped dependency graphs produce plans that the conflict checker
// will reject.
//
// A mod that is already installed at a version that satisfies the
// requirement and is at least as new as the best candidate is left alone,
// and its dependencies are not walked again. Broken dependencies of such a
// mod are reported by the conflict checker, not by Resolve.
package resolver
