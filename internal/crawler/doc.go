// Package crawler implements the concurrent crawl engine: a fixed pool of
// fetch workers over a shared frontier, a visited registry preventing
// duplicate fetches, structural link scoring for selective deep traversal,
// robots.txt gating, and a single persistence relay that keeps storage I/O
// off the fetch critical path.
package crawler
