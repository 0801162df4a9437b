// Package randomcut implements a compact random cut tree, the per-tree core
// of a streaming anomaly-detection ensemble (a random cut forest).
//
// A random cut tree incrementally partitions a bounded window of sampled
// points with randomly drawn axis-aligned cuts. Points that few random cuts
// suffice to isolate are anomalous; points deep inside dense regions are
// not. A forest averages these per-tree signals, but forest orchestration,
// sampling policy, and score thresholding live outside this package: here a
// tree is driven directly through Insert, Delete, and the visitor
// traversals.
//
// Basic usage:
//
//	store := randomcut.NewArrayPointStore(2)
//	cfg := randomcut.DefaultConfig()
//	cfg.MaxSize = 256
//	cfg.Dimensions = 2
//	tree, err := randomcut.NewRandomCutTree(cfg, store)
//	// idx, _ := store.Add([]float64{x, y}); tree.Insert(idx)
//	// score, _ := tree.AnomalyScore([]float64{x, y})
//
// The tree is compact: nodes live in two fixed-capacity arenas (leaf records
// and internal-node records) addressed by integer handles, with cached
// per-node bounding boxes. Algorithms run over the tree through the
// Visitor/MultiVisitor protocol; AnomalyScoreVisitor and ImputeVisitor are
// the two built-in strategies, and callers can supply their own.
//
// A single tree is not safe for concurrent mutation. Insert and Delete must
// be externally serialized per tree and must not overlap traversals of the
// same tree. Traversals alone are read-only and may run concurrently, which
// is what ScoreBatchParallel relies on.
package randomcut
