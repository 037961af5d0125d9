package gtree

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

// keyRanker uses the key itself as rank, which makes expected shapes easy
// to reason about in tests.
type keyRanker struct{}

func (keyRanker) Rank(key int) uint64 { return uint64(key) }
func (keyRanker) MagicID() string     { return "test:rank-is-key" }

func newKeyTree(t *testing.T) *Tree[int] {
	t.Helper()
	tree, err := New(Config[int]{Ranker: keyRanker{}})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return tree
}

func insertAll(t *testing.T, tree *Tree[int], keys ...int) *Tree[int] {
	t.Helper()
	var err error
	for _, key := range keys {
		tree, err = tree.Insert(key)
		if err != nil {
			t.Fatalf("Insert(%d) failed: %v", key, err)
		}
	}
	return tree
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	_, err := New(Config[int]{})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig for missing ranker, got %v", err)
	}
}

func TestEmptyTree(t *testing.T) {
	tree := newKeyTree(t)
	if !tree.IsEmpty() || tree.Len() != 0 || tree.Height() != 0 {
		t.Fatalf("unexpected empty tree state len=%d height=%d", tree.Len(), tree.Height())
	}
	if tree.Contains(42) {
		t.Errorf("empty tree claims to contain 42")
	}
	if err := tree.Check(); err != nil {
		t.Errorf("expected empty tree to be valid, got %v", err)
	}
	if _, ok := tree.Min(); ok {
		t.Errorf("empty tree reported a minimum")
	}
}

func TestInsertAndContains(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New()
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelDebug)
	//
	tree := insertAll(t, newKeyTree(t), 5, 1, 8, 3)
	for _, key := range []int{5, 1, 8, 3} {
		if !tree.Contains(key) {
			t.Errorf("tree should contain %d", key)
		}
	}
	for _, key := range []int{0, 2, 4, 7, 9} {
		if tree.Contains(key) {
			t.Errorf("tree should not contain %d", key)
		}
	}
	if tree.Len() != 4 {
		t.Errorf("expected Len 4, got %d", tree.Len())
	}
	if err := tree.Check(); err != nil {
		t.Fatalf("invariants violated: %v", err)
	}
}

func TestInsertDuplicateIsReported(t *testing.T) {
	tree := insertAll(t, newKeyTree(t), 5, 1)
	_, err := tree.Insert(5)
	if !errors.Is(err, ErrKeyAlreadyPresent) {
		t.Fatalf("expected ErrKeyAlreadyPresent, got %v", err)
	}
	// The reported error must leave the operand usable.
	if tree.Len() != 2 || !tree.Contains(5) {
		t.Errorf("tree damaged by rejected insert")
	}
	if err := tree.Check(); err != nil {
		t.Errorf("invariants violated after rejected insert: %v", err)
	}
}

func TestDeleteMissingIsReported(t *testing.T) {
	tree := insertAll(t, newKeyTree(t), 5, 1)
	_, err := tree.Delete(7)
	if !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
	if tree.Len() != 2 {
		t.Errorf("tree damaged by rejected delete")
	}
}

func TestDelete(t *testing.T) {
	tree := insertAll(t, newKeyTree(t), 5, 1, 8, 3, 7, 2)
	for _, key := range []int{8, 1, 5, 3, 7, 2} {
		var err error
		tree, err = tree.Delete(key)
		if err != nil {
			t.Fatalf("Delete(%d) failed: %v", key, err)
		}
		if tree.Contains(key) {
			t.Errorf("tree still contains %d after delete", key)
		}
		if err := tree.Check(); err != nil {
			t.Fatalf("invariants violated after Delete(%d): %v", key, err)
		}
	}
	if !tree.IsEmpty() {
		t.Errorf("expected empty tree after deleting all keys, len=%d", tree.Len())
	}
}

// TestCanonicalShape pins down the concrete reference scenario: with
// rank = key, inserting [5 1 8 3] must yield 8 at the root (maximal rank),
// a left subtree rooted at 5 holding {1, 3}, and an empty right subtree.
func TestCanonicalShape(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New()
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelDebug)
	//
	tree := insertAll(t, newKeyTree(t), 5, 1, 8, 3)
	if tree.root.key != 8 {
		t.Fatalf("expected root 8, got %d", tree.root.key)
	}
	if tree.root.right != nil {
		t.Errorf("expected empty right subtree below 8")
	}
	if tree.root.left == nil || tree.root.left.key != 5 {
		t.Fatalf("expected left subtree rooted at 5")
	}
	left := tree.root.left
	if left.left == nil || left.left.key != 3 || left.left.left == nil || left.left.left.key != 1 {
		t.Errorf("expected chain 5 -> 3 -> 1 in left subtree")
	}

	ascending := insertAll(t, newKeyTree(t), 1, 3, 5, 8)
	descending := insertAll(t, newKeyTree(t), 8, 5, 3, 1)
	if !Equal(tree, ascending) || !Equal(tree, descending) {
		t.Errorf("insertion order changed the tree shape")
	}
}

func TestCanonicityUnderPermutation(t *testing.T) {
	cfg := Config[int]{Ranker: GeometricRanker[int]{}}
	keys := []int{3, 14, 15, 92, 65, 35, 89, 79, 32, 38, 46, 26}
	reference, err := FromKeys(cfg, keys)
	if err != nil {
		t.Fatalf("FromKeys failed: %v", err)
	}
	r := rand.New(rand.NewSource(271828))
	for round := 0; round < 50; round++ {
		shuffled := append([]int(nil), keys...)
		r.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		permuted, err := FromKeys(cfg, shuffled)
		if err != nil {
			t.Fatalf("FromKeys(%v) failed: %v", shuffled, err)
		}
		if !Equal(reference, permuted) {
			t.Fatalf("permutation %v produced a different shape", shuffled)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	tree := insertAll(t, newKeyTree(t), 5, 1, 8, 3)

	// delete(insert(T, k), k) == T for k not present
	inserted, err := tree.Insert(6)
	if err != nil {
		t.Fatalf("Insert(6) failed: %v", err)
	}
	back, err := inserted.Delete(6)
	if err != nil {
		t.Fatalf("Delete(6) failed: %v", err)
	}
	if !Equal(tree, back) {
		t.Errorf("insert/delete round trip changed the shape")
	}

	// insert(delete(T, k), k) == T for k present
	removed, err := tree.Delete(3)
	if err != nil {
		t.Fatalf("Delete(3) failed: %v", err)
	}
	restored, err := removed.Insert(3)
	if err != nil {
		t.Fatalf("Insert(3) failed: %v", err)
	}
	if !Equal(tree, restored) {
		t.Errorf("delete/insert round trip changed the shape")
	}
}

func TestValueSemantics(t *testing.T) {
	before := insertAll(t, newKeyTree(t), 5, 1, 8)
	after, err := before.Insert(3)
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if before.Contains(3) || before.Len() != 3 {
		t.Errorf("insert mutated its operand")
	}
	removed, err := after.Delete(8)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if !after.Contains(8) || removed.Contains(8) {
		t.Errorf("delete mutated its operand")
	}
	if err := before.Check(); err != nil {
		t.Errorf("operand invariants violated: %v", err)
	}
}

func TestRotationCounter(t *testing.T) {
	tree := newKeyTree(t)
	if tree.Rotations() != 0 {
		t.Fatalf("fresh tree reports %d rotations", tree.Rotations())
	}
	// Ascending keys with rank = key force every insert to rotate the new
	// node all the way to the root.
	grown := insertAll(t, tree, 1, 2, 3, 4, 5)
	if grown.Rotations() == 0 {
		t.Errorf("expected rotations to be counted")
	}
	if tree.Rotations() != 0 {
		t.Errorf("rotation counter leaked into the operand")
	}
	shrunk, err := grown.Delete(5)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if shrunk.Rotations() < grown.Rotations() {
		t.Errorf("delete rotations not accumulated")
	}
}

func TestMinMax(t *testing.T) {
	tree := insertAll(t, newKeyTree(t), 5, 1, 8, 3)
	if minKey, ok := tree.Min(); !ok || minKey != 1 {
		t.Errorf("Min = %d, %v; want 1, true", minKey, ok)
	}
	if maxKey, ok := tree.Max(); !ok || maxKey != 8 {
		t.Errorf("Max = %d, %v; want 8, true", maxKey, ok)
	}
}

func TestIterationOrder(t *testing.T) {
	tree := insertAll(t, newKeyTree(t), 5, 1, 8, 3)
	var keys []int
	for key, rank := range tree.All() {
		if rank != uint64(key) {
			t.Errorf("key %d carries rank %d, want %d", key, rank, key)
		}
		keys = append(keys, key)
	}
	want := []int{1, 3, 5, 8}
	if len(keys) != len(want) {
		t.Fatalf("iterated %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("iterated %v, want %v", keys, want)
		}
	}
	// The sequence must be restartable.
	count := 0
	for range tree.All() {
		count++
	}
	if count != 4 {
		t.Errorf("second iteration saw %d pairs, want 4", count)
	}
	// Early stop.
	count = 0
	tree.ForEachPair(func(int, uint64) bool {
		count++
		return count < 2
	})
	if count != 2 {
		t.Errorf("early stop visited %d pairs, want 2", count)
	}
}

func TestBulkBuildMatchesRepeatedInsert(t *testing.T) {
	cfg := Config[int]{Ranker: GeometricRanker[int]{}}
	sorted := []int{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37}
	bulk, err := FromSortedKeys(cfg, sorted)
	if err != nil {
		t.Fatalf("FromSortedKeys failed: %v", err)
	}
	if err := bulk.Check(); err != nil {
		t.Fatalf("bulk-built tree invalid: %v", err)
	}
	shuffled := []int{13, 2, 29, 7, 37, 3, 19, 5, 31, 11, 23, 17}
	inserted, err := FromKeys(cfg, shuffled)
	if err != nil {
		t.Fatalf("FromKeys failed: %v", err)
	}
	if !Equal(bulk, inserted) {
		t.Errorf("bulk build produced a different shape than repeated insert")
	}
}

func TestBulkBuildRejectsUnorderedKeys(t *testing.T) {
	cfg := Config[int]{Ranker: GeometricRanker[int]{}}
	if _, err := FromSortedKeys(cfg, []int{1, 3, 2}); !errors.Is(err, ErrUnorderedKeys) {
		t.Errorf("expected ErrUnorderedKeys for unsorted input, got %v", err)
	}
	if _, err := FromSortedKeys(cfg, []int{1, 1, 2}); !errors.Is(err, ErrUnorderedKeys) {
		t.Errorf("expected ErrUnorderedKeys for duplicate input, got %v", err)
	}
}

func TestGeometricRankerIsDeterministic(t *testing.T) {
	ranker := GeometricRanker[string]{}
	for _, key := range []string{"", "a", "hello", "zip"} {
		first := ranker.Rank(key)
		for i := 0; i < 10; i++ {
			if got := ranker.Rank(key); got != first {
				t.Fatalf("rank of %q changed from %d to %d", key, first, got)
			}
		}
		if first > 63 {
			t.Errorf("rank of %q out of range: %d", key, first)
		}
	}
}

func TestCheckDetectsCorruption(t *testing.T) {
	tree := insertAll(t, newKeyTree(t), 5, 1, 8, 3)
	corrupted := tree.clone()
	corrupted.root = cloneNode(tree.root)
	corrupted.root.rank = 0 // ranker says rank(8) == 8
	if err := corrupted.Check(); !errors.Is(err, ErrInvariantViolation) {
		t.Errorf("expected ErrInvariantViolation for wrong rank, got %v", err)
	}
	corrupted = tree.clone()
	corrupted.size = 99
	if err := corrupted.Check(); !errors.Is(err, ErrInvariantViolation) {
		t.Errorf("expected ErrInvariantViolation for size mismatch, got %v", err)
	}
}

func TestStatsCollect(t *testing.T) {
	tree := insertAll(t, newKeyTree(t), 5, 1, 8, 3)
	stats := Collect(tree)
	if stats.Nodes != 4 {
		t.Errorf("stats.Nodes = %d, want 4", stats.Nodes)
	}
	if stats.Height != tree.Height() {
		t.Errorf("stats.Height = %d, want %d", stats.Height, tree.Height())
	}
	if !stats.Valid {
		t.Errorf("stats should report a valid tree")
	}
	if stats.Least != 1 || stats.Greatest != 8 {
		t.Errorf("stats extrema = (%d, %d), want (1, 8)", stats.Least, stats.Greatest)
	}
	total := 0
	for _, n := range stats.RankDistribution {
		total += n
	}
	if total != 4 {
		t.Errorf("rank distribution covers %d keys, want 4", total)
	}
}

func TestTree2Dot(t *testing.T) {
	tree := insertAll(t, newKeyTree(t), 5, 1, 8)
	var sb strings.Builder
	Tree2Dot(tree, &sb)
	out := sb.String()
	if !strings.Contains(out, "digraph") || !strings.Contains(out, "8\\nr=8") {
		t.Errorf("unexpected DOT output:\n%s", out)
	}
}

// failingWriter accepts budget bytes, then refuses further writes.
type failingWriter struct{ budget int }

func (w *failingWriter) Write(p []byte) (int, error) {
	if len(p) > w.budget {
		n := w.budget
		w.budget = 0
		return n, errors.New("writer full")
	}
	w.budget -= len(p)
	return len(p), nil
}

func TestTree2DotWriterFailure(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New()
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	tree := insertAll(t, newKeyTree(t), 5, 1, 8)
	// The write failure is reported through the tracer; the dump must not
	// panic and must stop writing once the writer fails.
	w := &failingWriter{budget: 10}
	Tree2Dot(tree, w)
	if w.budget != 0 {
		t.Errorf("writer budget not consumed, %d bytes left", w.budget)
	}
}
