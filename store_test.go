package randomcut

import "testing"

// --- indexManager ---

func TestIndexManager_TakeOrderAndReuse(t *testing.T) {
	m := newIndexManager(3)

	for want := 0; want < 3; want++ {
		got, ok := m.takeIndex()
		if !ok || got != want {
			t.Fatalf("takeIndex() = (%d, %v), want (%d, true)", got, ok, want)
		}
	}
	if _, ok := m.takeIndex(); ok {
		t.Error("takeIndex from a full pool succeeded")
	}

	// The most recently freed slot is the first one reused.
	m.releaseIndex(1)
	m.releaseIndex(2)
	if got, _ := m.takeIndex(); got != 2 {
		t.Errorf("takeIndex after release = %d, want 2", got)
	}
	if got, _ := m.takeIndex(); got != 1 {
		t.Errorf("takeIndex after release = %d, want 1", got)
	}
	if m.size() != 3 {
		t.Errorf("size() = %d, want 3", m.size())
	}
}

func TestIndexManager_DoubleReleasePanics(t *testing.T) {
	m := newIndexManager(2)
	offset, _ := m.takeIndex()
	m.releaseIndex(offset)

	defer func() {
		if recover() == nil {
			t.Error("double release did not panic")
		}
	}()
	m.releaseIndex(offset)
}

// --- leaf and node arenas ---

func TestLeafStore_AddFreeCycle(t *testing.T) {
	s := newLeafStore(2)

	a, ok := s.add(10)
	if !ok {
		t.Fatal("add failed on empty arena")
	}
	if s.pointIndex[a] != 10 || s.mass[a] != 1 {
		t.Errorf("slot %d = (point %d, mass %d), want (10, 1)", a, s.pointIndex[a], s.mass[a])
	}
	b, _ := s.add(20)
	if _, ok := s.add(30); ok {
		t.Error("add beyond capacity succeeded")
	}

	s.free(a)
	if s.size() != 1 {
		t.Errorf("size() after free = %d, want 1", s.size())
	}
	c, ok := s.add(30)
	if !ok || c != a {
		t.Errorf("add after free = (%d, %v), want reuse of slot %d", c, ok, a)
	}
	_ = b
}

func TestNodeStore_SiblingLookup(t *testing.T) {
	s := newNodeStore(4)
	offset, _ := s.add(1, 0.5, 100, 200, 7)

	if s.sibling(offset, 100) != 200 || s.sibling(offset, 200) != 100 {
		t.Error("sibling lookup wrong")
	}

	defer func() {
		if recover() == nil {
			t.Error("sibling with a non-child handle did not panic")
		}
	}()
	s.sibling(offset, 999)
}
