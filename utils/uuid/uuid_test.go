package uuid

import "testing"

func TestSnowNode_GenSnowID(t *testing.T) {
	node := NewNode(1)
	seen := make(map[int64]bool)
	for i := 0; i < 1000; i++ {
		id := node.GenSnowID()
		if id <= 0 {
			t.Fatalf("invalid id %d", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id %d", id)
		}
		seen[id] = true
	}
}

func TestGenUUID16(t *testing.T) {
	if l := len(GenUUID16()); l != 16 {
		t.Fatalf("expected 16 chars, got %d", l)
	}
	if GenUUID16() == GenUUID16() {
		t.Fatal("request ids should differ")
	}
}
