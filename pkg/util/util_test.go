package util

import (
	"testing"
)

func TestQuickSort(t *testing.T) {

	arr := []int{4, 3, 2, 1, 10, 5555, -1, 20, 100, -100}
	arr = QuickSortG(arr, func(a, b int) int {
		if a < b {
			return -1
		} else if a > b {
			return 1
		} else {
			return 0
		}
	})

	for i := 0; i < len(arr); i++ {
		if i == 0 {
			continue
		}
		if arr[i] < arr[i-1] {
			t.Errorf("Error in sorting")
		}
	}
}

func TestQuickSortStrings(t *testing.T) {
	arr := []string{"Victoria", "Central", "Waterloo", "Jubilee", "Piccadilly", "Northern"}
	arr = QuickSortG(arr, func(a, b string) int {
		if a < b {
			return -1
		} else if a > b {
			return 1
		}
		return 0
	})

	want := []string{"Central", "Jubilee", "Northern", "Piccadilly", "Victoria", "Waterloo"}
	for i := range want {
		if arr[i] != want[i] {
			t.Errorf("got %v at %d, want %v", arr[i], i, want[i])
		}
	}
}

func TestReverseG(t *testing.T) {
	arr := []int32{1, 2, 3, 4, 5}
	rev := ReverseG(arr)

	for i := range arr {
		if rev[i] != arr[len(arr)-1-i] {
			t.Errorf("got %v at %d, want %v", rev[i], i, arr[len(arr)-1-i])
		}
	}
	if arr[0] != 1 {
		t.Errorf("ReverseG must not mutate its input")
	}
}

func TestIDMap(t *testing.T) {
	m := NewIdMap()

	bakerlooID := m.GetID("bakerloo")
	centralID := m.GetID("central")

	if bakerlooID != 0 || centralID != 1 {
		t.Errorf("ids must be assigned in insertion order, got %d and %d", bakerlooID, centralID)
	}
	if m.GetID("bakerloo") != bakerlooID {
		t.Errorf("GetID must be stable for an already interned string")
	}
	if m.GetStr(centralID) != "central" {
		t.Errorf("got %v, want central", m.GetStr(centralID))
	}
	if m.Size() != 2 {
		t.Errorf("got size %d, want 2", m.Size())
	}
}
