package shuffle

import (
	"fmt"
	"math"
	"math/rand"
	"reflect"
	"testing"
)

func TestCopyLeavesInputUntouched(t *testing.T) {
	s := NewSeededSource(rand.NewSource(1))
	in := []int{1, 2, 3, 4, 5, 6}
	out := Copy(s, in)

	if !reflect.DeepEqual(in, []int{1, 2, 3, 4, 5, 6}) {
		t.Errorf("Expected input to be unchanged, got %v", in)
	}
	if len(out) != len(in) {
		t.Fatalf("Expected %d elements, got %d", len(in), len(out))
	}

	seen := make(map[int]bool)
	for _, v := range out {
		seen[v] = true
	}
	if len(seen) != len(in) {
		t.Errorf("Expected a permutation, got %v", out)
	}
}

func TestCopySmallInputs(t *testing.T) {
	s := NewSource()
	if got := Copy(s, []string{}); len(got) != 0 {
		t.Errorf("Expected empty result, got %v", got)
	}
	if got := Copy(s, []string{"a"}); !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("Expected single element, got %v", got)
	}
}

func TestCopyUniformity(t *testing.T) {
	s := NewSeededSource(rand.NewSource(42))
	const trials = 60000
	counts := make(map[string]int)
	atOrigin := make([]int, 3)

	for i := 0; i < trials; i++ {
		out := Copy(s, []int{0, 1, 2})
		counts[fmt.Sprint(out)]++
		for pos, v := range out {
			if pos == v {
				atOrigin[pos]++
			}
		}
	}

	if len(counts) != 6 {
		t.Fatalf("Expected all 6 permutations, got %d", len(counts))
	}

	// chi-square with 5 degrees of freedom, p=0.001 critical value is 20.5
	expected := float64(trials) / 6
	chi := 0.0
	for _, c := range counts {
		d := float64(c) - expected
		chi += d * d / expected
	}
	if chi > 20.5 {
		t.Errorf("Permutation counts look biased (chi2=%.2f): %v", chi, counts)
	}

	for pos, c := range atOrigin {
		ratio := float64(c) / trials
		if math.Abs(ratio-1.0/3) > 0.02 {
			t.Errorf("Element %d stays in place with ratio %.3f, expected ~0.333", pos, ratio)
		}
	}
}
