package parallel

import (
	"errors"
	"fmt"
	"math/rand"
	"reflect"
	"sort"
	"testing"

	"github.com/vegasq/parseq/sequence"
)

// item has a sort key with many duplicates and its original position
type item struct {
	key int
	pos int
}

func byKey(a, b interface{}) (int, error) {
	ka, kb := a.(item).key, b.(item).key
	switch {
	case ka < kb:
		return -1, nil
	case ka > kb:
		return 1, nil
	}
	return 0, nil
}

func randomItems(n int, seed int64) []interface{} {
	r := rand.New(rand.NewSource(seed))
	values := make([]interface{}, n)
	for i := range values {
		values[i] = item{key: r.Intn(10), pos: i}
	}
	return values
}

func TestSort_MatchesStableSort(t *testing.T) {
	tests := []struct {
		threshold   int
		parallelism int
		n           int
	}{
		{1 << 30, 4, 5000},
		{0, 4, 5000},
		{16, 4, 5000},
		{16, 3, 4999},
		{100, 8, 1000},
		{0, 1, 2000},
		{0, 4, 8},
		{0, 4, 9},
		{0, 4, 1},
		{0, 4, 0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("threshold=%d/parallelism=%d/n=%d", tt.threshold, tt.parallelism, tt.n), func(t *testing.T) {
			withSettings(t, tt.threshold, tt.parallelism)

			got := randomItems(tt.n, int64(tt.n))
			want := randomItems(tt.n, int64(tt.n))
			sort.SliceStable(want, func(i, j int) bool {
				return want[i].(item).key < want[j].(item).key
			})

			if err := Sort(got, byKey); err != nil {
				t.Fatalf("Sort() error = %v", err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Error("Sort() order differs from sort.SliceStable")
			}
		})
	}
}

func TestSort_NaturalOrder(t *testing.T) {
	withSettings(t, 0, 4)
	values := []interface{}{int64(3), nil, 2.5, int64(-1), int64(10), nil, int64(2), 7.0, int64(0), int64(1)}
	if err := Sort(values, nil); err != nil {
		t.Fatalf("Sort() error = %v", err)
	}
	want := []interface{}{nil, nil, int64(-1), int64(0), int64(1), int64(2), 2.5, int64(3), 7.0, int64(10)}
	if !reflect.DeepEqual(values, want) {
		t.Errorf("Sort() = %v, want %v", values, want)
	}
}

func TestSort_LargeIntegers(t *testing.T) {
	const base = int64(1700000000000000000)
	for _, threshold := range []int{0, 1 << 30} {
		t.Run(fmt.Sprintf("threshold %d", threshold), func(t *testing.T) {
			withSettings(t, threshold, 4)

			r := rand.New(rand.NewSource(7))
			values := make([]interface{}, 64)
			for i, p := range r.Perm(len(values)) {
				values[i] = base + int64(p)
			}
			if err := Sort(values, nil); err != nil {
				t.Fatalf("Sort() error = %v", err)
			}
			for i, v := range values {
				if v != base+int64(i) {
					t.Fatalf("Sort()[%d] = %v, want %d", i, v, base+int64(i))
				}
			}
		})
	}
}

func TestSortRange(t *testing.T) {
	withSettings(t, 0, 4)
	values := []interface{}{int64(9), int64(8), int64(7), int64(6), int64(5), int64(4), int64(3), int64(2), int64(1), int64(0), int64(-1), int64(-2)}
	if err := SortRange(values, 1, 11, nil); err != nil {
		t.Fatalf("SortRange() error = %v", err)
	}
	want := []interface{}{int64(9), int64(-1), int64(0), int64(1), int64(2), int64(3), int64(4), int64(5), int64(6), int64(7), int64(8), int64(-2)}
	if !reflect.DeepEqual(values, want) {
		t.Errorf("SortRange() = %v, want %v", values, want)
	}

	for _, r := range [][2]int{{3, 2}, {-1, 4}, {0, 13}} {
		if err := SortRange(values, r[0], r[1], nil); !errors.Is(err, sequence.ErrInvalidRange) {
			t.Errorf("SortRange(%d, %d) error = %v, want ErrInvalidRange", r[0], r[1], err)
		}
	}
}

func TestSort_ComparatorError(t *testing.T) {
	errBad := errors.New("bad element")
	cmp := func(a, b interface{}) (int, error) {
		if a == int64(777) || b == int64(777) {
			return 0, errBad
		}
		return sequence.NaturalCompare(a, b)
	}

	for _, threshold := range []int{0, 1 << 30} {
		t.Run(fmt.Sprintf("threshold=%d", threshold), func(t *testing.T) {
			withSettings(t, threshold, 4)
			values := ints(2000).Values()
			// Reverse so that every merge compares elements
			for i, j := 0, len(values)-1; i < j; i, j = i+1, j-1 {
				values[i], values[j] = values[j], values[i]
			}
			if err := Sort(values, cmp); !errors.Is(err, errBad) {
				t.Errorf("Sort() error = %v, want %v", err, errBad)
			}
		})
	}

	t.Run("incomparable values", func(t *testing.T) {
		withSettings(t, 0, 4)
		values := []interface{}{int64(1), "a", true, int64(2), "b", false, int64(3), "c", true, int64(4)}
		if err := Sort(values, nil); !errors.Is(err, sequence.ErrIncomparable) {
			t.Errorf("Sort() error = %v, want ErrIncomparable", err)
		}
	})
}

func TestSortSequence_Records(t *testing.T) {
	withSettings(t, 0, 4)
	tbl := people(300)
	cmp := sequence.FieldComparator([]sequence.OrderBy{{Field: "age", Desc: true}, {Field: "name"}})

	want := tbl.Sequence().Values()
	wantCopy := make([]interface{}, len(want))
	copy(wantCopy, want)
	ref := sequence.FromSlice(wantCopy)
	if err := ref.Sort(cmp); err != nil {
		t.Fatalf("reference Sort() error = %v", err)
	}

	if err := SortSequence(tbl.Sequence(), cmp); err != nil {
		t.Fatalf("SortSequence() error = %v", err)
	}
	if !reflect.DeepEqual(tbl.Sequence().Values(), ref.Values()) {
		t.Error("SortSequence() differs from the single-threaded stable sort")
	}
}

func TestSort_ReportsMode(t *testing.T) {
	tests := []struct {
		name         string
		threshold    int
		parallelism  int
		n            int
		wantParallel bool
	}{
		{"long input", 10, 4, 100, true},
		{"below insertion size", 0, 4, 8, false},
		{"below threshold", 1000, 4, 100, false},
		{"single thread", 0, 1, 100, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withSettings(t, tt.threshold, tt.parallelism)
			rec := recordDispatches(t)
			if err := Sort(ints(tt.n).Values(), nil); err != nil {
				t.Fatalf("Sort() error = %v", err)
			}
			info := rec.last()
			if info.Op != "sort" || info.Parallel != tt.wantParallel {
				t.Errorf("dispatch = %+v, want op sort parallel=%v", info, tt.wantParallel)
			}
		})
	}
}
