package kversion

// Ordering is the result of Compare.
type Ordering int

const (
	Less    Ordering = -1
	Equal   Ordering = 0
	Greater Ordering = 1
)

func (o Ordering) String() string {
	switch o {
	case Less:
		return "less"
	case Greater:
		return "greater"
	default:
		return "equal"
	}
}

// Compare orders a and b lexicographically over (X, Y, Z, U, V). The base
// version always outranks the patch train. If either side is not
// KindParsed the result is Equal.
func Compare(a, b Version) Ordering {
	if !a.Parsed() || !b.Parsed() {
		return Equal
	}
	at, bt := a.Tuple(), b.Tuple()
	for i := range at {
		switch {
		case at[i] > bt[i]:
			return Greater
		case at[i] < bt[i]:
			return Less
		}
	}
	return Equal
}

// Cmp adapts Compare to the signed convention used by slices.SortStableFunc.
func Cmp(a, b Version) int {
	return int(Compare(a, b))
}
