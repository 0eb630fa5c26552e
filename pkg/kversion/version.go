package kversion

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Marker prefixes the patch-train version in the fourth name segment.
const Marker = "xanmod"

// ErrCorruptVersion reports a numeric field that matched the expected shape
// but is not a non-negative integer.
var ErrCorruptVersion = errors.New("corrupt version number")

// Kind classifies the result of Parse.
type Kind int

const (
	KindUnparseable Kind = iota
	KindDegenerate
	KindParsed
)

func (k Kind) String() string {
	switch k {
	case KindParsed:
		return "parsed"
	case KindDegenerate:
		return "degenerate"
	default:
		return "unparseable"
	}
}

// Version is a parsed release name. The numeric fields are only meaningful
// when Kind is KindParsed.
type Version struct {
	Kind Kind
	X    uint64
	Y    uint64
	Z    uint64
	U    uint64
	V    uint64
}

// New returns a parsed version with the given components.
func New(x, y, z, u, v uint64) Version {
	return Version{Kind: KindParsed, X: x, Y: y, Z: z, U: u, V: v}
}

// Parsed reports whether all five components were read.
func (v Version) Parsed() bool { return v.Kind == KindParsed }

// Tuple returns the components in comparison order.
func (v Version) Tuple() [5]uint64 {
	return [5]uint64{v.X, v.Y, v.Z, v.U, v.V}
}

func (v Version) String() string {
	if v.Kind != KindParsed {
		return v.Kind.String()
	}
	return fmt.Sprintf("%d.%d.%d-%s%d.%d", v.X, v.Y, v.Z, Marker, v.U, v.V)
}

// Parse reads a release name of the form X.Y.Z-*-*-xanmodU.V[-...].
//
// Names that do not have the shape return KindUnparseable, names whose base
// or patch part has the wrong number of dot fields return KindDegenerate.
// The only error is ErrCorruptVersion, returned when a field that should be
// numeric is not.
func Parse(name string) (Version, error) {
	segments := strings.Split(name, "-")
	if len(segments) < 4 || !strings.HasPrefix(segments[3], Marker) || segments[3] == Marker {
		return Version{Kind: KindUnparseable}, nil
	}

	base := strings.Split(segments[0], ".")
	if len(base) != 3 {
		return Version{Kind: KindDegenerate}, nil
	}
	x, err := parseField(name, "major", base[0])
	if err != nil {
		return Version{}, err
	}
	y, err := parseField(name, "minor", base[1])
	if err != nil {
		return Version{}, err
	}
	z, err := parseField(name, "patch", base[2])
	if err != nil {
		return Version{}, err
	}

	train := strings.Split(strings.TrimPrefix(segments[3], Marker), ".")
	if len(train) != 2 {
		return Version{Kind: KindDegenerate}, nil
	}
	u, err := parseField(name, "train major", train[0])
	if err != nil {
		return Version{}, err
	}
	v, err := parseField(name, "train minor", train[1])
	if err != nil {
		return Version{}, err
	}

	return New(x, y, z, u, v), nil
}

func parseField(name, field, raw string) (uint64, error) {
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q in %q", ErrCorruptVersion, field, raw, name)
	}
	return n, nil
}
