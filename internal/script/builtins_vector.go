// This project is licensed under the MIT License (see LICENSE).

package script

import (
	"math"
)

// Seq implements seq(from, to, by): an integer sequence when all three
// are integer-typed and by divides (to-from) exactly, otherwise a float
// sequence; the sign of by must match the sign of to-from; by == 0
// fails; seq(a,a,by) returns [a] regardless of by.
func Seq(from, to, by *Value) (*Value, error) {
	f, t := from.AsFloat64(0), to.AsFloat64(0)

	if f == t {
		if allInt(from, to, by) {
			return NewInt(int64(f)), nil
		}
		return NewFloat(f), nil
	}

	var step float64
	if by == nil || by.IsNull() {
		if t > f {
			step = 1
		} else {
			step = -1
		}
	} else {
		step = by.AsFloat64(0)
	}

	if step == 0 {
		return nil, typeMismatch("seq() requires a non-zero 'by' when 'from' != 'to'")
	}
	if (t-f > 0 && step < 0) || (t-f < 0 && step > 0) {
		return nil, typeMismatch("seq() 'by' sign does not match the direction from 'from' to 'to'")
	}

	integral := allInt(from, to, by) && step == math.Trunc(step)
	if integral {
		diff := int64(t) - int64(f)
		s := int64(step)
		if diff%s != 0 {
			integral = false
		}
	}

	if integral {
		var out []int64
		s := int64(step)
		for v := int64(f); (s > 0 && v <= int64(t)) || (s < 0 && v >= int64(t)); v += s {
			out = append(out, v)
		}
		return NewInt(out...), nil
	}

	var out []float64
	for v := f; (step > 0 && v <= t+1e-9) || (step < 0 && v >= t-1e-9); v += step {
		out = append(out, v)
	}
	return NewFloat(out...), nil
}

func allInt(vs ...*Value) bool {
	for _, v := range vs {
		if v == nil || v.IsNull() {
			continue
		}
		if v.Kind != KindInt {
			return false
		}
	}
	return true
}

// Rep concatenates n copies of x.
func Rep(x *Value, n int) *Value {
	if n <= 0 {
		return &Value{Kind: x.Kind}
	}
	out := x.Copy()
	for i := 1; i < n; i++ {
		out = mustConcat(out, x)
	}
	return out
}

// Rev reverses a vector in place on a copy.
func Rev(x *Value) *Value {
	out := x.Copy()
	n := out.Len()
	swap := func(i, j int) {
		switch out.Kind {
		case KindLogical:
			out.Logicals[i], out.Logicals[j] = out.Logicals[j], out.Logicals[i]
		case KindInt:
			out.Ints[i], out.Ints[j] = out.Ints[j], out.Ints[i]
		case KindFloat:
			out.Floats[i], out.Floats[j] = out.Floats[j], out.Floats[i]
		case KindString:
			out.Strings[i], out.Strings[j] = out.Strings[j], out.Strings[i]
		case KindObject:
			out.Objects[i], out.Objects[j] = out.Objects[j], out.Objects[i]
		}
	}
	for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
		swap(i, j)
	}
	return out
}

// C concatenates values with type-promoting rules mirroring binary ops: a
// NULL argument contributes nothing (the Open Question decision recorded
// in SPEC_FULL.md), string beats everything, float beats int beats
// logical, object values may only concatenate with other object values.
func C(vs ...*Value) (*Value, error) {
	nonNull := make([]*Value, 0, len(vs))
	for _, v := range vs {
		if v != nil && !v.IsNull() {
			nonNull = append(nonNull, v)
		}
	}
	if len(nonNull) == 0 {
		return NewNull(), nil
	}

	result := nonNull[0].Copy()
	for _, v := range nonNull[1:] {
		var err error
		result, err = concat(result, v)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

func mustConcat(a, b *Value) *Value {
	v, err := concat(a, b)
	if err != nil {
		panic(err)
	}
	return v
}

func concat(a, b *Value) (*Value, error) {
	target := promoteKind(a.Kind, b.Kind)
	if (a.Kind == KindObject) != (b.Kind == KindObject) {
		return nil, typeMismatch("cannot concatenate an object value with a non-object value")
	}
	pa, err := coerceTo(a, target)
	if err != nil {
		return nil, err
	}
	pb, err := coerceTo(b, target)
	if err != nil {
		return nil, err
	}
	switch target {
	case KindLogical:
		return NewLogical(append(append([]bool{}, pa.Logicals...), pb.Logicals...)...), nil
	case KindInt:
		return NewInt(append(append([]int64{}, pa.Ints...), pb.Ints...)...), nil
	case KindFloat:
		return NewFloat(append(append([]float64{}, pa.Floats...), pb.Floats...)...), nil
	case KindString:
		return NewString(append(append([]string{}, pa.Strings...), pb.Strings...)...), nil
	case KindObject:
		return NewObject(append(append([]Object{}, pa.Objects...), pb.Objects...)...), nil
	default:
		return NewNull(), nil
	}
}

func promoteKind(a, b Kind) Kind {
	if a == KindString || b == KindString {
		return KindString
	}
	if a == KindFloat || b == KindFloat {
		return KindFloat
	}
	if a == KindInt || b == KindInt {
		return KindInt
	}
	if a == KindObject || b == KindObject {
		return KindObject
	}
	return KindLogical
}

func coerceTo(v *Value, target Kind) (*Value, error) {
	if v.Kind == target {
		return v, nil
	}
	switch target {
	case KindString:
		out := make([]string, v.Len())
		for i := range out {
			out[i] = v.ElementString(i)
		}
		return NewString(out...), nil
	case KindFloat:
		out := make([]float64, v.Len())
		for i := range out {
			out[i] = v.AsFloat64(i)
		}
		return NewFloat(out...), nil
	case KindInt:
		out := make([]int64, v.Len())
		for i := range out {
			out[i] = v.AsInt64(i)
		}
		return NewInt(out...), nil
	case KindObject:
		return nil, typeMismatch("cannot coerce %s to object", v.Kind)
	default:
		return v, nil
	}
}

// Size returns the vector length as an integer Value.
func Size(x *Value) *Value { return NewInt(int64(x.Len())) }

// Sum adds all elements; returns an Int sum if x is logical/int, else Float.
func Sum(x *Value) (*Value, error) {
	if x.Kind == KindString || x.Kind == KindObject {
		return nil, typeMismatch("sum() requires a numeric or logical vector")
	}
	if x.Kind == KindFloat {
		var s float64
		for _, f := range x.Floats {
			s += f
		}
		return NewFloat(s), nil
	}
	var s int64
	for i := 0; i < x.Len(); i++ {
		s += x.AsInt64(i)
	}
	return NewInt(s), nil
}

// Mean returns the arithmetic mean as a Float.
func Mean(x *Value) (*Value, error) {
	if x.Len() == 0 {
		return nil, typeMismatch("mean() requires a non-empty vector")
	}
	s, err := Sum(x)
	if err != nil {
		return nil, err
	}
	return NewFloat(s.AsFloat64(0) / float64(x.Len())), nil
}

// SD returns the sample standard deviation as a Float.
func SD(x *Value) (*Value, error) {
	n := x.Len()
	if n < 2 {
		return nil, typeMismatch("sd() requires at least two elements")
	}
	m, err := Mean(x)
	if err != nil {
		return nil, err
	}
	mean := m.Floats[0]
	var ss float64
	for i := 0; i < n; i++ {
		d := x.AsFloat64(i) - mean
		ss += d * d
	}
	return NewFloat(math.Sqrt(ss / float64(n-1))), nil
}

// Min returns the minimum element, preserving the numeric kind.
func Min(x *Value) (*Value, error) {
	return extremum(x, false)
}

// Max returns the maximum element, preserving the numeric kind.
func Max(x *Value) (*Value, error) {
	return extremum(x, true)
}

func extremum(x *Value, wantMax bool) (*Value, error) {
	if x.Len() == 0 {
		return nil, typeMismatch("min()/max() requires a non-empty vector")
	}
	switch x.Kind {
	case KindInt:
		best := x.Ints[0]
		for _, v := range x.Ints[1:] {
			if (wantMax && v > best) || (!wantMax && v < best) {
				best = v
			}
		}
		return NewInt(best), nil
	case KindFloat:
		best := x.Floats[0]
		for _, v := range x.Floats[1:] {
			if (wantMax && v > best) || (!wantMax && v < best) {
				best = v
			}
		}
		return NewFloat(best), nil
	case KindString:
		best := x.Strings[0]
		for _, v := range x.Strings[1:] {
			if (wantMax && v > best) || (!wantMax && v < best) {
				best = v
			}
		}
		return NewString(best), nil
	default:
		return nil, typeMismatch("min()/max() requires a numeric or string vector")
	}
}
