// Package atoi converts integer text already validated by the tokenizer
// into fixed-width integers. The input is expected to match
// '-'? ('0' | [1-9][0-9]*), anything else yields undefined results.
package atoi

import "math"

// U64 parses s as an unsigned 64-bit integer.
// overflow is true if s is negative or exceeds math.MaxUint64.
func U64[S []byte | string](s S) (v uint64, overflow bool) {
	if len(s) < 1 || s[0] == '-' {
		return 0, len(s) > 0
	}
	for i := 0; i < len(s); i++ {
		d := uint64(s[i] - '0')
		if v > (math.MaxUint64-d)/10 {
			return 0, true
		}
		v = v*10 + d
	}
	return v, false
}

// I64 parses s as a signed 64-bit integer.
// overflow is true if s is out of the range of int64.
func I64[S []byte | string](s S) (v int64, overflow bool) {
	if len(s) < 1 {
		return 0, false
	}
	neg := s[0] == '-'
	limit := uint64(math.MaxInt64)
	i := 0
	if neg {
		limit++
		i = 1
	}
	var u uint64
	for ; i < len(s); i++ {
		d := uint64(s[i] - '0')
		if u > (limit-d)/10 {
			return 0, true
		}
		u = u*10 + d
	}
	if neg {
		return -int64(u-1) - 1, false
	}
	return int64(u), false
}

// I32 parses s as a signed 32-bit integer.
func I32[S []byte | string](s S) (v int32, overflow bool) {
	i, overflow := I64(s)
	if overflow || i > math.MaxInt32 || i < math.MinInt32 {
		return 0, true
	}
	return int32(i), false
}
