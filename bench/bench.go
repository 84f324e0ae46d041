package bench

import (
	"errors"
	"io"
	"unsafe"

	"github.com/romshark/bencdec"
	"github.com/romshark/bencdec/internal/atoi"

	"github.com/romshark/jscan/v2"
	"github.com/tidwall/gjson"
	"github.com/valyala/fastjson"
)

var (
	ErrInvalid         = errors.New("invalid")
	ErrIntegerOverflow = errors.New("integer overflow")
)

// parseInt parses integer text into an int of the platform's width.
func parseInt[S []byte | string](s S) (int, error) {
	if unsafe.Sizeof(int(0)) != 8 {
		i, overflow := atoi.I32(s)
		if overflow {
			return 0, ErrIntegerOverflow
		}
		return int(i), nil
	}
	i, overflow := atoi.I64(s)
	if overflow {
		return 0, ErrIntegerOverflow
	}
	return int(i), nil
}

// nextValue resets d to src and reads the top-level value expecting typ.
func nextValue[S []byte | string](
	d *bencdec.Decoder[S], src S, typ bencdec.ValueType,
) (bencdec.Value[S], error) {
	d.Reset(src)
	v, ok, err := d.Next()
	if err != nil {
		return v, err
	}
	if !ok || v.Type != typ {
		return v, ErrInvalid
	}
	return v, nil
}

// expectEnd makes sure there's nothing left after the top-level value.
func expectEnd[S []byte | string](d *bencdec.Decoder[S]) error {
	_, ok, err := d.Next()
	if err != nil {
		return err
	}
	if ok {
		return ErrInvalid
	}
	return nil
}

func BencdecIntSlice[S []byte | string](
	d *bencdec.Decoder[S], src S,
) (s []int, err error) {
	v, err := nextValue(d, src, bencdec.ValueTypeList)
	if err != nil {
		return nil, err
	}
	s = []int{}
	for l := v.List(); ; {
		e, ok, err := l.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		if e.Type != bencdec.ValueTypeInteger {
			return nil, ErrInvalid
		}
		i, err := parseInt(e.Integer())
		if err != nil {
			return nil, err
		}
		s = append(s, i)
	}
	return s, expectEnd(d)
}

func BencdecStringSlice[S []byte | string](
	d *bencdec.Decoder[S], src S,
) (s []string, err error) {
	v, err := nextValue(d, src, bencdec.ValueTypeList)
	if err != nil {
		return nil, err
	}
	s = []string{}
	for l := v.List(); ; {
		e, ok, err := l.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		if e.Type != bencdec.ValueTypeBytes {
			return nil, ErrInvalid
		}
		s = append(s, string(e.Bytes()))
	}
	return s, expectEnd(d)
}

func BencdecMapStringString[S []byte | string](
	d *bencdec.Decoder[S], src S,
) (m map[string]string, err error) {
	v, err := nextValue(d, src, bencdec.ValueTypeDict)
	if err != nil {
		return nil, err
	}
	m = map[string]string{}
	for dict := v.Dict(); ; {
		k, e, ok, err := dict.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		if e.Type != bencdec.ValueTypeBytes {
			return nil, ErrInvalid
		}
		m[string(k)] = string(e.Bytes())
	}
	return m, expectEnd(d)
}

// BencdecStruct3 decodes Struct3 using the object layer.
// Unknown keys and their values are skipped.
func BencdecStruct3[S []byte | string](
	d *bencdec.Decoder[S], src S,
) (s Struct3, err error) {
	v, err := nextValue(d, src, bencdec.ValueTypeDict)
	if err != nil {
		return s, err
	}
	for dict := v.Dict(); ; {
		k, e, ok, err := dict.Next()
		if err != nil {
			return s, err
		}
		if !ok {
			break
		}
		switch string(k) {
		case "name":
			if e.Type != bencdec.ValueTypeBytes {
				return s, ErrInvalid
			}
			s.Name = string(e.Bytes())
		case "number":
			if e.Type != bencdec.ValueTypeInteger {
				return s, ErrInvalid
			}
			if s.Number, err = parseInt(e.Integer()); err != nil {
				return s, err
			}
		case "tags":
			if e.Type != bencdec.ValueTypeList {
				return s, ErrInvalid
			}
			s.Tags = make([]string, 0, 4)
			for l := e.List(); ; {
				t, ok, err := l.Next()
				if err != nil {
					return s, err
				}
				if !ok {
					break
				}
				if t.Type != bencdec.ValueTypeBytes {
					return s, ErrInvalid
				}
				s.Tags = append(s.Tags, string(t.Bytes()))
			}
		}
	}
	return s, expectEnd(d)
}

// BencdecTokensIntSlice decodes a list of integers using the token layer only.
func BencdecTokensIntSlice[S []byte | string](
	d *bencdec.Decoder[S], src S,
) (s []int, err error) {
	d.Reset(src)
	t, err := d.NextToken()
	if err != nil {
		if err == io.EOF {
			return nil, ErrInvalid
		}
		return nil, err
	}
	if t.Type != bencdec.TokenTypeList {
		return nil, ErrInvalid
	}
	s = []int{}
	for {
		if t, err = d.NextToken(); err != nil {
			return nil, err
		}
		switch t.Type {
		case bencdec.TokenTypeEnd:
			if _, err = d.NextToken(); err != io.EOF {
				return nil, ErrInvalid
			}
			return s, nil
		case bencdec.TokenTypeInteger:
			i, err := parseInt(t.Value)
			if err != nil {
				return nil, err
			}
			s = append(s, i)
		default:
			return nil, ErrInvalid
		}
	}
}

func JscanIntSlice[S []byte | string](
	t *jscan.Tokenizer[S], str S,
) (s []int, err error) {
	errk := t.Tokenize(str, func(tokens []jscan.Token[S]) bool {
		if tokens[0].Type != jscan.TokenTypeArray {
			err = ErrInvalid
			return true
		}
		s = make([]int, 0, tokens[0].Elements)
		for ti := 1; tokens[ti].Type != jscan.TokenTypeArrayEnd; ti++ {
			if tokens[ti].Type != jscan.TokenTypeInteger {
				err = ErrInvalid
				return true
			}
			var i int
			if i, err = parseInt(str[tokens[ti].Index:tokens[ti].End]); err != nil {
				return true
			}
			s = append(s, i)
		}
		return false
	})
	if errk.IsErr() {
		if errk.Code == jscan.ErrorCodeCallback {
			return nil, err
		}
		return nil, errk
	}
	return s, nil
}

func JscanStringSlice[S []byte | string](
	t *jscan.Tokenizer[S], str S,
) (s []string, err error) {
	errk := t.Tokenize(str, func(tokens []jscan.Token[S]) bool {
		if tokens[0].Type != jscan.TokenTypeArray {
			err = ErrInvalid
			return true
		}
		s = make([]string, 0, tokens[0].Elements)
		for ti := 1; tokens[ti].Type != jscan.TokenTypeArrayEnd; ti++ {
			if tokens[ti].Type != jscan.TokenTypeString {
				err = ErrInvalid
				return true
			}
			s = append(s, string(str[tokens[ti].Index+1:tokens[ti].End-1]))
		}
		return false
	})
	if errk.IsErr() {
		if errk.Code == jscan.ErrorCodeCallback {
			return nil, err
		}
		return nil, errk
	}
	return s, nil
}

func JscanMapStringString[S []byte | string](
	t *jscan.Tokenizer[S], str S,
) (m map[string]string, err error) {
	errk := t.Tokenize(str, func(tokens []jscan.Token[S]) bool {
		if tokens[0].Type != jscan.TokenTypeObject {
			err = ErrInvalid
			return true
		}
		m = make(map[string]string, tokens[0].Elements)
		for ti := 1; tokens[ti].Type != jscan.TokenTypeObjectEnd; {
			key := str[tokens[ti].Index+1 : tokens[ti].End-1]
			ti++
			if tokens[ti].Type != jscan.TokenTypeString {
				err = ErrInvalid
				return true
			}
			m[string(key)] = string(str[tokens[ti].Index+1 : tokens[ti].End-1])
			ti++
		}
		return false
	})
	if errk.IsErr() {
		if errk.Code == jscan.ErrorCodeCallback {
			return nil, err
		}
		return nil, errk
	}
	return m, nil
}

func JscanStruct3[S []byte | string](
	t *jscan.Tokenizer[S], src S,
) (s Struct3, err error) {
	errk := t.Tokenize(src, func(tokens []jscan.Token[S]) bool {
		if tokens[0].Type != jscan.TokenTypeObject {
			err = ErrInvalid
			return true
		}
		for ti := 1; tokens[ti].Type != jscan.TokenTypeObjectEnd; {
			key := src[tokens[ti].Index+1 : tokens[ti].End-1]
			ti++
			switch string(key) {
			case "name":
				if tokens[ti].Type != jscan.TokenTypeString {
					err = ErrInvalid
					return true
				}
				s.Name = string(src[tokens[ti].Index+1 : tokens[ti].End-1])
				ti++
			case "number":
				if tokens[ti].Type != jscan.TokenTypeInteger {
					err = ErrInvalid
					return true
				}
				if s.Number, err = parseInt(
					src[tokens[ti].Index:tokens[ti].End],
				); err != nil {
					return true
				}
				ti++
			case "tags":
				if tokens[ti].Type != jscan.TokenTypeArray {
					err = ErrInvalid
					return true
				}
				s.Tags = make([]string, 0, tokens[ti].Elements)
				for ti = ti + 1; tokens[ti].Type != jscan.TokenTypeArrayEnd; ti++ {
					if tokens[ti].Type != jscan.TokenTypeString {
						err = ErrInvalid
						return true
					}
					val := src[tokens[ti].Index+1 : tokens[ti].End-1]
					s.Tags = append(s.Tags, string(val))
				}
				ti++
			default:
				err = ErrInvalid
				return true
			}
		}
		return false
	})
	if errk.IsErr() {
		if errk.Code == jscan.ErrorCodeCallback {
			return s, err
		}
		return s, errk
	}
	return s, nil
}

func GJSONArrayInt(j []byte) ([]int, error) {
	if !gjson.ValidBytes(j) {
		return nil, ErrInvalid
	}
	l := gjson.ParseBytes(j).Array()
	a := make([]int, 0, len(l))
	for _, item := range l {
		a = append(a, int(item.Int()))
	}
	return a, nil
}

func GJSONArrayString(j []byte) ([]string, error) {
	if !gjson.ValidBytes(j) {
		return nil, ErrInvalid
	}
	l := gjson.ParseBytes(j).Array()
	a := make([]string, 0, len(l))
	for _, item := range l {
		if item.Type != gjson.String {
			return nil, ErrInvalid
		}
		a = append(a, item.Str)
	}
	return a, nil
}

func GJSONMapStringString(j []byte) (map[string]string, error) {
	if !gjson.ValidBytes(j) {
		return nil, ErrInvalid
	}
	r := gjson.ParseBytes(j).Map()
	m := make(map[string]string, len(r))
	for key, val := range r {
		m[key] = val.Str
	}
	return m, nil
}

func GJSONStruct3(j []byte) (s Struct3, err error) {
	if !gjson.ValidBytes(j) {
		return s, ErrInvalid
	}
	v := gjson.ParseBytes(j)
	if !v.IsObject() {
		return s, ErrInvalid
	}
	v.ForEach(func(key, value gjson.Result) bool {
		switch key.Str {
		case "name":
			if value.Type != gjson.String {
				err = ErrInvalid
				return false
			}
			s.Name = value.String()
		case "number":
			if value.Type != gjson.Number {
				err = ErrInvalid
				return false
			}
			if s.Number, err = parseInt(value.Raw); err != nil {
				return false
			}
		case "tags":
			if !value.IsArray() {
				err = ErrInvalid
				return false
			}
			a := value.Array()
			s.Tags = make([]string, len(a))
			for i := range a {
				if a[i].Type != gjson.String {
					err = ErrInvalid
					return false
				}
				s.Tags[i] = a[i].String()
			}
		default:
			err = ErrInvalid
			return false
		}
		return true
	})
	return s, err
}

func FastjsonArrayInt(j []byte) ([]int, error) {
	v, err := fastjson.ParseBytes(j)
	if err != nil {
		return nil, err
	}
	va, err := v.Array()
	if err != nil {
		return nil, err
	}
	a := make([]int, len(va))
	for i := range va {
		if a[i], err = va[i].Int(); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func FastjsonArrayString(j []byte) ([]string, error) {
	v, err := fastjson.ParseBytes(j)
	if err != nil {
		return nil, err
	}
	va, err := v.Array()
	if err != nil {
		return nil, err
	}
	a := make([]string, len(va))
	for i := range va {
		b, err := va[i].StringBytes()
		if err != nil {
			return nil, err
		}
		a[i] = string(b)
	}
	return a, nil
}

func FastjsonMapStringString(j []byte) (m map[string]string, err error) {
	v, err := fastjson.ParseBytes(j)
	if err != nil {
		return nil, err
	}
	o, err := v.Object()
	if err != nil {
		return nil, err
	}
	m = make(map[string]string, o.Len())
	o.Visit(func(key []byte, v *fastjson.Value) {
		if err != nil {
			return
		}
		var b []byte
		if b, err = v.StringBytes(); err != nil {
			return
		}
		m[string(key)] = string(b)
	})
	return m, err
}

func FastjsonStruct3(j []byte) (s Struct3, err error) {
	v, err := fastjson.ParseBytes(j)
	if err != nil {
		return s, err
	}

	o, err := v.Object()
	if err != nil {
		return s, err
	}
	o.Visit(func(key []byte, v *fastjson.Value) {
		if err != nil {
			return
		}
		switch string(key) {
		case "name":
			var b []byte
			if b, err = v.StringBytes(); err != nil {
				return
			}
			s.Name = string(b)
		case "number":
			if s.Number, err = v.Int(); err != nil {
				return
			}
		case "tags":
			var a []*fastjson.Value
			if a, err = v.Array(); err != nil {
				return
			}
			s.Tags = make([]string, len(a))
			for i := range a {
				var b []byte
				if b, err = a[i].StringBytes(); err != nil {
					return
				}
				s.Tags[i] = string(b)
			}
		default:
			err = ErrInvalid
			return
		}
	})
	return s, err
}
