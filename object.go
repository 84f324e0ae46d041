package bencdec

import (
	"io"
	"strconv"
)

type ValueType int8

const (
	_ ValueType = iota

	// ValueTypeList is a list, see Value.List
	ValueTypeList

	// ValueTypeDict is a dictionary, see Value.Dict
	ValueTypeDict

	// ValueTypeInteger is an integer, see Value.Integer
	ValueTypeInteger

	// ValueTypeBytes is a byte string, see Value.Bytes
	ValueTypeBytes
)

func (t ValueType) String() string {
	switch t {
	case ValueTypeList:
		return "list"
	case ValueTypeDict:
		return "dict"
	case ValueTypeInteger:
		return "integer"
	case ValueTypeBytes:
		return "bytes"
	}
	return "invalid(" + strconv.Itoa(int(t)) + ")"
}

// Value is a decoded bencode value.
// Lists and dictionaries aren't decoded eagerly, instead Value provides
// a ListDecoder or a DictDecoder reading their contents on demand
// from the decoder that produced the value.
type Value[S []byte | string] struct {
	h    handle[S]
	raw  S
	Type ValueType

	// Index is the offset of the value's first byte in the source.
	Index int
}

// Bytes returns the contents of a byte string value.
func (v Value[S]) Bytes() S {
	if v.Type != ValueTypeBytes {
		var zero S
		return zero
	}
	return v.raw
}

// Integer returns the unparsed text of an integer value (like "-42").
// Interpreting it as a fixed-width or arbitrary-precision number
// is up to the caller.
func (v Value[S]) Integer() S {
	if v.Type != ValueTypeInteger {
		var zero S
		return zero
	}
	return v.raw
}

// List returns the decoder of a list value.
// For any other value type the returned decoder yields nothing.
func (v Value[S]) List() ListDecoder[S] {
	if v.Type != ValueTypeList {
		return ListDecoder[S]{}
	}
	return ListDecoder[S]{h: v.h}
}

// Dict returns the decoder of a dictionary value.
// For any other value type the returned decoder yields nothing.
func (v Value[S]) Dict() DictDecoder[S] {
	if v.Type != ValueTypeDict {
		return DictDecoder[S]{}
	}
	return DictDecoder[S]{h: v.h}
}

// Skip skips the remaining contents of a list or dictionary value.
// Skip is a no-op for integers and byte strings.
func (v Value[S]) Skip() error { return v.h.skip() }

// ListDecoder lazily decodes the elements of a list.
//
// Only one list or dictionary decoder per nesting level can be in use at a time.
// Calling any method of a decoder (or of the parent Decoder) while a nested
// decoder isn't exhausted skips the rest of the nested structure first.
// Exhausted and skipped decoders yield nothing.
type ListDecoder[S []byte | string] struct{ h handle[S] }

// Next returns the next element of the list.
// ok is false once the end of the list is reached.
func (l ListDecoder[S]) Next() (v Value[S], ok bool, err error) {
	if ok, err = l.h.acquire(); !ok {
		return v, false, err
	}
	if v, ok, err = l.h.d.next(); err == nil && !ok {
		l.h.d.popLive()
	}
	return v, ok, err
}

// Skip skips the remaining elements of the list.
func (l ListDecoder[S]) Skip() error { return l.h.skip() }

// DictDecoder lazily decodes the entries of a dictionary.
// See ListDecoder for the rules of nested decoder use.
type DictDecoder[S []byte | string] struct{ h handle[S] }

// Next returns the next entry of the dictionary.
// Keys are guaranteed to be in strictly increasing byte order.
// ok is false once the end of the dictionary is reached.
func (m DictDecoder[S]) Next() (key S, v Value[S], ok bool, err error) {
	if ok, err = m.h.acquire(); !ok {
		return key, v, false, err
	}
	d := m.h.d
	tok, err := d.nextToken()
	if err != nil {
		if err == io.EOF {
			err = nil
		}
		return key, v, false, err
	}
	if tok.Type != TokenTypeString {
		// Anything but a key or the end is rejected by validate.
		d.popLive()
		return key, v, false, nil
	}
	if v, ok, err = d.next(); err != nil || !ok {
		return key, v, false, err
	}
	return tok.Value, v, true, nil
}

// Skip skips the remaining entries of the dictionary.
func (m DictDecoder[S]) Skip() error { return m.h.skip() }

// Next returns the next top-level value.
// ok is false once the source is exhausted.
// Any list or dictionary decoder still in use is skipped to its end first.
func (d *Decoder[S]) Next() (v Value[S], ok bool, err error) {
	if err = d.release(0); err != nil {
		return v, false, err
	}
	return d.next()
}

// next reads one token and turns it into a value.
// Ends and the end of the source yield no value.
func (d *Decoder[S]) next() (v Value[S], ok bool, err error) {
	tok, err := d.nextToken()
	if err != nil {
		if err == io.EOF {
			err = nil
		}
		return v, false, err
	}
	v.Index = tok.Index
	switch tok.Type {
	case TokenTypeEnd:
		return v, false, nil
	case TokenTypeList:
		v.Type, v.h = ValueTypeList, d.pushLive()
	case TokenTypeDict:
		v.Type, v.h = ValueTypeDict, d.pushLive()
	case TokenTypeString:
		v.Type, v.raw = ValueTypeBytes, tok.Value
	case TokenTypeInteger:
		v.Type, v.raw = ValueTypeInteger, tok.Value
	}
	return v, true, nil
}

// handle refers to a list or dictionary opened at a given level.
// The zero value refers to nothing.
type handle[S []byte | string] struct {
	d     *Decoder[S]
	level int
	gen   uint64
}

// pushLive registers a handle for the structure that was just opened.
func (d *Decoder[S]) pushLive() handle[S] {
	d.gen++
	h := handle[S]{d: d, level: len(d.stack), gen: d.gen}
	d.live = append(d.live, liveHandle{Level: h.level, Gen: h.gen})
	return h
}

// popLive unregisters the innermost handle after its end was read.
func (d *Decoder[S]) popLive() { d.live = d.live[:len(d.live)-1] }

// release skips the structures of all live handles starting at index i
// and unregisters them.
func (d *Decoder[S]) release(i int) error {
	if i >= len(d.live) {
		return nil
	}
	depth := d.live[i].Level - 1
	d.live = d.live[:i]
	for len(d.stack) > depth {
		if _, err := d.nextToken(); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
	return nil
}

// index returns the index of h among the live handles or -1
// if h is exhausted.
func (h handle[S]) index() int {
	if h.d == nil {
		return -1
	}
	for i := len(h.d.live) - 1; i >= 0; i-- {
		if h.d.live[i].Gen == h.gen {
			return i
		}
	}
	return -1
}

// acquire makes h the innermost live handle skipping any nested
// structure left unread. ok is false if h is exhausted.
func (h handle[S]) acquire() (ok bool, err error) {
	i := h.index()
	if i < 0 {
		return false, nil
	}
	if err := h.d.release(i + 1); err != nil {
		return false, err
	}
	return true, nil
}

func (h handle[S]) skip() error {
	i := h.index()
	if i < 0 {
		return nil
	}
	return h.d.release(i)
}
