// Package bencdec provides a lazy streaming decoder for bencode.
//
// The token layer (Decoder.NextToken) yields one validated token at a time.
// The object layer (Decoder.Next, ListDecoder, DictDecoder) builds on it
// and skips whatever the caller leaves unread.
package bencdec

import (
	"errors"
	"io"
	"iter"
	"strconv"
	"strings"
)

var (
	// ErrInvalidState is returned when a token is well-formed but not allowed
	// in its context, for example an end at the top level or a non-string
	// dictionary key.
	ErrInvalidState = errors.New("invalid state")

	// ErrUnsortedKeys is returned when a dictionary key isn't strictly greater
	// than the preceding key of the same dictionary.
	ErrUnsortedKeys = errors.New("unsorted keys")

	// ErrUnexpectedEOF is returned when the input ends inside of a token
	// or inside of an open list or dictionary.
	ErrUnexpectedEOF = errors.New("unexpected EOF")

	// ErrSyntax is returned for malformed integers and string lengths
	// and for unknown leading bytes.
	ErrSyntax = errors.New("syntax error")
)

type ErrorDecode struct {
	Err error

	// Msg is an optional description of the error.
	Msg string

	// Index is the offset of the first offending byte in the source.
	Index int
}

func (e ErrorDecode) IsErr() bool { return e.Err != nil }

func (e ErrorDecode) Error() string {
	var s strings.Builder
	s.WriteString("at index ")
	s.WriteString(strconv.Itoa(e.Index))
	s.WriteString(": ")
	s.WriteString(e.Err.Error())
	if e.Msg != "" {
		s.WriteString(": ")
		s.WriteString(e.Msg)
	}
	return s.String()
}

func (e ErrorDecode) Unwrap() error { return e.Err }

// Options are options for the constructor function NewDecoder[S].
type Options struct {
	// MaxDepth limits the nesting depth of lists and dictionaries.
	// Exceeding it makes the decoder fail with ErrInvalidState.
	// Zero means no limit.
	MaxDepth int
}

// DefaultOptions are to be used by default. DO NOT MUTATE.
var DefaultOptions = &Options{
	MaxDepth: 0,
}

type frameType int8

const (
	_ frameType = iota

	// frameSeq is an open list, any token is allowed.
	frameSeq

	// frameMapKey is an open dictionary expecting a key or an end.
	// If HasKey is true Key holds the previous key.
	frameMapKey

	// frameMapValue is an open dictionary expecting the value for Key.
	frameMapValue
)

type frame[S []byte | string] struct {
	Key    S
	HasKey bool
	Type   frameType
}

// liveHandle identifies a list or dictionary decoder that wasn't
// exhausted yet.
type liveHandle struct {
	// Level is the depth of the frame stack right after
	// the structure was opened.
	Level int
	Gen   uint64
}

// Decoder is a forward-only bencode decoder reading from an in-memory source.
// Tokens and values returned by the decoder refer to the source and are never
// copied. A Decoder must not be used concurrently.
type Decoder[S []byte | string] struct {
	src      S
	offset   int
	maxDepth int
	stack    []frame[S]
	live     []liveHandle
	gen      uint64

	// err is the first error encountered. Once set every further call
	// returns it unchanged.
	err error
}

// NewDecoder creates a new decoder reading src.
// If options is nil DefaultOptions are used.
func NewDecoder[S []byte | string](src S, options *Options) *Decoder[S] {
	if options == nil {
		options = DefaultOptions
	}
	return &Decoder[S]{
		src:      src,
		maxDepth: options.MaxDepth,
		stack:    make([]frame[S], 0, 8),
	}
}

// Reset makes the decoder start over reading src reusing its allocated memory.
// Any list or dictionary decoder obtained before Reset is invalidated.
func (d *Decoder[S]) Reset(src S) {
	// Don't keep references to the previous source.
	clear(d.stack[:cap(d.stack)])
	d.src, d.offset, d.err = src, 0, nil
	d.stack, d.live = d.stack[:0], d.live[:0]
}

// Offset returns the current position of the cursor in the source.
func (d *Decoder[S]) Offset() int { return d.offset }

// Depth returns the number of currently open lists and dictionaries.
func (d *Decoder[S]) Depth() int { return len(d.stack) }

// Err returns the error the decoder failed with, if any.
func (d *Decoder[S]) Err() error { return d.err }

// NextToken reads the next token. It returns io.EOF when the source is exhausted
// and no list or dictionary is left open.
// Any list or dictionary decoder still in use is skipped to its end first.
func (d *Decoder[S]) NextToken() (Token[S], error) {
	if err := d.release(0); err != nil {
		return Token[S]{}, err
	}
	return d.nextToken()
}

// Tokens returns an iterator over the remaining tokens.
// Iteration stops after the first error.
func (d *Decoder[S]) Tokens() iter.Seq2[Token[S], error] {
	return func(yield func(Token[S], error) bool) {
		for {
			tok, err := d.NextToken()
			if err == io.EOF {
				return
			}
			if !yield(tok, err) || err != nil {
				return
			}
		}
	}
}

// Valid returns nil if src is a sequence of well-formed bencode values,
// otherwise returns the error the decoder fails with.
func Valid[S []byte | string](src S) error {
	d := Decoder[S]{src: src}
	for {
		if _, err := d.nextToken(); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}

func (d *Decoder[S]) nextToken() (tok Token[S], err error) {
	if d.err != nil {
		return tok, d.err
	}
	if d.offset >= len(d.src) {
		if len(d.stack) == 0 {
			return tok, io.EOF
		}
		return tok, d.fail(ErrorDecode{Err: ErrUnexpectedEOF, Index: d.offset})
	}
	if tok, err = d.readToken(); err != nil {
		return tok, d.fail(err)
	}
	if err = d.validate(tok); err != nil {
		// Roll back so that the offset points at the offending token.
		d.offset = tok.Index
		return Token[S]{}, d.fail(err)
	}
	return tok, nil
}

// validate checks tok against the top frame and updates the frame stack.
func (d *Decoder[S]) validate(tok Token[S]) error {
	if len(d.stack) > 0 {
		top := &d.stack[len(d.stack)-1]
		switch top.Type {
		case frameSeq:
			if tok.Type == TokenTypeEnd {
				d.stack = d.stack[:len(d.stack)-1]
				return nil
			}
		case frameMapKey:
			switch tok.Type {
			case TokenTypeEnd:
				d.stack = d.stack[:len(d.stack)-1]
				return nil
			case TokenTypeString:
				if top.HasKey && string(top.Key) >= string(tok.Value) {
					return ErrorDecode{
						Err:   ErrUnsortedKeys,
						Msg:   strconv.Quote(string(tok.Value)),
						Index: tok.Index,
					}
				}
				top.Key, top.HasKey, top.Type = tok.Value, true, frameMapValue
				return nil
			default:
				return ErrorDecode{
					Err:   ErrInvalidState,
					Msg:   "map keys must be strings",
					Index: tok.Index,
				}
			}
		case frameMapValue:
			if tok.Type == TokenTypeEnd {
				return ErrorDecode{
					Err:   ErrInvalidState,
					Msg:   "missing value for map key " + strconv.Quote(string(top.Key)),
					Index: tok.Index,
				}
			}
			top.Type = frameMapKey
		}
	} else if tok.Type == TokenTypeEnd {
		return ErrorDecode{
			Err:   ErrInvalidState,
			Msg:   "end not allowed at top level",
			Index: tok.Index,
		}
	}

	switch tok.Type {
	case TokenTypeList:
		if d.maxDepth > 0 && len(d.stack) >= d.maxDepth {
			return errMaxDepth(tok.Index)
		}
		d.stack = append(d.stack, frame[S]{Type: frameSeq})
	case TokenTypeDict:
		if d.maxDepth > 0 && len(d.stack) >= d.maxDepth {
			return errMaxDepth(tok.Index)
		}
		d.stack = append(d.stack, frame[S]{Type: frameMapKey})
	}
	return nil
}

func errMaxDepth(index int) ErrorDecode {
	return ErrorDecode{
		Err:   ErrInvalidState,
		Msg:   "maximum nesting depth exceeded",
		Index: index,
	}
}

// fail latches err making it permanent.
func (d *Decoder[S]) fail(err error) error {
	d.err = err
	return err
}
