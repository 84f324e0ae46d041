package bencdec

import (
	"strconv"

	"github.com/romshark/bencdec/internal/atoi"
)

type TokenType int8

const (
	_ TokenType = iota

	// TokenTypeList is the list opening 'l'
	TokenTypeList

	// TokenTypeDict is the dictionary opening 'd'
	TokenTypeDict

	// TokenTypeString is a length-prefixed byte string
	TokenTypeString

	// TokenTypeInteger is an 'i'...'e' integer
	TokenTypeInteger

	// TokenTypeEnd is the 'e' terminating a list or a dictionary
	TokenTypeEnd
)

func (t TokenType) String() string {
	switch t {
	case TokenTypeList:
		return "list"
	case TokenTypeDict:
		return "dict"
	case TokenTypeString:
		return "string"
	case TokenTypeInteger:
		return "integer"
	case TokenTypeEnd:
		return "end"
	}
	return "invalid(" + strconv.Itoa(int(t)) + ")"
}

// Token is a single lexical bencode token.
// Token never owns memory, Value always refers to the source the token
// was read from.
type Token[S []byte | string] struct {
	// Value is the payload of a TokenTypeString token and the unparsed
	// integer text (without the leading 'i' and the terminating 'e')
	// of a TokenTypeInteger token. Value is empty for all other types.
	Value S

	// Index is the offset of the first byte of the token in the source.
	Index int

	// End is the offset of the byte following the token in the source.
	End int

	Type TokenType
}

// takeChunk takes the next n bytes of the source.
// A chunk may end exactly at the end of the source.
func (d *Decoder[S]) takeChunk(n uint64) (chunk S, ok bool) {
	if n > uint64(len(d.src)-d.offset) {
		return chunk, false
	}
	end := d.offset + int(n)
	chunk, d.offset = d.src[d.offset:end], end
	return chunk, true
}

// takeInt lexes integer text terminated by term starting at the cursor
// and returns the text without the terminator.
// The cursor is only moved on success.
func (d *Decoder[S]) takeInt(term byte) (text S, err error) {
	const (
		stateStart = iota
		stateSign
		stateZero
		stateDigits
	)
	state := stateStart
	for i := d.offset; i < len(d.src); i++ {
		c := d.src[i]
		switch state {
		case stateStart:
			switch {
			case c == '-':
				state = stateSign
			case c == '0':
				state = stateZero
			case c >= '1' && c <= '9':
				state = stateDigits
			default:
				return text, errUnexpected("'-' or '0'..'9'", c, i)
			}
		case stateSign:
			if c < '1' || c > '9' {
				return text, errUnexpected("'1'..'9'", c, i)
			}
			state = stateDigits
		case stateZero:
			if c != term {
				return text, errUnexpected(strconv.QuoteRune(rune(term)), c, i)
			}
			text, d.offset = d.src[d.offset:i], i+1
			return text, nil
		case stateDigits:
			if c == term {
				text, d.offset = d.src[d.offset:i], i+1
				return text, nil
			}
			if c < '0' || c > '9' {
				return text, errUnexpected(
					strconv.QuoteRune(rune(term))+" or '0'..'9'", c, i,
				)
			}
		}
	}
	return text, ErrorDecode{Err: ErrUnexpectedEOF, Index: len(d.src)}
}

// readToken lexes the next token without validating it against
// the current frame. The cursor must not be at the end of the source.
func (d *Decoder[S]) readToken() (tok Token[S], err error) {
	tok.Index = d.offset
	c := d.src[d.offset]
	switch {
	case c == 'e':
		d.offset++
		tok.Type = TokenTypeEnd
	case c == 'l':
		d.offset++
		tok.Type = TokenTypeList
	case c == 'd':
		d.offset++
		tok.Type = TokenTypeDict
	case c == 'i':
		d.offset++
		if tok.Value, err = d.takeInt('e'); err != nil {
			return tok, err
		}
		tok.Type = TokenTypeInteger
	case c >= '0' && c <= '9':
		var l S
		if l, err = d.takeInt(':'); err != nil {
			return tok, err
		}
		n, overflow := atoi.U64(l)
		if overflow {
			return tok, ErrorDecode{
				Err:   ErrSyntax,
				Msg:   "invalid string length",
				Index: tok.Index,
			}
		}
		var ok bool
		if tok.Value, ok = d.takeChunk(n); !ok {
			return tok, ErrorDecode{Err: ErrUnexpectedEOF, Index: len(d.src)}
		}
		tok.Type = TokenTypeString
	default:
		d.offset++
		return tok, ErrorDecode{
			Err:   ErrSyntax,
			Msg:   "invalid token starting with " + quoteByte(c),
			Index: tok.Index,
		}
	}
	tok.End = d.offset
	return tok, nil
}

func errUnexpected(expected string, got byte, index int) ErrorDecode {
	return ErrorDecode{
		Err:   ErrSyntax,
		Msg:   "expected " + expected + ", got " + quoteByte(got),
		Index: index,
	}
}

func quoteByte(c byte) string {
	if c < 0x80 {
		return strconv.QuoteRune(rune(c))
	}
	return "0x" + strconv.FormatUint(uint64(c), 16)
}
