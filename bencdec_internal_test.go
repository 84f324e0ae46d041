package bencdec

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFrameStack(t *testing.T) {
	type F = frame[string]

	d := NewDecoder("d1:ali1ee1:bd1:cdeee", nil)
	for _, expect := range [][]F{
		{{Type: frameMapKey}},                                           // d
		{{Type: frameMapValue, Key: "a", HasKey: true}},                 // 1:a
		{{Type: frameMapKey, Key: "a", HasKey: true}, {Type: frameSeq}}, // l
		{{Type: frameMapKey, Key: "a", HasKey: true}, {Type: frameSeq}}, // i1e
		{{Type: frameMapKey, Key: "a", HasKey: true}},                   // e
		{{Type: frameMapValue, Key: "b", HasKey: true}},                 // 1:b
		{
			{Type: frameMapKey, Key: "b", HasKey: true},
			{Type: frameMapKey},
		}, // d
		{
			{Type: frameMapKey, Key: "b", HasKey: true},
			{Type: frameMapValue, Key: "c", HasKey: true},
		}, // 1:c
		{
			{Type: frameMapKey, Key: "b", HasKey: true},
			{Type: frameMapKey, Key: "c", HasKey: true},
			{Type: frameMapKey},
		}, // d
		{
			{Type: frameMapKey, Key: "b", HasKey: true},
			{Type: frameMapKey, Key: "c", HasKey: true},
		}, // e
		{{Type: frameMapKey, Key: "b", HasKey: true}}, // e
		{}, // e
	} {
		tok, err := d.nextToken()
		require.NoError(t, err)
		require.Equal(t, expect, d.stack, "after %s at %d", tok.Type, tok.Index)
	}
}

func TestTakeInt(t *testing.T) {
	for _, td := range []struct {
		Input     string
		Term      byte
		Expect    string
		ExpectErr ErrorDecode
		Offset    int
	}{
		{Input: "0e", Term: 'e', Expect: "0", Offset: 2},
		{Input: "-12e", Term: 'e', Expect: "-12", Offset: 4},
		{Input: "1234:", Term: ':', Expect: "1234", Offset: 5},
		{Input: "12e", Term: ':', ExpectErr: ErrorDecode{
			Err: ErrSyntax, Msg: `expected ':' or '0'..'9', got 'e'`, Index: 2,
		}},
		{Input: "00:", Term: ':', ExpectErr: ErrorDecode{
			Err: ErrSyntax, Msg: `expected ':', got '0'`, Index: 1,
		}},
		{Input: "-0e", Term: 'e', ExpectErr: ErrorDecode{
			Err: ErrSyntax, Msg: `expected '1'..'9', got '0'`, Index: 1,
		}},
		{Input: "+1e", Term: 'e', ExpectErr: ErrorDecode{
			Err: ErrSyntax, Msg: `expected '-' or '0'..'9', got '+'`, Index: 0,
		}},
		{Input: "123", Term: 'e', ExpectErr: ErrorDecode{
			Err: ErrUnexpectedEOF, Index: 3,
		}},
		{Input: "", Term: 'e', ExpectErr: ErrorDecode{
			Err: ErrUnexpectedEOF, Index: 0,
		}},
	} {
		t.Run(fmt.Sprintf("%q", td.Input), func(t *testing.T) {
			d := NewDecoder([]byte(td.Input), nil)
			text, err := d.takeInt(td.Term)
			if td.ExpectErr.IsErr() {
				require.Equal(t, td.ExpectErr, err)
				require.Zero(t, d.offset, "cursor moved on error")
				return
			}
			require.NoError(t, err)
			require.Equal(t, td.Expect, string(text))
			require.Equal(t, td.Offset, d.offset)
		})
	}
}

func TestTakeChunk(t *testing.T) {
	d := NewDecoder("abc", nil)

	_, ok := d.takeChunk(4)
	require.False(t, ok)
	require.Zero(t, d.offset)

	c, ok := d.takeChunk(1)
	require.True(t, ok)
	require.Equal(t, "a", c)

	// A chunk reaching exactly the end of the source is allowed.
	c, ok = d.takeChunk(2)
	require.True(t, ok)
	require.Equal(t, "bc", c)
	require.Equal(t, 3, d.offset)

	c, ok = d.takeChunk(0)
	require.True(t, ok)
	require.Equal(t, "", c)

	_, ok = d.takeChunk(1 << 63)
	require.False(t, ok)
}

func TestLiveHandles(t *testing.T) {
	d := NewDecoder("llleee", nil)

	v1, _, err := d.Next()
	require.NoError(t, err)
	v2, _, err := v1.List().Next()
	require.NoError(t, err)
	v3, _, err := v2.List().Next()
	require.NoError(t, err)

	require.Equal(t, []liveHandle{
		{Level: 1, Gen: 1}, {Level: 2, Gen: 2}, {Level: 3, Gen: 3},
	}, d.live)
	require.Equal(t, 2, v3.h.index())

	// Using the outermost list releases the two nested ones.
	_, ok, err := v1.List().Next()
	require.NoError(t, err)
	require.False(t, ok)
	require.Empty(t, d.live)
	require.Equal(t, -1, v2.h.index())
	require.Equal(t, -1, v3.h.index())
	require.Equal(t, 6, d.offset)
}

func TestResetClearsKeys(t *testing.T) {
	d := NewDecoder([]byte("d1:ai1e"), nil)
	for i := 0; i < 3; i++ {
		_, err := d.nextToken()
		require.NoError(t, err)
	}
	require.Equal(t, []byte("a"), d.stack[0].Key)

	d.Reset([]byte("i1e"))
	require.Nil(t, d.stack[:1][0].Key)
	require.Empty(t, d.live)
	require.Zero(t, d.offset)
}
