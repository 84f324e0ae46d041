// Package easyjsongen provides easyjson unmarshalers for the bench types
// written against jlexer the same way easyjson generates them.
package easyjsongen

import (
	"github.com/mailru/easyjson/jlexer"
)

type IntArray struct {
	Data []int `json:"data"`
}

type StringArray struct {
	Data []string `json:"data"`
}

type MapStringString struct {
	Data map[string]string `json:"data"`
}

type Struct3 struct {
	Name   string   `json:"name"`
	Number int      `json:"number"`
	Tags   []string `json:"tags"`
}

// decodeObject calls field for every key of a JSON object
// and takes care of the delimiters and nulls.
func decodeObject(in *jlexer.Lexer, field func(in *jlexer.Lexer, key string)) {
	isTopLevel := in.IsStart()
	if in.IsNull() {
		if isTopLevel {
			in.Consumed()
		}
		in.Skip()
		return
	}
	in.Delim('{')
	for !in.IsDelim('}') {
		key := in.UnsafeFieldName(false)
		in.WantColon()
		if in.IsNull() {
			in.Skip()
			in.WantComma()
			continue
		}
		field(in, key)
		in.WantComma()
	}
	in.Delim('}')
	if isTopLevel {
		in.Consumed()
	}
}

func decodeStrings(in *jlexer.Lexer) []string {
	if in.IsNull() {
		in.Skip()
		return nil
	}
	in.Delim('[')
	l := []string{}
	for !in.IsDelim(']') {
		l = append(l, in.String())
		in.WantComma()
	}
	in.Delim(']')
	return l
}

func (v *IntArray) UnmarshalEasyJSON(l *jlexer.Lexer) {
	decodeObject(l, func(in *jlexer.Lexer, key string) {
		if key != "data" {
			in.SkipRecursive()
			return
		}
		in.Delim('[')
		v.Data = []int{}
		for !in.IsDelim(']') {
			v.Data = append(v.Data, in.Int())
			in.WantComma()
		}
		in.Delim(']')
	})
}

func (v *StringArray) UnmarshalEasyJSON(l *jlexer.Lexer) {
	decodeObject(l, func(in *jlexer.Lexer, key string) {
		if key != "data" {
			in.SkipRecursive()
			return
		}
		v.Data = decodeStrings(in)
	})
}

func (v *MapStringString) UnmarshalEasyJSON(l *jlexer.Lexer) {
	decodeObject(l, func(in *jlexer.Lexer, key string) {
		if key != "data" {
			in.SkipRecursive()
			return
		}
		in.Delim('{')
		v.Data = map[string]string{}
		for !in.IsDelim('}') {
			k := in.String()
			in.WantColon()
			v.Data[k] = in.String()
			in.WantComma()
		}
		in.Delim('}')
	})
}

func (v *Struct3) UnmarshalEasyJSON(l *jlexer.Lexer) {
	decodeObject(l, func(in *jlexer.Lexer, key string) {
		switch key {
		case "name":
			v.Name = in.String()
		case "number":
			v.Number = in.Int()
		case "tags":
			v.Tags = decodeStrings(in)
		default:
			in.SkipRecursive()
		}
	})
}
