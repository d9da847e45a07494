package wire

import (
	"reflect"
	"testing"
)

func TestLex(t *testing.T) {
	tests := []struct {
		input string
		want  []tokenType
		texts []string
	}{
		{
			input: "P,ON,60,100",
			want:  []tokenType{typeWord, typeComma, typeWord, typeComma, typeInt, typeComma, typeInt, typeEOF},
			texts: []string{"P", ",", "ON", ",", "60", ",", "100", ""},
		},
		{
			input: "P,BEND,60,-4096",
			want:  []tokenType{typeWord, typeComma, typeWord, typeComma, typeInt, typeComma, typeInt, typeEOF},
			texts: []string{"P", ",", "BEND", ",", "60", ",", "-4096", ""},
		},
		{
			input: "G,11, Thumbs Up ",
			want:  []tokenType{typeWord, typeComma, typeInt, typeComma, typeWord, typeEOF},
			texts: []string{"G", ",", "11", ",", "Thumbs Up", ""},
		},
		{
			input: "P,ON,12ab",
			want:  []tokenType{typeWord, typeComma, typeWord, typeComma, typeWord, typeEOF},
			texts: []string{"P", ",", "ON", ",", "12ab", ""},
		},
		{
			input: "P,,60",
			want:  []tokenType{typeWord, typeComma, typeComma, typeInt, typeEOF},
			texts: []string{"P", ",", ",", "60", ""},
		},
	}
	for _, test := range tests {
		tokens, err := lex(test.input)
		if err != nil {
			t.Fatalf("%q: %v", test.input, err)
		}
		var types []tokenType
		var texts []string
		for _, tok := range tokens {
			types = append(types, tok.typ)
			texts = append(texts, tok.text)
		}
		if !reflect.DeepEqual(test.want, types) {
			t.Errorf("%q: wrong token types:\nwant: %v\ngot:  %v", test.input, test.want, types)
		}
		if !reflect.DeepEqual(test.texts, texts) {
			t.Errorf("%q: wrong token texts:\nwant: %q\ngot:  %q", test.input, test.texts, texts)
		}
	}
}

func TestLexInvalidUTF8(t *testing.T) {
	if _, err := lex("G,1,\xff"); err == nil {
		t.Error("expected error for invalid utf-8")
	}
}
