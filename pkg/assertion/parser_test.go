package assertion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePhrase(t *testing.T) {
	tests := []struct {
		input string
		want  Phrase
	}{
		{
			input: "to satisfy",
			want:  Phrase{Raw: "to satisfy", Name: "to satisfy"},
		},
		{
			input: "to exhaustively satisfy",
			want: Phrase{
				Raw:        "to exhaustively satisfy",
				Name:       "to satisfy",
				Exhaustive: true,
			},
		},
		{
			input: "not to contain",
			want: Phrase{
				Raw:     "not to contain",
				Name:    "to contain",
				Negated: true,
			},
		},
		{
			input: "to have items exhaustively satisfying",
			want: Phrase{
				Raw:        "to have items exhaustively satisfying",
				Name:       "to have items satisfying",
				Exhaustive: true,
			},
		},
		{
			input: "with set semantics to exhaustively satisfy",
			want: Phrase{
				Raw:          "with set semantics to exhaustively satisfy",
				Name:         "to satisfy",
				Exhaustive:   true,
				SetSemantics: true,
			},
		},
		{
			input: "  to   equal ",
			want:  Phrase{Raw: "to equal", Name: "to equal"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePhrase(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePhrase_Invalid(t *testing.T) {
	inputs := []string{
		"",
		"satisfy",
		"to",
		"to exhaustively",
		"to exhaustively exhaustively satisfy",
		"not",
		"with set semantics",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := ParsePhrase(input)
			assert.ErrorIs(t, err, ErrUnknownAssertion)
		})
	}
}

func TestPhrase_String(t *testing.T) {
	tests := []struct {
		phrase Phrase
		want   string
	}{
		{Phrase{Name: "to satisfy"}, "to satisfy"},
		{Phrase{Name: "to satisfy", Exhaustive: true}, "to exhaustively satisfy"},
		{
			Phrase{Name: "to satisfy", Exhaustive: true, Negated: true},
			"not to exhaustively satisfy",
		},
		{
			Phrase{Name: "to have items satisfying", Exhaustive: true},
			"to have items exhaustively satisfying",
		},
		{
			Phrase{Name: "to equal", SetSemantics: true},
			"to equal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.phrase.String())
		})
	}
}

func TestShouldText(t *testing.T) {
	tests := []struct {
		input string
		args  string
		want  string
	}{
		{"to be a number", "", "should be a number"},
		{"to equal", "2", "should equal 2"},
		{"not to equal", "2", "should not equal 2"},
		{"to exhaustively satisfy", "[ 1 ]", "should exhaustively satisfy [ 1 ]"},
		{"to be greater than", "0", "should be greater than 0"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			p, err := ParsePhrase(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, shouldText(p, tt.args))
		})
	}
}
