package assertion

import (
	"fmt"
	"strings"
)

const (
	setSemanticsPrefix = "with set semantics "
	notPrefix          = "not "
	exhaustiveToken    = "exhaustively"
)

// Phrase is a parsed assertion phrase.
type Phrase struct {
	// Raw is the phrase as written, with whitespace collapsed.
	Raw string
	// Name is the canonical phrase without flags, e.g.
	// "to satisfy".
	Name         string
	Negated      bool
	Exhaustive   bool
	SetSemantics bool
}

// String returns the phrase with its flags, minus the set
// semantics adapter.
func (p Phrase) String() string {
	s := p.Name
	if p.Exhaustive {
		s = insertExhaustive(s)
	}
	if p.Negated {
		s = notPrefix + s
	}
	return s
}

// ParsePhrase splits an assertion phrase into its canonical name
// and flags.
//
// Examples:
//
//	"to satisfy"                         -> to satisfy
//	"to exhaustively satisfy"            -> to satisfy, exhaustive
//	"not to contain"                     -> to contain, negated
//	"to have items exhaustively satisfying" -> to have items satisfying, exhaustive
//	"with set semantics to satisfy"      -> to satisfy, set semantics
func ParsePhrase(s string) (Phrase, error) {
	p := Phrase{Raw: strings.Join(strings.Fields(s), " ")}
	rest := p.Raw

	if strings.HasPrefix(rest, setSemanticsPrefix) {
		p.SetSemantics = true
		rest = strings.TrimPrefix(rest, setSemanticsPrefix)
	}
	if strings.HasPrefix(rest, notPrefix) {
		p.Negated = true
		rest = strings.TrimPrefix(rest, notPrefix)
	}

	words := strings.Fields(rest)
	if len(words) < 2 || words[0] != "to" {
		return Phrase{}, fmt.Errorf(
			"%w: phrase %q must start with \"to\"",
			ErrUnknownAssertion, s,
		)
	}

	kept := words[:0:0]
	for _, w := range words {
		if w == exhaustiveToken {
			if p.Exhaustive {
				return Phrase{}, fmt.Errorf(
					"%w: phrase %q repeats %q",
					ErrUnknownAssertion, s, exhaustiveToken,
				)
			}
			p.Exhaustive = true
			continue
		}
		kept = append(kept, w)
	}
	if len(kept) < 2 {
		return Phrase{}, fmt.Errorf(
			"%w: phrase %q has no verb", ErrUnknownAssertion, s,
		)
	}

	p.Name = strings.Join(kept, " ")
	return p, nil
}

// insertExhaustive puts the flag back where it reads naturally:
// before the last word of "to have items satisfying", after "to"
// otherwise.
func insertExhaustive(name string) string {
	if name == "to have items satisfying" {
		return "to have items exhaustively satisfying"
	}
	return strings.Replace(name, "to ", "to "+exhaustiveToken+" ", 1)
}

// shouldText turns a phrase into an annotation: "to equal" with
// argument 2 becomes "should equal 2".
func shouldText(p Phrase, args string) string {
	verb := strings.TrimPrefix(p.String(), notPrefix)
	verb = strings.TrimPrefix(verb, "to ")
	text := "should "
	if p.Negated {
		text += notPrefix
	}
	text += verb
	if args != "" {
		text += " " + args
	}
	return text
}
