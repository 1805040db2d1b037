package inspect

import "strings"

// Output accumulates indented lines.
type Output struct {
	cfg   Config
	level int
	lines []string
}

// NewOutput creates an empty Output using cfg for indentation.
func NewOutput(cfg Config) *Output {
	return &Output{cfg: cfg}
}

// Line appends s at the current indentation. Each line of a
// multi-line s is indented.
func (o *Output) Line(s string) *Output {
	pad := o.pad()
	for _, l := range strings.Split(s, "\n") {
		o.lines = append(o.lines, pad+l)
	}
	return o
}

// IndentLines increases the indentation of subsequent lines.
func (o *Output) IndentLines() *Output {
	o.level++
	return o
}

// OutdentLines decreases the indentation of subsequent lines.
func (o *Output) OutdentLines() *Output {
	if o.level > 0 {
		o.level--
	}
	return o
}

// String joins the accumulated lines.
func (o *Output) String() string {
	return strings.Join(o.lines, "\n")
}

func (o *Output) pad() string {
	if !o.cfg.Indent || o.level == 0 {
		return ""
	}
	return strings.Repeat(" ", o.level*o.cfg.IndentWidth)
}
