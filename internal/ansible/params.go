package ansible

import (
	"fmt"
	"strings"

	"github.com/kballard/go-shellquote"
)

// argsFlag introduces the module arguments on the ansible command line.
const argsFlag = "-a"

// Param is one module argument. An empty Value renders as a bare token.
type Param struct {
	Name  string
	Value string
}

// Params is an insertion-ordered set of module arguments.
type Params []Param

// Set replaces the value of an existing parameter in place or appends a new
// one, so rendering order stays the order of first insertion.
func (p Params) Set(name, value string) Params {
	for i := range p {
		if p[i].Name == name {
			p[i].Value = value
			return p
		}
	}
	return append(p, Param{Name: name, Value: value})
}

// Get returns the value of the named parameter.
func (p Params) Get(name string) (string, bool) {
	for _, param := range p {
		if param.Name == name {
			return param.Value, true
		}
	}
	return "", false
}

// Encode renders the parameters as the single key=value argument string
// understood by ansible modules. Entries with an empty name are skipped.
func (p Params) Encode() string {
	tokens := make([]string, 0, len(p))
	for _, param := range p {
		if param.Name == "" {
			continue
		}
		if param.Value == "" {
			tokens = append(tokens, param.Name)
			continue
		}
		tokens = append(tokens, param.Name+"="+quote(param.Value))
	}
	return strings.Join(tokens, " ")
}

// encodeArgs returns the "-a <args>" pair for a module invocation, or nil
// when there is nothing to pass. freeForm is prepended verbatim.
func encodeArgs(freeForm string, params Params) []string {
	encoded := params.Encode()
	switch {
	case freeForm != "" && encoded != "":
		encoded = freeForm + " " + encoded
	case freeForm != "":
		encoded = freeForm
	}
	if encoded == "" {
		return nil
	}
	return []string{argsFlag, encoded}
}

// quote wraps v in double quotes, escaping the characters that would end the
// quoted string early.
func quote(v string) string {
	var b strings.Builder
	b.Grow(len(v) + 2)
	b.WriteByte('"')
	for _, r := range v {
		if r == '"' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}

// DecodeParams is the inverse of Params.Encode.
func DecodeParams(s string) (Params, error) {
	words, err := shellquote.Split(s)
	if err != nil {
		return nil, fmt.Errorf("split module arguments: %w", err)
	}
	var params Params
	for _, w := range words {
		name, value, _ := strings.Cut(w, "=")
		params = append(params, Param{Name: name, Value: value})
	}
	return params, nil
}
