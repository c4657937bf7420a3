package selector

import (
	"fmt"
	"sort"
	"strings"
)

// Function is a helper callable from selector expressions. expr and goja
// expose it under its own name; every engine also reaches it through
// call("name", [args...]).
type Function func(args ...any) (any, error)

// reservedNames are bound by every evaluation and cannot name a function.
var reservedNames = map[string]struct{}{
	"now":   {},
	"args":  {},
	"state": {},
	"call":  {},
}

// functionSet holds helpers keyed by lower-cased name. It is built once
// through options and only read afterwards.
type functionSet map[string]Function

func (s *functionSet) add(name string, fn Function) error {
	key := strings.ToLower(strings.TrimSpace(name))
	switch {
	case key == "":
		return fmt.Errorf("selector: function name must not be empty")
	case fn == nil:
		return fmt.Errorf("selector: function %q is nil", name)
	}
	if _, reserved := reservedNames[key]; reserved {
		return fmt.Errorf("selector: function name %q shadows a state binding", name)
	}
	if *s == nil {
		*s = functionSet{}
	}
	if _, exists := (*s)[key]; exists {
		return fmt.Errorf("selector: function %q already registered", name)
	}
	(*s)[key] = fn
	return nil
}

func (s functionSet) call(name string, args ...any) (any, error) {
	fn := s[strings.ToLower(name)]
	if fn == nil {
		return nil, fmt.Errorf("selector: function %q not registered", name)
	}
	return fn(args...)
}

func (s functionSet) names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
