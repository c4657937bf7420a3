package value

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseJSONBuildsContainers(t *testing.T) {
	m, err := ParseJSON([]byte(`{"todos":[{"title":"write","done":false}],"count":2,"ratio":0.5}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	todos, ok := m.List("todos")
	if !ok || todos.Len() != 1 {
		t.Fatalf("expected todos list, got %#v", m.Native())
	}
	first, _ := todos.At(0)
	if _, ok := first.(*Map); !ok {
		t.Fatalf("expected nested map, got %T", first)
	}
	if got, _ := m.Get("count"); got != int64(2) {
		t.Fatalf("expected integer count, got %#v", got)
	}
	if got, _ := m.Get("ratio"); got != 0.5 {
		t.Fatalf("expected float ratio, got %#v", got)
	}
}

func TestParseJSONRejectsNonObject(t *testing.T) {
	if _, err := ParseJSON([]byte(`[1,2]`)); err == nil {
		t.Fatalf("expected error for array payload")
	}
}

func TestMapMarshalJSON(t *testing.T) {
	m := MapOf(map[string]any{"a": []any{1, "x"}})
	raw, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `{"a":[1,"x"]}` {
		t.Fatalf("unexpected json: %s", raw)
	}
}

func TestUnmarshalIntoFrozenMapFails(t *testing.T) {
	m := DeepFreeze(NewMap())
	if err := json.Unmarshal([]byte(`{"a":1}`), m); !errors.Is(err, ErrFrozen) {
		t.Fatalf("expected ErrFrozen, got %v", err)
	}
}
