package dialogue

import (
	"encoding/json"
	"reflect"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestExpand(t *testing.T) {
	tests := []struct {
		name   string
		script Script
		want   []Step
	}{
		{
			name:   "plain fragment",
			script: Script{Line("Hi there")},
			want:   []Step{{"Hi there", 0}},
		},
		{
			name:   "composite fragment",
			script: Script{Composite("Hello, ", "world!")},
			want:   []Step{{"Hello, ", 0}, {"Hello, world!", 7}},
		},
		{
			name: "mixed script",
			script: Script{
				Line("Watch out!"),
				Composite("You found a ", "fireball", "!"),
			},
			want: []Step{
				{"Watch out!", 0},
				{"You found a ", 0},
				{"You found a fireball", 12},
				{"You found a fireball!", 20},
			},
		},
		{
			name:   "empty segments are skipped",
			script: Script{Composite("", "a", "", "b", "")},
			want:   []Step{{"a", 0}, {"ab", 1}},
		},
		{
			name:   "composite with no segments",
			script: Script{Composite(), Line("after")},
			want:   []Step{{"after", 0}},
		},
		{
			name:   "all-empty composite",
			script: Script{Composite("", "")},
			want:   nil,
		},
		{
			name:   "empty plain fragment still yields a step",
			script: Script{Line("")},
			want:   []Step{{"", 0}},
		},
		{
			name:   "initial progress counts runes",
			script: Script{Composite("héllo ", "wörld")},
			want:   []Step{{"héllo ", 0}, {"héllo wörld", 6}},
		},
		{
			name:   "empty script",
			script: Script{},
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Expand(tt.script)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Expand() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestEntryYAML(t *testing.T) {
	src := `
- Watch out!
- ["You found a ", fireball, "!"]
- []
`
	var s Script
	if err := yaml.Unmarshal([]byte(src), &s); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	want := Script{
		Line("Watch out!"),
		Composite("You found a ", "fireball", "!"),
		Composite(),
	}
	if len(s) != len(want) {
		t.Fatalf("got %d entries, want %d", len(s), len(want))
	}
	for i := range want {
		if s[i].Composite != want[i].Composite || len(s[i].Segments) != len(want[i].Segments) {
			t.Errorf("entry %d = %#v, want %#v", i, s[i], want[i])
		}
	}

	out, err := yaml.Marshal(Script{Line("a"), Composite("b", "c")})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var back Script
	if err := yaml.Unmarshal(out, &back); err != nil {
		t.Fatalf("Unmarshal marshalled output %q: %v", out, err)
	}
	if !reflect.DeepEqual(Expand(back), []Step{{"a", 0}, {"b", 0}, {"bc", 1}}) {
		t.Errorf("marshalled script expanded to %#v", Expand(back))
	}
}

func TestEntryYAMLRejectsMappings(t *testing.T) {
	var s Script
	err := yaml.Unmarshal([]byte("- {speaker: bob}\n"), &s)
	if err == nil {
		t.Fatal("expected an error for a mapping entry")
	}
}

func TestEntryJSON(t *testing.T) {
	var s Script
	if err := json.Unmarshal([]byte(`["Watch out!", ["You found a ", "fireball", "!"]]`), &s); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	got := Expand(s)
	if len(got) != 4 || got[3] != (Step{"You found a fireball!", 20}) {
		t.Errorf("Expand() = %#v", got)
	}

	if err := json.Unmarshal([]byte(`[42]`), &s); err == nil {
		t.Error("expected an error for a numeric entry")
	}

	out, err := json.Marshal(Script{Line("x"), Composite("y", "z"), Composite()})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(out) != `["x",["y","z"],[]]` {
		t.Errorf("Marshal() = %s", out)
	}
}
