package shared

import (
	"encoding/json"
	"fmt"
	"strings"
)

type EffectKind string

const (
	EffectLag          EffectKind = "lag"
	EffectMemoryLeak   EffectKind = "memoryLeak"
	EffectNervous      EffectKind = "nervous"
	EffectDefenceBoost EffectKind = "defenceBoost"
)

func (k EffectKind) Valid() bool {
	switch k {
	case EffectLag, EffectMemoryLeak, EffectNervous, EffectDefenceBoost:
		return true
	}
	return false
}

type Scope int

const (
	ScopeSingle Scope = iota
	ScopeAll
)

func (s Scope) String() string {
	switch s {
	case ScopeSingle:
		return "single"
	case ScopeAll:
		return "all"
	default:
		return "unknown"
	}
}

// EffectSpec is a parsed "<scope>-<kind>" effect string such as "single-lag".
type EffectSpec struct {
	Scope Scope
	Kind  EffectKind
}

func ParseEffectSpec(s string) (EffectSpec, error) {
	scope, kind, ok := strings.Cut(s, "-")
	if !ok {
		return EffectSpec{}, fmt.Errorf("effect %q: missing scope separator", s)
	}
	var spec EffectSpec
	switch scope {
	case "single":
		spec.Scope = ScopeSingle
	case "all":
		spec.Scope = ScopeAll
	default:
		return EffectSpec{}, fmt.Errorf("effect %q: unknown scope %q", s, scope)
	}
	spec.Kind = EffectKind(kind)
	if !spec.Kind.Valid() {
		return EffectSpec{}, fmt.Errorf("effect %q: unknown kind %q", s, kind)
	}
	return spec, nil
}

// MustParseEffectSpecs is for static tables only.
func MustParseEffectSpecs(ss ...string) []EffectSpec {
	out := make([]EffectSpec, 0, len(ss))
	for _, s := range ss {
		spec, err := ParseEffectSpec(s)
		if err != nil {
			panic(err)
		}
		out = append(out, spec)
	}
	return out
}

func (e EffectSpec) String() string {
	return e.Scope.String() + "-" + string(e.Kind)
}

func (e EffectSpec) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.String())
}

func (e *EffectSpec) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	spec, err := ParseEffectSpec(s)
	if err != nil {
		return err
	}
	*e = spec
	return nil
}
