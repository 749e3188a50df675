package gamedata

import (
	"errors"

	"digital-world/internal/shared"
)

type QuizDef struct {
	Quiz   Question `json:"quiz"`
	Weight int      `json:"weight"`
}

type Question struct {
	Question string   `json:"question"`
	Choices  []string `json:"choices"`
	Answer   string   `json:"answer"`
}

type DialogueCatalog struct {
	// Sticky scenarios stay completed once every player finished them.
	Sticky    []string            `json:"sticky"`
	Scenarios map[string][]string `json:"scenarios"`
}

// Texts returns the lines for a scenario, or an empty slice when unknown.
func (c DialogueCatalog) Texts(scenario string) []string {
	if t, ok := c.Scenarios[scenario]; ok {
		return t
	}
	return []string{}
}

func (c DialogueCatalog) IsSticky(scenario string) bool {
	for _, s := range c.Sticky {
		if s == scenario {
			return true
		}
	}
	return false
}

// ElementTable lists pairs of elements that deal double damage to each other.
type ElementTable struct {
	Opposing [][2]string `json:"opposing"`
}

func (t ElementTable) Opposes(a, b string) bool {
	for _, pair := range t.Opposing {
		if (pair[0] == a && pair[1] == b) || (pair[0] == b && pair[1] == a) {
			return true
		}
	}
	return false
}

type ClassDef struct {
	Element string       `json:"element"`
	Growth  shared.Stats `json:"growth"`
}

type ClassTable struct {
	Default ClassDef            `json:"default"`
	Classes map[string]ClassDef `json:"classes"`
}

func (t ClassTable) Get(class string) ClassDef {
	if def, ok := t.Classes[class]; ok {
		return def
	}
	return t.Default
}

// AttackBundle is the effect set a monster attack label carries. Effect
// strings are parsed when the file is loaded.
type AttackBundle struct {
	Attacker []shared.EffectSpec `json:"attacker,omitempty"`
	Target   []shared.EffectSpec `json:"target,omitempty"`
}

// Data is every table the server needs at runtime.
type Data struct {
	Dialogues DialogueCatalog
	Quizzes   []QuizDef
	Elements  ElementTable
	Classes   ClassTable
	Attacks   map[string]AttackBundle
}

func LoadAll() (*Data, error) {
	var (
		d   Data
		err error
	)
	if d.Dialogues, err = Load[DialogueCatalog]("dialogues.json"); err != nil {
		return nil, err
	}
	if d.Quizzes, err = Load[[]QuizDef]("quizzes.json"); err != nil {
		return nil, err
	}
	if len(d.Quizzes) == 0 {
		return nil, errors.New("no quizzes loaded from quizzes.json")
	}
	if d.Elements, err = Load[ElementTable]("elements.json"); err != nil {
		return nil, err
	}
	if d.Classes, err = Load[ClassTable]("classes.json"); err != nil {
		return nil, err
	}
	if d.Attacks, err = Load[map[string]AttackBundle]("attacks.json"); err != nil {
		return nil, err
	}
	return &d, nil
}

// MustLoadAll loads every table, panicking on error.
// Use this for data that must be present for the server to function.
func MustLoadAll() *Data {
	d, err := LoadAll()
	if err != nil {
		panic(err)
	}
	return d
}
