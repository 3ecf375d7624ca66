package campaign

import (
	"fmt"

	gojson "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/jmfield/surveygate/condition"
)

// Definition is the campaign definition document as authored. Both the
// JSON and YAML loaders decode into this shape before Build validates it.
type Definition struct {
	Campaign string      `json:"campaign" yaml:"campaign"`
	Surveys  []SurveyDef `json:"surveys" yaml:"surveys"`
}

// SurveyDef is one survey of the definition document.
type SurveyDef struct {
	ID    string    `json:"id" yaml:"id"`
	Items []ItemDef `json:"items" yaml:"items"`
}

// ItemDef is either a prompt or a repeatable set; exactly one of the two
// fields must be set.
type ItemDef struct {
	Prompt        *PromptDef        `json:"prompt,omitempty" yaml:"prompt,omitempty"`
	RepeatableSet *RepeatableSetDef `json:"repeatable_set,omitempty" yaml:"repeatable_set,omitempty"`
}

// PromptDef is the authored form of a prompt.
type PromptDef struct {
	ID        string `json:"id" yaml:"id"`
	Type      string `json:"type" yaml:"type"`
	Skippable bool   `json:"skippable" yaml:"skippable"`
	Condition string `json:"condition,omitempty" yaml:"condition,omitempty"`

	Min     *int64            `json:"min,omitempty" yaml:"min,omitempty"`
	Max     *int64            `json:"max,omitempty" yaml:"max,omitempty"`
	Choices map[string]string `json:"choices,omitempty" yaml:"choices,omitempty"`
	Length  int               `json:"length,omitempty" yaml:"length,omitempty"`
	Retries int               `json:"retries,omitempty" yaml:"retries,omitempty"`
	Keys    []int64           `json:"keys,omitempty" yaml:"keys,omitempty"`
}

// RepeatableSetDef is the authored form of a repeatable set.
type RepeatableSetDef struct {
	ID        string      `json:"id" yaml:"id"`
	Condition string      `json:"condition,omitempty" yaml:"condition,omitempty"`
	Prompts   []PromptDef `json:"prompts" yaml:"prompts"`
}

// LoadJSON decodes a JSON campaign definition and builds the validated
// Configuration.
func LoadJSON(data []byte) (*Configuration, error) {
	var def Definition
	if err := gojson.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("campaign: decode json definition: %w", err)
	}
	return Build(def)
}

// LoadYAML decodes a YAML campaign definition and builds the validated
// Configuration.
func LoadYAML(data []byte) (*Configuration, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("campaign: decode yaml definition: %w", err)
	}
	return Build(def)
}

// Build validates a definition and assembles the immutable Configuration.
// Every campaign-authoring defect fails here: unknown prompt types, bad
// type properties, malformed condition sentences, and conditions that
// reference unknown or later items. Nothing in this list can surface at
// request time.
func Build(def Definition) (*Configuration, error) {
	if len(def.Surveys) == 0 {
		return nil, fmt.Errorf("campaign %q: no surveys defined", def.Campaign)
	}
	cfg := &Configuration{urn: def.Campaign, surveys: make(map[string]*Survey, len(def.Surveys))}
	for _, sd := range def.Surveys {
		if sd.ID == "" {
			return nil, fmt.Errorf("campaign %q: survey with empty id", def.Campaign)
		}
		if _, dup := cfg.surveys[sd.ID]; dup {
			return nil, fmt.Errorf("campaign %q: duplicate survey id %q", def.Campaign, sd.ID)
		}
		s, err := buildSurvey(sd)
		if err != nil {
			return nil, fmt.Errorf("campaign %q: %w", def.Campaign, err)
		}
		cfg.surveys[sd.ID] = s
	}
	return cfg, nil
}

func buildSurvey(sd SurveyDef) (*Survey, error) {
	s := &Survey{
		ID:         sd.ID,
		prompts:    map[string]*Prompt{},
		sets:       map[string]*RepeatableSet{},
		setPrompts: map[string]map[string]*Prompt{},
	}
	// seen accumulates the items declared so far; conditions may only
	// reference backwards.
	seen := map[string]condition.ItemType{}

	for i, item := range sd.Items {
		switch {
		case item.Prompt != nil && item.RepeatableSet == nil:
			p, err := buildPrompt(*item.Prompt, seen)
			if err != nil {
				return nil, fmt.Errorf("survey %q: %w", sd.ID, err)
			}
			if _, dup := seen[p.ID]; dup {
				return nil, fmt.Errorf("survey %q: duplicate item id %q", sd.ID, p.ID)
			}
			s.Items = append(s.Items, p)
			s.prompts[p.ID] = p
			seen[p.ID] = itemType(p)

		case item.RepeatableSet != nil && item.Prompt == nil:
			rs, inner, err := buildRepeatableSet(*item.RepeatableSet, seen)
			if err != nil {
				return nil, fmt.Errorf("survey %q: %w", sd.ID, err)
			}
			if _, dup := seen[rs.ID]; dup {
				return nil, fmt.Errorf("survey %q: duplicate item id %q", sd.ID, rs.ID)
			}
			s.Items = append(s.Items, rs)
			s.sets[rs.ID] = rs
			s.setPrompts[rs.ID] = inner
			seen[rs.ID] = condition.ItemGeneric

		default:
			return nil, fmt.Errorf("survey %q: item %d must be exactly one of prompt or repeatable_set", sd.ID, i)
		}
	}
	return s, nil
}

func buildRepeatableSet(rd RepeatableSetDef, outer map[string]condition.ItemType) (*RepeatableSet, map[string]*Prompt, error) {
	if rd.ID == "" {
		return nil, nil, fmt.Errorf("repeatable set with empty id")
	}
	if len(rd.Prompts) == 0 {
		return nil, nil, fmt.Errorf("repeatable set %q: no prompts", rd.ID)
	}
	rs := &RepeatableSet{ID: rd.ID}
	if rd.Condition != "" {
		cond, err := parseCondition(rd.Condition, outer)
		if err != nil {
			return nil, nil, fmt.Errorf("repeatable set %q: %w", rd.ID, err)
		}
		rs.Condition = cond
	}
	// Inner conditions may reference earlier flat items plus earlier
	// prompts of the same iteration.
	inner := make(map[string]condition.ItemType, len(outer))
	for k, v := range outer {
		inner[k] = v
	}
	prompts := map[string]*Prompt{}
	for _, pd := range rd.Prompts {
		p, err := buildPrompt(pd, inner)
		if err != nil {
			return nil, nil, fmt.Errorf("repeatable set %q: %w", rd.ID, err)
		}
		if _, dup := inner[p.ID]; dup {
			return nil, nil, fmt.Errorf("repeatable set %q: duplicate item id %q", rd.ID, p.ID)
		}
		rs.Prompts = append(rs.Prompts, p)
		prompts[p.ID] = p
		inner[p.ID] = itemType(p)
	}
	return rs, prompts, nil
}

func buildPrompt(pd PromptDef, seen map[string]condition.ItemType) (*Prompt, error) {
	if pd.ID == "" {
		return nil, fmt.Errorf("prompt with empty id")
	}
	t := PromptType(pd.Type)
	if !t.Known() {
		return nil, fmt.Errorf("prompt %q: unknown prompt type %q", pd.ID, pd.Type)
	}
	p := &Prompt{
		ID:        pd.ID,
		Type:      t,
		Skippable: pd.Skippable,
		Properties: Properties{
			Min:     pd.Min,
			Max:     pd.Max,
			Choices: pd.Choices,
			Length:  pd.Length,
			Retries: pd.Retries,
			Keys:    pd.Keys,
		},
	}
	if err := checkProperties(p); err != nil {
		return nil, fmt.Errorf("prompt %q: %w", pd.ID, err)
	}
	if pd.Condition != "" {
		cond, err := parseCondition(pd.Condition, seen)
		if err != nil {
			return nil, fmt.Errorf("prompt %q: %w", pd.ID, err)
		}
		p.Condition = cond
	}
	return p, nil
}

func parseCondition(sentence string, seen map[string]condition.ItemType) (*condition.Condition, error) {
	cond, err := condition.Parse(sentence)
	if err != nil {
		return nil, err
	}
	if err := cond.Validate(seen); err != nil {
		return nil, err
	}
	return cond, nil
}

func itemType(p *Prompt) condition.ItemType {
	if p.Type.Numeric() {
		return condition.ItemNumber
	}
	return condition.ItemGeneric
}

func checkProperties(p *Prompt) error {
	props := p.Properties
	switch p.Type {
	case TypeNumber, TypeText:
		if props.Min == nil || props.Max == nil {
			return fmt.Errorf("type %s requires min and max", p.Type)
		}
		if *props.Min > *props.Max {
			return fmt.Errorf("min %d exceeds max %d", *props.Min, *props.Max)
		}
		if p.Type == TypeText && *props.Min < 0 {
			return fmt.Errorf("text min %d is negative", *props.Min)
		}
	case TypeSingleChoice, TypeMultiChoice:
		if len(props.Choices) == 0 {
			return fmt.Errorf("type %s requires a non-empty choice set", p.Type)
		}
	case TypeBooleanArray:
		if props.Length < 1 {
			return fmt.Errorf("type %s requires length >= 1", p.Type)
		}
	case TypeRemoteActivity:
		if props.Retries < 0 {
			return fmt.Errorf("type %s requires retries >= 0", p.Type)
		}
	case TypeIntegerMap:
		if len(props.Keys) == 0 {
			return fmt.Errorf("type %s requires a non-empty key set", p.Type)
		}
	}
	return nil
}
