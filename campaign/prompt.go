// Package campaign holds the immutable, campaign-scoped survey
// configuration the validation engine reads: surveys, prompts, repeatable
// sets, and their parsed display conditions. A Configuration is built once
// by LoadJSON/LoadYAML, validated loudly at that point, and is safe to
// share across concurrently validating uploads afterwards.
package campaign

import "github.com/jmfield/surveygate/condition"

// PromptType is the closed set of prompt types the engine understands. The
// string values are the wire keys used in campaign definitions.
type PromptType string

const (
	TypeSingleChoice       PromptType = "single_choice"
	TypeSingleChoiceCustom PromptType = "single_choice_custom"
	TypeMultiChoice        PromptType = "multi_choice"
	TypeMultiChoiceCustom  PromptType = "multi_choice_custom"
	TypeNumber             PromptType = "number"
	TypeText               PromptType = "text"
	TypeTimestamp          PromptType = "timestamp"
	TypePhoto              PromptType = "photo"
	TypeRemoteActivity     PromptType = "remote_activity"
	TypeMilitaryTime       PromptType = "time_military"
	TypeBooleanArray       PromptType = "array_boolean"
	TypeIntegerMap         PromptType = "map"
)

// Known reports whether t is one of the supported prompt types.
func (t PromptType) Known() bool {
	switch t {
	case TypeSingleChoice, TypeSingleChoiceCustom, TypeMultiChoice,
		TypeMultiChoiceCustom, TypeNumber, TypeText, TypeTimestamp,
		TypePhoto, TypeRemoteActivity, TypeMilitaryTime, TypeBooleanArray,
		TypeIntegerMap:
		return true
	default:
		return false
	}
}

// Numeric reports whether responses of this type resolve to numbers, which
// makes prompts of the type legal operands for ordering comparators in
// conditions.
func (t PromptType) Numeric() bool {
	return t == TypeNumber || t == TypeIntegerMap
}

// Custom reports whether the type carries its own per-upload choice set.
func (t PromptType) Custom() bool {
	return t == TypeSingleChoiceCustom || t == TypeMultiChoiceCustom
}

// Properties carries the type-specific configuration of a prompt. Only the
// fields relevant to the prompt's type are set; the loader enforces that.
type Properties struct {
	// Min and Max bound number values, or rune counts for text prompts.
	Min *int64
	Max *int64
	// Choices maps choice key to label for the static choice types.
	Choices map[string]string
	// Length is the required element count for array_boolean prompts.
	Length int
	// Retries bounds the response array of remote_activity prompts.
	Retries int
	// Keys is the configured key set for map prompts.
	Keys []int64
}

// Prompt is one question within a survey or repeatable set.
type Prompt struct {
	ID        string
	Type      PromptType
	Skippable bool
	// Condition is nil when the prompt is displayed unconditionally.
	Condition  *condition.Condition
	Properties Properties
}

// RepeatableSet is a group of prompts answered zero or more times within a
// survey instance.
type RepeatableSet struct {
	ID string
	// Condition is nil when the set is displayed unconditionally.
	Condition *condition.Condition
	Prompts   []*Prompt
}

// Item is an ordered element of a survey: either a *Prompt or a
// *RepeatableSet.
type Item interface {
	ItemID() string
	surveyItem()
}

func (p *Prompt) ItemID() string        { return p.ID }
func (p *Prompt) surveyItem()           {}
func (r *RepeatableSet) ItemID() string { return r.ID }
func (r *RepeatableSet) surveyItem()    {}
