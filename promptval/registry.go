package promptval

import (
	"fmt"

	"github.com/jmfield/surveygate/campaign"
)

// validateFunc checks a single answered value against its prompt
// configuration.
type validateFunc func(p *campaign.Prompt, r Response) *Error

// Registry dispatches prompt responses to the validator for their prompt
// type. It is built once per configuration and never mutated afterwards,
// so it is safe to share across concurrently validating uploads.
type Registry struct {
	validators map[campaign.PromptType]validateFunc
}

// NewRegistry builds the validator registry and verifies that every prompt
// of the configuration has a validator. A prompt type without a validator
// is a configuration defect and fails here, never at request time.
func NewRegistry(cfg *campaign.Configuration) (*Registry, error) {
	reg := &Registry{validators: map[campaign.PromptType]validateFunc{
		campaign.TypeNumber:             validateNumber,
		campaign.TypeText:               validateText,
		campaign.TypeSingleChoice:       validateSingleChoice,
		campaign.TypeMultiChoice:        validateMultiChoice,
		campaign.TypeSingleChoiceCustom: validateSingleChoiceCustom,
		campaign.TypeMultiChoiceCustom:  validateMultiChoiceCustom,
		campaign.TypeTimestamp:          validateTimestamp,
		campaign.TypePhoto:              validatePhoto,
		campaign.TypeMilitaryTime:       validateMilitaryTime,
		campaign.TypeBooleanArray:       validateBooleanArray,
		campaign.TypeIntegerMap:         validateIntegerMap,
		campaign.TypeRemoteActivity:     validateRemoteActivity,
	}}
	for _, s := range cfg.Surveys() {
		for _, item := range s.Items {
			switch it := item.(type) {
			case *campaign.Prompt:
				if _, ok := reg.validators[it.Type]; !ok {
					return nil, fmt.Errorf("promptval: no validator for prompt type %q (prompt %q)", it.Type, it.ID)
				}
			case *campaign.RepeatableSet:
				for _, p := range it.Prompts {
					if _, ok := reg.validators[p.Type]; !ok {
						return nil, fmt.Errorf("promptval: no validator for prompt type %q (prompt %q)", p.Type, p.ID)
					}
				}
			}
		}
	}
	return reg, nil
}

// Validate checks one response against its prompt. The shared
// preconditions run first: a not-displayed response is accepted
// unconditionally (display consistency is the payload walker's concern),
// and a skipped response is accepted only for skippable prompts. A nil
// return means the value is well-formed.
func (reg *Registry) Validate(p *campaign.Prompt, r Response) *Error {
	switch r.Kind() {
	case KindNotDisplayed:
		return nil
	case KindSkipped:
		if !p.Skippable {
			return failf(CodeNotSkippable, "prompt %s is not skippable", p.ID)
		}
		return nil
	}
	v, ok := reg.validators[p.Type]
	if !ok {
		// NewRegistry rules this out for any prompt reachable through the
		// configuration.
		return failf(CodeInvalidType, "no validator for prompt type %s", p.Type)
	}
	return v(p, r)
}
