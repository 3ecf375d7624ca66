package campaign

// Survey is an ordered list of prompts and repeatable sets.
type Survey struct {
	ID    string
	Items []Item

	prompts    map[string]*Prompt
	sets       map[string]*RepeatableSet
	setPrompts map[string]map[string]*Prompt
}

// Configuration is the read-only view of one campaign's survey
// definitions.
type Configuration struct {
	urn     string
	surveys map[string]*Survey
}

// URN returns the campaign identifier the configuration was loaded from.
func (c *Configuration) URN() string { return c.urn }

// SurveyExists reports whether the campaign defines the survey.
func (c *Configuration) SurveyExists(surveyID string) bool {
	_, ok := c.surveys[surveyID]
	return ok
}

// Survey returns the named survey definition.
func (c *Configuration) Survey(surveyID string) (*Survey, bool) {
	s, ok := c.surveys[surveyID]
	return s, ok
}

// Surveys returns every survey of the campaign, in no particular order.
func (c *Configuration) Surveys() []*Survey {
	out := make([]*Survey, 0, len(c.surveys))
	for _, s := range c.surveys {
		out = append(out, s)
	}
	return out
}

// PromptExists reports whether the survey has a flat prompt with the id.
func (c *Configuration) PromptExists(surveyID, promptID string) bool {
	_, ok := c.Prompt(surveyID, promptID)
	return ok
}

// Prompt returns a flat prompt of the survey.
func (c *Configuration) Prompt(surveyID, promptID string) (*Prompt, bool) {
	s, ok := c.surveys[surveyID]
	if !ok {
		return nil, false
	}
	p, ok := s.prompts[promptID]
	return p, ok
}

// PromptType returns the type of a flat prompt.
func (c *Configuration) PromptType(surveyID, promptID string) (PromptType, bool) {
	p, ok := c.Prompt(surveyID, promptID)
	if !ok {
		return "", false
	}
	return p.Type, true
}

// RepeatableSetExists reports whether the survey defines the repeatable
// set.
func (c *Configuration) RepeatableSetExists(surveyID, setID string) bool {
	s, ok := c.surveys[surveyID]
	if !ok {
		return false
	}
	_, ok = s.sets[setID]
	return ok
}

// RepeatableSet returns the named repeatable set of the survey.
func (c *Configuration) RepeatableSet(surveyID, setID string) (*RepeatableSet, bool) {
	s, ok := c.surveys[surveyID]
	if !ok {
		return nil, false
	}
	rs, ok := s.sets[setID]
	return rs, ok
}

// RepeatableSetPromptExists reports whether the repeatable set contains the
// prompt.
func (c *Configuration) RepeatableSetPromptExists(surveyID, setID, promptID string) bool {
	_, ok := c.RepeatableSetPrompt(surveyID, setID, promptID)
	return ok
}

// RepeatableSetPrompt returns a prompt scoped to a repeatable set.
func (c *Configuration) RepeatableSetPrompt(surveyID, setID, promptID string) (*Prompt, bool) {
	s, ok := c.surveys[surveyID]
	if !ok {
		return nil, false
	}
	inner, ok := s.setPrompts[setID]
	if !ok {
		return nil, false
	}
	p, ok := inner[promptID]
	return p, ok
}

// NumberOfPromptsInRepeatableSet returns how many prompts one iteration of
// the repeatable set must answer, or 0 when the set is unknown.
func (c *Configuration) NumberOfPromptsInRepeatableSet(surveyID, setID string) int {
	rs, ok := c.RepeatableSet(surveyID, setID)
	if !ok {
		return 0
	}
	return len(rs.Prompts)
}
