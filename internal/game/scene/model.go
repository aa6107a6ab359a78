// Package scene provides the dialogue scene graph model, the scene player
// state machine, declarative scene commands, and the scene/variable manager.
package scene

import (
	"fmt"
	"sort"
)

// ID identifies a loaded scene.
type ID string

// SectionID names a node in a scene's dialogue graph.
type SectionID string

// CharacterID identifies a character/NPC in scene content.
type CharacterID string

// Character is an NPC definition embedded in scene or map content.
type Character struct {
	Name  string `yaml:"name"`
	Image string `yaml:"image"`
	Voice string `yaml:"voice"`
}

// CharacterUpdate is a partial update to a spawned NPC. Nil fields are
// left unchanged.
type CharacterUpdate struct {
	Name  *string `yaml:"name"`
	Image *string `yaml:"image"`
	Voice *string `yaml:"voice"`
}

// Skill names a check attribute.
type Skill string

// The seven check attributes.
const (
	Strength     Skill = "strength"
	Perception   Skill = "perception"
	Endurance    Skill = "endurance"
	Charisma     Skill = "charisma"
	Intelligence Skill = "intelligence"
	Agility      Skill = "agility"
	Luck         Skill = "luck"
)

// validSkills is the set of valid check attributes.
var validSkills = map[Skill]bool{
	Strength: true, Perception: true, Endurance: true, Charisma: true,
	Intelligence: true, Agility: true, Luck: true,
}

// SkillCheck attaches a stat check to a response, with failure branch links.
// Check resolution mechanics are not part of this core; the schema is
// carried so content round-trips.
type SkillCheck struct {
	// Check is the attribute being tested.
	Check Skill
	// Modifier adjusts the check, if set.
	Modifier int
	// LinkFail is the section jumped to on failure.
	LinkFail SectionID
	// LinkCritFail is the section jumped to on critical failure, if set.
	LinkCritFail SectionID
}

// Line is one utterance in a dialogue, attributed to a speaker.
type Line struct {
	// From is the speaking character. Speakers need not be declared in the
	// scene; undeclared ids fall back to raw-id display.
	From CharacterID
	// Text is the spoken text.
	Text string
	// Commands are dispatched when the line is selected past, at most once.
	Commands *Commands
}

// Response is a selectable player reply, gated by a condition conjunction.
type Response struct {
	// Text is the reply text.
	Text string
	// Link is the section the cursor jumps to on selection. Empty means
	// selecting this response ends the scene.
	Link SectionID
	// SkillCheck optionally attaches a stat check.
	SkillCheck *SkillCheck
	// Conditions is a conjunction; the response is hidden unless all hold.
	Conditions []Condition
	// Commands are dispatched on selection, at most once.
	Commands *Commands
}

// Dialogue is one section of a scene: ordered lines, then gated responses.
type Dialogue struct {
	// Lines is the ordered utterance sequence.
	Lines []Line
	// Responses are offered only once the last line is reached.
	Responses []Response
	// ContinueTo is the section to fall through to when there are no
	// responses. Empty means the scene ends after the last line.
	ContinueTo SectionID
	// Commands are section-level commands; on a zero-line section they are
	// dispatched by the commands-only pass-through.
	Commands *Commands
}

// Scene is an immutable, deserialized graph of dialogue content.
type Scene struct {
	// ID identifies the scene in the manager's catalog.
	ID ID
	// Music is an optional music cue.
	Music string
	// Characters are NPC definitions materialized when the scene is played.
	Characters map[CharacterID]Character
	// Dialogue maps section ids to their content.
	Dialogue map[SectionID]Dialogue
	// Commands are optional scene-level commands.
	Commands *Commands
}

// CharacterIDs returns the embedded character ids in deterministic order.
func (s *Scene) CharacterIDs() []CharacterID {
	ids := make([]CharacterID, 0, len(s.Characters))
	for id := range s.Characters {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Validate checks scene invariants: every link, continue-to, and skill-check
// branch must name a section of this scene, and all conditions and commands
// must be well formed.
//
// Postcondition: returns nil if valid, or an error describing the first violation.
func (s *Scene) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("scene id must not be empty")
	}
	if len(s.Dialogue) == 0 {
		return fmt.Errorf("scene %q: must contain at least one dialogue section", s.ID)
	}
	if s.Commands != nil {
		if err := s.Commands.Validate(); err != nil {
			return fmt.Errorf("scene %q: commands: %w", s.ID, err)
		}
	}
	for section, d := range s.Dialogue {
		if err := s.validateSection(section, d); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scene) validateSection(section SectionID, d Dialogue) error {
	if d.ContinueTo != "" {
		if _, ok := s.Dialogue[d.ContinueTo]; !ok {
			return fmt.Errorf("scene %q: section %q: continue-to targets unknown section %q", s.ID, section, d.ContinueTo)
		}
	}
	if d.Commands != nil {
		if err := d.Commands.Validate(); err != nil {
			return fmt.Errorf("scene %q: section %q: commands: %w", s.ID, section, err)
		}
	}
	for i, line := range d.Lines {
		if line.From == "" {
			return fmt.Errorf("scene %q: section %q: line %d: speaker must not be empty", s.ID, section, i)
		}
		if line.Commands != nil {
			if err := line.Commands.Validate(); err != nil {
				return fmt.Errorf("scene %q: section %q: line %d: commands: %w", s.ID, section, i, err)
			}
		}
	}
	for i, resp := range d.Responses {
		if resp.Text == "" {
			return fmt.Errorf("scene %q: section %q: response %d: text must not be empty", s.ID, section, i)
		}
		if resp.Link != "" {
			if _, ok := s.Dialogue[resp.Link]; !ok {
				return fmt.Errorf("scene %q: section %q: response %d links to unknown section %q", s.ID, section, i, resp.Link)
			}
		}
		if sc := resp.SkillCheck; sc != nil {
			if !validSkills[sc.Check] {
				return fmt.Errorf("scene %q: section %q: response %d: unknown skill %q", s.ID, section, i, sc.Check)
			}
			if _, ok := s.Dialogue[sc.LinkFail]; !ok {
				return fmt.Errorf("scene %q: section %q: response %d: skill-check fail link targets unknown section %q", s.ID, section, i, sc.LinkFail)
			}
			if sc.LinkCritFail != "" {
				if _, ok := s.Dialogue[sc.LinkCritFail]; !ok {
					return fmt.Errorf("scene %q: section %q: response %d: skill-check crit-fail link targets unknown section %q", s.ID, section, i, sc.LinkCritFail)
				}
			}
		}
		for j, cond := range resp.Conditions {
			if err := cond.Validate(); err != nil {
				return fmt.Errorf("scene %q: section %q: response %d: condition %d: %w", s.ID, section, i, j, err)
			}
		}
		if resp.Commands != nil {
			if err := resp.Commands.Validate(); err != nil {
				return fmt.Errorf("scene %q: section %q: response %d: commands: %w", s.ID, section, i, err)
			}
		}
	}
	return nil
}
