package scene

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// yamlScene is the on-disk scene schema. Decoding is strict: unknown fields
// are rejected so typos in content files fail at load time, not at play time.
type yamlScene struct {
	Music      string                      `yaml:"music"`
	Characters map[CharacterID]Character   `yaml:"characters"`
	Dialogue   map[SectionID]*yamlDialogue `yaml:"dialogue"`
	Commands   *Commands                   `yaml:"commands"`
	Vendors    *yaml.Node                  `yaml:"vendors"`
	Quests     *yaml.Node                  `yaml:"quests"`
}

type yamlDialogue struct {
	Lines      []yamlLine     `yaml:"lines"`
	Responses  []yamlResponse `yaml:"responses"`
	// Resp is an accepted alias for Responses.
	Resp       []yamlResponse `yaml:"resp"`
	ContinueTo SectionID      `yaml:"continue-to"`
	Commands   *Commands      `yaml:"commands"`
}

type yamlLine struct {
	From CharacterID `yaml:"from"`
	Text string      `yaml:"text"`
	// Txt is an accepted alias for Text.
	Txt      string    `yaml:"txt"`
	Commands *Commands `yaml:"commands"`
}

type yamlResponse struct {
	Text string    `yaml:"text"`
	Txt  string    `yaml:"txt"`
	Link SectionID `yaml:"link"`
	// Lnk is an accepted alias for Link.
	Lnk        SectionID       `yaml:"lnk"`
	SkillCheck *yamlSkillCheck `yaml:"skill-check"`
	Conditions []Condition     `yaml:"conditions"`
	Commands   *Commands       `yaml:"commands"`
}

type yamlSkillCheck struct {
	Check        Skill     `yaml:"check"`
	Modifier     int       `yaml:"modifier"`
	LinkFail     SectionID `yaml:"link-fail"`
	LinkCritFail SectionID `yaml:"link-crit-fail"`
}

// decodeScene parses a scene document strictly and converts it to the
// domain model. The returned scene is validated by the caller.
func decodeScene(id ID, data []byte) (*Scene, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var raw yamlScene
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("scene %q: empty document", id)
		}
		return nil, fmt.Errorf("scene %q: %w", id, err)
	}
	return convertScene(id, &raw)
}

func convertScene(id ID, raw *yamlScene) (*Scene, error) {
	s := &Scene{
		ID:         id,
		Music:      raw.Music,
		Characters: raw.Characters,
		Dialogue:   make(map[SectionID]Dialogue, len(raw.Dialogue)),
		Commands:   raw.Commands,
	}
	for section, rd := range raw.Dialogue {
		if rd == nil {
			rd = &yamlDialogue{}
		}
		d, err := convertDialogue(rd)
		if err != nil {
			return nil, fmt.Errorf("scene %q: section %q: %w", id, section, err)
		}
		s.Dialogue[section] = d
	}
	return s, nil
}

func convertDialogue(raw *yamlDialogue) (Dialogue, error) {
	if raw.Responses != nil && raw.Resp != nil {
		return Dialogue{}, errors.New("responses and resp are aliases, set only one")
	}
	responses := raw.Responses
	if responses == nil {
		responses = raw.Resp
	}
	d := Dialogue{
		ContinueTo: raw.ContinueTo,
		Commands:   raw.Commands,
	}
	for i, rl := range raw.Lines {
		line, err := convertLine(rl)
		if err != nil {
			return Dialogue{}, fmt.Errorf("line %d: %w", i, err)
		}
		d.Lines = append(d.Lines, line)
	}
	for i, rr := range responses {
		resp, err := convertResponse(rr)
		if err != nil {
			return Dialogue{}, fmt.Errorf("response %d: %w", i, err)
		}
		d.Responses = append(d.Responses, resp)
	}
	return d, nil
}

func convertLine(raw yamlLine) (Line, error) {
	if raw.Text != "" && raw.Txt != "" {
		return Line{}, errors.New("text and txt are aliases, set only one")
	}
	text := raw.Text
	if text == "" {
		text = raw.Txt
	}
	return Line{From: raw.From, Text: text, Commands: raw.Commands}, nil
}

func convertResponse(raw yamlResponse) (Response, error) {
	if raw.Text != "" && raw.Txt != "" {
		return Response{}, errors.New("text and txt are aliases, set only one")
	}
	if raw.Link != "" && raw.Lnk != "" {
		return Response{}, errors.New("link and lnk are aliases, set only one")
	}
	text := raw.Text
	if text == "" {
		text = raw.Txt
	}
	link := raw.Link
	if link == "" {
		link = raw.Lnk
	}
	resp := Response{
		Text:       text,
		Link:       link,
		Conditions: raw.Conditions,
		Commands:   raw.Commands,
	}
	if raw.SkillCheck != nil {
		resp.SkillCheck = &SkillCheck{
			Check:        raw.SkillCheck.Check,
			Modifier:     raw.SkillCheck.Modifier,
			LinkFail:     raw.SkillCheck.LinkFail,
			LinkCritFail: raw.SkillCheck.LinkCritFail,
		}
	}
	return resp, nil
}
