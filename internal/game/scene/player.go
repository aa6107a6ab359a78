package scene

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Invariant violations surfaced by the player. These indicate a
// content-authoring or call-ordering bug, not a recoverable game state.
var (
	// ErrUnknownSection means the cursor points at a section the scene does
	// not contain.
	ErrUnknownSection = errors.New("scene player cursor points at unknown section")
	// ErrLineOutOfRange means the line cursor has escaped the dialogue.
	ErrLineOutOfRange = errors.New("scene player line cursor out of range")
)

// View is what the display layer renders: the current line, and the
// condition-filtered responses when the line is the last of its section.
// A nil View from Current means a commands-only pass-through node; callers
// must immediately issue SelectCurrent.
type View struct {
	Line      *Line
	Responses []Response
}

// Player is the ephemeral cursor over one scene's dialogue graph. It is
// created when a scene is played and destroyed by its owner when the scene
// ends. It reads the scene graph and manager, writes manager state only
// through command execution, and tracks executed bookmarks for its
// lifetime so commands cannot double-fire.
type Player struct {
	scene       *Scene
	mgr         *Manager
	log         *zap.Logger
	section     SectionID
	line        int
	highlighted int
	executed    map[Bookmark]struct{}
}

// newPlayer is called by Manager.Play.
func newPlayer(s *Scene, mgr *Manager, entry SectionID, log *zap.Logger) *Player {
	return &Player{
		scene:    s,
		mgr:      mgr,
		log:      log,
		section:  entry,
		executed: make(map[Bookmark]struct{}),
	}
}

// SceneID returns the id of the scene being played.
func (p *Player) SceneID() ID { return p.scene.ID }

// Section returns the cursor's current section.
func (p *Player) Section() SectionID { return p.section }

// LineIndex returns the cursor's current line index.
func (p *Player) LineIndex() int { return p.line }

// Highlighted returns the highlighted response index.
func (p *Player) Highlighted() int { return p.highlighted }

// Current resolves the dialogue at the cursor. On a zero-line section it
// dispatches the section-level commands (at most once) and returns a nil
// view: the pass-through convention, not an error. Otherwise it returns
// the current line and, only on the last line, the visible responses.
func (p *Player) Current(sink Sink) (*View, error) {
	d, ok := p.scene.Dialogue[p.section]
	if !ok {
		return nil, fmt.Errorf("scene %q section %q: %w", p.scene.ID, p.section, ErrUnknownSection)
	}
	if len(d.Lines) == 0 {
		if d.Commands != nil {
			p.execute(SectionBookmark(p.scene.ID, p.section), d.Commands, sink)
		}
		return nil, nil
	}
	if p.line >= len(d.Lines) {
		return nil, fmt.Errorf("scene %q section %q line %d of %d: %w",
			p.scene.ID, p.section, p.line, len(d.Lines), ErrLineOutOfRange)
	}
	view := &View{Line: &d.Lines[p.line]}
	if p.line == len(d.Lines)-1 {
		visible, err := p.visibleResponses(d)
		if err != nil {
			return nil, err
		}
		view.Responses = visible
	}
	return view, nil
}

// MoveUp moves the highlighted response up by one, clamped. Never wraps.
func (p *Player) MoveUp() error {
	return p.moveBy(-1)
}

// MoveDown moves the highlighted response down by one, clamped. Never wraps.
func (p *Player) MoveDown() error {
	return p.moveBy(1)
}

func (p *Player) moveBy(delta int) error {
	n, err := p.responseCount()
	if err != nil {
		return err
	}
	p.highlighted = clamp(p.highlighted+delta, n)
	return nil
}

// MoveTo sets the highlighted response directly (pointer hover), clamped.
func (p *Player) MoveTo(index int) error {
	n, err := p.responseCount()
	if err != nil {
		return err
	}
	p.highlighted = clamp(index, n)
	return nil
}

// Select sets the highlighted response and selects it (pointer click).
func (p *Player) Select(index int, sink Sink) error {
	if err := p.MoveTo(index); err != nil {
		return err
	}
	return p.SelectCurrent(sink)
}

// SelectCurrent advances the player. The precedence order is load-bearing:
// a section finishes all of its lines strictly before responses are
// reachable, and only the last line exposes responses.
func (p *Player) SelectCurrent(sink Sink) error {
	d, ok := p.scene.Dialogue[p.section]
	if !ok {
		return fmt.Errorf("scene %q section %q: %w", p.scene.ID, p.section, ErrUnknownSection)
	}

	// Degenerate empty section: nothing to advance through.
	if len(d.Lines) == 0 {
		sink.EndScene()
		return nil
	}
	if p.line >= len(d.Lines) {
		return fmt.Errorf("scene %q section %q line %d of %d: %w",
			p.scene.ID, p.section, p.line, len(d.Lines), ErrLineOutOfRange)
	}

	line := d.Lines[p.line]
	if line.Commands != nil {
		p.execute(LineBookmark(p.scene.ID, p.section, p.line), line.Commands, sink)
	}

	if p.line+1 < len(d.Lines) {
		p.line++
		p.highlighted = 0
		return nil
	}

	visible, err := p.visibleResponses(d)
	if err != nil {
		return err
	}
	if p.highlighted < len(visible) {
		resp := visible[p.highlighted]
		if resp.Commands != nil {
			p.execute(ResponseBookmark(p.scene.ID, p.section, p.highlighted), resp.Commands, sink)
		}
		if resp.Link != "" {
			p.jump(resp.Link)
			return nil
		}
		sink.EndScene()
		return nil
	}

	if d.ContinueTo != "" {
		p.jump(d.ContinueTo)
		return nil
	}

	sink.EndScene()
	return nil
}

// execute dispatches a command payload at most once per bookmark for this
// player's lifetime. Repeats are silently ignored by design: re-renders and
// re-entrant calls must not double-fire external side effects.
func (p *Player) execute(bm Bookmark, cmds *Commands, sink Sink) {
	if _, done := p.executed[bm]; done {
		return
	}
	p.executed[bm] = struct{}{}
	p.log.Debug("executing scene commands", zap.Stringer("bookmark", bm))
	cmds.Execute(p.mgr, sink, p.log)
}

// jump moves the cursor to another section, resetting line and response
// indices.
func (p *Player) jump(section SectionID) {
	p.section = section
	p.line = 0
	p.highlighted = 0
}

// visibleResponses filters the section's responses by their condition
// conjunctions against the manager's variables. Failing responses are
// hidden, not disabled.
func (p *Player) visibleResponses(d Dialogue) ([]Response, error) {
	var visible []Response
	for _, resp := range d.Responses {
		ok, err := EvalAll(resp.Conditions, p.mgr)
		if err != nil {
			return nil, fmt.Errorf("scene %q section %q: evaluating response conditions: %w", p.scene.ID, p.section, err)
		}
		if ok {
			visible = append(visible, resp)
		}
	}
	return visible, nil
}

// responseCount returns the number of responses the cursor can address:
// zero unless the current line is the last of its section.
func (p *Player) responseCount() (int, error) {
	d, ok := p.scene.Dialogue[p.section]
	if !ok {
		return 0, fmt.Errorf("scene %q section %q: %w", p.scene.ID, p.section, ErrUnknownSection)
	}
	if len(d.Lines) == 0 || p.line != len(d.Lines)-1 {
		return 0, nil
	}
	visible, err := p.visibleResponses(d)
	if err != nil {
		return 0, err
	}
	return len(visible), nil
}

// clamp bounds index into [0, n-1], or 0 when there is nothing to address.
func clamp(index, n int) int {
	if n <= 0 {
		return 0
	}
	if index < 0 {
		return 0
	}
	if index >= n {
		return n - 1
	}
	return index
}
