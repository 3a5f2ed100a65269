package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/soar/gyromouse/internal/mapping"
	"github.com/soar/gyromouse/internal/output"
)

// ParseError locates a line that did not parse.
type ParseError struct {
	Line     int
	Column   int
	Expected []string
	Text     string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("line %d column %d: expected %s (%q)",
		e.Line, e.Column, strings.Join(e.Expected, " or "), e.Text)
}

// Parse reads a mapping file. A line that fails is recorded and skipped; the
// remaining lines are still parsed.
func Parse(content string) ([]Cmd, []ParseError) {
	var (
		cmds []Cmd
		errs []ParseError
	)
	for i, line := range strings.Split(content, "\n") {
		line = strings.TrimSuffix(line, "\r")
		p := lineParser{src: line}
		cmd, err := p.parse()
		if err != nil {
			err.Line = i + 1
			err.Text = line
			errs = append(errs, *err)
			continue
		}
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return cmds, errs
}

type lineParser struct {
	src string
	pos int
}

func (p *lineParser) fail(expected ...string) *ParseError {
	return &ParseError{Column: p.pos + 1, Expected: expected}
}

func (p *lineParser) peek() byte {
	if p.pos < len(p.src) {
		return p.src[p.pos]
	}
	return 0
}

// skipSpace reports whether any space was skipped.
func (p *lineParser) skipSpace() bool {
	start := p.pos
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
	return p.pos > start
}

func (p *lineParser) atEnd() bool {
	return p.pos >= len(p.src) || p.src[p.pos] == '#'
}

func (p *lineParser) end() *ParseError {
	p.skipSpace()
	if !p.atEnd() {
		return p.fail("end of line")
	}
	return nil
}

func isWordChar(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func (p *lineParser) word() string {
	start := p.pos
	for p.pos < len(p.src) && isWordChar(p.src[p.pos]) {
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *lineParser) parse() (Cmd, *ParseError) {
	p.skipSpace()
	if p.atEnd() {
		return nil, nil
	}
	start := p.pos
	w := p.word()
	switch {
	case strings.EqualFold(w, "RESET_MAPPINGS"):
		if err := p.end(); err != nil {
			return nil, err
		}
		return ResetCmd{}, nil
	case w != "":
		if kind, def, ok := lookupSetting(w); ok {
			st, err := p.setting(kind, def)
			if err != nil {
				return nil, err
			}
			return SettingCmd{Setting: st}, nil
		}
		if s, ok := lookupSpecial(w); ok {
			if err := p.end(); err != nil {
				return nil, err
			}
			return SpecialCmd{Special: s}, nil
		}
	}
	p.pos = start
	return p.binding()
}

func (p *lineParser) mapKey() (mapping.MapKey, bool) {
	start := p.pos
	name := p.word()
	if name == "" && (p.peek() == '-' || p.peek() == '+') {
		name = p.src[p.pos : p.pos+1]
		p.pos++
	}
	k, ok := mapping.ParseMapKey(name)
	if !ok {
		p.pos = start
	}
	return k, ok
}

func (p *lineParser) binding() (Cmd, *ParseError) {
	first, ok := p.mapKey()
	if !ok {
		return nil, p.fail("key binding", "setting", "special key", "RESET_MAPPINGS")
	}
	key := Key{Kind: KeySimple, First: first}
	save := p.pos
	p.skipSpace()
	if c := p.peek(); c == '+' || c == ',' {
		p.pos++
		p.skipSpace()
		second, ok := p.mapKey()
		if !ok {
			return nil, p.fail("key")
		}
		key.Second = second
		key.Kind = KeyChorded
		if c == '+' {
			key.Kind = KeySimul
		}
	} else {
		p.pos = save
	}
	if err := p.equal(); err != nil {
		return nil, err
	}
	var actions []Action
	for {
		a, err := p.action()
		if err != nil {
			return nil, err
		}
		actions = append(actions, a)
		spaced := p.skipSpace()
		if p.atEnd() {
			break
		}
		if !spaced {
			return nil, p.fail("end of line")
		}
	}
	return MapCmd{Key: key, Actions: actions}, nil
}

func (p *lineParser) equal() *ParseError {
	p.skipSpace()
	if p.peek() != '=' {
		return p.fail("=")
	}
	p.pos++
	p.skipSpace()
	return nil
}

var eventSuffixes = map[byte]EventModifier{
	'\'': EventTap,
	'_':  EventHold,
	'\\': EventStart,
	'/':  EventRelease,
	'+':  EventTurbo,
}

func (p *lineParser) action() (Action, *ParseError) {
	var a Action
	switch p.peek() {
	case '^':
		a.Modifier = ModToggle
		p.pos++
	case '!':
		a.Modifier = ModInstant
		p.pos++
	}
	start := p.pos
	w := p.word()
	switch {
	case resolveAction(&a, w):
	case len(w) > 1 && strings.HasSuffix(w, "_") && resolveAction(&a, w[:len(w)-1]):
		// The word scan swallows a trailing hold suffix.
		a.Event = EventHold
		return a, nil
	default:
		p.pos = start
		return a, p.fail("action")
	}
	if ev, ok := eventSuffixes[p.peek()]; ok {
		a.Event = ev
		p.pos++
	}
	return a, nil
}

func resolveAction(a *Action, name string) bool {
	if name == "" {
		return false
	}
	if s, ok := lookupSpecial(name); ok {
		a.Kind, a.Special = ActionSpecial, s
		return true
	}
	if g, ok := output.LookupGamepadButton(name); ok {
		a.Kind, a.Gamepad = ActionGamepad, g
		return true
	}
	if b, ok := output.LookupButton(name); ok {
		a.Kind, a.Button = ActionMouse, b
		return true
	}
	if k, ok := output.LookupKey(name); ok {
		a.Kind, a.Key = ActionKey, k
		return true
	}
	if len(name) == 1 {
		if k, ok := output.CharKey(rune(name[0])); ok {
			a.Kind, a.Key = ActionKey, k
			return true
		}
	}
	return false
}

func (p *lineParser) setting(kind SettingKind, def settingDef) (Setting, *ParseError) {
	st := Setting{Kind: kind}
	if def.value == valFlag {
		return st, p.end()
	}
	if err := p.equal(); err != nil {
		return st, err
	}
	var err *ParseError
	switch def.value {
	case valFloat:
		st.Float, err = p.float()
	case valFloatPair:
		if st.Float, err = p.float(); err == nil && p.second() {
			st.Float2, err = p.float()
			st.HasFloat2 = true
		}
	case valUint:
		st.Uint, err = p.uint()
	case valSeconds, valMillis:
		var v float64
		v, err = p.float()
		unit := time.Second
		if def.value == valMillis {
			unit = time.Millisecond
		}
		st.Duration = time.Duration(v * float64(unit))
	case valStickMode:
		st.StickMode, err = enumValue(p, stickModeNames)
	case valRingMode:
		st.RingMode, err = enumValue(p, ringModeNames)
	case valTriggerMode:
		st.TriggerMode, err = enumValue(p, triggerModeNames)
	case valGyroSpace:
		st.GyroSpace, err = enumValue(p, gyroSpaceNames)
	case valInvert, valInvertPair:
		if st.Invert, err = enumValue(p, invertModeNames); err == nil && p.second() {
			st.Invert2, err = enumValue(p, invertModeNames)
			st.HasInvert2 = true
		}
	}
	if err != nil {
		return st, err
	}
	return st, p.end()
}

// second skips the separator before an optional second value and reports
// whether one follows.
func (p *lineParser) second() bool {
	save := p.pos
	if p.skipSpace() && !p.atEnd() {
		return true
	}
	p.pos = save
	return false
}

func (p *lineParser) number() string {
	start := p.pos
	for p.pos < len(p.src) && strings.IndexByte("+-.0123456789eE", p.src[p.pos]) >= 0 {
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *lineParser) float() (float64, *ParseError) {
	start := p.pos
	v, err := strconv.ParseFloat(p.number(), 64)
	if err != nil {
		p.pos = start
		return 0, p.fail("a number")
	}
	return v, nil
}

func (p *lineParser) uint() (uint32, *ParseError) {
	start := p.pos
	v, err := strconv.ParseUint(p.number(), 10, 32)
	if err != nil {
		p.pos = start
		return 0, p.fail("an unsigned integer")
	}
	return uint32(v), nil
}

func enumValue[T comparable](p *lineParser, names map[T]string) (T, *ParseError) {
	start := p.pos
	w := p.word()
	for v, name := range names {
		if strings.EqualFold(name, w) {
			return v, nil
		}
	}
	p.pos = start
	expected := make([]string, 0, len(names))
	for _, name := range names {
		expected = append(expected, name)
	}
	sort.Strings(expected)
	var zero T
	return zero, p.fail(expected...)
}
