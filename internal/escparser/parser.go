// Package escparser implements the escape-sequence state machine described
// by spec.md §4.2: a byte-fed parser that decodes a mixed stream of
// printable UTF-8 text, C0 control codes, and CSI/OSC/ESC dispatches into
// discrete Action values, without allocation on the hot path.
//
// The parser never touches a grid or cursor; it is fed bytes and returns
// Actions, so it can be driven by a recording collaborator in tests
// independent of any terminal-model implementation (spec.md §9).
package escparser

import "github.com/kowhai-term/kowhai/internal/utf8decoder"

const (
	maxParams       = 128
	maxIntermediates = 2
	maxOsc          = 1024
)

// state is the parser's current recognition state.
type state int

const (
	stateAnywhere state = iota
	stateEntry
	stateCsiParams
	stateEscParams
	stateOscParams
)

// Parser is a fixed-capacity escape-sequence state machine. Construct one
// with New; the zero value has no UTF-8 decoder and is not usable.
type Parser struct {
	st state

	utf8 *utf8decoder.Decoder

	params    [maxParams]uint16
	paramIdx  int // index of the parameter slot currently being accumulated
	paramSeen bool

	interm    [maxIntermediates]byte
	intermLen int

	osc    [maxOsc]byte
	oscLen int

	// OnInvalidUTF8, if set, is called with the offending byte whenever the
	// embedded UTF-8 decoder rejects a sequence (spec.md §7).
	OnInvalidUTF8 func(b byte)
}

// New returns a ready-to-use Parser.
func New() *Parser {
	return &Parser{utf8: utf8decoder.New()}
}

// Feed consumes one byte and returns the Action it produced, or a
// zero-Kind (KindNone) Action if none was produced. The returned Action's
// slice fields alias the Parser's internal buffers and are valid only
// until the next call to Feed.
func (p *Parser) Feed(b byte) Action {
	if b == 0x1B {
		p.resetEntry()
		return Action{Kind: KindNone}
	}

	switch p.st {
	case stateAnywhere:
		return p.feedAnywhere(b)
	case stateEntry:
		return p.feedEntry(b)
	case stateCsiParams:
		return p.feedCsiParams(b)
	case stateEscParams:
		return p.feedEscParams(b)
	case stateOscParams:
		return p.feedOscParams(b)
	default:
		p.st = stateAnywhere
		return Action{Kind: KindNone}
	}
}

func (p *Parser) resetEntry() {
	p.st = stateEntry
	p.paramIdx = 0
	p.paramSeen = false
	for i := range p.params {
		p.params[i] = 0
	}
	p.intermLen = 0
	p.oscLen = 0
	p.utf8.Reset()
}

func (p *Parser) feedAnywhere(b byte) Action {
	if b <= 0x1F {
		return Action{Kind: KindExecute, Byte: b}
	}
	switch p.utf8.Feed(b) {
	case utf8decoder.ResultRune:
		return Action{Kind: KindPrint, Rune: p.utf8.Rune()}
	case utf8decoder.ResultInvalid:
		if p.OnInvalidUTF8 != nil {
			p.OnInvalidUTF8(b)
		}
		return Action{Kind: KindNone}
	default: // ResultNone: mid-sequence, nothing to emit yet
		return Action{Kind: KindNone}
	}
}

func (p *Parser) feedEntry(b byte) Action {
	switch {
	case b == '[':
		p.st = stateCsiParams
		return Action{Kind: KindNone}
	case b == ']':
		p.st = stateOscParams
		return Action{Kind: KindNone}
	case b >= 0x30 && b <= 0x7E:
		a := Action{Kind: KindEscDispatch, Byte: b, Intermediates: p.interm[:p.intermLen]}
		p.st = stateAnywhere
		return a
	case b >= 0x20 && b <= 0x2F:
		p.pushIntermediate(b)
		p.st = stateEscParams
		return Action{Kind: KindNone}
	default:
		p.st = stateEscParams
		return Action{Kind: KindNone}
	}
}

func (p *Parser) feedEscParams(b byte) Action {
	switch {
	case b >= 0x30 && b <= 0x7E:
		a := Action{Kind: KindEscDispatch, Byte: b, Intermediates: p.interm[:p.intermLen]}
		p.st = stateAnywhere
		return a
	case b >= 0x20 && b <= 0x2F:
		p.pushIntermediate(b)
		return Action{Kind: KindNone}
	default:
		return Action{Kind: KindNone}
	}
}

func (p *Parser) feedCsiParams(b byte) Action {
	switch {
	case b >= 0x40 && b <= 0x7D:
		a := Action{
			Kind:          KindCsiDispatch,
			Byte:          b,
			Params:        p.currentParams(),
			Intermediates: p.interm[:p.intermLen],
		}
		p.st = stateAnywhere
		return a
	case b == ';' || b == ':':
		if p.paramIdx < maxParams-1 {
			p.paramIdx++
		}
		p.paramSeen = true
		return Action{Kind: KindNone}
	case b >= '0' && b <= '9':
		p.paramSeen = true
		cur := p.params[p.paramIdx]
		next := uint32(cur)*10 + uint32(b-'0')
		if next > 0xFFFF {
			next = 0xFFFF
		}
		p.params[p.paramIdx] = uint16(next)
		return Action{Kind: KindNone}
	case b >= 0x3C && b <= 0x3F:
		p.pushIntermediate(b)
		return Action{Kind: KindNone}
	case b >= 0x20 && b <= 0x2F:
		p.pushIntermediate(b)
		return Action{Kind: KindNone}
	case b <= 0x0F:
		return Action{Kind: KindExecute, Byte: b}
	default:
		return Action{Kind: KindNone}
	}
}

func (p *Parser) feedOscParams(b byte) Action {
	if b == 0x07 || b == 0x9C {
		a := Action{Kind: KindOscDispatch, Osc: p.osc[:p.oscLen]}
		p.st = stateAnywhere
		return a
	}
	if p.oscLen < maxOsc {
		p.osc[p.oscLen] = b
		p.oscLen++
	}
	return Action{Kind: KindNone}
}

func (p *Parser) pushIntermediate(b byte) {
	if p.intermLen < maxIntermediates {
		p.interm[p.intermLen] = b
		p.intermLen++
	}
}

// currentParams returns the slice of parameter slots actually touched.
// If no digits or separators were consumed, it returns an empty slice so
// callers fall back to their own per-command default uniformly.
func (p *Parser) currentParams() []uint16 {
	if !p.paramSeen {
		return nil
	}
	return p.params[:p.paramIdx+1]
}
