package ast

import "sort"

// Document is the root of a parsed Staves source file.
type Document struct {
	Staves []*Stave
	Styles []*StyleDef
	Tones  []*ToneDef
	Pulses []*PulseDef
	Safety *SafetyDef
}

// Stave is a named visual layout tree.
type Stave struct {
	Name string
	Body []Element
	Span Span
}

// Element is implemented by Container, Leaf, ToneRef, and PulseRef —
// the closed set of nodes that can appear in a stave body.
type Element interface {
	ElementSpan() Span
}

// ContainerKind identifies a layout container's role.
type ContainerKind uint8

const (
	ContainerColumn ContainerKind = iota + 1
	ContainerRow
	ContainerSection
	ContainerList
	ContainerGrid
)

// TagByte returns the bytecode node tag for this container kind.
func (k ContainerKind) TagByte() byte { return byte(k) }

// Container is a layout element that may hold child elements.
type Container struct {
	Kind     ContainerKind
	Attrs    Attrs
	Children []Element
	Span_    Span
}

func (c *Container) ElementSpan() Span { return c.Span_ }

// Leaf is a terminal layout element carrying a LeafKind payload.
type Leaf struct {
	Kind  LeafKind
	Attrs Attrs
	Span_ Span
}

func (l *Leaf) ElementSpan() Span { return l.Span_ }

// ToneRef references a named tone definition from within a stave body.
type ToneRef struct {
	Name  string
	Span_ Span
}

func (t *ToneRef) ElementSpan() Span { return t.Span_ }

// PulseRef references a named pulse definition from within a stave body.
type PulseRef struct {
	Name  string
	Span_ Span
}

func (p *PulseRef) ElementSpan() Span { return p.Span_ }

// LeafKind is implemented by the closed set of leaf element payloads.
type LeafKind interface {
	TagByte() byte
}

// Heading renders a heading of the given level (clamped to [1,6] by
// the parser) with the given text.
type Heading struct {
	Level uint8
	Text  string
}

func (h Heading) TagByte() byte {
	switch h.Level {
	case 1:
		return 0x10
	case 2:
		return 0x11
	case 3:
		return 0x12
	case 4:
		return 0x13
	case 5:
		return 0x14
	default:
		return 0x15
	}
}

type Text struct{ Value string }

func (Text) TagByte() byte { return 0x08 }

type Button struct{ Action, Label string }

func (Button) TagByte() byte { return 0x09 }

type Input struct {
	Field       string
	InputType   *string
	Placeholder *string
}

func (Input) TagByte() byte { return 0x0A }

type Image struct{ Src, Alt string }

func (Image) TagByte() byte { return 0x0B }

type Link struct{ Href, Label string }

func (Link) TagByte() byte { return 0x0C }

type Spacer struct{ Value Value }

func (Spacer) TagByte() byte { return 0x1A }

type Item struct{ Value string }

func (Item) TagByte() byte { return 0x1B }

type Metric struct{ Label, MetricValue string }

func (Metric) TagByte() byte { return 0x18 }

type Separator struct{}

func (Separator) TagByte() byte { return 0x19 }

// Attrs holds an element's attributes. style and id are promoted to
// dedicated fields; everything else lands in Extra, iterated in
// ascending key order to stand in for the original's BTreeMap, since
// Go maps have no deterministic order of their own.
type Attrs struct {
	Style *string
	ID    *string
	Extra map[string]string
}

// SortedExtraKeys returns the Extra map's keys in ascending order.
func (a Attrs) SortedExtraKeys() []string {
	keys := make([]string, 0, len(a.Extra))
	for k := range a.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
