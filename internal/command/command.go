// Package command turns free-form chat text into viewer directives.
// Routing is keyword-based: the first recognized intent in the message
// wins, with named-color requests taking precedence over the generic
// per-part coloring.
package command

import (
	"strings"

	"github.com/Faultbox/partscope/internal/camera"
	"github.com/Faultbox/partscope/internal/colorize"
	"github.com/Faultbox/partscope/internal/scene"
)

// Kind is the routed intent of a chat message.
type Kind int

const (
	KindNone Kind = iota
	KindExplode
	KindAssemble
	KindColorize
	KindColorNamed
	KindMeasure
	KindView
	KindReset
)

// String returns the kind's name for logs.
func (k Kind) String() string {
	switch k {
	case KindExplode:
		return "explode"
	case KindAssemble:
		return "assemble"
	case KindColorize:
		return "colorize"
	case KindColorNamed:
		return "color-named"
	case KindMeasure:
		return "measure"
	case KindView:
		return "view"
	case KindReset:
		return "reset"
	}
	return "none"
}

// Directive is a parsed viewer action. Color and ColorName are set
// only for KindColorNamed; View only for KindView.
type Directive struct {
	Kind      Kind
	Color     scene.RGBA
	ColorName string
	View      camera.View
}

// Parse routes a chat message to a directive. The second return is
// false when no intent was recognized.
func Parse(text string) (Directive, bool) {
	lowered := strings.ToLower(text)
	words := strings.FieldsFunc(lowered, func(r rune) bool {
		return !('a' <= r && r <= 'z')
	})

	switch {
	case containsAny(words, "explode", "disassemble", "exploded"):
		return Directive{Kind: KindExplode}, true

	case containsAny(words, "assemble", "collapse", "reassemble", "assembled"):
		return Directive{Kind: KindAssemble}, true

	case containsAny(words, "color", "colors", "colour", "colours", "paint", "recolor", "tint"):
		// "apply red color" carries a named color; plain "color the
		// parts" means one distinct color per part.
		for _, w := range words {
			if rgba, ok := colorize.NamedColor(w); ok {
				return Directive{Kind: KindColorNamed, Color: rgba, ColorName: w}, true
			}
		}
		return Directive{Kind: KindColorize}, true

	case containsAny(words, "measure", "measurement", "dimension", "distance"):
		return Directive{Kind: KindMeasure}, true

	case containsAny(words, "reset", "clear", "restore"):
		return Directive{Kind: KindReset}, true
	}

	for _, w := range words {
		if v, ok := camera.ParseView(w); ok {
			return Directive{Kind: KindView, View: v}, true
		}
	}

	return Directive{}, false
}

// Reply returns the acknowledgement text for a routed directive, or
// the fallback explanation when nothing was recognized.
func Reply(d Directive, ok bool) string {
	if !ok {
		return "I can explode or assemble the model, color parts, measure features, or jump to a view (front, back, left, right, top, bottom)."
	}
	switch d.Kind {
	case KindExplode:
		return "Exploding the assembly."
	case KindAssemble:
		return "Reassembling the model."
	case KindColorize:
		return "Applying a distinct color to each part."
	case KindColorNamed:
		return "Applying " + d.ColorName + " to the parts."
	case KindMeasure:
		return "Toggling measurement mode."
	case KindView:
		return "Switching to the " + d.View.String() + " view."
	case KindReset:
		return "Resetting the scene."
	}
	return ""
}

func containsAny(words []string, wanted ...string) bool {
	for _, w := range words {
		for _, want := range wanted {
			if w == want {
				return true
			}
		}
	}
	return false
}
