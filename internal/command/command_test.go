package command

import (
	"testing"

	"github.com/Faultbox/partscope/internal/camera"
)

func TestParseRouting(t *testing.T) {
	cases := []struct {
		text string
		want Kind
	}{
		{"explode the assembly", KindExplode},
		{"please disassemble it", KindExplode},
		{"show me the exploded view", KindExplode},
		{"assemble everything back", KindAssemble},
		{"collapse the parts", KindAssemble},
		{"color the parts", KindColorize},
		{"paint each part differently", KindColorize},
		{"measure this edge", KindMeasure},
		{"what is the distance here", KindMeasure},
		{"reset the scene", KindReset},
		{"Look at it from the TOP", KindView},
		{"rotate to the left side", KindView},
	}
	for _, tc := range cases {
		d, ok := Parse(tc.text)
		if !ok {
			t.Errorf("Parse(%q) not recognized, want %v", tc.text, tc.want)
			continue
		}
		if d.Kind != tc.want {
			t.Errorf("Parse(%q) = %v, want %v", tc.text, d.Kind, tc.want)
		}
	}
}

func TestParseNamedColor(t *testing.T) {
	d, ok := Parse("apply red color to the housing")
	if !ok || d.Kind != KindColorNamed {
		t.Fatalf("Parse = %v,%v, want color-named", d.Kind, ok)
	}
	if d.ColorName != "red" {
		t.Errorf("color name = %q, want red", d.ColorName)
	}
	if d.Color.R < 0.5 || d.Color.G > 0.5 {
		t.Errorf("unexpected rgba for red: %+v", d.Color)
	}
}

func TestParseNamedColorBeatsGeneric(t *testing.T) {
	d, ok := Parse("paint it blue")
	if !ok || d.Kind != KindColorNamed || d.ColorName != "blue" {
		t.Errorf("Parse = %+v,%v, want named blue", d, ok)
	}
}

func TestParseView(t *testing.T) {
	d, ok := Parse("front")
	if !ok || d.Kind != KindView || d.View != camera.ViewFront {
		t.Errorf("Parse(front) = %+v,%v, want front view", d, ok)
	}
}

func TestParseUnrecognized(t *testing.T) {
	for _, text := range []string{"", "tell me a joke", "open the pod bay doors"} {
		if d, ok := Parse(text); ok {
			t.Errorf("Parse(%q) = %+v, want unrecognized", text, d)
		}
	}
}

func TestReply(t *testing.T) {
	d, ok := Parse("explode it")
	if got := Reply(d, ok); got != "Exploding the assembly." {
		t.Errorf("Reply = %q", got)
	}

	d, ok = Parse("paint it green")
	if got := Reply(d, ok); got != "Applying green to the parts." {
		t.Errorf("Reply = %q", got)
	}

	d, ok = Parse("how tall are giraffes")
	if got := Reply(d, ok); got == "" || ok {
		t.Errorf("fallback reply missing, got %q (ok=%v)", got, ok)
	}
}

func TestParseCaseAndPunctuation(t *testing.T) {
	d, ok := Parse("EXPLODE!!!")
	if !ok || d.Kind != KindExplode {
		t.Errorf("Parse(EXPLODE!!!) = %+v,%v, want explode", d, ok)
	}
}
