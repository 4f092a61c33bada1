package headless

import "github.com/metcalfc/talkbox/internal/reveal"

// Surface records the text and visibility it was given.
type Surface struct {
	Text      string
	Visible   bool
	Destroyed bool
	// History holds every text the surface displayed, in order.
	History []string
}

func (s *Surface) SetText(text string) {
	s.Text = text
	s.History = append(s.History, text)
}

func (s *Surface) SetVisible(visible bool) { s.Visible = visible }

func (s *Surface) Destroy() { s.Destroyed = true }

// Display is a reveal.SurfaceFactory that keeps every surface it created.
type Display struct {
	Surfaces []*Surface
}

// CreateSurface implements reveal.SurfaceFactory.
func (d *Display) CreateSurface() reveal.Surface {
	s := &Surface{}
	d.Surfaces = append(d.Surfaces, s)
	return s
}

// Current returns the most recently created surface, or nil.
func (d *Display) Current() *Surface {
	if len(d.Surfaces) == 0 {
		return nil
	}
	return d.Surfaces[len(d.Surfaces)-1]
}

// Live returns the number of surfaces not yet destroyed.
func (d *Display) Live() int {
	n := 0
	for _, s := range d.Surfaces {
		if !s.Destroyed {
			n++
		}
	}
	return n
}
