package dashboard

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/teamized/teamized/internal/syncer"
)

// ProgramRenderer adapts the synchronizer's Navigator interface to a
// running Bubble Tea program: render requests become messages injected
// into the update loop. Until Attach is called, render requests are
// dropped; the model draws the initial state itself.
type ProgramRenderer struct {
	link *syncer.LinkNavigator
	send func(tea.Msg)
}

// NewProgramRenderer wraps a LinkNavigator for use with a TUI program.
func NewProgramRenderer(link *syncer.LinkNavigator) *ProgramRenderer {
	return &ProgramRenderer{link: link}
}

// Attach connects the renderer to a started program.
func (r *ProgramRenderer) Attach(p *tea.Program) {
	r.send = p.Send
}

func (r *ProgramRenderer) ExportToLink() {
	r.link.ExportToLink()
}

func (r *ProgramRenderer) Render() {
	if r.send != nil {
		r.send(RenderMsg{})
	}
}

func (r *ProgramRenderer) RenderPage() {
	if r.send != nil {
		r.send(PageRenderMsg{})
	}
}
