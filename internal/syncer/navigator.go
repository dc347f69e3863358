package syncer

import (
	"github.com/teamized/teamized/internal/cache"
	"github.com/teamized/teamized/internal/nav"
)

// LinkNavigator is a Navigator for non-interactive use: it keeps the
// navigation state in step with the selection but drives no renderer.
// The dashboard wraps it with a renderer that feeds the update loop.
type LinkNavigator struct {
	Nav   *nav.State
	Store *cache.Store
}

func (n *LinkNavigator) ExportToLink() {
	n.Nav.ExportToLink(n.Store.SelectedTeamID(), nil)
}

func (n *LinkNavigator) Render() {}

func (n *LinkNavigator) RenderPage() {}
