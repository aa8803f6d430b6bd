package echoweb

import (
	"strings"

	"github.com/smartcampusucv/web/core/user"
)

// NavItem is one entry of the sidebar and bottom bar.
type NavItem struct {
	Label  string
	Path   string
	Icon   string
	Roles  []string // empty: every signed-in user
	Active bool
}

var navItems = []NavItem{
	{Label: "Inicio", Path: "/inicio", Icon: "home"},
	{Label: "Mis Inscripciones", Path: "/inscripciones", Icon: "calendar"},
	{Label: "Crear Actividad", Path: "/actividades/nueva", Icon: "plus", Roles: []string{user.RoleOrganizer, user.RoleAdmin}},
	{Label: "Ranking", Path: "/ranking", Icon: "trophy"},
	{Label: "Reconocimientos", Path: "/reconocimientos", Icon: "award", Roles: []string{user.RoleAdmin}},
	{Label: "Asistente", Path: "/chat", Icon: "chat"},
	{Label: "Mi Perfil", Path: "/perfil", Icon: "user"},
}

// Navigation returns the items visible in state, marking the one that owns path.
// Only authenticated sessions get a navigation.
func Navigation(state user.AuthState, path string) []NavItem {
	if state.Phase() != user.PhaseAuthenticated {
		return nil
	}
	items := make([]NavItem, 0, len(navItems))
	for _, item := range navItems {
		if !state.User.HasAnyRole(item.Roles...) {
			continue
		}
		item.Active = path == item.Path || (item.Path != "/inicio" && strings.HasPrefix(path, item.Path+"/"))
		items = append(items, item)
	}
	return items
}
