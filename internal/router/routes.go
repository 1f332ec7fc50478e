// Package router maps navigation paths to named views and gates them on the
// authentication state.
package router

// Route names.
const (
	RouteLogin       = "Login"
	RouteDashboard   = "Dashboard"
	RouteProfile     = "Profile"
	RouteMessages    = "Messages"
	RouteContacts    = "Contacts"
	RouteGroups      = "Groups"
	RouteGroupDetail = "GroupDetail"
	RouteBlogs       = "Blogs"
	RouteTemplates   = "Templates"
	RouteFileSender  = "FileSender"
)

// Meta flags a route record for the guard.
type Meta struct {
	RequiresAuth bool
	Guest        bool
}

// Record is one entry of the route table. Child paths are relative to their
// parent. A record with Redirect sends the navigation elsewhere instead of
// rendering.
type Record struct {
	Name     string
	Path     string
	Meta     Meta
	Redirect string
	Children []Record
}

// Table is the application's route table.
var Table = []Record{
	{Name: RouteLogin, Path: "/login", Meta: Meta{Guest: true}},
	{
		Path: "/",
		Meta: Meta{RequiresAuth: true},
		Children: []Record{
			{Name: RouteDashboard, Path: ""},
			{Name: RouteProfile, Path: "profile"},
			{Name: RouteMessages, Path: "messages"},
			{Name: RouteContacts, Path: "contacts"},
			{Name: RouteGroups, Path: "groups"},
			{Name: RouteGroupDetail, Path: "groups/{id:[0-9]+}"},
			{Name: RouteBlogs, Path: "blogs"},
			{Name: RouteTemplates, Path: "templates"},
			{Name: RouteFileSender, Path: "file-sender"},
		},
	},
	{Path: "/{pathMatch:.*}", Redirect: "/"},
}
