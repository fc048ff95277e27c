package model

// MenuItemSpec is one ordered entry of a MenuSpec, targeting a page by slug.
type MenuItemSpec struct {
	Title string
	Slug  string
}

// MenuSpec describes the navigation menu to bootstrap.
type MenuSpec struct {
	Name     string
	Location string // Theme location the menu is attached to, e.g. "primary".
	Items    []MenuItemSpec
}

// Menu is a named navigation menu persisted by the content store.
type Menu struct {
	ID   int64
	Name string
}

// MenuItem is a single entry of a persisted menu pointing at a page.
type MenuItem struct {
	ID       int64
	MenuID   int64
	Title    string
	PageID   int64
	Position int
}

// NewMenuItem is the input for creating a menu item.
type NewMenuItem struct {
	Title  string
	PageID int64
}
