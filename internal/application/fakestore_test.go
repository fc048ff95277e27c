package application_test

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/nebuludik/coinchesite/internal/domain/model"
	"github.com/nebuludik/coinchesite/internal/domain/port/driven"
)

var errRejected = errors.New("rejected by store")

// fakeStore is an in-memory driven.ContentStore with failure injection.
type fakeStore struct {
	mu        sync.Mutex
	nextID    int64
	pages     map[string]model.Page
	menus     map[string]model.Menu
	items     map[int64][]model.MenuItem
	locations map[string]int64
	settings  map[string]string

	settingWrites   map[string]int
	upsertCalls     int
	createMenuCalls int

	pingErr        error
	failSlug       string
	failSettings   bool
	failCreateMenu bool
	failLocation   bool
	failMenuLookup bool
	failPermalink  bool
	zeroIDOnCreate string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		pages:         map[string]model.Page{},
		menus:         map[string]model.Menu{},
		items:         map[int64][]model.MenuItem{},
		locations:     map[string]int64{},
		settings:      map[string]string{},
		settingWrites: map[string]int{},
	}
}

var _ driven.ContentStore = (*fakeStore)(nil)

func (f *fakeStore) Ping(context.Context) error { return f.pingErr }

func (f *fakeStore) FindPageBySlug(_ context.Context, slug string) (model.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.pages[slug]
	if !ok {
		return model.Page{}, driven.ErrPageNotFound
	}
	return p, nil
}

func (f *fakeStore) UpsertPage(_ context.Context, spec model.PageSpec) (model.Page, model.UpsertAction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upsertCalls++

	if spec.Slug == f.failSlug {
		return model.Page{}, model.UpsertActionFailed, fmt.Errorf("update page %q: %w", spec.Slug, errRejected)
	}
	if spec.Slug == f.zeroIDOnCreate {
		return model.Page{}, model.UpsertActionCreated, nil
	}

	if p, ok := f.pages[spec.Slug]; ok {
		p.Title, p.Body, p.Status = spec.Title, spec.Body, model.PageStatusPublish
		f.pages[spec.Slug] = p
		return p, model.UpsertActionUpdated, nil
	}

	f.nextID++
	p := model.Page{
		ID:     f.nextID,
		Slug:   spec.Slug,
		Title:  spec.Title,
		Body:   spec.Body,
		Status: model.PageStatusPublish,
		Link:   "https://nebuludik.test/" + spec.Slug + "/",
	}
	f.pages[spec.Slug] = p
	return p, model.UpsertActionCreated, nil
}

func (f *fakeStore) Permalink(_ context.Context, id int64) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failPermalink {
		return "", errRejected
	}
	for _, p := range f.pages {
		if p.ID == id {
			return p.Link, nil
		}
	}
	return "", driven.ErrPageNotFound
}

func (f *fakeStore) FindMenuByName(_ context.Context, name string) (model.Menu, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failMenuLookup {
		return model.Menu{}, errRejected
	}
	m, ok := f.menus[name]
	if !ok {
		return model.Menu{}, driven.ErrMenuNotFound
	}
	return m, nil
}

func (f *fakeStore) CreateMenu(_ context.Context, name string, items []model.NewMenuItem) (model.Menu, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createMenuCalls++
	if f.failCreateMenu {
		return model.Menu{}, errRejected
	}
	if _, exists := f.menus[name]; exists {
		return model.Menu{}, fmt.Errorf("menu %q already exists", name)
	}

	f.nextID++
	m := model.Menu{ID: f.nextID, Name: name}
	f.menus[name] = m
	for i, it := range items {
		f.nextID++
		f.items[m.ID] = append(f.items[m.ID], model.MenuItem{
			ID: f.nextID, MenuID: m.ID, Title: it.Title, PageID: it.PageID, Position: i + 1,
		})
	}
	return m, nil
}

func (f *fakeStore) ListMenuItems(_ context.Context, menuID int64) ([]model.MenuItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.MenuItem(nil), f.items[menuID]...), nil
}

func (f *fakeStore) AddMenuItem(_ context.Context, menuID int64, item model.NewMenuItem) (model.MenuItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	it := model.MenuItem{
		ID: f.nextID, MenuID: menuID, Title: item.Title, PageID: item.PageID, Position: len(f.items[menuID]) + 1,
	}
	f.items[menuID] = append(f.items[menuID], it)
	return it, nil
}

func (f *fakeStore) AssignMenuLocation(_ context.Context, location string, menuID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failLocation {
		return errRejected
	}
	f.locations[location] = menuID
	return nil
}

func (f *fakeStore) GetSetting(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.settings[key], nil
}

func (f *fakeStore) SetSetting(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSettings {
		return errRejected
	}
	f.settingWrites[key]++
	f.settings[key] = value
	return nil
}

// seedMenu creates a menu directly, bypassing the deployer.
func (f *fakeStore) seedMenu(name string, pageIDs ...int64) model.Menu {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	m := model.Menu{ID: f.nextID, Name: name}
	f.menus[name] = m
	for i, id := range pageIDs {
		f.nextID++
		f.items[m.ID] = append(f.items[m.ID], model.MenuItem{ID: f.nextID, MenuID: m.ID, PageID: id, Position: i + 1})
	}
	return m
}

func (f *fakeStore) menuItemTitles(name string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	titles := []string{}
	for _, it := range f.items[f.menus[name].ID] {
		titles = append(titles, it.Title)
	}
	return titles
}
