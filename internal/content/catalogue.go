// Package content holds the page catalogue the deployer reconciles: an embedded
// YAML manifest plus one markup asset per page, optionally overridden from disk.
package content

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nebuludik/coinchesite/internal/domain/model"
)

//go:embed assets/*
var assetsFS embed.FS

const manifestName = "pages.yaml"

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Catalogue is the validated set of pages, front page and menu to deploy.
type Catalogue struct {
	Pages     []model.PageSpec
	FrontSlug string
	Menu      model.MenuSpec
}

type manifest struct {
	Pages []struct {
		Title string `yaml:"title"`
		Slug  string `yaml:"slug"`
		File  string `yaml:"file"`
	} `yaml:"pages"`
	FrontPage string `yaml:"front_page"`
	Menu      struct {
		Name     string   `yaml:"name"`
		Location string   `yaml:"location"`
		Items    []string `yaml:"items"`
	} `yaml:"menu"`
}

// Default loads the embedded catalogue with no overrides.
func Default() (*Catalogue, error) {
	return Load(nil)
}

// Load reads the embedded manifest and page bodies. When overrides is non-nil,
// a file named <slug>.md or <slug>.html at its root replaces the embedded body
// of that page; Markdown is rendered to HTML. Override bodies are sanitized,
// embedded bodies are stored as authored.
func Load(overrides fs.FS) (*Catalogue, error) {
	assets, err := fs.Sub(assetsFS, "assets")
	if err != nil {
		return nil, fmt.Errorf("open embedded assets: %w", err)
	}

	raw, err := fs.ReadFile(assets, manifestName)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", manifestName, err)
	}

	var m manifest
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", manifestName, err)
	}

	cat := &Catalogue{
		FrontSlug: m.FrontPage,
		Menu: model.MenuSpec{
			Name:     m.Menu.Name,
			Location: m.Menu.Location,
		},
	}

	titles := make(map[string]string, len(m.Pages))
	for _, p := range m.Pages {
		body, err := loadBody(assets, overrides, p.Slug, p.File)
		if err != nil {
			return nil, err
		}
		cat.Pages = append(cat.Pages, model.PageSpec{Title: p.Title, Slug: p.Slug, Body: body})
		titles[p.Slug] = p.Title
	}

	for _, slug := range m.Menu.Items {
		cat.Menu.Items = append(cat.Menu.Items, model.MenuItemSpec{Title: titles[slug], Slug: slug})
	}

	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return cat, nil
}

// Validate checks the catalogue invariants: non-empty titles, URL-safe unique
// slugs, and front page and menu items referencing known pages.
func (c *Catalogue) Validate() error {
	var errs []error

	seen := make(map[string]bool, len(c.Pages))
	for i, p := range c.Pages {
		if strings.TrimSpace(p.Title) == "" {
			errs = append(errs, fmt.Errorf("page %d: title is required", i))
		}
		if !slugPattern.MatchString(p.Slug) {
			errs = append(errs, fmt.Errorf("page %d: slug %q is not URL-safe", i, p.Slug))
		}
		if seen[p.Slug] {
			errs = append(errs, fmt.Errorf("page %d: duplicate slug %q", i, p.Slug))
		}
		seen[p.Slug] = true
	}

	if c.FrontSlug != "" && !seen[c.FrontSlug] {
		errs = append(errs, fmt.Errorf("front page %q is not a catalogue page", c.FrontSlug))
	}

	if c.Menu.Name == "" {
		errs = append(errs, errors.New("menu name is required"))
	}
	for _, item := range c.Menu.Items {
		if !seen[item.Slug] {
			errs = append(errs, fmt.Errorf("menu item %q is not a catalogue page", item.Slug))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid catalogue: %w", errors.Join(errs...))
	}
	return nil
}

// Plan returns the catalogue as a deployment plan.
func (c *Catalogue) Plan() model.DeployPlan {
	return model.DeployPlan{
		Pages:     c.Pages,
		FrontSlug: c.FrontSlug,
		Menu:      c.Menu,
	}
}

// Page returns the PageSpec for slug.
func (c *Catalogue) Page(slug string) (model.PageSpec, bool) {
	for _, p := range c.Pages {
		if p.Slug == slug {
			return p, true
		}
	}
	return model.PageSpec{}, false
}

func loadBody(assets, overrides fs.FS, slug, file string) (string, error) {
	if overrides != nil {
		for _, ext := range []string{".md", ".html"} {
			name := slug + ext
			src, err := fs.ReadFile(overrides, name)
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			if err != nil {
				return "", fmt.Errorf("read override %s: %w", name, err)
			}
			return render(name, src, true)
		}
	}

	src, err := fs.ReadFile(assets, file)
	if err != nil {
		return "", fmt.Errorf("read asset %s for %q: %w", file, slug, err)
	}
	return render(file, src, false)
}

func render(name string, src []byte, untrusted bool) (string, error) {
	switch path.Ext(name) {
	case ".md":
		return RenderMarkdown(src)
	case ".html":
		if untrusted {
			return WrapBlock(Sanitize(string(src))), nil
		}
		return WrapBlock(strings.TrimSpace(string(src))), nil
	default:
		return "", fmt.Errorf("unsupported page asset %s", name)
	}
}
