// Package provider is the registry of catalogs: the built-in ones and the Lua
// scripts installed under where.Sources().
package provider

import (
	"fmt"
	"path/filepath"
	"strings"

	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/ytfree-cli/ytfree/catalog"
	"github.com/ytfree-cli/ytfree/catalog/local"
	"github.com/ytfree-cli/ytfree/catalog/spotify"
	"github.com/ytfree-cli/ytfree/catalog/youtube"
	"github.com/ytfree-cli/ytfree/constant"
	"github.com/ytfree-cli/ytfree/filesystem"
	"github.com/ytfree-cli/ytfree/key"
	"github.com/ytfree-cli/ytfree/log"
	"github.com/ytfree-cli/ytfree/provider/custom"
	"github.com/ytfree-cli/ytfree/util"
	"github.com/ytfree-cli/ytfree/where"
)

// CustomProviderExtension is the file extension of catalog scripts.
const CustomProviderExtension = constant.CatalogScriptExtension

// Provider describes a catalog that can be created on demand.
type Provider struct {
	ID            string
	Name          string
	IsCustom      bool
	CreateCatalog func() (catalog.Catalog, error)
}

func (p *Provider) String() string {
	return p.Name
}

// Builtins returns the compiled-in catalogs.
func Builtins() []*Provider {
	limit := viper.GetInt(key.CatalogSearchLimit)

	return []*Provider{
		{
			ID:   youtube.ID,
			Name: "YouTube",
			CreateCatalog: func() (catalog.Catalog, error) {
				return youtube.New(limit, viper.GetString(key.CatalogTrendingURL), viper.GetBool(key.CatalogCacheResults)), nil
			},
		},
		{
			ID:   spotify.ID,
			Name: "Spotify",
			CreateCatalog: func() (catalog.Catalog, error) {
				return spotify.New(
					viper.GetString(key.SpotifyClientID),
					viper.GetString(key.SpotifyClientSecret),
					limit,
					viper.GetString(key.SpotifyTrending),
				)
			},
		},
		{
			ID:   local.ID,
			Name: "Local files",
			CreateCatalog: func() (catalog.Catalog, error) {
				return local.New(viper.GetStringSlice(key.CatalogLocalDirs), limit), nil
			},
		},
	}
}

// Customs returns every installed script. Unreadable directories yield none.
func Customs() []*Provider {
	providers, err := CustomProviders()
	if err != nil {
		log.Warnf("list custom catalogs: %v", err)
	}
	return providers
}

// All is Builtins followed by Customs.
func All() []*Provider {
	return append(Builtins(), Customs()...)
}

// Get finds a provider by id or name.
func Get(name string) (*Provider, bool) {
	return lo.Find(All(), func(p *Provider) bool {
		return p.ID == name || p.Name == name
	})
}

// Catalog creates the catalog named by id. Unknown ids wrap catalog.ErrUnknown
// with the closest known id.
func Catalog(id string) (catalog.Catalog, error) {
	p, ok := Get(id)
	if !ok {
		if suggestion := Suggest(id); suggestion != "" {
			return nil, fmt.Errorf("%w %q, did you mean %q?", catalog.ErrUnknown, id, suggestion)
		}
		return nil, fmt.Errorf("%w %q", catalog.ErrUnknown, id)
	}

	c, err := p.CreateCatalog()
	if err != nil {
		return nil, fmt.Errorf("create %s catalog: %w", p.Name, err)
	}
	return c, nil
}

// Suggest returns the known id closest to id, or "" when nothing is registered.
func Suggest(id string) string {
	ids := lo.Map(All(), func(p *Provider, _ int) string { return p.ID })
	if len(ids) == 0 {
		return ""
	}

	return lo.MinBy(ids, func(a, b string) bool {
		return levenshtein.Distance(id, a) < levenshtein.Distance(id, b)
	})
}

// CustomProviders lists the scripts in where.Sources().
func CustomProviders() ([]*Provider, error) {
	files, err := filesystem.API().ReadDir(where.Sources())
	if err != nil {
		return nil, err
	}

	useCache := viper.GetBool(key.CatalogCacheResults)

	var providers []*Provider
	for _, f := range files {
		if f.IsDir() || !strings.EqualFold(filepath.Ext(f.Name()), CustomProviderExtension) {
			continue
		}

		path := filepath.Join(where.Sources(), f.Name())
		name := util.FileStem(f.Name())

		providers = append(providers, &Provider{
			ID:       custom.IDfromName(name),
			Name:     name,
			IsCustom: true,
			CreateCatalog: func() (catalog.Catalog, error) {
				return custom.Load(path, useCache)
			},
		})
	}

	return providers, nil
}
