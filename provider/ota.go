package provider

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/viper"
	"github.com/ytfree-cli/ytfree/internal/scraper"
	"github.com/ytfree-cli/ytfree/key"
	"github.com/ytfree-cli/ytfree/log"
	"github.com/ytfree-cli/ytfree/network"
	"github.com/ytfree-cli/ytfree/where"
)

// SourcesUpdatedMsg tells the TUI that at least one script changed on disk.
type SourcesUpdatedMsg struct {
	Updated []string
}

func remoteURL(name string) string {
	base := viper.GetString(key.SourcesRepository)
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + name + CustomProviderExtension
}

// Install downloads the named script from the sources repository.
func Install(ctx context.Context, name string) error {
	name = strings.TrimSuffix(name, CustomProviderExtension)
	path := filepath.Join(where.Sources(), name+CustomProviderExtension)

	if _, err := scraper.Fetch(ctx, network.Client, remoteURL(name), path); err != nil {
		return fmt.Errorf("install %s: %w", name, err)
	}

	log.Infof("installed catalog script %s", name)
	return nil
}

// Update refetches every installed script and returns the names that changed.
// A failing script does not stop the others; the last error is returned.
func Update(ctx context.Context) ([]string, error) {
	var (
		updated []string
		lastErr error
	)

	for _, p := range Customs() {
		path := filepath.Join(where.Sources(), p.Name+CustomProviderExtension)

		changed, err := scraper.Fetch(ctx, network.Client, remoteURL(p.Name), path)
		if err != nil {
			log.Warnf("update %s: %v", p.Name, err)
			lastErr = fmt.Errorf("update %s: %w", p.Name, err)
			continue
		}

		if changed {
			log.Infof("updated catalog script %s", p.Name)
			updated = append(updated, p.Name)
		}
	}

	return updated, lastErr
}

// UpdateCmd runs Update in the background of the TUI.
func UpdateCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		updated, _ := Update(ctx)
		if len(updated) == 0 {
			return nil
		}
		return SourcesUpdatedMsg{Updated: updated}
	}
}
