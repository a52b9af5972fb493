package version

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/viper"
	"github.com/ytfree-cli/ytfree/color"
	"github.com/ytfree-cli/ytfree/constant"
	"github.com/ytfree-cli/ytfree/icon"
	"github.com/ytfree-cli/ytfree/key"
	"github.com/ytfree-cli/ytfree/style"
	"github.com/ytfree-cli/ytfree/util"
)

// Notify prints a notice when a newer release exists and cli.version_check is on.
func Notify() {
	if !viper.GetBool(key.CliVersionCheck) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	erase := util.PrintErasable(fmt.Sprintf("%s Checking if new version is available...", icon.Get(icon.Progress)))
	latest, err := Latest(ctx)
	erase()
	if err != nil {
		return
	}

	if comp, err := Compare(latest, constant.Version); err != nil || comp <= 0 {
		return
	}

	fmt.Printf(`
%s New version is available %s %s
%s

`,
		style.Fg(color.Green)("▇▇▇"),
		style.Bold(latest),
		style.Faint(fmt.Sprintf("(You're on %s)", constant.Version)),
		style.Faint("https://github.com/"+constant.Repository+"/releases/tag/v"+latest),
	)
}
