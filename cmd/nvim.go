package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/zjrosen/compleet/internal/completion"
	"github.com/zjrosen/compleet/internal/config"
	"github.com/zjrosen/compleet/internal/log"
	"github.com/zjrosen/compleet/internal/mappings"
	"github.com/zjrosen/compleet/internal/surface/nvim"
	"github.com/zjrosen/compleet/internal/tracing"
	"github.com/zjrosen/compleet/internal/ui/menu"
)

var (
	nvimAddr    string
	nvimPrefix  string
	nvimSelect  int
	nvimTimeout time.Duration
)

var nvimCmd = &cobra.Command{
	Use:   "nvim",
	Short: "Drive the completion menu inside a running Neovim",
}

var nvimShowCmd = &cobra.Command{
	Use:   "show [words...]",
	Short: "Show a completion menu at the Neovim cursor",
	Long: `Attach to the Neovim at --addr (default $NVIM) and open the completion
menu at its cursor with one item per word.

With --prefix, only words starting with the prefix are listed and the
prefix is highlighted. --select preselects an item by index. --timeout
closes the menu again after the given duration.`,
	Example: `  :terminal compleet nvim show --prefix fo format forward fortune
  compleet nvim show --addr /tmp/nvim.sock --select 0 alpha beta gamma`,
	Args: cobra.MinimumNArgs(1),
	RunE: runNvimShow,
}

func init() {
	rootCmd.AddCommand(nvimCmd)
	nvimCmd.AddCommand(nvimShowCmd)

	nvimShowCmd.Flags().StringVar(&nvimAddr, "addr", "", "Neovim listen address (default $NVIM)")
	nvimShowCmd.Flags().StringVar(&nvimPrefix, "prefix", "", "only list words with this prefix and highlight it")
	nvimShowCmd.Flags().IntVar(&nvimSelect, "select", -1, "index of the item to select")
	nvimShowCmd.Flags().DurationVar(&nvimTimeout, "timeout", 0, "close the menu after this long (0 leaves it open)")
}

// nvimItems builds the items shown by "nvim show".
func nvimItems(words []string, prefix string) []completion.Item {
	if prefix != "" {
		return completion.PrefixMatch(prefix, words, menu.GroupMatchingChars)
	}
	items := make([]completion.Item, len(words))
	for i, w := range words {
		items[i] = completion.NewItem(w)
	}
	return items
}

func runNvimShow(cmd *cobra.Command, args []string) error {
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	settings, err := cfg.UI.Menu.Settings()
	if err != nil {
		return err
	}

	addr := nvimAddr
	if addr == "" {
		addr = os.Getenv("NVIM")
	}
	if addr == "" {
		return errors.New("no Neovim address: pass --addr or run inside a Neovim terminal")
	}

	items := nvimItems(args, nvimPrefix)
	if len(items) == 0 {
		return fmt.Errorf("no words match prefix %q", nvimPrefix)
	}
	if nvimSelect >= len(items) {
		return fmt.Errorf("--select %d out of range (%d items)", nvimSelect, len(items))
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	tracer, stopTracing, err := startTracing(ctx)
	if err != nil {
		return err
	}
	defer stopTracing()

	host, err := nvim.Dial(addr)
	if err != nil {
		return err
	}
	defer func() { _ = host.Close() }()

	m, err := menu.New(ctx, tracing.NewSurface(host, tracer))
	if err != nil {
		return fmt.Errorf("creating menu: %w", err)
	}
	ctx = tracing.ContextWithSessionID(ctx, m.ID())

	cursor, viewport, err := host.CursorAndViewport(ctx)
	if err != nil {
		return fmt.Errorf("reading cursor: %w", err)
	}

	st := mappings.NewState(m, settings)
	if err := mappings.UpdateCompletions(ctx, st, items, cursor, viewport); err != nil {
		return err
	}
	if err := mappings.ShowCompletions(ctx, st, cursor, viewport); err != nil {
		return err
	}
	if !m.IsVisible() {
		return errors.New("no room for the menu at the cursor")
	}
	if nvimSelect >= 0 {
		if err := m.Select(ctx, nvimSelect); err != nil {
			return err
		}
	}

	log.Info(log.CatNvim, "Menu shown", log.KeyMenu, m.ID(), "items", len(items),
		"row", cursor.Row, "col", cursor.Col)

	if nvimTimeout <= 0 {
		return nil
	}
	select {
	case <-time.After(nvimTimeout):
	case <-ctx.Done():
	}
	return mappings.CloseCompletions(context.WithoutCancel(ctx), st)
}
