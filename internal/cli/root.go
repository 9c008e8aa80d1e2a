// Package cli implements the menu command line tool.
package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Lixing-Zhang/restaurant-menu/internal/catalog"
	"github.com/Lixing-Zhang/restaurant-menu/internal/importer"
	"github.com/Lixing-Zhang/restaurant-menu/internal/repository"
	"github.com/Lixing-Zhang/restaurant-menu/internal/service"
	"github.com/Lixing-Zhang/restaurant-menu/pkg/logger"
	"github.com/spf13/cobra"
)

// options shared by every command
type options struct {
	files    []string
	empty    bool
	logLevel string
}

// NewRootCommand builds the command tree
func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "menu",
		Short:        "Restaurant menu tool",
		Long:         "Shows, searches and edits a restaurant menu, starting from the default menu and any imported files",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringSliceVarP(&opts.files, "file", "f", nil, "menu file or URL to import (repeatable)")
	root.PersistentFlags().BoolVar(&opts.empty, "empty", false, "start from an empty menu instead of the default one")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "error", "log level (debug, info, warn, error)")

	root.AddCommand(
		newShellCommand(opts),
		newTableCommand(opts),
		newSearchCommand(opts),
		newExportCommand(opts),
	)
	return root
}

// Execute runs the CLI until it finishes or is interrupted
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return NewRootCommand().ExecuteContext(ctx)
}

// loadMenu builds the menu service described by opts
func loadMenu(ctx context.Context, opts *options, stderr io.Writer) (*service.MenuService, error) {
	log := logger.NewWithWriter(stderr, opts.logLevel)

	menu := catalog.Default()
	if opts.empty {
		menu = catalog.New()
	}
	svc := service.NewMenuService(repository.NewInMemoryMenuRepositoryFrom(menu), log, nil)

	if len(opts.files) > 0 {
		products, err := importer.NewLoader().Load(ctx, opts.files)
		if err != nil {
			return nil, err
		}
		if err := svc.AddProducts(ctx, products...); err != nil {
			return nil, err
		}
		log.Info("menu files loaded", slog.Int("products", len(products)))
	}
	return svc, nil
}
