package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/Lixing-Zhang/restaurant-menu/internal/catalog"
	"github.com/Lixing-Zhang/restaurant-menu/internal/export"
	"github.com/Lixing-Zhang/restaurant-menu/internal/models"
	"github.com/Lixing-Zhang/restaurant-menu/internal/shell"
	"github.com/spf13/cobra"
)

func newShellCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Edit the menu interactively",
		Long:  "Reads commands (show, add, remove, search, sort) from standard input, one per line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadMenu(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			sh := shell.New(svc, cmd.OutOrStdout())
			if _, err := sh.Execute(cmd.Context(), "show"); err != nil {
				return err
			}
			return sh.Run(cmd.Context(), cmd.InOrStdin())
		},
	}
}

func newTableCommand(opts *options) *cobra.Command {
	var sortBy string

	cmd := &cobra.Command{
		Use:   "table",
		Short: "Print the menu as an HTML table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadMenu(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			if sortBy != "" {
				if _, err := svc.SortProducts(cmd.Context(), sortBy); err != nil {
					return err
				}
			}

			table, err := svc.Table(cmd.Context())
			if err != nil {
				return err
			}
			if table != "" {
				fmt.Fprintln(cmd.OutOrStdout(), table)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sortBy, "sort", "", fmt.Sprintf("sort by field (%s)", strings.Join(catalog.Fields(), ", ")))
	return cmd
}

func newSearchCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "search <pattern>",
		Short: "Print the price of the products matching a pattern",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadMenu(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			matches, err := svc.SearchProducts(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, m := range matches {
				fmt.Fprintf(cmd.OutOrStdout(), "O preço de %s é %s%s\n", m.Description, m.Price.StringFixed(2), models.CurrencySymbol)
			}
			return nil
		},
	}
}

func newExportCommand(opts *options) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the menu to an Excel file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadMenu(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			products, err := svc.ListProducts(cmd.Context())
			if err != nil {
				return err
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", output, err)
			}
			if err := export.WriteXLSX(f, products); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to close %s: %w", output, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Ementa exportada para %s (%d produtos)\n", output, len(products))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "ementa.xlsx", "output file")
	return cmd
}
