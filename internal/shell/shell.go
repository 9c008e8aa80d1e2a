// Package shell is the interactive front end of the menu. It reads one
// command per line and prints the results.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/Lixing-Zhang/restaurant-menu/internal/catalog"
	"github.com/Lixing-Zhang/restaurant-menu/internal/models"
	"github.com/Lixing-Zhang/restaurant-menu/internal/service"
)

const prompt = "ementa> "

const usage = `Comandos:
  show                              mostra a ementa
  add <descrição>|<tipo>|<preço>    acrescenta um produto ou atualiza o seu preço
                                    (tipo: E-Entrada/B-Bebida/P-Prato Principal/S-Sobremesa)
  remove <padrão>                   remove os produtos cuja descrição contém o padrão
  search <padrão>                   mostra o preço dos produtos cuja descrição contém o padrão
  sort <campo>                      ordena por description, category ou price
  help                              mostra esta ajuda
  quit                              termina
`

// Shell runs menu commands against a MenuService
type Shell struct {
	menu *service.MenuService
	out  io.Writer
}

// New creates a shell writing to out
func New(menu *service.MenuService, out io.Writer) *Shell {
	return &Shell{menu: menu, out: out}
}

// Run reads commands from in until EOF, "quit" or ctx is done.
// Cancellation ends the session without an error.
func (s *Shell) Run(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	scanErr := make(chan error, 1)

	// Scan blocks until a full line arrives, so it cannot watch ctx itself
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	fmt.Fprint(s.out, prompt)
	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(s.out)
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}

			quit, err := s.Execute(ctx, line)
			if err != nil {
				return err
			}
			if quit {
				return nil
			}
			fmt.Fprint(s.out, prompt)
		}
	}
}

// Execute runs a single command line. Malformed input is reported to the
// user and is not an error; only failures of the menu itself are returned.
func (s *Shell) Execute(ctx context.Context, line string) (quit bool, err error) {
	command, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(command) {
	case "":
		return false, nil
	case "quit", "exit":
		return true, nil
	case "help", "?":
		fmt.Fprint(s.out, usage)
		return false, nil
	case "show":
		return false, s.show(ctx)
	case "add":
		return false, s.add(ctx, arg)
	case "remove":
		return false, s.remove(ctx, arg)
	case "search":
		return false, s.search(ctx, arg)
	case "sort":
		return false, s.sort(ctx, arg)
	default:
		fmt.Fprintf(s.out, "Comando desconhecido: %s\n", command)
		fmt.Fprint(s.out, usage)
		return false, nil
	}
}

func (s *Shell) show(ctx context.Context) error {
	products, err := s.menu.ListProducts(ctx)
	if err != nil {
		return err
	}
	return WriteTable(s.out, products)
}

func (s *Shell) add(ctx context.Context, raw string) error {
	if raw == "" {
		fmt.Fprintf(s.out, "Indique os dados do produto a adicionar: %s\n", models.InputFormat)
		return nil
	}

	if _, err := s.menu.AddProduct(ctx, raw); err != nil {
		if errors.Is(err, models.ErrMalformedInput) {
			fmt.Fprintf(s.out, "Dados mal introduzidos. Devia ser '%s'!\n", models.InputFormat)
			return nil
		}
		return err
	}
	return s.show(ctx)
}

func (s *Shell) remove(ctx context.Context, pattern string) error {
	removed, err := s.menu.RemoveProducts(ctx, pattern)
	if err != nil {
		if errors.Is(err, models.ErrMalformedInput) {
			fmt.Fprintf(s.out, "Padrão inválido: %v\n", err)
			return nil
		}
		return err
	}

	fmt.Fprintf(s.out, "Produtos removidos: %d\n", removed)
	return s.show(ctx)
}

func (s *Shell) search(ctx context.Context, pattern string) error {
	matches, err := s.menu.SearchProducts(ctx, pattern)
	if err != nil {
		if errors.Is(err, models.ErrMalformedInput) {
			fmt.Fprintf(s.out, "Padrão inválido: %v\n", err)
			return nil
		}
		return err
	}

	if len(matches) == 0 {
		fmt.Fprintln(s.out, "Nenhum produto encontrado")
		return nil
	}
	for _, m := range matches {
		fmt.Fprintf(s.out, "O preço de %s é %s%s\n", m.Description, m.Price.StringFixed(2), models.CurrencySymbol)
	}
	return nil
}

func (s *Shell) sort(ctx context.Context, field string) error {
	if _, err := s.menu.SortProducts(ctx, field); err != nil {
		if errors.Is(err, models.ErrMalformedInput) {
			fmt.Fprintf(s.out, "Campo inválido. Use um de: %s\n", strings.Join(catalog.Fields(), ", "))
			return nil
		}
		return err
	}
	return s.show(ctx)
}

// WriteTable prints products as an aligned text table
func WriteTable(w io.Writer, products []models.Product) error {
	if len(products) == 0 {
		_, err := fmt.Fprintln(w, "Ementa vazia")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s (%s)\n", models.LabelDescription, models.LabelCategory, models.LabelPrice, models.CurrencySymbol)
	for _, p := range products {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p.Description, p.Category.Label(), p.FormattedPrice())
	}
	return tw.Flush()
}
