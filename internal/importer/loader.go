// Package importer reads menu products from files and URLs.
//
// A source is either a local path or an http(s) URL. Sources ending in .gz
// are decompressed first. YAML sources (.yaml, .yml) hold a "products" list;
// every other source holds one "description|type|price" line per product,
// with blank lines and lines starting with '#' ignored.
package importer

import (
	"bufio"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"github.com/Lixing-Zhang/restaurant-menu/internal/models"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// Loader loads products from several sources concurrently
type Loader struct {
	client *http.Client
}

// NewLoader creates a new loader
func NewLoader() *Loader {
	return &Loader{
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// NewLoaderWithClient creates a loader using client for URL sources
func NewLoaderWithClient(client *http.Client) *Loader {
	return &Loader{client: client}
}

// Load reads every source and returns the products in source order.
// It fails if any source cannot be read or holds a malformed product.
func (l *Loader) Load(ctx context.Context, sources []string) ([]models.Product, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("no sources provided")
	}

	results := make([][]models.Product, len(sources))
	g, ctx := errgroup.WithContext(ctx)

	for i, src := range sources {
		g.Go(func() error {
			products, err := l.loadSource(ctx, src)
			if err != nil {
				return fmt.Errorf("failed to load %s: %w", src, err)
			}
			results[i] = products
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var products []models.Product
	for _, r := range results {
		products = append(products, r...)
	}
	return products, nil
}

// loadSource opens, decompresses and parses a single source
func (l *Loader) loadSource(ctx context.Context, src string) ([]models.Product, error) {
	rc, err := l.open(ctx, src)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var r io.Reader = rc
	name := sourcePath(src)
	if strings.HasSuffix(name, ".gz") {
		gzReader, err := gzip.NewReader(rc)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gzReader.Close()
		r = gzReader
		name = strings.TrimSuffix(name, ".gz")
	}

	switch path.Ext(name) {
	case ".yaml", ".yml":
		return parseYAML(r)
	default:
		return parseLines(r)
	}
}

func (l *Loader) open(ctx context.Context, src string) (io.ReadCloser, error) {
	if !isURL(src) {
		f, err := os.Open(src)
		if err != nil {
			return nil, fmt.Errorf("failed to open file: %w", err)
		}
		return f, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// parseLines reads one "description|type|price" product per line
func parseLines(r io.Reader) ([]models.Product, error) {
	var products []models.Product
	scanner := bufio.NewScanner(r)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		p, err := models.ParseProduct(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		products = append(products, p)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}

	return products, nil
}

type yamlMenu struct {
	Products []yamlProduct `yaml:"products"`
}

type yamlProduct struct {
	Description string `yaml:"description"`
	Category    string `yaml:"category"`
	Price       string `yaml:"price"`
}

// parseYAML reads a document of the form
//
//	products:
//	  - description: Pão
//	    category: E
//	    price: 0.8
func parseYAML(r io.Reader) ([]models.Product, error) {
	var doc yamlMenu
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("%w: invalid yaml: %v", models.ErrMalformedInput, err)
	}

	products := make([]models.Product, 0, len(doc.Products))
	for i, item := range doc.Products {
		category, err := models.ParseCategory(item.Category)
		if err != nil {
			return nil, fmt.Errorf("product %d: %w", i+1, err)
		}
		price, err := models.ParsePrice(item.Price)
		if err != nil {
			return nil, fmt.Errorf("product %d: %w", i+1, err)
		}
		p, err := models.NewProduct(item.Description, category, price)
		if err != nil {
			return nil, fmt.Errorf("product %d: %w", i+1, err)
		}
		products = append(products, p)
	}
	return products, nil
}

func isURL(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// sourcePath strips any query string so the extension can be inspected
func sourcePath(src string) string {
	if i := strings.IndexAny(src, "?#"); i >= 0 && isURL(src) {
		return src[:i]
	}
	return src
}
