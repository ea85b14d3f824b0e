package collector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/phuslu/log"

	"github.com/harryrigby/financial-dashboard/internal/model"
)

// DefaultListingURL is the Wikipedia page listing the S&P 500 constituents.
const DefaultListingURL = "https://en.wikipedia.org/wiki/List_of_S%26P_500_companies"

// Directory is an immutable snapshot of the symbol -> company mapping.
type Directory struct {
	companies map[string]model.Company
	symbols   []string
	loadedAt  time.Time
}

// NewDirectory builds a snapshot from companies, keeping their order. Later duplicates are ignored.
func NewDirectory(companies []model.Company) *Directory {
	d := &Directory{
		companies: make(map[string]model.Company, len(companies)),
		symbols:   make([]string, 0, len(companies)),
		loadedAt:  time.Now(),
	}
	for _, c := range companies {
		key := normalizeSymbol(c.Symbol)
		if key == "" {
			continue
		}
		if _, dup := d.companies[key]; dup {
			continue
		}
		c.Symbol = key
		d.companies[key] = c
		d.symbols = append(d.symbols, key)
	}
	return d
}

func normalizeSymbol(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }

// Lookup returns the company for symbol.
func (d *Directory) Lookup(symbol string) (model.Company, bool) {
	if d == nil {
		return model.Company{}, false
	}
	c, ok := d.companies[normalizeSymbol(symbol)]
	return c, ok
}

// Symbols returns the symbols in listing order.
func (d *Directory) Symbols() []string {
	if d == nil {
		return nil
	}
	return append([]string(nil), d.symbols...)
}

// Len returns the number of companies.
func (d *Directory) Len() int {
	if d == nil {
		return 0
	}
	return len(d.symbols)
}

// LoadedAt returns when the snapshot was built.
func (d *Directory) LoadedAt() time.Time {
	if d == nil {
		return time.Time{}
	}
	return d.loadedAt
}

// Listing holds the current Directory and lets a refresh job swap it atomically.
type Listing struct {
	current atomic.Pointer[Directory]
}

// NewListing wraps an initial snapshot.
func NewListing(d *Directory) *Listing {
	l := &Listing{}
	l.current.Store(d)
	return l
}

// Current returns the active snapshot.
func (l *Listing) Current() *Directory { return l.current.Load() }

// Replace installs a new snapshot.
func (l *Listing) Replace(d *Directory) { l.current.Store(d) }

// Lookup resolves symbol against the active snapshot.
func (l *Listing) Lookup(symbol string) (model.Company, bool) { return l.Current().Lookup(symbol) }

// ListingSource says where to load the constituents table from. File wins over URL.
type ListingSource struct {
	URL   string
	File  string
	Proxy string
}

// LoadListing downloads (or reads) and parses the constituents table.
func LoadListing(ctx context.Context, src ListingSource) (*Directory, error) {
	if src.File != "" {
		f, err := os.Open(src.File)
		if err != nil {
			return nil, fmt.Errorf("open listing: %w", err)
		}
		defer f.Close()
		return ParseListing(f)
	}

	target := src.URL
	if target == "" {
		target = DefaultListingURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	client := &http.Client{Timeout: 30 * time.Second, Transport: proxyTransport(src.Proxy)}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch listing: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &APIError{StatusCode: resp.StatusCode, Endpoint: req.URL.Path, Message: string(body)}
	}
	return ParseListing(resp.Body)
}

// ParseListing reads the constituents table: the table with id "constituents" or, failing
// that, the first table with "Symbol" and "GICS Sector" headers.
func ParseListing(r io.Reader) (*Directory, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse listing: %w", err)
	}

	table := doc.Find("table#constituents").First()
	if table.Length() == 0 {
		doc.Find("table").EachWithBreak(func(_ int, t *goquery.Selection) bool {
			cols := headerColumns(t)
			if _, ok := cols["symbol"]; ok {
				if _, ok := cols["gics sector"]; ok {
					table = t
					return false
				}
			}
			return true
		})
	}
	if table.Length() == 0 {
		return nil, fmt.Errorf("parse listing: constituents table not found")
	}

	cols := headerColumns(table)
	symCol, ok := cols["symbol"]
	if !ok {
		return nil, fmt.Errorf("parse listing: no Symbol column")
	}

	var companies []model.Company
	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() == 0 {
			return
		}
		cell := func(name string) string {
			idx, ok := cols[name]
			if !ok || idx >= cells.Length() {
				return ""
			}
			return strings.TrimSpace(cells.Eq(idx).Text())
		}
		c := model.Company{
			Symbol:       strings.TrimSpace(cells.Eq(symCol).Text()),
			Name:         cell("security"),
			Sector:       cell("gics sector"),
			SubIndustry:  cell("gics sub-industry"),
			Headquarters: cell("headquarters location"),
			DateAdded:    cell("date added"),
			CIK:          cell("cik"),
			Founded:      cell("founded"),
		}
		if c.Symbol != "" {
			companies = append(companies, c)
		}
	})
	if len(companies) == 0 {
		return nil, fmt.Errorf("parse listing: %w", ErrNoData)
	}

	log.Info().Int("companies", len(companies)).Msg("company listing parsed")
	return NewDirectory(companies), nil
}

var footnoteRef = regexp.MustCompile(`\[[^\]]*\]`)

// headerColumns maps lower-cased header text (footnote markers removed) to column index.
func headerColumns(table *goquery.Selection) map[string]int {
	cols := map[string]int{}
	table.Find("tr").First().Find("th").Each(func(i int, th *goquery.Selection) {
		name := footnoteRef.ReplaceAllString(th.Text(), "")
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	})
	return cols
}
