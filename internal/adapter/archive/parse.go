package archive

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/couchcryptid/crash-archive-etl/internal/domain"
)

// Selectors for the archive's crash-list markup. Each accident on a listing
// page is rendered as one ".list-crash-info" block; the field selectors are
// evaluated inside that block, so the four fields of one entry always come
// from the same accident. These break if the site's markup changes, which is
// an accepted fragility of scraping: the parser reports a PageError instead
// of producing misaligned rows.
const (
	selEntry      = ".list-crash-info"
	selDate       = "span:nth-child(2)"
	selLocation   = "span:nth-child(5) a"
	selModel      = "span:nth-child(8) a"
	selFatalities = "strong"
)

// PageError reports an extraction failure on a single archive page. It names
// the page index and the field whose selector came up empty so a crawl
// failure can be traced back to the offending markup.
type PageError struct {
	Page     int
	Field    string
	Selector string
	Reason   string
}

func (e *PageError) Error() string {
	return fmt.Sprintf("archive page %d: field %q (selector %q): %s", e.Page, e.Field, e.Selector, e.Reason)
}

// ParsePage extracts one RawEntry per accident block on a listing page.
//
// Date and location are required on every entry; a blank value fails the
// whole page. Model and fatalities may be missing on individual entries
// (older records omit them), but a page where no entry carries either node
// is treated as markup drift and fails too. A page with zero accident
// blocks is an error, not an empty result: listing pages always carry
// entries, so zero matches means the entry selector no longer fits the site.
func ParsePage(doc *goquery.Document, page int) ([]domain.RawEntry, error) {
	blocks := doc.Find(selEntry)
	if blocks.Length() == 0 {
		return nil, &PageError{Page: page, Field: "entry", Selector: selEntry, Reason: "no accident entries on page"}
	}

	entries := make([]domain.RawEntry, 0, blocks.Length())
	sawModel := false
	sawFatalities := false

	var pageErr *PageError
	blocks.EachWithBreak(func(i int, block *goquery.Selection) bool {
		date := extractText(block, selDate)
		if date == "" {
			pageErr = &PageError{Page: page, Field: "date", Selector: selDate, Reason: fmt.Sprintf("entry %d has no date", i)}
			return false
		}
		location := extractText(block, selLocation)
		if location == "" {
			pageErr = &PageError{Page: page, Field: "location", Selector: selLocation, Reason: fmt.Sprintf("entry %d has no location", i)}
			return false
		}

		if block.Find(selModel).Length() > 0 {
			sawModel = true
		}
		if block.Find(selFatalities).Length() > 0 {
			sawFatalities = true
		}

		entries = append(entries, domain.RawEntry{
			Date:       date,
			Location:   location,
			Model:      extractText(block, selModel),
			Fatalities: extractText(block, selFatalities),
		})
		return true
	})
	if pageErr != nil {
		return nil, pageErr
	}

	if !sawModel {
		return nil, &PageError{Page: page, Field: "model", Selector: selModel, Reason: "no entry on the page has a model node"}
	}
	if !sawFatalities {
		return nil, &PageError{Page: page, Field: "fatalities", Selector: selFatalities, Reason: "no entry on the page has a fatalities node"}
	}

	return entries, nil
}

// extractText returns the trimmed text of the first node matching the
// selector inside the block, or "" when nothing matches.
func extractText(block *goquery.Selection, selector string) string {
	return strings.TrimSpace(block.Find(selector).First().Text())
}
