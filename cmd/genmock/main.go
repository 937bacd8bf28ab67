// Command genmock writes a fake crash-archive site to disk: a root listing
// page plus /category/archives/page/N/ subpages, in the same markup the
// crawler's selectors expect. Serve the directory with any static file
// server and point ARCHIVE_BASE_URL at it to exercise the full pipeline
// without touching the real site:
//
//	go run ./cmd/genmock -out testdata/mocksite -pages 3 -per-page 10
//	python3 -m http.server -d testdata/mocksite 8099 &
//	ARCHIVE_BASE_URL=http://localhost:8099 go run ./cmd/etl -last-page 3
//
// Output is deterministic for a given seed, so fixtures can be regenerated
// without churning diffs.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var locations = []string{
	"Moyo", "Nairobi", "Mexico City", "Lima", "Rome", "Manila",
	"Near Lugano-Agno", "Teterboro", "Bogota", "Juba", "Goma", "Anchorage",
}

var models = []string{
	"Cessna 208B Grand Caravan", "Fokker 50", "Learjet 25", "Antonov AN-26",
	"Piper PA-31", "ATR 72-500", "De Havilland DHC-6 Twin Otter", "Boeing 737-200",
}

var months = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

func main() {
	out := flag.String("out", "testdata/mocksite", "directory to write the mock site into")
	pages := flag.Int("pages", 3, "number of listing pages")
	perPage := flag.Int("per-page", 10, "accident entries per page")
	seed := flag.Int64("seed", 1, "random seed for deterministic output")
	flag.Parse()

	if *pages < 1 || *perPage < 1 {
		log.Fatal("-pages and -per-page must be at least 1")
	}

	if err := run(*out, *pages, *perPage, *seed); err != nil {
		log.Fatal(err)
	}
}

func run(out string, pages, perPage int, seed int64) error {
	rng := rand.New(rand.NewSource(seed))

	// Entries run newest-first across pages, like the real archive.
	day := time.Date(2017, time.September, 10, 0, 0, 0, 0, time.UTC)

	for page := 1; page <= pages; page++ {
		var entries []string
		for i := 0; i < perPage; i++ {
			entries = append(entries, entryHTML(rng, day))
			day = day.AddDate(0, 0, -rng.Intn(14)-1)
		}

		path := pagePath(out, page)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(pageHTML(page, entries)), 0o644); err != nil {
			return err
		}
		fmt.Printf("wrote %s (%d entries)\n", path, perPage)
	}

	return nil
}

// pagePath mirrors the live URL layout: page 1 at the site root, later
// pages under /category/archives/page/N/. Static file servers resolve a
// directory to its index.html, which matches the crawler's URLs.
func pagePath(out string, page int) string {
	if page == 1 {
		return filepath.Join(out, "index.html")
	}
	return filepath.Join(out, "category", "archives", "page", fmt.Sprint(page), "index.html")
}

func entryHTML(rng *rand.Rand, day time.Time) string {
	date := fmt.Sprintf("%s %d, %d", months[day.Month()-1], day.Day(), day.Year())
	if rng.Intn(10) > 0 { // about one entry in ten has no local time
		date = fmt.Sprintf("%s at %02d%02d LT", date, rng.Intn(24), rng.Intn(60))
	}

	fatalities := fmt.Sprint(rng.Intn(50))
	if rng.Intn(12) == 0 {
		fatalities = "" // the occasional entry without a count
	}

	var b strings.Builder
	b.WriteString(`<div class="list-crash-info">` + "\n")
	b.WriteString("  <span>Date:</span><span>" + date + "</span>\n")
	b.WriteString("  <span>Country:</span><span>Location:</span>")
	b.WriteString(`<span><a href="/crash">` + locations[rng.Intn(len(locations))] + "</a></span>\n")
	b.WriteString("  <span>Operator:</span><span>Type:</span>")
	b.WriteString(`<span><a href="/aircraft">` + models[rng.Intn(len(models))] + "</a></span>\n")
	b.WriteString("  <span>Fatalities:</span>")
	if fatalities != "" {
		b.WriteString("<strong>" + fatalities + "</strong>")
	}
	b.WriteString("\n</div>")
	return b.String()
}

func pageHTML(page int, entries []string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><title>Crash Archives - page %d</title></head>
<body>
<div class="crash-archives">
%s
</div>
</body>
</html>
`, page, strings.Join(entries, "\n"))
}
