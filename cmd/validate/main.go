// Command validate checks the integrity of a CSV checkpoint before it is
// re-used for rendering or publishing: column layout, parseable fatality
// counts, paired in-range coordinates, and a clean date/local-time split.
//
// Usage:
//
//	go run ./cmd/validate -csv data/accidents.csv
//
// Exit code 0 means every phase passed; 1 means at least one failed.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/couchcryptid/crash-archive-etl/internal/domain"
	"github.com/couchcryptid/crash-archive-etl/internal/export"
)

// phase tracks pass/fail for one validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	csvPath := flag.String("csv", "", "checkpoint CSV to validate")
	flag.Parse()

	if *csvPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	os.Exit(run(*csvPath))
}

func run(csvPath string) int {
	records, err := export.ReadCSVFile(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "✗ cannot read checkpoint: %v\n", err)
		return 1
	}

	phases := []*phase{
		checkRequiredFields(records),
		checkCoordinates(records),
		checkDateSplit(records),
		checkFatalities(records),
	}

	failed := false
	for _, p := range phases {
		if p.passed() {
			fmt.Printf("✓ %s\n", p.name)
			continue
		}
		failed = true
		fmt.Printf("✗ %s\n", p.name)
		for _, e := range p.errors {
			fmt.Printf("    %s\n", e)
		}
	}

	fmt.Printf("\n%d records checked\n", len(records))
	if failed {
		return 1
	}
	return 0
}

func checkRequiredFields(records []domain.AccidentRecord) *phase {
	p := &phase{name: "required fields"}
	if len(records) == 0 {
		p.errorf("checkpoint has no rows")
	}
	for i, rec := range records {
		if strings.TrimSpace(rec.Date) == "" {
			p.errorf("row %d: empty date", i+1)
		}
		if strings.TrimSpace(rec.Location) == "" {
			p.errorf("row %d: empty location", i+1)
		}
	}
	return p
}

func checkCoordinates(records []domain.AccidentRecord) *phase {
	p := &phase{name: "coordinate ranges"}
	for i, rec := range records {
		if rec.Geo == nil {
			continue
		}
		if rec.Geo.Lat < -90 || rec.Geo.Lat > 90 {
			p.errorf("row %d: latitude %v out of range", i+1, rec.Geo.Lat)
		}
		if rec.Geo.Lon < -180 || rec.Geo.Lon > 180 {
			p.errorf("row %d: longitude %v out of range", i+1, rec.Geo.Lon)
		}
	}
	return p
}

// checkDateSplit verifies the local-time split already ran: a date cell
// that still contains an "at" clause means the checkpoint was written by
// something other than the pipeline.
func checkDateSplit(records []domain.AccidentRecord) *phase {
	p := &phase{name: "date / local-time split"}
	for i, rec := range records {
		if date, _ := domain.SplitLocalTime(rec.Date); date != rec.Date {
			p.errorf("row %d: date %q still carries a local-time clause", i+1, rec.Date)
		}
		if rec.LocalTime != "" && !strings.Contains(rec.LocalTime, "LT") {
			p.errorf("row %d: local time %q does not look like an archive time", i+1, rec.LocalTime)
		}
	}
	return p
}

func checkFatalities(records []domain.AccidentRecord) *phase {
	p := &phase{name: "fatality counts"}
	known := 0
	for _, rec := range records {
		if rec.Fatalities != nil {
			known++
		}
	}
	// ReadCSVFile already degrades unparseable counts to nil; flag only a
	// checkpoint where every single count is missing, which suggests the
	// column was lost rather than sparsely populated.
	if len(records) > 0 && known == 0 {
		p.errorf("no row has a fatality count")
	}
	return p
}
