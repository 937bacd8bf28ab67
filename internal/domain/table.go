package domain

// BuildTable flattens per-page entries into the ordered accident table.
// Rows keep archive order: pages ascending, then entry position within the
// page. The fold is pure over its input — it never mutates pages and carries
// no state between calls; the only ambient input is the package clock, which
// stamps every row of one build with the same ScrapedAt.
func BuildTable(pages []PageEntries) []AccidentRecord {
	total := 0
	for _, p := range pages {
		total += len(p.Entries)
	}

	now := clock.Now().UTC()
	records := make([]AccidentRecord, 0, total)
	for _, p := range pages {
		for pos, e := range p.Entries {
			records = append(records, AccidentRecord{
				ID:            generateID(e.Date, e.Location, e.Model, e.Fatalities),
				Date:          e.Date,
				Location:      e.Location,
				AirplaneModel: e.Model,
				Fatalities:    ParseFatalities(e.Fatalities),
				Page:          p.Page,
				Pos:           pos,
				ScrapedAt:     now,
			})
		}
	}
	return records
}
