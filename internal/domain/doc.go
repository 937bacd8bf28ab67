// Package domain models aviation accident reports scraped from the
// Bureau of Aircraft Accidents Archives (B3A).
//
// # Data Source
//
// Accident reports originate from the B3A archive at
// https://www.baaa-acro.com/crash-archives. The archive is paginated: the
// first page lives at the site root and subsequent pages under
// /category/archives/page/N/. Each page carries a list of accident entries
// rendered as ".list-crash-info" blocks; the archive adapter extracts four
// fields per entry (date, location, airplane model, fatalities) and the
// table fold flattens them into [AccidentRecord] rows, preserving archive
// order (pages ascending, then entry position within the page).
//
// # Archive Data Conventions
//
// Date format:
//
//	"<month> <day>, <year> at <HHMM> LT"  →  e.g. "Sep 10, 2017 at 1130 LT"
//	LT marks local time at the accident site; the archive records wall-clock
//	time, not UTC. Older entries omit the "at" clause entirely
//	(e.g. "Dec 2, 1977"), leaving only the date portion.
//	[SplitLocalTime] splits on the first "at" token and preserves the
//	surrounding spaces, so the split is reversible by concatenation.
//
// Location format:
//
//	Free-form place text, usually a town or airport name ("Moyo",
//	"Near Lugano-Agno"). No country column exists; the geocoder resolves
//	the text as-is. Empty locations are never geocoded.
//
// Fatalities:
//
//	A plain non-negative integer rendered in a <strong> element. Anything
//	else (empty, "n/a", annotated counts) parses to nil — the row is kept
//	and the count left unknown rather than guessed. See [ParseFatalities].
//
// Coordinates:
//
//	The archive publishes no coordinates. Geo is populated only by the
//	geocoding pass and stays nil when the lookup fails, is skipped, or the
//	daily budget runs out. GeoSource records which of those happened.
//	A resolved (0, 0) is a legal coordinate (Gulf of Guinea), which is why
//	presence is tracked by the pointer and GeocodingResult.Found rather
//	than a zero-value check.
//
// # ID Generation
//
// Record IDs are deterministic SHA-256 hashes of date|location|model|fatalities.
// Re-crawling the same archive window produces the same IDs, so downstream
// sinks can deduplicate replays without coordination. See [generateID].
package domain
