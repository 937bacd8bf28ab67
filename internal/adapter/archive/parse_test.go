package archive

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// entryHTML renders one accident block in the archive's listing markup.
// The span positions match the live site: the date is the 2nd child, the
// location link sits in the 5th and the model link in the 8th, and the
// fatality count is the block's only <strong>.
func entryHTML(date, location, model, fatalities string) string {
	var b strings.Builder
	b.WriteString(`<div class="list-crash-info">`)
	b.WriteString("<span>Date:</span>")
	b.WriteString("<span>" + date + "</span>")
	b.WriteString("<span>Country:</span>")
	b.WriteString("<span>Location:</span>")
	if location != "" {
		b.WriteString(`<span><a href="/crash">` + location + `</a></span>`)
	} else {
		b.WriteString("<span></span>")
	}
	b.WriteString("<span>Operator:</span>")
	b.WriteString("<span>Type:</span>")
	if model != "" {
		b.WriteString(`<span><a href="/aircraft">` + model + `</a></span>`)
	} else {
		b.WriteString("<span></span>")
	}
	b.WriteString("<span>Fatalities:</span>")
	if fatalities != "" {
		b.WriteString("<strong>" + fatalities + "</strong>")
	}
	b.WriteString("</div>")
	return b.String()
}

func pageHTML(entries ...string) string {
	return "<html><body><div class=\"crash-archives\">" + strings.Join(entries, "\n") + "</div></body></html>"
}

func parseHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestParsePage(t *testing.T) {
	doc := parseHTML(t, pageHTML(
		entryHTML("Sep 10, 2017 at 1130 LT", "Moyo", "Cessna 208B Grand Caravan", "4"),
		entryHTML("Sep 8, 2017 at 0645 LT", "Nairobi", "Fokker 50", "0"),
		entryHTML("Dec 2, 1977", "Rome", "", ""),
	))

	entries, err := ParsePage(doc, 3)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	t.Run("all four fields come from the same block", func(t *testing.T) {
		assert.Equal(t, "Sep 10, 2017 at 1130 LT", entries[0].Date)
		assert.Equal(t, "Moyo", entries[0].Location)
		assert.Equal(t, "Cessna 208B Grand Caravan", entries[0].Model)
		assert.Equal(t, "4", entries[0].Fatalities)
	})

	t.Run("keeps page order", func(t *testing.T) {
		assert.Equal(t, "Moyo", entries[0].Location)
		assert.Equal(t, "Nairobi", entries[1].Location)
		assert.Equal(t, "Rome", entries[2].Location)
	})

	t.Run("missing model and fatalities on one entry are tolerated", func(t *testing.T) {
		assert.Empty(t, entries[2].Model)
		assert.Empty(t, entries[2].Fatalities)
	})
}

func TestParsePage_Errors(t *testing.T) {
	tests := []struct {
		name      string
		html      string
		wantField string
	}{
		{
			name:      "no entries on page",
			html:      "<html><body><p>Not found</p></body></html>",
			wantField: "entry",
		},
		{
			name:      "entry without a date",
			html:      pageHTML(entryHTML("", "Moyo", "Cessna 208B", "4")),
			wantField: "date",
		},
		{
			name:      "entry without a location",
			html:      pageHTML(entryHTML("Sep 10, 2017 at 1130 LT", "", "Cessna 208B", "4")),
			wantField: "location",
		},
		{
			name: "no entry has a model node",
			html: pageHTML(
				entryHTML("Sep 10, 2017 at 1130 LT", "Moyo", "", "4"),
				entryHTML("Sep 8, 2017 at 0645 LT", "Nairobi", "", "0"),
			),
			wantField: "model",
		},
		{
			name: "no entry has a fatalities node",
			html: pageHTML(
				entryHTML("Sep 10, 2017 at 1130 LT", "Moyo", "Cessna 208B", ""),
				entryHTML("Sep 8, 2017 at 0645 LT", "Nairobi", "Fokker 50", ""),
			),
			wantField: "fatalities",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := ParsePage(parseHTML(t, tt.html), 7)
			assert.Nil(t, entries)

			var pageErr *PageError
			require.ErrorAs(t, err, &pageErr)
			assert.Equal(t, 7, pageErr.Page)
			assert.Equal(t, tt.wantField, pageErr.Field)
			assert.Contains(t, err.Error(), "archive page 7")
		})
	}
}
