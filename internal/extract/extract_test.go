package extract

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DanielFillol/CrawlerNavigator/internal/browser"
	"github.com/DanielFillol/CrawlerNavigator/internal/locator"
	"github.com/DanielFillol/CrawlerNavigator/internal/record"
	"github.com/DanielFillol/CrawlerNavigator/internal/snapshot"
)

const (
	profileURL    = "https://www.linkedin.com/sales/people/ACwAAA1,NAME_SEARCH,x1"
	restrictedURL = "https://www.linkedin.com/sales/people/ACwAAA2,OUT_OF_NETWORK,x2"
	resultsURL    = "https://www.linkedin.com/sales/search/people?keywords=analyst&page=1"
)

func fixture(t *testing.T, rawURL, name string) *snapshot.Page {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)

	site := snapshot.NewSite()
	site.Add(rawURL, string(data))
	pages, err := snapshot.NewBrowser(site).Pages(context.Background())
	require.NoError(t, err)
	p := pages[0].(*snapshot.Page)
	require.NoError(t, p.Navigate(context.Background(), rawURL))
	return p
}

func TestAssemble_FullProfile(t *testing.T) {
	ctx := context.Background()
	p := fixture(t, profileURL, "profile.html")
	x := New(locator.Default())

	r, err := Assemble(ctx, p, nil, x.ProfileSteps())
	require.NoError(t, err)

	want := map[record.Field]string{
		record.Name:             "Ada Lovelace",
		record.Photo:            "https://media.licdn.com/dms/image/ada.jpg",
		record.Location:         "London, United Kingdom",
		record.Connections:      "500+ connections",
		record.Duration:         "3 yrs 2 mos",
		record.CurrentPosition:  "Chief Analyst",
		record.Summary:          "Mathematician and writer, first to publish an algorithm for a machine.",
		record.Contact:          "ada@example.com\nmailto:ada@example.com\n\nada.example.com\nhttps://ada.example.com/",
		record.CurrentWorkplace: "Analytical Engines Ltd",
		record.Education:        "University of London\nMathematics\n\nHome tutoring\nLogic",
		record.Experience:       "Chief Analyst\nAnalytical Engines Ltd\n\nTranslator\nRoyal Society",
		record.Skills:           "Mathematics.12\nPoetry.3",
		record.Accomplishments:  "Publications\nNotes on the Analytical Engine",
		record.Interests:        "Royal Society: 1,200 followers\nhttps://www.linkedin.com/sales/company/1001",
	}
	for f, v := range want {
		assert.Equal(t, v, r.Get(f), f.String())
	}
	assert.Equal(t, record.Placeholder, r.Get(record.Recommendations), "absent section keeps the placeholder")

	// summary, experience and skills expanders plus the modal OK button
	assert.Equal(t, 4, p.Clicks)
}

func TestAssemble_EmptyPageIsAllPlaceholders(t *testing.T) {
	site := snapshot.NewSite()
	site.Add(profileURL, "<html><body><p>Profile unavailable</p></body></html>")
	pages, err := snapshot.NewBrowser(site).Pages(context.Background())
	require.NoError(t, err)
	require.NoError(t, pages[0].Navigate(context.Background(), profileURL))

	r, err := Assemble(context.Background(), pages[0], nil, New(locator.Default()).ProfileSteps())
	require.NoError(t, err)
	for _, f := range record.Fields() {
		assert.Equal(t, record.Placeholder, r.Get(f), f.String())
	}
}

func TestCardAndRestrictedSteps(t *testing.T) {
	ctx := context.Background()
	list := fixture(t, resultsURL, "results.html")
	x := New(locator.Default())

	cards, ok := list.FindAll(ctx, locator.Default().Get(locator.SearchResultItems), nil)
	require.True(t, ok)
	require.Len(t, cards, 2)

	link, ok := x.ProfileLink(ctx, list, cards[1])
	require.True(t, ok)
	assert.Equal(t, restrictedURL, link)

	r, err := Assemble(ctx, list, cards[1], x.CardSteps())
	require.NoError(t, err)
	assert.Equal(t, "Grace Hopper", r.Get(record.Name))
	assert.Equal(t, "US Navy", r.Get(record.CurrentWorkplace))
	assert.Equal(t, "4 yrs", r.Get(record.Duration))
	assert.Equal(t, "Arlington, Virginia", r.Get(record.Location))
	assert.Equal(t, "Remington Rand, Eckert-Mauchly", r.Get(record.Experience))
	assert.Equal(t, 1, list.Clicks, "past roles expanded before reading")

	profile := fixture(t, restrictedURL, "restricted.html")
	require.NoError(t, Apply(ctx, profile, nil, r, x.RestrictedSteps()))
	assert.Equal(t, "Yale University\nVassar College", r.Get(record.Education))
	assert.Equal(t, "Grace Hopper", r.Get(record.Name), "card fields survive the profile step")
	assert.Equal(t, record.Placeholder, r.Get(record.Summary))
}

func TestCardSteps_ScopedToCard(t *testing.T) {
	ctx := context.Background()
	list := fixture(t, resultsURL, "results.html")
	x := New(locator.Default())

	cards, _ := list.FindAll(ctx, locator.Default().Get(locator.SearchResultItems), nil)
	r, err := Assemble(ctx, list, cards[0], x.CardSteps())
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", r.Get(record.Name))
	assert.Equal(t, record.Placeholder, r.Get(record.Experience), "second card's roles do not leak")
}

// flakyText fails Text for the first n calls.
type flakyText struct {
	browser.Page
	n     int
	calls int
}

func (f *flakyText) Text(ctx context.Context, el browser.Element) (string, bool) {
	f.calls++
	if f.calls <= f.n {
		return "", false
	}
	return f.Page.Text(ctx, el)
}

func TestStep_RetriesStaleReads(t *testing.T) {
	ctx := context.Background()
	x := New(locator.Default())
	steps := []Step{x.textStep("name", locator.ProfileName, record.Name)}

	p := &flakyText{Page: fixture(t, profileURL, "profile.html"), n: 2}
	r, err := Assemble(ctx, p, nil, steps)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", r.Get(record.Name))
	assert.Equal(t, 3, p.calls)

	p = &flakyText{Page: fixture(t, profileURL, "profile.html"), n: 1000}
	r, err = Assemble(ctx, p, nil, steps)
	require.NoError(t, err, "exhausted field reads are swallowed")
	assert.Equal(t, record.Placeholder, r.Get(record.Name))
	assert.Equal(t, 3, p.calls)
}

func TestApply_CancelledContextStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := fixture(t, profileURL, "profile.html")
	_, err := Assemble(ctx, p, nil, New(locator.Default()).ProfileSteps())
	assert.ErrorIs(t, err, context.Canceled)
}
