package ingest

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadflow/leadflow-cli/internal/model"
	"github.com/leadflow/leadflow-cli/internal/sheets"
)

const sheetCSV = `Phone,First,Last,Company,Email,C5,C6,C7,State,C9,Years,Monthly,Requested,Purpose
2128670309,Jo,Smith,Acme Corp,jo@acme.com,,,,NY,,3,20,50000,Truck repair
2123334444,Al,Bo,,al@bo.com,,,,CA,,1,5,10000,retail
3018675309,Pat,Lee,Beta LLC,notanemail,,,,MD,,2,41.5,250000,New equipment
`

func newSheetPipeline(t *testing.T, csv string, opts Options) (*Pipeline, *fakeStore) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(csv))
	}))
	t.Cleanup(srv.Close)

	st := newFakeStore()
	client := sheets.NewClient(sheets.Options{BaseURL: srv.URL, RPS: 1000})
	return New(st, nil, client, opts), st
}

func TestSyncSheets(t *testing.T) {
	p, st := newSheetPipeline(t, sheetCSV, Options{})

	res := p.SyncSheets(context.Background())
	require.True(t, res.Success, res.Error)
	assert.Equal(t, 3, res.TotalRows)
	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, 1, res.Skipped)
	assert.False(t, res.SyncedAt.IsZero())

	require.Len(t, st.leads, 2)
	acme := st.leads[0]
	assert.Equal(t, "Acme Corp", acme.BusinessName)
	assert.Equal(t, "Jo Smith", acme.ContactName)
	assert.Equal(t, "jo@acme.com", acme.Email)
	assert.Equal(t, "(212) 867-0309", acme.Phone)
	assert.Equal(t, "NY", acme.State)
	assert.Equal(t, "Transportation", acme.Industry)
	assert.Equal(t, int64(240_000), acme.Revenue) // $20k/month annualized
	assert.Equal(t, model.Tier101k500k, acme.Tier)
	assert.Equal(t, model.TempWarm, acme.Temperature)
	assert.Equal(t, model.DNCSafe, acme.DNCStatus)

	beta := st.leads[1]
	assert.Equal(t, "Beta LLC", beta.BusinessName)
	assert.Empty(t, beta.Email) // invalid address dropped
	assert.Equal(t, int64(498_000), beta.Revenue)
	assert.Equal(t, "Equipment", beta.Industry)
}

func TestSyncSheetsMaxRows(t *testing.T) {
	csv := "Phone,First,Last,Company,Email,C5,C6,C7,State,C9,Years,Monthly,Requested,Purpose\n"
	for i := 0; i < 4; i++ {
		csv += fmt.Sprintf("2128670309,A,B,Biz %d,a@b.com,,,,NY,,1,10,1000,retail\n", i)
	}
	p, st := newSheetPipeline(t, csv, Options{MaxRows: 2})

	res := p.SyncSheets(context.Background())
	require.True(t, res.Success)
	assert.Equal(t, 4, res.TotalRows)
	assert.Equal(t, 2, res.Imported)
	// Rows beyond the cap are not counted as skipped.
	assert.Equal(t, 0, res.Skipped)
	assert.Len(t, st.leads, 2)
}

func TestSyncSheetsDedupes(t *testing.T) {
	csv := "Phone,First,Last,Company,Email,C5,C6,C7,State,C9,Years,Monthly,Requested,Purpose\n" +
		"2128670309,Jo,Smith,Acme Corp,jo@acme.com,,,,NY,,3,20,50000,retail\n" +
		"3018675309,Pat,Lee,acme corp,pat@acme.com,,,,MD,,2,41.5,250000,retail\n"
	p, st := newSheetPipeline(t, csv, Options{})

	res := p.SyncSheets(context.Background())
	require.True(t, res.Success, res.Error)
	assert.Equal(t, 2, res.TotalRows)
	assert.Equal(t, 1, res.Imported)
	assert.Equal(t, 1, res.Skipped)

	// First occurrence wins.
	require.Len(t, st.leads, 1)
	assert.Equal(t, "Acme Corp", st.leads[0].BusinessName)
	assert.Equal(t, "jo@acme.com", st.leads[0].Email)
}

func TestSyncSheetsFetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>Sign in</html>"))
	}))
	defer srv.Close()

	st := newFakeStore()
	client := sheets.NewClient(sheets.Options{BaseURL: srv.URL, RPS: 1000})
	p := New(st, nil, client, Options{})

	res := p.SyncSheets(context.Background())
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "anyone with the link")
	assert.Empty(t, st.leads)
}

func TestSyncSheetsEmptySheet(t *testing.T) {
	p, _ := newSheetPipeline(t, "Phone,First,Last,Company\n", Options{})
	res := p.SyncSheets(context.Background())
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "no data rows")
}

func TestFormatPhone(t *testing.T) {
	assert.Equal(t, "(212) 867-0309", FormatPhone("2128670309"))
	assert.Equal(t, "(212) 867-0309", FormatPhone("12128670309"))
	assert.Equal(t, "(212) 867-0309", FormatPhone("212.867.0309"))
	assert.Equal(t, "867-0309", FormatPhone("867-0309")) // too short, unchanged
	assert.Equal(t, "", FormatPhone(""))
}

func TestIndustryForPurpose(t *testing.T) {
	tests := []struct {
		purpose string
		want    string
	}{
		{"Need a new truck", "Transportation"},
		{"construction project", "Construction"},
		{"opening a restaurant", "Food & Beverage"},
		{"retail storefront", "Retail"},
		{"dental practice", "Healthcare"},
		{"software tooling", "Technology"},
		{"buying property", "Real Estate"},
		{"working capital", "Working Capital"},
		{"heavy machinery", "Equipment"},
		{"expansion plans", "Expansion"},
		{"something else", "General"},
		{"", "General"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IndustryForPurpose(tt.purpose), "purpose %q", tt.purpose)
	}
}

func TestSheetRevenue(t *testing.T) {
	assert.Equal(t, int64(240_000), sheetRevenue("20"))
	assert.Equal(t, int64(498_000), sheetRevenue("41.5"))
	assert.Equal(t, int64(120_000), sheetRevenue("$10k")) // digits only
	assert.Equal(t, int64(0), sheetRevenue(""))
	assert.Equal(t, int64(0), sheetRevenue("n/a"))
}
