package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dpccli/internal/config"
)

const testHeader = "data,stato,codice_regione,denominazione_regione,lat,long," +
	"ricoverati_con_sintomi,terapia_intensiva,nuovi_positivi,deceduti," +
	"tamponi_test_molecolare,ingressi_terapia_intensiva"

func testCSV() string {
	var b strings.Builder
	b.WriteString(testHeader + "\n")
	deaths := []int{0, 1, 3, 3, 6, 6, 6, 10, 10, 12}
	for i, d := range deaths {
		date := time.Date(2021, 3, 1+i, 18, 0, 0, 0, time.UTC)
		b.WriteString(fmt.Sprintf("%s,ITA,03,Lombardia,45.47,9.19,50,12,%d,%d,%d,2\n",
			date.Format("2006-01-02T15:04:05"), 100+i, d, 1000*(i+1)))
		b.WriteString(fmt.Sprintf("%s,ITA,05,Veneto,45.43,12.34,20,4,%d,%d,%d,1\n",
			date.Format("2006-01-02T15:04:05"), 40+i, d*2, 500*(i+1)))
	}
	return b.String()
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(config.SourceConfig{
		URL:     server.URL,
		Timeout: 5 * time.Second,
	}, slog.Default())
}

func TestFetchNational(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		fmt.Fprint(w, testCSV())
	})

	records, err := client.FetchNational(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 20)
	assert.Equal(t, "Lombardia", records[0].Region)
	assert.Equal(t, 100.0, records[0].NewPositives)
}

func TestFetchNationalBadStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	})

	_, err := client.FetchNational(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadStatus)
}

func TestFetchNationalNetworkErrorPropagates(t *testing.T) {
	client := NewClient(config.SourceConfig{
		URL:     "http://127.0.0.1:1", // nothing listens here
		Timeout: time.Second,
	}, slog.Default())

	_, err := client.FetchNational(context.Background())
	assert.Error(t, err)
}

func TestFetchNationalMissingColumn(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "data,stato\n2021-03-01T18:00:00,ITA\n")
	})

	_, err := client.FetchNational(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "denominazione_regione")
}

func TestFetchNationalSkipsBadDates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, testHeader+"\n"+
			"not-a-date,ITA,03,Lombardia,45.47,9.19,1,1,1,1,1,1\n"+
			"2021-03-01T18:00:00,ITA,03,Lombardia,45.47,9.19,1,1,1,1,1,1\n")
	})

	records, err := client.FetchNational(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestRegionSeriesEndToEnd(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, testCSV())
	})

	series, err := client.RegionSeries(context.Background(), "lombardia")
	require.NoError(t, err)
	require.Equal(t, 10, series.Len())

	assert.Equal(t, "Lombardia", series.Region)
	assert.Equal(t, []float64{0, 1, 2, 0, 3, 0, 0, 4, 0, 2}, series.DeathsDelta())
}

func TestRegionSeriesUnknownRegion(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, testCSV())
	})

	series, err := client.RegionSeries(context.Background(), "Atlantide")
	require.NoError(t, err, "unknown region is not an error")
	assert.True(t, series.Empty())
}
