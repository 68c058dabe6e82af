package swpc

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/couchcryptid/solar-wind-etl/internal/domain"
	"github.com/couchcryptid/solar-wind-etl/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"

	magDocument = `[
		["time_tag","bx_gsm","by_gsm","bz_gsm","lon_gsm","lat_gsm","bt"],
		["2024-09-15 16:14:00.000","-4.47","6.23","1.33","125.64","9.83","7.78"],
		["2024-09-15 16:15:00.000","-4.21",null,"1.40","126.02","9.71","7.70"]
	]`

	plasmaDocument = `[
		["time_tag","density","speed","temperature"],
		["2024-09-15 16:14:00.000","4.97","398.2","270355"]
	]`
)

func testClient(baseURL, window string) *Client {
	return &Client{
		baseURL:    baseURL,
		window:     window,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		metrics:    observability.NewMetricsForTesting(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func serveJSON(t *testing.T, wantPath, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, wantPath, r.URL.Path)
		w.Header().Set(headerContentType, contentTypeJSON)
		_, err := w.Write([]byte(body))
		require.NoError(t, err)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_FetchMagnetometer_Success(t *testing.T) {
	srv := serveJSON(t, "/mag-5-minute.json", magDocument)

	c := testClient(srv.URL, "5-minute")
	readings, err := c.FetchMagnetometer(context.Background())
	require.NoError(t, err)
	require.Len(t, readings, 2)

	assert.Equal(t, time.Date(2024, 9, 15, 16, 14, 0, 0, time.UTC), readings[0].TimeTag)
	assert.Equal(t, -4.47, readings[0].BxGSM)
	assert.Equal(t, 7.78, readings[0].Bt)
	// Null by_gsm in the second row coerces to zero.
	assert.Zero(t, readings[1].ByGSM)
	assert.Equal(t, -4.21, readings[1].BxGSM)
}

func TestClient_FetchPlasma_Success(t *testing.T) {
	srv := serveJSON(t, "/plasma-2-hour.json", plasmaDocument)

	c := testClient(srv.URL, "2-hour")
	readings, err := c.FetchPlasma(context.Background())
	require.NoError(t, err)
	require.Len(t, readings, 1)

	assert.Equal(t, 4.97, readings[0].Density)
	assert.Equal(t, 398.2, readings[0].Speed)
	assert.Equal(t, int64(270355), readings[0].Temperature)
}

func TestClient_FetchMagnetometer_HeaderOnly(t *testing.T) {
	srv := serveJSON(t, "/mag-5-minute.json",
		`[["time_tag","bx_gsm","by_gsm","bz_gsm","lon_gsm","lat_gsm","bt"]]`)

	c := testClient(srv.URL, "5-minute")
	readings, err := c.FetchMagnetometer(context.Background())
	require.NoError(t, err)
	assert.Empty(t, readings)
}

func TestClient_FetchMagnetometer_HeaderMismatch(t *testing.T) {
	srv := serveJSON(t, "/mag-5-minute.json",
		`[["time_tag","bx_gse","by_gse","bz_gse","lon_gse","lat_gse","bt"],
		  ["2024-09-15 16:14:00.000","-4.47","6.23","1.33","125.64","9.83","7.78"]]`)

	c := testClient(srv.URL, "5-minute")
	_, err := c.FetchMagnetometer(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected magnetometer header")
	assert.Contains(t, err.Error(), "bx_gse")
}

func TestClient_FetchMagnetometer_ShortHeader(t *testing.T) {
	srv := serveJSON(t, "/mag-5-minute.json", `[["time_tag","bt"]]`)

	c := testClient(srv.URL, "5-minute")
	_, err := c.FetchMagnetometer(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "got 2 columns, want 7")
}

func TestClient_FetchMagnetometer_UnsupportedCell(t *testing.T) {
	srv := serveJSON(t, "/mag-5-minute.json",
		`[["time_tag","bx_gsm","by_gsm","bz_gsm","lon_gsm","lat_gsm","bt"],
		  ["2024-09-15 16:14:00.000",true,"6.23","1.33","125.64","9.83","7.78"]]`)

	c := testClient(srv.URL, "5-minute")
	_, err := c.FetchMagnetometer(context.Background())
	require.Error(t, err)

	var invalid *domain.InvalidFormatError
	require.ErrorAs(t, err, &invalid)
	assert.EqualError(t, err, "Unsupported value type in JSON: true.")
}

func TestClient_FetchMagnetometer_BadRow(t *testing.T) {
	srv := serveJSON(t, "/mag-5-minute.json",
		`[["time_tag","bx_gsm","by_gsm","bz_gsm","lon_gsm","lat_gsm","bt"],
		  ["2024-09-15 16:14:00.000","-4.47","6.23"]]`)

	c := testClient(srv.URL, "5-minute")
	_, err := c.FetchMagnetometer(context.Background())
	require.Error(t, err)
	assert.EqualError(t, err, "Data row length not as expected. Expected row length of 7, got 3.")
}

func TestClient_Fetch_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	c := testClient(srv.URL, "5-minute")
	_, err := c.FetchMagnetometer(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}

func TestClient_Fetch_InvalidJSON(t *testing.T) {
	srv := serveJSON(t, "/plasma-5-minute.json", `{not json`)

	c := testClient(srv.URL, "5-minute")
	_, err := c.FetchPlasma(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode plasma product")
}

func TestClient_Fetch_EmptyDocument(t *testing.T) {
	srv := serveJSON(t, "/plasma-5-minute.json", `[]`)

	c := testClient(srv.URL, "5-minute")
	_, err := c.FetchPlasma(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no header row")
}

func TestClient_Fetch_ContextCancelled(t *testing.T) {
	srv := serveJSON(t, "/mag-5-minute.json", magDocument)

	c := testClient(srv.URL, "5-minute")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.FetchMagnetometer(ctx)
	require.Error(t, err)
}
