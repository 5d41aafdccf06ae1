package gamma

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"Radviz/internal/calc"
	"Radviz/internal/calc/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func post(t *testing.T, fn http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	fn(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	return rec
}

func TestHandler_Formats(t *testing.T) {
	h := &Handler{Env: calc.DefaultEnv()}
	body := `{"material":"lead","points":40}`

	rec := post(t, h.Calc, body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var tbl series.Table
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tbl))
	assert.Len(t, tbl.X.Values, 40)

	for _, tc := range []struct {
		name  string
		fn    http.HandlerFunc
		ctype string
		magic []byte
	}{
		{"plot", h.Plot, "image/png", []byte("\x89PNG")},
		{"export", h.Export, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", []byte("PK")},
		{"report", h.Report, "application/pdf", []byte("%PDF")},
	} {
		t.Run(tc.name, func(t *testing.T) {
			rec := post(t, tc.fn, body)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, tc.ctype, rec.Header().Get("Content-Type"))
			assert.Contains(t, rec.Header().Get("Content-Disposition"), "gamma.")
			assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), tc.magic))
		})
	}
}

func TestHandler_Errors(t *testing.T) {
	h := &Handler{Env: calc.DefaultEnv()}

	rec := post(t, h.Calc, `{"material":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid request payload")

	rec = post(t, h.Calc, `{"material":"kryptonite"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "kryptonite")

	rec = post(t, h.Calc, `{"material":"lead","emin_mev":1e-120,"emax_mev":1,"points":10}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "not finite")

	rec = post(t, h.Plot, `{"material":"water","emin_mev":10,"emax_mev":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}
