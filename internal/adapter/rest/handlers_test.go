package rest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/ipca-api/internal/adapter/repository/memory"
	"github.com/simaogato/ipca-api/internal/domain"
	"github.com/simaogato/ipca-api/internal/usecase/correction"
	"github.com/simaogato/ipca-api/internal/usecase/lookup"
	"github.com/simaogato/ipca-api/internal/usecase/status"
)

var loadedAt = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T, opts Options) http.Handler {
	t.Helper()
	series, err := domain.NewIndexSeries([]domain.IndexPoint{
		{Period: domain.NewPeriod(12, 1993), Value: decimal.NewFromInt(100)},
		{Period: domain.NewPeriod(1, 2020), Value: decimal.RequireFromString("5331.42")},
		{Period: domain.NewPeriod(1, 2023), Value: decimal.RequireFromString("6508.40")},
		{Period: domain.NewPeriod(2, 2023), Value: decimal.RequireFromString("6541.00")},
	})
	require.NoError(t, err)

	repo := memory.NewIndexRepository(series)
	lookupService := lookup.NewLookupService(repo)
	server := NewServer(
		lookupService,
		correction.NewCorrectionService(lookupService),
		status.NewStatusService(repo, "ipea", loadedAt),
		opts,
	)
	return server.Handler()
}

func get(t *testing.T, handler http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestGetSeries(t *testing.T) {
	rec := get(t, newTestServer(t, Options{}), "/ipca")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Info string                 `json:"info"`
		Data map[string]json.Number `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Dados do IPCA carregados. Período: 1993-2023", body.Info)
	assert.Len(t, body.Data, 4)
	assert.Equal(t, json.Number("5331.42"), body.Data["01/2020"])

	// Keys are emitted chronologically, not lexically
	raw := rec.Body.String()
	assert.Less(t, strings.Index(raw, `"12/1993"`), strings.Index(raw, `"01/2020"`))
	assert.Less(t, strings.Index(raw, `"01/2023"`), strings.Index(raw, `"02/2023"`))
}

func TestFilterIndex(t *testing.T) {
	handler := newTestServer(t, Options{})

	t.Run("Found", func(t *testing.T) {
		rec := get(t, handler, "/ipca/filtro?mes=01&ano=2020")

		require.Equal(t, http.StatusOK, rec.Code)
		var body valueResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "01/2020", body.Data)
		assert.Equal(t, json.Number("5331.42"), body.Valor)
	})

	tests := []struct {
		name   string
		query  string
		status int
		field  string
	}{
		{"Month out of range", "mes=13&ano=2020", http.StatusUnprocessableEntity, "mes"},
		{"Year before series", "mes=1&ano=1900", http.StatusUnprocessableEntity, "ano"},
		{"Gap in series", "mes=2&ano=2020", http.StatusNotFound, ""},
		{"Non-numeric month", "mes=jan&ano=2020", http.StatusUnprocessableEntity, "mes"},
		{"Missing year", "mes=1", http.StatusUnprocessableEntity, "ano"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, handler, "/ipca/filtro?"+tt.query)

			assert.Equal(t, tt.status, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, tt.field, body.Field)
			assert.NotEmpty(t, body.Detail)
		})
	}

	t.Run("Range error names the bounds", func(t *testing.T) {
		body := decodeError(t, get(t, handler, "/ipca/filtro?mes=1&ano=2030"))

		require.NotNil(t, body.Min)
		require.NotNil(t, body.Max)
		assert.Equal(t, 1993, *body.Min)
		assert.Equal(t, 2023, *body.Max)
	})
}

func TestCorrectValue(t *testing.T) {
	handler := newTestServer(t, Options{})

	t.Run("Corrects between two dates", func(t *testing.T) {
		rec := get(t, handler, "/ipca/corrigir?valor=1000&mes_inicial=01&ano_inicial=2020&mes_final=01&ano_final=2023")

		require.Equal(t, http.StatusOK, rec.Code)
		var body correctionResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, json.Number("1000"), body.ValorInicial)
		assert.Equal(t, "01/2020", body.DataInicial)
		assert.Equal(t, "01/2023", body.DataFinal)
		assert.Equal(t, json.Number("5331.42"), body.IndiceIPCAInicial)
		assert.Equal(t, json.Number("6508.4"), body.IndiceIPCAFinal)
		assert.Equal(t, json.Number("1220.76"), body.ValorCorrigido)
		assert.Equal(t, json.Number("22.0763"), body.PercentualCorrecao)
		assert.Equal(t, "1.220,76", body.ValorCorrigidoFormatado)
	})

	t.Run("Brazilian amount format", func(t *testing.T) {
		rec := get(t, handler, "/ipca/corrigir?valor=1.000,00&mes_inicial=1&ano_inicial=2020&mes_final=1&ano_final=2023")

		require.Equal(t, http.StatusOK, rec.Code)
		var body correctionResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, json.Number("1220.76"), body.ValorCorrigido)
	})

	t.Run("Same date returns the amount", func(t *testing.T) {
		rec := get(t, handler, "/ipca/corrigir?valor=250.5&mes_inicial=1&ano_inicial=2020&mes_final=1&ano_final=2020")

		require.Equal(t, http.StatusOK, rec.Code)
		var body correctionResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, json.Number("250.50"), body.ValorCorrigido)
		assert.Equal(t, json.Number("0"), body.PercentualCorrecao)
	})

	t.Run("Huge amount is rejected without formatting it", func(t *testing.T) {
		rec := get(t, handler, "/ipca/corrigir?valor=1e2000000&mes_inicial=1&ano_inicial=2020&mes_final=1&ano_final=2023")

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Less(t, rec.Body.Len(), 512)
		assert.Contains(t, decodeError(t, rec).Detail, "must not exceed")
	})

	tests := []struct {
		name   string
		query  string
		status int
		field  string
		side   string
	}{
		{"Negative amount", "valor=-5&mes_inicial=1&ano_inicial=2020&mes_final=1&ano_final=2023", http.StatusBadRequest, "valor", ""},
		{"Amount not a number", "valor=abc&mes_inicial=1&ano_inicial=2020&mes_final=1&ano_final=2023", http.StatusUnprocessableEntity, "valor", ""},
		{"Amount with huge exponent", "valor=1e2000000&mes_inicial=1&ano_inicial=2020&mes_final=1&ano_final=2023", http.StatusUnprocessableEntity, "valor", ""},
		{"Amount with tiny exponent", "valor=1e-2000000&mes_inicial=1&ano_inicial=2020&mes_final=1&ano_final=2023", http.StatusUnprocessableEntity, "valor", ""},
		{"Amount above maximum", "valor=1000000000000001&mes_inicial=1&ano_inicial=2020&mes_final=1&ano_final=2023", http.StatusUnprocessableEntity, "valor", ""},
		{"Missing amount", "mes_inicial=1&ano_inicial=2020&mes_final=1&ano_final=2023", http.StatusUnprocessableEntity, "valor", ""},
		{"Final month out of range", "valor=10&mes_inicial=1&ano_inicial=2020&mes_final=13&ano_final=2023", http.StatusUnprocessableEntity, "mes_final", "final"},
		{"Initial year out of range", "valor=10&mes_inicial=1&ano_inicial=1900&mes_final=1&ano_final=2023", http.StatusUnprocessableEntity, "ano_inicial", "initial"},
		{"Initial date missing", "valor=10&mes_inicial=2&ano_inicial=2020&mes_final=1&ano_final=2023", http.StatusNotFound, "", "initial"},
		{"Final date missing", "valor=10&mes_inicial=1&ano_inicial=2020&mes_final=6&ano_final=2023", http.StatusNotFound, "", "final"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, handler, "/ipca/corrigir?"+tt.query)

			assert.Equal(t, tt.status, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, tt.field, body.Field)
			assert.Equal(t, tt.side, body.Side)
		})
	}
}

func TestAnnualAverage(t *testing.T) {
	handler := newTestServer(t, Options{})

	t.Run("All months", func(t *testing.T) {
		rec := get(t, handler, "/ipca/media-anual?ano=2023")

		require.Equal(t, http.StatusOK, rec.Code)
		var body annualAverageResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, 2023, body.Ano)
		assert.Equal(t, json.Number("6524.7"), body.MediaIPCA)
		assert.Equal(t, 2, body.TotalMeses)
		assert.Equal(t, []string{"01", "02"}, body.MesesDisponiveis)
		assert.Equal(t, json.Number("6541"), body.ValoresMensais["02"])
	})

	t.Run("Selected months", func(t *testing.T) {
		rec := get(t, handler, "/ipca/media-anual?ano=2023&meses=2")

		require.Equal(t, http.StatusOK, rec.Code)
		var body annualAverageResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, json.Number("6541"), body.MediaIPCA)
		assert.Equal(t, 1, body.TotalMeses)
	})

	t.Run("Month out of range", func(t *testing.T) {
		rec := get(t, handler, "/ipca/media-anual?ano=2023&meses=1,13")

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "meses", decodeError(t, rec).Field)
	})

	t.Run("Year without data", func(t *testing.T) {
		rec := get(t, handler, "/ipca/media-anual?ano=2021")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestAnnualAverages(t *testing.T) {
	handler := newTestServer(t, Options{})

	t.Run("Several years", func(t *testing.T) {
		rec := get(t, handler, "/ipca/medias-anuais?anos=2023&anos=2021,1980")

		require.Equal(t, http.StatusOK, rec.Code)
		var body map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body, 3)

		var avg annualAverageResponse
		require.NoError(t, json.Unmarshal(body["2023"], &avg))
		assert.Equal(t, json.Number("6524.7"), avg.MediaIPCA)
		assert.Equal(t, 2, avg.TotalMeses)

		for _, year := range []string{"2021", "1980"} {
			var entry yearErrorResponse
			require.NoError(t, json.Unmarshal(body[year], &entry))
			assert.NotEmpty(t, entry.Erro, year)
		}
	})

	t.Run("Selected months", func(t *testing.T) {
		rec := get(t, handler, "/ipca/medias-anuais?anos=2023&meses=2")

		require.Equal(t, http.StatusOK, rec.Code)
		var body map[string]annualAverageResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, json.Number("6541"), body["2023"].MediaIPCA)
	})

	t.Run("Missing years", func(t *testing.T) {
		rec := get(t, handler, "/ipca/medias-anuais")

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "anos", decodeError(t, rec).Field)
	})

	t.Run("Year not a number", func(t *testing.T) {
		rec := get(t, handler, "/ipca/medias-anuais?anos=2023,abc")

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "anos", decodeError(t, rec).Field)
	})
}

func TestHealth(t *testing.T) {
	rec := get(t, newTestServer(t, Options{RootPath: "/api-ipca"}), "/api-ipca/health")

	require.Equal(t, http.StatusOK, rec.Code)
	var body healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, Version, body.Version)
	assert.Equal(t, "/api-ipca", body.RootPath)
	assert.Equal(t, "ipea", body.IPCAService.Fonte)
	assert.True(t, body.IPCAService.DadosDisponiveis)
	assert.Equal(t, 4, body.IPCAService.TotalRegistros)
	assert.Equal(t, "12/1993", body.IPCAService.PeriodoInicio)
	assert.Equal(t, "02/2023", body.IPCAService.UltimoPeriodo)
	assert.Equal(t, "2024-03-01T12:00:00Z", body.IPCAService.UltimaAtualizacao)
}

func TestRootPath(t *testing.T) {
	handler := newTestServer(t, Options{RootPath: "/api-ipca"})

	assert.Equal(t, http.StatusOK, get(t, handler, "/api-ipca/ipca/filtro?mes=1&ano=2020").Code)

	rec := get(t, handler, "/ipca/filtro?mes=1&ano=2020")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "route not found", decodeError(t, rec).Detail)
}

func TestMethodNotAllowed(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/ipca", nil)
	rec := httptest.NewRecorder()

	newTestServer(t, Options{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
