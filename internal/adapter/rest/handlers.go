package rest

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/simaogato/ipca-api/internal/domain"
)

// GetSeries handles GET /ipca
func (s *Server) GetSeries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	points, err := s.LookupService.All(ctx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	st, err := s.StatusService.GetStatus(ctx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, seriesResponse{
		Info: st.Info(),
		Data: seriesData(points),
	})
}

// FilterIndex handles GET /ipca/filtro?mes=&ano=
func (s *Server) FilterIndex(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	month, err := intParam(q.Get("mes"), "mes")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	year, err := intParam(q.Get("ano"), "ano")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	point, err := s.LookupService.Filter(r.Context(), month, year)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, valueResponse{
		Data:  point.Period.String(),
		Valor: number(point.Value),
	})
}

// CorrectValue handles GET /ipca/corrigir
func (s *Server) CorrectValue(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	amount, err := amountParam(q.Get("valor"), "valor")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ints := map[string]int{}
	for _, name := range []string{"mes_inicial", "ano_inicial", "mes_final", "ano_final"} {
		v, err := intParam(q.Get(name), name)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		ints[name] = v
	}

	result, err := s.CorrectionService.Correct(r.Context(), domain.CorrectionRequest{
		Amount: amount,
		From:   domain.NewPeriod(ints["mes_inicial"], ints["ano_inicial"]),
		To:     domain.NewPeriod(ints["mes_final"], ints["ano_final"]),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	corrected := domain.RoundCurrency(result.CorrectedAmount)
	writeJSON(w, http.StatusOK, correctionResponse{
		ValorInicial:            number(result.InitialAmount),
		DataInicial:             result.InitialPeriod.String(),
		DataFinal:               result.FinalPeriod.String(),
		IndiceIPCAInicial:       number(result.InitialIndex),
		IndiceIPCAFinal:         number(result.FinalIndex),
		ValorCorrigido:          fixed(corrected, 2),
		PercentualCorrecao:      number(result.Percentage().Round(4)),
		ValorCorrigidoFormatado: domain.FormatBRL(corrected),
	})
}

// AnnualAverage handles GET /ipca/media-anual?ano=&meses=1,2,3
func (s *Server) AnnualAverage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	year, err := intParam(q.Get("ano"), "ano")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	months, err := monthsParam(q.Get("meses"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	avg, err := s.LookupService.AnnualAverage(r.Context(), year, months)
	if err != nil {
		code, resp := mapError(err)
		if resp.Field == "mes" {
			resp.Field = "meses"
		}
		if code == http.StatusInternalServerError {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, code, resp)
		return
	}

	writeJSON(w, http.StatusOK, newAnnualAverageResponse(avg))
}

// AnnualAverages handles GET /ipca/medias-anuais?anos=2020&anos=2023&meses=
// Years may also be comma separated. A year without data gets an
// {"erro": ...} entry instead of failing the request.
func (s *Server) AnnualAverages(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var years []int
	for _, raw := range q["anos"] {
		for _, part := range strings.Split(raw, ",") {
			year, err := intParam(part, "anos")
			if err != nil {
				s.writeError(w, r, err)
				return
			}
			years = append(years, year)
		}
	}
	if len(years) == 0 {
		s.writeError(w, r, &paramError{Param: "anos"})
		return
	}

	months, err := monthsParam(q.Get("meses"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	results, err := s.LookupService.AnnualAverages(r.Context(), years, months)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := make(map[string]any, len(results))
	for _, res := range results {
		key := strconv.Itoa(res.Year)
		if res.Err != nil {
			resp[key] = yearErrorResponse{Erro: res.Err.Error()}
			continue
		}
		resp[key] = newAnnualAverageResponse(res.Average)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Health handles GET /health. It stays 200 so orchestrators keep the
// container up; the body reports what was loaded.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:    "healthy",
		Service:   "API IPCA",
		Version:   Version,
		RootPath:  s.opts.RootPath,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	st, err := s.StatusService.GetStatus(r.Context())
	if err != nil {
		s.logger.Warn("health check could not read series status", "error", err)
		resp.Status = "degraded"
		writeJSON(w, http.StatusOK, resp)
		return
	}

	resp.IPCAService = serviceStatus{
		Fonte:             st.Source,
		DadosDisponiveis:  st.Points > 0,
		TotalRegistros:    st.Points,
		PeriodoInicio:     st.First.String(),
		UltimoPeriodo:     st.Last.String(),
		UltimaAtualizacao: st.LoadedAt.UTC().Format(time.RFC3339),
		Info:              st.Info(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func intParam(raw, name string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, &paramError{Param: name}
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &paramError{Param: name, Value: raw}
	}
	return v, nil
}

// monthsParam parses the optional comma-separated meses list
func monthsParam(raw string) ([]int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var months []int
	for _, part := range strings.Split(raw, ",") {
		month, err := intParam(part, "meses")
		if err != nil {
			return nil, err
		}
		months = append(months, month)
	}
	return months, nil
}

// amountParam parses a monetary amount. Both "1234.56" and the Brazilian
// "1.234,56" are accepted; a comma marks the decimal separator.
func amountParam(raw, name string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, &paramError{Param: name}
	}
	normalized := raw
	if strings.Contains(normalized, ",") {
		normalized = strings.ReplaceAll(normalized, ".", "")
		normalized = strings.Replace(normalized, ",", ".", 1)
	}
	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, &paramError{Param: name, Value: raw}
	}
	return d, nil
}
