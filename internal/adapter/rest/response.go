package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/simaogato/ipca-api/internal/domain"
	"github.com/simaogato/ipca-api/internal/usecase/lookup"
)

// seriesData encodes the series as a JSON object keyed MM/YYYY.
// encoding/json sorts map keys lexically, which would interleave years,
// so the object is written by hand in chronological order.
type seriesData []domain.IndexPoint

func (d seriesData) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, point := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(point.Period.String())
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(point.Value.String())
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type seriesResponse struct {
	Info string     `json:"info"`
	Data seriesData `json:"data"`
}

type valueResponse struct {
	Data  string      `json:"data"`
	Valor json.Number `json:"valor"`
}

type correctionResponse struct {
	ValorInicial            json.Number `json:"valor_inicial"`
	DataInicial             string      `json:"data_inicial"`
	DataFinal               string      `json:"data_final"`
	IndiceIPCAInicial       json.Number `json:"indice_ipca_inicial"`
	IndiceIPCAFinal         json.Number `json:"indice_ipca_final"`
	ValorCorrigido          json.Number `json:"valor_corrigido"`
	PercentualCorrecao      json.Number `json:"percentual_correcao"`
	ValorCorrigidoFormatado string      `json:"valor_corrigido_formatado"`
}

type annualAverageResponse struct {
	Ano              int                    `json:"ano"`
	MediaIPCA        json.Number            `json:"media_ipca"`
	TotalMeses       int                    `json:"total_meses"`
	MesesDisponiveis []string               `json:"meses_disponiveis"`
	ValoresMensais   map[string]json.Number `json:"valores_mensais"`
}

func newAnnualAverageResponse(avg *lookup.AnnualAverage) annualAverageResponse {
	resp := annualAverageResponse{
		Ano:              avg.Year,
		MediaIPCA:        number(avg.Average.Round(4)),
		TotalMeses:       len(avg.Points),
		MesesDisponiveis: make([]string, 0, len(avg.Points)),
		ValoresMensais:   make(map[string]json.Number, len(avg.Points)),
	}
	for _, p := range avg.Points {
		key := fmt.Sprintf("%02d", p.Period.Month)
		resp.MesesDisponiveis = append(resp.MesesDisponiveis, key)
		resp.ValoresMensais[key] = number(p.Value)
	}
	return resp
}

// yearErrorResponse replaces the average of a year that has none
type yearErrorResponse struct {
	Erro string `json:"erro"`
}

type serviceStatus struct {
	Fonte             string `json:"fonte"`
	DadosDisponiveis  bool   `json:"dados_disponiveis"`
	TotalRegistros    int    `json:"total_registros"`
	PeriodoInicio     string `json:"periodo_inicio"`
	UltimoPeriodo     string `json:"ultimo_periodo"`
	UltimaAtualizacao string `json:"ultima_atualizacao"`
	Info              string `json:"info"`
}

type healthResponse struct {
	Status      string        `json:"status"`
	Service     string        `json:"service"`
	Version     string        `json:"version"`
	RootPath    string        `json:"root_path"`
	Timestamp   string        `json:"timestamp"`
	IPCAService serviceStatus `json:"ipca_service"`
}

type errorResponse struct {
	Detail string `json:"detail"`
	Field  string `json:"field,omitempty"`
	Side   string `json:"side,omitempty"`
	Min    *int   `json:"min,omitempty"`
	Max    *int   `json:"max,omitempty"`
}

func number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

func fixed(d decimal.Decimal, places int32) json.Number {
	return json.Number(d.StringFixed(places))
}
