package rest

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/simaogato/ipca-api/internal/domain"
)

// paramError reports a query parameter that is missing or not a number
type paramError struct {
	Param string
	Value string
}

func (e *paramError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("missing required parameter %s", e.Param)
	}
	return fmt.Sprintf("invalid parameter %s %q: not a number", e.Param, e.Value)
}

var queryNames = map[string]string{
	domain.FieldMonth:  "mes",
	domain.FieldYear:   "ano",
	domain.FieldAmount: "valor",
}

// queryParam maps a domain field to the query parameter the client sent
func queryParam(field string, side domain.Side) string {
	name, ok := queryNames[field]
	if !ok {
		name = field
	}
	switch side {
	case domain.SideInitial:
		return name + "_inicial"
	case domain.SideFinal:
		return name + "_final"
	}
	return name
}

// mapError translates a service error into a status code and response body
func mapError(err error) (int, errorResponse) {
	var (
		pe   *paramError
		ve   *domain.ValidationError
		nf   *domain.NotFoundError
		side *domain.SideError
	)

	resp := errorResponse{Detail: err.Error()}
	var s domain.Side
	if errors.As(err, &side) {
		s = side.Side
		resp.Side = string(s)
	}

	switch {
	case errors.As(err, &pe):
		resp.Field = pe.Param
		return http.StatusUnprocessableEntity, resp
	case errors.As(err, &ve):
		resp.Field = queryParam(ve.Field, s)
		if ve.Reason == domain.ReasonNegative {
			return http.StatusBadRequest, resp
		}
		if ve.Reason == domain.ReasonOutOfRange {
			min, max := ve.Min, ve.Max
			resp.Min, resp.Max = &min, &max
		}
		return http.StatusUnprocessableEntity, resp
	case errors.As(err, &nf):
		return http.StatusNotFound, resp
	}

	return http.StatusInternalServerError, errorResponse{Detail: "internal server error"}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code, resp := mapError(err)
	if code == http.StatusInternalServerError {
		s.logger.Error("request failed",
			"path", r.URL.Path,
			"request_id", RequestID(r.Context()),
			"error", err,
		)
	}
	writeJSON(w, code, resp)
}
