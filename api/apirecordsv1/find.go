package apirecordsv1

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/fulldump/calorietracker/service"
)

type findRequest struct {
	Filter map[string]any `json:"filter"`
	Skip   int64          `json:"skip"`
	Limit  int64          `json:"limit"`
}

// find writes one JSON record per line. Limit defaults to everything.
func find(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

	input := &findRequest{
		Filter: map[string]any{},
		Skip:   0,
		Limit:  -1,
	}
	err := json.NewDecoder(r.Body).Decode(input)
	if err != nil && err != io.EOF {
		return err
	}

	s := GetServicer(ctx)

	jsonWriter := json.NewEncoder(w)
	return s.Find(input.Filter, input.Skip, input.Limit, func(record service.Record) {
		jsonWriter.Encode(record)
	})
}
