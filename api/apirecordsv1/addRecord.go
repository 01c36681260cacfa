package apirecordsv1

import (
	"context"
	"net/http"

	"github.com/fulldump/calorietracker/service"
)

func addRecord(ctx context.Context, w http.ResponseWriter, input *recordRequest) (*service.Record, error) {

	s := GetServicer(ctx)

	record, err := s.Add(ctx, input.Name, string(input.Calories))
	if err != nil {
		return nil, err
	}

	w.WriteHeader(http.StatusCreated)
	return record, nil
}
