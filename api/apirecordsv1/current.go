package apirecordsv1

import (
	"context"
	"net/http"

	"github.com/fulldump/calorietracker/service"
)

func getCurrent(ctx context.Context) (*service.Record, error) {
	return GetServicer(ctx).Current()
}

func updateCurrent(ctx context.Context, input *recordRequest) (*service.Record, error) {
	return GetServicer(ctx).UpdateCurrent(ctx, input.Name, string(input.Calories))
}

func deselect(ctx context.Context, w http.ResponseWriter) error {

	err := GetServicer(ctx).Deselect()
	if err != nil {
		return err
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}
