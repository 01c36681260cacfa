package apirecordsv1

import (
	"context"
	"net/http"
)

func clearRecords(ctx context.Context, w http.ResponseWriter) error {

	err := GetServicer(ctx).Clear(ctx)
	if err != nil {
		return err
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}
