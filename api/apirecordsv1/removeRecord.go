package apirecordsv1

import (
	"context"
	"net/http"
)

// removeRecord succeeds for unknown ids too.
func removeRecord(ctx context.Context, w http.ResponseWriter) error {

	id, err := getRecordId(ctx)
	if err != nil {
		return err
	}

	err = GetServicer(ctx).Remove(ctx, id)
	if err != nil {
		return err
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}
