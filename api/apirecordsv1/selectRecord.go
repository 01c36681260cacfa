package apirecordsv1

import (
	"context"

	"github.com/fulldump/calorietracker/service"
)

func selectRecord(ctx context.Context) (*service.Record, error) {

	id, err := getRecordId(ctx)
	if err != nil {
		return nil, err
	}

	return GetServicer(ctx).Select(id)
}
