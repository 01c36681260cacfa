package apirecordsv1

import (
	"context"

	"github.com/fulldump/calorietracker/service"
)

func listRecords(ctx context.Context) ([]service.Record, error) {
	return GetServicer(ctx).List()
}
