package apirecordsv1

import (
	"context"

	"github.com/fulldump/calorietracker/service"
)

func getTotal(ctx context.Context) (*service.Total, error) {
	return GetServicer(ctx).Total()
}
