package apirecordsv1

import (
	"github.com/fulldump/box"

	"github.com/fulldump/calorietracker/service"
)

func BuildV1Records(v1 *box.R, s service.Servicer) *box.R {

	v1.WithInterceptors(
		injectServicer(s),
	)

	records := v1.Resource("/records").
		WithActions(
			box.Get(listRecords).WithName("listRecords"),
			box.Post(addRecord).WithName("addRecord"),
			box.ActionPost(find).WithName("find"),
			box.ActionPost(clearRecords).WithName("clear"),
		)

	v1.Resource("/records/{recordId}").
		WithActions(
			box.Get(getRecord).WithName("getRecord"),
			box.Delete(removeRecord).WithName("removeRecord"),
			box.ActionPost(selectRecord).WithName("select"),
		)

	v1.Resource("/current").
		WithActions(
			box.Get(getCurrent).WithName("getCurrent"),
			box.Patch(updateCurrent).WithName("updateCurrent"),
			box.Delete(deselect).WithName("deselect"),
		)

	v1.Resource("/total").
		WithActions(
			box.Get(getTotal).WithName("getTotal"),
		)

	return records
}
