package api

import (
	"net/http"

	"github.com/fulldump/box"
	"github.com/fulldump/box/boxopenapi"

	"github.com/fulldump/calorietracker/api/apirecordsv1"
	"github.com/fulldump/calorietracker/metrics"
	"github.com/fulldump/calorietracker/service"
)

func Build(s service.Servicer, m *metrics.Metrics, version string, apiKey, apiSecret string, enableCompression bool) *box.B {

	b := box.NewBox()

	if enableCompression {
		b.WithInterceptors(Compression("/metrics"))
	}

	v1 := b.Resource("/v1")
	v1.WithInterceptors(
		box.SetResponseHeader("Content-Type", "application/json"),
		Authenticate(apiKey, apiSecret),
		InterceptorUnavailable(s),
	)

	apirecordsv1.BuildV1Records(v1, s)

	b.Resource("/v1/*").
		WithActions(box.AnyMethod(func(w http.ResponseWriter) interface{} {
			w.WriteHeader(http.StatusNotImplemented)
			return PrettyError{
				Message:     "not implemented",
				Description: "this endpoint does not exist, please check the documentation",
			}
		}))

	b.Resource("/status").
		WithActions(box.Get(func() *service.Status {
			return s.Status()
		}).WithName("getStatus"))

	b.Resource("/release").
		WithActions(box.Get(func() string {
			return version
		}).WithName("getRelease"))

	if m != nil {
		b.Resource("/metrics").
			WithActions(box.Get(m.Handler().ServeHTTP).WithName("getMetrics"))
	}

	spec := boxopenapi.Spec(b)
	spec.Info.Title = "CalorieTracker"
	spec.Info.Description = "Keep a list of meals and the calories they add up to."
	spec.Info.Contact = &boxopenapi.Contact{
		Url: "https://github.com/fulldump/calorietracker/issues/new",
	}
	b.Handle("GET", "/openapi.json", func(r *http.Request) any {

		spec.Servers = []boxopenapi.Server{
			{
				Url: "https://" + r.Host,
			},
			{
				Url: "http://" + r.Host,
			},
		}

		return spec
	})

	return b
}
