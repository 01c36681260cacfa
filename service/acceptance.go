package service

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/fulldump/apitest"
	"github.com/fulldump/biff"
)

type JSON = map[string]interface{}

// decodeLines reads a JSON lines body, as returned by find.
func decodeLines(body string) []interface{} {
	result := []interface{}{}
	dec := json.NewDecoder(strings.NewReader(body))
	for {
		var row interface{}
		err := dec.Decode(&row)
		if err == io.EOF {
			break
		}
		if err != nil {
			panic(err)
		}
		result = append(result, row)
	}
	return result
}

func Acceptance(a *biff.A, apiRequest func(method, path string) *apitest.Request) {

	rice := JSON{"id": 0, "name": "rice", "calories": 100}
	beans := JSON{"id": 1, "name": "beans", "calories": 110}

	a.Alternative("List records - empty", func(a *biff.A) {
		resp := apiRequest("GET", "/records").Do()
		Save(resp, "List records - empty", ``)

		biff.AssertEqual(resp.StatusCode, http.StatusOK)
		biff.AssertEqualJson(resp.BodyJson(), []JSON{})
	})

	a.Alternative("Add record - invalid calories", func(a *biff.A) {
		resp := apiRequest("POST", "/records").
			WithBodyJson(JSON{
				"name":     "mystery",
				"calories": "abc",
			}).Do()
		Save(resp, "Add record - invalid calories", `
			Calories must start with a non-negative integer, the rest of the
			text is ignored.
		`)

		biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
		biff.AssertEqualJson(resp.BodyJson(), JSON{
			"error": JSON{
				"message":     "invalid calories: must start with a non-negative integer",
				"description": "Invalid calories",
			},
		})

		resp = apiRequest("GET", "/records").Do()
		biff.AssertEqualJson(resp.BodyJson(), []JSON{})
	})

	a.Alternative("Add record", func(a *biff.A) {
		resp := apiRequest("POST", "/records").
			WithBodyJson(JSON{
				"name":     "rice",
				"calories": "100",
			}).Do()
		Save(resp, "Add record", `
			Calories are accepted as text or as a number. The id is the id of the
			last record plus one.
		`)

		biff.AssertEqual(resp.StatusCode, http.StatusCreated)
		biff.AssertEqualJson(resp.BodyJson(), rice)

		a.Alternative("Get record", func(a *biff.A) {
			resp := apiRequest("GET", "/records/0").Do()
			Save(resp, "Get record", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), rice)
		})

		a.Alternative("Get record - not found", func(a *biff.A) {
			resp := apiRequest("GET", "/records/7").Do()
			Save(resp, "Get record - not found", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
		})

		a.Alternative("Get record - invalid id", func(a *biff.A) {
			resp := apiRequest("GET", "/records/abc").Do()

			biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
		})

		a.Alternative("Current - no selection", func(a *biff.A) {
			resp := apiRequest("GET", "/current").Do()
			Save(resp, "Current - no selection", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
		})

		a.Alternative("Update current - no selection", func(a *biff.A) {
			resp := apiRequest("PATCH", "/current").
				WithBodyJson(JSON{
					"name":     "bread",
					"calories": "200",
				}).Do()

			biff.AssertEqual(resp.StatusCode, http.StatusNotFound)

			resp = apiRequest("GET", "/records").Do()
			biff.AssertEqualJson(resp.BodyJson(), []JSON{rice})
		})

		a.Alternative("Select record - not found", func(a *biff.A) {
			resp := apiRequest("POST", "/records/9:select").Do()

			biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
		})

		a.Alternative("Select record", func(a *biff.A) {
			resp := apiRequest("POST", "/records/0:select").Do()
			Save(resp, "Select record", `
				The selected record is the one modified by PATCH /v1/current.
			`)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), rice)

			a.Alternative("Get current", func(a *biff.A) {
				resp := apiRequest("GET", "/current").Do()
				Save(resp, "Get current", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(resp.BodyJson(), rice)
			})

			a.Alternative("Update current", func(a *biff.A) {
				resp := apiRequest("PATCH", "/current").
					WithBodyJson(JSON{
						"name":     "brown rice",
						"calories": "120",
					}).Do()
				Save(resp, "Update current", ``)

				expected := JSON{"id": 0, "name": "brown rice", "calories": 120}
				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(resp.BodyJson(), expected)

				resp = apiRequest("GET", "/records/0").Do()
				biff.AssertEqualJson(resp.BodyJson(), expected)

				resp = apiRequest("GET", "/total").Do()
				biff.AssertEqualJson(resp.BodyJson(), JSON{"total_calories": 120, "records": 1})
			})

			a.Alternative("Update current - invalid calories", func(a *biff.A) {
				resp := apiRequest("PATCH", "/current").
					WithBodyJson(JSON{
						"name":     "brown rice",
						"calories": "",
					}).Do()

				biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)

				resp = apiRequest("GET", "/records/0").Do()
				biff.AssertEqualJson(resp.BodyJson(), rice)
			})

			a.Alternative("Deselect", func(a *biff.A) {
				resp := apiRequest("DELETE", "/current").Do()
				Save(resp, "Deselect", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusNoContent)

				resp = apiRequest("GET", "/current").Do()
				biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
			})

			a.Alternative("Delete selected record", func(a *biff.A) {
				resp := apiRequest("DELETE", "/records/0").Do()
				biff.AssertEqual(resp.StatusCode, http.StatusNoContent)

				resp = apiRequest("PATCH", "/current").
					WithBodyJson(JSON{
						"name":     "bread",
						"calories": "200",
					}).Do()
				biff.AssertEqual(resp.StatusCode, http.StatusNotFound)

				resp = apiRequest("GET", "/records").Do()
				biff.AssertEqualJson(resp.BodyJson(), []JSON{})
			})
		})

		a.Alternative("Add second record", func(a *biff.A) {
			resp := apiRequest("POST", "/records").
				WithBodyJson(JSON{
					"name":     "beans",
					"calories": 110,
				}).Do()

			biff.AssertEqual(resp.StatusCode, http.StatusCreated)
			biff.AssertEqualJson(resp.BodyJson(), beans)

			a.Alternative("List records", func(a *biff.A) {
				resp := apiRequest("GET", "/records").Do()
				Save(resp, "List records", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(resp.BodyJson(), []JSON{rice, beans})
			})

			a.Alternative("Total", func(a *biff.A) {
				resp := apiRequest("GET", "/total").Do()
				Save(resp, "Total", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(resp.BodyJson(), JSON{"total_calories": 210, "records": 2})
			})

			a.Alternative("Find with filter", func(a *biff.A) {
				resp := apiRequest("POST", "/records:find").
					WithBodyJson(JSON{
						"filter": JSON{
							"calories": JSON{"$gt": 105},
						},
					}).Do()
				Save(resp, "Find - with filter", `
					Returns one JSON record per line.
				`)

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(decodeLines(resp.BodyString()), []JSON{beans})
			})

			a.Alternative("Find with skip and limit", func(a *biff.A) {
				resp := apiRequest("POST", "/records:find").
					WithBodyJson(JSON{
						"skip":  1,
						"limit": 1,
					}).Do()
				Save(resp, "Find - skip and limit", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(decodeLines(resp.BodyString()), []JSON{beans})
			})

			a.Alternative("Delete record", func(a *biff.A) {
				resp := apiRequest("DELETE", "/records/0").Do()
				Save(resp, "Delete record", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusNoContent)

				resp = apiRequest("GET", "/records").Do()
				biff.AssertEqualJson(resp.BodyJson(), []JSON{beans})

				resp = apiRequest("GET", "/total").Do()
				biff.AssertEqualJson(resp.BodyJson(), JSON{"total_calories": 110, "records": 1})

				resp = apiRequest("POST", "/records").
					WithBodyJson(JSON{"name": "bread", "calories": "80"}).Do()
				biff.AssertEqualJson(resp.BodyJson(), JSON{"id": 2, "name": "bread", "calories": 80})
			})

			a.Alternative("Delete record - not found", func(a *biff.A) {
				resp := apiRequest("DELETE", "/records/42").Do()

				biff.AssertEqual(resp.StatusCode, http.StatusNoContent)

				resp = apiRequest("GET", "/records").Do()
				biff.AssertEqualJson(resp.BodyJson(), []JSON{rice, beans})
			})

			a.Alternative("Clear records", func(a *biff.A) {
				resp := apiRequest("POST", "/records:clear").Do()
				Save(resp, "Clear records", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusNoContent)

				resp = apiRequest("GET", "/records").Do()
				biff.AssertEqualJson(resp.BodyJson(), []JSON{})

				resp = apiRequest("POST", "/records").
					WithBodyJson(JSON{"name": "soup", "calories": "90"}).Do()
				biff.AssertEqualJson(resp.BodyJson(), JSON{"id": 0, "name": "soup", "calories": 90})
			})
		})
	})
}
