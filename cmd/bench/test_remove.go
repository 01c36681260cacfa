package main

import (
	"fmt"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/fulldump/calorietracker/kvstore"
)

func TestRemove(c Config) {

	createServer := c.Base == ""

	var stop func()
	var store kvstore.Config
	if createServer {
		stop, store = CreateServer(&c)
	}

	client := NewClient()

	fmt.Println("Preload records...")
	for i := int64(0); i < c.N; i++ {
		_, err := Do(client, "POST", c.Base+"/v1/records", JSON{
			"name":     "meal " + strconv.FormatInt(i, 10),
			"calories": "100",
		})
		if err != nil {
			fmt.Println("ERROR: preload:", err.Error())
			return
		}
	}

	ids := c.N
	var failures int64

	t0 := time.Now()
	Parallel(c.Workers, func() {
		for {
			id := atomic.AddInt64(&ids, -1)
			if id < 0 {
				break
			}
			resp, err := Do(client, "DELETE", c.Base+"/v1/records/"+strconv.FormatInt(id, 10), nil)
			if err != nil || resp.StatusCode != http.StatusNoContent {
				atomic.AddInt64(&failures, 1)
			}
		}
	})

	took := time.Since(t0)
	fmt.Println("removed:", c.N, "failures:", failures)
	fmt.Println("took:", took)
	fmt.Printf("Throughput: %.2f rows/sec\n", float64(c.N)/took.Seconds())

	if !createServer {
		return
	}

	stop() // Stop the server
	Reopen(store, 0)
}
