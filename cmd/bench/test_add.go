package main

import (
	"fmt"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"
)

func TestAdd(c Config) {

	if c.Base == "" {
		stop, store := CreateServer(&c)
		defer func() {
			stop()
			Reopen(store, c.N)
		}()
	}

	client := NewClient()

	items := c.N
	var failures int64

	t0 := time.Now()
	Parallel(c.Workers, func() {
		for {
			n := atomic.AddInt64(&items, -1)
			if n < 0 {
				break
			}
			resp, err := Do(client, "POST", c.Base+"/v1/records", JSON{
				"name":     "meal " + strconv.FormatInt(n, 10),
				"calories": strconv.FormatInt(n%900, 10),
			})
			if err != nil || resp.StatusCode != http.StatusCreated {
				atomic.AddInt64(&failures, 1)
			}
		}
	})

	took := time.Since(t0)
	fmt.Println("sent:", c.N, "failures:", failures)
	fmt.Println("took:", took)
	fmt.Printf("Throughput: %.2f rows/sec\n", float64(c.N)/took.Seconds())
}
