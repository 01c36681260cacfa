package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fulldump/calorietracker/bootstrap"
	"github.com/fulldump/calorietracker/configuration"
	"github.com/fulldump/calorietracker/kvstore"
	"github.com/fulldump/calorietracker/session"
)

type JSON = map[string]any

func Parallel(workers int, f func()) {
	wg := &sync.WaitGroup{}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f()
		}()
	}
	wg.Wait()
}

func TempDir() (string, func()) {
	dir, err := os.MkdirTemp("", "calorietracker_bench_*")
	if err != nil {
		panic("Could not create temp directory: " + err.Error())
	}

	cleanup := func() {
		os.RemoveAll(dir)
	}

	return dir, cleanup
}

func NewClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			MaxConnsPerHost:     1024,
			MaxIdleConnsPerHost: 1024,
			MaxIdleConns:        1024,
		},
		Timeout: 10 * time.Second,
	}
}

func Do(client *http.Client, method, url string, body any) (*http.Response, error) {
	var r io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		r = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, url, r)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return resp, nil
}

// StoreConfig is the store used by the in-process server, rooted at dir.
func StoreConfig(c *Config, dir string) kvstore.Config {
	return kvstore.Config{
		Driver:     c.Driver,
		Dir:        dir,
		SqlitePath: dir + "/bench.db",
	}
}

// CreateServer starts an in-process server over a temporary store and waits
// until the session is operating.
func CreateServer(c *Config) (stop func(), store kvstore.Config) {
	dir, cleanup := TempDir()
	cleanups = append(cleanups, cleanup)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		panic(err)
	}
	addr := ln.Addr().String()
	ln.Close()

	conf := configuration.Default()
	conf.HttpAddr = addr
	conf.Store = StoreConfig(c, dir)
	c.Base = "http://" + addr

	start, stop, err := bootstrap.Bootstrap(&conf, zap.NewNop())
	if err != nil {
		panic(err)
	}
	go start()

	client := NewClient()
	for i := 0; i < 500; i++ {
		resp, err := Do(client, "GET", c.Base+"/v1/total", nil)
		if err == nil && resp.StatusCode == http.StatusOK {
			return stop, conf.Store
		}
		time.Sleep(10 * time.Millisecond)
	}
	panic("server did not become operating")
}

// Reopen measures how long a new session takes to load the store.
func Reopen(store kvstore.Config, n int64) {
	t0 := time.Now()
	s := session.New(&session.Config{Store: store})
	err := s.Load(context.Background())
	if err != nil {
		fmt.Println("ERROR: reopen:", err.Error())
		return
	}
	defer s.Stop()
	took := time.Since(t0)
	fmt.Println("open took:", took, "records:", s.Manager().Len())
	if n > 0 {
		fmt.Printf("Throughput Open: %.2f rows/sec\n", float64(n)/took.Seconds())
	}
}
