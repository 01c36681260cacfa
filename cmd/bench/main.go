package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/fulldump/goconfig"
)

type Config struct {
	Test    string `usage:"name of the test: ALL | ADD | REMOVE"`
	Base    string `usage:"base URL, an in-process server is started when empty"`
	Driver  string `usage:"store driver for the in-process server"`
	N       int64  `usage:"number of records"`
	Workers int    `usage:"number of workers"`
}

var cleanups []func()

func main() {

	defer func() {
		fmt.Println("Cleaning up...")
		for _, cleanup := range cleanups {
			cleanup()
		}
	}()

	c := Config{
		Test:    "add",
		Base:    "",
		Driver:  "file",
		N:       10_000,
		Workers: 16,
	}
	goconfig.Read(&c)

	switch strings.ToUpper(c.Test) {
	case "ALL":
		TestAdd(c)
		TestRemove(c)
	case "ADD":
		TestAdd(c)
	case "REMOVE":
		TestRemove(c)
	default:
		log.Fatalf("Unknown test %s", c.Test)
	}

}
