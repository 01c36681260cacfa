package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fulldump/goconfig"
	"go.uber.org/zap"

	"github.com/fulldump/calorietracker/bootstrap"
	"github.com/fulldump/calorietracker/configuration"
)

var banner = `
  ____      _            _      _____               _
 / ___|__ _| | ___  _ __(_) ___|_   _| __ __ _  ___| | _____ _ __
| |   / _' | |/ _ \| '__| |/ _ \ | || '__/ _' |/ __| |/ / _ \ '__|
| |__| (_| | | (_) | |  | |  __/ | || | | (_| | (__|   <  __/ |
 \____\__,_|_|\___/|_|  |_|\___| |_||_|  \__,_|\___|_|\_\___|_|
                                        version ` + bootstrap.VERSION + `
`

func main() {

	c := configuration.Default()
	goconfig.Read(&c)

	if c.Version {
		fmt.Println("Version:", bootstrap.VERSION)
		return
	}

	if c.ShowBanner {
		fmt.Println(banner)
	}

	if c.ShowConfig {
		e := json.NewEncoder(os.Stdout)
		e.SetIndent("", "    ")
		e.Encode(c)
	}

	logger, err := bootstrap.NewLogger(c.Verbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err.Error())
		os.Exit(-1)
	}
	defer logger.Sync()

	start, _, err := bootstrap.Bootstrap(&c, logger)
	if err != nil {
		logger.Error("bootstrap", zap.Error(err))
		os.Exit(-1)
	}

	err = start()
	if err != nil {
		logger.Error("start", zap.Error(err))
		logger.Sync()
		os.Exit(-1)
	}
}
