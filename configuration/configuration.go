package configuration

import (
	"github.com/fulldump/calorietracker/kvstore"
	"github.com/fulldump/calorietracker/recordstore"
)

type Configuration struct {
	HttpAddr          string         `usage:"HTTP address"`
	Store             kvstore.Config `usage:"durable store"`
	Key               string         `usage:"key holding the records"`
	ApiKey            string         `usage:"required X-Api-Key header, authentication is disabled when empty"`
	ApiSecret         string         `usage:"required X-Api-Secret header"`
	EnableCompression bool           `usage:"gzip responses when the client accepts it"`
	Verbose           bool           `usage:"debug logs"`
	Version           bool           `usage:"show version and exit"`
	ShowBanner        bool           `usage:"show big banner"`
	ShowConfig        bool           `usage:"print config"`
}

func Default() Configuration {
	return Configuration{
		HttpAddr: ":8080",
		Store: kvstore.Config{
			Driver:     string(kvstore.DriverFile),
			Dir:        "./data",
			SqlitePath: "./data/calorietracker.db",
		},
		Key:               recordstore.DefaultKey,
		EnableCompression: true,
		ShowBanner:        true,
	}
}
