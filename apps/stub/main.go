package main

import (
	"log"
	"os"

	"github.com/innexgo/hours-go/core"
	"github.com/innexgo/hours-go/hours"
	logsvc "github.com/innexgo/hours-go/services/logger"
	"github.com/innexgo/hours-go/stubserver"
)

func main() {
	std := log.New(os.Stdout, "STUB : ", log.LstdFlags)
	logger := logsvc.NewConsoleLogger(std)

	db := stubserver.NewDB()
	seed := db.RegisterKey(hours.APIKey{
		Key:           core.Conf.GetString("stubAPIKey"),
		CreatorUserID: 1,
		Duration:      (7 * 24 * 60 * 60) * 1000,
	})
	logger.Info("accepting api key " + seed.Key + " for user 1")

	app := stubserver.NewServer(
		&stubserver.Options{
			Address: core.Conf.GetString("stubAddress"),
			DB:      db,
			Logger:  logger,
		},
	)
	app.Start()
}
