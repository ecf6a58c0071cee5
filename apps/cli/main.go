package main

import (
	"log"
	"os"

	"github.com/innexgo/hours-go/core"
	"github.com/innexgo/hours-go/hours"
	"github.com/innexgo/hours-go/storage/keystore"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "HOURS : ", log.LstdFlags)

	cli := commandLine{
		client: hours.NewClient(hours.Options{}),
		keys:   keystore.New(core.Conf.GetString("keystorePath")),
		out:    os.Stdout,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}
