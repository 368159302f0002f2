package main

import (
	"context"
	"fmt"
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"github.com/kinohive-io/kino-addon/services/debrid"
)

func makeAccountCMD() cli.Command {
	accountCMD := cli.Command{
		Name:   "account",
		Usage:  "Shows debrid account state for every configured service",
		Flags:  registerSettingsFlags(nil),
		Action: account,
	}
	return accountCMD
}

func account(c *cli.Context) error {
	settings := settingsFromContext(c)
	gate := debrid.NewGate(debrid.NewServices(settings, http.DefaultClient)...)
	if !gate.Enabled() {
		fmt.Println("no debrid service configured")
		return nil
	}
	ctx := context.Background()
	for _, svc := range gate.Services() {
		info, err := svc.AccountInfo(ctx)
		if err != nil {
			log.WithError(err).
				WithField("service", svc.Name()).
				Warn("failed to fetch account info")
			continue
		}
		fmt.Printf("%s: %s premium=%v expires=%s\n", info.Service, info.Username, info.Premium, info.Expiration)
	}
	return nil
}
