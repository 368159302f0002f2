package main

import (
	"github.com/urfave/cli"
)

func configure(app *cli.App) {
	playCMD := makePlayCMD()
	catalogCMD := makeCatalogCMD()
	libraryCMD := makeLibraryCMD()
	accountCMD := makeAccountCMD()
	app.Commands = []cli.Command{playCMD, catalogCMD, libraryCMD, accountCMD}
}
