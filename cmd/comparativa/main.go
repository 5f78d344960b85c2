// Command comparativa prices electricity and gas bills from the terminal and
// prepares the local database.
//
// Usage:
//
//	comparativa luz --potencia 4.6 --potencia 4.6 --energia 100 --energia 50 --energia 30 ...
//	comparativa gas --energia 500 --peaje RL.2 ...
//	comparativa estimate --suministro luz --potencia 4.6 --energia 120
//	comparativa seed --db ./comparativas.db
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

var version = "dev"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "comparativa",
		Usage:   "Calcula facturas de luz y gas con los cargos regulados vigentes",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "regulated",
				Usage:   "YAML file overriding the regulated charges",
				EnvVars: []string{"REGULATED_FILE"},
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the breakdown as JSON",
			},
		},
		Commands: []*cli.Command{
			luzCommand(),
			gasCommand(),
			estimateCommand(),
			seedCommand(),
		},
	}
}
