// CargoFit - 3D container load planner
//
// Packs a cargo list into a single container, truck or air ULD and
// exports the load plan as JSON, PDF, Excel or DXF. `cargofit serve`
// exposes the same engine over HTTP.
//
// Build:
//   go build -o cargofit ./cmd/cargofit
//
// Version information is injected at build time:
//   go build -ldflags "-X main.version=1.2.0 -X main.commit=$(git rev-parse --short HEAD)" ./cmd/cargofit

package main

import (
	"github.com/piwi3910/CargoFit/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.Version = version
	cli.Commit = commit
	cli.Date = date
	cli.Execute(cli.NewRootCommand())
}
