package main

import (
	"os"

	"github.com/MKhiriev/go-pyleus/internal/app"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	providerArgs, args := splitProviderArgs(os.Args[1:])

	cmd := newRootCmd(app.NewBuildInfo(buildVersion, buildDate, buildCommit), providerArgs)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
