package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"log"

	"github.com/golang/glog"

	"github.com/robotalks/relais.go/pkg/env"
	fx "github.com/robotalks/relais.go/pkg/framework"
	"github.com/robotalks/relais.go/pkg/relais"
	"github.com/robotalks/relais.go/pkg/remote"
)

func init() {
	relais.SetupFlags()
	env.SetupFlags()
}

func main() {
	flag.Parse()
	defer glog.Flush()

	r := relais.Default().MustOpen()
	defer r.Close()
	if !r.Initialized() {
		glog.Warning("setup failed, relay chain not initialized")
	} else {
		glog.Infof("%s %s firmware %s, %d boards on %s",
			r.Manufacturer(), r.Model(), r.FirmwareVersion(), r.NumberOfBoards(), r.DevicePort())
	}

	e := env.Default().MustNewEnv(remote.NewService(r))
	if err := fx.NewRunner().HandleSignals().Go(e.Runnables...).Wait(); err != nil {
		log.Fatalln(err)
	}
}
