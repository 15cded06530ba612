package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/kzaag/cqlsync/cass"
	"github.com/kzaag/cqlsync/cmn"
	"github.com/kzaag/cqlsync/target"
)

func main() {
	args := target.NewArgsFromCli()
	out := cmn.PrinterNew(args.Raw)
	logger := cmn.LoggerNew(os.Stderr, args.Verbose, args.Raw)

	c, err := target.NewConfigFromPath(args.ConfigPath, args)
	if err != nil {
		out.Error(err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	/*
		drivers are linked statically,
		go plugins only work on a handful of platforms.
	*/
	switch c.Driver {
	case "cassandra", "":
		err = cass.TargetCtxNew(logger, out).ExecConfig(ctx, c, args)
	default:
		err = fmt.Errorf("unknown driver: %s", c.Driver)
	}

	if err != nil {
		out.Error(err)
		stop()
		os.Exit(1)
	}
}
