package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/smartcampusucv/web/core"
	"github.com/smartcampusucv/web/core/participation"
	"github.com/smartcampusucv/web/core/recognition"
	"github.com/smartcampusucv/web/core/user"
	logsvc "github.com/smartcampusucv/web/services/logger"
	"github.com/smartcampusucv/web/storage"
)

var logger core.Logger

func main() {
	std := log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	rollbar := logsvc.NewRollbarLogger(std, core.Conf)
	defer rollbar.Wait()
	logger = rollbar

	// set up backend
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	repos, err := storage.Open(ctx, core.Conf)
	cancel()
	if err != nil {
		logger.Fatal("opening backend", err)
	}

	// start CLI
	cli := commandLine{
		usrSvc:  user.NewService(repos.Users),
		partSvc: participation.NewService(repos.Participations),
		recSvc:  recognition.NewService(repos.Recognitions),
		in:      os.Stdin,
		out:     os.Stdout,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			std.Printf("\nerror: %s\n", err)
		}
		rollbar.Wait()
		os.Exit(1)
	}
}
