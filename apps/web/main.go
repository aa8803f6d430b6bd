package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	echoweb "github.com/smartcampusucv/web/apps/web/echo"
	"github.com/smartcampusucv/web/core"
	"github.com/smartcampusucv/web/core/activity"
	"github.com/smartcampusucv/web/core/chat"
	"github.com/smartcampusucv/web/core/enrollment"
	"github.com/smartcampusucv/web/core/participation"
	"github.com/smartcampusucv/web/core/recognition"
	"github.com/smartcampusucv/web/core/user"
	logsvc "github.com/smartcampusucv/web/services/logger"
	"github.com/smartcampusucv/web/storage"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.Conf

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "WEB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	defer logger.Wait()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	repos, err := storage.Open(ctx, conf)
	cancel()
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening backend: %v", err), err)
	}
	if conf.Backend.Demo {
		logger.Info("serving from the in-memory demo backend")
	}

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	server := echoweb.NewServer(
		&echoweb.Options{
			Address:       conf.Server.Address,
			SecureCookies: conf.Server.SecureCookies,
			ReadTimeout:   conf.Server.ReadTimeout,
			WriteTimeout:  conf.Server.WriteTimeout,
		},
		&echoweb.Deps{
			Logger:           logger,
			UserSvc:          user.NewService(repos.Users),
			ActivitySvc:      activity.NewService(repos.Activities),
			EnrollmentSvc:    enrollment.NewService(repos.Enrollments),
			ParticipationSvc: participation.NewService(repos.Participations),
			RecognitionSvc:   recognition.NewService(repos.Recognitions),
			ChatSvc:          chat.NewService(repos.Chat, logger),
		},
	)

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("listening on %s", conf.Server.Address))
		serverErrors <- server.Start()
	}()

	// =========================================================================
	// Shutdown

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err = <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			logger.Fatal(fmt.Sprintf("server error: %v", err), err)
		}

	case sig := <-shutdown:
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err = server.Stop(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)
		}
	}
}
