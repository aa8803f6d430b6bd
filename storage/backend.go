// Package storage picks the backend the application talks to.
package storage

import (
	"context"

	"github.com/pkg/errors"

	"github.com/smartcampusucv/web/core"
	"github.com/smartcampusucv/web/core/activity"
	"github.com/smartcampusucv/web/core/chat"
	"github.com/smartcampusucv/web/core/enrollment"
	"github.com/smartcampusucv/web/core/participation"
	"github.com/smartcampusucv/web/core/recognition"
	"github.com/smartcampusucv/web/core/user"
	inmemdb "github.com/smartcampusucv/web/storage/inmem"
	restrepos "github.com/smartcampusucv/web/storage/rest"
)

// Repositories is one implementation of every domain repository.
type Repositories struct {
	Users          user.Repository
	Activities     activity.Repository
	Enrollments    enrollment.Repository
	Participations participation.Repository
	Recognitions   recognition.Repository
	Chat           chat.Repository
}

// Open connects to the REST backend, or builds a seeded in-memory one when conf.Backend.Demo is set.
func Open(ctx context.Context, conf *core.Config) (Repositories, error) {
	if conf.Backend.Demo {
		return OpenDemo(conf)
	}
	c := restrepos.NewClient(conf.Backend.BaseURL, conf.Backend.Timeout)
	if err := c.Ping(ctx, 5); err != nil {
		return Repositories{}, errors.Wrapf(err, "reaching %s", conf.Backend.BaseURL)
	}
	return Repositories{
		Users:          restrepos.NewUserRepository(c),
		Activities:     restrepos.NewActivityRepository(c),
		Enrollments:    restrepos.NewEnrollmentRepository(c),
		Participations: restrepos.NewParticipationRepository(c),
		Recognitions:   restrepos.NewRecognitionRepository(c),
		Chat:           restrepos.NewChatRepository(c),
	}, nil
}

func OpenDemo(conf *core.Config) (Repositories, error) {
	db := inmemdb.Open(conf.SecretKey)
	if err := db.Seed(conf.InstitutionalDomain); err != nil {
		return Repositories{}, errors.Wrap(err, "seeding demo backend")
	}
	return Repositories{
		Users:          inmemdb.NewUserRepository(db),
		Activities:     inmemdb.NewActivityRepository(db),
		Enrollments:    inmemdb.NewEnrollmentRepository(db),
		Participations: inmemdb.NewParticipationRepository(db),
		Recognitions:   inmemdb.NewRecognitionRepository(db),
		Chat:           inmemdb.NewChatRepository(db),
	}, nil
}
