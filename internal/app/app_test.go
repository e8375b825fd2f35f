package app

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/GlebRadaev/rafflehub/internal/config"
	"github.com/GlebRadaev/rafflehub/internal/notify"
)

type ApplicationSuite struct {
	suite.Suite
	app *Application
}

func TestApplication(t *testing.T) {
	suite.Run(t, &ApplicationSuite{})
}

func (s *ApplicationSuite) SetupTest() {
	s.app = New()
	s.app.cfg = &config.Config{NotifyWorkers: 1}
}

func (s *ApplicationSuite) TestWait() {
	ctx, cancel := context.WithCancel(context.Background())

	s.app.errCh = make(chan error)
	go func() {
		s.app.errCh <- fmt.Errorf("mock error")
	}()

	err := s.app.Wait(ctx, cancel)

	s.Require().Error(err)
	s.Contains(err.Error(), "mock error")
}

func (s *ApplicationSuite) TestBuildRepositories_Memory() {
	repos, err := s.app.buildRepositories(context.Background())

	s.Require().NoError(err)
	s.NotNil(repos.Raffles)
	s.NotNil(repos.TXManager)
	s.Empty(s.app.closers)
}

func (s *ApplicationSuite) TestBuildRepositories_BadDSN() {
	s.app.cfg.Database = "://not-a-dsn"

	_, err := s.app.buildRepositories(context.Background())

	s.Require().Error(err)
	s.Contains(err.Error(), "can't build pgx pool")
}

func (s *ApplicationSuite) TestBuildLocker_Local() {
	lock, err := s.app.buildLocker(context.Background())

	s.Require().NoError(err)
	unlock, err := lock.Lock(context.Background(), "raffle:1")
	s.Require().NoError(err)
	unlock()
}

func (s *ApplicationSuite) TestBuildNotifier() {
	s.app.cfg.WebhookURL = "http://127.0.0.1:1/hook"

	dispatcher := s.app.buildNotifier()

	s.NotNil(dispatcher)
	s.NotNil(s.app.pool)
	s.app.shutdown()
	s.False(s.app.pool.TryAddTask(func() error { return nil }))
}

func (s *ApplicationSuite) TestShutdownRunsClosersInReverse() {
	var order []int
	s.app.closers = []func(){
		func() { order = append(order, 1) },
		func() { order = append(order, 2) },
	}
	s.app.pool = notify.NewWorkerPool(1, 1)

	s.app.shutdown()

	s.Equal([]int{2, 1}, order)
}
