package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/socketmode"
	"golang.org/x/sync/errgroup"

	"slack_helper/internal/classifier"
	"slack_helper/internal/config"
	"slack_helper/internal/executor"
	"slack_helper/internal/handler"
	"slack_helper/internal/logger"
	"slack_helper/internal/policy"
	"slack_helper/internal/task"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := logger.Init(cfg.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	api := slack.New(cfg.SlackBotToken, slack.OptionAppLevelToken(cfg.SlackAppToken))
	auth, err := api.AuthTest()
	if err != nil {
		log.Fatalf("Failed to verify slack credentials: %v", err)
	}

	exec := executor.New(api)
	runner := task.NewRunner(exec, 4, 64)
	defer runner.Stop()

	h := handler.New(classifier.New(auth.UserID, auth.BotID), policy.New(), exec, runner)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler.Router(h, cfg.SlackSigningSecret),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return h.RunSocketMode(ctx, socketmode.New(api))
	})
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		return srv.Shutdown(context.Background())
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Server error: %v", err)
	}
}
