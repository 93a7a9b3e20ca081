package main

import (
	"context"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/slack-go/slack"

	"slack_helper/internal/classifier"
	"slack_helper/internal/config"
	"slack_helper/internal/executor"
	"slack_helper/internal/handler"
	"slack_helper/internal/policy"
	"slack_helper/internal/task"
)

var ginLambda *ginadapter.GinLambda

// initSlackHandler builds the dispatch pipeline once per cold start and
// wraps the gin router for API Gateway. Socket mode is not used here;
// API Gateway delivers the events.
func initSlackHandler() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	api := slack.New(cfg.SlackBotToken)
	auth, err := api.AuthTest()
	if err != nil {
		return fmt.Errorf("failed to verify slack credentials: %v", err)
	}

	exec := executor.New(api)
	runner := task.NewRunner(exec, 2, 16)

	h := handler.New(classifier.New(auth.UserID, auth.BotID), policy.New(), exec, runner)
	ginLambda = ginadapter.New(handler.Router(h, cfg.SlackSigningSecret))
	return nil
}

func handleRequest(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return ginLambda.ProxyWithContext(ctx, req)
}
