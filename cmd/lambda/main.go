package main

import (
	"log"

	"github.com/aws/aws-lambda-go/lambda"

	"slack_helper/internal/logger"
)

func main() {
	if err := logger.Init("info"); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if err := initSlackHandler(); err != nil {
		log.Fatalf("Failed to initialize slack handler: %v", err)
	}
	lambda.Start(handleRequest)
}
