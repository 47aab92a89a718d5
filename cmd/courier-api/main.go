package main

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

func main() {
	app := mustBootstrapCourierAPI()
	defer app.Close()

	if err := app.Run(); err != nil && !errors.Is(err, context.Canceled) {
		logrus.WithError(err).Fatal("courier-api stopped")
	}
}
