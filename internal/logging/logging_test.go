package logging

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	t.Cleanup(func() {
		logrus.SetLevel(logrus.InfoLevel)
		logrus.SetFormatter(&logrus.TextFormatter{})
	})

	require.NoError(t, Setup("debug", "json"))
	require.Equal(t, logrus.DebugLevel, logrus.GetLevel())
	_, isJSON := logrus.StandardLogger().Formatter.(*logrus.JSONFormatter)
	require.True(t, isJSON)

	require.NoError(t, Setup("", ""))
	require.Equal(t, logrus.InfoLevel, logrus.GetLevel())

	require.Error(t, Setup("loud", "text"))
	require.Error(t, Setup("info", "xml"))
}
