package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	_ "github.com/playpalace/playpalace/internal/games"
)

const releaseVersion = "0.4.0"

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	cfg := &Config{}
	cobra.CheckErr(newCmd(cfg).Execute())
}
