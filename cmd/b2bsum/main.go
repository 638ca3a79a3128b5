// Command b2bsum prints BLAKE2b checksums and Prefix-MACs.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

func main() {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	if err := newRootCmd(log).Execute(); err != nil {
		os.Exit(1)
	}
}
