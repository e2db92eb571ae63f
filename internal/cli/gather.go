package cli

import (
	"context"
	"time"

	"github.com/ma3ke/mu/internal/gather"
	"github.com/ma3ke/mu/internal/logger"
	"github.com/ma3ke/mu/internal/roster"
	"github.com/ma3ke/mu/internal/snapshot"
	"github.com/ma3ke/mu/pkg/sshutil"
)

type gatherOptions struct {
	rosterPath string
	outputPath string
	samplerCmd string
	parallel   int
	timeout    time.Duration
}

// gatherCommand runs one orchestrator pass: load the roster, fan out,
// persist. A broken roster or a failed persist is fatal; per-machine
// failures only shrink the result.
func gatherCommand(opts gatherOptions) error {
	machines, err := roster.Load(opts.rosterPath)
	if err != nil {
		return err
	}
	defer sshutil.CloseAgent()

	cluster, _ := gather.Gather(context.Background(), machines,
		gather.NewSSHExecutor(opts.samplerCmd),
		gather.Options{
			Workers: opts.parallel,
			Timeout: opts.timeout,
			Logger:  logger.NewEnvLogger("[gather]"),
		})

	output := opts.outputPath
	if output == "" {
		output = dataPath("")
	}
	return snapshot.Persist(cluster, output)
}
