package cli

import (
	"github.com/ma3ke/mu/internal/logger"
	"github.com/ma3ke/mu/internal/web"
)

// webCommand serves the dashboard until the process is killed.
func webCommand(dataPath, listenAddr string) error {
	srv, err := web.NewServer(dataPath, logger.NewEnvLogger("[web]"))
	if err != nil {
		return err
	}
	return srv.ListenAndServe(listenAddr)
}
