package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
)

func (a *App) getStatus() string {
	s := ""
	sess, err := a.authService.CurrentSession(context.Background())
	if err == nil && sess.Valid() {
		s = sess.Username + " " + string(sess.Role)
	}
	if mode := a.CurrentMode(); mode != "" {
		if s != "" {
			s = s + " "
		}
		s = s + string(mode)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

func (a *App) Root(ctx context.Context) {

	log.Println("Welcome to PharmTrack CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	go func() {
		a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)
	}()

	runREPL(ctx, a, a.getStatus, scanner)
}
