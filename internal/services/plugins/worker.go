package plugins

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"os/exec"
	"strings"
	"time"

	"github.com/JosiasAurel/scrapbook-v2/internal/bus"
)

// message is the envelope written to a plugin's stdin.
type message struct {
	EventType string `json:"eventType"`
	Data      any    `json:"data"`
}

// Result records the outcome of one plugin invocation.
type Result struct {
	EventType string
	Command   string
	Key       string
	Response  string
	Err       error
	Elapsed   time.Duration
}

// invoke runs one plugin command against one event and reports the outcome.
// The command runs through the shell so registry entries can name an
// interpreter and arguments. The context deadline kills the process.
func invoke(ctx context.Context, command string, evt bus.Event, timeout time.Duration) Result {
	start := time.Now()
	res := Result{EventType: evt.Type, Command: command, Key: evt.Key}

	payload, err := json.Marshal(message{EventType: evt.Type, Data: evt.Data})
	if err != nil {
		res.Err = err
		res.Elapsed = time.Since(start)
		return res
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, "/bin/sh", "-c", command)
	cmd.Stdin = bytes.NewReader(append(payload, '\n'))
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = nil

	err = cmd.Run()
	res.Elapsed = time.Since(start)
	if runCtx.Err() == context.DeadlineExceeded {
		res.Err = context.DeadlineExceeded
		return res
	}
	if err != nil {
		res.Err = err
		return res
	}

	// At most one response line; anything further is the plugin's own noise.
	sc := bufio.NewScanner(&stdout)
	if sc.Scan() {
		res.Response = strings.TrimSpace(sc.Text())
	}
	return res
}
