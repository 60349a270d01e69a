// Package notify nudges a running gateway to reload its configuration
// without dropping active sessions. Delivery is layered: a reload signal to
// the gateway process, then a control-socket request, and if both fail the
// caller tells the operator to restart by hand. Nothing here is fatal to
// provisioning.
package notify

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/soyeahso/roster/internal/logging"
)

// Delivery methods reported by Reload.
const (
	MethodSignal        = "signal"
	MethodControlSocket = "control-socket"
)

// defaultDialTimeout bounds the control-socket fallback. The signal path
// needs no timeout; sending a signal either works or fails immediately.
const defaultDialTimeout = 3 * time.Second

// reloadFrame is the gateway control protocol's request envelope.
type reloadFrame struct {
	Type   string       `json:"type"`
	ID     string       `json:"id"`
	Method string       `json:"method"`
	Params reloadParams `json:"params"`
}

type reloadParams struct {
	Auth struct {
		Token string `json:"token,omitempty"`
	} `json:"auth"`
}

// Notifier delivers reload nudges to the gateway.
type Notifier struct {
	// ProcessPattern is matched against process command lines (pgrep -f)
	// to locate the running gateway.
	ProcessPattern string

	// DialTimeout bounds the control-socket fallback.
	DialTimeout time.Duration

	log *logging.Logger
}

// NewNotifier creates a notifier for gateways matching the given pattern.
func NewNotifier(pattern string, log *logging.Logger) *Notifier {
	return &Notifier{
		ProcessPattern: pattern,
		DialTimeout:    defaultDialTimeout,
		log:            log.Sub("notify"),
	}
}

// Reload attempts delivery tier by tier and returns the method that worked.
// When every tier fails the returned error describes the last failure; the
// caller decides how loudly to tell the operator.
func (n *Notifier) Reload(ctx context.Context, port int, token string) (string, error) {
	sigErr := n.signalGateway(ctx)
	if sigErr == nil {
		return MethodSignal, nil
	}
	n.log.Debug().Err(sigErr).Msg("signal delivery failed, trying control socket")

	ctlErr := n.controlReload(ctx, port, token)
	if ctlErr == nil {
		return MethodControlSocket, nil
	}

	return "", fmt.Errorf("signal: %v; control socket: %v", sigErr, ctlErr)
}

// signalGateway finds gateway pids via the process table and sends SIGUSR1,
// which gateways interpret as "reload config, keep sessions".
func (n *Notifier) signalGateway(ctx context.Context) error {
	out, err := exec.CommandContext(ctx, "pgrep", "-f", n.ProcessPattern).Output()
	if err != nil {
		return fmt.Errorf("no gateway process matching %q", n.ProcessPattern)
	}

	delivered := 0
	for _, line := range strings.Fields(string(out)) {
		pid, err := strconv.Atoi(line)
		if err != nil {
			continue
		}
		proc, err := os.FindProcess(pid)
		if err != nil {
			continue
		}
		if err := proc.Signal(syscall.SIGUSR1); err != nil {
			n.log.Debug().Int("pid", pid).Err(err).Msg("signal failed")
			continue
		}
		delivered++
		n.log.Info().Int("pid", pid).Msg("sent reload signal")
	}

	if delivered == 0 {
		return fmt.Errorf("found gateway processes but delivered no signal")
	}
	return nil
}

// controlReload connects to the gateway's WebSocket control endpoint and
// sends a config.reload request. Writing the frame counts as delivery; the
// response read is best-effort.
func (n *Notifier) controlReload(ctx context.Context, port int, token string) error {
	timeout := n.DialTimeout
	if timeout <= 0 {
		timeout = defaultDialTimeout
	}
	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	url := fmt.Sprintf("ws://127.0.0.1:%d", port)
	conn, _, err := websocket.DefaultDialer.DialContext(dialCtx, url, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", url, err)
	}
	defer conn.Close()

	frame := reloadFrame{
		Type:   "req",
		ID:     uuid.New().String(),
		Method: "config.reload",
	}
	frame.Params.Auth.Token = token

	_ = conn.SetWriteDeadline(time.Now().Add(timeout))
	if err := conn.WriteJSON(frame); err != nil {
		return fmt.Errorf("send reload frame: %w", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(timeout))
	if _, _, err := conn.ReadMessage(); err != nil {
		n.log.Debug().Err(err).Msg("no control response, frame was sent")
	}
	return nil
}
