// Package console runs an installed server in the foreground, bridging its
// console to the operator and enforcing an orderly shutdown.
package console

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/pterm/pterm"
)

// Status is the supervisor lifecycle state.
type Status int32

const (
	Starting Status = iota
	Running
	Stopping
	Terminated
)

// Supervisor owns one spawned server process for its whole lifetime. Two
// concurrent activities run while the process is up: a drain goroutine that
// only reads the combined output stream, and the foreground loop that only
// writes operator input. They share nothing but the process's own streams
// and one atomic stop flag.
type Supervisor struct {
	In          io.Reader // operator input, os.Stdin when nil
	Out         io.Writer // forwarded server output, os.Stdout when nil
	StopCommand string    // defaults to "stop"
	Grace       time.Duration

	status        atomic.Int32
	stopRequested atomic.Bool
}

func New() *Supervisor {
	return &Supervisor{StopCommand: "stop", Grace: 60 * time.Second}
}

func (s *Supervisor) Status() Status {
	return Status(s.status.Load())
}

// Run spawns the command in dir and blocks until it terminates, or until the
// grace period after a requested stop elapses and it is killed. The child's
// exit code is returned as a value; only failing to spawn is an error.
func (s *Supervisor) Run(command []string, dir string) (int, error) {
	if len(command) == 0 {
		return -1, fmt.Errorf("empty launch command")
	}
	in, out := s.In, s.Out
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}

	cmd := exec.Command(command[0], command[1:]...)
	cmd.Dir = dir

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return -1, fmt.Errorf("open server stdin: %w", err)
	}
	outR, outW, err := os.Pipe()
	if err != nil {
		return -1, fmt.Errorf("open server output pipe: %w", err)
	}
	cmd.Stdout = outW
	cmd.Stderr = outW

	s.status.Store(int32(Starting))
	if err := cmd.Start(); err != nil {
		outR.Close()
		outW.Close()
		return -1, fmt.Errorf("start server: %w", err)
	}
	// The child holds its own copy of the write end; ours would keep the
	// drain alive past process exit.
	outW.Close()
	s.status.Store(int32(Running))

	// Drain: forwards server output verbatim until the stream closes. Runs
	// to EOF no matter how the foreground loop exits.
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		defer outR.Close()
		sc := bufio.NewScanner(outR)
		sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for sc.Scan() {
			fmt.Fprintln(out, sc.Text())
		}
	}()

	exited := make(chan error, 1)
	go func() { exited <- cmd.Wait() }()

	// Operator input, one line at a time. The channel closes on EOF.
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			lines <- sc.Text()
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	for {
		select {
		case <-exited:
			// Exited on its own; nothing left to stop.
			s.status.Store(int32(Stopping))
			return s.finish(cmd, drained)
		case line, ok := <-lines:
			if !ok {
				s.requestStop(stdin)
				return s.awaitStop(cmd, exited, drained)
			}
			if _, err := io.WriteString(stdin, line+"\n"); err != nil {
				// Process is going away; let exited deliver the verdict.
				lines = nil
			}
		case <-sigCh:
			s.requestStop(stdin)
			return s.awaitStop(cmd, exited, drained)
		}
	}
}

// requestStop writes one shutdown command line to the server. A broken pipe
// here is the expected race with a server already exiting.
func (s *Supervisor) requestStop(stdin io.WriteCloser) {
	// Operator EOF and an interrupt can race; the server gets one stop line.
	if !s.stopRequested.CompareAndSwap(false, true) {
		return
	}
	s.status.Store(int32(Stopping))
	pterm.Warning.Println("Sending '" + s.StopCommand + "' to the server...")
	if _, err := io.WriteString(stdin, s.StopCommand+"\n"); err == nil {
		stdin.Close()
	}
}

// awaitStop waits for natural termination within the grace period, then
// kills. The kill is a hard guarantee: after it, Wait always returns.
func (s *Supervisor) awaitStop(cmd *exec.Cmd, exited chan error, drained chan struct{}) (int, error) {
	grace := s.Grace
	if grace <= 0 {
		grace = 60 * time.Second
	}
	select {
	case <-exited:
	case <-time.After(grace):
		pterm.Warning.Println("Server did not stop in time, killing it")
		cmd.Process.Kill()
		<-exited
	}
	return s.finish(cmd, drained)
}

// finish waits for the drain to hit EOF so no buffered output is dropped,
// then reports the exit code.
func (s *Supervisor) finish(cmd *exec.Cmd, drained chan struct{}) (int, error) {
	<-drained
	s.status.Store(int32(Terminated))
	return cmd.ProcessState.ExitCode(), nil
}
