// Copyright © 2024 Rak Laptudirm <rak@laptudirm.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package match

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultHandshakeTimeout is used for uciok and readyok when the engine's
// configuration doesn't specify a timeout.
const DefaultHandshakeTimeout = 10 * time.Second

type EngineConfig struct {
	Name string `yaml:"name"`
	Cmd  string `yaml:"cmd"`
	Dir  string `yaml:"dir"`
	Arg  string `yaml:"arg"`

	// File to append the engine's stderr to. Discarded if empty.
	Stderr string `yaml:"stderr"`

	InitStr string `yaml:"init-string"`

	Options map[string]string `yaml:"options"`

	Timeout time.Duration `yaml:"timeout"`
}

// StartEngine starts the engine process described by config and completes
// the uci handshake with it. The process is killed if ctx is cancelled.
func StartEngine(ctx context.Context, config EngineConfig) (_ *Engine, err error) {
	if config.Cmd == "" {
		return nil, fmt.Errorf("engine %s: no command configured", config.Name)
	}

	var engine Engine
	engine.config = config
	if engine.config.Timeout <= 0 {
		engine.config.Timeout = DefaultHandshakeTimeout
	}

	// a failed start leaves no file open
	defer func() {
		if err != nil {
			engine.closeStderr()
		}
	}()

	process := exec.CommandContext(ctx, config.Cmd, strings.Fields(config.Arg)...)
	process.Dir = config.Dir

	if config.Stderr != "" {
		stderr, err := os.OpenFile(config.Stderr, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("engine %s: open stderr: %w", config.Name, err)
		}

		engine.stderr = stderr
		process.Stderr = stderr
	}

	stdin, err := process.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("engine %s: stdin pipe: %w", config.Name, err)
	}

	stdout, err := process.StdoutPipe()
	if err != nil {
		_ = stdin.Close()
		return nil, fmt.Errorf("engine %s: stdout pipe: %w", config.Name, err)
	}

	engine.stdin = stdin
	engine.writer = bufio.NewWriter(stdin)
	engine.reader = bufio.NewReader(stdout)
	engine.lines = make(chan string, 64)
	engine.done = make(chan struct{})

	engine.Cmd = process

	if err := engine.Cmd.Start(); err != nil {
		return nil, fmt.Errorf("engine %s: start: %w", config.Name, err)
	}

	go engine.readLines()

	if engine.config.InitStr != "" {
		if err := engine.Write(engine.config.InitStr); err != nil {
			_ = engine.Kill()
			return nil, err
		}
	}

	if err := engine.Initialize(ctx); err != nil {
		_ = engine.Kill()
		return nil, err
	}

	if err := engine.NewGame(ctx); err != nil {
		_ = engine.Kill()
		return nil, err
	}

	return &engine, nil
}

type Engine struct {
	config EngineConfig

	*exec.Cmd

	stdin  io.WriteCloser
	stderr *os.File

	writer *bufio.Writer
	reader *bufio.Reader

	lines chan string
	done  chan struct{}

	// err is set by the reader before lines is closed.
	err error

	mu       sync.Mutex
	killOnce sync.Once
}

// Name returns the name of the engine from its configuration.
func (engine *Engine) Name() string {
	return engine.config.Name
}

func (engine *Engine) readLines() {
	defer close(engine.lines)

	for {
		line, err := engine.reader.ReadString('\n')
		if err != nil {
			engine.err = err
			return
		}

		line = strings.Trim(line, " \n\t\r")

		logrus.Debugf("(%s)> %s", engine.config.Name, line)

		select {
		case engine.lines <- line:
		case <-engine.done:
			return
		}
	}
}

// NewGame prepares the engine for a new game of chess.
func (engine *Engine) NewGame(ctx context.Context) error {
	if err := engine.Write("ucinewgame"); err != nil {
		return err
	}

	return engine.Synchronize(ctx)
}

// Initialize initializes the engine on startup and applies the configured
// options in a stable order.
func (engine *Engine) Initialize(ctx context.Context) error {
	if err := engine.Write("uci"); err != nil {
		return err
	}

	if _, err := engine.Await(ctx, "^uciok", engine.config.Timeout); err != nil {
		return fmt.Errorf("engine %s: wait uciok: %w", engine.config.Name, err)
	}

	names := make([]string, 0, len(engine.config.Options))
	for name := range engine.config.Options {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := engine.SetOption(name, engine.config.Options[name]); err != nil {
			return err
		}
	}

	return nil
}

// SetOption sets the value of the given uci option.
func (engine *Engine) SetOption(name, value string) error {
	return engine.Write("setoption name %s value %s", name, value)
}

// Synchronize waits for the engine to complete some time consuming task
// and synchronizes the interface with it.
func (engine *Engine) Synchronize(ctx context.Context) error {
	if err := engine.Write("isready"); err != nil {
		return err
	}

	if _, err := engine.Await(ctx, "^readyok", engine.config.Timeout); err != nil {
		return fmt.Errorf("engine %s: wait readyok: %w", engine.config.Name, err)
	}

	return nil
}

// Kill asks the engine to quit and then kills its process. It is safe to
// call Kill more than once.
func (engine *Engine) Kill() error {
	var err error
	engine.killOnce.Do(func() {
		_ = engine.Write("quit")
		_ = engine.stdin.Close()

		close(engine.done)

		if kerr := engine.Process.Kill(); kerr != nil && !errors.Is(kerr, os.ErrProcessDone) {
			err = kerr
		}

		// the exit status of a killed process is of no interest
		_ = engine.Wait()
		engine.closeStderr()
	})

	return err
}

func (engine *Engine) closeStderr() {
	if engine.stderr != nil {
		_ = engine.stderr.Close()
		engine.stderr = nil
	}
}

var (
	ErrReadTimeout = errors.New("engine: read i/o timeout")
	ErrExited      = errors.New("engine: process exited")
)

// Await is a utility function which waits for a particular string from
// the engine with a fixed timeout.
func (engine *Engine) Await(ctx context.Context, pattern string, timeout time.Duration) (string, error) {
	regex := regexp.MustCompile(pattern)

	var found string
	err := engine.Scan(ctx, timeout, func(line string) bool {
		if regex.MatchString(line) {
			found = line
			return true
		}

		return false
	})

	return found, err
}

// Scan passes every line read from the engine to fn until fn returns true,
// the timeout runs out, ctx is done, or the engine exits.
func (engine *Engine) Scan(ctx context.Context, timeout time.Duration, fn func(line string) bool) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-timer.C:
			// timer ran out: wait timeout
			return ErrReadTimeout

		case line, ok := <-engine.lines:
			if !ok {
				if engine.err != nil && !errors.Is(engine.err, io.EOF) {
					return fmt.Errorf("%w: %v", ErrExited, engine.err)
				}

				return ErrExited
			}

			if fn(line) {
				return nil
			}
		}
	}
}

func (engine *Engine) Write(format string, a ...any) error {
	engine.mu.Lock()
	defer engine.mu.Unlock()

	logrus.Debugf("("+engine.config.Name+")< "+format, a...)

	if _, err := fmt.Fprintf(engine.writer, format+"\n", a...); err != nil {
		return err
	}

	return engine.writer.Flush()
}

// PositionCommand builds the uci position command for the given start
// position and the moves played from it.
func PositionCommand(fen string, moves []string) string {
	var sb strings.Builder
	if fen == "" || fen == "startpos" {
		sb.WriteString("position startpos")
	} else {
		sb.WriteString("position fen ")
		sb.WriteString(fen)
	}

	if len(moves) > 0 {
		sb.WriteString(" moves ")
		sb.WriteString(strings.Join(moves, " "))
	}

	return sb.String()
}
