/**
 * Copyright (c) 2025 CrystalQueue Developers
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Affero General Public License as
 * published by the Free Software Foundation, either version 3 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU Affero General Public License for more details.
 *
 * You should have received a copy of the GNU Affero General Public License
 * along with this program.  If not, see <https://www.gnu.org/licenses/>.
 */

// Package slurm drives the site scheduler through its command line tools.
// Only three operations are needed: submit a batch script, list the
// invoking user's jobs, and cancel a job by id. Results are relayed as-is;
// the scheduler's own exit status is preserved in ExternalError.
package slurm

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	"CrystalQueue/internal/util"
)

const commandTimeout = 30 * time.Second

type QueueEntry struct {
	JobId uint32
	Name  string
	Owner string
	State string
}

// ExternalError reports a scheduler command that ran and failed. The exit
// code is the scheduler's, not ours.
type ExternalError struct {
	Command  string
	ExitCode int
	Stderr   string
}

func (e *ExternalError) Error() string {
	msg := fmt.Sprintf("%s exited with code %d", e.Command, e.ExitCode)
	if e.Stderr != "" {
		msg += ": " + strings.TrimSpace(e.Stderr)
	}
	return msg
}

type runnerFunc func(ctx context.Context, dir string, name string, args ...string) ([]byte, error)

type Client struct {
	submitCmd string
	queueCmd  string
	cancelCmd string
	runner    runnerFunc
}

func NewClient(cfg util.SchedulerConfig) *Client {
	return &Client{
		submitCmd: cfg.SubmitCmd,
		queueCmd:  cfg.QueueCmd,
		cancelCmd: cfg.CancelCmd,
		runner:    runCommand,
	}
}

func runCommand(ctx context.Context, dir string, name string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return out, &ExternalError{
				Command:  name,
				ExitCode: exitErr.ExitCode(),
				Stderr:   stderr.String(),
			}
		}
		return out, fmt.Errorf("failed to run %s: %w", name, err)
	}
	return out, nil
}

var submittedPattern = regexp.MustCompile(`Submitted batch job (\d+)`)

// Submit hands scriptPath to the scheduler from directory dir and returns
// the allocated job id parsed from the scheduler's reply.
func (c *Client) Submit(ctx context.Context, dir string, scriptPath string) (uint32, error) {
	out, err := c.runner(ctx, dir, c.submitCmd, scriptPath)
	if err != nil {
		return 0, err
	}

	match := submittedPattern.FindStringSubmatch(string(out))
	if match == nil {
		return 0, fmt.Errorf("unexpected %s output: %q", c.submitCmd, strings.TrimSpace(string(out)))
	}
	id, err := strconv.ParseUint(match[1], 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid job id in %s output: %w", c.submitCmd, err)
	}
	return uint32(id), nil
}

// Queue lists the pending and running jobs of user. The listing is
// requested headerless with a fixed field layout (id|name|state) so no
// site squeue configuration can change what we parse.
func (c *Client) Queue(ctx context.Context, user string) ([]QueueEntry, error) {
	out, err := c.runner(ctx, "", c.queueCmd,
		"-u", user, "-h", "--format=%i|%j|%T")
	if err != nil {
		return nil, err
	}

	var entries []QueueEntry
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, "|", 3)
		id, err := strconv.ParseUint(strings.TrimSpace(fields[0]), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("unexpected %s output line %q: %w", c.queueCmd, line, err)
		}
		entry := QueueEntry{JobId: uint32(id), Owner: user}
		if len(fields) > 1 {
			entry.Name = strings.TrimSpace(fields[1])
		}
		if len(fields) > 2 {
			entry.State = strings.TrimSpace(fields[2])
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Cancel requests cancellation of one job. The request is one-shot; the
// scheduler is not polled for confirmation.
func (c *Client) Cancel(ctx context.Context, jobId uint32) error {
	_, err := c.runner(ctx, "", c.cancelCmd, strconv.FormatUint(uint64(jobId), 10))
	return err
}
