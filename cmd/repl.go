package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/mattn/go-shellwords"

	"github.com/luca-patrignani/sequenced-amm/common"
	"github.com/luca-patrignani/sequenced-amm/config"
	"github.com/luca-patrignani/sequenced-amm/metrics"
	"github.com/luca-patrignani/sequenced-amm/sequencer"
	"github.com/luca-patrignani/sequenced-amm/simulation"
)

var (
	errUsage = errors.New("usage")
	errExit  = errors.New("exit")
)

const usage = `commit <participant> [description]
reveal <participant> <hash> <amount> <true|false>
withdraw
status
pending
history
verify
metrics
multi <num_users>
exit`

type command struct {
	name        string
	participant string
	description string
	hash        common.Hash
	amount      uint64
	baseInput   bool
	users       int
}

// parseCommand turns one REPL line into a command. Hex hashes and amounts are
// decoded here, before anything reaches the sequencer.
func parseCommand(line string) (command, error) {
	args, err := shellwords.Parse(line)
	if err != nil {
		return command{}, fmt.Errorf("%w: %v", errUsage, err)
	}
	if len(args) == 0 {
		return command{}, nil
	}
	cmd := command{name: strings.ToLower(args[0])}
	switch cmd.name {
	case "commit":
		if len(args) < 2 {
			return command{}, fmt.Errorf("%w: commit <participant> [description]", errUsage)
		}
		cmd.participant = args[1]
		cmd.description = strings.Join(args[2:], " ")
	case "reveal":
		if len(args) != 5 {
			return command{}, fmt.Errorf("%w: reveal <participant> <hash> <amount> <true|false>", errUsage)
		}
		cmd.participant = args[1]
		if cmd.hash, err = common.ParseHash(args[2]); err != nil {
			return command{}, err
		}
		if cmd.amount, err = strconv.ParseUint(args[3], 10, 64); err != nil {
			return command{}, fmt.Errorf("%w: amount must be a non-negative integer, got %q", errUsage, args[3])
		}
		if cmd.baseInput, err = parseBaseInput(args[4]); err != nil {
			return command{}, err
		}
	case "multi":
		if len(args) != 2 {
			return command{}, fmt.Errorf("%w: multi <num_users>", errUsage)
		}
		n, err := strconv.Atoi(args[1])
		if err != nil || n <= 0 {
			return command{}, fmt.Errorf("%w: num_users must be a positive integer, got %q", errUsage, args[1])
		}
		cmd.users = n
	case "withdraw", "status", "pending", "history", "verify", "metrics", "help", "exit", "quit":
		if len(args) != 1 {
			return command{}, fmt.Errorf("%w: %s takes no arguments", errUsage, cmd.name)
		}
	default:
		return command{}, fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
	return cmd, nil
}

func parseBaseInput(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true", "base", "bch":
		return true, nil
	case "false", "quote", "tokens":
		return false, nil
	default:
		return false, fmt.Errorf("%w: expected true or false, got %q", errUsage, s)
	}
}

type shell struct {
	seq     *sequencer.Sequencer
	metrics *metrics.Metrics
	cfg     config.Config
	logger  *slog.Logger
	// prompt asks the user for a line of text.
	prompt func(text string) (string, error)
	out    reporter
}

// execute runs one command. Every interactive input is collected before the
// sequencer is called.
func (sh *shell) execute(ctx context.Context, cmd command) error {
	switch cmd.name {
	case "":
		return nil
	case "commit":
		description := cmd.description
		if description == "" {
			d, err := sh.prompt("Enter action details")
			if err != nil {
				return err
			}
			description = d
		}
		h := sh.seq.Commit(cmd.participant, description)
		sh.out.committed(cmd.participant, h, sh.seq.Status())
	case "reveal":
		res, err := sh.seq.RevealSwap(sequencer.SwapRequest{
			ParticipantID: cmd.participant,
			Commitment:    cmd.hash,
			InputAmount:   cmd.amount,
			BaseInput:     cmd.baseInput,
		})
		if err != nil {
			return err
		}
		sh.out.swapped(cmd.participant, res)
	case "withdraw":
		sh.out.withdrawn(sh.seq.Withdraw())
	case "status":
		sh.out.status(sh.seq.Status())
	case "pending":
		sh.out.pending(sh.seq.Pending())
	case "history":
		sh.out.history(sh.seq.Journal())
	case "verify":
		if err := sh.seq.Verify(); err != nil {
			return err
		}
		sh.out.verified(sh.seq.Status())
	case "metrics":
		if sh.metrics == nil {
			return errors.New("metrics are disabled")
		}
		snapshot, err := sh.metrics.Snapshot()
		if err != nil {
			return err
		}
		sh.out.metrics(snapshot)
	case "multi":
		if limit := sh.cfg.Simulation.MaxUsers; cmd.users > limit {
			return fmt.Errorf("%w: at most %d users per run, got %d", errUsage, limit, cmd.users)
		}
		report, err := simulation.Run(ctx, sh.seq, simulation.Participants(cmd.users), sh.cfg.Simulation, sh.logger)
		sh.out.simulated(report, sh.seq.Status())
		return err
	case "help":
		sh.out.help(usage)
	case "exit", "quit":
		return errExit
	}
	return nil
}
