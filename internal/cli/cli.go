// Package cli - интерактивный режим агента на readline.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"formAgent/internal/cli/commands"
	"formAgent/internal/cli/ui"
	"formAgent/internal/logger"
)

const historyFile = ".form-agent-history"

type CLI struct {
	log   *logger.Zap
	agent commands.Agent
	out   io.Writer
	rl    *readline.Instance
	in    *bufio.Reader

	taskHandler    *commands.TaskHandler
	showHandler    *commands.ShowHandler
	browserHandler *commands.BrowserHandler
	fillHandler    *commands.FillHandler
}

// New собирает CLI. store может быть nil: тогда команды задач недоступны.
func New(store commands.Store, ag commands.Agent, log *logger.Zap) *CLI {
	c := newCLI(store, ag, log, os.Stdout)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          ui.Paint(ui.ColorCyan, "> "),
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		log.Warn("Не удалось инициализировать readline, будет использован fallback режим")
		c.in = bufio.NewReader(os.Stdin)
	} else {
		c.rl = rl
	}
	return c
}

func newCLI(store commands.Store, ag commands.Agent, log *logger.Zap, out io.Writer) *CLI {
	return &CLI{
		log:            log,
		agent:          ag,
		out:            out,
		taskHandler:    commands.NewTaskHandler(store, ag, log, out),
		showHandler:    commands.NewShowHandler(store, log, out),
		browserHandler: commands.NewBrowserHandler(ag, out),
		fillHandler:    commands.NewFillHandler(ag, out),
	}
}

func (c *CLI) readLine() (string, error) {
	if c.rl != nil {
		return c.rl.Readline()
	}
	fmt.Fprint(c.out, ui.Paint(ui.ColorCyan, "> "))
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Run читает команды до exit, EOF или отмены ctx. Браузер закрывается на выходе.
func (c *CLI) Run(ctx context.Context) {
	ui.PrintWelcome(c.out)
	defer func() {
		if c.rl != nil {
			c.rl.Close()
		}
		c.agent.Shutdown()
	}()

	for {
		if ctx.Err() != nil {
			fmt.Fprintln(c.out, "\n"+ui.Paint(ui.ColorCyan, ui.IconWave+" Получен сигнал завершения..."))
			return
		}

		line, err := c.readLine()
		if errors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				return
			}
			continue
		}
		if err != nil {
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !c.handleCommand(ctx, line) {
			return
		}
	}
}

// handleCommand выполняет одну команду. false - пора выходить.
func (c *CLI) handleCommand(ctx context.Context, line string) bool {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch {
	case cmd == "exit" || cmd == "quit":
		fmt.Fprintln(c.out, ui.Paint(ui.ColorCyan, ui.IconWave+" До свидания!"))
		return false

	case cmd == "clear":
		ui.ClearScreen(c.out)

	case cmd == "fill" && arg != "":
		c.fillHandler.Fill(ctx, arg)

	case cmd == "plan" && arg != "":
		c.fillHandler.Plan(ctx, arg)

	case cmd == "open" && arg != "":
		c.browserHandler.Open(ctx, arg)

	case cmd == "source":
		c.browserHandler.Source(ctx)

	case cmd == "close":
		c.browserHandler.Close()

	case cmd == "task" && arg != "":
		c.taskHandler.Create(arg)

	case cmd == "tasks":
		c.taskHandler.List()

	case cmd == "status" && arg != "":
		c.taskHandler.Status(arg)

	case cmd == "run" && arg != "":
		c.taskHandler.Run(ctx, arg)

	case cmd == "show" && arg != "":
		c.showHandler.Show(arg)

	case cmd == "logs" && arg != "":
		c.showHandler.Logs(arg)

	default:
		ui.PrintHelp(c.out)
	}
	return true
}
