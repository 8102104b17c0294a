package scraper

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
)

// Pipeline runs one scraping pass, calling onLine for every non-empty line
// of combined output. A nil error means the pipeline exited successfully.
type Pipeline interface {
	Run(ctx context.Context, primeBankPosts, otherBanksPosts int, onLine func(string)) error
}

// ExecPipeline launches the pipeline as an external command
type ExecPipeline struct {
	args []string
	dir  string
}

var _ Pipeline = (*ExecPipeline)(nil)

// NewExecPipeline splits command on whitespace; the post counts are appended
// as --prime-bank-posts and --other-banks-posts
func NewExecPipeline(command, dir string) *ExecPipeline {
	return &ExecPipeline{args: strings.Fields(command), dir: dir}
}

func (p *ExecPipeline) Run(ctx context.Context, primeBankPosts, otherBanksPosts int, onLine func(string)) error {
	if len(p.args) == 0 {
		return fmt.Errorf("scraper command is empty")
	}

	args := append(append([]string{}, p.args[1:]...),
		"--prime-bank-posts", strconv.Itoa(primeBankPosts),
		"--other-banks-posts", strconv.Itoa(otherBanksPosts),
	)
	cmd := exec.CommandContext(ctx, p.args[0], args...)
	cmd.Dir = p.dir

	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start scraper: %w", err)
	}

	waitErr := make(chan error, 1)
	go func() {
		err := cmd.Wait()
		pw.Close()
		waitErr <- err
	}()

	scanner := bufio.NewScanner(pr)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		if line := strings.TrimRight(scanner.Text(), " \t\r"); line != "" {
			onLine(line)
		}
	}
	if err := scanner.Err(); err != nil {
		// keep draining so the command is never blocked on a full pipe
		io.Copy(io.Discard, pr)
	}

	if err := <-waitErr; err != nil {
		return fmt.Errorf("scraper exited: %w", err)
	}
	return nil
}
