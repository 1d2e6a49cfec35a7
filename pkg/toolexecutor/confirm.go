package toolexecutor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Confirmer asks a human to approve a step.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// AutoConfirmer approves every request without user interaction.
type AutoConfirmer struct{}

// Confirm implements Confirmer.
func (AutoConfirmer) Confirm(context.Context, string) (bool, error) {
	return true, nil
}

// CLIConfirmer prompts on a writer and reads a one-line answer from a reader.
type CLIConfirmer struct {
	reader *bufio.Reader
	writer io.Writer
	logger zerolog.Logger

	mu      sync.Mutex
	pending chan confirmAnswer
}

// NewCLIConfirmer creates a confirmer. Pass the same *bufio.Reader the caller
// reads its own input from so buffered lines are not lost between prompts.
//
// A cancelled Confirm leaves its read in flight; the next Confirm receives
// that line. Until then the caller must not read from the shared reader.
func NewCLIConfirmer(reader io.Reader, writer io.Writer, logger zerolog.Logger) *CLIConfirmer {
	br, ok := reader.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(reader)
	}
	return &CLIConfirmer{
		reader: br,
		writer: writer,
		logger: logger,
	}
}

type confirmAnswer struct {
	ok  bool
	err error
}

// Confirm writes prompt and waits for an answer. Only "y" (any case, trimmed)
// confirms; EOF or any other input declines.
func (c *CLIConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	fmt.Fprint(c.writer, prompt)

	answerChan := c.answers()

	select {
	case answer := <-answerChan:
		c.mu.Lock()
		c.pending = nil
		c.mu.Unlock()
		return answer.ok, answer.err

	case <-ctx.Done():
		fmt.Fprintln(c.writer, "")
		c.logger.Warn().Msg("Confirmation prompt cancelled")
		return false, ctx.Err()
	}
}

// answers returns the in-flight read, starting one if none is pending.
func (c *CLIConfirmer) answers() chan confirmAnswer {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending == nil {
		ch := make(chan confirmAnswer, 1)
		go func() {
			ok, err := c.readAnswer()
			ch <- confirmAnswer{ok: ok, err: err}
		}()
		c.pending = ch
	}
	return c.pending
}

// HasPendingRead reports whether a cancelled prompt still owns the reader.
func (c *CLIConfirmer) HasPendingRead() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending != nil
}

func (c *CLIConfirmer) readAnswer() (bool, error) {
	line, err := c.reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read input: %w", err)
	}

	input := strings.ToLower(strings.TrimSpace(line))
	confirmed := input == "y"

	c.logger.Debug().
		Str("input", input).
		Bool("confirmed", confirmed).
		Msg("Confirmation answered")

	return confirmed, nil
}
