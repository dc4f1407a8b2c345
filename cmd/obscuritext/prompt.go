package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"

	"obscuritext/internal/mapping"
	"obscuritext/internal/pipeline"
	"obscuritext/internal/surrogate"
)

// previewSize is how many of the most and least frequent words are shown
// before asking for a threshold.
const previewSize = 20

var errNoAnswer = errors.New("input closed before a threshold was entered")

// thresholdPrompt resolves "ask" thresholds by showing the frequency extremes
// of the discovery table and reading a count.
type thresholdPrompt struct {
	in  *bufio.Reader
	out io.Writer
}

func newThresholdPrompt(in io.Reader, out io.Writer) *thresholdPrompt {
	return &thresholdPrompt{in: bufio.NewReader(in), out: out}
}

func (p *thresholdPrompt) ResolveThreshold(ctx context.Context, side pipeline.Side, t *surrogate.Table) (surrogate.Threshold, error) {
	rows := mapping.Rows(t, mapping.OrderFrequency)
	head := rows[:min(previewSize, len(rows))]
	tail := rows[max(len(rows)-previewSize, 0):]
	fmt.Fprintln(p.out, mappingTable(fmt.Sprintf("Most frequent of %d words", len(rows)), head))
	fmt.Fprintln(p.out, mappingTable("Least frequent", tail))

	for {
		if err := ctx.Err(); err != nil {
			return surrogate.Disabled(), err
		}
		fmt.Fprintf(p.out, "Combine words %s which count? Enter a whole number or none: ", side)
		line, readErr := p.in.ReadString('\n')
		if answer := strings.TrimSpace(line); answer != "" {
			if threshold, ok := parseAnswer(answer); ok {
				return threshold, nil
			}
			fmt.Fprintf(p.out, "%q is not a whole number.\n", answer)
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return surrogate.Disabled(), errNoAnswer
			}
			return surrogate.Disabled(), fmt.Errorf("read threshold: %w", readErr)
		}
	}
}

func parseAnswer(answer string) (surrogate.Threshold, bool) {
	if strings.EqualFold(answer, "none") {
		return surrogate.Disabled(), true
	}
	n, err := strconv.Atoi(answer)
	if err != nil || n < 0 {
		return surrogate.Disabled(), false
	}
	return surrogate.Fixed(n), true
}

// canPrompt reports whether r can answer prompts. Files must be terminals;
// any other reader is treated as scripted input.
func canPrompt(r io.Reader) bool {
	file, ok := r.(*os.File)
	if !ok {
		return true
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
