package parser

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/conorfennell/apkgen/internal/domain"
)

const (
	questionPrefix = "Q:"
	answerPrefix   = "A:"
)

type state int

const (
	seeking state = iota
	readingQuestion
	readingAnswer
)

// ParseFile reads a deck file from the given path and extracts all pairs.
func ParseFile(path string) ([]domain.Pair, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads from an io.Reader and extracts all question/answer pairs.
// A pair is a "Q:" block followed by an "A:" block; blocks run until the
// next prefix or a "---" separator, so both question and answer may span
// multiple lines. Pairs keep file order.
func Parse(r io.Reader) ([]domain.Pair, error) {
	scanner := bufio.NewScanner(r)
	var pairs []domain.Pair
	var current domain.Pair
	var block []string
	currentState := seeking

	closeBlock := func() {
		if len(block) == 0 {
			return
		}
		content := strings.Join(block, "\n")
		switch currentState {
		case readingQuestion:
			current.Question = content
		case readingAnswer:
			current.Answer = content
		}
		block = nil
	}

	finishPair := func() {
		closeBlock()
		if current.Question != "" {
			pairs = append(pairs, current)
		}
		current = domain.Pair{}
		currentState = seeking
	}

	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case line == "---":
			finishPair()
		case strings.HasPrefix(line, questionPrefix):
			// A new question always starts a new pair.
			if currentState != seeking {
				finishPair()
			} else {
				closeBlock()
			}
			currentState = readingQuestion
			block = append(block, trimPrefix(line, questionPrefix))
		case strings.HasPrefix(line, answerPrefix):
			closeBlock()
			currentState = readingAnswer
			block = append(block, trimPrefix(line, answerPrefix))
		default:
			if currentState != seeking {
				block = append(block, line)
			}
		}
	}

	finishPair() // Finish the very last pair in the file

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return pairs, nil
}

// trimPrefix drops the block prefix and a single following space, if any.
func trimPrefix(line, prefix string) string {
	content := line[len(prefix):]
	return strings.TrimPrefix(content, " ")
}
