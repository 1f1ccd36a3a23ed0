package pwsh

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// feed writes script to stdin one line at a time, each terminated by "\n",
// and then closes stdin so the interpreter sees end of input. When echo is
// non-nil every line is written there first. It returns the number of lines
// sent. stdin is closed on every path.
func feed(stdin io.WriteCloser, script string, echo io.Writer, logger *slog.Logger) (int, error) {
	sent := 0
	err := forEachLine(script, func(line string) error {
		if echo != nil {
			if _, err := fmt.Fprintln(echo, line); err != nil {
				return &IOError{Op: "echo", Err: err}
			}
		}
		logger.Debug("sending line", "line", sent+1, "command", line)
		if _, err := io.WriteString(stdin, line+"\n"); err != nil {
			return &IOError{Op: "write stdin", Err: err}
		}
		sent++
		return nil
	})
	if err != nil {
		_ = stdin.Close() // Best-effort, the write error is what matters
		return sent, err
	}

	if err := stdin.Close(); err != nil {
		return sent, &IOError{Op: "close stdin", Err: err}
	}
	return sent, nil
}

// forEachLine calls fn for each line of script. Lines end at "\n"; a
// trailing "\r" is dropped and a final newline does not start an empty line.
func forEachLine(script string, fn func(string) error) error {
	scanner := bufio.NewScanner(strings.NewReader(script))
	// One line may be the whole script.
	scanner.Buffer(make([]byte, 0, 4096), len(script)+1)
	for scanner.Scan() {
		if err := fn(scanner.Text()); err != nil {
			return err
		}
	}
	return scanner.Err()
}
