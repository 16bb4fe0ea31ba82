package command

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// prompt reads one line from stdin. On a terminal the prompt is printed and,
// when mask is set, the input is not echoed.
func prompt(text string, mask bool) ([]byte, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		if _, err := os.Stderr.WriteString(text); err != nil {
			return nil, err
		}
		if mask {
			line, err := term.ReadPassword(fd)
			_, _ = os.Stderr.WriteString("\n")
			return line, err
		}
	}
	return readLine(os.Stdin)
}

func readLine(r io.Reader) ([]byte, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return nil, err
	}
	return []byte(strings.TrimRight(line, "\r\n")), nil
}
