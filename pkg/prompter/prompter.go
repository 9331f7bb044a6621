package prompter

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompter reads answers from an input stream
type Prompter struct {
	in     *bufio.Reader
	out    io.Writer
	secret func() ([]byte, error)
}

// New reads from in and writes prompts to out
func New(in io.Reader, out io.Writer) *Prompter {
	p := &Prompter{in: bufio.NewReader(in), out: out}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.secret = func() ([]byte, error) { return term.ReadPassword(int(f.Fd())) }
	}
	return p
}

// Stdio prompts on the process terminal
func Stdio() *Prompter {
	return New(os.Stdin, os.Stderr)
}

// PromptString prompts user for a string input
func (p *Prompter) PromptString(label string) (string, error) {
	fmt.Fprint(p.out, label)
	line, err := p.ReadLine()
	if err == io.EOF && line != "" {
		return line, nil
	}
	return line, err
}

// PromptSecret reads input without echo when attached to a terminal
func (p *Prompter) PromptSecret(label string) (string, error) {
	if p.secret == nil {
		return p.PromptString(label)
	}

	fmt.Fprint(p.out, label)
	b, err := p.secret()
	fmt.Fprintln(p.out)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

// PromptConfirm prompts user for yes/no confirmation
func (p *Prompter) PromptConfirm(label string) (bool, error) {
	answer, err := p.PromptString(label + " (y/n) ")
	if err != nil && err != io.EOF {
		return false, err
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes", nil
}

// ReadLine returns the next trimmed line. At end of input it returns
// the last partial line with io.EOF.
func (p *Prompter) ReadLine() (string, error) {
	line, err := p.in.ReadString('\n')
	return strings.TrimSpace(line), err
}
