// Command tichi-survey runs the survey in a terminal and submits the
// answers to the intake service.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/mbolis/tichi-survey/client"
	"github.com/mbolis/tichi-survey/log"
	"github.com/mbolis/tichi-survey/model"
	"github.com/mbolis/tichi-survey/session"
)

type terminal struct {
	in  *bufio.Scanner
	out io.Writer
}

func (t terminal) ScrollToTop() {
	fmt.Fprint(t.out, "\033[H\033[2J")
}

func (t terminal) Alert(msg string) {
	fmt.Fprintf(t.out, "\n!! %s\n", msg)
}

func (t terminal) ask(prompt string) (string, bool) {
	fmt.Fprintf(t.out, "%s\n> ", prompt)
	if !t.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(t.in.Text()), true
}

func main() {
	server := flag.String("server", client.DefaultBaseURL, "intake service base URL")
	debug := flag.Bool("debug", false, "log at DEBUG level")
	flag.Parse()

	log.SetOutput(os.Stderr)
	if *debug {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	term := terminal{in: bufio.NewScanner(os.Stdin), out: os.Stdout}
	s := session.New(client.New(*server), term, term)

	if err := run(ctx, s, term); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, s *session.Session, term terminal) error {
	fmt.Fprintln(term.out, "Welcome to the Tichi survey! It takes about two minutes.")
	if _, ok := term.ask("Press Enter to start."); !ok {
		return io.ErrUnexpectedEOF
	}

	for _, section := range session.Sections {
		questions := section.Questions()
		if len(questions) == 0 {
			continue
		}
		s.Navigate(section)

		if section == session.Basics {
			name, ok := term.ask("Full name")
			if !ok {
				return io.ErrUnexpectedEOF
			}
			email, ok := term.ask("Email")
			if !ok {
				return io.ErrUnexpectedEOF
			}
			s.UpdateUserInfo(model.UserInfo{FullName: name, Email: email})
		}

		for _, q := range questions {
			answer, ok := askQuestion(term, q)
			if !ok {
				return io.ErrUnexpectedEOF
			}
			s.UpdateResponse(model.SurveyResponse{QuestionID: q.ID, Answer: answer})
		}
	}

	for {
		err := s.Submit(ctx)
		if err == nil {
			break
		}
		retry, ok := term.ask("Try again? [y/N]")
		if !ok || !strings.EqualFold(retry, "y") {
			return err
		}
	}

	fmt.Fprintln(term.out, "Thank you! Your answers have been recorded.")
	return nil
}

func askQuestion(term terminal, q model.Question) (any, bool) {
	if q.Type != model.ChoiceQuestion {
		return term.ask(q.Text)
	}

	var prompt strings.Builder
	prompt.WriteString(q.Text)
	for i, opt := range q.Options {
		fmt.Fprintf(&prompt, "\n  %d) %s", i+1, opt)
	}
	if q.Multiple {
		prompt.WriteString("\n(numbers separated by commas)")
	}

	for {
		line, ok := term.ask(prompt.String())
		if !ok {
			return nil, false
		}
		chosen, err := pickOptions(q, line)
		if err != nil {
			term.Alert(err.Error())
			continue
		}
		if q.Multiple {
			return chosen, true
		}
		return chosen[0], true
	}
}

func pickOptions(q model.Question, line string) ([]string, error) {
	fields := strings.Split(line, ",")
	if !q.Multiple && len(fields) > 1 {
		return nil, errors.New("pick a single option")
	}

	var chosen []string
	for _, f := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil || n < 1 || n > len(q.Options) {
			return nil, fmt.Errorf("pick a number between 1 and %d", len(q.Options))
		}
		chosen = append(chosen, q.Options[n-1])
	}
	return chosen, nil
}
