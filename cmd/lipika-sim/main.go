// lipika-sim drives the composition controller from a terminal, using
// the local SQLite dictionary backend. It exists to exercise the full
// composition loop without an IBus daemon: typed characters feed the key
// router one by one, and the preedit and candidate state are printed
// after every event.
//
// Commands:
//
//	<letters>   append each character as a key event
//	<enter>     commit the selected candidate
//	:N          click candidate N (1-based)
//	!esc        cancel the composition
//	!bs         backspace
//	exit        quit
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"lipika/internal/compose"
	"lipika/internal/config"
	"lipika/internal/logging"
	"lipika/internal/suggest"
)

func main() {
	dictPath := flag.String("dict", "", "dictionary database path (default: the configured path)")
	seedPath := flag.String("seed", "", "seed lexicon JSON file to import before starting")
	flag.Parse()

	path := *dictPath
	if path == "" {
		path = config.Default().Backend.DictionaryPath
	}

	logger, err := logging.New(&logging.Config{
		Level:     logging.DefaultConfig().Level,
		Output:    "stderr",
		Component: "lipika-sim",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "lipika-sim: %v\n", err)
		os.Exit(1)
	}

	store := suggest.NewStore(path)
	lifecycle := compose.NewLifecycle(store, logger.Logger)
	if err := lifecycle.SessionStart(); err != nil {
		fmt.Fprintf(os.Stderr, "lipika-sim: open dictionary: %v\n", err)
		os.Exit(1)
	}
	defer lifecycle.SessionEnd()

	if *seedPath != "" {
		n, err := store.ImportSeed(*seedPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "lipika-sim: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Imported %d seed entries.\n", n)
	}

	host := &consoleHost{}
	ctrl := compose.NewController(store, host, compose.Options{
		TabCommits: true,
		Log:        logger.Logger,
	})

	fmt.Println("Lipika simulator. Type letters, Enter commits, ':N' clicks, '!esc' cancels, 'exit' quits.")
	host.render()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()

		switch {
		case line == "exit":
			return

		case line == "":
			ctrl.ProcessKey(compose.KeyReturn, 0, 0)

		case line == "!esc":
			ctrl.ProcessKey(compose.KeyEscape, 0, 0)

		case line == "!bs":
			ctrl.ProcessKey(compose.KeyBackSpace, 0, 0)

		case strings.HasPrefix(line, ":"):
			n, err := strconv.Atoi(line[1:])
			if err != nil || n < 1 {
				fmt.Println("usage: :N with N >= 1")
				continue
			}
			ctrl.CandidateClicked(n - 1)

		default:
			for _, ch := range line {
				ctrl.ProcessKey(uint32(ch), 0, 0)
			}
		}

		host.render()
	}
}

// consoleHost renders host effects as terminal output.
type consoleHost struct {
	preedit    string
	candidates []string
	cursor     int
}

func (h *consoleHost) UpdatePreedit(text string) { h.preedit = text }
func (h *consoleHost) HidePreedit()              { h.preedit = "" }

func (h *consoleHost) UpdateCandidates(candidates []string, cursor int) {
	h.candidates = candidates
	h.cursor = cursor
}

func (h *consoleHost) HideCandidates() {
	h.candidates = nil
	h.cursor = 0
}

func (h *consoleHost) CommitText(text string) {
	fmt.Printf("\nCommitted: %q\n", text)
}

func (h *consoleHost) render() {
	fmt.Printf("Preedit: [%s]\n", h.preedit)
	if len(h.candidates) == 0 {
		fmt.Println("No candidates.")
		return
	}
	for i, c := range h.candidates {
		marker := "  "
		if i == h.cursor {
			marker = "> "
		}
		fmt.Printf("%s%d. %s\n", marker, i+1, c)
	}
}
