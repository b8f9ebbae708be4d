package cmd

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"genie/assistant"
	"genie/conversation"
	"genie/models"
	"genie/store"
)

func init() {
	addAccountFlags(chatCmd)
	chatCmd.Flags().String("language", "en", "reply language (en or fr)")
	chatCmd.Flags().String("screen", "", "screen the user is on")
	chatCmd.Flags().String("currency", "", "ISO currency code (overrides GENIE_CURRENCY)")
	rootCmd.AddCommand(chatCmd)
}

var chatCmd = &cobra.Command{
	Use:     "chat",
	Short:   "Talk to the assistant from the terminal against an in-memory account",
	Example: `  genie chat --balance 125000 --savings 30000 --portfolio 42000 --language fr`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cur, _ := cmd.Flags().GetString("currency"); cur != "" {
			cfg.Currency = strings.ToUpper(cur)
		}
		screen, err := screenFromFlags(cmd)
		if err != nil {
			return err
		}
		engine, err := newEngine(cfg)
		if err != nil {
			return err
		}
		user, acct, acts, err := accountFromFlags(cmd)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		mem := store.NewMemory()
		if err := mem.PutAccount(ctx, user, acct); err != nil {
			return err
		}
		for _, a := range acts {
			if err := mem.PushActivity(ctx, user, a); err != nil {
				return err
			}
		}

		lang, _ := cmd.Flags().GetString("language")

		out := newTerminal(cmd.OutOrStdout())
		conv := conversation.New("terminal", engine, out, cfg.ConversationOptions())
		defer conv.Close()

		out.printf("Genie is listening. Type a question, or \"quit\" to leave.\n")
		scanner := bufio.NewScanner(cmd.InOrStdin())
		for {
			out.printf("> ")
			if !scanner.Scan() {
				return scanner.Err()
			}
			text := strings.TrimSpace(scanner.Text())
			if text == "" {
				continue
			}
			if text == "quit" || text == "exit" {
				return nil
			}

			actx, err := store.LoadContext(ctx, mem, user, cfg.ActivityLimit)
			if err != nil {
				return err
			}
			actx.Language = lang
			actx.Screen = screen

			if _, err := conv.Submit(ctx, text, actx); err != nil {
				out.printf("error: %v\n", err)
				continue
			}
			out.waitReply()
		}
	},
}

func screenFromFlags(cmd *cobra.Command) (assistant.Screen, error) {
	raw, _ := cmd.Flags().GetString("screen")
	screen := assistant.Screen(strings.ToLower(strings.TrimSpace(raw)))
	if screen != "" && !screen.Valid() {
		names := make([]string, 0, len(assistant.Screens()))
		for _, s := range assistant.Screens() {
			names = append(names, string(s))
		}
		slices.Sort(names)
		return "", fmt.Errorf("unknown screen %q (want one of %s)", raw, strings.Join(names, ", "))
	}
	return screen, nil
}

// terminal prints conversation events and lets the prompt wait for a reply.
type terminal struct {
	mu      sync.Mutex
	w       io.Writer
	replies chan struct{}
}

func newTerminal(w io.Writer) *terminal {
	return &terminal{w: w, replies: make(chan struct{}, 1)}
}

func (t *terminal) printf(format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.w, format, args...)
}

func (t *terminal) OnMessage(m models.Message) {
	if m.Sender != models.SenderAssistant {
		return
	}
	var b strings.Builder
	b.WriteString("\r")
	b.WriteString(m.Text)
	b.WriteString("\n")
	for _, s := range m.Suggestions {
		fmt.Fprintf(&b, "  · %s\n", s)
	}
	t.printf("%s", b.String())
	select {
	case t.replies <- struct{}{}:
	default:
	}
}

func (t *terminal) OnTyping() {
	t.printf("…")
}

func (t *terminal) OnNavigate(screen assistant.Screen) {
	t.printf("\r[opening %s]\n", screen)
}

func (t *terminal) waitReply() {
	select {
	case <-t.replies:
	case <-time.After(30 * time.Second):
	}
}
