package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/advocaid/assistant/backend/internal/model/chat"
	chatService "github.com/advocaid/assistant/backend/internal/service/chat"
)

var (
	chatCategory string
	chatLanguage string
)

var (
	botStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	userStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	noticeStyle = lipgloss.NewStyle().Faint(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive conversation in the terminal",
	Long: `Chat with the assistant in the terminal.

Commands inside the session:
  /lang english|urdu|both   switch the welcome language
  /attach <file>            attach file metadata to the next message
  /like, /dislike           rate the last answer
  /quit                     leave

Examples:
  advocaid chat
  advocaid chat --category "Family Law" --language both`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatCategory, "category", "c", "", "category id or title")
	chatCmd.Flags().StringVarP(&chatLanguage, "language", "l", "", "english, urdu or both")
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var lang chat.Language
	if chatLanguage != "" {
		parsed, ok := chat.ParseLanguage(chatLanguage)
		if !ok {
			return fmt.Errorf("unsupported language %q", chatLanguage)
		}
		lang = parsed
	}

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	session, err := a.chat.CreateSession(ctx, chatCategory, lang)
	if err != nil {
		return err
	}
	return chatLoop(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), a.chat, session)
}

// chatLoop reads one line per turn until EOF or /quit.
func chatLoop(ctx context.Context, in io.Reader, out io.Writer, svc *chatService.Service, session *chatService.Session) error {
	printMessage(out, session.Messages()[0])

	lastBot := session.Messages()[0].ID
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, userStyle.Render("> "))
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		if strings.HasPrefix(line, "/") {
			quit, err := runSlashCommand(out, session, line, lastBot)
			if err != nil {
				fmt.Fprintln(out, errorStyle.Render(err.Error()))
			}
			if quit {
				return nil
			}
			continue
		}

		pending, err := svc.Submit(ctx, session.ID(), line)
		if err != nil {
			if !chatService.IsGuardRejection(err) {
				fmt.Fprintln(out, errorStyle.Render(err.Error()))
			}
			continue
		}
		fmt.Fprintln(out, noticeStyle.Render("typing..."))

		result := pending.Resolve(ctx)
		printMessage(out, result.Bot)
		lastBot = result.Bot.ID
		if result.Suggestion != nil {
			fmt.Fprintln(out, noticeStyle.Render(fmt.Sprintf("Tip: restart with --category %q for focused answers.", result.Suggestion.Title)))
		}
	}
}

func runSlashCommand(out io.Writer, session *chatService.Session, line, lastBot string) (bool, error) {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "/quit", "/exit":
		return true, nil
	case "/lang":
		lang, ok := chat.ParseLanguage(arg)
		if !ok {
			return false, fmt.Errorf("unsupported language %q", arg)
		}
		printMessage(out, session.ChangeLanguage(lang))
	case "/attach":
		info, err := os.Stat(arg)
		if err != nil {
			return false, err
		}
		if err := session.AddAttachment(chat.Attachment{Filename: arg, SizeBytes: info.Size()}); err != nil {
			return false, err
		}
		fmt.Fprintln(out, noticeStyle.Render(fmt.Sprintf("%d file(s) attached", len(session.Attachments()))))
	case "/like", "/dislike":
		if err := session.Feedback(lastBot, chat.Feedback(strings.TrimPrefix(name, "/"))); err != nil {
			return false, err
		}
		fmt.Fprintln(out, noticeStyle.Render("Thanks for the feedback."))
	default:
		return false, fmt.Errorf("unknown command %s", name)
	}
	return false, nil
}

func printMessage(out io.Writer, m chat.Message) {
	label := userStyle.Render("You:")
	if m.IsBot() {
		label = botStyle.Render("Assistant:")
	}
	fmt.Fprintf(out, "%s %s\n\n", label, m.Text)
}
