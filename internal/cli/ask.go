package cli

import (
	"fmt"
	"strings"

	"github.com/reeltalk/reeltalk/internal/client"
	"github.com/spf13/cobra"
)

var askSessionID string

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask the movie assistant a question",
	Long: `Ask sends a single question to a running reeltalk server and prints
the assistant's answer.

A new session is created unless --session is given, so follow-up
questions can share conversation history:

  reeltalk ask "recommend me a sci-fi movie"
  reeltalk ask --session <id> "something older, from the 80s"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askSessionID, "session", "", "existing session id to continue")
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.Join(args, " ")

	c := client.New("")
	ctx := cmd.Context()

	sessionID := askSessionID
	if sessionID == "" {
		info, err := c.CreateSession(ctx)
		if err != nil {
			return fmt.Errorf("creating session: %w", err)
		}
		sessionID = info.SessionID
		fmt.Fprintf(cmd.ErrOrStderr(), "session: %s\n", sessionID)
	}

	result, err := c.SendMessage(ctx, sessionID, question)
	if err != nil {
		return err
	}

	fmt.Println(result.AssistantResponse)
	return nil
}
