package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/atotto/clipboard"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"wtldr/tldr"
	"wtldr/ui"
)

// writeClipboard is swapped out in tests.
var writeClipboard = clipboard.WriteAll

type summarizeFlags struct {
	platform    string
	guild       string
	user        string
	instruction string
	anchor      string
	model       string
	markup      bool
	copy        bool
	width       int
}

func newSummarizeCmd(a *app) *cobra.Command {
	var f summarizeFlags

	cmd := &cobra.Command{
		Use:   "summarize [count]",
		Short: "Summarize the latest messages of a group",
		Long: `Summarize the latest [count] messages of a group, grouped by participant.

  wtldr summarize 100 --platform onebot --guild 123456
  wtldr summarize --platform onebot --guild 123456 -u alice -i "what did she decide?"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(cmd.ErrOrStderr()); err != nil {
				return err
			}
			return a.summarize(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), f, args)
		},
	}

	cmd.Flags().StringVar(&f.platform, "platform", "", "Chat platform of the group, e.g. onebot")
	cmd.Flags().StringVar(&f.guild, "guild", "", "Group id")
	cmd.Flags().StringVarP(&f.user, "user", "u", "", "Only summarize this user (platform:id, an id, or a display name)")
	cmd.Flags().StringVarP(&f.instruction, "instruction", "i", "", "Extra question answered after the summary")
	cmd.Flags().StringVar(&f.anchor, "anchor", "", "Start the window at this message id")
	cmd.Flags().StringVar(&f.model, "model", "", "Override the configured model")
	cmd.Flags().BoolVar(&f.markup, "markup", false, "Print the reply as chat markup")
	cmd.Flags().BoolVar(&f.copy, "copy", false, "Copy the reply to the clipboard")
	cmd.Flags().IntVar(&f.width, "width", 80, "Render width")
	_ = cmd.MarkFlagRequired("platform")

	return cmd
}

func (a *app) summarize(ctx context.Context, out, errOut io.Writer, f summarizeFlags, args []string) error {
	pipeline, store, err := a.pipeline(f.model)
	if err != nil {
		return err
	}
	defer store.Close()

	req := &tldr.Request{
		PlatformID: f.platform,
		Guild:      f.guild,
		AnchorID:   f.anchor,
		User:       f.user,
		Extra:      f.instruction,
		OnNotice: func(_ context.Context, text string) error {
			_, err := fmt.Fprintln(errOut, ui.RenderNotice(text))
			return err
		},
	}

	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			// 0 is rejected as an invalid count after the guild checks
			n = 0
		}
		req.RequestedCount = tldr.CountOf(n)
	}

	resp := pipeline.Run(ctx, req)
	if resp.Reply == nil {
		return a.printText(out, f, resp.Text)
	}

	text := ui.RenderReply(*resp.Reply, f.width)
	clip := resp.Reply.String()
	if f.markup {
		text = resp.Reply.Markup()
		clip = text
	}
	if _, err := fmt.Fprintln(out, text); err != nil {
		return err
	}

	if f.copy {
		if err := writeClipboard(clip); err != nil {
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}
		log.Debug().Int("bytes", len(clip)).Msg("reply copied to clipboard")
	}
	return nil
}

func (a *app) printText(out io.Writer, f summarizeFlags, text string) error {
	if !f.markup {
		text = ui.RenderText(text)
	}
	_, err := fmt.Fprintln(out, text)
	return err
}
