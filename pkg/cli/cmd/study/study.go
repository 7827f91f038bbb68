/* Copyright 2025 Dnote Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package study

import (
	stdcontext "context"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/recallcards/recall/pkg/cli/client"
	"github.com/recallcards/recall/pkg/cli/context"
	"github.com/recallcards/recall/pkg/cli/infra"
	"github.com/recallcards/recall/pkg/cli/log"
	"github.com/recallcards/recall/pkg/cli/output"
	"github.com/recallcards/recall/pkg/cli/ui"
	"github.com/recallcards/recall/pkg/deck"
	"github.com/recallcards/recall/pkg/history"
	st "github.com/recallcards/recall/pkg/study"
	"github.com/spf13/cobra"
)

const (
	quitRune = 'q'
	helpRune = '?'

	// maxChatContext is the number of transcript messages sent with a
	// question
	maxChatContext = 20
	// maxChatTranscript is the number of messages kept in the transcript
	maxChatTranscript = 100
)

var refreshFlag bool

var example = `
 * Study a deck
 recall study biology

 * Fetch the cards from the server instead of the local history
 recall study biology --refresh`

func preRun(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return errors.New("Incorrect number of argument")
	}

	return nil
}

// NewCmd returns a new study command
func NewCmd(ctx context.RecallCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "study <deck>",
		Short:   "Study the cards of a deck",
		Aliases: []string{"s"},
		Example: example,
		PreRunE: preRun,
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.BoolVarP(&refreshFlag, "refresh", "", false, "fetch the cards from the server")

	return cmd
}

type keyReader interface {
	ReadKey() (st.KeyEvent, error)
	ReadLine() (string, error)
}

// lineMode runs fn with the terminal in line input mode
type lineMode func(fn func() error) error

type runner struct {
	ctx        context.RecallCtx
	session    *st.Session
	dispatcher *st.Dispatcher
	history    *history.Cache
	keys       keyReader
	out        io.Writer
	lineMode   lineMode

	mu     sync.Mutex
	notice string
}

func newRunner(ctx context.RecallCtx, keys keyReader, out io.Writer, lm lineMode) *runner {
	h := infra.NewHistory(ctx)
	rnd := rand.New(rand.NewSource(ctx.Clock.Now().UnixNano()))

	r := &runner{
		ctx:        ctx,
		session:    st.NewSession(client.NewSource(ctx), h, rnd),
		dispatcher: &st.Dispatcher{},
		history:    h,
		keys:       keys,
		out:        out,
		lineMode:   lm,
	}
	r.session.OnError = func(err error) {
		log.Debug("%s\n", err.Error())
		r.setNotice(log.ColorRed.Sprint(err.Error()))
	}

	return r
}

func (r *runner) setNotice(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.notice = s
}

func (r *runner) getNotice() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.notice
}

func (r *runner) render() {
	card, ok := r.session.Current()
	if !ok {
		return
	}

	output.Study(r.out, output.StudyView{
		DeckName:    r.session.DeckName(),
		Card:        card,
		Index:       r.session.Index(),
		Total:       len(r.session.Cards()),
		Flipped:     r.session.IsFlipped(),
		HelpVisible: r.dispatcher.HelpVisible(),
		Notice:      r.getNotice(),
	})
}

// translate maps the keys that only the terminal front end knows about.
// The help overlay is toggled because a terminal does not report the
// release of a key.
func (r *runner) translate(ev st.KeyEvent) (st.KeyEvent, bool) {
	if ev.Kind != st.KeyRune || r.dispatcher.ChatFocused() {
		return ev, false
	}

	switch ev.Rune {
	case quitRune:
		return ev, true
	case helpRune:
		if r.dispatcher.HelpVisible() {
			return st.KeyEvent{Kind: st.KeyModifierUp}, false
		}

		return st.KeyEvent{Kind: st.KeyModifierDown}, false
	}

	return ev, false
}

// loop handles key presses until the user quits or the input ends
func (r *runner) loop(c stdcontext.Context) error {
	for {
		r.render()

		ev, err := r.keys.ReadKey()
		if err == io.EOF || err == ui.ErrInterrupted {
			return nil
		} else if err != nil {
			return errors.Wrap(err, "reading a key")
		}

		ev, quit := r.translate(ev)
		if quit {
			return nil
		}

		r.setNotice("")

		cmd := r.dispatcher.Dispatch(ev)
		if cmd.Action == st.ActionFocusChat {
			r.chat(c)
			r.dispatcher.SetChatFocus(false)
			continue
		}

		if err := r.session.Handle(c, cmd); err != nil {
			r.setNotice(log.ColorRed.Sprint(err.Error()))
		}
	}
}

func toClientMessages(messages []history.ChatMessage) []client.Message {
	ret := make([]client.Message, 0, len(messages))
	for _, m := range messages {
		ret = append(ret, client.Message{Role: m.Role, Content: m.Content})
	}

	return ret
}

func lastMessages(messages []history.ChatMessage, n int) []history.ChatMessage {
	if len(messages) <= n {
		return messages
	}

	return messages[len(messages)-n:]
}

// describe returns the message of the server for errors that carry one
func describe(err error) string {
	var httpErr *client.HTTPError
	if errors.As(err, &httpErr) && httpErr.Message != "" {
		return httpErr.Message
	}

	return err.Error()
}

// chat shows the transcript of the deck, reads a question and asks the
// tutor. The reply is shown as the notice under the card.
func (r *runner) chat(c stdcontext.Context) {
	deckName := r.session.DeckName()
	transcript := r.history.LoadChat(deckName)

	fmt.Fprintln(r.out)
	for _, m := range transcript {
		output.ChatMessage(r.out, m)
	}
	fmt.Fprintf(r.out, "  %s ", log.ColorBlue.Sprint("ask:"))

	var question string
	err := r.lineMode(func() error {
		line, err := r.keys.ReadLine()
		question = line
		return err
	})
	if err != nil && err != io.EOF {
		r.setNotice(log.ColorRed.Sprint(errors.Wrap(err, "reading the question").Error()))
		return
	}

	question = strings.TrimSpace(question)
	if question == "" {
		return
	}

	messages := append(transcript, history.ChatMessage{Role: "user", Content: question})

	resp, err := client.Chat(r.ctx, deckName, toClientMessages(lastMessages(messages, maxChatContext)))
	if err != nil {
		r.setNotice(log.ColorRed.Sprintf("the tutor could not answer: %s", describe(err)))
		return
	}

	messages = append(messages, history.ChatMessage{Role: "assistant", Content: resp.Reply})
	if err := r.history.SaveChat(deckName, lastMessages(messages, maxChatTranscript)); err != nil {
		log.Debug("saving chat transcript: %s\n", err.Error())
	}

	r.setNotice(fmt.Sprintf("%s %s", log.ColorGreen.Sprint("tutor:"), resp.Reply))
}

// Do studies the deck until the user quits. Status changes still being
// saved are waited for before it returns.
func Do(c stdcontext.Context, ctx context.RecallCtx, deckName string, keys keyReader, out io.Writer, lm lineMode) error {
	me, err := client.GetMe(ctx)
	if err != nil {
		return err
	}

	deckName = deck.NormalizeName(deckName)
	r := newRunner(ctx, keys, out, lm)
	defer r.session.Wait()

	err = r.session.Load(c, deckName, me.UUID)
	if err == st.ErrDeckNotFound {
		return errors.Errorf("%s has no cards to study", deckName)
	} else if err != nil {
		return errors.Wrap(err, "loading the deck")
	}

	return r.loop(c)
}

func newRun(ctx context.RecallCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		if err := infra.RequireLogin(ctx); err != nil {
			return err
		}

		deckName := deck.NormalizeName(args[0])
		if refreshFlag {
			infra.ForgetDecks(ctx, deckName)
		}

		in := cmd.InOrStdin()
		restore, err := ui.MakeRaw(in)
		if err != nil {
			return err
		}
		defer func() {
			restore()
		}()

		lm := func(fn func() error) error {
			restore()
			defer func() {
				raw, err := ui.MakeRaw(in)
				if err != nil {
					log.Debug("re-entering raw mode: %s\n", err.Error())
					raw = func() {}
				}
				restore = raw
			}()

			return fn()
		}

		out := ui.NewRawWriter(color.Output)
		if err := Do(cmd.Context(), ctx, deckName, ui.NewKeyReader(in), out, lm); err != nil {
			return err
		}

		fmt.Fprint(out, output.ClearScreen)

		return nil
	}
}
