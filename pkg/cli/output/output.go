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

// Package output provides functions to print informations on the terminal
// in a consistent manner
package output

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/recallcards/recall/pkg/cli/client"
	"github.com/recallcards/recall/pkg/cli/log"
	"github.com/recallcards/recall/pkg/deck"
	"github.com/recallcards/recall/pkg/history"
	"github.com/recallcards/recall/pkg/study"
)

// ClearScreen moves the cursor home and clears the terminal
const ClearScreen = "\x1b[H\x1b[2J"

// Decks prints a deck listing. Owners are printed for decks of other users.
func Decks(w io.Writer, decks []client.Deck, showOwner bool) {
	if len(decks) == 0 {
		fmt.Fprintf(w, "  no decks\n")
		return
	}

	for _, d := range decks {
		line := fmt.Sprintf("  %s %s", log.ColorBold.Sprint(d.Name), log.ColorGray.Sprintf("(%d)", d.CardCount))
		if showOwner {
			line = fmt.Sprintf("%s by %s %s", line, d.Owner.Handle, log.ColorGray.Sprint(d.Owner.UUID))
		}

		fmt.Fprintln(w, line)
	}
}

// Cards prints the real cards of a deck
func Cards(w io.Writer, cards []deck.Card) {
	realCards := deck.RealCards(cards)
	if len(realCards) == 0 {
		fmt.Fprintf(w, "  no cards\n")
		return
	}

	for i, c := range realCards {
		fmt.Fprintf(w, "  %s %s\n", log.ColorYellow.Sprintf("(%d)", i+1), c.Question)
		fmt.Fprintf(w, "      %s\n", log.ColorGray.Sprint(c.Answer))
		fmt.Fprintf(w, "      %s\n", log.ColorGray.Sprint(c.UUID))
	}
}

// Slots prints the cards drafted by a generation
func Slots(w io.Writer, slots []client.CardSlot) {
	for i, s := range slots {
		fmt.Fprintf(w, "  %s Q: %s\n", log.ColorYellow.Sprintf("(%d)", i+1), s.Question)
		fmt.Fprintf(w, "      A: %s\n", s.Answer)
	}
}

// RecentDeck is a deck of the history cache with its mastered card count.
// Mastered is negative when the count is unknown.
type RecentDeck struct {
	Entry    history.Entry
	Mastered int64
}

// Age formats the time elapsed since t
func Age(now, t time.Time) string {
	d := now.Sub(t)

	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	}

	return fmt.Sprintf("%dd ago", int(d.Hours()/24))
}

// Recent prints the recently studied decks
func Recent(w io.Writer, now time.Time, decks []RecentDeck) {
	if len(decks) == 0 {
		fmt.Fprintf(w, "  no recent decks\n")
		return
	}

	for _, d := range decks {
		mastered := "?"
		if d.Mastered >= 0 {
			mastered = fmt.Sprintf("%d", d.Mastered)
		}

		expired := ""
		if now.Sub(d.Entry.WrittenAt()) > history.TTL {
			expired = log.ColorRed.Sprint(" expired")
		}

		fmt.Fprintf(w, "  %s %s %s%s\n",
			log.ColorBold.Sprint(d.Entry.DeckName),
			log.ColorGreen.Sprintf("%s/%d mastered", mastered, d.Entry.CardCount),
			log.ColorGray.Sprint(Age(now, d.Entry.WrittenAt())),
			expired,
		)
	}
}

var statusColors = map[deck.Status]func(a ...interface{}) string{
	deck.StatusNew:       log.ColorBlue.Sprint,
	deck.StatusLearning:  log.ColorYellow.Sprint,
	deck.StatusReviewing: log.ColorCyan.Sprint,
	deck.StatusMastered:  log.ColorGreen.Sprint,
}

// Status returns the colored name of a status
func Status(s deck.Status) string {
	if fn, ok := statusColors[s]; ok {
		return fn(string(s))
	}

	return string(s)
}

// StudyView is the state of the study screen
type StudyView struct {
	DeckName    string
	Card        study.ViewCard
	Index       int
	Total       int
	Flipped     bool
	HelpVisible bool
	// Notice is a one-line message shown under the card
	Notice string
}

// cardIndent shifts the card by its random offset
func cardIndent(offsetX float64) string {
	return strings.Repeat(" ", 4+int(math.Round(offsetX)))
}

// Help prints the hotkeys
func Help(w io.Writer) {
	fmt.Fprintf(w, "  %s flip   %s next   %s previous\n",
		log.ColorBold.Sprint("space/←/→"), log.ColorBold.Sprint("↓"), log.ColorBold.Sprint("↑"))
	statuses := make([]string, len(deck.Statuses))
	for i, s := range deck.Statuses {
		statuses[i] = fmt.Sprintf("%s %s", log.ColorBold.Sprintf("%d", i+1), Status(s))
	}
	fmt.Fprintf(w, "  %s\n", strings.Join(statuses, "  "))
	fmt.Fprintf(w, "  %s ask the tutor   %s help   %s quit\n",
		log.ColorBold.Sprint("/"), log.ColorBold.Sprint("?"), log.ColorBold.Sprint("q"))
}

// Study prints the study screen
func Study(w io.Writer, v StudyView) {
	fmt.Fprint(w, ClearScreen)
	fmt.Fprintf(w, "  %s  %s  %s\n\n",
		log.ColorBold.Sprint(v.DeckName),
		log.ColorGray.Sprintf("%d/%d", v.Index+1, v.Total),
		Status(v.Card.Status),
	)

	indent := cardIndent(v.Card.OffsetX)
	if v.Flipped {
		fmt.Fprintf(w, "%s%s\n", indent, log.ColorGray.Sprint("A:"))
		for _, line := range strings.Split(v.Card.Answer, "\n") {
			fmt.Fprintf(w, "%s%s\n", indent, line)
		}
	} else {
		fmt.Fprintf(w, "%s%s\n", indent, log.ColorGray.Sprint("Q:"))
		for _, line := range strings.Split(v.Card.Question, "\n") {
			fmt.Fprintf(w, "%s%s\n", indent, log.ColorBold.Sprint(line))
		}
	}
	fmt.Fprintln(w)

	if v.Notice != "" {
		fmt.Fprintf(w, "  %s\n\n", v.Notice)
	}

	if v.HelpVisible {
		Help(w)
		return
	}

	fmt.Fprintf(w, "  %s\n", log.ColorGray.Sprint("press ? for help"))
}

// ChatMessage prints a message of a tutor chat
func ChatMessage(w io.Writer, m history.ChatMessage) {
	label := log.ColorBlue.Sprint("you")
	if m.Role == "assistant" {
		label = log.ColorGreen.Sprint("tutor")
	}

	fmt.Fprintf(w, "  %s: %s\n", label, m.Content)
}
