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
	"context"

	"github.com/recallcards/recall/pkg/deck"
)

// KeyKind is the kind of a key event
type KeyKind int

const (
	// KeyRune is a printable character
	KeyRune KeyKind = iota
	KeySpace
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyEscape
	KeyEnter
	// KeyModifierDown is the press of the hotkey help modifier
	KeyModifierDown
	// KeyModifierUp is the release of the hotkey help modifier
	KeyModifierUp
)

// KeyEvent is a key press or release
type KeyEvent struct {
	Kind KeyKind
	Rune rune
}

// Action is what a key event asks the session to do
type Action int

const (
	ActionNone Action = iota
	ActionFlip
	ActionNext
	ActionPrev
	ActionSetStatus
	ActionFocusChat
	ActionBlurChat
	ActionShowHelp
	ActionHideHelp
)

// Command is the result of dispatching a key event
type Command struct {
	Action Action
	// Status is set for ActionSetStatus
	Status deck.Status
}

// FocusChatRune is the key that moves focus to the chat input
const FocusChatRune = '/'

// Dispatcher maps key events to commands. While the chat input has focus,
// every key other than the help modifier and escape is left to the input.
type Dispatcher struct {
	chatFocused bool
	helpVisible bool
}

// ChatFocused returns true if the chat input has focus
func (d *Dispatcher) ChatFocused() bool {
	return d.chatFocused
}

// HelpVisible returns true while the hotkey help is shown
func (d *Dispatcher) HelpVisible() bool {
	return d.helpVisible
}

// SetChatFocus moves focus to or away from the chat input
func (d *Dispatcher) SetChatFocus(focused bool) {
	d.chatFocused = focused
}

func statusForRune(r rune) (deck.Status, bool) {
	idx := int(r - '1')
	if idx < 0 || idx >= len(deck.Statuses) {
		return "", false
	}

	return deck.Statuses[idx], true
}

// Dispatch returns the command for the given key event
func (d *Dispatcher) Dispatch(ev KeyEvent) Command {
	switch ev.Kind {
	case KeyModifierDown:
		d.helpVisible = true
		return Command{Action: ActionShowHelp}
	case KeyModifierUp:
		d.helpVisible = false
		return Command{Action: ActionHideHelp}
	}

	if d.chatFocused {
		if ev.Kind == KeyEscape {
			d.chatFocused = false
			return Command{Action: ActionBlurChat}
		}

		return Command{Action: ActionNone}
	}

	switch ev.Kind {
	case KeySpace, KeyLeft, KeyRight:
		return Command{Action: ActionFlip}
	case KeyDown:
		return Command{Action: ActionNext}
	case KeyUp:
		return Command{Action: ActionPrev}
	case KeyRune:
		if ev.Rune == ' ' {
			return Command{Action: ActionFlip}
		}
		if ev.Rune == FocusChatRune {
			d.chatFocused = true
			return Command{Action: ActionFocusChat}
		}
		if status, ok := statusForRune(ev.Rune); ok {
			return Command{Action: ActionSetStatus, Status: status}
		}
	}

	return Command{Action: ActionNone}
}

// Handle runs the session side of a command. Chat focus and help
// visibility are left to the caller.
func (s *Session) Handle(ctx context.Context, cmd Command) error {
	switch cmd.Action {
	case ActionFlip:
		s.Flip()
	case ActionNext:
		s.Advance(Next)
	case ActionPrev:
		s.Advance(Prev)
	case ActionSetStatus:
		return s.SetStatus(ctx, cmd.Status)
	}

	return nil
}
